package auth

import (
	"context"
	"fmt"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/microsoft"
)

// StorageScope grants access to blob storage on behalf of the signed-in user.
const StorageScope = "https://storage.azure.com/user_impersonation"

// Scopes requested at sign-in: storage access plus the profile for the ID token.
var Scopes = []string{StorageScope, "openid", "profile", "email"}

// Login is the result of a completed sign-in.
type Login struct {
	User  User
	Token *UserToken
}

// Authenticator runs the authorization code flow of the web app.
type Authenticator interface {
	// LoginURL is where the browser is sent to sign in. The provider redirects back to
	// redirectURL with state and an authorization code.
	LoginURL(state, redirectURL string) string
	// Exchange trades the authorization code for a token and the user's identity.
	Exchange(ctx context.Context, code, redirectURL string) (*Login, error)
}

// OAuth signs users in with Microsoft Entra ID.
type OAuth struct {
	config oauth2.Config
}

func NewOAuth(clientID, clientSecret, tenantID string) *OAuth {
	return &OAuth{config: oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     microsoft.AzureADEndpoint(tenantID),
		Scopes:       Scopes,
	}}
}

// withRedirect returns a copy of the config for one request; the redirect URL depends on the
// host the request came in on.
func (o *OAuth) withRedirect(redirectURL string) *oauth2.Config {
	c := o.config
	c.RedirectURL = redirectURL

	return &c
}

func (o *OAuth) LoginURL(state, redirectURL string) string {
	return o.withRedirect(redirectURL).AuthCodeURL(state)
}

func (o *OAuth) Exchange(ctx context.Context, code, redirectURL string) (*Login, error) {
	tok, err := o.withRedirect(redirectURL).Exchange(ctx, code)
	if err != nil {
		return nil, fmt.Errorf("failed to acquire token: %w", err)
	}

	raw, _ := tok.Extra("id_token").(string)

	claims, err := ParseIDToken(raw)
	if err != nil {
		return nil, err
	}

	return &Login{
		User:  UserFromClaims(claims),
		Token: NewUserToken(tok.AccessToken, tok.Expiry),
	}, nil
}
