package auth

import (
	"context"
	"net/url"
	"time"
)

// DemoUser is signed in automatically in demo mode.
var DemoUser = User{
	Name:     "Demo User",
	Email:    "demo.user@example.com",
	OID:      "demo-user-12345",
	TenantID: "demo-tenant",
}

const demoToken = "demo-token-12345"

// Demo skips the identity provider: the login URL points straight back at the callback.
type Demo struct{}

func (Demo) LoginURL(state, redirectURL string) string {
	v := url.Values{}
	v.Set("code", "demo")
	v.Set("state", state)

	return redirectURL + "?" + v.Encode()
}

func (Demo) Exchange(context.Context, string, string) (*Login, error) {
	return &Login{User: DemoUser, Token: NewUserToken(demoToken, time.Time{})}, nil
}
