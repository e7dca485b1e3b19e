package auth

import (
	"context"
	"errors"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
)

// DefaultTokenLifetime applies when the identity provider does not report an expiry.
const DefaultTokenLifetime = time.Hour

var errTokenExpired = errors.New("access token expired, sign in again")

// UserToken is an access token obtained by the web sign-in, handed to the Azure SDK as a
// credential. It cannot refresh itself: once expired every request fails until the user signs
// in again.
type UserToken struct {
	AccessToken string
	ExpiresOn   time.Time
}

// NewUserToken wraps token. A zero expiry means DefaultTokenLifetime from now.
func NewUserToken(token string, expiresOn time.Time) *UserToken {
	if expiresOn.IsZero() {
		expiresOn = time.Now().Add(DefaultTokenLifetime)
	}

	return &UserToken{AccessToken: token, ExpiresOn: expiresOn}
}

// GetToken ignores the requested scopes; the token was issued for storage user_impersonation.
func (t *UserToken) GetToken(_ context.Context, _ policy.TokenRequestOptions) (azcore.AccessToken, error) {
	if time.Now().After(t.ExpiresOn) {
		return azcore.AccessToken{}, errTokenExpired
	}

	return azcore.AccessToken{Token: t.AccessToken, ExpiresOn: t.ExpiresOn}, nil
}

func (t *UserToken) Expired() bool {
	return time.Now().After(t.ExpiresOn)
}
