package auth

import (
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v4"
)

var errNoIDToken = errors.New("token response carries no id_token")

// User is the signed-in identity shown in the web app.
type User struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	OID      string `json:"oid"`
	TenantID string `json:"tenant_id"`
}

// UserFromClaims reads the identity from ID-token claims. The email falls back from
// preferred_username to email; a missing name reads "Unknown User".
func UserFromClaims(claims jwt.MapClaims) User {
	u := User{
		Name:     stringClaim(claims, "name"),
		Email:    stringClaim(claims, "preferred_username"),
		OID:      stringClaim(claims, "oid"),
		TenantID: stringClaim(claims, "tid"),
	}

	if u.Name == "" {
		u.Name = "Unknown User"
	}

	if u.Email == "" {
		u.Email = stringClaim(claims, "email")
	}

	return u
}

// ParseIDToken decodes the claims of an ID token without verifying its signature. The token
// comes straight from the token endpoint over TLS in the code exchange, never from the browser.
func ParseIDToken(raw string) (jwt.MapClaims, error) {
	if raw == "" {
		return nil, errNoIDToken
	}

	claims := jwt.MapClaims{}

	if _, _, err := jwt.NewParser().ParseUnverified(raw, claims); err != nil {
		return nil, fmt.Errorf("invalid id token: %w", err)
	}

	return claims, nil
}

func stringClaim(claims jwt.MapClaims, key string) string {
	s, _ := claims[key].(string)
	return s
}
