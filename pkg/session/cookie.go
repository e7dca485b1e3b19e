package session

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/golang-jwt/jwt/v4"
)

// CookieName is the name of the session cookie.
const CookieName = "blobaudit_session"

var (
	ErrNoSession               = errors.New("no session")
	errEmptySecret             = errors.New("session secret cannot be empty")
	errUnexpectedSigningMethod = errors.New("unexpected signing method")
)

// Cookies binds sessions to browsers. The cookie carries the session id signed with the
// session secret (HMAC-SHA256), so a forged or altered id is rejected before the store is read.
type Cookies struct {
	store  *Store
	secret []byte
	secure bool
}

// NewCookies returns the cookie codec for store. Secure cookies are issued in production.
func NewCookies(store *Store, secret string, secure bool) (*Cookies, error) {
	if secret == "" {
		return nil, errEmptySecret
	}

	return &Cookies{store: store, secret: []byte(secret), secure: secure}, nil
}

// Sign returns the cookie value for a session id.
func (c *Cookies) Sign(id string, expires time.Time) (string, error) {
	claims := jwt.RegisteredClaims{
		ID:        id,
		ExpiresAt: jwt.NewNumericDate(expires),
	}

	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.secret)
}

// Verify checks the signature and expiry of a cookie value and returns the session id.
func (c *Cookies) Verify(value string) (string, error) {
	keyFn := func(token *jwt.Token) (any, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, errUnexpectedSigningMethod
		}

		return c.secret, nil
	}

	claims := &jwt.RegisteredClaims{}

	token, err := jwt.ParseWithClaims(value, claims, keyFn)
	if err != nil {
		return "", fmt.Errorf("invalid session cookie: %w", err)
	}

	if !token.Valid || claims.ID == "" {
		return "", ErrNoSession
	}

	return claims.ID, nil
}

// Load returns the session of the request, or ErrNoSession when the cookie is missing,
// tampered with, or points at an expired session.
func (c *Cookies) Load(r *http.Request) (*Session, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, ErrNoSession
	}

	id, err := c.Verify(cookie.Value)
	if err != nil {
		return nil, err
	}

	sess, ok := c.store.Get(id)
	if !ok {
		return nil, ErrNoSession
	}

	return sess, nil
}

// LoadOrNew returns the request's session, starting a fresh one when there is none.
func (c *Cookies) LoadOrNew(r *http.Request) *Session {
	if sess, err := c.Load(r); err == nil {
		return sess
	}

	return c.store.New()
}

// Save persists sess and (re)issues its cookie.
func (c *Cookies) Save(w http.ResponseWriter, sess *Session) error {
	c.store.Save(sess)

	expires, _ := c.store.Expiry(sess.ID)

	value, err := c.Sign(sess.ID, expires)
	if err != nil {
		return err
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    value,
		Path:     "/",
		Expires:  expires,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})

	return nil
}

// Clear deletes the session of the request and expires its cookie.
func (c *Cookies) Clear(w http.ResponseWriter, r *http.Request) {
	if sess, err := c.Load(r); err == nil {
		c.store.Delete(sess.ID)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   c.secure,
		SameSite: http.SameSiteLaxMode,
	})
}
