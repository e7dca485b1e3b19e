// Package web is the browser front end: Microsoft sign-in, on-demand Datafeed scans kept in
// the user's session, CSV download and consistency reports.
package web

import (
	"context"
	"net/http"
	"time"

	"blobaudit.dev/pkg/auth"
	"blobaudit.dev/pkg/blobstore"
	"blobaudit.dev/pkg/consistency"
	"blobaudit.dev/pkg/datafeed"
	"blobaudit.dev/pkg/logging"
	"blobaudit.dev/pkg/metrics"
	"blobaudit.dev/pkg/session"
)

// StoreFactory returns the blob store acting for the session's user.
type StoreFactory func(sess *session.Session) (blobstore.Store, error)

// Options configures a Server. Masters may be nil, which disables /check.
type Options struct {
	Logger        logging.Logger
	Metrics       *metrics.Metrics
	Authenticator auth.Authenticator
	Sessions      *session.Store
	Cookies       *session.Cookies
	Stores        StoreFactory
	Masters       *consistency.Masters
	ScanMode      datafeed.Mode
	ExtraPolicy   consistency.ExtraPolicy
	SchemaExclude []string
	Container     string
	Demo          bool
}

type Server struct {
	Options

	now func() time.Time
}

func New(opts *Options) *Server {
	return &Server{Options: *opts, now: time.Now}
}

// Context is what a page handler sees of the request.
type Context struct {
	context.Context

	Request *http.Request
	Session *session.Session

	logout bool
}

// Logout drops the session once the handler returns.
func (c *Context) Logout() {
	c.logout = true
}

// Handler returns a Page, Redirect, File or a JSON-encodable value.
type Handler func(c *Context) (any, error)

// Handler builds the router with every route of the app.
func (s *Server) Handler() http.Handler {
	r := NewRouter()

	r.Add(http.MethodGet, "/", s.wrap(s.index))
	r.Add(http.MethodGet, "/login", s.wrap(s.login))
	r.Add(http.MethodGet, "/callback", s.wrap(s.callback))
	r.Add(http.MethodGet, "/logout", s.wrap(s.logout))
	r.Add(http.MethodGet, "/dashboard", s.wrap(s.requireUser(s.dashboard)))
	r.Add(http.MethodPost, "/scan", s.wrap(s.requireUser(s.scan)))
	r.Add(http.MethodGet, "/results", s.wrap(s.requireUser(s.results)))
	r.Add(http.MethodGet, "/download-csv", s.wrap(s.requireUser(s.downloadCSV)))
	r.Add(http.MethodPost, "/clear-results", s.wrap(s.requireUser(s.clearResults)))
	r.Add(http.MethodGet, "/check", s.wrap(s.requireUser(s.check)))
	r.Add(http.MethodGet, "/health", s.plain(s.health))

	if s.Metrics != nil {
		r.Add(http.MethodGet, "/metrics", s.Metrics.Handler())
		r.UseMiddleware(s.Metrics.Middleware)
	}

	r.NotFoundHandler = s.plain(func(*Context) (any, error) { return nil, errPageNotFound })

	return r
}

// wrap loads the session around h and persists it before the response is written.
func (s *Server) wrap(h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := &Context{Context: r.Context(), Request: r, Session: s.Cookies.LoadOrNew(r)}

		data, err := h(c)

		if c.logout {
			s.Sessions.Delete(c.Session.ID)
			s.Cookies.Clear(w, r)
		} else if saveErr := s.Cookies.Save(w, c.Session); saveErr != nil {
			s.Logger.Errorf("saving session: %v", saveErr)
		}

		NewResponder(w, r, s.Logger).Respond(data, err)
	})
}

// plain serves h without touching sessions.
func (s *Server) plain(h Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := h(&Context{Context: r.Context(), Request: r})

		NewResponder(w, r, s.Logger).Respond(data, err)
	})
}

// requireUser sends anonymous users, and users whose storage token expired, to the start page.
func (s *Server) requireUser(h Handler) Handler {
	return func(c *Context) (any, error) {
		if !c.Session.Authenticated() {
			return Redirect{URL: "/"}, nil
		}

		if c.Session.Token == nil || c.Session.Token.Expired() {
			c.Session.User, c.Session.Token = nil, nil
			return Redirect{URL: "/"}, nil
		}

		return h(c)
	}
}

// SweepSessions drops expired sessions every interval until ctx is done.
func (s *Server) SweepSessions(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if n := s.Sessions.Sweep(); n > 0 {
				s.Logger.Debugf("dropped %d expired session(s)", n)
			}
		}
	}
}
