package web

import (
	"bytes"
	"fmt"
	"net/http"

	"github.com/google/uuid"

	"blobaudit.dev/pkg/consistency"
	"blobaudit.dev/pkg/datafeed"
	"blobaudit.dev/pkg/report"
)

const reportFileName = "datafeed_report.csv"

var errNoMasters = &Error{
	Status:  http.StatusServiceUnavailable,
	Title:   "Check Unavailable",
	Message: "No masters file is loaded; set MASTERS_FILE and restart.",
}

func (s *Server) baseView(c *Context, title string) view {
	return view{Title: title, User: c.Session.User, Demo: s.Demo, Container: s.Container, Mode: s.ScanMode}
}

func (s *Server) index(c *Context) (any, error) {
	if c.Session.Authenticated() {
		return Redirect{URL: "/dashboard"}, nil
	}

	return Page{Name: "index", Data: s.baseView(c, "Welcome")}, nil
}

func (s *Server) login(c *Context) (any, error) {
	state := uuid.NewString()
	c.Session.OAuthState = state

	return Redirect{URL: s.Authenticator.LoginURL(state, redirectURL(c.Request))}, nil
}

// redirectURL is the callback on the host the request came in on. X-Forwarded-Proto is
// honoured for deployments behind a TLS terminating proxy.
func redirectURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}

	return scheme + "://" + r.Host + "/callback"
}

func (s *Server) callback(c *Context) (any, error) {
	q := c.Request.URL.Query()

	if state := q.Get("state"); state == "" || state != c.Session.OAuthState {
		return nil, &Error{Status: http.StatusBadRequest, Title: "Authentication Error",
			Message: "Invalid state parameter. Possible CSRF attack."}
	}

	code := q.Get("code")
	if code == "" {
		desc := q.Get("error_description")
		if desc == "" {
			desc = "Unknown error"
		}

		return nil, &Error{Status: http.StatusBadRequest, Title: "Login Failed",
			Message: "Authorization failed: " + desc}
	}

	login, err := s.Authenticator.Exchange(c, code, redirectURL(c.Request))
	if err != nil {
		return nil, &Error{Status: http.StatusBadRequest, Title: "Authentication Failed", Message: err.Error(), Err: err}
	}

	c.Session.User = &login.User
	c.Session.Token = login.Token
	c.Session.OAuthState = ""

	s.Logger.Infof("%s signed in", login.User.Email)

	return Redirect{URL: "/dashboard"}, nil
}

func (s *Server) logout(c *Context) (any, error) {
	c.Logout()

	return Redirect{URL: "/"}, nil
}

func (s *Server) dashboard(c *Context) (any, error) {
	v := s.baseView(c, "Dashboard")
	v.HasResults = c.Session.Scan != nil

	return Page{Name: "dashboard", Data: v}, nil
}

func (s *Server) scanner(c *Context) (*datafeed.Scanner, error) {
	store, err := s.Stores(c.Session)
	if err != nil {
		return nil, err
	}

	return datafeed.NewScanner(store, s.ScanMode, s.Logger, s.Metrics), nil
}

// scan runs synchronously and keeps the result in the session. An empty scan stores nothing.
func (s *Server) scan(c *Context) (any, error) {
	sc, err := s.scanner(c)
	if err != nil {
		return nil, failed("Scan Failed", err)
	}

	res, err := sc.Scan(c, "")
	if err != nil {
		return nil, failed("Scan Failed", err)
	}

	c.Session.Scan, c.Session.ScannedAt = nil, s.now()

	if len(res.Tables()) > 0 {
		c.Session.Scan = res
	}

	s.Logger.Infof("%s scanned %d folder(s), %d table(s), %d failure(s)",
		c.Session.User.Email, len(res.Folders), len(res.Tables()), len(res.Failures))

	return Redirect{URL: "/results"}, nil
}

func (s *Server) results(c *Context) (any, error) {
	if c.Session.Scan == nil {
		return Redirect{URL: "/dashboard"}, nil
	}

	tables := c.Session.Scan.Tables()

	v := s.baseView(c, "Results")
	v.HasResults = true
	v.ScannedAt = c.Session.ScannedAt
	v.Stats = Stats(tables)
	v.Rows = Rows(tables)

	for _, f := range c.Session.Scan.Failures {
		v.Failures = append(v.Failures, f.Error())
	}

	return Page{Name: "results", Data: v}, nil
}

func (s *Server) downloadCSV(c *Context) (any, error) {
	if c.Session.Scan == nil {
		return nil, &Error{Status: http.StatusNotFound, Title: "No Results", Message: "No results to download"}
	}

	var buf bytes.Buffer

	if err := report.WriteTables(&buf, c.Session.Scan.Tables()); err != nil {
		return nil, failed("Download Failed", err)
	}

	return File{
		Content:     buf.Bytes(),
		ContentType: "text/csv",
		Headers:     map[string]string{"Content-Disposition": "attachment;filename=" + reportFileName},
	}, nil
}

func (s *Server) clearResults(c *Context) (any, error) {
	c.Session.Scan = nil

	return Redirect{URL: "/dashboard"}, nil
}

// check renders the expectation check, or with ?report=tables|columns the comparison of the
// last scan (a fresh scan when there is none) against the master paths. ?report=schema
// validates the columns of that scan and works without a masters file.
func (s *Server) check(c *Context) (any, error) {
	kind := c.Request.URL.Query().Get("report")

	switch kind {
	case "", "tables", "columns":
		if s.Masters == nil {
			return nil, errNoMasters
		}
	case "schema":
	default:
		return nil, &Error{Status: http.StatusBadRequest, Title: "Unknown Report",
			Message: fmt.Sprintf("report %q is not one of tables, columns or schema", kind)}
	}

	sc, err := s.scanner(c)
	if err != nil {
		return nil, failed("Check Failed", err)
	}

	var buf bytes.Buffer

	if kind == "" {
		rep := consistency.NewChecker(sc, s.ExtraPolicy, s.Logger, s.Metrics).CheckAll(c, s.Masters.Expectations)

		if err := report.ResultsHTML(&buf, rep); err != nil {
			return nil, failed("Check Failed", err)
		}

		return File{Content: buf.Bytes(), ContentType: report.ContentTypeHTML}, nil
	}

	tables, err := s.lastTables(c, sc)
	if err != nil {
		return nil, failed("Check Failed", err)
	}

	switch kind {
	case "tables":
		err = report.TablesHTML(&buf, consistency.CompareTables(tables, s.Masters.MasterPaths), s.now())
	case "columns":
		err = report.ColumnsHTML(&buf, consistency.CompareColumns(tables, s.Masters.MasterPaths), s.now())
	default:
		err = report.SchemaHTML(&buf, consistency.ValidateColumns(tables, s.SchemaExclude...), s.now())
	}

	if err != nil {
		return nil, failed("Check Failed", err)
	}

	return File{Content: buf.Bytes(), ContentType: report.ContentTypeHTML}, nil
}

func (s *Server) lastTables(c *Context, sc *datafeed.Scanner) ([]datafeed.Table, error) {
	if c.Session.Scan != nil {
		return c.Session.Scan.Tables(), nil
	}

	res, err := sc.Scan(c, "")
	if err != nil {
		return nil, err
	}

	return res.Tables(), nil
}

func (s *Server) health(*Context) (any, error) {
	return map[string]string{"status": "healthy", "app": "datafeed-scanner"}, nil
}
