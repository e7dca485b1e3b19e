package web

import (
	"bytes"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"net/http"
	"strings"

	"blobaudit.dev/pkg/logging"
)

const contentTypeHTML = "text/html; charset=utf-8"

//go:embed templates/*.html
var templateFS embed.FS

var pages = map[string]*template.Template{}

func init() {
	funcs := template.FuncMap{"join": func(s []string) string { return strings.Join(s, ", ") }}

	for _, name := range []string{"index", "dashboard", "results", "error"} {
		pages[name] = template.Must(template.New(name).Funcs(funcs).
			ParseFS(templateFS, "templates/layout.html", "templates/"+name+".html"))
	}
}

// Page renders one of the embedded templates.
type Page struct {
	Name string
	Data any
}

type Redirect struct {
	URL string
}

// File is written as is with its content type and headers.
type File struct {
	Content     []byte
	ContentType string
	Headers     map[string]string
}

// Responder writes handler results: pages, redirects, files and JSON. Errors render the
// error page.
type Responder struct {
	w      http.ResponseWriter
	r      *http.Request
	logger logging.Logger
}

func NewResponder(w http.ResponseWriter, r *http.Request, logger logging.Logger) *Responder {
	return &Responder{w: w, r: r, logger: logger}
}

func (res *Responder) Respond(data any, err error) {
	if err != nil {
		res.respondError(err)
		return
	}

	switch v := data.(type) {
	case Page:
		res.render(http.StatusOK, v)
	case Redirect:
		http.Redirect(res.w, res.r, v.URL, http.StatusFound)
	case File:
		for key, value := range v.Headers {
			res.w.Header().Set(key, value)
		}

		res.w.Header().Set("Content-Type", v.ContentType)
		res.w.WriteHeader(http.StatusOK)
		_, _ = res.w.Write(v.Content)
	default:
		res.w.Header().Set("Content-Type", "application/json")
		res.w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(res.w).Encode(v)
	}
}

func (res *Responder) respondError(err error) {
	var e *Error
	if !errors.As(err, &e) {
		e = failed("Internal Server Error", err)
	}

	status := e.StatusCode()
	if status >= http.StatusInternalServerError {
		res.logger.Errorf("%s %s: %v", res.r.Method, res.r.URL.Path, err)
	} else {
		res.logger.Infof("%s %s: %v", res.r.Method, res.r.URL.Path, err)
	}

	res.render(status, Page{Name: "error", Data: view{Title: e.Title, Error: e}})
}

// render executes into a buffer so a template failure still produces a clean 500.
func (res *Responder) render(status int, p Page) {
	var buf bytes.Buffer

	tmpl, ok := pages[p.Name]
	if !ok {
		res.logger.Errorf("unknown page %q", p.Name)
		http.Error(res.w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	if err := tmpl.ExecuteTemplate(&buf, "layout", p.Data); err != nil {
		res.logger.Errorf("rendering %s: %v", p.Name, err)
		http.Error(res.w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)

		return
	}

	res.w.Header().Set("Content-Type", contentTypeHTML)
	res.w.WriteHeader(status)
	_, _ = buf.WriteTo(res.w)
}
