package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gorilla/mux"
)

type statusResponseWriter struct {
	http.ResponseWriter
	status int
}

func (w *statusResponseWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Middleware observes the response time of every routed request, labelled by route template.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		path := r.URL.Path
		if route := mux.CurrentRoute(r); route != nil {
			if tpl, err := route.GetPathTemplate(); err == nil {
				path = tpl
			}
		}

		// keep "/" as is, drop the trailing slash of everything else
		if len(path) > 1 {
			path = strings.TrimSuffix(path, "/")
		}

		srw := &statusResponseWriter{ResponseWriter: w, status: http.StatusOK}

		defer func() {
			m.httpResponse.WithLabelValues(path, r.Method, strconv.Itoa(srw.status)).Observe(time.Since(start).Seconds())
		}()

		m.PushSystemStats()

		next.ServeHTTP(srw, r)
	})
}
