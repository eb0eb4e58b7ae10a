package api

import (
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/pable/go-quiz-metrics/pkg/logger"
)

// observe records one metric sample and one debug log line per request,
// labelled by the matched route pattern.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		route := routePattern(r)
		elapsed := time.Since(start)
		s.metrics.RecordHTTPRequest(route, r.Method, status, elapsed)
		s.log.Debug(r.Context(), "request",
			logger.String("method", r.Method),
			logger.String("route", route),
			logger.Int("status", status),
			logger.Int("bytes", ww.BytesWritten()),
			logger.String("request_id", middleware.GetReqID(r.Context())),
			logger.String("duration", elapsed.String()),
		)
	})
}

func (s *Server) recoverer(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rvr := recover(); rvr != nil {
				if rvr == http.ErrAbortHandler {
					panic(rvr)
				}
				s.log.Error(r.Context(), "panic recovered",
					logger.String("path", r.URL.Path),
					logger.Any("panic", fmt.Sprint(rvr)),
				)
				writeError(w, r, http.StatusInternalServerError, "internal error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}

// routePattern keeps metric cardinality bounded: /players/{name} rather than
// one series per player.
func routePattern(r *http.Request) string {
	if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
		return rctx.RoutePattern()
	}
	return "unmatched"
}
