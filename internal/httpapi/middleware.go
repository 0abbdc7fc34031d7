package httpapi

import (
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5/middleware"
)

const (
	allowOrigin  = "*"
	allowHeaders = "authorization, x-client-info, apikey, content-type"
)

// cors adds the browser headers to every response and answers preflight requests.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", allowOrigin)
		w.Header().Set("Access-Control-Allow-Headers", allowHeaders)
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) requestLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		if r.URL.Path == "/healthz" {
			return
		}
		s.log.Debug("HTTP request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
		)
	})
}

// limitTriggers rate limits every request passing through it by client IP.
func (s *Server) limitTriggers(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !s.allow(w, r) {
			return
		}
		next.ServeHTTP(w, r)
	})
}

// allow charges one scrape trigger to the client and writes 429 when it is over its budget.
func (s *Server) allow(w http.ResponseWriter, r *http.Request) bool {
	key := clientKey(r)
	if s.limiter.Allow(key) {
		return true
	}
	s.log.Warn("Scrape trigger rate limited", "client", key, "path", r.URL.Path)
	writeJSON(w, http.StatusTooManyRequests, errorBody{Error: "Too many requests, try again later"})
	return false
}

func clientKey(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
