package rest

import (
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/kevinms/leakybucket-go"
	"github.com/rs/cors"
)

const (
	headerRequestID = "X-Request-ID"

	msgTooManyRequests = "Too many requests"
	msgInternalError   = "Internal server error"

	apiPrefix = "/api/"
)

type middleware func(http.Handler) http.Handler

// chain applies middlewares so that the first one is the outermost.
func chain(handler http.Handler, middlewares ...middleware) http.Handler {
	for i := len(middlewares) - 1; i >= 0; i-- {
		handler = middlewares[i](handler)
	}

	return handler
}

// statusWriter remembers the status code written by the handler.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (that *statusWriter) WriteHeader(code int) {
	if that.status == 0 {
		that.status = code
	}
	that.ResponseWriter.WriteHeader(code)
}

func (that *statusWriter) Write(b []byte) (int, error) {
	if that.status == 0 {
		that.status = http.StatusOK
	}
	return that.ResponseWriter.Write(b)
}

func (that *statusWriter) Status() int {
	if that.status == 0 {
		return http.StatusOK
	}
	return that.status
}

func corsMiddleware(origin string) middleware {
	c := cors.New(cors.Options{
		AllowedOrigins: []string{origin},
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Content-Type", headerRequestID},
		ExposedHeaders: []string{headerRequestID},
	})

	return c.Handler
}

// rateLimitMiddleware keeps one leaky bucket per client IP for the API routes.
func rateLimitMiddleware(limiter *leakybucket.Collector) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			if !strings.HasPrefix(req.URL.Path, apiPrefix) {
				next.ServeHTTP(w, req)
				return
			}

			ip := clientIP(req)
			if limiter.Remaining(ip) <= 0 {
				w.Header().Set("Retry-After", "1")
				failure(w, http.StatusTooManyRequests, msgTooManyRequests)
				return
			}
			limiter.Add(ip, 1)

			next.ServeHTTP(w, req)
		})
	}
}

func requestLogMiddleware(logger *slog.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			requestID := req.Header.Get(headerRequestID)
			if requestID == "" {
				requestID = uuid.NewString()
			}
			w.Header().Set(headerRequestID, requestID)

			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(sw, req)

			logger.Info("request",
				"requestID", requestID,
				"method", req.Method,
				"path", req.URL.Path,
				"status", sw.Status(),
				"duration", time.Since(start),
				"remote", clientIP(req),
			)
		})
	}
}

func recoverMiddleware(logger *slog.Logger) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				if rec := recover(); rec != nil {
					if rec == http.ErrAbortHandler { //nolint: errorlint // sentinel compared as net/http does
						panic(rec)
					}

					logger.Error("recovered from panic", "path", req.URL.Path, "panic", rec)
					failure(w, http.StatusInternalServerError, msgInternalError)
				}
			}()

			next.ServeHTTP(w, req)
		})
	}
}

// metricsMiddleware must wrap the mux directly: the mux stores the matched pattern on the request it receives.
func metricsMiddleware(m *httpMetrics) middleware {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			start := time.Now()
			sw := &statusWriter{ResponseWriter: w}

			next.ServeHTTP(sw, req)

			route := req.Pattern
			if route == "" {
				route = "unmatched"
			}

			m.requests.WithLabelValues(route, strconv.Itoa(sw.Status())).Inc()
			m.duration.WithLabelValues(route).Observe(time.Since(start).Seconds())
		})
	}
}

func clientIP(req *http.Request) string {
	host, _, err := net.SplitHostPort(req.RemoteAddr)
	if err != nil {
		return req.RemoteAddr
	}

	return host
}
