package api

import (
	"bytes"
	"io"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/vocdoni/maci-domainobjs/log"
)

// DisabledLogging is a global flag to disable logging middleware
var DisabledLogging = false

// jsonRegex matches common JSON starting patterns
var jsonRegex = regexp.MustCompile(`^\s*[\[{]`)

// LogExcludedPrefixes are the paths never logged by the middleware.
var LogExcludedPrefixes = []string{PingEndpoint}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	if rw.statusCode == 0 {
		rw.statusCode = code
	}
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if rw.statusCode == 0 {
		rw.statusCode = http.StatusOK
	}
	return rw.ResponseWriter.Write(b)
}

func skipLogging(r *http.Request) bool {
	if DisabledLogging || log.Level() != log.LogLevelDebug {
		return true
	}
	for _, prefix := range LogExcludedPrefixes {
		if strings.HasPrefix(r.URL.Path, prefix) {
			return true
		}
	}
	return false
}

// loggingMiddleware logs requests and responses at debug level, including up
// to maxBodyLog bytes of JSON request bodies.
func loggingMiddleware(maxBodyLog int) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if skipLogging(r) {
				next.ServeHTTP(w, r)
				return
			}
			start := time.Now()

			var bodyStr string
			if r.Body != nil && r.ContentLength > 0 {
				bodyBytes, err := io.ReadAll(r.Body)
				if err != nil {
					log.Errorw(err, "unable to read request body")
					http.Error(w, "unable to read request body", http.StatusInternalServerError)
					return
				}
				r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
				if jsonRegex.Match(bodyBytes) {
					bodyStr = string(bodyBytes)
					if len(bodyStr) > maxBodyLog {
						bodyStr = bodyStr[:maxBodyLog] + "..."
					}
					bodyStr = strings.ReplaceAll(bodyStr, "\"", "")
				}
			}

			wrapped := &responseWriter{ResponseWriter: w}
			log.Debugw("api request", "method", r.Method, "url", r.URL.String(), "body", bodyStr)
			next.ServeHTTP(wrapped, r)
			log.Debugw("api response",
				"method", r.Method,
				"url", r.URL.String(),
				"status", wrapped.statusCode,
				"took", time.Since(start).String(),
			)
		})
	}
}
