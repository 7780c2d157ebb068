package middleware

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/foxerka/enterprise-assets/internal/auth"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// RequestIDHeader carries the request id in requests and responses
const RequestIDHeader = "X-Request-ID"

type requestIDKey struct{}

// RequestIDFromContext returns the id assigned by Logging
func RequestIDFromContext(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey{}).(string)
	return id
}

type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    int64
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	n, err := rw.ResponseWriter.Write(b)
	rw.written += int64(n)
	return n, err
}

// userHolder lets the authentication middleware, which runs deeper in the
// chain, report the user back to the access log
type userHolder struct {
	user *auth.UserContext
}

type userHolderKey struct{}

// RecordUser stores the authenticated user for the access log line
func RecordUser(ctx context.Context, user *auth.UserContext) {
	if h, ok := ctx.Value(userHolderKey{}).(*userHolder); ok {
		h.user = user
	}
}

// Logging logs one line per request with a request id, status, size,
// duration and the authenticated user when there is one
func Logging(logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			requestID := r.Header.Get(RequestIDHeader)
			if requestID == "" {
				requestID = uuid.New().String()
			}
			w.Header().Set(RequestIDHeader, requestID)

			holder := &userHolder{}
			ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
			ctx = context.WithValue(ctx, userHolderKey{}, holder)

			rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
			next.ServeHTTP(rw, r.WithContext(ctx))

			duration := time.Since(start)
			fields := []zap.Field{
				zap.String("request_id", requestID),
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.String("remote_addr", r.RemoteAddr),
				zap.Int("status_code", rw.statusCode),
				zap.Int64("response_size", rw.written),
				zap.Duration("duration", duration),
			}
			if holder.user != nil {
				fields = append(fields,
					zap.Int64("user_id", holder.user.UserID),
					zap.String("username", holder.user.Username),
				)
			}

			logger.Info(
				fmt.Sprintf("%s %-30s -> %3d (%s)", r.Method, r.URL.Path, rw.statusCode, duration.Truncate(time.Microsecond)),
				fields...,
			)
		})
	}
}

// TrackUser reports the authenticated user to Logging; mount it after
// authentication
func TrackUser(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if userCtx, ok := auth.FromContext(r.Context()); ok {
			RecordUser(r.Context(), userCtx)
		}
		next.ServeHTTP(w, r)
	})
}
