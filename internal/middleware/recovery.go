package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/getsentry/sentry-go"

	"github.com/onnwee/scorebook/backend/internal/apierr"
	"github.com/onnwee/scorebook/backend/internal/errorreporting"
	"github.com/onnwee/scorebook/backend/internal/logger"
)

// RecoverWithSentry recovers from handler panics, logs them with the
// request id, and reports them to Sentry when enabled.
func RecoverWithSentry(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				stack := debug.Stack()

				logger.ErrorContext(r.Context(), "Panic recovered",
					"error", err,
					"stack", string(stack),
					"method", r.Method,
					"path", r.URL.Path,
				)

				if errorreporting.IsSentryEnabled() {
					hub := sentry.CurrentHub().Clone()
					hub.Scope().SetRequest(r)
					hub.Scope().SetLevel(sentry.LevelError)
					hub.Scope().SetTag("method", r.Method)
					hub.Scope().SetTag("path", r.URL.Path)

					if e, ok := err.(error); ok {
						hub.CaptureException(e)
					} else {
						hub.CaptureMessage(errorreporting.Scrub(string(stack)))
					}
				}

				apierr.WriteErrorWithContext(w, r, apierr.SystemInternal("internal server error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
