package middleware

import (
	"net/http"
	"runtime/debug"

	"github.com/2beens/quizserver/internal/telemetry/metrics"
	"github.com/2beens/quizserver/pkg"

	log "github.com/sirupsen/logrus"
)

// PanicRecovery answers 500 with a JSON error body when a handler panics.
func PanicRecovery(metricsManager *metrics.Manager) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			defer func() {
				if r := recover(); r != nil {
					log.WithField("route", routeName(req)).Errorf("panic serving %s %s: %v\n%s", req.Method, req.URL.Path, r, debug.Stack())
					if metricsManager != nil {
						metricsManager.CounterHandleRequestPanic.Inc()
					}
					pkg.WriteJSONError(w, http.StatusInternalServerError, "internal server error")
				}
			}()

			next.ServeHTTP(w, req)
		})
	}
}
