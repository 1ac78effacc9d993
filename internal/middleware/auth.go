package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/2beens/quizserver/internal/auth"
	"github.com/2beens/quizserver/internal/telemetry/metrics"
	"github.com/2beens/quizserver/internal/telemetry/tracing"
	"github.com/2beens/quizserver/pkg"

	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

type loginChecker interface {
	IsLogged(ctx context.Context, token string) (bool, error)
}

// AuthMiddlewareHandler gates the protected paths behind the session cookie.
// All other paths pass through untouched.
type AuthMiddlewareHandler struct {
	loginChecker           loginChecker
	metricsManager         *metrics.Manager
	protectedPaths         map[string]bool
	protectedPathsPrefixes []string
}

func NewAuthMiddlewareHandler(
	loginChecker loginChecker,
	metricsManager *metrics.Manager,
	protectedPaths []string,
	protectedPathsPrefixes []string,
) *AuthMiddlewareHandler {
	paths := make(map[string]bool, len(protectedPaths))
	for _, p := range protectedPaths {
		paths[p] = true
	}
	return &AuthMiddlewareHandler{
		loginChecker:           loginChecker,
		metricsManager:         metricsManager,
		protectedPaths:         paths,
		protectedPathsPrefixes: protectedPathsPrefixes,
	}
}

func (h *AuthMiddlewareHandler) pathIsProtected(path string) bool {
	if h.protectedPaths[path] {
		return true
	}
	for _, prefix := range h.protectedPathsPrefixes {
		if strings.HasPrefix(path, prefix) {
			return true
		}
	}
	return false
}

func (h *AuthMiddlewareHandler) AuthCheck() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions || !h.pathIsProtected(r.URL.Path) {
				next.ServeHTTP(w, r)
				return
			}

			ctx, span := tracing.GlobalTracer.Start(r.Context(), "middleware.auth")
			defer span.End()
			span.SetAttributes(attribute.String("http.path", r.URL.Path))

			authToken, err := auth.SessionToken(r)
			if err != nil {
				log.Tracef("[missing token] [auth middleware] unauthorized => %s", r.URL.Path)
				h.reject(w, "missing_token", auth.ErrMissingToken)
				span.SetStatus(codes.Error, "missing-auth-token")
				return
			}

			isLogged, err := h.loginChecker.IsLogged(ctx, authToken)
			if err != nil {
				log.Errorf("[failed login check] => %s: %s", r.URL.Path, err)
				h.reject(w, "check_failed", auth.ErrInvalidToken)
				span.SetStatus(codes.Error, "check-logged-err")
				span.RecordError(err)
				return
			}
			if !isLogged {
				log.Tracef("[invalid token] [auth middleware] unauthorized => %s", r.URL.Path)
				h.reject(w, "invalid_token", auth.ErrInvalidToken)
				span.SetStatus(codes.Error, "not-logged")
				return
			}

			span.SetStatus(codes.Ok, "ok")
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

func (h *AuthMiddlewareHandler) reject(w http.ResponseWriter, reason string, err error) {
	if h.metricsManager != nil {
		h.metricsManager.CounterAuthRejections.WithLabelValues(reason).Inc()
	}
	pkg.WriteJSONError(w, http.StatusUnauthorized, err.Error())
}
