package login

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/2beens/quizserver/internal/auth"
	"github.com/2beens/quizserver/internal/middleware"
	"github.com/2beens/quizserver/internal/telemetry/metrics"
	"github.com/2beens/quizserver/internal/telemetry/tracing"
	"github.com/2beens/quizserver/pkg"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

const (
	// where the login page goes after a successful login
	redirectAfterLogin = "/dashboard"

	msgLoginSuccess      = "login successful"
	msgLoginFailed       = "wrong username or password"
	msgClientLoginFailed = "login failed"
	msgLogoutSuccess     = "logout successful"
)

type credentialsVerifier interface {
	VerifyCredentials(credentials auth.Credentials) bool
}

type sessionIssuer interface {
	IssueSession(w http.ResponseWriter)
	ClearSession(w http.ResponseWriter)
}

type response struct {
	Success  bool   `json:"success"`
	Message  string `json:"message,omitempty"`
	Redirect string `json:"redirect,omitempty"`
}

type Handler struct {
	verifier       credentialsVerifier
	sessionGuard   sessionIssuer
	metricsManager *metrics.Manager
}

func NewHandler(
	verifier credentialsVerifier,
	sessionGuard sessionIssuer,
	metricsManager *metrics.Manager,
) *Handler {
	return &Handler{
		verifier:       verifier,
		sessionGuard:   sessionGuard,
		metricsManager: metricsManager,
	}
}

// SetupRoutes registers the login and logout routes. When rateLimiter is nil
// or allowedPerMin is not positive, the login routes are not rate limited.
func (handler *Handler) SetupRoutes(
	mainRouter *mux.Router,
	rateLimiter middleware.RequestRateLimiter,
	allowedPerMin int,
) {
	limit := func(h http.HandlerFunc) http.Handler {
		if rateLimiter == nil || allowedPerMin <= 0 {
			return h
		}
		return middleware.RateLimit(rateLimiter, "login", allowedPerMin, handler.metricsManager)(h)
	}

	mainRouter.Handle("/api/login", limit(handler.handleLogin)).
		Methods("POST", "OPTIONS").Name("login")
	mainRouter.Handle("/client-login", limit(handler.handleClientLogin)).
		Methods("POST", "OPTIONS").Name("client-login")
	mainRouter.HandleFunc("/api/logout", handler.handleLogout).
		Methods("POST", "OPTIONS").Name("logout")
}

func (handler *Handler) handleLogin(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "loginHandler.login")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if !handler.login(w, r, msgLoginFailed) {
		span.SetStatus(codes.Error, "login failed")
		return
	}

	span.SetStatus(codes.Ok, "logged in")
	pkg.WriteJSON(w, http.StatusOK, response{
		Success: true,
		Message: msgLoginSuccess,
	})
}

// handleClientLogin is the login used by the login page, it tells the page where to go next.
func (handler *Handler) handleClientLogin(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "loginHandler.clientLogin")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	if !handler.login(w, r, msgClientLoginFailed) {
		span.SetStatus(codes.Error, "login failed")
		return
	}

	span.SetStatus(codes.Ok, "logged in")
	pkg.WriteJSON(w, http.StatusOK, response{
		Success:  true,
		Redirect: redirectAfterLogin,
	})
}

// login verifies the submitted credentials and issues the session cookie.
// On failure the 401 response is already written.
func (handler *Handler) login(w http.ResponseWriter, r *http.Request, failureMessage string) bool {
	credentials, err := readCredentials(r)
	if err != nil {
		log.Debugf("login, read credentials: %s", err)
		handler.loginFailed(w, failureMessage)
		return false
	}

	if credentials.Username == "" || credentials.Password == "" {
		log.Trace("login failed, empty username or password")
		handler.loginFailed(w, failureMessage)
		return false
	}

	if !handler.verifier.VerifyCredentials(credentials) {
		log.Tracef("failed login attempt for user: %s", credentials.Username)
		handler.loginFailed(w, failureMessage)
		return false
	}

	handler.sessionGuard.IssueSession(w)
	if handler.metricsManager != nil {
		handler.metricsManager.CounterLogins.WithLabelValues("success").Inc()
	}
	log.Trace("new login success")
	return true
}

func (handler *Handler) loginFailed(w http.ResponseWriter, message string) {
	if handler.metricsManager != nil {
		handler.metricsManager.CounterLogins.WithLabelValues("failure").Inc()
	}
	pkg.WriteJSON(w, http.StatusUnauthorized, response{
		Success: false,
		Message: message,
	})
}

func (handler *Handler) handleLogout(w http.ResponseWriter, r *http.Request) {
	_, span := tracing.GlobalTracer.Start(r.Context(), "loginHandler.logout")
	defer span.End()

	if r.Method == http.MethodOptions {
		w.Header().Add("Allow", "POST, OPTIONS")
		w.WriteHeader(http.StatusOK)
		return
	}

	_, err := auth.SessionToken(r)
	span.SetAttributes(attribute.Bool("session.present", err == nil))

	handler.sessionGuard.ClearSession(w)
	if handler.metricsManager != nil {
		handler.metricsManager.CounterLogouts.Inc()
	}

	log.Trace("logout success")
	pkg.WriteJSON(w, http.StatusOK, response{
		Success: true,
		Message: msgLogoutSuccess,
	})
}

// readCredentials accepts both JSON bodies (API clients) and form posts (the login page).
func readCredentials(r *http.Request) (auth.Credentials, error) {
	var credentials auth.Credentials
	if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&credentials); err != nil {
			return auth.Credentials{}, err
		}
		return credentials, nil
	}

	if err := r.ParseForm(); err != nil {
		return auth.Credentials{}, err
	}
	// body only, credentials in the query string are ignored
	return auth.Credentials{
		Username: r.PostForm.Get("username"),
		Password: r.PostForm.Get("password"),
	}, nil
}
