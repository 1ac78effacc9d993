package pages

import (
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/2beens/quizserver/internal/telemetry/tracing"

	"github.com/gorilla/mux"
	log "github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

const (
	DashboardPath = "/dashboard"
	EditorPath    = "/editor"
)

// ProtectedPaths lists the pages only a logged in admin may see.
var ProtectedPaths = []string{DashboardPath, EditorPath}

// files behind ProtectedPaths, never served by the static file server
var protectedFiles = map[string]bool{
	"dashboard.html": true,
	"editor.html":    true,
}

// Handler serves the HTML pages and the static assets from the public dir.
type Handler struct {
	publicDir string
}

func NewHandler(publicDir string) *Handler {
	return &Handler{
		publicDir: publicDir,
	}
}

// SetupRoutes must be called after all the API routes are set up, since the
// static file server matches every remaining path.
func (handler *Handler) SetupRoutes(router *mux.Router) {
	router.HandleFunc("/", handler.page("quizgame.html")).Methods("GET").Name("page-quizgame")
	router.HandleFunc("/statistic", handler.page("statistic.html")).Methods("GET").Name("page-statistic")
	router.HandleFunc("/login-page", handler.page("login.html")).Methods("GET").Name("page-login")
	router.HandleFunc(DashboardPath, handler.page("dashboard.html")).Methods("GET").Name("page-dashboard")
	router.HandleFunc(EditorPath, handler.page("editor.html")).Methods("GET").Name("page-editor")

	router.PathPrefix("/").
		Handler(handler.static(http.FileServer(http.Dir(handler.publicDir)))).
		Methods("GET", "HEAD").
		Name("static")
}

// static serves the public dir, except the gated pages.
func (handler *Handler) static(fileServer http.Handler) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if protectedFiles[strings.ToLower(path.Base(path.Clean(r.URL.Path)))] {
			log.Tracef("static: refusing protected page %s", r.URL.Path)
			http.NotFound(w, r)
			return
		}
		fileServer.ServeHTTP(w, r)
	}
}

func (handler *Handler) page(fileName string) http.HandlerFunc {
	pagePath := filepath.Join(handler.publicDir, fileName)
	return func(w http.ResponseWriter, r *http.Request) {
		_, span := tracing.GlobalTracer.Start(r.Context(), "pagesHandler.page")
		defer span.End()
		span.SetAttributes(attribute.String("page", fileName))

		log.Tracef("serving page %s", pagePath)
		http.ServeFile(w, r, pagePath)
	}
}
