package handlers

import (
	"encoding/json"
	"io/fs"
	"net/http"
	"path"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"portfolio.dev/internal/config"
	"portfolio.dev/internal/logging"
	"portfolio.dev/internal/middleware"
	"portfolio.dev/internal/services"
)

// SetupRoutes configures all routes and returns the router
func SetupRoutes(cfg *config.Config, logger *zap.Logger) http.Handler {
	logger = logging.OrNop(logger)

	r := chi.NewRouter()

	// Middleware
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logger(logger.Named("http")))

	// Initialize services
	projectService := services.NewProjectService(cfg.ProjectsPath(), cfg.AssetsPath(), logger)
	postService := services.NewPostService(cfg.BlogPath(), logger)

	// Initialize handlers
	projectHandler := NewProjectHandler(projectService, logger)
	postHandler := NewPostHandler(postService, logger)

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Project endpoints
		r.Get("/projects", projectHandler.ListProjects)
		r.Get("/projects/{slug}", projectHandler.GetProject)
		r.Get("/tags", projectHandler.ListTags)

		// Post endpoints
		r.Get("/posts", postHandler.ListPosts)
		r.Get("/posts/{slug}", postHandler.GetPost)
		r.Get("/posts/{slug}/source", postHandler.GetPostSource)

		// Health check
		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})
	})

	// Project assets go through visibility and restriction checks
	r.Get("/assets/projects/{slug}/*", projectHandler.ServeAsset)
	r.Get("/assets/projects/*", http.NotFound)

	// Everything else under the public directory
	r.Get("/*", http.FileServer(newPublicFS(cfg)).ServeHTTP)

	return r
}

// respondJSON writes a JSON response
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		zap.L().Warn("Error encoding JSON", zap.Error(err))
	}
}

// respondError writes an error JSON response
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}

// respondInternal logs err and writes a generic 500
func respondInternal(w http.ResponseWriter, r *http.Request, logger *zap.Logger, err error) {
	logger.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.Error(err))
	respondError(w, http.StatusInternalServerError, "Internal server error")
}

// hasDotSegment reports whether any segment of a slash-separated path starts with "."
func hasDotSegment(path string) bool {
	for _, seg := range strings.Split(path, "/") {
		if strings.HasPrefix(seg, ".") {
			return true
		}
	}
	return false
}

// publicFS is the public directory without dot entries and without the
// project assets subtree. Names are checked after cleaning, so a request that
// reaches the file server by another spelling (doubled or encoded slashes)
// still cannot open project assets; those are served only by ServeAsset.
type publicFS struct {
	dir      http.Dir
	excluded string
}

func newPublicFS(cfg *config.Config) publicFS {
	p := publicFS{dir: http.Dir(cfg.PublicPath())}
	rel, err := filepath.Rel(cfg.PublicPath(), cfg.AssetsPath())
	if err == nil && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		p.excluded = path.Clean("/" + filepath.ToSlash(rel))
	}
	return p
}

func (p publicFS) Open(name string) (http.File, error) {
	name = path.Clean("/" + name)
	if hasDotSegment(name) || p.excludes(name) {
		return nil, fs.ErrNotExist
	}
	return p.dir.Open(name)
}

// excludes compares case-insensitively so case-folding filesystems are covered too
func (p publicFS) excludes(name string) bool {
	switch {
	case p.excluded == "":
		return false
	case p.excluded == "/":
		return true
	}
	return strings.EqualFold(name, p.excluded) ||
		(len(name) > len(p.excluded) && name[len(p.excluded)] == '/' && strings.EqualFold(name[:len(p.excluded)], p.excluded))
}
