package handlers

import (
	"net/http"
	"os"
	"path/filepath"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"portfolio.dev/internal/assets"
	"portfolio.dev/internal/models"
	"portfolio.dev/internal/services"
)

// ProjectHandler handles project-related endpoints
type ProjectHandler struct {
	projectService *services.ProjectService
	logger         *zap.Logger
}

// NewProjectHandler creates a new ProjectHandler
func NewProjectHandler(ps *services.ProjectService, logger *zap.Logger) *ProjectHandler {
	return &ProjectHandler{projectService: ps, logger: logger}
}

// ListProjects handles GET /api/projects?q=&tag=
func (h *ProjectHandler) ListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := h.projectService.List()
	if err != nil {
		respondInternal(w, r, h.logger, err)
		return
	}

	query := services.Query{
		Text: r.URL.Query().Get("q"),
		Tags: r.URL.Query()["tag"],
	}

	filtered := services.Filter(projects, query)
	out := make([]models.Project, 0, len(filtered))
	for _, p := range filtered {
		out = append(out, p.Public())
	}

	respondJSON(w, http.StatusOK, out)
}

// GetProject handles GET /api/projects/{slug}
func (h *ProjectHandler) GetProject(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	project, ok, err := h.projectService.Get(slug)
	if err != nil {
		respondInternal(w, r, h.logger, err)
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "Project not found")
		return
	}

	respondJSON(w, http.StatusOK, project.Detail())
}

// ListTags handles GET /api/tags
func (h *ProjectHandler) ListTags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.projectService.Tags()
	if err != nil {
		respondInternal(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, tags)
}

// ServeAsset handles GET /assets/projects/{slug}/* - serves one project file.
// Hidden projects, unlisted files and restricted source files are not found.
func (h *ProjectHandler) ServeAsset(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")
	rel := chi.URLParam(r, "*")

	if rel == "" || hasDotSegment(rel) {
		http.NotFound(w, r)
		return
	}

	project, ok, err := h.projectService.Get(slug)
	if err != nil {
		respondInternal(w, r, h.logger, err)
		return
	}
	if !ok || !project.Exposes(rel) {
		http.NotFound(w, r)
		return
	}

	dir := assets.PathFor(h.projectService.AssetsRoot(), project.Slug)
	f, err := os.Open(filepath.Join(dir, filepath.FromSlash(rel)))
	if err != nil {
		http.NotFound(w, r)
		return
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil || info.IsDir() {
		http.NotFound(w, r)
		return
	}
	// unlike http.ServeFile, no redirect for names ending in index.html
	http.ServeContent(w, r, info.Name(), info.ModTime(), f)
}
