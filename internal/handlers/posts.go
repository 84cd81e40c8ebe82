package handlers

import (
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"portfolio.dev/internal/models"
	"portfolio.dev/internal/services"
)

// PostHandler handles blog endpoints
type PostHandler struct {
	postService *services.PostService
	logger      *zap.Logger
}

// NewPostHandler creates a new PostHandler
func NewPostHandler(ps *services.PostService, logger *zap.Logger) *PostHandler {
	return &PostHandler{postService: ps, logger: logger}
}

// ListPosts handles GET /api/posts
func (h *PostHandler) ListPosts(w http.ResponseWriter, r *http.Request) {
	posts, err := h.postService.List()
	if err != nil {
		respondInternal(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, posts)
}

// GetPost handles GET /api/posts/{slug} - metadata plus rendered HTML
func (h *PostHandler) GetPost(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	post, ok, err := h.postService.Get(slug)
	if err != nil {
		respondInternal(w, r, h.logger, err)
		return
	}
	if !ok {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}

	html, err := h.postService.Render(slug)
	if errors.Is(err, services.ErrPostNotFound) {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		respondInternal(w, r, h.logger, err)
		return
	}

	respondJSON(w, http.StatusOK, models.PostResponse{BlogPost: post, HTML: html})
}

// GetPostSource handles GET /api/posts/{slug}/source - raw document text
func (h *PostHandler) GetPostSource(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	src, err := h.postService.Source(slug)
	if errors.Is(err, services.ErrPostNotFound) {
		respondError(w, http.StatusNotFound, "Post not found")
		return
	}
	if err != nil {
		respondInternal(w, r, h.logger, err)
		return
	}

	w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte(src)); err != nil {
		h.logger.Debug("write failed", zap.Error(err))
	}
}
