package services

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"go.uber.org/zap"

	"portfolio.dev/internal/frontmatter"
	"portfolio.dev/internal/logging"
	"portfolio.dev/internal/models"
)

// ErrPostNotFound is returned when no document exists for a slug
var ErrPostNotFound = errors.New("post not found")

// postExtensions lists recognized document extensions in lookup precedence
var postExtensions = []string{".mdx", ".md"}

// PostService loads write-ups from a directory of Markdown/MDX documents.
// Every call re-reads disk; nothing is cached.
type PostService struct {
	dir      string
	markdown goldmark.Markdown
	logger   *zap.Logger
}

// NewPostService creates a new PostService
func NewPostService(dir string, logger *zap.Logger) *PostService {
	return &PostService{
		dir:      dir,
		markdown: goldmark.New(goldmark.WithExtensions(extension.GFM)),
		logger:   logging.OrNop(logger).Named("posts"),
	}
}

// List returns every post sorted by date, newest first.
//
// Dates are compared as plain strings, so only zero-padded ISO dates order
// correctly. Posts with equal dates keep directory order.
func (s *PostService) List() ([]models.BlogPost, error) {
	entries, err := os.ReadDir(s.dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			s.logger.Debug("blog directory missing", zap.String("dir", s.dir))
			return []models.BlogPost{}, nil
		}
		return nil, fmt.Errorf("failed to read blog directory: %w", err)
	}

	posts := []models.BlogPost{}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		slug, ok := slugOf(e.Name())
		if !ok {
			continue
		}

		post, err := s.readPost(filepath.Join(s.dir, e.Name()), slug)
		if err != nil {
			return nil, err
		}
		posts = append(posts, post)
	}

	sort.SliceStable(posts, func(i, j int) bool {
		return posts[i].Date > posts[j].Date
	})

	return posts, nil
}

// Get returns the metadata of the post with the given slug.
// ok is false when no such post exists.
func (s *PostService) Get(slug string) (models.BlogPost, bool, error) {
	posts, err := s.List()
	if err != nil {
		return models.BlogPost{}, false, err
	}
	for _, p := range posts {
		if p.Slug == slug {
			return p, true, nil
		}
	}
	return models.BlogPost{}, false, nil
}

// Source returns the raw document text for slug. When both an .mdx and an
// .md document exist, the .mdx one wins.
func (s *PostService) Source(slug string) (string, error) {
	data, err := s.readSource(slug)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Render returns the post body, front matter removed, rendered to HTML
func (s *PostService) Render(slug string) (string, error) {
	data, err := s.readSource(slug)
	if err != nil {
		return "", err
	}

	_, body, err := frontmatter.Parse(data)
	if err != nil {
		return "", fmt.Errorf("post %s: %w", slug, err)
	}

	var buf bytes.Buffer
	if err := s.markdown.Convert(body, &buf); err != nil {
		return "", fmt.Errorf("post %s: failed to render: %w", slug, err)
	}
	return buf.String(), nil
}

func (s *PostService) readSource(slug string) ([]byte, error) {
	if slug == "" || slug == "." || slug == ".." || strings.ContainsAny(slug, `/\`) {
		return nil, fmt.Errorf("%w: %q", ErrPostNotFound, slug)
	}

	for _, ext := range postExtensions {
		data, err := os.ReadFile(filepath.Join(s.dir, slug+ext))
		if err == nil {
			return data, nil
		}
		if !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("failed to read post %s: %w", slug, err)
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrPostNotFound, slug)
}

func (s *PostService) readPost(path, slug string) (models.BlogPost, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return models.BlogPost{}, fmt.Errorf("failed to read post %s: %w", path, err)
	}

	fm, _, err := frontmatter.Parse(data)
	if err != nil {
		return models.BlogPost{}, fmt.Errorf("post %s: %w", path, err)
	}

	post := models.BlogPost{
		Slug: slug,
		Tags: []string{},
	}
	post.Title = stringOr(fm, "title", slug)
	post.Date = stringOr(fm, "date", "")
	post.Summary = stringOr(fm, "summary", "")
	if tags, ok := fm.Strings("tags"); ok {
		post.Tags = tags
	}

	return post, nil
}

// slugOf strips a recognized extension from a file name
func slugOf(name string) (string, bool) {
	for _, ext := range postExtensions {
		if slug, ok := strings.CutSuffix(name, ext); ok && slug != "" {
			return slug, true
		}
	}
	return "", false
}

func stringOr(fm frontmatter.Frontmatter, key, fallback string) string {
	if v, ok := fm.String(key); ok {
		return v
	}
	return fallback
}
