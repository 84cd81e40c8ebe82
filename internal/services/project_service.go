package services

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"slices"
	"strings"

	"github.com/tailscale/hujson"
	"go.uber.org/zap"

	"portfolio.dev/internal/assets"
	"portfolio.dev/internal/logging"
	"portfolio.dev/internal/models"
)

var (
	// ErrProjectDocument marks a missing or malformed project document.
	// It is a configuration error, not a per-request one.
	ErrProjectDocument = errors.New("project document")

	// ErrDuplicateSlug is returned by Validate when two visible projects share a slug
	ErrDuplicateSlug = errors.New("duplicate project slug")

	// ErrInvalidSlug is returned by Validate for slugs that cannot name an asset directory
	ErrInvalidSlug = errors.New("invalid project slug")
)

// projectRecord is the authored shape of a project. HasPDF is a pointer so
// an explicit false can be told apart from an absent value.
type projectRecord struct {
	models.Project
	HasPDF *bool `json:"hasPdf"`
}

// ProjectService resolves the authored project document against the asset tree.
// Every call re-reads disk; nothing is cached.
type ProjectService struct {
	documentPath string
	assetsRoot   string
	logger       *zap.Logger
}

// NewProjectService creates a new ProjectService
func NewProjectService(documentPath, assetsRoot string, logger *zap.Logger) *ProjectService {
	return &ProjectService{
		documentPath: documentPath,
		assetsRoot:   assetsRoot,
		logger:       logging.OrNop(logger).Named("projects"),
	}
}

// AssetsRoot returns the directory holding one asset folder per project
func (s *ProjectService) AssetsRoot() string {
	return s.assetsRoot
}

// List returns every visible project in document order, with Files and
// HasPDF resolved from the project's asset directory.
func (s *ProjectService) List() ([]models.Project, error) {
	records, err := s.load()
	if err != nil {
		return nil, err
	}

	projects := make([]models.Project, 0, len(records))
	for _, rec := range records {
		if rec.Hidden {
			s.logger.Debug("skipping hidden project", zap.String("slug", rec.Slug))
			continue
		}

		p, err := s.resolve(rec)
		if err != nil {
			return nil, err
		}
		projects = append(projects, p)
	}

	return projects, nil
}

// Get returns the visible project with the given slug.
// ok is false when the slug is unknown or the project is hidden.
func (s *ProjectService) Get(slug string) (models.Project, bool, error) {
	projects, err := s.List()
	if err != nil {
		return models.Project{}, false, err
	}

	for _, p := range projects {
		if p.Slug == slug {
			return p, true, nil
		}
	}
	return models.Project{}, false, nil
}

// Tags returns the tags of every visible project, deduplicated and sorted
func (s *ProjectService) Tags() ([]string, error) {
	projects, err := s.List()
	if err != nil {
		return nil, err
	}
	return AggregateTags(projects), nil
}

// Validate resolves the document once and checks that visible slugs are
// unique and usable as directory names. Intended as a startup check.
func (s *ProjectService) Validate() error {
	projects, err := s.List()
	if err != nil {
		return err
	}

	seen := make(map[string]bool, len(projects))
	for _, p := range projects {
		if !validSlug(p.Slug) {
			return fmt.Errorf("%w: %q", ErrInvalidSlug, p.Slug)
		}
		if seen[p.Slug] {
			return fmt.Errorf("%w: %q", ErrDuplicateSlug, p.Slug)
		}
		seen[p.Slug] = true
	}

	s.logger.Info("project document valid",
		zap.String("path", s.documentPath),
		zap.Int("projects", len(projects)))
	return nil
}

// load reads the project document
func (s *ProjectService) load() ([]projectRecord, error) {
	data, err := os.ReadFile(s.documentPath)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to read %s: %w", ErrProjectDocument, s.documentPath, err)
	}

	standardized, err := hujson.Standardize(data)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %w", ErrProjectDocument, s.documentPath, err)
	}

	var records []projectRecord
	if err := json.Unmarshal(standardized, &records); err != nil {
		return nil, fmt.Errorf("%w: failed to parse %s: %w", ErrProjectDocument, s.documentPath, err)
	}

	return records, nil
}

// resolve fills in the derived fields of one record
func (s *ProjectService) resolve(rec projectRecord) (models.Project, error) {
	p := rec.Project

	files, err := assets.List(assets.PathFor(s.assetsRoot, p.Slug))
	if err != nil {
		return models.Project{}, fmt.Errorf("project %s: %w", p.Slug, err)
	}
	p.Files = files

	if rec.HasPDF != nil {
		p.HasPDF = *rec.HasPDF
	} else {
		p.HasPDF = slices.ContainsFunc(files, models.IsPDF)
	}

	if p.Tags == nil {
		p.Tags = []string{}
	}

	s.logger.Debug("resolved project",
		zap.String("slug", p.Slug),
		zap.Int("files", len(files)),
		zap.Bool("has_pdf", p.HasPDF))

	return p, nil
}

func validSlug(slug string) bool {
	if slug == "" || slug == "." || slug == ".." {
		return false
	}
	return !strings.ContainsAny(slug, `/\`)
}
