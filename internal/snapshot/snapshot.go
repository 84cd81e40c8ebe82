// Package snapshot exports the fully resolved site content as one JSON
// document, the way a static build would see it.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"github.com/natefinch/atomic"

	"portfolio.dev/internal/models"
	"portfolio.dev/internal/services"
)

// Snapshot is the resolved content at one instant
type Snapshot struct {
	GeneratedAt time.Time              `json:"generated_at"`
	Projects    []models.ProjectDetail `json:"projects"`
	Tags        []string               `json:"tags"`
	Posts       []models.BlogPost      `json:"posts"`
}

// Build resolves projects and posts. Projects are exported in their public
// form, so restricted source files never reach the snapshot.
func Build(ps *services.ProjectService, bs *services.PostService, now time.Time) (*Snapshot, error) {
	projects, err := ps.List()
	if err != nil {
		return nil, err
	}
	posts, err := bs.List()
	if err != nil {
		return nil, err
	}

	details := make([]models.ProjectDetail, 0, len(projects))
	for _, p := range projects {
		details = append(details, p.Detail())
	}

	return &Snapshot{
		GeneratedAt: now.UTC(),
		Projects:    details,
		Tags:        services.AggregateTags(projects),
		Posts:       posts,
	}, nil
}

// Write stores snap as indented JSON, replacing path atomically
func Write(path string, snap *Snapshot) error {
	data, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}
	data = append(data, '\n')

	if err := atomic.WriteFile(path, bytes.NewReader(data)); err != nil {
		return fmt.Errorf("failed to write snapshot %s: %w", path, err)
	}
	return nil
}
