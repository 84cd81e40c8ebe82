package services

import (
	"slices"
	"strings"

	"portfolio.dev/internal/models"
)

// Query narrows a project listing. The zero Query matches everything.
type Query struct {
	// Text matches case-insensitively against title, description and tags.
	Text string
	// Tags matches projects carrying any of the given tags.
	Tags []string
}

// Filter returns the projects matching q, preserving order
func Filter(projects []models.Project, q Query) []models.Project {
	text := normalize(q.Text)

	out := make([]models.Project, 0, len(projects))
	for _, p := range projects {
		if matchesText(p, text) && matchesTags(p, q.Tags) {
			out = append(out, p)
		}
	}
	return out
}

// AggregateTags collects the distinct tags of projects in ascending order
func AggregateTags(projects []models.Project) []string {
	seen := make(map[string]bool)
	tags := []string{}
	for _, p := range projects {
		for _, t := range p.Tags {
			if !seen[t] {
				seen[t] = true
				tags = append(tags, t)
			}
		}
	}
	slices.Sort(tags)
	return tags
}

func matchesText(p models.Project, q string) bool {
	if q == "" {
		return true
	}
	if strings.Contains(normalize(p.Title), q) || strings.Contains(normalize(p.Description), q) {
		return true
	}
	return slices.ContainsFunc(p.Tags, func(t string) bool {
		return strings.Contains(normalize(t), q)
	})
}

func matchesTags(p models.Project, tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	return slices.ContainsFunc(p.Tags, func(t string) bool {
		return slices.Contains(tags, t)
	})
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
