package models

import (
	"maps"
	"slices"
	"strings"
)

// Project represents a portfolio project
type Project struct {
	Slug        string            `json:"slug"`
	Title       string            `json:"title"`
	Description string            `json:"description"`
	Tags        []string          `json:"tags"`
	Files       []string          `json:"files"`
	HasPDF      bool              `json:"hasPdf"`
	Links       map[string]string `json:"links,omitempty"`
	Restricted  bool              `json:"restricted,omitempty"`
	Hidden      bool              `json:"hidden,omitempty"`
	DemoPath    string            `json:"demoPath,omitempty"`
}

// ProjectDetail is what we send to the client for a single project
type ProjectDetail struct {
	Project
	PDFFiles    []string `json:"pdfFiles"`
	SourceFiles []string `json:"sourceFiles"`
	LinkLabels  []Link   `json:"linkLabels"`
}

// Link is a labelled external link
type Link struct {
	Kind  string `json:"kind"`
	Label string `json:"label"`
	URL   string `json:"url"`
}

var linkLabels = map[string]string{
	"github":  "GitHub",
	"demo":    "Live demo",
	"dataset": "Dataset",
}

// LinkLabel returns the display label for a link kind.
// Unrecognized kinds are returned verbatim.
func LinkLabel(kind string) string {
	if label, ok := linkLabels[kind]; ok {
		return label
	}
	return kind
}

// IsPDF reports whether an asset path names a PDF, ignoring case
func IsPDF(path string) bool {
	return strings.HasSuffix(strings.ToLower(path), ".pdf")
}

// PDFFiles returns the project's PDF artifacts
func (p Project) PDFFiles() []string {
	out := []string{}
	for _, f := range p.Files {
		if IsPDF(f) {
			out = append(out, f)
		}
	}
	return out
}

// SourceFiles returns the non-PDF files that may be shown.
// Restricted projects never expose source files.
func (p Project) SourceFiles() []string {
	out := []string{}
	if p.Restricted {
		return out
	}
	for _, f := range p.Files {
		if !IsPDF(f) {
			out = append(out, f)
		}
	}
	return out
}

// HasDemo reports whether the project links to a replay page
func (p Project) HasDemo() bool {
	return p.DemoPath != ""
}

// Exposes reports whether an asset path may be served for this project
func (p Project) Exposes(path string) bool {
	if p.Restricted && !IsPDF(path) {
		return false
	}
	for _, f := range p.Files {
		if f == path {
			return true
		}
	}
	return false
}

// Public returns a copy safe to hand to clients: restricted projects
// keep only their PDF artifacts in Files.
func (p Project) Public() Project {
	out := p
	if p.Restricted {
		out.Files = p.PDFFiles()
	} else {
		out.Files = slices.Clone(p.Files)
	}
	return out
}

// Detail builds the client response for a single project.
// Links are ordered by kind so output is stable.
func (p Project) Detail() ProjectDetail {
	links := make([]Link, 0, len(p.Links))
	for _, kind := range slices.Sorted(maps.Keys(p.Links)) {
		links = append(links, Link{Kind: kind, Label: LinkLabel(kind), URL: p.Links[kind]})
	}

	return ProjectDetail{
		Project:     p.Public(),
		PDFFiles:    p.PDFFiles(),
		SourceFiles: p.SourceFiles(),
		LinkLabels:  links,
	}
}
