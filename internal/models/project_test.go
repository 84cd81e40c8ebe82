package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLinkLabel(t *testing.T) {
	assert.Equal(t, "GitHub", LinkLabel("github"))
	assert.Equal(t, "Live demo", LinkLabel("demo"))
	assert.Equal(t, "Dataset", LinkLabel("dataset"))
	assert.Equal(t, "slides", LinkLabel("slides"))
}

func TestFileSplit(t *testing.T) {
	p := Project{Files: []string{"main.cpp", "docs/Report.PDF", "notes.pdf.txt"}}

	assert.Equal(t, []string{"docs/Report.PDF"}, p.PDFFiles())
	assert.Equal(t, []string{"main.cpp", "notes.pdf.txt"}, p.SourceFiles())

	p.Restricted = true
	assert.Equal(t, []string{}, p.SourceFiles())
}

func TestExposes(t *testing.T) {
	p := Project{Files: []string{"main.cpp", "spec.pdf"}}
	assert.True(t, p.Exposes("main.cpp"))
	assert.True(t, p.Exposes("spec.pdf"))
	assert.False(t, p.Exposes("other.cpp"))

	p.Restricted = true
	assert.False(t, p.Exposes("main.cpp"))
	assert.True(t, p.Exposes("spec.pdf"))
}

func TestDetail_RestrictedHidesSource(t *testing.T) {
	p := Project{
		Slug:       "letterman",
		Files:      []string{"letterman.cpp", "writeup.pdf"},
		HasPDF:     true,
		Restricted: true,
		Links:      map[string]string{"github": "https://g", "demo": "https://d"},
	}

	d := p.Detail()
	assert.Equal(t, []string{"writeup.pdf"}, d.Files)
	assert.Equal(t, []string{"writeup.pdf"}, d.PDFFiles)
	assert.Empty(t, d.SourceFiles)
	assert.Equal(t, []Link{
		{Kind: "demo", Label: "Live demo", URL: "https://d"},
		{Kind: "github", Label: "GitHub", URL: "https://g"},
	}, d.LinkLabels)

	// the receiver is untouched
	assert.Equal(t, []string{"letterman.cpp", "writeup.pdf"}, p.Files)
}

func TestDetail_JSONShape(t *testing.T) {
	p := Project{Slug: "stocks", Files: []string{}, Tags: []string{}}

	data, err := json.Marshal(p.Detail())
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, "stocks", got["slug"])
	assert.Equal(t, []any{}, got["sourceFiles"])
	assert.Equal(t, []any{}, got["linkLabels"])
	assert.NotContains(t, got, "hidden")
}

func TestHasDemo(t *testing.T) {
	assert.False(t, Project{}.HasDemo())
	assert.True(t, Project{DemoPath: "/projects/stocks/demo"}.HasDemo())
}
