package services_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"portfolio.dev/internal/models"
	"portfolio.dev/internal/services"
)

func writePost(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func TestPosts_SortedByDateDescending(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "older.md", "---\ntitle: Older\ndate: 2023-12-01\n---\n")
	writePost(t, dir, "newer.mdx", "---\ntitle: Newer\ndate: \"2024-03-01\"\n---\n")
	writePost(t, dir, "undated.md", "# no front matter\n")

	posts, err := services.NewPostService(dir, nil).List()
	require.NoError(t, err)

	var slugs []string
	for _, p := range posts {
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"newer", "older", "undated"}, slugs)
}

func TestPosts_LexicalNotCalendarOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "a.md", "---\ndate: 2024-1-1\n---\n")
	writePost(t, dir, "b.md", "---\ndate: 2024-01-02\n---\n")

	posts, err := services.NewPostService(dir, nil).List()
	require.NoError(t, err)
	require.Len(t, posts, 2)

	// "2024-1-1" > "2024-01-02" as strings
	assert.Equal(t, "a", posts[0].Slug)
	assert.Equal(t, "b", posts[1].Slug)
}

func TestPosts_EqualDatesKeepDirectoryOrder(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "c.md", "---\ndate: 2024-05-05\n---\n")
	writePost(t, dir, "a.md", "---\ndate: 2024-05-05\n---\n")
	writePost(t, dir, "b.md", "---\ndate: 2024-05-05\n---\n")

	posts, err := services.NewPostService(dir, nil).List()
	require.NoError(t, err)

	var slugs []string
	for _, p := range posts {
		slugs = append(slugs, p.Slug)
	}
	assert.Equal(t, []string{"a", "b", "c"}, slugs)
}

func TestPosts_Defaults(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "bare.md", "---\n---\nJust a body.\n")

	posts, err := services.NewPostService(dir, nil).List()
	require.NoError(t, err)
	require.Len(t, posts, 1)

	assert.Equal(t, models.BlogPost{
		Slug:    "bare",
		Title:   "bare",
		Date:    "",
		Summary: "",
		Tags:    []string{},
	}, posts[0])
	assert.NotNil(t, posts[0].Tags)
}

func TestPosts_FieldsFromFrontmatter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "logman.mdx", "---\ntitle: Log manager\ndate: 2024-02-10\nsummary: Indexing logs\ntags: [cpp, systems]\n---\nBody\n")

	post, ok, err := services.NewPostService(dir, nil).Get("logman")
	require.NoError(t, err)
	require.True(t, ok)

	assert.Equal(t, models.BlogPost{
		Slug:    "logman",
		Title:   "Log manager",
		Date:    "2024-02-10",
		Summary: "Indexing logs",
		Tags:    []string{"cpp", "systems"},
	}, post)
}

func TestPosts_IgnoresOtherFiles(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "post.md", "body")
	writePost(t, dir, "notes.txt", "ignored")
	writePost(t, dir, "draft.md.bak", "ignored")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "images.md"), 0o755))

	posts, err := services.NewPostService(dir, nil).List()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "post", posts[0].Slug)
}

func TestPosts_MissingDirectory(t *testing.T) {
	t.Parallel()

	posts, err := services.NewPostService(filepath.Join(t.TempDir(), "blog"), nil).List()
	require.NoError(t, err)
	assert.Empty(t, posts)
}

func TestPosts_MalformedFrontmatter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "broken.md", "---\ntitle: [oops\n---\n")

	_, err := services.NewPostService(dir, nil).List()
	require.ErrorContains(t, err, "broken.md")
}

func TestSource_PrefersMDX(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "both.md", "markdown")
	writePost(t, dir, "both.mdx", "mdx")
	writePost(t, dir, "plain.md", "plain markdown")

	svc := services.NewPostService(dir, nil)

	src, err := svc.Source("both")
	require.NoError(t, err)
	assert.Equal(t, "mdx", src)

	src, err = svc.Source("plain")
	require.NoError(t, err)
	assert.Equal(t, "plain markdown", src)
}

func TestSource_NotFound(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "outside.md", "secret")
	svc := services.NewPostService(filepath.Join(dir, "blog"), nil)

	for _, slug := range []string{"missing-slug", "", "../outside", `..\outside`} {
		_, err := svc.Source(slug)
		require.ErrorIs(t, err, services.ErrPostNotFound, slug)
	}
}

func TestSource_DotsInsideSlug(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "v1..v2.md", "---\ntitle: Upgrading\n---\nnotes\n")
	svc := services.NewPostService(dir, nil)

	posts, err := svc.List()
	require.NoError(t, err)
	require.Len(t, posts, 1)
	assert.Equal(t, "v1..v2", posts[0].Slug)

	src, err := svc.Source("v1..v2")
	require.NoError(t, err)
	assert.Equal(t, "---\ntitle: Upgrading\n---\nnotes\n", src)

	html, err := svc.Render("v1..v2")
	require.NoError(t, err)
	assert.Contains(t, html, "<p>notes</p>")

	for _, slug := range []string{".", ".."} {
		_, err := svc.Source(slug)
		require.ErrorIs(t, err, services.ErrPostNotFound, slug)
	}
}

func TestRender_StripsFrontmatter(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	writePost(t, dir, "hello.md", "---\ntitle: Hello\n---\n# Hello\n\n| a | b |\n|---|---|\n| 1 | 2 |\n")

	html, err := services.NewPostService(dir, nil).Render("hello")
	require.NoError(t, err)

	assert.Contains(t, html, "<h1>Hello</h1>")
	assert.Contains(t, html, "<table>")
	assert.NotContains(t, html, "title:")
}

func TestRender_NotFound(t *testing.T) {
	t.Parallel()

	_, err := services.NewPostService(t.TempDir(), nil).Render("nope")
	require.ErrorIs(t, err, services.ErrPostNotFound)
}
