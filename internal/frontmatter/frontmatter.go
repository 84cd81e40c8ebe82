// Package frontmatter splits a leading metadata block off a Markdown or MDX
// document and decodes it as YAML:
//
//	---
//	title: Building a log manager
//	date: 2024-03-01
//	tags: [cpp, systems]
//	---
//	Body text...
//
// Documents without a leading "---" line have no front matter; the whole
// input is the body. Values are exposed through string-typed getters because
// callers only ever display them.
package frontmatter

import (
	"bytes"
	"errors"
	"fmt"

	"gopkg.in/yaml.v3"
)

const delimiter = "---"

// ErrUnterminated is returned when the opening delimiter has no closing match.
var ErrUnterminated = errors.New("frontmatter: missing closing delimiter")

// Frontmatter maps top-level keys to decoded YAML values.
type Frontmatter map[string]any

// Split separates the metadata block from the body.
// ok is false when src does not open with a delimiter line.
func Split(src []byte) (meta, body []byte, ok bool, err error) {
	src = bytes.TrimPrefix(src, []byte("\ufeff"))

	first, rest, _ := cutLine(src)
	if !isDelimiter(first) {
		return nil, src, false, nil
	}

	offset := 0
	for {
		line, next, more := cutLine(rest[offset:])
		if isDelimiter(line) {
			return rest[:offset], next, true, nil
		}
		if !more {
			return nil, src, false, ErrUnterminated
		}
		offset = len(rest) - len(next)
	}
}

// Parse decodes the front matter of src and returns it with the body.
// A document without front matter yields an empty map.
func Parse(src []byte) (Frontmatter, []byte, error) {
	meta, body, ok, err := Split(src)
	if err != nil {
		return nil, nil, err
	}
	fm := Frontmatter{}
	if !ok || len(bytes.TrimSpace(meta)) == 0 {
		return fm, body, nil
	}

	if err := yaml.Unmarshal(meta, &fm); err != nil {
		return nil, nil, fmt.Errorf("frontmatter: invalid YAML: %w", err)
	}
	if fm == nil {
		fm = Frontmatter{}
	}

	return fm, body, nil
}

// String returns the value for key rendered as a string.
// Missing keys and null values report ok == false.
func (fm Frontmatter) String(key string) (string, bool) {
	v, ok := fm[key]
	if !ok || v == nil {
		return "", false
	}
	return stringify(v), true
}

// Strings returns the value for key when it is a YAML sequence, with every
// item rendered as a string. Any other shape reports ok == false.
func (fm Frontmatter) Strings(key string) ([]string, bool) {
	v, ok := fm[key]
	if !ok {
		return nil, false
	}
	items, ok := v.([]any)
	if !ok {
		return nil, false
	}

	out := make([]string, 0, len(items))
	for _, item := range items {
		out = append(out, stringify(item))
	}
	return out, true
}

func stringify(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

// cutLine returns the first line of b without its terminator, the remainder
// after the terminator, and whether a terminator was found.
func cutLine(b []byte) (line, rest []byte, found bool) {
	line, rest, found = bytes.Cut(b, []byte("\n"))
	return bytes.TrimSuffix(line, []byte("\r")), rest, found
}

func isDelimiter(line []byte) bool {
	return string(bytes.TrimRight(line, " \t")) == delimiter
}
