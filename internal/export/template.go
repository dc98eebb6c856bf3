package export

import (
	"strings"
)

const (
	openDelim  = "{{"
	closeDelim = "}}"
)

type chunk struct {
	literal     string
	path        string
	placeholder bool
}

// Template is a compiled export template: the source split once into literal
// runs and {{path}} placeholders.
type Template struct {
	chunks []chunk
	paths  []string
}

// Compile scans src for {{path}} tokens. A path is any run of characters
// other than braces and whitespace, matched literally and case-sensitively.
// Compile never fails; anything that is not a well-formed token stays text.
func Compile(src string) *Template {
	t := &Template{}
	seen := map[string]bool{}
	rest := src
	for {
		start := strings.Index(rest, openDelim)
		if start < 0 {
			t.appendLiteral(rest)
			break
		}
		end := strings.Index(rest[start+len(openDelim):], closeDelim)
		if end < 0 {
			t.appendLiteral(rest)
			break
		}
		path := rest[start+len(openDelim) : start+len(openDelim)+end]
		if !validPath(path) {
			// "{{{x}}" and friends: emit one brace and rescan from the next byte.
			t.appendLiteral(rest[:start+1])
			rest = rest[start+1:]
			continue
		}
		t.appendLiteral(rest[:start])
		t.chunks = append(t.chunks, chunk{path: path, placeholder: true})
		if !seen[path] {
			seen[path] = true
			t.paths = append(t.paths, path)
		}
		rest = rest[start+len(openDelim)+end+len(closeDelim):]
	}
	return t
}

func validPath(path string) bool {
	if path == "" {
		return false
	}
	return !strings.ContainsAny(path, "{} \t\r\n")
}

func (t *Template) appendLiteral(s string) {
	if s == "" {
		return
	}
	if n := len(t.chunks); n > 0 && !t.chunks[n-1].placeholder {
		t.chunks[n-1].literal += s
		return
	}
	t.chunks = append(t.chunks, chunk{literal: s})
}

// Placeholders lists the distinct paths referenced by the template in
// first-seen order.
func (t *Template) Placeholders() []string {
	out := make([]string, len(t.paths))
	copy(out, t.paths)
	return out
}

// Render substitutes every placeholder whose path names a leaf of rec. Paths
// that are missing, or that name a nested record, are written back verbatim.
// Substituted text is never rescanned for placeholders.
func (t *Template) Render(rec *Record) string {
	leaves := rec.Leaves()
	var b strings.Builder
	for _, c := range t.chunks {
		if !c.placeholder {
			b.WriteString(c.literal)
			continue
		}
		if text, ok := leaves[c.path]; ok {
			b.WriteString(text)
			continue
		}
		b.WriteString(openDelim)
		b.WriteString(c.path)
		b.WriteString(closeDelim)
	}
	return b.String()
}

// Missing returns the template's placeholders that rec cannot satisfy.
func (t *Template) Missing(rec *Record) []string {
	leaves := rec.Leaves()
	var missing []string
	for _, p := range t.paths {
		if _, ok := leaves[p]; !ok {
			missing = append(missing, p)
		}
	}
	return missing
}

// Render compiles src and renders it against rec.
func Render(src string, rec *Record) string {
	return Compile(src).Render(rec)
}
