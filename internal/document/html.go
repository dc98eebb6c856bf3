package document

import (
	"bytes"
	"sync"

	"github.com/microcosm-cc/bluemonday"
	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"

	"github.com/spec-kit/msp-dashboard/pkg/util/errorutil"
)

var (
	htmlOnce     sync.Once
	htmlMarkdown goldmark.Markdown
	htmlPolicy   *bluemonday.Policy
)

func htmlRenderer() (goldmark.Markdown, *bluemonday.Policy) {
	htmlOnce.Do(func() {
		htmlMarkdown = goldmark.New(goldmark.WithExtensions(extension.GFM))
		htmlPolicy = bluemonday.UGCPolicy()
		// task list checkboxes from GFM
		htmlPolicy.AllowAttrs("type", "checked", "disabled").OnElements("input")
	})
	return htmlMarkdown, htmlPolicy
}

// HTML renders export Markdown for in-browser preview. Output is sanitized,
// so operator templates cannot smuggle script into the dashboard.
func HTML(markdown string) (string, error) {
	md, policy := htmlRenderer()
	var buf bytes.Buffer
	if err := md.Convert([]byte(markdown), &buf); err != nil {
		return "", errorutil.NewSerializationError(err)
	}
	return policy.Sanitize(buf.String()), nil
}
