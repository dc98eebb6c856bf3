package export

import (
	"regexp"
	"strings"
)

// FallbackFilename is used when nothing usable survives slugging.
const FallbackFilename = "ticket-export"

const maxFilenameLen = 60

var nonAlnumRun = regexp.MustCompile(`[^a-z0-9]+`)

// Filename derives a download-safe base name: lowercased, non-alphanumeric
// runs collapsed to one hyphen, outer hyphens trimmed, cut to 60 characters.
func Filename(source string) string {
	slug := nonAlnumRun.ReplaceAllString(strings.ToLower(source), "-")
	slug = strings.Trim(slug, "-")
	if len(slug) > maxFilenameLen {
		slug = slug[:maxFilenameLen]
	}
	if slug == "" {
		return FallbackFilename
	}
	return slug
}
