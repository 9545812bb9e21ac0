package util

import (
	"regexp"
	"strings"
)

var (
	slugInvalidChars = regexp.MustCompile(`[^\p{L}\p{N}-]+`)
	slugDashRuns     = regexp.MustCompile(`-+`)
)

// Slugify converts a name into a URL-safe slug. Punctuation is deleted
// rather than dashed, so "Ravi's" becomes "ravis", not "ravi-s".
func Slugify(name string) string {
	slug := strings.TrimSpace(strings.ToLower(name))
	slug = strings.ReplaceAll(slug, " ", "-")
	slug = slugInvalidChars.ReplaceAllString(slug, "")
	slug = slugDashRuns.ReplaceAllString(slug, "-")
	return strings.Trim(slug, "-")
}
