// Package urlcheck validates YouTube URLs and extracts video IDs.
package urlcheck

import (
	"net/url"
	"regexp"
	"strings"
)

var patterns = []*regexp.Regexp{
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/watch\?v=([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/embed/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/v/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`^(?:https?://)?youtu\.be/([a-zA-Z0-9_-]{11})`),
	regexp.MustCompile(`^(?:https?://)?(?:www\.)?youtube\.com/shorts/([a-zA-Z0-9_-]{11})`),
}

// IsYouTubeURL reports whether the URL points at a YouTube video.
func IsYouTubeURL(raw string) bool {
	if raw == "" {
		return false
	}
	for _, p := range patterns {
		if p.MatchString(raw) {
			return true
		}
	}
	return false
}

// VideoID extracts the 11-character video ID, or "" when none is found.
func VideoID(raw string) string {
	if raw == "" {
		return ""
	}
	for _, p := range patterns {
		if m := p.FindStringSubmatch(raw); m != nil {
			return m[1]
		}
	}

	// Odd-but-valid URLs (extra query parameters before v=) still carry
	// the ID in the query string.
	u, err := url.Parse(raw)
	if err != nil {
		return ""
	}
	host := strings.TrimPrefix(u.Hostname(), "www.")
	if host != "youtube.com" && host != "youtu.be" {
		return ""
	}
	if id := u.Query().Get("v"); len(id) == 11 {
		return id
	}
	return ""
}

// SanitizeFilename strips characters that are unsafe in filenames and
// caps the length.
func SanitizeFilename(name string) string {
	const invalid = `<>:"/\|?*`
	var b strings.Builder
	for _, r := range name {
		if !strings.ContainsRune(invalid, r) {
			b.WriteRune(r)
		}
	}
	out := b.String()
	if len(out) > 200 {
		out = out[:200]
	}
	return strings.TrimSpace(out)
}
