// Package videoid resolves user-supplied locators to canonical video ids.
package videoid

import (
	"regexp"

	"github.com/SpaceXe-tech/yt-api/internal/apierr"
)

// Locator patterns are tried in order and the first match wins. The order is
// load-bearing: keep new patterns at the end unless they must shadow an
// existing one.
var locatorPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtu\.be/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?youtube\.com/watch\?(?:[^#]*&)?v=([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`(?:https?://)?(?:www\.)?youtube\.com/embed/([A-Za-z0-9_-]{11})`),
	regexp.MustCompile(`^([A-Za-z0-9_-]{11})$`),
	regexp.MustCompile(`(?:https?://)?(?:www\.|m\.)?youtube\.com/shorts/([A-Za-z0-9_-]{11})`),
}

// Resolve extracts the canonical 11-character video id from a locator.
// Recognized syntaxes: short link, watch link, embed link, bare id and
// shorts link.
func Resolve(locator string) (string, error) {
	for _, pattern := range locatorPatterns {
		if m := pattern.FindStringSubmatch(locator); m != nil {
			return m[1], nil
		}
	}
	return "", apierr.InvalidLocator(locator)
}

// WatchURL rebuilds the canonical watch link for an id. Extraction
// collaborators expect a full URL rather than a bare id.
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?v=" + id
}
