package instagram

import (
	"regexp"
	"strings"

	errs "igresolve/pkg/errors"
)

// ContentKind identifies what a content URL points at
type ContentKind string

const (
	KindAuto    ContentKind = "auto"
	KindProfile ContentKind = "profile"
	KindPost    ContentKind = "post"
	KindReel    ContentKind = "reel"
	KindStory   ContentKind = "story"
	KindUnknown ContentKind = "unknown"
)

// shortcodePatterns are tried in order; the first match wins. The charset is
// restricted to the shortcode alphabet so query strings and trailing slashes
// never leak into the token.
var shortcodePatterns = []*regexp.Regexp{
	regexp.MustCompile(`/p/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`/reel/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`/reels/([A-Za-z0-9_-]+)`),
	regexp.MustCompile(`/tv/([A-Za-z0-9_-]+)`),
}

var storyPattern = regexp.MustCompile(`/stories/([A-Za-z0-9._]+)`)

var profilePattern = regexp.MustCompile(`instagram\.com/([A-Za-z0-9._]+)/?(?:\?.*)?$`)

// reservedSegments are path segments that can never be usernames
var reservedSegments = map[string]bool{
	"p":        true,
	"reel":     true,
	"reels":    true,
	"tv":       true,
	"stories":  true,
	"explore":  true,
	"accounts": true,
	"direct":   true,
}

// DetectKind determines the content kind from the URL shape alone.
//
// Unrecognized URLs default to post rather than unknown. That is the
// behavior the service has always had; callers relying on a hard failure
// for junk URLs should validate the URL first.
func DetectKind(rawURL string) ContentKind {
	switch {
	case strings.Contains(rawURL, "/p/"):
		return KindPost
	case strings.Contains(rawURL, "/reels/"), strings.Contains(rawURL, "/reel/"):
		return KindReel
	case strings.Contains(rawURL, "/tv/"):
		return KindPost
	case strings.Contains(rawURL, "/stories/"):
		return KindStory
	case profilePattern.MatchString(rawURL):
		return KindProfile
	}
	return KindPost
}

// Classify parses a content URL into its kind and extraction token. The token
// is a shortcode for the post family and a username for profiles and stories.
//
// A kind hint other than KindAuto overrides shape detection but token
// extraction still runs against the URL for the hinted kind.
func Classify(rawURL string, hint ContentKind) (ContentKind, string, error) {
	rawURL = strings.TrimSpace(rawURL)

	if rawURL == "" || !strings.Contains(rawURL, "instagram.com/") {
		return KindUnknown, "", errs.Newf(errs.ErrorTypeInvalidInput,
			"not a recognized content URL: %q", rawURL)
	}

	kind := hint
	if kind == "" || kind == KindAuto {
		kind = DetectKind(rawURL)
	}

	switch kind {
	case KindPost, KindReel:
		shortcode := ExtractShortcode(rawURL)
		if shortcode == "" {
			return kind, "", errs.New(errs.ErrorTypeTokenNotFound,
				"could not extract shortcode from URL")
		}
		return kind, shortcode, nil

	case KindProfile:
		username := ExtractUsername(rawURL)
		if username == "" {
			return kind, "", errs.New(errs.ErrorTypeTokenNotFound,
				"could not extract username from URL")
		}
		return kind, username, nil

	case KindStory:
		// Stories carry the owner's username; absence is tolerated because
		// story resolution never uses the primary lookup.
		if m := storyPattern.FindStringSubmatch(rawURL); m != nil {
			return kind, m[1], nil
		}
		return kind, "", nil

	default:
		return KindUnknown, "", nil
	}
}

// ExtractShortcode extracts the shortcode from a post, reel, or tv URL
func ExtractShortcode(rawURL string) string {
	for _, pattern := range shortcodePatterns {
		if m := pattern.FindStringSubmatch(rawURL); m != nil {
			return m[1]
		}
	}
	return ""
}

// ExtractUsername extracts the username from a profile URL
func ExtractUsername(rawURL string) string {
	m := profilePattern.FindStringSubmatch(rawURL)
	if m == nil {
		return ""
	}

	username := m[1]
	if reservedSegments[username] {
		return ""
	}
	return username
}
