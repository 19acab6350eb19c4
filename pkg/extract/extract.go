package extract

import (
	"regexp"
	"strings"

	"igresolve/pkg/instagram"
	"igresolve/pkg/logger"
)

// DefaultMaxCandidates caps the selected sequence length
const DefaultMaxCandidates = 10

// MediaClass distinguishes video from image candidates
type MediaClass string

const (
	ClassVideo MediaClass = "video"
	ClassImage MediaClass = "image"
)

// MediaCandidate is a single extracted URL with its detected media class.
// Discovery order matters: dedup keeps the first occurrence.
type MediaCandidate struct {
	URL   string
	Class MediaClass
}

// Extractor scans raw response bodies for embedded media URLs
type Extractor struct {
	maxCandidates int
	logger        logger.Logger
}

// New creates an Extractor. maxCandidates <= 0 selects the default cap.
func New(maxCandidates int, log logger.Logger) *Extractor {
	if maxCandidates <= 0 {
		maxCandidates = DefaultMaxCandidates
	}
	if log == nil {
		log = logger.GetLogger()
	}
	return &Extractor{
		maxCandidates: maxCandidates,
		logger:        log,
	}
}

// Extract scans a response body and returns the media candidates selected for
// the given kind hint, deduplicated in first-seen order and capped. An empty
// result is not an error; it signals the orchestrator to try the next
// strategy.
func (e *Extractor) Extract(body string, kind instagram.ContentKind) []MediaCandidate {
	videos := applyFamily(body, videoPatterns)
	images := applyFamily(body, imagePatterns)
	profilePics := applyFamily(body, profilePicPatterns)

	// HTML-structured embeddings rank below the JSON families within each
	// family list, so JSON-discovered URLs keep their first-seen positions
	meta := extractMeta(body)
	videos = append(videos, filterMediaHosts(meta.videos)...)
	images = append(images, filterMediaHosts(meta.images)...)
	profilePics = append(profilePics, filterMediaHosts(meta.images)...)

	var selected []MediaCandidate

	switch kind {
	case instagram.KindReel:
		// Reels are videos; images only as a last resort
		if len(videos) > 0 {
			selected = candidates(videos, ClassVideo)
		} else {
			selected = candidates(images, ClassImage)
		}
	case instagram.KindStory:
		selected = append(candidates(videos, ClassVideo), candidates(images, ClassImage)...)
	case instagram.KindProfile:
		selected = candidates(profilePics, ClassImage)
	default:
		// Posts prioritize images, with videos appended for mixed carousels
		selected = append(candidates(images, ClassImage), candidates(videos, ClassVideo)...)
	}

	selected = dedupe(selected)

	if len(selected) > e.maxCandidates {
		selected = selected[:e.maxCandidates]
	}

	e.logger.DebugWithFields("extraction finished", map[string]interface{}{
		"kind":       string(kind),
		"videos":     len(videos),
		"images":     len(images),
		"candidates": len(selected),
	})

	return selected
}

// URLs returns just the URLs of a candidate sequence, preserving order
func URLs(cands []MediaCandidate) []string {
	urls := make([]string, 0, len(cands))
	for _, c := range cands {
		urls = append(urls, c.URL)
	}
	return urls
}

// applyFamily runs every pattern of a family in order and concatenates all
// matches. Later patterns re-discovering the same URL is expected; dedup is
// the caller's job so that first-seen positions survive.
func applyFamily(body string, family []*regexp.Regexp) []string {
	var matches []string
	for _, pattern := range family {
		for _, m := range pattern.FindAllStringSubmatch(body, -1) {
			url := NormalizeURL(m[1])
			if isMediaHost(url) {
				matches = append(matches, url)
			}
		}
	}
	return matches
}

var urlUnescaper = strings.NewReplacer(
	`\u0026`, "&",
	`\u003d`, "=",
	`\/`, "/",
	"&amp;", "&",
)

// NormalizeURL undoes the JSON and HTML escaping the upstream markup applies
// to embedded URLs
func NormalizeURL(raw string) string {
	return urlUnescaper.Replace(raw)
}

// filterMediaHosts normalizes a URL list and drops non-media hosts
func filterMediaHosts(urls []string) []string {
	var out []string
	for _, u := range urls {
		u = NormalizeURL(u)
		if isMediaHost(u) {
			out = append(out, u)
		}
	}
	return out
}

// IsMediaURL reports whether a URL points at the target site or its CDN.
// The streaming proxy uses it to refuse relaying arbitrary hosts.
func IsMediaURL(url string) bool {
	return isMediaHost(url)
}

// isMediaHost retains a URL only if it points at the target site or its CDN
func isMediaHost(url string) bool {
	for _, host := range mediaHosts {
		if strings.Contains(url, host) {
			return true
		}
	}
	return false
}

// candidates tags a URL list with a media class
func candidates(urls []string, class MediaClass) []MediaCandidate {
	out := make([]MediaCandidate, 0, len(urls))
	for _, u := range urls {
		out = append(out, MediaCandidate{URL: u, Class: class})
	}
	return out
}

// dedupe removes duplicate URLs preserving first-seen order. A URL seen under
// two families keeps the class of its first discovery.
func dedupe(cands []MediaCandidate) []MediaCandidate {
	seen := make(map[string]bool, len(cands))
	out := cands[:0:0]
	for _, c := range cands {
		if seen[c.URL] {
			continue
		}
		seen[c.URL] = true
		out = append(out, c)
	}
	return out
}
