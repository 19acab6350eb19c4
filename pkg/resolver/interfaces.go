package resolver

import (
	"context"

	"igresolve/pkg/extract"
	"igresolve/pkg/fetch"
	"igresolve/pkg/instagram"
)

// PrimaryLookup is the structured lookup against the target service's own
// data model, implemented by instagram.Client
type PrimaryLookup interface {
	FetchPost(ctx context.Context, shortcode string) (*instagram.ShortcodeMedia, error)
	FetchProfile(ctx context.Context, username string) (*instagram.ProfileUser, error)
}

// Fetcher performs a raw dispatch with a header/URL-shaping profile,
// implemented by fetch.Dispatcher
type Fetcher interface {
	Fetch(ctx context.Context, rawURL string, kind instagram.ContentKind, variant fetch.Variant) (*fetch.Response, error)
}

// Extractor scans a response body for media candidates, implemented by
// extract.Extractor
type Extractor interface {
	Extract(body string, kind instagram.ContentKind) []extract.MediaCandidate
}
