package resolver

import (
	"fmt"

	"igresolve/pkg/instagram"
)

// Result is the normalized outcome of a resolution, returned to the caller
// and never mutated after construction
type Result struct {
	Success      bool                  `json:"success"`
	Kind         instagram.ContentKind `json:"content_type"`
	MediaURLs    []string              `json:"media_urls"`
	StrategyUsed string                `json:"strategy,omitempty"`
	Message      string                `json:"message"`
}

// Assemble maps a resolved media URL sequence to the response contract.
// It is a pure mapping with no side effects.
func Assemble(kind instagram.ContentKind, mediaURLs []string, strategy string) *Result {
	result := &Result{
		Success:      len(mediaURLs) > 0,
		Kind:         kind,
		MediaURLs:    mediaURLs,
		StrategyUsed: strategy,
	}

	switch {
	case !result.Success:
		result.Message = fmt.Sprintf("No media found for %s content", kind)
	case strategy == StrategyPrimary:
		result.Message = fmt.Sprintf("Resolved %d media URL(s)", len(mediaURLs))
	default:
		result.Message = fmt.Sprintf("Resolved %d media URL(s) via %s strategy", len(mediaURLs), strategy)
	}

	return result
}
