package resolver

import (
	"context"
	"errors"

	"igresolve/pkg/config"
	errs "igresolve/pkg/errors"
	"igresolve/pkg/extract"
	"igresolve/pkg/fetch"
	"igresolve/pkg/instagram"
	"igresolve/pkg/logger"
)

// Strategy labels, in the order they are tried
const (
	StrategyPrimary  = "primary"
	StrategyStandard = "standard"
	StrategyMobile   = "mobile"
	StrategyEmbed    = "embed"
)

// fallbackStrategy pairs a label with the dispatch variant it selects
type fallbackStrategy struct {
	name    string
	variant fetch.Variant
}

// fallbackStrategies is the explicit, ordered list the orchestrator walks
// after the primary lookup. Order is a correctness choice: cheaper, less
// conspicuous profiles go first against a target that actively rate-limits.
var fallbackStrategies = []fallbackStrategy{
	{StrategyStandard, fetch.VariantStandard},
	{StrategyMobile, fetch.VariantMobile},
	{StrategyEmbed, fetch.VariantEmbed},
}

// Resolver orchestrates the resolution pipeline: classification, the primary
// structured lookup, and the ordered fallback scrape strategies
type Resolver struct {
	primary   PrimaryLookup
	fetcher   Fetcher
	extractor Extractor
	maxMedia  int
	logger    logger.Logger
}

// New creates a Resolver
func New(primary PrimaryLookup, fetcher Fetcher, cfg *config.ResolverConfig, log logger.Logger) *Resolver {
	if cfg == nil {
		cfg = &config.DefaultConfig().Resolver
	}
	if log == nil {
		log = logger.GetLogger()
	}

	return &Resolver{
		primary:   primary,
		fetcher:   fetcher,
		extractor: extract.New(cfg.MaxMediaURLs, log),
		maxMedia:  cfg.MaxMediaURLs,
		logger:    log,
	}
}

// Resolve turns a content URL into direct media URLs. The hint narrows the
// content kind; KindAuto derives it from the URL shape. The returned error is
// always a classified *errors.Error; per-strategy failures never bubble out,
// only up-front validation failures or the exhaustion of every strategy.
func (r *Resolver) Resolve(ctx context.Context, rawURL string, hint instagram.ContentKind) (*Result, error) {
	kind, token, err := instagram.Classify(rawURL, hint)
	if err != nil {
		return nil, err
	}

	log := r.logger.WithFields(map[string]interface{}{
		"url":  rawURL,
		"kind": string(kind),
	})

	if kind == instagram.KindUnknown {
		return nil, errs.Newf(errs.ErrorTypeUnsupportedKind,
			"unsupported content type: %s", hint)
	}

	log.InfoWithFields("resolving content", map[string]interface{}{"token": token})

	// Primary strategy: the structured lookup. Stories have none; they
	// require authentication the gateway does not hold.
	if kind != instagram.KindStory {
		urls, err := r.resolvePrimary(ctx, kind, token)
		if err != nil {
			var apiErr *errs.Error
			if errors.As(err, &apiErr) && errs.IsTerminal(apiErr.Type) {
				// Confirmed privacy or an exceeded budget is not a
				// structural failure; fallbacks do not apply
				return nil, err
			}
			log.WithError(err).Warn("primary lookup failed, falling back to scrape strategies")
		} else if len(urls) > 0 {
			if len(urls) > r.maxMedia {
				urls = urls[:r.maxMedia]
			}
			logger.LogResolve(rawURL, string(kind), StrategyPrimary, len(urls), nil)
			return Assemble(kind, urls, StrategyPrimary), nil
		} else {
			log.Warn("primary lookup yielded no media, falling back to scrape strategies")
		}
	}

	// Fallback strategies, strictly in order; the first one whose extraction
	// yields a candidate wins
	for _, strat := range fallbackStrategies {
		resp, err := r.fetcher.Fetch(ctx, rawURL, kind, strat.variant)
		if err != nil {
			var apiErr *errs.Error
			if errors.As(err, &apiErr) {
				if apiErr.Type == errs.ErrorTypeRateLimit && apiErr.Code == 0 {
					// Process-wide budget exceeded; surface immediately
					return nil, err
				}
			}
			logger.LogStrategy(strat.name, rawURL, 0, err)
			continue
		}

		candidates := r.extractor.Extract(resp.Body, kind)
		logger.LogStrategy(strat.name, rawURL, len(candidates), nil)

		if len(candidates) > 0 {
			urls := extract.URLs(candidates)
			logger.LogResolve(rawURL, string(kind), strat.name, len(urls), nil)
			return Assemble(kind, urls, strat.name), nil
		}
	}

	if kind == instagram.KindStory {
		return nil, errs.New(errs.ErrorTypeUnsupportedKind,
			"story content requires authentication and is not supported")
	}

	return nil, errs.New(errs.ErrorTypeAllStrategiesExhausted,
		"no strategy produced media for this content")
}

// resolvePrimary runs the structured lookup for the given kind and token
func (r *Resolver) resolvePrimary(ctx context.Context, kind instagram.ContentKind, token string) ([]string, error) {
	switch kind {
	case instagram.KindPost, instagram.KindReel:
		media, err := r.primary.FetchPost(ctx, token)
		if err != nil {
			return nil, err
		}
		return media.MediaURLs(), nil

	case instagram.KindProfile:
		user, err := r.primary.FetchProfile(ctx, token)
		if err != nil {
			return nil, err
		}
		if user.IsPrivate {
			return nil, errs.New(errs.ErrorTypePrivateOrUnavailable,
				"profile is private")
		}
		if url := user.BestProfilePicURL(); url != "" {
			return []string{url}, nil
		}
		return nil, nil

	default:
		return nil, nil
	}
}
