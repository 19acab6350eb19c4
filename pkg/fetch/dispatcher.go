package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"igresolve/pkg/config"
	errs "igresolve/pkg/errors"
	"igresolve/pkg/instagram"
	"igresolve/pkg/logger"
	"igresolve/pkg/ratelimit"
	"igresolve/pkg/retry"
)

// maxBodyBytes bounds how much of an upstream response is buffered for
// extraction. Bodies are transient; they never outlive the attempt.
const maxBodyBytes = 8 << 20

// Response is the outcome of a successful dispatch
type Response struct {
	StatusCode int
	Body       string
	FinalURL   string
}

// Dispatcher issues outbound GETs with header rotation, retry/backoff, and
// rate-limit compliance. It owns all process-wide dispatch state: the header
// rotation and the outbound budget are reachable only through its operations.
type Dispatcher struct {
	httpClient      *http.Client
	limiter         ratelimit.Limiter
	rotation        *headerRotation
	maxAttempts     int
	backoff         retry.BackoffStrategy
	rateLimitedWait retry.BackoffStrategy
	logger          logger.Logger
}

// New creates a Dispatcher from fetch configuration. The limiter is the
// shared outbound budget; pass nil to disable budget checks (tests only).
func New(cfg *config.FetchConfig, limiter ratelimit.Limiter, log logger.Logger) *Dispatcher {
	if cfg == nil {
		cfg = &config.DefaultConfig().Fetch
	}
	if log == nil {
		log = logger.GetLogger()
	}

	httpClient := &http.Client{
		Timeout: cfg.Timeout,
	}
	if !cfg.FollowRedirects {
		httpClient.CheckRedirect = func(req *http.Request, via []*http.Request) error {
			return http.ErrUseLastResponse
		}
	}

	return &Dispatcher{
		httpClient:      httpClient,
		limiter:         limiter,
		rotation:        newHeaderRotation(),
		maxAttempts:     cfg.MaxAttempts,
		backoff:         retry.NewRangeBackoff(cfg.BackoffMin, cfg.BackoffMax),
		rateLimitedWait: retry.NewRangeBackoff(cfg.RateLimitedMin, cfg.RateLimitedMax),
		logger:          log,
	}
}

// SetHTTPClient replaces the underlying HTTP client (tests)
func (d *Dispatcher) SetHTTPClient(httpClient *http.Client) {
	d.httpClient = httpClient
}

// Fetch performs a GET against the content URL using the header/URL-shaping
// profile of the given variant. The embed variant rewrites the URL to the
// embeddable-post form first, which only exists for the post family.
func (d *Dispatcher) Fetch(ctx context.Context, rawURL string, kind instagram.ContentKind, variant Variant) (*Response, error) {
	targetURL := rawURL

	if variant == VariantEmbed {
		rewritten, err := embedURL(rawURL, kind)
		if err != nil {
			return nil, err
		}
		targetURL = rewritten
	}

	var lastErr error

	for attempt := 1; attempt <= d.maxAttempts; attempt++ {
		if d.limiter != nil && !d.limiter.Allow() {
			logger.LogRateLimit("outbound-budget", targetURL, 0)
			return nil, errs.New(errs.ErrorTypeRateLimit, "outbound request budget exceeded")
		}

		resp, err := d.fetchOnce(ctx, targetURL, variant)
		if err == nil {
			return resp, nil
		}
		lastErr = err

		if ctx.Err() != nil {
			return nil, errs.Newf(errs.ErrorTypeNetwork, "dispatch cancelled: %v", ctx.Err())
		}

		// Backoff before the next attempt; a 429 earns the long cooldown
		if attempt < d.maxAttempts {
			delay := d.backoff.NextDelay(attempt)
			var apiErr *errs.Error
			if errors.As(err, &apiErr) && apiErr.Code == http.StatusTooManyRequests {
				delay = d.rateLimitedWait.NextDelay(attempt)
				logger.LogRateLimit("upstream", targetURL, int(delay.Seconds()))
			}

			d.logger.WarnWithFields("dispatch attempt failed, backing off", map[string]interface{}{
				"url":      targetURL,
				"variant":  string(variant),
				"attempt":  attempt,
				"delay_ms": delay.Milliseconds(),
				"error":    err.Error(),
			})

			if err := retry.Wait(ctx, delay); err != nil {
				return nil, errs.Newf(errs.ErrorTypeNetwork, "dispatch cancelled: %v", err)
			}
		}
	}

	d.logger.ErrorWithFields("dispatch retries exhausted", map[string]interface{}{
		"url":        targetURL,
		"variant":    string(variant),
		"attempts":   d.maxAttempts,
		"last_error": lastErr.Error(),
	})

	return nil, errs.Newf(errs.ErrorTypeFetchExhausted,
		"all %d fetch attempts failed: %v", d.maxAttempts, lastErr)
}

// fetchOnce performs a single attempt with the variant's header profile
func (d *Dispatcher) fetchOnce(ctx context.Context, targetURL string, variant Variant) (*Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, targetURL, nil)
	if err != nil {
		return nil, errs.Newf(errs.ErrorTypeUnknown, "failed to create request: %v", err)
	}

	for key, value := range d.headersFor(variant) {
		req.Header.Set(key, value)
	}

	start := time.Now()
	resp, err := d.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		d.logger.DebugWithFields("dispatch network error", map[string]interface{}{
			"url":      targetURL,
			"variant":  string(variant),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errs.Newf(errs.ErrorTypeNetwork, "network error: %v", err)
	}
	defer resp.Body.Close()

	d.logger.DebugWithFields("dispatch completed", map[string]interface{}{
		"url":      targetURL,
		"variant":  string(variant),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	if resp.StatusCode == http.StatusTooManyRequests {
		return nil, errs.WithCode(errs.ErrorTypeRateLimit, "upstream rate limit", resp.StatusCode)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, errs.WithCode(errs.ErrorTypeServerError,
			fmt.Sprintf("unexpected status %d", resp.StatusCode), resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, errs.Newf(errs.ErrorTypeNetwork, "failed to read response body: %v", err)
	}

	finalURL := targetURL
	if resp.Request != nil && resp.Request.URL != nil {
		finalURL = resp.Request.URL.String()
	}

	return &Response{
		StatusCode: resp.StatusCode,
		Body:       string(body),
		FinalURL:   finalURL,
	}, nil
}

// headersFor selects the header set of a variant. The standard variant
// rotates per call so retries present a fresh fingerprint.
func (d *Dispatcher) headersFor(variant Variant) map[string]string {
	switch variant {
	case VariantMobile:
		return mobileHeaders
	case VariantEmbed:
		return embedHeaders
	default:
		return d.rotation.next()
	}
}

// embedURL rewrites a content URL to its embeddable-post form
func embedURL(rawURL string, kind instagram.ContentKind) (string, error) {
	switch kind {
	case instagram.KindPost, instagram.KindReel:
		shortcode := instagram.ExtractShortcode(rawURL)
		if shortcode == "" {
			return "", errs.New(errs.ErrorTypeTokenNotFound,
				"could not extract shortcode for embed form")
		}
		return instagram.GetEmbedURL(shortcode), nil
	default:
		return "", errs.Newf(errs.ErrorTypeUnsupportedKind,
			"no embed form exists for %s content", kind)
	}
}
