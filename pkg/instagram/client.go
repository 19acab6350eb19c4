package instagram

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	errs "igresolve/pkg/errors"
	"igresolve/pkg/logger"
	"igresolve/pkg/ratelimit"
	"igresolve/pkg/retry"
)

// Client performs structured lookups against the target service's own data
// model. It is the primary strategy of the resolution pipeline; the fallback
// scrapers live in pkg/fetch.
type Client struct {
	httpClient *http.Client
	headers    map[string]string
	baseURL    string
	limiter    ratelimit.Limiter
	backoff    retry.BackoffStrategy
	logger     logger.Logger
}

// NewClient creates a new structured-lookup client. The limiter is the shared
// outbound budget; pass nil to disable budget checks (tests only).
func NewClient(timeout time.Duration, limiter ratelimit.Limiter, log logger.Logger) *Client {
	if log == nil {
		log = logger.GetLogger()
	}

	return &Client{
		httpClient: &http.Client{
			Timeout: timeout,
		},
		headers: map[string]string{
			"User-Agent":      "Mozilla/5.0 (X11; Linux x86_64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/121.0.0.0 Safari/537.36",
			"Accept":          "text/html,application/xhtml+xml,application/xml;q=0.9,image/avif,image/webp,image/apng,*/*;q=0.8",
			"Accept-Language": "en-US,en;q=0.9",
			"Cache-Control":   "no-cache",
			"Pragma":          "no-cache",
			"Sec-Fetch-Dest":  "document",
			"Sec-Fetch-Mode":  "navigate",
			"Sec-Fetch-Site":  "none",
			"Sec-Fetch-User":  "?1",
		},
		baseURL: BaseURL,
		limiter: limiter,
		backoff: retry.DefaultExponentialBackoff(),
		logger:  log,
	}
}

// SetHTTPClient replaces the underlying HTTP client (tests)
func (c *Client) SetHTTPClient(httpClient *http.Client) {
	c.httpClient = httpClient
}

// doRequest performs an HTTP request with the configured headers
func (c *Client) doRequest(req *http.Request) (*http.Response, error) {
	if c.limiter != nil && !c.limiter.Allow() {
		logger.LogRateLimit("outbound-budget", req.URL.String(), 0)
		return nil, errs.New(errs.ErrorTypeRateLimit, "outbound request budget exceeded")
	}

	for key, value := range c.headers {
		req.Header.Set(key, value)
	}

	start := time.Now()
	c.logger.DebugWithFields("sending HTTP request", map[string]interface{}{
		"method": req.Method,
		"url":    req.URL.String(),
	})

	resp, err := c.httpClient.Do(req)
	duration := time.Since(start)

	if err != nil {
		c.logger.ErrorWithFields("HTTP request failed", map[string]interface{}{
			"method":   req.Method,
			"url":      req.URL.String(),
			"error":    err.Error(),
			"duration": duration,
		})
		return nil, errs.Newf(errs.ErrorTypeNetwork, "network error: %v", err)
	}

	c.logger.DebugWithFields("HTTP request completed", map[string]interface{}{
		"method":   req.Method,
		"url":      req.URL.String(),
		"status":   resp.StatusCode,
		"duration": duration,
	})

	return resp, nil
}

// Get performs a GET request to the specified URL
func (c *Client) Get(ctx context.Context, url string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, errs.Newf(errs.ErrorTypeUnknown, "failed to create request: %v", err)
	}

	return c.doRequest(req)
}

// GetJSON performs a GET request and decodes the JSON response. Transient
// network and server errors are retried; budget exhaustion and upstream 429s
// are not, since the orchestrator converts those into a strategy switch.
func (c *Client) GetJSON(ctx context.Context, url string, target interface{}) error {
	return retry.Do(func() error {
		return c.getJSONOnce(ctx, url, target)
	}, &retry.Config{
		MaxAttempts: 3,
		Backoff:     c.backoff,
		RetryIf: func(err error) bool {
			var apiErr *errs.Error
			if errors.As(err, &apiErr) {
				return apiErr.Type == errs.ErrorTypeNetwork || apiErr.Type == errs.ErrorTypeServerError
			}
			return false
		},
		Context: ctx,
		Logger:  c.logger,
	})
}

func (c *Client) getJSONOnce(ctx context.Context, url string, target interface{}) error {
	resp, err := c.Get(ctx, url)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if err := c.checkResponseStatus(resp); err != nil {
		return err
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return errs.WithCode(errs.ErrorTypeNetwork,
			fmt.Sprintf("failed to read response body: %v", err), resp.StatusCode)
	}

	if err := json.Unmarshal(body, target); err != nil {
		bodyPreview := string(body)
		if len(bodyPreview) > 200 {
			bodyPreview = bodyPreview[:200] + "..."
		}

		c.logger.ErrorWithFields("failed to parse JSON response", map[string]interface{}{
			"url":          url,
			"status":       resp.StatusCode,
			"error":        err.Error(),
			"body_preview": bodyPreview,
		})
		return errs.WithCode(errs.ErrorTypeParsing,
			fmt.Sprintf("failed to parse JSON: %v", err), resp.StatusCode)
	}

	return nil
}

// checkResponseStatus checks the HTTP response status and returns appropriate errors
func (c *Client) checkResponseStatus(resp *http.Response) error {
	switch resp.StatusCode {
	case http.StatusOK:
		return nil
	case http.StatusUnauthorized, http.StatusForbidden:
		c.logger.WarnWithFields("content requires authentication", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errs.WithCode(errs.ErrorTypePrivateOrUnavailable,
			"content requires authentication or is private", resp.StatusCode)
	case http.StatusNotFound:
		c.logger.WarnWithFields("resource not found", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errs.WithCode(errs.ErrorTypeNotFound, "resource not found", resp.StatusCode)
	case http.StatusTooManyRequests:
		c.logger.WarnWithFields("rate limit exceeded", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errs.WithCode(errs.ErrorTypeRateLimit, "rate limit exceeded", resp.StatusCode)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		c.logger.ErrorWithFields("server error", map[string]interface{}{
			"status": resp.StatusCode,
			"url":    resp.Request.URL.String(),
		})
		return errs.WithCode(errs.ErrorTypeServerError, "server error", resp.StatusCode)
	default:
		if resp.StatusCode >= 400 {
			c.logger.ErrorWithFields("unexpected API error", map[string]interface{}{
				"status": resp.StatusCode,
				"url":    resp.Request.URL.String(),
			})
			return errs.WithCode(errs.ErrorTypeUnknown,
				fmt.Sprintf("unexpected status code: %d", resp.StatusCode), resp.StatusCode)
		}
		return nil
	}
}

// FetchPost resolves a shortcode to its typed media object
func (c *Client) FetchPost(ctx context.Context, shortcode string) (*ShortcodeMedia, error) {
	if !IsValidShortcode(shortcode) {
		return nil, errs.Newf(errs.ErrorTypeInvalidInput, "invalid shortcode: %q", shortcode)
	}

	url := GetPostInfoURL(shortcode)

	c.logger.DebugWithFields("fetching post", map[string]interface{}{
		"shortcode": shortcode,
		"url":       url,
	})

	var response PostResponse
	if err := c.GetJSON(ctx, url, &response); err != nil {
		c.logger.WithError(err).WithField("shortcode", shortcode).Debug("post lookup failed")
		return nil, err
	}

	if response.RequiresToLogin {
		return nil, errs.New(errs.ErrorTypePrivateOrUnavailable,
			"post requires authentication to view")
	}

	media := response.GraphQL.ShortcodeMedia
	if media == nil && len(response.Items) > 0 {
		// The endpoint frequently answers in the api/v1 items form instead
		media = response.Items[0].asShortcodeMedia()
	}
	if media == nil {
		return nil, errs.New(errs.ErrorTypeNotFound,
			"post data missing from response, content deleted or format changed")
	}

	if media.Owner != nil && media.Owner.IsPrivate {
		return nil, errs.New(errs.ErrorTypePrivateOrUnavailable,
			"post data unavailable for private profile")
	}

	c.logger.DebugWithFields("successfully fetched post", map[string]interface{}{
		"shortcode": shortcode,
		"is_video":  media.IsVideo,
	})

	return media, nil
}

// FetchProfile resolves a username to its typed profile object
func (c *Client) FetchProfile(ctx context.Context, username string) (*ProfileUser, error) {
	username = SanitizeUsername(username)
	if !IsValidUsername(username) {
		return nil, errs.Newf(errs.ErrorTypeInvalidInput, "invalid username: %q", username)
	}

	url := GetProfileURL(username)

	c.logger.DebugWithFields("fetching user profile", map[string]interface{}{
		"username": username,
		"url":      url,
	})

	var response ProfileResponse
	if err := c.GetJSON(ctx, url, &response); err != nil {
		c.logger.WithError(err).WithField("username", username).Debug("profile lookup failed")
		return nil, err
	}

	if response.RequiresToLogin {
		return nil, errs.New(errs.ErrorTypePrivateOrUnavailable,
			"profile requires authentication to view")
	}

	user := response.Data.User
	if user == nil {
		return nil, errs.New(errs.ErrorTypeNotFound, "profile does not exist")
	}

	c.logger.DebugWithFields("successfully fetched user profile", map[string]interface{}{
		"username": username,
	})

	return user, nil
}
