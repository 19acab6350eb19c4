package instagram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	errs "igresolve/pkg/errors"
	"igresolve/pkg/logger"
	"igresolve/pkg/ratelimit"
	"igresolve/pkg/retry"
)

// rewriteTransport redirects every request to the test server regardless of
// the original host
type rewriteTransport struct {
	server *httptest.Server
}

func (t *rewriteTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	target := t.server.URL + req.URL.Path
	if req.URL.RawQuery != "" {
		target += "?" + req.URL.RawQuery
	}
	redirected, err := http.NewRequestWithContext(req.Context(), req.Method, target, req.Body)
	if err != nil {
		return nil, err
	}
	redirected.Header = req.Header
	return http.DefaultTransport.RoundTrip(redirected)
}

func newTestClient(server *httptest.Server, limiter ratelimit.Limiter) *Client {
	c := NewClient(10*time.Second, limiter, logger.NewTestLogger())
	c.SetHTTPClient(&http.Client{Transport: &rewriteTransport{server: server}})
	c.backoff = &retry.ConstantBackoff{Delay: 0}
	return c
}

func TestFetchPostSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/p/ABC123/", r.URL.Path)
		assert.Equal(t, "1", r.URL.Query().Get("__a"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))

		w.Write([]byte(`{
			"graphql": {
				"shortcode_media": {
					"shortcode": "ABC123",
					"display_url": "https://scontent.cdninstagram.com/v/img.jpg",
					"is_video": false
				}
			},
			"status": "ok"
		}`))
	}))
	defer server.Close()

	client := newTestClient(server, nil)

	media, err := client.FetchPost(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", media.Shortcode)
	assert.Equal(t, []string{"https://scontent.cdninstagram.com/v/img.jpg"}, media.MediaURLs())
}

func TestFetchPostVideo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"graphql": {
				"shortcode_media": {
					"shortcode": "VID111",
					"display_url": "https://scontent.cdninstagram.com/v/thumb.jpg",
					"video_url": "https://scontent.cdninstagram.com/v/clip.mp4",
					"is_video": true
				}
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server, nil)

	media, err := client.FetchPost(context.Background(), "VID111")
	require.NoError(t, err)
	assert.Equal(t, []string{"https://scontent.cdninstagram.com/v/clip.mp4"}, media.MediaURLs())
}

func TestFetchPostItemsShapeImage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"items": [{
				"code": "ABC123",
				"media_type": 1,
				"image_versions2": {
					"candidates": [{"url": "https://scontent.cdninstagram.com/v/img.jpg"}]
				}
			}]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server, nil)

	media, err := client.FetchPost(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", media.Shortcode)
	assert.Equal(t, []string{"https://scontent.cdninstagram.com/v/img.jpg"}, media.MediaURLs())
}

func TestFetchPostItemsShapeVideo(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"items": [{
				"code": "VID111",
				"media_type": 2,
				"video_versions": [{"url": "https://scontent.cdninstagram.com/v/clip.mp4"}],
				"image_versions2": {
					"candidates": [{"url": "https://scontent.cdninstagram.com/v/thumb.jpg"}]
				}
			}]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server, nil)

	media, err := client.FetchPost(context.Background(), "VID111")
	require.NoError(t, err)
	assert.True(t, media.IsVideo)
	assert.Equal(t, []string{"https://scontent.cdninstagram.com/v/clip.mp4"}, media.MediaURLs())
}

func TestFetchPostItemsShapeCarousel(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{
			"items": [{
				"code": "CAR222",
				"media_type": 8,
				"carousel_media": [
					{
						"media_type": 1,
						"image_versions2": {
							"candidates": [{"url": "https://scontent.cdninstagram.com/v/one.jpg"}]
						}
					},
					{
						"media_type": 2,
						"video_versions": [{"url": "https://scontent.cdninstagram.com/v/two.mp4"}]
					}
				]
			}]
		}`))
	}))
	defer server.Close()

	client := newTestClient(server, nil)

	media, err := client.FetchPost(context.Background(), "CAR222")
	require.NoError(t, err)
	assert.Equal(t, []string{
		"https://scontent.cdninstagram.com/v/one.jpg",
		"https://scontent.cdninstagram.com/v/two.mp4",
	}, media.MediaURLs())
}

func TestFetchPostRequiresLogin(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"requires_to_login": true}`))
	}))
	defer server.Close()

	client := newTestClient(server, nil)

	_, err := client.FetchPost(context.Background(), "ABC123")
	require.Error(t, err)

	var apiErr *errs.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errs.ErrorTypePrivateOrUnavailable, apiErr.Type)
}

func TestFetchPostMissingMedia(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"graphql": {}}`))
	}))
	defer server.Close()

	client := newTestClient(server, nil)

	_, err := client.FetchPost(context.Background(), "ABC123")
	require.Error(t, err)

	var apiErr *errs.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errs.ErrorTypeNotFound, apiErr.Type)
}

func TestFetchPostInvalidShortcode(t *testing.T) {
	client := NewClient(10*time.Second, nil, logger.NewTestLogger())

	_, err := client.FetchPost(context.Background(), "has spaces!")
	require.Error(t, err)

	var apiErr *errs.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errs.ErrorTypeInvalidInput, apiErr.Type)
}

func TestFetchPostRateLimitedNoRetry(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer server.Close()

	client := newTestClient(server, nil)

	_, err := client.FetchPost(context.Background(), "ABC123")
	require.Error(t, err)

	var apiErr *errs.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errs.ErrorTypeRateLimit, apiErr.Type)
	assert.Equal(t, 429, apiErr.Code)
	assert.Equal(t, 1, calls, "upstream 429 must not be retried by the client")
}

func TestFetchPostRetriesServerError(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Write([]byte(`{
			"graphql": {
				"shortcode_media": {
					"shortcode": "ABC123",
					"display_url": "https://scontent.cdninstagram.com/v/img.jpg"
				}
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server, nil)

	media, err := client.FetchPost(context.Background(), "ABC123")
	require.NoError(t, err)
	assert.Equal(t, "ABC123", media.Shortcode)
	assert.Equal(t, 3, calls)
}

func TestFetchPostBudgetExceeded(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("request must not be dispatched when the budget is exhausted")
	}))
	defer server.Close()

	limiter := ratelimit.NewSlidingWindow(1, time.Minute)
	require.True(t, limiter.Allow()) // drain the budget

	client := newTestClient(server, limiter)

	_, err := client.FetchPost(context.Background(), "ABC123")
	require.Error(t, err)

	var apiErr *errs.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errs.ErrorTypeRateLimit, apiErr.Type)
	assert.Zero(t, apiErr.Code)
}

func TestFetchProfileSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/users/web_profile_info/", r.URL.Path)
		assert.Equal(t, "someuser", r.URL.Query().Get("username"))

		w.Write([]byte(`{
			"data": {
				"user": {
					"username": "someuser",
					"profile_pic_url": "https://scontent.cdninstagram.com/v/sd.jpg",
					"profile_pic_url_hd": "https://scontent.cdninstagram.com/v/hd.jpg"
				}
			}
		}`))
	}))
	defer server.Close()

	client := newTestClient(server, nil)

	user, err := client.FetchProfile(context.Background(), "@someuser")
	require.NoError(t, err)
	assert.Equal(t, "someuser", user.Username)
	assert.Equal(t, "https://scontent.cdninstagram.com/v/hd.jpg", user.BestProfilePicURL())
}

func TestFetchProfileNotFound(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"data": {}}`))
	}))
	defer server.Close()

	client := newTestClient(server, nil)

	_, err := client.FetchProfile(context.Background(), "ghostuser")
	require.Error(t, err)

	var apiErr *errs.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, errs.ErrorTypeNotFound, apiErr.Type)
}

func TestCheckResponseStatusMapping(t *testing.T) {
	tests := []struct {
		status   int
		wantType errs.ErrorType
	}{
		{http.StatusUnauthorized, errs.ErrorTypePrivateOrUnavailable},
		{http.StatusForbidden, errs.ErrorTypePrivateOrUnavailable},
		{http.StatusNotFound, errs.ErrorTypeNotFound},
		{http.StatusTooManyRequests, errs.ErrorTypeRateLimit},
		{http.StatusInternalServerError, errs.ErrorTypeServerError},
		{http.StatusTeapot, errs.ErrorTypeUnknown},
	}

	for _, tt := range tests {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(tt.status)
		}))

		client := newTestClient(server, nil)
		resp, err := client.Get(context.Background(), server.URL+"/x")
		require.NoError(t, err)

		err = client.checkResponseStatus(resp)
		resp.Body.Close()
		server.Close()

		var apiErr *errs.Error
		require.ErrorAs(t, err, &apiErr, "status %d", tt.status)
		assert.Equal(t, tt.wantType, apiErr.Type, "status %d", tt.status)
		assert.Equal(t, tt.status, apiErr.Code, "status %d", tt.status)
	}
}
