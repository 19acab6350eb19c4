package extract

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"igresolve/pkg/instagram"
	"igresolve/pkg/logger"
)

func newTestExtractor(max int) *Extractor {
	return New(max, logger.NewTestLogger())
}

func TestExtractPostPrefersImages(t *testing.T) {
	body := `{"display_url":"https:\/\/scontent.cdninstagram.com\/v\/img.jpg",` +
		`"video_url":"https:\/\/scontent.cdninstagram.com\/v\/clip.mp4"}`

	cands := newTestExtractor(0).Extract(body, instagram.KindPost)
	require.Len(t, cands, 2)

	assert.Equal(t, "https://scontent.cdninstagram.com/v/img.jpg", cands[0].URL)
	assert.Equal(t, ClassImage, cands[0].Class)
	assert.Equal(t, "https://scontent.cdninstagram.com/v/clip.mp4", cands[1].URL)
	assert.Equal(t, ClassVideo, cands[1].Class)
}

func TestExtractReelPrefersVideos(t *testing.T) {
	body := `{"display_url":"https:\/\/scontent.cdninstagram.com\/v\/thumb.jpg",` +
		`"video_url":"https:\/\/scontent.cdninstagram.com\/v\/reel.mp4"}`

	cands := newTestExtractor(0).Extract(body, instagram.KindReel)
	require.Len(t, cands, 1)
	assert.Equal(t, "https://scontent.cdninstagram.com/v/reel.mp4", cands[0].URL)
	assert.Equal(t, ClassVideo, cands[0].Class)
}

func TestExtractReelFallsBackToImages(t *testing.T) {
	body := `{"display_url":"https:\/\/scontent.cdninstagram.com\/v\/thumb.jpg"}`

	cands := newTestExtractor(0).Extract(body, instagram.KindReel)
	require.Len(t, cands, 1)
	assert.Equal(t, ClassImage, cands[0].Class)
}

func TestExtractProfileSelectsProfilePics(t *testing.T) {
	body := `{"profile_pic_url_hd":"https:\/\/scontent.cdninstagram.com\/v\/hd.jpg",` +
		`"profile_pic_url":"https:\/\/scontent.cdninstagram.com\/v\/sd.jpg",` +
		`"display_url":"https:\/\/scontent.cdninstagram.com\/v\/unrelated.jpg"}`

	cands := newTestExtractor(0).Extract(body, instagram.KindProfile)
	require.Len(t, cands, 2)
	assert.Equal(t, "https://scontent.cdninstagram.com/v/hd.jpg", cands[0].URL)
	assert.Equal(t, "https://scontent.cdninstagram.com/v/sd.jpg", cands[1].URL)
}

func TestExtractDedupKeepsFirstSeen(t *testing.T) {
	// The same URL appears under two key spellings; only the first survives
	body := `{"display_url":"https:\/\/scontent.cdninstagram.com\/v\/a.jpg",` +
		`"displayUrl":"https:\/\/scontent.cdninstagram.com\/v\/a.jpg",` +
		`"display_src":"https:\/\/scontent.cdninstagram.com\/v\/b.jpg"}`

	cands := newTestExtractor(0).Extract(body, instagram.KindPost)
	require.Len(t, cands, 2)
	assert.Equal(t, "https://scontent.cdninstagram.com/v/a.jpg", cands[0].URL)
	assert.Equal(t, "https://scontent.cdninstagram.com/v/b.jpg", cands[1].URL)
}

func TestExtractCapsCandidates(t *testing.T) {
	var sb strings.Builder
	sb.WriteString("{")
	for i := 0; i < 15; i++ {
		if i > 0 {
			sb.WriteString(",")
		}
		fmt.Fprintf(&sb, `"display_url":"https:\/\/scontent.cdninstagram.com\/v\/img%02d.jpg"`, i)
	}
	sb.WriteString("}")

	cands := newTestExtractor(10).Extract(sb.String(), instagram.KindPost)
	require.Len(t, cands, 10)
	assert.Equal(t, "https://scontent.cdninstagram.com/v/img00.jpg", cands[0].URL)
	assert.Equal(t, "https://scontent.cdninstagram.com/v/img09.jpg", cands[9].URL)
}

func TestExtractIgnoresForeignHosts(t *testing.T) {
	body := `{"display_url":"https:\/\/evil.example.com\/img.jpg"}`

	cands := newTestExtractor(0).Extract(body, instagram.KindPost)
	assert.Empty(t, cands)
}

func TestExtractEmptyBody(t *testing.T) {
	assert.Empty(t, newTestExtractor(0).Extract("", instagram.KindPost))
	assert.Empty(t, newTestExtractor(0).Extract("<html><body>nothing</body></html>", instagram.KindPost))
}

func TestExtractOgMetaTags(t *testing.T) {
	body := `<html><head>
		<meta property="og:video" content="https://scontent.cdninstagram.com/v/clip.mp4" />
		<meta property="og:image" content="https://scontent.cdninstagram.com/v/cover.jpg" />
	</head><body></body></html>`

	cands := newTestExtractor(0).Extract(body, instagram.KindReel)
	require.Len(t, cands, 1)
	assert.Equal(t, "https://scontent.cdninstagram.com/v/clip.mp4", cands[0].URL)
}

func TestExtractEmbedPageImage(t *testing.T) {
	body := `<html><body>
		<img class="EmbeddedMediaImage" src="https://scontent.cdninstagram.com/v/embed.jpg" />
	</body></html>`

	cands := newTestExtractor(0).Extract(body, instagram.KindPost)
	require.Len(t, cands, 1)
	assert.Equal(t, "https://scontent.cdninstagram.com/v/embed.jpg", cands[0].URL)
}

func TestExtractVideoVersions(t *testing.T) {
	body := `{"video_versions":[{"width":1080,"url":"https:\/\/scontent.cdninstagram.com\/v\/hq.mp4"}]}`

	cands := newTestExtractor(0).Extract(body, instagram.KindReel)
	require.Len(t, cands, 1)
	assert.Equal(t, "https://scontent.cdninstagram.com/v/hq.mp4", cands[0].URL)
}

func TestNormalizeURL(t *testing.T) {
	in := `https:\/\/scontent.cdninstagram.com\/v\/img.jpg?a=1\u0026b=2&amp;c\u003d3`
	want := "https://scontent.cdninstagram.com/v/img.jpg?a=1&b=2&c=3"
	assert.Equal(t, want, NormalizeURL(in))
}

func TestIsMediaURL(t *testing.T) {
	assert.True(t, IsMediaURL("https://scontent.cdninstagram.com/v/img.jpg"))
	assert.True(t, IsMediaURL("https://instagram.fabc1-1.fna.fbcdn.net/v/clip.mp4"))
	assert.False(t, IsMediaURL("https://example.com/img.jpg"))
}
