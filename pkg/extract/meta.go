package extract

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// metaMedia holds media URLs found in the HTML structure of a page rather
// than its embedded JSON
type metaMedia struct {
	videos []string
	images []string
}

// extractMeta pulls media URLs out of og meta tags, video source elements,
// and embed-page image tags. Embed pages in particular often carry the media
// URL only here, with no JSON blob at all.
func extractMeta(body string) metaMedia {
	var media metaMedia

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(body))
	if err != nil {
		// Not HTML; the regex families still get their chance
		return media
	}

	videoSelectors := []string{
		`meta[property="og:video"]`,
		`meta[property="og:video:secure_url"]`,
	}
	for _, sel := range videoSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if content, ok := s.Attr("content"); ok && content != "" {
				media.videos = append(media.videos, content)
			}
		})
	}
	doc.Find(`source[type="video/mp4"]`).Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			media.videos = append(media.videos, src)
		}
	})

	imageSelectors := []string{
		`meta[property="og:image"]`,
		`meta[property="og:image:secure_url"]`,
	}
	for _, sel := range imageSelectors {
		doc.Find(sel).Each(func(_ int, s *goquery.Selection) {
			if content, ok := s.Attr("content"); ok && content != "" {
				media.images = append(media.images, content)
			}
		})
	}
	doc.Find("img.EmbeddedMediaImage").Each(func(_ int, s *goquery.Selection) {
		if src, ok := s.Attr("src"); ok && src != "" {
			media.images = append(media.images, src)
		}
	})

	return media
}
