package extract

import "regexp"

// Pattern families are ordered by historical reliability. The upstream markup
// changes over time and the same media URL shows up under several key names,
// so every pattern runs and all matches are kept; dedup happens later.
// These regexes cover URLs embedded in page JSON; HTML-structured embeddings
// (og meta tags, source elements) are handled by the goquery pass in meta.go.

// videoPatterns match direct video URLs embedded in page JSON
var videoPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"video_url":"([^"]+)"`),
	regexp.MustCompile(`"videoUrl":"([^"]+)"`),
	regexp.MustCompile(`"video_versions":\[\{[^\]}]*?"url":"([^"]+)"`),
	regexp.MustCompile(`"playback_url":"([^"]+)"`),
}

// imagePatterns match direct image URLs for posts
var imagePatterns = []*regexp.Regexp{
	regexp.MustCompile(`"display_url":"([^"]+)"`),
	regexp.MustCompile(`"displayUrl":"([^"]+)"`),
	regexp.MustCompile(`"display_src":"([^"]+)"`),
	regexp.MustCompile(`"image_versions2":\{"candidates":\[\{[^\]}]*?"url":"([^"]+)"`),
	regexp.MustCompile(`"thumbnail_src":"([^"]+)"`),
}

// profilePicPatterns match profile picture URLs
var profilePicPatterns = []*regexp.Regexp{
	regexp.MustCompile(`"profile_pic_url_hd":"([^"]+)"`),
	regexp.MustCompile(`"profile_pic_url":"([^"]+)"`),
	regexp.MustCompile(`"profilePicUrl":"([^"]+)"`),
}

// mediaHosts are the substrings a candidate URL must contain to be believed.
// Anything else is an unrelated URL that happened to sit under a matching key.
var mediaHosts = []string{
	"instagram.com",
	"cdninstagram.com",
	"fbcdn.net",
}
