package instagram

// PostResponse represents the structured lookup response for a single post.
// The endpoint answers in one of two shapes: the graphql form or the api/v1
// items form; both are accepted.
type PostResponse struct {
	RequiresToLogin bool      `json:"requires_to_login"`
	GraphQL         GraphQL   `json:"graphql"`
	Items           []MediaV1 `json:"items"`
	Status          string    `json:"status"`
}

// GraphQL wraps the shortcode media in the response
type GraphQL struct {
	ShortcodeMedia *ShortcodeMedia `json:"shortcode_media"`
}

// ShortcodeMedia represents a single post, reel, or tv item
type ShortcodeMedia struct {
	ID                    string       `json:"id"`
	Shortcode             string       `json:"shortcode"`
	DisplayURL            string       `json:"display_url"`
	VideoURL              string       `json:"video_url"`
	IsVideo               bool         `json:"is_video"`
	EdgeSidecarToChildren *SidecarEdge `json:"edge_sidecar_to_children,omitempty"`
	Owner                 *Owner       `json:"owner"`
}

// SidecarEdge contains the ordered children of a multi-item post
type SidecarEdge struct {
	Edges []Edge `json:"edges"`
}

// Edge wraps a single media node
type Edge struct {
	Node Node `json:"node"`
}

// Node represents a single media item inside a sidecar
type Node struct {
	ID         string `json:"id"`
	Shortcode  string `json:"shortcode"`
	DisplayURL string `json:"display_url"`
	VideoURL   string `json:"video_url"`
	IsVideo    bool   `json:"is_video"`
}

// Owner represents the account that posted a media item
type Owner struct {
	ID        string `json:"id"`
	Username  string `json:"username"`
	IsPrivate bool   `json:"is_private"`
}

// media_type discriminator values of the api/v1 shape
const (
	mediaTypeImage    = 1
	mediaTypeVideo    = 2
	mediaTypeCarousel = 8
)

// MediaV1 is the api/v1 shape of a media item, present in some responses
type MediaV1 struct {
	Code          string         `json:"code"`
	MediaType     int            `json:"media_type"`
	VideoVersions []VideoVersion `json:"video_versions"`
	ImageVersions ImageVersions2 `json:"image_versions2"`
	CarouselMedia []MediaV1      `json:"carousel_media,omitempty"`
}

// VideoVersion is a single rendition of a video
type VideoVersion struct {
	URL string `json:"url"`
}

// ImageVersions2 holds image rendition candidates, best first
type ImageVersions2 struct {
	Candidates []ImageCandidate `json:"candidates"`
}

// ImageCandidate is a single rendition of an image
type ImageCandidate struct {
	URL string `json:"url"`
}

// firstVideoURL returns the best video rendition, or empty
func (m *MediaV1) firstVideoURL() string {
	if len(m.VideoVersions) > 0 {
		return m.VideoVersions[0].URL
	}
	return ""
}

// firstImageURL returns the best image rendition, or empty
func (m *MediaV1) firstImageURL() string {
	if len(m.ImageVersions.Candidates) > 0 {
		return m.ImageVersions.Candidates[0].URL
	}
	return ""
}

// asShortcodeMedia maps an api/v1 item onto the graphql shape so callers only
// ever handle one form. Carousel children become sidecar edges in order.
func (m *MediaV1) asShortcodeMedia() *ShortcodeMedia {
	media := &ShortcodeMedia{
		Shortcode:  m.Code,
		IsVideo:    m.MediaType == mediaTypeVideo,
		VideoURL:   m.firstVideoURL(),
		DisplayURL: m.firstImageURL(),
	}

	if m.MediaType == mediaTypeCarousel && len(m.CarouselMedia) > 0 {
		edges := make([]Edge, 0, len(m.CarouselMedia))
		for _, child := range m.CarouselMedia {
			edges = append(edges, Edge{Node: Node{
				IsVideo:    child.MediaType == mediaTypeVideo,
				VideoURL:   child.firstVideoURL(),
				DisplayURL: child.firstImageURL(),
			}})
		}
		media.EdgeSidecarToChildren = &SidecarEdge{Edges: edges}
	}

	return media
}

// DirectURL returns the direct media URL of a single item: the video URL for
// videos, the display URL otherwise.
func (n *Node) DirectURL() string {
	if n.IsVideo && n.VideoURL != "" {
		return n.VideoURL
	}
	return n.DisplayURL
}

// DirectURL returns the direct media URL of the post itself, ignoring children
func (m *ShortcodeMedia) DirectURL() string {
	if m.IsVideo && m.VideoURL != "" {
		return m.VideoURL
	}
	return m.DisplayURL
}

// MediaURLs enumerates the direct URLs of a post. Multi-item posts contribute
// each child's URL in child order; single items contribute their own URL.
func (m *ShortcodeMedia) MediaURLs() []string {
	if m.EdgeSidecarToChildren != nil && len(m.EdgeSidecarToChildren.Edges) > 0 {
		urls := make([]string, 0, len(m.EdgeSidecarToChildren.Edges))
		for _, edge := range m.EdgeSidecarToChildren.Edges {
			if u := edge.Node.DirectURL(); u != "" {
				urls = append(urls, u)
			}
		}
		return urls
	}

	if u := m.DirectURL(); u != "" {
		return []string{u}
	}
	return nil
}

// ProfileResponse represents the web_profile_info response for a user
type ProfileResponse struct {
	RequiresToLogin bool        `json:"requires_to_login"`
	Data            ProfileData `json:"data"`
	Status          string      `json:"status"`
}

// ProfileData wraps the user information in the response
type ProfileData struct {
	User *ProfileUser `json:"user"`
}

// ProfileUser represents a user profile
type ProfileUser struct {
	ID               string `json:"id"`
	Username         string `json:"username"`
	IsPrivate        bool   `json:"is_private"`
	ProfilePicURL    string `json:"profile_pic_url"`
	ProfilePicURLHD  string `json:"profile_pic_url_hd"`
}

// BestProfilePicURL returns the highest-resolution profile picture available
func (u *ProfileUser) BestProfilePicURL() string {
	if u.ProfilePicURLHD != "" {
		return u.ProfilePicURLHD
	}
	return u.ProfilePicURL
}
