package server

import (
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"igresolve/pkg/extract"
)

// maxStreamBytes caps how much is relayed for a single media item
const maxStreamBytes = 512 << 20

// handleMedia relays a resolved media URL through the gateway so browser
// clients can download CDN content that refuses cross-origin requests. Only
// URLs on the known media hosts are relayed.
func (s *Server) handleMedia(w http.ResponseWriter, r *http.Request) {
	rawURL := strings.TrimSpace(r.URL.Query().Get("url"))
	if rawURL == "" {
		writeError(w, http.StatusBadRequest, "url query parameter is required")
		return
	}
	if !extract.IsMediaURL(rawURL) {
		writeError(w, http.StatusBadRequest, "url is not a recognized media host")
		return
	}

	req, err := http.NewRequestWithContext(r.Context(), http.MethodGet, rawURL, nil)
	if err != nil {
		writeError(w, http.StatusBadRequest, "malformed media url")
		return
	}

	resp, err := s.streamer.Do(req)
	if err != nil {
		s.logger.WithError(err).Warn("media relay request failed")
		writeError(w, http.StatusBadGateway, "failed to reach media host")
		return
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		writeError(w, http.StatusBadGateway,
			fmt.Sprintf("media host returned status %d", resp.StatusCode))
		return
	}

	contentType := resp.Header.Get("Content-Type")
	if contentType == "" {
		contentType = "application/octet-stream"
	}

	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition",
		fmt.Sprintf(`attachment; filename="%s"`, downloadFilename(contentType)))
	if cl := resp.Header.Get("Content-Length"); cl != "" {
		w.Header().Set("Content-Length", cl)
	}

	if _, err := io.Copy(w, io.LimitReader(resp.Body, maxStreamBytes)); err != nil {
		// Headers are gone; all we can do is record the broken transfer
		s.logger.WithError(err).Warn("media relay interrupted")
	}
}

// downloadFilename generates a unique download name with an extension derived
// from the content type
func downloadFilename(contentType string) string {
	ext := ".bin"
	switch {
	case strings.HasPrefix(contentType, "video/"):
		ext = ".mp4"
	case strings.Contains(contentType, "jpeg"), strings.Contains(contentType, "jpg"):
		ext = ".jpg"
	case strings.Contains(contentType, "png"):
		ext = ".png"
	case strings.Contains(contentType, "webp"):
		ext = ".webp"
	}
	return "media_" + uuid.NewString() + ext
}
