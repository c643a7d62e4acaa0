// Package preview resolves a record's (fileUrl, fileType, screenshotUrl)
// triple into a renderable preview variant. Resolution is pure: it only
// inspects already-fetched data and never performs network calls.
package preview

import (
	"fmt"
	"net/url"
	"path"
	"strings"
)

// Preview is a closed set of renderable variants. Each variant carries
// exactly the fields its renderer needs.
type Preview interface {
	isPreview()
}

// LinkYouTube renders a thumbnail derived from the video id with a
// play-button overlay.
type LinkYouTube struct {
	VideoID string
}

// LinkGeneric renders the cached page screenshot.
type LinkGeneric struct {
	ScreenshotURL string
}

// LinkPending renders the "preview unavailable/generating" placeholder box.
type LinkPending struct {
	URL string
}

// Image renders the file itself.
type Image struct {
	URL string
}

// Video renders a video element with metadata-only preload and a poster
// overlay, no inline controls.
type Video struct {
	URL string
}

// PDF renders an embedded frame cropped to approximate a thumbnail.
type PDF struct {
	URL string
}

// Other renders a generic file-type icon plus the filename.
type Other struct {
	URL      string
	Filename string
	FileType string
}

func (LinkYouTube) isPreview() {}
func (LinkGeneric) isPreview() {}
func (LinkPending) isPreview() {}
func (Image) isPreview()       {}
func (Video) isPreview()       {}
func (PDF) isPreview()         {}
func (Other) isPreview()       {}

// ThumbnailURL returns the conventional CDN path for a video's thumbnail.
func (p LinkYouTube) ThumbnailURL() string {
	return fmt.Sprintf("https://img.youtube.com/vi/%s/hqdefault.jpg", p.VideoID)
}

// Resolve maps a record's file fields to a preview variant. Returns nil
// when the record has no file or link at all.
func Resolve(fileURL, fileType, screenshotURL *string) Preview {
	if fileURL == nil || *fileURL == "" {
		return nil
	}

	ft := ""
	if fileType != nil {
		ft = *fileType
	}

	switch {
	case ft == "link":
		if id, ok := YouTubeVideoID(*fileURL); ok {
			return LinkYouTube{VideoID: id}
		}
		if screenshotURL != nil && *screenshotURL != "" {
			return LinkGeneric{ScreenshotURL: *screenshotURL}
		}
		return LinkPending{URL: *fileURL}

	case strings.HasPrefix(ft, "image/"):
		return Image{URL: *fileURL}

	case strings.HasPrefix(ft, "video/"):
		return Video{URL: *fileURL}

	case ft == "application/pdf":
		return PDF{URL: *fileURL}

	default:
		return Other{
			URL:      *fileURL,
			Filename: filenameFromURL(*fileURL),
			FileType: ft,
		}
	}
}

// IsYouTubeURL reports whether the URL is a YouTube watch or short URL.
// These are excluded from screenshot generation since thumbnails come from
// the video id.
func IsYouTubeURL(rawURL string) bool {
	_, ok := YouTubeVideoID(rawURL)
	return ok
}

// YouTubeVideoID extracts the video id from youtube.com/watch and youtu.be
// URLs.
func YouTubeVideoID(rawURL string) (string, bool) {
	u, err := url.Parse(rawURL)
	if err != nil {
		return "", false
	}

	host := strings.TrimPrefix(strings.ToLower(u.Hostname()), "www.")
	switch host {
	case "youtube.com", "m.youtube.com":
		if strings.HasPrefix(u.Path, "/watch") {
			if id := u.Query().Get("v"); id != "" {
				return id, true
			}
		}
	case "youtu.be":
		if id := strings.Trim(u.Path, "/"); id != "" {
			return id, true
		}
	}
	return "", false
}

func filenameFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return path.Base(rawURL)
	}
	return path.Base(u.Path)
}
