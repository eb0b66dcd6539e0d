// Package media handles classification, gallery resolution, naming and
// download of post media.
package media

import (
	"strings"

	"github.com/cameronsjo/saved-reddit-exporter-sub002/pkg/models"
)

// Domain lists for the fixed classification rules. Matching is substring
// based against the post's domain field, case-insensitive.
var (
	imageHostDomains = []string{
		"i.imgur.com",
		"imgur.com",
	}

	videoPlatformDomains = []string{
		"youtube.com",
		"youtu.be",
		"vimeo.com",
		"streamable.com",
		"twitch.tv",
	}

	gifPlatformDomains = []string{
		"gfycat.com",
		"redgifs.com",
		"giphy.com",
		"tenor.com",
	}

	imageExtensions = []string{".jpg", ".jpeg", ".png", ".gif", ".webp", ".bmp"}
	videoExtensions = []string{".mp4", ".webm", ".mov", ".m4v"}
)

// Classify determines the media type of a URL. Rules apply in a fixed order
// and the first match wins. An empty URL is never media.
func Classify(rawURL, domain string) models.MediaInfo {
	info := models.MediaInfo{
		Type:   models.MediaLink,
		Kind:   models.MediaKindNone,
		Domain: domain,
	}
	if rawURL == "" {
		return info
	}

	d := strings.ToLower(domain)
	u := strings.ToLower(rawURL)

	switch {
	case strings.Contains(d, "i.redd.it"):
		info.Type = models.MediaImage
		info.Kind = models.MediaKindRedditImage
		info.IsMedia = true
		info.Embeddable = true
	case strings.Contains(d, "v.redd.it"):
		info.Type = models.MediaVideo
		info.Kind = models.MediaKindRedditVideo
		info.IsMedia = true
	case matchesAny(d, imageHostDomains):
		info.Type = models.MediaImage
		info.Kind = models.MediaKindImageHost
		info.IsMedia = true
		info.Embeddable = true
	case matchesAny(d, videoPlatformDomains):
		info.Type = models.MediaVideo
		info.Kind = models.MediaKindVideoPlatform
		info.IsMedia = true
	case matchesAny(d, gifPlatformDomains):
		info.Type = models.MediaGif
		info.Kind = models.MediaKindGifPlatform
		info.IsMedia = true
	case hasAnyExtension(u, imageExtensions):
		info.Type = models.MediaImage
		info.Kind = models.MediaKindGenericImage
		info.IsMedia = true
		info.Embeddable = true
	case hasAnyExtension(u, videoExtensions):
		info.Type = models.MediaVideo
		info.Kind = models.MediaKindVideoFile
		info.IsMedia = true
		info.Embeddable = true
	}

	return info
}

func matchesAny(domain string, candidates []string) bool {
	for _, c := range candidates {
		if strings.Contains(domain, c) {
			return true
		}
	}
	return false
}

// hasAnyExtension scans the full lowercased URL so extensions inside the
// path or query string both count.
func hasAnyExtension(url string, exts []string) bool {
	for _, ext := range exts {
		if strings.Contains(url, ext) {
			return true
		}
	}
	return false
}
