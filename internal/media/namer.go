package media

import (
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/cameronsjo/saved-reddit-exporter-sub002/pkg/models"
)

const (
	maxTitleChars    = 50
	maxFragmentChars = 24
)

var (
	illegalChars = regexp.MustCompile(`[\\/:*?"<>|#%{}$!@+=` + "`" + `]`)
	whitespace   = regexp.MustCompile(`\s+`)
)

// AssetName derives the filename for a single (non-gallery) media asset:
// <title>-<id>-<url fragment>.<ext>. Falls back to an id-only name when the
// title is unsafe for filenames.
func AssetName(title, itemID, rawURL string, info models.MediaInfo) string {
	ext := extensionFromURL(rawURL)
	if ext == "" {
		ext = extensionForKind(info)
	}

	safe, ok := SanitizeTitle(title)
	if !ok {
		return fmt.Sprintf("media-%s.%s", itemID, ext)
	}

	frag := urlFragment(rawURL)
	if frag == "" {
		return fmt.Sprintf("%s-%s.%s", safe, itemID, ext)
	}
	return fmt.Sprintf("%s-%s-%s.%s", safe, itemID, frag, ext)
}

// GalleryAssetName derives the filename for one gallery asset. Ordinal is
// 1-based; it is zero-padded to the width of the gallery size so that
// lexicographic and numeric order agree.
func GalleryAssetName(title, itemID string, img models.GalleryImage, ordinal, total int) string {
	ext := "jpg"
	if img.Animated {
		if img.VideoURL != "" {
			ext = "mp4"
		} else {
			ext = "gif"
		}
	} else if e := extensionFromURL(img.URL); e != "" {
		ext = e
	}

	pad := len(fmt.Sprintf("%d", total))
	ord := fmt.Sprintf("%0*d", pad, ordinal)

	safe, ok := SanitizeTitle(title)
	if !ok {
		return fmt.Sprintf("media-%s-%s.%s", itemID, ord, ext)
	}
	return fmt.Sprintf("%s-%s-%s.%s", safe, itemID, ord, ext)
}

// SanitizeTitle makes a title safe for filenames on the usual operating
// systems. The second return value is false when the input cannot be made
// safe and an id-based name should be used instead.
func SanitizeTitle(title string) (string, bool) {
	if strings.Contains(title, "..") {
		return "", false
	}

	s := illegalChars.ReplaceAllString(title, "")
	s = whitespace.ReplaceAllString(strings.TrimSpace(s), " ")
	s = strings.Trim(s, ". ")

	if s == "" {
		return "", false
	}

	runes := []rune(s)
	if len(runes) > maxTitleChars {
		s = strings.TrimRight(string(runes[:maxTitleChars]), ". ")
	}
	return s, true
}

// urlFragment extracts a short disambiguator from the URL's final path
// segment, with the extension and query string removed.
func urlFragment(rawURL string) string {
	seg := path.Base(strings.Split(rawURL, "?")[0])
	if i := strings.LastIndex(seg, "."); i > 0 {
		seg = seg[:i]
	}
	seg = illegalChars.ReplaceAllString(seg, "")
	seg = strings.Trim(seg, ". ")
	if seg == "" || seg == "/" {
		return ""
	}
	runes := []rune(seg)
	if len(runes) > maxFragmentChars {
		seg = string(runes[:maxFragmentChars])
	}
	return seg
}

// extensionFromURL pulls an explicit extension off the URL's final path
// segment, ignoring the query string.
func extensionFromURL(rawURL string) string {
	seg := path.Base(strings.Split(rawURL, "?")[0])
	i := strings.LastIndex(seg, ".")
	if i <= 0 || i == len(seg)-1 {
		return ""
	}
	ext := strings.ToLower(seg[i+1:])
	if len(ext) > 4 {
		return ""
	}
	return ext
}

// extensionForKind infers an extension when the URL has none.
func extensionForKind(info models.MediaInfo) string {
	switch info.Type {
	case models.MediaImage:
		return "jpg"
	case models.MediaGif:
		return "gif"
	case models.MediaVideo:
		return "mp4"
	}
	return "unknown"
}
