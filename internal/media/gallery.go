package media

import (
	"strings"

	log "github.com/sirupsen/logrus"

	"github.com/cameronsjo/saved-reddit-exporter-sub002/pkg/models"
)

// ResolveGallery turns a multi-image post's gallery descriptor into an
// ordered list of resolved assets. Entries with missing or invalid metadata
// are skipped with a warning; surviving entries keep the index of their
// position in the declared order, so skips leave gaps rather than shifting
// later entries.
func ResolveGallery(item *models.Item) []models.GalleryImage {
	if !item.IsPost() || item.Post.Gallery == nil {
		return nil
	}

	var images []models.GalleryImage
	for i, ref := range item.Post.Gallery.Items {
		meta, ok := item.Post.MediaMetadata[ref.MediaID]
		if !ok {
			log.Warnf("gallery %s: no metadata for media %s, skipping", item.ID, ref.MediaID)
			continue
		}
		if meta.Status != "valid" {
			log.Warnf("gallery %s: media %s has status %q, skipping", item.ID, ref.MediaID, meta.Status)
			continue
		}

		animated := meta.Kind == "AnimatedImage"

		img := models.GalleryImage{
			MediaID:     ref.MediaID,
			Caption:     ref.Caption,
			Width:       meta.Source.Width,
			Height:      meta.Source.Height,
			Animated:    animated,
			Index:       i,
			OutboundURL: ref.OutboundURL,
		}

		if animated && meta.Source.MP4 != "" {
			img.VideoURL = UnescapeURL(meta.Source.MP4)
			img.URL = UnescapeURL(meta.Source.GIF)
			if img.URL == "" {
				img.URL = img.VideoURL
			}
		} else if animated && meta.Source.GIF != "" {
			img.URL = UnescapeURL(meta.Source.GIF)
		} else {
			img.URL = UnescapeURL(meta.Source.URL)
		}

		if img.URL == "" {
			log.Warnf("gallery %s: media %s resolved to no usable URL, skipping", item.ID, ref.MediaID)
			continue
		}

		images = append(images, img)
	}

	return images
}

// UnescapeURL undoes reddit's ampersand escaping so the URL is fetchable.
func UnescapeURL(u string) string {
	return strings.ReplaceAll(u, "&amp;", "&")
}
