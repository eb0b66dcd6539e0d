package media

import (
	"io"
	"net/http"
	"os"
	"path/filepath"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/cameronsjo/saved-reddit-exporter-sub002/pkg/models"
)

// Downloader fetches remote media into the configured media folder. It is
// the only component in the pipeline that performs network and filesystem
// side effects.
type Downloader struct {
	HTTPClient *http.Client
	BaseDir    string
}

// NewDownloader creates a Downloader writing under baseDir.
func NewDownloader(baseDir string) *Downloader {
	return &Downloader{
		HTTPClient: &http.Client{
			Timeout: 60 * time.Second,
		},
		BaseDir: baseDir,
	}
}

// Fetch downloads mediaURL into the media folder under fileName and returns
// the local path, or "" on any failure. A file that already exists is
// returned as-is without re-fetching; callers pass deterministic filenames,
// so an existing file is the same asset.
func (d *Downloader) Fetch(mediaURL, fileName string) string {
	if mediaURL == "" || fileName == "" {
		return ""
	}

	if err := os.MkdirAll(d.BaseDir, 0755); err != nil {
		log.Errorf("Failed to create media folder %s: %v", d.BaseDir, err)
		return ""
	}

	dest := filepath.Join(d.BaseDir, fileName)
	if _, err := os.Stat(dest); err == nil {
		log.Debugf("Media already downloaded: %s", fileName)
		return dest
	}

	log.Debugf("Downloading media from: %s", mediaURL)

	resp, err := d.HTTPClient.Get(mediaURL)
	if err != nil {
		log.Warnf("Failed to download media from %s: %v", mediaURL, err)
		return ""
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		log.Warnf("Download of %s failed with status %d", mediaURL, resp.StatusCode)
		return ""
	}

	content, err := io.ReadAll(resp.Body)
	if err != nil {
		log.Warnf("Failed to read media content from %s: %v", mediaURL, err)
		return ""
	}

	if err := os.WriteFile(dest, content, 0644); err != nil {
		log.Errorf("Failed to write media file %s: %v", dest, err)
		return ""
	}

	log.Infof("Downloaded media: %s (%d bytes)", fileName, len(content))
	return dest
}

// ProgressFunc is invoked after each gallery download attempt with the
// 1-based current index and the total count. It must not mutate pipeline
// state.
type ProgressFunc func(current, total int)

// FetchGallery downloads gallery assets sequentially. declaredTotal is the
// gallery's declared item count, which sizes the ordinal padding. Failed
// entries yield an empty path at their position; the caller substitutes a
// remote link. The returned slice is index-aligned with images.
func (d *Downloader) FetchGallery(title, itemID string, images []models.GalleryImage, declaredTotal int, progress ProgressFunc) []string {
	paths := make([]string, len(images))
	total := len(images)

	for i, img := range images {
		name := GalleryAssetName(title, itemID, img, img.Index+1, declaredTotal)
		url := img.URL
		if img.Animated && img.VideoURL != "" {
			url = img.VideoURL
		}
		paths[i] = d.Fetch(url, name)
		if progress != nil {
			progress(i+1, total)
		}
	}

	return paths
}
