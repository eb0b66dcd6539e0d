package media

import (
	"strings"
	"testing"

	"github.com/cameronsjo/saved-reddit-exporter-sub002/pkg/models"
)

func TestSanitizeTitle(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		want   string
		wantOK bool
	}{
		{
			name:   "plain title",
			input:  "A normal title",
			want:   "A normal title",
			wantOK: true,
		},
		{
			name:   "strips illegal characters",
			input:  `What? A "title": with/slashes\and|pipes`,
			want:   "What A title withslashesandpipes",
			wantOK: true,
		},
		{
			name:   "collapses whitespace",
			input:  "too   many\t\tspaces",
			want:   "too many spaces",
			wantOK: true,
		},
		{
			name:   "path traversal is unsafe",
			input:  "../../etc/passwd",
			wantOK: false,
		},
		{
			name:   "only illegal characters is unsafe",
			input:  `???***|||`,
			wantOK: false,
		},
		{
			name:   "caps length to 50 characters",
			input:  strings.Repeat("a", 80),
			want:   strings.Repeat("a", 50),
			wantOK: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := SanitizeTitle(tt.input)
			if ok != tt.wantOK {
				t.Fatalf("SanitizeTitle(%q) ok = %v, want %v", tt.input, ok, tt.wantOK)
			}
			if ok && got != tt.want {
				t.Errorf("SanitizeTitle(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestAssetName(t *testing.T) {
	info := models.MediaInfo{Type: models.MediaImage, IsMedia: true}

	got := AssetName("Sunset photo", "abc12", "https://i.redd.it/xyz789.jpg", info)
	want := "Sunset photo-abc12-xyz789.jpg"
	if got != want {
		t.Errorf("AssetName = %q, want %q", got, want)
	}
}

func TestAssetNameUnsafeTitleFallsBackToID(t *testing.T) {
	info := models.MediaInfo{Type: models.MediaImage, IsMedia: true}

	got := AssetName("..", "abc12", "https://i.redd.it/xyz.png", info)
	want := "media-abc12.png"
	if got != want {
		t.Errorf("AssetName = %q, want %q", got, want)
	}
}

func TestAssetNameExtensionInference(t *testing.T) {
	tests := []struct {
		name string
		url  string
		info models.MediaInfo
		ext  string
	}{
		{"explicit url extension", "https://x.com/a.webp", models.MediaInfo{Type: models.MediaImage}, ".webp"},
		{"image kind fallback", "https://x.com/a", models.MediaInfo{Type: models.MediaImage}, ".jpg"},
		{"gif kind fallback", "https://x.com/a", models.MediaInfo{Type: models.MediaGif}, ".gif"},
		{"video kind fallback", "https://x.com/a", models.MediaInfo{Type: models.MediaVideo}, ".mp4"},
		{"no kind at all", "https://x.com/a", models.MediaInfo{Type: models.MediaLink}, ".unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssetName("Title", "id1", tt.url, tt.info)
			if !strings.HasSuffix(got, tt.ext) {
				t.Errorf("AssetName = %q, want suffix %q", got, tt.ext)
			}
		})
	}
}

func TestGalleryAssetNameOrdinalPadding(t *testing.T) {
	img := models.GalleryImage{URL: "https://i.redd.it/a.jpg", Index: 2}

	// A 12-image gallery pads ordinals to two digits so lexicographic and
	// numeric sort agree.
	got := GalleryAssetName("My gallery", "g1", img, 3, 12)
	want := "My gallery-g1-03.jpg"
	if got != want {
		t.Errorf("GalleryAssetName = %q, want %q", got, want)
	}

	got = GalleryAssetName("My gallery", "g1", img, 3, 9)
	want = "My gallery-g1-3.jpg"
	if got != want {
		t.Errorf("GalleryAssetName = %q, want %q", got, want)
	}
}

func TestGalleryAssetNameAnimated(t *testing.T) {
	withMP4 := models.GalleryImage{URL: "https://i.redd.it/a.gif", VideoURL: "https://i.redd.it/a.mp4", Animated: true}
	if got := GalleryAssetName("T", "g1", withMP4, 1, 1); !strings.HasSuffix(got, ".mp4") {
		t.Errorf("animated with mp4 = %q, want .mp4 suffix", got)
	}

	gifOnly := models.GalleryImage{URL: "https://i.redd.it/a.gif", Animated: true}
	if got := GalleryAssetName("T", "g1", gifOnly, 1, 1); !strings.HasSuffix(got, ".gif") {
		t.Errorf("animated without mp4 = %q, want .gif suffix", got)
	}
}
