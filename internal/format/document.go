package format

import (
	"fmt"
	"strings"

	"github.com/cameronsjo/saved-reddit-exporter-sub002/internal/media"
	"github.com/cameronsjo/saved-reddit-exporter-sub002/pkg/models"
)

// MediaFetcher is the download side effect the assembler depends on. A nil
// fetcher disables downloads entirely; every other decision (classification,
// naming, gating) stays pure.
type MediaFetcher interface {
	Fetch(mediaURL, fileName string) string
	FetchGallery(title, itemID string, images []models.GalleryImage, declaredTotal int, progress media.ProgressFunc) []string
}

// Document is one assembled export: the rendered markdown plus the flat
// summary recorded in the export ledger.
type Document struct {
	Content  string
	FileName string
	Summary  models.ExportedItem
}

// Assembler composes frontmatter, header, media block, body, comment
// sections and footer into the final document.
type Assembler struct {
	Opts     Options
	Fetcher  MediaFetcher
	Progress media.ProgressFunc
}

// NewAssembler creates an Assembler. fetcher may be nil to disable media
// downloads regardless of the per-kind options.
func NewAssembler(opts Options, fetcher MediaFetcher) *Assembler {
	return &Assembler{Opts: opts, Fetcher: fetcher}
}

// Assemble renders a single item into a self-contained document. Media
// failures degrade to remote links; they never fail the document.
func (a *Assembler) Assemble(item *models.Item, origin models.ContentOrigin) (Document, error) {
	if !item.IsPost() && !item.IsComment() {
		return Document{}, fmt.Errorf("item %s is neither post nor comment", item.ID)
	}
	if !origin.Valid() {
		return Document{}, fmt.Errorf("item %s has unknown content origin %q", item.ID, origin)
	}

	res := ResolveCrosspost(item, a.Opts.ImportCrosspostOriginal)
	eff := res.Effective

	info := models.MediaInfo{Type: models.MediaLink}
	if eff.IsPost() {
		info = media.Classify(eff.Post.URL, eff.Post.Domain)
	}

	var b strings.Builder
	b.WriteString(BuildFrontmatter(item, res, info, origin, a.Opts))
	b.WriteString("\n")
	b.WriteString(a.header(eff, res, origin))
	b.WriteString("\n")

	title := documentTitle(eff)
	b.WriteString("# ")
	b.WriteString(title)
	b.WriteString("\n\n")

	if eff.IsPost() {
		if block := a.mediaBlock(eff, info); block != "" {
			b.WriteString(block)
			b.WriteString("\n")
		}
		a.writePostBody(&b, eff)
	} else {
		a.writeCommentBody(&b, eff)
	}

	b.WriteString(a.footer(eff, origin, info))

	return Document{
		Content:  b.String(),
		FileName: documentFileName(title, eff.ID),
		Summary: models.ExportedItem{
			ID:        eff.ID,
			Title:     title,
			Subreddit: eff.Subreddit,
			Author:    eff.Author,
			Score:     eff.Score,
			Created:   eff.CreatedTime(),
			Permalink: eff.FullPermalink(),
			Type:      eff.Kind.String(),
		},
	}, nil
}

// header renders the badge line and, for crossposts, the provenance notice.
func (a *Assembler) header(eff *models.Item, res CrosspostResolution, origin models.ContentOrigin) string {
	badges := []string{
		fmt.Sprintf("**r/%s**", eff.Subreddit),
		fmt.Sprintf("u/%s", eff.Author),
		fmt.Sprintf("⬆ %d", eff.Score),
	}
	if eff.IsPost() {
		badges = append(badges, fmt.Sprintf("💬 %d", eff.Post.NumComments))
	}
	badges = append(badges, originBadge(origin))

	line := strings.Join(badges, " | ") + "\n"
	if res.IsCrosspost {
		line += fmt.Sprintf("\n> 🔁 Crossposted from r/%s by u/%s\n",
			res.Origin.Subreddit, res.Origin.Author)
	}
	return line
}

func originBadge(origin models.ContentOrigin) string {
	switch origin {
	case models.OriginUpvoted:
		return "👍 upvoted"
	case models.OriginSubmitted:
		return "✍️ submitted"
	case models.OriginCommented:
		return "💬 commented"
	}
	return "📌 saved"
}

func documentTitle(eff *models.Item) string {
	if eff.IsPost() {
		return decodeEntities(eff.Post.Title)
	}
	return decodeEntities(eff.Comment.LinkTitle)
}

// mediaBlock renders the post's media: downloaded assets as embed links by
// filename, everything else as remote markdown links.
func (a *Assembler) mediaBlock(eff *models.Item, info models.MediaInfo) string {
	if eff.Post.Gallery != nil {
		return a.galleryBlock(eff)
	}
	if !info.IsMedia {
		return ""
	}

	url := media.UnescapeURL(eff.Post.URL)
	title := decodeEntities(eff.Post.Title)

	if a.shouldDownload(info.Type) && a.Fetcher != nil {
		name := media.AssetName(title, eff.ID, url, info)
		if local := a.Fetcher.Fetch(url, name); local != "" {
			return fmt.Sprintf("![[%s]]\n", name)
		}
	}

	if info.Embeddable {
		return fmt.Sprintf("![%s](%s)\n", title, url)
	}
	return fmt.Sprintf("🎬 [View media on %s](%s)\n", info.Domain, url)
}

// galleryBlock resolves and renders a multi-image gallery, downloading each
// asset sequentially when enabled.
func (a *Assembler) galleryBlock(eff *models.Item) string {
	images := media.ResolveGallery(eff)
	if len(images) == 0 {
		return ""
	}

	title := decodeEntities(eff.Post.Title)
	declaredTotal := len(eff.Post.Gallery.Items)

	var paths []string
	if a.Fetcher != nil && a.galleryDownloadEnabled(images) {
		paths = a.Fetcher.FetchGallery(title, eff.ID, images, declaredTotal, a.Progress)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "**Gallery (%d images)**\n\n", len(images))
	for i, img := range images {
		if paths != nil && paths[i] != "" {
			name := media.GalleryAssetName(title, eff.ID, img, img.Index+1, declaredTotal)
			fmt.Fprintf(&b, "![[%s]]\n", name)
		} else {
			fmt.Fprintf(&b, "![gallery image %d](%s)\n", img.Index+1, img.URL)
		}
		if img.Caption != "" {
			fmt.Fprintf(&b, "*%s*\n", decodeEntities(img.Caption))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// galleryDownloadEnabled checks whether any configured kind applies to the
// gallery's contents.
func (a *Assembler) galleryDownloadEnabled(images []models.GalleryImage) bool {
	for _, img := range images {
		if img.Animated {
			if a.Opts.DownloadGifs || (img.VideoURL != "" && a.Opts.DownloadVideos) {
				return true
			}
			continue
		}
		if a.Opts.DownloadImages {
			return true
		}
	}
	return false
}

func (a *Assembler) shouldDownload(t models.MediaType) bool {
	switch t {
	case models.MediaImage:
		return a.Opts.DownloadImages
	case models.MediaGif:
		return a.Opts.DownloadGifs
	case models.MediaVideo:
		return a.Opts.DownloadVideos
	}
	return false
}

func (a *Assembler) writePostBody(b *strings.Builder, eff *models.Item) {
	if eff.Post.SelfText != "" {
		b.WriteString(ConvertMarkdown(eff.Post.SelfText))
		b.WriteString("\n\n")
	}

	if len(eff.Post.Comments) > 0 {
		b.WriteString("## Comments\n\n")
		b.WriteString(RenderReplies(eff.Post.Comments, eff.Author))
		b.WriteString("\n")
	}
}

func (a *Assembler) writeCommentBody(b *strings.Builder, eff *models.Item) {
	comment := eff.Comment

	if strings.HasPrefix(comment.ParentID, "t1_") {
		b.WriteString("*This is a reply to another comment in the thread.*\n\n")
	} else {
		b.WriteString("*This is a top-level comment on the post.*\n\n")
	}

	if len(comment.ParentChain) > 0 {
		b.WriteString("## Context\n\n")
		b.WriteString(RenderAncestorContext(comment.ParentChain, ""))
		b.WriteString("\n")
	}

	b.WriteString("## Comment\n\n")
	b.WriteString(fmt.Sprintf("%s\n\n", authorLine(eff, "")))
	b.WriteString(ConvertMarkdown(comment.Body))
	b.WriteString("\n\n")

	if len(comment.Replies) > 0 {
		b.WriteString("## Replies\n\n")
		b.WriteString(RenderReplies(comment.Replies, ""))
		b.WriteString("\n")
	}
}

// footer renders topic tags and the canonical links back to the source.
func (a *Assembler) footer(eff *models.Item, origin models.ContentOrigin, info models.MediaInfo) string {
	var b strings.Builder
	b.WriteString("---\n")

	tags := []string{"#reddit"}
	tags = appendTag(tags, eff.Subreddit)
	tags = appendTag(tags, string(origin))
	if eff.IsPost() {
		if eff.Post.FlairText != "" {
			tags = appendTag(tags, decodeEntities(eff.Post.FlairText))
		}
		tags = appendTag(tags, postType(eff.Post, info))
	} else {
		tags = append(tags, "#comment")
	}
	b.WriteString(strings.Join(tags, " "))
	b.WriteString("\n\n")

	fmt.Fprintf(&b, "[View on Reddit](%s)\n", eff.FullPermalink())
	if eff.IsPost() && !eff.Post.IsSelf && eff.Post.URL != "" {
		fmt.Fprintf(&b, "[Original link](%s)\n", eff.Post.URL)
	}
	return b.String()
}

func appendTag(tags []string, text string) []string {
	if t := hashTag(text); t != "" {
		return append(tags, t)
	}
	return tags
}

// hashTag turns free text into a single hashtag token.
func hashTag(text string) string {
	t := strings.ToLower(strings.TrimSpace(text))
	t = strings.ReplaceAll(t, " ", "-")
	t = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return -1
	}, t)
	if t == "" {
		return ""
	}
	return "#" + t
}

// documentFileName derives the markdown filename for the document itself.
func documentFileName(title, id string) string {
	safe, ok := media.SanitizeTitle(title)
	if !ok {
		return fmt.Sprintf("reddit-%s.md", id)
	}
	return fmt.Sprintf("%s-%s.md", safe, id)
}
