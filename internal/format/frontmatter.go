package format

import (
	"strconv"
	"strings"
	"time"

	"github.com/cameronsjo/saved-reddit-exporter-sub002/pkg/models"
)

// Content-type tags for the origin × kind combinations.
const (
	typeSavedPost    = "reddit-saved-post"
	typeSavedComment = "reddit-saved-comment"
	typeUpvoted      = "reddit-upvoted"
	typeOwnPost      = "reddit-my-post"
	typeOwnComment   = "reddit-my-comment"
)

// Options is the configuration slice the formatting pipeline consumes.
type Options struct {
	DownloadImages            bool
	DownloadGifs              bool
	DownloadVideos            bool
	MediaFolder               string
	PreserveCrosspostMetadata bool
	ImportCrosspostOriginal   bool
}

// frontmatter accumulates ordered key: value lines for the fenced metadata
// block. Values are appended only when present, which keeps the
// optional-vs-absent distinctions explicit at each call site.
type frontmatter struct {
	b strings.Builder
}

func (f *frontmatter) raw(key, val string) {
	f.b.WriteString(key)
	f.b.WriteString(": ")
	f.b.WriteString(val)
	f.b.WriteString("\n")
}

func (f *frontmatter) quoted(key, val string) {
	escaped := strings.ReplaceAll(val, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	f.raw(key, `"`+escaped+`"`)
}

func (f *frontmatter) num(key string, val int) {
	f.raw(key, strconv.Itoa(val))
}

func (f *frontmatter) boolean(key string, val bool) {
	f.raw(key, strconv.FormatBool(val))
}

func (f *frontmatter) render() string {
	return "---\n" + f.b.String() + "---\n"
}

// contentTypeTag maps origin × kind to the metadata type tag. Upvoted items
// share a single tag regardless of kind, and the commented origin always
// maps to the comment tag.
func contentTypeTag(origin models.ContentOrigin, kind models.ItemKind) string {
	switch origin {
	case models.OriginUpvoted:
		return typeUpvoted
	case models.OriginSubmitted:
		if kind == models.KindComment {
			return typeOwnComment
		}
		return typeOwnPost
	case models.OriginCommented:
		return typeOwnComment
	}
	if kind == models.KindComment {
		return typeSavedComment
	}
	return typeSavedPost
}

// BuildFrontmatter derives the fenced metadata block for an item. Content
// fields are read from the crosspost-resolved effective item; the crosspost
// provenance keys always come from the unsubstituted item and its origin.
func BuildFrontmatter(item *models.Item, res CrosspostResolution, info models.MediaInfo, origin models.ContentOrigin, opts Options) string {
	eff := res.Effective

	var fm frontmatter
	fm.raw("type", contentTypeTag(origin, eff.Kind))
	fm.raw("origin", string(origin))
	fm.raw("subreddit", eff.Subreddit)
	fm.raw("author", eff.Author)
	fm.raw("created", eff.CreatedTime().Format(time.RFC3339))
	fm.raw("created_date", eff.CreatedTime().Format("Jan 2, 2006"))
	fm.raw("permalink", eff.FullPermalink())
	fm.raw("id", eff.ID)

	// Deliberate asymmetry: only the saved origin carries the key at all.
	if origin == models.OriginSaved {
		fm.boolean("saved", true)
	}

	if res.IsCrosspost && opts.PreserveCrosspostMetadata {
		fm.boolean("is_crosspost", true)
		fm.raw("crosspost_subreddit", item.Subreddit)
		fm.raw("original_subreddit", res.Origin.Subreddit)
		fm.raw("original_author", res.Origin.Author)
		fm.raw("original_id", res.Origin.ID)
	}

	if eff.IsPost() {
		buildPostKeys(&fm, eff, info)
	} else if eff.IsComment() {
		buildCommentKeys(&fm, eff)
	}

	return fm.render()
}

func buildPostKeys(fm *frontmatter, item *models.Item, info models.MediaInfo) {
	post := item.Post

	fm.quoted("title", decodeEntities(post.Title))
	fm.num("score", item.Score)
	fm.num("comments", post.NumComments)
	if post.UpvoteRatio != nil {
		fm.raw("upvote_ratio", strconv.FormatFloat(*post.UpvoteRatio, 'f', -1, 64))
	} else {
		fm.raw("upvote_ratio", "unknown")
	}
	if post.FlairText != "" {
		fm.quoted("flair", decodeEntities(post.FlairText))
	}

	fm.raw("post_type", postType(post, info))

	if !post.IsSelf && post.URL != "" {
		fm.raw("url", post.URL)
	}
	if post.Domain != "" {
		fm.raw("domain", post.Domain)
	}

	if info.IsMedia {
		fm.raw("media", string(info.Type))
		if thumb := postThumbnail(post); thumb != "" {
			fm.raw("thumbnail", thumb)
		}
	}

	if len(post.Comments) > 0 {
		fm.num("exported_comments", CountComments(post.Comments))
	}
}

func buildCommentKeys(fm *frontmatter, item *models.Item) {
	comment := item.Comment

	fm.quoted("title", decodeEntities(comment.LinkTitle))
	fm.num("score", item.Score)
	fm.boolean("is_op", comment.IsSubmitter)

	if comment.ParentID != "" {
		fm.raw("parent_id", comment.ParentID)
		fm.raw("parent_type", parentType(comment.ParentID))
	}
	if comment.LinkID != "" {
		fm.raw("link_id", comment.LinkID)
	}
	if comment.Depth > 0 {
		fm.num("depth", comment.Depth)
	}
	if item.Distinguished != "" {
		fm.raw("distinguished", item.Distinguished)
	}
	if item.Edited.IsEdited() {
		if item.Edited.HasTimestamp() {
			fm.raw("edited", item.Edited.Time().Format(time.RFC3339))
		} else {
			fm.raw("edited", "true")
		}
	}
	if item.Archived {
		fm.boolean("archived", true)
	}
	if item.Locked {
		fm.boolean("locked", true)
	}

	if n := len(comment.ParentChain); n > 0 {
		fm.boolean("has_context", true)
		fm.num("context_count", n)
	}
	if n := CountComments(comment.Replies); n > 0 {
		fm.boolean("has_replies", true)
		fm.num("reply_count", n)
	}
}

// postType labels the post body: text for self posts, the fine-grained
// media kind for media posts, link otherwise.
func postType(post *models.PostData, info models.MediaInfo) string {
	if post.IsSelf {
		return "text"
	}
	if info.IsMedia {
		return info.Kind.String()
	}
	return "link"
}

// parentType derives the parent's kind from its fullname prefix.
func parentType(parentID string) string {
	if strings.HasPrefix(parentID, "t1_") {
		return "comment"
	}
	return "post"
}

// postThumbnail returns a usable thumbnail URL; reddit uses placeholder
// words ("self", "default", "nsfw") for posts without one.
func postThumbnail(post *models.PostData) string {
	t := post.Thumbnail
	if t == "" || !strings.HasPrefix(t, "http") {
		return ""
	}
	return decodeEntities(t)
}
