// Package models contains the data structures shared across the exporter:
// the post/comment item union, derived media descriptors, and the flat
// summaries recorded for already-exported documents.
package models

import (
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// ContentOrigin describes why an item entered the pipeline.
type ContentOrigin string

const (
	OriginSaved     ContentOrigin = "saved"
	OriginUpvoted   ContentOrigin = "upvoted"
	OriginSubmitted ContentOrigin = "submitted"
	OriginCommented ContentOrigin = "commented"
)

// Valid reports whether o is one of the recognized origins.
func (o ContentOrigin) Valid() bool {
	switch o {
	case OriginSaved, OriginUpvoted, OriginSubmitted, OriginCommented:
		return true
	}
	return false
}

// ItemKind discriminates the two item variants.
type ItemKind int

const (
	KindPost ItemKind = iota
	KindComment
)

func (k ItemKind) String() string {
	if k == KindComment {
		return "comment"
	}
	return "post"
}

// Item is a single Reddit post or comment. Exactly one of Post / Comment is
// non-nil, matching Kind.
type Item struct {
	Kind          ItemKind
	ID            string
	Author        string
	Subreddit     string
	CreatedUTC    float64
	Score         int
	Permalink     string
	Distinguished string // "", "moderator" or "admin"
	Edited        EditedAt
	Archived      bool
	Locked        bool

	Post    *PostData
	Comment *CommentData
}

// IsPost reports whether the item carries the post payload.
func (i *Item) IsPost() bool { return i.Kind == KindPost && i.Post != nil }

// IsComment reports whether the item carries the comment payload.
func (i *Item) IsComment() bool { return i.Kind == KindComment && i.Comment != nil }

// CreatedTime converts the epoch-seconds creation timestamp to time.Time (UTC).
func (i *Item) CreatedTime() time.Time {
	return time.Unix(int64(i.CreatedUTC), 0).UTC()
}

// FullPermalink returns the absolute reddit.com permalink.
func (i *Item) FullPermalink() string {
	if strings.HasPrefix(i.Permalink, "http") {
		return i.Permalink
	}
	return "https://www.reddit.com" + i.Permalink
}

// PostData is the post-only payload.
type PostData struct {
	Title         string
	SelfText      string
	URL           string
	Domain        string
	FlairText     string
	NumComments   int
	UpvoteRatio   *float64 // absent on some listings
	IsSelf        bool
	Thumbnail     string
	Preview       *Preview
	Gallery       *GalleryData
	MediaMetadata map[string]MediaMetadataEntry

	// CrosspostParent is the fullname of the origin post; CrosspostParents
	// carries the resolved origin chain. Both empty for ordinary posts.
	CrosspostParent  string
	CrosspostParents []Item

	// Comments holds exported top-level comments for this post, if any.
	Comments []*Item
}

// CommentData is the comment-only payload.
type CommentData struct {
	Body          string
	ParentID      string // fullname, t1_* or t3_*
	LinkID        string
	LinkTitle     string
	LinkPermalink string
	Depth         int
	IsSubmitter   bool

	// ParentChain is the ancestor context, nearest-first.
	ParentChain []*Item
	// Replies are descendant comments, recursively nested.
	Replies []*Item
}

// Preview carries the post's preview image metadata.
type Preview struct {
	Images []PreviewImage
}

// PreviewImage is one preview entry with its source rendition.
type PreviewImage struct {
	Source PreviewSource
}

// PreviewSource is a single rendition (URL still platform-escaped).
type PreviewSource struct {
	URL    string
	Width  int
	Height int
}

// GalleryData is the declared ordering of a multi-image post.
type GalleryData struct {
	Items []GalleryRef
}

// GalleryRef is one declared gallery entry, resolved against MediaMetadata.
type GalleryRef struct {
	MediaID     string
	Caption     string
	OutboundURL string
}

// MediaMetadataEntry is the per-id side table entry for gallery assets.
type MediaMetadataEntry struct {
	Status string // anything but "valid" is skipped
	Kind   string // "Image" or "AnimatedImage"
	Mime   string
	Source MediaSource
}

// MediaSource holds the candidate URLs for one gallery asset.
type MediaSource struct {
	URL    string // static image
	GIF    string // animated, gif encoding
	MP4    string // animated, video encoding
	Width  int
	Height int
}

// EditedAt models reddit's edited field, which is either false or an epoch
// timestamp. Zero means never edited.
type EditedAt float64

// UnmarshalJSON accepts both the boolean and the numeric wire forms.
func (e *EditedAt) UnmarshalJSON(data []byte) error {
	var b bool
	if err := json.Unmarshal(data, &b); err == nil {
		*e = 0
		if b {
			// "true" without a timestamp shows up on very old items
			*e = EditedAt(-1)
		}
		return nil
	}
	var ts float64
	if err := json.Unmarshal(data, &ts); err != nil {
		return fmt.Errorf("edited is neither bool nor number: %s", data)
	}
	*e = EditedAt(ts)
	return nil
}

// IsEdited reports whether the item was edited at all.
func (e EditedAt) IsEdited() bool { return e != 0 }

// HasTimestamp reports whether an actual edit time is known.
func (e EditedAt) HasTimestamp() bool { return e > 0 }

// Time returns the edit time; only meaningful when HasTimestamp is true.
func (e EditedAt) Time() time.Time { return time.Unix(int64(e), 0).UTC() }

// MediaType is the coarse media classification.
type MediaType string

const (
	MediaImage MediaType = "image"
	MediaVideo MediaType = "video"
	MediaGif   MediaType = "gif"
	MediaLink  MediaType = "link"
)

// MediaKind is the fine-grained classification of where media lives.
type MediaKind int

const (
	MediaKindNone MediaKind = iota
	MediaKindGenericImage
	MediaKindRedditImage
	MediaKindRedditVideo
	MediaKindImageHost
	MediaKindVideoFile
	MediaKindVideoPlatform
	MediaKindGifPlatform
)

func (k MediaKind) String() string {
	switch k {
	case MediaKindGenericImage:
		return "image"
	case MediaKindRedditImage:
		return "reddit-image"
	case MediaKindRedditVideo:
		return "reddit-video"
	case MediaKindImageHost:
		return "image-host"
	case MediaKindVideoFile:
		return "video-file"
	case MediaKindVideoPlatform:
		return "video-platform"
	case MediaKindGifPlatform:
		return "gif-platform"
	}
	return "none"
}

// MediaInfo is the derived classification for one item. Computed fresh per
// item, never cached.
type MediaInfo struct {
	Type       MediaType
	Kind       MediaKind
	IsMedia    bool
	Domain     string
	Embeddable bool
}

// GalleryImage is one resolved asset of a multi-image post.
type GalleryImage struct {
	MediaID     string
	URL         string // entity-unescaped display/download URL
	VideoURL    string // mp4 alternative for animated assets, may be empty
	Caption     string
	Width       int
	Height      int
	Animated    bool
	Index       int // position in the declared gallery order
	OutboundURL string
}

// ExportedItem is the flat summary recorded for a rendered document.
type ExportedItem struct {
	ID        string    `json:"id" db:"item_id"`
	Title     string    `json:"title" db:"title"`
	Subreddit string    `json:"subreddit" db:"subreddit"`
	Author    string    `json:"author" db:"author"`
	Score     int       `json:"score" db:"score"`
	Created   time.Time `json:"created" db:"created"`
	Permalink string    `json:"permalink" db:"permalink"`
	Type      string    `json:"type" db:"item_type"`
}

// ExportPackage is a snapshot of exported summaries for bulk export.
type ExportPackage struct {
	GeneratedAt time.Time      `json:"generated_at"`
	Count       int            `json:"count"`
	Items       []ExportedItem `json:"items"`
}
