package reddit

import (
	"encoding/json"
	"fmt"

	"github.com/cameronsjo/saved-reddit-exporter-sub002/pkg/models"
)

// thing mirrors reddit's kind/data envelope. The same data shape serves
// listings (kind "Listing") and items (kinds "t1"/"t3"); unknown fields are
// simply absent.
type thing struct {
	Kind string    `json:"kind"`
	Data thingData `json:"data"`
}

type thingData struct {
	// Listing fields
	After    string  `json:"after"`
	Children []thing `json:"children"`

	// Shared item fields
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Author        string          `json:"author"`
	Subreddit     string          `json:"subreddit"`
	CreatedUTC    float64         `json:"created_utc"`
	Score         int             `json:"score"`
	Permalink     string          `json:"permalink"`
	Distinguished string          `json:"distinguished"`
	Edited        models.EditedAt `json:"edited"`
	Archived      bool            `json:"archived"`
	Locked        bool            `json:"locked"`

	// Post fields
	Title               string                   `json:"title"`
	Selftext            string                   `json:"selftext"`
	URL                 string                   `json:"url"`
	Domain              string                   `json:"domain"`
	LinkFlairText       string                   `json:"link_flair_text"`
	NumComments         int                      `json:"num_comments"`
	UpvoteRatio         *float64                 `json:"upvote_ratio"`
	IsSelf              bool                     `json:"is_self"`
	Thumbnail           string                   `json:"thumbnail"`
	Preview             *previewData             `json:"preview"`
	IsGallery           bool                     `json:"is_gallery"`
	GalleryData         *galleryData             `json:"gallery_data"`
	MediaMetadata       map[string]mediaMetadata `json:"media_metadata"`
	CrosspostParent     string                   `json:"crosspost_parent"`
	CrosspostParentList []thingData              `json:"crosspost_parent_list"`

	// Comment fields
	Body          string       `json:"body"`
	ParentID      string       `json:"parent_id"`
	LinkID        string       `json:"link_id"`
	LinkTitle     string       `json:"link_title"`
	LinkPermalink string       `json:"link_permalink"`
	Depth         int          `json:"depth"`
	IsSubmitter   bool         `json:"is_submitter"`
	Replies       repliesField `json:"replies"`
}

type previewData struct {
	Images []struct {
		Source struct {
			URL    string `json:"url"`
			Width  int    `json:"width"`
			Height int    `json:"height"`
		} `json:"source"`
	} `json:"images"`
}

type galleryData struct {
	Items []struct {
		MediaID     string `json:"media_id"`
		Caption     string `json:"caption"`
		OutboundURL string `json:"outbound_url"`
	} `json:"items"`
}

type mediaMetadata struct {
	Status string `json:"status"`
	E      string `json:"e"`
	M      string `json:"m"`
	S      struct {
		U   string `json:"u"`
		GIF string `json:"gif"`
		MP4 string `json:"mp4"`
		X   int    `json:"x"`
		Y   int    `json:"y"`
	} `json:"s"`
}

// repliesField tolerates reddit returning "" instead of a listing when a
// comment has no replies.
type repliesField struct {
	Listing *thing
}

func (r *repliesField) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err == nil {
		r.Listing = nil
		return nil
	}
	var t thing
	if err := json.Unmarshal(data, &t); err != nil {
		return fmt.Errorf("replies is neither string nor listing: %w", err)
	}
	r.Listing = &t
	return nil
}

// convertThing converts a wire envelope into the item union.
func convertThing(t thing) (*models.Item, error) {
	switch t.Kind {
	case "t3":
		return convertPost(t.Data), nil
	case "t1":
		return convertComment(t.Data), nil
	}
	return nil, fmt.Errorf("unsupported thing kind %q", t.Kind)
}

func convertBase(d thingData) models.Item {
	return models.Item{
		ID:            d.ID,
		Author:        d.Author,
		Subreddit:     d.Subreddit,
		CreatedUTC:    d.CreatedUTC,
		Score:         d.Score,
		Permalink:     d.Permalink,
		Distinguished: d.Distinguished,
		Edited:        d.Edited,
		Archived:      d.Archived,
		Locked:        d.Locked,
	}
}

func convertPost(d thingData) *models.Item {
	item := convertBase(d)
	item.Kind = models.KindPost

	post := &models.PostData{
		Title:           d.Title,
		SelfText:        d.Selftext,
		URL:             d.URL,
		Domain:          d.Domain,
		FlairText:       d.LinkFlairText,
		NumComments:     d.NumComments,
		UpvoteRatio:     d.UpvoteRatio,
		IsSelf:          d.IsSelf,
		Thumbnail:       d.Thumbnail,
		CrosspostParent: d.CrosspostParent,
	}

	if d.Preview != nil && len(d.Preview.Images) > 0 {
		preview := &models.Preview{}
		for _, img := range d.Preview.Images {
			preview.Images = append(preview.Images, models.PreviewImage{
				Source: models.PreviewSource{
					URL:    img.Source.URL,
					Width:  img.Source.Width,
					Height: img.Source.Height,
				},
			})
		}
		post.Preview = preview
	}

	if d.IsGallery && d.GalleryData != nil {
		gallery := &models.GalleryData{}
		for _, ref := range d.GalleryData.Items {
			gallery.Items = append(gallery.Items, models.GalleryRef{
				MediaID:     ref.MediaID,
				Caption:     ref.Caption,
				OutboundURL: ref.OutboundURL,
			})
		}
		post.Gallery = gallery
	}
	if len(d.MediaMetadata) > 0 {
		post.MediaMetadata = make(map[string]models.MediaMetadataEntry, len(d.MediaMetadata))
		for id, meta := range d.MediaMetadata {
			post.MediaMetadata[id] = models.MediaMetadataEntry{
				Status: meta.Status,
				Kind:   meta.E,
				Mime:   meta.M,
				Source: models.MediaSource{
					URL:    meta.S.U,
					GIF:    meta.S.GIF,
					MP4:    meta.S.MP4,
					Width:  meta.S.X,
					Height: meta.S.Y,
				},
			}
		}
	}

	for _, parent := range d.CrosspostParentList {
		post.CrosspostParents = append(post.CrosspostParents, *convertPost(parent))
	}

	item.Post = post
	return &item
}

func convertComment(d thingData) *models.Item {
	item := convertBase(d)
	item.Kind = models.KindComment

	comment := &models.CommentData{
		Body:          d.Body,
		ParentID:      d.ParentID,
		LinkID:        d.LinkID,
		LinkTitle:     d.LinkTitle,
		LinkPermalink: d.LinkPermalink,
		Depth:         d.Depth,
		IsSubmitter:   d.IsSubmitter,
	}

	if d.Replies.Listing != nil {
		for _, child := range d.Replies.Listing.Data.Children {
			if child.Kind != "t1" {
				continue // "more" stubs are not expandable here
			}
			comment.Replies = append(comment.Replies, convertComment(child.Data))
		}
	}

	item.Comment = comment
	return &item
}

// attachContext wires the ancestor chain and replies onto a saved comment
// from its thread listing fetched with ?context=N. The listing nests the
// most distant ancestor at the top; the target comment sits at the bottom
// of that chain.
func attachContext(item *models.Item, commentListing thing) {
	for _, child := range commentListing.Data.Children {
		if child.Kind != "t1" {
			continue
		}
		var path []*models.Item
		if found := findComment(child, item.ID, &path); found != nil {
			// path holds root-first ancestors; the chain is nearest-first.
			chain := make([]*models.Item, 0, len(path))
			for i := len(path) - 1; i >= 0; i-- {
				chain = append(chain, path[i])
			}
			item.Comment.ParentChain = chain
			item.Comment.Replies = found.Comment.Replies
			item.Comment.Depth = found.Comment.Depth
			return
		}
	}
}

// findComment walks a comment subtree looking for targetID, appending the
// converted ancestors to path (root-first) along the way.
func findComment(t thing, targetID string, path *[]*models.Item) *models.Item {
	converted := convertComment(t.Data)
	if t.Data.ID == targetID {
		return converted
	}

	*path = append(*path, converted)
	if t.Data.Replies.Listing != nil {
		for _, child := range t.Data.Replies.Listing.Data.Children {
			if child.Kind != "t1" {
				continue
			}
			if found := findComment(child, targetID, path); found != nil {
				return found
			}
		}
	}
	*path = (*path)[:len(*path)-1]
	return nil
}
