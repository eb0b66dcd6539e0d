package format

import (
	"github.com/cameronsjo/saved-reddit-exporter-sub002/pkg/models"
)

// CrosspostResolution is the outcome of inspecting an item's crosspost
// chain. Effective is the item all content fields (title, body, media, URL)
// should be read from; Origin is the chain's first entry and feeds the
// provenance frontmatter regardless of substitution.
type CrosspostResolution struct {
	IsCrosspost bool
	Effective   *models.Item
	Origin      *models.Item
}

// ResolveCrosspost decides whether item is a crosspost and, when
// preferOriginal is set, substitutes the origin post for content reads.
// An item is a crosspost only when the crosspost marker is present and the
// origin chain is non-empty; a marker with an empty chain is not enough.
func ResolveCrosspost(item *models.Item, preferOriginal bool) CrosspostResolution {
	res := CrosspostResolution{Effective: item}

	if !item.IsPost() {
		return res
	}
	if item.Post.CrosspostParent == "" || len(item.Post.CrosspostParents) == 0 {
		return res
	}

	res.IsCrosspost = true
	res.Origin = &item.Post.CrosspostParents[0]
	if preferOriginal {
		res.Effective = res.Origin
	}
	return res
}
