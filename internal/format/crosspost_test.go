package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/saved-reddit-exporter-sub002/pkg/models"
)

func crosspostItem() *models.Item {
	origin := models.Item{
		Kind:      models.KindPost,
		ID:        "orig1",
		Author:    "original_author",
		Subreddit: "originalsub",
		Post: &models.PostData{
			Title:    "Original title",
			SelfText: "Original body",
		},
	}
	return &models.Item{
		Kind:      models.KindPost,
		ID:        "xp1",
		Author:    "reposter",
		Subreddit: "repostsub",
		Post: &models.PostData{
			Title:            "Crossposted title",
			CrosspostParent:  "t3_orig1",
			CrosspostParents: []models.Item{origin},
		},
	}
}

func TestResolveCrosspostSubstitution(t *testing.T) {
	item := crosspostItem()

	res := ResolveCrosspost(item, true)

	require.True(t, res.IsCrosspost)
	assert.Equal(t, "orig1", res.Effective.ID)
	assert.Equal(t, "Original title", res.Effective.Post.Title)
	assert.Equal(t, "Original body", res.Effective.Post.SelfText)
	// Provenance always reads from the chain on the unsubstituted item.
	assert.Equal(t, "originalsub", res.Origin.Subreddit)
	assert.Equal(t, "original_author", res.Origin.Author)
}

func TestResolveCrosspostWithoutSubstitution(t *testing.T) {
	item := crosspostItem()

	res := ResolveCrosspost(item, false)

	require.True(t, res.IsCrosspost)
	assert.Equal(t, "xp1", res.Effective.ID)
	assert.Equal(t, "Crossposted title", res.Effective.Post.Title)
	// The origin is still resolved for the provenance frontmatter.
	assert.Equal(t, "originalsub", res.Origin.Subreddit)
}

func TestResolveCrosspostMarkerWithEmptyChain(t *testing.T) {
	item := crosspostItem()
	item.Post.CrosspostParents = nil

	res := ResolveCrosspost(item, true)

	assert.False(t, res.IsCrosspost)
	assert.Equal(t, item, res.Effective)
	assert.Nil(t, res.Origin)
}

func TestResolveCrosspostOrdinaryPost(t *testing.T) {
	item := &models.Item{
		Kind: models.KindPost,
		ID:   "p1",
		Post: &models.PostData{Title: "Just a post"},
	}

	res := ResolveCrosspost(item, true)

	assert.False(t, res.IsCrosspost)
	assert.Equal(t, item, res.Effective)
}

func TestResolveCrosspostComment(t *testing.T) {
	item := &models.Item{
		Kind:    models.KindComment,
		ID:      "c1",
		Comment: &models.CommentData{Body: "a comment"},
	}

	res := ResolveCrosspost(item, true)

	assert.False(t, res.IsCrosspost)
	assert.Equal(t, item, res.Effective)
}
