package reddit

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cameronsjo/saved-reddit-exporter-sub002/pkg/models"
)

const savedListingJSON = `{
  "kind": "Listing",
  "data": {
    "after": "t3_next",
    "children": [
      {
        "kind": "t3",
        "data": {
          "id": "p1",
          "author": "writer",
          "subreddit": "golang",
          "created_utc": 1577968200.0,
          "score": 100,
          "permalink": "/r/golang/comments/p1/test/",
          "edited": false,
          "title": "A post",
          "selftext": "hello",
          "is_self": true,
          "num_comments": 5,
          "upvote_ratio": 0.97
        }
      },
      {
        "kind": "t1",
        "data": {
          "id": "c1",
          "author": "commenter",
          "subreddit": "golang",
          "created_utc": 1577968200.0,
          "score": 12,
          "permalink": "/r/golang/comments/p1/test/c1/",
          "edited": 1578000000.0,
          "body": "a reply",
          "parent_id": "t3_p1",
          "link_id": "t3_p1",
          "link_title": "A post",
          "is_submitter": true,
          "replies": ""
        }
      }
    ]
  }
}`

func TestConvertListing(t *testing.T) {
	var listing thing
	require.NoError(t, json.Unmarshal([]byte(savedListingJSON), &listing))
	assert.Equal(t, "t3_next", listing.Data.After)
	require.Len(t, listing.Data.Children, 2)

	post, err := convertThing(listing.Data.Children[0])
	require.NoError(t, err)
	require.True(t, post.IsPost())
	assert.Equal(t, "p1", post.ID)
	assert.Equal(t, "A post", post.Post.Title)
	assert.True(t, post.Post.IsSelf)
	require.NotNil(t, post.Post.UpvoteRatio)
	assert.Equal(t, 0.97, *post.Post.UpvoteRatio)
	assert.False(t, post.Edited.IsEdited())

	comment, err := convertThing(listing.Data.Children[1])
	require.NoError(t, err)
	require.True(t, comment.IsComment())
	assert.Equal(t, "a reply", comment.Comment.Body)
	assert.Equal(t, "t3_p1", comment.Comment.ParentID)
	assert.True(t, comment.Comment.IsSubmitter)
	assert.True(t, comment.Edited.HasTimestamp())
	assert.Empty(t, comment.Comment.Replies)
}

func TestConvertThingUnknownKind(t *testing.T) {
	_, err := convertThing(thing{Kind: "t5"})
	assert.Error(t, err)
}

const galleryPostJSON = `{
  "kind": "t3",
  "data": {
    "id": "g1",
    "title": "Gallery",
    "is_gallery": true,
    "gallery_data": {
      "items": [
        {"media_id": "aaa", "caption": "first"},
        {"media_id": "bbb"}
      ]
    },
    "media_metadata": {
      "aaa": {"status": "valid", "e": "Image", "m": "image/jpg",
              "s": {"u": "https://i.redd.it/aaa.jpg", "x": 100, "y": 50}},
      "bbb": {"status": "valid", "e": "AnimatedImage", "m": "image/gif",
              "s": {"gif": "https://i.redd.it/bbb.gif", "mp4": "https://i.redd.it/bbb.mp4"}}
    }
  }
}`

func TestConvertGalleryPost(t *testing.T) {
	var envelope thing
	require.NoError(t, json.Unmarshal([]byte(galleryPostJSON), &envelope))

	item, err := convertThing(envelope)
	require.NoError(t, err)
	require.True(t, item.IsPost())
	require.NotNil(t, item.Post.Gallery)
	require.Len(t, item.Post.Gallery.Items, 2)
	assert.Equal(t, "first", item.Post.Gallery.Items[0].Caption)

	meta := item.Post.MediaMetadata
	require.Len(t, meta, 2)
	assert.Equal(t, "Image", meta["aaa"].Kind)
	assert.Equal(t, 100, meta["aaa"].Source.Width)
	assert.Equal(t, "AnimatedImage", meta["bbb"].Kind)
	assert.Equal(t, "https://i.redd.it/bbb.mp4", meta["bbb"].Source.MP4)
}

const crosspostJSON = `{
  "kind": "t3",
  "data": {
    "id": "xp1",
    "subreddit": "repostsub",
    "title": "Repost",
    "crosspost_parent": "t3_orig",
    "crosspost_parent_list": [
      {"id": "orig", "subreddit": "originalsub", "author": "oa", "title": "Original"}
    ]
  }
}`

func TestConvertCrosspost(t *testing.T) {
	var envelope thing
	require.NoError(t, json.Unmarshal([]byte(crosspostJSON), &envelope))

	item, err := convertThing(envelope)
	require.NoError(t, err)
	require.Len(t, item.Post.CrosspostParents, 1)
	origin := item.Post.CrosspostParents[0]
	assert.Equal(t, "orig", origin.ID)
	assert.Equal(t, "originalsub", origin.Subreddit)
	assert.Equal(t, "Original", origin.Post.Title)
}

const threadJSON = `[
  {"kind": "Listing", "data": {"children": []}},
  {"kind": "Listing", "data": {"children": [
    {"kind": "t1", "data": {
      "id": "root", "author": "a", "body": "root comment", "depth": 0,
      "replies": {"kind": "Listing", "data": {"children": [
        {"kind": "t1", "data": {
          "id": "mid", "author": "b", "body": "middle", "depth": 1,
          "replies": {"kind": "Listing", "data": {"children": [
            {"kind": "t1", "data": {
              "id": "target", "author": "c", "body": "the saved one", "depth": 2,
              "replies": {"kind": "Listing", "data": {"children": [
                {"kind": "t1", "data": {"id": "child", "author": "d", "body": "a reply", "depth": 3, "replies": ""}}
              ]}}
            }}
          ]}}
        }}
      ]}}
    }}
  ]}}
]`

func TestAttachContext(t *testing.T) {
	var pages []thing
	require.NoError(t, json.Unmarshal([]byte(threadJSON), &pages))
	require.Len(t, pages, 2)

	item := &models.Item{
		Kind:    models.KindComment,
		ID:      "target",
		Comment: &models.CommentData{Body: "the saved one"},
	}

	attachContext(item, pages[1])

	// Ancestors arrive nearest-first.
	require.Len(t, item.Comment.ParentChain, 2)
	assert.Equal(t, "mid", item.Comment.ParentChain[0].ID)
	assert.Equal(t, "root", item.Comment.ParentChain[1].ID)

	require.Len(t, item.Comment.Replies, 1)
	assert.Equal(t, "child", item.Comment.Replies[0].ID)
	assert.Equal(t, 2, item.Comment.Depth)
}
