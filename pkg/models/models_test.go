package models

import (
	"encoding/json"
	"testing"
	"time"
)

func TestEditedAtUnmarshal(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		wantEdited    bool
		wantTimestamp bool
	}{
		{
			name:  "false means never edited",
			input: `false`,
		},
		{
			name:       "true without timestamp",
			input:      `true`,
			wantEdited: true,
		},
		{
			name:          "numeric timestamp",
			input:         `1578000000.0`,
			wantEdited:    true,
			wantTimestamp: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var e EditedAt
			if err := json.Unmarshal([]byte(tt.input), &e); err != nil {
				t.Fatalf("Unmarshal(%s) error: %v", tt.input, err)
			}
			if e.IsEdited() != tt.wantEdited {
				t.Errorf("IsEdited() = %v, want %v", e.IsEdited(), tt.wantEdited)
			}
			if e.HasTimestamp() != tt.wantTimestamp {
				t.Errorf("HasTimestamp() = %v, want %v", e.HasTimestamp(), tt.wantTimestamp)
			}
		})
	}
}

func TestEditedAtUnmarshalRejectsGarbage(t *testing.T) {
	var e EditedAt
	if err := json.Unmarshal([]byte(`"soon"`), &e); err == nil {
		t.Error("expected error for string input")
	}
}

func TestEditedAtTime(t *testing.T) {
	e := EditedAt(1578000000)
	want := time.Date(2020, 1, 2, 21, 20, 0, 0, time.UTC)
	if !e.Time().Equal(want) {
		t.Errorf("Time() = %v, want %v", e.Time(), want)
	}
}

func TestItemVariants(t *testing.T) {
	post := &Item{Kind: KindPost, Post: &PostData{}}
	if !post.IsPost() || post.IsComment() {
		t.Error("post variant misreported")
	}

	comment := &Item{Kind: KindComment, Comment: &CommentData{}}
	if !comment.IsComment() || comment.IsPost() {
		t.Error("comment variant misreported")
	}

	malformed := &Item{Kind: KindPost}
	if malformed.IsPost() {
		t.Error("kind without payload must not count as post")
	}
}

func TestFullPermalink(t *testing.T) {
	relative := &Item{Permalink: "/r/golang/comments/x/"}
	if got := relative.FullPermalink(); got != "https://www.reddit.com/r/golang/comments/x/" {
		t.Errorf("FullPermalink() = %q", got)
	}

	absolute := &Item{Permalink: "https://www.reddit.com/r/golang/comments/x/"}
	if got := absolute.FullPermalink(); got != absolute.Permalink {
		t.Errorf("FullPermalink() = %q", got)
	}
}

func TestContentOriginValid(t *testing.T) {
	for _, o := range []ContentOrigin{OriginSaved, OriginUpvoted, OriginSubmitted, OriginCommented} {
		if !o.Valid() {
			t.Errorf("%s should be valid", o)
		}
	}
	if ContentOrigin("starred").Valid() {
		t.Error("unknown origin should be invalid")
	}
}
