package format

import (
	"fmt"
	"strings"

	"github.com/cameronsjo/saved-reddit-exporter-sub002/pkg/models"
)

// maxAncestorChars caps ancestor-context bodies before conversion; the
// context chain is background, not the exported content itself.
const maxAncestorChars = 500

const (
	badgeOP        = "👑"
	badgeModerator = "🛡️ MOD"
	badgeAdmin     = "🛡️ ADMIN"
)

// RenderAncestorContext renders a comment's ancestor chain, nearest-first.
// The i-th ancestor is rendered at quote depth i+1, so indentation grows
// toward the thread root and every context line is visibly quoted.
func RenderAncestorContext(chain []*models.Item, postAuthor string) string {
	if len(chain) == 0 {
		return ""
	}

	var b strings.Builder
	for i, ancestor := range chain {
		if !ancestor.IsComment() {
			continue
		}
		b.WriteString(renderComment(ancestor, i+1, postAuthor, true))
		b.WriteString("\n")
	}
	return b.String()
}

// RenderReplies renders descendant comments. Each reply is rendered at its
// declared nesting depth (minimum 1) and its own replies recurse one level
// deeper than the rendered depth.
func RenderReplies(replies []*models.Item, postAuthor string) string {
	var b strings.Builder
	for _, reply := range replies {
		renderReplyTree(&b, reply, replyDepth(reply), postAuthor)
	}
	return b.String()
}

func replyDepth(c *models.Item) int {
	if c.IsComment() && c.Comment.Depth > 0 {
		return c.Comment.Depth
	}
	return 1
}

func renderReplyTree(b *strings.Builder, c *models.Item, depth int, postAuthor string) {
	if !c.IsComment() {
		return
	}
	b.WriteString(renderComment(c, depth, postAuthor, false))
	b.WriteString("\n")
	for _, child := range c.Comment.Replies {
		renderReplyTree(b, child, depth+1, postAuthor)
	}
}

// renderComment produces the author line and quoted body for one comment at
// the given quote depth. Ancestor bodies are truncated before conversion.
func renderComment(c *models.Item, depth int, postAuthor string, truncate bool) string {
	prefix := strings.Repeat("> ", depth)

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString(authorLine(c, postAuthor))
	b.WriteString("\n")

	body := c.Comment.Body
	if truncate {
		body = truncateBody(body, maxAncestorChars)
	}
	body = ConvertMarkdown(body)

	for _, line := range strings.Split(body, "\n") {
		if line == "" {
			b.WriteString(strings.TrimRight(prefix, " "))
		} else {
			b.WriteString(prefix)
			b.WriteString(line)
		}
		b.WriteString("\n")
	}
	return b.String()
}

// authorLine builds the "**u/author** badges | score | date" heading.
func authorLine(c *models.Item, postAuthor string) string {
	parts := []string{fmt.Sprintf("**u/%s**", c.Author)}

	if c.Comment.IsSubmitter || (postAuthor != "" && c.Author == postAuthor) {
		parts = append(parts, badgeOP)
	}
	switch c.Distinguished {
	case "moderator":
		parts = append(parts, badgeModerator)
	case "admin":
		parts = append(parts, badgeAdmin)
	}

	head := strings.Join(parts, " ")
	return fmt.Sprintf("%s | %d points | %s", head, c.Score, c.CreatedTime().Format("Jan 2, 2006"))
}

// truncateBody caps body at max displayable characters with an ellipsis.
func truncateBody(body string, max int) string {
	runes := []rune(body)
	if len(runes) <= max {
		return body
	}
	return strings.TrimSpace(string(runes[:max])) + "..."
}

// CountComments returns the number of comments in a tree, including every
// nested reply.
func CountComments(comments []*models.Item) int {
	total := 0
	for _, c := range comments {
		if !c.IsComment() {
			continue
		}
		total++
		total += CountComments(c.Comment.Replies)
	}
	return total
}
