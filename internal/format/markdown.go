// Package format renders fetched items into self-contained markdown
// documents: dialect conversion, crosspost resolution, comment trees,
// frontmatter and final assembly.
package format

import (
	"regexp"
	"strings"
)

// The conversion runs as ordered passes; each pass operates on the previous
// pass's output. Spoilers must be rewritten before entity decoding because
// the spoiler delimiters are still entity-escaped at that point.
var (
	spoilerPattern = regexp.MustCompile(`&gt;!(.+?)!&lt;`)

	// entityReplacer decodes the fixed entity set. &amp; is decoded last so
	// double-escaped entities are unescaped exactly one level.
	entityReplacer = strings.NewReplacer(
		"&lt;", "<",
		"&gt;", ">",
		"&quot;", `"`,
		"&#x27;", "'",
		"&#x2F;", "/",
		"&amp;", "&",
	)

	superscriptParens = regexp.MustCompile(`\^\(([^)\n]+)\)`)
	superscriptWord   = regexp.MustCompile(`\^([A-Za-z0-9]+)(\^?)`)

	// Mentions match only on a word boundary: the preceding character may
	// not be part of a word, a path, or an existing link.
	userMention = regexp.MustCompile(`(^|[^\w/\[])(u/[A-Za-z0-9_-]+)`)
	subMention  = regexp.MustCompile(`(^|[^\w/\[])(r/[A-Za-z0-9_]+)`)

	quoteNoSpace = regexp.MustCompile(`^(>+)([^\s>])`)
)

// ConvertMarkdown rewrites reddit's markup dialect into portable markdown.
// Pure string transform; empty input returns empty output.
func ConvertMarkdown(text string) string {
	if text == "" {
		return ""
	}

	text = rewriteSpoilers(text)
	text = decodeEntities(text)
	text = rewriteSuperscript(text)
	text = rewriteMentions(text)
	text = normalizeQuotes(text)

	return text
}

// rewriteSpoilers turns the entity-escaped >!text!< spoiler syntax into
// ||text|| bars. Runs on still-escaped text.
func rewriteSpoilers(text string) string {
	return spoilerPattern.ReplaceAllString(text, "||$1||")
}

// decodeEntities decodes the fixed entity set reddit escapes in bodies.
func decodeEntities(text string) string {
	return entityReplacer.Replace(text)
}

// rewriteSuperscript converts the caret conventions ^word and ^(multi word)
// into ^word^ inline superscript markers. The single-word pass runs first so
// it cannot re-mangle the multi-word pass's output; text already in ^word^
// form is left alone so repeated conversion is stable.
func rewriteSuperscript(text string) string {
	text = superscriptWord.ReplaceAllStringFunc(text, func(m string) string {
		if strings.HasSuffix(m, "^") && len(m) > 1 {
			return m
		}
		return m + "^"
	})
	return superscriptParens.ReplaceAllString(text, "^$1^")
}

// rewriteMentions links u/name and r/name tokens to reddit.com. Partial
// matches inside longer tokens are not rewritten.
func rewriteMentions(text string) string {
	text = userMention.ReplaceAllString(text, "$1[$2](https://www.reddit.com/$2)")
	return subMention.ReplaceAllString(text, "$1[$2](https://www.reddit.com/$2)")
}

// normalizeQuotes ensures block-quote markers are followed by exactly one
// space. Well-formed quote lines and table-like lines (two or more pipe
// columns) pass through unchanged; table syntax is already markdown.
func normalizeQuotes(text string) string {
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		if isTableLine(line) {
			continue
		}
		lines[i] = quoteNoSpace.ReplaceAllString(line, "$1 $2")
	}
	return strings.Join(lines, "\n")
}

// isTableLine reports whether a line looks like a markdown table row.
func isTableLine(line string) bool {
	return strings.Count(line, "|") >= 2
}
