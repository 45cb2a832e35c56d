package richtext

import (
	"fmt"
	"strings"

	"github.com/g-Off/RichText/internal/log"
)

// Markup parses a small inline-markup subset into a styled fragment:
// **bold**, *italic*, ***both***, `code`, [text](url). Malformed input
// falls back to an unstyled plain-text fragment of the raw source; the
// build never fails on content.
func Markup(src string) Fragment {
	text, err := parseMarkup(src, Attributes{})
	if err != nil {
		log.Default().WithComponent("markup").Debug("markup fallback: %v", err)
		return PlainText(src)
	}
	return StyledText(text)
}

// parseMarkup scans src into styled spans. It reports an error for
// unterminated constructs; the caller decides the fallback.
func parseMarkup(src string, base Attributes) (Text, error) {
	var spans Text
	var current strings.Builder
	i := 0

	flushPlain := func() {
		if current.Len() > 0 {
			spans = append(spans, Span{Text: current.String(), Attrs: base})
			current.Reset()
		}
	}

	for i < len(src) {
		// Link: [text](url)
		if src[i] == '[' {
			labelEnd := strings.Index(src[i+1:], "]")
			if labelEnd == -1 {
				return nil, markupError(src, i, "unterminated link label")
			}
			closeBracket := i + 1 + labelEnd
			if closeBracket+1 >= len(src) || src[closeBracket+1] != '(' {
				return nil, markupError(src, i, "link label without target")
			}
			urlEnd := strings.Index(src[closeBracket+2:], ")")
			if urlEnd == -1 {
				return nil, markupError(src, i, "unterminated link target")
			}
			flushPlain()

			label := src[i+1 : closeBracket]
			url := src[closeBracket+2 : closeBracket+2+urlEnd]

			linkAttrs := base
			linkAttrs.Foreground = LinkBlue
			linkAttrs.Flags |= FlagUnderline
			linkAttrs.Link = url
			spans = append(spans, Span{Text: label, Attrs: linkAttrs})

			i = closeBracket + 2 + urlEnd + 1
			continue
		}

		// Inline code: `text`
		if src[i] == '`' {
			end := strings.Index(src[i+1:], "`")
			if end == -1 {
				return nil, markupError(src, i, "unterminated code span")
			}
			flushPlain()

			codeAttrs := base
			codeAttrs.Flags |= FlagCode
			spans = append(spans, Span{Text: src[i+1 : i+1+end], Attrs: codeAttrs})

			i = i + 1 + end + 1
			continue
		}

		// Bold+italic: ***text***
		if strings.HasPrefix(src[i:], "***") {
			end := strings.Index(src[i+3:], "***")
			if end == -1 {
				return nil, markupError(src, i, "unterminated emphasis")
			}
			flushPlain()

			attrs := base
			attrs.Flags |= FlagBold | FlagItalic
			spans = append(spans, Span{Text: src[i+3 : i+3+end], Attrs: attrs})

			i = i + 3 + end + 3
			continue
		}

		// Bold: **text**
		if strings.HasPrefix(src[i:], "**") {
			end := strings.Index(src[i+2:], "**")
			if end == -1 {
				return nil, markupError(src, i, "unterminated emphasis")
			}
			flushPlain()

			attrs := base
			attrs.Flags |= FlagBold
			spans = append(spans, Span{Text: src[i+2 : i+2+end], Attrs: attrs})

			i = i + 2 + end + 2
			continue
		}

		// Italic: *text*
		if src[i] == '*' {
			end := strings.Index(src[i+1:], "*")
			if end == -1 {
				return nil, markupError(src, i, "unterminated emphasis")
			}
			flushPlain()

			attrs := base
			attrs.Flags |= FlagItalic
			spans = append(spans, Span{Text: src[i+1 : i+1+end], Attrs: attrs})

			i = i + 1 + end + 1
			continue
		}

		current.WriteByte(src[i])
		i++
	}

	flushPlain()

	if len(spans) == 0 {
		spans = Text{{Text: src, Attrs: base}}
	}
	return spans, nil
}

// markupError builds a ParseError pointing at the offending line.
func markupError(src string, offset int, msg string) error {
	line := 1 + strings.Count(src[:offset], "\n")
	return &ParseError{
		Path:    "<markup>",
		Line:    line,
		Message: fmt.Sprintf("%s at offset %d", msg, offset),
	}
}
