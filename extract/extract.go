// Package extract implements content extraction with replacement
// substitution: placeholders leave the buffer as their widgets'
// replacement text, never as the placeholder rune. It is the only
// sanctioned path from a buffer to user-visible plain text or the
// system clipboard.
package extract

import (
	"strings"

	"github.com/atotto/clipboard"

	richtext "github.com/g-Off/RichText"
)

// Interceptor extracts ranges of a buffer with widget placeholders
// substituted by their replacement text.
type Interceptor struct {
	buffer *richtext.Buffer
}

// New creates an interceptor over the buffer.
func New(buf *richtext.Buffer) *Interceptor {
	return &Interceptor{buffer: buf}
}

// SetBuffer switches the interceptor to a new buffer.
func (x *Interceptor) SetBuffer(buf *richtext.Buffer) {
	x.buffer = buf
}

// Text returns the styled content of r. Placeholders become their
// widgets' replacement text, with unset replacement attributes
// inheriting the environment's default foreground and font; widgets
// without a replacement vanish. The result never contains the
// placeholder rune.
func (x *Interceptor) Text(r richtext.Range) richtext.Text {
	if x.buffer == nil {
		return nil
	}
	r = r.Clamp(x.buffer.Len())
	if r.IsEmpty() {
		return nil
	}
	env := x.buffer.Environment()
	inherit := richtext.Attributes{Foreground: env.Foreground, Font: env.Font}
	runes := x.buffer.Runes()

	var out richtext.Text
	emit := func(span richtext.Span) {
		span.Text = strings.ReplaceAll(span.Text, string(richtext.Placeholder), "")
		if span.Text == "" {
			return
		}
		if n := len(out); n > 0 && out[n-1].Attrs.Equals(span.Attrs) {
			out[n-1].Text += span.Text
			return
		}
		out = append(out, span)
	}

	x.buffer.RunsIn(r, func(rr richtext.Range, style richtext.Style) bool {
		attrs := styleAttributes(style)
		segStart := rr.Start
		for pos := rr.Start; pos < rr.End; pos++ {
			if runes[pos] != richtext.Placeholder {
				continue
			}
			if pos > segStart {
				emit(richtext.Span{Text: string(runes[segStart:pos]), Attrs: attrs})
			}
			if ref, ok := x.buffer.SlotAt(pos); ok {
				if rep, ok := ref.Replacement(); ok {
					for _, span := range rep {
						span.Attrs = span.Attrs.Merge(inherit)
						emit(span)
					}
				}
			}
			segStart = pos + 1
		}
		if rr.End > segStart {
			emit(richtext.Span{Text: string(runes[segStart:rr.End]), Attrs: attrs})
		}
		return true
	})
	return out
}

// String returns the plain-text content of r with replacements
// substituted.
func (x *Interceptor) String(r richtext.Range) string {
	return x.Text(r).String()
}

// Copy extracts r as plain text and writes it to the system clipboard.
func (x *Interceptor) Copy(r richtext.Range) error {
	if x.buffer == nil {
		return richtext.ErrNoBuffer
	}
	if err := clipboard.WriteAll(x.String(r)); err != nil {
		return richtext.NewOperationError("copy", "clipboard", err)
	}
	return nil
}

// CopyAll copies the whole document.
func (x *Interceptor) CopyAll() error {
	if x.buffer == nil {
		return richtext.ErrNoBuffer
	}
	return x.Copy(x.buffer.EntireRange())
}

// styleAttributes lowers a resolved style back into the sparse
// attribute namespace carried by extracted spans.
func styleAttributes(s richtext.Style) richtext.Attributes {
	return richtext.Attributes{
		Foreground:     s.Foreground,
		Background:     s.Background,
		Font:           s.Font,
		Flags:          s.Flags,
		Kerning:        s.Kerning,
		BaselineOffset: s.BaselineOffset,
		Link:           s.Link,
	}
}
