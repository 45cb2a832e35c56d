package richtext

import "strings"

// Span is a run of text with uniform attributes.
type Span struct {
	Text  string
	Attrs Attributes
}

// Text is styled text: an ordered sequence of spans.
type Text []Span

// Plain creates unstyled text from a string.
func Plain(text string) Text {
	if text == "" {
		return nil
	}
	return Text{{Text: text}}
}

// Attributed creates single-span text with the given attributes.
func Attributed(text string, attrs Attributes) Text {
	return Text{{Text: text, Attrs: attrs}}
}

// Len returns the total length in runes.
func (t Text) Len() int {
	n := 0
	for _, s := range t {
		n += len([]rune(s.Text))
	}
	return n
}

// String returns the concatenated text of all spans.
func (t Text) String() string {
	var b strings.Builder
	for _, s := range t {
		b.WriteString(s.Text)
	}
	return b.String()
}

// IsEmpty returns true if the text contains no characters.
func (t Text) IsEmpty() bool {
	for _, s := range t {
		if s.Text != "" {
			return false
		}
	}
	return true
}

// Append returns the text with spans appended.
func (t Text) Append(spans ...Span) Text {
	out := make(Text, 0, len(t)+len(spans))
	out = append(out, t...)
	out = append(out, spans...)
	return out
}

// Merge returns the text with defaults merged into every span, filling
// only unset attributes.
func (t Text) Merge(defaults Attributes) Text {
	if len(t) == 0 {
		return t
	}
	out := make(Text, len(t))
	for i, s := range t {
		out[i] = Span{Text: s.Text, Attrs: s.Attrs.Merge(defaults)}
	}
	return out
}
