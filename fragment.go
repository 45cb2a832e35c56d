package richtext

import "fmt"

// FragmentKind identifies the variant held by a Fragment.
type FragmentKind int

const (
	// FragmentPlain is an unstyled text fragment.
	FragmentPlain FragmentKind = iota
	// FragmentStyled is a styled-text fragment.
	FragmentStyled
	// FragmentWidget is an embedded-widget fragment.
	FragmentWidget
)

// String returns the kind name.
func (k FragmentKind) String() string {
	switch k {
	case FragmentPlain:
		return "plain"
	case FragmentStyled:
		return "styled"
	case FragmentWidget:
		return "widget"
	default:
		return "unknown"
	}
}

// Fragment is one unit of input content: plain text, styled text, or an
// embedded widget. Immutable once constructed.
type Fragment struct {
	kind   FragmentKind
	text   string
	styled Text
	ref    *Attachment
}

// PlainText creates an unstyled text fragment.
func PlainText(text string) Fragment {
	return Fragment{kind: FragmentPlain, text: text}
}

// StyledText creates a styled-text fragment.
func StyledText(text Text) Fragment {
	return Fragment{kind: FragmentStyled, styled: text}
}

// Widget creates a fragment embedding the given attachment.
func Widget(ref *Attachment) Fragment {
	return Fragment{kind: FragmentWidget, ref: ref}
}

// Kind returns the fragment's variant.
func (f Fragment) Kind() FragmentKind {
	return f.kind
}

// Text returns the fragment's content as styled text. Widget fragments
// return nil; their content is the placeholder, inserted by Build.
func (f Fragment) Text() Text {
	switch f.kind {
	case FragmentPlain:
		return Plain(f.text)
	case FragmentStyled:
		return f.styled
	default:
		return nil
	}
}

// Attachment returns the embedded attachment, or nil for text fragments.
func (f Fragment) Attachment() *Attachment {
	return f.ref
}

// String returns a short description of the fragment.
func (f Fragment) String() string {
	switch f.kind {
	case FragmentPlain:
		return fmt.Sprintf("plain(%q)", f.text)
	case FragmentStyled:
		return fmt.Sprintf("styled(%q)", f.styled.String())
	case FragmentWidget:
		return fmt.Sprintf("widget(%s)", f.ref.Identity())
	default:
		return "fragment(?)"
	}
}

// Content is an ordered sequence of fragments forming one document.
type Content []Fragment

// Widgets returns the embedded attachments in document order.
func (c Content) Widgets() []*Attachment {
	var refs []*Attachment
	for _, f := range c {
		if f.kind == FragmentWidget && f.ref != nil {
			refs = append(refs, f.ref)
		}
	}
	return refs
}
