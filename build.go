package richtext

// Build aggregates content into one styled buffer: the fragments'
// text concatenated in order, one placeholder per widget fragment, and
// every run carried through two merge passes: environment defaults
// filled into unset attributes, then conversion into the surface-native
// style namespace. Build is a pure transform; it never touches the
// registry or the surface.
func Build(content Content, env Environment) *Buffer {
	type piece struct {
		text  string
		attrs Attributes
		ref   *Attachment
	}

	var pieces []piece
	for _, f := range content {
		switch f.Kind() {
		case FragmentPlain, FragmentStyled:
			for _, span := range f.Text() {
				if span.Text == "" {
					continue
				}
				pieces = append(pieces, piece{text: span.Text, attrs: span.Attrs})
			}
		case FragmentWidget:
			ref := f.Attachment()
			if ref == nil {
				continue
			}
			pieces = append(pieces, piece{text: string(Placeholder), ref: ref})
		}
	}

	buf := &Buffer{}
	for _, p := range pieces {
		if p.ref != nil {
			buf.slots = append(buf.slots, Slot{Pos: len(buf.text), Ref: p.ref})
		}
		buf.text = append(buf.text, []rune(p.text)...)
	}

	buf.env = env.resolved(string(buf.text))
	defaults := Attributes{
		Foreground: buf.env.Foreground,
		Font:       buf.env.Font,
	}

	pos := 0
	for _, p := range pieces {
		n := len([]rune(p.text))
		if n == 0 {
			continue
		}
		merged := p.attrs.Merge(defaults)
		style := resolveStyle(merged, buf.env)
		buf.appendRun(pos, pos+n, style)
		pos += n
	}

	return buf
}

// appendRun adds a style run, coalescing with the previous run when the
// styles are identical and the runs are adjacent.
func (b *Buffer) appendRun(start, end int, style Style) {
	if end <= start {
		return
	}
	if n := len(b.runs); n > 0 {
		last := &b.runs[n-1]
		if last.End == start && last.Style.Equals(style) {
			last.End = end
			return
		}
	}
	b.runs = append(b.runs, Run{Start: start, End: end, Style: style})
}
