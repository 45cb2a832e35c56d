package typeset

import (
	"unicode/utf8"

	"github.com/rivo/uniseg"
	"golang.org/x/image/font"

	richtext "github.com/g-Off/RichText"
	"github.com/g-Off/RichText/geom"
	"github.com/g-Off/RichText/surface"
)

// tighteningSlack is how far past the wrap width a line may run when
// the environment permits kerning tightening.
const tighteningSlack = 1.02

// relayout re-flows the whole document. Proportional metrics make
// wrap positions depend on everything before them, so the pass is
// always full.
func (ts *Typesetter) relayout() {
	ts.layouts.Add(1)
	ts.lines = nil
	ts.height = 0
	ts.flow()
}

// advance returns the vertical step from one band top to the next.
func (ts *Typesetter) advance(bandHeight float64) float64 {
	env := ts.buffer.Environment()
	step := bandHeight*env.LineHeight + env.LineSpacing
	if step <= 0 {
		step = bandHeight
	}
	return step
}

// limit returns the effective wrap width for break decisions.
func (ts *Typesetter) limit() float64 {
	if ts.buffer.Environment().Tightening {
		return ts.cfg.Width * tighteningSlack
	}
	return ts.cfg.Width
}

func (ts *Typesetter) flow() {
	buf := ts.buffer
	env := buf.Environment()
	text := string(buf.Runes())
	limit := ts.limit()

	var (
		items     []item
		pos       int
		lineStart int
		lineWidth float64
		lastOpp   = -1
		skipping  bool
		top       float64
		prevRune  rune = -1
		prevFace  font.Face
	)

	flush := func(endPos int) {
		ln := ts.finalizeLine(items, lineStart, endPos, top)
		ts.lines = append(ts.lines, ln)
		top = ln.top + ts.advance(ln.height())
		items = nil
		lineWidth = 0
		lastOpp = -1
		lineStart = endPos
	}

	state := -1
	for len(text) > 0 {
		var cluster string
		var boundaries int
		cluster, text, boundaries, state = uniseg.StepString(text, state)

		n := utf8.RuneCountInString(cluster)
		it := ts.measureCluster(cluster, pos, pos+n, prevRune, prevFace)
		pos += n
		if it.face != nil {
			prevFace = it.face
			prevRune, _ = utf8.DecodeLastRuneInString(cluster)
		} else {
			prevFace = nil
			prevRune = -1
		}

		brk := boundaries & uniseg.MaskLine
		mustBreak := brk == uniseg.LineMustBreak
		canBreak := brk == uniseg.LineCanBreak

		if skipping {
			if mustBreak {
				flush(pos)
				skipping = false
			}
			continue
		}

		if lineWidth+it.width > limit && len(items) > 0 {
			if env.Truncation == richtext.TruncateTail {
				items, lineWidth = ts.truncate(items, lineWidth, it.start)
				if mustBreak {
					flush(pos)
				} else {
					skipping = true
				}
				continue
			}
			if lastOpp >= 0 && lastOpp < len(items)-1 {
				carried := append([]item(nil), items[lastOpp+1:]...)
				items = items[:lastOpp+1]
				flush(carried[0].start)
				items = carried
				for _, c := range carried {
					lineWidth += c.width
				}
			} else {
				flush(it.start)
			}
		}

		items = append(items, it)
		lineWidth += it.width
		if mustBreak {
			flush(pos)
		} else if canBreak {
			lastOpp = len(items) - 1
		}
	}
	if len(items) > 0 {
		flush(pos)
	}
	ts.height = top
}

// measureCluster sizes one grapheme cluster, kerning it against the
// previous cluster when both share a face.
func (ts *Typesetter) measureCluster(cluster string, start, end int, prevRune rune, prevFace font.Face) item {
	it := item{start: start, end: end, text: cluster}
	r, _ := utf8.DecodeRuneInString(cluster)

	if r == richtext.Placeholder {
		if ref, ok := ts.buffer.SlotAt(start); ok {
			it.widget = ref
			size := ref.IntrinsicSize()
			if ts.cfg.Measurer != nil {
				if live, ok := ts.cfg.Measurer.SizeOf(ref.Identity()); ok {
					size = live
				}
			}
			it.width = size.W
			it.ascent = size.H
			return it
		}
	}
	if r == '\n' {
		return it
	}

	it.style = ts.buffer.StyleAt(start)
	f, err := ts.bank.face(it.style)
	if err != nil {
		return it
	}
	it.face = f
	w, _ := measure(f, cluster, it.style.Kerning)
	it.width = w
	if prevRune >= 0 && prevFace == f {
		it.width += fromFixed(f.Kern(prevRune, r)) + it.style.Kerning
	}
	m := f.Metrics()
	it.ascent = fromFixed(m.Ascent)
	it.descent = fromFixed(m.Descent)
	return it
}

// truncate drops trailing items until the line plus an ellipsis fits,
// then appends the ellipsis in the environment's default style.
func (ts *Typesetter) truncate(items []item, width float64, at int) ([]item, float64) {
	env := ts.buffer.Environment()
	style := richtext.Style{Foreground: env.Foreground, Font: env.Font}
	ell := item{start: at, end: at, text: "…", style: style, synthetic: true}
	if f, err := ts.bank.face(style); err == nil {
		ell.face = f
		ell.width, _ = measure(f, ell.text, 0)
		m := f.Metrics()
		ell.ascent = fromFixed(m.Ascent)
		ell.descent = fromFixed(m.Descent)
	}

	for len(items) > 0 && width+ell.width > ts.cfg.Width {
		last := items[len(items)-1]
		width -= last.width
		ell.start = last.start
		ell.end = last.start
		items = items[:len(items)-1]
	}
	items = append(items, ell)
	return items, width + ell.width
}

// finalizeLine assigns visual x positions and derives the band's
// ascent and descent from its tallest items. Widgets sit on the
// baseline, contributing their full height as ascent.
func (ts *Typesetter) finalizeLine(items []item, start, end int, top float64) line {
	env := ts.buffer.Environment()
	ln := line{start: start, end: end, top: top, items: items}
	for _, it := range items {
		ln.width += it.width
		if it.ascent > ln.ascent {
			ln.ascent = it.ascent
		}
		if it.descent > ln.descent {
			ln.descent = it.descent
		}
	}
	if ln.height() == 0 {
		// A blank line still occupies the default face's band.
		if f, err := ts.bank.face(richtext.Style{Font: env.Font}); err == nil {
			m := f.Metrics()
			ln.ascent = fromFixed(m.Ascent)
			ln.descent = fromFixed(m.Descent)
		}
	}

	rtl := env.Direction == richtext.DirectionRightToLeft
	offset := 0.0
	switch env.Alignment {
	case richtext.AlignCenter:
		offset = (ts.cfg.Width - ln.width) / 2
	case richtext.AlignTrailing:
		if !rtl {
			offset = ts.cfg.Width - ln.width
		}
	default:
		if rtl {
			offset = ts.cfg.Width - ln.width
		}
	}
	if offset < 0 {
		offset = 0
	}

	x := 0.0
	for i := range items {
		if rtl {
			items[i].x = offset + ln.width - x - items[i].width
		} else {
			items[i].x = offset + x
		}
		x += items[i].width
	}
	return ln
}

// Segments calls fn with one segment per laid-out line overlapping r,
// in document order.
func (ts *Typesetter) Segments(r richtext.Range, fn func(surface.Segment) bool) {
	if ts.buffer == nil {
		return
	}
	r = r.Clamp(ts.buffer.Len())
	if r.IsEmpty() {
		return
	}
	for _, ln := range ts.lines {
		if ln.end <= r.Start {
			continue
		}
		if ln.start >= r.End {
			return
		}
		seg, ok := lineSegment(ln, r)
		if !ok {
			continue
		}
		if !fn(seg) {
			return
		}
	}
}

// lineSegment returns the visual extent of r's overlap with one line.
func lineSegment(ln line, r richtext.Range) (surface.Segment, bool) {
	minX, maxX := 0.0, 0.0
	found := false
	for _, it := range ln.items {
		if it.synthetic || it.end <= r.Start || it.start >= r.End || it.width == 0 {
			continue
		}
		if !found || it.x < minX {
			minX = it.x
		}
		if right := it.x + it.width; !found || right > maxX {
			maxX = right
		}
		found = true
	}
	if !found {
		return surface.Segment{}, false
	}
	return surface.Segment{
		Frame:    geom.RectAt(minX, ln.top, maxX-minX, ln.height()),
		Baseline: ln.ascent,
	}, true
}

var _ surface.Surface = (*Typesetter)(nil)
