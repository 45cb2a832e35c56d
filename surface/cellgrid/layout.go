package cellgrid

import (
	"unicode/utf8"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"

	richtext "github.com/g-Off/RichText"
	"github.com/g-Off/RichText/geom"
)

// relayoutFrom re-flows the document starting at line index li,
// keeping every line before it. Index 0 is a full pass.
func (g *Grid) relayoutFrom(li int) {
	g.layouts.Add(1)
	if li > 0 {
		g.partials.Add(1)
	}
	if li > len(g.lines) {
		li = len(g.lines)
	}
	pos, top := 0, 0
	if li > 0 {
		prev := g.lines[li-1]
		pos = prev.end
		top = prev.top + g.advance(prev.height)
	}
	g.lines = g.lines[:li]
	g.flow(pos, top)
	g.clampScroll()
}

// advance returns the vertical step from one band top to the next,
// applying the line-height multiplier and extra spacing.
func (g *Grid) advance(bandHeight int) int {
	env := g.buffer.Environment()
	step := geom.CeilCells(float64(bandHeight)*env.LineHeight + env.LineSpacing)
	if step < 1 {
		step = 1
	}
	return step
}

// flow lays out the document from rune position pos, appending lines
// until the end of the buffer. Soft breaks happen at Unicode line
// break opportunities; a run with no opportunity breaks at the cell
// limit.
func (g *Grid) flow(pos, top int) {
	buf := g.buffer
	trunc := buf.Environment().Truncation
	text := string(buf.Runes()[pos:])

	var (
		items     []item
		lineStart = pos
		lineWidth int
		lastOpp   = -1
		skipping  bool
	)

	flush := func(endPos int) {
		ln := g.finalizeLine(items, lineStart, endPos, top)
		g.lines = append(g.lines, ln)
		top = ln.top + g.advance(ln.height)
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
		it := g.measure(cluster, pos, pos+n)
		pos += n

		brk := boundaries & uniseg.MaskLine
		mustBreak := brk == uniseg.LineMustBreak
		canBreak := brk == uniseg.LineCanBreak

		if skipping {
			// Truncated paragraph: discard until the next hard break.
			if mustBreak {
				flush(pos)
				skipping = false
			}
			continue
		}

		if lineWidth+it.width > g.cfg.Width && len(items) > 0 {
			if trunc == richtext.TruncateTail {
				items, lineWidth = g.truncate(items, lineWidth, it.start)
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
	g.height = top
}

// measure sizes one grapheme cluster. Widget placeholders reserve
// whole cells covering the widget's current size; everything else is
// measured by terminal cell width.
func (g *Grid) measure(cluster string, start, end int) item {
	it := item{start: start, end: end, cluster: cluster, height: 1}
	r, _ := utf8.DecodeRuneInString(cluster)
	if r == richtext.Placeholder {
		if ref, ok := g.buffer.SlotAt(start); ok {
			it.widget = ref
			size := ref.IntrinsicSize()
			if g.cfg.Measurer != nil {
				if live, ok := g.cfg.Measurer.SizeOf(ref.Identity()); ok {
					size = live
				}
			}
			it.width = geom.CeilCells(size.W)
			if it.height = geom.CeilCells(size.H); it.height < 1 {
				it.height = 1
			}
			return it
		}
	}
	if r == '\n' {
		it.width = 0
		return it
	}
	it.width = runewidth.StringWidth(cluster)
	return it
}

// truncate drops trailing items until the line plus a one-cell
// ellipsis fits, then appends the ellipsis.
func (g *Grid) truncate(items []item, width, at int) ([]item, int) {
	const ellipsisWidth = 1
	for len(items) > 0 && width+ellipsisWidth > g.cfg.Width {
		last := items[len(items)-1]
		width -= last.width
		at = last.start
		items = items[:len(items)-1]
	}
	items = append(items, item{
		start:     at,
		end:       at,
		width:     ellipsisWidth,
		height:    1,
		cluster:   "…",
		synthetic: true,
	})
	return items, width + ellipsisWidth
}

// finalizeLine assigns visual x positions honoring direction and
// alignment, and computes the band height from the tallest item.
func (g *Grid) finalizeLine(items []item, start, end, top int) line {
	env := g.buffer.Environment()
	ln := line{start: start, end: end, top: top, height: 1, items: items}
	for _, it := range items {
		ln.width += it.width
		if it.height > ln.height {
			ln.height = it.height
		}
	}

	rtl := env.Direction == richtext.DirectionRightToLeft
	offset := 0
	switch env.Alignment {
	case richtext.AlignCenter:
		offset = (g.cfg.Width - ln.width) / 2
	case richtext.AlignTrailing:
		if !rtl {
			offset = g.cfg.Width - ln.width
		}
	default:
		if rtl {
			offset = g.cfg.Width - ln.width
		}
	}
	if offset < 0 {
		offset = 0
	}

	x := 0
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
