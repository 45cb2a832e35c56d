package cellgrid

import (
	"unicode/utf8"

	"github.com/gdamore/tcell/v2"

	richtext "github.com/g-Off/RichText"
)

// RenderTo draws the visible lines onto a tcell screen. Widget cells
// are left for their hosts to draw at published origins; the selection
// highlight is painted across every selected item, widgets included.
func (g *Grid) RenderTo(s tcell.Screen, sel richtext.Range) {
	if g.buffer == nil {
		return
	}
	sel = sel.Clamp(g.buffer.Len())
	offX := int(g.cfg.Offset.X)
	offY := int(g.cfg.Offset.Y)
	for _, ln := range g.lines {
		if !g.lineVisible(ln) {
			continue
		}
		// Text sits on the band's baseline, the bottom row.
		row := offY + ln.top - g.scrollTop + ln.height - 1
		for _, it := range ln.items {
			if it.width == 0 {
				continue
			}
			selected := !it.synthetic && it.start < sel.End && it.end > sel.Start
			x := offX + it.x
			if it.widget != nil {
				if selected {
					g.paintSelection(s, x, row, it.width)
				}
				continue
			}
			st := g.tcellStyle(g.styleFor(it), selected)
			primary, combining := splitCluster(it.cluster)
			s.SetContent(x, row, primary, combining, st)
		}
	}
}

// styleFor returns the style to draw an item with. Synthetic items
// carry the environment defaults.
func (g *Grid) styleFor(it item) richtext.Style {
	if it.synthetic {
		env := g.buffer.Environment()
		return richtext.Style{Foreground: env.Foreground, Font: env.Font}
	}
	return g.buffer.StyleAt(it.start)
}

// paintSelection fills w cells with the selection background.
func (g *Grid) paintSelection(s tcell.Screen, x, y, w int) {
	st := tcell.StyleDefault.Background(tcellColor(g.cfg.SelectionBackground))
	for i := 0; i < w; i++ {
		s.SetContent(x+i, y, ' ', nil, st)
	}
}

// tcellStyle converts a framework style to tcell.Style.
func (g *Grid) tcellStyle(s richtext.Style, selected bool) tcell.Style {
	style := tcell.StyleDefault

	if s.Foreground.IsSet() {
		style = style.Foreground(tcellColor(s.Foreground))
	}
	if s.Background.IsSet() {
		style = style.Background(tcellColor(s.Background))
	}
	if selected {
		style = style.Background(tcellColor(g.cfg.SelectionBackground))
	}

	if s.Flags.Has(richtext.FlagBold) {
		style = style.Bold(true)
	}
	if s.Flags.Has(richtext.FlagItalic) {
		style = style.Italic(true)
	}
	if s.Flags.Has(richtext.FlagUnderline) {
		style = style.Underline(true)
	}
	if s.Flags.Has(richtext.FlagStrikethrough) {
		style = style.StrikeThrough(true)
	}
	if s.Flags.Has(richtext.FlagCode) {
		style = style.Dim(true)
	}

	return style
}

func tcellColor(c richtext.Color) tcell.Color {
	return tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))
}

// splitCluster breaks a grapheme cluster into tcell's primary rune and
// combining runes.
func splitCluster(cluster string) (rune, []rune) {
	primary, size := utf8.DecodeRuneInString(cluster)
	rest := cluster[size:]
	if rest == "" {
		return primary, nil
	}
	return primary, []rune(rest)
}
