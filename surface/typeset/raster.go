package typeset

import (
	"image"
	"image/color"
	"image/draw"

	"golang.org/x/image/font"
	"golang.org/x/image/math/fixed"

	richtext "github.com/g-Off/RichText"
)

// RenderTo rasterizes the laid-out document onto dst. Widget areas are
// left for their hosts to draw at published origins; the selection
// highlight is painted behind every selected item.
func (ts *Typesetter) RenderTo(dst draw.Image, sel richtext.Range) {
	if ts.buffer == nil {
		return
	}
	sel = sel.Clamp(ts.buffer.Len())
	offX := ts.cfg.Offset.X
	offY := ts.cfg.Offset.Y
	for _, ln := range ts.lines {
		baseY := offY + ln.top + ln.ascent
		for _, it := range ln.items {
			if it.width == 0 {
				continue
			}
			x := offX + it.x
			selected := !it.synthetic && it.start < sel.End && it.end > sel.Start
			if selected || it.style.Background.IsSet() {
				bg := it.style.Background
				if selected {
					bg = ts.cfg.SelectionBackground
				}
				fillRect(dst, x, offY+ln.top, it.width, ln.height(), rgba(bg))
			}
			if it.widget != nil || it.face == nil {
				continue
			}

			dotY := baseY - it.style.BaselineOffset
			d := font.Drawer{
				Dst:  dst,
				Src:  image.NewUniform(rgba(it.style.Foreground)),
				Face: it.face,
				Dot:  fixed.Point26_6{X: toFixed(x), Y: toFixed(dotY)},
			}
			d.DrawString(it.text)

			if it.style.Flags.Has(richtext.FlagUnderline) {
				fillRect(dst, x, dotY+1, it.width, 1, rgba(it.style.Foreground))
			}
			if it.style.Flags.Has(richtext.FlagStrikethrough) {
				fillRect(dst, x, dotY-it.ascent/3, it.width, 1, rgba(it.style.Foreground))
			}
		}
	}
}

func fillRect(dst draw.Image, x, y, w, h float64, c color.Color) {
	r := image.Rect(int(x), int(y), int(x+w+0.5), int(y+h+0.5))
	draw.Draw(dst, r, image.NewUniform(c), image.Point{}, draw.Over)
}

func rgba(c richtext.Color) color.RGBA {
	return color.RGBA{R: c.R, G: c.G, B: c.B, A: 255}
}
