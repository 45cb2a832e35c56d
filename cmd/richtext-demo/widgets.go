package main

import (
	"fmt"
	"sync/atomic"
	"time"

	"github.com/gdamore/tcell/v2"

	richtext "github.com/g-Off/RichText"
	"github.com/g-Off/RichText/attach"
	"github.com/g-Off/RichText/geom"
)

// widgetHost owns one embedded widget: it supplies the attachment for
// content rebuilds and paints itself at whatever origin the registry
// last published for it.
type widgetHost interface {
	attachment() *richtext.Attachment
	start(a *app)
	draw(s tcell.Screen, o attach.Origin)
}

func newWidgets() []widgetHost {
	return []widgetHost{
		newProgress(),
		newSpinner(),
		newBadge(),
	}
}

// progressWidget is a download bar that widens as it fills. Its ticker
// reports sizes from a background goroutine, so the surrounding text
// reflows while the demo runs.
type progressWidget struct {
	ref *richtext.Attachment
	pct atomic.Int64
}

func newProgress() *progressWidget {
	p := &progressWidget{}
	p.ref = richtext.NewAttachment(
		richtext.DeriveIdentity("demo", "progress"),
		geom.Sz(float64(p.width(0)), 1),
		richtext.WithReplacementString("[download in progress]"),
	)
	return p
}

// width maps completion to bar width in cells, 12 at 0% up to 20 at 100%.
func (p *progressWidget) width(pct int64) int {
	return 12 + int(pct)/12
}

func (p *progressWidget) attachment() *richtext.Attachment { return p.ref }

func (p *progressWidget) start(a *app) {
	go func() {
		ticker := time.NewTicker(150 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-a.done:
				return
			case <-ticker.C:
				pct := p.pct.Load() + 2
				if pct > 100 {
					pct = 0
				}
				p.pct.Store(pct)
				// Safe from this goroutine; a changed size reflows the
				// slot on the loop's next turn, an unchanged one is
				// absorbed by the registry.
				a.registry.UpdateSize(p.ref.Identity(), geom.Sz(float64(p.width(pct)), 1))
				_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()
}

func (p *progressWidget) draw(s tcell.Screen, o attach.Origin) {
	pct := p.pct.Load()
	w := p.width(pct)
	x, y := int(o.Point.X), int(o.Point.Y)
	filled := int(float64(w-2) * float64(pct) / 100)
	style := tcell.StyleDefault.Foreground(tcell.ColorGreen)
	s.SetContent(x, y, '[', nil, style)
	for i := 0; i < w-2; i++ {
		r := ' '
		if i < filled {
			r = '#'
		}
		s.SetContent(x+1+i, y, r, nil, style)
	}
	s.SetContent(x+w-1, y, ']', nil, style)
	label := []rune(fmt.Sprintf(" %d%% ", pct))
	lx := x + (w-len(label))/2
	for i, r := range label {
		s.SetContent(lx+i, y, r, nil, style.Bold(true))
	}
}

// spinnerWidget is a one-cell braille spinner. Its size never changes;
// only the glyph does, so ticks wake the loop without causing relayout.
type spinnerWidget struct {
	ref   *richtext.Attachment
	frame atomic.Int64
}

var spinnerFrames = []rune{'⠋', '⠙', '⠹', '⠸', '⠼', '⠴', '⠦', '⠧', '⠇', '⠏'}

func newSpinner() *spinnerWidget {
	return &spinnerWidget{
		ref: richtext.NewAttachment(
			richtext.DeriveIdentity("demo", "spinner"),
			geom.Sz(1, 1),
			richtext.WithReplacementString("(busy)"),
		),
	}
}

func (w *spinnerWidget) attachment() *richtext.Attachment { return w.ref }

func (w *spinnerWidget) start(a *app) {
	go func() {
		ticker := time.NewTicker(120 * time.Millisecond)
		defer ticker.Stop()
		for {
			select {
			case <-a.done:
				return
			case <-ticker.C:
				w.frame.Add(1)
				_ = a.screen.PostEvent(tcell.NewEventInterrupt(nil))
			}
		}
	}()
}

func (w *spinnerWidget) draw(s tcell.Screen, o attach.Origin) {
	r := spinnerFrames[int(w.frame.Load())%len(spinnerFrames)]
	style := tcell.StyleDefault.Foreground(tcell.ColorTeal)
	s.SetContent(int(o.Point.X), int(o.Point.Y), r, nil, style)
}

// badgeWidget is a static chip. It never ticks and never resizes; it
// demonstrates a styled replacement on copy.
type badgeWidget struct {
	ref *richtext.Attachment
}

const badgeText = " NEW "

func newBadge() *badgeWidget {
	return &badgeWidget{
		ref: richtext.NewAttachment(
			richtext.DeriveIdentity("demo", "badge"),
			geom.Sz(float64(len(badgeText)), 1),
			richtext.WithReplacement(richtext.Attributed("NEW", richtext.Attributes{}.Bold().WithForeground(richtext.Yellow))),
		),
	}
}

func (b *badgeWidget) attachment() *richtext.Attachment { return b.ref }

func (b *badgeWidget) start(*app) {}

func (b *badgeWidget) draw(s tcell.Screen, o attach.Origin) {
	style := tcell.StyleDefault.Foreground(tcell.ColorBlack).Background(tcell.ColorYellow).Bold(true)
	for i, r := range badgeText {
		s.SetContent(int(o.Point.X)+i, int(o.Point.Y), r, nil, style)
	}
}
