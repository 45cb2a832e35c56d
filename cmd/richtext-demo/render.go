package main

import (
	"image"
	"image/color"
	"image/draw"
	"image/png"
	"os"

	richtext "github.com/g-Off/RichText"
	"github.com/g-Off/RichText/attach"
	"github.com/g-Off/RichText/internal/log"
	"github.com/g-Off/RichText/reconcile"
	"github.com/g-Off/RichText/surface/typeset"
)

// renderToFile lays the showcase document out on the proportional
// typeset surface and writes the raster to path as a PNG. The widgets
// are not started; their slots are drawn as plain boxes at the origins
// the engine published, the way an embedding host would composite
// them.
func renderToFile(path string, env richtext.Environment, logger *log.Logger) error {
	registry := attach.NewRegistry(attach.WithLogger(logger))

	cfg := typeset.DefaultConfig()
	cfg.Measurer = registry
	ts, err := typeset.New(cfg)
	if err != nil {
		return err
	}
	engine := reconcile.New(ts, registry, reconcile.WithLogger(logger))

	widgets := newWidgets()
	engine.SetContent(demoContent(widgets, 0), env)

	w := int(cfg.Width + 0.5)
	h := int(ts.ContentHeight() + 0.5)
	if h < 1 {
		h = 1
	}
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	backdrop := color.RGBA{R: 26, G: 27, B: 38, A: 255}
	draw.Draw(img, img.Bounds(), image.NewUniform(backdrop), image.Point{}, draw.Src)

	ts.RenderTo(img, richtext.Range{})

	for _, wh := range widgets {
		st, ok := registry.Lookup(wh.attachment().Identity())
		if !ok {
			continue
		}
		o := st.Origin()
		if !o.Valid {
			continue
		}
		sz := st.Size()
		box := image.Rect(int(o.Point.X), int(o.Point.Y),
			int(o.Point.X+sz.W+0.5), int(o.Point.Y+sz.H+0.5))
		fill := color.RGBA{R: 122, G: 162, B: 247, A: 255}
		draw.Draw(img, box, image.NewUniform(fill), image.Point{}, draw.Src)
	}

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := png.Encode(f, img); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}
