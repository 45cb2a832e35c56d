// Package richtext renders mixed plain-text, styled-text, and embedded
// interactive-widget content as a single selectable, copyable text
// block, keeping widget layout reconciled with text layout on every
// relayout pass.
//
// Widgets travel through the text engine as a single placeholder
// character (U+FFFC) carrying an attachment reference, so the engine
// measures each widget as one glyph-like unit. After every layout pass
// the reconciliation engine reads the placeholder's line-segment
// geometry back from the surface and publishes the widget's on-screen
// origin, aligned to the surrounding text's baseline. Copy and
// selection substitute each widget's replacement text for its
// placeholder, and widget identity survives content rebuilds so
// interactive state is never lost.
//
// # Architecture
//
//	Content (fragments)
//	    │  Build
//	    ▼
//	Buffer (runes + style runs + placeholder slots)
//	    │  Surface.SetBuffer
//	    ▼
//	surface.Surface (cellgrid or typeset variant)
//	    │  segment geometry
//	    ▼
//	reconcile.Engine ──► attach.Registry ──► widget hosts
//	    ▲                                      (origins)
//	    └── UpdateSize (widget-originated relayout)
//
//	extract.Interceptor sits over the buffer and is the only path that
//	produces copyable or accessibility-exposed text.
//
// # Basic Usage
//
//	env := richtext.DefaultEnvironment()
//	badge := richtext.NewAttachment("badge-1", geom.Sz(4, 1),
//	    richtext.WithReplacementString("[4]"))
//
//	content := richtext.Content{
//	    richtext.PlainText("Inbox "),
//	    richtext.Widget(badge),
//	    richtext.Markup(" *updated* today"),
//	}
//
//	registry := attach.NewRegistry()
//	surf := cellgrid.New(cellgrid.Config{Width: 60, Measurer: registry})
//	engine := reconcile.New(surf, registry)
//	buf := engine.SetContent(content, env)
//
//	// Widget hosts observe their origin:
//	registry.Observe("badge-1", func(o attach.Origin) { /* move/hide */ })
//
//	// Copying substitutes replacement text for placeholders:
//	text := extract.New(buf).String(buf.EntireRange())
//
// # Concurrency
//
// Everything is loop-affine: layout, registry mutation, and extraction
// run on the goroutine that owns the surface. Registry notifications go
// through a dispatch.Scheduler so hosts with an event loop receive them
// on their next turn; UpdateSize may be called from any goroutine.
package richtext
