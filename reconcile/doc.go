// Package reconcile derives widget screen positions from text-layout
// geometry.
//
// The engine owns the pipeline's center: it builds buffers from
// content, hands them to a surface, reads back per-placeholder segment
// geometry after layout, and publishes each widget's origin through
// the attachment registry. A widget's origin aligns its visual
// baseline with the surrounding text's baseline, using the font
// metrics of the nearest adjacent character; when no font resolves,
// 20% of the widget's own height is reserved as synthetic descent.
//
// A reconcile pass runs after every layout-affecting event: content
// rebuild, container resize, or a widget size change. Size changes
// take the partial path: exactly the placeholder's range is
// invalidated and re-laid, never the whole document.
//
// All engine methods must run on the goroutine that owns the surface;
// concurrent entry panics. Widget hosts calling UpdateSize from other
// goroutines are bridged back through the engine's scheduler.
package reconcile
