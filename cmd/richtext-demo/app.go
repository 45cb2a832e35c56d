package main

import (
	"fmt"
	"sync"

	"github.com/gdamore/tcell/v2"

	richtext "github.com/g-Off/RichText"
	"github.com/g-Off/RichText/attach"
	"github.com/g-Off/RichText/extract"
	"github.com/g-Off/RichText/internal/dispatch"
	"github.com/g-Off/RichText/internal/log"
	"github.com/g-Off/RichText/reconcile"
	"github.com/g-Off/RichText/surface/cellgrid"
)

// app owns the screen, the layout pipeline, and the demo widgets. All
// pipeline access happens on the event loop goroutine; background
// work re-enters through the queue.
type app struct {
	screen   tcell.Screen
	queue    *dispatch.Queue
	registry *attach.Registry
	grid     *cellgrid.Grid
	engine   *reconcile.Engine
	clip     *extract.Interceptor
	logger   *log.Logger

	env     richtext.Environment
	widgets []widgetHost
	watcher *richtext.EnvironmentWatcher

	sel       richtext.Range
	selecting bool
	anchor    int
	status    string
	rebuilds  int

	done      chan struct{}
	closeOnce sync.Once
}

func newApp(opts Options, env richtext.Environment, logger *log.Logger) (*app, error) {
	screen, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	if err := screen.Init(); err != nil {
		return nil, err
	}
	screen.EnableMouse()

	a := &app{
		screen: screen,
		queue:  &dispatch.Queue{},
		logger: logger.WithComponent("demo"),
		env:    env,
		status: "ready",
		done:   make(chan struct{}),
	}
	a.queue.Wake = func() {
		_ = screen.PostEvent(tcell.NewEventInterrupt(nil))
	}
	a.registry = attach.NewRegistry(
		attach.WithScheduler(a.queue),
		attach.WithLogger(logger),
	)

	w, h := screen.Size()
	cfg := cellgrid.DefaultConfig()
	cfg.Width = w
	cfg.Height = h - 1
	cfg.Measurer = a.registry
	a.grid = cellgrid.New(cfg)

	a.engine = reconcile.New(a.grid, a.registry,
		reconcile.WithScheduler(a.queue),
		reconcile.WithLogger(logger),
	)
	a.clip = extract.New(nil)
	a.widgets = newWidgets()

	a.rebuild()
	for _, wh := range a.widgets {
		wh.start(a)
		id := wh.attachment().Identity()
		a.registry.Observe(id, func(o attach.Origin) {
			a.logger.Debug("widget %s moved to %s", id, o)
		})
	}

	if opts.ThemePath != "" {
		watcher, err := richtext.WatchEnvironment(opts.ThemePath, func(env richtext.Environment) {
			a.queue.Schedule(func() {
				a.env = env
				a.rebuild()
				a.status = "theme reloaded"
			})
		})
		if err != nil {
			a.logger.Warn("theme watch failed: %v", err)
		} else {
			a.watcher = watcher
		}
	}
	return a, nil
}

// Shutdown stops background work and releases the terminal.
func (a *app) Shutdown() {
	a.closeOnce.Do(func() {
		close(a.done)
		if a.watcher != nil {
			a.watcher.Close()
		}
		a.screen.Fini()
	})
}

// Run drives the event loop until quit.
func (a *app) Run() error {
	for {
		a.queue.Drain()
		a.render()

		ev := a.screen.PollEvent()
		if ev == nil {
			return nil
		}
		switch ev := ev.(type) {
		case *tcell.EventKey:
			if a.handleKey(ev) {
				return nil
			}
		case *tcell.EventMouse:
			a.handleMouse(ev)
		case *tcell.EventResize:
			w, h := ev.Size()
			a.grid.Resize(w, h-1)
			a.reconcile()
			a.screen.Sync()
		case *tcell.EventInterrupt:
			// Queue wake; drained at the top of the loop.
		}
	}
}

// rebuild reassembles the document and hands it to the engine. Widget
// identities are stable, so attachment state survives.
func (a *app) rebuild() {
	buf := a.engine.SetContent(demoContent(a.widgets, a.rebuilds), a.env)
	a.clip.SetBuffer(buf)
	a.sel = richtext.Range{}
	a.rebuilds++
}

// demoContent assembles the showcase document. It is shared by the
// interactive screen and the -render raster mode.
func demoContent(widgets []widgetHost, rebuilds int) richtext.Content {
	content := richtext.Content{
		richtext.Markup("**Anchored widgets** live *inside* the text flow. " +
			"Each placeholder below is a real rune in the document:"),
		richtext.PlainText("\n\nDownload "),
	}
	for i, wh := range widgets {
		if i > 0 {
			content = append(content, richtext.PlainText(" "))
		}
		content = append(content, richtext.Widget(wh.attachment()))
	}
	content = append(content,
		richtext.PlainText("\n\n"),
		richtext.Markup("Drag to select and press **c**: widgets leave the "+
			"clipboard as their *replacement text*, never as a placeholder. "+
			"Press **r** to rebuild the document; the widgets keep their "+
			"state because their identity is stable. See "+
			"[the project page](https://github.com/g-Off/RichText) for more."),
		richtext.PlainText("\n\n"),
		richtext.PlainText(filler),
	)
	if rebuilds > 0 {
		content = append(content,
			richtext.PlainText(fmt.Sprintf("\n\nRebuild #%d.", rebuilds)))
	}
	return content
}

// filler gives the viewport something to scroll past.
const filler = "The progress bar grows as it advances, and every size " +
	"change re-lays only the wrapped lines it touches. Scroll the bar " +
	"out of view and its origin is withdrawn; scroll back and it is " +
	"published again. The spinner animates in place without disturbing " +
	"layout at all, and the badge carries styled replacement text into " +
	"any copy that includes it. Resize the terminal to watch the " +
	"paragraphs re-wrap around all three."

func (a *app) handleKey(ev *tcell.EventKey) bool {
	switch {
	case ev.Key() == tcell.KeyEscape, ev.Rune() == 'q':
		return true
	case ev.Rune() == 'c':
		a.copySelection()
	case ev.Rune() == 'r':
		a.rebuild()
		a.status = fmt.Sprintf("rebuilt; %d widget states revived", a.registry.Stats().Revives)
	case ev.Key() == tcell.KeyUp:
		a.scroll(-1)
	case ev.Key() == tcell.KeyDown:
		a.scroll(1)
	case ev.Key() == tcell.KeyPgUp:
		_, h := a.grid.Viewport()
		a.scroll(-h)
	case ev.Key() == tcell.KeyPgDn:
		_, h := a.grid.Viewport()
		a.scroll(h)
	}
	return false
}

func (a *app) handleMouse(ev *tcell.EventMouse) {
	x, y := ev.Position()
	switch {
	case ev.Buttons()&tcell.WheelUp != 0:
		a.scroll(-1)
	case ev.Buttons()&tcell.WheelDown != 0:
		a.scroll(1)
	case ev.Buttons()&tcell.Button1 != 0:
		pos, ok := a.grid.PositionAt(x, y)
		if !ok {
			return
		}
		if !a.selecting {
			a.selecting = true
			a.anchor = pos
		}
		a.sel = orderedRange(a.anchor, pos)
	default:
		a.selecting = false
	}
}

func orderedRange(a, b int) richtext.Range {
	if b < a {
		a, b = b, a
	}
	// Selection is inclusive of the cell under the cursor.
	return richtext.NewRange(a, b+1)
}

func (a *app) copySelection() {
	r := a.sel
	if r.IsEmpty() {
		r = a.engine.Buffer().EntireRange()
	}
	text := a.clip.String(r)
	if err := a.clip.Copy(r); err != nil {
		a.status = fmt.Sprintf("copy failed: %v", err)
		a.logger.Warn("copy failed: %v", err)
		return
	}
	a.status = fmt.Sprintf("copied %d characters", len([]rune(text)))
}

func (a *app) scroll(delta int) {
	a.grid.Scroll(delta)
	a.reconcile()
}

func (a *app) reconcile() {
	if err := a.engine.Reconcile(); err != nil {
		a.logger.Error("reconcile: %v", err)
	}
}

func (a *app) render() {
	a.screen.Clear()
	a.grid.RenderTo(a.screen, a.sel)
	for _, wh := range a.widgets {
		st, ok := a.registry.Lookup(wh.attachment().Identity())
		if !ok {
			continue
		}
		o := st.Origin()
		if !o.Valid {
			continue
		}
		wh.draw(a.screen, o)
	}
	a.drawStatus()
	a.screen.Show()
}

func (a *app) drawStatus() {
	w, h := a.screen.Size()
	es := a.engine.Stats()
	line := []rune(fmt.Sprintf(" %s · passes %d placed %d hidden %d · q quit · c copy · r rebuild · ↑↓ scroll",
		a.status, es.Passes, es.Placed, es.Hidden))
	style := tcell.StyleDefault.Reverse(true)
	for x := 0; x < w; x++ {
		r := ' '
		if x < len(line) {
			r = line[x]
		}
		a.screen.SetContent(x, h-1, r, nil, style)
	}
}
