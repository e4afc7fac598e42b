package tui

import (
	"context"
	"log/slog"
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/tengjizhang/drawer/internal/favicon"
)

// ScreenDispatcher hands functions to the event loop of s. Posted functions
// are queued without bound; one EventInterrupt wakes the loop for the whole
// backlog, so a burst of results never overflows the screen's event queue.
func ScreenDispatcher(s tcell.Screen) favicon.Dispatcher {
	return &screenDispatcher{screen: s}
}

type screenDispatcher struct {
	screen  tcell.Screen
	mu      sync.Mutex
	pending []func()
}

// Post is called from worker goroutines and may block while the event queue
// is full.
func (d *screenDispatcher) Post(fn func()) {
	d.mu.Lock()
	d.pending = append(d.pending, fn)
	wake := len(d.pending) == 1
	d.mu.Unlock()
	if wake {
		d.screen.PostEventWait(tcell.NewEventInterrupt(d.runPending))
	}
}

func (d *screenDispatcher) runPending() {
	d.mu.Lock()
	fns := d.pending
	d.pending = nil
	d.mu.Unlock()
	for _, fn := range fns {
		fn()
	}
}

type App struct {
	screen tcell.Screen
	list   *ListView
	title  string
	status string
	quit   bool
	logger *slog.Logger
}

// NewApp expects an initialized screen; the caller owns Fini.
func NewApp(screen tcell.Screen, src DataSource, title string, logger *slog.Logger) *App {
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		screen: screen,
		list:   NewListView(src, logger),
		title:  title,
		status: title,
		logger: logger,
	}
}

func (a *App) List() *ListView { return a.list }
func (a *App) Status() string  { return a.status }

// Run polls screen events until the user quits or ctx is done.
func (a *App) Run(ctx context.Context) error {
	events := make(chan tcell.Event)
	done := make(chan struct{})
	defer close(done)

	go func() {
		for {
			ev := a.screen.PollEvent()
			if ev == nil {
				return
			}
			select {
			case events <- ev:
			case <-done:
				return
			}
		}
	}()

	a.resize()
	a.Draw()
	for !a.quit {
		select {
		case <-ctx.Done():
			return nil
		case ev := <-events:
			if a.HandleEvent(ev) {
				a.Draw()
			}
		}
	}
	return nil
}

// HandleEvent applies one event and reports whether the screen needs a
// redraw.
func (a *App) HandleEvent(ev tcell.Event) bool {
	switch ev := ev.(type) {
	case *tcell.EventInterrupt:
		if fn, ok := ev.Data().(func()); ok {
			fn()
		}
		return true
	case *tcell.EventResize:
		a.screen.Sync()
		a.resize()
		return true
	case *tcell.EventMouse:
		switch {
		case ev.Buttons()&tcell.WheelUp != 0:
			a.list.Scroll(-1)
		case ev.Buttons()&tcell.WheelDown != 0:
			a.list.Scroll(1)
		default:
			return false
		}
		return true
	case *tcell.EventKey:
		return a.handleKey(ev)
	}
	return false
}

func (a *App) handleKey(ev *tcell.EventKey) bool {
	switch ev.Key() {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		a.quit = true
		return false
	case tcell.KeyUp:
		a.list.MoveCursor(-1)
	case tcell.KeyDown:
		a.list.MoveCursor(1)
	case tcell.KeyPgUp:
		a.list.Page(-1)
	case tcell.KeyPgDn:
		a.list.Page(1)
	case tcell.KeyHome:
		a.list.Home()
	case tcell.KeyEnd:
		a.list.End()
	case tcell.KeyEnter:
		if row, ok := a.list.Selected(); ok {
			a.status = row.URL()
		}
	case tcell.KeyRune:
		switch ev.Rune() {
		case 'q':
			a.quit = true
			return false
		case 'k':
			a.list.MoveCursor(-1)
		case 'j':
			a.list.MoveCursor(1)
		case 'g':
			a.list.Home()
		case 'G':
			a.list.End()
		default:
			return false
		}
	default:
		return false
	}
	return true
}

func (a *App) resize() {
	_, h := a.screen.Size()
	// last line is the status bar
	a.list.SetHeight(h - 1)
}

func (a *App) Draw() {
	w, h := a.screen.Size()
	a.screen.Clear()
	for _, b := range a.list.Visible() {
		drawRow(a.screen, b.Pos-a.list.Top(), w, b.View, b.Pos == a.list.Cursor())
	}
	if h > 0 {
		drawStatus(a.screen, h-1, w, a.status)
	}
	a.screen.Show()
}
