package tui

import (
	"bytes"
	"context"
	"image"
	"image/color"
	"image/png"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tengjizhang/drawer/internal/favicon"
	"github.com/tengjizhang/drawer/internal/sidebar"
)

func newSimScreen(t *testing.T, w, h int) tcell.SimulationScreen {
	t.Helper()
	s := tcell.NewSimulationScreen("UTF-8")
	require.NoError(t, s.Init())
	s.SetSize(w, h)
	t.Cleanup(s.Fini)
	return s
}

func screenLine(s tcell.SimulationScreen, y int) string {
	cells, w, _ := s.GetContents()
	var b strings.Builder
	for x := 0; x < w; x++ {
		c := cells[y*w+x]
		if len(c.Runes) == 0 {
			b.WriteRune(' ')
			continue
		}
		b.WriteRune(c.Runes[0])
	}
	return strings.TrimRight(b.String(), " ")
}

func cellAt(s tcell.SimulationScreen, x, y int) tcell.SimCell {
	cells, w, _ := s.GetContents()
	return cells[y*w+x]
}

func newTestApp(t *testing.T, screen tcell.Screen, loader sidebar.IconLoader) *App {
	t.Helper()
	app := NewApp(screen, newTestAdapter(t, payloadWithSubs(t, 3), loader), "drawer", nil)
	app.resize()
	return app
}

func TestApp_DrawsRowsAndStatus(t *testing.T) {
	s := newSimScreen(t, 24, 8)
	app := newTestApp(t, s, &stubLoader{})
	app.Draw()

	assert.Equal(t, "Latest", screenLine(s, 0))
	assert.Equal(t, " Unread", screenLine(s, 1))
	assert.Equal(t, "Subscriptions", screenLine(s, 4))
	assert.Equal(t, " News", screenLine(s, 5))
	assert.Equal(t, "  ■ Feed 0", screenLine(s, 6))
	assert.Equal(t, "drawer", screenLine(s, 7))

	_, _, attrs := cellAt(s, 1, 1).Style.Decompose()
	assert.NotZero(t, attrs&tcell.AttrReverse, "cursor row is highlighted")
}

func TestApp_TruncatesLongTitles(t *testing.T) {
	s := newSimScreen(t, 5, 4)
	app := newTestApp(t, s, &stubLoader{})
	app.Draw()

	assert.Equal(t, "Late…", screenLine(s, 0))
	assert.Equal(t, " Unr…", screenLine(s, 1))
	assert.Equal(t, "draw…", screenLine(s, 3))
}

func TestApp_KeysMoveCursorAndEnterShowsURL(t *testing.T) {
	s := newSimScreen(t, 24, 8)
	app := newTestApp(t, s, &stubLoader{})

	assert.True(t, app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'j', tcell.ModNone)))
	assert.True(t, app.HandleEvent(tcell.NewEventKey(tcell.KeyDown, 0, tcell.ModNone)))
	assert.True(t, app.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone)))
	assert.Equal(t, "/starred", app.Status())

	app.HandleEvent(tcell.NewEventKey(tcell.KeyEnd, 0, tcell.ModNone))
	app.HandleEvent(tcell.NewEventKey(tcell.KeyEnter, 0, tcell.ModNone))
	assert.Equal(t, "/subscription/s2", app.Status())

	app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'g', tcell.ModNone))
	assert.Equal(t, 1, app.List().Cursor())

	assert.False(t, app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'x', tcell.ModNone)))
	assert.False(t, app.HandleEvent(tcell.NewEventKey(tcell.KeyRune, 'q', tcell.ModNone)))
	assert.True(t, app.quit)
}

func TestApp_InterruptRunsCallback(t *testing.T) {
	s := newSimScreen(t, 24, 8)
	app := newTestApp(t, s, &stubLoader{})

	called := false
	assert.True(t, app.HandleEvent(tcell.NewEventInterrupt(func() { called = true })))
	assert.True(t, called)
	assert.True(t, app.HandleEvent(tcell.NewEventInterrupt("not a func")))
}

func TestApp_RunQuitsOnKey(t *testing.T) {
	s := newSimScreen(t, 24, 8)
	app := newTestApp(t, s, &stubLoader{})

	done := make(chan error, 1)
	go func() { done <- app.Run(context.Background()) }()
	s.InjectKey(tcell.KeyRune, 'q', tcell.ModNone)

	select {
	case err := <-done:
		require.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after q")
	}
}

func TestApp_RunStopsOnContextCancel(t *testing.T) {
	s := newSimScreen(t, 24, 8)
	app := newTestApp(t, s, &stubLoader{})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	assert.NoError(t, app.Run(ctx))
}

type pngSource struct {
	data []byte
}

func (p pngSource) Favicon(context.Context, string, string) ([]byte, string, error) {
	return p.data, "image/png", nil
}

func solidPNG(t *testing.T, c color.RGBA) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, favicon.DefaultSize, favicon.DefaultSize))
	for y := 0; y < favicon.DefaultSize; y++ {
		for x := 0; x < favicon.DefaultSize; x++ {
			img.SetRGBA(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func TestApp_FaviconArrivesThroughEventLoop(t *testing.T) {
	s := newSimScreen(t, 24, 8)
	red := color.RGBA{R: 0xff, A: 0xff}

	loader, err := favicon.NewLoader(pngSource{data: solidPNG(t, red)}, ScreenDispatcher(s), favicon.Options{})
	require.NoError(t, err)
	t.Cleanup(loader.Close)

	app := newTestApp(t, s, loader)
	var slot *sidebar.ImageSlot
	for _, b := range app.List().Visible() {
		if b.Pos == 6 {
			slot = b.View.Icon
		}
	}
	require.NotNil(t, slot)

	deadline := time.After(5 * time.Second)
	for slot.Transition() != sidebar.TransitionFadeIn {
		events := make(chan tcell.Event, 1)
		go func() { events <- s.PollEvent() }()
		select {
		case ev := <-events:
			app.HandleEvent(ev)
		case <-deadline:
			t.Fatal("favicon never applied")
		}
	}

	app.Draw()
	fg, _, _ := cellAt(s, 2, 6).Style.Decompose()
	assert.Equal(t, tcell.NewRGBColor(0xff, 0, 0), fg)
}

func TestScreenDispatcher_DeliversBurstBeyondQueueSize(t *testing.T) {
	s := newSimScreen(t, 24, 8)
	app := newTestApp(t, s, &stubLoader{})
	d := ScreenDispatcher(s)

	const posts = 40
	var ran int32
	go func() {
		for i := 0; i < posts; i++ {
			d.Post(func() { atomic.AddInt32(&ran, 1) })
		}
	}()

	deadline := time.After(5 * time.Second)
	for atomic.LoadInt32(&ran) < posts {
		events := make(chan tcell.Event, 1)
		go func() { events <- s.PollEvent() }()
		select {
		case ev := <-events:
			app.HandleEvent(ev)
		case <-deadline:
			t.Fatalf("delivered %d of %d results", atomic.LoadInt32(&ran), posts)
		}
	}
	assert.Equal(t, int32(posts), atomic.LoadInt32(&ran))
}
