package favicon

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tengjizhang/drawer/internal/sidebar"
)

type fakeSource struct {
	mu      sync.Mutex
	calls   int32
	tokens  []string
	data    map[string][]byte
	release chan struct{}
}

func (s *fakeSource) Favicon(ctx context.Context, path, token string) ([]byte, string, error) {
	atomic.AddInt32(&s.calls, 1)
	s.mu.Lock()
	s.tokens = append(s.tokens, token)
	s.mu.Unlock()
	if s.release != nil {
		select {
		case <-s.release:
		case <-ctx.Done():
			return nil, "", ctx.Err()
		}
	}
	data, ok := s.data[path]
	if !ok {
		return nil, "", errors.New("http 404")
	}
	return data, "image/png", nil
}

func solidPNG(t *testing.T, size int, c color.Color) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, size, size))
	for y := 0; y < size; y++ {
		for x := 0; x < size; x++ {
			img.Set(x, y, c)
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func newTestLoader(t *testing.T, src Source, q *Queue) *Loader {
	t.Helper()
	l, err := NewLoader(src, q, Options{CacheSize: 8, FetchTimeout: 2 * time.Second})
	require.NoError(t, err)
	t.Cleanup(l.Close)
	return l
}

func runNext(t *testing.T, q *Queue) {
	t.Helper()
	select {
	case fn := <-q.Funcs():
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("timed out waiting for dispatched result")
	}
}

var (
	red   = color.RGBA{R: 0xff, A: 0xff}
	green = color.RGBA{G: 0xff, A: 0xff}
)

func assertColorNear(t *testing.T, want, got color.RGBA) {
	t.Helper()
	near := func(a, b uint8) bool {
		d := int(a) - int(b)
		return d >= -2 && d <= 2
	}
	assert.True(t, near(want.R, got.R) && near(want.G, got.G) && near(want.B, got.B), "want %v, got %v", want, got)
}

func iconRequest(path string) sidebar.IconRequest {
	return sidebar.IconRequest{
		Path:        path,
		Token:       "tok",
		Placeholder: DefaultIcon(),
		Fallback:    DefaultIcon(),
		Transition:  sidebar.TransitionFadeIn,
	}
}

func TestLoader_LoadShowsPlaceholderThenImage(t *testing.T) {
	src := &fakeSource{data: map[string][]byte{"/subscription/s1/favicon": solidPNG(t, 32, red)}}
	q := NewQueue(4)
	l := newTestLoader(t, src, q)

	slot := &sidebar.ImageSlot{}
	l.Load(slot, iconRequest("/subscription/s1/favicon"))
	assert.Same(t, DefaultIcon(), slot.Image())
	assert.Equal(t, sidebar.TransitionNone, slot.Transition())

	runNext(t, q)
	require.NotNil(t, slot.Image())
	assert.Equal(t, image.Rect(0, 0, DefaultSize, DefaultSize), slot.Image().Bounds())
	assertColorNear(t, red, AverageColor(slot.Image()))
	assert.Equal(t, sidebar.TransitionFadeIn, slot.Transition())
	assert.Equal(t, []string{"tok"}, src.tokens)
	assert.True(t, l.Cached("/subscription/s1/favicon"))
}

func TestLoader_CachedImageSkipsFade(t *testing.T) {
	src := &fakeSource{data: map[string][]byte{"/a": solidPNG(t, 16, green)}}
	q := NewQueue(4)
	l := newTestLoader(t, src, q)

	_, err := l.Fetch(context.Background(), "/a", "tok")
	require.NoError(t, err)

	slot := &sidebar.ImageSlot{}
	l.Load(slot, iconRequest("/a"))
	assert.Equal(t, green, AverageColor(slot.Image()))
	assert.Equal(t, sidebar.TransitionNone, slot.Transition())
	assert.Equal(t, 0, q.RunPending())
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
}

func TestLoader_FailureAppliesFallback(t *testing.T) {
	src := &fakeSource{data: map[string][]byte{"/bad": []byte("not an image")}}
	q := NewQueue(4)
	l := newTestLoader(t, src, q)

	fallback := image.NewRGBA(image.Rect(0, 0, 3, 3))
	req := iconRequest("/bad")
	req.Fallback = fallback

	slot := &sidebar.ImageSlot{}
	l.Load(slot, req)
	runNext(t, q)
	assert.Same(t, fallback, slot.Image())
	assert.False(t, l.Cached("/bad"))

	slot2 := &sidebar.ImageSlot{}
	l.Load(slot2, iconRequest("/missing"))
	runNext(t, q)
	assert.Same(t, DefaultIcon(), slot2.Image())
}

func TestLoader_DiscardsResultForReboundSlot(t *testing.T) {
	src := &fakeSource{
		data: map[string][]byte{
			"/one": solidPNG(t, 16, red),
			"/two": solidPNG(t, 16, green),
		},
		release: make(chan struct{}),
	}
	q := NewQueue(4)
	l := newTestLoader(t, src, q)

	slot := &sidebar.ImageSlot{}
	l.Load(slot, iconRequest("/one"))
	l.Load(slot, iconRequest("/two"))
	close(src.release)

	runNext(t, q)
	runNext(t, q)
	assert.Equal(t, green, AverageColor(slot.Image()))

	// Clearing the slot invalidates whatever is still in flight.
	src2 := &fakeSource{data: map[string][]byte{"/three": solidPNG(t, 16, red)}, release: make(chan struct{})}
	l2 := newTestLoader(t, src2, q)
	slot2 := &sidebar.ImageSlot{}
	l2.Load(slot2, iconRequest("/three"))
	slot2.Clear()
	close(src2.release)
	runNext(t, q)
	assert.Nil(t, slot2.Image())
	assert.False(t, slot2.Visible())
}

func TestLoader_ConcurrentFetchesShareOneRequest(t *testing.T) {
	src := &fakeSource{data: map[string][]byte{"/shared": solidPNG(t, 16, red)}, release: make(chan struct{})}
	l := newTestLoader(t, src, NewQueue(4))

	start := make(chan struct{})
	results := make(chan image.Image, 2)
	for i := 0; i < 2; i++ {
		go func() {
			<-start
			img, err := l.Fetch(context.Background(), "/shared", "tok")
			assert.NoError(t, err)
			results <- img
		}()
	}
	close(start)
	require.Eventually(t, func() bool { return atomic.LoadInt32(&src.calls) == 1 }, time.Second, 5*time.Millisecond)
	// the second caller either waits on the shared fetch or later hits the cache
	time.Sleep(20 * time.Millisecond)
	close(src.release)

	a, b := <-results, <-results
	assertColorNear(t, red, AverageColor(a))
	assert.Same(t, a, b)
	assert.Equal(t, int32(1), atomic.LoadInt32(&src.calls))
}

func TestLoader_CloseDropsInFlightResults(t *testing.T) {
	src := &fakeSource{data: map[string][]byte{"/slow": solidPNG(t, 16, red)}, release: make(chan struct{})}
	q := NewQueue(4)
	l := newTestLoader(t, src, q)

	slot := &sidebar.ImageSlot{}
	l.Load(slot, iconRequest("/slow"))
	l.Close()

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, q.RunPending())
	assert.Same(t, DefaultIcon(), slot.Image())
}

// closingSource closes the loader from inside a fetch that still succeeds.
type closingSource struct {
	data   []byte
	loader *Loader
	done   chan struct{}
}

func (s *closingSource) Favicon(context.Context, string, string) ([]byte, string, error) {
	s.loader.Close()
	close(s.done)
	return s.data, "image/png", nil
}

func TestLoader_CloseDropsSuccessfulResult(t *testing.T) {
	src := &closingSource{data: solidPNG(t, 16, red), done: make(chan struct{})}
	q := NewQueue(4)
	l := newTestLoader(t, src, q)
	src.loader = l

	slot := &sidebar.ImageSlot{}
	l.Load(slot, iconRequest("/closing"))
	<-src.done

	assert.Never(t, func() bool { return len(q.ch) > 0 }, 100*time.Millisecond, 5*time.Millisecond)
	assert.Same(t, DefaultIcon(), slot.Image())
}
