package favicon

// Dispatcher runs functions on the UI goroutine. Loader results are always
// applied through it.
type Dispatcher interface {
	Post(fn func())
}

type DispatcherFunc func(fn func())

func (f DispatcherFunc) Post(fn func()) { f(fn) }

// Immediate runs fn on the calling goroutine. It suits callers that only use
// Loader.Fetch and never bind views.
var Immediate Dispatcher = DispatcherFunc(func(fn func()) { fn() })

// Queue is a Dispatcher backed by a channel; the owner of the UI goroutine
// receives from Funcs and runs what it gets.
type Queue struct {
	ch chan func()
}

func NewQueue(size int) *Queue {
	if size < 1 {
		size = 1
	}
	return &Queue{ch: make(chan func(), size)}
}

func (q *Queue) Post(fn func()) {
	q.ch <- fn
}

func (q *Queue) Funcs() <-chan func() {
	return q.ch
}

// RunPending runs every queued function without blocking and returns how
// many ran.
func (q *Queue) RunPending() int {
	n := 0
	for {
		select {
		case fn := <-q.ch:
			fn()
			n++
		default:
			return n
		}
	}
}
