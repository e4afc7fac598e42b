package tui

import (
	"log/slog"
	"sort"

	"github.com/tengjizhang/drawer/internal/sidebar"
)

// DataSource is what the list widget needs from a row adapter.
type DataSource interface {
	Count() int
	TypeCount() int
	RowType(pos int) (sidebar.RowType, error)
	RowAt(pos int) (sidebar.Row, error)
	IsEnabled(pos int) (bool, error)
	BindView(pos int, recycled *sidebar.View) (*sidebar.View, error)
}

// Pool keeps detached views, one bucket per row type.
type Pool struct {
	buckets [][]*sidebar.View
}

func NewPool(typeCount int) *Pool {
	return &Pool{buckets: make([][]*sidebar.View, typeCount)}
}

// Get returns a recycled view of type t, or nil if the bucket is empty.
func (p *Pool) Get(t sidebar.RowType) *sidebar.View {
	if int(t) < 0 || int(t) >= len(p.buckets) {
		return nil
	}
	b := p.buckets[t]
	if len(b) == 0 {
		return nil
	}
	v := b[len(b)-1]
	p.buckets[t] = b[:len(b)-1]
	return v
}

func (p *Pool) Put(v *sidebar.View) {
	if v == nil || int(v.Type) < 0 || int(v.Type) >= len(p.buckets) {
		return
	}
	p.buckets[v.Type] = append(p.buckets[v.Type], v)
}

func (p *Pool) Len(t sidebar.RowType) int {
	if int(t) < 0 || int(t) >= len(p.buckets) {
		return 0
	}
	return len(p.buckets[t])
}

// Bound is a visible row with its view.
type Bound struct {
	Pos  int
	View *sidebar.View
}

// ListView is a virtualized list: only rows inside the viewport hold a view.
// Views of rows that scroll out go back to the pool and are rebound to rows
// scrolling in.
type ListView struct {
	src      DataSource
	pool     *Pool
	attached map[int]*sidebar.View
	top      int
	height   int
	cursor   int
	logger   *slog.Logger
}

func NewListView(src DataSource, logger *slog.Logger) *ListView {
	if logger == nil {
		logger = slog.Default()
	}
	l := &ListView{
		src:      src,
		pool:     NewPool(src.TypeCount()),
		attached: make(map[int]*sidebar.View),
		cursor:   -1,
		logger:   logger,
	}
	l.cursor = l.nextEnabled(-1, 1)
	return l
}

func (l *ListView) SetHeight(h int) {
	if h < 0 {
		h = 0
	}
	l.height = h
	l.ensureCursorVisible()
	l.clampTop()
	l.layout()
}

func (l *ListView) Height() int { return l.height }
func (l *ListView) Top() int { return l.top }

// Cursor is the selected position, or -1 when no row is selectable.
func (l *ListView) Cursor() int { return l.cursor }

func (l *ListView) Pool() *Pool { return l.pool }

// Scroll moves the viewport by delta rows without moving the cursor.
func (l *ListView) Scroll(delta int) {
	l.top += delta
	l.clampTop()
	l.layout()
}

// MoveCursor moves the selection by delta enabled rows.
func (l *ListView) MoveCursor(delta int) {
	if l.cursor < 0 {
		return
	}
	step := 1
	if delta < 0 {
		step, delta = -1, -delta
	}
	for ; delta > 0; delta-- {
		next := l.nextEnabled(l.cursor, step)
		if next < 0 {
			if step < 0 {
				// nothing selectable above; reveal the leading header rows
				l.top = 0
			}
			break
		}
		l.cursor = next
	}
	l.ensureCursorVisible()
	l.clampTop()
	l.layout()
}

func (l *ListView) Page(direction int) {
	n := l.height - 1
	if n < 1 {
		n = 1
	}
	l.MoveCursor(direction * n)
}

func (l *ListView) Home() {
	l.cursor = l.nextEnabled(-1, 1)
	l.top = 0
	l.layout()
}

func (l *ListView) End() {
	l.cursor = l.nextEnabled(l.src.Count(), -1)
	l.ensureCursorVisible()
	l.clampTop()
	l.layout()
}

// Selected returns the row under the cursor.
func (l *ListView) Selected() (sidebar.Row, bool) {
	if l.cursor < 0 {
		return sidebar.Row{}, false
	}
	row, err := l.src.RowAt(l.cursor)
	if err != nil {
		return sidebar.Row{}, false
	}
	return row, true
}

// Visible returns the bound rows of the viewport in display order.
func (l *ListView) Visible() []Bound {
	out := make([]Bound, 0, len(l.attached))
	for pos, v := range l.attached {
		out = append(out, Bound{Pos: pos, View: v})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Pos < out[j].Pos })
	return out
}

func (l *ListView) layout() {
	end := l.top + l.height
	if count := l.src.Count(); end > count {
		end = count
	}
	for pos, v := range l.attached {
		if pos < l.top || pos >= end {
			l.pool.Put(v)
			delete(l.attached, pos)
		}
	}
	for pos := l.top; pos < end; pos++ {
		if _, ok := l.attached[pos]; ok {
			continue
		}
		typ, err := l.src.RowType(pos)
		if err != nil {
			l.logger.Error("row type", "pos", pos, "err", err)
			continue
		}
		v, err := l.src.BindView(pos, l.pool.Get(typ))
		if err != nil {
			l.logger.Error("bind view", "pos", pos, "err", err)
			continue
		}
		l.attached[pos] = v
	}
}

func (l *ListView) nextEnabled(from, step int) int {
	for pos := from + step; pos >= 0 && pos < l.src.Count(); pos += step {
		if ok, err := l.src.IsEnabled(pos); err == nil && ok {
			return pos
		}
	}
	return -1
}

func (l *ListView) ensureCursorVisible() {
	if l.cursor < 0 || l.height == 0 {
		return
	}
	if l.cursor < l.top {
		l.top = l.cursor
	}
	if l.cursor >= l.top+l.height {
		l.top = l.cursor - l.height + 1
	}
}

func (l *ListView) clampTop() {
	maxTop := l.src.Count() - l.height
	if maxTop < 0 {
		maxTop = 0
	}
	if l.top > maxTop {
		l.top = maxTop
	}
	if l.top < 0 {
		l.top = 0
	}
}
