package sidebar

import (
	"image"
	"log/slog"
	"net/url"

	"github.com/tengjizhang/drawer/internal/model"
)

type Options struct {
	Labels      Labels
	Icons       IconLoader
	Tokens      TokenSource
	Placeholder image.Image
	Fallback    image.Image
	Logger      *slog.Logger
}

// Adapter is the data source of the sidebar list. Its rows are built once at
// construction and are read-only afterwards; a changed tree needs a new
// Adapter.
type Adapter struct {
	rows        []Row
	icons       IconLoader
	token       string
	placeholder image.Image
	fallback    image.Image
	logger      *slog.Logger
}

func NewAdapter(p *model.Payload, opts Options) (*Adapter, error) {
	labels := opts.Labels
	if labels == (Labels{}) {
		labels = DefaultLabels
	}
	rows, err := Build(p, labels)
	if err != nil {
		return nil, err
	}

	a := &Adapter{
		rows:        rows,
		icons:       opts.Icons,
		placeholder: opts.Placeholder,
		fallback:    opts.Fallback,
		logger:      opts.Logger,
	}
	if a.logger == nil {
		a.logger = slog.Default()
	}
	if opts.Tokens != nil {
		if token, ok := opts.Tokens.Token(); ok {
			a.token = token
		}
	}
	return a, nil
}

func (a *Adapter) Count() int {
	return len(a.rows)
}

// TypeCount is the number of recycling buckets a host must provide.
func (a *Adapter) TypeCount() int {
	return rowTypeCount
}

func (a *Adapter) RowAt(pos int) (Row, error) {
	if pos < 0 || pos >= len(a.rows) {
		return Row{}, &IndexOutOfRangeError{Position: pos, Count: len(a.rows)}
	}
	return a.rows[pos], nil
}

func (a *Adapter) RowType(pos int) (RowType, error) {
	row, err := a.RowAt(pos)
	if err != nil {
		return 0, err
	}
	return row.Type(), nil
}

// StableID is the position itself.
func (a *Adapter) StableID(pos int) (int64, error) {
	if _, err := a.RowAt(pos); err != nil {
		return 0, err
	}
	return int64(pos), nil
}

func (a *Adapter) IsEnabled(pos int) (bool, error) {
	row, err := a.RowAt(pos)
	if err != nil {
		return false, err
	}
	return row.Type().Enabled(), nil
}

// Rows returns a copy of all rows in display order.
func (a *Adapter) Rows() []Row {
	out := make([]Row, len(a.rows))
	copy(out, a.rows)
	return out
}

// BindView binds the row at pos to recycled, or to a fresh view from the
// row's template when recycled is nil or belongs to another bucket. It never
// blocks: subscription icons are requested from the IconLoader and arrive
// later.
func (a *Adapter) BindView(pos int, recycled *View) (*View, error) {
	row, err := a.RowAt(pos)
	if err != nil {
		return nil, err
	}

	view := recycled
	if view == nil || view.Type != row.Type() {
		view = Templates[row.Type()]()
	}

	if row.Type() == RowSubscription {
		a.bindIcon(view, row)
	}
	view.Content.Text = row.Title()
	return view, nil
}

func (a *Adapter) bindIcon(view *View, row Row) {
	if view.Icon == nil {
		view.Icon = &ImageSlot{}
	}
	id, ok := row.ID()
	if !ok {
		view.Icon.Clear()
		return
	}

	if row.RootLevel() {
		view.Icon.SetLeadingMargin(MarginRoot)
	} else {
		view.Icon.SetLeadingMargin(MarginNested)
	}
	if a.icons == nil {
		a.logger.Debug("no icon loader, showing placeholder", "subscription", id)
		view.Icon.Begin()
		view.Icon.Set(a.placeholder, TransitionNone)
		return
	}
	a.icons.Load(view.Icon, IconRequest{
		Path:        FaviconPath(id),
		Token:       a.token,
		Placeholder: a.placeholder,
		Fallback:    a.fallback,
		Transition:  TransitionFadeIn,
	})
}

// FaviconPath is the server path of the favicon of subscription id.
func FaviconPath(id string) string {
	return "/subscription/" + url.PathEscape(id) + "/favicon"
}
