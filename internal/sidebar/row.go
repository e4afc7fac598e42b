package sidebar

import (
	"encoding/json"
	"fmt"
)

// RowType selects the view template of a row and is the key of the host's
// recycling bucket.
type RowType int

const (
	RowHeader RowType = iota
	RowCategory
	RowSubscription
)

// rowTypeCount is the number of distinct recycling buckets.
const rowTypeCount = 3

func (t RowType) String() string {
	switch t {
	case RowHeader:
		return "header"
	case RowCategory:
		return "category"
	case RowSubscription:
		return "subscription"
	default:
		return fmt.Sprintf("RowType(%d)", int(t))
	}
}

// Enabled reports whether rows of this type can be selected.
func (t RowType) Enabled() bool {
	return t == RowCategory || t == RowSubscription
}

// Row is one entry of the flattened sidebar. Rows are created by Build and
// never change afterwards.
type Row struct {
	typ        RowType
	id         string
	hasID      bool
	title      string
	url        string
	unreadOnly bool
	rootLevel  bool
}

func (r Row) Type() RowType { return r.typ }

// ID returns the server id of the category or subscription. Fixed shortcut
// and header rows have none.
func (r Row) ID() (string, bool) { return r.id, r.hasID }

func (r Row) Title() string { return r.title }

// URL is the navigation target of the row; empty for headers.
func (r Row) URL() string { return r.url }

// UnreadOnly tells the "Unread" shortcut apart from "All"; both target /all.
func (r Row) UnreadOnly() bool { return r.unreadOnly }

// RootLevel is set for subscriptions attached directly to the root category.
func (r Row) RootLevel() bool { return r.rootLevel }

type rowJSON struct {
	Type       string  `json:"type"`
	ID         *string `json:"id,omitempty"`
	Title      string  `json:"title"`
	URL        string  `json:"url,omitempty"`
	UnreadOnly bool    `json:"unread_only,omitempty"`
	RootLevel  bool    `json:"root_level,omitempty"`
}

func (r Row) MarshalJSON() ([]byte, error) {
	out := rowJSON{
		Type:       r.typ.String(),
		Title:      r.title,
		URL:        r.url,
		UnreadOnly: r.unreadOnly,
		RootLevel:  r.rootLevel,
	}
	if r.hasID {
		id := r.id
		out.ID = &id
	}
	return json.Marshal(out)
}

func headerRow(title string) Row {
	return Row{typ: RowHeader, title: title}
}

func shortcutRow(title, url string, unreadOnly bool) Row {
	return Row{typ: RowSubscription, title: title, url: url, unreadOnly: unreadOnly}
}

func categoryRow(id, name string) Row {
	return Row{typ: RowCategory, id: id, hasID: true, title: name, url: "/category/" + id}
}

func subscriptionRow(id, title string, rootLevel bool) Row {
	return Row{
		typ:       RowSubscription,
		id:        id,
		hasID:     true,
		title:     title,
		url:       "/subscription/" + id,
		rootLevel: rootLevel,
	}
}
