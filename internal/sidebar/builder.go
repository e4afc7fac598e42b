package sidebar

import (
	"fmt"

	"github.com/tengjizhang/drawer/internal/model"
)

// Labels are the localized titles of the fixed rows.
type Labels struct {
	Latest        string
	Unread        string
	All           string
	Starred       string
	Subscriptions string
}

var DefaultLabels = Labels{
	Latest:        "Latest",
	Unread:        "Unread",
	All:           "All",
	Starred:       "Starred",
	Subscriptions: "Subscriptions",
}

const fixedRowCount = 5

// Build flattens the subscription tree into sidebar rows: the fixed shortcuts,
// the subscriptions header, every category followed by its subscriptions, and
// finally the subscriptions of the root category.
func Build(p *model.Payload, labels Labels) ([]Row, error) {
	root := p.Root()
	if root == nil {
		return nil, fmt.Errorf("%w: payload has no root category", ErrInvalidInput)
	}

	rows := make([]Row, 0, fixedRowCount+countEntries(root))
	rows = append(rows,
		headerRow(labels.Latest),
		shortcutRow(labels.Unread, "/all", true),
		shortcutRow(labels.All, "/all", false),
		shortcutRow(labels.Starred, "/starred", false),
		headerRow(labels.Subscriptions),
	)

	for _, c := range root.Categories {
		cat := orEmptyCategory(c)
		rows = append(rows, categoryRow(cat.ID, cat.Name))
		for _, s := range cat.Subscriptions {
			sub := orEmptySubscription(s)
			rows = append(rows, subscriptionRow(sub.ID, sub.Title, false))
		}
	}

	for _, s := range root.Subscriptions {
		sub := orEmptySubscription(s)
		rows = append(rows, subscriptionRow(sub.ID, sub.Title, true))
	}
	return rows, nil
}

func countEntries(root *model.RootCategory) int {
	n := len(root.Categories) + len(root.Subscriptions)
	for _, c := range root.Categories {
		if c != nil {
			n += len(c.Subscriptions)
		}
	}
	return n
}

func orEmptyCategory(c *model.Category) model.Category {
	if c == nil {
		return model.Category{}
	}
	return *c
}

func orEmptySubscription(s *model.Subscription) model.Subscription {
	if s == nil {
		return model.Subscription{}
	}
	return *s
}
