package model

type OutputFormat string

const (
	OutputTable OutputFormat = "table"
	OutputJSON  OutputFormat = "json"
	OutputWide  OutputFormat = "wide"
)

// Payload is the body of GET /subscription. Only the first element of
// Categories, the root category, carries data.
type Payload struct {
	Categories []*RootCategory `json:"categories"`
}

type RootCategory struct {
	ID            string          `json:"id,omitempty"`
	Categories    []*Category     `json:"categories"`
	Subscriptions []*Subscription `json:"subscriptions"`
}

type Category struct {
	ID            string          `json:"id"`
	Name          string          `json:"name"`
	Folded        bool            `json:"folded,omitempty"`
	UnreadCount   int             `json:"unread_count,omitempty"`
	Subscriptions []*Subscription `json:"subscriptions"`
}

type Subscription struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	URL         string `json:"url,omitempty"`
	UnreadCount int    `json:"unread_count,omitempty"`
}

// Root returns the root category, or nil when the payload does not carry one.
func (p *Payload) Root() *RootCategory {
	if p == nil || len(p.Categories) == 0 {
		return nil
	}
	return p.Categories[0]
}
