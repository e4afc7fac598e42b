package cli

import "github.com/tengjizhang/drawer/internal/sidebar"

type LoginResponse struct {
	Server   string `json:"server"`
	Username string `json:"username,omitempty"`
}

type LogoutResponse struct {
	LoggedOut bool `json:"logged_out"`
}

type RowResponse struct {
	Position   int     `json:"position"`
	Type       string  `json:"type"`
	Enabled    bool    `json:"enabled"`
	ID         *string `json:"id,omitempty"`
	Title      string  `json:"title"`
	URL        string  `json:"url,omitempty"`
	UnreadOnly bool    `json:"unread_only,omitempty"`
	RootLevel  bool    `json:"root_level,omitempty"`
}

type FaviconResponse struct {
	SubscriptionID string `json:"subscription_id"`
	Path           string `json:"path"`
	File           string `json:"file"`
	Width          int    `json:"width"`
	Height         int    `json:"height"`
	AverageColor   string `json:"average_color"`
}

func newRowResponse(pos int, row sidebar.Row) RowResponse {
	out := RowResponse{
		Position:   pos,
		Type:       row.Type().String(),
		Enabled:    row.Type().Enabled(),
		Title:      row.Title(),
		URL:        row.URL(),
		UnreadOnly: row.UnreadOnly(),
		RootLevel:  row.RootLevel(),
	}
	if id, ok := row.ID(); ok {
		out.ID = &id
	}
	return out
}
