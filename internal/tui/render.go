package tui

import (
	"github.com/gdamore/tcell/v2"
	"github.com/mattn/go-runewidth"

	"github.com/tengjizhang/drawer/internal/favicon"
	"github.com/tengjizhang/drawer/internal/sidebar"
)

const iconGlyph = '■'

var (
	styleHeader   = tcell.StyleDefault.Foreground(tcell.ColorGray).Bold(true)
	styleCategory = tcell.StyleDefault.Bold(true)
	styleStatus   = tcell.StyleDefault.Foreground(tcell.NewHexColor(0x001040)).Background(tcell.NewHexColor(0xdfdfdf))
)

// marginCells converts an icon leading margin to terminal columns.
func marginCells(margin int) int {
	return margin / sidebar.MarginRoot
}

// drawRow overwrites line y with one bound view.
func drawRow(s tcell.Screen, y, width int, v *sidebar.View, selected bool) {
	style := tcell.StyleDefault
	switch v.Type {
	case sidebar.RowHeader:
		style = styleHeader
	case sidebar.RowCategory:
		style = styleCategory
	}
	if selected {
		style = style.Reverse(true)
	}

	x := 1
	if v.Type == sidebar.RowHeader {
		x = 0
	}
	if v.Icon != nil && v.Icon.Visible() {
		x = marginCells(v.Icon.LeadingMargin())
		fill(s, 0, y, x, style)
		c := favicon.AverageColor(v.Icon.Image())
		s.SetContent(x, y, iconGlyph, nil, style.Foreground(tcell.NewRGBColor(int32(c.R), int32(c.G), int32(c.B))))
		s.SetContent(x+1, y, ' ', nil, style)
		x += 2
	} else {
		fill(s, 0, y, x, style)
	}
	drawText(s, x, y, width-x, style, v.Content.Text)
}

func drawStatus(s tcell.Screen, y, width int, text string) {
	drawText(s, 0, y, width, styleStatus, text)
}

// drawText writes text truncated to width columns and pads the rest.
func drawText(s tcell.Screen, x, y, width int, style tcell.Style, text string) {
	if width <= 0 {
		return
	}
	text = runewidth.Truncate(text, width, "…")
	col := x
	for _, r := range text {
		s.SetContent(col, y, r, nil, style)
		col += runewidth.RuneWidth(r)
	}
	fill(s, col, y, x+width-col, style)
}

func fill(s tcell.Screen, x, y, n int, style tcell.Style) {
	for i := 0; i < n; i++ {
		s.SetContent(x+i, y, ' ', nil, style)
	}
}
