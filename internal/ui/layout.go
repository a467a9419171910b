package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/todocard/internal/theme"
)

// Layout holds the terminal dimensions and the fixed chrome around the
// card list.
type Layout struct {
	Width           int
	Height          int
	HeaderHeight    int
	StatusBarHeight int
}

// NewLayout creates a Layout with the given terminal dimensions.
// HeaderHeight and StatusBarHeight default to 1.
func NewLayout(width, height int) Layout {
	return Layout{
		Width:           width,
		Height:          height,
		HeaderHeight:    1,
		StatusBarHeight: 1,
	}
}

// ContentWidth returns the full available width.
func (l Layout) ContentWidth() int {
	return l.Width
}

// ContentHeight returns the rows left for content between the header and
// the status bar.
func (l Layout) ContentHeight() int {
	h := l.Height - l.HeaderHeight - l.StatusBarHeight
	if h < 0 {
		return 0
	}
	return h
}

// RenderHeader renders the header with title on the left and info on the
// right.
func (l Layout) RenderHeader(title, info string) string {
	return fillRow(l.Width, theme.HeaderStyle, title, info)
}

// RenderStatusBar renders the bottom status bar.
func (l Layout) RenderStatusBar(hints string) string {
	return fillRow(l.Width, theme.StatusBarStyle, hints, "")
}

// RenderWithFrame stacks header, content, and status bar, padding the
// content so the status bar sits on the last row.
func (l Layout) RenderWithFrame(header, content, statusBar string) string {
	content = lipgloss.NewStyle().
		Height(l.ContentHeight()).
		MaxHeight(l.ContentHeight()).
		Render(content)
	return lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)
}

// Fit joins blocks vertically, dropping blocks from the top as needed so
// that the anchor block is fully visible within ContentHeight.
func (l Layout) Fit(blocks []string, anchor int) string {
	if len(blocks) == 0 {
		return ""
	}
	if anchor < 0 {
		anchor = 0
	}
	if anchor >= len(blocks) {
		anchor = len(blocks) - 1
	}

	limit := l.ContentHeight()
	start := 0
	if limit > 0 {
		used := 0
		for i := anchor; i >= 0; i-- {
			h := lipgloss.Height(blocks[i])
			if used+h > limit && i < anchor {
				break
			}
			used += h
			start = i
		}
	}

	return strings.Join(blocks[start:], "\n")
}

func fillRow(width int, style lipgloss.Style, left, right string) string {
	leftRendered := style.Render(left)
	var rightRendered string
	if right != "" {
		rightRendered = style.Align(lipgloss.Right).Render(right)
	}

	gap := width - lipgloss.Width(leftRendered) - lipgloss.Width(rightRendered)
	if gap < 0 {
		gap = 0
	}

	filler := style.Render(
		lipgloss.NewStyle().
			Width(gap).
			Background(style.GetBackground()).
			Render(""),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top, leftRendered, filler, rightRendered)
}
