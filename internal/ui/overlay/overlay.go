// Package overlay draws modal content on top of a rendered background
// without clearing it.
package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// Position specifies where to place the overlay content.
type Position int

const (
	Center Position = iota
	Top
	Bottom
	// TopRight anchors the overlay to the top right corner, inset by PadX/PadY.
	TopRight
)

// Config controls overlay rendering behavior.
type Config struct {
	Width    int
	Height   int
	Position Position
	PadX     int // horizontal inset for TopRight
	PadY     int // vertical inset for Top, Bottom and TopRight
}

// Place renders fg on top of bg. Both may contain ANSI styling; cells of bg
// outside fg keep their styling.
func Place(cfg Config, fg, bg string) string {
	fgLines := strings.Split(fg, "\n")
	bgLines := strings.Split(bg, "\n")

	for len(bgLines) < cfg.Height {
		bgLines = append(bgLines, strings.Repeat(" ", cfg.Width))
	}

	x, y := origin(cfg, lipgloss.Width(fg), len(fgLines))

	for i, line := range fgLines {
		row := y + i
		if row >= len(bgLines) {
			break
		}
		bgLines[row] = splice(bgLines[row], line, x)
	}
	return strings.Join(bgLines, "\n")
}

// splice replaces the cells of bg starting at column x with fg.
func splice(bg, fg string, x int) string {
	left := ansi.Truncate(bg, x, "")
	if w := ansi.StringWidth(left); w < x {
		left += strings.Repeat(" ", x-w)
	}

	var right string
	if end := x + ansi.StringWidth(fg); end < ansi.StringWidth(bg) {
		right = ansi.TruncateLeft(bg, end, "")
	}
	return left + fg + right
}

func origin(cfg Config, fgWidth, fgHeight int) (x, y int) {
	switch cfg.Position {
	case Top:
		x, y = (cfg.Width-fgWidth)/2, cfg.PadY
	case Bottom:
		x, y = (cfg.Width-fgWidth)/2, cfg.Height-fgHeight-cfg.PadY
	case TopRight:
		x, y = cfg.Width-fgWidth-cfg.PadX, cfg.PadY
	default:
		x, y = (cfg.Width-fgWidth)/2, (cfg.Height-fgHeight)/2
	}
	return max(x, 0), max(y, 0)
}
