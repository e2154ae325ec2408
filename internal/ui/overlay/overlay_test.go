package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestPlace_Center(t *testing.T) {
	bg := "AAAAA\nAAAAA\nAAAAA"
	result := Place(Config{Width: 5, Height: 3, Position: Center}, "X", bg)

	require.Equal(t, []string{"AAAAA", "AAXAA", "AAAAA"}, strings.Split(result, "\n"))
}

func TestPlace_LargeForegroundClampsToOrigin(t *testing.T) {
	bg := "AAA\nAAA\nAAA"
	result := Place(Config{Width: 3, Height: 3, Position: Center}, "XXXXX", bg)

	lines := strings.Split(result, "\n")
	require.Len(t, lines, 3)
	require.Equal(t, "AAA", lines[0])
	require.Equal(t, "XXXXX", lines[1])
}

func TestPlace_TopAndBottom(t *testing.T) {
	bg := strings.Repeat("AAAAA\n", 4) + "AAAAA"

	top := strings.Split(Place(Config{Width: 5, Height: 5, Position: Top, PadY: 1}, "XX", bg), "\n")
	require.Equal(t, "AAAAA", top[0])
	require.Equal(t, "AXXAA", top[1])

	bottom := strings.Split(Place(Config{Width: 5, Height: 5, Position: Bottom, PadY: 1}, "XX", bg), "\n")
	require.Equal(t, "AXXAA", bottom[3])
	require.Equal(t, "AAAAA", bottom[4])
}

func TestPlace_TopRight(t *testing.T) {
	bg := "AAAAAA\nAAAAAA"
	result := strings.Split(Place(Config{Width: 6, Height: 2, Position: TopRight, PadX: 1}, "XX", bg), "\n")

	require.Equal(t, "AAAXXA", result[0])
	require.Equal(t, "AAAAAA", result[1])
}

func TestPlace_PadsShortBackground(t *testing.T) {
	result := Place(Config{Width: 4, Height: 3, Position: Bottom}, "XX", "")

	lines := strings.Split(result, "\n")
	require.Len(t, lines, 3)
	require.Equal(t, " XX ", lines[2])
}

func TestPlace_PreservesBackgroundStyling(t *testing.T) {
	styled := lipgloss.NewStyle().Bold(true).Render("BBBBBB")
	result := Place(Config{Width: 6, Height: 1, Position: Center}, "XX", styled)

	require.Equal(t, "BBXXBB", ansi.Strip(result))
}
