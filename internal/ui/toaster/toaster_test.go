package toaster

import (
	"strings"
	"testing"

	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/require"
)

func TestToaster_ShowAndDismiss(t *testing.T) {
	m, cmd := New().Show("Trigger removed", StyleSuccess)
	require.NotNil(t, cmd)
	require.True(t, m.Visible())
	require.Contains(t, ansi.Strip(m.View()), "Trigger removed")

	m = m.Update(DismissMsg{seq: 1})
	require.False(t, m.Visible())
	require.Empty(t, m.View())
}

func TestToaster_StaleDismissIgnored(t *testing.T) {
	m, _ := New().Show("first", StyleInfo)
	m, _ = m.Show("second", StyleError)

	m = m.Update(DismissMsg{seq: 1})
	require.True(t, m.Visible())
	require.Equal(t, "second", m.Message())
}

func TestToaster_Overlay(t *testing.T) {
	bg := strings.Repeat(strings.Repeat(".", 40)+"\n", 9) + strings.Repeat(".", 40)

	require.Equal(t, bg, New().Overlay(bg, 40, 10))

	m, _ := New().Show("saved", StyleSuccess)
	out := ansi.Strip(m.Overlay(bg, 40, 10))
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 10)
	require.Contains(t, lines[7], "saved")
}
