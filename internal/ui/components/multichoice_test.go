package components

import (
	"testing"

	tea "charm.land/bubbletea/v2"

	"github.com/abhisek/skillcheck/internal/quiz"
)

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

func TestMultiChoice(t *testing.T) {
	tests := []struct {
		name         string
		keys         []tea.KeyPressMsg
		wantCursor   int
		wantSelected int
	}{
		{"initial", nil, 0, quiz.NoSelection},
		{"down moves cursor only", []tea.KeyPressMsg{{Code: tea.KeyDown}}, 1, quiz.NoSelection},
		{"up clamps at top", []tea.KeyPressMsg{{Code: tea.KeyUp}}, 0, quiz.NoSelection},
		{"down clamps at bottom", []tea.KeyPressMsg{{Code: tea.KeyDown}, {Code: tea.KeyDown}, {Code: tea.KeyDown}}, 2, quiz.NoSelection},
		{"space selects cursor", []tea.KeyPressMsg{{Code: tea.KeyDown}, key(' ')}, 1, 1},
		{"number selects and moves", []tea.KeyPressMsg{key('3')}, 2, 2},
		{"number out of range ignored", []tea.KeyPressMsg{key('4')}, 0, quiz.NoSelection},
		{"zero ignored", []tea.KeyPressMsg{key('0')}, 0, quiz.NoSelection},
		{"letters ignored", []tea.KeyPressMsg{key('x')}, 0, quiz.NoSelection},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := NewMultiChoice([]string{"a", "b", "c"})
			for _, k := range tt.keys {
				m, _ = m.Update(k)
			}
			if m.Cursor != tt.wantCursor {
				t.Errorf("cursor = %d, want %d", m.Cursor, tt.wantCursor)
			}
			if m.Selected != tt.wantSelected {
				t.Errorf("selected = %d, want %d", m.Selected, tt.wantSelected)
			}
		})
	}
}

func TestRatio(t *testing.T) {
	if got := Ratio(1, 3); got != 33 {
		t.Errorf("Ratio(1,3) = %d", got)
	}
	if got := Ratio(1, 0); got != 0 {
		t.Errorf("Ratio(1,0) = %d", got)
	}
}
