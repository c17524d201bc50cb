package cli

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/matzehuels/stipple/pkg/relax"
)

func TestRelaxModelProgress(t *testing.T) {
	m := NewRelaxModel("cat.png", nil)

	if view := m.View(); !strings.Contains(view, "cat.png") || !strings.Contains(view, "loading") {
		t.Errorf("initial view should name the input and stage:\n%s", view)
	}

	snap := relax.Snapshot{Positions: make([]float64, 20), Round: 3, TotalRounds: 10, Moved: 0.5}
	next, cmd := m.Update(newRoundMsg(snap))
	if cmd != nil {
		t.Error("round messages should not produce commands")
	}
	m = next.(RelaxModel)
	if m.Round != 3 || m.Total != 10 || m.Points != 10 || m.Stage != "relaxing" {
		t.Errorf("unexpected model after round: %+v", m)
	}
	if view := m.View(); !strings.Contains(view, "3/10") || !strings.Contains(view, "10 points") {
		t.Errorf("view should show progress:\n%s", view)
	}

	next, _ = m.Update(stageMsg("rendering"))
	if next.(RelaxModel).Stage != "rendering" {
		t.Error("stage message should update the stage")
	}
}

func TestRelaxModelDone(t *testing.T) {
	m := NewRelaxModel("cat.png", nil)
	boom := errors.New("boom")

	next, cmd := m.Update(doneMsg{err: boom})
	if cmd == nil {
		t.Fatal("done should quit the program")
	}
	m = next.(RelaxModel)
	if m.Err != boom {
		t.Errorf("Err = %v, want boom", m.Err)
	}
	if m.View() != "" {
		t.Error("finished model should render nothing")
	}
}

func TestRelaxModelQuitCancels(t *testing.T) {
	cancelled := false
	m := NewRelaxModel("cat.png", func() { cancelled = true })

	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC})
	if cmd == nil {
		t.Fatal("ctrl+c should quit")
	}
	if !cancelled {
		t.Error("ctrl+c should cancel the run")
	}
	if !next.(RelaxModel).Interrupted {
		t.Error("model should record the interruption")
	}
}

func TestRenderBar(t *testing.T) {
	tests := []struct {
		frac float64
		full int
	}{
		{0, 0},
		{0.5, 5},
		{1, 10},
		{2, 10},
		{-1, 0},
	}
	for _, tt := range tests {
		bar := renderBar(tt.frac, 10)
		if got := strings.Count(bar, "█"); got != tt.full {
			t.Errorf("renderBar(%v) has %d full cells, want %d", tt.frac, got, tt.full)
		}
		if got := strings.Count(bar, "░"); got != 10-tt.full {
			t.Errorf("renderBar(%v) has %d empty cells, want %d", tt.frac, got, 10-tt.full)
		}
	}
}
