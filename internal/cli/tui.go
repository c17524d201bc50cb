package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/stipple/pkg/relax"
)

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	styleNumber = lipgloss.NewStyle().Foreground(colorAccent)
)

const barWidth = 40

// =============================================================================
// Messages
// =============================================================================

// roundMsg reports a finished relaxation round.
type roundMsg struct {
	round, total int
	points       int
	moved        float64
}

// stageMsg names the pipeline stage currently running.
type stageMsg string

// doneMsg ends the program once the pipeline has returned.
type doneMsg struct{ err error }

func newRoundMsg(s relax.Snapshot) roundMsg {
	return roundMsg{round: s.Round, total: s.TotalRounds, points: s.Points(), moved: s.Moved}
}

// =============================================================================
// RelaxModel - Live relaxation progress
// =============================================================================

// RelaxModel is the bubbletea model that shows relaxation progress.
type RelaxModel struct {
	Input  string
	Stage  string
	Round  int
	Total  int
	Points int
	Moved  float64
	Err    error

	// Interrupted is set when the user quit with ctrl+c or q.
	Interrupted bool

	start  time.Time
	cancel func()
	done   bool
}

// NewRelaxModel creates a progress model; cancel is called when the user quits.
func NewRelaxModel(input string, cancel func()) RelaxModel {
	return RelaxModel{Input: input, Stage: "loading", start: time.Now(), cancel: cancel}
}

func (m RelaxModel) Init() tea.Cmd {
	return nil
}

func (m RelaxModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Interrupted = true
			if m.cancel != nil {
				m.cancel()
			}
			return m, tea.Quit
		}
	case stageMsg:
		m.Stage = string(msg)
	case roundMsg:
		m.Stage = "relaxing"
		m.Round, m.Total, m.Points, m.Moved = msg.round, msg.total, msg.points, msg.moved
	case doneMsg:
		m.Err = msg.err
		m.done = true
		return m, tea.Quit
	}
	return m, nil
}

func (m RelaxModel) View() string {
	if m.done {
		return ""
	}
	var b strings.Builder

	b.WriteString(styleTitle.Render("Stippling " + m.Input))
	b.WriteString("\n")

	frac := 0.0
	if m.Total > 0 {
		frac = float64(m.Round) / float64(m.Total)
	}
	b.WriteString(renderBar(frac, barWidth))
	b.WriteString(" ")
	if m.Total > 0 {
		b.WriteString(styleNumber.Render(fmt.Sprintf("%d/%d", m.Round, m.Total)))
	} else {
		b.WriteString(StyleDim.Render(m.Stage + "…"))
	}
	b.WriteString("\n")

	var details []string
	if m.Points > 0 {
		details = append(details, fmt.Sprintf("%d points", m.Points))
	}
	if m.Round > 0 {
		details = append(details, fmt.Sprintf("moved %.2fpx", m.Moved))
	}
	details = append(details, m.Stage, time.Since(m.start).Round(100*time.Millisecond).String())
	b.WriteString(StyleDim.Render(strings.Join(details, " · ")))
	b.WriteString("\n")
	b.WriteString(StyleDim.Render("q quit"))
	b.WriteString("\n")
	return b.String()
}

// renderBar draws a progress bar of the given width for frac in [0, 1].
func renderBar(frac float64, width int) string {
	frac = min(max(frac, 0), 1)
	full := int(frac * float64(width))
	return styleBar.Render(strings.Repeat("█", full)) +
		StyleDim.Render(strings.Repeat("░", width-full))
}
