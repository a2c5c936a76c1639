package ui

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"pacer/internal/sampler"
)

// ProgressMsg carries one sampling snapshot into the model.
type ProgressMsg sampler.Progress

// DoneMsg tells the model the controller finished (or failed) and the
// program should exit.
type DoneMsg struct {
	Err error
}

// ProgressModel renders live sampling progress: the round counter and each
// spec's mean with its narrowing confidence interval.
type ProgressModel struct {
	spinner  spinner.Model
	progress sampler.Progress
	done     bool
	err      error
}

func NewProgressModel() ProgressModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = specStyle
	return ProgressModel{spinner: s}
}

func (m ProgressModel) Init() tea.Cmd {
	return m.spinner.Tick
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case ProgressMsg:
		m.progress = sampler.Progress(msg)
		return m, nil
	case DoneMsg:
		m.done = true
		m.err = msg.Err
		return m, tea.Quit
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			return m, tea.Quit
		}
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	default:
		return m, nil
	}
}

func (m ProgressModel) View() string {
	var sb strings.Builder
	sb.WriteString(titleStyle.Render("pacer"))
	sb.WriteString("\n\n")

	switch {
	case m.err != nil:
		sb.WriteString(fmt.Sprintf("sampling failed: %v\n", m.err))
		return sb.String()
	case m.done && m.progress.State == sampler.Resolved:
		sb.WriteString(doneStyle.Render("all comparisons resolved"))
		sb.WriteString("\n")
	case m.done && m.progress.State == sampler.TimedOut:
		sb.WriteString(timeoutStyle.Render("timed out; some comparisons unsure"))
		sb.WriteString("\n")
	default:
		sb.WriteString(fmt.Sprintf("%s round %d  elapsed %s\n",
			m.spinner.View(), m.progress.Round, m.progress.Elapsed.Round(time.Second)))
	}

	for _, s := range m.progress.Stats {
		sb.WriteString(fmt.Sprintf("  %s  %s %s\n",
			specStyle.Render(s.Spec.String()),
			meanStyle.Render(fmt.Sprintf("%.2fms", s.Mean)),
			intervalStyle.Render(fmt.Sprintf("(%.2f - %.2f)", s.MeanCI.Low, s.MeanCI.High)),
		))
	}

	if !m.done {
		sb.WriteString(helpStyle.Render("q to abort"))
		sb.WriteString("\n")
	}
	return sb.String()
}

// PlainProgress writes one progress line per round, for non-TTY output.
func PlainProgress(w io.Writer) func(sampler.Progress) {
	return func(p sampler.Progress) {
		var parts []string
		for _, s := range p.Stats {
			parts = append(parts, fmt.Sprintf("%s=%.2fms(%.2f-%.2f)",
				s.Spec.String(), s.Mean, s.MeanCI.Low, s.MeanCI.High))
		}
		fmt.Fprintf(w, "round %d [%s] %s\n", p.Round, p.State, strings.Join(parts, " "))
	}
}
