package controller

import (
	"fmt"
	"io"
	"iter"
	"log/slog"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	m "nfind.dev/pkg/nfind/internal/model"
)

// Progress reports progress over a known number of units while they are
// consumed. Track must yield exactly the units it is given.
type Progress interface {
	Track(desc string, total int, units iter.Seq[m.Path]) iter.Seq[m.Path]
}

// NopProgress reports nothing.
type NopProgress struct{}

// Track returns units unchanged.
func (NopProgress) Track(_ string, _ int, units iter.Seq[m.Path]) iter.Seq[m.Path] {
	return units
}

// LineProgress writes one "desc n/total" line per finished unit. Suited to
// logs and pipes.
type LineProgress struct {
	output io.Writer
}

// NewLineProgress creates a new LineProgress.
func NewLineProgress(output io.Writer) *LineProgress {
	return &LineProgress{output: output}
}

// Track implements Progress.
func (p *LineProgress) Track(desc string, total int, units iter.Seq[m.Path]) iter.Seq[m.Path] {
	return func(yield func(m.Path) bool) {
		done := 0

		for unit := range units {
			if !yield(unit) {
				return
			}

			done++
			_, _ = fmt.Fprintf(p.output, "%s %d/%d\n", desc, done, total)
		}
	}
}

const progressBarWidth = 40

var progressLabelStyle = lipgloss.NewStyle().Bold(true).PaddingRight(1)

// TUIProgress renders a progress bar with Bubble Tea while units are
// consumed.
type TUIProgress struct {
	output io.Writer
}

// NewTUIProgress creates a new TUIProgress.
func NewTUIProgress(output io.Writer) *TUIProgress {
	return &TUIProgress{output: output}
}

// Track implements Progress. The bar runs for as long as the returned
// sequence is being ranged over.
func (p *TUIProgress) Track(desc string, total int, units iter.Seq[m.Path]) iter.Seq[m.Path] {
	return func(yield func(m.Path) bool) {
		program := tea.NewProgram(
			newProgressModel(desc, total),
			tea.WithOutput(p.output),
			tea.WithInput(nil),
			tea.WithoutSignalHandler(),
		)

		finished := make(chan struct{})

		go func() {
			defer close(finished)

			if _, err := program.Run(); err != nil {
				slog.Debug("progress display stopped", "error", err)
			}
		}()

		defer func() {
			program.Send(progressDoneMsg{})
			<-finished
		}()

		done := 0

		for unit := range units {
			if !yield(unit) {
				return
			}

			done++
			program.Send(progressAdvanceMsg(done))
		}
	}
}

// NewProgress picks the progress sink for w: a bar on terminals, plain lines
// otherwise. enabled false selects NopProgress.
func NewProgress(w io.Writer, enabled bool) Progress {
	if !enabled {
		return NopProgress{}
	}

	if f, ok := w.(*os.File); ok && term.IsTerminal(int(f.Fd())) {
		return NewTUIProgress(w)
	}

	return NewLineProgress(w)
}

type progressAdvanceMsg int

type progressDoneMsg struct{}

type progressModel struct {
	desc     string
	total    int
	done     int
	bar      progress.Model
	finished bool
}

func newProgressModel(desc string, total int) progressModel {
	return progressModel{
		desc:  desc,
		total: total,
		bar: progress.New(
			progress.WithDefaultGradient(),
			progress.WithWidth(progressBarWidth),
			progress.WithoutPercentage(),
		),
	}
}

func (pm progressModel) Init() tea.Cmd {
	return nil
}

func (pm progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case progressAdvanceMsg:
		pm.done = int(msg)
	case progressDoneMsg:
		pm.finished = true
		return pm, tea.Quit
	case tea.WindowSizeMsg:
		pm.bar.Width = min(progressBarWidth, max(10, msg.Width-lipgloss.Width(pm.label())-lipgloss.Width(pm.counter())-2))
	}

	return pm, nil
}

func (pm progressModel) View() string {
	return progressLabelStyle.Render(pm.label()) + pm.bar.ViewAs(pm.percent()) + " " + pm.counter() + "\n"
}

func (pm progressModel) label() string {
	return pm.desc
}

func (pm progressModel) counter() string {
	return fmt.Sprintf("%d/%d", pm.done, pm.total)
}

func (pm progressModel) percent() float64 {
	if pm.total <= 0 {
		return 1
	}

	return float64(pm.done) / float64(pm.total)
}
