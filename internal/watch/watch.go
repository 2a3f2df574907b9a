// Package watch re-validates a file whenever it changes on disk and
// shows the live diagnostic set in a small bubbletea view.
package watch

import (
	"context"
	"os"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/muraak/cdiag/internal/diag"
	"github.com/muraak/cdiag/internal/render"
)

// ValidateFunc runs one validation pass for the watched file.
type ValidateFunc func(ctx context.Context) (diag.Set, error)

// Options configures a watch session.
type Options struct {
	File     string
	Validate ValidateFunc
	// Interval is the mtime poll period; zero means 400ms.
	Interval time.Duration
	Theme    render.Theme
}

// Run blocks until the user quits or ctx is cancelled.
func Run(ctx context.Context, opts Options) error {
	if opts.Interval <= 0 {
		opts.Interval = 400 * time.Millisecond
	}
	program := tea.NewProgram(newModel(ctx, opts), tea.WithContext(ctx))
	_, err := program.Run()
	return err
}

type tickMsg time.Time

type resultMsg struct {
	set  diag.Set
	err  error
	took time.Duration
}

type model struct {
	ctx     context.Context
	opts    Options
	spinner spinner.Model

	running bool
	lastMod time.Time
	result  *render.Result
	took    time.Duration
}

func newModel(ctx context.Context, opts Options) model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = opts.Theme.File
	return model{ctx: ctx, opts: opts, spinner: sp}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.tick(), m.startValidation())
}

func (m model) tick() tea.Cmd {
	return tea.Tick(m.opts.Interval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m model) startValidation() tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		set, err := m.opts.Validate(m.ctx)
		return resultMsg{set: set, err: err, took: time.Since(start)}
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "r":
			if !m.running {
				m.running = true
				return m, m.startValidation()
			}
		}
		return m, nil

	case tickMsg:
		if m.running {
			return m, m.tick()
		}
		if info, err := os.Stat(m.opts.File); err == nil && info.ModTime().After(m.lastMod) {
			m.lastMod = info.ModTime()
			m.running = true
			return m, tea.Batch(m.tick(), m.startValidation())
		}
		return m, m.tick()

	case resultMsg:
		m.running = false
		m.took = msg.took
		m.result = &render.Result{File: m.opts.File, Records: msg.set, Err: msg.err}
		return m, nil

	default:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	}
}

func (m model) View() string {
	theme := m.opts.Theme
	header := theme.Bold.Render("cdiag watch") + " " + theme.Muted.Render(m.opts.File)

	body := ""
	if m.result != nil {
		body = render.NewTerminal(theme, 100).Render([]render.Result{*m.result})
	}

	status := theme.Muted.Render("idle")
	if m.running {
		status = m.spinner.View() + " validating"
	} else if m.result != nil {
		status = theme.Muted.Render("last pass " + m.took.Round(time.Millisecond).String())
	}

	help := theme.Muted.Render("r re-run · q quit")
	return lipgloss.JoinVertical(lipgloss.Left, header, "", body, status, help) + "\n"
}
