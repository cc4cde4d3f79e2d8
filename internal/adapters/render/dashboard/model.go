package dashboard

import (
	"errors"
	"io"

	"github.com/bnema/sessionsim/internal/domain"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

const (
	defaultBarWidth = 24
	minBarWidth     = 10
	maxBarWidth     = 48
)

// layout sizes the frame for a terminal width. Zero width means unbounded.
type layout struct {
	width    int
	barWidth int
}

func newLayout(width int) layout {
	if width <= 0 {
		return layout{barWidth: defaultBarWidth}
	}
	return layout{width: width, barWidth: min(max(width/3, minBarWidth), maxBarWidth)}
}

func (l layout) fit(frame string) string {
	if l.width <= 0 {
		return frame
	}
	return lipgloss.NewStyle().MaxWidth(l.width).Render(frame)
}

// frameMsg carries the snapshot to draw so a one-shot program renders
// exactly once, after any size message it receives first.
type frameMsg domain.Snapshot

type model struct {
	snapshot domain.Snapshot
	opts     RenderOptions
	layout   layout
	styles   styles
	frame    string
}

func newModel(snapshot domain.Snapshot, opts RenderOptions) model {
	return model{
		snapshot: snapshot,
		opts:     opts,
		layout:   newLayout(opts.Width),
		styles:   newStyles(),
	}
}

func (m model) Init() tea.Cmd {
	snapshot := m.snapshot
	return func() tea.Msg {
		return frameMsg(snapshot)
	}
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		if m.opts.Width <= 0 {
			m.layout = newLayout(msg.Width)
		}
		return m, nil
	case frameMsg:
		m.frame = m.layout.fit(renderView(domain.Snapshot(msg), m.opts, m.styles, m.layout))
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m model) View() string {
	return m.frame
}

// Render draws one snapshot and returns the frame. opts.Width bounds the
// frame and scales the population bar; zero leaves it unbounded.
func Render(snapshot domain.Snapshot, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(snapshot, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
