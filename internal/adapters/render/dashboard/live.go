package dashboard

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

type snapshotMsg domain.Snapshot

type streamClosedMsg struct{}

type liveModel struct {
	spinner  spinner.Model
	source   <-chan domain.Snapshot
	opts     RenderOptions
	layout   layout
	styles   styles
	snapshot domain.Snapshot
	received bool
	closed   bool
}

func newLiveModel(source <-chan domain.Snapshot, opts RenderOptions) liveModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return liveModel{
		spinner: s,
		source:  source,
		opts:    opts,
		layout:  newLayout(opts.Width),
		styles:  newStyles(),
	}
}

func waitForSnapshot(source <-chan domain.Snapshot) tea.Cmd {
	return func() tea.Msg {
		snapshot, ok := <-source
		if !ok {
			return streamClosedMsg{}
		}
		return snapshotMsg(snapshot)
	}
}

func (m liveModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, waitForSnapshot(m.source))
}

func (m liveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		}
		return m, nil
	case tea.WindowSizeMsg:
		if m.opts.Width <= 0 {
			m.layout = newLayout(msg.Width)
		}
		return m, nil
	case spinner.TickMsg:
		if m.received {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case snapshotMsg:
		m.snapshot = domain.Snapshot(msg)
		m.received = true
		return m, waitForSnapshot(m.source)
	case streamClosedMsg:
		m.closed = true
		return m, tea.Quit
	default:
		return m, nil
	}
}

func (m liveModel) View() string {
	if !m.received {
		return fmt.Sprintf("%s %s", m.spinner.View(), "Waiting for the first tick...")
	}

	return m.layout.fit(lipgloss.JoinVertical(
		lipgloss.Left,
		renderView(m.snapshot, m.opts, m.styles, m.layout),
		m.styles.section.Render(m.styles.help.Render("q: stop")),
	))
}

// RunLive redraws the dashboard for every snapshot received on source until
// the user quits, source is closed or ctx ends. It returns the last snapshot
// shown.
func RunLive(ctx context.Context, in io.Reader, out io.Writer, source <-chan domain.Snapshot, opts RenderOptions) (domain.Snapshot, error) {
	p := tea.NewProgram(
		newLiveModel(source, opts),
		tea.WithInput(in),
		tea.WithOutput(out),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return domain.Snapshot{}, err
	}

	result, ok := finalModel.(liveModel)
	if !ok {
		if err != nil {
			return domain.Snapshot{}, nil
		}
		return domain.Snapshot{}, ErrUnexpectedRenderModel
	}

	return result.snapshot, nil
}
