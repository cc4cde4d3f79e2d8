package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/bnema/sessionsim/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

type RenderOptions struct {
	Target           string
	Preset           string
	Analysis         domain.TargetAnalysis
	TargetPopulation int
	// MaxRegions caps the region breakdown. Zero shows every region.
	MaxRegions int
	// Width is the terminal width in cells. Zero follows the terminal when
	// one reports its size and is otherwise unbounded.
	Width int
}

func renderView(snapshot domain.Snapshot, opts RenderOptions, s styles, l layout) string {
	lines := []string{
		s.title.Render(dashboardTitle(opts)),
		s.header.Render(headerLine(snapshot, opts)),
	}

	if opts.Analysis.Fallback {
		lines = append(lines, s.warning.Render("target analysis unavailable, showing defaults"))
	}

	lines = append(lines, s.section.Render(renderTotals(snapshot, opts, s, l)))
	lines = append(lines, s.section.Render(renderRegions(snapshot.SampledNodes, opts.MaxRegions, s)))
	lines = append(lines, s.section.Render(renderLog(snapshot.Log, s)))

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func dashboardTitle(opts RenderOptions) string {
	title := strings.TrimSpace(opts.Analysis.Title)
	if title == "" {
		return "Session Simulation"
	}
	return fmt.Sprintf("Session Simulation: %s", title)
}

func headerLine(snapshot domain.Snapshot, opts RenderOptions) string {
	parts := []string{fmt.Sprintf("generation: %d", snapshot.Generation), fmt.Sprintf("tick: %d", snapshot.Tick)}
	if opts.Preset != "" {
		parts = append(parts, "preset: "+opts.Preset)
	}
	if opts.Target != "" {
		parts = append(parts, "target: "+opts.Target)
	}
	if !snapshot.At.IsZero() {
		parts = append(parts, snapshot.At.UTC().Format(time.TimeOnly))
	}
	return strings.Join(parts, "  ")
}

func renderTotals(snapshot domain.Snapshot, opts RenderOptions, s styles, l layout) string {
	population := lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.label.Render("active:    "),
		s.value.Render(fmt.Sprintf("%-7d", snapshot.ActiveCount)),
	)
	if opts.TargetPopulation > 0 {
		population = lipgloss.JoinHorizontal(
			lipgloss.Top,
			population,
			" ",
			renderProgressBar(snapshot.ActiveCount, opts.TargetPopulation, l.barWidth, s),
			" ",
			s.header.Render(fmt.Sprintf("of %d", opts.TargetPopulation)),
		)
	}

	rows := []string{
		population,
		statRow("rps:       ", fmt.Sprintf("%.0f", snapshot.RequestsPerSecond), s),
		statRow("requests:  ", fmt.Sprintf("%d", snapshot.TotalRequests), s),
		statRow("value:     ", fmt.Sprintf("%.2f", snapshot.EstimatedValue), s),
	}
	if snapshot.DroppedEvents > 0 {
		rows = append(rows, lipgloss.JoinHorizontal(
			lipgloss.Top,
			s.label.Render("dropped:   "),
			s.warning.Render(fmt.Sprintf("%d", snapshot.DroppedEvents)),
		))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func statRow(label, value string, s styles) string {
	return lipgloss.JoinHorizontal(lipgloss.Top, s.label.Render(label), s.value.Render(value))
}

type regionCount struct {
	name      string
	active    int
	converted int
}

func renderRegions(nodes []domain.NodeView, max int, s styles) string {
	if len(nodes) == 0 {
		return s.empty.Render("No sampled sessions yet.")
	}

	byName := map[string]*regionCount{}
	for _, node := range nodes {
		rc, ok := byName[node.Region]
		if !ok {
			rc = &regionCount{name: node.Region}
			byName[node.Region] = rc
		}
		rc.active++
		if node.Status == domain.NodeConverted {
			rc.converted++
		}
	}

	counts := make([]regionCount, 0, len(byName))
	for _, rc := range byName {
		counts = append(counts, *rc)
	}
	sort.Slice(counts, func(i, j int) bool {
		if counts[i].active != counts[j].active {
			return counts[i].active > counts[j].active
		}
		return counts[i].name < counts[j].name
	})
	if max > 0 && len(counts) > max {
		counts = counts[:max]
	}

	lines := []string{s.accent.Render(fmt.Sprintf("sampled sessions: %d", len(nodes)))}
	for _, rc := range counts {
		line := fmt.Sprintf("%-16s %5d", rc.name, rc.active)
		if rc.converted > 0 {
			line += fmt.Sprintf("  (%d converted)", rc.converted)
		}
		lines = append(lines, s.label.Render(line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderLog(log []string, s styles) string {
	if len(log) == 0 {
		return s.empty.Render("No activity logged.")
	}

	lines := make([]string, 0, len(log))
	for i, line := range log {
		if i == 0 {
			lines = append(lines, s.logLatest.Render("> "+line))
			continue
		}
		lines = append(lines, s.logLine.Render("  "+line))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func renderProgressBar(value, total, width int, s styles) string {
	if width <= 0 || total <= 0 {
		return ""
	}

	fraction := math.Min(1, math.Max(0, float64(value)/float64(total)))
	filled := int(math.Round(float64(width) * fraction))
	empty := width - filled

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.barBracket.Render("["),
		s.barFill.Render(strings.Repeat("=", filled)),
		s.barEmpty.Render(strings.Repeat("-", empty)),
		s.barBracket.Render("]"),
	)
}
