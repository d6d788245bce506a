package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lachiem1/daypace/internal/breath"
	"github.com/lachiem1/daypace/internal/locale"
)

// breathRadius is the circle radius in rows at full scale.
const breathRadius = 7

type breathTickMsg struct {
	sessionID int
}

func (m model) enterBreathView() (tea.Model, tea.Cmd) {
	m.selected = 1
	m.screen = screenBreath
	m.breathSession++
	presets := breath.Presets()
	if m.patternIndex < 0 || m.patternIndex >= len(presets) {
		m.patternIndex = 0
	}
	m.pacer = breath.NewPacer(presets[m.patternIndex])
	m.cmd.SetValue("")
	m.clearCommandSuggestions()
	m.cmd.Blur()
	return m, m.breathTickCmd()
}

func (m model) breathTickCmd() tea.Cmd {
	session := m.breathSession
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return breathTickMsg{sessionID: session}
	})
}

func (m model) updateBreathKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	presets := breath.Presets()
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		return m.leaveView()
	case "1", "2", "3":
		idx := int(msg.String()[0] - '1')
		if idx < len(presets) {
			m.selectPattern(idx)
		}
		return m, nil
	case "left", "h":
		m.selectPattern((m.patternIndex - 1 + len(presets)) % len(presets))
		return m, nil
	case "right":
		m.selectPattern((m.patternIndex + 1) % len(presets))
		return m, nil
	}
	if next, cmd, ok := m.languageKeys(msg.String()); ok {
		return next, cmd
	}
	return m, nil
}

// selectPattern always restarts the pacer, including when idx is already
// selected.
func (m *model) selectPattern(idx int) {
	presets := breath.Presets()
	m.patternIndex = idx
	if m.pacer == nil {
		m.pacer = breath.NewPacer(presets[idx])
		return
	}
	m.pacer.SetPattern(presets[idx])
}

func (m model) renderBreathScreen(layoutWidth int) string {
	loc := m.loc
	title := lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, renderViewTitle(loc.T("breath.title")))
	if m.pacer == nil {
		return title
	}
	snap := m.pacer.Snapshot()
	color := breathPhaseColor(snap.Phase)

	circle := renderBreathCircle(snap.Scale, lipgloss.NewStyle().Foreground(color))
	phaseLine := lipgloss.NewStyle().Foreground(color).Bold(true).Render(breathPhaseLabel(loc, snap.Phase)) +
		"  " + lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Render(fmt.Sprintf("%d", snap.Countdown))
	cyclesLine := lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true).Render(loc.T("breath.cycles")+": ") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Render(fmt.Sprintf("%d", snap.Cycles))

	presets := breath.Presets()
	parts := make([]string, 0, len(presets))
	for i, p := range presets {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color("#6B7280"))
		if i == m.patternIndex {
			style = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)
		}
		parts = append(parts, style.Render(fmt.Sprintf("%d %s %s", i+1, p.Name, p.Label())))
	}
	patternField := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#FFD54A")).
		Padding(0, 1).
		Render(strings.Join(parts, "  "))
	patternLabel := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Render(loc.T("breath.pattern"))
	hintLine := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Render(loc.T("breath.hint"))

	content := []string{
		circle,
		"",
		phaseLine,
		cyclesLine,
		"",
		patternLabel,
		patternField,
		"",
		hintLine,
	}
	contentWidth := 0
	for _, line := range content {
		contentWidth = max(contentWidth, lipgloss.Width(line))
	}
	for i, line := range content {
		content[i] = lipgloss.PlaceHorizontal(contentWidth, lipgloss.Center, line)
	}

	panel := lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(content, "\n"))
	panel = lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, panel)
	return strings.Join([]string{title, "", panel}, "\n")
}

// renderBreathCircle draws a filled disc inside a fixed box so the layout
// does not move as the disc changes size. Columns count half, since terminal
// cells are roughly twice as tall as they are wide.
func renderBreathCircle(scale float64, style lipgloss.Style) string {
	r := scale * breathRadius
	rows := make([]string, 0, 2*breathRadius+1)
	for y := -breathRadius; y <= breathRadius; y++ {
		var line strings.Builder
		for x := -2 * breathRadius; x <= 2*breathRadius; x++ {
			dx := float64(x) / 2
			dy := float64(y)
			if dx*dx+dy*dy <= r*r {
				line.WriteString(style.Render("█"))
				continue
			}
			line.WriteRune(' ')
		}
		rows = append(rows, line.String())
	}
	return strings.Join(rows, "\n")
}

func breathPhaseLabel(loc *locale.Locale, phase breath.Phase) string {
	switch phase {
	case breath.PhaseInhale:
		return loc.T("breath.inhale")
	case breath.PhaseExhale:
		return loc.T("breath.exhale")
	default:
		return loc.T("breath.hold")
	}
}

func breathPhaseColor(phase breath.Phase) lipgloss.Color {
	switch phase {
	case breath.PhaseInhale:
		return lipgloss.Color("#5CCB76")
	case breath.PhaseExhale:
		return lipgloss.Color("#87CEEB")
	default:
		return lipgloss.Color("#FFD54A")
	}
}
