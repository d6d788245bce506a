package tui

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lachiem1/daypace/internal/burnrate"
	"github.com/lachiem1/daypace/internal/dayprogress"
	"github.com/lachiem1/daypace/internal/locale"
)

const (
	salaryMaxDigits = 12
	waveformRows    = 6
	phaseSegWidth   = 9
	ringRadius      = 5
)

type dayClockTickMsg struct {
	sessionID int
	at        time.Time
}

type dayState struct {
	now         time.Time
	burn        burnrate.Accumulator
	editing     bool
	salaryInput textinput.Model
	bar         progress.Model
}

func newDayState(salary float64, now time.Time) dayState {
	input := textinput.New()
	input.Prompt = ""
	input.Placeholder = "0"
	input.CharLimit = salaryMaxDigits + 1
	input.Width = salaryMaxDigits + 2
	input.SetValue(strconv.FormatFloat(salary, 'f', -1, 64))

	bar := progress.New(
		progress.WithGradient("#F47A60", "#FFD54A"),
		progress.WithoutPercentage(),
	)

	return dayState{
		now:         now,
		burn:        burnrate.New(salary, now),
		salaryInput: input,
		bar:         bar,
	}
}

func (m model) enterDayView() (tea.Model, tea.Cmd) {
	m.selected = 0
	m.screen = screenDay
	m.daySession++
	m.day = newDayState(m.settings.DefaultSalary, m.now())
	m.cmd.SetValue("")
	m.clearCommandSuggestions()
	m.cmd.Blur()
	return m, m.dayClockTickCmd()
}

func (m model) dayClockTickCmd() tea.Cmd {
	session := m.daySession
	return tea.Tick(time.Second, func(at time.Time) tea.Msg {
		return dayClockTickMsg{sessionID: session, at: at}
	})
}

func (m model) updateDayKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.day.editing {
		switch msg.String() {
		case "esc", "enter":
			m.day.editing = false
			m.day.salaryInput.Blur()
			return m, nil
		}
		var cmd tea.Cmd
		m.day.salaryInput, cmd = m.day.salaryInput.Update(msg)
		m.applySalaryInput()
		return m, cmd
	}

	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit
	case "esc":
		return m.leaveView()
	case "s", "enter":
		m.day.editing = true
		m.day.salaryInput.CursorEnd()
		return m, m.day.salaryInput.Focus()
	}
	if next, cmd, ok := m.languageKeys(msg.String()); ok {
		return next, cmd
	}
	return m, nil
}

// applySalaryInput keeps digits and one decimal point in the salary field and
// feeds the parsed value to the burn counter. Unparseable text counts as 0.
// The counter restarts only when the value changes.
func (m *model) applySalaryInput() {
	raw := m.day.salaryInput.Value()
	clean := salaryText(raw, salaryMaxDigits)
	if clean != raw {
		m.day.salaryInput.SetValue(clean)
		m.day.salaryInput.CursorEnd()
	}
	now := m.now()
	if m.day.burn.SetSalary(burnrate.ParseSalary(clean), now) {
		m.day.now = now
	}
}

// salaryText keeps digits and the first '.', with at most maxDigits digits.
func salaryText(raw string, maxDigits int) string {
	var b strings.Builder
	digits := 0
	dot := false
	for _, ch := range raw {
		switch {
		case ch >= '0' && ch <= '9':
			if digits >= maxDigits {
				continue
			}
			digits++
			b.WriteRune(ch)
		case ch == '.' && !dot:
			dot = true
			b.WriteRune(ch)
		}
	}
	return b.String()
}

func (m model) renderDayScreen(layoutWidth int) string {
	loc := m.loc
	now := m.day.now
	snap := dayprogress.Compute(now)

	title := lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, renderViewTitle(loc.T("day.title")))

	clock := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Render(now.Format("15:04"))
	date := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Render(loc.FormatDateShort(now))

	percent := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54A")).Bold(true).Render(fmt.Sprintf("%d%%", snap.Percent))
	passed := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Render(loc.T("day.passed"))

	bar := m.day.bar
	bar.Width = max(12, min(layoutWidth-8, phaseSegWidth*dayprogress.PhaseCount))
	barView := bar.ViewAs(snap.Fraction)

	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true)
	valueStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))

	phaseLine := labelStyle.Render(loc.T("day.phase")+": ") + valueStyle.Render(phaseName(loc, snap.Phase))
	leftLine := labelStyle.Render(loc.T("day.left")+": ") + valueStyle.Render(loc.FormatDuration(snap.HoursLeft, snap.MinutesOnly))

	amount := m.day.burn.Amount(now)
	burnLine := labelStyle.Render(loc.T("day.burn")+": ") +
		lipgloss.NewStyle().Foreground(lipgloss.Color("#5CCB76")).Bold(true).Render(locale.FormatBurn(loc, amount)+" "+loc.Currency())

	salaryBorder := lipgloss.Color("#FFFFFF")
	if m.day.editing {
		salaryBorder = lipgloss.Color("#FFD54A")
	}
	salaryField := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(salaryBorder).
		Padding(0, 1).
		Render(m.day.salaryInput.View() + " " + loc.Currency())
	salaryLine := lipgloss.JoinHorizontal(
		lipgloss.Center,
		labelStyle.Render(loc.T("day.salary")+" "),
		salaryField,
	)

	hint := loc.T("day.hint")
	if m.day.editing {
		hint = loc.T("day.editing")
	}
	hintLine := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Render(hint)

	content := []string{
		clock + "  " + date,
		"",
		renderProgressRing(snap.Fraction, fmt.Sprintf("%d%%", snap.Percent)),
		"",
		percent + " " + passed,
		barView,
		"",
		phaseLine,
		renderPhaseIndicator(snap.Phase),
		"",
		leftLine,
		burnLine,
		salaryLine,
		"",
		renderWaveform(dayprogress.Waveform(now)),
		"",
		hintLine,
	}
	contentWidth := 0
	for _, line := range content {
		contentWidth = max(contentWidth, lipgloss.Width(line))
	}
	center := func(s string) string {
		return lipgloss.PlaceHorizontal(contentWidth, lipgloss.Center, s)
	}
	for i, line := range content {
		content[i] = center(line)
	}

	panel := lipgloss.NewStyle().Padding(1, 2).Render(strings.Join(content, "\n"))
	panel = lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, panel)

	return strings.Join([]string{title, "", panel}, "\n")
}

func phaseName(loc *locale.Locale, phase dayprogress.Phase) string {
	return loc.T("phase." + phase.String())
}

// renderPhaseIndicator draws one segment per phase with hour labels on the
// boundaries.
func renderPhaseIndicator(current dayprogress.Phase) string {
	active := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54A"))
	inactive := lipgloss.NewStyle().Foreground(lipgloss.Color("#4B5563"))

	var segs strings.Builder
	for i := 0; i < dayprogress.PhaseCount; i++ {
		style := inactive
		if dayprogress.Phase(i) == current {
			style = active
		}
		segs.WriteString(style.Render(strings.Repeat("━", phaseSegWidth)))
	}

	var labels strings.Builder
	bounds := dayprogress.PhaseBoundaries()
	for i, hour := range bounds {
		label := fmt.Sprintf("%d:00", hour)
		if i == len(bounds)-1 {
			labels.WriteString(label)
			break
		}
		labels.WriteString(label)
		labels.WriteString(strings.Repeat(" ", max(1, phaseSegWidth-len(label))))
	}
	labelLine := lipgloss.NewStyle().Foreground(lipgloss.Color("#9CA3AF")).Render(labels.String())

	return segs.String() + "\n" + labelLine
}

func renderWaveform(bars []dayprogress.Bar) string {
	lit := lipgloss.NewStyle().Foreground(lipgloss.Color("#F47A60"))
	dim := lipgloss.NewStyle().Foreground(lipgloss.Color("#4B5563"))

	filled := make([]int, len(bars))
	for i, b := range bars {
		filled[i] = int(math.Ceil(b.Height / 100 * waveformRows))
	}

	rows := make([]string, 0, waveformRows)
	for row := waveformRows; row >= 1; row-- {
		var line strings.Builder
		for i, b := range bars {
			if i > 0 {
				line.WriteRune(' ')
			}
			if filled[i] < row {
				line.WriteRune(' ')
				continue
			}
			style := dim
			if b.Lit {
				style = lit
			}
			line.WriteString(style.Render("█"))
		}
		rows = append(rows, line.String())
	}
	return strings.Join(rows, "\n")
}

// renderProgressRing draws the day ring clockwise from the top, lit up to
// the share given by the ring geometry, with label in the middle row.
func renderProgressRing(fraction float64, label string) string {
	lit := lipgloss.NewStyle().Foreground(lipgloss.Color("#F47A60"))
	track := lipgloss.NewStyle().Foreground(lipgloss.Color("#374151"))
	labelStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true)

	ring := dayprogress.Ring(fraction, ringRadius)
	share := 0.0
	if ring.Circumference > 0 {
		share = (ring.Circumference - ring.Offset) / ring.Circumference
	}

	width := 4*ringRadius + 1
	labelRunes := []rune(label)
	labelStart := (width - len(labelRunes)) / 2

	rows := make([]string, 0, 2*ringRadius+1)
	for y := -ringRadius; y <= ringRadius; y++ {
		var line strings.Builder
		for col := 0; col < width; col++ {
			if y == 0 && col >= labelStart && col < labelStart+len(labelRunes) {
				line.WriteString(labelStyle.Render(string(labelRunes[col-labelStart])))
				continue
			}
			dx := float64(col-2*ringRadius) / 2
			dy := float64(y)
			if math.Abs(math.Hypot(dx, dy)-ringRadius) > 0.5 {
				line.WriteRune(' ')
				continue
			}
			angle := math.Atan2(dx, -dy)
			if angle < 0 {
				angle += 2 * math.Pi
			}
			style := track
			if angle/(2*math.Pi) < share {
				style = lit
			}
			line.WriteString(style.Render("●"))
		}
		rows = append(rows, line.String())
	}
	return strings.Join(rows, "\n")
}
