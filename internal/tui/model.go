package tui

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lachiem1/daypace/internal/breath"
	"github.com/lachiem1/daypace/internal/config"
	"github.com/lachiem1/daypace/internal/locale"
	"github.com/lachiem1/daypace/internal/storage"
)

type languageStore interface {
	LoadLanguage(ctx context.Context) (locale.Language, bool, error)
	SaveLanguage(ctx context.Context, lang locale.Language) error
}

type languageLoadedMsg struct {
	lang locale.Language
	ok   bool
	err  error
}

type languageSavedMsg struct {
	err error
}

type wipeDBMsg struct {
	path string
	db   *sql.DB
	err  error
}

type clearCommandTextMsg struct {
	id int
}

type commandSpec struct {
	name        string
	description string
}

type screenMode int

const (
	screenHome screenMode = iota
	screenDay
	screenBreath
)

type model struct {
	db       *sql.DB
	prefs    languageStore
	settings config.Settings
	now      func() time.Time

	width  int
	height int

	viewItems []string
	selected  int
	cmd       textinput.Model

	commandText             string
	commandTextID           int
	commandSuggestions      []commandSpec
	commandSuggestionIndex  int
	commandSuggestionOffset int

	showHelpOverlay bool
	screen          screenMode

	lang locale.Language
	loc  *locale.Locale

	day        dayState
	daySession int

	pacer         *breath.Pacer
	patternIndex  int
	breathSession int

	quitting bool
}

// New builds the root model. db may be nil, in which case the language is
// kept in memory only.
func New(db *sql.DB, settings config.Settings) tea.Model {
	m := newModel(settings)
	if db != nil {
		m.db = db
		m.prefs = storage.NewPreferencesRepo(db)
	}
	return m
}

func newModel(settings config.Settings) model {
	cmd := textinput.New()
	cmd.Prompt = "> "
	cmd.Placeholder = "/help"
	cmd.Width = 72
	cmd.Focus()

	lang := settings.DefaultLanguage
	if _, ok := locale.ParseLanguage(string(lang)); !ok {
		lang = locale.DefaultLanguage
	}

	return model{
		settings: settings,
		now:      time.Now,
		viewItems: []string{
			"menu.day",
			"menu.breath",
		},
		cmd:          cmd,
		screen:       screenHome,
		lang:         lang,
		loc:          locale.For(lang),
		patternIndex: patternIndexFor(settings.DefaultPattern),
	}
}

func (m model) Init() tea.Cmd {
	return loadLanguageCmd(m.prefs)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.cmd.Width = max(40, msg.Width-36)
		return m, nil

	case languageLoadedMsg:
		if msg.err != nil {
			log.Printf("load language preference: %v", msg.err)
			return m, nil
		}
		if msg.ok {
			m.setLanguage(msg.lang)
		}
		return m, nil

	case languageSavedMsg:
		if msg.err != nil {
			log.Printf("save language preference: %v", msg.err)
		}
		return m, nil

	case wipeDBMsg:
		if msg.err != nil {
			// The old handle is already closed by the wipe.
			m.db = nil
			m.prefs = nil
			log.Printf("db wipe: %v", msg.err)
			return m.withCommandFeedback("db wipe failed: " + msg.err.Error())
		}
		if msg.db != nil {
			m.db = msg.db
			m.prefs = storage.NewPreferencesRepo(msg.db)
		}
		return m.withCommandFeedback("local database wiped: " + msg.path)

	case dayClockTickMsg:
		if msg.sessionID != m.daySession || m.screen != screenDay {
			return m, nil
		}
		m.day.now = msg.at
		return m, m.dayClockTickCmd()

	case breathTickMsg:
		if msg.sessionID != m.breathSession || m.screen != screenBreath || m.pacer == nil {
			return m, nil
		}
		m.pacer.Tick()
		return m, m.breathTickCmd()

	case clearCommandTextMsg:
		if msg.id == m.commandTextID {
			m.commandText = ""
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		if m.showHelpOverlay {
			switch msg.String() {
			case "esc":
				m.showHelpOverlay = false
				return m, nil
			case "q":
				m.quitting = true
				return m, tea.Quit
			}
			return m, nil
		}
		switch m.screen {
		case screenDay:
			return m.updateDayKeys(msg)
		case screenBreath:
			return m.updateBreathKeys(msg)
		}
		return m.updateHomeKeys(msg)
	}

	if m.screen != screenHome {
		return m, nil
	}
	var cmd tea.Cmd
	m.cmd, cmd = m.cmd.Update(msg)
	return m, cmd
}

func (m model) updateHomeKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	cmdEmpty := strings.TrimSpace(m.cmd.Value()) == "" && !m.shouldShowCommandSuggestions()

	switch msg.String() {
	case "q":
		if cmdEmpty {
			m.quitting = true
			return m, tea.Quit
		}
	case "esc":
		if !cmdEmpty {
			m.cmd.SetValue("")
			m.clearCommandSuggestions()
		}
		return m, nil
	case "up", "k":
		if m.shouldShowCommandSuggestions() {
			if m.commandSuggestionIndex > 0 {
				m.commandSuggestionIndex--
			}
			m.adjustSuggestionWindow(2)
			return m, nil
		}
		if cmdEmpty {
			if m.selected > 0 {
				m.selected--
			}
			return m, nil
		}
	case "down", "j":
		if m.shouldShowCommandSuggestions() {
			if m.commandSuggestionIndex < len(m.commandSuggestions)-1 {
				m.commandSuggestionIndex++
			}
			m.adjustSuggestionWindow(2)
			return m, nil
		}
		if cmdEmpty {
			if m.selected < len(m.viewItems)-1 {
				m.selected++
			}
			return m, nil
		}
	case "tab":
		if m.shouldShowCommandSuggestions() {
			m.cmd.SetValue(m.commandSuggestions[m.commandSuggestionIndex].name)
			m.cmd.CursorEnd()
			m.refreshCommandSuggestions()
		}
		return m, nil
	case "enter":
		if cmdEmpty {
			switch m.viewItems[m.selected] {
			case "menu.day":
				return m.enterDayView()
			case "menu.breath":
				return m.enterBreathView()
			}
			return m, nil
		}
		input := strings.TrimSpace(m.cmd.Value())
		if m.shouldShowCommandSuggestions() {
			input = m.commandSuggestions[m.commandSuggestionIndex].name
		}
		return m.runSlashCommand(input)
	}

	if m.commandText != "" {
		switch msg.Type {
		case tea.KeyRunes, tea.KeySpace, tea.KeyBackspace, tea.KeyDelete:
			m.commandText = ""
		}
	}

	var cmd tea.Cmd
	m.cmd, cmd = m.cmd.Update(msg)
	m.refreshCommandSuggestions()
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return ""
	}

	frame := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#F47A60")).
		Padding(1, 1)
	contentStyle := lipgloss.NewStyle().Padding(1, 1, 0, 1)
	if m.width > 0 {
		frame = frame.Width(max(1, m.width-frame.GetHorizontalBorderSize()))
	}
	if m.height > 0 {
		frame = frame.Height(max(1, m.height-frame.GetVerticalBorderSize()))
	}

	layoutWidth := max(1, m.width-frame.GetHorizontalFrameSize()-contentStyle.GetHorizontalFrameSize())
	if m.width == 0 {
		layoutWidth = 80
	}
	layoutHeight := max(1, m.height-frame.GetVerticalFrameSize()-contentStyle.GetVerticalFrameSize())

	if m.showHelpOverlay {
		helpOverlay := renderHelpOverlay(layoutWidth)
		centered := lipgloss.Place(layoutWidth, layoutHeight, lipgloss.Center, lipgloss.Center, helpOverlay)
		return frame.Render(contentStyle.Render(centered))
	}

	switch m.screen {
	case screenDay:
		return frame.Render(contentStyle.Render(m.renderDayScreen(layoutWidth)))
	case screenBreath:
		return frame.Render(contentStyle.Render(m.renderBreathScreen(layoutWidth)))
	}

	header := renderBlockTitle()
	header = lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, header)

	items := make([]string, 0, len(m.viewItems))
	for _, key := range m.viewItems {
		items = append(items, m.loc.T(key))
	}
	langLabel := lipgloss.NewStyle().Foreground(lipgloss.Color("#87CEEB")).Bold(true).Render("lang: ")
	langValue := lipgloss.NewStyle().Foreground(lipgloss.Color("#5CCB76")).Bold(true).Render(string(m.lang))
	listBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#F47A60")).
		Padding(0, 1).
		Width(28).
		Render(renderViews(items, m.selected, langLabel+langValue))
	panelWidth := lipgloss.Width(listBox)
	mainPanels := lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, listBox)

	cmdOuterWidth := max(panelWidth, min(layoutWidth-4, 72))
	hasMessage := strings.TrimSpace(m.commandText) != ""
	messageArea := ""
	if hasMessage {
		messageArea = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#6CBFE6")).
			Padding(0, 1).
			Foreground(lipgloss.Color("#D4CDE9")).
			Width(max(8, cmdOuterWidth-2)).
			Render(m.commandText)
		messageArea = lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, messageArea)
	}

	cmdInnerWidth := max(8, cmdOuterWidth-4)
	cmdInput := m.cmd
	cmdInput.Width = max(6, cmdInnerWidth-2)
	cmdLines := []string{}
	if m.shouldShowCommandSuggestions() {
		cmdLines = append(cmdLines, renderCommandSuggestionRows(cmdInnerWidth, m.commandSuggestions, m.commandSuggestionIndex, m.commandSuggestionOffset))
	}
	cmdLines = append(cmdLines, lipgloss.NewStyle().Width(cmdInnerWidth).Render(cmdInput.View()))
	cmdBox := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#6CBFE6")).
		Padding(0, 1).
		Render(strings.Join(cmdLines, "\n"))
	cmdBox = lipgloss.PlaceHorizontal(layoutWidth, lipgloss.Center, cmdBox)

	topLines := []string{header, "", mainPanels}
	if hasMessage {
		topLines = append(topLines, "", messageArea)
	}
	topSection := strings.Join(topLines, "\n")

	// The gap above the command bar absorbs spare height.
	bridgeGap := 1
	if m.height > 0 {
		coreHeight := lipgloss.Height(topSection) + lipgloss.Height(cmdBox)
		bridgeGap = max(0, layoutHeight-coreHeight)
	}
	bodyText := topSection
	if bridgeGap > 0 {
		bodyText += "\n" + strings.Repeat("\n", bridgeGap-1)
	}
	bodyText += "\n" + cmdBox

	return frame.Render(contentStyle.Render(bodyText))
}

func (m model) runSlashCommand(input string) (tea.Model, tea.Cmd) {
	input = strings.Join(strings.Fields(strings.ToLower(input)), " ")
	switch input {
	case "":
		return m, nil
	case "/help":
		m.showHelpOverlay = true
		m.commandText = ""
		m.cmd.SetValue("")
		m.clearCommandSuggestions()
		return m, nil
	case "/day":
		return m.enterDayView()
	case "/breath":
		return m.enterBreathView()
	case "/lang":
		return m.changeLanguageWithFeedback(m.lang.Next())
	case "/db-wipe", "/db wipe":
		next, cmd := m.withCommandFeedback("wiping local database...")
		return next, tea.Batch(cmd, wipeDBCmd(m.db))
	case "/quit":
		m.quitting = true
		return m, tea.Quit
	}

	if arg, ok := strings.CutPrefix(input, "/lang "); ok {
		lang, ok := locale.ParseLanguage(arg)
		if !ok {
			return m.withCommandFeedback(fmt.Sprintf("unsupported language: %s", arg))
		}
		return m.changeLanguageWithFeedback(lang)
	}
	return m.withCommandFeedback(fmt.Sprintf("Unknown command: %s", input))
}

func (m model) withCommandFeedback(text string) (tea.Model, tea.Cmd) {
	m.commandText = text
	m.commandTextID++
	m.cmd.SetValue("")
	m.clearCommandSuggestions()
	id := m.commandTextID
	return m, tea.Tick(4*time.Second, func(time.Time) tea.Msg {
		return clearCommandTextMsg{id: id}
	})
}

func (m model) changeLanguageWithFeedback(lang locale.Language) (tea.Model, tea.Cmd) {
	next, saveCmd := m.changeLanguage(lang)
	nm := next.(model)
	fed, feedbackCmd := nm.withCommandFeedback("language: " + string(nm.lang))
	return fed, tea.Batch(saveCmd, feedbackCmd)
}

// changeLanguage switches the display language and persists it when it
// actually changed.
func (m model) changeLanguage(lang locale.Language) (tea.Model, tea.Cmd) {
	if lang == m.lang {
		return m, nil
	}
	m.setLanguage(lang)
	return m, saveLanguageCmd(m.prefs, lang)
}

func (m *model) setLanguage(lang locale.Language) {
	m.loc = locale.For(lang)
	m.lang = m.loc.Language()
}

// languageKeys handles the language shortcuts shared by both views.
func (m model) languageKeys(key string) (tea.Model, tea.Cmd, bool) {
	switch key {
	case "r":
		next, cmd := m.changeLanguage(locale.LanguageRU)
		return next, cmd, true
	case "e":
		next, cmd := m.changeLanguage(locale.LanguageEN)
		return next, cmd, true
	case "l":
		next, cmd := m.changeLanguage(m.lang.Next())
		return next, cmd, true
	}
	return m, nil, false
}

func (m model) leaveView() (tea.Model, tea.Cmd) {
	switch m.screen {
	case screenDay:
		m.daySession++
		m.day = dayState{}
	case screenBreath:
		m.breathSession++
		m.pacer = nil
	}
	m.screen = screenHome
	m.cmd.Focus()
	return m, nil
}

func loadLanguageCmd(store languageStore) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		lang, ok, err := store.LoadLanguage(context.Background())
		return languageLoadedMsg{lang: lang, ok: ok, err: err}
	}
}

func saveLanguageCmd(store languageStore, lang locale.Language) tea.Cmd {
	if store == nil {
		return nil
	}
	return func() tea.Msg {
		return languageSavedMsg{err: store.SaveLanguage(context.Background(), lang)}
	}
}

func wipeDBCmd(current *sql.DB) tea.Cmd {
	return func() tea.Msg {
		if current != nil {
			_ = current.Close()
		}
		cfg, _, err := storage.Wipe()
		if err != nil {
			return wipeDBMsg{err: err}
		}

		db, _, err := storage.Open(context.Background())
		if err != nil {
			return wipeDBMsg{err: fmt.Errorf("reinitialize database: %w", err)}
		}
		return wipeDBMsg{path: cfg.Path, db: db}
	}
}

func patternIndexFor(pattern breath.Pattern) int {
	for i, p := range breath.Presets() {
		if p.Name == pattern.Name {
			return i
		}
	}
	return 0
}

func renderViews(items []string, selected int, statusLine string) string {
	lines := []string{statusLine, ""}
	itemStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	selectedStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Bold(true).Underline(true)
	prefixStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#F47A60")).Bold(true)
	for i, item := range items {
		if i == selected {
			lines = append(lines, prefixStyle.Render("> ")+selectedStyle.Render(item))
			continue
		}
		lines = append(lines, itemStyle.Render("  "+item))
	}
	return strings.Join(lines, "\n")
}

func commandCatalog() []commandSpec {
	return []commandSpec{
		{name: "/help", description: "show command help overlay"},
		{name: "/day", description: "open the day progress view"},
		{name: "/breath", description: "open the breath pacer"},
		{name: "/lang ru", description: "switch to Russian"},
		{name: "/lang en", description: "switch to English"},
		{name: "/db-wipe", description: "wipe and reinitialize the local database"},
		{name: "/quit", description: "exit daypace"},
	}
}

func (m *model) refreshCommandSuggestions() {
	input := strings.TrimSpace(m.cmd.Value())
	if !strings.HasPrefix(input, "/") {
		m.clearCommandSuggestions()
		return
	}

	prefix := strings.ToLower(input)
	all := commandCatalog()
	matches := make([]commandSpec, 0, len(all))
	for _, cmd := range all {
		if strings.HasPrefix(cmd.name, prefix) {
			matches = append(matches, cmd)
		}
	}
	if len(matches) == 0 {
		m.clearCommandSuggestions()
		return
	}

	m.commandSuggestions = matches
	if m.commandSuggestionIndex >= len(m.commandSuggestions) {
		m.commandSuggestionIndex = len(m.commandSuggestions) - 1
	}
	if m.commandSuggestionIndex < 0 {
		m.commandSuggestionIndex = 0
	}
	m.adjustSuggestionWindow(2)
}

func (m *model) clearCommandSuggestions() {
	m.commandSuggestions = nil
	m.commandSuggestionIndex = 0
	m.commandSuggestionOffset = 0
}

func (m model) shouldShowCommandSuggestions() bool {
	return strings.HasPrefix(strings.TrimSpace(m.cmd.Value()), "/") && len(m.commandSuggestions) > 0
}

func (m *model) adjustSuggestionWindow(visibleRows int) {
	if visibleRows < 1 {
		visibleRows = 1
	}
	if m.commandSuggestionIndex < m.commandSuggestionOffset {
		m.commandSuggestionOffset = m.commandSuggestionIndex
	}
	if m.commandSuggestionIndex >= m.commandSuggestionOffset+visibleRows {
		m.commandSuggestionOffset = m.commandSuggestionIndex - visibleRows + 1
	}
	maxOffset := max(0, len(m.commandSuggestions)-visibleRows)
	if m.commandSuggestionOffset > maxOffset {
		m.commandSuggestionOffset = maxOffset
	}
}

func renderCommandSuggestionRows(innerWidth int, matches []commandSpec, selectedIndex int, offset int) string {
	visibleRows := 2
	start := max(0, min(offset, max(0, len(matches)-1)))
	end := min(len(matches), start+visibleRows)

	rows := make([]string, 0, end-start)
	baseRow := lipgloss.NewStyle().
		Background(lipgloss.Color("#1B2330")).
		Width(innerWidth)
	selectedRow := lipgloss.NewStyle().
		Background(lipgloss.Color("#263249")).
		Width(innerWidth)
	for i := start; i < end; i++ {
		cmdStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#B9B4D0"))
		descStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#8D88A8"))
		prefix := "  "
		rowStyle := baseRow
		if i == selectedIndex {
			prefix = "› "
			cmdStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54A")).Bold(true)
			descStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#D4CDE9"))
			rowStyle = selectedRow
		}
		row := prefix + cmdStyle.Render(matches[i].name) + "  " + descStyle.Render(matches[i].description)
		rows = append(rows, rowStyle.Render(row))
	}

	return strings.Join(rows, "\n")
}

func renderHelpOverlay(maxWidth int) string {
	title := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#5FA8FF")).
		Bold(true).
		Render("Command Help")

	catalog := commandCatalog()
	commands := make([]string, 0, len(catalog))
	for _, cmd := range catalog {
		commands = append(commands, fmt.Sprintf("%-10s %s", cmd.name, cmd.description))
	}
	keys := []string{
		"",
		"day view:    s edit salary  r/e/l language",
		"breath view: 1-3 or left/right pattern",
		"esc back  q quit",
	}
	body := strings.Join(append(commands, keys...), "\n")
	footer := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#FFD54A")).
		Bold(true).
		Render("Esc to close")

	content := strings.Join([]string{title, "", body, "", footer}, "\n")
	panelWidth := min(maxWidth-6, 64)
	panelWidth = max(36, panelWidth)

	return lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#6CBFE6")).
		Padding(1, 2).
		Width(panelWidth).
		Render(content)
}
