package tui

import (
	"context"
	"errors"
	"math"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/lachiem1/daypace/internal/breath"
	"github.com/lachiem1/daypace/internal/config"
	"github.com/lachiem1/daypace/internal/locale"
)

type fakeLanguageStore struct {
	stored  locale.Language
	hasLang bool
	loadErr error
	saved   []locale.Language
}

func (s *fakeLanguageStore) LoadLanguage(ctx context.Context) (locale.Language, bool, error) {
	return s.stored, s.hasLang, s.loadErr
}

func (s *fakeLanguageStore) SaveLanguage(ctx context.Context, lang locale.Language) error {
	s.saved = append(s.saved, lang)
	return nil
}

var testNow = time.Date(2026, time.October, 15, 10, 15, 0, 0, time.UTC)

func newTestModel(t *testing.T, store *fakeLanguageStore) model {
	t.Helper()
	m := newModel(config.Default())
	m.now = func() time.Time { return testNow }
	if store != nil {
		m.prefs = store
	}
	return m
}

func update(t *testing.T, m model, msg tea.Msg) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(model)
	if !ok {
		t.Fatalf("Update() returned %T, want model", next)
	}
	return nm, cmd
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func typeCommand(t *testing.T, m model, text string) model {
	t.Helper()
	for _, r := range text {
		if r == ' ' {
			m, _ = update(t, m, tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
			continue
		}
		m, _ = update(t, m, keyRunes(string(r)))
	}
	return m
}

func TestInitLoadsStoredLanguage(t *testing.T) {
	store := &fakeLanguageStore{stored: locale.LanguageEN, hasLang: true}
	m := newTestModel(t, store)
	if m.lang != locale.LanguageRU {
		t.Fatalf("initial lang = %q, want %q", m.lang, locale.LanguageRU)
	}

	cmd := m.Init()
	if cmd == nil {
		t.Fatal("Init() cmd = nil, want language load")
	}
	m, _ = update(t, m, cmd())
	if m.lang != locale.LanguageEN {
		t.Fatalf("lang after load = %q, want %q", m.lang, locale.LanguageEN)
	}
	if len(store.saved) != 0 {
		t.Fatalf("loading saved %v, want no writes", store.saved)
	}
}

func TestInitWithoutStoreKeepsDefault(t *testing.T) {
	m := newTestModel(t, nil)
	if cmd := m.Init(); cmd != nil {
		t.Fatal("Init() cmd != nil without a store")
	}
}

func TestLoadErrorKeepsInMemoryLanguage(t *testing.T) {
	m := newTestModel(t, &fakeLanguageStore{loadErr: errors.New("locked")})
	m, _ = update(t, m, m.Init()())
	if m.lang != locale.LanguageRU {
		t.Fatalf("lang = %q, want %q", m.lang, locale.LanguageRU)
	}
}

func TestDayViewTickIsSessionBound(t *testing.T) {
	m := newTestModel(t, nil)
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenDay {
		t.Fatalf("screen = %v, want day", m.screen)
	}
	if cmd == nil {
		t.Fatal("entering day view did not arm a tick")
	}
	session := m.daySession

	later := testNow.Add(time.Second)
	m, cmd = update(t, m, dayClockTickMsg{sessionID: session, at: later})
	if !m.day.now.Equal(later) {
		t.Fatalf("day.now = %v, want %v", m.day.now, later)
	}
	if cmd == nil {
		t.Fatal("tick was not re-armed")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.screen != screenHome {
		t.Fatalf("screen after esc = %v, want home", m.screen)
	}
	_, cmd = update(t, m, dayClockTickMsg{sessionID: session, at: later.Add(time.Second)})
	if cmd != nil {
		t.Fatal("stale tick re-armed after leaving the view")
	}
}

func TestSalaryEditFiltersDigitsAndResetsBurn(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	tick := testNow.Add(30 * time.Second)
	m, _ = update(t, m, dayClockTickMsg{sessionID: m.daySession, at: tick})
	if m.day.burn.Amount(tick) <= 0 {
		t.Fatal("burn did not accrue with default salary")
	}

	m, _ = update(t, m, keyRunes("s"))
	if !m.day.editing {
		t.Fatal("s did not start salary editing")
	}
	m.day.salaryInput.SetValue("")
	m, _ = update(t, m, keyRunes("5"))
	m, _ = update(t, m, keyRunes("x"))
	m, _ = update(t, m, keyRunes("0"))

	if got := m.day.salaryInput.Value(); got != "50" {
		t.Fatalf("salary input = %q, want %q", got, "50")
	}
	if m.day.burn.Salary != 50 {
		t.Fatalf("burn salary = %v, want 50", m.day.burn.Salary)
	}
	if !m.day.burn.Reference.Equal(testNow) {
		t.Fatalf("burn reference = %v, want %v", m.day.burn.Reference, testNow)
	}
	if got := m.day.burn.Amount(testNow); got != 0 {
		t.Fatalf("burn right after change = %v, want 0", got)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.day.editing {
		t.Fatal("esc did not finish editing")
	}
	if m.screen != screenDay {
		t.Fatal("esc while editing left the view")
	}
}

func TestEmptySalaryIsZero(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, keyRunes("s"))
	m.day.salaryInput.SetValue("7")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyBackspace})

	if got := m.day.salaryInput.Value(); got != "" {
		t.Fatalf("salary input = %q, want empty", got)
	}
	if m.day.burn.Salary != 0 {
		t.Fatalf("burn salary = %v, want 0", m.day.burn.Salary)
	}
}

func TestSalaryEditAcceptsDecimal(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, keyRunes("s"))
	m.day.salaryInput.SetValue("")
	m = typeCommand(t, m, "1500.5")

	if got := m.day.salaryInput.Value(); got != "1500.5" {
		t.Fatalf("salary input = %q, want %q", got, "1500.5")
	}
	if m.day.burn.Salary != 1500.5 {
		t.Fatalf("burn salary = %v, want 1500.5", m.day.burn.Salary)
	}
	want := 1500.5 / 160
	if got := m.day.burn.Amount(testNow.Add(time.Hour)); math.Abs(got-want) > 1e-9 {
		t.Fatalf("burn after an hour = %v, want %v", got, want)
	}
}

func TestInvalidSalaryIsZero(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m, _ = update(t, m, keyRunes("s"))
	m.day.salaryInput.SetValue("")
	m = typeCommand(t, m, ".")

	if got := m.day.salaryInput.Value(); got != "." {
		t.Fatalf("salary input = %q, want %q", got, ".")
	}
	if m.day.burn.Salary != 0 {
		t.Fatalf("burn salary = %v, want 0", m.day.burn.Salary)
	}

	m = typeCommand(t, m, "5.")
	if got := m.day.salaryInput.Value(); got != ".5" {
		t.Fatalf("salary input = %q, want %q", got, ".5")
	}
	if m.day.burn.Salary != 0.5 {
		t.Fatalf("burn salary = %v, want 0.5", m.day.burn.Salary)
	}
}

func TestSalaryFieldShowsUnroundedDefault(t *testing.T) {
	settings := config.Default()
	settings.DefaultSalary = 1234.5
	m := newModel(settings)
	m.now = func() time.Time { return testNow }
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	if got := m.day.salaryInput.Value(); got != "1234.5" {
		t.Fatalf("salary input = %q, want %q", got, "1234.5")
	}

	later := testNow.Add(10 * time.Second)
	m.now = func() time.Time { return later }
	m, _ = update(t, m, keyRunes("s"))
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnd})

	if m.day.burn.Salary != 1234.5 {
		t.Fatalf("burn salary = %v, want 1234.5", m.day.burn.Salary)
	}
	if !m.day.burn.Reference.Equal(testNow) {
		t.Fatalf("burn reference = %v, want %v (no reset)", m.day.burn.Reference, testNow)
	}
}

func TestLanguageKeysPersistOnChange(t *testing.T) {
	store := &fakeLanguageStore{}
	m := newTestModel(t, store)
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})

	m, cmd := update(t, m, keyRunes("e"))
	if m.lang != locale.LanguageEN {
		t.Fatalf("lang = %q, want %q", m.lang, locale.LanguageEN)
	}
	if cmd == nil {
		t.Fatal("language change returned no save cmd")
	}
	cmd()

	m, cmd = update(t, m, keyRunes("e"))
	if cmd != nil {
		t.Fatal("selecting the current language issued a save")
	}

	m, cmd = update(t, m, keyRunes("l"))
	if m.lang != locale.LanguageRU {
		t.Fatalf("lang after toggle = %q, want %q", m.lang, locale.LanguageRU)
	}
	cmd()

	want := []locale.Language{locale.LanguageEN, locale.LanguageRU}
	if len(store.saved) != len(want) || store.saved[0] != want[0] || store.saved[1] != want[1] {
		t.Fatalf("saved = %v, want %v", store.saved, want)
	}
}

func TestBreathViewAdvancesAndResetsOnPatternSelect(t *testing.T) {
	m := newTestModel(t, nil)
	m = typeCommand(t, m, "/breath")
	m, cmd := update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.screen != screenBreath {
		t.Fatalf("screen = %v, want breath", m.screen)
	}
	if cmd == nil {
		t.Fatal("entering breath view did not arm a tick")
	}

	for i := 0; i < 4; i++ {
		m, _ = update(t, m, breathTickMsg{sessionID: m.breathSession})
	}
	if m.pacer.Phase() != breath.PhaseHoldIn || m.pacer.Elapsed() != 0 {
		t.Fatalf("after 4 ticks phase=%v elapsed=%d, want hold_in 0", m.pacer.Phase(), m.pacer.Elapsed())
	}

	m, _ = update(t, m, keyRunes("2"))
	if m.pacer.Pattern().Name != "478" {
		t.Fatalf("pattern = %q, want %q", m.pacer.Pattern().Name, "478")
	}
	if m.pacer.Phase() != breath.PhaseInhale || m.pacer.Elapsed() != 0 || m.pacer.Cycles() != 0 {
		t.Fatal("pattern select did not reset the pacer")
	}

	m, _ = update(t, m, breathTickMsg{sessionID: m.breathSession})
	m, _ = update(t, m, keyRunes("2"))
	if m.pacer.Elapsed() != 0 {
		t.Fatal("reselecting the same pattern did not reset the pacer")
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.pacer.Pattern().Name != "calm" {
		t.Fatalf("pattern after right = %q, want %q", m.pacer.Pattern().Name, "calm")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyRight})
	if m.pacer.Pattern().Name != "box" {
		t.Fatalf("pattern after wrap = %q, want %q", m.pacer.Pattern().Name, "box")
	}
}

func TestBreathStaleTickDropped(t *testing.T) {
	m := newTestModel(t, nil)
	m = enterBreath(t, m)
	stale := m.breathSession
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.pacer != nil {
		t.Fatal("leaving breath view kept the pacer")
	}
	_, cmd := update(t, m, breathTickMsg{sessionID: stale})
	if cmd != nil {
		t.Fatal("stale breath tick re-armed")
	}
}

func enterBreath(t *testing.T, m model) model {
	t.Helper()
	next, _ := m.enterBreathView()
	return next.(model)
}

func TestWipeFailureDropsClosedStore(t *testing.T) {
	store := &fakeLanguageStore{}
	m := newTestModel(t, store)

	m, _ = update(t, m, wipeDBMsg{err: errors.New("disk gone")})
	if m.db != nil || m.prefs != nil {
		t.Fatalf("db = %v, prefs = %v after failed wipe, want both nil", m.db, m.prefs)
	}
	if !strings.Contains(m.commandText, "db wipe failed") {
		t.Fatalf("commandText = %q, want wipe failure", m.commandText)
	}

	if cmd := saveLanguageCmd(m.prefs, locale.LanguageEN); cmd != nil {
		t.Fatal("saveLanguageCmd() after failed wipe = non-nil, want nil")
	}
	if len(store.saved) != 0 {
		t.Fatalf("store saved %v, want nothing", store.saved)
	}
}

func TestSlashCommands(t *testing.T) {
	store := &fakeLanguageStore{}
	m := newTestModel(t, store)

	m = typeCommand(t, m, "/nope")
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.commandText != "Unknown command: /nope" {
		t.Fatalf("commandText = %q, want unknown command feedback", m.commandText)
	}

	m, cmd := runCommand(t, m, "/lang en")
	if m.lang != locale.LanguageEN {
		t.Fatalf("lang = %q, want %q", m.lang, locale.LanguageEN)
	}
	if cmd == nil {
		t.Fatal("/lang en returned no cmd")
	}

	m, _ = runCommand(t, m, "/lang de")
	if !strings.Contains(m.commandText, "unsupported language") {
		t.Fatalf("commandText = %q, want unsupported language feedback", m.commandText)
	}

	m, _ = runCommand(t, m, "/help")
	if !m.showHelpOverlay {
		t.Fatal("/help did not open the overlay")
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.showHelpOverlay {
		t.Fatal("esc did not close the overlay")
	}

	m, _ = runCommand(t, m, "/day")
	if m.screen != screenDay {
		t.Fatalf("/day screen = %v, want day", m.screen)
	}
}

func runCommand(t *testing.T, m model, input string) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.runSlashCommand(input)
	return next.(model), cmd
}

func TestCommandSuggestionsFilterByPrefix(t *testing.T) {
	m := newTestModel(t, nil)
	m = typeCommand(t, m, "/la")
	if len(m.commandSuggestions) != 2 {
		t.Fatalf("suggestions = %v, want the two /lang commands", m.commandSuggestions)
	}
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.lang != locale.LanguageEN {
		t.Fatalf("lang = %q, want %q", m.lang, locale.LanguageEN)
	}
}

func TestFeedbackClearsOnlyLatestMessage(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = runCommand(t, m, "/nope")
	first := m.commandTextID
	m, _ = runCommand(t, m, "/nope2")

	m, _ = update(t, m, clearCommandTextMsg{id: first})
	if m.commandText == "" {
		t.Fatal("stale clear removed the newer message")
	}
	m, _ = update(t, m, clearCommandTextMsg{id: m.commandTextID})
	if m.commandText != "" {
		t.Fatalf("commandText = %q, want empty", m.commandText)
	}
}

func TestQuitKeys(t *testing.T) {
	m := newTestModel(t, nil)
	m, cmd := update(t, m, keyRunes("q"))
	if !m.quitting || cmd == nil {
		t.Fatal("q on empty command bar did not quit")
	}

	m = newTestModel(t, nil)
	m = typeCommand(t, m, "/q")
	if m.quitting {
		t.Fatal("typing q into the command bar quit the program")
	}
	if got := m.cmd.Value(); got != "/q" {
		t.Fatalf("command value = %q, want %q", got, "/q")
	}
}

func TestViewRendersEachScreen(t *testing.T) {
	m := newTestModel(t, nil)
	m, _ = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 50})

	if out := m.View(); !strings.Contains(out, "██") {
		t.Fatalf("home view missing title:\n%s", out)
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	m.setLanguage(locale.LanguageEN)
	out := m.View()
	for _, want := range []string{"10:15", "Thu, Oct 15", "43%", "Morning", "13 h 44 min"} {
		if !strings.Contains(out, want) {
			t.Fatalf("day view missing %q:\n%s", want, out)
		}
	}

	m, _ = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	m = enterBreath(t, m)
	out = m.View()
	for _, want := range []string{"Inhale", "1 box 4-4-4-4", "478"} {
		if !strings.Contains(out, want) {
			t.Fatalf("breath view missing %q:\n%s", want, out)
		}
	}
}

func TestRenderBreathCircleGrowsWithScale(t *testing.T) {
	count := func(s string) int { return strings.Count(s, "█") }
	small := count(renderBreathCircle(0.55, lipgloss.NewStyle()))
	large := count(renderBreathCircle(1.0, lipgloss.NewStyle()))
	if small == 0 || large <= small {
		t.Fatalf("circle cells small=%d large=%d, want 0 < small < large", small, large)
	}
}

func TestAssembleBlockTitleSegments(t *testing.T) {
	raw, segments := assembleBlockTitle(titleGlyphs)
	if len(raw) != 6 {
		t.Fatalf("rows = %d, want 6", len(raw))
	}
	if len(segments) != len(titleGlyphs) {
		t.Fatalf("segments = %d, want %d", len(segments), len(titleGlyphs))
	}
	width := len([]rune(raw[0]))
	for i, row := range raw {
		if got := len([]rune(row)); got != width {
			t.Fatalf("row %d width = %d, want %d", i, got, width)
		}
	}
	if segments[0][0] != 1 {
		t.Fatalf("first segment starts at %d, want 1", segments[0][0])
	}
}

func TestSalaryText(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "120 000", want: "120000"},
		{in: "1500.5", want: "1500.5"},
		{in: "1.2.3", want: "1.23"},
		{in: "1.5e3", want: "1.53"},
		{in: "-42", want: "42"},
		{in: "abc", want: ""},
		{in: "1234567890123.5", want: "123456789012.5"},
	}
	for _, tt := range tests {
		if got := salaryText(tt.in, salaryMaxDigits); got != tt.want {
			t.Fatalf("salaryText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderProgressRingCentersLabel(t *testing.T) {
	out := renderProgressRing(0.5, "50%")
	rows := strings.Split(out, "\n")
	if len(rows) != 2*ringRadius+1 {
		t.Fatalf("ring rows = %d, want %d", len(rows), 2*ringRadius+1)
	}
	if !strings.Contains(rows[ringRadius], "50%") {
		t.Fatalf("middle row = %q, want label", rows[ringRadius])
	}
	if strings.Count(out, "●") == 0 {
		t.Fatal("ring has no cells")
	}
}
