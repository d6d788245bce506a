package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var titleGlyphs = [][]string{
	{ // D
		"██████╗ ",
		"██╔══██╗",
		"██║  ██║",
		"██║  ██║",
		"██████╔╝",
		"╚═════╝ ",
	},
	{ // A
		" █████╗ ",
		"██╔══██╗",
		"███████║",
		"██╔══██║",
		"██║  ██║",
		"╚═╝  ╚═╝",
	},
	{ // Y
		"██╗   ██╗",
		"╚██╗ ██╔╝",
		" ╚████╔╝ ",
		"  ╚██╔╝  ",
		"   ██║   ",
		"   ╚═╝   ",
	},
	{ // P
		"██████╗ ",
		"██╔══██╗",
		"██████╔╝",
		"██╔═══╝ ",
		"██║     ",
		"╚═╝     ",
	},
	{ // A
		" █████╗ ",
		"██╔══██╗",
		"███████║",
		"██╔══██║",
		"██║  ██║",
		"╚═╝  ╚═╝",
	},
	{ // C
		" ██████╗",
		"██╔════╝",
		"██║     ",
		"██║     ",
		"╚██████╗",
		" ╚═════╝",
	},
	{ // E
		"███████╗",
		"██╔════╝",
		"█████╗  ",
		"██╔══╝  ",
		"███████╗",
		"╚══════╝",
	},
}

func renderBlockTitle() string {
	raw, segments := assembleBlockTitle(titleGlyphs)
	return renderStyledBlockTitle(raw, segments)
}

// assembleBlockTitle joins glyphs side by side with a one-column gap and
// returns the column range each glyph occupies.
func assembleBlockTitle(glyphs [][]string) ([]string, [][2]int) {
	if len(glyphs) == 0 {
		return nil, nil
	}
	rows := make([]strings.Builder, len(glyphs[0]))
	segments := make([][2]int, 0, len(glyphs))
	col := 1
	for i := range rows {
		rows[i].WriteString(" ")
	}
	for _, glyph := range glyphs {
		width := len([]rune(glyph[0]))
		segments = append(segments, [2]int{col, col + width - 1})
		for i := range rows {
			rows[i].WriteString(glyph[i])
			rows[i].WriteString(" ")
		}
		col += width + 1
	}
	raw := make([]string, 0, len(rows))
	for i := range rows {
		raw = append(raw, rows[i].String())
	}
	return raw, segments
}

func renderStyledBlockTitle(raw []string, segments [][2]int) string {
	blue := lipgloss.NewStyle().Foreground(lipgloss.Color("#5FA8FF")).Bold(true)
	coral := lipgloss.NewStyle().Foreground(lipgloss.Color("#F47A60")).Bold(true)
	yellow := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFD54A")).Bold(true)

	rows := make([]string, 0, len(raw))
	for _, line := range raw {
		var out strings.Builder
		for idx, ch := range []rune(line) {
			if ch == ' ' {
				out.WriteRune(' ')
				continue
			}
			if isStrokeRune(ch) {
				out.WriteString(blue.Render(string(ch)))
				continue
			}
			fill := coral
			if segmentForIndex(idx, segments)%2 == 1 {
				fill = yellow
			}
			out.WriteString(fill.Render(string(ch)))
		}
		rows = append(rows, out.String())
	}

	return strings.Join(rows, "\n")
}

func isStrokeRune(ch rune) bool {
	switch ch {
	case '╔', '╗', '╚', '╝', '║', '═', '┌', '┐', '└', '┘', '│', '─':
		return true
	default:
		return false
	}
}

func segmentForIndex(index int, segments [][2]int) int {
	for i, s := range segments {
		if index >= s[0] && index <= s[1] {
			return i
		}
	}
	return 0
}

func renderViewTitle(text string) string {
	return lipgloss.NewStyle().
		Foreground(lipgloss.Color("#87CEEB")).
		Bold(true).
		Render(strings.ToUpper(text))
}
