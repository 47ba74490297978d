package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/syllabus/internal/domain"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen      = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow     = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleYellowBold = lipgloss.NewStyle().Foreground(ColorYellow).Bold(true)
	StyleRed        = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue       = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple     = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim        = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg         = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader     = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold       = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// LessonState is the display state of a lesson or module row.
type LessonState int

const (
	StateOpen LessonState = iota
	StateCurrent
	StateInProgress
	StateDone
	StateLocked
)

// StateIcon returns the colored glyph drawn in front of a row.
func StateIcon(s LessonState) string {
	switch s {
	case StateDone:
		return StyleGreen.Render("✔")
	case StateCurrent:
		return StyleYellowBold.Render("▶")
	case StateInProgress:
		return StyleYellow.Render("◐")
	case StateLocked:
		return StyleDim.Render("🔒")
	default:
		return StyleDim.Render("○")
	}
}

// ContentBadge returns a short colored label for a lesson's content type.
func ContentBadge(c domain.ContentType) string {
	switch c {
	case domain.ContentVideo:
		return StylePurple.Render("video")
	case domain.ContentDocument, domain.ContentText:
		return StyleBlue.Render(string(c))
	case domain.ContentQuiz, domain.ContentAssignment:
		return StyleYellow.Render(string(c))
	case "":
		return StyleDim.Render("--")
	default:
		return StyleDim.Render(string(c))
	}
}

// KindPill marks preview sessions, which are never saved.
func KindPill(k domain.EnrollmentKind) string {
	if k == domain.KindPreview {
		return StylePurple.Render("◇ Preview") + Dim(" (owner view, progress is not saved)")
	}
	return StyleGreen.Render("● Enrolled")
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
