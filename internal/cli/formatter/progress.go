package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderProgress renders a bar like [████░░░░] 45%.
// Green from two thirds up, yellow from one third, red below.
func RenderProgress(pct float64, width int) string {
	pct = clampPct(pct)
	return fmt.Sprintf("[%s] %3.0f%%", progressStyle(pct).Render(bar(pct, width)), pct*100)
}

// RenderLessonProgress renders a bar followed by "done/total lessons".
func RenderLessonProgress(done, total, width int) string {
	pct := 0.0
	if total > 0 {
		pct = float64(done) / float64(total)
	}
	return fmt.Sprintf("%s  %s", RenderProgress(pct, width), Dim(fmt.Sprintf("%d/%d lessons", done, total)))
}

// RenderCompactBar renders the bar alone, for table cells.
func RenderCompactBar(pct float64, width int) string {
	pct = clampPct(pct)
	return progressStyle(pct).Render(bar(pct, width))
}

// RenderPartDots renders one dot per part: filled for completed parts and a
// ring around the part under the cursor.
func RenderPartDots(total, cursor int, completed func(i int) bool) string {
	dots := make([]string, total)
	for i := 0; i < total; i++ {
		switch {
		case i == cursor:
			dots[i] = StyleYellowBold.Render("◉")
		case completed(i):
			dots[i] = StyleGreen.Render("●")
		default:
			dots[i] = StyleDim.Render("○")
		}
	}
	return strings.Join(dots, " ")
}

func bar(pct float64, width int) string {
	if width < 2 {
		width = 2
	}
	filled := int(pct * float64(width))
	if filled > width {
		filled = width
	}
	return strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)
}

func clampPct(pct float64) float64 {
	if pct < 0 {
		return 0
	}
	if pct > 1 {
		return 1
	}
	return pct
}

func progressStyle(pct float64) lipgloss.Style {
	switch {
	case pct < 0.33:
		return StyleRed
	case pct < 0.66:
		return StyleYellow
	default:
		return StyleGreen
	}
}
