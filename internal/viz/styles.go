package viz

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"
)

func fg(c lipgloss.Color) lipgloss.Style { return lipgloss.NewStyle().Foreground(c) }

func titleStyle() lipgloss.Style { return fg(CurrentTheme.Primary).Bold(true) }
func subtle() lipgloss.Style     { return fg(CurrentTheme.Muted) }
func labelStyle() lipgloss.Style { return fg(CurrentTheme.Muted).Width(12) }
func valueStyle() lipgloss.Style { return fg(CurrentTheme.Text) }
func keyStyle() lipgloss.Style   { return fg(CurrentTheme.Primary).Bold(true) }
func hintStyle() lipgloss.Style  { return fg(CurrentTheme.Muted).Italic(true) }

func statusStyle(running bool) lipgloss.Style {
	if running {
		return fg(CurrentTheme.Success).Bold(true)
	}
	return fg(CurrentTheme.Warning).Bold(true)
}

var (
	canvasStyle = lipgloss.NewStyle().Padding(1, 2)
	statsStyle  = lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(lipgloss.Color("240")).Padding(1, 2).Width(46)
	graphStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Padding(1, 0)
)

// GradientText colours each rune of text along an Hcl blend.
func GradientText(text string, start, end lipgloss.Color) string {
	if len(text) == 0 {
		return ""
	}
	sc, err1 := colorful.Hex(string(start))
	ec, err2 := colorful.Hex(string(end))
	if err1 != nil || err2 != nil {
		return text
	}

	runes := []rune(text)
	n := len(runes)
	var result strings.Builder
	for i, r := range runes {
		t := 0.0
		if n > 1 {
			t = float64(i) / float64(n-1)
		}
		col := sc.BlendHcl(ec, t).Clamped()
		result.WriteString(fg(lipgloss.Color(col.Hex())).Render(string(r)))
	}
	return result.String()
}

// AnimatedSpinner returns frame of animated spinner
func AnimatedSpinner(frame int) string {
	spinners := []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	return spinners[frame%len(spinners)]
}

// ProgressBar renders a bar filled to percent in [0, 1].
func ProgressBar(percent float64, width int) string {
	filled := int(percent * float64(width))
	if filled > width {
		filled = width
	}
	if filled < 0 {
		filled = 0
	}
	bar := strings.Repeat("█", filled) + strings.Repeat("░", width-filled)
	return fg(CurrentTheme.Secondary).Render(bar)
}

// Sparkline renders values scaled to their own range; the newest value is
// rightmost.
func Sparkline(values []float64, width int) string {
	if len(values) == 0 || width <= 0 {
		return strings.Repeat("─", max(width, 0))
	}
	if len(values) > width {
		values = values[len(values)-width:]
	}

	chars := []rune{'▁', '▂', '▃', '▄', '▅', '▆', '▇', '█'}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = min(lo, v)
		hi = max(hi, v)
	}
	rng := hi - lo
	if rng == 0 {
		rng = 1
	}

	var b strings.Builder
	for _, v := range values {
		idx := int((v - lo) / rng * float64(len(chars)-1))
		idx = max(0, min(len(chars)-1, idx))
		b.WriteRune(chars[idx])
	}
	return b.String()
}

// Separator is a muted rule with a centre mark.
func Separator(width int) string {
	mid := width / 2
	left := strings.Repeat("─", max(mid-3, 0))
	right := strings.Repeat("─", max(width-mid-3, 0))
	return subtle().Render(left + " ◆ " + right)
}

func keyHints(pairs ...string) string {
	var b strings.Builder
	for i := 0; i+1 < len(pairs); i += 2 {
		if i > 0 {
			b.WriteString("  ")
		}
		b.WriteString(keyStyle().Render(pairs[i]) + subtle().Render(" "+pairs[i+1]))
	}
	return b.String()
}
