package scopebar

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/lipgloss"

	"github.com/ShayCichocki/scopebar/pkg/liveview"
)

var (
	spinnerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))
	fieldsStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	footerStyle  = lipgloss.NewStyle().Faint(true)
	barDoneStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

// spinnerFrame picks the animation frame for the given elapsed time.
func spinnerFrame(sp spinner.Spinner, s liveview.Snapshot) string {
	i := int(s.Elapsed/sp.FPS) % len(sp.Frames)
	return sp.Frames[i]
}

// DefaultTemplate renders "{prefix}{spinner} {name}{fields}", with the
// message appended when set.
func DefaultTemplate() liveview.Template {
	sp := spinner.MiniDot
	return func(s liveview.Snapshot) string {
		var b strings.Builder
		b.WriteString(s.Prefix)
		b.WriteString(spinnerStyle.Render(spinnerFrame(sp, s)))
		b.WriteByte(' ')
		b.WriteString(s.Name)
		if s.Fields != "" {
			b.WriteString(fieldsStyle.Render("{" + s.Fields + "}"))
		}
		if s.Message != "" {
			b.WriteByte(' ')
			b.WriteString(s.Message)
		}
		return b.String()
	}
}

// ProgressTemplate renders a position/length bar of the given width, e.g.
// "{prefix}{name} [=====>    ] 6/10". Rows without a length fall back to a
// spinner.
func ProgressTemplate(width int) liveview.Template {
	if width <= 0 {
		width = 20
	}
	sp := spinner.MiniDot
	return func(s liveview.Snapshot) string {
		if s.Len <= 0 {
			return s.Prefix + spinnerStyle.Render(spinnerFrame(sp, s)) + " " + s.Name
		}
		pos := s.Pos
		if pos < 0 {
			pos = 0
		}
		if pos > s.Len {
			pos = s.Len
		}
		filled := int(pos * int64(width) / s.Len)
		bar := strings.Repeat("=", filled)
		if filled < width {
			bar += ">" + strings.Repeat(" ", width-filled-1)
		}
		return fmt.Sprintf("%s%s %s %d/%d",
			s.Prefix, s.Name, barDoneStyle.Render("["+bar+"]"), pos, s.Len)
	}
}

// DefaultFooterTemplate renders "...and N more not shown above.".
func DefaultFooterTemplate() liveview.Template {
	return func(s liveview.Snapshot) string {
		return footerStyle.Render(fmt.Sprintf("...and %d more not shown above.", s.Pending))
	}
}
