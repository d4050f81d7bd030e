package main

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"

	"tails/internal/observ"
)

func printTimings(out io.Writer, timer *observ.Timer, color bool) {
	rep := timer.Report()
	if len(rep.Phases) == 0 {
		return
	}
	nameStyle := lipgloss.NewStyle().Width(20)
	msStyle := lipgloss.NewStyle().Width(12).Align(lipgloss.Right)
	noteStyle := lipgloss.NewStyle().PaddingLeft(2)
	titleStyle := lipgloss.NewStyle()
	totalStyle := lipgloss.NewStyle()
	if color {
		titleStyle = titleStyle.Bold(true).Foreground(lipgloss.Color("7"))
		noteStyle = noteStyle.Foreground(lipgloss.Color("8"))
		totalStyle = totalStyle.Bold(true).Foreground(lipgloss.Color("2"))
	}

	row := func(name string, ms float64, note string, style lipgloss.Style) string {
		line := lipgloss.JoinHorizontal(lipgloss.Top,
			nameStyle.Render(name),
			msStyle.Render(fmt.Sprintf("%.2f ms", ms)),
		)
		if note != "" {
			line += noteStyle.Render(note)
		}
		return style.Render(line)
	}

	fmt.Fprintln(out, titleStyle.Render("timings"))
	for _, p := range rep.Phases {
		fmt.Fprintln(out, "  "+row(p.Name, p.DurationMS, p.Note, lipgloss.NewStyle()))
	}
	fmt.Fprintln(out, "  "+row("total", rep.TotalMS, "", totalStyle))
}
