package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

type statusKind int

const (
	statusInfo statusKind = iota
	statusOK
	statusWarn
	statusError
)

var (
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#95E1A3"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFE66D"))
	errorStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	infoStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#A8DADC"))

	bannerStyle = lipgloss.NewStyle().
			Bold(true).
			Border(lipgloss.RoundedBorder()).
			Padding(0, 2)
)

func statusKindLabel(kind statusKind) string {
	switch kind {
	case statusOK:
		return "OK"
	case statusWarn:
		return "WARN"
	case statusError:
		return "ERROR"
	default:
		return "INFO"
	}
}

func statusKindStyle(kind statusKind) lipgloss.Style {
	switch kind {
	case statusOK:
		return okStyle
	case statusWarn:
		return warnStyle
	case statusError:
		return errorStyle
	default:
		return infoStyle
	}
}

// renderStatusLine formats "[LABEL] message", colored only for terminals.
func renderStatusLine(kind statusKind, message string, colorize bool) string {
	line := fmt.Sprintf("[%s] %s", statusKindLabel(kind), message)
	if !colorize {
		return line
	}
	return statusKindStyle(kind).Render(line)
}

// renderVerdict draws the clean room gate banner.
func renderVerdict(passed bool, colorize bool) string {
	message := "CLEAN ROOM PASSED: ready for final delivery"
	kind := statusOK
	if !passed {
		message = "CLEAN ROOM FAILED: fix the violations below"
		kind = statusError
	}
	if !colorize {
		return fmt.Sprintf("[%s] %s", statusKindLabel(kind), message)
	}
	color := lipgloss.Color("#95E1A3")
	if !passed {
		color = lipgloss.Color("#FF6B6B")
	}
	return bannerStyle.BorderForeground(color).Foreground(color).Render(message)
}

func shouldColorize(writer io.Writer) bool {
	file, ok := writer.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
