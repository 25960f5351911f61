package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
)

type checkState int

const (
	checkInfo checkState = iota
	checkPass
	checkWarn
	checkFail
)

const (
	ansiReset  = "\x1b[0m"
	ansiRed    = "\x1b[31m"
	ansiGreen  = "\x1b[32m"
	ansiYellow = "\x1b[33m"
	ansiCyan   = "\x1b[36m"
)

const checkLabelWidth = 24

func (s checkState) label() string {
	switch s {
	case checkPass:
		return "PASS"
	case checkWarn:
		return "WARN"
	case checkFail:
		return "FAIL"
	default:
		return "INFO"
	}
}

func (s checkState) color() string {
	switch s {
	case checkPass:
		return ansiGreen
	case checkWarn:
		return ansiYellow
	case checkFail:
		return ansiRed
	default:
		return ansiCyan
	}
}

// renderCheckLine formats one doctor line, for example
// "  FFmpeg:                  [PASS] version 6.1".
func renderCheckLine(name string, state checkState, detail string, colorize bool) string {
	status := "[" + state.label() + "]"
	if detail = strings.TrimSpace(detail); detail != "" {
		status += " " + detail
	}
	line := fmt.Sprintf("  %-*s %s", checkLabelWidth, name+":", status)
	if colorize {
		return state.color() + line + ansiReset
	}
	return line
}

func renderHeading(title string, colorize bool) string {
	line := strings.TrimSpace(title)
	line = line + "\n" + strings.Repeat("=", len([]rune(line)))
	if colorize {
		return ansiCyan + line + ansiReset
	}
	return line
}

func shouldColorize(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	file, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := file.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
