// Copyright © 2024 The StrataRegula authors

package diagnostic

import (
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
)

// ColorMode controls when ANSI color codes are used.
type ColorMode int

const (
	ColorAuto   ColorMode = iota // detect based on terminal and NO_COLOR
	ColorAlways                  // always use colors
	ColorNever                   // never use colors
)

// ParseColorMode maps "auto", "always" and "never" to a mode. Unknown
// names fall back to auto.
func ParseColorMode(name string) ColorMode {
	switch name {
	case "always":
		return ColorAlways
	case "never":
		return ColorNever
	default:
		return ColorAuto
	}
}

// palette holds the styles used for diagnostic output.
type palette struct {
	bold     lipgloss.Style
	yellow   lipgloss.Style
	boldRed  lipgloss.Style
	boldBlue lipgloss.Style
	boldCyan lipgloss.Style
}

// choosePalette builds the styles for w. In auto mode the color profile is
// detected from w, so pipes, buffers and NO_COLOR get plain text.
func choosePalette(mode ColorMode, w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	switch mode {
	case ColorAlways:
		r.SetColorProfile(termenv.ANSI)
	case ColorNever:
		r.SetColorProfile(termenv.Ascii)
	}
	return palette{
		bold:     r.NewStyle().Bold(true),
		yellow:   r.NewStyle().Foreground(lipgloss.Color("3")),
		boldRed:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("1")),
		boldBlue: r.NewStyle().Bold(true).Foreground(lipgloss.Color("4")),
		boldCyan: r.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
	}
}
