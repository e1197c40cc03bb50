package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"

	"github.com/MacroPower/cordova-set-version/pkg/setversion"
)

type styles struct {
	path      lipgloss.Style
	version   lipgloss.Style
	faint     lipgloss.Style
	checkMark lipgloss.Style
	errorMark lipgloss.Style
}

// newStyles renders with colors only when w is a terminal.
func newStyles(w io.Writer) styles {
	opts := []termenv.OutputOption{}
	if f, ok := w.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		opts = append(opts, termenv.WithProfile(termenv.Ascii))
	}

	r := lipgloss.NewRenderer(w, opts...)

	return styles{
		path:      r.NewStyle().Foreground(lipgloss.Color("211")),
		version:   r.NewStyle().Bold(true),
		faint:     r.NewStyle().Faint(true),
		checkMark: r.NewStyle().Foreground(lipgloss.Color("42")).SetString("✓"),
		errorMark: r.NewStyle().Foreground(lipgloss.Color("196")).SetString("✗"),
	}
}

func (s styles) result(res setversion.Result) string {
	if res.Err != nil {
		return fmt.Sprintf("%s %s: %v", s.errorMark, s.path.Render(res.ConfigPath), res.Err)
	}

	var b strings.Builder

	b.WriteString(s.checkMark.String())
	b.WriteString(" ")
	b.WriteString(s.path.Render(res.ConfigPath))
	b.WriteString(" ")

	if res.PreviousVersion != "" && res.PreviousVersion != res.Version {
		b.WriteString(s.faint.Render(res.PreviousVersion))
		b.WriteString(" -> ")
	}

	b.WriteString(s.version.Render(res.Version))

	if res.BuildNumber != "" {
		b.WriteString(" ")
		b.WriteString(s.faint.Render("(build " + res.BuildNumber + ")"))
	}

	if res.ManifestUpdated {
		b.WriteString(", ")
		b.WriteString(s.path.Render(res.ManifestPath))
		b.WriteString(" updated")
	}

	return b.String()
}

func (s styles) attr(name, value string) string {
	return fmt.Sprintf("  %s %s", s.faint.Render(name+":"), s.version.Render(value))
}
