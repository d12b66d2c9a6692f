package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"
)

// resolveColor decides whether stdout output is colored. An explicit
// --color wins over the manifest, which wins over terminal detection.
func resolveColor(cmd *cobra.Command, manifest *projectManifest) (bool, error) {
	colorFlag, err := cmd.Root().PersistentFlags().GetString("color")
	if err != nil {
		return false, fmt.Errorf("failed to get color flag: %w", err)
	}
	if !cmd.Root().PersistentFlags().Changed("color") && manifest != nil && manifest.Config.Output.Color != "" {
		colorFlag = manifest.Config.Output.Color
	}
	switch strings.ToLower(colorFlag) {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return isTerminal(os.Stdout), nil
	default:
		return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", colorFlag)
	}
}

// styles carries the colors and lipgloss styles shared by the pretty
// renderers. The zero value renders plain text.
type styles struct {
	enabled bool
	title   lipgloss.Style
	label   *color.Color
	yes     *color.Color
	no      *color.Color
	op      *color.Color
	dim     *color.Color
}

func newStyles(enabled bool) styles {
	s := styles{
		enabled: enabled,
		title:   lipgloss.NewStyle(),
		label:   color.New(color.FgCyan),
		yes:     color.New(color.FgGreen, color.Bold),
		no:      color.New(color.FgRed, color.Bold),
		op:      color.New(color.FgYellow),
		dim:     color.New(color.Faint),
	}
	if enabled {
		s.title = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	}
	for _, c := range []*color.Color{s.label, s.yes, s.no, s.op, s.dim} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return s
}

func (s styles) heading(text string) string {
	if !s.enabled {
		return text
	}
	return s.title.Render(text)
}

func (s styles) flag(v bool) string {
	if v {
		return s.yes.Sprint("yes")
	}
	return s.no.Sprint("no")
}

// field is one "label  value" line of a pretty listing.
type field struct {
	label string
	value string
}

// writeFields prints fields with their values aligned on the widest label.
func writeFields(w io.Writer, s styles, indent string, fields []field) {
	width := 0
	for _, f := range fields {
		width = max(width, runewidth.StringWidth(f.label))
	}
	for _, f := range fields {
		fmt.Fprintf(w, "%s%s  %s\n", indent, s.label.Sprint(runewidth.FillRight(f.label, width)), f.value)
	}
}
