package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"calltraits/internal/diag"
	"calltraits/internal/source"
)

type palette struct {
	err, warn, info, note *color.Color
	path, gutter, caret   *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan, color.Bold),
		note:   color.New(color.FgBlue, color.Bold),
		path:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.note, p.path, p.gutter, p.caret} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch sev {
	case diag.SevError:
		return p.err
	case diag.SevWarning:
		return p.warn
	default:
		return p.info
	}
}

// Pretty renders diagnostics for a terminal. It walks bag.Items() in order
// (callers sort first) and prints for each one
//
//	<path>:<line>:<col>: <SEV> <CODE>: <Message>
//
// followed by the source context with a ^~~~ underline, then the notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil || fs == nil {
		return
	}
	p := newPalette(opts.Color)
	for i, d := range bag.Items() {
		if i > 0 {
			fmt.Fprintln(w)
		}
		loc := location(fs, d.Primary, opts)
		fmt.Fprintf(w, "%s: %s %s: %s\n",
			p.path.Sprint(loc),
			p.severity(d.Severity).Sprint(d.Severity.String()),
			d.Code.ID(),
			d.Message,
		)
		writeSnippet(w, fs, d.Primary, opts.Context, p)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			fmt.Fprintf(w, "  %s %s: %s\n", p.note.Sprint("note:"), location(fs, n.Span, opts), n.Msg)
			writeSnippet(w, fs, n.Span, 0, p)
		}
	}
}

func location(fs *source.FileSet, sp source.Span, opts PrettyOpts) string {
	if int(sp.File) >= fs.Len() {
		return "<unknown>"
	}
	start, _ := fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", formatPath(fs.Get(sp.File), opts.PathMode, opts.BaseDir), start.Line, start.Col)
}

// writeSnippet prints the lines around sp with a gutter and underlines the
// span on its first line. Columns are measured in display cells.
func writeSnippet(w io.Writer, fs *source.FileSet, sp source.Span, context int8, p palette) {
	if int(sp.File) >= fs.Len() {
		return
	}
	f := fs.Get(sp.File)
	start, end := fs.Resolve(sp)
	if start.Line == 0 {
		return
	}
	first := uint32(1)
	if ctx := uint32(max(context, 0)); start.Line > ctx {
		first = start.Line - ctx
	}
	last := start.Line + uint32(max(context, 0))
	width := len(strconv.FormatUint(uint64(last), 10))

	for ln := first; ln <= last; ln++ {
		text := f.GetLine(ln)
		if ln != start.Line && text == "" {
			continue
		}
		text = strings.ReplaceAll(text, "\t", "    ")
		fmt.Fprintf(w, "%s %s\n", p.gutter.Sprintf("%*d |", width, ln), text)
		if ln != start.Line {
			continue
		}
		raw := f.GetLine(ln)
		prefix := expandTabs(byteSlice(raw, 0, start.Col-1))
		underlineEnd := end.Col - 1
		if end.Line != start.Line {
			underlineEnd = uint32(len(raw))
		}
		marked := expandTabs(byteSlice(raw, start.Col-1, underlineEnd))
		n := max(runewidth.StringWidth(marked), 1)
		fmt.Fprintf(w, "%s %s%s\n",
			p.gutter.Sprintf("%*s |", width, ""),
			strings.Repeat(" ", runewidth.StringWidth(prefix)),
			p.caret.Sprint("^"+strings.Repeat("~", n-1)),
		)
	}
}

func byteSlice(s string, from, to uint32) string {
	n := uint32(len(s))
	from = min(from, n)
	to = min(max(to, from), n)
	return s[from:to]
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", "    ")
}
