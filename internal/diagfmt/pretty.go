package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"circa/internal/diag"
	"circa/internal/source"
)

const tabWidth = 4

type palette struct {
	severity *color.Color
	code     *color.Color
	message  *color.Color
	gutter   *color.Color
	primary  *color.Color
	note     *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		severity: color.New(color.FgRed, color.Bold),
		code:     color.New(color.FgRed, color.Bold),
		message:  color.New(color.Bold),
		gutter:   color.New(color.FgBlue, color.Bold),
		primary:  color.New(color.FgRed, color.Bold),
		note:     color.New(color.FgBlue, color.Bold),
	}
	for _, c := range []*color.Color{p.severity, p.code, p.message, p.gutter, p.primary, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

// label is one underlined span of a snippet.
type label struct {
	span    source.Span
	msg     string
	primary bool
}

// Pretty форматирует диагностики в человекочитаемый вид, в порядке записи:
//
//	error[SYN2201]: expected `]` but found `:`
//	  --> src/main.circ:2:38
//	   |
//	 2 | fn f<let N: u32>(x: Field) -> [u1: N] {}
//	   |                                  ^
//
// Primary spans are underlined with `^`, notes with `-` and their message.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	items := bag.Items()
	n := limit(len(items), opts.Max)
	pal := newPalette(opts.Color)
	for i := range n {
		if i > 0 {
			fmt.Fprintln(w)
		}
		writeDiagnostic(w, &items[i], fs, opts, pal)
	}
	if rest := len(items) - n; rest > 0 {
		fmt.Fprintf(w, "\n... and %d more %s\n", rest, pluralize(rest, "diagnostic", "diagnostics"))
	}
}

func writeDiagnostic(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, pal palette) {
	fmt.Fprintf(w, "%s%s: %s\n",
		pal.severity.Sprint(severityWord(d.Severity)),
		pal.code.Sprint("["+d.Code.ID()+"]"),
		pal.message.Sprint(d.Message))

	labels := []label{{span: d.Primary, primary: true}}
	if opts.ShowNotes {
		for _, note := range d.Notes {
			labels = append(labels, label{span: note.Span, msg: note.Msg})
		}
	}
	if !fs.Has(d.Primary.File) {
		return
	}
	width := gutterWidth(fs, labels)
	pad := strings.Repeat(" ", width)

	f := fs.Get(d.Primary.File)
	start, _ := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s%s %s:%d:%d\n", pad, pal.gutter.Sprint("-->"), displayPath(fs, f, opts.PathMode), start.Line, start.Col)

	lastFile := d.Primary.File
	for _, l := range labels {
		if !fs.Has(l.span.File) {
			continue
		}
		if l.span.File != lastFile {
			nf := fs.Get(l.span.File)
			ns, _ := fs.Resolve(l.span)
			fmt.Fprintf(w, "%s%s %s:%d:%d\n", pad, pal.gutter.Sprint(":::"), displayPath(fs, nf, opts.PathMode), ns.Line, ns.Col)
			lastFile = l.span.File
		}
		writeSnippet(w, fs, l, pad, pal)
	}
	if !opts.ShowNotes && len(d.Notes) > 0 {
		for _, note := range d.Notes {
			fmt.Fprintf(w, "%s %s note: %s\n", pad, pal.gutter.Sprint("="), note.Msg)
		}
	}
}

func writeSnippet(w io.Writer, fs *source.FileSet, l label, pad string, pal palette) {
	f := fs.Get(l.span.File)
	start, end := fs.Resolve(l.span)
	line := f.Line(start.Line)

	fmt.Fprintf(w, "%s %s\n", pad, pal.gutter.Sprint("|"))
	num := strconv.FormatUint(uint64(start.Line), 10)
	fmt.Fprintf(w, "%s%s %s %s\n", pad[len(num):], pal.gutter.Sprint(num), pal.gutter.Sprint("|"), expandTabs(line))

	col := int(start.Col) - 1
	col = min(max(col, 0), len(line))
	endCol := len(line)
	if end.Line == start.Line {
		endCol = min(max(int(end.Col)-1, col), len(line))
	}
	offset := displayWidth(line[:col])
	span := max(displayWidth(line[col:endCol]), 1)

	mark, c := "^", pal.primary
	if !l.primary {
		mark, c = "-", pal.note
	}
	underline := strings.Repeat(mark, span)
	if l.msg != "" {
		underline += " " + l.msg
	}
	fmt.Fprintf(w, "%s %s %s%s\n", pad, pal.gutter.Sprint("|"), strings.Repeat(" ", offset), c.Sprint(underline))
}

func gutterWidth(fs *source.FileSet, labels []label) int {
	widest := 1
	for _, l := range labels {
		if !fs.Has(l.span.File) {
			continue
		}
		start, _ := fs.Resolve(l.span)
		widest = max(widest, len(strconv.FormatUint(uint64(start.Line), 10)))
	}
	return widest + 1
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

// displayWidth is the terminal width of s with tabs expanded.
func displayWidth(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}

func severityWord(sev diag.Severity) string {
	return strings.ToLower(sev.String())
}

func pluralize(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
