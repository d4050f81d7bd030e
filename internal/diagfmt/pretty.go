package diagfmt

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"tails/internal/diag"
	"tails/internal/source"
)

// Pretty форматирует диагностики в человекочитаемый вид, по позициям:
//
//	error[SEM3004]: message
//	  --> path:line:col
//	   |
//	 3 | let s: str = 1
//	   |              ^
//
// Для модулей без исходного текста печатается только заголовок и позиция.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	p := newPrinter(w, fs, opts)
	for _, d := range sortedItems(bag) {
		p.diagnostic(d)
	}
}

// Summary renders "N errors, M warnings" for the end of a report.
func Summary(bag *diag.Bag) string {
	plural := func(n int, word string) string {
		if n == 1 {
			return "1 " + word
		}
		return strconv.Itoa(n) + " " + word + "s"
	}
	return plural(bag.Count(diag.SevError), "error") + ", " + plural(bag.Count(diag.SevWarning), "warning")
}

func sortedItems(bag *diag.Bag) []diag.Diagnostic {
	if bag == nil {
		return nil
	}
	items := append([]diag.Diagnostic(nil), bag.Items()...)
	sort.SliceStable(items, func(i, j int) bool {
		pi, pj := items[i].Primary, items[j].Primary
		if pi.File != pj.File {
			return pi.File < pj.File
		}
		if pi.Start != pj.Start {
			return pi.Start < pj.Start
		}
		return items[i].Code < items[j].Code
	})
	return items
}

type printer struct {
	w    io.Writer
	fs   *source.FileSet
	opts PrettyOpts

	errorC, warnC, infoC, noteC, gutterC, boldC *color.Color
}

func newPrinter(w io.Writer, fs *source.FileSet, opts PrettyOpts) *printer {
	p := &printer{
		w:       w,
		fs:      fs,
		opts:    opts,
		errorC:  color.New(color.FgRed, color.Bold),
		warnC:   color.New(color.FgYellow, color.Bold),
		infoC:   color.New(color.FgCyan, color.Bold),
		noteC:   color.New(color.FgGreen, color.Bold),
		gutterC: color.New(color.FgBlue, color.Bold),
		boldC:   color.New(color.Bold),
	}
	for _, c := range []*color.Color{p.errorC, p.warnC, p.infoC, p.noteC, p.gutterC, p.boldC} {
		if opts.Color {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p *printer) severity(sev diag.Severity) (string, *color.Color) {
	switch sev {
	case diag.SevError:
		return "error", p.errorC
	case diag.SevWarning:
		return "warning", p.warnC
	}
	return "info", p.infoC
}

func (p *printer) diagnostic(d diag.Diagnostic) {
	label, c := p.severity(d.Severity)
	fmt.Fprintf(p.w, "%s%s\n", c.Sprintf("%s[%s]", label, d.Code.ID()), p.boldC.Sprint(": "+d.Message))
	fmt.Fprintf(p.w, "  %s %s\n", p.gutterC.Sprint("-->"), p.location(d.Primary))
	p.snippet(d.Primary, c)
	for _, n := range d.Notes {
		fmt.Fprintf(p.w, "  %s %s: %s\n", p.gutterC.Sprint("="), p.noteC.Sprint("note"), n.Msg)
		if p.opts.ShowNotes {
			fmt.Fprintf(p.w, "  %s %s\n", p.gutterC.Sprint("-->"), p.location(n.Span))
			p.snippet(n.Span, p.noteC)
		}
	}
	fmt.Fprintln(p.w)
}

func (p *printer) location(sp source.Span) string {
	if p.fs == nil {
		return diag.Location(sp, nil)
	}
	f := p.fs.Get(sp.File)
	if f == nil {
		return diag.Location(sp, nil)
	}
	path := formatPath(f, p.opts.PathMode, p.opts.BaseDir)
	if len(f.Content) == 0 {
		return fmt.Sprintf("%s@%d..%d", path, sp.Start, sp.End)
	}
	start, _, _ := p.fs.Resolve(sp)
	return fmt.Sprintf("%s:%d:%d", path, start.Line, start.Col)
}

func (p *printer) snippet(sp source.Span, mark *color.Color) {
	if p.fs == nil {
		return
	}
	f := p.fs.Get(sp.File)
	if f == nil || len(f.Content) == 0 {
		return
	}
	start, end, ok := p.fs.Resolve(sp)
	if !ok {
		return
	}
	lineCount := uint32(len(f.LineIdx)) + 1 //nolint:gosec // line index fits the file
	ctx := uint32(max(p.opts.Context, 0))    //nolint:gosec // non-negative
	from := start.Line - min(ctx, start.Line-1)
	to := min(start.Line+ctx, lineCount)
	width := len(strconv.FormatUint(uint64(to), 10))

	bar := p.gutterC.Sprint("|")
	fmt.Fprintf(p.w, "%s %s\n", strings.Repeat(" ", width+1), bar)
	for ln := from; ln <= to; ln++ {
		text := f.Line(ln)
		fmt.Fprintf(p.w, " %s %s %s\n", p.gutterC.Sprintf("%*d", width, ln), bar, text)
		if ln != start.Line {
			continue
		}
		pad, under := caretLine(text, int(start.Col)-1, endColumn(start, end, text))
		fmt.Fprintf(p.w, "%s %s %s%s\n", strings.Repeat(" ", width+1), bar, pad, mark.Sprint(under))
	}
}

// endColumn is the 0-based byte column where the underline stops on the
// first line of the span.
func endColumn(start, end source.LineCol, text string) int {
	if end.Line == start.Line {
		return int(end.Col) - 1
	}
	return len(text)
}

// caretLine builds the padding and underline for columns [from, to) of
// text. Padding keeps tabs so the caret lines up with the rendered source;
// wide runes count by their display width.
func caretLine(text string, from, to int) (pad, under string) {
	from = min(max(from, 0), len(text))
	to = min(max(to, from), len(text))
	var sb strings.Builder
	for _, r := range text[:from] {
		if r == '\t' {
			sb.WriteByte('\t')
			continue
		}
		sb.WriteString(strings.Repeat(" ", runewidth.RuneWidth(r)))
	}
	n := max(runewidth.StringWidth(text[from:to]), 1)
	return sb.String(), "^" + strings.Repeat("~", n-1)
}
