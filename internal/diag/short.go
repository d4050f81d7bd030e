package diag

import (
	"fmt"
	"sort"
	"strings"

	"tails/internal/source"
)

// FormatShort renders diagnostics one per line, sorted by position:
//
//	error SEM3004 path:line:col message
//
// Spans in files unknown to fs are printed as byte ranges. Notes follow their
// diagnostic when includeNotes is set.
func FormatShort(diags []Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if len(diags) == 0 {
		return ""
	}
	sorted := make([]Diagnostic, len(diags))
	copy(sorted, diags)
	sort.SliceStable(sorted, func(i, j int) bool {
		pi, pj := sorted[i].Primary, sorted[j].Primary
		if pi.File != pj.File {
			return pi.File < pj.File
		}
		if pi.Start != pj.Start {
			return pi.Start < pj.Start
		}
		return sorted[i].Code < sorted[j].Code
	})
	lines := make([]string, 0, len(sorted))
	for _, d := range sorted {
		lines = append(lines, shortLine(strings.ToLower(d.Severity.String()), d.Code, d.Primary, d.Message, fs))
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			lines = append(lines, shortLine("note", d.Code, n.Span, n.Msg, fs))
		}
	}
	return strings.Join(lines, "\n")
}

func shortLine(label string, code Code, sp source.Span, msg string, fs *source.FileSet) string {
	return fmt.Sprintf("%s %s %s %s", label, code.ID(), Location(sp, fs), strings.Join(strings.Fields(msg), " "))
}

// Location formats sp as path:line:col when the file is known.
func Location(sp source.Span, fs *source.FileSet) string {
	if fs != nil {
		if start, _, ok := fs.Resolve(sp); ok {
			return fmt.Sprintf("%s:%d:%d", fs.Get(sp.File).Path, start.Line, start.Col)
		}
	}
	return fmt.Sprintf("#%d:%d-%d", sp.File, sp.Start, sp.End)
}
