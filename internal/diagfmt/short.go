package diagfmt

import (
	"io"

	"tails/internal/diag"
	"tails/internal/source"
)

// Short writes one line per diagnostic.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, includeNotes bool) error {
	text := diag.FormatShort(bag.Items(), fs, includeNotes)
	if text == "" {
		return nil
	}
	_, err := io.WriteString(w, text+"\n")
	return err
}
