// Package output provides motif hit output formatters.
package output

import (
	"bufio"
	"io"
	"strconv"
	"strings"

	"github.com/inodb/motif-mark/internal/scan"
)

// HitWriter defines the interface for writing scan results.
type HitWriter interface {
	WriteHeader() error
	Write(res scan.Result) error
	Flush() error
}

// TabWriter writes one tab-delimited line per motif occurrence.
type TabWriter struct {
	w       *bufio.Writer
	columns []string
}

// NewTabWriter creates a new tab-delimited writer.
func NewTabWriter(w io.Writer) *TabWriter {
	return &TabWriter{
		w: bufio.NewWriter(w),
		columns: []string{
			"#record_id",
			"motif",
			"motif_index",
			"start",
			"end",
			"in_exon",
			"overlaps_exon",
		},
	}
}

// WriteHeader writes the header line.
func (tw *TabWriter) WriteHeader() error {
	_, err := tw.w.WriteString(strings.Join(tw.columns, "\t") + "\n")
	return err
}

// Write writes every occurrence in res. Offsets are 0-based and end is
// exclusive. in_exon tests the start offset only; overlaps_exon is YES when
// any position of the hit falls in the exon. Motifs without hits produce
// no lines.
func (tw *TabWriter) Write(res scan.Result) error {
	rec := res.Record
	for _, h := range res.Hits {
		length := len(h.Motif)
		for _, off := range h.Offsets {
			values := []string{
				rec.ID,
				string(h.Motif),
				strconv.Itoa(h.Index),
				strconv.Itoa(off),
				strconv.Itoa(off + length),
				yesNo(rec.InExon(off)),
				yesNo(rec.OverlapsExon(off, off+length)),
			}
			if _, err := tw.w.WriteString(strings.Join(values, "\t") + "\n"); err != nil {
				return err
			}
		}
	}
	return nil
}

func yesNo(b bool) string {
	if b {
		return "YES"
	}
	return "NO"
}

// Flush flushes any buffered data to the underlying writer.
func (tw *TabWriter) Flush() error {
	return tw.w.Flush()
}
