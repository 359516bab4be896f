// Package fasta reads gene FASTA files and motif lists.
package fasta

import (
	"bufio"
	"compress/gzip"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/inodb/motif-mark/internal/gene"
)

// Entry is one FASTA record with its sequence lines joined.
type Entry struct {
	ID       string // header up to the first space
	Sequence string
}

// Parse reads every record from r, in file order. Sequence lines are
// trimmed and concatenated; case is preserved.
func Parse(r io.Reader) ([]Entry, error) {
	scanner := bufio.NewScanner(r)
	// Increase buffer size for long sequences
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024) // 10MB max line

	var entries []Entry
	var current *Entry
	var seq strings.Builder
	lineNo := 0

	flush := func() {
		if current != nil {
			current.Sequence = seq.String()
			entries = append(entries, *current)
		}
		seq.Reset()
	}

	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, ">") {
			flush()
			current = &Entry{ID: parseID(line)}
			continue
		}
		if current == nil {
			return nil, fmt.Errorf("line %d: sequence data before first header", lineNo)
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan FASTA: %w", err)
	}
	flush()

	return entries, nil
}

// parseID returns the identifier of a ">id description" header line.
func parseID(header string) string {
	header = strings.TrimPrefix(header, ">")
	if idx := strings.IndexAny(header, " \t"); idx != -1 {
		return header[:idx]
	}
	return header
}

// SkipFunc decides whether an entry that failed record validation is
// dropped (true) or aborts the conversion (false).
type SkipFunc func(e Entry, err error) bool

// Records converts entries into gene records. Each sequence needs an
// uppercase exon run; with strict set, exactly one. When skip is non-nil
// and returns true for a failing entry, that entry is left out and
// conversion continues.
func Records(entries []Entry, strict bool, skip SkipFunc) ([]*gene.Record, error) {
	newRecord := gene.NewRecord
	if strict {
		newRecord = gene.NewStrictRecord
	}
	records := make([]*gene.Record, 0, len(entries))
	for _, e := range entries {
		rec, err := newRecord(e.ID, e.Sequence)
		if err != nil {
			if skip != nil && skip(e, err) {
				continue
			}
			return nil, err
		}
		records = append(records, rec)
	}
	return records, nil
}

// Open opens path for reading, transparently decompressing ".gz" files.
// A path of "-" reads standard input.
func Open(path string) (io.ReadCloser, error) {
	if path == "-" {
		return io.NopCloser(os.Stdin), nil
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	if !strings.HasSuffix(path, ".gz") {
		return f, nil
	}
	gz, err := gzip.NewReader(f)
	if err != nil {
		f.Close()
		return nil, fmt.Errorf("open gzip reader: %w", err)
	}
	return &gzipFile{Reader: gz, f: f}, nil
}

type gzipFile struct {
	*gzip.Reader
	f *os.File
}

func (g *gzipFile) Close() error {
	gerr := g.Reader.Close()
	if err := g.f.Close(); err != nil {
		return err
	}
	return gerr
}

// ReadFile parses the FASTA file at path.
func ReadFile(path string) ([]Entry, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("open FASTA file: %w", err)
	}
	defer rc.Close()
	return Parse(rc)
}
