// Package gene holds sequence records whose exon is written in upper case
// and whose introns are written in lower case.
package gene

import "fmt"

// NoExonFoundError reports a record whose sequence has no uppercase run,
// or more than one under strict validation. Runs is the number of runs
// found.
type NoExonFoundError struct {
	ID   string
	Runs int
}

func (e *NoExonFoundError) Error() string {
	id := e.ID
	if id == "" {
		id = "<unnamed>"
	}
	if e.Runs > 1 {
		return fmt.Sprintf("record %s: expected one exon, found %d uppercase runs", id, e.Runs)
	}
	return fmt.Sprintf("record %s: no exon found (no uppercase run)", id)
}

// Record is one gene: identifier, mixed-case sequence and exon span.
// Records are immutable once created.
type Record struct {
	ID         string
	Sequence   string
	ExonStart  int
	ExonLength int
}

// Len returns the full sequence length.
func (r *Record) Len() int {
	return len(r.Sequence)
}

// ExonEnd returns the exclusive end offset of the exon.
func (r *Record) ExonEnd() int {
	return r.ExonStart + r.ExonLength
}

// InExon reports whether offset lies within the exon span.
func (r *Record) InExon(offset int) bool {
	return offset >= r.ExonStart && offset < r.ExonEnd()
}

// OverlapsExon reports whether the half-open span [start, end) shares at
// least one position with the exon.
func (r *Record) OverlapsExon(start, end int) bool {
	return start < r.ExonEnd() && end > r.ExonStart
}

// Exon returns the exon text.
func (r *Record) Exon() string {
	return r.Sequence[r.ExonStart:r.ExonEnd()]
}

// NewRecord builds a record whose exon is the first uppercase run of seq.
func NewRecord(id, seq string) (*Record, error) {
	start, length, err := LocateExon(seq)
	if err != nil {
		return nil, &NoExonFoundError{ID: id}
	}
	return &Record{ID: id, Sequence: seq, ExonStart: start, ExonLength: length}, nil
}

// NewStrictRecord is NewRecord but also rejects a sequence with more than
// one uppercase run.
func NewStrictRecord(id, seq string) (*Record, error) {
	if n := CountRuns(seq); n != 1 {
		return nil, &NoExonFoundError{ID: id, Runs: n}
	}
	return NewRecord(id, seq)
}

// LocateExon returns the offset and length of the first maximal run of
// uppercase ASCII letters in seq.
func LocateExon(seq string) (start, length int, err error) {
	start = -1
	for i := 0; i < len(seq); i++ {
		if isUpper(seq[i]) {
			if start < 0 {
				start = i
			}
			continue
		}
		if start >= 0 {
			return start, i - start, nil
		}
	}
	if start < 0 {
		return 0, 0, &NoExonFoundError{}
	}
	return start, len(seq) - start, nil
}

// CountRuns returns the number of maximal uppercase runs in seq.
func CountRuns(seq string) int {
	runs := 0
	in := false
	for i := 0; i < len(seq); i++ {
		up := isUpper(seq[i])
		if up && !in {
			runs++
		}
		in = up
	}
	return runs
}

func isUpper(c byte) bool {
	return c >= 'A' && c <= 'Z'
}
