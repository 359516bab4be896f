// Package scan locates every motif occurrence in gene records.
package scan

import (
	"go.uber.org/zap"

	"github.com/inodb/motif-mark/internal/gene"
	"github.com/inodb/motif-mark/internal/motif"
)

// MotifHits holds the match offsets of one motif in one record.
type MotifHits struct {
	Motif   motif.Motif
	Index   int   // declaration order of the motif
	Offsets []int // ascending; ranges may overlap
}

// Result is the scan outcome for a single record. Hits follow motif
// declaration order.
type Result struct {
	Record *gene.Record
	Hits   []MotifHits
}

// HitCount returns the total number of occurrences across all motifs.
func (r Result) HitCount() int {
	n := 0
	for _, h := range r.Hits {
		n += len(h.Offsets)
	}
	return n
}

// Scanner matches a fixed set of compiled patterns against records.
type Scanner struct {
	patterns []*motif.Pattern
	logger   *zap.Logger
}

// NewScanner creates a scanner for the given patterns, in declared order.
func NewScanner(patterns []*motif.Pattern) *Scanner {
	return &Scanner{
		patterns: patterns,
		logger:   zap.NewNop(),
	}
}

// SetLogger sets the logger for debug messages.
func (s *Scanner) SetLogger(l *zap.Logger) {
	s.logger = l
}

// Scan finds every occurrence of every pattern in the record's sequence.
// Intron and exon regions are both searched.
func (s *Scanner) Scan(rec *gene.Record) Result {
	res := Result{Record: rec, Hits: make([]MotifHits, len(s.patterns))}
	for i, p := range s.patterns {
		res.Hits[i] = MotifHits{
			Motif:   p.Motif,
			Index:   i,
			Offsets: motif.FindAll(p, rec.Sequence),
		}
	}
	s.logger.Debug("scanned record",
		zap.String("id", rec.ID),
		zap.Int("length", rec.Len()),
		zap.Int("hits", res.HitCount()))
	return res
}
