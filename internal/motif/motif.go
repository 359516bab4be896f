// Package motif compiles IUPAC-coded motifs into exact match predicates and
// scans text for every occurrence, overlapping ones included.
package motif

import (
	"errors"
	"fmt"
	"strings"

	"github.com/inodb/motif-mark/internal/iupac"
)

// MaxMotifs is the number of legend slots and palette colours available.
const MaxMotifs = 5

// ErrEmptyMotif is returned when compiling a motif with no symbols.
var ErrEmptyMotif = errors.New("empty motif")

// Motif is a motif as typed by the user. Its text is also its legend label.
type Motif string

// TooManyMotifsError reports a motif set larger than MaxMotifs.
type TooManyMotifsError struct {
	Count int
}

func (e *TooManyMotifsError) Error() string {
	return fmt.Sprintf("too many motifs: got %d, at most %d supported", e.Count, MaxMotifs)
}

// Pattern is a compiled motif: one base class per position.
type Pattern struct {
	Motif   Motif
	classes []iupac.Bases
}

// Len returns the number of positions in the pattern.
func (p *Pattern) Len() int {
	return len(p.classes)
}

// Class returns the base class at position i.
func (p *Pattern) Class(i int) iupac.Bases {
	return p.classes[i]
}

// Compile converts a motif into a Pattern. Unknown symbols yield an error
// wrapping *iupac.UnknownCodeError.
func Compile(m Motif) (*Pattern, error) {
	if len(m) == 0 {
		return nil, ErrEmptyMotif
	}
	classes := make([]iupac.Bases, len(m))
	for i := 0; i < len(m); i++ {
		b, err := iupac.Expand(m[i])
		if err != nil {
			return nil, fmt.Errorf("motif %q position %d: %w", string(m), i+1, err)
		}
		classes[i] = b
	}
	return &Pattern{Motif: m, classes: classes}, nil
}

// CheckCount rejects motif sets with more than MaxMotifs entries.
func CheckCount(motifs []Motif) error {
	if len(motifs) > MaxMotifs {
		return &TooManyMotifsError{Count: len(motifs)}
	}
	return nil
}

// CompileAll checks the motif count and then compiles every motif in
// declared order. No pattern is compiled if the count check fails.
func CompileAll(motifs []Motif) ([]*Pattern, error) {
	if err := CheckCount(motifs); err != nil {
		return nil, err
	}
	patterns := make([]*Pattern, 0, len(motifs))
	for _, m := range motifs {
		p, err := Compile(m)
		if err != nil {
			return nil, err
		}
		patterns = append(patterns, p)
	}
	return patterns, nil
}

// Normalize trims raw motif strings and drops blanks and repeats, keeping
// the first declaration of each motif.
func Normalize(raw []string) []Motif {
	seen := make(map[string]bool, len(raw))
	out := make([]Motif, 0, len(raw))
	for _, s := range raw {
		s = strings.TrimSpace(s)
		if s == "" || seen[s] {
			continue
		}
		seen[s] = true
		out = append(out, Motif(s))
	}
	return out
}
