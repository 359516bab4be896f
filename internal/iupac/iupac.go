// Package iupac provides the IUPAC nucleotide ambiguity code table.
package iupac

import (
	"fmt"
	"strings"
)

// Bases is a set of concrete nucleotides, one bit per base.
// T and U always share membership.
type Bases uint8

const (
	A Bases = 1 << iota
	C
	G
	T // T and U
)

// Each code maps to a 4-bit mask. U is folded into T.
var codeMap = map[byte]Bases{
	'A': A,
	'C': C,
	'G': G,
	'T': T,
	'U': T,
	'R': A | G,
	'Y': C | T,
	'S': C | G,
	'W': A | T,
	'K': G | T,
	'M': A | C,
	'B': C | G | T,
	'D': A | G | T,
	'H': A | C | T,
	'V': A | C | G,
	'N': A | C | G | T,
}

// codes lists the recognized symbols in a stable order.
const codes = "ACGTUBDHKMRSVWYN"

// UnknownCodeError reports a character outside the IUPAC nucleotide alphabet.
type UnknownCodeError struct {
	Code byte
}

func (e *UnknownCodeError) Error() string {
	return fmt.Sprintf("unknown IUPAC code %q", e.Code)
}

// Codes returns the 16 recognized ambiguity symbols.
func Codes() []byte {
	return []byte(codes)
}

// Expand returns the bases matched by an ambiguity code. Lookup is
// case-insensitive.
func Expand(code byte) (Bases, error) {
	b, ok := codeMap[upper(code)]
	if !ok {
		return 0, &UnknownCodeError{Code: code}
	}
	return b, nil
}

// BaseOf returns the single-base set for a sequence character, or 0 if the
// character is not A, C, G, T or U.
func BaseOf(c byte) Bases {
	switch upper(c) {
	case 'A':
		return A
	case 'C':
		return C
	case 'G':
		return G
	case 'T', 'U':
		return T
	}
	return 0
}

// Has reports whether the sequence character c is a member of the set.
func (b Bases) Has(c byte) bool {
	m := BaseOf(c)
	return m != 0 && b&m != 0
}

// String lists members in A, C, G, T, U order.
func (b Bases) String() string {
	var sb strings.Builder
	if b&A != 0 {
		sb.WriteByte('A')
	}
	if b&C != 0 {
		sb.WriteByte('C')
	}
	if b&G != 0 {
		sb.WriteByte('G')
	}
	if b&T != 0 {
		sb.WriteString("TU")
	}
	return sb.String()
}

func upper(c byte) byte {
	if c >= 'a' && c <= 'z' {
		c -= 'a' - 'A'
	}
	return c
}
