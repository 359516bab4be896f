package fasta

import (
	"bufio"
	"fmt"
	"io"
)

// ParseMotifs reads one motif per line. Lines are returned as read;
// motif.Normalize handles blanks and repeats.
func ParseMotifs(r io.Reader) ([]string, error) {
	var out []string
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		out = append(out, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan motifs: %w", err)
	}
	return out, nil
}

// ReadMotifFile reads the motif list at path.
func ReadMotifFile(path string) ([]string, error) {
	rc, err := Open(path)
	if err != nil {
		return nil, fmt.Errorf("open motif file: %w", err)
	}
	defer rc.Close()
	return ParseMotifs(rc)
}
