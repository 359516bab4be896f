package motif

// Match reports whether window matches the pattern. The window must have
// the pattern's length; comparison is case-insensitive.
func (p *Pattern) Match(window string) bool {
	if len(window) != len(p.classes) {
		return false
	}
	// fast reject on the last position
	n := len(p.classes)
	if !p.classes[n-1].Has(window[n-1]) {
		return false
	}
	for i := 0; i < n-1; i++ {
		if !p.classes[i].Has(window[i]) {
			return false
		}
	}
	return true
}

// FindAll returns the start offset of every match of p in text, in
// ascending order. Scanning resumes one position after each match start,
// so overlapping occurrences are all reported. Returns nil when nothing
// matches.
func FindAll(p *Pattern, text string) []int {
	n := p.Len()
	if n == 0 || n > len(text) {
		return nil
	}
	var offsets []int
	for i := 0; i+n <= len(text); i++ {
		if p.Match(text[i : i+n]) {
			offsets = append(offsets, i)
		}
	}
	return offsets
}
