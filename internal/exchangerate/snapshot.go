package exchangerate

import "strings"

// Snapshot is the rate table for one base currency as returned by a single
// API call. It is never mutated after construction.
type Snapshot struct {
	base       string
	rates      map[string]float64
	lastUpdate string
}

// NewSnapshot copies rates so the caller cannot mutate the snapshot later
func NewSnapshot(base string, rates map[string]float64, lastUpdate string) *Snapshot {
	copied := make(map[string]float64, len(rates))
	for code, rate := range rates {
		copied[code] = rate
	}
	return &Snapshot{base: base, rates: copied, lastUpdate: lastUpdate}
}

// Base is the reference currency of the snapshot
func (s *Snapshot) Base() string { return s.base }

// LastUpdate is the upstream timestamp string, "Unknown" when absent
func (s *Snapshot) LastUpdate() string {
	if s.lastUpdate == "" {
		return "Unknown"
	}
	return s.lastUpdate
}

// Rate returns the multiplier from one unit of Base to one unit of code
func (s *Snapshot) Rate(code string) (float64, bool) {
	r, ok := s.rates[code]
	return r, ok
}

// Len is the number of currencies in the table
func (s *Snapshot) Len() int { return len(s.rates) }

// NormalizeCode trims whitespace and surrounding quote characters and
// uppercases the result: `  "usd" ` becomes `USD`.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(strings.Trim(strings.TrimSpace(code), `'"`)))
}
