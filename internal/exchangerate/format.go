package exchangerate

import (
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

// MajorCurrencies is the fixed priority order used by FormatSummary
var MajorCurrencies = []string{"USD", "EUR", "GBP", "JPY", "CAD", "AUD", "CHF", "CNY"}

// FormatSummary renders the base, the update time, the major currencies
// present in the snapshot (base excluded) and the total currency count.
func FormatSummary(s *Snapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Currency exchange rates (Base: %s)\n", s.Base())
	fmt.Fprintf(&b, "Last updated: %s\n\n", s.LastUpdate())

	b.WriteString("Major currencies:\n")
	for _, code := range MajorCurrencies {
		if code == s.Base() {
			continue
		}
		if rate, ok := s.Rate(code); ok {
			fmt.Fprintf(&b, "%s: %.4f\n", code, rate)
		}
	}

	fmt.Fprintf(&b, "\nTotal %d currencies available.", s.Len())
	b.WriteString("\nFor specific currency rates, you can ask about any currency code.")

	return b.String()
}

// FormatPair renders the rate from the snapshot base to the given code.
// A code absent from the snapshot is an ErrMalformedInput.
func FormatPair(s *Snapshot, to string) (string, error) {
	rate, ok := s.Rate(to)
	if !ok {
		return "", errors.Mark(errors.Newf("Currency '%s' not found in exchange rates", to), ErrMalformedInput)
	}

	return fmt.Sprintf("Exchange Rate: 1 %s = %.4f %s\nLast updated: %s", s.Base(), rate, to, s.LastUpdate()), nil
}
