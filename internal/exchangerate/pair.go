package exchangerate

import (
	"strings"

	"github.com/cockroachdb/errors"
)

// ErrPairFormat is returned by ParsePair when the input does not hold exactly two codes
var ErrPairFormat = errors.Mark(
	errors.New("Please provide currency pair in format 'FROM_CURRENCY to TO_CURRENCY'"),
	ErrMalformedInput,
)

// ParsePair splits inputs such as "USD to EUR", "usd TO eur" or "USD EUR"
// into two uppercase codes.
func ParsePair(input string) (from, to string, err error) {
	cleaned := strings.Trim(strings.TrimSpace(input), `'"`)
	parts := strings.Fields(strings.ReplaceAll(strings.ToUpper(cleaned), " TO ", " "))
	if len(parts) != 2 {
		return "", "", ErrPairFormat
	}
	return parts[0], parts[1], nil
}
