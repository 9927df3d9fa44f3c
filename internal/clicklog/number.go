package clicklog

import (
	"errors"
	"strconv"

	"github.com/log0ymxm/parse-click-data/internal/domain"
)

var (
	errNoDigits = errors.New("expected digit")
	errNoPoint  = errors.New("expected '.'")
)

// parseDigits consumes an integer token and returns it as text.
// Used for article identifiers, which are never reinterpreted as numbers.
func parseDigits(c *cursor, rule string) (string, error) {
	start := c.pos
	span := c.digits()
	if len(span) == 0 {
		return "", domain.NewParseError(domain.ErrMalformedNumber, rule, start, errNoDigits)
	}
	return string(span), nil
}

// parseUint consumes an integer token that must fit in bitSize bits.
func parseUint(c *cursor, rule string, bitSize int) (uint64, error) {
	start := c.pos
	span := c.digits()
	if len(span) == 0 {
		return 0, domain.NewParseError(domain.ErrMalformedNumber, rule, start, errNoDigits)
	}
	n, err := strconv.ParseUint(string(span), 10, bitSize)
	if err != nil {
		c.pos = start
		return 0, domain.NewParseError(domain.ErrMalformedNumber, rule, start, err)
	}
	return n, nil
}

func parseUint32(c *cursor, rule string) (uint32, error) {
	n, err := parseUint(c, rule, 32)
	return uint32(n), err
}

func parseUint8(c *cursor, rule string) (uint8, error) {
	n, err := parseUint(c, rule, 8)
	return uint8(n), err
}

// parseDecimal consumes a decimal token: digits '.' digits.
func parseDecimal(c *cursor, rule string) (float64, error) {
	start := c.pos
	fail := func(cause error) (float64, error) {
		c.pos = start
		return 0, domain.NewParseError(domain.ErrMalformedNumber, rule, start, cause)
	}

	if len(c.digits()) == 0 {
		return fail(errNoDigits)
	}
	if !c.literal(".") {
		return fail(errNoPoint)
	}
	if len(c.digits()) == 0 {
		return fail(errNoDigits)
	}

	v, err := strconv.ParseFloat(string(c.buf[start:c.pos]), 64)
	if err != nil {
		return fail(err)
	}
	return v, nil
}
