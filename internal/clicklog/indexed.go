package clicklog

import (
	"errors"

	"github.com/log0ymxm/parse-click-data/internal/domain"
)

var errNoColon = errors.New("expected ':'")

// parseIndexedValue consumes one `index:value` pair.
func parseIndexedValue(c *cursor) (domain.IndexedValue, error) {
	start := c.pos
	fail := func(cause error) (domain.IndexedValue, error) {
		c.pos = start
		return domain.IndexedValue{}, domain.NewParseError(domain.ErrMalformedIndexedValue, "indexed value", start, cause)
	}

	idx, err := parseUint32(c, "feature index")
	if err != nil {
		return fail(err)
	}
	if !c.literal(":") {
		return fail(errNoColon)
	}
	v, err := parseDecimal(c, "feature value")
	if err != nil {
		return fail(err)
	}

	return domain.IndexedValue{Index: idx, Value: v}, nil
}

// parseFeatureList consumes zero or more indexed values separated by single
// spaces. A space that is not followed by a digit ends the list and is left
// unconsumed for the caller.
func parseFeatureList(c *cursor) ([]domain.IndexedValue, error) {
	if !isDigit(c.at(0)) {
		return nil, nil
	}

	var list []domain.IndexedValue
	for {
		iv, err := parseIndexedValue(c)
		if err != nil {
			return nil, err
		}
		list = append(list, iv)

		if c.at(0) != ' ' || !isDigit(c.at(1)) {
			return list, nil
		}
		c.pos++
	}
}
