package clicklog

import (
	"errors"

	"github.com/log0ymxm/parse-click-data/internal/domain"
)

var (
	errNoMarker    = errors.New("expected '|'")
	errNoSeparator = errors.New("expected ' '")
)

// parseArticle consumes one `|<article_id> <index:value> ...` block.
// The feature list may be empty, and an id at the very end of the line is
// accepted without a trailing space.
func parseArticle(c *cursor) (string, []domain.IndexedValue, error) {
	start := c.pos

	if !c.literal("|") {
		return "", nil, domain.NewParseError(domain.ErrMalformedArticleBlock, "article marker", start, errNoMarker)
	}

	idStart := c.pos
	id := c.digits()
	if len(id) == 0 {
		c.pos = start
		return "", nil, domain.NewParseError(domain.ErrMalformedArticleBlock, "article id", idStart, errNoDigits)
	}
	articleID := string(id)

	if c.eof() {
		return articleID, nil, nil
	}
	if !c.literal(" ") {
		offset := c.pos
		c.pos = start
		return "", nil, domain.NewParseError(domain.ErrMalformedArticleBlock, "article id", offset, errNoSeparator)
	}

	features, err := parseFeatureList(c)
	if err != nil {
		c.pos = start
		return "", nil, err
	}
	return articleID, features, nil
}
