// Package clicklog parses lines of the Yahoo! Front Page click log.
// Pure functions: a line of bytes in, a domain.Visit out. No I/O.
//
// Line grammar:
//
//	<timestamp> " " <displayed_article> " " <user_clicked>
//	  " |user " <index:value>* ( (" ")? "|" <article_id> " " <index:value>* )*
//
// Lists of index:value pairs are separated by single spaces.
package clicklog

import (
	"errors"

	"github.com/log0ymxm/parse-click-data/internal/domain"
)

var (
	errNoUserMarker = errors.New("expected \" |user \"")
	errTrailing     = errors.New("unexpected trailing bytes")
)

// Parser turns click-log lines into visits. It holds no mutable state and is
// safe for concurrent use.
type Parser struct {
	dim int
}

// NewParser creates a Parser producing vectors of length dim.
// A non-positive dim falls back to domain.DefaultFeatureDimension.
func NewParser(dim int) *Parser {
	if dim <= 0 {
		dim = domain.DefaultFeatureDimension
	}
	return &Parser{dim: dim}
}

// Dimension returns the dense vector length produced by the parser.
func (p *Parser) Dimension() int {
	return p.dim
}

var defaultParser = NewParser(domain.DefaultFeatureDimension)

// ParseVisit parses one line with the default feature dimension.
func ParseVisit(day string, line []byte) (domain.Visit, error) {
	return defaultParser.ParseVisit(day, line)
}

// ParseVisit parses one complete, newline-stripped line. day is attached to the
// record as is. On failure the returned error is a *domain.ParseError and no
// partial Visit is returned.
func (p *Parser) ParseVisit(day string, line []byte) (domain.Visit, error) {
	fields, err := parseLine(line)
	if err != nil {
		return domain.Visit{}, err
	}

	articles := make([]domain.ArticleContext, len(fields.articles))
	for i, a := range fields.articles {
		articles[i] = domain.ArticleContext{
			ArticleID: a.id,
			Features:  Materialize(a.features, p.dim),
		}
	}

	return Assemble(
		day,
		fields.timestamp,
		fields.displayedArticle,
		fields.userClicked,
		Materialize(fields.user, p.dim),
		articles,
	), nil
}

type sparseArticle struct {
	id       string
	features []domain.IndexedValue
}

// lineFields holds a recognized line before materialization.
type lineFields struct {
	timestamp        uint32
	displayedArticle string
	userClicked      uint8
	user             []domain.IndexedValue
	articles         []sparseArticle
}

// parseLine recognizes the fields of a line in strict left-to-right order.
func parseLine(line []byte) (lineFields, error) {
	c := &cursor{buf: line}
	var f lineFields
	var err error

	if f.timestamp, err = parseUint32(c, "timestamp"); err != nil {
		return lineFields{}, err
	}
	if err := expectSpace(c, "separator after timestamp"); err != nil {
		return lineFields{}, err
	}

	if f.displayedArticle, err = parseDigits(c, "displayed article"); err != nil {
		return lineFields{}, err
	}
	if err := expectSpace(c, "separator after displayed article"); err != nil {
		return lineFields{}, err
	}

	if f.userClicked, err = parseUint8(c, "click flag"); err != nil {
		return lineFields{}, err
	}

	// " |user" closes the line when the user context is absent.
	markerStart := c.pos
	if !c.literal(" |user") || !(c.eof() || c.literal(" ")) {
		return lineFields{}, domain.NewParseError(domain.ErrMalformedLine, "user marker", markerStart, errNoUserMarker)
	}

	if f.user, err = parseFeatureList(c); err != nil {
		return lineFields{}, err
	}

	for !c.blankRest() {
		blockStart := c.pos
		if c.at(0) == ' ' && c.at(1) == '|' {
			c.pos++
		}
		if c.at(0) != '|' {
			return lineFields{}, domain.NewParseError(domain.ErrMalformedLine, "article block", blockStart, errTrailing)
		}

		id, features, err := parseArticle(c)
		if err != nil {
			return lineFields{}, err
		}
		f.articles = append(f.articles, sparseArticle{id: id, features: features})
	}

	return f, nil
}

func expectSpace(c *cursor, rule string) error {
	if c.literal(" ") {
		return nil
	}
	return domain.NewParseError(domain.ErrMalformedLine, rule, c.pos, errNoSeparator)
}
