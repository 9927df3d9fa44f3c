package clicklog

import "bytes"

// cursor is a read position over one log line. Rules advance pos on success
// and leave it at the start of their token on failure.
type cursor struct {
	buf []byte
	pos int
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.buf)
}

// at returns the byte at pos+off, or 0 past the end of the line.
func (c *cursor) at(off int) byte {
	if i := c.pos + off; i >= 0 && i < len(c.buf) {
		return c.buf[i]
	}
	return 0
}

// digits consumes a run of ASCII digits and returns it. The run may be empty.
func (c *cursor) digits() []byte {
	start := c.pos
	for c.pos < len(c.buf) && isDigit(c.buf[c.pos]) {
		c.pos++
	}
	return c.buf[start:c.pos]
}

// literal consumes lit if the line continues with it.
func (c *cursor) literal(lit string) bool {
	if !bytes.HasPrefix(c.buf[c.pos:], []byte(lit)) {
		return false
	}
	c.pos += len(lit)
	return true
}

// blankRest reports whether only whitespace remains.
func (c *cursor) blankRest() bool {
	return c.eof() || len(bytes.TrimSpace(c.buf[c.pos:])) == 0
}

func isDigit(b byte) bool {
	return b >= '0' && b <= '9'
}
