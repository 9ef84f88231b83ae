package calc

import (
	"errors"
	"strconv"
	"strings"
)

// cursor walks an expression byte by byte. Every token of the grammar is
// ASCII, so byte offsets are safe; any other byte simply fails to match.
type cursor struct {
	src string
	pos int
}

func (c *cursor) eof() bool {
	return c.pos >= len(c.src)
}

// peek returns the current byte or 0 at end of input.
func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	return c.src[c.pos]
}

func (c *cursor) peekAt(offset int) byte {
	if c.pos+offset >= len(c.src) {
		return 0
	}
	return c.src[c.pos+offset]
}

func (c *cursor) skipSpace() {
	for !c.eof() && isSpace(c.src[c.pos]) {
		c.pos++
	}
}

// consume skips whitespace and advances past b if it is next.
func (c *cursor) consume(b byte) bool {
	c.skipSpace()
	if c.peek() != b {
		return false
	}
	c.pos++
	return true
}

// consumeString skips whitespace and advances past s if it is next.
func (c *cursor) consumeString(s string) bool {
	c.skipSpace()
	if !strings.HasPrefix(c.src[c.pos:], s) {
		return false
	}
	c.pos += len(s)
	return true
}

// number scans digits with at most one decimal point, followed by an
// optional exponent. The exponent is taken only when [eE] is followed by an
// optional sign and at least one digit, so "2e" scans as 2 and leaves "e".
func (c *cursor) number() (float64, bool) {
	start := c.pos
	digits := 0
	seenDot := false
scan:
	for !c.eof() {
		ch := c.src[c.pos]
		switch {
		case isDigit(ch):
			digits++
		case ch == '.' && !seenDot:
			seenDot = true
		default:
			break scan
		}
		c.pos++
	}
	if digits == 0 {
		c.pos = start
		return 0, false
	}
	if ch := c.peek(); ch == 'e' || ch == 'E' {
		next := 1
		if sign := c.peekAt(1); sign == '+' || sign == '-' {
			next = 2
		}
		if isDigit(c.peekAt(next)) {
			c.pos += next
			for !c.eof() && isDigit(c.src[c.pos]) {
				c.pos++
			}
		}
	}
	v, err := strconv.ParseFloat(c.src[start:c.pos], 64)
	if err != nil && !errors.Is(err, strconv.ErrRange) {
		c.pos = start
		return 0, false
	}
	return v, true
}

// identifier scans [A-Za-z_][A-Za-z0-9_]*.
func (c *cursor) identifier() (string, bool) {
	if c.eof() || !isIdentStart(c.src[c.pos]) {
		return "", false
	}
	start := c.pos
	for !c.eof() && isIdentPart(c.src[c.pos]) {
		c.pos++
	}
	return c.src[start:c.pos], true
}

// nextNonSpace returns the first non-space byte at or after offset.
func (c *cursor) nextNonSpace(offset int) byte {
	for i := c.pos + offset; i < len(c.src); i++ {
		if !isSpace(c.src[i]) {
			return c.src[i]
		}
	}
	return 0
}

func isSpace(ch byte) bool {
	return ch == ' ' || ch == '\t' || ch == '\n' || ch == '\r' || ch == '\f' || ch == '\v'
}

func isDigit(ch byte) bool {
	return ch >= '0' && ch <= '9'
}

func isIdentStart(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}

func isIdentPart(ch byte) bool {
	return isIdentStart(ch) || isDigit(ch)
}
