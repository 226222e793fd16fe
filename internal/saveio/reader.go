package saveio

import "github.com/talgya/iso-citysim/internal/cityworld"

// cursor is a forward-only reader over an in-memory byte slice. Every
// read is bounds-checked; a short read sets err once and all subsequent
// reads become no-ops, so callers can chain reads and check err at the end
// instead of threading error returns through every field.
type cursor struct {
	buf []byte
	pos int
	err error
}

func newCursor(buf []byte) *cursor { return &cursor{buf: buf} }

func (c *cursor) fail(msg string) {
	if c.err == nil {
		c.err = cityworld.NewFormatError(msg)
	}
}

func (c *cursor) need(n int) bool {
	if c.err != nil {
		return false
	}
	if c.pos+n > len(c.buf) {
		c.fail("truncated stream")
		return false
	}
	return true
}

func (c *cursor) bytes(n int) []byte {
	if !c.need(n) {
		return nil
	}
	b := c.buf[c.pos : c.pos+n]
	c.pos += n
	return b
}

func (c *cursor) byte() byte {
	b := c.bytes(1)
	if b == nil {
		return 0
	}
	return b[0]
}

func (c *cursor) uint16() uint16 {
	b := c.bytes(2)
	if b == nil {
		return 0
	}
	return getUint16(b)
}

func (c *cursor) uint32() uint32 {
	b := c.bytes(4)
	if b == nil {
		return 0
	}
	return getUint32(b)
}

func (c *cursor) uint64() uint64 {
	b := c.bytes(8)
	if b == nil {
		return 0
	}
	return getUint64(b)
}

func (c *cursor) float64() float64 {
	b := c.bytes(8)
	if b == nil {
		return 0
	}
	return getFloat64(b)
}

// blob reads a u32 length prefix followed by that many bytes.
func (c *cursor) blob() []byte {
	n := c.uint32()
	if c.err != nil {
		return nil
	}
	return c.bytes(int(n))
}

func (c *cursor) tile() cityworld.Tile {
	b := c.bytes(tileByteLen)
	if b == nil {
		return cityworld.Tile{}
	}
	return decodeTile(b)
}

func (c *cursor) remaining() []byte {
	return c.buf[c.pos:]
}
