package scan

// Counter tallies complete records and consumed bytes across a byte stream.
//
// A stream's final record may lack a trailing LF. Total counts such a record
// exactly when at least one byte was consumed and the last byte is not an
// LF, so input ending exactly on a terminator gains nothing extra and empty
// input counts zero.
type Counter struct {
	scanner Scanner
	records int64
	bytes   int64
	last    byte
}

// Scan advances the counter by one byte and reports whether that byte
// terminates a record.
func (c *Counter) Scan(b byte) bool {
	c.bytes++
	c.last = b

	boundary := c.scanner.Scan(b)
	if boundary {
		c.records++
	}

	return boundary
}

// Records returns the number of terminator-delimited records seen so far.
func (c *Counter) Records() int64 {
	return c.records
}

// Total returns Records plus one for a trailing unterminated record, if any.
func (c *Counter) Total() int64 {
	if c.bytes > 0 && c.last != LF {
		return c.records + 1
	}

	return c.records
}

// Bytes returns the number of bytes consumed so far. Immediately after Scan
// reports a boundary, Bytes is the absolute stream offset of the byte
// following the terminating LF, which is what sparse index entries record.
func (c *Counter) Bytes() int64 {
	return c.bytes
}

// InsideQuotedField reports whether the underlying scanner sits inside an
// open quoted field.
func (c *Counter) InsideQuotedField() bool {
	return c.scanner.InsideQuotedField()
}
