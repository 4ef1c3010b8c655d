// Package scan implements the quote-aware record-boundary scanner for
// Excel-style CSV streams.
//
// The scanner classifies every incoming byte as inside or outside a quoted
// field and recognizes the line feeds that truly terminate a record, as
// opposed to line feeds embedded inside quoted fields. Fields are never
// extracted or validated: the only question the scanner answers is "does
// this byte end a record", which is all that splitting and indexing need.
package scan

// Byte values with special meaning to the scanner.
const (
	// Quote is the field quoting character. A literal quote inside a quoted
	// field is escaped by doubling (`""`).
	Quote byte = '"'

	// LF terminates a record when it occurs outside a quoted field. CR gets
	// no special treatment anywhere, so CRLF terminators work because the LF
	// still triggers the boundary and the CR stays inside the record bytes.
	LF byte = '\n'
)

// State is the quoting context carried from one byte to the next.
//
// The grammar needs one level of ambiguity resolution, not true nesting:
// a quote seen inside a quoted field either closes the field or is the
// first half of an escaped `""` pair, and only the following byte decides
// which. The transient literal-quote resolution collapses inside Next and
// is never an observable state.
type State uint8

const (
	// StateStart is the resolved top-level state, outside any quoted field.
	// Only here does an LF terminate a record.
	StateStart State = iota

	// StateInQuote means the scanner is inside an open quoted field. Line
	// breaks and commas are ordinary content until the closing quote.
	StateInQuote

	// StateEndQuote means the previous byte was a quote seen while in
	// StateInQuote. It either closed the field or begins an escaped `""`;
	// the current byte resolves the ambiguity.
	StateEndQuote
)

// String returns a short name for the state, for logs and test failures.
func (s State) String() string {
	switch s {
	case StateStart:
		return "start"
	case StateInQuote:
		return "inquote"
	case StateEndQuote:
		return "endquote"
	default:
		return "invalid"
	}
}

// Next consumes one byte in state s and returns the successor state plus
// whether that byte terminates a record. It is a pure transition function:
// callable one byte at a time across arbitrarily many chunk splits, with no
// lookahead and no buffering beyond the state value itself.
//
// Transitions, in fixed priority order:
//
//  1. EndQuote + quote: escaped literal quote, the field stays open.
//  2. EndQuote + anything else: the previous quote closed the field; the
//     byte is re-evaluated from Start within the same step.
//  3. InQuote + quote: ambiguous, move to EndQuote.
//  4. InQuote + anything else: field content, never a boundary.
//  5. Start + quote: open a quoted field.
//  6. Start + LF: record boundary.
//  7. Start + anything else: ordinary byte.
func Next(s State, c byte) (State, bool) {
	switch s {
	case StateInQuote:
		if c == Quote {
			return StateEndQuote, false
		}

		return StateInQuote, false
	case StateEndQuote:
		if c == Quote {
			// The `""` pair resolved to a literal quote inside the field.
			return StateInQuote, false
		}
		// The previous quote closed the field; the current byte is handled
		// below exactly as if seen from StateStart.
	}

	switch c {
	case Quote:
		return StateInQuote, false
	case LF:
		return StateStart, true
	default:
		return StateStart, false
	}
}

// Scanner is the stateful wrapper around Next for feeding a stream one byte
// at a time. The zero value is ready to use and starts in StateStart. A
// Scanner holds O(1) state regardless of field or record length, so one
// value survives the whole input no matter how it is chunked.
type Scanner struct {
	state State
}

// Scan advances the scanner by one byte and reports whether that byte
// terminates a record.
func (s *Scanner) Scan(c byte) bool {
	next, boundary := Next(s.state, c)
	s.state = next

	return boundary
}

// State returns the current quoting state.
func (s *Scanner) State() State {
	return s.state
}

// InsideQuotedField reports whether the scanner sits inside an open quoted
// field, including the ambiguous just-saw-a-quote position. A split placed
// while this is true would cut a record in half.
func (s *Scanner) InsideQuotedField() bool {
	return s.state != StateStart
}

// Reset returns the scanner to StateStart.
func (s *Scanner) Reset() {
	s.state = StateStart
}
