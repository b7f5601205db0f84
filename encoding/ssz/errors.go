package ssz

import "errors"

// ErrMalformedSSZ is returned by Unmarshal when offsets are not
// monotonically non-decreasing, fall out of bounds, or the first offset
// does not equal the fixed-prefix length.
var ErrMalformedSSZ = errors.New("ssz: malformed encoding")

// ErrLengthMismatch is returned when Unmarshal receives data of the wrong
// length for a fixed-size schema.
var ErrLengthMismatch = errors.New("ssz: length mismatch")

// ErrListTooLong is returned when a value exceeds a list/bitlist schema's
// declared limit.
var ErrListTooLong = errors.New("ssz: list exceeds limit")

// ErrWrongNodeKind is returned when a view is asked to read/write a node
// shape incompatible with its schema.
var ErrWrongNodeKind = errors.New("ssz: node kind incompatible with schema")

// ErrOutOfRange is returned by indexed List accessors/setters given an
// index at or beyond the list value's current length.
var ErrOutOfRange = errors.New("ssz: index out of range")
