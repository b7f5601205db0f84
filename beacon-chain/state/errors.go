package state

import "errors"

// ErrNilInnerState is returned by any accessor or setter called against a
// State whose underlying tree has not been initialized.
var ErrNilInnerState = errors.New("state: nil inner state")

// ErrOutOfRange is returned by indexed accessors/setters given an index at
// or beyond the target list/vector's current length.
var ErrOutOfRange = errors.New("state: index out of range")
