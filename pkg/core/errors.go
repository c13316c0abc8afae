package core

import "errors"

// ErrZeroVector is returned when a direction is requested from a vector of
// zero length, e.g. a degenerate ray direction or a point light sitting
// exactly on the shaded point.
var ErrZeroVector = errors.New("cannot normalize a zero vector")
