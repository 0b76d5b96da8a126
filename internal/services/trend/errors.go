package trend

import "errors"

// ErrInsufficientData marks computations whose minimum-length
// precondition failed. Callers check it with errors.Is instead of
// guessing from an empty slice.
var ErrInsufficientData = errors.New("trend: insufficient data")
