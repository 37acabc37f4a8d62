package canvas

import "errors"

// ErrEmptySurface is returned when a surface would have no pixels.
var ErrEmptySurface = errors.New("surface has no area")
