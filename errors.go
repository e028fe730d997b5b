package bump

import "errors"

var (
	ErrInvalidConfig = errors.New("bump: invalid config")
	ErrInvalidRef    = errors.New("bump: invalid entity reference")
	ErrListFull      = errors.New("bump: entity list full")
	ErrNotMounted    = errors.New("bump: character is not mounted")
)
