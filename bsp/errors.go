package bsp

import "errors"

var (
	ErrInvalidConfig   = errors.New("bsp: invalid config")
	ErrInvalidLeaf     = errors.New("bsp: invalid leaf")
	ErrLeafInserted    = errors.New("bsp: leaf already inserted")
	ErrLeafNotInserted = errors.New("bsp: leaf not inserted")
	ErrPoolExhausted   = errors.New("bsp: leaf pool exhausted")
	ErrTooManyLost     = errors.New("bsp: too many lost leaves")
)
