package tileset

import (
	"errors"
	"fmt"
)

var (
	ErrDuplicateID         = errors.New("duplicate tile id")
	ErrConflictingTileRole = errors.New("tile is both a ramp and interactable")
	ErrMalformedProperty   = errors.New("malformed tile property")
)

// LoadError reports why a tileset was rejected. Kind is one of the Err* sentinels
// so callers can branch with errors.Is.
type LoadError struct {
	Kind     error
	TileID   int
	Property string
	Detail   string
}

func (e *LoadError) Error() string {
	msg := fmt.Sprintf("tileset: tile %d: %v", e.TileID, e.Kind)
	if e.Property != "" {
		msg += fmt.Sprintf(" (property %q)", e.Property)
	}
	if e.Detail != "" {
		msg += ": " + e.Detail
	}
	return msg
}

func (e *LoadError) Unwrap() error {
	return e.Kind
}

func malformed(id int, property, format string, args ...any) *LoadError {
	return &LoadError{
		Kind:     ErrMalformedProperty,
		TileID:   id,
		Property: property,
		Detail:   fmt.Sprintf(format, args...),
	}
}
