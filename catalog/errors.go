package catalog

import "errors"

// Sentinel errors for catalog construction and resolution.
var (
	ErrUnknownAction   = errors.New("unknown action")
	ErrDuplicateAction = errors.New("duplicate action id")
	ErrEmptyActionID   = errors.New("empty action id")
)
