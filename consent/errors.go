package consent

import "errors"

// Sentinel errors for the consent store.
var (
	ErrNoRecord     = errors.New("no consent record")
	ErrNotRevocable = errors.New("consent is not revocable for this hub")
)
