package auth

import "errors"

// Sentinel errors for the magic-link session manager.
var (
	ErrInvalidEmail = errors.New("email not valid for this hub")
	ErrLinkInvalid  = errors.New("invalid or already used link")
	ErrLinkExpired  = errors.New("link has expired")
)
