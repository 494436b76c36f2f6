package providers

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingCredential means a live provider was asked to search without
	// an API key.
	ErrMissingCredential = errors.New("an API key is required for this provider")

	// ErrNotImplemented is what the custom extension point always returns.
	ErrNotImplemented = errors.New("custom provider is not implemented")
)

// MissingFieldError identifies a provider-specific mandatory criterion that
// was absent from the search. No network call is made when it is returned.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return e.Field + " is required for this provider"
}

// TransportError is a non-success HTTP status from an outward call. Callers
// match on the status for friendlier messaging (401 credential, 429 rate
// limit).
type TransportError struct {
	Status int
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("provider returned HTTP %d", e.Status)
}

// ApplicationError is a 200-status response whose payload itself encodes
// failure, carrying the provider's own message text.
type ApplicationError struct {
	Type string
	Info string
}

func (e *ApplicationError) Error() string {
	if e.Info != "" {
		return e.Info
	}
	return "provider error"
}
