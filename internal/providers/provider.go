package providers

import (
	"context"

	"flightnum-service/internal/models"
)

// Identity selects one adapter out of the closed provider set.
type Identity string

const (
	Demo          Identity = "demo"
	FlightAPI     Identity = "flightapi"
	CompSchedule  Identity = "compschedule"
	AviationStack Identity = "aviationstack"
	AirLabs       Identity = "airlabs"
	Custom        Identity = "custom"
)

// All lists every provider identity in the set.
func All() []Identity {
	return []Identity{Demo, FlightAPI, CompSchedule, AviationStack, AirLabs, Custom}
}

// Valid reports whether id names a known provider.
func (id Identity) Valid() bool {
	switch id {
	case Demo, FlightAPI, CompSchedule, AviationStack, AirLabs, Custom:
		return true
	}
	return false
}

// RequiresKey reports whether the provider cannot run without an API key.
// The custom extension point is excluded: it fails on its own terms rather
// than being silently replaced by the demo fallback.
func (id Identity) RequiresKey() bool {
	return id != Demo && id != Custom
}

// Provider is the canonical flight-search capability every adapter implements.
type Provider interface {
	Name() Identity
	Search(ctx context.Context, criteria models.SearchCriteria) ([]models.FlightResult, error)
}

// ProviderError tags an adapter failure with the provider it came from.
type ProviderError struct {
	Provider Identity
	Err      error
}

func (e *ProviderError) Error() string {
	return string(e.Provider) + ": " + e.Err.Error()
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

func NewProviderError(provider Identity, err error) *ProviderError {
	return &ProviderError{
		Provider: provider,
		Err:      err,
	}
}
