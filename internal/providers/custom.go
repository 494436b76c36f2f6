package providers

import (
	"context"

	"flightnum-service/internal/models"
)

// CustomProvider is the extension point for an in-house data source. It is
// registered so the identity is selectable, but every search fails until an
// implementation replaces it.
type CustomProvider struct{}

func NewCustomProvider() *CustomProvider {
	return &CustomProvider{}
}

func (p *CustomProvider) Name() Identity { return Custom }

func (p *CustomProvider) Search(ctx context.Context, _ models.SearchCriteria) ([]models.FlightResult, error) {
	return nil, ErrNotImplemented
}
