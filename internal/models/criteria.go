package models

import "strings"

// SearchCriteria carries the raw user-entered search fields. The API key is
// an opaque credential forwarded to the active provider.
type SearchCriteria struct {
	Date        string `json:"date" query:"date"`
	Airline     string `json:"airline" query:"airline"`
	Origin      string `json:"origin" query:"origin"`
	Destination string `json:"destination" query:"destination"`
	APIKey      string `json:"api_key,omitempty" query:"api_key"`
}

// Normalized returns a copy with whitespace trimmed and code-like fields
// uppercased. The date is left untouched when already in YYYY-MM-DD form.
// Malformed values are not rejected here; that stays with the API layer.
func (c SearchCriteria) Normalized() SearchCriteria {
	return SearchCriteria{
		Date:        strings.TrimSpace(c.Date),
		Airline:     strings.ToUpper(strings.TrimSpace(c.Airline)),
		Origin:      strings.ToUpper(strings.TrimSpace(c.Origin)),
		Destination: strings.ToUpper(strings.TrimSpace(c.Destination)),
		APIKey:      strings.TrimSpace(c.APIKey),
	}
}

// Validate enforces the minimum any adapter can work with: a date plus at
// least one of airline, origin or destination. Per-provider requirements
// beyond that are enforced by the adapters themselves.
func (c SearchCriteria) Validate() error {
	if c.Date == "" {
		return ErrMissingDate
	}
	if c.Airline == "" && c.Origin == "" && c.Destination == "" {
		return ErrMissingCriteria
	}
	return nil
}

type ValidationError string

func (e ValidationError) Error() string {
	return string(e)
}

const (
	ErrMissingDate     ValidationError = "date is required"
	ErrMissingCriteria ValidationError = "at least one of airline, origin or destination is required"
)
