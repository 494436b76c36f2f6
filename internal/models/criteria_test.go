package models

import "testing"

func TestNormalized(t *testing.T) {
	c := SearchCriteria{
		Date:        " 2024-01-02 ",
		Airline:     " ke",
		Origin:      "icn ",
		Destination: " nrt ",
		APIKey:      " secret ",
	}

	got := c.Normalized()

	if got.Date != "2024-01-02" {
		t.Errorf("date = %q, want untouched trimmed date", got.Date)
	}
	if got.Airline != "KE" || got.Origin != "ICN" || got.Destination != "NRT" {
		t.Errorf("codes = %q/%q/%q, want uppercased KE/ICN/NRT", got.Airline, got.Origin, got.Destination)
	}
	if got.APIKey != "secret" {
		t.Errorf("api key = %q, want trimmed but otherwise untouched", got.APIKey)
	}
}

func TestNormalizedLeavesDateAlone(t *testing.T) {
	c := SearchCriteria{Date: "02/01/2024"}
	if got := c.Normalized().Date; got != "02/01/2024" {
		t.Errorf("date = %q, normalization must not reshape dates", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		criteria SearchCriteria
		wantErr  error
	}{
		{"full", SearchCriteria{Date: "2024-01-02", Airline: "KE", Origin: "ICN", Destination: "NRT"}, nil},
		{"date plus one criterion", SearchCriteria{Date: "2024-01-02", Origin: "ICN"}, nil},
		{"missing date", SearchCriteria{Airline: "KE"}, ErrMissingDate},
		{"date only", SearchCriteria{Date: "2024-01-02"}, ErrMissingCriteria},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.criteria.Validate(); err != tt.wantErr {
				t.Errorf("Validate() = %v, want %v", err, tt.wantErr)
			}
		})
	}
}
