package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"flightnum-service/internal/models"
)

const aviationStackBaseURL = "https://api.aviationstack.com/v1"

// AviationStackProvider queries the flight-status endpoint with whatever
// subset of the criteria is present. The response already contains discrete
// flight entries, but only the flight number is dependable across plans, so
// no other FlightResult field is populated by this adapter.
type AviationStackProvider struct {
	baseURL    string
	httpClient *http.Client
}

func NewAviationStackProvider() *AviationStackProvider {
	return &AviationStackProvider{
		baseURL:    aviationStackBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *AviationStackProvider) Name() Identity { return AviationStack }

func (p *AviationStackProvider) Search(ctx context.Context, c models.SearchCriteria) ([]models.FlightResult, error) {
	if c.APIKey == "" {
		return nil, ErrMissingCredential
	}

	params := url.Values{}
	params.Set("access_key", c.APIKey)
	if c.Origin != "" {
		params.Set("dep_iata", c.Origin)
	}
	if c.Destination != "" {
		params.Set("arr_iata", c.Destination)
	}
	if c.Airline != "" {
		params.Set("airline_iata", c.Airline)
	}
	if c.Date != "" {
		params.Set("flight_date", c.Date)
	}
	params.Set("flight_status", "scheduled")

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/flights?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("aviationstack: creating request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("aviationstack: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Status: resp.StatusCode}
	}

	var raw avsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("aviationstack: decoding response: %w", err)
	}

	// The API reports some failures inside a 200-status body.
	if raw.Error != nil {
		if raw.Error.Type == "https_access_restricted" {
			return nil, &ApplicationError{
				Type: raw.Error.Type,
				Info: "HTTPS access is restricted on this aviationstack plan; use plain HTTP or upgrade the plan",
			}
		}
		info := raw.Error.Info
		if info == "" {
			info = "API error"
		}
		return nil, &ApplicationError{Type: raw.Error.Type, Info: info}
	}

	var results []models.FlightResult
	for _, item := range raw.Data {
		number := ""
		if item.Flight != nil {
			number = strings.ToUpper(item.Flight.IATA)
			if number == "" && item.Airline != nil && item.Airline.IATA != "" && item.Flight.Number != "" {
				number = strings.ToUpper(item.Airline.IATA + item.Flight.Number)
			}
		}
		if number == "" {
			continue
		}
		results = append(results, models.FlightResult{FlightNumber: number})
	}
	return dedupeAndSort(results), nil
}

// AviationStack JSON types.

type avsResponse struct {
	Data  []avsFlight `json:"data"`
	Error *avsError   `json:"error"`
}

type avsError struct {
	Type string `json:"type"`
	Info string `json:"info"`
}

type avsFlight struct {
	Flight  *avsFlightInfo `json:"flight"`
	Airline *avsAirline    `json:"airline"`
}

type avsFlightInfo struct {
	IATA   string `json:"iata"`
	Number string `json:"number"`
}

type avsAirline struct {
	IATA string `json:"iata"`
}
