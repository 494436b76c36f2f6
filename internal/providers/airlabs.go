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
	"flightnum-service/internal/timeutil"
)

const airLabsBaseURL = "https://airlabs.co/api/v9"

// AirLabsProvider queries the schedules endpoint, which keys on the API key
// as a query parameter and returns schedules from roughly the current time
// onward, so the date criterion is not forwarded. Entries are flat and carry
// both a combined flight code and the raw airline/number pair.
type AirLabsProvider struct {
	baseURL    string
	httpClient *http.Client
}

func NewAirLabsProvider() *AirLabsProvider {
	return &AirLabsProvider{
		baseURL:    airLabsBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *AirLabsProvider) Name() Identity { return AirLabs }

func (p *AirLabsProvider) Search(ctx context.Context, c models.SearchCriteria) ([]models.FlightResult, error) {
	if c.APIKey == "" {
		return nil, ErrMissingCredential
	}

	params := url.Values{}
	params.Set("api_key", c.APIKey)
	if c.Origin != "" {
		params.Set("dep_iata", c.Origin)
	}
	if c.Destination != "" {
		params.Set("arr_iata", c.Destination)
	}
	if c.Airline != "" {
		params.Set("airline_iata", c.Airline)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.baseURL+"/schedules?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("airlabs: creating request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("airlabs: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Status: resp.StatusCode}
	}

	var raw alsResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("airlabs: decoding response: %w", err)
	}

	var results []models.FlightResult
	for _, item := range raw.Response {
		r, ok := item.toResult()
		if !ok {
			continue
		}
		results = append(results, r)
	}
	return dedupeAndSort(results), nil
}

// AirLabs JSON types.

type alsResponse struct {
	Response []alsFlight `json:"response"`
}

type alsFlight struct {
	FlightIATA   string `json:"flight_iata"`
	FlightNumber string `json:"flight_number"`
	DepTime      string `json:"dep_time"`
	DepTimeTS    *int64 `json:"dep_time_ts"`
	DepIATA      string `json:"dep_iata"`
	ArrIATA      string `json:"arr_iata"`
	AirlineIATA  string `json:"airline_iata"`
}

func (f *alsFlight) toResult() (models.FlightResult, bool) {
	var number string
	switch {
	case f.FlightIATA != "":
		number = strings.ToUpper(f.FlightIATA)
	case f.AirlineIATA != "" && f.FlightNumber != "":
		number = strings.ToUpper(f.AirlineIATA + f.FlightNumber)
	case f.FlightNumber != "":
		number = strings.ToUpper(f.FlightNumber)
	default:
		return models.FlightResult{}, false
	}

	r := models.FlightResult{
		FlightNumber:      number,
		Airline:           strings.ToUpper(f.AirlineIATA),
		Origin:            strings.ToUpper(f.DepIATA),
		Destination:       strings.ToUpper(f.ArrIATA),
		DepartureTimeText: timeutil.SliceHHMM(f.DepTime),
	}
	if f.DepTimeTS != nil {
		r.DepartureEpoch = f.DepTimeTS
	}
	return r, true
}
