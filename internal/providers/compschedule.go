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

// CompScheduleProvider queries FlightAPI.io's compressed schedule endpoint.
// Unlike the paginated schedule endpoint it takes the calendar date directly
// and answers with a single array of page objects, so there is exactly one
// request per search. It is keyed strictly by departures-from-origin or
// arrivals-at-destination; when both are supplied the origin wins.
type CompScheduleProvider struct {
	baseURL    string
	httpClient *http.Client
}

func NewCompScheduleProvider() *CompScheduleProvider {
	return &CompScheduleProvider{
		baseURL:    flightAPIBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *CompScheduleProvider) Name() Identity { return CompSchedule }

func (p *CompScheduleProvider) Search(ctx context.Context, c models.SearchCriteria) ([]models.FlightResult, error) {
	if c.APIKey == "" {
		return nil, ErrMissingCredential
	}

	mode, iata := "departures", c.Origin
	if iata == "" {
		mode, iata = "arrivals", c.Destination
	}
	if iata == "" {
		return nil, &MissingFieldError{Field: "origin or destination"}
	}

	params := url.Values{}
	params.Set("mode", mode)
	params.Set("iata", iata)
	if c.Date != "" {
		params.Set("day", c.Date)
	}

	u := p.baseURL + "/compschedule/" + url.PathEscape(c.APIKey) + "?" + params.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("compschedule: creating request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("compschedule: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Status: resp.StatusCode}
	}

	var raw []compPage
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("compschedule: decoding response: %w", err)
	}

	var results []models.FlightResult
	for _, page := range raw {
		for _, item := range page.Airport.PluginData.Schedule[mode].Data {
			f := item.Flight
			if f == nil {
				continue
			}
			code := f.airlineCode()
			if c.Airline != "" && code != c.Airline {
				continue
			}
			number := strings.ToUpper(f.Identification.Number.Default)
			if number == "" {
				continue
			}
			results = append(results, models.FlightResult{
				FlightNumber:      number,
				Airline:           code,
				Origin:            c.Origin,
				Destination:       f.destinationCode(),
				DepartureTimeText: timeutil.SliceHHMM(f.Time.Scheduled.Departure),
			})
		}
	}
	return dedupeAndSort(results), nil
}

// The compschedule payload reuses the schedule plugin nesting but renders departure
// instants as fixed-format "YYYY-MM-DD HH:MM:SS" strings instead of epochs.

type compPage struct {
	Airport struct {
		PluginData struct {
			Schedule map[string]struct {
				Data []compItem `json:"data"`
			} `json:"schedule"`
		} `json:"pluginData"`
	} `json:"airport"`
}

type compItem struct {
	Flight *compFlight `json:"flight"`
}

type compFlight struct {
	Identification struct {
		Number struct {
			Default string `json:"default"`
		} `json:"number"`
	} `json:"identification"`
	Airline *fapiCarrier `json:"airline"`
	Owner   *fapiCarrier `json:"owner"`
	Airport struct {
		Destination *fapiAirport `json:"destination"`
	} `json:"airport"`
	Time struct {
		Scheduled struct {
			Departure string `json:"departure"`
		} `json:"scheduled"`
	} `json:"time"`
}

func (f *compFlight) airlineCode() string {
	if f.Airline != nil && f.Airline.Code.IATA != "" {
		return strings.ToUpper(f.Airline.Code.IATA)
	}
	if f.Owner != nil {
		return strings.ToUpper(f.Owner.Code.IATA)
	}
	return ""
}

func (f *compFlight) destinationCode() string {
	if f.Airport.Destination == nil {
		return ""
	}
	return strings.ToUpper(f.Airport.Destination.Code.IATA)
}
