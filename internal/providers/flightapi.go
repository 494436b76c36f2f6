package providers

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"flightnum-service/internal/models"
	"flightnum-service/internal/timeutil"
)

const flightAPIBaseURL = "https://api.flightapi.io"

// FlightAPIProvider queries the FlightAPI.io airport schedule endpoint. The
// endpoint is airport-centric and paginated: the first page declares the page
// count, remaining pages are fetched concurrently and merged in page order,
// and the merged list is filtered down to the requested criteria locally.
type FlightAPIProvider struct {
	baseURL    string
	httpClient *http.Client
	now        func() time.Time
}

func NewFlightAPIProvider() *FlightAPIProvider {
	return &FlightAPIProvider{
		baseURL:    flightAPIBaseURL,
		httpClient: &http.Client{Timeout: 15 * time.Second},
		now:        time.Now,
	}
}

func (p *FlightAPIProvider) Name() Identity { return FlightAPI }

func (p *FlightAPIProvider) Search(ctx context.Context, c models.SearchCriteria) ([]models.FlightResult, error) {
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
		params.Set("day", strconv.Itoa(p.dayOffset(c.Date)))
	}

	first, err := p.fetchPage(ctx, c.APIKey, params, 0)
	if err != nil {
		return nil, err
	}

	sched := first.schedule(mode)
	items := sched.Data
	if total := sched.Page.Total; total > 1 {
		for _, page := range p.fetchRemainingPages(ctx, c.APIKey, params, mode, total) {
			items = append(items, page...)
		}
	}

	var results []models.FlightResult
	for _, item := range items {
		f := item.Flight
		if f == nil || !f.matches(c) {
			continue
		}
		if r, ok := f.toResult(c.Origin); ok {
			results = append(results, r)
		}
	}
	return dedupeAndSort(results), nil
}

// dayOffset maps a YYYY-MM-DD date onto the provider's relative day
// numbering, where today is 1. Past dates clamp to that minimum.
func (p *FlightAPIProvider) dayOffset(date string) int {
	now := p.now()
	target, err := time.ParseInLocation("2006-01-02", date, now.Location())
	if err != nil {
		return 1
	}
	diff := int(math.Round(target.Sub(timeutil.Midnight(now)).Hours() / 24))
	if diff < 0 {
		return 1
	}
	return diff + 1
}

func (p *FlightAPIProvider) fetchPage(ctx context.Context, key string, params url.Values, page int) (*fapiResponse, error) {
	q := url.Values{}
	for k, v := range params {
		q[k] = v
	}
	if page > 0 {
		q.Set("page", strconv.Itoa(page))
	}

	u := p.baseURL + "/schedule/" + url.PathEscape(key) + "?" + q.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("flightapi: creating request: %w", err)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("flightapi: request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{Status: resp.StatusCode}
	}

	var raw fapiResponse
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, fmt.Errorf("flightapi: decoding response: %w", err)
	}
	return &raw, nil
}

// fetchRemainingPages fires pages 2..total concurrently and returns their
// items in page order. A failed page contributes nothing; only the first page
// is fatal to the search.
func (p *FlightAPIProvider) fetchRemainingPages(ctx context.Context, key string, params url.Values, mode string, total int) [][]fapiItem {
	pages := make([][]fapiItem, total-1)
	var wg sync.WaitGroup
	for page := 2; page <= total; page++ {
		wg.Add(1)
		go func(page int) {
			defer wg.Done()
			raw, err := p.fetchPage(ctx, key, params, page)
			if err != nil {
				return
			}
			pages[page-2] = raw.schedule(mode).Data
		}(page)
	}
	wg.Wait()
	return pages
}

// FlightAPI.io JSON types.

type fapiResponse struct {
	Airport struct {
		PluginData struct {
			Schedule map[string]fapiSchedule `json:"schedule"`
		} `json:"pluginData"`
	} `json:"airport"`
}

func (r *fapiResponse) schedule(mode string) fapiSchedule {
	return r.Airport.PluginData.Schedule[mode]
}

type fapiSchedule struct {
	Data []fapiItem `json:"data"`
	Page struct {
		Total int `json:"total"`
	} `json:"page"`
}

type fapiItem struct {
	Flight *fapiFlight `json:"flight"`
}

type fapiFlight struct {
	Identification struct {
		Number struct {
			Default     string `json:"default"`
			Alternative string `json:"alternative"`
		} `json:"number"`
	} `json:"identification"`
	Airline *fapiCarrier `json:"airline"`
	Owner   *fapiCarrier `json:"owner"`
	Airport struct {
		Origin      *fapiAirport `json:"origin"`
		Destination *fapiAirport `json:"destination"`
	} `json:"airport"`
	Time struct {
		Scheduled fapiTimes `json:"scheduled"`
		Estimated fapiTimes `json:"estimated"`
		Real      fapiTimes `json:"real"`
	} `json:"time"`
}

type fapiCarrier struct {
	Code struct {
		IATA string `json:"iata"`
	} `json:"code"`
}

type fapiAirport struct {
	Code struct {
		IATA string `json:"iata"`
	} `json:"code"`
	Timezone struct {
		Offset *int64 `json:"offset"`
	} `json:"timezone"`
}

type fapiTimes struct {
	Departure *int64 `json:"departure"`
}

func (f *fapiFlight) airlineCode() string {
	if f.Airline != nil && f.Airline.Code.IATA != "" {
		return strings.ToUpper(f.Airline.Code.IATA)
	}
	if f.Owner != nil {
		return strings.ToUpper(f.Owner.Code.IATA)
	}
	return ""
}

func (f *fapiFlight) destinationCode() string {
	if f.Airport.Destination == nil {
		return ""
	}
	return strings.ToUpper(f.Airport.Destination.Code.IATA)
}

// departureEpoch prefers the scheduled instant, then estimated, then real.
func (f *fapiFlight) departureEpoch() *int64 {
	for _, ts := range []*int64{f.Time.Scheduled.Departure, f.Time.Estimated.Departure, f.Time.Real.Departure} {
		if ts != nil {
			return ts
		}
	}
	return nil
}

func (f *fapiFlight) originOffset() int64 {
	if f.Airport.Origin != nil && f.Airport.Origin.Timezone.Offset != nil {
		return *f.Airport.Origin.Timezone.Offset
	}
	return 0
}

// matches applies the airline, destination and calendar-day filters. The day
// comparison shifts the departure epoch by the origin airport's declared
// offset; an entry with no usable departure instant is excluded whenever a
// date filter is active.
func (f *fapiFlight) matches(c models.SearchCriteria) bool {
	if c.Airline != "" && f.airlineCode() != c.Airline {
		return false
	}
	if c.Destination != "" && f.destinationCode() != c.Destination {
		return false
	}
	if c.Date != "" {
		ts := f.departureEpoch()
		if ts == nil {
			return false
		}
		if timeutil.AtOffset(*ts, f.originOffset()).Format("2006-01-02") != c.Date {
			return false
		}
	}
	return true
}

// toResult projects the raw schedule entry onto the canonical shape. The
// airline code and bare alternative number are only concatenated when the
// provider gave no combined flight number.
func (f *fapiFlight) toResult(origin string) (models.FlightResult, bool) {
	number := strings.ToUpper(f.Identification.Number.Default)
	code := f.airlineCode()
	if number == "" && code != "" && f.Identification.Number.Alternative != "" {
		number = code + strings.ToUpper(f.Identification.Number.Alternative)
	}
	if number == "" {
		return models.FlightResult{}, false
	}

	r := models.FlightResult{
		FlightNumber: number,
		Airline:      code,
		Origin:       origin,
		Destination:  f.destinationCode(),
	}
	if ts := f.departureEpoch(); ts != nil {
		local := timeutil.AtOffset(*ts, f.originOffset())
		r.DepartureEpoch = ts
		r.DepartureTimeText = local.Format("15:04")
		r.DepartureTimeLocalISO = local.Format(time.RFC3339)
	}
	return r, true
}
