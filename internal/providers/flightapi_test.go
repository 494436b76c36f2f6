package providers

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"flightnum-service/internal/models"
)

func testFlightAPI(srv *httptest.Server, now time.Time) *FlightAPIProvider {
	p := NewFlightAPIProvider()
	p.now = func() time.Time { return now }
	if srv != nil {
		p.baseURL = srv.URL
		p.httpClient = srv.Client()
	}
	return p
}

func fapiPage(total int, items ...string) string {
	data := ""
	for i, item := range items {
		if i > 0 {
			data += ","
		}
		data += item
	}
	return fmt.Sprintf(`{"airport":{"pluginData":{"schedule":{"departures":{"data":[%s],"page":{"total":%d}}}}}}`, data, total)
}

func fapiItemJSON(number, airline, dest string, epoch int64, offset int64) string {
	return fmt.Sprintf(`{"flight":{
		"identification":{"number":{"default":%q}},
		"airline":{"code":{"iata":%q}},
		"airport":{
			"origin":{"code":{"iata":"ICN"},"timezone":{"offset":%d}},
			"destination":{"code":{"iata":%q}}
		},
		"time":{"scheduled":{"departure":%d}}
	}}`, number, airline, offset, dest, epoch)
}

func TestFlightAPIRequiresKey(t *testing.T) {
	p := testFlightAPI(nil, time.Now())

	_, err := p.Search(context.Background(), models.SearchCriteria{Origin: "ICN"})
	if !errors.Is(err, ErrMissingCredential) {
		t.Fatalf("expected ErrMissingCredential, got %v", err)
	}
}

func TestFlightAPIRequiresAnAirport(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
	}))
	defer srv.Close()

	p := testFlightAPI(srv, time.Now())

	_, err := p.Search(context.Background(), models.SearchCriteria{APIKey: "k", Airline: "KE"})

	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("expected MissingFieldError, got %v", err)
	}
	if atomic.LoadInt32(&calls) != 0 {
		t.Errorf("expected zero network calls, got %d", calls)
	}
}

func TestFlightAPIMergesPagesAndToleratesSecondaryFailure(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		switch r.URL.Query().Get("page") {
		case "":
			fmt.Fprint(w, fapiPage(3, fapiItemJSON("KE701", "KE", "NRT", 1704153600, 0)))
		case "2":
			fmt.Fprint(w, fapiPage(3, fapiItemJSON("KE703", "KE", "NRT", 1704157200, 0)))
		case "3":
			http.Error(w, "boom", http.StatusInternalServerError)
		default:
			t.Errorf("unexpected page %q", r.URL.Query().Get("page"))
		}
	}))
	defer srv.Close()

	p := testFlightAPI(srv, time.Now())

	got, err := p.Search(context.Background(), models.SearchCriteria{APIKey: "k", Origin: "ICN"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if atomic.LoadInt32(&calls) != 3 {
		t.Errorf("expected 3 requests (1 first page + 2 extra), got %d", calls)
	}
	if len(got) != 2 {
		t.Fatalf("expected entries from pages 1 and 2, got %d flights", len(got))
	}
	if got[0].FlightNumber != "KE701" || got[1].FlightNumber != "KE703" {
		t.Errorf("flights = %s, %s, want KE701, KE703", got[0].FlightNumber, got[1].FlightNumber)
	}
}

func TestFlightAPIFirstPageFailureIsFatal(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "denied", http.StatusUnauthorized)
	}))
	defer srv.Close()

	p := testFlightAPI(srv, time.Now())

	_, err := p.Search(context.Background(), models.SearchCriteria{APIKey: "k", Origin: "ICN"})

	var transport *TransportError
	if !errors.As(err, &transport) {
		t.Fatalf("expected TransportError, got %v", err)
	}
	if transport.Status != http.StatusUnauthorized {
		t.Errorf("status = %d, want 401", transport.Status)
	}
}

func TestFlightAPIDateFilterUsesOriginOffset(t *testing.T) {
	// 1704124800 is 2024-01-01T16:00Z: still Jan 1 in UTC, already Jan 2
	// 01:00 at a +09:00 airport. 1704225600 is Jan 3 at the same airport.
	const offset = 9 * 3600
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, fapiPage(1,
			fapiItemJSON("KE701", "KE", "NRT", 1704124800, offset),
			fapiItemJSON("KE999", "KE", "NRT", 1704225600, offset),
			`{"flight":{"identification":{"number":{"default":"KE888"}},"airline":{"code":{"iata":"KE"}}}}`,
		))
	}))
	defer srv.Close()

	p := testFlightAPI(srv, time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))

	got, err := p.Search(context.Background(), models.SearchCriteria{
		APIKey: "k", Date: "2024-01-02", Origin: "ICN",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("expected only the Jan 2 local departure, got %d flights", len(got))
	}
	if got[0].FlightNumber != "KE701" {
		t.Errorf("flight = %s, want KE701", got[0].FlightNumber)
	}
	if got[0].DepartureTimeText != "01:00" {
		t.Errorf("departure text = %s, want 01:00 airport-local", got[0].DepartureTimeText)
	}
}

func TestFlightAPIFiltersAirlineAndDestination(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, fapiPage(1,
			fapiItemJSON("KE701", "KE", "NRT", 1704153600, 0),
			fapiItemJSON("OZ102", "OZ", "NRT", 1704153600, 0),
			fapiItemJSON("KE017", "KE", "LAX", 1704153600, 0),
		))
	}))
	defer srv.Close()

	p := testFlightAPI(srv, time.Now())

	got, err := p.Search(context.Background(), models.SearchCriteria{
		APIKey: "k", Origin: "ICN", Airline: "KE", Destination: "NRT",
	})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].FlightNumber != "KE701" {
		t.Fatalf("expected just KE701, got %v", got)
	}
}

func TestFlightAPIConcatenatesAlternativeNumber(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, fapiPage(1,
			`{"flight":{"identification":{"number":{"default":"","alternative":"701"}},"airline":{"code":{"iata":"ke"}},"time":{"scheduled":{"departure":1704153600}}}}`,
		))
	}))
	defer srv.Close()

	p := testFlightAPI(srv, time.Now())

	got, err := p.Search(context.Background(), models.SearchCriteria{APIKey: "k", Origin: "ICN"})
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if len(got) != 1 || got[0].FlightNumber != "KE701" {
		t.Fatalf("expected concatenated KE701, got %v", got)
	}
}

func TestFlightAPIUsesArrivalsWhenOnlyDestinationGiven(t *testing.T) {
	var gotMode, gotIata string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotMode = r.URL.Query().Get("mode")
		gotIata = r.URL.Query().Get("iata")
		fmt.Fprint(w, `{"airport":{"pluginData":{"schedule":{"arrivals":{"data":[],"page":{"total":1}}}}}}`)
	}))
	defer srv.Close()

	p := testFlightAPI(srv, time.Now())

	if _, err := p.Search(context.Background(), models.SearchCriteria{APIKey: "k", Destination: "NRT"}); err != nil {
		t.Fatalf("search: %v", err)
	}
	if gotMode != "arrivals" || gotIata != "NRT" {
		t.Errorf("mode/iata = %s/%s, want arrivals/NRT", gotMode, gotIata)
	}
}

func TestDayOffset(t *testing.T) {
	now := time.Date(2024, 1, 10, 15, 0, 0, 0, time.UTC)
	p := testFlightAPI(nil, now)

	tests := []struct {
		date string
		want int
	}{
		{"2024-01-10", 1}, // today
		{"2024-01-11", 2},
		{"2024-01-12", 3},
		{"2024-01-01", 1}, // past clamps to the minimum
		{"garbage", 1},
	}
	for _, tt := range tests {
		if got := p.dayOffset(tt.date); got != tt.want {
			t.Errorf("dayOffset(%q) = %d, want %d", tt.date, got, tt.want)
		}
	}
}
