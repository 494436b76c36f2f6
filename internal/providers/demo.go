package providers

import (
	"context"
	"strconv"
	"strings"
	"time"

	"flightnum-service/internal/models"
)

const demoDelay = 500 * time.Millisecond

type demoFlight struct {
	number string
	time   string
}

// demoSchedule is keyed by "AIRLINE:ORIGIN-DESTINATION".
var demoSchedule = map[string][]demoFlight{
	"KE:ICN-NRT": {{"KE701", "09:00"}, {"KE703", "10:10"}, {"KE705", "14:30"}},
	"OZ:ICN-NRT": {{"OZ102", "09:00"}, {"OZ104", "12:20"}},
	"JL:ICN-HND": {{"JL090", "08:00"}, {"JL092", "12:05"}},
	"NH:ICN-HND": {{"NH862", "07:45"}, {"NH864", "12:30"}},
	"SQ:ICN-SIN": {{"SQ605", "23:15"}, {"SQ607", "09:00"}},
	"DL:ICN-LAX": {{"DL200", "20:40"}, {"DL202", "14:30"}},
	"KE:LAX-ICN": {{"KE012", "23:50"}, {"KE018", "11:30"}},
}

var demoDefault = []demoFlight{{"XX100", "10:00"}, {"XX102", "14:00"}}

// DemoProvider serves fixed sample data without any network I/O, with a short
// artificial delay to simulate provider latency. It backs both the
// user-selectable demo mode and the automatic no-credential fallback.
type DemoProvider struct {
	delay time.Duration
}

func NewDemoProvider() *DemoProvider {
	return &DemoProvider{delay: demoDelay}
}

func (p *DemoProvider) Name() Identity { return Demo }

func (p *DemoProvider) Search(ctx context.Context, c models.SearchCriteria) ([]models.FlightResult, error) {
	select {
	case <-time.After(p.delay):
	case <-ctx.Done():
		return nil, ctx.Err()
	}

	key := c.Airline + ":" + c.Origin + "-" + c.Destination
	base, ok := demoSchedule[key]
	if !ok {
		base = demoDefault
	}

	// The full list is returned when the numeric value of the 8-digit date is
	// odd; otherwise the last entry is dropped, never going below one.
	list := base
	if dateParity(c.Date) == 0 && len(base) > 1 {
		list = base[:len(base)-1]
	}

	results := make([]models.FlightResult, 0, len(list))
	for _, f := range list {
		results = append(results, models.FlightResult{
			FlightNumber:      f.number,
			Airline:           orDefault(c.Airline, "XX"),
			Origin:            orDefault(c.Origin, "ORG"),
			Destination:       orDefault(c.Destination, "DES"),
			DepartureTimeText: f.time,
		})
	}
	return results, nil
}

// dateParity reduces "2024-01-02" to 20240102 mod 2. Malformed dates count
// as odd.
func dateParity(date string) int64 {
	digits := strings.ReplaceAll(date, "-", "")
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return 1
	}
	return n % 2
}

func orDefault(s, fallback string) string {
	if s == "" {
		return fallback
	}
	return s
}
