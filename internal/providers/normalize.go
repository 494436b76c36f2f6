package providers

import (
	"sort"
	"time"

	"flightnum-service/internal/models"
)

// dedupeAndSort applies the normalization rules shared by the live adapters:
// duplicates collapse on (flight number, departure time text) keeping the
// first entry seen, and results sort ascending by departure instant with
// timeless entries after all timed ones. Ties break on flight number so the
// output is deterministic regardless of provider order.
func dedupeAndSort(results []models.FlightResult) []models.FlightResult {
	seen := make(map[string]bool, len(results))
	out := make([]models.FlightResult, 0, len(results))
	for _, r := range results {
		key := r.FlightNumber + "|" + r.DepartureTimeText
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, r)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, aok := departureKey(out[i])
		b, bok := departureKey(out[j])
		if aok != bok {
			return aok
		}
		if aok && a != b {
			return a < b
		}
		return out[i].FlightNumber < out[j].FlightNumber
	})
	return out
}

// departureKey returns a comparable departure instant: the epoch when
// present, otherwise the HH:MM text mapped to minutes of day. A given
// adapter only ever emits one of the two forms, so the keys stay comparable
// within a result set.
func departureKey(r models.FlightResult) (int64, bool) {
	if r.DepartureEpoch != nil {
		return *r.DepartureEpoch, true
	}
	if r.DepartureTimeText != "" {
		if t, err := time.Parse("15:04", r.DepartureTimeText); err == nil {
			return int64(t.Hour()*60 + t.Minute()), true
		}
	}
	return 0, false
}
