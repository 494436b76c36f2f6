package models

// FlightResult is the canonical flight shape shared across all providers.
// FlightNumber is always present and uppercased; every other field is
// best-effort and stays empty when the active provider does not expose it.
type FlightResult struct {
	FlightNumber          string `json:"flight_number"`
	Airline               string `json:"airline,omitempty"`
	Origin                string `json:"origin,omitempty"`
	Destination           string `json:"destination,omitempty"`
	DepartureEpoch        *int64 `json:"departure_epoch,omitempty"`
	DepartureTimeLocalISO string `json:"departure_time_local,omitempty"`
	DepartureTimeText     string `json:"departure_time,omitempty"`
}
