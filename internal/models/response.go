package models

type SearchMetadata struct {
	Provider     string `json:"provider"`
	TotalResults int    `json:"total_results"`
	CacheHit     bool   `json:"cache_hit"`
	DemoFallback bool   `json:"demo_fallback,omitempty"`
	SearchTimeMs int64  `json:"search_time_ms"`
}

type SearchResponse struct {
	SearchCriteria SearchCriteria `json:"search_criteria"`
	Metadata       SearchMetadata `json:"metadata"`
	Flights        []FlightResult `json:"flights"`
}

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Code    int    `json:"code"`
}
