package model

type ForecastResponse struct {
	ForecastMetadata ForecastMetadata `json:"forecast_metadata"`
	ForecastResult   ForecastResult   `json:"forecast_result"`
}

type ForecastMetadata struct {
	ForecastID          string `json:"forecast_id"`
	WindowStart         string `json:"window_start"`
	WindowEnd           string `json:"window_end"`
	PopulationSize      int    `json:"population_size"`
	ForecastStartedAt   string `json:"forecast_started_at"`
	ForecastCompletedAt string `json:"forecast_completed_at"`
	ForecastDurationMs  int64  `json:"forecast_duration_ms"`
}

type ForecastResult struct {
	Messages []ForecastMessage `json:"messages"`
	Series   []SeriesPoint     `json:"series"`
	Peak     *SeriesPoint      `json:"peak"`
}

// SeriesPoint is one row of the output table.
type SeriesPoint struct {
	Date           string  `json:"date"`
	NetProbability float64 `json:"net_probability"`
}

type DayBreakdown struct {
	Date               string                  `json:"date"`
	NetProbability     float64                 `json:"net_probability"`
	ExpectedDeliveries float64                 `json:"expected_deliveries"`
	Individuals        []IndividualProbability `json:"individuals"`
}

type IndividualProbability struct {
	Label       string  `json:"label"`
	DueDate     string  `json:"due_date"`
	Offset      int     `json:"offset"`
	Scheduled   bool    `json:"scheduled"`
	Probability float64 `json:"probability"`
}

type HistogramBin struct {
	Date  string `json:"date"`
	Count int    `json:"count"`
}

type ErrorResponse struct {
	Status  int    `json:"status"`
	Message string `json:"message"`
}
