package model

type ForecastMessage struct {
	ID      int    `json:"id"`
	Level   string `json:"level"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

const (
	LevelCritical = "CRITICAL"
	LevelWarning  = "WARNING"
)

const (
	CodeEmptyRange         = "EMPTY_RANGE"
	CodeEmptyPopulation    = "EMPTY_POPULATION"
	CodeScheduledBeforeDue = "SCHEDULED_BEFORE_DUE"
)
