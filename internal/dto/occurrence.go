package dto

// OccurrenceRequest captures query parameters for expanding an
// activity's schedule.
type OccurrenceRequest struct {
	ActivityID string
	StartDate  string
	EndDate    string
}

// Occurrence is one expanded calendar instance of a recurring activity,
// with timestamps pre-rendered in every exporter format.
type Occurrence struct {
	ID            string  `json:"id"`
	ActivityID    string  `json:"activity_id"`
	Title         string  `json:"title"`
	Description   string  `json:"description,omitempty"`
	Location      string  `json:"location,omitempty"`
	Color         string  `json:"color,omitempty"`
	Date          string  `json:"date"`
	StartTime     string  `json:"start_time"`
	EndTime       string  `json:"end_time"`
	Start         string  `json:"start"`
	End           string  `json:"end"`
	StartUTC      string  `json:"start_utc"`
	EndUTC        string  `json:"end_utc"`
	AllDay        bool    `json:"all_day"`
	IsException   bool    `json:"is_exception"`
	ExceptionID   *string `json:"exception_id,omitempty"`
	ExceptionName *string `json:"exception_name,omitempty"`
}
