package get_available_slots

import "time"

// Request входные данные для получения доступных слотов
type Request struct {
	TreatmentID int64
	Date        time.Time
}

// Response результат с доступными слотами на дату
type Response struct {
	Date            string `json:"date"`
	TreatmentID     int64  `json:"treatmentId"`
	TreatmentName   string `json:"treatmentName"`
	DurationMinutes int    `json:"durationMinutes"`
	Slots           []Slot `json:"slots"`
}

// Slot доступный слот с информацией о занятости
type Slot struct {
	StartTime      string `json:"startTime"`
	EndTime        string `json:"endTime"`
	AvailableSpots int    `json:"availableSpots"`
	TotalSpots     int    `json:"totalSpots"`
}
