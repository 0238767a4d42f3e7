package submit_booking

import "time"

// Request входные данные для создания заявки на запись
type Request struct {
	PatientEmail string
	PatientName  string
	TreatmentID  int64
	Preferences  []PreferenceInput
}

// PreferenceInput одно предпочтение пациента: дата и слот
type PreferenceInput struct {
	Date string
	Slot string
}

// Response результат создания заявки
type Response struct {
	AppointmentID         int64                `json:"appointmentId"`
	Status                string               `json:"status"`
	TreatmentID           int64                `json:"treatmentId"`
	TreatmentName         string               `json:"treatmentName"`
	Preferences           []PreferenceResponse `json:"preferences"`
	SupersededCount       int64                `json:"supersededCount,omitempty"`
	NotificationDelivered bool                 `json:"notificationDelivered"`
	CreatedAt             time.Time            `json:"createdAt"`
}

// PreferenceResponse сохраненное предпочтение
type PreferenceResponse struct {
	ID   int64  `json:"id"`
	Rank int    `json:"rank"`
	Date string `json:"date"`
	Slot string `json:"slot"`
}
