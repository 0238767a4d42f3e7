package confirm_appointment

// Request входные данные для подтверждения записи
type Request struct {
	AppointmentID int64
	PreferenceID  int64
	AdminID       string
}

// Response результат подтверждения записи
type Response struct {
	AppointmentID         int64  `json:"appointmentId"`
	Status                string `json:"status"`
	PatientEmail          string `json:"patientEmail"`
	TreatmentName         string `json:"treatmentName"`
	ConfirmedDate         string `json:"confirmedDate"`
	ConfirmedSlot         string `json:"confirmedSlot"`
	NotificationDelivered bool   `json:"notificationDelivered"`
}
