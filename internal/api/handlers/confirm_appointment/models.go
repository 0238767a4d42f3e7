package confirm_appointment

// ConfirmAppointmentRequest HTTP request model
type ConfirmAppointmentRequest struct {
	PreferenceID int64 `json:"preferenceId"`
}
