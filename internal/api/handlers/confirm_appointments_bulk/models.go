package confirm_appointments_bulk

// ConfirmAppointmentsBulkRequest HTTP request model
type ConfirmAppointmentsBulkRequest struct {
	AppointmentIDs []int64 `json:"appointmentIds"`
}
