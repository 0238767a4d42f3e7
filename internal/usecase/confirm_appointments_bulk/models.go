package confirm_appointments_bulk

// Request входные данные для пакетного подтверждения записей
type Request struct {
	AppointmentIDs []int64
	AdminID        string
}

// Response результат пакетного подтверждения
type Response struct {
	Results        []Result `json:"results"`
	ConfirmedCount int      `json:"confirmedCount"`
	FailedCount    int      `json:"failedCount"`
}

// Result исход подтверждения одной записи
type Result struct {
	AppointmentID int64  `json:"appointmentId"`
	Status        string `json:"status"`
	PreferenceID  int64  `json:"preferenceId,omitempty"`
	ConfirmedDate string `json:"confirmedDate,omitempty"`
	ConfirmedSlot string `json:"confirmedSlot,omitempty"`
	Error         string `json:"error,omitempty"`
}

// Статусы исходов подтверждения
const (
	ResultConfirmed = "confirmed"
	ResultFailed    = "failed"
)
