package domain

// Default configuration values
const (
	DefaultTreatmentDurationMinutes        = 30
	DefaultMaxConcurrentPerSlot            = 1
	DefaultMaxPendingOrConfirmedPerPatient = 2
)

// Business validation constants
const (
	MinPreferencesPerRequest = 1
	MaxPreferencesPerRequest = 3

	MinTreatmentDurationMinutes = 5
	MaxTreatmentDurationMinutes = 480 // 8 hours

	MaxCancellationReasonLength = 500
	MaxPatientNameLength        = 200
)

// Time format constants
const (
	TimeFormat = "15:04"      // HH:MM
	DateFormat = "2006-01-02" // YYYY-MM-DD
)

// InactiveStatuses список статусов неактивных заявок
// Используется при подсчёте занятости слотов
var InactiveStatuses = []AppointmentStatus{
	StatusCancelled,
}

// ActiveStatuses список статусов активных заявок
var ActiveStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}

// OutstandingStatuses статусы, учитываемые в квоте заявок пациента
// (pending + confirmed, отменённые заявки квоту не занимают)
var OutstandingStatuses = []AppointmentStatus{
	StatusPending,
	StatusConfirmed,
}
