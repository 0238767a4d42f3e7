package domain

import "time"

// Treatment вид лечения, на который принимаются заявки
type Treatment struct {
	ID              int64
	Name            string
	DurationMinutes int
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// SlotDurationMinutes returns the treatment duration, falling back to the default
func (t *Treatment) SlotDurationMinutes() int {
	if t.DurationMinutes <= 0 {
		return DefaultTreatmentDurationMinutes
	}
	return t.DurationMinutes
}

// TreatmentReservationLimit лимиты бронирования для вида лечения
// Два независимых ограничения: сколько разных пациентов может занимать один слот
// и сколько незакрытых заявок может держать один пациент
type TreatmentReservationLimit struct {
	ID                              int64
	TreatmentName                   string
	MaxConcurrentPerSlot            int
	MaxPendingOrConfirmedPerPatient int
	CreatedAt                       time.Time
	UpdatedAt                       time.Time
}

// DefaultReservationLimit возвращает лимиты по умолчанию для вида лечения,
// у которого нет настроенной записи
func DefaultReservationLimit(treatmentName string) *TreatmentReservationLimit {
	return &TreatmentReservationLimit{
		TreatmentName:                   treatmentName,
		MaxConcurrentPerSlot:            DefaultMaxConcurrentPerSlot,
		MaxPendingOrConfirmedPerPatient: DefaultMaxPendingOrConfirmedPerPatient,
	}
}
