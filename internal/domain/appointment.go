package domain

import (
	"time"

	"github.com/m04kA/DCP-BookingEngine/pkg/types"
)

// AppointmentStatus represents the status of an appointment request
type AppointmentStatus string

const (
	StatusPending   AppointmentStatus = "pending"
	StatusConfirmed AppointmentStatus = "confirmed"
	StatusCancelled AppointmentStatus = "cancelled"
)

// CancelActor кто инициировал отмену заявки
type CancelActor string

const (
	CancelActorPatient CancelActor = "patient"
	CancelActorClinic  CancelActor = "clinic"
	// CancelActorSystem автоматическая отмена при вытеснении устаревших pending заявок
	CancelActorSystem CancelActor = "system"
)

// Appointment represents a booking request in the system
// Создается в статусе pending; переходит в confirmed (выбор администратора)
// или cancelled (пациент, администратор или автоматическое вытеснение)
// Оба конечных статуса терминальны
type Appointment struct {
	ID            int64
	PatientEmail  string
	PatientName   string
	TreatmentID   int64
	TreatmentName string
	Status        AppointmentStatus

	// Заполняются только при подтверждении, из одного из preferences
	ConfirmedDate *time.Time
	ConfirmedSlot *types.TimeSlot

	CancellationReason *string
	CancelledBy        *CancelActor
	CancelledAt        *time.Time

	CreatedAt time.Time
	UpdatedAt time.Time
}

// IsActive returns true if the appointment is in an active (non-cancelled) state
func (a *Appointment) IsActive() bool {
	return a.Status != StatusCancelled
}

// IsTerminal returns true if the appointment reached a terminal state
func (a *Appointment) IsTerminal() bool {
	return a.Status == StatusConfirmed || a.Status == StatusCancelled
}

// CanBeConfirmed returns true if the appointment can still be confirmed
func (a *Appointment) CanBeConfirmed() bool {
	return a.Status == StatusPending
}

// CanBeCancelledBy returns true if the given actor is allowed to cancel the appointment
// Pending заявку может отменить кто угодно; confirmed - только администратор клиники
// Автоматическое вытеснение (system) никогда не трогает confirmed заявки
func (a *Appointment) CanBeCancelledBy(actor CancelActor) bool {
	switch a.Status {
	case StatusPending:
		return true
	case StatusConfirmed:
		return actor == CancelActorClinic
	default:
		return false
	}
}

// IsConfirmedInto returns true if the appointment is confirmed into the given (date, slot)
func (a *Appointment) IsConfirmedInto(date time.Time, slot types.TimeSlot) bool {
	if a.Status != StatusConfirmed || a.ConfirmedDate == nil || a.ConfirmedSlot == nil {
		return false
	}
	return sameDay(*a.ConfirmedDate, date) && a.ConfirmedSlot.Equal(slot)
}

// PatientAppointmentsFilter фильтр для выборки заявок пациента
type PatientAppointmentsFilter struct {
	PatientEmail    string             // Обязательный параметр
	TreatmentID     *int64             // Фильтр по виду лечения (опционально)
	Status          *AppointmentStatus // Фильтр по статусу (опционально)
	IncludeInactive bool               // Включать ли отменённые заявки
}

// sameDay проверяет, что две даты относятся к одному и тому же дню
func sameDay(date1, date2 time.Time) bool {
	y1, m1, d1 := date1.Date()
	y2, m2, d2 := date2.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
