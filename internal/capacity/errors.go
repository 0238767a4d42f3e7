package capacity

import (
	"fmt"
	"time"

	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	"github.com/m04kA/DCP-BookingEngine/pkg/types"
)

// CapacityExceededError возвращается, когда слот заполнен для вида лечения
// Несёт текущую и максимальную занятость, чтобы пользователь мог выбрать другой слот
type CapacityExceededError struct {
	TreatmentName string
	Date          time.Time
	Slot          types.TimeSlot
	Current       int
	Max           int
}

func (e *CapacityExceededError) Error() string {
	return fmt.Sprintf("capacity: slot %s %s is full for treatment %q (%d/%d)",
		e.Date.Format(domain.DateFormat), e.Slot, e.TreatmentName, e.Current, e.Max)
}

// ConflictError возвращается, когда пациент уже подтверждён в тот же (дата, слот)
// Несёт детали конфликтующей заявки
type ConflictError struct {
	PatientEmail          string
	Date                  time.Time
	Slot                  types.TimeSlot
	ExistingAppointmentID int64
	ExistingTreatment     string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("capacity: patient %s already has confirmed appointment id=%d (%s) at %s %s",
		e.PatientEmail, e.ExistingAppointmentID, e.ExistingTreatment,
		e.Date.Format(domain.DateFormat), e.Slot)
}
