// Package capacity проверяет занятость слотов и конфликты заявок пациента
// Обе проверки выполняются при показе слотов и повторно в момент фиксации:
// между показом и отправкой формы другие пациенты могли занять слот
package capacity

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	"github.com/m04kA/DCP-BookingEngine/pkg/types"
)

// CountMode режим подсчёта занятости слота
type CountMode int

const (
	// ModeDisplay оптимистичная оценка при показе слотов:
	// подтверждённые заявки + preferences чужих pending заявок на тот же слот
	ModeDisplay CountMode = iota
	// ModeCommit авторитетный подсчёт в момент фиксации:
	// только подтверждённые заявки - pending чужих пациентов ещё не претензия
	// на ресурс и не блокирует новую pending заявку
	ModeCommit
)

// Checker проверяет занятость слотов и конфликты пациента
type Checker struct {
	repo   AppointmentRepository
	logger Logger
}

// NewChecker создает checker поверх репозитория заявок
func NewChecker(repo AppointmentRepository, logger Logger) *Checker {
	return &Checker{repo: repo, logger: logger}
}

// SlotOccupancy возвращает текущую занятость слота для вида лечения
func (c *Checker) SlotOccupancy(ctx context.Context, treatmentName string, date time.Time, slot types.TimeSlot, mode CountMode) (int, error) {
	confirmed, err := c.repo.CountConfirmedBySlot(ctx, treatmentName, date, slot)
	if err != nil {
		return 0, fmt.Errorf("capacity: count confirmed occupants: %w", err)
	}

	if mode == ModeCommit {
		return confirmed, nil
	}

	pending, err := c.repo.CountPendingPreferencesBySlot(ctx, treatmentName, date, slot)
	if err != nil {
		return 0, fmt.Errorf("capacity: count pending preferences: %w", err)
	}

	return confirmed + pending, nil
}

// CheckCapacity проверяет, что слот не заполнен для вида лечения
// Возвращает *CapacityExceededError с текущей занятостью, если мест нет
func (c *Checker) CheckCapacity(ctx context.Context, treatmentName string, date time.Time, slot types.TimeSlot, maxPerSlot int, mode CountMode) error {
	occupancy, err := c.SlotOccupancy(ctx, treatmentName, date, slot, mode)
	if err != nil {
		return err
	}

	if occupancy >= maxPerSlot {
		c.logger.Warn("capacity: slot %s %s full for treatment=%s (%d/%d)",
			date.Format(domain.DateFormat), slot, treatmentName, occupancy, maxPerSlot)
		return &CapacityExceededError{
			TreatmentName: treatmentName,
			Date:          date,
			Slot:          slot,
			Current:       occupancy,
			Max:           maxPerSlot,
		}
	}

	return nil
}

// CheckPatientConflict проверяет, что пациент ещё не подтверждён в тот же (дата, слот)
// независимо от вида лечения: пациент не может быть подтверждён в двух местах сразу
// Pending заявки того же пациента конфликтом не считаются - эксклюзивность
// наступает только при подтверждении
func (c *Checker) CheckPatientConflict(ctx context.Context, patientEmail string, date time.Time, slot types.TimeSlot) error {
	existing, err := c.repo.GetConfirmedByPatientAndSlot(ctx, patientEmail, date, slot)
	if err != nil {
		return fmt.Errorf("capacity: lookup confirmed appointment: %w", err)
	}
	if existing == nil {
		return nil
	}

	c.logger.Warn("capacity: patient=%s already confirmed into %s %s (appointment id=%d)",
		patientEmail, date.Format(domain.DateFormat), slot, existing.ID)
	return &ConflictError{
		PatientEmail:          patientEmail,
		Date:                  date,
		Slot:                  slot,
		ExistingAppointmentID: existing.ID,
		ExistingTreatment:     existing.TreatmentName,
	}
}
