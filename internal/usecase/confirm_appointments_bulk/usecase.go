package confirm_appointments_bulk

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/DCP-BookingEngine/internal/capacity"
	appointmentRepo "github.com/m04kA/DCP-BookingEngine/internal/infra/storage/appointment"
	"github.com/m04kA/DCP-BookingEngine/internal/usecase/confirm_appointment"
)

// maxBulkSize максимальный размер пачки за один запрос
const maxBulkSize = 50

// UseCase use case для пакетного подтверждения записей. Записи подтверждаются
// последовательно, каждая в своей транзакции: при конкуренции за один слот
// первая запись занимает место, остальные получают отказ по вместимости.
type UseCase struct {
	appointmentRepo AppointmentRepository
	confirmer       Confirmer
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(appointmentRepo AppointmentRepository, confirmer Confirmer, logger Logger) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		confirmer:       confirmer,
		logger:          logger,
	}
}

// Execute выполняет use case пакетного подтверждения
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmAppointmentsBulk: appointments=%d, admin=%s", len(req.AppointmentIDs), req.AdminID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmAppointmentsBulk: validation failed: %v", err)
		return nil, err
	}

	resp := &Response{
		Results: make([]Result, 0, len(req.AppointmentIDs)),
	}

	// 2. Подтверждаем записи последовательно
	for _, id := range req.AppointmentIDs {
		result := uc.confirmOne(ctx, id, req.AdminID)
		if result.Status == ResultConfirmed {
			resp.ConfirmedCount++
		} else {
			resp.FailedCount++
		}
		resp.Results = append(resp.Results, result)
	}

	uc.logger.Info("ConfirmAppointmentsBulk: confirmed=%d, failed=%d", resp.ConfirmedCount, resp.FailedCount)

	return resp, nil
}

// confirmOne подтверждает одну запись, перебирая предпочтения в порядке
// приоритета: занятые слоты и конфликты пациента пропускаются, первая
// проходящая по проверкам дата закрепляется за записью.
func (uc *UseCase) confirmOne(ctx context.Context, appointmentID int64, adminID string) Result {
	appt, err := uc.appointmentRepo.GetByID(ctx, appointmentID)
	if err != nil {
		if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
			return failedResult(appointmentID, "appointment not found")
		}
		uc.logger.Error("ConfirmAppointmentsBulk: failed to get appointment id=%d: %v", appointmentID, err)
		return failedResult(appointmentID, "internal error")
	}

	if !appt.CanBeConfirmed() {
		return failedResult(appointmentID, fmt.Sprintf("appointment is not pending: current status is %s", appt.Status))
	}

	prefs, err := uc.appointmentRepo.GetPreferences(ctx, appointmentID)
	if err != nil {
		uc.logger.Error("ConfirmAppointmentsBulk: failed to get preferences for appointment id=%d: %v", appointmentID, err)
		return failedResult(appointmentID, "internal error")
	}
	if len(prefs) == 0 {
		return failedResult(appointmentID, "appointment has no preferences")
	}

	var lastErr error
	for _, pref := range prefs {
		confirmResp, err := uc.confirmer.Execute(ctx, &confirm_appointment.Request{
			AppointmentID: appointmentID,
			PreferenceID:  pref.ID,
			AdminID:       adminID,
		})
		if err == nil {
			return Result{
				AppointmentID: appointmentID,
				Status:        ResultConfirmed,
				PreferenceID:  pref.ID,
				ConfirmedDate: confirmResp.ConfirmedDate,
				ConfirmedSlot: confirmResp.ConfirmedSlot,
			}
		}

		lastErr = err

		// Занятый слот или конфликт пациента — пробуем следующее предпочтение
		var capErr *capacity.CapacityExceededError
		var conflictErr *capacity.ConflictError
		if errors.As(err, &capErr) || errors.As(err, &conflictErr) {
			uc.logger.Info("ConfirmAppointmentsBulk: appointment id=%d, preference id=%d rejected: %v",
				appointmentID, pref.ID, err)
			continue
		}

		// Остальные ошибки не лечатся сменой предпочтения
		break
	}

	uc.logger.Warn("ConfirmAppointmentsBulk: appointment id=%d not confirmed: %v", appointmentID, lastErr)
	return failedResult(appointmentID, lastErr.Error())
}

func failedResult(appointmentID int64, message string) Result {
	return Result{
		AppointmentID: appointmentID,
		Status:        ResultFailed,
		Error:         message,
	}
}
