package confirm_appointment

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/DCP-BookingEngine/internal/capacity"
	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	appointmentRepo "github.com/m04kA/DCP-BookingEngine/internal/infra/storage/appointment"
	"github.com/m04kA/DCP-BookingEngine/internal/infra/storage/treatment"
)

// UseCase use case для подтверждения записи администратором клиники
type UseCase struct {
	appointmentRepo AppointmentRepository
	treatmentRepo   TreatmentRepository
	checker         ConflictChecker
	txManager       TransactionManager
	notifier        Notifier
	logger          Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	appointmentRepo AppointmentRepository,
	treatmentRepo TreatmentRepository,
	checker ConflictChecker,
	txManager TransactionManager,
	notifier Notifier,
	logger Logger,
) *UseCase {
	return &UseCase{
		appointmentRepo: appointmentRepo,
		treatmentRepo:   treatmentRepo,
		checker:         checker,
		txManager:       txManager,
		notifier:        notifier,
		logger:          logger,
	}
}

// Execute выполняет use case подтверждения записи
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("ConfirmAppointment: appointment=%d, preference=%d, admin=%s",
		req.AppointmentID, req.PreferenceID, req.AdminID)

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("ConfirmAppointment: validation failed: %v", err)
		return nil, err
	}

	// Переменная для хранения результата
	var confirmed *domain.Appointment

	// 2. Выполняем операции с БД в сериализуемой транзакции
	err := uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 2.1. Получаем запись с блокировкой (FOR UPDATE)
		appt, err := uc.appointmentRepo.GetByID(txCtx, req.AppointmentID)
		if err != nil {
			if errors.Is(err, appointmentRepo.ErrAppointmentNotFound) {
				uc.logger.Warn("ConfirmAppointment: appointment id=%d not found", req.AppointmentID)
				return ErrAppointmentNotFound
			}
			uc.logger.Error("ConfirmAppointment: failed to get appointment id=%d: %v", req.AppointmentID, err)
			return fmt.Errorf("%w: failed to get appointment: %w", ErrInternal, err)
		}

		// 2.2. Подтверждать можно только pending-записи
		if !appt.CanBeConfirmed() {
			uc.logger.Warn("ConfirmAppointment: appointment id=%d has status %s", appt.ID, appt.Status)
			return fmt.Errorf("%w: current status is %s", ErrNotPending, appt.Status)
		}

		// 2.3. Выбранное предпочтение должно принадлежать записи
		prefs, err := uc.appointmentRepo.GetPreferences(txCtx, appt.ID)
		if err != nil {
			uc.logger.Error("ConfirmAppointment: failed to get preferences for appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to get preferences: %w", ErrInternal, err)
		}

		var chosen *domain.AppointmentPreference
		for _, pref := range prefs {
			if pref.ID == req.PreferenceID {
				chosen = pref
				break
			}
		}
		if chosen == nil {
			uc.logger.Warn("ConfirmAppointment: preference id=%d not found for appointment id=%d",
				req.PreferenceID, appt.ID)
			return ErrPreferenceNotFound
		}

		// 2.4. Получаем лимиты для процедуры
		maxConcurrent := domain.DefaultMaxConcurrentPerSlot
		limit, err := uc.treatmentRepo.GetReservationLimit(txCtx, appt.TreatmentName)
		if err != nil {
			if !errors.Is(err, treatment.ErrLimitNotFound) {
				uc.logger.Error("ConfirmAppointment: failed to get reservation limit for %q: %v", appt.TreatmentName, err)
				return fmt.Errorf("%w: failed to get reservation limit: %w", ErrInternal, err)
			}
		} else {
			maxConcurrent = limit.MaxConcurrentPerSlot
		}

		// 2.5. Вместимость слота считается только по подтвержденным записям
		err = uc.checker.CheckCapacity(txCtx, appt.TreatmentName, chosen.PreferredDate, chosen.Slot,
			maxConcurrent, capacity.ModeCommit)
		if err != nil {
			var capErr *capacity.CapacityExceededError
			if errors.As(err, &capErr) {
				uc.logger.Warn("ConfirmAppointment: slot %s %s is full (%d/%d)",
					chosen.PreferredDate.Format(domain.DateFormat), chosen.Slot, capErr.Current, capErr.Max)
				return err
			}
			uc.logger.Error("ConfirmAppointment: capacity check failed: %v", err)
			return fmt.Errorf("%w: capacity check failed: %w", ErrInternal, err)
		}

		// 2.6. Пациент не должен иметь другой подтвержденной записи на этот слот
		err = uc.checker.CheckPatientConflict(txCtx, appt.PatientEmail, chosen.PreferredDate, chosen.Slot)
		if err != nil {
			var conflictErr *capacity.ConflictError
			if errors.As(err, &conflictErr) {
				uc.logger.Warn("ConfirmAppointment: patient=%s already confirmed into %s %s (appointment id=%d)",
					appt.PatientEmail, chosen.PreferredDate.Format(domain.DateFormat), chosen.Slot,
					conflictErr.ExistingAppointmentID)
				return err
			}
			uc.logger.Error("ConfirmAppointment: conflict check failed: %v", err)
			return fmt.Errorf("%w: conflict check failed: %w", ErrInternal, err)
		}

		// 2.7. Подтверждаем запись
		if err := uc.appointmentRepo.Confirm(txCtx, appt.ID, chosen.PreferredDate, chosen.Slot); err != nil {
			if errors.Is(err, appointmentRepo.ErrNotPending) {
				return fmt.Errorf("%w: appointment was modified concurrently", ErrNotPending)
			}
			uc.logger.Error("ConfirmAppointment: failed to confirm appointment id=%d: %v", appt.ID, err)
			return fmt.Errorf("%w: failed to confirm appointment: %w", ErrInternal, err)
		}

		appt.Status = domain.StatusConfirmed
		appt.ConfirmedDate = &chosen.PreferredDate
		appt.ConfirmedSlot = &chosen.Slot
		confirmed = appt

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("ConfirmAppointment: appointment id=%d confirmed into %s %s by admin=%s",
		confirmed.ID, confirmed.ConfirmedDate.Format(domain.DateFormat), confirmed.ConfirmedSlot, req.AdminID)

	// 3. Отправляем уведомление после коммита (best-effort)
	delivered := true
	if err := uc.notifier.NotifyBookingConfirmed(ctx, confirmed); err != nil {
		uc.logger.Warn("ConfirmAppointment: notification for appointment id=%d not delivered: %v", confirmed.ID, err)
		delivered = false
	}

	return &Response{
		AppointmentID:         confirmed.ID,
		Status:                string(confirmed.Status),
		PatientEmail:          confirmed.PatientEmail,
		TreatmentName:         confirmed.TreatmentName,
		ConfirmedDate:         confirmed.ConfirmedDate.Format(domain.DateFormat),
		ConfirmedSlot:         confirmed.ConfirmedSlot.String(),
		NotificationDelivered: delivered,
	}, nil
}
