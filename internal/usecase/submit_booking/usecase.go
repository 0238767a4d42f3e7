package submit_booking

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/DCP-BookingEngine/internal/capacity"
	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	"github.com/m04kA/DCP-BookingEngine/internal/infra/storage/treatment"
	"github.com/m04kA/DCP-BookingEngine/pkg/ptr"
)

// supersededReason причина системной отмены вытесненных заявок
const supersededReason = "superseded by a newer booking request"

// UseCase use case для создания заявки на запись
type UseCase struct {
	appointmentRepo AppointmentRepository
	treatmentRepo   TreatmentRepository
	checker         ConflictChecker
	txManager       TransactionManager
	notifier        Notifier
	timeProvider    TimeProvider
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
		timeProvider:    &RealTimeProvider{},
		logger:          logger,
	}
}

// Execute выполняет use case создания заявки на запись
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("SubmitBooking: patient=%s, treatment=%d, preferences=%d",
		req.PatientEmail, req.TreatmentID, len(req.Preferences))

	// 1. Валидация входных данных и парсинг предпочтений
	prefs, err := validateRequest(req)
	if err != nil {
		uc.logger.Warn("SubmitBooking: validation failed: %v", err)
		return nil, err
	}

	// 2. Получаем текущее время
	now := uc.timeProvider.Now()

	// 3. Получаем процедуру
	tr, err := uc.treatmentRepo.GetByID(ctx, req.TreatmentID)
	if err != nil {
		if errors.Is(err, treatment.ErrTreatmentNotFound) {
			uc.logger.Warn("SubmitBooking: treatment id=%d not found", req.TreatmentID)
			return nil, ErrTreatmentNotFound
		}
		uc.logger.Error("SubmitBooking: failed to get treatment id=%d: %v", req.TreatmentID, err)
		return nil, fmt.Errorf("%w: failed to get treatment: %w", ErrInternal, err)
	}

	// 4. Проверяем даты и длительность слотов
	if err := validatePreferences(prefs, tr.SlotDurationMinutes(), now); err != nil {
		uc.logger.Warn("SubmitBooking: preference validation failed: %v", err)
		return nil, err
	}

	// 5. Получаем лимиты для процедуры (дефолты, если не настроены)
	limit, err := uc.reservationLimit(ctx, tr.Name)
	if err != nil {
		return nil, err
	}

	// Переменные для хранения результата
	var (
		created         *domain.Appointment
		createdPrefs    []*domain.AppointmentPreference
		supersededCount int64
	)

	// 6. Выполняем операции с БД в сериализуемой транзакции
	err = uc.txManager.DoSerializable(ctx, func(txCtx context.Context) error {
		// 6.1. Каждое предпочтение не должно пересекаться с подтвержденной записью пациента
		for _, pref := range prefs {
			if err := uc.checker.CheckPatientConflict(txCtx, req.PatientEmail, pref.Date, pref.Slot); err != nil {
				var conflictErr *capacity.ConflictError
				if errors.As(err, &conflictErr) {
					uc.logger.Warn("SubmitBooking: patient=%s has confirmed appointment id=%d at %s %s",
						req.PatientEmail, conflictErr.ExistingAppointmentID,
						pref.Date.Format(domain.DateFormat), pref.Slot)
					return err
				}
				uc.logger.Error("SubmitBooking: conflict check failed: %v", err)
				return fmt.Errorf("%w: conflict check failed: %w", ErrInternal, err)
			}
		}

		// 6.2. Квота активных заявок пациента по процедуре (с блокировкой FOR UPDATE)
		superseded, err := uc.enforceQuota(txCtx, req.PatientEmail, tr, limit.MaxPendingOrConfirmedPerPatient)
		if err != nil {
			return err
		}
		supersededCount = superseded

		// 6.3. Каждое предпочтение должно проходить по вместимости слота
		for _, pref := range prefs {
			err := uc.checker.CheckCapacity(txCtx, tr.Name, pref.Date, pref.Slot,
				limit.MaxConcurrentPerSlot, capacity.ModeCommit)
			if err != nil {
				var capErr *capacity.CapacityExceededError
				if errors.As(err, &capErr) {
					uc.logger.Warn("SubmitBooking: slot %s %s is full (%d/%d)",
						pref.Date.Format(domain.DateFormat), pref.Slot, capErr.Current, capErr.Max)
					return err
				}
				uc.logger.Error("SubmitBooking: capacity check failed: %v", err)
				return fmt.Errorf("%w: capacity check failed: %w", ErrInternal, err)
			}
		}

		// 6.4. Создаем запись с предпочтениями
		appointment := &domain.Appointment{
			PatientEmail:  req.PatientEmail,
			PatientName:   req.PatientName,
			TreatmentID:   tr.ID,
			TreatmentName: tr.Name,
			Status:        domain.StatusPending,
		}

		preferences := make([]*domain.AppointmentPreference, 0, len(prefs))
		for i, pref := range prefs {
			preferences = append(preferences, &domain.AppointmentPreference{
				Rank:          i + 1,
				PreferredDate: pref.Date,
				Slot:          pref.Slot,
			})
		}

		created, err = uc.appointmentRepo.CreateWithPreferences(txCtx, appointment, preferences)
		if err != nil {
			uc.logger.Error("SubmitBooking: failed to create appointment: %v", err)
			return fmt.Errorf("%w: failed to create appointment: %w", ErrInternal, err)
		}
		createdPrefs = preferences

		return nil
	})
	if err != nil {
		return nil, err
	}

	uc.logger.Info("SubmitBooking: created appointment id=%d for patient=%s, superseded=%d",
		created.ID, req.PatientEmail, supersededCount)

	// 7. Отправляем уведомление после коммита (best-effort)
	delivered := true
	if err := uc.notifier.NotifyBookingSubmitted(ctx, created, createdPrefs); err != nil {
		uc.logger.Warn("SubmitBooking: notification for appointment id=%d not delivered: %v", created.ID, err)
		delivered = false
	}

	return buildResponse(created, createdPrefs, supersededCount, delivered), nil
}

// reservationLimit возвращает лимиты процедуры или дефолтные значения
func (uc *UseCase) reservationLimit(ctx context.Context, treatmentName string) (*domain.TreatmentReservationLimit, error) {
	limit, err := uc.treatmentRepo.GetReservationLimit(ctx, treatmentName)
	if err != nil {
		if errors.Is(err, treatment.ErrLimitNotFound) {
			uc.logger.Info("SubmitBooking: using default reservation limits for %q", treatmentName)
			return domain.DefaultReservationLimit(treatmentName), nil
		}
		uc.logger.Error("SubmitBooking: failed to get reservation limit for %q: %v", treatmentName, err)
		return nil, fmt.Errorf("%w: failed to get reservation limit: %w", ErrInternal, err)
	}
	return limit, nil
}

// enforceQuota применяет квоту активных заявок пациента. Если квота исчерпана
// pending-заявками, они вытесняются системной отменой; если подтвержденными
// записями — возвращается ErrQuotaExceeded.
func (uc *UseCase) enforceQuota(ctx context.Context, patientEmail string, tr *domain.Treatment, maxOutstanding int) (int64, error) {
	filter := domain.PatientAppointmentsFilter{
		PatientEmail:    patientEmail,
		TreatmentID:     ptr.Ptr(tr.ID),
		IncludeInactive: false,
	}

	outstanding, err := uc.appointmentRepo.GetByPatientWithFilter(ctx, filter)
	if err != nil {
		uc.logger.Error("SubmitBooking: failed to get outstanding appointments for patient=%s: %v", patientEmail, err)
		return 0, fmt.Errorf("%w: failed to get outstanding appointments: %w", ErrInternal, err)
	}

	pendingIDs := make([]int64, 0, len(outstanding))
	confirmedCount := 0
	for _, appt := range outstanding {
		switch appt.Status {
		case domain.StatusPending:
			pendingIDs = append(pendingIDs, appt.ID)
		case domain.StatusConfirmed:
			confirmedCount++
		}
	}

	// Квота применяется только при наличии pending-заявок: подтвержденные записи
	// без новых заявок не должны блокировать запись на следующий визит
	if len(pendingIDs) == 0 {
		return 0, nil
	}

	if len(outstanding) < maxOutstanding {
		return 0, nil
	}

	// Если одних подтвержденных записей уже хватает для исчерпания квоты,
	// вытеснение pending-заявок не освободит место
	if confirmedCount >= maxOutstanding {
		uc.logger.Warn("SubmitBooking: patient=%s has %d confirmed appointments for %q, quota=%d",
			patientEmail, confirmedCount, tr.Name, maxOutstanding)
		return 0, fmt.Errorf("%w: %d confirmed appointments for %q", ErrQuotaExceeded, confirmedCount, tr.Name)
	}

	superseded, err := uc.appointmentRepo.CancelManyPending(ctx, pendingIDs, domain.CancelActorSystem, supersededReason)
	if err != nil {
		uc.logger.Error("SubmitBooking: failed to supersede pending appointments for patient=%s: %v", patientEmail, err)
		return 0, fmt.Errorf("%w: failed to supersede pending appointments: %w", ErrInternal, err)
	}

	uc.logger.Info("SubmitBooking: superseded %d pending appointments for patient=%s, treatment=%q",
		superseded, patientEmail, tr.Name)

	return superseded, nil
}

// buildResponse собирает ответ из созданной записи
func buildResponse(appt *domain.Appointment, prefs []*domain.AppointmentPreference, superseded int64, delivered bool) *Response {
	prefResponses := make([]PreferenceResponse, 0, len(prefs))
	for _, pref := range prefs {
		prefResponses = append(prefResponses, PreferenceResponse{
			ID:   pref.ID,
			Rank: pref.Rank,
			Date: pref.PreferredDate.Format(domain.DateFormat),
			Slot: pref.Slot.String(),
		})
	}

	return &Response{
		AppointmentID:         appt.ID,
		Status:                string(appt.Status),
		TreatmentID:           appt.TreatmentID,
		TreatmentName:         appt.TreatmentName,
		Preferences:           prefResponses,
		SupersededCount:       superseded,
		NotificationDelivered: delivered,
		CreatedAt:             appt.CreatedAt,
	}
}
