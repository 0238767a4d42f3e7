package get_available_slots

import (
	"context"
	"errors"
	"fmt"

	"github.com/m04kA/DCP-BookingEngine/internal/capacity"
	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	"github.com/m04kA/DCP-BookingEngine/internal/infra/storage/treatment"
	"github.com/m04kA/DCP-BookingEngine/internal/slots"
)

// UseCase use case для получения доступных слотов на дату
type UseCase struct {
	resolver      ScheduleResolver
	treatmentRepo TreatmentRepository
	checker       CapacityChecker
	timeProvider  TimeProvider
	logger        Logger
}

// NewUseCase создает новый экземпляр use case
func NewUseCase(
	resolver ScheduleResolver,
	treatmentRepo TreatmentRepository,
	checker CapacityChecker,
	logger Logger,
) *UseCase {
	return &UseCase{
		resolver:      resolver,
		treatmentRepo: treatmentRepo,
		checker:       checker,
		timeProvider:  &RealTimeProvider{},
		logger:        logger,
	}
}

// Execute выполняет use case получения доступных слотов
func (uc *UseCase) Execute(ctx context.Context, req *Request) (*Response, error) {
	uc.logger.Info("GetAvailableSlots: treatment=%d, date=%s",
		req.TreatmentID, req.Date.Format(domain.DateFormat))

	// 1. Валидация входных данных
	if err := validateRequest(req); err != nil {
		uc.logger.Warn("GetAvailableSlots: validation failed: %v", err)
		return nil, err
	}

	// 2. Проверяем, что дата не в прошлом
	if err := validateDate(req.Date, uc.timeProvider.Now()); err != nil {
		uc.logger.Warn("GetAvailableSlots: date validation failed: %v", err)
		return nil, err
	}

	// 3. Получаем процедуру
	tr, err := uc.treatmentRepo.GetByID(ctx, req.TreatmentID)
	if err != nil {
		if errors.Is(err, treatment.ErrTreatmentNotFound) {
			uc.logger.Warn("GetAvailableSlots: treatment id=%d not found", req.TreatmentID)
			return nil, ErrTreatmentNotFound
		}
		uc.logger.Error("GetAvailableSlots: failed to get treatment id=%d: %v", req.TreatmentID, err)
		return nil, fmt.Errorf("%w: failed to get treatment: %w", ErrInternal, err)
	}

	// 4. Получаем лимит одновременных записей для процедуры
	maxConcurrent := domain.DefaultMaxConcurrentPerSlot
	limit, err := uc.treatmentRepo.GetReservationLimit(ctx, tr.Name)
	if err != nil {
		if !errors.Is(err, treatment.ErrLimitNotFound) {
			uc.logger.Error("GetAvailableSlots: failed to get reservation limit for %q: %v", tr.Name, err)
			return nil, fmt.Errorf("%w: failed to get reservation limit: %w", ErrInternal, err)
		}
	} else {
		maxConcurrent = limit.MaxConcurrentPerSlot
	}

	// 5. Резолвим рабочие окна на дату
	windows, err := uc.resolver.EffectiveWindows(ctx, req.Date)
	if err != nil {
		uc.logger.Error("GetAvailableSlots: failed to resolve windows for date=%s: %v",
			req.Date.Format(domain.DateFormat), err)
		return nil, fmt.Errorf("%w: failed to resolve schedule: %w", ErrInternal, err)
	}

	// 6. Генерируем слоты из окон
	candidates := slots.Generate(windows, tr.SlotDurationMinutes())

	// 7. Фильтруем полностью занятые слоты
	result := make([]Slot, 0, len(candidates))
	for _, slot := range candidates {
		occupancy, err := uc.checker.SlotOccupancy(ctx, tr.Name, req.Date, slot, capacity.ModeDisplay)
		if err != nil {
			uc.logger.Error("GetAvailableSlots: failed to get occupancy for slot=%s: %v", slot, err)
			return nil, fmt.Errorf("%w: failed to get slot occupancy: %w", ErrInternal, err)
		}

		available := maxConcurrent - occupancy
		if available <= 0 {
			continue
		}

		result = append(result, Slot{
			StartTime:      slot.Start.String(),
			EndTime:        slot.End.String(),
			AvailableSpots: available,
			TotalSpots:     maxConcurrent,
		})
	}

	uc.logger.Info("GetAvailableSlots: treatment=%d, date=%s, slots=%d",
		req.TreatmentID, req.Date.Format(domain.DateFormat), len(result))

	return &Response{
		Date:            req.Date.Format(domain.DateFormat),
		TreatmentID:     tr.ID,
		TreatmentName:   tr.Name,
		DurationMinutes: tr.SlotDurationMinutes(),
		Slots:           result,
	}, nil
}
