package get_available_slots

import (
	"context"
	"time"

	"github.com/m04kA/DCP-BookingEngine/internal/capacity"
	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	"github.com/m04kA/DCP-BookingEngine/pkg/types"
)

// ScheduleResolver интерфейс резолвера рабочих окон клиники
type ScheduleResolver interface {
	// EffectiveWindows возвращает итоговые доступные окна на дату
	EffectiveWindows(ctx context.Context, date time.Time) ([]domain.Window, error)
}

// TreatmentRepository интерфейс репозитория процедур
type TreatmentRepository interface {
	GetByID(ctx context.Context, treatmentID int64) (*domain.Treatment, error)
	GetReservationLimit(ctx context.Context, treatmentName string) (*domain.TreatmentReservationLimit, error)
}

// CapacityChecker интерфейс проверки занятости слотов
type CapacityChecker interface {
	// SlotOccupancy возвращает занятость слота в указанном режиме подсчета
	SlotOccupancy(ctx context.Context, treatmentName string, date time.Time, slot types.TimeSlot, mode capacity.CountMode) (int, error)
}

// TimeProvider интерфейс для получения текущего времени (для тестирования)
type TimeProvider interface {
	Now() time.Time
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// RealTimeProvider реальная реализация TimeProvider
type RealTimeProvider struct{}

func (p *RealTimeProvider) Now() time.Time {
	return time.Now()
}
