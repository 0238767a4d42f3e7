package submit_booking

import (
	"context"
	"time"

	"github.com/m04kA/DCP-BookingEngine/internal/capacity"
	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	"github.com/m04kA/DCP-BookingEngine/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// CreateWithPreferences создает запись вместе с предпочтениями атомарно
	CreateWithPreferences(ctx context.Context, appointment *domain.Appointment, preferences []*domain.AppointmentPreference) (*domain.Appointment, error)

	// GetByPatientWithFilter возвращает записи пациента по фильтру
	GetByPatientWithFilter(ctx context.Context, filter domain.PatientAppointmentsFilter) ([]*domain.Appointment, error)

	// CancelManyPending отменяет пачку pending-записей, возвращает число отмененных
	CancelManyPending(ctx context.Context, ids []int64, cancelledBy domain.CancelActor, reason string) (int64, error)
}

// TreatmentRepository интерфейс репозитория процедур
type TreatmentRepository interface {
	GetByID(ctx context.Context, treatmentID int64) (*domain.Treatment, error)
	GetReservationLimit(ctx context.Context, treatmentName string) (*domain.TreatmentReservationLimit, error)
}

// ConflictChecker интерфейс проверки вместимости и конфликтов
type ConflictChecker interface {
	// CheckCapacity проверяет вместимость слота, возвращает *capacity.CapacityExceededError при переполнении
	CheckCapacity(ctx context.Context, treatmentName string, date time.Time, slot types.TimeSlot, maxConcurrent int, mode capacity.CountMode) error

	// CheckPatientConflict проверяет пересечение с подтвержденной записью пациента
	CheckPatientConflict(ctx context.Context, patientEmail string, date time.Time, slot types.TimeSlot) error
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	// DoSerializable выполняет функцию в транзакции с уровнем изоляции SERIALIZABLE
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс отправки уведомлений пациенту
type Notifier interface {
	NotifyBookingSubmitted(ctx context.Context, appointment *domain.Appointment, preferences []*domain.AppointmentPreference) error
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
