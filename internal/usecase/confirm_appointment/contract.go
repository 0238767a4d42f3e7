package confirm_appointment

import (
	"context"
	"time"

	"github.com/m04kA/DCP-BookingEngine/internal/capacity"
	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	"github.com/m04kA/DCP-BookingEngine/pkg/types"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	// GetByID возвращает запись по идентификатору (FOR UPDATE внутри транзакции)
	GetByID(ctx context.Context, appointmentID int64) (*domain.Appointment, error)

	// GetPreferences возвращает предпочтения записи в порядке приоритета
	GetPreferences(ctx context.Context, appointmentID int64) ([]*domain.AppointmentPreference, error)

	// Confirm переводит pending-запись в confirmed с выбранной датой и слотом
	Confirm(ctx context.Context, appointmentID int64, date time.Time, slot types.TimeSlot) error
}

// TreatmentRepository интерфейс репозитория процедур
type TreatmentRepository interface {
	GetReservationLimit(ctx context.Context, treatmentName string) (*domain.TreatmentReservationLimit, error)
}

// ConflictChecker интерфейс проверки вместимости и конфликтов
type ConflictChecker interface {
	CheckCapacity(ctx context.Context, treatmentName string, date time.Time, slot types.TimeSlot, maxConcurrent int, mode capacity.CountMode) error
	CheckPatientConflict(ctx context.Context, patientEmail string, date time.Time, slot types.TimeSlot) error
}

// TransactionManager интерфейс менеджера транзакций
type TransactionManager interface {
	DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error
}

// Notifier интерфейс отправки уведомлений пациенту
type Notifier interface {
	NotifyBookingConfirmed(ctx context.Context, appointment *domain.Appointment) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
