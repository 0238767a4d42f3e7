package confirm_appointments_bulk

import (
	"context"

	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	"github.com/m04kA/DCP-BookingEngine/internal/usecase/confirm_appointment"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, appointmentID int64) (*domain.Appointment, error)
	GetPreferences(ctx context.Context, appointmentID int64) ([]*domain.AppointmentPreference, error)
}

// Confirmer интерфейс подтверждения одной записи. Каждый вызов выполняется
// в собственной транзакции, поэтому последующие записи в пачке видят
// занятость, созданную предыдущими.
type Confirmer interface {
	Execute(ctx context.Context, req *confirm_appointment.Request) (*confirm_appointment.Response, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
