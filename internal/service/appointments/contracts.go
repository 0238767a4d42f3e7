package appointments

import (
	"context"

	"github.com/m04kA/DCP-BookingEngine/internal/domain"
)

// AppointmentRepository интерфейс репозитория записей
type AppointmentRepository interface {
	GetByID(ctx context.Context, appointmentID int64) (*domain.Appointment, error)
	GetPreferences(ctx context.Context, appointmentID int64) ([]*domain.AppointmentPreference, error)
	GetByPatientWithFilter(ctx context.Context, filter domain.PatientAppointmentsFilter) ([]*domain.Appointment, error)
	Cancel(ctx context.Context, appointmentID int64, cancelledBy domain.CancelActor, reason string) error
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
