package capacity

import (
	"context"
	"time"

	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	"github.com/m04kA/DCP-BookingEngine/pkg/types"
)

// AppointmentRepository интерфейс репозитория заявок для проверок занятости
type AppointmentRepository interface {
	// CountConfirmedBySlot считает подтверждённые заявки в (дата, слот) для вида лечения
	CountConfirmedBySlot(ctx context.Context, treatmentName string, date time.Time, slot types.TimeSlot) (int, error)
	// CountPendingPreferencesBySlot считает preferences pending-заявок, нацеленные на (дата, слот) для вида лечения
	CountPendingPreferencesBySlot(ctx context.Context, treatmentName string, date time.Time, slot types.TimeSlot) (int, error)
	// GetConfirmedByPatientAndSlot возвращает подтверждённую заявку пациента в (дата, слот)
	// независимо от вида лечения, или nil, если такой нет
	GetConfirmedByPatientAndSlot(ctx context.Context, patientEmail string, date time.Time, slot types.TimeSlot) (*domain.Appointment, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
