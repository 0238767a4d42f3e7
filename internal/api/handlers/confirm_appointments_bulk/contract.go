package confirm_appointments_bulk

import (
	"context"

	confirmBulk "github.com/m04kA/DCP-BookingEngine/internal/usecase/confirm_appointments_bulk"
)

type ConfirmAppointmentsBulkUseCase interface {
	Execute(ctx context.Context, req *confirmBulk.Request) (*confirmBulk.Response, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
