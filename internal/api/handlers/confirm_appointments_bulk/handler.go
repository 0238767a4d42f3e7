package confirm_appointments_bulk

import (
	"errors"
	"net/http"

	"github.com/m04kA/DCP-BookingEngine/internal/api/handlers"
	"github.com/m04kA/DCP-BookingEngine/internal/api/middleware"
	confirmBulk "github.com/m04kA/DCP-BookingEngine/internal/usecase/confirm_appointments_bulk"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingAdminID     = "отсутствует ID администратора"
)

type Handler struct {
	useCase ConfirmAppointmentsBulkUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmAppointmentsBulkUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/admin/appointments/confirm-bulk
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	adminID, ok := middleware.GetAdminID(r.Context())
	if !ok {
		h.logger.Warn("POST /admin/appointments/confirm-bulk - Missing admin ID")
		handlers.RespondUnauthorized(w, msgMissingAdminID)
		return
	}

	var req ConfirmAppointmentsBulkRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /admin/appointments/confirm-bulk - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmBulk.Request{
		AppointmentIDs: req.AppointmentIDs,
		AdminID:        adminID,
	})
	if err != nil {
		switch {
		case errors.Is(err, confirmBulk.ErrInvalidInput):
			h.logger.Warn("POST /admin/appointments/confirm-bulk - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /admin/appointments/confirm-bulk - Failed: admin=%s, error=%v", adminID, err)
			handlers.RespondEngineError(w, err)
		}
		return
	}

	h.logger.Info("POST /admin/appointments/confirm-bulk - Done: admin=%s, confirmed=%d, failed=%d",
		adminID, result.ConfirmedCount, result.FailedCount)
	handlers.RespondJSON(w, http.StatusOK, result)
}
