package cancel_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/DCP-BookingEngine/internal/api/handlers"
	"github.com/m04kA/DCP-BookingEngine/internal/api/middleware"
	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	"github.com/m04kA/DCP-BookingEngine/internal/service/appointments"
	"github.com/m04kA/DCP-BookingEngine/internal/service/appointments/models"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgNotFound             = "запись не найдена"
	msgMissingAuth          = "отсутствуют данные авторизации"
	msgForbidden            = "доступ запрещен"
	msgCannotCancel         = "запись не может быть отменена в текущем статусе"
)

type Handler struct {
	service AppointmentService
	logger  Logger
}

func NewHandler(service AppointmentService, logger Logger) *Handler {
	return &Handler{
		service: service,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/appointments/{appointmentId}/cancel
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentIDStr := vars["appointmentId"]

	appointmentID, err := strconv.ParseInt(appointmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	var req CancelAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	// Администратор отменяет от имени клиники, пациент - от своего имени
	cancelReq := &models.CancelAppointmentRequest{Reason: req.CancellationReason}
	if adminID, ok := middleware.GetAdminID(r.Context()); ok {
		cancelReq.Actor = domain.CancelActorClinic
		cancelReq.RequesterEmail = adminID
	} else if email, ok := middleware.GetUserEmail(r.Context()); ok {
		cancelReq.Actor = domain.CancelActorPatient
		cancelReq.RequesterEmail = email
	} else {
		h.logger.Warn("PATCH /appointments/{id}/cancel - Missing auth headers")
		handlers.RespondUnauthorized(w, msgMissingAuth)
		return
	}

	cancelled, err := h.service.Cancel(r.Context(), appointmentID, cancelReq)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, appointments.ErrAccessDenied):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Access denied: appointment_id=%d, requester=%s",
				appointmentID, cancelReq.RequesterEmail)
			handlers.RespondForbidden(w, msgForbidden)

		case errors.Is(err, appointments.ErrCannotCancel):
			h.logger.Warn("PATCH /appointments/{id}/cancel - Cannot cancel: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgCannotCancel)

		default:
			h.logger.Error("PATCH /appointments/{id}/cancel - Failed to cancel: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondEngineError(w, err)
		}
		return
	}

	h.logger.Info("PATCH /appointments/{id}/cancel - Appointment cancelled: appointment_id=%d, by=%s",
		appointmentID, cancelReq.Actor)
	handlers.RespondJSON(w, http.StatusOK, cancelled)
}
