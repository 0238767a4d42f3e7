package confirm_appointment

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/m04kA/DCP-BookingEngine/internal/api/handlers"
	"github.com/m04kA/DCP-BookingEngine/internal/api/middleware"
	"github.com/m04kA/DCP-BookingEngine/internal/capacity"
	confirmAppointment "github.com/m04kA/DCP-BookingEngine/internal/usecase/confirm_appointment"
)

const (
	msgInvalidAppointmentID = "некорректный ID записи"
	msgInvalidRequestBody   = "некорректное тело запроса"
	msgMissingAdminID       = "отсутствует ID администратора"
	msgNotFound             = "запись не найдена"
	msgPreferenceNotFound   = "предпочтение не принадлежит записи"
	msgNotPending           = "запись не находится в статусе ожидания"
	msgSlotFull             = "выбранный слот полностью занят"
	msgPatientConflict      = "у пациента уже есть подтвержденная запись на этот слот"
)

type Handler struct {
	useCase ConfirmAppointmentUseCase
	logger  Logger
}

func NewHandler(useCase ConfirmAppointmentUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle PATCH /api/v1/admin/appointments/{appointmentId}/confirm
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	appointmentIDStr := vars["appointmentId"]

	appointmentID, err := strconv.ParseInt(appointmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("PATCH /admin/appointments/{id}/confirm - Invalid appointment ID: %v", err)
		handlers.RespondBadRequest(w, msgInvalidAppointmentID)
		return
	}

	adminID, ok := middleware.GetAdminID(r.Context())
	if !ok {
		h.logger.Warn("PATCH /admin/appointments/{id}/confirm - Missing admin ID")
		handlers.RespondUnauthorized(w, msgMissingAdminID)
		return
	}

	var req ConfirmAppointmentRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("PATCH /admin/appointments/{id}/confirm - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &confirmAppointment.Request{
		AppointmentID: appointmentID,
		PreferenceID:  req.PreferenceID,
		AdminID:       adminID,
	})
	if err != nil {
		var capErr *capacity.CapacityExceededError
		var conflictErr *capacity.ConflictError

		switch {
		case errors.As(err, &capErr):
			h.logger.Warn("PATCH /admin/appointments/{id}/confirm - Slot full: appointment_id=%d, slot=%s",
				appointmentID, capErr.Slot)
			handlers.RespondError(w, http.StatusConflict, msgSlotFull)

		case errors.As(err, &conflictErr):
			h.logger.Warn("PATCH /admin/appointments/{id}/confirm - Patient conflict: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgPatientConflict)

		case errors.Is(err, confirmAppointment.ErrAppointmentNotFound):
			h.logger.Warn("PATCH /admin/appointments/{id}/confirm - Appointment not found: appointment_id=%d", appointmentID)
			handlers.RespondNotFound(w, msgNotFound)

		case errors.Is(err, confirmAppointment.ErrPreferenceNotFound):
			h.logger.Warn("PATCH /admin/appointments/{id}/confirm - Preference not found: appointment_id=%d, preference_id=%d",
				appointmentID, req.PreferenceID)
			handlers.RespondNotFound(w, msgPreferenceNotFound)

		case errors.Is(err, confirmAppointment.ErrNotPending):
			h.logger.Warn("PATCH /admin/appointments/{id}/confirm - Not pending: appointment_id=%d", appointmentID)
			handlers.RespondError(w, http.StatusConflict, msgNotPending)

		case errors.Is(err, confirmAppointment.ErrInvalidInput):
			h.logger.Warn("PATCH /admin/appointments/{id}/confirm - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("PATCH /admin/appointments/{id}/confirm - Failed to confirm: appointment_id=%d, error=%v",
				appointmentID, err)
			handlers.RespondEngineError(w, err)
		}
		return
	}

	h.logger.Info("PATCH /admin/appointments/{id}/confirm - Appointment confirmed: appointment_id=%d, admin=%s",
		appointmentID, adminID)
	handlers.RespondJSON(w, http.StatusOK, result)
}
