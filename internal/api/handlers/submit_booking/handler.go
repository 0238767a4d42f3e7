package submit_booking

import (
	"errors"
	"net/http"

	"github.com/m04kA/DCP-BookingEngine/internal/api/handlers"
	"github.com/m04kA/DCP-BookingEngine/internal/api/middleware"
	"github.com/m04kA/DCP-BookingEngine/internal/capacity"
	submitBooking "github.com/m04kA/DCP-BookingEngine/internal/usecase/submit_booking"
)

const (
	msgInvalidRequestBody = "некорректное тело запроса"
	msgMissingUserEmail   = "отсутствует email пациента"
	msgTreatmentNotFound  = "процедура не найдена"
	msgSlotFull           = "выбранный слот полностью занят"
	msgPatientConflict    = "у вас уже есть подтвержденная запись на этот слот"
	msgQuotaExceeded      = "превышен лимит активных записей на эту процедуру"
	msgInvalidTimeSlot    = "некорректный временной слот"
)

type Handler struct {
	useCase SubmitBookingUseCase
	logger  Logger
}

func NewHandler(useCase SubmitBookingUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle POST /api/v1/appointments
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	patientEmail, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		h.logger.Warn("POST /appointments - Missing user email")
		handlers.RespondUnauthorized(w, msgMissingUserEmail)
		return
	}

	var req SubmitBookingRequest
	if err := handlers.DecodeJSON(r, &req); err != nil {
		h.logger.Warn("POST /appointments - Invalid request body: %v", err)
		handlers.RespondBadRequest(w, msgInvalidRequestBody)
		return
	}

	result, err := h.useCase.Execute(r.Context(), req.ToUseCaseRequest(patientEmail))
	if err != nil {
		var capErr *capacity.CapacityExceededError
		var conflictErr *capacity.ConflictError

		switch {
		case errors.As(err, &capErr):
			h.logger.Warn("POST /appointments - Slot full: patient=%s, slot=%s", patientEmail, capErr.Slot)
			handlers.RespondError(w, http.StatusConflict, msgSlotFull)

		case errors.As(err, &conflictErr):
			h.logger.Warn("POST /appointments - Patient conflict: patient=%s, appointment_id=%d",
				patientEmail, conflictErr.ExistingAppointmentID)
			handlers.RespondError(w, http.StatusConflict, msgPatientConflict)

		case errors.Is(err, submitBooking.ErrQuotaExceeded):
			h.logger.Warn("POST /appointments - Quota exceeded: patient=%s", patientEmail)
			handlers.RespondError(w, http.StatusConflict, msgQuotaExceeded)

		case errors.Is(err, submitBooking.ErrTreatmentNotFound):
			h.logger.Warn("POST /appointments - Treatment not found: treatment_id=%d", req.TreatmentID)
			handlers.RespondNotFound(w, msgTreatmentNotFound)

		case errors.Is(err, submitBooking.ErrInvalidTimeSlot):
			h.logger.Warn("POST /appointments - Invalid time slot: patient=%s, error=%v", patientEmail, err)
			handlers.RespondBadRequest(w, msgInvalidTimeSlot)

		case errors.Is(err, submitBooking.ErrInvalidInput):
			h.logger.Warn("POST /appointments - Invalid input: patient=%s, error=%v", patientEmail, err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("POST /appointments - Failed to submit booking: patient=%s, error=%v", patientEmail, err)
			handlers.RespondEngineError(w, err)
		}
		return
	}

	h.logger.Info("POST /appointments - Booking submitted: appointment_id=%d, patient=%s, superseded=%d",
		result.AppointmentID, patientEmail, result.SupersededCount)
	handlers.RespondJSON(w, http.StatusCreated, result)
}
