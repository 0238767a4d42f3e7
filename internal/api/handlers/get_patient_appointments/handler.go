package get_patient_appointments

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/m04kA/DCP-BookingEngine/internal/api/handlers"
	"github.com/m04kA/DCP-BookingEngine/internal/api/middleware"
	"github.com/m04kA/DCP-BookingEngine/internal/service/appointments"
	"github.com/m04kA/DCP-BookingEngine/internal/service/appointments/models"
)

const (
	msgMissingUserEmail   = "отсутствует email пациента"
	msgInvalidTreatmentID = "некорректный treatmentId"
	msgInvalidStatus      = "некорректный статус"
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

// Handle GET /api/v1/patients/appointments?status=pending&treatmentId=N&includeInactive=true
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	email, ok := middleware.GetUserEmail(r.Context())
	if !ok {
		h.logger.Warn("GET /patients/appointments - Missing user email")
		handlers.RespondUnauthorized(w, msgMissingUserEmail)
		return
	}

	query := r.URL.Query()

	req := &models.GetPatientAppointmentsRequest{
		PatientEmail:    email,
		IncludeInactive: query.Get("includeInactive") == "true",
	}

	if statusStr := query.Get("status"); statusStr != "" {
		req.Status = &statusStr
	}

	if treatmentIDStr := query.Get("treatmentId"); treatmentIDStr != "" {
		treatmentID, err := strconv.ParseInt(treatmentIDStr, 10, 64)
		if err != nil {
			h.logger.Warn("GET /patients/appointments - Invalid treatmentId: %v", err)
			handlers.RespondBadRequest(w, msgInvalidTreatmentID)
			return
		}
		req.TreatmentID = &treatmentID
	}

	result, err := h.service.GetPatientAppointments(r.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, appointments.ErrInvalidInput):
			h.logger.Warn("GET /patients/appointments - Invalid status: patient=%s", email)
			handlers.RespondBadRequest(w, msgInvalidStatus)

		default:
			h.logger.Error("GET /patients/appointments - Failed to get appointments: patient=%s, error=%v",
				email, err)
			handlers.RespondEngineError(w, err)
		}
		return
	}

	h.logger.Info("GET /patients/appointments - Retrieved %d appointments for patient=%s", result.Total, email)
	handlers.RespondJSON(w, http.StatusOK, result)
}
