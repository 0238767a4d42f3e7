package get_available_slots

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/m04kA/DCP-BookingEngine/internal/api/handlers"
	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	getAvailableSlots "github.com/m04kA/DCP-BookingEngine/internal/usecase/get_available_slots"
)

const (
	msgMissingDate        = "отсутствует параметр date"
	msgInvalidDate        = "некорректный формат даты, ожидается YYYY-MM-DD"
	msgMissingTreatmentID = "отсутствует параметр treatmentId"
	msgInvalidTreatmentID = "некорректный treatmentId"
	msgTreatmentNotFound  = "процедура не найдена"
	msgDateInPast         = "дата не может быть в прошлом"
)

type Handler struct {
	useCase GetAvailableSlotsUseCase
	logger  Logger
}

func NewHandler(useCase GetAvailableSlotsUseCase, logger Logger) *Handler {
	return &Handler{
		useCase: useCase,
		logger:  logger,
	}
}

// Handle GET /api/v1/available-slots?date=YYYY-MM-DD&treatmentId=N
func (h *Handler) Handle(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	dateStr := query.Get("date")
	if dateStr == "" {
		h.logger.Warn("GET /available-slots - Missing date parameter")
		handlers.RespondBadRequest(w, msgMissingDate)
		return
	}

	date, err := time.Parse(domain.DateFormat, dateStr)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid date: %v", err)
		handlers.RespondBadRequest(w, msgInvalidDate)
		return
	}

	treatmentIDStr := query.Get("treatmentId")
	if treatmentIDStr == "" {
		h.logger.Warn("GET /available-slots - Missing treatmentId parameter")
		handlers.RespondBadRequest(w, msgMissingTreatmentID)
		return
	}

	treatmentID, err := strconv.ParseInt(treatmentIDStr, 10, 64)
	if err != nil {
		h.logger.Warn("GET /available-slots - Invalid treatmentId: %v", err)
		handlers.RespondBadRequest(w, msgInvalidTreatmentID)
		return
	}

	result, err := h.useCase.Execute(r.Context(), &getAvailableSlots.Request{
		TreatmentID: treatmentID,
		Date:        date,
	})
	if err != nil {
		switch {
		case errors.Is(err, getAvailableSlots.ErrTreatmentNotFound):
			h.logger.Warn("GET /available-slots - Treatment not found: treatment_id=%d", treatmentID)
			handlers.RespondNotFound(w, msgTreatmentNotFound)

		case errors.Is(err, getAvailableSlots.ErrInvalidDate):
			h.logger.Warn("GET /available-slots - Date in the past: date=%s", dateStr)
			handlers.RespondBadRequest(w, msgDateInPast)

		case errors.Is(err, getAvailableSlots.ErrInvalidInput):
			h.logger.Warn("GET /available-slots - Invalid input: %v", err)
			handlers.RespondBadRequest(w, err.Error())

		default:
			h.logger.Error("GET /available-slots - Failed to get slots: treatment_id=%d, date=%s, error=%v",
				treatmentID, dateStr, err)
			handlers.RespondEngineError(w, err)
		}
		return
	}

	h.logger.Info("GET /available-slots - Slots retrieved: treatment_id=%d, date=%s, count=%d",
		treatmentID, dateStr, len(result.Slots))
	handlers.RespondJSON(w, http.StatusOK, result)
}
