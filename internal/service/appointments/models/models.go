package models

import (
	"errors"
	"time"

	"github.com/m04kA/DCP-BookingEngine/internal/domain"
)

var (
	// ErrInvalidStatus возвращается при некорректном статусе
	ErrInvalidStatus = errors.New("invalid appointment status")
)

// Request модели

// Requester данные запрашивающей стороны для проверки прав доступа
type Requester struct {
	Email   string
	IsAdmin bool
}

// GetPatientAppointmentsRequest запрос на получение записей пациента
type GetPatientAppointmentsRequest struct {
	PatientEmail    string  `json:"patientEmail"`
	TreatmentID     *int64  `json:"treatmentId,omitempty"`
	Status          *string `json:"status,omitempty"`
	IncludeInactive bool    `json:"includeInactive,omitempty"`
}

// ToDomainFilter конвертирует request в domain фильтр
func (r *GetPatientAppointmentsRequest) ToDomainFilter() (domain.PatientAppointmentsFilter, error) {
	filter := domain.PatientAppointmentsFilter{
		PatientEmail:    r.PatientEmail,
		TreatmentID:     r.TreatmentID,
		IncludeInactive: r.IncludeInactive,
	}

	if r.Status != nil {
		status, err := ToDomainStatus(*r.Status)
		if err != nil {
			return filter, err
		}
		filter.Status = &status
	}

	return filter, nil
}

// CancelAppointmentRequest запрос на отмену записи
type CancelAppointmentRequest struct {
	Actor          domain.CancelActor `json:"-"`
	RequesterEmail string             `json:"-"`
	Reason         string             `json:"cancellationReason"`
}

// Response модели

// AppointmentResponse ответ с данными записи
type AppointmentResponse struct {
	ID                 int64                `json:"id"`
	PatientEmail       string               `json:"patientEmail"`
	PatientName        string               `json:"patientName"`
	TreatmentID        int64                `json:"treatmentId"`
	TreatmentName      string               `json:"treatmentName"`
	Status             string               `json:"status"`
	Preferences        []PreferenceResponse `json:"preferences,omitempty"`
	ConfirmedDate      *string              `json:"confirmedDate,omitempty"`
	ConfirmedSlot      *string              `json:"confirmedSlot,omitempty"`
	CancellationReason *string              `json:"cancellationReason,omitempty"`
	CancelledBy        *string              `json:"cancelledBy,omitempty"`
	CancelledAt        *time.Time           `json:"cancelledAt,omitempty"`
	CreatedAt          time.Time            `json:"createdAt"`
	UpdatedAt          time.Time            `json:"updatedAt"`
}

// PreferenceResponse предпочтение в составе записи
type PreferenceResponse struct {
	ID   int64  `json:"id"`
	Rank int    `json:"rank"`
	Date string `json:"date"`
	Slot string `json:"slot"`
}

// AppointmentListResponse список записей
type AppointmentListResponse struct {
	Appointments []AppointmentResponse `json:"appointments"`
	Total        int                   `json:"total"`
}

// FromDomainAppointment конвертирует domain модель в response
func FromDomainAppointment(appt *domain.Appointment, prefs []*domain.AppointmentPreference) *AppointmentResponse {
	resp := &AppointmentResponse{
		ID:                 appt.ID,
		PatientEmail:       appt.PatientEmail,
		PatientName:        appt.PatientName,
		TreatmentID:        appt.TreatmentID,
		TreatmentName:      appt.TreatmentName,
		Status:             string(appt.Status),
		CancellationReason: appt.CancellationReason,
		CancelledAt:        appt.CancelledAt,
		CreatedAt:          appt.CreatedAt,
		UpdatedAt:          appt.UpdatedAt,
	}

	if appt.ConfirmedDate != nil {
		date := appt.ConfirmedDate.Format(domain.DateFormat)
		resp.ConfirmedDate = &date
	}
	if appt.ConfirmedSlot != nil {
		slot := appt.ConfirmedSlot.String()
		resp.ConfirmedSlot = &slot
	}
	if appt.CancelledBy != nil {
		actor := string(*appt.CancelledBy)
		resp.CancelledBy = &actor
	}

	for _, pref := range prefs {
		resp.Preferences = append(resp.Preferences, PreferenceResponse{
			ID:   pref.ID,
			Rank: pref.Rank,
			Date: pref.PreferredDate.Format(domain.DateFormat),
			Slot: pref.Slot.String(),
		})
	}

	return resp
}

// ToDomainStatus валидирует и конвертирует строковый статус
func ToDomainStatus(status string) (domain.AppointmentStatus, error) {
	switch domain.AppointmentStatus(status) {
	case domain.StatusPending, domain.StatusConfirmed, domain.StatusCancelled:
		return domain.AppointmentStatus(status), nil
	default:
		return "", ErrInvalidStatus
	}
}
