package submit_booking

import (
	submitBooking "github.com/m04kA/DCP-BookingEngine/internal/usecase/submit_booking"
)

// SubmitBookingRequest HTTP request model
type SubmitBookingRequest struct {
	PatientName string            `json:"patientName"`
	TreatmentID int64             `json:"treatmentId"`
	Preferences []PreferenceInput `json:"preferences"`
}

// PreferenceInput одно предпочтение: дата и слот
type PreferenceInput struct {
	Date string `json:"date"` // "2026-09-15"
	Slot string `json:"slot"` // "10:00-10:30"
}

// ToUseCaseRequest конвертирует HTTP запрос в модель use case
func (r *SubmitBookingRequest) ToUseCaseRequest(patientEmail string) *submitBooking.Request {
	prefs := make([]submitBooking.PreferenceInput, 0, len(r.Preferences))
	for _, pref := range r.Preferences {
		prefs = append(prefs, submitBooking.PreferenceInput{
			Date: pref.Date,
			Slot: pref.Slot,
		})
	}

	return &submitBooking.Request{
		PatientEmail: patientEmail,
		PatientName:  r.PatientName,
		TreatmentID:  r.TreatmentID,
		Preferences:  prefs,
	}
}
