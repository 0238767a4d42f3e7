package submit_booking

import (
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	"github.com/m04kA/DCP-BookingEngine/pkg/types"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// parsedPreference распарсенное предпочтение пациента
type parsedPreference struct {
	Date time.Time
	Slot types.TimeSlot
}

// validateRequest проверяет входные данные и парсит предпочтения
func validateRequest(req *Request) ([]parsedPreference, error) {
	if strings.TrimSpace(req.PatientEmail) == "" {
		return nil, fmt.Errorf("%w: patientEmail is required", ErrInvalidInput)
	}
	if !emailPattern.MatchString(req.PatientEmail) {
		return nil, fmt.Errorf("%w: patientEmail is not a valid email address", ErrInvalidInput)
	}

	if strings.TrimSpace(req.PatientName) == "" {
		return nil, fmt.Errorf("%w: patientName is required", ErrInvalidInput)
	}

	if req.TreatmentID <= 0 {
		return nil, fmt.Errorf("%w: treatmentId must be positive", ErrInvalidInput)
	}

	if len(req.Preferences) < domain.MinPreferencesPerRequest || len(req.Preferences) > domain.MaxPreferencesPerRequest {
		return nil, fmt.Errorf("%w: preferences count must be between %d and %d",
			ErrInvalidInput, domain.MinPreferencesPerRequest, domain.MaxPreferencesPerRequest)
	}

	parsed := make([]parsedPreference, 0, len(req.Preferences))
	seen := make(map[string]struct{}, len(req.Preferences))

	for i, pref := range req.Preferences {
		date, err := time.Parse(domain.DateFormat, pref.Date)
		if err != nil {
			return nil, fmt.Errorf("%w: preference %d: invalid date %q", ErrInvalidInput, i+1, pref.Date)
		}

		slot, err := types.ParseTimeSlot(pref.Slot)
		if err != nil {
			return nil, fmt.Errorf("%w: preference %d: invalid slot %q: %v", ErrInvalidInput, i+1, pref.Slot, err)
		}

		key := pref.Date + " " + slot.String()
		if _, ok := seen[key]; ok {
			return nil, fmt.Errorf("%w: preference %d duplicates an earlier preference", ErrInvalidInput, i+1)
		}
		seen[key] = struct{}{}

		parsed = append(parsed, parsedPreference{Date: date, Slot: slot})
	}

	return parsed, nil
}

// validatePreferences проверяет даты и длительность слотов относительно процедуры
func validatePreferences(prefs []parsedPreference, durationMinutes int, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	for i, pref := range prefs {
		requested := time.Date(pref.Date.Year(), pref.Date.Month(), pref.Date.Day(), 0, 0, 0, 0, now.Location())
		if requested.Before(today) {
			return fmt.Errorf("%w: preference %d: date is in the past", ErrInvalidInput, i+1)
		}

		slotMinutes, err := pref.Slot.DurationMinutes()
		if err != nil {
			return fmt.Errorf("%w: preference %d: %v", ErrInvalidTimeSlot, i+1, err)
		}
		if slotMinutes != durationMinutes {
			return fmt.Errorf("%w: preference %d: slot duration must be %d minutes",
				ErrInvalidTimeSlot, i+1, durationMinutes)
		}
	}

	return nil
}
