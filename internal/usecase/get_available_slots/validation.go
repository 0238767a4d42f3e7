package get_available_slots

import (
	"fmt"
	"time"
)

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if req.TreatmentID <= 0 {
		return fmt.Errorf("%w: treatmentId must be positive", ErrInvalidInput)
	}

	if req.Date.IsZero() {
		return fmt.Errorf("%w: date is required", ErrInvalidInput)
	}

	return nil
}

// validateDate проверяет, что дата не находится в прошлом
func validateDate(date, now time.Time) error {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	requested := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, now.Location())

	if requested.Before(today) {
		return fmt.Errorf("%w: date is in the past", ErrInvalidDate)
	}

	return nil
}
