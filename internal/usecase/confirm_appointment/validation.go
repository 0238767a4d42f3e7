package confirm_appointment

import (
	"fmt"
	"strings"
)

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if req.AppointmentID <= 0 {
		return fmt.Errorf("%w: appointmentId must be positive", ErrInvalidInput)
	}

	if req.PreferenceID <= 0 {
		return fmt.Errorf("%w: preferenceId must be positive", ErrInvalidInput)
	}

	if strings.TrimSpace(req.AdminID) == "" {
		return fmt.Errorf("%w: adminId is required", ErrInvalidInput)
	}

	return nil
}
