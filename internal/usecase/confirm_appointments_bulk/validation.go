package confirm_appointments_bulk

import (
	"fmt"
	"strings"
)

// validateRequest проверяет корректность входных данных
func validateRequest(req *Request) error {
	if len(req.AppointmentIDs) == 0 {
		return fmt.Errorf("%w: appointmentIds must not be empty", ErrInvalidInput)
	}

	if len(req.AppointmentIDs) > maxBulkSize {
		return fmt.Errorf("%w: at most %d appointments per request", ErrInvalidInput, maxBulkSize)
	}

	seen := make(map[int64]struct{}, len(req.AppointmentIDs))
	for i, id := range req.AppointmentIDs {
		if id <= 0 {
			return fmt.Errorf("%w: appointmentIds[%d] must be positive", ErrInvalidInput, i)
		}
		if _, ok := seen[id]; ok {
			return fmt.Errorf("%w: appointmentIds[%d] duplicates an earlier id", ErrInvalidInput, i)
		}
		seen[id] = struct{}{}
	}

	if strings.TrimSpace(req.AdminID) == "" {
		return fmt.Errorf("%w: adminId is required", ErrInvalidInput)
	}

	return nil
}
