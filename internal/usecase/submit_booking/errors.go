package submit_booking

import "errors"

var (
	// ErrTreatmentNotFound возвращается, когда процедура не найдена
	ErrTreatmentNotFound = errors.New("treatment not found")

	// ErrInvalidTimeSlot возвращается, когда слот не соответствует длительности процедуры
	ErrInvalidTimeSlot = errors.New("invalid time slot")

	// ErrQuotaExceeded возвращается, когда лимит активных записей пациента исчерпан подтвержденными записями
	ErrQuotaExceeded = errors.New("patient appointment quota exceeded")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
