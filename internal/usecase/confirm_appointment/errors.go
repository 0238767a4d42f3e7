package confirm_appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда запись не найдена
	ErrAppointmentNotFound = errors.New("appointment not found")

	// ErrPreferenceNotFound возвращается, когда предпочтение не принадлежит записи
	ErrPreferenceNotFound = errors.New("preference not found for appointment")

	// ErrNotPending возвращается при попытке подтвердить запись не в статусе pending
	ErrNotPending = errors.New("appointment is not pending")

	// ErrInvalidInput возвращается при некорректных входных данных
	ErrInvalidInput = errors.New("invalid input data")

	// ErrInternal возвращается при внутренних ошибках usecase
	ErrInternal = errors.New("usecase: internal error")
)
