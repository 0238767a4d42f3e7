package appointment

import "errors"

var (
	// ErrAppointmentNotFound возвращается, когда заявка не найдена
	ErrAppointmentNotFound = errors.New("appointment.repository: appointment not found")

	// ErrPreferenceNotFound возвращается, когда preference не найден
	ErrPreferenceNotFound = errors.New("appointment.repository: preference not found")

	// ErrNotPending возвращается при попытке изменить заявку, уже вышедшую из статуса pending
	ErrNotPending = errors.New("appointment.repository: appointment is not pending")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("appointment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("appointment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("appointment.repository: failed to scan row")
)
