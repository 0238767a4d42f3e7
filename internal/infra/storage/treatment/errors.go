package treatment

import "errors"

var (
	// ErrTreatmentNotFound возвращается, когда вид лечения не найден
	ErrTreatmentNotFound = errors.New("treatment.repository: treatment not found")

	// ErrLimitNotFound возвращается, когда для вида лечения нет настроенных лимитов
	ErrLimitNotFound = errors.New("treatment.repository: reservation limit not found")

	// ErrBuildQuery возвращается при ошибке построения SQL запроса
	ErrBuildQuery = errors.New("treatment.repository: failed to build query")

	// ErrExecQuery возвращается при ошибке выполнения SQL запроса
	ErrExecQuery = errors.New("treatment.repository: failed to execute query")

	// ErrScanRow возвращается при ошибке сканирования результата запроса
	ErrScanRow = errors.New("treatment.repository: failed to scan row")
)
