package holidayapi

import "errors"

var (
	// ErrInvalidResponse возвращается при некорректном ответе API праздников
	ErrInvalidResponse = errors.New("holidayapi: invalid response")

	// ErrInternal возвращается при внутренних ошибках клиента
	ErrInternal = errors.New("holidayapi: internal error")
)
