// Package storeerr различает сбои соединения с хранилищем и прочие ошибки
// запросов. Недоступность хранилища безопасна для повтора и должна доходить
// до API-слоя отдельным признаком, а не растворяться во внутренней ошибке.
package storeerr

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net"
)

// ErrUnavailable хранилище недоступно (обрыв соединения, таймаут)
var ErrUnavailable = errors.New("storage: store unavailable")

// Wrap оборачивает ошибку выполнения запроса sentinel-ошибкой репозитория.
// Сбои соединения дополнительно помечаются ErrUnavailable
func Wrap(sentinel error, msg string, err error) error {
	if isConnectivity(err) {
		return fmt.Errorf("%w: %s: %w: %v", sentinel, msg, ErrUnavailable, err)
	}
	return fmt.Errorf("%w: %s: %v", sentinel, msg, err)
}

// isConnectivity возвращает true для ошибок уровня соединения с БД
func isConnectivity(err error) bool {
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr)
}
