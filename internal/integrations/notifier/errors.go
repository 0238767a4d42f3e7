package notifier

import "errors"

var (
	// ErrNotConfigured возвращается, когда SendGrid не настроен
	ErrNotConfigured = errors.New("notifier: sendgrid client not configured")

	// ErrDeliveryFailed возвращается при сбое отправки уведомления
	// Не фатально для бронирования: заявка уже зафиксирована,
	// сбой доставки отражается в ответе как частичный успех
	ErrDeliveryFailed = errors.New("notifier: delivery failed")
)
