package schedule

import (
	"context"
	"time"

	"github.com/m04kA/DCP-BookingEngine/internal/domain"
)

// ScheduleRepository интерфейс репозитория правил расписания
type ScheduleRepository interface {
	// GetSpecialBookingWindows получает переопределения окна приёма заявок на точную дату
	GetSpecialBookingWindows(ctx context.Context, date time.Time) ([]*domain.SpecialBookingWindowOverride, error)
	// GetSpecialDateOverrides получает переопределения часов работы на точную дату
	GetSpecialDateOverrides(ctx context.Context, date time.Time) ([]*domain.SpecialDateOverride, error)
	// GetRecurringBookingWindows получает правила приёма заявок по дню недели
	GetRecurringBookingWindows(ctx context.Context, dayOfWeek int) ([]*domain.RecurringBookingWindowRule, error)
	// GetRecurringScheduleRules получает правила работы клиники по дню недели
	GetRecurringScheduleRules(ctx context.Context, dayOfWeek int) ([]*domain.RecurringScheduleRule, error)
}

// HolidayProvider интерфейс провайдера государственных праздников
type HolidayProvider interface {
	IsHoliday(ctx context.Context, date time.Time) (bool, error)
}

// Logger интерфейс для логирования
type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Source именованный источник окон доступности
// Resolve возвращает ok=false, если у источника нет записей на дату
// (следующий по приоритету источник получает шанс)
type Source interface {
	Name() string
	Resolve(ctx context.Context, date time.Time) (windows []domain.Window, ok bool, err error)
}
