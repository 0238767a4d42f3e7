// Package schedule вычисляет эффективные окна доступности клиники на дату,
// объединяя пять источников расписания с фиксированным порядком приоритетов
package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/DCP-BookingEngine/internal/domain"
)

// Resolver определяет эффективные окна доступности на дату
//
// Источники опрашиваются в фиксированном порядке, побеждает первый,
// у которого есть хоть одна запись на дату:
//  1. Переопределения окна приёма заявок на точную дату
//  2. Переопределения часов работы на точную дату
//  3. Государственные праздники (закрытие; специальные переопределения выше - они всегда побеждают)
//  4. Правила приёма заявок по дню недели
//  5. Правила работы клиники по дню недели
//  6. Встроенный недельный паттерн (отвечает всегда)
//
// Внутри победившего источника окна с IsAvailable=false вычитаются из доступных
type Resolver struct {
	sources []Source
	logger  Logger
}

// NewResolver создает resolver со стандартной цепочкой источников
func NewResolver(repo ScheduleRepository, holidays HolidayProvider, logger Logger) *Resolver {
	return &Resolver{
		sources: []Source{
			&specialBookingWindowSource{repo: repo},
			&specialDateSource{repo: repo},
			&holidaySource{provider: holidays, logger: logger},
			&recurringBookingWindowSource{repo: repo},
			&recurringScheduleSource{repo: repo},
			&defaultPatternSource{},
		},
		logger: logger,
	}
}

// NewResolverWithSources создает resolver с произвольной цепочкой (для тестов)
func NewResolverWithSources(sources []Source, logger Logger) *Resolver {
	return &Resolver{sources: sources, logger: logger}
}

// EffectiveWindows возвращает упорядоченный набор доступных окон на дату
// Пустой результат означает, что клиника закрыта
func (r *Resolver) EffectiveWindows(ctx context.Context, date time.Time) ([]domain.Window, error) {
	for _, src := range r.sources {
		windows, ok, err := src.Resolve(ctx, date)
		if err != nil {
			return nil, fmt.Errorf("schedule: resolve %s: %w", src.Name(), err)
		}
		if !ok {
			continue
		}

		effective, err := applyUnavailable(windows)
		if err != nil {
			return nil, fmt.Errorf("schedule: source %s produced invalid windows: %w", src.Name(), err)
		}

		r.logger.Info("schedule: date=%s resolved by source=%s, %d window(s)",
			date.Format(domain.DateFormat), src.Name(), len(effective))
		return effective, nil
	}

	// Недостижимо: встроенный паттерн отвечает всегда
	return []domain.Window{}, nil
}
