package schedule

import (
	"context"
	"fmt"
	"time"

	"github.com/m04kA/DCP-BookingEngine/internal/domain"
)

// specialBookingWindowSource переопределения окна приёма заявок на точную дату
// Высший приоритет: клиника может работать, но не принимать заявки, и наоборот
type specialBookingWindowSource struct {
	repo ScheduleRepository
}

func (s *specialBookingWindowSource) Name() string { return "special_booking_windows" }

func (s *specialBookingWindowSource) Resolve(ctx context.Context, date time.Time) ([]domain.Window, bool, error) {
	overrides, err := s.repo.GetSpecialBookingWindows(ctx, date)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", s.Name(), err)
	}
	if len(overrides) == 0 {
		return nil, false, nil
	}

	windows := make([]domain.Window, 0, len(overrides))
	for _, o := range overrides {
		windows = append(windows, o.Window())
	}
	return windows, true, nil
}

// specialDateSource переопределения часов работы на точную дату
// Запасной вариант, когда нет переопределения окна приёма заявок
type specialDateSource struct {
	repo ScheduleRepository
}

func (s *specialDateSource) Name() string { return "special_date_overrides" }

func (s *specialDateSource) Resolve(ctx context.Context, date time.Time) ([]domain.Window, bool, error) {
	overrides, err := s.repo.GetSpecialDateOverrides(ctx, date)
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", s.Name(), err)
	}
	if len(overrides) == 0 {
		return nil, false, nil
	}

	windows := make([]domain.Window, 0, len(overrides))
	for _, o := range overrides {
		windows = append(windows, o.Window())
	}
	return windows, true, nil
}

// holidaySource закрывает клинику в государственные праздники
// Стоит ниже специальных переопределений: они всегда побеждают праздник
// Недоступность провайдера деградирует до "не праздник" - праздничное закрытие
// самый слабый сигнал и не должно блокировать расчёт слотов
type holidaySource struct {
	provider HolidayProvider
	logger   Logger
}

func (s *holidaySource) Name() string { return "public_holidays" }

func (s *holidaySource) Resolve(ctx context.Context, date time.Time) ([]domain.Window, bool, error) {
	isHoliday, err := s.provider.IsHoliday(ctx, date)
	if err != nil {
		s.logger.Warn("schedule: holiday provider unavailable for %s, assuming not a holiday: %v",
			date.Format(domain.DateFormat), err)
		return nil, false, nil
	}
	if !isHoliday {
		return nil, false, nil
	}
	// Праздник: дата закрыта (присутствие без окон)
	return []domain.Window{}, true, nil
}

// recurringBookingWindowSource правила приёма заявок по дню недели
type recurringBookingWindowSource struct {
	repo ScheduleRepository
}

func (s *recurringBookingWindowSource) Name() string { return "recurring_booking_windows" }

func (s *recurringBookingWindowSource) Resolve(ctx context.Context, date time.Time) ([]domain.Window, bool, error) {
	rules, err := s.repo.GetRecurringBookingWindows(ctx, int(date.Weekday()))
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", s.Name(), err)
	}

	windows := make([]domain.Window, 0, len(rules))
	for _, r := range rules {
		if r.AppliesTo(date) {
			windows = append(windows, r.Window())
		}
	}
	if len(windows) == 0 {
		return nil, false, nil
	}
	return windows, true, nil
}

// recurringScheduleSource стандартный недельный паттерн работы клиники
type recurringScheduleSource struct {
	repo ScheduleRepository
}

func (s *recurringScheduleSource) Name() string { return "recurring_schedule_rules" }

func (s *recurringScheduleSource) Resolve(ctx context.Context, date time.Time) ([]domain.Window, bool, error) {
	rules, err := s.repo.GetRecurringScheduleRules(ctx, int(date.Weekday()))
	if err != nil {
		return nil, false, fmt.Errorf("%s: %w", s.Name(), err)
	}

	windows := make([]domain.Window, 0, len(rules))
	for _, r := range rules {
		if r.AppliesTo(date) {
			windows = append(windows, r.Window())
		}
	}
	if len(windows) == 0 {
		return nil, false, nil
	}
	return windows, true, nil
}

// defaultPatternSource встроенный недельный паттерн
// Последний в цепочке и отвечает всегда, чтобы движок работал
// до того, как администратор настроил расписание
type defaultPatternSource struct{}

func (s *defaultPatternSource) Name() string { return "default_weekly_pattern" }

func (s *defaultPatternSource) Resolve(_ context.Context, date time.Time) ([]domain.Window, bool, error) {
	windows := domain.DefaultWeeklyPattern[date.Weekday()]
	out := make([]domain.Window, len(windows))
	copy(out, windows)
	return out, true, nil
}
