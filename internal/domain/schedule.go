package domain

import (
	"time"

	"github.com/m04kA/DCP-BookingEngine/pkg/types"
)

// Window непрерывный интервал на конкретную дату, полученный из источников расписания
// IsAvailable=false означает вычитаемый интервал: в пределах одного уровня приоритета
// такие окна вырезаются из доступных
type Window struct {
	Start       types.TimeString
	End         types.TimeString
	IsAvailable bool
}

// RecurringScheduleRule стандартный недельный паттерн работы клиники
// На один день недели может быть несколько правил (например, утро и вечер)
// Отсутствие правил на день означает, что клиника закрыта
// Scope (год, месяц) ограничивает действие правила конкретным месяцем;
// нулевой scope означает постоянное правило
type RecurringScheduleRule struct {
	ID          int64
	DayOfWeek   int // 0 (воскресенье) - 6 (суббота), как time.Weekday
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool
	ScopeYear   int // 0 = любой год
	ScopeMonth  int // 0 = любой месяц
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AppliesTo returns true if the rule covers the given date
func (r *RecurringScheduleRule) AppliesTo(date time.Time) bool {
	if int(date.Weekday()) != r.DayOfWeek {
		return false
	}
	if r.ScopeYear != 0 && r.ScopeYear != date.Year() {
		return false
	}
	if r.ScopeMonth != 0 && time.Month(r.ScopeMonth) != date.Month() {
		return false
	}
	return true
}

// Window приводит правило к окну на дату
func (r *RecurringScheduleRule) Window() Window {
	return Window{Start: r.StartTime, End: r.EndTime, IsAvailable: r.IsAvailable}
}

// RecurringBookingWindowRule недельный паттерн приёма заявок (не часов работы)
// Клиника может работать, но не принимать новые заявки в отдельные часы, и наоборот
type RecurringBookingWindowRule struct {
	ID          int64
	DayOfWeek   int
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool
	ScopeYear   int
	ScopeMonth  int
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// AppliesTo returns true if the rule covers the given date
func (r *RecurringBookingWindowRule) AppliesTo(date time.Time) bool {
	rule := RecurringScheduleRule{
		DayOfWeek:  r.DayOfWeek,
		ScopeYear:  r.ScopeYear,
		ScopeMonth: r.ScopeMonth,
	}
	return rule.AppliesTo(date)
}

// Window приводит правило к окну на дату
func (r *RecurringBookingWindowRule) Window() Window {
	return Window{Start: r.StartTime, End: r.EndTime, IsAvailable: r.IsAvailable}
}

// SpecialDateOverride разовое переопределение часов работы на конкретную дату
// Не зависит от правил по дням недели; на одну дату допускается несколько записей
type SpecialDateOverride struct {
	ID          int64
	Date        time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Window приводит переопределение к окну
func (o *SpecialDateOverride) Window() Window {
	return Window{Start: o.StartTime, End: o.EndTime, IsAvailable: o.IsAvailable}
}

// SpecialBookingWindowOverride разовое переопределение окна приёма заявок
// Высший приоритет среди всех источников расписания
type SpecialBookingWindowOverride struct {
	ID          int64
	Date        time.Time
	StartTime   types.TimeString
	EndTime     types.TimeString
	IsAvailable bool
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Window приводит переопределение к окну
func (o *SpecialBookingWindowOverride) Window() Window {
	return Window{Start: o.StartTime, End: o.EndTime, IsAvailable: o.IsAvailable}
}

// DefaultWeeklyPattern встроенный недельный паттерн
// Используется, только когда в хранилище нет ни одного правила на день недели,
// чтобы движок оставался рабочим до настройки расписания администратором
var DefaultWeeklyPattern = map[time.Weekday][]Window{
	time.Monday: {
		{Start: "09:00", End: "13:00", IsAvailable: true},
		{Start: "14:30", End: "18:00", IsAvailable: true},
	},
	time.Tuesday: {
		{Start: "09:00", End: "13:00", IsAvailable: true},
		{Start: "14:30", End: "18:00", IsAvailable: true},
	},
	time.Wednesday: {
		{Start: "09:00", End: "13:00", IsAvailable: true},
		{Start: "14:30", End: "18:00", IsAvailable: true},
	},
	time.Friday: {
		{Start: "09:00", End: "13:00", IsAvailable: true},
		{Start: "14:30", End: "18:00", IsAvailable: true},
	},
	time.Saturday: {
		{Start: "09:00", End: "13:00", IsAvailable: true},
	},
	// Четверг и воскресенье - выходные
}
