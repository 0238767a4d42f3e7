package schedule

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	"github.com/m04kA/DCP-BookingEngine/internal/infra/storage/storeerr"
	"github.com/m04kA/DCP-BookingEngine/pkg/dbmetrics"
	"github.com/m04kA/DCP-BookingEngine/pkg/psqlbuilder"
)

// DBExecutor интерфейс выполнения запросов (поддерживает *sql.DB и *dbmetrics.DB)
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий правил расписания
// Четыре таблицы-источника читаются движком как есть; управляются они
// административным контуром вне этого сервиса
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория расписания
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetSpecialBookingWindows получает переопределения окна приёма заявок на точную дату
func (r *Repository) GetSpecialBookingWindows(ctx context.Context, date time.Time) ([]*domain.SpecialBookingWindowOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"date",
		"start_time",
		"end_time",
		"is_available",
		"created_at",
		"updated_at",
	).
		From("special_booking_window_overrides").
		Where(squirrel.Eq{"date": dateOnly(date)}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSpecialBookingWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeerr.Wrap(ErrExecQuery, "GetSpecialBookingWindows - execute query", err)
	}
	defer rows.Close()

	result := make([]*domain.SpecialBookingWindowOverride, 0)
	for rows.Next() {
		var o domain.SpecialBookingWindowOverride
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(&o.ID, &o.Date, &o.StartTime, &o.EndTime, &o.IsAvailable, &createdAt, &updatedAt)
		if err != nil {
			return nil, storeerr.Wrap(ErrScanRow, "GetSpecialBookingWindows - scan row", err)
		}

		o.CreatedAt = createdAt.Time
		o.UpdatedAt = updatedAt.Time
		result = append(result, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "GetSpecialBookingWindows - rows error", err)
	}

	return result, nil
}

// GetSpecialDateOverrides получает переопределения часов работы на точную дату
func (r *Repository) GetSpecialDateOverrides(ctx context.Context, date time.Time) ([]*domain.SpecialDateOverride, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"date",
		"start_time",
		"end_time",
		"is_available",
		"created_at",
		"updated_at",
	).
		From("special_date_overrides").
		Where(squirrel.Eq{"date": dateOnly(date)}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetSpecialDateOverrides - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeerr.Wrap(ErrExecQuery, "GetSpecialDateOverrides - execute query", err)
	}
	defer rows.Close()

	result := make([]*domain.SpecialDateOverride, 0)
	for rows.Next() {
		var o domain.SpecialDateOverride
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(&o.ID, &o.Date, &o.StartTime, &o.EndTime, &o.IsAvailable, &createdAt, &updatedAt)
		if err != nil {
			return nil, storeerr.Wrap(ErrScanRow, "GetSpecialDateOverrides - scan row", err)
		}

		o.CreatedAt = createdAt.Time
		o.UpdatedAt = updatedAt.Time
		result = append(result, &o)
	}

	if err := rows.Err(); err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "GetSpecialDateOverrides - rows error", err)
	}

	return result, nil
}

// GetRecurringBookingWindows получает правила приёма заявок по дню недели
// Фильтрация по scope (год, месяц) выполняется на уровне домена
func (r *Repository) GetRecurringBookingWindows(ctx context.Context, dayOfWeek int) ([]*domain.RecurringBookingWindowRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"day_of_week",
		"start_time",
		"end_time",
		"is_available",
		"scope_year",
		"scope_month",
		"created_at",
		"updated_at",
	).
		From("recurring_booking_window_rules").
		Where(squirrel.Eq{"day_of_week": dayOfWeek}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRecurringBookingWindows - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeerr.Wrap(ErrExecQuery, "GetRecurringBookingWindows - execute query", err)
	}
	defer rows.Close()

	result := make([]*domain.RecurringBookingWindowRule, 0)
	for rows.Next() {
		var rule domain.RecurringBookingWindowRule
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.DayOfWeek,
			&rule.StartTime,
			&rule.EndTime,
			&rule.IsAvailable,
			&rule.ScopeYear,
			&rule.ScopeMonth,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, storeerr.Wrap(ErrScanRow, "GetRecurringBookingWindows - scan row", err)
		}

		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time
		result = append(result, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "GetRecurringBookingWindows - rows error", err)
	}

	return result, nil
}

// GetRecurringScheduleRules получает правила работы клиники по дню недели
func (r *Repository) GetRecurringScheduleRules(ctx context.Context, dayOfWeek int) ([]*domain.RecurringScheduleRule, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"day_of_week",
		"start_time",
		"end_time",
		"is_available",
		"scope_year",
		"scope_month",
		"created_at",
		"updated_at",
	).
		From("recurring_schedule_rules").
		Where(squirrel.Eq{"day_of_week": dayOfWeek}).
		OrderBy("start_time ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetRecurringScheduleRules - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeerr.Wrap(ErrExecQuery, "GetRecurringScheduleRules - execute query", err)
	}
	defer rows.Close()

	result := make([]*domain.RecurringScheduleRule, 0)
	for rows.Next() {
		var rule domain.RecurringScheduleRule
		var createdAt, updatedAt sql.NullTime

		err := rows.Scan(
			&rule.ID,
			&rule.DayOfWeek,
			&rule.StartTime,
			&rule.EndTime,
			&rule.IsAvailable,
			&rule.ScopeYear,
			&rule.ScopeMonth,
			&createdAt,
			&updatedAt,
		)
		if err != nil {
			return nil, storeerr.Wrap(ErrScanRow, "GetRecurringScheduleRules - scan row", err)
		}

		rule.CreatedAt = createdAt.Time
		rule.UpdatedAt = updatedAt.Time
		result = append(result, &rule)
	}

	if err := rows.Err(); err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "GetRecurringScheduleRules - rows error", err)
	}

	return result, nil
}

// dateOnly обнуляет время, чтобы сравнивать только даты
func dateOnly(date time.Time) time.Time {
	return time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)
}
