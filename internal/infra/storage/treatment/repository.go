package treatment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/Masterminds/squirrel"

	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	"github.com/m04kA/DCP-BookingEngine/internal/infra/storage/storeerr"
	"github.com/m04kA/DCP-BookingEngine/pkg/dbmetrics"
	"github.com/m04kA/DCP-BookingEngine/pkg/psqlbuilder"
)

// DBExecutor интерфейс выполнения запросов (поддерживает *sql.DB и *dbmetrics.DB)
type DBExecutor = dbmetrics.DBExecutor

// Repository репозиторий видов лечения и их лимитов бронирования
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория видов лечения
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// GetByID получает вид лечения по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Treatment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"duration_minutes",
		"created_at",
		"updated_at",
	).
		From("treatments").
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	var t domain.Treatment
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID,
		&t.Name,
		&t.DurationMinutes,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTreatmentNotFound
	}
	if err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "GetByID - scan treatment", err)
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return &t, nil
}

// GetByName получает вид лечения по названию
func (r *Repository) GetByName(ctx context.Context, name string) (*domain.Treatment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"name",
		"duration_minutes",
		"created_at",
		"updated_at",
	).
		From("treatments").
		Where(squirrel.Eq{"name": name}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetByName - build select query: %v", ErrBuildQuery, err)
	}

	var t domain.Treatment
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&t.ID,
		&t.Name,
		&t.DurationMinutes,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrTreatmentNotFound
	}
	if err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "GetByName - scan treatment", err)
	}

	t.CreatedAt = createdAt.Time
	t.UpdatedAt = updatedAt.Time

	return &t, nil
}

// GetReservationLimit получает лимиты бронирования для вида лечения
// Возвращает ErrLimitNotFound, если лимиты не настроены - вызывающая сторона
// подставляет значения по умолчанию
func (r *Repository) GetReservationLimit(ctx context.Context, treatmentName string) (*domain.TreatmentReservationLimit, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"treatment_name",
		"max_concurrent_per_slot",
		"max_pending_or_confirmed_per_patient",
		"created_at",
		"updated_at",
	).
		From("treatment_reservation_limits").
		Where(squirrel.Eq{"treatment_name": treatmentName}).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetReservationLimit - build select query: %v", ErrBuildQuery, err)
	}

	var limit domain.TreatmentReservationLimit
	var createdAt, updatedAt sql.NullTime

	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&limit.ID,
		&limit.TreatmentName,
		&limit.MaxConcurrentPerSlot,
		&limit.MaxPendingOrConfirmedPerPatient,
		&createdAt,
		&updatedAt,
	)

	if err == sql.ErrNoRows {
		return nil, ErrLimitNotFound
	}
	if err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "GetReservationLimit - scan limit", err)
	}

	limit.CreatedAt = createdAt.Time
	limit.UpdatedAt = updatedAt.Time

	return &limit, nil
}
