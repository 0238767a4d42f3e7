package appointment

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
	"github.com/m04kA/DCP-BookingEngine/pkg/types"
)

// appointmentColumns полный список колонок таблицы appointments
var appointmentColumns = []string{
	"id",
	"patient_email",
	"patient_name",
	"treatment_id",
	"treatment_name",
	"status",
	"confirmed_date",
	"confirmed_start_time",
	"confirmed_end_time",
	"cancellation_reason",
	"cancelled_by",
	"cancelled_at",
	"created_at",
	"updated_at",
}

// Repository репозиторий для работы с заявками и их preferences
type Repository struct {
	db DBExecutor
}

// NewRepository создает новый экземпляр репозитория заявок
func NewRepository(db DBExecutor) *Repository {
	return &Repository{db: db}
}

// CreateWithPreferences создает заявку вместе с её preferences одним атомарным блоком
// Если в контексте передана активная транзакция (через context.Value), использует её.
// Вызывать нужно внутри транзакции: заявка и её preferences не должны
// становиться видимыми по отдельности при частичном сбое записи
func (r *Repository) CreateWithPreferences(
	ctx context.Context,
	appt *domain.Appointment,
	prefs []*domain.AppointmentPreference,
) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Insert("appointments").
		Columns(
			"patient_email",
			"patient_name",
			"treatment_id",
			"treatment_name",
			"status",
		).
		Values(
			appt.PatientEmail,
			appt.PatientName,
			appt.TreatmentID,
			appt.TreatmentName,
			appt.Status,
		).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: CreateWithPreferences - build insert query: %v", ErrBuildQuery, err)
	}

	var createdAt, updatedAt sql.NullTime
	err = executor.QueryRowContext(ctx, query, args...).Scan(
		&appt.ID,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, storeerr.Wrap(ErrExecQuery, "CreateWithPreferences - execute insert", err)
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	for _, pref := range prefs {
		pref.AppointmentID = appt.ID

		prefQuery, prefArgs, err := psqlbuilder.Insert("appointment_preferences").
			Columns(
				"appointment_id",
				"rank",
				"preferred_date",
				"start_time",
				"end_time",
			).
			Values(
				pref.AppointmentID,
				pref.Rank,
				pref.PreferredDate,
				pref.Slot.Start,
				pref.Slot.End,
			).
			Suffix("RETURNING id, created_at").
			ToSql()

		if err != nil {
			return nil, fmt.Errorf("%w: CreateWithPreferences - build preference insert: %v", ErrBuildQuery, err)
		}

		var prefCreatedAt sql.NullTime
		err = executor.QueryRowContext(ctx, prefQuery, prefArgs...).Scan(&pref.ID, &prefCreatedAt)
		if err != nil {
			return nil, storeerr.Wrap(ErrExecQuery, "CreateWithPreferences - execute preference insert", err)
		}
		pref.CreatedAt = prefCreatedAt.Time
	}

	return appt, nil
}

// GetByID получает заявку по ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"id": id})

	// В транзакции блокируем строку заявки на время решения о её судьбе
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByID - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, ErrAppointmentNotFound
	}
	if err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "GetByID - scan appointment", err)
	}

	return appt, nil
}

// GetPreferences получает preferences заявки в порядке ранга
func (r *Repository) GetPreferences(ctx context.Context, appointmentID int64) ([]*domain.AppointmentPreference, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(
		"id",
		"appointment_id",
		"rank",
		"preferred_date",
		"start_time",
		"end_time",
		"created_at",
	).
		From("appointment_preferences").
		Where(squirrel.Eq{"appointment_id": appointmentID}).
		OrderBy("rank ASC").
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetPreferences - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeerr.Wrap(ErrExecQuery, "GetPreferences - execute query", err)
	}
	defer rows.Close()

	prefs := make([]*domain.AppointmentPreference, 0)
	for rows.Next() {
		var pref domain.AppointmentPreference
		var createdAt sql.NullTime

		err := rows.Scan(
			&pref.ID,
			&pref.AppointmentID,
			&pref.Rank,
			&pref.PreferredDate,
			&pref.Slot.Start,
			&pref.Slot.End,
			&createdAt,
		)
		if err != nil {
			return nil, storeerr.Wrap(ErrScanRow, "GetPreferences - scan row", err)
		}

		pref.CreatedAt = createdAt.Time
		prefs = append(prefs, &pref)
	}

	if err := rows.Err(); err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "GetPreferences - rows error", err)
	}

	return prefs, nil
}

// GetByPatientWithFilter получает заявки пациента с гибкой фильтрацией
// Поддерживает фильтрацию по виду лечения, статусу и включению отменённых заявок
func (r *Repository) GetByPatientWithFilter(ctx context.Context, filter domain.PatientAppointmentsFilter) ([]*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{"patient_email": filter.PatientEmail})

	if filter.TreatmentID != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"treatment_id": *filter.TreatmentID})
	}

	if filter.Status != nil {
		selectBuilder = selectBuilder.Where(squirrel.Eq{"status": *filter.Status})
	} else if !filter.IncludeInactive {
		inactiveStatusStrings := make([]string, len(domain.InactiveStatuses))
		for i, s := range domain.InactiveStatuses {
			inactiveStatusStrings[i] = string(s)
		}
		selectBuilder = selectBuilder.Where(squirrel.NotEq{"status": inactiveStatusStrings})
	}

	selectBuilder = selectBuilder.OrderBy("created_at DESC")

	// В транзакции блокируем строки: квота и вытеснение решаются по этой выборке
	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return nil, fmt.Errorf("%w: GetByPatientWithFilter - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storeerr.Wrap(ErrExecQuery, "GetByPatientWithFilter - execute query", err)
	}
	defer rows.Close()

	return scanAppointments(rows)
}

// CountConfirmedBySlot считает подтверждённые заявки в (дата, слот) для вида лечения
// В транзакции блокирует найденные строки (FOR UPDATE), чтобы сериализовать
// конкурирующие подтверждения одного слота
func (r *Repository) CountConfirmedBySlot(ctx context.Context, treatmentName string, date time.Time, slot types.TimeSlot) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	selectBuilder := psqlbuilder.Select("id").
		From("appointments").
		Where(squirrel.Eq{
			"treatment_name":       treatmentName,
			"status":               domain.StatusConfirmed,
			"confirmed_date":       date,
			"confirmed_start_time": slot.Start,
			"confirmed_end_time":   slot.End,
		})

	if dbmetrics.IsInTransaction(ctx) {
		selectBuilder = selectBuilder.Suffix("FOR UPDATE")
	}

	query, args, err := selectBuilder.ToSql()
	if err != nil {
		return 0, fmt.Errorf("%w: CountConfirmedBySlot - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := executor.QueryContext(ctx, query, args...)
	if err != nil {
		return 0, storeerr.Wrap(ErrExecQuery, "CountConfirmedBySlot - execute query", err)
	}
	defer rows.Close()

	count := 0
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return 0, storeerr.Wrap(ErrScanRow, "CountConfirmedBySlot - scan id", err)
		}
		count++
	}

	if err := rows.Err(); err != nil {
		return 0, storeerr.Wrap(ErrScanRow, "CountConfirmedBySlot - rows error", err)
	}

	return count, nil
}

// CountPendingPreferencesBySlot считает preferences pending-заявок,
// нацеленные на (дата, слот) для вида лечения
// Используется только для оптимистичной оценки занятости при показе слотов
func (r *Repository) CountPendingPreferencesBySlot(ctx context.Context, treatmentName string, date time.Time, slot types.TimeSlot) (int, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select("COUNT(p.id)").
		From("appointment_preferences p").
		Join("appointments a ON a.id = p.appointment_id").
		Where(squirrel.Eq{
			"a.treatment_name": treatmentName,
			"a.status":         domain.StatusPending,
			"p.preferred_date": date,
			"p.start_time":     slot.Start,
			"p.end_time":       slot.End,
		}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CountPendingPreferencesBySlot - build select query: %v", ErrBuildQuery, err)
	}

	var count int
	if err := executor.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, storeerr.Wrap(ErrScanRow, "CountPendingPreferencesBySlot - scan count", err)
	}

	return count, nil
}

// GetConfirmedByPatientAndSlot возвращает подтверждённую заявку пациента
// в (дата, слот) независимо от вида лечения, или nil, если такой нет
func (r *Repository) GetConfirmedByPatientAndSlot(ctx context.Context, patientEmail string, date time.Time, slot types.TimeSlot) (*domain.Appointment, error) {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Select(appointmentColumns...).
		From("appointments").
		Where(squirrel.Eq{
			"patient_email":        patientEmail,
			"status":               domain.StatusConfirmed,
			"confirmed_date":       date,
			"confirmed_start_time": slot.Start,
			"confirmed_end_time":   slot.End,
		}).
		Limit(1).
		ToSql()

	if err != nil {
		return nil, fmt.Errorf("%w: GetConfirmedByPatientAndSlot - build select query: %v", ErrBuildQuery, err)
	}

	appt, err := scanAppointment(executor.QueryRowContext(ctx, query, args...))
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "GetConfirmedByPatientAndSlot - scan appointment", err)
	}

	return appt, nil
}

// Confirm переводит pending заявку в confirmed с фиксацией выбранных даты и слота
// Условие status='pending' защищает от повторного подтверждения и от
// подтверждения отменённой заявки
func (r *Repository) Confirm(ctx context.Context, id int64, date time.Time, slot types.TimeSlot) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusConfirmed).
		Set("confirmed_date", date).
		Set("confirmed_start_time", slot.Start).
		Set("confirmed_end_time", slot.End).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id, "status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Confirm - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return storeerr.Wrap(ErrExecQuery, "Confirm - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storeerr.Wrap(ErrExecQuery, "Confirm - get rows affected", err)
	}

	if rowsAffected == 0 {
		return ErrNotPending
	}

	return nil
}

// Cancel отменяет заявку с указанием инициатора и причины
func (r *Repository) Cancel(ctx context.Context, id int64, actor domain.CancelActor, reason string) error {
	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_by", actor).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": id}).
		ToSql()

	if err != nil {
		return fmt.Errorf("%w: Cancel - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return storeerr.Wrap(ErrExecQuery, "Cancel - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return storeerr.Wrap(ErrExecQuery, "Cancel - get rows affected", err)
	}

	if rowsAffected == 0 {
		return ErrAppointmentNotFound
	}

	return nil
}

// CancelManyPending отменяет пачку pending заявок (вытеснение устаревших заявок)
// Условие status='pending' гарантирует, что confirmed заявки не задеваются,
// даже если их ID попали в список
func (r *Repository) CancelManyPending(ctx context.Context, ids []int64, actor domain.CancelActor, reason string) (int64, error) {
	if len(ids) == 0 {
		return 0, nil
	}

	executor := dbmetrics.GetExecutor(ctx, r.db)

	query, args, err := psqlbuilder.Update("appointments").
		Set("status", domain.StatusCancelled).
		Set("cancellation_reason", reason).
		Set("cancelled_by", actor).
		Set("cancelled_at", squirrel.Expr("NOW()")).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": ids, "status": domain.StatusPending}).
		ToSql()

	if err != nil {
		return 0, fmt.Errorf("%w: CancelManyPending - build update query: %v", ErrBuildQuery, err)
	}

	result, err := executor.ExecContext(ctx, query, args...)
	if err != nil {
		return 0, storeerr.Wrap(ErrExecQuery, "CancelManyPending - execute update", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, storeerr.Wrap(ErrExecQuery, "CancelManyPending - get rows affected", err)
	}

	return rowsAffected, nil
}

// rowScanner общий интерфейс для *sql.Row и *sql.Rows
type rowScanner interface {
	Scan(dest ...interface{}) error
}

// scanAppointment сканирует одну строку заявки
func scanAppointment(row rowScanner) (*domain.Appointment, error) {
	var appt domain.Appointment
	var confirmedDate sql.NullTime
	var confirmedStart, confirmedEnd sql.NullString
	var cancelledBy sql.NullString
	var createdAt, updatedAt sql.NullTime

	err := row.Scan(
		&appt.ID,
		&appt.PatientEmail,
		&appt.PatientName,
		&appt.TreatmentID,
		&appt.TreatmentName,
		&appt.Status,
		&confirmedDate,
		&confirmedStart,
		&confirmedEnd,
		&appt.CancellationReason,
		&cancelledBy,
		&appt.CancelledAt,
		&createdAt,
		&updatedAt,
	)
	if err != nil {
		return nil, err
	}

	if confirmedDate.Valid {
		d := confirmedDate.Time
		appt.ConfirmedDate = &d
	}
	if confirmedStart.Valid && confirmedEnd.Valid {
		var slot types.TimeSlot
		if err := slot.Start.Scan(confirmedStart.String); err != nil {
			return nil, err
		}
		if err := slot.End.Scan(confirmedEnd.String); err != nil {
			return nil, err
		}
		appt.ConfirmedSlot = &slot
	}
	if cancelledBy.Valid {
		actor := domain.CancelActor(cancelledBy.String)
		appt.CancelledBy = &actor
	}

	appt.CreatedAt = createdAt.Time
	appt.UpdatedAt = updatedAt.Time

	return &appt, nil
}

// scanAppointments сканирует результаты запроса в слайс заявок
func scanAppointments(rows *sql.Rows) ([]*domain.Appointment, error) {
	appointments := make([]*domain.Appointment, 0)

	for rows.Next() {
		appt, err := scanAppointment(rows)
		if err != nil {
			return nil, storeerr.Wrap(ErrScanRow, "scanAppointments - scan row", err)
		}
		appointments = append(appointments, appt)
	}

	if err := rows.Err(); err != nil {
		return nil, storeerr.Wrap(ErrScanRow, "scanAppointments - rows error", err)
	}

	return appointments, nil
}
