package submit_booking

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DCP-BookingEngine/internal/capacity"
	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	"github.com/m04kA/DCP-BookingEngine/internal/infra/storage/storeerr"
	"github.com/m04kA/DCP-BookingEngine/internal/infra/storage/treatment"
	"github.com/m04kA/DCP-BookingEngine/pkg/types"
)

// mockAppointmentRepo управляемая реализация AppointmentRepository
type mockAppointmentRepo struct {
	outstanding    []*domain.Appointment
	outstandingErr error
	filterSeen     domain.PatientAppointmentsFilter
	supersededIDs  []int64
	created        *domain.Appointment
	createdPrefs   []*domain.AppointmentPreference
	createErr      error
}

func (m *mockAppointmentRepo) CreateWithPreferences(_ context.Context, appt *domain.Appointment, prefs []*domain.AppointmentPreference) (*domain.Appointment, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	appt.ID = 100
	appt.CreatedAt = time.Date(2026, 9, 1, 12, 0, 0, 0, time.UTC)
	for i, pref := range prefs {
		pref.ID = int64(200 + i)
		pref.AppointmentID = appt.ID
	}
	m.created = appt
	m.createdPrefs = prefs
	return appt, nil
}

func (m *mockAppointmentRepo) GetByPatientWithFilter(_ context.Context, filter domain.PatientAppointmentsFilter) ([]*domain.Appointment, error) {
	m.filterSeen = filter
	if m.outstandingErr != nil {
		return nil, m.outstandingErr
	}
	return m.outstanding, nil
}

func (m *mockAppointmentRepo) CancelManyPending(_ context.Context, ids []int64, _ domain.CancelActor, _ string) (int64, error) {
	m.supersededIDs = ids
	return int64(len(ids)), nil
}

// mockTreatmentRepo управляемая реализация TreatmentRepository
type mockTreatmentRepo struct {
	treatment *domain.Treatment
	limit     *domain.TreatmentReservationLimit
}

func (m *mockTreatmentRepo) GetByID(_ context.Context, id int64) (*domain.Treatment, error) {
	if m.treatment == nil || m.treatment.ID != id {
		return nil, treatment.ErrTreatmentNotFound
	}
	return m.treatment, nil
}

func (m *mockTreatmentRepo) GetReservationLimit(_ context.Context, _ string) (*domain.TreatmentReservationLimit, error) {
	if m.limit == nil {
		return nil, treatment.ErrLimitNotFound
	}
	return m.limit, nil
}

// mockChecker управляемая реализация ConflictChecker
type mockChecker struct {
	capacityErr map[string]error // ключ - строка слота
	conflictErr map[string]error
}

func (m *mockChecker) CheckCapacity(_ context.Context, _ string, _ time.Time, slot types.TimeSlot, _ int, _ capacity.CountMode) error {
	return m.capacityErr[slot.String()]
}

func (m *mockChecker) CheckPatientConflict(_ context.Context, _ string, _ time.Time, slot types.TimeSlot) error {
	return m.conflictErr[slot.String()]
}

// inlineTxManager выполняет функцию без транзакции
type inlineTxManager struct{}

func (inlineTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// mockNotifier управляемая реализация Notifier
type mockNotifier struct {
	sent int
	err  error
}

func (m *mockNotifier) NotifyBookingSubmitted(_ context.Context, _ *domain.Appointment, _ []*domain.AppointmentPreference) error {
	m.sent++
	return m.err
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func newTestUseCase(repo *mockAppointmentRepo, checker *mockChecker, notifier *mockNotifier) *UseCase {
	uc := NewUseCase(
		repo,
		&mockTreatmentRepo{treatment: &domain.Treatment{ID: 1, Name: "Cleaning", DurationMinutes: 30}},
		checker,
		inlineTxManager{},
		notifier,
		nopLogger{},
	)
	uc.timeProvider = fixedTime{now: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)}
	return uc
}

func validRequest() *Request {
	return &Request{
		PatientEmail: "anna@example.com",
		PatientName:  "Anna Schmidt",
		TreatmentID:  1,
		Preferences: []PreferenceInput{
			{Date: "2026-09-15", Slot: "10:00-10:30"},
			{Date: "2026-09-16", Slot: "11:00-11:30"},
		},
	}
}

func TestExecute_CreatesPendingAppointment(t *testing.T) {
	repo := &mockAppointmentRepo{}
	notifier := &mockNotifier{}
	uc := newTestUseCase(repo, &mockChecker{}, notifier)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, int64(100), resp.AppointmentID)
	assert.Equal(t, "pending", resp.Status)
	assert.Equal(t, int64(0), resp.SupersededCount)
	assert.True(t, resp.NotificationDelivered)
	assert.Len(t, resp.Preferences, 2)
	assert.Equal(t, 1, resp.Preferences[0].Rank)
	assert.Equal(t, "2026-09-15", resp.Preferences[0].Date)
	assert.Equal(t, 1, notifier.sent)

	require.NotNil(t, repo.created)
	assert.Equal(t, domain.StatusPending, repo.created.Status)
	assert.Empty(t, repo.supersededIDs)
}

func TestExecute_SupersedesPendingWhenQuotaFull(t *testing.T) {
	repo := &mockAppointmentRepo{
		outstanding: []*domain.Appointment{
			{ID: 10, Status: domain.StatusPending},
			{ID: 11, Status: domain.StatusPending},
		},
	}
	uc := newTestUseCase(repo, &mockChecker{}, &mockNotifier{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.Equal(t, []int64{10, 11}, repo.supersededIDs)
	assert.Equal(t, int64(2), resp.SupersededCount)
	assert.Equal(t, int64(100), resp.AppointmentID)

	// Квота считается только по заявкам пациента на этот вид лечения
	assert.Equal(t, "anna@example.com", repo.filterSeen.PatientEmail)
	require.NotNil(t, repo.filterSeen.TreatmentID)
	assert.Equal(t, int64(1), *repo.filterSeen.TreatmentID)
	assert.False(t, repo.filterSeen.IncludeInactive)
}

func TestExecute_StoreUnavailableSurfacesAsRetryable(t *testing.T) {
	repo := &mockAppointmentRepo{
		outstandingErr: storeerr.Wrap(errors.New("repository: failed to execute query"),
			"GetByPatientWithFilter - execute query", driver.ErrBadConn),
	}
	uc := newTestUseCase(repo, &mockChecker{}, &mockNotifier{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.Error(t, err)

	// Признак недоступности хранилища не теряется при оборачивании
	assert.ErrorIs(t, err, ErrInternal)
	assert.ErrorIs(t, err, storeerr.ErrUnavailable)
}

func TestExecute_QuotaNotEnforcedWithoutPending(t *testing.T) {
	// Подтвержденные записи без pending заявок не блокируют новую заявку
	repo := &mockAppointmentRepo{
		outstanding: []*domain.Appointment{
			{ID: 10, Status: domain.StatusConfirmed},
			{ID: 11, Status: domain.StatusConfirmed},
		},
	}
	uc := newTestUseCase(repo, &mockChecker{}, &mockNotifier{})

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Empty(t, repo.supersededIDs)
	assert.Equal(t, int64(0), resp.SupersededCount)
}

func TestExecute_QuotaExceededByConfirmed(t *testing.T) {
	// Квота исчерпана подтвержденными записями: вытеснение pending не поможет
	repo := &mockAppointmentRepo{
		outstanding: []*domain.Appointment{
			{ID: 10, Status: domain.StatusConfirmed},
			{ID: 11, Status: domain.StatusConfirmed},
			{ID: 12, Status: domain.StatusPending},
		},
	}
	uc := newTestUseCase(repo, &mockChecker{}, &mockNotifier{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.ErrorIs(t, err, ErrQuotaExceeded)
	assert.Empty(t, repo.supersededIDs)
	assert.Nil(t, repo.created)
}

func TestExecute_CapacityRejectionAbortsWholeRequest(t *testing.T) {
	repo := &mockAppointmentRepo{}
	checker := &mockChecker{
		capacityErr: map[string]error{
			"11:00-11:30": &capacity.CapacityExceededError{Current: 1, Max: 1},
		},
	}
	uc := newTestUseCase(repo, checker, &mockNotifier{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.Error(t, err)

	var capErr *capacity.CapacityExceededError
	assert.ErrorAs(t, err, &capErr)
	assert.Nil(t, repo.created)
}

func TestExecute_PatientConflictRejected(t *testing.T) {
	repo := &mockAppointmentRepo{}
	checker := &mockChecker{
		conflictErr: map[string]error{
			"10:00-10:30": &capacity.ConflictError{ExistingAppointmentID: 55},
		},
	}
	uc := newTestUseCase(repo, checker, &mockNotifier{})

	_, err := uc.Execute(context.Background(), validRequest())
	require.Error(t, err)

	var conflictErr *capacity.ConflictError
	require.ErrorAs(t, err, &conflictErr)
	assert.Equal(t, int64(55), conflictErr.ExistingAppointmentID)
	assert.Nil(t, repo.created)
}

func TestExecute_NotificationFailureDoesNotFailBooking(t *testing.T) {
	repo := &mockAppointmentRepo{}
	notifier := &mockNotifier{err: assert.AnError}
	uc := newTestUseCase(repo, &mockChecker{}, notifier)

	resp, err := uc.Execute(context.Background(), validRequest())
	require.NoError(t, err)

	assert.False(t, resp.NotificationDelivered)
	assert.Equal(t, int64(100), resp.AppointmentID)
}

func TestExecute_ValidationFailures(t *testing.T) {
	uc := newTestUseCase(&mockAppointmentRepo{}, &mockChecker{}, &mockNotifier{})

	tests := []struct {
		name    string
		mutate  func(req *Request)
		wantErr error
	}{
		{"missing email", func(r *Request) { r.PatientEmail = "" }, ErrInvalidInput},
		{"bad email", func(r *Request) { r.PatientEmail = "not-an-email" }, ErrInvalidInput},
		{"missing name", func(r *Request) { r.PatientName = "  " }, ErrInvalidInput},
		{"no preferences", func(r *Request) { r.Preferences = nil }, ErrInvalidInput},
		{"too many preferences", func(r *Request) {
			r.Preferences = []PreferenceInput{
				{Date: "2026-09-15", Slot: "09:00-09:30"},
				{Date: "2026-09-15", Slot: "10:00-10:30"},
				{Date: "2026-09-15", Slot: "11:00-11:30"},
				{Date: "2026-09-15", Slot: "12:00-12:30"},
			}
		}, ErrInvalidInput},
		{"duplicate preference", func(r *Request) {
			r.Preferences = []PreferenceInput{
				{Date: "2026-09-15", Slot: "10:00-10:30"},
				{Date: "2026-09-15", Slot: "10:00-10:30"},
			}
		}, ErrInvalidInput},
		{"bad date", func(r *Request) { r.Preferences[0].Date = "15.09.2026" }, ErrInvalidInput},
		{"bad slot", func(r *Request) { r.Preferences[0].Slot = "10:00" }, ErrInvalidInput},
		{"past date", func(r *Request) { r.Preferences[0].Date = "2026-08-31" }, ErrInvalidInput},
		{"wrong slot duration", func(r *Request) { r.Preferences[0].Slot = "10:00-11:00" }, ErrInvalidTimeSlot},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)
			_, err := uc.Execute(context.Background(), req)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestExecute_TreatmentNotFound(t *testing.T) {
	uc := newTestUseCase(&mockAppointmentRepo{}, &mockChecker{}, &mockNotifier{})

	req := validRequest()
	req.TreatmentID = 999
	_, err := uc.Execute(context.Background(), req)
	assert.ErrorIs(t, err, ErrTreatmentNotFound)
}
