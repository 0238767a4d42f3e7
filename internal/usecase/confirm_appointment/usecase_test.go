package confirm_appointment

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DCP-BookingEngine/internal/capacity"
	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	appointmentRepo "github.com/m04kA/DCP-BookingEngine/internal/infra/storage/appointment"
	"github.com/m04kA/DCP-BookingEngine/internal/infra/storage/treatment"
	"github.com/m04kA/DCP-BookingEngine/pkg/types"
)

// mockAppointmentRepo управляемая реализация AppointmentRepository
type mockAppointmentRepo struct {
	appointment   *domain.Appointment
	preferences   []*domain.AppointmentPreference
	confirmedID   int64
	confirmedDate time.Time
	confirmedSlot types.TimeSlot
	confirmCalled bool
	confirmErr    error
}

func (m *mockAppointmentRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	if m.appointment == nil || m.appointment.ID != id {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	copied := *m.appointment
	return &copied, nil
}

func (m *mockAppointmentRepo) GetPreferences(_ context.Context, _ int64) ([]*domain.AppointmentPreference, error) {
	return m.preferences, nil
}

func (m *mockAppointmentRepo) Confirm(_ context.Context, id int64, date time.Time, slot types.TimeSlot) error {
	if m.confirmErr != nil {
		return m.confirmErr
	}
	m.confirmCalled = true
	m.confirmedID = id
	m.confirmedDate = date
	m.confirmedSlot = slot
	return nil
}

// mockTreatmentRepo без настроенных лимитов
type mockTreatmentRepo struct {
	limit *domain.TreatmentReservationLimit
}

func (m *mockTreatmentRepo) GetReservationLimit(_ context.Context, _ string) (*domain.TreatmentReservationLimit, error) {
	if m.limit == nil {
		return nil, treatment.ErrLimitNotFound
	}
	return m.limit, nil
}

// mockChecker управляемая реализация ConflictChecker
type mockChecker struct {
	capacityErr error
	conflictErr error
	maxSeen     int
}

func (m *mockChecker) CheckCapacity(_ context.Context, _ string, _ time.Time, _ types.TimeSlot, maxConcurrent int, _ capacity.CountMode) error {
	m.maxSeen = maxConcurrent
	return m.capacityErr
}

func (m *mockChecker) CheckPatientConflict(_ context.Context, _ string, _ time.Time, _ types.TimeSlot) error {
	return m.conflictErr
}

type inlineTxManager struct{}

func (inlineTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

// mockNotifier управляемая реализация Notifier
type mockNotifier struct {
	confirmed int
	err       error
}

func (m *mockNotifier) NotifyBookingConfirmed(_ context.Context, _ *domain.Appointment) error {
	m.confirmed++
	return m.err
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var prefDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

func pendingAppointment() *domain.Appointment {
	return &domain.Appointment{
		ID:            7,
		PatientEmail:  "anna@example.com",
		PatientName:   "Anna Schmidt",
		TreatmentID:   1,
		TreatmentName: "Cleaning",
		Status:        domain.StatusPending,
	}
}

func testPreferences() []*domain.AppointmentPreference {
	return []*domain.AppointmentPreference{
		{ID: 201, AppointmentID: 7, Rank: 1, PreferredDate: prefDate, Slot: types.TimeSlot{Start: "10:00", End: "10:30"}},
		{ID: 202, AppointmentID: 7, Rank: 2, PreferredDate: prefDate, Slot: types.TimeSlot{Start: "11:00", End: "11:30"}},
	}
}

func newTestUseCase(repo *mockAppointmentRepo, checker *mockChecker, notifier *mockNotifier) *UseCase {
	return NewUseCase(repo, &mockTreatmentRepo{}, checker, inlineTxManager{}, notifier, nopLogger{})
}

func TestExecute_ConfirmsIntoChosenPreference(t *testing.T) {
	repo := &mockAppointmentRepo{appointment: pendingAppointment(), preferences: testPreferences()}
	checker := &mockChecker{}
	notifier := &mockNotifier{}
	uc := newTestUseCase(repo, checker, notifier)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 7, PreferenceID: 202, AdminID: "admin-1"})
	require.NoError(t, err)

	assert.True(t, repo.confirmCalled)
	assert.Equal(t, int64(7), repo.confirmedID)
	assert.Equal(t, "11:00-11:30", repo.confirmedSlot.String())
	assert.Equal(t, "confirmed", resp.Status)
	assert.Equal(t, "2026-09-15", resp.ConfirmedDate)
	assert.Equal(t, "11:00-11:30", resp.ConfirmedSlot)
	assert.True(t, resp.NotificationDelivered)
	assert.Equal(t, 1, notifier.confirmed)

	// Без настроенных лимитов используется дефолтная вместимость
	assert.Equal(t, domain.DefaultMaxConcurrentPerSlot, checker.maxSeen)
}

func TestExecute_AppointmentNotFound(t *testing.T) {
	uc := newTestUseCase(&mockAppointmentRepo{}, &mockChecker{}, &mockNotifier{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 7, PreferenceID: 201, AdminID: "admin-1"})
	assert.ErrorIs(t, err, ErrAppointmentNotFound)
}

func TestExecute_NotPending(t *testing.T) {
	appt := pendingAppointment()
	appt.Status = domain.StatusCancelled
	repo := &mockAppointmentRepo{appointment: appt, preferences: testPreferences()}
	uc := newTestUseCase(repo, &mockChecker{}, &mockNotifier{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 7, PreferenceID: 201, AdminID: "admin-1"})
	assert.ErrorIs(t, err, ErrNotPending)
	assert.False(t, repo.confirmCalled)
}

func TestExecute_PreferenceMustBelongToAppointment(t *testing.T) {
	repo := &mockAppointmentRepo{appointment: pendingAppointment(), preferences: testPreferences()}
	uc := newTestUseCase(repo, &mockChecker{}, &mockNotifier{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 7, PreferenceID: 999, AdminID: "admin-1"})
	assert.ErrorIs(t, err, ErrPreferenceNotFound)
}

func TestExecute_SlotFull(t *testing.T) {
	repo := &mockAppointmentRepo{appointment: pendingAppointment(), preferences: testPreferences()}
	checker := &mockChecker{capacityErr: &capacity.CapacityExceededError{Current: 1, Max: 1}}
	uc := newTestUseCase(repo, checker, &mockNotifier{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 7, PreferenceID: 201, AdminID: "admin-1"})
	require.Error(t, err)

	var capErr *capacity.CapacityExceededError
	assert.ErrorAs(t, err, &capErr)
	assert.False(t, repo.confirmCalled)
}

func TestExecute_PatientAlreadyConfirmedElsewhere(t *testing.T) {
	repo := &mockAppointmentRepo{appointment: pendingAppointment(), preferences: testPreferences()}
	checker := &mockChecker{conflictErr: &capacity.ConflictError{ExistingAppointmentID: 3}}
	uc := newTestUseCase(repo, checker, &mockNotifier{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 7, PreferenceID: 201, AdminID: "admin-1"})
	require.Error(t, err)

	var conflictErr *capacity.ConflictError
	assert.ErrorAs(t, err, &conflictErr)
	assert.False(t, repo.confirmCalled)
}

func TestExecute_ConcurrentConfirmRace(t *testing.T) {
	repo := &mockAppointmentRepo{
		appointment: pendingAppointment(),
		preferences: testPreferences(),
		confirmErr:  appointmentRepo.ErrNotPending,
	}
	uc := newTestUseCase(repo, &mockChecker{}, &mockNotifier{})

	_, err := uc.Execute(context.Background(), &Request{AppointmentID: 7, PreferenceID: 201, AdminID: "admin-1"})
	assert.ErrorIs(t, err, ErrNotPending)
}

func TestExecute_NotificationFailureDoesNotFailConfirmation(t *testing.T) {
	repo := &mockAppointmentRepo{appointment: pendingAppointment(), preferences: testPreferences()}
	notifier := &mockNotifier{err: assert.AnError}
	uc := newTestUseCase(repo, &mockChecker{}, notifier)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentID: 7, PreferenceID: 201, AdminID: "admin-1"})
	require.NoError(t, err)
	assert.False(t, resp.NotificationDelivered)
	assert.Equal(t, "confirmed", resp.Status)
}

func TestExecute_ValidationFailures(t *testing.T) {
	uc := newTestUseCase(&mockAppointmentRepo{}, &mockChecker{}, &mockNotifier{})

	tests := []struct {
		name string
		req  *Request
	}{
		{"zero appointment id", &Request{AppointmentID: 0, PreferenceID: 1, AdminID: "a"}},
		{"zero preference id", &Request{AppointmentID: 1, PreferenceID: 0, AdminID: "a"}},
		{"empty admin id", &Request{AppointmentID: 1, PreferenceID: 1, AdminID: " "}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
