package confirm_appointments_bulk

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DCP-BookingEngine/internal/capacity"
	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	appointmentRepo "github.com/m04kA/DCP-BookingEngine/internal/infra/storage/appointment"
	"github.com/m04kA/DCP-BookingEngine/internal/usecase/confirm_appointment"
	"github.com/m04kA/DCP-BookingEngine/pkg/types"
)

// mockRepo управляемая реализация AppointmentRepository
type mockRepo struct {
	appointments map[int64]*domain.Appointment
	preferences  map[int64][]*domain.AppointmentPreference
}

func (m *mockRepo) GetByID(_ context.Context, id int64) (*domain.Appointment, error) {
	appt, ok := m.appointments[id]
	if !ok {
		return nil, appointmentRepo.ErrAppointmentNotFound
	}
	return appt, nil
}

func (m *mockRepo) GetPreferences(_ context.Context, id int64) ([]*domain.AppointmentPreference, error) {
	return m.preferences[id], nil
}

// slotConfirmer имитирует подтверждение с односпотовой вместимостью на слот:
// первая запись занимает слот, последующие получают отказ по вместимости
type slotConfirmer struct {
	prefsByID map[int64]*domain.AppointmentPreference
	taken     map[string]bool
	calls     []int64
}

func (c *slotConfirmer) Execute(_ context.Context, req *confirm_appointment.Request) (*confirm_appointment.Response, error) {
	c.calls = append(c.calls, req.PreferenceID)

	pref, ok := c.prefsByID[req.PreferenceID]
	if !ok {
		return nil, confirm_appointment.ErrPreferenceNotFound
	}

	key := pref.PreferredDate.Format(domain.DateFormat) + " " + pref.Slot.String()
	if c.taken[key] {
		return nil, &capacity.CapacityExceededError{
			Date:    pref.PreferredDate,
			Slot:    pref.Slot,
			Current: 1,
			Max:     1,
		}
	}
	c.taken[key] = true

	return &confirm_appointment.Response{
		AppointmentID: req.AppointmentID,
		Status:        "confirmed",
		ConfirmedDate: pref.PreferredDate.Format(domain.DateFormat),
		ConfirmedSlot: pref.Slot.String(),
	}, nil
}

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var prefDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

func pendingAppointment(id int64) *domain.Appointment {
	return &domain.Appointment{ID: id, Status: domain.StatusPending, TreatmentName: "Cleaning"}
}

func preference(id int64, rank int, slot string) *domain.AppointmentPreference {
	parsed, _ := types.ParseTimeSlot(slot)
	return &domain.AppointmentPreference{ID: id, Rank: rank, PreferredDate: prefDate, Slot: parsed}
}

func newBulkFixture(repo *mockRepo) (*UseCase, *slotConfirmer) {
	prefsByID := make(map[int64]*domain.AppointmentPreference)
	for _, prefs := range repo.preferences {
		for _, pref := range prefs {
			prefsByID[pref.ID] = pref
		}
	}
	confirmer := &slotConfirmer{prefsByID: prefsByID, taken: make(map[string]bool)}
	return NewUseCase(repo, confirmer, nopLogger{}), confirmer
}

func TestExecute_ContestedSlotFirstWins(t *testing.T) {
	// Обе заявки указывают единственным предпочтением один и тот же слот
	// с вместимостью 1: первая подтверждается, вторая получает отказ
	repo := &mockRepo{
		appointments: map[int64]*domain.Appointment{
			1: pendingAppointment(1),
			2: pendingAppointment(2),
		},
		preferences: map[int64][]*domain.AppointmentPreference{
			1: {preference(101, 1, "10:00-10:30")},
			2: {preference(201, 1, "10:00-10:30")},
		},
	}
	uc, _ := newBulkFixture(repo)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentIDs: []int64{1, 2}, AdminID: "admin-1"})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.ConfirmedCount)
	assert.Equal(t, 1, resp.FailedCount)
	require.Len(t, resp.Results, 2)

	assert.Equal(t, ResultConfirmed, resp.Results[0].Status)
	assert.Equal(t, int64(1), resp.Results[0].AppointmentID)
	assert.Equal(t, "10:00-10:30", resp.Results[0].ConfirmedSlot)

	assert.Equal(t, ResultFailed, resp.Results[1].Status)
	assert.Equal(t, int64(2), resp.Results[1].AppointmentID)
	assert.NotEmpty(t, resp.Results[1].Error)
}

func TestExecute_FallsBackToNextPreference(t *testing.T) {
	// Первый слот второй заявки занят первой, но вторая проходит по второму предпочтению
	repo := &mockRepo{
		appointments: map[int64]*domain.Appointment{
			1: pendingAppointment(1),
			2: pendingAppointment(2),
		},
		preferences: map[int64][]*domain.AppointmentPreference{
			1: {preference(101, 1, "10:00-10:30")},
			2: {
				preference(201, 1, "10:00-10:30"),
				preference(202, 2, "11:00-11:30"),
			},
		},
	}
	uc, confirmer := newBulkFixture(repo)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentIDs: []int64{1, 2}, AdminID: "admin-1"})
	require.NoError(t, err)

	assert.Equal(t, 2, resp.ConfirmedCount)
	assert.Equal(t, 0, resp.FailedCount)
	assert.Equal(t, "11:00-11:30", resp.Results[1].ConfirmedSlot)
	assert.Equal(t, int64(202), resp.Results[1].PreferenceID)

	// Предпочтения перебирались в порядке ранга
	assert.Equal(t, []int64{101, 201, 202}, confirmer.calls)
}

func TestExecute_SkipsMissingAndNonPending(t *testing.T) {
	cancelled := pendingAppointment(3)
	cancelled.Status = domain.StatusCancelled

	repo := &mockRepo{
		appointments: map[int64]*domain.Appointment{
			1: pendingAppointment(1),
			3: cancelled,
		},
		preferences: map[int64][]*domain.AppointmentPreference{
			1: {preference(101, 1, "10:00-10:30")},
		},
	}
	uc, _ := newBulkFixture(repo)

	resp, err := uc.Execute(context.Background(), &Request{AppointmentIDs: []int64{1, 2, 3}, AdminID: "admin-1"})
	require.NoError(t, err)

	assert.Equal(t, 1, resp.ConfirmedCount)
	assert.Equal(t, 2, resp.FailedCount)
	assert.Equal(t, ResultConfirmed, resp.Results[0].Status)
	assert.Contains(t, resp.Results[1].Error, "not found")
	assert.Contains(t, resp.Results[2].Error, "not pending")
}

func TestExecute_ValidationFailures(t *testing.T) {
	uc, _ := newBulkFixture(&mockRepo{})

	tests := []struct {
		name string
		req  *Request
	}{
		{"empty ids", &Request{AppointmentIDs: nil, AdminID: "a"}},
		{"zero id", &Request{AppointmentIDs: []int64{0}, AdminID: "a"}},
		{"duplicate ids", &Request{AppointmentIDs: []int64{1, 1}, AdminID: "a"}},
		{"missing admin", &Request{AppointmentIDs: []int64{1}, AdminID: ""}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := uc.Execute(context.Background(), tt.req)
			assert.ErrorIs(t, err, ErrInvalidInput)
		})
	}
}
