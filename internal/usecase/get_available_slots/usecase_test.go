package get_available_slots

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DCP-BookingEngine/internal/capacity"
	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	"github.com/m04kA/DCP-BookingEngine/internal/infra/storage/treatment"
	"github.com/m04kA/DCP-BookingEngine/pkg/types"
)

// stubResolver возвращает фиксированные окна
type stubResolver struct {
	windows []domain.Window
	err     error
}

func (r *stubResolver) EffectiveWindows(_ context.Context, _ time.Time) ([]domain.Window, error) {
	return r.windows, r.err
}

// stubTreatmentRepo управляемая реализация TreatmentRepository
type stubTreatmentRepo struct {
	treatment *domain.Treatment
	limit     *domain.TreatmentReservationLimit
}

func (r *stubTreatmentRepo) GetByID(_ context.Context, id int64) (*domain.Treatment, error) {
	if r.treatment == nil || r.treatment.ID != id {
		return nil, treatment.ErrTreatmentNotFound
	}
	return r.treatment, nil
}

func (r *stubTreatmentRepo) GetReservationLimit(_ context.Context, _ string) (*domain.TreatmentReservationLimit, error) {
	if r.limit == nil {
		return nil, treatment.ErrLimitNotFound
	}
	return r.limit, nil
}

// stubChecker занятость по строке слота
type stubChecker struct {
	occupancy map[string]int
	modeSeen  capacity.CountMode
}

func (c *stubChecker) SlotOccupancy(_ context.Context, _ string, _ time.Time, slot types.TimeSlot, mode capacity.CountMode) (int, error) {
	c.modeSeen = mode
	return c.occupancy[slot.String()], nil
}

type fixedTime struct{ now time.Time }

func (f fixedTime) Now() time.Time { return f.now }

type nopLogger struct{}

func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

var requestDate = time.Date(2026, 9, 15, 0, 0, 0, 0, time.UTC)

func newTestUseCase(resolver *stubResolver, repo *stubTreatmentRepo, checker *stubChecker) *UseCase {
	uc := NewUseCase(resolver, repo, checker, nopLogger{})
	uc.timeProvider = fixedTime{now: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)}
	return uc
}

func TestExecute_ReturnsSlotsWithAvailability(t *testing.T) {
	resolver := &stubResolver{windows: []domain.Window{
		{Start: "09:00", End: "10:30", IsAvailable: true},
	}}
	repo := &stubTreatmentRepo{
		treatment: &domain.Treatment{ID: 1, Name: "Cleaning", DurationMinutes: 30},
		limit:     &domain.TreatmentReservationLimit{MaxConcurrentPerSlot: 2, MaxPendingOrConfirmedPerPatient: 2},
	}
	checker := &stubChecker{occupancy: map[string]int{
		"09:00-09:30": 1,
		"09:30-10:00": 2, // полностью занят
	}}
	uc := newTestUseCase(resolver, repo, checker)

	resp, err := uc.Execute(context.Background(), &Request{TreatmentID: 1, Date: requestDate})
	require.NoError(t, err)

	assert.Equal(t, "2026-09-15", resp.Date)
	assert.Equal(t, "Cleaning", resp.TreatmentName)
	assert.Equal(t, 30, resp.DurationMinutes)

	// Полностью занятый слот отфильтрован
	require.Len(t, resp.Slots, 2)
	assert.Equal(t, Slot{StartTime: "09:00", EndTime: "09:30", AvailableSpots: 1, TotalSpots: 2}, resp.Slots[0])
	assert.Equal(t, Slot{StartTime: "10:00", EndTime: "10:30", AvailableSpots: 2, TotalSpots: 2}, resp.Slots[1])

	// Для показа используется оптимистичный режим подсчета
	assert.Equal(t, capacity.ModeDisplay, checker.modeSeen)
}

func TestExecute_Idempotent(t *testing.T) {
	resolver := &stubResolver{windows: []domain.Window{
		{Start: "09:00", End: "11:00", IsAvailable: true},
	}}
	repo := &stubTreatmentRepo{treatment: &domain.Treatment{ID: 1, Name: "Cleaning", DurationMinutes: 30}}
	uc := newTestUseCase(resolver, repo, &stubChecker{})

	first, err := uc.Execute(context.Background(), &Request{TreatmentID: 1, Date: requestDate})
	require.NoError(t, err)
	second, err := uc.Execute(context.Background(), &Request{TreatmentID: 1, Date: requestDate})
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestExecute_ClosedDateReturnsEmptySlots(t *testing.T) {
	resolver := &stubResolver{windows: []domain.Window{}}
	repo := &stubTreatmentRepo{treatment: &domain.Treatment{ID: 1, Name: "Cleaning", DurationMinutes: 30}}
	uc := newTestUseCase(resolver, repo, &stubChecker{})

	resp, err := uc.Execute(context.Background(), &Request{TreatmentID: 1, Date: requestDate})
	require.NoError(t, err)
	assert.Empty(t, resp.Slots)
}

func TestExecute_DefaultDurationWhenUnset(t *testing.T) {
	resolver := &stubResolver{windows: []domain.Window{
		{Start: "09:00", End: "10:00", IsAvailable: true},
	}}
	// Длительность не настроена: используется дефолтная
	repo := &stubTreatmentRepo{treatment: &domain.Treatment{ID: 1, Name: "Cleaning"}}
	uc := newTestUseCase(resolver, repo, &stubChecker{})

	resp, err := uc.Execute(context.Background(), &Request{TreatmentID: 1, Date: requestDate})
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultTreatmentDurationMinutes, resp.DurationMinutes)
	assert.Len(t, resp.Slots, 2)
}

func TestExecute_TreatmentNotFound(t *testing.T) {
	uc := newTestUseCase(&stubResolver{}, &stubTreatmentRepo{}, &stubChecker{})

	_, err := uc.Execute(context.Background(), &Request{TreatmentID: 5, Date: requestDate})
	assert.ErrorIs(t, err, ErrTreatmentNotFound)
}

func TestExecute_PastDateRejected(t *testing.T) {
	uc := newTestUseCase(&stubResolver{}, &stubTreatmentRepo{treatment: &domain.Treatment{ID: 1, Name: "Cleaning"}}, &stubChecker{})

	past := time.Date(2026, 8, 20, 0, 0, 0, 0, time.UTC)
	_, err := uc.Execute(context.Background(), &Request{TreatmentID: 1, Date: past})
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestExecute_InvalidInput(t *testing.T) {
	uc := newTestUseCase(&stubResolver{}, &stubTreatmentRepo{}, &stubChecker{})

	_, err := uc.Execute(context.Background(), &Request{TreatmentID: 0, Date: requestDate})
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = uc.Execute(context.Background(), &Request{TreatmentID: 1})
	assert.ErrorIs(t, err, ErrInvalidInput)
}
