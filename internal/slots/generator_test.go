package slots

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	"github.com/m04kA/DCP-BookingEngine/pkg/types"
)

func slotStrings(slots []types.TimeSlot) []string {
	out := make([]string, 0, len(slots))
	for _, s := range slots {
		out = append(out, s.String())
	}
	return out
}

func TestGenerate_TilesWindow(t *testing.T) {
	windows := []domain.Window{
		{Start: "09:00", End: "13:00", IsAvailable: true},
	}

	slots := Generate(windows, 30)
	assert.Equal(t, []string{
		"09:00-09:30", "09:30-10:00", "10:00-10:30", "10:30-11:00",
		"11:00-11:30", "11:30-12:00", "12:00-12:30", "12:30-13:00",
	}, slotStrings(slots))
}

func TestGenerate_DropsPartialTrailingSlot(t *testing.T) {
	// 100 минут не делятся на 45: последний неполный слот отбрасывается
	windows := []domain.Window{
		{Start: "09:00", End: "10:40", IsAvailable: true},
	}

	slots := Generate(windows, 45)
	assert.Equal(t, []string{"09:00-09:45", "09:45-10:30"}, slotStrings(slots))
}

func TestGenerate_DoesNotBridgeGapBetweenWindows(t *testing.T) {
	windows := []domain.Window{
		{Start: "09:00", End: "13:00", IsAvailable: true},
		{Start: "14:30", End: "18:00", IsAvailable: true},
	}

	slots := Generate(windows, 60)
	assert.Equal(t, []string{
		"09:00-10:00", "10:00-11:00", "11:00-12:00", "12:00-13:00",
		"14:30-15:30", "15:30-16:30", "16:30-17:30",
	}, slotStrings(slots))
}

func TestGenerate_ChronologicalAcrossWindows(t *testing.T) {
	// Окна переданы не по порядку: результат всё равно хронологический
	windows := []domain.Window{
		{Start: "14:00", End: "15:00", IsAvailable: true},
		{Start: "09:00", End: "10:00", IsAvailable: true},
	}

	slots := Generate(windows, 30)
	assert.Equal(t, []string{
		"09:00-09:30", "09:30-10:00", "14:00-14:30", "14:30-15:00",
	}, slotStrings(slots))
}

func TestGenerate_DeduplicatesOverlappingWindows(t *testing.T) {
	windows := []domain.Window{
		{Start: "09:00", End: "10:00", IsAvailable: true},
		{Start: "09:00", End: "10:00", IsAvailable: true},
	}

	slots := Generate(windows, 30)
	assert.Equal(t, []string{"09:00-09:30", "09:30-10:00"}, slotStrings(slots))
}

func TestGenerate_SkipsUnavailableAndEmpty(t *testing.T) {
	windows := []domain.Window{
		{Start: "09:00", End: "10:00", IsAvailable: false},
	}
	assert.Empty(t, Generate(windows, 30))
	assert.Empty(t, Generate(nil, 30))
	assert.Empty(t, Generate([]domain.Window{{Start: "09:00", End: "10:00", IsAvailable: true}}, 0))
}

func TestGenerate_WindowShorterThanSlot(t *testing.T) {
	windows := []domain.Window{
		{Start: "09:00", End: "09:20", IsAvailable: true},
	}
	assert.Empty(t, Generate(windows, 30))
}

func TestGenerate_EndOfDayWindow(t *testing.T) {
	windows := []domain.Window{
		{Start: "23:00", End: "24:00", IsAvailable: true},
	}

	slots := Generate(windows, 30)
	assert.Equal(t, []string{"23:00-23:30", "23:30-24:00"}, slotStrings(slots))
}

func TestSequence_MatchesGenerateAndRestarts(t *testing.T) {
	windows := []domain.Window{
		{Start: "09:00", End: "11:00", IsAvailable: true},
	}

	seq := Sequence(windows, 60)

	first := make([]types.TimeSlot, 0)
	for slot := range seq {
		first = append(first, slot)
	}
	require.Equal(t, Generate(windows, 60), first)

	// Последовательность перезапускаемая
	second := make([]types.TimeSlot, 0)
	for slot := range seq {
		second = append(second, slot)
		break
	}
	assert.Equal(t, first[:1], second)
}
