package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimeSlot(t *testing.T) {
	tests := []struct {
		input   string
		want    string
		wantErr bool
	}{
		{"10:00-10:30", "10:00-10:30", false},
		{"09:00-13:00", "09:00-13:00", false},
		{"10:00 - 10:30", "10:00-10:30", false},
		{"9:00-9:30", "", true},
		{"09:00-9:30", "", true},
		{"10:00", "", true},
		{"10:30-10:00", "", true},
		{"10:00-10:00", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			slot, err := ParseTimeSlot(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, slot.String())
		})
	}
}

func TestTimeSlot_DurationMinutes(t *testing.T) {
	slot, err := ParseTimeSlot("10:00-10:30")
	require.NoError(t, err)
	minutes, err := slot.DurationMinutes()
	require.NoError(t, err)
	assert.Equal(t, 30, minutes)

	slot, err = ParseTimeSlot("09:00-13:00")
	require.NoError(t, err)
	minutes, err = slot.DurationMinutes()
	require.NoError(t, err)
	assert.Equal(t, 240, minutes)

	// Конец суток как 24:00
	endOfDay := TimeSlot{Start: TimeString("23:30"), End: TimeString("24:00")}
	minutes, err = endOfDay.DurationMinutes()
	require.NoError(t, err)
	assert.Equal(t, 30, minutes)
}

func TestTimeSlot_Overlaps(t *testing.T) {
	mustSlot := func(s string) TimeSlot {
		slot, err := ParseTimeSlot(s)
		require.NoError(t, err)
		return slot
	}

	tests := []struct {
		name string
		a    string
		b    string
		want bool
	}{
		{"identical", "10:00-10:30", "10:00-10:30", true},
		{"partial overlap", "10:00-10:30", "10:15-10:45", true},
		{"contained", "10:00-11:00", "10:15-10:30", true},
		{"adjacent slots do not overlap", "10:00-10:30", "10:30-11:00", false},
		{"disjoint", "09:00-09:30", "10:00-10:30", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := mustSlot(tt.a)
			b := mustSlot(tt.b)
			assert.Equal(t, tt.want, a.Overlaps(b))
			assert.Equal(t, tt.want, b.Overlaps(a))
		})
	}
}

func TestTimeSlot_Equal(t *testing.T) {
	a, err := ParseTimeSlot("10:00-10:30")
	require.NoError(t, err)
	b, err := ParseTimeSlot("10:00-10:30")
	require.NoError(t, err)
	c, err := ParseTimeSlot("10:30-11:00")
	require.NoError(t, err)

	assert.True(t, a.Equal(b))
	assert.False(t, a.Equal(c))
}
