package types

import (
	"fmt"
	"strings"
)

// TimeSlot временной слот с фиксированными началом и концом (например, 10:00-10:30)
type TimeSlot struct {
	Start TimeString
	End   TimeString
}

// NewTimeSlot создает TimeSlot с валидацией границ
func NewTimeSlot(start, end TimeString) (TimeSlot, error) {
	slot := TimeSlot{Start: start, End: end}
	if err := slot.Validate(); err != nil {
		return TimeSlot{}, err
	}
	return slot, nil
}

// ParseTimeSlot разбирает строку вида "10:00-10:30"
func ParseTimeSlot(s string) (TimeSlot, error) {
	parts := strings.SplitN(s, "-", 2)
	if len(parts) != 2 {
		return TimeSlot{}, fmt.Errorf("invalid time slot format: %q, expected HH:MM-HH:MM", s)
	}

	start, err := NewTimeStringFromString(strings.TrimSpace(parts[0]))
	if err != nil {
		return TimeSlot{}, err
	}
	end, err := NewTimeStringFromString(strings.TrimSpace(parts[1]))
	if err != nil {
		return TimeSlot{}, err
	}

	return NewTimeSlot(start, end)
}

// Validate проверяет формат границ и что начало строго раньше конца
func (s TimeSlot) Validate() error {
	if err := s.Start.Validate(); err != nil {
		return err
	}
	if s.End != "24:00" {
		if err := s.End.Validate(); err != nil {
			return err
		}
	}
	if !s.Start.IsBefore(s.End) {
		return fmt.Errorf("invalid time slot: start %s must be before end %s", s.Start, s.End)
	}
	return nil
}

// IsZero возвращает true, если слот не задан
func (s TimeSlot) IsZero() bool {
	return s.Start.IsZero() && s.End.IsZero()
}

// String возвращает строковое представление слота вида "10:00-10:30"
func (s TimeSlot) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}

// Equal возвращает true, если слоты полностью совпадают
func (s TimeSlot) Equal(other TimeSlot) bool {
	return s.Start == other.Start && s.End == other.End
}

// DurationMinutes возвращает длительность слота в минутах
func (s TimeSlot) DurationMinutes() (int, error) {
	start, err := s.Start.MinutesFromMidnight()
	if err != nil {
		return 0, err
	}
	var end int
	if s.End == "24:00" {
		end = 24 * 60
	} else {
		end, err = s.End.MinutesFromMidnight()
		if err != nil {
			return 0, err
		}
	}
	return end - start, nil
}

// Overlaps возвращает true, если слоты действительно пересекаются
// Граничащие слоты (конец одного равен началу другого) пересечением не считаются
func (s TimeSlot) Overlaps(other TimeSlot) bool {
	return s.Start.IsBefore(other.End) && other.Start.IsBefore(s.End)
}
