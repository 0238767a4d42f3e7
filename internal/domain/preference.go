package domain

import (
	"time"

	"github.com/m04kA/DCP-BookingEngine/pkg/types"
)

// AppointmentPreference один из ранжированных вариантов (дата, слот), поданных с заявкой
// Заявка владеет 1-3 preferences; после создания они неизменяемы
// и исчезают только вместе с отменой/пересозданием заявки
type AppointmentPreference struct {
	ID            int64
	AppointmentID int64
	Rank          int // 1..3, порядок предпочтения
	PreferredDate time.Time
	Slot          types.TimeSlot
	CreatedAt     time.Time
}

// Matches returns true if the preference targets the given (date, slot)
func (p *AppointmentPreference) Matches(date time.Time, slot types.TimeSlot) bool {
	return sameDay(p.PreferredDate, date) && p.Slot.Equal(slot)
}
