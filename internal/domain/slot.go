package domain

import "github.com/m04kA/DCP-BookingEngine/pkg/types"

// AvailableSlot represents a time slot offered for booking
type AvailableSlot struct {
	Slot           types.TimeSlot
	AvailableSpots int // Свободные места для данного вида лечения
	TotalSpots     int // Всего мест (maxConcurrentPerSlot)
}

// IsFull returns true if the slot has no available spots
func (s *AvailableSlot) IsFull() bool {
	return s.AvailableSpots <= 0
}

// IsPartiallyAvailable returns true if the slot has some but not all spots available
func (s *AvailableSlot) IsPartiallyAvailable() bool {
	return s.AvailableSpots > 0 && s.AvailableSpots < s.TotalSpots
}

// OccupancyRate returns the occupancy rate as a percentage (0-100)
func (s *AvailableSlot) OccupancyRate() float64 {
	if s.TotalSpots == 0 {
		return 0
	}
	occupied := s.TotalSpots - s.AvailableSpots
	return float64(occupied) / float64(s.TotalSpots) * 100
}
