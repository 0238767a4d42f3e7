// Package slots нарезает окна доступности на дискретные слоты
// длительностью конкретного вида лечения
package slots

import (
	"iter"
	"sort"

	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	"github.com/m04kA/DCP-BookingEngine/pkg/types"
)

// Sequence возвращает ленивую конечную перезапускаемую последовательность слотов
//
// Слоты укладываются от начала каждого окна с шагом durationMinutes;
// неполный хвостовой слот, выходящий за конец окна, отбрасывается.
// Слоты из разных окон никогда не склеиваются через разрыв.
// Порядок хронологический; дубликаты из пересекающихся окон убираются
// с сохранением первого вхождения
func Sequence(windows []domain.Window, durationMinutes int) iter.Seq[types.TimeSlot] {
	return func(yield func(types.TimeSlot) bool) {
		for _, slot := range Generate(windows, durationMinutes) {
			if !yield(slot) {
				return
			}
		}
	}
}

// Generate возвращает все слоты для набора окон (см. Sequence)
func Generate(windows []domain.Window, durationMinutes int) []types.TimeSlot {
	if durationMinutes <= 0 {
		return []types.TimeSlot{}
	}

	all := make([]types.TimeSlot, 0)
	for _, w := range windows {
		if !w.IsAvailable {
			continue
		}
		all = append(all, tileWindow(w, durationMinutes)...)
	}

	// Хронологический порядок поверх всех окон; sort стабильный,
	// чтобы при дубликатах сохранялось первое вхождение
	sort.SliceStable(all, func(i, j int) bool {
		if all[i].Start != all[j].Start {
			return all[i].Start.IsBefore(all[j].Start)
		}
		return all[i].End.IsBefore(all[j].End)
	})

	result := make([]types.TimeSlot, 0, len(all))
	seen := make(map[string]struct{}, len(all))
	for _, slot := range all {
		key := slot.String()
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		result = append(result, slot)
	}

	return result
}

// tileWindow укладывает слоты с шагом durationMinutes от начала окна
func tileWindow(w domain.Window, durationMinutes int) []types.TimeSlot {
	result := make([]types.TimeSlot, 0)
	current := w.Start

	for current.IsBefore(w.End) {
		end, err := current.AddMinutes(durationMinutes)
		if err != nil {
			// Слот вышел за пределы суток
			break
		}
		if end.IsAfter(w.End) {
			// Неполный хвостовой слот отбрасываем
			break
		}

		result = append(result, types.TimeSlot{Start: current, End: end})
		current = end
	}

	return result
}
