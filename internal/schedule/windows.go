package schedule

import (
	"fmt"
	"sort"

	"github.com/m04kA/DCP-BookingEngine/internal/domain"
	"github.com/m04kA/DCP-BookingEngine/pkg/types"
)

// span интервал в минутах с полуночи, [start, end)
type span struct {
	start int
	end   int
}

// applyUnavailable применяет вычитание в пределах одного уровня приоритета:
// окна с IsAvailable=false вырезаются из доступных окон того же источника
// Результат отсортирован хронологически; все окна в нём доступны
func applyUnavailable(windows []domain.Window) ([]domain.Window, error) {
	available := make([]span, 0, len(windows))
	blocked := make([]span, 0)

	for _, w := range windows {
		s, err := windowToSpan(w)
		if err != nil {
			return nil, err
		}
		if s.start >= s.end {
			// Пустые и вывернутые окна игнорируем
			continue
		}
		if w.IsAvailable {
			available = append(available, s)
		} else {
			blocked = append(blocked, s)
		}
	}

	result := make([]span, 0, len(available))
	for _, a := range available {
		result = append(result, subtractSpans(a, blocked)...)
	}

	sort.Slice(result, func(i, j int) bool {
		if result[i].start != result[j].start {
			return result[i].start < result[j].start
		}
		return result[i].end < result[j].end
	})

	out := make([]domain.Window, 0, len(result))
	for _, s := range result {
		out = append(out, spanToWindow(s))
	}
	return out, nil
}

// subtractSpans вырезает из интервала a все пересечения с blocked
// Может вернуть 0, 1 или несколько непересекающихся кусков
func subtractSpans(a span, blocked []span) []span {
	pieces := []span{a}

	for _, b := range blocked {
		next := make([]span, 0, len(pieces))
		for _, p := range pieces {
			// Нет пересечения - кусок остаётся целиком
			if b.end <= p.start || b.start >= p.end {
				next = append(next, p)
				continue
			}
			// Левый остаток
			if b.start > p.start {
				next = append(next, span{start: p.start, end: b.start})
			}
			// Правый остаток
			if b.end < p.end {
				next = append(next, span{start: b.end, end: p.end})
			}
		}
		pieces = next
	}

	return pieces
}

func windowToSpan(w domain.Window) (span, error) {
	start, err := w.Start.MinutesFromMidnight()
	if err != nil {
		return span{}, fmt.Errorf("invalid window start: %w", err)
	}

	var end int
	if w.End == "24:00" {
		end = 24 * 60
	} else {
		end, err = w.End.MinutesFromMidnight()
		if err != nil {
			return span{}, fmt.Errorf("invalid window end: %w", err)
		}
	}

	return span{start: start, end: end}, nil
}

func spanToWindow(s span) domain.Window {
	return domain.Window{
		Start:       minutesToTimeString(s.start),
		End:         minutesToTimeString(s.end),
		IsAvailable: true,
	}
}

func minutesToTimeString(m int) types.TimeString {
	if m == 24*60 {
		return types.TimeString("24:00")
	}
	return types.TimeString(fmt.Sprintf("%02d:%02d", m/60, m%60))
}
