package availability

import (
	"iter"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// DayStatus объясняет, почему у дня есть или нет слотов
type DayStatus string

const (
	// DayOpen ресторан открыт, слоты есть
	DayOpen DayStatus = "open"
	// DayClosed выходной день
	DayClosed DayStatus = "closed"
	// DayNoFit ресторан открыт, но длительность брони не помещается в часы работы
	DayNoFit DayStatus = "no_fit"
)

// SlotGenerator строит последовательность времён начала брони на дату.
// Окно бронирования (min/max) здесь не проверяется, это делает Matcher.
type SlotGenerator struct {
	calendar domain.BusinessCalendar
	policy   domain.ReservationPolicy
}

// NewSlotGenerator создает генератор слотов
func NewSlotGenerator(calendar domain.BusinessCalendar, policy domain.ReservationPolicy) *SlotGenerator {
	return &SlotGenerator{
		calendar: calendar,
		policy:   policy,
	}
}

// DayPlan часы работы на дату и границы слотов в минутах
type DayPlan struct {
	Status    DayStatus
	Hours     domain.DayHours
	FirstSlot int
	LastSlot  int
	Step      int
}

// Plan вычисляет границы слотов на дату
func (g *SlotGenerator) Plan(date time.Time) (DayPlan, error) {
	if err := g.policy.Validate(); err != nil {
		return DayPlan{}, err
	}

	// 1. Часы работы по дню недели
	hours, err := g.calendar.HoursFor(date)
	if err != nil {
		return DayPlan{}, err
	}
	if hours.Closed {
		return DayPlan{Status: DayClosed, Hours: hours}, nil
	}

	// 2. Последнее начало: бронь должна закончиться не позже закрытия
	open := hours.Open.Minutes()
	lastStart := hours.Close.Minutes() - g.policy.DefaultDurationMinutes

	// 3. Бронь не помещается в день
	if lastStart < open {
		return DayPlan{Status: DayNoFit, Hours: hours}, nil
	}

	return DayPlan{
		Status:    DayOpen,
		Hours:     hours,
		FirstSlot: open,
		LastSlot:  lastStart,
		Step:      g.policy.TimeSlotIntervalMinutes,
	}, nil
}

// Slots возвращает ленивую последовательность слотов на дату.
// Последовательность вычисляется заново при каждом обходе.
func (g *SlotGenerator) Slots(date time.Time) (iter.Seq[types.TimeString], DayStatus, error) {
	plan, err := g.Plan(date)
	if err != nil {
		return emptySeq, "", err
	}
	return plan.Slots(), plan.Status, nil
}

// Contains проверяет, что start является одним из слотов даты
func (g *SlotGenerator) Contains(date time.Time, start types.TimeString) (bool, error) {
	plan, err := g.Plan(date)
	if err != nil {
		return false, err
	}
	return plan.Contains(start), nil
}

// Slots возвращает последовательность слотов плана
func (p DayPlan) Slots() iter.Seq[types.TimeString] {
	if p.Status != DayOpen {
		return emptySeq
	}
	return func(yield func(types.TimeString) bool) {
		for minutes := p.FirstSlot; minutes <= p.LastSlot; minutes += p.Step {
			slot, err := types.FromMinutes(minutes)
			if err != nil {
				return
			}
			if !yield(slot) {
				return
			}
		}
	}
}

// Contains проверяет принадлежность времени к слотам плана
func (p DayPlan) Contains(start types.TimeString) bool {
	if p.Status != DayOpen {
		return false
	}
	minutes := start.Minutes()
	if minutes < p.FirstSlot || minutes > p.LastSlot {
		return false
	}
	return (minutes-p.FirstSlot)%p.Step == 0
}

func emptySeq(func(types.TimeString) bool) {}
