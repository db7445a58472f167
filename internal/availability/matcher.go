package availability

import (
	"cmp"
	"fmt"
	"slices"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	"github.com/m04kA/SMC-ReservationService/pkg/types"
)

// Request запрос на подбор стола
type Request struct {
	Date      time.Time
	StartTime types.TimeString
	PartySize int
}

// Matcher проверяет окно бронирования, слот и подбирает стол.
// Работает на снимке столов и подтверждённых броней, который передаёт вызывающий.
type Matcher struct {
	slots    *SlotGenerator
	calendar domain.BusinessCalendar
	policy   domain.ReservationPolicy
	loc      *time.Location
}

// NewMatcher создает matcher для календаря и политики ресторана в часовом поясе loc
func NewMatcher(calendar domain.BusinessCalendar, policy domain.ReservationPolicy, loc *time.Location) *Matcher {
	if loc == nil {
		loc = time.UTC
	}
	return &Matcher{
		slots:    NewSlotGenerator(calendar, policy),
		calendar: calendar,
		policy:   policy,
		loc:      loc,
	}
}

// Validate проверяет всю конфигурацию: семь дней календаря и длительность брони в каждом открытом дне.
// Ошибка в любом дне блокирует подбор и выдачу слотов на любую дату.
func (m *Matcher) Validate() error {
	return m.policy.ValidateAgainst(m.calendar)
}

// Slots генератор слотов matcher'а
func (m *Matcher) Slots() *SlotGenerator {
	return m.slots
}

// Policy политика, по которой работает matcher
func (m *Matcher) Policy() domain.ReservationPolicy {
	return m.policy
}

// Location часовой пояс ресторана
func (m *Matcher) Location() *time.Location {
	return m.loc
}

// Window окно, которое займёт бронь с началом в start
func (m *Matcher) Window(start types.TimeString) domain.Window {
	return domain.NewWindow(start, m.policy.DefaultDurationMinutes)
}

// Today текущая дата ресторана
func (m *Matcher) Today(now time.Time) time.Time {
	return domain.DateOf(now.In(m.loc))
}

// CheckDate проверяет, что дата лежит в [сегодня, сегодня + MaxDaysInAdvance]
func (m *Matcher) CheckDate(now time.Time, date time.Time) error {
	today := m.Today(now)
	day := domain.DateOf(date)
	lastDay := today.AddDate(0, 0, m.policy.MaxDaysInAdvance)

	if day.Before(today) {
		return fmt.Errorf("%w: %s is in the past", domain.ErrOutOfWindow, day.Format(domain.DateFormat))
	}
	if day.After(lastDay) {
		return fmt.Errorf("%w: %s is more than %d days ahead",
			domain.ErrOutOfWindow, day.Format(domain.DateFormat), m.policy.MaxDaysInAdvance)
	}
	return nil
}

// CheckWindow проверяет now + MinHoursInAdvance <= начало брони и ограничение по дням вперёд
func (m *Matcher) CheckWindow(now time.Time, date time.Time, start types.TimeString) error {
	if err := m.CheckDate(now, date); err != nil {
		return err
	}
	if !m.isFarEnough(now, date, start) {
		return fmt.Errorf("%w: %s %s is less than %d hours ahead",
			domain.ErrOutOfWindow, date.Format(domain.DateFormat), start, m.policy.MinHoursInAdvance)
	}
	return nil
}

// Match подбирает стол для запроса.
// Порядок проверок: конфигурация, окно бронирования, слот, поиск стола best-fit.
func (m *Matcher) Match(now time.Time, req Request, tables []*domain.Table, confirmed []*domain.Reservation) (*domain.Table, error) {
	if req.PartySize <= 0 {
		return nil, ErrInvalidPartySize
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	if err := req.StartTime.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrInvalidSlot, err)
	}

	// 1. Окно бронирования
	if err := m.CheckWindow(now, req.Date, req.StartTime); err != nil {
		return nil, err
	}

	// 2. Время должно совпадать с одним из слотов дня
	ok, err := m.slots.Contains(req.Date, req.StartTime)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, fmt.Errorf("%w: %s on %s", domain.ErrInvalidSlot, req.StartTime, req.Date.Format(domain.DateFormat))
	}

	// 3. Наименьший подходящий свободный стол
	table := m.BestFit(req.Date, req.PartySize, m.Window(req.StartTime), tables, confirmed)
	if table == nil {
		return nil, fmt.Errorf("%w: party of %d at %s", domain.ErrFullyBooked, req.PartySize, req.StartTime)
	}
	return table, nil
}

// BestFit возвращает свободный стол с наименьшей вместимостью (при равенстве - с меньшим id) или nil
func (m *Matcher) BestFit(date time.Time, partySize int, window domain.Window, tables []*domain.Table, confirmed []*domain.Reservation) *domain.Table {
	free := m.FreeTables(date, partySize, window, tables, confirmed)
	if len(free) == 0 {
		return nil
	}
	return free[0]
}

// FreeTables все столы, способные вместить компанию и свободные в окне, в порядке best-fit
func (m *Matcher) FreeTables(date time.Time, partySize int, window domain.Window, tables []*domain.Table, confirmed []*domain.Reservation) []*domain.Table {
	day := domain.DateOf(date)

	free := make([]*domain.Table, 0, len(tables))
	for _, table := range tables {
		if !table.Seats(partySize) {
			continue
		}
		if isOccupied(table.ID, day, window, confirmed) {
			continue
		}
		free = append(free, table)
	}

	slices.SortFunc(free, func(a, b *domain.Table) int {
		if c := cmp.Compare(a.Capacity, b.Capacity); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
	return free
}

// IsTableFree проверяет, что на столе нет подтверждённой брони, пересекающей окно
func (m *Matcher) IsTableFree(tableID int64, date time.Time, window domain.Window, confirmed []*domain.Reservation) bool {
	return !isOccupied(tableID, domain.DateOf(date), window, confirmed)
}

// Available слоты даты, на которые есть хотя бы один стол для компании partySize.
// Для сегодняшней даты отбрасываются слоты раньше now + MinHoursInAdvance.
func (m *Matcher) Available(now time.Time, date time.Time, partySize int, tables []*domain.Table, confirmed []*domain.Reservation) ([]types.TimeString, DayStatus, error) {
	if partySize <= 0 {
		return nil, "", ErrInvalidPartySize
	}
	if err := m.Validate(); err != nil {
		return nil, "", err
	}
	if err := m.CheckDate(now, date); err != nil {
		return nil, "", err
	}

	seq, status, err := m.slots.Slots(date)
	if err != nil {
		return nil, "", err
	}

	result := make([]types.TimeString, 0)
	for slot := range seq {
		if !m.isFarEnough(now, date, slot) {
			continue
		}
		if m.BestFit(date, partySize, m.Window(slot), tables, confirmed) != nil {
			result = append(result, slot)
		}
	}
	return result, status, nil
}

func (m *Matcher) isFarEnough(now time.Time, date time.Time, start types.TimeString) bool {
	return !now.Add(m.policy.MinLead()).After(start.OnDate(date, m.loc))
}

func isOccupied(tableID int64, day time.Time, window domain.Window, confirmed []*domain.Reservation) bool {
	for _, r := range confirmed {
		if !domain.DateOf(r.Date).Equal(day) {
			continue
		}
		if r.Conflicts(tableID, window) {
			return true
		}
	}
	return false
}
