package confirm_reservation

import (
	"context"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
)

type fakeRepo struct {
	reservations map[int64]*domain.Reservation
	tables       []*domain.Table
	updateErr    error
	locked       []string
}

func newFakeRepo(capacities ...int) *fakeRepo {
	repo := &fakeRepo{reservations: make(map[int64]*domain.Reservation)}
	for i, capacity := range capacities {
		repo.tables = append(repo.tables, &domain.Table{ID: int64(i + 1), Capacity: capacity, Active: true})
	}
	return repo
}

func (r *fakeRepo) add(res *domain.Reservation) {
	r.reservations[res.ID] = res
}

func (r *fakeRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, ok := r.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *res
	return &copied, nil
}

func (r *fakeRepo) GetConfirmedByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	for _, res := range r.reservations {
		if res.Status == domain.StatusConfirmed && res.Date.Equal(date) {
			result = append(result, res)
		}
	}
	return result, nil
}

func (r *fakeRepo) GetConfirmedByTableAndDate(ctx context.Context, tableID int64, date time.Time) ([]*domain.Reservation, error) {
	result := make([]*domain.Reservation, 0)
	for _, res := range r.reservations {
		if res.Status == domain.StatusConfirmed && res.Date.Equal(date) && res.IsOnTable(tableID) {
			result = append(result, res)
		}
	}
	return result, nil
}

func (r *fakeRepo) LockTableDay(ctx context.Context, tableID int64, date time.Time) error {
	r.locked = append(r.locked, reservationRepo.LockKey(tableID, date))
	return nil
}

func (r *fakeRepo) Update(ctx context.Context, res *domain.Reservation) error {
	if r.updateErr != nil {
		return r.updateErr
	}
	copied := *res
	r.reservations[res.ID] = &copied
	return nil
}

func (r *fakeRepo) ListActive(ctx context.Context) ([]*domain.Table, error) {
	result := make([]*domain.Table, 0, len(r.tables))
	for _, table := range r.tables {
		if table.Active {
			result = append(result, table)
		}
	}
	return result, nil
}

type fakeTxManager struct {
	commitErr error
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	if err := fn(ctx); err != nil {
		return err
	}
	return m.commitErr
}

type fakeSettings struct{}

func (fakeSettings) Matcher(ctx context.Context) (*availability.Matcher, error) {
	var calendar domain.BusinessCalendar
	for i := range calendar {
		calendar[i] = domain.DayHours{Open: "11:00", Close: "22:00"}
	}
	return availability.NewMatcher(calendar, domain.DefaultPolicy(), time.UTC), nil
}

type fakeMetrics struct {
	transitions map[string]int
}

func (m *fakeMetrics) IncReservationTransition(event string) {
	if m.transitions == nil {
		m.transitions = make(map[string]int)
	}
	m.transitions[event]++
}
