package reservations

import (
	"context"
	"sort"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
)

type fakeRepo struct {
	reservations map[int64]*domain.Reservation
	locked       []string
	lastFilter   domain.ReservationsFilter
	listErr      error
	updateErr    error
	endedCalls   int
}

func newFakeRepo(reservations ...*domain.Reservation) *fakeRepo {
	repo := &fakeRepo{reservations: make(map[int64]*domain.Reservation)}
	for _, r := range reservations {
		repo.reservations[r.ID] = r
	}
	return repo
}

func (r *fakeRepo) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	res, ok := r.reservations[id]
	if !ok {
		return nil, reservationRepo.ErrReservationNotFound
	}
	copied := *res
	return &copied, nil
}

func (r *fakeRepo) List(ctx context.Context, filter domain.ReservationsFilter) ([]*domain.Reservation, error) {
	r.lastFilter = filter
	if r.listErr != nil {
		return nil, r.listErr
	}

	result := make([]*domain.Reservation, 0)
	for _, res := range r.reservations {
		if filter.UserID != nil && !res.IsOwnedBy(*filter.UserID) {
			continue
		}
		if filter.Date != nil && !res.Date.Equal(*filter.Date) {
			continue
		}
		result = append(result, res)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (r *fakeRepo) GetEndedConfirmed(ctx context.Context, now time.Time, loc *time.Location, limit uint64) ([]*domain.Reservation, error) {
	r.endedCalls++

	result := make([]*domain.Reservation, 0)
	for _, res := range r.reservations {
		if res.Status == domain.StatusConfirmed && res.HasEnded(now, loc) {
			copied := *res
			result = append(result, &copied)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	if uint64(len(result)) > limit {
		result = result[:limit]
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

func (r *fakeRepo) confirmed() []*domain.Reservation {
	result := make([]*domain.Reservation, 0)
	for _, res := range r.reservations {
		if res.Status == domain.StatusConfirmed {
			result = append(result, res)
		}
	}
	return result
}

type fakeTxManager struct {
	commitErr error
	calls     int
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	m.calls++
	if err := fn(ctx); err != nil {
		return err
	}
	return m.commitErr
}

type fakeSettings struct {
	policy    domain.ReservationPolicy
	policyErr error
}

func (f *fakeSettings) Policy(ctx context.Context) (domain.ReservationPolicy, error) {
	return f.policy, f.policyErr
}

func (f *fakeSettings) Location() *time.Location {
	return time.UTC
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

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}
