package settings

import (
	"context"

	"github.com/m04kA/SMC-ReservationService/internal/domain"
	settingsRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/settings"
)

type fakeRepo struct {
	policy    *domain.ReservationPolicy
	calendar  domain.BusinessCalendar
	err       error
	savedDays map[domain.Weekday]domain.DayHours
}

func newFakeRepo() *fakeRepo {
	return &fakeRepo{savedDays: make(map[domain.Weekday]domain.DayHours)}
}

func (r *fakeRepo) GetPolicy(ctx context.Context) (*domain.ReservationPolicy, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.policy == nil {
		return nil, settingsRepo.ErrPolicyNotFound
	}
	p := *r.policy
	return &p, nil
}

func (r *fakeRepo) SavePolicy(ctx context.Context, policy *domain.ReservationPolicy) (*domain.ReservationPolicy, error) {
	if r.err != nil {
		return nil, r.err
	}
	p := *policy
	r.policy = &p
	return policy, nil
}

func (r *fakeRepo) GetCalendar(ctx context.Context) (domain.BusinessCalendar, error) {
	return r.calendar, r.err
}

func (r *fakeRepo) SaveDayHours(ctx context.Context, weekday domain.Weekday, hours domain.DayHours) error {
	if r.err != nil {
		return r.err
	}
	r.calendar[weekday] = hours
	r.savedDays[weekday] = hours
	return nil
}
