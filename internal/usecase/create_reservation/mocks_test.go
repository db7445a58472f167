package create_reservation

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/m04kA/SMC-ReservationService/internal/availability"
	"github.com/m04kA/SMC-ReservationService/internal/domain"
	reservationRepo "github.com/m04kA/SMC-ReservationService/internal/infra/storage/reservation"
	"github.com/m04kA/SMC-ReservationService/internal/integrations/userservice"
)

type fixedTime struct {
	now time.Time
}

func (f fixedTime) Now() time.Time {
	return f.now
}

// fakeTx транзакция in-memory хранилища: вставки видны после commit, блокировки держатся до конца
type fakeTx struct {
	held     []*sync.Mutex
	onCommit []func()
}

type txKey struct{}

func txFrom(ctx context.Context) *fakeTx {
	tx, _ := ctx.Value(txKey{}).(*fakeTx)
	return tx
}

// fakeTxManager выполняет fn в fakeTx, commitErr имитирует ошибку фиксации
type fakeTxManager struct {
	commitErr error
}

func (m *fakeTxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	tx := &fakeTx{}
	defer func() {
		for _, l := range tx.held {
			l.Unlock()
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		return err
	}
	if m.commitErr != nil {
		return m.commitErr
	}
	for _, apply := range tx.onCommit {
		apply()
	}
	return nil
}

// memoryStore in-memory репозиторий бронирований и столов
type memoryStore struct {
	mu           sync.Mutex
	nextID       int64
	reservations []*domain.Reservation
	tables       []*domain.Table
	locks        map[string]*sync.Mutex

	// ledgerBarrier задерживает чтение журнала, пока его не прочитают все участники
	ledgerBarrier *sync.WaitGroup

	createErr    error
	lookups      int
	lockRequests []string
}

func newMemoryStore(capacities ...int) *memoryStore {
	s := &memoryStore{locks: make(map[string]*sync.Mutex)}
	for i, capacity := range capacities {
		s.tables = append(s.tables, &domain.Table{ID: int64(i + 1), Capacity: capacity, Active: true})
	}
	return s
}

func (s *memoryStore) ListActive(ctx context.Context) ([]*domain.Table, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Table(nil), s.tables...), nil
}

func (s *memoryStore) Create(ctx context.Context, r *domain.Reservation) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.createErr != nil {
		return nil, s.createErr
	}
	if r.IdempotencyKey != nil {
		for _, existing := range s.reservations {
			if existing.IdempotencyKey != nil && *existing.IdempotencyKey == *r.IdempotencyKey {
				return nil, fmt.Errorf("%w: Create - execute insert", reservationRepo.ErrDuplicateIdempotencyKey)
			}
		}
	}

	s.nextID++
	created := *r
	created.ID = s.nextID
	created.CreatedAt = time.Now()
	created.UpdatedAt = created.CreatedAt

	insert := func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.reservations = append(s.reservations, &created)
	}
	if tx := txFrom(ctx); tx != nil {
		tx.onCommit = append(tx.onCommit, insert)
	} else {
		s.reservations = append(s.reservations, &created)
	}

	result := created
	return &result, nil
}

func (s *memoryStore) GetByID(ctx context.Context, id int64) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, r := range s.reservations {
		if r.ID == id {
			copied := *r
			return &copied, nil
		}
	}
	return nil, reservationRepo.ErrReservationNotFound
}

func (s *memoryStore) GetByIdempotencyKey(ctx context.Context, key string) (*domain.Reservation, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lookups++
	for _, r := range s.reservations {
		if r.IdempotencyKey != nil && *r.IdempotencyKey == key {
			copied := *r
			return &copied, nil
		}
	}
	return nil, reservationRepo.ErrReservationNotFound
}

func (s *memoryStore) GetConfirmedByDate(ctx context.Context, date time.Time) ([]*domain.Reservation, error) {
	result := s.confirmed(func(r *domain.Reservation) bool { return r.Date.Equal(date) })
	if s.ledgerBarrier != nil {
		s.ledgerBarrier.Done()
		s.ledgerBarrier.Wait()
	}
	return result, nil
}

func (s *memoryStore) GetConfirmedByTableAndDate(ctx context.Context, tableID int64, date time.Time) ([]*domain.Reservation, error) {
	return s.confirmed(func(r *domain.Reservation) bool {
		return r.Date.Equal(date) && r.IsOnTable(tableID)
	}), nil
}

func (s *memoryStore) LockTableDay(ctx context.Context, tableID int64, date time.Time) error {
	key := reservationRepo.LockKey(tableID, date)

	s.mu.Lock()
	l, ok := s.locks[key]
	if !ok {
		l = &sync.Mutex{}
		s.locks[key] = l
	}
	s.lockRequests = append(s.lockRequests, key)
	s.mu.Unlock()

	l.Lock()
	if tx := txFrom(ctx); tx != nil {
		tx.held = append(tx.held, l)
	} else {
		l.Unlock()
	}
	return nil
}

func (s *memoryStore) confirmed(match func(r *domain.Reservation) bool) []*domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	result := make([]*domain.Reservation, 0)
	for _, r := range s.reservations {
		if r.Status == domain.StatusConfirmed && match(r) {
			copied := *r
			result = append(result, &copied)
		}
	}
	return result
}

func (s *memoryStore) all() []*domain.Reservation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]*domain.Reservation(nil), s.reservations...)
}

type fakeSettings struct {
	calendar domain.BusinessCalendar
	policy   domain.ReservationPolicy
}

func (f *fakeSettings) Matcher(ctx context.Context) (*availability.Matcher, error) {
	return availability.NewMatcher(f.calendar, f.policy, time.UTC), nil
}

// scenarioSettings 11:00-22:00 каждый день, воскресенье выходной, политика {30, 2, 30, 90}
func scenarioSettings() *fakeSettings {
	var calendar domain.BusinessCalendar
	for i := range calendar {
		calendar[i] = domain.DayHours{Open: "11:00", Close: "22:00"}
	}
	calendar[domain.Sunday] = domain.DayHours{Closed: true}

	return &fakeSettings{
		calendar: calendar,
		policy: domain.ReservationPolicy{
			MaxDaysInAdvance:        30,
			MinHoursInAdvance:       2,
			TimeSlotIntervalMinutes: 30,
			DefaultDurationMinutes:  90,
		},
	}
}

type fakeUserClient struct {
	contact *userservice.Contact
	err     error
	calls   int
}

func (c *fakeUserClient) GetContactWithGracefulDegradation(ctx context.Context, userID int64) (*userservice.Contact, error) {
	c.calls++
	return c.contact, c.err
}

type fakeMetrics struct {
	mu       sync.Mutex
	created  map[string]int
	rejected map[string]int
}

func newFakeMetrics() *fakeMetrics {
	return &fakeMetrics{created: make(map[string]int), rejected: make(map[string]int)}
}

func (m *fakeMetrics) IncReservationCreated(status string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.created[status]++
}

func (m *fakeMetrics) IncReservationRejected(reason string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rejected[reason]++
}
