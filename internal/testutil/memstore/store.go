// Package memstore хранилище в памяти для тестов use case.
// Повторяет контракты репозиториев из internal/infra/storage, включая их ошибки,
// а транзакции выполняются последовательно с откатом к снимку состояния.
package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/m04kA/LogiFlow-BookingService/internal/domain"
	bookingRepo "github.com/m04kA/LogiFlow-BookingService/internal/infra/storage/booking"
	driverRepo "github.com/m04kA/LogiFlow-BookingService/internal/infra/storage/driver"
)

type state struct {
	bookings        map[int64]domain.Booking
	locations       map[int64]domain.Location
	items           map[int64][]domain.BookingItem
	tracking        []domain.TrackingUpdate
	drivers         map[int64]domain.Driver
	trackingNumbers map[string]int64
}

func (s state) clone() state {
	c := state{
		bookings:        make(map[int64]domain.Booking, len(s.bookings)),
		locations:       make(map[int64]domain.Location, len(s.locations)),
		items:           make(map[int64][]domain.BookingItem, len(s.items)),
		tracking:        append([]domain.TrackingUpdate(nil), s.tracking...),
		drivers:         make(map[int64]domain.Driver, len(s.drivers)),
		trackingNumbers: make(map[string]int64, len(s.trackingNumbers)),
	}
	for k, v := range s.bookings {
		c.bookings[k] = v
	}
	for k, v := range s.locations {
		c.locations[k] = v
	}
	for k, v := range s.items {
		c.items[k] = append([]domain.BookingItem(nil), v...)
	}
	for k, v := range s.drivers {
		c.drivers[k] = v
	}
	for k, v := range s.trackingNumbers {
		c.trackingNumbers[k] = v
	}
	return c
}

// Store общее состояние фейковых репозиториев
type Store struct {
	mu       sync.Mutex
	txMu     sync.Mutex
	data     state
	nextID   int64
	failures map[string]error
	clock    func() time.Time
}

// New создает пустое хранилище
func New() *Store {
	return &Store{
		data: state{
			bookings:        map[int64]domain.Booking{},
			locations:       map[int64]domain.Location{},
			items:           map[int64][]domain.BookingItem{},
			drivers:         map[int64]domain.Driver{},
			trackingNumbers: map[string]int64{},
		},
		failures: map[string]error{},
		clock:    time.Now,
	}
}

// FailOn заставляет операцию op (например "driver.CreditDelivery") возвращать err
func (s *Store) FailOn(op string, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[op] = err
}

// ClearFailures убирает все внедренные ошибки
func (s *Store) ClearFailures() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures = map[string]error{}
}

func (s *Store) failure(op string) error {
	return s.failures[op]
}

func (s *Store) id() int64 {
	s.nextID++
	return s.nextID
}

// AddDriver добавляет профиль водителя
func (s *Store) AddDriver(d domain.Driver) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data.drivers[d.UserID] = d
}

// AddBooking добавляет бронирование и возвращает его ID
func (s *Store) AddBooking(b domain.Booking) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if b.ID == 0 {
		b.ID = s.id()
	}
	s.data.bookings[b.ID] = b
	if b.TrackingNumber != "" {
		s.data.trackingNumbers[b.TrackingNumber] = b.ID
	}
	return b.ID
}

// Booking возвращает копию бронирования
func (s *Store) Booking(id int64) (domain.Booking, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.data.bookings[id]
	return b, ok
}

// Driver возвращает копию профиля водителя
func (s *Store) Driver(userID int64) (domain.Driver, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	d, ok := s.data.drivers[userID]
	return d, ok
}

// Items возвращает позиции груза бронирования
func (s *Store) Items(bookingID int64) []domain.BookingItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.BookingItem(nil), s.data.items[bookingID]...)
}

// Tracking возвращает журнал бронирования, сначала новые записи
func (s *Store) Tracking(bookingID int64) []domain.TrackingUpdate {
	s.mu.Lock()
	defer s.mu.Unlock()
	var result []domain.TrackingUpdate
	for _, u := range s.data.tracking {
		if u.BookingID == bookingID {
			result = append(result, u)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result
}

// Counts количество строк в таблицах
type Counts struct {
	Bookings  int
	Locations int
	Items     int
	Tracking  int
}

// Counts возвращает количество сохраненных строк
func (s *Store) Counts() Counts {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := 0
	for _, v := range s.data.items {
		items += len(v)
	}
	return Counts{
		Bookings:  len(s.data.bookings),
		Locations: len(s.data.locations),
		Items:     items,
		Tracking:  len(s.data.tracking),
	}
}

type txKey struct{}

// TxManager выполняет функции последовательно, при ошибке восстанавливает снимок состояния
type TxManager struct {
	s *Store
}

// TxManager возвращает менеджер транзакций хранилища
func (s *Store) TxManager() *TxManager {
	return &TxManager{s: s}
}

// Do выполняет fn в транзакции
func (m *TxManager) Do(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(txKey{}) != nil {
		return fn(ctx)
	}

	m.s.txMu.Lock()
	defer m.s.txMu.Unlock()

	m.s.mu.Lock()
	snapshot := m.s.data.clone()
	m.s.mu.Unlock()

	if err := fn(context.WithValue(ctx, txKey{}, true)); err != nil {
		m.s.mu.Lock()
		m.s.data = snapshot
		m.s.mu.Unlock()
		return err
	}
	return nil
}

// DoSerializable выполняет fn в транзакции
func (m *TxManager) DoSerializable(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.Do(ctx, fn)
}

// BookingRepo фейковый репозиторий бронирований
type BookingRepo struct{ s *Store }

// Bookings возвращает репозиторий бронирований
func (s *Store) Bookings() *BookingRepo { return &BookingRepo{s: s} }

func (r *BookingRepo) Create(_ context.Context, b *domain.Booking) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("booking.Create"); err != nil {
		return nil, err
	}
	if _, taken := r.s.data.trackingNumbers[b.TrackingNumber]; taken {
		return nil, bookingRepo.ErrDuplicateTrackingNumber
	}
	b.ID = r.s.id()
	b.CreatedAt = r.s.clock()
	b.UpdatedAt = b.CreatedAt
	r.s.data.bookings[b.ID] = *b
	r.s.data.trackingNumbers[b.TrackingNumber] = b.ID
	return b, nil
}

func (r *BookingRepo) GetByID(_ context.Context, id int64) (*domain.Booking, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("booking.GetByID"); err != nil {
		return nil, err
	}
	b, ok := r.s.data.bookings[id]
	if !ok {
		return nil, bookingRepo.ErrBookingNotFound
	}
	return &b, nil
}

func (r *BookingRepo) GetByIDForUpdate(ctx context.Context, id int64) (*domain.Booking, error) {
	return r.GetByID(ctx, id)
}

func (r *BookingRepo) UpdateStatus(_ context.Context, id int64, status domain.BookingStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("booking.UpdateStatus"); err != nil {
		return err
	}
	b, ok := r.s.data.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.Status = status
	b.UpdatedAt = at
	switch status {
	case domain.StatusPickedUp:
		b.ActualPickupTime = &at
	case domain.StatusDelivered:
		b.ActualDeliveryTime = &at
	}
	r.s.data.bookings[id] = b
	return nil
}

func (r *BookingRepo) AssignDriver(_ context.Context, id, driverID int64, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("booking.AssignDriver"); err != nil {
		return err
	}
	b, ok := r.s.data.bookings[id]
	if !ok || b.Status != domain.StatusPending || b.DriverID != nil {
		return bookingRepo.ErrConditionNotMet
	}
	b.DriverID = &driverID
	b.Status = domain.StatusAssigned
	b.UpdatedAt = at
	r.s.data.bookings[id] = b
	return nil
}

func (r *BookingRepo) CountActiveByDriver(_ context.Context, driverID, excludeID int64) (int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("booking.CountActiveByDriver"); err != nil {
		return 0, err
	}
	count := 0
	for id, b := range r.s.data.bookings {
		if id != excludeID && b.DriverID != nil && *b.DriverID == driverID && b.Status.IsActive() {
			count++
		}
	}
	return count, nil
}

func (r *BookingRepo) UpdatePaymentStatus(_ context.Context, id int64, status domain.PaymentStatus, at time.Time) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("booking.UpdatePaymentStatus"); err != nil {
		return err
	}
	b, ok := r.s.data.bookings[id]
	if !ok {
		return bookingRepo.ErrBookingNotFound
	}
	b.PaymentStatus = status
	b.UpdatedAt = at
	r.s.data.bookings[id] = b
	return nil
}

// LocationRepo фейковый репозиторий адресов
type LocationRepo struct{ s *Store }

// Locations возвращает репозиторий адресов
func (s *Store) Locations() *LocationRepo { return &LocationRepo{s: s} }

func (r *LocationRepo) Create(_ context.Context, loc *domain.Location) (*domain.Location, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("location.Create"); err != nil {
		return nil, err
	}
	loc.ID = r.s.id()
	r.s.data.locations[loc.ID] = *loc
	return loc, nil
}

// ItemRepo фейковый репозиторий позиций груза
type ItemRepo struct{ s *Store }

// ItemsRepo возвращает репозиторий позиций груза
func (s *Store) ItemsRepo() *ItemRepo { return &ItemRepo{s: s} }

func (r *ItemRepo) CreateBatch(_ context.Context, bookingID int64, items []domain.BookingItem) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("item.CreateBatch"); err != nil {
		return err
	}
	for _, item := range items {
		item.ID = r.s.id()
		item.BookingID = bookingID
		r.s.data.items[bookingID] = append(r.s.data.items[bookingID], item)
	}
	return nil
}

// TrackingRepo фейковый журнал трекинга
type TrackingRepo struct{ s *Store }

// TrackingRepo возвращает журнал трекинга
func (s *Store) TrackingRepo() *TrackingRepo { return &TrackingRepo{s: s} }

func (r *TrackingRepo) Create(_ context.Context, u *domain.TrackingUpdate) (*domain.TrackingUpdate, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("tracking.Create"); err != nil {
		return nil, err
	}
	u.ID = r.s.id()
	u.CreatedAt = r.s.clock()
	r.s.data.tracking = append(r.s.data.tracking, *u)
	return u, nil
}

// DriverRepo фейковый репозиторий водителей
type DriverRepo struct{ s *Store }

// Drivers возвращает репозиторий водителей
func (s *Store) Drivers() *DriverRepo { return &DriverRepo{s: s} }

func (r *DriverRepo) GetByUserID(_ context.Context, userID int64) (*domain.Driver, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("driver.GetByUserID"); err != nil {
		return nil, err
	}
	d, ok := r.s.data.drivers[userID]
	if !ok {
		return nil, driverRepo.ErrDriverNotFound
	}
	return &d, nil
}

func (r *DriverRepo) GetByUserIDForUpdate(ctx context.Context, userID int64) (*domain.Driver, error) {
	return r.GetByUserID(ctx, userID)
}

func (r *DriverRepo) SetStatusIf(_ context.Context, userID int64, from, to domain.DriverStatus) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("driver.SetStatusIf"); err != nil {
		return err
	}
	d, ok := r.s.data.drivers[userID]
	if !ok || d.Status != from {
		return driverRepo.ErrConditionNotMet
	}
	d.Status = to
	r.s.data.drivers[userID] = d
	return nil
}

func (r *DriverRepo) CreditDelivery(_ context.Context, userID int64, earnings decimal.Decimal) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if err := r.s.failure("driver.CreditDelivery"); err != nil {
		return err
	}
	d, ok := r.s.data.drivers[userID]
	if !ok {
		return driverRepo.ErrDriverNotFound
	}
	d.TotalEarnings = d.TotalEarnings.Add(earnings)
	d.CompletedDeliveries++
	r.s.data.drivers[userID] = d
	return nil
}
