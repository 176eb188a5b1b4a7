package booking

import (
	"context"
	"encoding/json"
	"testing"
	"time"
	_ "time/tzdata"

	"dogsalon/internal/domain"
	"dogsalon/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// Mock repositories
type MockBookingRepository struct {
	mock.Mock
}

func (m *MockBookingRepository) Create(ctx context.Context, b *domain.Booking, gap time.Duration) error {
	args := m.Called(ctx, b, gap)
	if args.Error(0) == nil {
		b.ID = 999 // simulate DB insert
	}
	return args.Error(0)
}

func (m *MockBookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) ListLiveForService(ctx context.Context, serviceID int64, from, to time.Time) ([]domain.Booking, error) {
	args := m.Called(ctx, serviceID, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Booking), args.Error(1)
}

func (m *MockBookingRepository) Cancel(ctx context.Context, id int64, at time.Time) error {
	args := m.Called(ctx, id, at)
	return args.Error(0)
}

func (m *MockBookingRepository) List(ctx context.Context, f repository.BookingFilter) ([]domain.BookingDetails, int64, error) {
	args := m.Called(ctx, f)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]domain.BookingDetails), args.Get(1).(int64), args.Error(2)
}

type MockServiceRepository struct {
	mock.Mock
}

func (m *MockServiceRepository) GetByID(ctx context.Context, id int64) (*domain.Service, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Service), args.Error(1)
}

type MockContactRepository struct {
	mock.Mock
}

func (m *MockContactRepository) Get(ctx context.Context) (*domain.Contact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

type MockUserRepository struct {
	mock.Mock
}

func (m *MockUserRepository) GetByID(ctx context.Context, id int64) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

type MockNotifier struct {
	mock.Mock
}

func (m *MockNotifier) BookingCreated(ctx context.Context, b *domain.Booking, svc *domain.Service, customer *domain.User) {
	m.Called(ctx, b, svc, customer)
}

func (m *MockNotifier) BookingCancelled(ctx context.Context, b *domain.Booking, svc *domain.Service, customer *domain.User, byCustomer bool) {
	m.Called(ctx, b, svc, customer, byCustomer)
}

type memCache struct {
	data    map[string][]byte
	deleted []string
}

func newMemCache() *memCache { return &memCache{data: map[string][]byte{}} }

func (c *memCache) GetJSON(_ context.Context, key string, dst any) (bool, error) {
	raw, ok := c.data[key]
	if !ok {
		return false, nil
	}
	return true, json.Unmarshal(raw, dst)
}

func (c *memCache) SetJSON(_ context.Context, key string, v any, _ time.Duration) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return err
	}
	c.data[key] = raw
	return nil
}

func (c *memCache) Delete(_ context.Context, keys ...string) error {
	for _, k := range keys {
		delete(c.data, k)
		c.deleted = append(c.deleted, k)
	}
	return nil
}

var salonTZ = time.FixedZone("CET", 3600)

type fixture struct {
	bookings *MockBookingRepository
	services *MockServiceRepository
	contacts *MockContactRepository
	users    *MockUserRepository
	notifier *MockNotifier
	cache    *memCache
	svc      *Service
}

// Monday 2030-03-11 10:00 salon time.
var fixedNow = time.Date(2030, 3, 11, 10, 0, 0, 0, salonTZ)

func newFixture(t *testing.T) *fixture {
	t.Helper()
	f := &fixture{
		bookings: new(MockBookingRepository),
		services: new(MockServiceRepository),
		contacts: new(MockContactRepository),
		users:    new(MockUserRepository),
		notifier: new(MockNotifier),
		cache:    newMemCache(),
	}
	f.svc = NewService(f.bookings, f.services, f.contacts, f.users, f.notifier, f.cache, Settings{
		DefaultOpen:  "08:00",
		DefaultClose: "16:00",
		Step:         30 * time.Minute,
		Gap:          0,
		HorizonDays:  30,
		Location:     salonTZ,
		CacheTTL:     time.Minute,
	}, nil).WithClock(func() time.Time { return fixedNow })
	return f
}

func bath() *domain.Service {
	small := int64(6000)
	return &domain.Service{ID: 1, NameEN: "Bath", PriceDefault: 8000, PriceSmall: &small, DurationMinutes: 60, Active: true}
}

func values(a *Availability) []string {
	out := make([]string, 0, len(a.Slots))
	for _, s := range a.Slots {
		out = append(out, s.Value)
	}
	return out
}

func TestService_GetAvailability_DefaultWindow(t *testing.T) {
	f := newFixture(t)
	f.services.On("GetByID", mock.Anything, int64(1)).Return(bath(), nil)
	f.contacts.On("Get", mock.Anything).Return(nil, repository.ErrNotFound)
	f.bookings.On("ListLiveForService", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)

	avail, err := f.svc.GetAvailability(context.Background(), 1, "2030-03-12")

	require.NoError(t, err)
	assert.False(t, avail.Closed)
	assert.Equal(t, "2030-03-12", avail.Date)
	require.Len(t, avail.Slots, 15)
	assert.Equal(t, "08:00", avail.Slots[0].Value)
	assert.Equal(t, "08:00 - 09:00", avail.Slots[0].Label)
	assert.Equal(t, "15:00", avail.Slots[14].Value)
	f.bookings.AssertExpectations(t)
}

func TestService_GetAvailability_DSTChangeDays(t *testing.T) {
	budapest, err := time.LoadLocation("Europe/Budapest")
	require.NoError(t, err)

	for _, day := range []string{"2026-10-25", "2027-03-28"} {
		t.Run(day, func(t *testing.T) {
			f := newFixture(t)
			f.svc = NewService(f.bookings, f.services, f.contacts, f.users, f.notifier, nil, Settings{
				DefaultOpen:  "08:00",
				DefaultClose: "16:00",
				Step:         30 * time.Minute,
				HorizonDays:  400,
				Location:     budapest,
			}, nil).WithClock(func() time.Time { return time.Date(2026, 10, 20, 9, 0, 0, 0, budapest) })
			f.services.On("GetByID", mock.Anything, int64(1)).Return(bath(), nil)
			f.contacts.On("Get", mock.Anything).Return(nil, repository.ErrNotFound)
			f.bookings.On("ListLiveForService", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)

			avail, err := f.svc.GetAvailability(context.Background(), 1, day)

			require.NoError(t, err)
			require.Len(t, avail.Slots, 15)
			assert.Equal(t, "08:00", avail.Slots[0].Value)
			assert.Equal(t, "15:00 - 16:00", avail.Slots[14].Label)
		})
	}
}

func TestService_GetAvailability_ExcludesBookedTimes(t *testing.T) {
	f := newFixture(t)
	f.services.On("GetByID", mock.Anything, int64(1)).Return(bath(), nil)
	f.contacts.On("Get", mock.Anything).Return(nil, repository.ErrNotFound)
	f.bookings.On("ListLiveForService", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]domain.Booking{{
		ID:        5,
		ServiceID: 1,
		StartTime: time.Date(2030, 3, 12, 9, 0, 0, 0, salonTZ).UTC(),
		EndTime:   time.Date(2030, 3, 12, 10, 0, 0, 0, salonTZ).UTC(),
	}}, nil)

	avail, err := f.svc.GetAvailability(context.Background(), 1, "2030-03-12")

	require.NoError(t, err)
	got := values(avail)
	assert.Contains(t, got, "08:00")
	assert.NotContains(t, got, "08:30")
	assert.NotContains(t, got, "09:00")
	assert.NotContains(t, got, "09:30")
	assert.Contains(t, got, "10:00")
}

func TestService_GetAvailability_ContactHours(t *testing.T) {
	f := newFixture(t)
	f.services.On("GetByID", mock.Anything, int64(1)).Return(bath(), nil)
	f.contacts.On("Get", mock.Anything).Return(&domain.Contact{
		OpeningHours: domain.OpeningHours{
			"tuesday": {Open: "10:00", Close: "12:00"},
		},
	}, nil)
	f.bookings.On("ListLiveForService", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)

	avail, err := f.svc.GetAvailability(context.Background(), 1, "2030-03-12")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "10:30", "11:00"}, values(avail))

	// Wednesday has no hours: closed.
	closed, err := f.svc.GetAvailability(context.Background(), 1, "2030-03-13")
	require.NoError(t, err)
	assert.True(t, closed.Closed)
	assert.Empty(t, closed.Slots)
}

func TestService_GetAvailability_Today(t *testing.T) {
	f := newFixture(t)
	f.services.On("GetByID", mock.Anything, int64(1)).Return(bath(), nil)
	f.contacts.On("Get", mock.Anything).Return(nil, repository.ErrNotFound)
	f.bookings.On("ListLiveForService", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)

	avail, err := f.svc.GetAvailability(context.Background(), 1, "2030-03-11")

	require.NoError(t, err)
	assert.Equal(t, "10:00", avail.Slots[0].Value)
	assert.Empty(t, f.cache.data, "same-day results are not cached")
}

func TestService_GetAvailability_UsesCache(t *testing.T) {
	f := newFixture(t)
	f.services.On("GetByID", mock.Anything, int64(1)).Return(bath(), nil)
	f.contacts.On("Get", mock.Anything).Return(nil, repository.ErrNotFound)
	f.bookings.On("ListLiveForService", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]domain.Booking{}, nil).Once()

	first, err := f.svc.GetAvailability(context.Background(), 1, "2030-03-12")
	require.NoError(t, err)
	second, err := f.svc.GetAvailability(context.Background(), 1, "2030-03-12")
	require.NoError(t, err)

	assert.Equal(t, values(first), values(second))
	assert.Contains(t, f.cache.data, "slots:1:2030-03-12")
	f.bookings.AssertNumberOfCalls(t, "ListLiveForService", 1)
}

func TestService_GetAvailability_RejectsDates(t *testing.T) {
	f := newFixture(t)
	f.services.On("GetByID", mock.Anything, int64(1)).Return(bath(), nil)

	_, err := f.svc.GetAvailability(context.Background(), 1, "2030-03-10")
	assert.ErrorIs(t, err, ErrDateOutOfRange)

	_, err = f.svc.GetAvailability(context.Background(), 1, "2030-04-11")
	assert.ErrorIs(t, err, ErrDateOutOfRange)

	_, err = f.svc.GetAvailability(context.Background(), 1, "12/03/2030")
	assert.ErrorIs(t, err, ErrInvalidDate)

	f.bookings.AssertNotCalled(t, "ListLiveForService", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_GetAvailability_InactiveService(t *testing.T) {
	f := newFixture(t)
	inactive := bath()
	inactive.Active = false
	f.services.On("GetByID", mock.Anything, int64(1)).Return(inactive, nil)
	f.services.On("GetByID", mock.Anything, int64(2)).Return(nil, repository.ErrNotFound)

	_, err := f.svc.GetAvailability(context.Background(), 1, "2030-03-12")
	assert.ErrorIs(t, err, ErrServiceNotFound)

	_, err = f.svc.GetAvailability(context.Background(), 2, "2030-03-12")
	assert.ErrorIs(t, err, ErrServiceNotFound)
}

func TestService_CreateBooking_Success(t *testing.T) {
	f := newFixture(t)
	customer := &domain.User{ID: 42, Username: "anna"}
	f.services.On("GetByID", mock.Anything, int64(1)).Return(bath(), nil)
	f.contacts.On("Get", mock.Anything).Return(nil, repository.ErrNotFound)
	f.bookings.On("ListLiveForService", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)
	f.bookings.On("Create", mock.Anything, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.UserID == 42 &&
			b.Price == 6000 &&
			b.DogSize == domain.DogSizeSmall &&
			b.StartTime.Equal(time.Date(2030, 3, 12, 9, 30, 0, 0, salonTZ)) &&
			b.EndTime.Sub(b.StartTime) == time.Hour
	}), time.Duration(0)).Return(nil)
	f.users.On("GetByID", mock.Anything, int64(42)).Return(customer, nil)
	f.notifier.On("BookingCreated", mock.Anything, mock.Anything, mock.Anything, customer).Return()

	b, err := f.svc.CreateBooking(context.Background(), 42, CreateBookingRequest{
		ServiceID: 1,
		Day:       "2030-03-12",
		Time:      "09:30",
		DogSize:   "Small",
		Comment:   "Shy poodle",
	})

	require.NoError(t, err)
	assert.Equal(t, int64(999), b.ID)
	assert.Equal(t, "Shy poodle", b.Comment)
	assert.Contains(t, f.cache.deleted, "slots:1:2030-03-12")
	f.bookings.AssertExpectations(t)
	f.notifier.AssertExpectations(t)
}

func TestService_CreateBooking_SlotTaken(t *testing.T) {
	f := newFixture(t)
	f.services.On("GetByID", mock.Anything, int64(1)).Return(bath(), nil)
	f.contacts.On("Get", mock.Anything).Return(nil, repository.ErrNotFound)
	f.bookings.On("ListLiveForService", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]domain.Booking{{
		StartTime: time.Date(2030, 3, 12, 9, 0, 0, 0, salonTZ),
		EndTime:   time.Date(2030, 3, 12, 10, 0, 0, 0, salonTZ),
	}}, nil)

	_, err := f.svc.CreateBooking(context.Background(), 42, CreateBookingRequest{
		ServiceID: 1, Day: "2030-03-12", Time: "08:30", Comment: "x",
	})

	assert.ErrorIs(t, err, ErrSlotUnavailable)
	f.bookings.AssertNotCalled(t, "Create", mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreateBooking_Overbooking(t *testing.T) {
	f := newFixture(t)
	f.services.On("GetByID", mock.Anything, int64(1)).Return(bath(), nil)
	f.contacts.On("Get", mock.Anything).Return(nil, repository.ErrNotFound)
	f.bookings.On("ListLiveForService", mock.Anything, int64(1), mock.Anything, mock.Anything).Return([]domain.Booking{}, nil)
	f.bookings.On("Create", mock.Anything, mock.Anything, mock.Anything).Return(repository.ErrConflict)

	_, err := f.svc.CreateBooking(context.Background(), 42, CreateBookingRequest{
		ServiceID: 1, Day: "2030-03-12", Time: "11:00", Comment: "x",
	})

	assert.ErrorIs(t, err, ErrOverbooking)
	f.notifier.AssertNotCalled(t, "BookingCreated", mock.Anything, mock.Anything, mock.Anything, mock.Anything)
}

func TestService_CreateBooking_Validation(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.CreateBooking(context.Background(), 42, CreateBookingRequest{
		ServiceID: 1, Day: "2030-03-12", Time: "11:00", DogSize: "huge", Comment: "x",
	})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = f.svc.CreateBooking(context.Background(), 42, CreateBookingRequest{
		ServiceID: 1, Day: "2030-03-12", Time: "11:00", Comment: "   ",
	})
	assert.ErrorIs(t, err, ErrValidation)
}

func upcoming(userID int64) *domain.Booking {
	return &domain.Booking{
		ID:        7,
		ServiceID: 1,
		UserID:    userID,
		StartTime: time.Date(2030, 3, 12, 9, 0, 0, 0, salonTZ).UTC(),
		EndTime:   time.Date(2030, 3, 12, 10, 0, 0, 0, salonTZ).UTC(),
	}
}

func TestService_CancelBooking_ByOwner(t *testing.T) {
	f := newFixture(t)
	customer := &domain.User{ID: 42}
	f.bookings.On("GetByID", mock.Anything, int64(7)).Return(upcoming(42), nil)
	f.bookings.On("Cancel", mock.Anything, int64(7), fixedNow).Return(nil)
	f.services.On("GetByID", mock.Anything, int64(1)).Return(bath(), nil)
	f.users.On("GetByID", mock.Anything, int64(42)).Return(customer, nil)
	f.notifier.On("BookingCancelled", mock.Anything, mock.Anything, mock.Anything, customer, true).Return()

	b, err := f.svc.CancelBooking(context.Background(), 7, 42, false)

	require.NoError(t, err)
	assert.True(t, b.Cancelled)
	require.NotNil(t, b.CancelledAt)
	assert.Contains(t, f.cache.deleted, "slots:1:2030-03-12")
	f.notifier.AssertExpectations(t)
}

func TestService_CancelBooking_ByAdminNotifiesCustomer(t *testing.T) {
	f := newFixture(t)
	customer := &domain.User{ID: 42}
	f.bookings.On("GetByID", mock.Anything, int64(7)).Return(upcoming(42), nil)
	f.bookings.On("Cancel", mock.Anything, int64(7), mock.Anything).Return(nil)
	f.services.On("GetByID", mock.Anything, int64(1)).Return(bath(), nil)
	f.users.On("GetByID", mock.Anything, int64(42)).Return(customer, nil)
	f.notifier.On("BookingCancelled", mock.Anything, mock.Anything, mock.Anything, customer, false).Return()

	_, err := f.svc.CancelBooking(context.Background(), 7, 1, true)

	require.NoError(t, err)
	f.notifier.AssertExpectations(t)
}

func TestService_CancelBooking_Rules(t *testing.T) {
	t.Run("other user", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.On("GetByID", mock.Anything, int64(7)).Return(upcoming(42), nil)

		_, err := f.svc.CancelBooking(context.Background(), 7, 43, false)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("already cancelled", func(t *testing.T) {
		f := newFixture(t)
		b := upcoming(42)
		b.Cancelled = true
		f.bookings.On("GetByID", mock.Anything, int64(7)).Return(b, nil)

		_, err := f.svc.CancelBooking(context.Background(), 7, 42, false)
		assert.ErrorIs(t, err, ErrAlreadyCancelled)
	})

	t.Run("already started", func(t *testing.T) {
		f := newFixture(t)
		b := upcoming(42)
		b.StartTime = fixedNow.Add(-time.Minute).UTC()
		f.bookings.On("GetByID", mock.Anything, int64(7)).Return(b, nil)

		_, err := f.svc.CancelBooking(context.Background(), 7, 42, false)
		assert.ErrorIs(t, err, ErrBookingStarted)
	})

	t.Run("missing", func(t *testing.T) {
		f := newFixture(t)
		f.bookings.On("GetByID", mock.Anything, int64(7)).Return(nil, repository.ErrNotFound)

		_, err := f.svc.CancelBooking(context.Background(), 7, 42, false)
		assert.ErrorIs(t, err, ErrBookingNotFound)
	})
}

func TestService_ListMyBookings(t *testing.T) {
	f := newFixture(t)
	f.bookings.On("List", mock.Anything, mock.MatchedBy(func(fl repository.BookingFilter) bool {
		return fl.UserID != nil && *fl.UserID == 42 &&
			fl.Cancelled != nil && !*fl.Cancelled &&
			fl.From != nil && fl.From.Equal(time.Date(2030, 3, 11, 0, 0, 0, 0, salonTZ)) &&
			fl.Limit == 12 && fl.Offset == 12
	})).Return([]domain.BookingDetails{{Booking: *upcoming(42)}}, int64(13), nil)

	page, err := f.svc.ListMyBookings(context.Background(), 42, 2)

	require.NoError(t, err)
	assert.Len(t, page.Items, 1)
	assert.Equal(t, int64(13), page.Total)
	assert.False(t, page.HasNext)
	assert.True(t, page.HasPrev)
}
