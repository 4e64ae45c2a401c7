package service

import (
	"context"
	"sync"
	"time"

	"fleetbook/internal/bookings/validator"
	"fleetbook/internal/notify"
	"fleetbook/pkg/config"
	mongotx "fleetbook/pkg/db/mongo"
	"fleetbook/pkg/logger"
	"fleetbook/pkg/model"
)

// Mock repositories for testing
type mockBookingRepository struct {
	createFunc              func(ctx context.Context, booking *model.Booking) error
	findByIDFunc            func(ctx context.Context, id string) (*model.Booking, error)
	findAllFunc             func(ctx context.Context, limit int, offset int64) ([]*model.Booking, error)
	countFunc               func(ctx context.Context) (int64, error)
	findActiveByVehicleFunc func(ctx context.Context, vehicleID string, startsBefore time.Time, limit int) ([]*model.Booking, error)
	findByCustomerFunc      func(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, error)
	findCreatedBetweenFunc  func(ctx context.Context, from, to time.Time) ([]*model.Booking, error)
	updateStatusFunc        func(ctx context.Context, id string, change model.StatusChange, cancellation *model.CancellationInfo) error
	assignDriverFunc        func(ctx context.Context, id string, driverID string, change model.StatusChange) error
	setPaymentStatusFunc    func(ctx context.Context, id string, status model.PaymentStatus, paidAt *time.Time) error
	setReviewRequestedFunc  func(ctx context.Context, id string, at time.Time) error
	setReviewSubmittedFunc  func(ctx context.Context, id string, review model.ReviewInfo) error
	executeTransactionFunc  func(ctx context.Context, fn mongotx.TransactionFunc) error
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	booking.ID = "64f000000000000000000001"
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Booking{ID: id}, nil
}

func (m *mockBookingRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, error) {
	if m.findAllFunc != nil {
		return m.findAllFunc(ctx, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) Count(ctx context.Context) (int64, error) {
	if m.countFunc != nil {
		return m.countFunc(ctx)
	}
	return 0, nil
}

func (m *mockBookingRepository) FindActiveByVehicle(ctx context.Context, vehicleID string, startsBefore time.Time, limit int) ([]*model.Booking, error) {
	if m.findActiveByVehicleFunc != nil {
		return m.findActiveByVehicleFunc(ctx, vehicleID, startsBefore, limit)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindByCustomer(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, error) {
	if m.findByCustomerFunc != nil {
		return m.findByCustomerFunc(ctx, customerID, limit, offset)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindCreatedBetween(ctx context.Context, from, to time.Time) ([]*model.Booking, error) {
	if m.findCreatedBetweenFunc != nil {
		return m.findCreatedBetweenFunc(ctx, from, to)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, change model.StatusChange, cancellation *model.CancellationInfo) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, change, cancellation)
	}
	return nil
}

func (m *mockBookingRepository) AssignDriver(ctx context.Context, id string, driverID string, change model.StatusChange) error {
	if m.assignDriverFunc != nil {
		return m.assignDriverFunc(ctx, id, driverID, change)
	}
	return nil
}

func (m *mockBookingRepository) SetPaymentStatus(ctx context.Context, id string, status model.PaymentStatus, paidAt *time.Time) error {
	if m.setPaymentStatusFunc != nil {
		return m.setPaymentStatusFunc(ctx, id, status, paidAt)
	}
	return nil
}

func (m *mockBookingRepository) SetReviewRequested(ctx context.Context, id string, at time.Time) error {
	if m.setReviewRequestedFunc != nil {
		return m.setReviewRequestedFunc(ctx, id, at)
	}
	return nil
}

func (m *mockBookingRepository) SetReviewSubmitted(ctx context.Context, id string, review model.ReviewInfo) error {
	if m.setReviewSubmittedFunc != nil {
		return m.setReviewSubmittedFunc(ctx, id, review)
	}
	return nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	if m.executeTransactionFunc != nil {
		return m.executeTransactionFunc(ctx, fn)
	}
	return fn(nil)
}

// mockLockRepository records every acquisition and release in order.
type mockLockRepository struct {
	createFunc func(ctx context.Context, lock *model.VehicleLock) (*model.VehicleLock, error)
	deleteFunc func(ctx context.Context, lockID string) error

	created []string
	deleted []string
}

func (m *mockLockRepository) Create(ctx context.Context, lock *model.VehicleLock) (*model.VehicleLock, error) {
	if m.createFunc != nil {
		return m.createFunc(ctx, lock)
	}
	m.created = append(m.created, lock.ID)
	return lock, nil
}

func (m *mockLockRepository) Delete(ctx context.Context, lockID string) error {
	if m.deleteFunc != nil {
		return m.deleteFunc(ctx, lockID)
	}
	m.deleted = append(m.deleted, lockID)
	return nil
}

type mockCustomerRepository struct {
	upsertFunc   func(ctx context.Context, customer *model.Customer) error
	findByIDFunc func(ctx context.Context, id string) (*model.Customer, error)
}

func (m *mockCustomerRepository) Upsert(ctx context.Context, customer *model.Customer) error {
	if m.upsertFunc != nil {
		return m.upsertFunc(ctx, customer)
	}
	return nil
}

func (m *mockCustomerRepository) FindByID(ctx context.Context, id string) (*model.Customer, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Customer{ID: id}, nil
}

type mockDriverRepository struct {
	findByIDFunc  func(ctx context.Context, id string) (*model.Driver, error)
	setStatusFunc func(ctx context.Context, id string, status model.DriverStatus) error
}

func (m *mockDriverRepository) FindByID(ctx context.Context, id string) (*model.Driver, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return &model.Driver{ID: id, Status: model.DriverAvailable}, nil
}

func (m *mockDriverRepository) SetStatus(ctx context.Context, id string, status model.DriverStatus) error {
	if m.setStatusFunc != nil {
		return m.setStatusFunc(ctx, id, status)
	}
	return nil
}

// recordingPublisher captures every event for assertions.
type recordingPublisher struct {
	mu     sync.Mutex
	events []notify.Event
}

func (p *recordingPublisher) Notify(_ context.Context, event notify.Event) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
}

func (p *recordingPublisher) Events() []notify.Event {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]notify.Event, len(p.events))
	copy(out, p.events)
	return out
}

func testConfig() *config.Config {
	return &config.Config{
		Log:               logger.Discard(),
		ReadTimeout:       5 * time.Second,
		WriteTimeout:      5 * time.Second,
		ConflictScanLimit: 50,
	}
}

func newTestService(repo *mockBookingRepository, customers *mockCustomerRepository, drivers *mockDriverRepository, publisher notify.Publisher) *bookingService {
	if repo == nil {
		repo = &mockBookingRepository{}
	}
	if customers == nil {
		customers = &mockCustomerRepository{}
	}
	if drivers == nil {
		drivers = &mockDriverRepository{}
	}
	if publisher == nil {
		publisher = notify.NopPublisher{}
	}
	return &bookingService{
		repo:      repo,
		locks:     &mockLockRepository{},
		customers: customers,
		drivers:   drivers,
		validator: validator.NewBookingValidator(logger.Discard()),
		publisher: publisher,
		cfg:       testConfig(),
	}
}

func validBooking() *model.Booking {
	return &model.Booking{
		VehicleID:  "64f000000000000000000010",
		CustomerID: "line-user-1",
		PickupInfo: model.PickupInfo{
			Name:     "Airport",
			Address:  "999 Airport Rd",
			DateTime: time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC),
		},
		DropoffInfo: model.DropoffInfo{
			Address: "12 Downtown Ave",
		},
		CustomerInfo: model.CustomerInfo{
			Name:  "Somsri",
			Phone: "+66812345678",
			Email: "somsri@example.com",
		},
		TripDetails: model.TripDetails{
			Passengers:  2,
			Bags:        2,
			RentalHours: 2,
		},
		PaymentInfo: model.PaymentInfo{
			PricePerHour: 500,
			OvertimeRate: 600,
		},
	}
}
