package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "fleetbook/internal/bookings/errors"
	"fleetbook/internal/bookings/repository"
	"fleetbook/internal/bookings/validator"
	"fleetbook/internal/notify"
	"fleetbook/pkg/config"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/model"
)

type BookingService interface {
	Create(ctx context.Context, booking *model.Booking) (string, error)
	GetByID(ctx context.Context, id string) (*model.Booking, error)
	GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error)
	GetByCustomer(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, error)
	VehicleSchedule(ctx context.Context, vehicleID string, until time.Time) ([]*model.Booking, error)

	UpdateStatus(ctx context.Context, id string, actor model.Actor, actorID string, newStatus model.BookingStatus, note string) error
	Cancel(ctx context.Context, id string, actor model.Actor, actorID string, reason string) error
	AssignDriver(ctx context.Context, id string, driverID string) error

	Invoice(ctx context.Context, id string) error
	ConfirmPayment(ctx context.Context, id string) error

	RequestReview(ctx context.Context, id string) error
	SubmitReview(ctx context.Context, id string, rating int, comment string) error
}

type bookingService struct {
	repo      repository.BookingRepository
	locks     repository.VehicleLockRepository
	customers repository.CustomerRepository
	drivers   repository.DriverRepository
	validator *validator.BookingValidator
	publisher notify.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	locks repository.VehicleLockRepository,
	customers repository.CustomerRepository,
	drivers repository.DriverRepository,
	bookingValidator *validator.BookingValidator,
	publisher notify.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		locks:     locks,
		customers: customers,
		drivers:   drivers,
		validator: bookingValidator,
		publisher: publisher,
		cfg:       cfg,
	}
}

// Create admits a candidate booking. The overlap check and the insert happen
// in one transaction, but snapshot reads inside the transaction cannot see a
// concurrent insert, so an advisory lock serializes admission per vehicle
// around it. Notifications go out only after the commit and never affect the
// result.
func (s *bookingService) Create(ctx context.Context, booking *model.Booking) (string, error) {
	s.applyDefaults(booking)
	if err := s.validate(booking); err != nil {
		return "", err
	}

	// Hold the vehicle for the whole check-then-write.
	lockID, err := s.acquireVehicleLock(ctx, booking.VehicleID)
	if err != nil {
		return "", err
	}
	defer func() {
		if releaseErr := s.releaseVehicleLock(ctx, lockID); releaseErr != nil {
			s.cfg.Log.Warn("Failed to release vehicle lock", "lock_id", lockID, "error", releaseErr)
		}
	}()

	start, end := booking.Interval()

	err = s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		if err := s.verifyNoOverlap(sessCtx, booking, start, end); err != nil {
			return err
		}
		if err := s.repo.Create(sessCtx, booking); err != nil {
			return apperrors.Internal("Failed to create booking", err)
		}
		if err := s.customers.Upsert(sessCtx, customerFromBooking(booking)); err != nil {
			return apperrors.Internal("Failed to upsert customer", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to create booking",
			"vehicle_id", booking.VehicleID,
			"start", start,
			"error", err,
		)
		return "", err
	}

	s.cfg.Log.Info("Booking created",
		"id", booking.ID,
		"vehicle_id", booking.VehicleID,
		"customer_id", booking.CustomerID,
		"start", start,
		"rental_hours", booking.TripDetails.RentalHours,
	)

	s.publisher.Notify(ctx, notify.Event{
		BookingID: booking.ID,
		Kind:      notify.KindBookingCreated,
		Recipient: notify.RecipientUser,
		Identity:  booking.CustomerID,
		Text:      notify.BookingCreatedCustomerText(booking),
	})
	s.publisher.Notify(ctx, notify.Event{
		BookingID: booking.ID,
		Kind:      notify.KindBookingCreated,
		Recipient: notify.RecipientAdminChannel,
		Text:      notify.BookingCreatedAdminText(booking),
	})

	return booking.ID, nil
}

func (s *bookingService) GetByID(ctx context.Context, id string) (*model.Booking, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, s.mapLookupError(err, id)
	}
	return booking, nil
}

func (s *bookingService) GetAll(ctx context.Context, limit int, offset int64) ([]*model.Booking, int64, error) {
	limit = config.NormalizePaginationLimit(limit)
	offset = config.NormalizeOffset(offset)

	count, err := s.repo.Count(ctx)
	if err != nil {
		s.cfg.Log.Error("Failed to count bookings", "error", err)
		return nil, 0, apperrors.Internal("Failed to count bookings", err)
	}

	bookings, err := s.repo.FindAll(ctx, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "error", err)
		return nil, 0, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, count, nil
}

func (s *bookingService) GetByCustomer(ctx context.Context, customerID string, limit int, offset int64) ([]*model.Booking, error) {
	if customerID == "" {
		return nil, apperrors.InvalidInput("Customer ID cannot be empty")
	}

	bookings, err := s.repo.FindByCustomer(ctx, customerID, config.NormalizePaginationLimit(limit), config.NormalizeOffset(offset))
	if err != nil {
		s.cfg.Log.Error("Failed to list customer bookings", "customer_id", customerID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}
	return bookings, nil
}

// VehicleSchedule lists a vehicle's resource-occupying bookings that start
// before the given horizon. Availability pickers consume this.
func (s *bookingService) VehicleSchedule(ctx context.Context, vehicleID string, until time.Time) ([]*model.Booking, error) {
	if vehicleID == "" {
		return nil, apperrors.InvalidInput("Vehicle ID cannot be empty")
	}

	bookings, err := s.repo.FindActiveByVehicle(ctx, vehicleID, until, s.cfg.ConflictScanLimit)
	if err != nil {
		s.cfg.Log.Error("Failed to list vehicle schedule", "vehicle_id", vehicleID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve vehicle schedule", err)
	}
	return bookings, nil
}

// --- Helpers ---

func (s *bookingService) applyDefaults(b *model.Booking) {
	b.Status = model.StatusPending
	if b.PaymentInfo.PaymentStatus == "" {
		b.PaymentInfo.PaymentStatus = model.PaymentUnpaid
	}
	// Price is fixed at admission and immutable afterwards; whatever the
	// caller sent is recomputed from the authoritative inputs.
	b.PaymentInfo.TotalPrice = b.TripDetails.RentalHours * b.PaymentInfo.PricePerHour
	b.PaymentInfo.PaidAt = nil
	b.ReviewInfo = model.ReviewInfo{}
	b.Cancellation = nil
	b.DriverID = ""
	now := time.Now().UTC().Truncate(time.Millisecond)
	b.StatusHistory = []model.StatusChange{{
		Status:    model.StatusPending,
		Timestamp: now,
	}}
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// verifyNoOverlap runs the strict interval test over the pre-filtered
// candidates. Half-open windows: a booking ending exactly when another
// starts is not a conflict.
func (s *bookingService) verifyNoOverlap(ctx context.Context, booking *model.Booking, start, end time.Time) error {
	existing, err := s.repo.FindActiveByVehicle(ctx, booking.VehicleID, end, s.cfg.ConflictScanLimit)
	if err != nil {
		return apperrors.Internal("Failed to check existing bookings", err)
	}

	for _, b := range existing {
		if b.ID == booking.ID {
			continue
		}
		bStart, bEnd := b.Interval()
		if model.Overlaps(start, end, bStart, bEnd) {
			return apperrors.Conflict(fmt.Sprintf(
				"vehicle already booked for the requested window (%s - %s)",
				bStart.Format(time.RFC3339),
				bEnd.Format(time.RFC3339),
			))
		}
	}
	return nil
}

// acquireVehicleLock takes the per-vehicle advisory lock. Overlap windows are
// arbitrary, so the lock key is the vehicle itself rather than a slot.
func (s *bookingService) acquireVehicleLock(ctx context.Context, vehicleID string) (string, error) {
	lockID := fmt.Sprintf("vehicle_lock_%s", vehicleID)

	lock := &model.VehicleLock{
		ID:        lockID,
		ExpiresAt: time.Now().Add(10 * time.Second),
	}

	if _, err := s.locks.Create(ctx, lock); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return "", apperrors.Conflict("This vehicle is currently being booked by another request. Please try again.")
		}
		return "", apperrors.Internal("Failed to acquire vehicle lock", err)
	}

	return lockID, nil
}

// releaseVehicleLock removes the advisory lock
func (s *bookingService) releaseVehicleLock(ctx context.Context, lockID string) error {
	return s.locks.Delete(ctx, lockID)
}

func (s *bookingService) mapLookupError(err error, id string) error {
	if errors.Is(err, bookingserrors.ErrNotFound) {
		return apperrors.NotFoundWithID("Booking", id)
	}
	if errors.Is(err, bookingserrors.ErrInvalidID) {
		return apperrors.InvalidInput("Invalid booking ID format")
	}
	return apperrors.Internal("Failed to retrieve booking", err)
}

func customerFromBooking(b *model.Booking) *model.Customer {
	return &model.Customer{
		ID:          b.CustomerID,
		Name:        b.CustomerInfo.Name,
		DisplayName: b.UserInfo.DisplayName,
		PictureURL:  b.UserInfo.PictureURL,
		Phone:       b.CustomerInfo.Phone,
		Email:       b.CustomerInfo.Email,
	}
}
