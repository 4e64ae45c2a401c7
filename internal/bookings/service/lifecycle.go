package service

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	bookingserrors "fleetbook/internal/bookings/errors"
	"fleetbook/internal/notify"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/model"
)

// UpdateStatus applies one lifecycle transition. Authorization, the history
// append and any driver release all happen inside a single transaction:
// either the booking update and the driver update both land, or neither
// does.
func (s *bookingService) UpdateStatus(ctx context.Context, id string, actor model.Actor, actorID string, newStatus model.BookingStatus, note string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var (
		snapshot     *model.Booking
		freedDriver  *model.Driver
		cancellation *model.CancellationInfo
	)

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.mapLookupError(err, id)
		}

		if err := checkTransition(booking.Status, actor, newStatus); err != nil {
			return err
		}
		if actor == model.ActorCustomer && booking.CustomerID != actorID {
			return apperrors.Forbidden("customers may only cancel their own bookings")
		}
		if actor == model.ActorDriver && booking.DriverID != "" && booking.DriverID != actorID {
			return apperrors.Forbidden("booking is assigned to a different driver")
		}

		now := time.Now().UTC().Truncate(time.Millisecond)
		change := model.StatusChange{
			Status:    newStatus,
			Note:      note,
			Timestamp: now,
		}

		if newStatus == model.StatusCancelled {
			reason := note
			if actor == model.ActorCustomer {
				reason = "Cancelled by customer."
			}
			if actor == model.ActorAdmin && reason == "" {
				return apperrors.InvalidInput("Cancellation reason is required")
			}
			cancellation = &model.CancellationInfo{
				CancelledBy: actor,
				Reason:      reason,
				Timestamp:   now,
			}
		}

		if err := s.repo.UpdateStatus(sessCtx, id, change, cancellation); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", id)
			}
			return apperrors.Internal("Failed to update booking status", err)
		}

		if booking.DriverID != "" && releasesDriver(newStatus, actor) {
			driver, err := s.drivers.FindByID(sessCtx, booking.DriverID)
			switch {
			case errors.Is(err, bookingserrors.ErrDriverNotFound):
				// An admin cancel still proceeds when the driver record is
				// gone; a driver-reported terminal state must reference a
				// live driver.
				if newStatus != model.StatusCancelled {
					return apperrors.NotFoundWithID("Driver", booking.DriverID)
				}
			case err != nil:
				return apperrors.Internal("Failed to load driver", err)
			default:
				if err := s.drivers.SetStatus(sessCtx, booking.DriverID, model.DriverAvailable); err != nil {
					return apperrors.Internal("Failed to release driver", err)
				}
				freedDriver = driver
			}
		}

		snapshot = booking
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to update booking status",
			"id", id,
			"actor", actor,
			"new_status", newStatus,
			"error", err,
		)
		return err
	}

	s.cfg.Log.Info("Booking status updated",
		"id", id,
		"actor", actor,
		"from", snapshot.Status,
		"to", newStatus,
		"driver_freed", freedDriver != nil,
	)

	s.notifyStatusChange(ctx, id, snapshot, newStatus, cancellation, freedDriver)
	return nil
}

// Cancel is the cancellation entrypoint for customers and admins; it is the
// same transition, so it runs through the same table.
func (s *bookingService) Cancel(ctx context.Context, id string, actor model.Actor, actorID string, reason string) error {
	return s.UpdateStatus(ctx, id, actor, actorID, model.StatusCancelled, reason)
}

// AssignDriver pairs a driver with a booking: the booking moves to assigned
// and the driver to busy in one transaction.
func (s *bookingService) AssignDriver(ctx context.Context, id string, driverID string) error {
	if id == "" || driverID == "" {
		return apperrors.InvalidInput("Booking ID and Driver ID are required")
	}

	var assigned *model.Driver

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.mapLookupError(err, id)
		}

		if err := checkTransition(booking.Status, model.ActorAdmin, model.StatusAssigned); err != nil {
			return err
		}

		driver, err := s.drivers.FindByID(sessCtx, driverID)
		if err != nil {
			if errors.Is(err, bookingserrors.ErrDriverNotFound) {
				return apperrors.NotFoundWithID("Driver", driverID)
			}
			return apperrors.Internal("Failed to load driver", err)
		}
		if driver.Status == model.DriverBusy {
			return apperrors.Conflict("driver is already on another job")
		}

		change := model.StatusChange{
			Status:    model.StatusAssigned,
			Timestamp: time.Now().UTC().Truncate(time.Millisecond),
		}
		if err := s.repo.AssignDriver(sessCtx, id, driverID, change); err != nil {
			return apperrors.Internal("Failed to assign driver", err)
		}
		if err := s.drivers.SetStatus(sessCtx, driverID, model.DriverBusy); err != nil {
			return apperrors.Internal("Failed to mark driver busy", err)
		}

		assigned = driver
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to assign driver", "id", id, "driver_id", driverID, "error", err)
		return err
	}

	s.cfg.Log.Info("Driver assigned", "id", id, "driver_id", driverID)

	if assigned.MessengerID != "" {
		s.publisher.Notify(ctx, notify.Event{
			BookingID: id,
			Kind:      notify.KindStatusChanged,
			Recipient: notify.RecipientUser,
			Identity:  assigned.MessengerID,
			Text:      "You have a new job. Check your queue for pickup details.",
		})
	}
	return nil
}

// releasesDriver reports whether this transition frees the assigned driver:
// terminal trip outcomes always do, admin cancellation does as well.
func releasesDriver(newStatus model.BookingStatus, actor model.Actor) bool {
	if newStatus == model.StatusCompleted || newStatus == model.StatusNoShow {
		return true
	}
	return newStatus == model.StatusCancelled && actor == model.ActorAdmin
}

func (s *bookingService) notifyStatusChange(ctx context.Context, id string, booking *model.Booking, newStatus model.BookingStatus, cancellation *model.CancellationInfo, freedDriver *model.Driver) {
	switch {
	case newStatus == model.StatusCancelled && cancellation != nil && cancellation.CancelledBy == model.ActorCustomer:
		s.publisher.Notify(ctx, notify.Event{
			BookingID: id,
			Kind:      notify.KindBookingCancelled,
			Recipient: notify.RecipientAdminChannel,
			Text:      notify.CancelledByCustomerAdminText(booking.CustomerInfo.Name, id),
		})

	case newStatus == model.StatusCancelled && cancellation != nil:
		if booking.CustomerID != "" {
			s.publisher.Notify(ctx, notify.Event{
				BookingID: id,
				Kind:      notify.KindBookingCancelled,
				Recipient: notify.RecipientUser,
				Identity:  booking.CustomerID,
				Text:      notify.CancelledByAdminCustomerText(id, cancellation.Reason),
			})
		}
		if freedDriver != nil && freedDriver.MessengerID != "" {
			s.publisher.Notify(ctx, notify.Event{
				BookingID: id,
				Kind:      notify.KindBookingCancelled,
				Recipient: notify.RecipientUser,
				Identity:  freedDriver.MessengerID,
				Text:      notify.CancelledByAdminDriverText(id, cancellation.Reason),
			})
		}

	case newStatus == model.StatusCompleted && booking.CustomerID != "":
		s.publisher.Notify(ctx, notify.Event{
			BookingID: id,
			Kind:      notify.KindStatusChanged,
			Recipient: notify.RecipientUser,
			Identity:  booking.CustomerID,
			Text:      notify.StatusChangedCustomerText(booking, newStatus),
		})
		s.publisher.Notify(ctx, notify.Event{
			BookingID: id,
			Kind:      notify.KindReviewRequested,
			Recipient: notify.RecipientUser,
			Identity:  booking.CustomerID,
			Text:      notify.ReviewRequestText(id),
		})

	case booking.CustomerID != "":
		if text := notify.StatusChangedCustomerText(booking, newStatus); text != "" {
			s.publisher.Notify(ctx, notify.Event{
				BookingID: id,
				Kind:      notify.KindStatusChanged,
				Recipient: notify.RecipientUser,
				Identity:  booking.CustomerID,
				Text:      text,
			})
		}
	}
}
