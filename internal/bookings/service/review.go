package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"fleetbook/internal/notify"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/model"
)

// RequestReview asks the customer to rate a finished trip. The three
// preconditions fail with distinct error kinds so operators can tell a
// premature request from a duplicate one from a booking with no reachable
// customer.
func (s *bookingService) RequestReview(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var snapshot *model.Booking

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.mapLookupError(err, id)
		}
		if booking.Status != model.StatusCompleted {
			return apperrors.State("booking is not completed yet")
		}
		if booking.ReviewInfo.Submitted {
			return apperrors.Conflict("booking has already been reviewed")
		}
		if booking.CustomerID == "" {
			return apperrors.InvalidInput("Booking has no customer identity to send the review request to")
		}

		if err := s.repo.SetReviewRequested(sessCtx, id, time.Now().UTC().Truncate(time.Millisecond)); err != nil {
			return apperrors.Internal("Failed to record review request", err)
		}
		snapshot = booking
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to request review", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Review requested", "id", id, "customer_id", snapshot.CustomerID)

	s.publisher.Notify(ctx, notify.Event{
		BookingID: id,
		Kind:      notify.KindReviewRequested,
		Recipient: notify.RecipientUser,
		Identity:  snapshot.CustomerID,
		Text:      notify.ReviewRequestText(id),
	})
	return nil
}

// SubmitReview records the customer's rating for a completed trip. A booking
// takes exactly one review.
func (s *bookingService) SubmitReview(ctx context.Context, id string, rating int, comment string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}
	if err := s.validator.ValidateReview(rating); err != nil {
		return apperrors.Validation("Review validation failed", map[string]any{"error": err.Error()})
	}

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.mapLookupError(err, id)
		}
		if booking.Status != model.StatusCompleted {
			return apperrors.State("booking is not completed yet")
		}
		if booking.ReviewInfo.Submitted {
			return apperrors.Conflict("booking has already been reviewed")
		}

		now := time.Now().UTC().Truncate(time.Millisecond)
		review := model.ReviewInfo{
			Submitted:   true,
			Rating:      rating,
			Comment:     comment,
			RequestedAt: booking.ReviewInfo.RequestedAt,
			SubmittedAt: &now,
		}
		if err := s.repo.SetReviewSubmitted(sessCtx, id, review); err != nil {
			return apperrors.Internal("Failed to record review", err)
		}
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to submit review", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Review submitted", "id", id, "rating", rating)
	return nil
}
