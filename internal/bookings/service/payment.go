package service

import (
	"context"
	"time"

	"go.mongodb.org/mongo-driver/mongo"

	"fleetbook/internal/notify"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/model"
)

// Invoice marks the booking as invoiced and sends the payment summary to the
// customer. The payment track only moves forward: re-invoicing an invoiced
// booking resends the summary without a write, and invoicing a paid booking
// succeeds without touching anything.
func (s *bookingService) Invoice(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var snapshot *model.Booking

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.mapLookupError(err, id)
		}
		if booking.PaymentInfo.PaymentStatus == model.PaymentUnpaid {
			if err := s.repo.SetPaymentStatus(sessCtx, id, model.PaymentInvoiced, nil); err != nil {
				return apperrors.Internal("Failed to mark booking invoiced", err)
			}
		}
		snapshot = booking
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to invoice booking", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Booking invoiced", "id", id, "total_price", snapshot.PaymentInfo.TotalPrice)

	if snapshot.PaymentInfo.PaymentStatus != model.PaymentPaid && snapshot.CustomerID != "" {
		s.publisher.Notify(ctx, notify.Event{
			BookingID: id,
			Kind:      notify.KindInvoiceSent,
			Recipient: notify.RecipientUser,
			Identity:  snapshot.CustomerID,
			Text:      notify.InvoiceText(snapshot),
		})
	}
	return nil
}

// ConfirmPayment records that the invoice was settled. Re-confirming is
// idempotent: paidAt takes the latest confirmation time and no error is
// returned, so double submits from the admin console stay harmless.
func (s *bookingService) ConfirmPayment(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var snapshot *model.Booking

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		booking, err := s.repo.FindByID(sessCtx, id)
		if err != nil {
			return s.mapLookupError(err, id)
		}

		paidAt := time.Now().UTC().Truncate(time.Millisecond)
		if err := s.repo.SetPaymentStatus(sessCtx, id, model.PaymentPaid, &paidAt); err != nil {
			return apperrors.Internal("Failed to mark booking paid", err)
		}
		snapshot = booking
		return nil
	})
	if err != nil {
		s.cfg.Log.Error("Failed to confirm payment", "id", id, "error", err)
		return err
	}

	s.cfg.Log.Info("Payment confirmed", "id", id, "total_price", snapshot.PaymentInfo.TotalPrice)

	if snapshot.PaymentInfo.PaymentStatus != model.PaymentPaid && snapshot.CustomerID != "" {
		s.publisher.Notify(ctx, notify.Event{
			BookingID: id,
			Kind:      notify.KindPaymentConfirmed,
			Recipient: notify.RecipientUser,
			Identity:  snapshot.CustomerID,
			Text:      "Payment received, thank you. Your booking is fully settled.",
		})
	}
	return nil
}
