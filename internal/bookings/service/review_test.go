package service

import (
	"context"
	"testing"
	"time"

	"fleetbook/internal/notify"
	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/model"
)

func TestRequestReview_Succeeds(t *testing.T) {
	var requestedAt time.Time
	repo := &mockBookingRepository{
		findByIDFunc: func(_ context.Context, id string) (*model.Booking, error) {
			return storedBooking(model.StatusCompleted), nil
		},
		setReviewRequestedFunc: func(_ context.Context, _ string, at time.Time) error {
			requestedAt = at
			return nil
		},
	}
	publisher := &recordingPublisher{}
	svc := newTestService(repo, nil, nil, publisher)

	if err := svc.RequestReview(context.Background(), "64f000000000000000000001"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if requestedAt.IsZero() {
		t.Error("expected review request timestamp recorded")
	}
	events := publisher.Events()
	if len(events) != 1 || events[0].Kind != notify.KindReviewRequested {
		t.Fatalf("expected one review request notification, got %+v", events)
	}
	if events[0].Identity != "line-user-1" {
		t.Errorf("expected notification addressed to the customer, got %q", events[0].Identity)
	}
}

// The three precondition failures must be distinguishable, not one generic
// error: operators see the specific message.
func TestRequestReview_PreconditionErrorKinds(t *testing.T) {
	tests := []struct {
		name     string
		booking  func() *model.Booking
		wantCode string
	}{
		{
			name:     "not completed",
			booking:  func() *model.Booking { return storedBooking(model.StatusPickup) },
			wantCode: apperrors.CodeState,
		},
		{
			name: "already reviewed",
			booking: func() *model.Booking {
				b := storedBooking(model.StatusCompleted)
				b.ReviewInfo.Submitted = true
				return b
			},
			wantCode: apperrors.CodeConflict,
		},
		{
			name: "missing identity",
			booking: func() *model.Booking {
				b := storedBooking(model.StatusCompleted)
				b.CustomerID = ""
				return b
			},
			wantCode: apperrors.CodeInvalidInput,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := &mockBookingRepository{
				findByIDFunc: func(_ context.Context, id string) (*model.Booking, error) {
					return tt.booking(), nil
				},
			}
			publisher := &recordingPublisher{}
			svc := newTestService(repo, nil, nil, publisher)

			err := svc.RequestReview(context.Background(), "64f000000000000000000001")
			if !apperrors.HasCode(err, tt.wantCode) {
				t.Fatalf("expected %s, got %v", tt.wantCode, err)
			}
			if len(publisher.Events()) != 0 {
				t.Error("no notification may go out when the request is rejected")
			}
		})
	}
}

func TestSubmitReview_Succeeds(t *testing.T) {
	var submitted model.ReviewInfo
	repo := &mockBookingRepository{
		findByIDFunc: func(_ context.Context, id string) (*model.Booking, error) {
			return storedBooking(model.StatusCompleted), nil
		},
		setReviewSubmittedFunc: func(_ context.Context, _ string, review model.ReviewInfo) error {
			submitted = review
			return nil
		},
	}
	svc := newTestService(repo, nil, nil, nil)

	if err := svc.SubmitReview(context.Background(), "64f000000000000000000001", 5, "great trip"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !submitted.Submitted || submitted.Rating != 5 || submitted.Comment != "great trip" {
		t.Errorf("unexpected review record: %+v", submitted)
	}
	if submitted.SubmittedAt == nil {
		t.Error("expected submission timestamp")
	}
}

func TestSubmitReview_RejectsResubmission(t *testing.T) {
	repo := &mockBookingRepository{
		findByIDFunc: func(_ context.Context, id string) (*model.Booking, error) {
			b := storedBooking(model.StatusCompleted)
			b.ReviewInfo.Submitted = true
			return b, nil
		},
	}
	svc := newTestService(repo, nil, nil, nil)

	err := svc.SubmitReview(context.Background(), "64f000000000000000000001", 4, "")
	if !apperrors.HasCode(err, apperrors.CodeConflict) {
		t.Fatalf("expected conflict error, got %v", err)
	}
}

func TestSubmitReview_RatingBounds(t *testing.T) {
	svc := newTestService(nil, nil, nil, nil)

	for _, rating := range []int{0, 6, -1} {
		err := svc.SubmitReview(context.Background(), "64f000000000000000000001", rating, "")
		if !apperrors.HasCode(err, apperrors.CodeValidation) {
			t.Fatalf("rating %d: expected validation error, got %v", rating, err)
		}
	}
}
