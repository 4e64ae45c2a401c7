package service

import (
	"fmt"

	apperrors "fleetbook/pkg/errors"
	"fleetbook/pkg/model"
)

// The lifecycle rules live in one table keyed by (from, actor, to) so no
// call site carries its own copy of the state machine.
//
// Driver-reported forward transitions are deliberately permissive: a driver
// may move from any of its allowed source states to any driver target
// without the engine confirming the immediate predecessor, matching the
// behavior the operation history was built on.
type transitionKey struct {
	from  model.BookingStatus
	actor model.Actor
	to    model.BookingStatus
}

var allowedTransitions = buildTransitions()

func buildTransitions() map[transitionKey]struct{} {
	t := make(map[transitionKey]struct{})

	allow := func(from model.BookingStatus, actor model.Actor, to model.BookingStatus) {
		t[transitionKey{from: from, actor: actor, to: to}] = struct{}{}
	}

	// Customers may only withdraw a booking that nobody has acted on yet.
	allow(model.StatusPending, model.ActorCustomer, model.StatusCancelled)

	// Admins may cancel anything that is not already settled.
	for _, from := range []model.BookingStatus{
		model.StatusPending,
		model.StatusConfirmed,
		model.StatusAssigned,
		model.StatusStandby,
		model.StatusPickup,
	} {
		allow(from, model.ActorAdmin, model.StatusCancelled)
	}

	// Admins confirm new bookings and assign drivers.
	allow(model.StatusPending, model.ActorAdmin, model.StatusConfirmed)
	allow(model.StatusPending, model.ActorAdmin, model.StatusAssigned)
	allow(model.StatusConfirmed, model.ActorAdmin, model.StatusAssigned)

	// Drivers report trip progress.
	driverSources := []model.BookingStatus{
		model.StatusAssigned,
		model.StatusConfirmed,
		model.StatusStandby,
		model.StatusPickup,
	}
	driverTargets := []model.BookingStatus{
		model.StatusStandby,
		model.StatusPickup,
		model.StatusCompleted,
		model.StatusNoShow,
	}
	for _, from := range driverSources {
		for _, to := range driverTargets {
			allow(from, model.ActorDriver, to)
		}
	}

	return t
}

// checkTransition validates one attempted status change. Unknown targets
// are input errors, targets the actor can never reach are permission
// errors, and targets the actor could reach from some other status are
// state errors.
func checkTransition(from model.BookingStatus, actor model.Actor, to model.BookingStatus) error {
	if !to.Valid() {
		return apperrors.InvalidInput(fmt.Sprintf("unknown target status: %s", to))
	}
	if !actor.Valid() {
		return apperrors.InvalidInput(fmt.Sprintf("unknown actor: %s", actor))
	}

	if _, ok := allowedTransitions[transitionKey{from: from, actor: actor, to: to}]; ok {
		return nil
	}

	for _, source := range []model.BookingStatus{
		model.StatusPending,
		model.StatusConfirmed,
		model.StatusAssigned,
		model.StatusStandby,
		model.StatusPickup,
	} {
		if _, ok := allowedTransitions[transitionKey{from: source, actor: actor, to: to}]; ok {
			return apperrors.State(fmt.Sprintf("cannot move booking from %s to %s", from, to))
		}
	}

	return apperrors.Forbidden(fmt.Sprintf("%s is not allowed to set status %s", actor, to))
}
