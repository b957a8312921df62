package booking

import "fieldbook/internal/domain"

// Authorize decides whether the actor may move the booking to the target
// status. The state-machine check runs before the actor check: a transition
// the machine does not allow is rejected for everyone, including admins.
//
//	from -> to              requester  field owner  admin
//	pending -> cancelled    allow      allow        allow
//	pending -> confirmed    deny       allow        allow
//	confirmed -> cancelled  deny       allow        allow
//	confirmed -> completed  deny       allow        allow
//
// Anyone else is denied everything. The requester's self-service cancel
// window closes at confirmation: after that, only the party with custodial
// authority over the field (or an admin) may touch the booking.
func Authorize(actor domain.Actor, b *domain.Booking, fieldOwnerID int64, target domain.BookingStatus) error {
	if !target.IsValid() {
		return ErrValidation
	}
	if !b.Status.CanTransitionTo(target) {
		return ErrInvalidTransition
	}

	if actor.IsAdmin() || actor.ID == fieldOwnerID {
		return nil
	}

	if actor.ID == b.RequestedBy &&
		b.Status == domain.BookingPending && target == domain.BookingCancelled {
		return nil
	}

	return ErrForbidden
}
