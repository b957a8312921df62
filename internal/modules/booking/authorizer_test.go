package booking

import (
	"testing"

	"fieldbook/internal/domain"

	"github.com/stretchr/testify/assert"
)

const (
	requesterID  = int64(1)
	fieldOwnerID = int64(2)
	adminID      = int64(3)
	strangerID   = int64(4)
)

func bookingInStatus(status domain.BookingStatus) *domain.Booking {
	return &domain.Booking{
		ID:          77,
		FieldID:     10,
		RequestedBy: requesterID,
		Status:      status,
	}
}

func TestAuthorize_RequesterCancelsPending(t *testing.T) {
	actor := domain.Actor{ID: requesterID, Role: domain.RolePlayer}
	err := Authorize(actor, bookingInStatus(domain.BookingPending), fieldOwnerID, domain.BookingCancelled)
	assert.NoError(t, err)
}

func TestAuthorize_RequesterMayNotConfirm(t *testing.T) {
	actor := domain.Actor{ID: requesterID, Role: domain.RolePlayer}
	err := Authorize(actor, bookingInStatus(domain.BookingPending), fieldOwnerID, domain.BookingConfirmed)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorize_RequesterMayNotCancelConfirmed(t *testing.T) {
	actor := domain.Actor{ID: requesterID, Role: domain.RolePlayer}
	err := Authorize(actor, bookingInStatus(domain.BookingConfirmed), fieldOwnerID, domain.BookingCancelled)
	assert.ErrorIs(t, err, ErrForbidden)
}

func TestAuthorize_OwnerAndAdminAllowAllMachineEdges(t *testing.T) {
	edges := []struct {
		from, to domain.BookingStatus
	}{
		{domain.BookingPending, domain.BookingConfirmed},
		{domain.BookingPending, domain.BookingCancelled},
		{domain.BookingConfirmed, domain.BookingCompleted},
		{domain.BookingConfirmed, domain.BookingCancelled},
	}

	owner := domain.Actor{ID: fieldOwnerID, Role: domain.RoleFieldOwner}
	admin := domain.Actor{ID: adminID, Role: domain.RoleAdmin}

	for _, e := range edges {
		assert.NoError(t, Authorize(owner, bookingInStatus(e.from), fieldOwnerID, e.to),
			"owner %s -> %s", e.from, e.to)
		assert.NoError(t, Authorize(admin, bookingInStatus(e.from), fieldOwnerID, e.to),
			"admin %s -> %s", e.from, e.to)
	}
}

func TestAuthorize_StrangerDeniedEverywhere(t *testing.T) {
	stranger := domain.Actor{ID: strangerID, Role: domain.RolePlayer}
	edges := []struct {
		from, to domain.BookingStatus
	}{
		{domain.BookingPending, domain.BookingConfirmed},
		{domain.BookingPending, domain.BookingCancelled},
		{domain.BookingConfirmed, domain.BookingCompleted},
		{domain.BookingConfirmed, domain.BookingCancelled},
	}
	for _, e := range edges {
		err := Authorize(stranger, bookingInStatus(e.from), fieldOwnerID, e.to)
		assert.ErrorIs(t, err, ErrForbidden, "%s -> %s", e.from, e.to)
	}
}

// Every (from, to) pair outside the state machine must fail with
// ErrInvalidTransition for every actor, admin included. Admin bypasses the
// actor check, never the machine.
func TestAuthorize_StateMachineClosure(t *testing.T) {
	statuses := []domain.BookingStatus{
		domain.BookingPending,
		domain.BookingConfirmed,
		domain.BookingCancelled,
		domain.BookingCompleted,
	}
	actors := []domain.Actor{
		{ID: requesterID, Role: domain.RolePlayer},
		{ID: fieldOwnerID, Role: domain.RoleFieldOwner},
		{ID: adminID, Role: domain.RoleAdmin},
		{ID: strangerID, Role: domain.RolePlayer},
	}

	for _, from := range statuses {
		for _, to := range statuses {
			if from.CanTransitionTo(to) {
				continue
			}
			for _, actor := range actors {
				err := Authorize(actor, bookingInStatus(from), fieldOwnerID, to)
				assert.ErrorIs(t, err, ErrInvalidTransition,
					"actor=%d %s -> %s", actor.ID, from, to)
			}
		}
	}
}

func TestAuthorize_UnknownTargetStatus(t *testing.T) {
	admin := domain.Actor{ID: adminID, Role: domain.RoleAdmin}
	err := Authorize(admin, bookingInStatus(domain.BookingPending), fieldOwnerID, domain.BookingStatus("archived"))
	assert.ErrorIs(t, err, ErrValidation)
}

func TestAuthorize_TerminalStatesHaveNoExits(t *testing.T) {
	assert.True(t, domain.BookingCancelled.IsTerminal())
	assert.True(t, domain.BookingCompleted.IsTerminal())
	assert.False(t, domain.BookingPending.IsTerminal())
	assert.False(t, domain.BookingConfirmed.IsTerminal())
}
