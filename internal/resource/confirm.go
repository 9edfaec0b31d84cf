package resource

import (
	errors "github.com/frahmantamala/helpdesk-console/internal"
)

type ConfirmState string

const (
	StateIdle           ConfirmState = "idle"
	StateConfirmPending ConfirmState = "confirm_pending"
	StateConfirmed      ConfirmState = "confirmed"
	StateDeleting       ConfirmState = "deleting"
	StateDone           ConfirmState = "done"
	StateCancelled      ConfirmState = "cancelled"
)

var ErrInvalidTransition = errors.NewConflictError("invalid confirmation state transition", errors.ErrCodeInvalidTransition)

// Confirmation is the two-step guard in front of a destructive action:
//
//	Idle -> ConfirmPending -> Confirmed -> Deleting -> Done
//	ConfirmPending -> Cancelled -> Idle
//
// A failed delete falls back to ConfirmPending.
type Confirmation struct {
	state ConfirmState
}

func NewConfirmation() *Confirmation {
	return &Confirmation{state: StateIdle}
}

func (c *Confirmation) State() ConfirmState {
	return c.state
}

func (c *Confirmation) move(from, to ConfirmState) error {
	if c.state != from {
		return ErrInvalidTransition.WithMessage("cannot move from %s to %s", c.state, to)
	}
	c.state = to
	return nil
}

func (c *Confirmation) Request() error {
	return c.move(StateIdle, StateConfirmPending)
}

func (c *Confirmation) Confirm() error {
	return c.move(StateConfirmPending, StateConfirmed)
}

func (c *Confirmation) Begin() error {
	return c.move(StateConfirmed, StateDeleting)
}

// Finish records the outcome of the delete.
func (c *Confirmation) Finish(deleteErr error) error {
	if c.state != StateDeleting {
		return ErrInvalidTransition.WithMessage("cannot finish from %s", c.state)
	}
	if deleteErr != nil {
		c.state = StateConfirmPending
		return nil
	}
	c.state = StateDone
	return nil
}

// Cancel abandons a pending confirmation and leaves the machine Idle.
func (c *Confirmation) Cancel() error {
	if err := c.move(StateConfirmPending, StateCancelled); err != nil {
		return err
	}
	return c.move(StateCancelled, StateIdle)
}
