package services

import (
	"errors"

	"github.com/courtside/tournament-engine/repositories"
)

// Engine error taxonomy. Every command failure is classified under one of
// these sentinels (wrapped with context via %w); callers translate them into
// user-facing responses. A failed command aborts its transaction with no
// partial writes.
var (
	// Command parameters out of range (point winner not 1/2, bad slot, ...).
	ErrInvalidArgument = errors.New("invalid argument")

	// Sport configuration absent when required (tennis init without a
	// tennis config).
	ErrConfigurationMissing = errors.New("sport configuration missing")

	// The world is not ready for the command: too few participants, a slot
	// not yet filled, tournament not active.
	ErrPreconditionFailed = errors.New("precondition failed")

	// The command is invalid for the current match or scoring status:
	// scoring a completed match, completing a non-live match, a tied score
	// in an elimination format.
	ErrIllegalStateTransition = errors.New("illegal state transition")

	// Court double-booking.
	ErrConflict = errors.New("conflict")

	// Entity lookups.
	ErrTournamentNotFound  = errors.New("tournament not found")
	ErrBracketNotFound     = errors.New("bracket not found")
	ErrMatchNotFound       = errors.New("match not found")
	ErrParticipantNotFound = errors.New("participant not found")
)

// translateRepoError lifts repository lookup failures into the service
// taxonomy; everything else passes through untouched.
func translateRepoError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, repositories.ErrTournamentNotFound):
		return ErrTournamentNotFound
	case errors.Is(err, repositories.ErrBracketNotFound):
		return ErrBracketNotFound
	case errors.Is(err, repositories.ErrMatchNotFound):
		return ErrMatchNotFound
	case errors.Is(err, repositories.ErrParticipantNotFound):
		return ErrParticipantNotFound
	}
	return err
}
