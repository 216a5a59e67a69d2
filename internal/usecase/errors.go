package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/kickabout/internal/domain/session"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrForbidden             = errors.New("forbidden")
	ErrDependencyUnavailable = errors.New("dependency unavailable")

	// ErrSeatUnavailable means the session filled up; refetch and retry.
	ErrSeatUnavailable        = errors.New("seat unavailable")
	ErrAlreadyJoined          = errors.New("already joined")
	ErrInvalidStateTransition = errors.New("invalid state transition")
	ErrIncompleteAttendance   = errors.New("incomplete attendance")
	// ErrAlreadyConfirmed guards repeated attendance submissions; callers
	// may treat it as a successful no-op.
	ErrAlreadyConfirmed = errors.New("attendance already confirmed")
	// ErrConflict means the session changed while the request was applied
	// and nothing was written; refetch and retry.
	ErrConflict = errors.New("concurrent update conflict")
)

// sessionError maps a session rule violation onto the use-case taxonomy,
// keeping the original error in the chain.
func sessionError(err error) error {
	var kind error
	switch {
	case err == nil:
		return nil
	case errors.Is(err, session.ErrNotFound):
		kind = ErrNotFound
	case errors.Is(err, session.ErrConcurrentUpdate):
		kind = ErrConflict
	case errors.Is(err, session.ErrSessionFull):
		kind = ErrSeatUnavailable
	case errors.Is(err, session.ErrAlreadyParticipant):
		kind = ErrAlreadyJoined
	case errors.Is(err, session.ErrNotParticipant):
		kind = ErrNotFound
	case errors.Is(err, session.ErrOrganizerOnly):
		kind = ErrForbidden
	case errors.Is(err, session.ErrAlreadyReconciled):
		kind = ErrAlreadyConfirmed
	case errors.Is(err, session.ErrAttendanceIncomplete):
		kind = ErrIncompleteAttendance
	case errors.Is(err, session.ErrInvalidSession),
		errors.Is(err, session.ErrUnknownAttendee),
		errors.Is(err, session.ErrUnknownSide):
		kind = ErrInvalidInput
	case errors.Is(err, session.ErrNotJoinable),
		errors.Is(err, session.ErrOrganizerCannotWithdraw),
		errors.Is(err, session.ErrTerminal),
		errors.Is(err, session.ErrNotAwaitingConfirmation):
		kind = ErrInvalidStateTransition
	default:
		return err
	}
	return fmt.Errorf("%w: %w", kind, err)
}
