package session

import "errors"

var (
	ErrNotFound                = errors.New("session not found")
	ErrInvalidSession          = errors.New("invalid session")
	ErrSessionFull             = errors.New("no seats left in session")
	ErrNotJoinable             = errors.New("session is not accepting participants")
	ErrAlreadyParticipant      = errors.New("user already holds a seat in session")
	ErrNotParticipant          = errors.New("user has no active seat in session")
	ErrOrganizerOnly           = errors.New("only the organizer may do this")
	ErrOrganizerCannotWithdraw = errors.New("organizer cannot withdraw, cancel the session instead")
	ErrTerminal                = errors.New("session is completed or cancelled")
	ErrNotAwaitingConfirmation = errors.New("session is not awaiting confirmation")
	ErrAlreadyReconciled       = errors.New("attendance already confirmed")
	ErrAttendanceIncomplete    = errors.New("attendance does not cover every active participant")
	ErrUnknownAttendee         = errors.New("attendance lists a user without an active seat")
	ErrUnknownSide             = errors.New("winning side is not played by any participant")
	ErrInvariantViolated       = errors.New("session invariant violated")
	// ErrConcurrentUpdate reports a stored session that changed between read
	// and write. Nothing was applied.
	ErrConcurrentUpdate = errors.New("session changed concurrently")
)
