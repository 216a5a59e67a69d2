package session

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/kickabout/internal/domain/reliability"
)

const MinSeatsTotal = 2

// New opens a session. The organizer takes the first seat as a regular
// confirmed participant.
func New(id, organizerID string, meta Metadata, seatsTotal int, scheduledStart, now time.Time) (Aggregate, error) {
	if strings.TrimSpace(id) == "" {
		return Aggregate{}, fmt.Errorf("%w: id is required", ErrInvalidSession)
	}
	if strings.TrimSpace(organizerID) == "" {
		return Aggregate{}, fmt.Errorf("%w: organizer is required", ErrInvalidSession)
	}
	if seatsTotal < MinSeatsTotal {
		return Aggregate{}, fmt.Errorf("%w: seats total must be >= %d, got %d", ErrInvalidSession, MinSeatsTotal, seatsTotal)
	}
	if !scheduledStart.After(now) {
		return Aggregate{}, fmt.Errorf("%w: scheduled start must be in the future", ErrInvalidSession)
	}

	return Aggregate{
		Session: Session{
			ID:             id,
			OrganizerID:    organizerID,
			Metadata:       meta,
			SeatsTotal:     seatsTotal,
			SeatsAvailable: seatsTotal - 1,
			ScheduledStart: scheduledStart,
			Status:         StatusOpen,
			Version:        1,
			CreatedAt:      now,
			UpdatedAt:      now,
		},
		Participants: []Participant{
			{
				SessionID:        id,
				UserID:           organizerID,
				MembershipStatus: MembershipConfirmed,
				IsOrganizer:      true,
				Attendance:       AttendanceUnset,
				JoinedAt:         now,
				UpdatedAt:        now,
			},
		},
	}, nil
}

// Join takes one seat for userID. Reaching zero seats flips the stored
// status to full in the same change.
func (a *Aggregate) Join(userID string, now time.Time) (Participant, error) {
	switch status := a.Session.EffectiveStatus(now); status {
	case StatusOpen:
	case StatusFull:
		return Participant{}, ErrSessionFull
	default:
		return Participant{}, fmt.Errorf("%w: status=%s", ErrNotJoinable, status)
	}
	if userID == a.Session.OrganizerID {
		return Participant{}, ErrAlreadyParticipant
	}

	idx := a.participantIndex(userID)
	if idx >= 0 && a.Participants[idx].Active() {
		return Participant{}, ErrAlreadyParticipant
	}
	if a.Session.SeatsAvailable <= 0 {
		return Participant{}, ErrSessionFull
	}

	a.Session.SeatsAvailable--
	a.Session.Status = seatStatus(a.Session.SeatsAvailable)
	a.Session.UpdatedAt = now

	if idx >= 0 {
		p := &a.Participants[idx]
		p.MembershipStatus = MembershipConfirmed
		p.Attendance = AttendanceUnset
		p.AttendanceRecordedAt = nil
		p.WithdrawnAt = nil
		p.JoinedAt = now
		p.UpdatedAt = now
		return *p, nil
	}

	p := Participant{
		SessionID:        a.Session.ID,
		UserID:           userID,
		MembershipStatus: MembershipConfirmed,
		Attendance:       AttendanceUnset,
		JoinedAt:         now,
		UpdatedAt:        now,
	}
	a.Participants = append(a.Participants, p)
	return p, nil
}

// Withdraw frees userID's seat and returns the late-withdrawal penalty,
// classified against the scheduled start at the moment of withdrawal.
func (a *Aggregate) Withdraw(userID string, now time.Time) (Participant, reliability.Penalty, error) {
	if a.Session.Status.IsTerminal() {
		return Participant{}, reliability.Penalty{}, fmt.Errorf("%w: status=%s", ErrTerminal, a.Session.Status)
	}

	idx := a.participantIndex(userID)
	if idx < 0 || !a.Participants[idx].Active() {
		return Participant{}, reliability.Penalty{}, ErrNotParticipant
	}
	p := &a.Participants[idx]
	if p.IsOrganizer {
		return Participant{}, reliability.Penalty{}, ErrOrganizerCannotWithdraw
	}

	penalty := reliability.WithdrawalPenalty(a.Session.ScheduledStart, now)

	a.Session.SeatsAvailable++
	a.Session.Status = seatStatus(a.Session.SeatsAvailable)
	a.Session.UpdatedAt = now

	withdrawnAt := now
	p.MembershipStatus = MembershipWithdrawn
	p.WithdrawnAt = &withdrawnAt
	p.PenaltyApplied += penalty.Delta
	p.UpdatedAt = now

	return *p, penalty, nil
}

// Cancel ends the session for good. Seats are left as they were so the
// membership history stays auditable.
func (a *Aggregate) Cancel(organizerID string, now time.Time) error {
	if organizerID != a.Session.OrganizerID {
		return ErrOrganizerOnly
	}
	if a.Session.Status.IsTerminal() {
		return fmt.Errorf("%w: status=%s", ErrTerminal, a.Session.Status)
	}

	cancelledAt := now
	a.Session.Status = StatusCancelled
	a.Session.CancelledAt = &cancelledAt
	a.Session.UpdatedAt = now
	return nil
}

// AssignSide sets the team tag used to score outcomes.
func (a *Aggregate) AssignSide(organizerID, userID, side string, now time.Time) (Participant, error) {
	if organizerID != a.Session.OrganizerID {
		return Participant{}, ErrOrganizerOnly
	}
	if a.Session.Status.IsTerminal() {
		return Participant{}, fmt.Errorf("%w: status=%s", ErrTerminal, a.Session.Status)
	}
	idx := a.participantIndex(userID)
	if idx < 0 || !a.Participants[idx].Active() {
		return Participant{}, ErrNotParticipant
	}

	p := &a.Participants[idx]
	p.Side = strings.TrimSpace(side)
	p.UpdatedAt = now
	a.Session.UpdatedAt = now
	return *p, nil
}

// ActiveUserIDs lists users holding a seat, organizer included, sorted.
func (a Aggregate) ActiveUserIDs() []string {
	out := make([]string, 0, len(a.Participants))
	for _, p := range a.Participants {
		if p.Active() {
			out = append(out, p.UserID)
		}
	}
	slices.Sort(out)
	return out
}

func (a Aggregate) ActiveCount() int {
	count := 0
	for _, p := range a.Participants {
		if p.Active() {
			count++
		}
	}
	return count
}

func (a Aggregate) Participant(userID string) (Participant, bool) {
	idx := a.participantIndex(userID)
	if idx < 0 {
		return Participant{}, false
	}
	return a.Participants[idx], true
}

// CheckInvariants verifies seat accounting and membership uniqueness.
func (a Aggregate) CheckInvariants() error {
	s := a.Session
	if s.SeatsAvailable < 0 || s.SeatsAvailable > s.SeatsTotal {
		return fmt.Errorf("%w: seats available %d outside [0,%d]", ErrInvariantViolated, s.SeatsAvailable, s.SeatsTotal)
	}
	seen := make(map[string]struct{}, len(a.Participants))
	for _, p := range a.Participants {
		if _, dup := seen[p.UserID]; dup {
			return fmt.Errorf("%w: duplicate membership for user %s", ErrInvariantViolated, p.UserID)
		}
		seen[p.UserID] = struct{}{}
	}
	if active := a.ActiveCount(); s.SeatsAvailable != s.SeatsTotal-active {
		return fmt.Errorf("%w: seats available %d, expected %d", ErrInvariantViolated, s.SeatsAvailable, s.SeatsTotal-active)
	}
	if !s.Status.IsTerminal() && s.Status != seatStatus(s.SeatsAvailable) {
		return fmt.Errorf("%w: status %s with %d seats available", ErrInvariantViolated, s.Status, s.SeatsAvailable)
	}
	return nil
}

func (a Aggregate) participantIndex(userID string) int {
	for i, p := range a.Participants {
		if p.UserID == userID {
			return i
		}
	}
	return -1
}
