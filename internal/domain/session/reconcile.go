package session

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/riskibarqy/kickabout/internal/domain/reliability"
)

// Line is one participant's reconciled attendance, ready to be booked
// onto their reliability account.
type Line struct {
	Participant Participant
	Outcome     reliability.AttendanceOutcome
}

// RecordOutcome stores the result of a played session ahead of attendance.
func (a *Aggregate) RecordOutcome(organizerID string, outcome Outcome, now time.Time) error {
	if organizerID != a.Session.OrganizerID {
		return ErrOrganizerOnly
	}
	if err := a.requireAwaitingConfirmation(now); err != nil {
		return err
	}
	return a.setOutcome(outcome, now)
}

// Reconcile applies the organizer's attendance report. attendance must
// name every active participant and nobody else. On success the session
// is completed and one Line per active participant is returned.
func (a *Aggregate) Reconcile(organizerID string, attendance map[string]bool, outcome *Outcome, now time.Time) ([]Line, error) {
	if organizerID != a.Session.OrganizerID {
		return nil, ErrOrganizerOnly
	}
	if err := a.requireAwaitingConfirmation(now); err != nil {
		return nil, err
	}

	active := a.ActiveUserIDs()
	for userID := range attendance {
		if _, found := slices.BinarySearch(active, userID); !found {
			return nil, fmt.Errorf("%w: %s", ErrUnknownAttendee, userID)
		}
	}
	var missing []string
	for _, userID := range active {
		if _, ok := attendance[userID]; !ok {
			missing = append(missing, userID)
		}
	}
	if len(missing) > 0 {
		return nil, fmt.Errorf("%w: missing %s", ErrAttendanceIncomplete, strings.Join(missing, ","))
	}

	if outcome != nil {
		if err := a.setOutcome(*outcome, now); err != nil {
			return nil, err
		}
	}
	winningSide := ""
	if a.Session.Outcome != nil {
		winningSide = a.Session.Outcome.WinningSide
	}

	recordedAt := now
	lines := make([]Line, 0, len(active))
	for i := range a.Participants {
		p := &a.Participants[i]
		if !p.Active() {
			continue
		}
		attended := attendance[p.UserID]
		if attended {
			p.Attendance = AttendancePresent
		} else {
			p.Attendance = AttendanceAbsent
		}
		p.AttendanceRecordedAt = &recordedAt
		p.UpdatedAt = now

		lines = append(lines, Line{
			Participant: *p,
			Outcome: reliability.AttendanceOutcome{
				Attended:              attended,
				PenaltyAlreadyApplied: p.PenaltyApplied != 0,
				Side:                  p.Side,
				WinningSide:           winningSide,
			},
		})
	}

	a.Session.Status = StatusCompleted
	a.Session.AttendanceConfirmed = true
	a.Session.UpdatedAt = now
	return lines, nil
}

func (a *Aggregate) requireAwaitingConfirmation(now time.Time) error {
	switch status := a.Session.EffectiveStatus(now); status {
	case StatusAwaitingConfirmation:
		return nil
	case StatusCompleted:
		return ErrAlreadyReconciled
	case StatusCancelled:
		return fmt.Errorf("%w: status=%s", ErrTerminal, status)
	default:
		return fmt.Errorf("%w: status=%s", ErrNotAwaitingConfirmation, status)
	}
}

func (a *Aggregate) setOutcome(outcome Outcome, now time.Time) error {
	winning := strings.TrimSpace(outcome.WinningSide)
	if winning == "" {
		return fmt.Errorf("%w: winning side is required", ErrUnknownSide)
	}
	played := false
	for _, p := range a.Participants {
		if p.Active() && p.Side == winning {
			played = true
			break
		}
	}
	if !played {
		return fmt.Errorf("%w: %s", ErrUnknownSide, winning)
	}
	for _, set := range outcome.SetScores {
		if set.First < 0 || set.Second < 0 {
			return fmt.Errorf("%w: set scores must be >= 0", ErrInvalidSession)
		}
	}

	a.Session.Outcome = &Outcome{
		WinningSide: winning,
		SetScores:   append([]SetScore(nil), outcome.SetScores...),
	}
	a.Session.UpdatedAt = now
	return nil
}
