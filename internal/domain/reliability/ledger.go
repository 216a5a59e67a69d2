package reliability

import "time"

const (
	AttendedDelta = 2
	NoShowDelta   = -20

	// Late withdrawal tiers, measured against the scheduled start.
	WithdrawalPenaltyUnder2h  = -15
	WithdrawalPenaltyUnder24h = -10
)

const (
	lateWindow     = 2 * time.Hour
	standardWindow = 24 * time.Hour
)

func Clamp(score int) int {
	switch {
	case score < MinScore:
		return MinScore
	case score > MaxScore:
		return MaxScore
	default:
		return score
	}
}

// ApplyDelta returns the account with delta applied and the score clamped.
// Whatever falls outside [MinScore, MaxScore] is absorbed.
func ApplyDelta(a Account, delta int) Account {
	a.Score = Clamp(a.Score + delta)
	return a
}

// AttendanceOutcome is one participant's line in a reconciled session.
type AttendanceOutcome struct {
	Attended bool
	// PenaltyAlreadyApplied marks participants charged at withdrawal time;
	// their no-show carries no further score delta.
	PenaltyAlreadyApplied bool
	Side                  string
	// WinningSide is empty for sessions without a recorded result.
	WinningSide string
}

// ApplyAttendance books a reconciled session onto the account.
func ApplyAttendance(a Account, o AttendanceOutcome, now time.Time) Account {
	a.SessionsPlayed++
	if o.Attended {
		a = ApplyDelta(a, AttendedDelta)
	} else {
		a.NoShows++
		if !o.PenaltyAlreadyApplied {
			a = ApplyDelta(a, NoShowDelta)
		}
	}
	a.CurrentStreak = NextStreak(a.CurrentStreak, o)
	a.UpdatedAt = now
	return a
}

// NextStreak counts consecutive wins. Sessions without a recorded winner
// leave an attended participant's streak untouched.
func NextStreak(current int, o AttendanceOutcome) int {
	if !o.Attended {
		return 0
	}
	if o.WinningSide == "" {
		return current
	}
	if o.Side != "" && o.Side == o.WinningSide {
		return current + 1
	}
	return 0
}

// Penalty is the charge for withdrawing from a session.
type Penalty struct {
	Delta int
	// AfterStart is set when the withdrawal happened once the session had
	// already started; it is treated like a no-show.
	AfterStart bool
}

func (p Penalty) IsZero() bool {
	return p.Delta == 0
}

// WithdrawalPenalty classifies a withdrawal made at withdrawnAt against the
// session's scheduled start as it stood at that moment.
func WithdrawalPenalty(scheduledStart, withdrawnAt time.Time) Penalty {
	lead := scheduledStart.Sub(withdrawnAt)
	switch {
	case lead <= 0:
		return Penalty{Delta: WithdrawalPenaltyUnder2h, AfterStart: true}
	case lead < lateWindow:
		return Penalty{Delta: WithdrawalPenaltyUnder2h}
	case lead < standardWindow:
		return Penalty{Delta: WithdrawalPenaltyUnder24h}
	default:
		return Penalty{}
	}
}

// ApplyWithdrawalPenalty books a non-zero penalty onto the account.
func ApplyWithdrawalPenalty(a Account, p Penalty, now time.Time) Account {
	if p.IsZero() {
		return a
	}
	a = ApplyDelta(a, p.Delta)
	a.LateWithdrawals++
	if p.AfterStart {
		a.CurrentStreak = 0
	}
	a.UpdatedAt = now
	return a
}
