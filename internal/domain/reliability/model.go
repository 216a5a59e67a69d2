package reliability

import "time"

const (
	MinScore     = 0
	MaxScore     = 100
	DefaultScore = 100
)

// Account is a user's reliability record. Counters only ever grow; Score
// and CurrentStreak move with attendance.
type Account struct {
	UserID               string
	Score                int
	CurrentStreak        int
	SessionsPlayed       int
	SessionsOrganized    int
	NoShows              int
	LateWithdrawals      int
	ReferralCount        int
	SignupSequenceNumber int64
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

func NewAccount(userID string, signupSequence int64, now time.Time) Account {
	return Account{
		UserID:               userID,
		Score:                DefaultScore,
		SignupSequenceNumber: signupSequence,
		CreatedAt:            now,
		UpdatedAt:            now,
	}
}
