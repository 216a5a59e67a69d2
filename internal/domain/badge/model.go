package badge

import "time"

// ConditionType names the counter a badge threshold is measured on.
type ConditionType string

const (
	ConditionSessionsPlayed       ConditionType = "sessions_played"
	ConditionSessionsOrganized    ConditionType = "sessions_organized"
	ConditionReferralCount        ConditionType = "referral_count"
	ConditionCurrentStreak        ConditionType = "current_streak"
	ConditionSignupSequenceNumber ConditionType = "signup_sequence_number"
)

// Inverted reports whether lower values qualify. Only the signup sequence
// works that way: earlier signups earn founder badges.
func (c ConditionType) Inverted() bool {
	return c == ConditionSignupSequenceNumber
}

type Category string

const (
	CategoryParticipation Category = "participation"
	CategoryOrganizing    Category = "organizing"
	CategoryCommunity     Category = "community"
	CategoryPerformance   Category = "performance"
	CategoryFounder       Category = "founder"
)

type Definition struct {
	ID             string
	Name           string
	Description    string
	Category       Category
	ConditionType  ConditionType
	ConditionValue int64
}

type Earned struct {
	UserID   string
	BadgeID  string
	EarnedAt time.Time
}

// Counters is a snapshot of the values badge conditions read.
type Counters map[ConditionType]int64
