package badge

import (
	"context"
	"time"
)

// AwardOutcome is the store's verdict on one award attempt.
type AwardOutcome struct {
	BadgeID  string
	Inserted bool
}

type Repository interface {
	ListEarned(ctx context.Context, userID string) ([]Earned, error)
	// Award records each badge for the user unless already earned and
	// reports, per badge, whether this call created the row.
	Award(ctx context.Context, userID string, badgeIDs []string, at time.Time) ([]AwardOutcome, error)
}
