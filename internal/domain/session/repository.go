package session

import (
	"context"

	"github.com/riskibarqy/kickabout/internal/domain/reliability"
)

// MutateFunc edits a session and, optionally, the accounts locked with it.
// Returning an error discards every change.
type MutateFunc func(agg *Aggregate, accounts map[string]*reliability.Account) error

// LockUsersFunc names the accounts a mutation needs, given the session as
// read under its lock.
type LockUsersFunc func(agg Aggregate) []string

type Repository interface {
	Create(ctx context.Context, agg Aggregate) error
	Get(ctx context.Context, sessionID string) (Aggregate, bool, error)
	ListByUser(ctx context.Context, userID string) ([]Session, error)
	// Mutate holds the session exclusively, then the accounts lockUsers
	// names (sorted by user id), runs fn, and commits the session,
	// its participants and every touched account together or not at all.
	// lockUsers may be nil when no account is involved.
	Mutate(ctx context.Context, sessionID string, lockUsers LockUsersFunc, fn MutateFunc) (Aggregate, error)
}
