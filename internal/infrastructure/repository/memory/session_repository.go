package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/riskibarqy/kickabout/internal/domain/reliability"
	"github.com/riskibarqy/kickabout/internal/domain/session"
	"github.com/riskibarqy/kickabout/internal/platform/keylock"
)

// SessionRepository keeps aggregates in memory. Mutate holds a per-session
// lock, then the per-user locks of the accounts it touches, and publishes
// the session and those accounts under one write lock.
type SessionRepository struct {
	accounts *AccountRepository
	locks    *keylock.Locker

	mu    sync.RWMutex
	items map[string]session.Aggregate
}

func NewSessionRepository(accounts *AccountRepository) *SessionRepository {
	if accounts == nil {
		accounts = NewAccountRepository()
	}
	return &SessionRepository{
		accounts: accounts,
		locks:    keylock.New(),
		items:    make(map[string]session.Aggregate),
	}
}

func (r *SessionRepository) Create(_ context.Context, agg session.Aggregate) error {
	if err := agg.CheckInvariants(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.items[agg.Session.ID]; exists {
		return fmt.Errorf("session %s already exists", agg.Session.ID)
	}
	r.items[agg.Session.ID] = agg.Clone()
	return nil
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (session.Aggregate, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	agg, ok := r.items[sessionID]
	if !ok {
		return session.Aggregate{}, false, nil
	}
	return agg.Clone(), true, nil
}

func (r *SessionRepository) ListByUser(_ context.Context, userID string) ([]session.Session, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]session.Session, 0)
	for _, agg := range r.items {
		if _, ok := agg.Participant(userID); ok {
			out = append(out, agg.Clone().Session)
		}
	}
	slices.SortFunc(out, func(a, b session.Session) int {
		if c := a.ScheduledStart.Compare(b.ScheduledStart); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return out, nil
}

func (r *SessionRepository) Mutate(ctx context.Context, sessionID string, lockUsers session.LockUsersFunc, fn session.MutateFunc) (session.Aggregate, error) {
	unlockSession := r.locks.Lock(sessionID)
	defer unlockSession()

	r.mu.RLock()
	current, ok := r.items[sessionID]
	r.mu.RUnlock()
	if !ok {
		return session.Aggregate{}, fmt.Errorf("%w: %s", session.ErrNotFound, sessionID)
	}

	var staged map[string]*reliability.Account
	if lockUsers != nil {
		userIDs := lockUsers(current.Clone())
		unlockUsers := r.accounts.lockUsers(userIDs)
		defer unlockUsers()
		staged = r.accounts.stage(userIDs)
	}
	if staged == nil {
		staged = map[string]*reliability.Account{}
	}
	if err := ctx.Err(); err != nil {
		return session.Aggregate{}, err
	}

	working := current.Clone()
	if err := fn(&working, staged); err != nil {
		return session.Aggregate{}, err
	}
	if err := working.CheckInvariants(); err != nil {
		return session.Aggregate{}, err
	}
	for _, account := range staged {
		if err := validateAccount(*account); err != nil {
			return session.Aggregate{}, err
		}
	}
	working.Session.Version = current.Session.Version + 1

	r.accounts.mu.Lock()
	r.mu.Lock()
	r.items[sessionID] = working.Clone()
	r.accounts.commitLocked(staged)
	r.mu.Unlock()
	r.accounts.mu.Unlock()

	return working, nil
}
