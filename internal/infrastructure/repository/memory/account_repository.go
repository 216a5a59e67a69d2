package memory

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/kickabout/internal/domain/reliability"
	"github.com/riskibarqy/kickabout/internal/platform/keylock"
)

// AccountRepository keeps reliability accounts in memory. Mutations for
// one user are serialized by a per-user lock that SessionRepository
// shares.
type AccountRepository struct {
	users *keylock.Locker

	mu      sync.RWMutex
	items   map[string]reliability.Account
	lastSeq int64
	now     func() time.Time
}

func NewAccountRepository() *AccountRepository {
	return &AccountRepository{
		users: keylock.New(),
		items: make(map[string]reliability.Account),
		now:   time.Now,
	}
}

func (r *AccountRepository) Get(_ context.Context, userID string) (reliability.Account, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	account, ok := r.items[userID]
	return account, ok, nil
}

func (r *AccountRepository) Ensure(_ context.Context, userID string) (reliability.Account, error) {
	if strings.TrimSpace(userID) == "" {
		return reliability.Account{}, fmt.Errorf("ensure account: user id is required")
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	return r.ensureLocked(userID), nil
}

func (r *AccountRepository) Mutate(ctx context.Context, userID string, fn func(account *reliability.Account) error) (reliability.Account, error) {
	if strings.TrimSpace(userID) == "" {
		return reliability.Account{}, fmt.Errorf("mutate account: user id is required")
	}

	unlock := r.users.Lock(userID)
	defer unlock()
	if err := ctx.Err(); err != nil {
		return reliability.Account{}, err
	}

	staged := r.stage([]string{userID})
	account := staged[userID]
	if err := fn(account); err != nil {
		return reliability.Account{}, err
	}
	account.UserID = userID
	if err := validateAccount(*account); err != nil {
		return reliability.Account{}, err
	}

	r.mu.Lock()
	r.items[userID] = *account
	r.mu.Unlock()
	return *account, nil
}

// lockUsers takes the per-user locks for ids in sorted order.
func (r *AccountRepository) lockUsers(ids []string) func() {
	return r.users.LockMany(ids)
}

// stage returns working copies of the accounts, provisioning missing
// ones. Callers must hold the user locks for ids.
func (r *AccountRepository) stage(ids []string) map[string]*reliability.Account {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make(map[string]*reliability.Account, len(ids))
	for _, id := range ids {
		account := r.ensureLocked(id)
		out[id] = &account
	}
	return out
}

// commitLocked writes staged accounts. Callers hold r.mu.
func (r *AccountRepository) commitLocked(staged map[string]*reliability.Account) {
	for id, account := range staged {
		account.UserID = id
		r.items[id] = *account
	}
}

func (r *AccountRepository) ensureLocked(userID string) reliability.Account {
	if account, ok := r.items[userID]; ok {
		return account
	}
	r.lastSeq++
	account := reliability.NewAccount(userID, r.lastSeq, r.now().UTC())
	r.items[userID] = account
	return account
}

func validateAccount(a reliability.Account) error {
	if a.Score < reliability.MinScore || a.Score > reliability.MaxScore {
		return fmt.Errorf("account %s: score %d out of bounds", a.UserID, a.Score)
	}
	if a.CurrentStreak < 0 {
		return fmt.Errorf("account %s: negative streak", a.UserID)
	}
	return nil
}
