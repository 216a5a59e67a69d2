package memory

import (
	"context"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/riskibarqy/kickabout/internal/domain/badge"
)

type BadgeRepository struct {
	mu    sync.RWMutex
	items map[string]map[string]time.Time
}

func NewBadgeRepository() *BadgeRepository {
	return &BadgeRepository{items: make(map[string]map[string]time.Time)}
}

func (r *BadgeRepository) ListEarned(_ context.Context, userID string) ([]badge.Earned, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]badge.Earned, 0, len(r.items[userID]))
	for badgeID, at := range r.items[userID] {
		out = append(out, badge.Earned{UserID: userID, BadgeID: badgeID, EarnedAt: at})
	}
	slices.SortFunc(out, func(a, b badge.Earned) int {
		if c := a.EarnedAt.Compare(b.EarnedAt); c != 0 {
			return c
		}
		return strings.Compare(a.BadgeID, b.BadgeID)
	})
	return out, nil
}

// Award inserts under the write lock, so of two racing callers only one
// sees Inserted for a given badge.
func (r *BadgeRepository) Award(_ context.Context, userID string, badgeIDs []string, at time.Time) ([]badge.AwardOutcome, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	held, ok := r.items[userID]
	if !ok {
		held = make(map[string]time.Time)
		r.items[userID] = held
	}

	out := make([]badge.AwardOutcome, 0, len(badgeIDs))
	for _, badgeID := range badgeIDs {
		_, exists := held[badgeID]
		if !exists {
			held[badgeID] = at
		}
		out = append(out, badge.AwardOutcome{BadgeID: badgeID, Inserted: !exists})
	}
	return out, nil
}
