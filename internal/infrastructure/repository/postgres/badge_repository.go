package postgres

import (
	"context"
	"time"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/kickabout/internal/domain/badge"
)

type BadgeRepository struct {
	db *sqlx.DB
}

func NewBadgeRepository(db *sqlx.DB) *BadgeRepository {
	return &BadgeRepository{db: db}
}

func (r *BadgeRepository) ListEarned(ctx context.Context, userID string) ([]badge.Earned, error) {
	const query = `
SELECT user_id, badge_id, earned_at
FROM earned_badges
WHERE user_id = $1
ORDER BY earned_at, badge_id`

	var rows []earnedBadgeTableModel
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, crerr.Wrapf(err, "list earned badges user_id=%s", userID)
	}

	out := make([]badge.Earned, 0, len(rows))
	for _, row := range rows {
		out = append(out, badge.Earned{UserID: row.UserID, BadgeID: row.BadgeID, EarnedAt: row.EarnedAt})
	}
	return out, nil
}

// Award relies on the (user_id, badge_id) primary key: RETURNING lists
// only the rows this statement inserted.
func (r *BadgeRepository) Award(ctx context.Context, userID string, badgeIDs []string, at time.Time) ([]badge.AwardOutcome, error) {
	ids := sortedUnique(badgeIDs)
	if len(ids) == 0 {
		return []badge.AwardOutcome{}, nil
	}

	const query = `
INSERT INTO earned_badges (user_id, badge_id, earned_at)
SELECT $1, id, $3 FROM unnest($2::text[]) AS id
ON CONFLICT (user_id, badge_id) DO NOTHING
RETURNING badge_id`

	var inserted []string
	if err := r.db.SelectContext(ctx, &inserted, query, userID, pq.Array(ids), at); err != nil {
		return nil, crerr.Wrapf(err, "award badges user_id=%s", userID)
	}

	insertedSet := make(map[string]struct{}, len(inserted))
	for _, id := range inserted {
		insertedSet[id] = struct{}{}
	}
	out := make([]badge.AwardOutcome, 0, len(ids))
	for _, id := range ids {
		_, ok := insertedSet[id]
		out = append(out, badge.AwardOutcome{BadgeID: id, Inserted: ok})
	}
	return out, nil
}
