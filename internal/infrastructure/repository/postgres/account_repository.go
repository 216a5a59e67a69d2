package postgres

import (
	"context"
	"strings"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/riskibarqy/kickabout/internal/domain/reliability"
)

const accountColumns = `user_id, score, current_streak, sessions_played, sessions_organized,
    no_shows, late_withdrawals, referral_count, signup_sequence_number, created_at, updated_at`

type AccountRepository struct {
	db *sqlx.DB
}

func NewAccountRepository(db *sqlx.DB) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Get(ctx context.Context, userID string) (reliability.Account, bool, error) {
	query := `SELECT ` + accountColumns + ` FROM reliability_accounts WHERE user_id = $1`

	var row accountTableModel
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		if isNotFound(err) {
			return reliability.Account{}, false, nil
		}
		return reliability.Account{}, false, crerr.Wrapf(err, "get reliability account user_id=%s", userID)
	}
	return accountFromRow(row), true, nil
}

func (r *AccountRepository) Ensure(ctx context.Context, userID string) (reliability.Account, error) {
	if strings.TrimSpace(userID) == "" {
		return reliability.Account{}, crerr.New("ensure account: user id is required")
	}

	query := `
WITH inserted AS (
    INSERT INTO reliability_accounts (user_id)
    VALUES ($1)
    ON CONFLICT (user_id) DO NOTHING
    RETURNING ` + accountColumns + `
)
SELECT ` + accountColumns + ` FROM inserted
UNION ALL
SELECT ` + accountColumns + ` FROM reliability_accounts WHERE user_id = $1
LIMIT 1`

	var row accountTableModel
	if err := r.db.GetContext(ctx, &row, query, userID); err != nil {
		return reliability.Account{}, crerr.Wrapf(err, "ensure reliability account user_id=%s", userID)
	}
	return accountFromRow(row), nil
}

func (r *AccountRepository) Mutate(ctx context.Context, userID string, fn func(account *reliability.Account) error) (reliability.Account, error) {
	if strings.TrimSpace(userID) == "" {
		return reliability.Account{}, crerr.New("mutate account: user id is required")
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return reliability.Account{}, crerr.Wrap(err, "begin tx for account mutate")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	locked, err := lockAccountsTx(ctx, tx, []string{userID})
	if err != nil {
		return reliability.Account{}, err
	}
	account := locked[userID]
	if err := fn(account); err != nil {
		return reliability.Account{}, err
	}
	account.UserID = userID
	if err := updateAccountTx(ctx, tx, *account); err != nil {
		return reliability.Account{}, err
	}

	if err := tx.Commit(); err != nil {
		return reliability.Account{}, crerr.Wrap(err, "commit account mutate")
	}
	return *account, nil
}

// lockAccountsTx provisions missing accounts, then row-locks every account
// in user id order and returns working copies.
func lockAccountsTx(ctx context.Context, tx *sqlx.Tx, userIDs []string) (map[string]*reliability.Account, error) {
	ids := sortedUnique(userIDs)
	out := make(map[string]*reliability.Account, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	const provisionQuery = `
INSERT INTO reliability_accounts (user_id)
SELECT id FROM unnest($1::text[]) AS id ORDER BY id
ON CONFLICT (user_id) DO NOTHING`
	if _, err := tx.ExecContext(ctx, provisionQuery, pq.Array(ids)); err != nil {
		return nil, crerr.Wrap(err, "provision reliability accounts")
	}

	lockQuery := `SELECT ` + accountColumns + `
FROM reliability_accounts
WHERE user_id = ANY($1)
ORDER BY user_id
FOR UPDATE`
	var rows []accountTableModel
	if err := tx.SelectContext(ctx, &rows, lockQuery, pq.Array(ids)); err != nil {
		return nil, crerr.Wrap(err, "lock reliability accounts")
	}
	for _, row := range rows {
		account := accountFromRow(row)
		out[row.UserID] = &account
	}
	if len(out) != len(ids) {
		return nil, crerr.Newf("locked %d of %d reliability accounts", len(out), len(ids))
	}
	return out, nil
}

func updateAccountTx(ctx context.Context, tx *sqlx.Tx, account reliability.Account) error {
	const query = `
UPDATE reliability_accounts
SET score = :score,
    current_streak = :current_streak,
    sessions_played = :sessions_played,
    sessions_organized = :sessions_organized,
    no_shows = :no_shows,
    late_withdrawals = :late_withdrawals,
    referral_count = :referral_count,
    updated_at = :updated_at
WHERE user_id = :user_id`

	row := accountTableModel{
		UserID:            account.UserID,
		Score:             account.Score,
		CurrentStreak:     account.CurrentStreak,
		SessionsPlayed:    account.SessionsPlayed,
		SessionsOrganized: account.SessionsOrganized,
		NoShows:           account.NoShows,
		LateWithdrawals:   account.LateWithdrawals,
		ReferralCount:     account.ReferralCount,
		UpdatedAt:         account.UpdatedAt,
	}
	if _, err := tx.NamedExecContext(ctx, query, row); err != nil {
		return crerr.Wrapf(err, "update reliability account user_id=%s", account.UserID)
	}
	return nil
}
