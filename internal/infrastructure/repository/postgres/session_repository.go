package postgres

import (
	"context"

	crerr "github.com/cockroachdb/errors"
	"github.com/jmoiron/sqlx"
	"github.com/riskibarqy/kickabout/internal/domain/reliability"
	"github.com/riskibarqy/kickabout/internal/domain/session"
)

// ErrVersionConflict reports a session row that changed between read and
// write. The mutation is abandoned; callers decide whether to retry.
var ErrVersionConflict = crerr.Wrap(session.ErrConcurrentUpdate, "session version conflict")

const sessionColumns = `public_id, organizer_id, title, sport, venue, seats_total, seats_available,
    scheduled_start, status, attendance_confirmed, winning_side, set_scores, version,
    created_at, updated_at, cancelled_at`

const participantColumns = `session_public_id, user_id, membership_status, is_organizer, side,
    attendance, attendance_recorded_at, penalty_applied, joined_at, withdrawn_at, updated_at`

// sqlQueryer is satisfied by both *sqlx.DB and *sqlx.Tx.
type sqlQueryer interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type SessionRepository struct {
	db *sqlx.DB
}

func NewSessionRepository(db *sqlx.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

func (r *SessionRepository) Create(ctx context.Context, agg session.Aggregate) error {
	if err := agg.CheckInvariants(); err != nil {
		return err
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return crerr.Wrap(err, "begin tx for session create")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	row, err := sessionToRow(agg.Session)
	if err != nil {
		return crerr.Wrapf(err, "encode session %s", agg.Session.ID)
	}
	const insertSessionQuery = `
INSERT INTO sessions (
    public_id, organizer_id, title, sport, venue, seats_total, seats_available,
    scheduled_start, status, attendance_confirmed, winning_side, set_scores, version,
    created_at, updated_at, cancelled_at
) VALUES (
    :public_id, :organizer_id, :title, :sport, :venue, :seats_total, :seats_available,
    :scheduled_start, :status, :attendance_confirmed, :winning_side, :set_scores, :version,
    :created_at, :updated_at, :cancelled_at
)`
	if _, err := tx.NamedExecContext(ctx, insertSessionQuery, row); err != nil {
		return crerr.Wrapf(err, "insert session %s", agg.Session.ID)
	}
	if err := upsertParticipantsTx(ctx, tx, agg.Participants); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return crerr.Wrapf(err, "commit session create %s", agg.Session.ID)
	}
	return nil
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (session.Aggregate, bool, error) {
	agg, err := loadAggregate(ctx, r.db, sessionID, false)
	if err != nil {
		if crerr.Is(err, session.ErrNotFound) {
			return session.Aggregate{}, false, nil
		}
		return session.Aggregate{}, false, err
	}
	return agg, true, nil
}

func (r *SessionRepository) ListByUser(ctx context.Context, userID string) ([]session.Session, error) {
	const query = `
SELECT s.public_id, s.organizer_id, s.title, s.sport, s.venue, s.seats_total, s.seats_available,
    s.scheduled_start, s.status, s.attendance_confirmed, s.winning_side, s.set_scores, s.version,
    s.created_at, s.updated_at, s.cancelled_at
FROM sessions s
JOIN session_participants p ON p.session_public_id = s.public_id
WHERE p.user_id = $1
ORDER BY s.scheduled_start, s.public_id`

	var rows []sessionTableModel
	if err := r.db.SelectContext(ctx, &rows, query, userID); err != nil {
		return nil, crerr.Wrapf(err, "list sessions user_id=%s", userID)
	}

	out := make([]session.Session, 0, len(rows))
	for _, row := range rows {
		item, err := sessionFromRow(row)
		if err != nil {
			return nil, crerr.Wrapf(err, "decode session %s", row.PublicID)
		}
		out = append(out, item)
	}
	return out, nil
}

// Mutate runs fn inside one transaction: the session row is locked first,
// then the named accounts in user id order.
func (r *SessionRepository) Mutate(ctx context.Context, sessionID string, lockUsers session.LockUsersFunc, fn session.MutateFunc) (session.Aggregate, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return session.Aggregate{}, crerr.Wrap(err, "begin tx for session mutate")
	}
	defer func() {
		_ = tx.Rollback()
	}()

	current, err := loadAggregate(ctx, tx, sessionID, true)
	if err != nil {
		return session.Aggregate{}, err
	}

	accounts := map[string]*reliability.Account{}
	if lockUsers != nil {
		accounts, err = lockAccountsTx(ctx, tx, lockUsers(current.Clone()))
		if err != nil {
			return session.Aggregate{}, err
		}
	}

	working := current.Clone()
	if err := fn(&working, accounts); err != nil {
		return session.Aggregate{}, err
	}
	if err := working.CheckInvariants(); err != nil {
		return session.Aggregate{}, err
	}
	working.Session.Version = current.Session.Version + 1

	if err := updateSessionTx(ctx, tx, working.Session, current.Session.Version); err != nil {
		return session.Aggregate{}, err
	}
	if err := upsertParticipantsTx(ctx, tx, working.Participants); err != nil {
		return session.Aggregate{}, err
	}
	for _, account := range accounts {
		if err := updateAccountTx(ctx, tx, *account); err != nil {
			return session.Aggregate{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		return session.Aggregate{}, crerr.Wrapf(err, "commit session mutate %s", sessionID)
	}
	return working, nil
}

func loadAggregate(ctx context.Context, q sqlQueryer, sessionID string, forUpdate bool) (session.Aggregate, error) {
	query := `SELECT ` + sessionColumns + ` FROM sessions WHERE public_id = $1`
	if forUpdate {
		query += ` FOR UPDATE`
	}

	var row sessionTableModel
	if err := q.GetContext(ctx, &row, query, sessionID); err != nil {
		if isNotFound(err) {
			return session.Aggregate{}, crerr.Wrapf(session.ErrNotFound, "session %s", sessionID)
		}
		return session.Aggregate{}, crerr.Wrapf(err, "get session %s", sessionID)
	}
	item, err := sessionFromRow(row)
	if err != nil {
		return session.Aggregate{}, crerr.Wrapf(err, "decode session %s", sessionID)
	}

	participantsQuery := `SELECT ` + participantColumns + `
FROM session_participants
WHERE session_public_id = $1
ORDER BY id`
	var participantRows []participantTableModel
	if err := q.SelectContext(ctx, &participantRows, participantsQuery, sessionID); err != nil {
		return session.Aggregate{}, crerr.Wrapf(err, "list participants session=%s", sessionID)
	}

	participants := make([]session.Participant, 0, len(participantRows))
	for _, p := range participantRows {
		participants = append(participants, participantFromRow(p))
	}
	return session.Aggregate{Session: item, Participants: participants}, nil
}

func updateSessionTx(ctx context.Context, tx *sqlx.Tx, s session.Session, expectedVersion int64) error {
	row, err := sessionToRow(s)
	if err != nil {
		return crerr.Wrapf(err, "encode session %s", s.ID)
	}

	const query = `
UPDATE sessions
SET seats_available = :seats_available,
    status = :status,
    attendance_confirmed = :attendance_confirmed,
    winning_side = :winning_side,
    set_scores = :set_scores,
    version = :version,
    updated_at = :updated_at,
    cancelled_at = :cancelled_at
WHERE public_id = :public_id
  AND version = :expected_version`

	args := map[string]any{
		"seats_available":      row.SeatsAvailable,
		"status":               row.Status,
		"attendance_confirmed": row.AttendanceConfirmed,
		"winning_side":         row.WinningSide,
		"set_scores":           row.SetScores,
		"version":              row.Version,
		"updated_at":           row.UpdatedAt,
		"cancelled_at":         row.CancelledAt,
		"public_id":            row.PublicID,
		"expected_version":     expectedVersion,
	}
	result, err := tx.NamedExecContext(ctx, query, args)
	if err != nil {
		return crerr.Wrapf(err, "update session %s", s.ID)
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return crerr.Wrapf(err, "update session %s rows affected", s.ID)
	}
	if affected != 1 {
		return crerr.Wrapf(ErrVersionConflict, "session %s expected version %d", s.ID, expectedVersion)
	}
	return nil
}

func upsertParticipantsTx(ctx context.Context, tx *sqlx.Tx, participants []session.Participant) error {
	if len(participants) == 0 {
		return nil
	}

	const query = `
INSERT INTO session_participants (
    session_public_id, user_id, membership_status, is_organizer, side, attendance,
    attendance_recorded_at, penalty_applied, joined_at, withdrawn_at, updated_at
) VALUES (
    :session_public_id, :user_id, :membership_status, :is_organizer, :side, :attendance,
    :attendance_recorded_at, :penalty_applied, :joined_at, :withdrawn_at, :updated_at
)
ON CONFLICT (session_public_id, user_id) DO UPDATE SET
    membership_status = EXCLUDED.membership_status,
    side = EXCLUDED.side,
    attendance = EXCLUDED.attendance,
    attendance_recorded_at = EXCLUDED.attendance_recorded_at,
    penalty_applied = EXCLUDED.penalty_applied,
    joined_at = EXCLUDED.joined_at,
    withdrawn_at = EXCLUDED.withdrawn_at,
    updated_at = EXCLUDED.updated_at`

	for _, p := range participants {
		if _, err := tx.NamedExecContext(ctx, query, participantToRow(p)); err != nil {
			return crerr.Wrapf(err, "upsert participant session=%s user_id=%s", p.SessionID, p.UserID)
		}
	}
	return nil
}
