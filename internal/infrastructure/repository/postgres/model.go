package postgres

import (
	"time"

	"github.com/riskibarqy/kickabout/internal/domain/reliability"
	"github.com/riskibarqy/kickabout/internal/domain/session"
)

type accountTableModel struct {
	UserID               string    `db:"user_id"`
	Score                int       `db:"score"`
	CurrentStreak        int       `db:"current_streak"`
	SessionsPlayed       int       `db:"sessions_played"`
	SessionsOrganized    int       `db:"sessions_organized"`
	NoShows              int       `db:"no_shows"`
	LateWithdrawals      int       `db:"late_withdrawals"`
	ReferralCount        int       `db:"referral_count"`
	SignupSequenceNumber int64     `db:"signup_sequence_number"`
	CreatedAt            time.Time `db:"created_at"`
	UpdatedAt            time.Time `db:"updated_at"`
}

type sessionTableModel struct {
	PublicID            string     `db:"public_id"`
	OrganizerID         string     `db:"organizer_id"`
	Title               string     `db:"title"`
	Sport               string     `db:"sport"`
	Venue               string     `db:"venue"`
	SeatsTotal          int        `db:"seats_total"`
	SeatsAvailable      int        `db:"seats_available"`
	ScheduledStart      time.Time  `db:"scheduled_start"`
	Status              string     `db:"status"`
	AttendanceConfirmed bool       `db:"attendance_confirmed"`
	WinningSide         *string    `db:"winning_side"`
	SetScores           string     `db:"set_scores"`
	Version             int64      `db:"version"`
	CreatedAt           time.Time  `db:"created_at"`
	UpdatedAt           time.Time  `db:"updated_at"`
	CancelledAt         *time.Time `db:"cancelled_at"`
}

type participantTableModel struct {
	SessionID            string     `db:"session_public_id"`
	UserID               string     `db:"user_id"`
	MembershipStatus     string     `db:"membership_status"`
	IsOrganizer          bool       `db:"is_organizer"`
	Side                 string     `db:"side"`
	Attendance           string     `db:"attendance"`
	AttendanceRecordedAt *time.Time `db:"attendance_recorded_at"`
	PenaltyApplied       int        `db:"penalty_applied"`
	JoinedAt             time.Time  `db:"joined_at"`
	WithdrawnAt          *time.Time `db:"withdrawn_at"`
	UpdatedAt            time.Time  `db:"updated_at"`
}

type earnedBadgeTableModel struct {
	UserID   string    `db:"user_id"`
	BadgeID  string    `db:"badge_id"`
	EarnedAt time.Time `db:"earned_at"`
}

func accountFromRow(row accountTableModel) reliability.Account {
	return reliability.Account{
		UserID:               row.UserID,
		Score:                row.Score,
		CurrentStreak:        row.CurrentStreak,
		SessionsPlayed:       row.SessionsPlayed,
		SessionsOrganized:    row.SessionsOrganized,
		NoShows:              row.NoShows,
		LateWithdrawals:      row.LateWithdrawals,
		ReferralCount:        row.ReferralCount,
		SignupSequenceNumber: row.SignupSequenceNumber,
		CreatedAt:            row.CreatedAt,
		UpdatedAt:            row.UpdatedAt,
	}
}

func sessionFromRow(row sessionTableModel) (session.Session, error) {
	out := session.Session{
		ID:          row.PublicID,
		OrganizerID: row.OrganizerID,
		Metadata: session.Metadata{
			Title: row.Title,
			Sport: row.Sport,
			Venue: row.Venue,
		},
		SeatsTotal:          row.SeatsTotal,
		SeatsAvailable:      row.SeatsAvailable,
		ScheduledStart:      row.ScheduledStart,
		Status:              session.Status(row.Status),
		AttendanceConfirmed: row.AttendanceConfirmed,
		Version:             row.Version,
		CreatedAt:           row.CreatedAt,
		UpdatedAt:           row.UpdatedAt,
		CancelledAt:         row.CancelledAt,
	}
	if row.WinningSide != nil {
		scores, err := decodeSetScores(row.SetScores)
		if err != nil {
			return session.Session{}, err
		}
		out.Outcome = &session.Outcome{WinningSide: *row.WinningSide, SetScores: scores}
	}
	return out, nil
}

func sessionToRow(s session.Session) (sessionTableModel, error) {
	row := sessionTableModel{
		PublicID:            s.ID,
		OrganizerID:         s.OrganizerID,
		Title:               s.Metadata.Title,
		Sport:               s.Metadata.Sport,
		Venue:               s.Metadata.Venue,
		SeatsTotal:          s.SeatsTotal,
		SeatsAvailable:      s.SeatsAvailable,
		ScheduledStart:      s.ScheduledStart,
		Status:              string(s.Status),
		AttendanceConfirmed: s.AttendanceConfirmed,
		Version:             s.Version,
		CreatedAt:           s.CreatedAt,
		UpdatedAt:           s.UpdatedAt,
		CancelledAt:         s.CancelledAt,
		SetScores:           "[]",
	}
	if s.Outcome != nil {
		side := s.Outcome.WinningSide
		row.WinningSide = &side
		raw, err := encodeSetScores(s.Outcome.SetScores)
		if err != nil {
			return sessionTableModel{}, err
		}
		row.SetScores = raw
	}
	return row, nil
}

func participantFromRow(row participantTableModel) session.Participant {
	return session.Participant{
		SessionID:            row.SessionID,
		UserID:               row.UserID,
		MembershipStatus:     session.MembershipStatus(row.MembershipStatus),
		IsOrganizer:          row.IsOrganizer,
		Side:                 row.Side,
		Attendance:           session.Attendance(row.Attendance),
		AttendanceRecordedAt: row.AttendanceRecordedAt,
		PenaltyApplied:       row.PenaltyApplied,
		JoinedAt:             row.JoinedAt,
		WithdrawnAt:          row.WithdrawnAt,
		UpdatedAt:            row.UpdatedAt,
	}
}

func participantToRow(p session.Participant) participantTableModel {
	return participantTableModel{
		SessionID:            p.SessionID,
		UserID:               p.UserID,
		MembershipStatus:     string(p.MembershipStatus),
		IsOrganizer:          p.IsOrganizer,
		Side:                 p.Side,
		Attendance:           string(p.Attendance),
		AttendanceRecordedAt: p.AttendanceRecordedAt,
		PenaltyApplied:       p.PenaltyApplied,
		JoinedAt:             p.JoinedAt,
		WithdrawnAt:          p.WithdrawnAt,
		UpdatedAt:            p.UpdatedAt,
	}
}
