package httpapi

import (
	"time"

	"github.com/riskibarqy/kickabout/internal/domain/badge"
	"github.com/riskibarqy/kickabout/internal/domain/reliability"
	"github.com/riskibarqy/kickabout/internal/domain/session"
	"github.com/riskibarqy/kickabout/internal/usecase"
)

type createSessionRequest struct {
	Title          string    `json:"title" validate:"required,max=120"`
	Sport          string    `json:"sport" validate:"required,max=40"`
	Venue          string    `json:"venue" validate:"omitempty,max=200"`
	SeatsTotal     int       `json:"seats_total" validate:"gte=2"`
	ScheduledStart time.Time `json:"scheduled_start" validate:"required"`
}

type setScoreRequest struct {
	First  int `json:"first" validate:"gte=0"`
	Second int `json:"second" validate:"gte=0"`
}

type outcomeRequest struct {
	WinningSide string            `json:"winning_side" validate:"required,max=40"`
	SetScores   []setScoreRequest `json:"set_scores" validate:"omitempty,max=10,dive"`
}

type assignSideRequest struct {
	Side string `json:"side" validate:"required,max=40"`
}

type submitAttendanceRequest struct {
	Attendance map[string]bool `json:"attendance" validate:"required,min=1,dive,keys,required,endkeys"`
	Outcome    *outcomeRequest `json:"outcome" validate:"omitempty"`
}

type recordReferralRequest struct {
	UserID string `json:"user_id" validate:"required"`
}

type outcomeDTO struct {
	WinningSide string             `json:"winning_side"`
	SetScores   []session.SetScore `json:"set_scores"`
}

type sessionDTO struct {
	ID                  string      `json:"id"`
	OrganizerID         string      `json:"organizer_id"`
	Title               string      `json:"title"`
	Sport               string      `json:"sport"`
	Venue               string      `json:"venue,omitempty"`
	SeatsTotal          int         `json:"seats_total"`
	SeatsAvailable      int         `json:"seats_available"`
	ScheduledStart      time.Time   `json:"scheduled_start"`
	Status              string      `json:"status"`
	AttendanceConfirmed bool        `json:"attendance_confirmed"`
	Outcome             *outcomeDTO `json:"outcome,omitempty"`
	Version             int64       `json:"version"`
	CancelledAt         *time.Time  `json:"cancelled_at,omitempty"`
}

type participantDTO struct {
	UserID           string     `json:"user_id"`
	MembershipStatus string     `json:"membership_status"`
	IsOrganizer      bool       `json:"is_organizer"`
	Side             string     `json:"side,omitempty"`
	Attendance       string     `json:"attendance"`
	JoinedAt         time.Time  `json:"joined_at"`
	WithdrawnAt      *time.Time `json:"withdrawn_at,omitempty"`
}

type sessionDetailDTO struct {
	sessionDTO
	Participants []participantDTO `json:"participants"`
}

type reconciledLineDTO struct {
	UserID        string `json:"user_id"`
	Attended      bool   `json:"attended"`
	ScoreBefore   int    `json:"score_before"`
	ScoreAfter    int    `json:"score_after"`
	CurrentStreak int    `json:"current_streak"`
}

type reconciliationDTO struct {
	Session sessionDTO          `json:"session"`
	Lines   []reconciledLineDTO `json:"lines"`
}

type reliabilityDTO struct {
	UserID               string `json:"user_id"`
	Score                int    `json:"score"`
	CurrentStreak        int    `json:"current_streak"`
	SessionsPlayed       int    `json:"sessions_played"`
	SessionsOrganized    int    `json:"sessions_organized"`
	NoShows              int    `json:"no_shows"`
	LateWithdrawals      int    `json:"late_withdrawals"`
	ReferralCount        int    `json:"referral_count"`
	SignupSequenceNumber int64  `json:"signup_sequence_number"`
}

type badgeDTO struct {
	ID             string `json:"id"`
	Name           string `json:"name"`
	Description    string `json:"description"`
	Category       string `json:"category"`
	ConditionType  string `json:"condition_type"`
	ConditionValue int64  `json:"condition_value"`
}

type badgeProgressDTO struct {
	Badge   badgeDTO `json:"badge"`
	Current int64    `json:"current"`
	Percent int      `json:"percent"`
	Held    bool     `json:"held"`
}

func (r outcomeRequest) toDomain() session.Outcome {
	scores := make([]session.SetScore, 0, len(r.SetScores))
	for _, s := range r.SetScores {
		scores = append(scores, session.SetScore{First: s.First, Second: s.Second})
	}
	return session.Outcome{WinningSide: r.WinningSide, SetScores: scores}
}

func sessionToDTO(s session.Session) sessionDTO {
	out := sessionDTO{
		ID:                  s.ID,
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
		CancelledAt:         s.CancelledAt,
	}
	if s.Outcome != nil {
		out.Outcome = &outcomeDTO{WinningSide: s.Outcome.WinningSide, SetScores: s.Outcome.SetScores}
	}
	return out
}

func participantToDTO(p session.Participant) participantDTO {
	return participantDTO{
		UserID:           p.UserID,
		MembershipStatus: string(p.MembershipStatus),
		IsOrganizer:      p.IsOrganizer,
		Side:             p.Side,
		Attendance:       string(p.Attendance),
		JoinedAt:         p.JoinedAt,
		WithdrawnAt:      p.WithdrawnAt,
	}
}

func sessionViewToDTO(v session.View) sessionDetailDTO {
	participants := make([]participantDTO, 0, len(v.Participants))
	for _, p := range v.Participants {
		participants = append(participants, participantToDTO(p))
	}
	return sessionDetailDTO{sessionDTO: sessionToDTO(v.Session), Participants: participants}
}

func reconciliationToDTO(r usecase.Reconciliation) reconciliationDTO {
	lines := make([]reconciledLineDTO, 0, len(r.Lines))
	for _, l := range r.Lines {
		lines = append(lines, reconciledLineDTO{
			UserID:        l.UserID,
			Attended:      l.Attended,
			ScoreBefore:   l.ScoreBefore,
			ScoreAfter:    l.ScoreAfter,
			CurrentStreak: l.CurrentStreak,
		})
	}
	return reconciliationDTO{Session: sessionToDTO(r.Session), Lines: lines}
}

func reliabilityToDTO(a reliability.Account) reliabilityDTO {
	return reliabilityDTO{
		UserID:               a.UserID,
		Score:                a.Score,
		CurrentStreak:        a.CurrentStreak,
		SessionsPlayed:       a.SessionsPlayed,
		SessionsOrganized:    a.SessionsOrganized,
		NoShows:              a.NoShows,
		LateWithdrawals:      a.LateWithdrawals,
		ReferralCount:        a.ReferralCount,
		SignupSequenceNumber: a.SignupSequenceNumber,
	}
}

func badgeToDTO(d badge.Definition) badgeDTO {
	return badgeDTO{
		ID:             d.ID,
		Name:           d.Name,
		Description:    d.Description,
		Category:       string(d.Category),
		ConditionType:  string(d.ConditionType),
		ConditionValue: d.ConditionValue,
	}
}
