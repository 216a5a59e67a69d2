package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/kickabout/internal/domain/badge"
	"github.com/riskibarqy/kickabout/internal/domain/notification"
	"github.com/riskibarqy/kickabout/internal/domain/reliability"
	"github.com/riskibarqy/kickabout/internal/domain/session"
	"github.com/riskibarqy/kickabout/internal/platform/logging"
	"github.com/sourcegraph/conc/pool"
	"go.opentelemetry.io/otel/attribute"
)

const defaultBadgeWorkers = 4

type SubmitAttendanceInput struct {
	SessionID   string
	OrganizerID string
	// Attendance maps every active participant, organizer included, to
	// whether they showed up.
	Attendance map[string]bool
	// Outcome is optional; it replaces any result recorded earlier.
	Outcome *session.Outcome
}

// ReconciledLine is one participant's booking from a reconciliation.
type ReconciledLine struct {
	UserID        string
	Attended      bool
	ScoreBefore   int
	ScoreAfter    int
	CurrentStreak int
}

type Reconciliation struct {
	Session session.Session
	Lines   []ReconciledLine
}

type badgeEvaluator interface {
	EvaluateBadges(ctx context.Context, userID string) ([]badge.Definition, error)
}

type AttendanceService struct {
	sessions     session.Repository
	badges       badgeEvaluator
	dispatcher   notification.Dispatcher
	badgeWorkers int
	logger       *logging.Logger
	now          func() time.Time
}

func NewAttendanceService(
	sessions session.Repository,
	badges badgeEvaluator,
	dispatcher notification.Dispatcher,
	badgeWorkers int,
	logger *logging.Logger,
) *AttendanceService {
	if logger == nil {
		logger = logging.Default()
	}
	if badgeWorkers <= 0 {
		badgeWorkers = defaultBadgeWorkers
	}

	return &AttendanceService{
		sessions:     sessions,
		badges:       badges,
		dispatcher:   dispatcher,
		badgeWorkers: badgeWorkers,
		logger:       logger.Named("attendance_service"),
		now:          time.Now,
	}
}

// SubmitAttendance completes a session from the organizer's report. The
// session, its participants and every affected account commit together;
// badge evaluation runs afterwards and cannot undo the commit.
func (s *AttendanceService) SubmitAttendance(ctx context.Context, input SubmitAttendanceInput) (out Reconciliation, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.AttendanceService.SubmitAttendance",
		attribute.String("session.id", input.SessionID),
		attribute.Int("attendance.entries", len(input.Attendance)),
	)
	defer func() { finishSpan(span, err) }()

	input.SessionID = strings.TrimSpace(input.SessionID)
	input.OrganizerID = strings.TrimSpace(input.OrganizerID)
	if input.SessionID == "" {
		return Reconciliation{}, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}
	if input.OrganizerID == "" {
		return Reconciliation{}, fmt.Errorf("%w: organizer id is required", ErrInvalidInput)
	}
	attendance, err := cleanAttendance(input.Attendance)
	if err != nil {
		return Reconciliation{}, err
	}

	now := s.now().UTC()
	var lines []ReconciledLine
	lockActive := func(agg session.Aggregate) []string { return agg.ActiveUserIDs() }
	agg, err := s.sessions.Mutate(ctx, input.SessionID, lockActive, func(agg *session.Aggregate, accounts map[string]*reliability.Account) error {
		lines = lines[:0]
		reconciled, err := agg.Reconcile(input.OrganizerID, attendance, input.Outcome, now)
		if err != nil {
			return err
		}
		for _, line := range reconciled {
			account, ok := accounts[line.Participant.UserID]
			if !ok {
				return fmt.Errorf("%w: account %s not locked", session.ErrInvariantViolated, line.Participant.UserID)
			}
			before := account.Score
			*account = reliability.ApplyAttendance(*account, line.Outcome, now)
			if line.Participant.IsOrganizer && line.Outcome.Attended {
				account.SessionsOrganized++
			}
			lines = append(lines, ReconciledLine{
				UserID:        account.UserID,
				Attended:      line.Outcome.Attended,
				ScoreBefore:   before,
				ScoreAfter:    account.Score,
				CurrentStreak: account.CurrentStreak,
			})
		}
		return nil
	})
	if err != nil {
		return Reconciliation{}, sessionError(err)
	}

	s.logger.InfoContext(ctx, "attendance reconciled",
		"session_id", input.SessionID,
		"participants", len(lines),
	)

	if s.dispatcher != nil {
		for _, line := range lines {
			s.dispatcher.Dispatch(ctx, notification.Event{
				Type:       notification.EventAttendanceConfirmed,
				SessionID:  input.SessionID,
				UserID:     line.UserID,
				OccurredAt: now,
				Attributes: map[string]string{
					"attended": strconv.FormatBool(line.Attended),
					"score":    strconv.Itoa(line.ScoreAfter),
				},
			})
		}
	}
	s.evaluateBadges(ctx, input.SessionID, lines)

	return Reconciliation{Session: agg.View(now).Session, Lines: lines}, nil
}

// evaluateBadges runs badge evaluation for every reconciled participant on
// a bounded pool. Failures are logged only.
func (s *AttendanceService) evaluateBadges(ctx context.Context, sessionID string, lines []ReconciledLine) {
	if s.badges == nil || len(lines) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)

	p := pool.New().WithMaxGoroutines(s.badgeWorkers)
	for _, line := range lines {
		userID := line.UserID
		p.Go(func() {
			if _, err := s.badges.EvaluateBadges(ctx, userID); err != nil {
				s.logger.WarnContext(ctx, "badge evaluation after reconciliation failed",
					"session_id", sessionID,
					"user_id", userID,
					"error", err,
				)
			}
		})
	}
	p.Wait()
}

func cleanAttendance(in map[string]bool) (map[string]bool, error) {
	if len(in) == 0 {
		return nil, fmt.Errorf("%w: attendance is required", ErrInvalidInput)
	}
	out := make(map[string]bool, len(in))
	for userID, attended := range in {
		userID = strings.TrimSpace(userID)
		if userID == "" {
			return nil, fmt.Errorf("%w: attendance contains an empty user id", ErrInvalidInput)
		}
		if _, dup := out[userID]; dup {
			return nil, fmt.Errorf("%w: duplicate attendance for user %s", ErrInvalidInput, userID)
		}
		out[userID] = attended
	}
	return out, nil
}
