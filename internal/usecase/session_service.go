package usecase

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/riskibarqy/kickabout/internal/domain/notification"
	"github.com/riskibarqy/kickabout/internal/domain/reliability"
	"github.com/riskibarqy/kickabout/internal/domain/session"
	idgen "github.com/riskibarqy/kickabout/internal/platform/id"
	"github.com/riskibarqy/kickabout/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

// CreateSessionInput is the incoming payload for a new session.
type CreateSessionInput struct {
	OrganizerID    string
	Title          string
	Sport          string
	Venue          string
	SeatsTotal     int
	ScheduledStart time.Time
}

// RecordOutcomeInput carries the organizer's result for a played session.
type RecordOutcomeInput struct {
	SessionID   string
	OrganizerID string
	WinningSide string
	SetScores   []session.SetScore
}

type SessionService struct {
	sessions   session.Repository
	accounts   reliability.Repository
	dispatcher notification.Dispatcher
	idGen      idgen.Generator
	logger     *logging.Logger
	now        func() time.Time
}

func NewSessionService(
	sessions session.Repository,
	accounts reliability.Repository,
	dispatcher notification.Dispatcher,
	idGen idgen.Generator,
	logger *logging.Logger,
) *SessionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &SessionService{
		sessions:   sessions,
		accounts:   accounts,
		dispatcher: dispatcher,
		idGen:      idGen,
		logger:     logger.Named("session_service"),
		now:        time.Now,
	}
}

func (s *SessionService) CreateSession(ctx context.Context, input CreateSessionInput) (out session.Session, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.CreateSession")
	defer func() { finishSpan(span, err) }()

	input.OrganizerID = strings.TrimSpace(input.OrganizerID)
	input.Title = strings.TrimSpace(input.Title)
	input.Sport = strings.TrimSpace(input.Sport)
	input.Venue = strings.TrimSpace(input.Venue)

	if input.OrganizerID == "" {
		return session.Session{}, fmt.Errorf("%w: organizer id is required", ErrInvalidInput)
	}
	if input.Title == "" {
		return session.Session{}, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}
	if input.ScheduledStart.IsZero() {
		return session.Session{}, fmt.Errorf("%w: scheduled start is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	id, err := s.idGen.NewID()
	if err != nil {
		return session.Session{}, fmt.Errorf("generate session id: %w", err)
	}

	agg, err := session.New(id, input.OrganizerID, session.Metadata{
		Title: input.Title,
		Sport: input.Sport,
		Venue: input.Venue,
	}, input.SeatsTotal, input.ScheduledStart.UTC(), now)
	if err != nil {
		return session.Session{}, sessionError(err)
	}

	if _, err := s.accounts.Ensure(ctx, input.OrganizerID); err != nil {
		return session.Session{}, fmt.Errorf("ensure organizer account: %w", err)
	}
	if err := s.sessions.Create(ctx, agg); err != nil {
		return session.Session{}, fmt.Errorf("create session: %w", err)
	}

	s.logger.InfoContext(ctx, "session created",
		"session_id", agg.Session.ID,
		"organizer_id", agg.Session.OrganizerID,
		"seats_total", agg.Session.SeatsTotal,
	)
	return agg.View(now).Session, nil
}

func (s *SessionService) GetSession(ctx context.Context, sessionID string) (out session.View, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.GetSession")
	defer func() { finishSpan(span, err) }()

	sessionID = strings.TrimSpace(sessionID)
	if sessionID == "" {
		return session.View{}, fmt.Errorf("%w: session id is required", ErrInvalidInput)
	}

	agg, exists, err := s.sessions.Get(ctx, sessionID)
	if err != nil {
		return session.View{}, fmt.Errorf("get session: %w", err)
	}
	if !exists {
		return session.View{}, fmt.Errorf("%w: session=%s", ErrNotFound, sessionID)
	}
	return agg.View(s.now().UTC()), nil
}

// ListUserSessions returns every session the user organizes or holds a
// membership row in, with statuses projected to now.
func (s *SessionService) ListUserSessions(ctx context.Context, userID string) (out []session.Session, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.ListUserSessions")
	defer func() { finishSpan(span, err) }()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	items, err := s.sessions.ListByUser(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list sessions by user: %w", err)
	}
	now := s.now().UTC()
	for i := range items {
		items[i].Status = items[i].EffectiveStatus(now)
	}
	return items, nil
}

func (s *SessionService) JoinSession(ctx context.Context, sessionID, userID string) (out session.Participant, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.JoinSession",
		attribute.String("session.id", sessionID),
	)
	defer func() { finishSpan(span, err) }()

	sessionID = strings.TrimSpace(sessionID)
	userID = strings.TrimSpace(userID)
	if sessionID == "" || userID == "" {
		return session.Participant{}, fmt.Errorf("%w: session id and user id are required", ErrInvalidInput)
	}

	if _, err := s.accounts.Ensure(ctx, userID); err != nil {
		return session.Participant{}, fmt.Errorf("ensure account: %w", err)
	}

	now := s.now().UTC()
	var joined session.Participant
	_, err = s.sessions.Mutate(ctx, sessionID, nil, func(agg *session.Aggregate, _ map[string]*reliability.Account) error {
		p, err := agg.Join(userID, now)
		if err != nil {
			return err
		}
		joined = p
		return nil
	})
	if err != nil {
		return session.Participant{}, sessionError(err)
	}

	return joined, nil
}

// Withdraw frees the user's seat. A late withdrawal is charged to the
// user's reliability account in the same commit.
func (s *SessionService) Withdraw(ctx context.Context, sessionID, userID string) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.Withdraw",
		attribute.String("session.id", sessionID),
	)
	defer func() { finishSpan(span, err) }()

	sessionID = strings.TrimSpace(sessionID)
	userID = strings.TrimSpace(userID)
	if sessionID == "" || userID == "" {
		return fmt.Errorf("%w: session id and user id are required", ErrInvalidInput)
	}

	now := s.now().UTC()
	var penalty reliability.Penalty
	lockUser := func(session.Aggregate) []string { return []string{userID} }
	agg, err := s.sessions.Mutate(ctx, sessionID, lockUser, func(agg *session.Aggregate, accounts map[string]*reliability.Account) error {
		_, p, err := agg.Withdraw(userID, now)
		if err != nil {
			return err
		}
		penalty = p
		if p.IsZero() {
			return nil
		}
		account, ok := accounts[userID]
		if !ok {
			return fmt.Errorf("%w: account %s not locked", session.ErrInvariantViolated, userID)
		}
		*account = reliability.ApplyWithdrawalPenalty(*account, p, now)
		return nil
	})
	if err != nil {
		return sessionError(err)
	}

	if !penalty.IsZero() {
		s.logger.InfoContext(ctx, "late withdrawal penalized",
			"session_id", sessionID,
			"user_id", userID,
			"delta", penalty.Delta,
			"after_start", penalty.AfterStart,
		)
	}
	s.dispatch(ctx, notification.Event{
		Type:       notification.EventSeatFreed,
		SessionID:  sessionID,
		UserID:     userID,
		OccurredAt: now,
		Attributes: map[string]string{
			"seats_available": strconv.Itoa(agg.Session.SeatsAvailable),
			"penalty":         strconv.Itoa(penalty.Delta),
		},
	})
	return nil
}

func (s *SessionService) CancelSession(ctx context.Context, sessionID, organizerID string) (err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.CancelSession",
		attribute.String("session.id", sessionID),
	)
	defer func() { finishSpan(span, err) }()

	sessionID = strings.TrimSpace(sessionID)
	organizerID = strings.TrimSpace(organizerID)
	if sessionID == "" || organizerID == "" {
		return fmt.Errorf("%w: session id and organizer id are required", ErrInvalidInput)
	}

	now := s.now().UTC()
	agg, err := s.sessions.Mutate(ctx, sessionID, nil, func(agg *session.Aggregate, _ map[string]*reliability.Account) error {
		return agg.Cancel(organizerID, now)
	})
	if err != nil {
		return sessionError(err)
	}

	s.logger.InfoContext(ctx, "session cancelled", "session_id", sessionID)
	for _, userID := range agg.ActiveUserIDs() {
		if userID == organizerID {
			continue
		}
		s.dispatch(ctx, notification.Event{
			Type:       notification.EventSessionCancelled,
			SessionID:  sessionID,
			UserID:     userID,
			OccurredAt: now,
		})
	}
	return nil
}

func (s *SessionService) RecordOutcome(ctx context.Context, input RecordOutcomeInput) (out session.Session, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.RecordOutcome",
		attribute.String("session.id", input.SessionID),
	)
	defer func() { finishSpan(span, err) }()

	input.SessionID = strings.TrimSpace(input.SessionID)
	input.OrganizerID = strings.TrimSpace(input.OrganizerID)
	input.WinningSide = strings.TrimSpace(input.WinningSide)
	if input.SessionID == "" || input.OrganizerID == "" {
		return session.Session{}, fmt.Errorf("%w: session id and organizer id are required", ErrInvalidInput)
	}
	if input.WinningSide == "" {
		return session.Session{}, fmt.Errorf("%w: winning side is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	outcome := session.Outcome{WinningSide: input.WinningSide, SetScores: input.SetScores}
	agg, err := s.sessions.Mutate(ctx, input.SessionID, nil, func(agg *session.Aggregate, _ map[string]*reliability.Account) error {
		return agg.RecordOutcome(input.OrganizerID, outcome, now)
	})
	if err != nil {
		return session.Session{}, sessionError(err)
	}
	return agg.View(now).Session, nil
}

func (s *SessionService) AssignSide(ctx context.Context, sessionID, organizerID, userID, side string) (out session.Participant, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SessionService.AssignSide",
		attribute.String("session.id", sessionID),
	)
	defer func() { finishSpan(span, err) }()

	sessionID = strings.TrimSpace(sessionID)
	organizerID = strings.TrimSpace(organizerID)
	userID = strings.TrimSpace(userID)
	side = strings.TrimSpace(side)
	if sessionID == "" || organizerID == "" || userID == "" {
		return session.Participant{}, fmt.Errorf("%w: session id, organizer id and user id are required", ErrInvalidInput)
	}
	if side == "" {
		return session.Participant{}, fmt.Errorf("%w: side is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	var assigned session.Participant
	_, err = s.sessions.Mutate(ctx, sessionID, nil, func(agg *session.Aggregate, _ map[string]*reliability.Account) error {
		p, err := agg.AssignSide(organizerID, userID, side, now)
		if err != nil {
			return err
		}
		assigned = p
		return nil
	})
	if err != nil {
		return session.Participant{}, sessionError(err)
	}
	return assigned, nil
}

func (s *SessionService) dispatch(ctx context.Context, event notification.Event) {
	if s.dispatcher == nil {
		return
	}
	s.dispatcher.Dispatch(ctx, event)
}
