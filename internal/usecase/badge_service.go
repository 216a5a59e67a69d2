package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/kickabout/internal/domain/badge"
	"github.com/riskibarqy/kickabout/internal/domain/notification"
	"github.com/riskibarqy/kickabout/internal/domain/reliability"
	"github.com/riskibarqy/kickabout/internal/platform/logging"
	"go.opentelemetry.io/otel/attribute"
)

type BadgeService struct {
	catalog    []badge.Definition
	accounts   reliability.Repository
	badges     badge.Repository
	dispatcher notification.Dispatcher
	logger     *logging.Logger
	now        func() time.Time
}

func NewBadgeService(
	catalog []badge.Definition,
	accounts reliability.Repository,
	badges badge.Repository,
	dispatcher notification.Dispatcher,
	logger *logging.Logger,
) *BadgeService {
	if logger == nil {
		logger = logging.Default()
	}
	if catalog == nil {
		catalog = badge.DefaultCatalog()
	}

	return &BadgeService{
		catalog:    catalog,
		accounts:   accounts,
		badges:     badges,
		dispatcher: dispatcher,
		logger:     logger.Named("badge_service"),
		now:        time.Now,
	}
}

// EvaluateBadges awards every badge the user's counters now satisfy and
// returns only the ones this call inserted. Running it again without a
// counter change returns nothing.
func (s *BadgeService) EvaluateBadges(ctx context.Context, userID string) (out []badge.Definition, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BadgeService.EvaluateBadges")
	defer func() { finishSpan(span, err) }()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	results, err := s.evaluate(ctx, userID)
	if err != nil {
		return nil, err
	}
	candidates := badge.NewlyEarned(results)
	if len(candidates) == 0 {
		return []badge.Definition{}, nil
	}

	byID := make(map[string]badge.Definition, len(candidates))
	ids := make([]string, 0, len(candidates))
	for _, def := range candidates {
		byID[def.ID] = def
		ids = append(ids, def.ID)
	}

	now := s.now().UTC()
	outcomes, err := s.badges.Award(ctx, userID, ids, now)
	if err != nil {
		return nil, fmt.Errorf("award badges: %w", err)
	}

	awarded := make([]badge.Definition, 0, len(outcomes))
	for _, outcome := range outcomes {
		if !outcome.Inserted {
			continue
		}
		def, ok := byID[outcome.BadgeID]
		if !ok {
			continue
		}
		awarded = append(awarded, def)
	}
	span.SetAttributes(attribute.Int("badges.awarded", len(awarded)))

	for _, def := range awarded {
		s.logger.InfoContext(ctx, "badge earned", "user_id", userID, "badge_id", def.ID)
		if s.dispatcher == nil {
			continue
		}
		s.dispatcher.Dispatch(ctx, notification.Event{
			Type:       notification.EventBadgeEarned,
			UserID:     userID,
			BadgeID:    def.ID,
			OccurredAt: now,
		})
	}
	return awarded, nil
}

func (s *BadgeService) ListBadgeProgress(ctx context.Context, userID string) (out []badge.Progress, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.BadgeService.ListBadgeProgress")
	defer func() { finishSpan(span, err) }()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	results, err := s.evaluate(ctx, userID)
	if err != nil {
		return nil, err
	}
	progress := make([]badge.Progress, 0, len(results))
	for _, r := range results {
		progress = append(progress, badge.Progress{
			Definition: r.Definition,
			Current:    r.Current,
			Percent:    r.Progress,
			Held:       r.State == badge.StateAlreadyHeld,
		})
	}
	return progress, nil
}

func (s *BadgeService) evaluate(ctx context.Context, userID string) ([]badge.Result, error) {
	account, exists, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("get reliability account: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: reliability account for user=%s", ErrNotFound, userID)
	}

	earned, err := s.badges.ListEarned(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("list earned badges: %w", err)
	}
	held := make(map[string]struct{}, len(earned))
	for _, e := range earned {
		held[e.BadgeID] = struct{}{}
	}

	return badge.Evaluate(countersOf(account), s.catalog, held), nil
}

func countersOf(account reliability.Account) badge.Counters {
	return badge.Counters{
		badge.ConditionSessionsPlayed:       int64(account.SessionsPlayed),
		badge.ConditionSessionsOrganized:    int64(account.SessionsOrganized),
		badge.ConditionReferralCount:        int64(account.ReferralCount),
		badge.ConditionCurrentStreak:        int64(account.CurrentStreak),
		badge.ConditionSignupSequenceNumber: account.SignupSequenceNumber,
	}
}
