package usecase

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/kickabout/internal/domain/reliability"
	"github.com/riskibarqy/kickabout/internal/platform/logging"
)

type ReliabilityService struct {
	accounts reliability.Repository
	logger   *logging.Logger
	now      func() time.Time
}

func NewReliabilityService(accounts reliability.Repository, logger *logging.Logger) *ReliabilityService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ReliabilityService{
		accounts: accounts,
		logger:   logger.Named("reliability_service"),
		now:      time.Now,
	}
}

func (s *ReliabilityService) GetReliability(ctx context.Context, userID string) (out reliability.Account, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReliabilityService.GetReliability")
	defer func() { finishSpan(span, err) }()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return reliability.Account{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	account, exists, err := s.accounts.Get(ctx, userID)
	if err != nil {
		return reliability.Account{}, fmt.Errorf("get reliability account: %w", err)
	}
	if !exists {
		return reliability.Account{}, fmt.Errorf("%w: reliability account for user=%s", ErrNotFound, userID)
	}
	return account, nil
}

// RecordReferral credits userID with one referral. The referral flow
// itself lives outside this service.
func (s *ReliabilityService) RecordReferral(ctx context.Context, userID string) (out reliability.Account, err error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ReliabilityService.RecordReferral")
	defer func() { finishSpan(span, err) }()

	userID = strings.TrimSpace(userID)
	if userID == "" {
		return reliability.Account{}, fmt.Errorf("%w: user id is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	account, err := s.accounts.Mutate(ctx, userID, func(account *reliability.Account) error {
		account.ReferralCount++
		account.UpdatedAt = now
		return nil
	})
	if err != nil {
		return reliability.Account{}, fmt.Errorf("record referral: %w", err)
	}

	s.logger.InfoContext(ctx, "referral recorded", "user_id", userID, "referral_count", account.ReferralCount)
	return account, nil
}
