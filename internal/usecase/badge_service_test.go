package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/kickabout/internal/domain/badge"
	"github.com/riskibarqy/kickabout/internal/domain/reliability"
	badgemock "github.com/riskibarqy/kickabout/internal/mocks/domain/badge"
	reliabilitymock "github.com/riskibarqy/kickabout/internal/mocks/domain/reliability"
	"github.com/stretchr/testify/mock"
)

func TestBadgeService_FounderQualifiesOnSignup(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	if _, err := e.accounts.Ensure(t.Context(), "u-42"); err != nil {
		t.Fatalf("ensure: %v", err)
	}

	awarded, err := e.badges.EvaluateBadges(t.Context(), "u-42")
	if err != nil {
		t.Fatalf("evaluate badges: %v", err)
	}
	if len(awarded) != 1 || awarded[0].ID != "founder-100" {
		t.Fatalf("expected founder badge only, got %+v", awarded)
	}

	again, err := e.badges.EvaluateBadges(t.Context(), "u-42")
	if err != nil {
		t.Fatalf("re-evaluate badges: %v", err)
	}
	if len(again) != 0 {
		t.Fatalf("expected no new badges on re-evaluation, got %+v", again)
	}

	progress, err := e.badges.ListBadgeProgress(t.Context(), "u-42")
	if err != nil {
		t.Fatalf("list progress: %v", err)
	}
	for _, p := range progress {
		if p.Definition.ID == "founder-100" && (!p.Held || p.Percent != 100) {
			t.Fatalf("expected founder held at 100%%, got %+v", p)
		}
		if p.Definition.ID == "regular" && (p.Held || p.Percent != 0) {
			t.Fatalf("expected regular untouched, got %+v", p)
		}
	}
}

func TestBadgeService_ReferralsUnlockRecruiter(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	for range 3 {
		if _, err := e.reliability.RecordReferral(t.Context(), "u-1"); err != nil {
			t.Fatalf("record referral: %v", err)
		}
	}

	awarded, err := e.badges.EvaluateBadges(t.Context(), "u-1")
	if err != nil {
		t.Fatalf("evaluate badges: %v", err)
	}
	ids := make(map[string]bool, len(awarded))
	for _, def := range awarded {
		ids[def.ID] = true
	}
	if !ids["recruiter"] {
		t.Fatalf("expected recruiter badge, got %+v", awarded)
	}
}

func TestBadgeService_ReturnsOnlyRowsTheStoreInserted(t *testing.T) {
	t.Parallel()

	accounts := reliabilitymock.NewRepository(t)
	badges := badgemock.NewRepository(t)
	accounts.On("Get", mock.Anything, "u-1").
		Return(reliability.Account{UserID: "u-1", SessionsPlayed: 1, SignupSequenceNumber: 7}, true, nil).
		Once()
	badges.On("ListEarned", mock.Anything, "u-1").Return([]badge.Earned{}, nil).Once()
	badges.On("Award", mock.Anything, "u-1", mock.Anything, mock.Anything).
		Return([]badge.AwardOutcome{
			{BadgeID: "first-whistle", Inserted: false},
			{BadgeID: "founder-100", Inserted: true},
		}, nil).
		Once()

	service := NewBadgeService(nil, accounts, badges, nil, nil)
	awarded, err := service.EvaluateBadges(t.Context(), "u-1")
	if err != nil {
		t.Fatalf("evaluate badges: %v", err)
	}
	if len(awarded) != 1 || awarded[0].ID != "founder-100" {
		t.Fatalf("expected only the inserted badge, got %+v", awarded)
	}
}

func TestBadgeService_UnknownUser(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	if _, err := e.badges.EvaluateBadges(t.Context(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
	if _, err := e.badges.EvaluateBadges(t.Context(), " "); !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}
