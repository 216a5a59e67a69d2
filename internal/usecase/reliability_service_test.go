package usecase

import (
	"errors"
	"testing"

	"github.com/riskibarqy/kickabout/internal/domain/reliability"
	reliabilitymock "github.com/riskibarqy/kickabout/internal/mocks/domain/reliability"
	"github.com/sourcegraph/conc"
	"github.com/stretchr/testify/mock"
)

func TestReliabilityService_GetReliability(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	if _, err := e.reliability.GetReliability(t.Context(), "nobody"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	created := e.createSession(t, "org", 4)
	e.join(t, created.ID, "u-1")
	account := e.account(t, "u-1")
	if account.Score != reliability.DefaultScore || account.SignupSequenceNumber != 2 {
		t.Fatalf("unexpected fresh account: %+v", account)
	}
}

func TestReliabilityService_GetReliabilityStoreError(t *testing.T) {
	t.Parallel()

	storeErr := errors.New("connection reset")
	accounts := reliabilitymock.NewRepository(t)
	accounts.On("Get", mock.Anything, "u-1").Return(reliability.Account{}, false, storeErr).Once()

	service := NewReliabilityService(accounts, nil)
	_, err := service.GetReliability(t.Context(), "u-1")
	if !errors.Is(err, storeErr) || errors.Is(err, ErrNotFound) {
		t.Fatalf("expected wrapped store error, got %v", err)
	}
}

func TestReliabilityService_ConcurrentReferralsAllCount(t *testing.T) {
	t.Parallel()

	e := newTestEngine(t, nil)
	var wg conc.WaitGroup
	for range 25 {
		wg.Go(func() {
			if _, err := e.reliability.RecordReferral(t.Context(), "u-1"); err != nil {
				t.Errorf("record referral: %v", err)
			}
		})
	}
	wg.Wait()

	if got := e.account(t, "u-1").ReferralCount; got != 25 {
		t.Fatalf("expected 25 referrals, got %d", got)
	}
}
