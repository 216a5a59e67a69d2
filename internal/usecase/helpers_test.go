package usecase

import (
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/kickabout/internal/domain/notification"
	"github.com/riskibarqy/kickabout/internal/domain/reliability"
	"github.com/riskibarqy/kickabout/internal/domain/session"
	"github.com/riskibarqy/kickabout/internal/infrastructure/repository/memory"
	notificationmock "github.com/riskibarqy/kickabout/internal/mocks/domain/notification"
	"github.com/stretchr/testify/mock"
)

var (
	testNow   = time.Date(2026, 5, 2, 9, 0, 0, 0, time.UTC)
	testStart = testNow.Add(48 * time.Hour)
)

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

type sequentialIDs struct {
	next atomic.Int64
}

func (g *sequentialIDs) NewID() (string, error) {
	return fmt.Sprintf("s-%d", g.next.Add(1)), nil
}

type testEngine struct {
	clock       *testClock
	accounts    *memory.AccountRepository
	sessionRepo *memory.SessionRepository
	badgeRepo   *memory.BadgeRepository

	sessions    *SessionService
	attendance  *AttendanceService
	reliability *ReliabilityService
	badges      *BadgeService
}

// newTestEngine wires every service onto one memory store. A nil
// dispatcher accepts any event.
func newTestEngine(t *testing.T, dispatcher notification.Dispatcher) *testEngine {
	t.Helper()

	if dispatcher == nil {
		d := notificationmock.NewDispatcher(t)
		d.On("Dispatch", mock.Anything, mock.Anything).Maybe()
		dispatcher = d
	}

	clock := &testClock{now: testNow}
	accounts := memory.NewAccountRepository()
	sessionRepo := memory.NewSessionRepository(accounts)
	badgeRepo := memory.NewBadgeRepository()

	e := &testEngine{
		clock:       clock,
		accounts:    accounts,
		sessionRepo: sessionRepo,
		badgeRepo:   badgeRepo,
		sessions:    NewSessionService(sessionRepo, accounts, dispatcher, &sequentialIDs{}, nil),
		reliability: NewReliabilityService(accounts, nil),
		badges:      NewBadgeService(nil, accounts, badgeRepo, dispatcher, nil),
	}
	e.attendance = NewAttendanceService(sessionRepo, e.badges, dispatcher, 2, nil)

	e.sessions.now = clock.Now
	e.attendance.now = clock.Now
	e.reliability.now = clock.Now
	e.badges.now = clock.Now
	return e
}

func (e *testEngine) createSession(t *testing.T, organizerID string, seats int) session.Session {
	t.Helper()

	created, err := e.sessions.CreateSession(t.Context(), CreateSessionInput{
		OrganizerID:    organizerID,
		Title:          "Sunday padel",
		Sport:          "padel",
		Venue:          "Court 3",
		SeatsTotal:     seats,
		ScheduledStart: testStart,
	})
	if err != nil {
		t.Fatalf("create session: %v", err)
	}
	return created
}

func (e *testEngine) join(t *testing.T, sessionID string, users ...string) {
	t.Helper()

	for _, userID := range users {
		if _, err := e.sessions.JoinSession(t.Context(), sessionID, userID); err != nil {
			t.Fatalf("join %s: %v", userID, err)
		}
	}
}

func (e *testEngine) account(t *testing.T, userID string) reliability.Account {
	t.Helper()

	account, err := e.reliability.GetReliability(t.Context(), userID)
	if err != nil {
		t.Fatalf("get reliability for %s: %v", userID, err)
	}
	return account
}

func (e *testEngine) setAccount(t *testing.T, userID string, score, streak int) {
	t.Helper()

	_, err := e.accounts.Mutate(t.Context(), userID, func(a *reliability.Account) error {
		a.Score = score
		a.CurrentStreak = streak
		return nil
	})
	if err != nil {
		t.Fatalf("seed account %s: %v", userID, err)
	}
}
