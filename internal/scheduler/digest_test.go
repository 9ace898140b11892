package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/metrics"
)

type fakeUsers struct {
	users []domain.User
	err   error
}

func (f fakeUsers) ListTelegramUsers(context.Context) ([]domain.User, error) { return f.users, f.err }

type fakeTrends struct {
	failFor uint
}

func (f fakeTrends) Adjustments(_ context.Context, userID uint) (domain.AdjustmentPlan, error) {
	if userID == f.failFor {
		return domain.AdjustmentPlan{}, errors.New("boom")
	}
	return domain.AdjustmentPlan{
		Adjustments: []domain.CarePlanAdjustment{{Category: domain.AdjustmentActivity, Action: "Walk 30 minutes", Reason: "Activity below target"}},
		Message:     "Small changes add up.",
	}, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	messages map[int64]string
	failFor  int64
}

func (f *fakeNotifier) SendMessage(chatID int64, text string) error {
	if chatID == f.failFor {
		return errors.New("blocked by user")
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.messages == nil {
		f.messages = map[int64]string{}
	}
	f.messages[chatID] = text
	return nil
}

func users(n int) []domain.User {
	out := make([]domain.User, n)
	for i := range out {
		out[i] = domain.User{ID: uint(i + 1), TelegramID: int64(1000 + i + 1)}
	}
	return out
}

func TestSendWeeklyDigest(t *testing.T) {
	m := metrics.New()
	notifier := &fakeNotifier{failFor: 1002}
	r, err := NewRunner(Config{Spec: "0 9 * * 1"}, fakeUsers{users: users(4)}, fakeTrends{failFor: 3}, notifier, m)
	require.NoError(t, err)

	sent, failed, err := r.SendWeeklyDigest(context.Background())

	require.NoError(t, err)
	assert.Equal(t, 2, sent)
	assert.Equal(t, 2, failed)
	assert.Contains(t, notifier.messages[1001], "Walk 30 minutes")
	assert.Contains(t, notifier.messages[1004], "weekly check-in")

	expected := `
		# HELP care_planner_weekly_digests_total Weekly digest deliveries, by outcome.
		# TYPE care_planner_weekly_digests_total counter
		care_planner_weekly_digests_total{outcome="failed"} 2
		care_planner_weekly_digests_total{outcome="sent"} 2
	`
	assert.NoError(t, testutil.GatherAndCompare(m.Registry, strings.NewReader(expected), "care_planner_weekly_digests_total"))
}

func TestSendWeeklyDigest_ListError(t *testing.T) {
	r, err := NewRunner(Config{Spec: "@weekly"}, fakeUsers{err: errors.New("db down")}, fakeTrends{}, &fakeNotifier{}, nil)
	require.NoError(t, err)

	_, _, err = r.SendWeeklyDigest(context.Background())
	assert.ErrorContains(t, err, "db down")
}

func TestNewRunner_RejectsBadSchedule(t *testing.T) {
	_, err := NewRunner(Config{Spec: "every monday"}, fakeUsers{}, fakeTrends{}, &fakeNotifier{}, nil)
	assert.Error(t, err)
}

func TestRunner_StartStop(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	r, err := NewRunner(Config{Spec: "0 9 * * 1", Location: loc}, fakeUsers{}, fakeTrends{}, &fakeNotifier{}, nil)
	require.NoError(t, err)

	require.NoError(t, r.Start())
	assert.True(t, r.IsRunning())
	assert.Error(t, r.Start())
	assert.Len(t, r.cron.Entries(), 1)

	r.Stop()
	assert.False(t, r.IsRunning())
	r.Stop()
}
