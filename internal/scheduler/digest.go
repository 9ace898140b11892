// Package scheduler sends the weekly care plan digest to every Telegram user
package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/vladimiradmaev/care-planner/internal/bot/menus"
	"github.com/vladimiradmaev/care-planner/internal/domain"
	"github.com/vladimiradmaev/care-planner/internal/logger"
	"github.com/vladimiradmaev/care-planner/internal/metrics"
)

// Digest outcomes
const (
	OutcomeSent   = "sent"
	OutcomeFailed = "failed"
)

const digestTimeout = 10 * time.Minute

// Notifier delivers a text message to a Telegram chat
type Notifier interface {
	SendMessage(chatID int64, text string) error
}

type UserLister interface {
	ListTelegramUsers(ctx context.Context) ([]domain.User, error)
}

type AdjustmentSource interface {
	Adjustments(ctx context.Context, userID uint) (domain.AdjustmentPlan, error)
}

// Config holds digest runner configuration
type Config struct {
	Spec          string // standard five-field cron expression
	Location      *time.Location
	MaxConcurrent int
}

// Runner runs the weekly digest on a cron schedule
type Runner struct {
	config   Config
	cron     *cron.Cron
	users    UserLister
	trends   AdjustmentSource
	notifier Notifier
	metrics  *metrics.Metrics
	ctx      context.Context
	cancel   context.CancelFunc
	running  bool
	mu       sync.Mutex
}

// NewRunner validates the schedule and creates a stopped runner
func NewRunner(config Config, users UserLister, trends AdjustmentSource, notifier Notifier, m *metrics.Metrics) (*Runner, error) {
	if config.Location == nil {
		config.Location = time.UTC
	}
	if config.MaxConcurrent <= 0 {
		config.MaxConcurrent = 3
	}
	if _, err := cron.ParseStandard(config.Spec); err != nil {
		return nil, fmt.Errorf("invalid digest schedule %q: %w", config.Spec, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	return &Runner{
		config:   config,
		cron:     cron.New(cron.WithLocation(config.Location)),
		users:    users,
		trends:   trends,
		notifier: notifier,
		metrics:  m,
		ctx:      ctx,
		cancel:   cancel,
	}, nil
}

// Start schedules the digest
func (r *Runner) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.running {
		return errors.New("digest runner already running")
	}
	if _, err := r.cron.AddFunc(r.config.Spec, r.runOnce); err != nil {
		return fmt.Errorf("failed to schedule digest: %w", err)
	}
	r.cron.Start()
	r.running = true
	logger.Info("Weekly digest scheduled", "spec", r.config.Spec, "timezone", r.config.Location.String())
	return nil
}

// Stop cancels any digest in flight and waits for it to return
func (r *Runner) Stop() {
	r.mu.Lock()
	if !r.running {
		r.mu.Unlock()
		return
	}
	r.running = false
	r.mu.Unlock()

	r.cancel()
	<-r.cron.Stop().Done()
	logger.Info("Digest runner stopped")
}

// IsRunning returns whether the runner is active
func (r *Runner) IsRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.running
}

func (r *Runner) runOnce() {
	ctx, cancel := context.WithTimeout(r.ctx, digestTimeout)
	defer cancel()

	sent, failed, err := r.SendWeeklyDigest(ctx)
	if err != nil {
		logger.Error("Weekly digest failed", "error", err)
		return
	}
	logger.Info("Weekly digest finished", "sent", sent, "failed", failed)
}

// SendWeeklyDigest sends every Telegram user their adjustment plan. A
// failure for one user is logged and counted; it never stops the others.
func (r *Runner) SendWeeklyDigest(ctx context.Context) (sent, failed int, err error) {
	users, err := r.users.ListTelegramUsers(ctx)
	if err != nil {
		return 0, 0, fmt.Errorf("failed to list users: %w", err)
	}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, r.config.MaxConcurrent)

	for _, user := range users {
		if ctx.Err() != nil {
			break
		}
		wg.Add(1)
		sem <- struct{}{} // Acquire

		go func(u domain.User) {
			defer wg.Done()
			defer func() { <-sem }() // Release

			ok := r.sendOne(ctx, u)
			mu.Lock()
			if ok {
				sent++
			} else {
				failed++
			}
			mu.Unlock()
		}(user)
	}
	wg.Wait()
	return sent, failed, nil
}

func (r *Runner) sendOne(ctx context.Context, user domain.User) bool {
	log := logger.WithContext(logger.ContextWithUserID(ctx, user.ID))

	plan, err := r.trends.Adjustments(ctx, user.ID)
	if err != nil {
		log.Error("Failed to build digest", "error", err)
		r.metrics.DigestSent(OutcomeFailed)
		return false
	}

	text := "🗓️ Your weekly check-in\n\n" + menus.FormatAdjustments(plan)
	if err := r.notifier.SendMessage(user.TelegramID, text); err != nil {
		log.Error("Failed to send digest", "telegram_id", user.TelegramID, "error", err)
		r.metrics.DigestSent(OutcomeFailed)
		return false
	}
	r.metrics.DigestSent(OutcomeSent)
	return true
}
