// Package refresh runs the cron-driven featured-achievement rotation,
// independent of the polling loop.
package refresh

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/devilishantho2/retroachievements-bot/internal/ra"
	"github.com/devilishantho2/retroachievements-bot/internal/retry"
	"github.com/devilishantho2/retroachievements-bot/internal/storage"
)

// Cron expressions for the rotation jobs (UTC)
const (
	// Monday 05:00, after the site rotates its weekly achievement
	weeklySchedule = "0 5 * * 1"
	// First of the month 05:00
	monthlySchedule = "0 5 1 * *"
)

// Refresher owns the weekly and monthly rotation jobs
type Refresher struct {
	repo   *storage.Repository
	client *ra.Client
	creds  ra.Credentials
	sched  *gocron.Scheduler
}

// New creates a Refresher using the bot's service credentials
func New(repo *storage.Repository, client *ra.Client, creds ra.Credentials) *Refresher {
	return &Refresher{
		repo:   repo,
		client: client,
		creds:  creds,
		sched:  gocron.NewScheduler(time.UTC),
	}
}

// Start schedules the rotation jobs and runs them in the background
func (r *Refresher) Start() error {
	if _, err := r.sched.Cron(weeklySchedule).Do(r.RefreshWeekly); err != nil {
		return fmt.Errorf("failed to schedule weekly refresh: %w", err)
	}
	if _, err := r.sched.Cron(monthlySchedule).Do(r.ResetMonthly); err != nil {
		return fmt.Errorf("failed to schedule monthly reset: %w", err)
	}

	r.sched.StartAsync()
	slog.Info("Feature refresh scheduled", "weekly", weeklySchedule, "monthly", monthlySchedule)
	return nil
}

// Stop halts the scheduler
func (r *Refresher) Stop() {
	r.sched.Stop()
}

// RefreshWeekly fetches the current achievement of the week, stores it
// and clears every user's weekly unlock flag. Failures are logged and
// leave the previous record in place.
func (r *Refresher) RefreshWeekly() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	featured, err := retry.Do(ctx, "achievement of the week", func() (*ra.FeaturedAchievement, error) {
		return r.client.AchievementOfTheWeek(ctx, r.creds)
	}, retry.DefaultOptions())
	if err != nil {
		return
	}

	if err := r.repo.SetFeatured(storage.SlotWeek, &storage.Featured{
		AchievementID: featured.ID,
		Title:         featured.Title,
		Description:   featured.Description,
		Points:        featured.Points,
		GameID:        featured.GameID,
		GameTitle:     featured.GameTitle,
	}); err != nil {
		slog.Error("Failed to store achievement of the week", "error", err)
		return
	}

	if err := r.repo.ResetAotwUnlocked(); err != nil {
		slog.Error("Failed to reset weekly unlock flags", "error", err)
		return
	}

	slog.Info("Achievement of the week updated", "title", featured.Title, "id", featured.ID)
}

// ResetMonthly clears every user's monthly unlock flag. The monthly
// featured achievement itself is maintained by admins.
func (r *Refresher) ResetMonthly() {
	if err := r.repo.ResetAotmUnlocked(); err != nil {
		slog.Error("Failed to reset monthly unlock flags", "error", err)
		return
	}
	slog.Info("Monthly unlock flags reset")
}

// EnsureWeekly fetches the weekly achievement immediately when none is
// stored yet, typically on first startup
func (r *Refresher) EnsureWeekly() {
	stored, err := r.repo.GetFeatured(storage.SlotWeek)
	if err != nil {
		slog.Error("Failed to read stored achievement of the week", "error", err)
		return
	}
	if stored == nil {
		r.RefreshWeekly()
	}
}
