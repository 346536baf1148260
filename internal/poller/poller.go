// Package poller drives the per-user polling cycle: it decides who is
// due on every tick, fetches their recent activity, diffs it against
// the stored watermark and hands the results to the notifier.
package poller

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/devilishantho2/retroachievements-bot/internal/notify"
	"github.com/devilishantho2/retroachievements-bot/internal/ra"
	"github.com/devilishantho2/retroachievements-bot/internal/retry"
	"github.com/devilishantho2/retroachievements-bot/internal/storage"
	"github.com/devilishantho2/retroachievements-bot/internal/tracker"
)

// Poller walks all registered users on a fixed tick and checks the ones
// whose deadline has passed
type Poller struct {
	repo      *storage.Repository
	client    *ra.Client
	fanout    *notify.Fanout
	state     *SchedulerState
	tick      time.Duration
	gameCount int

	stopChan chan struct{}
	wg       sync.WaitGroup
}

// New creates a Poller
func New(repo *storage.Repository, client *ra.Client, fanout *notify.Fanout, tickSeconds, gameCount int) *Poller {
	return &Poller{
		repo:      repo,
		client:    client,
		fanout:    fanout,
		state:     NewSchedulerState(),
		tick:      time.Duration(tickSeconds) * time.Second,
		gameCount: gameCount,
		stopChan:  make(chan struct{}),
	}
}

// Start begins the polling loop
func (p *Poller) Start(ctx context.Context) {
	slog.Info("Starting poller", "tick", p.tick)

	p.wg.Add(1)
	defer p.wg.Done()

	ticker := time.NewTicker(p.tick)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			slog.Info("Poller stopped (context cancelled)")
			return
		case <-p.stopChan:
			slog.Info("Poller stopped")
			return
		case <-ticker.C:
			p.pollOnce(ctx, time.Now())
		}
	}
}

// Stop signals the poller to stop and waits for in-flight checks
func (p *Poller) Stop() {
	close(p.stopChan)
	p.wg.Wait()
}

// pollOnce walks all users and launches a check for everyone who is due
// and not already being checked
func (p *Poller) pollOnce(ctx context.Context, now time.Time) {
	users, err := p.repo.GetAllUsers()
	if err != nil {
		slog.Error("Failed to load users", "error", err)
		return
	}
	if len(users) == 0 {
		return
	}

	aotwID, aotmID := p.featuredIDs()

	for _, user := range users {
		select {
		case <-ctx.Done():
			return
		default:
		}

		if !p.state.Due(user.DiscordID, now) {
			continue
		}
		if !p.state.TryLock(user.DiscordID, now) {
			slog.Debug("Check still in flight, skipping", "user", user.RAUsername)
			continue
		}

		p.wg.Add(1)
		go func(user *storage.User) {
			defer p.wg.Done()
			defer p.state.Unlock(user.DiscordID, now)
			defer func() {
				if r := recover(); r != nil {
					slog.Error("Panic during user check", "user", user.RAUsername, "panic", r)
				}
				p.state.Reschedule(user.DiscordID, time.Now())
			}()

			p.checkUser(ctx, user, aotwID, aotmID)
		}(user)
	}
}

// featuredIDs loads the active weekly/monthly achievement ids; a missing
// record simply disables that feature for the cycle
func (p *Poller) featuredIDs() (aotwID, aotmID int) {
	if aotw, err := p.repo.GetFeatured(storage.SlotWeek); err != nil {
		slog.Warn("Failed to load achievement of the week", "error", err)
	} else if aotw != nil {
		aotwID = aotw.AchievementID
	}

	if aotm, err := p.repo.GetFeatured(storage.SlotMonth); err != nil {
		slog.Warn("Failed to load achievement of the month", "error", err)
	} else if aotm != nil {
		aotmID = aotm.AchievementID
	}
	return aotwID, aotmID
}

// checkUser runs one polling cycle for one user
func (p *Poller) checkUser(ctx context.Context, user *storage.User, aotwID, aotmID int) {
	creds := ra.Credentials{Username: user.RAUsername, APIKey: user.RAAPIKey}

	summary, err := retry.Do(ctx, "user summary "+user.RAUsername, func() (*ra.Summary, error) {
		return p.client.UserSummary(ctx, creds, p.gameCount)
	}, retry.DefaultOptions())
	if err != nil {
		// Abandon this cycle; the watermark is untouched so nothing is
		// lost, the next tick retries naturally
		return
	}

	p.state.RecordActivity(user.DiscordID, time.Now(), summary.LastPlayedAt)

	wm := tracker.Watermark{ID: user.LastAchievementID, AwardedAt: user.LastAchievementAt}

	// First check ever: seed the watermark silently so registration does
	// not replay the user's whole recent history
	if wm.ID == 0 && wm.AwardedAt.IsZero() {
		p.seedWatermark(user, summary)
		return
	}

	res := tracker.Diff(summary, wm, tracker.Flags{Aotw: user.AotwUnlocked, Aotm: user.AotmUnlocked}, aotwID, aotmID)
	if len(res.New) == 0 {
		return
	}

	slog.Info("New achievements detected", "user", user.RAUsername, "count", len(res.New))

	// Persist the watermark before any notification work so a delivery
	// failure cannot cause reprocessing
	if err := p.repo.UpdateWatermark(user.DiscordID, res.Watermark.ID, res.Watermark.AwardedAt); err != nil {
		slog.Error("Failed to advance watermark", "user", user.RAUsername, "error", err)
		return
	}

	p.persistResults(user, res)
	p.fanout.Deliver(ctx, user, res.Intents)
}

// seedWatermark records the newest visible achievement without emitting
// notifications
func (p *Poller) seedWatermark(user *storage.User, summary *ra.Summary) {
	var newest ra.Achievement
	for _, a := range summary.Achievements {
		if a.AwardedAt.After(newest.AwardedAt) {
			newest = a
		}
	}
	if newest.ID == 0 {
		return
	}

	slog.Info("Seeding initial watermark", "user", user.RAUsername, "achievementID", newest.ID)
	if err := p.repo.UpdateWatermark(user.DiscordID, newest.ID, newest.AwardedAt); err != nil {
		slog.Error("Failed to seed watermark", "user", user.RAUsername, "error", err)
	}
}

// persistResults writes the history, stats, flag and award side effects
// of one diff run. Failures here are logged but do not stop delivery:
// the watermark is already safe.
func (p *Poller) persistResults(user *storage.User, res tracker.Result) {
	for _, a := range res.New {
		if err := p.repo.AppendHistory(&storage.HistoryEntry{
			UserID:        user.DiscordID,
			AchievementID: a.ID,
			Title:         a.Title,
			Points:        a.Points,
			GameTitle:     a.GameTitle,
			BadgeURL:      a.BadgeURL,
			Hardcore:      a.Hardcore,
			AwardedAt:     a.AwardedAt,
		}); err != nil {
			slog.Error("Failed to append history", "user", user.RAUsername, "error", err)
		}
		if err := p.repo.RecordUnlock(a.Points, a.Hardcore); err != nil {
			slog.Error("Failed to record unlock stats", "error", err)
		}
	}

	if res.Flags.Aotw && !user.AotwUnlocked {
		if err := p.repo.SetAotwUnlocked(user.DiscordID, true); err != nil {
			slog.Error("Failed to set weekly unlock flag", "user", user.RAUsername, "error", err)
		}
	}
	if res.Flags.Aotm && !user.AotmUnlocked {
		if err := p.repo.SetAotmUnlocked(user.DiscordID, true); err != nil {
			slog.Error("Failed to set monthly unlock flag", "user", user.RAUsername, "error", err)
		}
	}

	for _, in := range res.Intents {
		if in.Kind != tracker.KindMastered && in.Kind != tracker.KindCompleted {
			continue
		}
		if err := p.repo.RecordAward(in.Kind == tracker.KindMastered); err != nil {
			slog.Error("Failed to record award stats", "error", err)
		}
		if err := p.repo.SetLatestAward(user.DiscordID, in.BadgeURL, in.Hardcore); err != nil {
			slog.Error("Failed to store latest award", "user", user.RAUsername, "error", err)
		}
	}
}
