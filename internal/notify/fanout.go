// Package notify delivers a user's detected events to every guild
// channel that should see them.
package notify

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/devilishantho2/retroachievements-bot/internal/render"
	"github.com/devilishantho2/retroachievements-bot/internal/storage"
	"github.com/devilishantho2/retroachievements-bot/internal/tracker"
)

// BroadcastPoints is the rarity floor for non-member broadcasts: only
// top-tier achievements reach guilds via global notifications.
const BroadcastPoints = 100

// Store provides the guild configurations and membership lookups
type Store interface {
	GetAllGuilds() ([]*storage.Guild, error)
	IsMember(guildID, userID string) (bool, error)
}

// Renderer draws achievement cards
type Renderer interface {
	AchievementCard(ctx context.Context, card render.Card) ([]byte, error)
}

// Messenger sends notifications to Discord channels
type Messenger interface {
	FetchChannel(ctx context.Context, channelID string) error
	SendEmbed(ctx context.Context, channelID string, embed *discordgo.MessageEmbed) error
	SendCard(ctx context.Context, channelID, filename string, png []byte) error
}

// Fanout routes one user's notification intents across all guilds
type Fanout struct {
	store     Store
	renderer  Renderer
	messenger Messenger
}

// New creates a Fanout
func New(store Store, renderer Renderer, messenger Messenger) *Fanout {
	return &Fanout{store: store, renderer: renderer, messenger: messenger}
}

// cacheKey dedupes rendering work within one delivery cycle: the same
// achievement+language pair is drawn once however many guilds need it.
type cacheKey struct {
	achievementID int
	lang          string
}

// Deliver fans one user's intents out to every configured guild. Member
// guilds receive everything; non-member guilds with global notifications
// enabled receive only the broadcast subset. One guild's failure never
// blocks the others.
func (f *Fanout) Deliver(ctx context.Context, user *storage.User, intents []tracker.Intent) {
	if len(intents) == 0 {
		return
	}

	guilds, err := f.store.GetAllGuilds()
	if err != nil {
		slog.Error("Failed to load guild configs", "error", err)
		return
	}

	cache := make(map[cacheKey][]byte)

	for _, guild := range guilds {
		if guild.ChannelID == "" {
			continue
		}

		member, err := f.store.IsMember(guild.GuildID, user.DiscordID)
		if err != nil {
			slog.Error("Failed membership lookup", "guildID", guild.GuildID, "error", err)
			continue
		}
		if !member && !guild.GlobalNotifications {
			continue
		}

		if err := f.messenger.FetchChannel(ctx, guild.ChannelID); err != nil {
			slog.Error("Failed to fetch channel, skipping guild",
				"guildID", guild.GuildID, "channelID", guild.ChannelID, "error", err)
			continue
		}

		if member {
			f.deliverMember(ctx, user, guild, intents, cache)
		} else {
			f.deliverBroadcast(ctx, user, guild, intents)
		}
	}
}

// deliverMember sends the full intent list to a guild the user belongs to
func (f *Fanout) deliverMember(ctx context.Context, user *storage.User, guild *storage.Guild, intents []tracker.Intent, cache map[cacheKey][]byte) {
	for _, in := range intents {
		var err error
		switch in.Kind {
		case tracker.KindAchievement:
			err = f.sendAchievement(ctx, user, guild, in, cache)
		case tracker.KindAotwUnlock, tracker.KindAotmUnlock:
			err = f.messenger.SendEmbed(ctx, guild.ChannelID, featuredUnlockEmbed(user, guild.Lang, in))
		case tracker.KindMastered, tracker.KindCompleted:
			err = f.messenger.SendEmbed(ctx, guild.ChannelID, awardEmbed(user, guild.Lang, in))
		}
		if err != nil {
			slog.Error("Failed to deliver notification",
				"guildID", guild.GuildID, "kind", in.Kind, "error", err)
		}
	}
}

// sendAchievement posts one unlock card; a percent of zero or a render
// failure downgrades to an embed-only notification
func (f *Fanout) sendAchievement(ctx context.Context, user *storage.User, guild *storage.Guild, in tracker.Intent, cache map[cacheKey][]byte) error {
	if in.Percent == 0 {
		return f.messenger.SendEmbed(ctx, guild.ChannelID, achievementEmbed(user, guild.Lang, in))
	}

	key := cacheKey{achievementID: in.Achievement.ID, lang: guild.Lang}
	png, ok := cache[key]
	if !ok {
		var err error
		png, err = f.renderer.AchievementCard(ctx, render.Card{
			Title:       in.Achievement.Title,
			Points:      in.Achievement.Points,
			Username:    user.RAUsername,
			Description: in.Achievement.Description,
			GameTitle:   in.Achievement.GameTitle,
			BadgeURL:    in.Achievement.BadgeURL,
			Percent:     in.Percent,
			Background:  user.Background,
			TextColor:   user.Color,
			Hardcore:    in.Achievement.Hardcore,
			Lang:        guild.Lang,
		})
		if err != nil {
			slog.Warn("Card rendering failed, sending embed instead",
				"achievementID", in.Achievement.ID, "error", err)
			return f.messenger.SendEmbed(ctx, guild.ChannelID, achievementEmbed(user, guild.Lang, in))
		}
		cache[key] = png
	}

	filename := fmt.Sprintf("achievement_%d.png", in.Achievement.ID)
	return f.messenger.SendCard(ctx, guild.ChannelID, filename, png)
}

// deliverBroadcast sends only the broadcast-eligible subset, in the
// announcement format, to a guild the user is not a member of
func (f *Fanout) deliverBroadcast(ctx context.Context, user *storage.User, guild *storage.Guild, intents []tracker.Intent) {
	for _, in := range intents {
		if !broadcastEligible(in) {
			continue
		}
		if err := f.messenger.SendEmbed(ctx, guild.ChannelID, broadcastEmbed(user, guild.Lang, in)); err != nil {
			slog.Error("Failed to deliver broadcast",
				"guildID", guild.GuildID, "kind", in.Kind, "error", err)
		}
	}
}

// broadcastEligible keeps broadcasts to exceptional events: top-tier
// achievements and game awards
func broadcastEligible(in tracker.Intent) bool {
	switch in.Kind {
	case tracker.KindMastered, tracker.KindCompleted:
		return true
	case tracker.KindAchievement:
		return in.Achievement.Points >= BroadcastPoints
	default:
		return false
	}
}
