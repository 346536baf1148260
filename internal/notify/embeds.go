package notify

import (
	"fmt"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/devilishantho2/retroachievements-bot/internal/locale"
	"github.com/devilishantho2/retroachievements-bot/internal/storage"
	"github.com/devilishantho2/retroachievements-bot/internal/tracker"
)

// Embed colors by event type
const (
	colorAchievement = 0x3498DB
	colorFeatured    = 0x2ECC71
	colorMastered    = 0xF1C40F
	colorCompleted   = 0xFFE370
	colorBroadcast   = 0x9B59B6
)

// achievementEmbed is the plain unlock notification used when no card
// image is rendered
func achievementEmbed(user *storage.User, lang string, in tracker.Intent) *discordgo.MessageEmbed {
	a := in.Achievement
	return &discordgo.MessageEmbed{
		Title: fmt.Sprintf("%s (%d pts)", a.Title, a.Points),
		Description: fmt.Sprintf("%s\n*%s*",
			locale.T(lang, "achievementUnlocked", map[string]string{"username": user.RAUsername}),
			a.Description),
		Color: colorAchievement,
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: a.BadgeURL,
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: locale.T(lang, "gameLine", map[string]string{"game": a.GameTitle}),
		},
		Timestamp: a.AwardedAt.Format(time.RFC3339),
	}
}

// featuredUnlockEmbed celebrates an achievement-of-the-week/month unlock
func featuredUnlockEmbed(user *storage.User, lang string, in tracker.Intent) *discordgo.MessageEmbed {
	titleKey, bodyKey := "aotwUnlockedTitle", "aotwUnlockedBody"
	if in.Kind == tracker.KindAotmUnlock {
		titleKey, bodyKey = "aotmUnlockedTitle", "aotmUnlockedBody"
	}

	return &discordgo.MessageEmbed{
		Title: locale.T(lang, titleKey, nil),
		Description: locale.T(lang, bodyKey, map[string]string{
			"username": user.RAUsername,
			"title":    in.Achievement.Title,
		}),
		Color: colorFeatured,
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: in.Achievement.BadgeURL,
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: locale.T(lang, "congrats", nil),
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// awardEmbed announces a mastery or completion
func awardEmbed(user *storage.User, lang string, in tracker.Intent) *discordgo.MessageEmbed {
	titleKey, bodyKey := "completedTitle", "completedBody"
	color := colorCompleted
	if in.Kind == tracker.KindMastered {
		titleKey, bodyKey = "masteredTitle", "masteredBody"
		color = colorMastered
	}

	return &discordgo.MessageEmbed{
		Title: locale.T(lang, titleKey, nil),
		Description: locale.T(lang, bodyKey, map[string]string{
			"username": user.RAUsername,
			"game":     in.GameTitle,
		}),
		Color: color,
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: in.BadgeURL,
		},
		Timestamp: time.Now().Format(time.RFC3339),
	}
}

// broadcastEmbed is the restricted announcement format shown to guilds
// the user is not a member of
func broadcastEmbed(user *storage.User, lang string, in tracker.Intent) *discordgo.MessageEmbed {
	if in.Kind == tracker.KindMastered || in.Kind == tracker.KindCompleted {
		embed := awardEmbed(user, lang, in)
		embed.Color = colorBroadcast
		return embed
	}

	a := in.Achievement
	return &discordgo.MessageEmbed{
		Title: locale.T(lang, "broadcastTitle", nil),
		Description: locale.T(lang, "broadcastBody", map[string]string{
			"username": user.RAUsername,
			"title":    a.Title,
			"points":   fmt.Sprintf("%d", a.Points),
			"game":     a.GameTitle,
		}),
		Color: colorBroadcast,
		Thumbnail: &discordgo.MessageEmbedThumbnail{
			URL: a.BadgeURL,
		},
		Timestamp: a.AwardedAt.Format(time.RFC3339),
	}
}
