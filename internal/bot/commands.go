package bot

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"

	"github.com/devilishantho2/retroachievements-bot/internal/locale"
	"github.com/devilishantho2/retroachievements-bot/internal/ra"
	"github.com/devilishantho2/retroachievements-bot/internal/render"
	"github.com/devilishantho2/retroachievements-bot/internal/storage"
)

const embedColor = 0x3498DB

// buildLanguageChoices creates the language selection choices for /admin language
func buildLanguageChoices() []*discordgo.ApplicationCommandOptionChoice {
	langs := locale.Langs()
	choices := make([]*discordgo.ApplicationCommandOptionChoice, len(langs))
	for i, lang := range langs {
		choices[i] = &discordgo.ApplicationCommandOptionChoice{
			Name:  lang,
			Value: lang,
		}
	}
	return choices
}

// Slash command definitions
func (b *Bot) getCommandDefinitions() []*discordgo.ApplicationCommand {
	adminPerms := int64(discordgo.PermissionAdministrator)

	return []*discordgo.ApplicationCommand{
		{
			Name:        "register",
			Description: "Link your RetroAchievements account to track your unlocks",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "username",
					Description: "Your RetroAchievements username",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "api_key",
					Description: "Your RetroAchievements web API key (Settings > Keys)",
					Required:    true,
				},
			},
		},
		{
			Name:        "leave",
			Description: "Stop tracking your unlocks in this server",
		},
		{
			Name:        "list",
			Description: "List the users tracked in this server",
		},
		{
			Name:        "setcolor",
			Description: "Set the text color of your achievement cards",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "color",
					Description: "Hex color, e.g. #ffe370",
					Required:    true,
				},
			},
		},
		{
			Name:        "setbackground",
			Description: "Set the background image of your achievement cards",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "url",
					Description: "Image URL",
					Required:    true,
				},
			},
		},
		{
			Name:        "aotw",
			Description: "Show the current achievement of the week",
		},
		{
			Name:        "aotm",
			Description: "Show the current achievement of the month",
		},
		{
			Name:        "stats",
			Description: "Show bot-wide unlock statistics",
		},
		{
			Name:        "latestcheevos",
			Description: "Show a tracked user's latest unlocks as a summary card",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The Discord user to look up (defaults to you)",
					Required:    false,
				},
			},
		},
		{
			Name:        "lastseen",
			Description: "Show a tracked user's latest RetroAchievements activity",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionUser,
					Name:        "user",
					Description: "The Discord user to look up",
					Required:    true,
				},
			},
		},
		{
			Name:                     "admin",
			Description:              "Server configuration",
			DefaultMemberPermissions: &adminPerms,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "setchannel",
					Description: "Set the channel for achievement notifications",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionChannel,
							Name:        "channel",
							Description: "The channel to send notifications to",
							Required:    true,
							ChannelTypes: []discordgo.ChannelType{
								discordgo.ChannelTypeGuildText,
							},
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "language",
					Description: "Set the language used for notifications in this server",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionString,
							Name:        "lang",
							Description: "Language code",
							Required:    true,
							Choices:     buildLanguageChoices(),
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "globalnotif",
					Description: "Toggle notifications for exceptional unlocks from all tracked users",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionBoolean,
							Name:        "enabled",
							Description: "Whether to receive global notifications",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "remove",
					Description: "Stop tracking a user in this server",
					Options: []*discordgo.ApplicationCommandOption{
						{
							Type:        discordgo.ApplicationCommandOptionUser,
							Name:        "user",
							Description: "The Discord user to remove",
							Required:    true,
						},
					},
				},
				{
					Type:        discordgo.ApplicationCommandOptionSubCommand,
					Name:        "clean",
					Description: "Remove tracked users who have left the server",
				},
			},
		},
	}
}

// registerCommands registers all slash commands with Discord
func (b *Bot) registerCommands() error {
	slog.Info("Registering slash commands")

	commandDefinitions := b.getCommandDefinitions()
	registeredCommands := make([]*discordgo.ApplicationCommand, 0, len(commandDefinitions))

	for _, cmd := range commandDefinitions {
		registered, err := b.session.ApplicationCommandCreate(
			b.session.State.User.ID,
			"", // Empty string = global command
			cmd,
		)
		if err != nil {
			return fmt.Errorf("failed to register command %s: %w", cmd.Name, err)
		}
		registeredCommands = append(registeredCommands, registered)
		slog.Debug("Registered command", "name", cmd.Name)
	}

	b.commands = registeredCommands
	slog.Info("Slash commands registered", "count", len(registeredCommands))
	return nil
}

// removeCommands removes all registered slash commands
func (b *Bot) removeCommands() {
	for _, cmd := range b.commands {
		err := b.session.ApplicationCommandDelete(b.session.State.User.ID, "", cmd.ID)
		if err != nil {
			slog.Error("Failed to remove command", "name", cmd.Name, "error", err)
		}
	}
}

// handleRegister handles the /register command
func (b *Bot) handleRegister(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		respondWithMessage(s, i, locale.T("en", "notInDM", nil))
		return
	}

	lang := b.guildLang(i.GuildID)
	options := i.ApplicationCommandData().Options
	raUsername := options[0].StringValue()
	apiKey := options[1].StringValue()
	discordID := i.Member.User.ID

	// The reply stays ephemeral so the API key never leaks into the channel
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Flags: discordgo.MessageFlagsEphemeral,
		},
	})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	key, vars, err := b.registerUser(ctx, i.GuildID, discordID, raUsername, apiKey)
	if err != nil {
		slog.Error("Registration failed", "guildID", i.GuildID, "discordID", discordID, "error", err)
		b.editResponse(s, i, locale.T(lang, "commandFailed", nil))
		return
	}
	b.editResponse(s, i, locale.T(lang, key, vars))
}

// registerUser records discordID as a member of guildID, creating the
// account on its first registration anywhere. It returns the locale key
// and vars for the reply. Credentials supplied for an already known
// account are ignored in favor of the stored ones, and the reply says so.
func (b *Bot) registerUser(ctx context.Context, guildID, discordID, raUsername, apiKey string) (string, map[string]string, error) {
	if member, err := b.repo.IsMember(guildID, discordID); err == nil && member {
		return "alreadyRegistered", nil, nil
	}

	user, err := b.repo.GetUser(discordID)
	existing := err == nil
	if !existing {
		// First registration anywhere: validate the credentials against
		// the live API before storing them
		creds := ra.Credentials{Username: raUsername, APIKey: apiKey}
		if _, err := b.client.UserProfile(ctx, creds); err != nil {
			slog.Warn("Registration rejected", "raUsername", raUsername, "error", err)
			return "registerError", map[string]string{"username": raUsername}, nil
		}

		user = &storage.User{
			DiscordID:  discordID,
			RAUsername: raUsername,
			RAAPIKey:   apiKey,
			Background: b.config.DefaultBackground,
			Color:      b.config.DefaultTextColor,
		}
		if err := b.repo.CreateUser(user); err != nil {
			return "", nil, err
		}
	}

	if err := b.repo.AddMember(guildID, discordID, discordID); err != nil {
		return "", nil, err
	}

	if existing {
		return "registerExisting", map[string]string{"username": user.RAUsername}, nil
	}
	return "registerSuccess", map[string]string{"username": user.RAUsername}, nil
}

// handleLeave handles the /leave command
func (b *Bot) handleLeave(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		respondWithMessage(s, i, locale.T("en", "notInDM", nil))
		return
	}

	lang := b.guildLang(i.GuildID)
	discordID := i.Member.User.ID

	member, err := b.repo.IsMember(i.GuildID, discordID)
	if err != nil || !member {
		respondWithMessage(s, i, locale.T(lang, "notRegistered", nil))
		return
	}

	if err := b.repo.RemoveMember(i.GuildID, discordID); err != nil {
		slog.Error("Failed to remove membership", "guildID", i.GuildID, "discordID", discordID, "error", err)
		respondWithMessage(s, i, locale.T(lang, "commandFailed", nil))
		return
	}

	respondWithMessage(s, i, locale.T(lang, "leaveSuccess", nil))
}

// handleList handles the /list command
func (b *Bot) handleList(s *discordgo.Session, i *discordgo.InteractionCreate) {
	lang := b.guildLang(i.GuildID)

	users, err := b.repo.GetUsersByGuild(i.GuildID)
	if err != nil {
		slog.Error("Failed to get users", "guildID", i.GuildID, "error", err)
		respondWithMessage(s, i, locale.T(lang, "commandFailed", nil))
		return
	}

	if len(users) == 0 {
		respondWithMessage(s, i, locale.T(lang, "noUsers", nil))
		return
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("**%s:**\n\n", locale.T(lang, "listTitle", nil)))
	for idx, user := range users {
		sb.WriteString(fmt.Sprintf("%d. <@%s> (`%s`)\n", idx+1, user.DiscordID, user.RAUsername))
	}

	respondWithMessage(s, i, sb.String())
}

// handleSetColor handles the /setcolor command
func (b *Bot) handleSetColor(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		respondWithMessage(s, i, locale.T("en", "notInDM", nil))
		return
	}

	lang := b.guildLang(i.GuildID)
	color := strings.ToLower(i.ApplicationCommandData().Options[0].StringValue())

	user, err := b.repo.GetUser(i.Member.User.ID)
	if err != nil {
		respondWithMessage(s, i, locale.T(lang, "notRegistered", nil))
		return
	}

	if !render.ValidHexColor(color) {
		respondWithMessage(s, i, locale.T(lang, "invalidColor", nil))
		return
	}

	if err := b.repo.UpdateCustomization(user.DiscordID, user.Background, color); err != nil {
		slog.Error("Failed to update color", "discordID", user.DiscordID, "error", err)
		respondWithMessage(s, i, locale.T(lang, "commandFailed", nil))
		return
	}

	respondWithMessage(s, i, locale.T(lang, "colorSet", map[string]string{"color": color}))
}

// handleSetBackground handles the /setbackground command
func (b *Bot) handleSetBackground(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Member == nil {
		respondWithMessage(s, i, locale.T("en", "notInDM", nil))
		return
	}

	lang := b.guildLang(i.GuildID)
	url := i.ApplicationCommandData().Options[0].StringValue()

	user, err := b.repo.GetUser(i.Member.User.ID)
	if err != nil {
		respondWithMessage(s, i, locale.T(lang, "notRegistered", nil))
		return
	}

	// Respond immediately, the image fetch can be slow
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := b.renderer.ValidateBackground(ctx, url); err != nil {
		b.editResponse(s, i, locale.T(lang, "invalidBackground", nil))
		return
	}

	if err := b.repo.UpdateCustomization(user.DiscordID, url, user.Color); err != nil {
		slog.Error("Failed to update background", "discordID", user.DiscordID, "error", err)
		b.editResponse(s, i, locale.T(lang, "commandFailed", nil))
		return
	}

	b.editResponse(s, i, locale.T(lang, "backgroundSet", nil))
}

// handleFeatured handles /aotw and /aotm
func (b *Bot) handleFeatured(s *discordgo.Session, i *discordgo.InteractionCreate, slot string) {
	lang := b.guildLang(i.GuildID)

	featured, err := b.repo.GetFeatured(slot)
	if err != nil {
		slog.Error("Failed to load featured achievement", "slot", slot, "error", err)
		respondWithMessage(s, i, locale.T(lang, "commandFailed", nil))
		return
	}
	if featured == nil {
		respondWithMessage(s, i, locale.T(lang, "featuredNone", nil))
		return
	}

	titleKey := "aotwTitle"
	if slot == storage.SlotMonth {
		titleKey = "aotmTitle"
	}

	embed := &discordgo.MessageEmbed{
		Title:       locale.T(lang, titleKey, map[string]string{"title": featured.Title}),
		Description: featured.Description,
		Color:       embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name:   locale.T(lang, "pointsLabel", nil),
				Value:  fmt.Sprintf("%d", featured.Points),
				Inline: true,
			},
			{
				Name:   locale.T(lang, "gameLabel", nil),
				Value:  featured.GameTitle,
				Inline: true,
			},
		},
	}

	// Show the caller's own unlock state when they are registered
	if i.Member != nil {
		if user, err := b.repo.GetUser(i.Member.User.ID); err == nil {
			unlocked := user.AotwUnlocked
			if slot == storage.SlotMonth {
				unlocked = user.AotmUnlocked
			}
			stateKey := "featuredLocked"
			if unlocked {
				stateKey = "featuredUnlocked"
			}
			embed.Footer = &discordgo.MessageEmbedFooter{
				Text: fmt.Sprintf("%s: %s", user.RAUsername, locale.T(lang, stateKey, nil)),
			}
		}
	}

	respondWithEmbed(s, i, embed)
}

// handleStats handles the /stats command
func (b *Bot) handleStats(s *discordgo.Session, i *discordgo.InteractionCreate) {
	lang := b.guildLang(i.GuildID)

	stats, err := b.repo.GetStats()
	if err != nil {
		slog.Error("Failed to load stats", "error", err)
		respondWithMessage(s, i, locale.T(lang, "commandFailed", nil))
		return
	}

	embed := &discordgo.MessageEmbed{
		Title: locale.T(lang, "statsTitle", nil),
		Color: embedColor,
		Fields: []*discordgo.MessageEmbedField{
			{
				Name: locale.T(lang, "statsTotals", nil),
				Value: fmt.Sprintf("🏆 %d\n💎 %d pts\n💪 %d hardcore / 😌 %d softcore",
					stats.TotalCheevos, stats.TotalPoints, stats.Hardcore, stats.Softcore),
			},
			{
				Name: locale.T(lang, "statsByPoints", nil),
				Value: fmt.Sprintf("1-4: %d | 5-9: %d | 10+: %d\n25+: %d | 50+: %d | 100+: %d",
					stats.Points1to4, stats.Points5to9, stats.Points10,
					stats.Points25, stats.Points50, stats.Points100),
			},
			{
				Name:  locale.T(lang, "statsAwards", nil),
				Value: fmt.Sprintf("🌟 %d mastery | ⭐ %d completion", stats.Mastery, stats.Completion),
			},
		},
	}

	respondWithEmbed(s, i, embed)
}

// handleLastSeen handles the /lastseen command
func (b *Bot) handleLastSeen(s *discordgo.Session, i *discordgo.InteractionCreate) {
	lang := b.guildLang(i.GuildID)
	target := i.ApplicationCommandData().Options[0].UserValue(s)

	user, err := b.repo.GetUser(target.ID)
	if err != nil {
		respondWithMessage(s, i, locale.T(lang, "notRegistered", nil))
		return
	}

	// Respond immediately to avoid timeout, the lookup hits the live API
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	creds := ra.Credentials{Username: user.RAUsername, APIKey: user.RAAPIKey}
	summary, err := b.client.UserSummary(ctx, creds, b.config.RecentGameCount)
	if err != nil {
		slog.Warn("Failed to fetch activity", "raUsername", user.RAUsername, "error", err)
		b.editResponse(s, i, locale.T(lang, "lastSeenNone", map[string]string{"username": user.RAUsername}))
		return
	}

	var sb strings.Builder
	if summary.RichPresence != "" {
		sb.WriteString(summary.RichPresence + "\n")
	}
	if summary.LastGameTitle != "" {
		sb.WriteString(locale.T(lang, "gameLine", map[string]string{"game": summary.LastGameTitle}) + "\n")
	}
	sb.WriteString(locale.T(lang, "lastSeenPoints", map[string]string{"points": fmt.Sprintf("%d", summary.TotalPoints)}))

	embed := &discordgo.MessageEmbed{
		Title:       locale.T(lang, "lastSeenTitle", map[string]string{"username": user.RAUsername}),
		Description: sb.String(),
		Color:       embedColor,
	}
	if summary.UserPic != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{
			URL: ra.MediaBaseURL + summary.UserPic,
		}
	}
	if !summary.LastPlayedAt.IsZero() {
		embed.Timestamp = summary.LastPlayedAt.Format(time.RFC3339)
	}

	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Embeds: &[]*discordgo.MessageEmbed{embed},
	})
}

// handleLatestCheevos handles the /latestcheevos command
func (b *Bot) handleLatestCheevos(s *discordgo.Session, i *discordgo.InteractionCreate) {
	lang := b.guildLang(i.GuildID)

	var target *discordgo.User
	if opts := i.ApplicationCommandData().Options; len(opts) > 0 {
		target = opts[0].UserValue(s)
	} else if i.Member != nil {
		target = i.Member.User
	} else {
		respondWithMessage(s, i, locale.T("en", "notInDM", nil))
		return
	}

	user, err := b.repo.GetUser(target.ID)
	if err != nil {
		respondWithMessage(s, i, locale.T(lang, "notRegistered", nil))
		return
	}

	// Respond immediately, rendering fetches badge images
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	history, err := b.repo.GetHistory(user.DiscordID)
	if err != nil {
		slog.Error("Failed to load history", "discordID", user.DiscordID, "error", err)
		b.editResponse(s, i, locale.T(lang, "commandFailed", nil))
		return
	}

	card := render.RecentCard{
		Username:      user.RAUsername,
		Background:    user.Background,
		ProfileURL:    fmt.Sprintf("%s/UserPic/%s.png", ra.MediaBaseURL, user.RAUsername),
		AwardBadgeURL: user.LatestAwardBadge,
		AwardHardcore: user.LatestAwardHardcore,
		Lang:          lang,
	}
	// History is stored oldest first; the card shows newest first
	for idx := len(history) - 1; idx >= 0; idx-- {
		card.Entries = append(card.Entries, render.RecentEntry{
			BadgeURL: history[idx].BadgeURL,
			Hardcore: history[idx].Hardcore,
		})
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	png, err := b.renderer.RecentUnlocksCard(ctx, card)
	if err != nil {
		slog.Error("Failed to render recent unlocks", "discordID", user.DiscordID, "error", err)
		b.editResponse(s, i, locale.T(lang, "commandFailed", nil))
		return
	}

	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Files: []*discordgo.File{{
			Name:        "latestcheevos.png",
			ContentType: "image/png",
			Reader:      bytes.NewReader(png),
		}},
	})
}

// handleAdmin dispatches the /admin subcommands
func (b *Bot) handleAdmin(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.GuildID == "" {
		respondWithMessage(s, i, locale.T("en", "notInDM", nil))
		return
	}

	lang := b.guildLang(i.GuildID)
	sub := i.ApplicationCommandData().Options[0]

	switch sub.Name {
	case "setchannel":
		channel := sub.Options[0].ChannelValue(s)
		if err := b.repo.SetGuildChannel(i.GuildID, channel.ID); err != nil {
			slog.Error("Failed to set channel", "guildID", i.GuildID, "error", err)
			respondWithMessage(s, i, locale.T(lang, "commandFailed", nil))
			return
		}
		respondWithMessage(s, i, locale.T(lang, "channelSet", nil))

	case "language":
		newLang := sub.Options[0].StringValue()
		if err := b.repo.SetGuildLanguage(i.GuildID, newLang); err != nil {
			slog.Error("Failed to set language", "guildID", i.GuildID, "error", err)
			respondWithMessage(s, i, locale.T(lang, "commandFailed", nil))
			return
		}
		respondWithMessage(s, i, locale.T(newLang, "languageSet", map[string]string{"lang": newLang}))

	case "globalnotif":
		enabled := sub.Options[0].BoolValue()
		if err := b.repo.SetGlobalNotifications(i.GuildID, enabled); err != nil {
			slog.Error("Failed to set global notifications", "guildID", i.GuildID, "error", err)
			respondWithMessage(s, i, locale.T(lang, "commandFailed", nil))
			return
		}
		key := "globalOff"
		if enabled {
			key = "globalOn"
		}
		respondWithMessage(s, i, locale.T(lang, key, nil))

	case "remove":
		target := sub.Options[0].UserValue(s)
		user, err := b.repo.GetUser(target.ID)
		if err != nil {
			respondWithMessage(s, i, locale.T(lang, "notRegistered", nil))
			return
		}
		if err := b.repo.RemoveMember(i.GuildID, target.ID); err != nil {
			slog.Error("Failed to remove member", "guildID", i.GuildID, "discordID", target.ID, "error", err)
			respondWithMessage(s, i, locale.T(lang, "commandFailed", nil))
			return
		}
		respondWithMessage(s, i, locale.T(lang, "memberRemoved", map[string]string{"username": user.RAUsername}))

	case "clean":
		b.handleAdminClean(s, i, lang)

	default:
		slog.Warn("Unknown admin subcommand", "subcommand", sub.Name)
	}
}

// handleAdminClean removes tracked users who are no longer guild members
func (b *Bot) handleAdminClean(s *discordgo.Session, i *discordgo.InteractionCreate, lang string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})

	memberIDs, err := b.repo.GetMembers(i.GuildID)
	if err != nil {
		slog.Error("Failed to get members", "guildID", i.GuildID, "error", err)
		b.editResponse(s, i, locale.T(lang, "commandFailed", nil))
		return
	}

	removed := 0
	for _, id := range memberIDs {
		if _, err := s.GuildMember(i.GuildID, id); err == nil {
			continue
		}
		if err := b.repo.RemoveMember(i.GuildID, id); err != nil {
			slog.Error("Failed to remove member during clean", "guildID", i.GuildID, "discordID", id, "error", err)
			continue
		}
		removed++
	}

	b.editResponse(s, i, locale.T(lang, "cleanResult", map[string]string{"count": fmt.Sprintf("%d", removed)}))
}

// Helper functions

func respondWithMessage(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: content,
		},
	})
}

func respondWithEmbed(s *discordgo.Session, i *discordgo.InteractionCreate, embed *discordgo.MessageEmbed) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}

func (b *Bot) editResponse(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	s.InteractionResponseEdit(i.Interaction, &discordgo.WebhookEdit{
		Content: &content,
	})
}
