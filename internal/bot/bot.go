package bot

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/bwmarrin/discordgo"

	"github.com/devilishantho2/retroachievements-bot/internal/config"
	"github.com/devilishantho2/retroachievements-bot/internal/logging"
	"github.com/devilishantho2/retroachievements-bot/internal/notify"
	"github.com/devilishantho2/retroachievements-bot/internal/poller"
	"github.com/devilishantho2/retroachievements-bot/internal/ra"
	"github.com/devilishantho2/retroachievements-bot/internal/refresh"
	"github.com/devilishantho2/retroachievements-bot/internal/render"
	"github.com/devilishantho2/retroachievements-bot/internal/storage"
)

// Bot represents the Discord bot instance
type Bot struct {
	config    *config.Config
	session   *discordgo.Session
	repo      *storage.Repository
	client    *ra.Client
	renderer  *render.Renderer
	poller    *poller.Poller
	refresher *refresh.Refresher
	commands  []*discordgo.ApplicationCommand

	baseLogHandler slog.Handler
}

// New creates a new Bot instance
func New(cfg *config.Config, logHandler slog.Handler) (*Bot, error) {
	// Create Discord session
	session, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return nil, fmt.Errorf("failed to create Discord session: %w", err)
	}

	session.Identify.Intents = discordgo.IntentsGuilds

	// Initialize storage
	repo, err := storage.NewRepository(cfg.DatabasePath)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %w", err)
	}

	client := ra.NewClient()
	serviceCreds := ra.Credentials{Username: cfg.RAUsername, APIKey: cfg.RAAPIKey}

	renderer := render.New("")
	fanout := notify.New(repo, renderer, notify.NewDiscordMessenger(session))

	// A broken default background is not fatal, cards fall back to the
	// flat fill, but it is worth a warning at startup
	if cfg.DefaultBackground != "" {
		if err := render.LoadBackground(cfg.DefaultBackground); err != nil {
			slog.Warn("Default background unusable", "path", cfg.DefaultBackground, "error", err)
		}
	}

	b := &Bot{
		config:         cfg,
		session:        session,
		repo:           repo,
		client:         client,
		renderer:       renderer,
		poller:         poller.New(repo, client, fanout, cfg.TickSeconds, cfg.RecentGameCount),
		refresher:      refresh.New(repo, client, serviceCreds),
		baseLogHandler: logHandler,
	}

	b.registerHandlers()

	return b, nil
}

// Start opens the Discord connection and starts background tasks
func (b *Bot) Start(ctx context.Context) error {
	if err := b.session.Open(); err != nil {
		return fmt.Errorf("failed to open Discord connection: %w", err)
	}

	slog.Info("Connected to Discord", "user", b.session.State.User.Username)

	// Mirror warnings and errors to the log channel once the session is up
	if b.config.LogChannelID != "" && b.baseLogHandler != nil {
		logging.EnableDiscord(b.baseLogHandler, b.session, b.config.LogChannelID)
	}

	if err := b.registerCommands(); err != nil {
		return fmt.Errorf("failed to register commands: %w", err)
	}

	// Make sure a weekly achievement exists before polling starts
	go b.refresher.EnsureWeekly()

	if err := b.refresher.Start(); err != nil {
		return fmt.Errorf("failed to start feature refresh: %w", err)
	}

	go b.poller.Start(ctx)

	return nil
}

// Stop gracefully shuts down the bot
func (b *Bot) Stop() error {
	if b.poller != nil {
		b.poller.Stop()
	}
	if b.refresher != nil {
		b.refresher.Stop()
	}

	// Remove registered commands (optional - comment out to keep commands)
	// b.removeCommands()

	if b.repo != nil {
		b.repo.Close()
	}

	if b.session != nil {
		return b.session.Close()
	}

	return nil
}

// registerHandlers sets up Discord event handlers
func (b *Bot) registerHandlers() {
	b.session.AddHandler(b.handleInteraction)
	b.session.AddHandler(func(s *discordgo.Session, r *discordgo.Ready) {
		slog.Info("Bot is ready", "guilds", len(r.Guilds))
	})
	b.session.AddHandler(func(s *discordgo.Session, g *discordgo.GuildCreate) {
		// Guild rows are created lazily on join so admins can configure
		// the channel before anyone registers
		if err := b.repo.EnsureGuild(g.ID); err != nil {
			slog.Error("Failed to create guild config", "guildID", g.ID, "error", err)
		}
	})
}

// handleInteraction processes slash command interactions
func (b *Bot) handleInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	if i.Type != discordgo.InteractionApplicationCommand {
		return
	}

	data := i.ApplicationCommandData()
	slog.Debug("Received command", "command", data.Name, "guild", i.GuildID)

	switch data.Name {
	case "register":
		b.handleRegister(s, i)
	case "leave":
		b.handleLeave(s, i)
	case "list":
		b.handleList(s, i)
	case "setcolor":
		b.handleSetColor(s, i)
	case "setbackground":
		b.handleSetBackground(s, i)
	case "aotw":
		b.handleFeatured(s, i, storage.SlotWeek)
	case "aotm":
		b.handleFeatured(s, i, storage.SlotMonth)
	case "stats":
		b.handleStats(s, i)
	case "latestcheevos":
		b.handleLatestCheevos(s, i)
	case "lastseen":
		b.handleLastSeen(s, i)
	case "admin":
		b.handleAdmin(s, i)
	default:
		slog.Warn("Unknown command", "command", data.Name)
	}
}

// guildLang resolves the language configured for the interaction's guild
func (b *Bot) guildLang(guildID string) string {
	if guildID == "" {
		return "en"
	}
	guild, err := b.repo.GetGuild(guildID)
	if err != nil {
		return "en"
	}
	return guild.Lang
}
