// Package logging configures slog and optionally mirrors warnings and
// errors to a Discord log channel.
package logging

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/bwmarrin/discordgo"

	"github.com/devilishantho2/retroachievements-bot/internal/retry"
)

// Setup installs the default text handler at the configured level and
// returns it so it can later be wrapped
func Setup(level string) slog.Handler {
	var logLevel slog.Level
	switch level {
	case "debug":
		logLevel = slog.LevelDebug
	case "info":
		logLevel = slog.LevelInfo
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	default:
		logLevel = slog.LevelInfo
	}

	handler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	})
	slog.SetDefault(slog.New(handler))
	return handler
}

// DiscordHandler forwards warn+ records to a Discord channel on top of
// an inner handler. Channel delivery failures fall back to the console
// and are never fatal.
type DiscordHandler struct {
	inner     slog.Handler
	session   *discordgo.Session
	channelID string
	// console logs the retry executor's own attempts; using the default
	// logger here would recurse into this handler
	console *slog.Logger
}

// EnableDiscord wraps the base handler with a Discord mirror and makes
// it the default logger
func EnableDiscord(base slog.Handler, session *discordgo.Session, channelID string) {
	handler := &DiscordHandler{
		inner:     base,
		session:   session,
		channelID: channelID,
		console:   slog.New(base),
	}
	slog.SetDefault(slog.New(handler))
}

func (h *DiscordHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.inner.Enabled(ctx, level)
}

func (h *DiscordHandler) Handle(ctx context.Context, record slog.Record) error {
	err := h.inner.Handle(ctx, record)

	if record.Level >= slog.LevelWarn {
		// Delivery must not block or re-enter the logger
		go h.forward(record)
	}
	return err
}

func (h *DiscordHandler) forward(record slog.Record) {
	text := fmt.Sprintf("`%s` **%s** %s", record.Time.Format("15:04:05"), record.Level, record.Message)
	record.Attrs(func(attr slog.Attr) bool {
		text += fmt.Sprintf(" %s=%v", attr.Key, attr.Value)
		return true
	})
	text = truncate(text, discordMessageLimit)

	opts := retry.DefaultOptions()
	opts.Logger = h.console

	_, err := retry.Do(context.Background(), "log channel", func() (*discordgo.Message, error) {
		return h.session.ChannelMessageSend(h.channelID, text)
	}, opts)
	if err != nil {
		// Swallowed after exhaustion; the console copy already went out
		h.console.Debug("Log channel unreachable", "error", err)
	}
}

// discordMessageLimit is Discord's message length cap, counted in
// characters rather than bytes.
const discordMessageLimit = 2000

// truncate caps s at limit runes so a cut never splits a UTF-8 sequence.
func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}

func (h *DiscordHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &DiscordHandler{
		inner:     h.inner.WithAttrs(attrs),
		session:   h.session,
		channelID: h.channelID,
		console:   h.console,
	}
}

func (h *DiscordHandler) WithGroup(name string) slog.Handler {
	return &DiscordHandler{
		inner:     h.inner.WithGroup(name),
		session:   h.session,
		channelID: h.channelID,
		console:   h.console,
	}
}
