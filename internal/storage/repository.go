package storage

import (
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// HistoryLimit bounds each user's rolling achievement history; appending
// past the limit evicts the oldest entry.
const HistoryLimit = 10

// Repository handles all database operations
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new repository with SQLite
func NewRepository(dbPath string) (*Repository, error) {
	// Ensure directory exists
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.Ping(); err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if _, err := db.Exec(`PRAGMA foreign_keys = ON`); err != nil {
		return nil, fmt.Errorf("failed to enable foreign keys: %w", err)
	}

	repo := &Repository{db: db}

	if err := repo.migrate(); err != nil {
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return repo, nil
}

// Close closes the database connection
func (r *Repository) Close() error {
	return r.db.Close()
}

// migrate creates the database schema
func (r *Repository) migrate() error {
	migrations := []string{
		`CREATE TABLE IF NOT EXISTS users (
			discord_id VARCHAR(20) PRIMARY KEY,
			ra_username VARCHAR(50) NOT NULL,
			ra_api_key VARCHAR(100) NOT NULL,
			background TEXT NOT NULL DEFAULT '',
			color VARCHAR(10) NOT NULL DEFAULT '#ffffff',
			last_achievement_id INTEGER NOT NULL DEFAULT 0,
			last_achievement_at TIMESTAMP,
			aotw_unlocked INTEGER NOT NULL DEFAULT 0,
			aotm_unlocked INTEGER NOT NULL DEFAULT 0,
			latest_award_badge TEXT NOT NULL DEFAULT '',
			latest_award_hardcore INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS guilds (
			guild_id VARCHAR(20) PRIMARY KEY,
			channel_id VARCHAR(20) NOT NULL DEFAULT '',
			lang VARCHAR(5) NOT NULL DEFAULT 'en',
			global_notifications INTEGER NOT NULL DEFAULT 0,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS guild_members (
			guild_id VARCHAR(20) NOT NULL,
			user_id VARCHAR(20) NOT NULL,
			registered_by VARCHAR(20) NOT NULL DEFAULT '',
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (guild_id, user_id),
			FOREIGN KEY (user_id) REFERENCES users(discord_id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS history (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			user_id VARCHAR(20) NOT NULL,
			achievement_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			points INTEGER NOT NULL,
			game_title TEXT NOT NULL,
			badge_url TEXT NOT NULL DEFAULT '',
			hardcore INTEGER NOT NULL DEFAULT 0,
			awarded_at TIMESTAMP NOT NULL,
			FOREIGN KEY (user_id) REFERENCES users(discord_id) ON DELETE CASCADE
		)`,
		`CREATE TABLE IF NOT EXISTS featured (
			slot VARCHAR(10) PRIMARY KEY,
			achievement_id INTEGER NOT NULL,
			title TEXT NOT NULL,
			description TEXT NOT NULL,
			points INTEGER NOT NULL,
			game_id INTEGER NOT NULL,
			game_title TEXT NOT NULL,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS stats (
			id INTEGER PRIMARY KEY CHECK (id = 1),
			total_cheevos INTEGER NOT NULL DEFAULT 0,
			total_points INTEGER NOT NULL DEFAULT 0,
			points_1_4 INTEGER NOT NULL DEFAULT 0,
			points_5_9 INTEGER NOT NULL DEFAULT 0,
			points_10 INTEGER NOT NULL DEFAULT 0,
			points_25 INTEGER NOT NULL DEFAULT 0,
			points_50 INTEGER NOT NULL DEFAULT 0,
			points_100 INTEGER NOT NULL DEFAULT 0,
			hardcore INTEGER NOT NULL DEFAULT 0,
			softcore INTEGER NOT NULL DEFAULT 0,
			mastery INTEGER NOT NULL DEFAULT 0,
			completion INTEGER NOT NULL DEFAULT 0
		)`,
		`INSERT OR IGNORE INTO stats (id) VALUES (1)`,
		`CREATE INDEX IF NOT EXISTS idx_members_user ON guild_members(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_history_user ON history(user_id)`,
	}

	for _, migration := range migrations {
		if _, err := r.db.Exec(migration); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}

	return nil
}

// User operations

// CreateUser inserts a new registered user
func (r *Repository) CreateUser(u *User) error {
	_, err := r.db.Exec(
		`INSERT INTO users (discord_id, ra_username, ra_api_key, background, color)
		 VALUES (?, ?, ?, ?, ?)`,
		u.DiscordID, u.RAUsername, u.RAAPIKey, u.Background, u.Color,
	)
	return err
}

// GetUser finds a user by Discord id
func (r *Repository) GetUser(discordID string) (*User, error) {
	return r.scanUser(r.db.QueryRow(userSelect+` WHERE discord_id = ?`, discordID))
}

// GetAllUsers returns every registered user
func (r *Repository) GetAllUsers() ([]*User, error) {
	rows, err := r.db.Query(userSelect)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// DeleteUser removes a user; memberships and history cascade
func (r *Repository) DeleteUser(discordID string) error {
	_, err := r.db.Exec(`DELETE FROM users WHERE discord_id = ?`, discordID)
	return err
}

const userSelect = `SELECT discord_id, ra_username, ra_api_key, background, color,
	last_achievement_id, last_achievement_at, aotw_unlocked, aotm_unlocked,
	latest_award_badge, latest_award_hardcore, created_at, updated_at FROM users`

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *Repository) scanUser(row rowScanner) (*User, error) {
	u := &User{}
	var lastAt sql.NullTime
	err := row.Scan(
		&u.DiscordID, &u.RAUsername, &u.RAAPIKey, &u.Background, &u.Color,
		&u.LastAchievementID, &lastAt, &u.AotwUnlocked, &u.AotmUnlocked,
		&u.LatestAwardBadge, &u.LatestAwardHardcore, &u.CreatedAt, &u.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if lastAt.Valid {
		u.LastAchievementAt = lastAt.Time
	}
	return u, nil
}

// UpdateWatermark advances a user's last-processed achievement marker
func (r *Repository) UpdateWatermark(discordID string, achievementID int, awardedAt time.Time) error {
	_, err := r.db.Exec(
		`UPDATE users SET last_achievement_id = ?, last_achievement_at = ?, updated_at = ?
		 WHERE discord_id = ?`,
		achievementID, awardedAt, time.Now(), discordID,
	)
	return err
}

// UpdateCustomization sets a user's card background and text color
func (r *Repository) UpdateCustomization(discordID, background, color string) error {
	_, err := r.db.Exec(
		`UPDATE users SET background = ?, color = ?, updated_at = ? WHERE discord_id = ?`,
		background, color, time.Now(), discordID,
	)
	return err
}

// SetAotwUnlocked sets the weekly unlock flag for one user
func (r *Repository) SetAotwUnlocked(discordID string, unlocked bool) error {
	_, err := r.db.Exec(`UPDATE users SET aotw_unlocked = ? WHERE discord_id = ?`, unlocked, discordID)
	return err
}

// SetAotmUnlocked sets the monthly unlock flag for one user
func (r *Repository) SetAotmUnlocked(discordID string, unlocked bool) error {
	_, err := r.db.Exec(`UPDATE users SET aotm_unlocked = ? WHERE discord_id = ?`, unlocked, discordID)
	return err
}

// ResetAotwUnlocked clears the weekly unlock flag for every user
func (r *Repository) ResetAotwUnlocked() error {
	_, err := r.db.Exec(`UPDATE users SET aotw_unlocked = 0`)
	return err
}

// ResetAotmUnlocked clears the monthly unlock flag for every user
func (r *Repository) ResetAotmUnlocked() error {
	_, err := r.db.Exec(`UPDATE users SET aotm_unlocked = 0`)
	return err
}

// SetLatestAward records a user's most recent mastery/completion
func (r *Repository) SetLatestAward(discordID, badge string, hardcore bool) error {
	_, err := r.db.Exec(
		`UPDATE users SET latest_award_badge = ?, latest_award_hardcore = ? WHERE discord_id = ?`,
		badge, hardcore, discordID,
	)
	return err
}

// History operations

// AppendHistory adds an entry to a user's rolling history, evicting the
// oldest entries beyond HistoryLimit
func (r *Repository) AppendHistory(e *HistoryEntry) error {
	_, err := r.db.Exec(
		`INSERT INTO history (user_id, achievement_id, title, points, game_title, badge_url, hardcore, awarded_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		e.UserID, e.AchievementID, e.Title, e.Points, e.GameTitle, e.BadgeURL, e.Hardcore, e.AwardedAt,
	)
	if err != nil {
		return err
	}

	_, err = r.db.Exec(
		`DELETE FROM history WHERE user_id = ? AND id NOT IN (
			SELECT id FROM history WHERE user_id = ? ORDER BY id DESC LIMIT ?
		)`,
		e.UserID, e.UserID, HistoryLimit,
	)
	return err
}

// GetHistory returns a user's history, oldest first
func (r *Repository) GetHistory(discordID string) ([]*HistoryEntry, error) {
	rows, err := r.db.Query(
		`SELECT id, user_id, achievement_id, title, points, game_title, badge_url, hardcore, awarded_at
		 FROM history WHERE user_id = ? ORDER BY id ASC`,
		discordID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []*HistoryEntry
	for rows.Next() {
		e := &HistoryEntry{}
		if err := rows.Scan(&e.ID, &e.UserID, &e.AchievementID, &e.Title, &e.Points,
			&e.GameTitle, &e.BadgeURL, &e.Hardcore, &e.AwardedAt); err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return entries, rows.Err()
}

// Guild operations

// EnsureGuild creates a guild row if it does not exist yet
func (r *Repository) EnsureGuild(guildID string) error {
	_, err := r.db.Exec(`INSERT OR IGNORE INTO guilds (guild_id) VALUES (?)`, guildID)
	return err
}

// SetGuildChannel sets a guild's notification channel
func (r *Repository) SetGuildChannel(guildID, channelID string) error {
	_, err := r.db.Exec(
		`INSERT INTO guilds (guild_id, channel_id) VALUES (?, ?)
		 ON CONFLICT(guild_id) DO UPDATE SET channel_id = excluded.channel_id`,
		guildID, channelID,
	)
	return err
}

// SetGuildLanguage sets a guild's notification language
func (r *Repository) SetGuildLanguage(guildID, lang string) error {
	_, err := r.db.Exec(
		`INSERT INTO guilds (guild_id, lang) VALUES (?, ?)
		 ON CONFLICT(guild_id) DO UPDATE SET lang = excluded.lang`,
		guildID, lang,
	)
	return err
}

// SetGlobalNotifications toggles broadcast delivery for a guild
func (r *Repository) SetGlobalNotifications(guildID string, enabled bool) error {
	_, err := r.db.Exec(
		`INSERT INTO guilds (guild_id, global_notifications) VALUES (?, ?)
		 ON CONFLICT(guild_id) DO UPDATE SET global_notifications = excluded.global_notifications`,
		guildID, enabled,
	)
	return err
}

// GetGuild retrieves one guild's configuration
func (r *Repository) GetGuild(guildID string) (*Guild, error) {
	g := &Guild{}
	err := r.db.QueryRow(
		`SELECT guild_id, channel_id, lang, global_notifications, created_at
		 FROM guilds WHERE guild_id = ?`,
		guildID,
	).Scan(&g.GuildID, &g.ChannelID, &g.Lang, &g.GlobalNotifications, &g.CreatedAt)
	if err != nil {
		return nil, err
	}
	return g, nil
}

// GetAllGuilds returns every guild configuration
func (r *Repository) GetAllGuilds() ([]*Guild, error) {
	rows, err := r.db.Query(
		`SELECT guild_id, channel_id, lang, global_notifications, created_at FROM guilds`,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var guilds []*Guild
	for rows.Next() {
		g := &Guild{}
		if err := rows.Scan(&g.GuildID, &g.ChannelID, &g.Lang, &g.GlobalNotifications, &g.CreatedAt); err != nil {
			return nil, err
		}
		guilds = append(guilds, g)
	}
	return guilds, rows.Err()
}

// Membership operations

// AddMember registers a user to a guild
func (r *Repository) AddMember(guildID, userID, registeredBy string) error {
	if err := r.EnsureGuild(guildID); err != nil {
		return err
	}
	_, err := r.db.Exec(
		`INSERT OR IGNORE INTO guild_members (guild_id, user_id, registered_by) VALUES (?, ?, ?)`,
		guildID, userID, registeredBy,
	)
	return err
}

// RemoveMember removes a user from one guild. When the last membership
// goes away the user record itself is deleted.
func (r *Repository) RemoveMember(guildID, userID string) error {
	_, err := r.db.Exec(
		`DELETE FROM guild_members WHERE guild_id = ? AND user_id = ?`,
		guildID, userID,
	)
	if err != nil {
		return err
	}

	var remaining int
	err = r.db.QueryRow(`SELECT COUNT(*) FROM guild_members WHERE user_id = ?`, userID).Scan(&remaining)
	if err != nil {
		return err
	}
	if remaining == 0 {
		return r.DeleteUser(userID)
	}
	return nil
}

// IsMember reports whether a user is registered to a guild
func (r *Repository) IsMember(guildID, userID string) (bool, error) {
	var n int
	err := r.db.QueryRow(
		`SELECT COUNT(*) FROM guild_members WHERE guild_id = ? AND user_id = ?`,
		guildID, userID,
	).Scan(&n)
	return n > 0, err
}

// GetMembers returns the user ids registered to a guild
func (r *Repository) GetMembers(guildID string) ([]string, error) {
	rows, err := r.db.Query(`SELECT user_id FROM guild_members WHERE guild_id = ?`, guildID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// GetUsersByGuild returns all registered users for one guild
func (r *Repository) GetUsersByGuild(guildID string) ([]*User, error) {
	rows, err := r.db.Query(
		userSelect+` WHERE discord_id IN (SELECT user_id FROM guild_members WHERE guild_id = ?)`,
		guildID,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		u, err := r.scanUser(rows)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	return users, rows.Err()
}

// Featured achievement operations

// SetFeatured replaces the stored featured achievement for a slot
func (r *Repository) SetFeatured(slot string, f *Featured) error {
	_, err := r.db.Exec(
		`INSERT INTO featured (slot, achievement_id, title, description, points, game_id, game_title, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(slot) DO UPDATE SET
			achievement_id = excluded.achievement_id,
			title = excluded.title,
			description = excluded.description,
			points = excluded.points,
			game_id = excluded.game_id,
			game_title = excluded.game_title,
			updated_at = excluded.updated_at`,
		slot, f.AchievementID, f.Title, f.Description, f.Points, f.GameID, f.GameTitle, time.Now(),
	)
	return err
}

// GetFeatured retrieves the featured achievement for a slot, or nil if
// none has been stored yet
func (r *Repository) GetFeatured(slot string) (*Featured, error) {
	f := &Featured{}
	err := r.db.QueryRow(
		`SELECT achievement_id, title, description, points, game_id, game_title, updated_at
		 FROM featured WHERE slot = ?`,
		slot,
	).Scan(&f.AchievementID, &f.Title, &f.Description, &f.Points, &f.GameID, &f.GameTitle, &f.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return f, nil
}

// Stats operations

// RecordUnlock bumps the unlock counters for one achievement
func (r *Repository) RecordUnlock(points int, hardcore bool) error {
	bucket := pointsBucket(points)
	mode := "softcore"
	if hardcore {
		mode = "hardcore"
	}

	query := fmt.Sprintf(
		`UPDATE stats SET total_cheevos = total_cheevos + 1, total_points = total_points + ?,
		 %s = %s + 1, %s = %s + 1 WHERE id = 1`,
		bucket, bucket, mode, mode,
	)
	_, err := r.db.Exec(query, points)
	return err
}

// RecordAward bumps the mastery or completion counter
func (r *Repository) RecordAward(mastery bool) error {
	column := "completion"
	if mastery {
		column = "mastery"
	}
	_, err := r.db.Exec(fmt.Sprintf(`UPDATE stats SET %s = %s + 1 WHERE id = 1`, column, column))
	return err
}

// GetStats returns the bot-wide counters
func (r *Repository) GetStats() (*Stats, error) {
	s := &Stats{}
	err := r.db.QueryRow(
		`SELECT total_cheevos, total_points, points_1_4, points_5_9, points_10,
		 points_25, points_50, points_100, hardcore, softcore, mastery, completion
		 FROM stats WHERE id = 1`,
	).Scan(&s.TotalCheevos, &s.TotalPoints, &s.Points1to4, &s.Points5to9, &s.Points10,
		&s.Points25, &s.Points50, &s.Points100, &s.Hardcore, &s.Softcore, &s.Mastery, &s.Completion)
	if err != nil {
		return nil, err
	}
	return s, nil
}

// pointsBucket maps an achievement's point value to its stats column.
// Off-scale values land in the nearest bucket.
func pointsBucket(points int) string {
	switch {
	case points <= 4:
		return "points_1_4"
	case points <= 9:
		return "points_5_9"
	case points <= 10:
		return "points_10"
	case points <= 25:
		return "points_25"
	case points <= 50:
		return "points_50"
	default:
		return "points_100"
	}
}
