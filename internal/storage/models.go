package storage

import "time"

// User is one registered RetroAchievements account
type User struct {
	DiscordID  string
	RAUsername string
	RAAPIKey   string

	// Presentation settings for rendered cards
	Background string
	Color      string

	// Watermark: the last achievement already processed. An achievement
	// is new only if its id differs AND it was awarded strictly later.
	LastAchievementID int
	LastAchievementAt time.Time

	// Featured-achievement unlock flags
	AotwUnlocked bool
	AotmUnlocked bool

	// Most recent mastery/completion award
	LatestAwardBadge    string
	LatestAwardHardcore bool

	CreatedAt time.Time
	UpdatedAt time.Time
}

// Guild stores per-server configuration
type Guild struct {
	GuildID string
	// ChannelID empty means no local notifications for this guild
	ChannelID string
	Lang      string
	// GlobalNotifications lets broadcasts for exceptional achievements
	// of non-member users reach this guild
	GlobalNotifications bool
	CreatedAt           time.Time
}

// HistoryEntry is one achievement in a user's bounded rolling history
type HistoryEntry struct {
	ID            int64
	UserID        string
	AchievementID int
	Title         string
	Points        int
	GameTitle     string
	BadgeURL      string
	Hardcore      bool
	AwardedAt     time.Time
}

// Featured is a stored achievement-of-the-week or -month record
type Featured struct {
	AchievementID int
	Title         string
	Description   string
	Points        int
	GameID        int
	GameTitle     string
	UpdatedAt     time.Time
}

// Featured slots
const (
	SlotWeek  = "aotw"
	SlotMonth = "aotm"
)

// Stats holds bot-wide unlock counters
type Stats struct {
	TotalCheevos int64
	TotalPoints  int64
	Points1to4   int64
	Points5to9   int64
	Points10     int64
	Points25     int64
	Points50     int64
	Points100    int64
	Hardcore     int64
	Softcore     int64
	Mastery      int64
	Completion   int64
}
