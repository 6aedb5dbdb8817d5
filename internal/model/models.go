// Package model defines the entities owned by the store and the typed
// errors shared by every component of the bot.
package model

import "time"

// MediaItem is a single GIF result as returned by the search provider.
// Metadata carries provider-specific extras (dimensions, content description)
// and is never interpreted by the core.
type MediaItem struct {
	ID       string            `json:"id"`
	URL      string            `json:"url"`
	Metadata map[string]string `json:"metadata,omitempty"`
}

// FavoriteEntry is a saved GIF. Entries are immutable once created; the only
// permitted change is removal from the owning user's favorites list.
type FavoriteEntry struct {
	MediaID     string    `json:"media_id"`
	MediaURL    string    `json:"media_url"`
	SourceQuery string    `json:"source_query,omitempty"`
	AddedAt     time.Time `json:"added_at"`
}

// UserProfile holds everything the bot remembers about a single user.
// Favorites keep insertion order, which is also the 1-based display order.
// Label keys are stored lowercased so lookups are case-insensitive.
type UserProfile struct {
	UserID    int64                    `json:"user_id"`
	Favorites []FavoriteEntry          `json:"favorites,omitempty"`
	Labels    map[string]FavoriteEntry `json:"labels,omitempty"`
	Stats     map[string]int64         `json:"stats,omitempty"`
}

// Group settings bounds.
const (
	MinMaxGifs     = 1
	MaxMaxGifs     = 5
	DefaultMaxGifs = 3
)

// GroupSettings holds per-chat configuration, mutated only by admin-gated
// commands. A record is created lazily with these defaults on first access
// and is never removed afterwards.
type GroupSettings struct {
	ChatID      int64 `json:"chat_id"`
	PassiveMode bool  `json:"passive_mode"`
	MaxGifs     int   `json:"max_gifs"`
	SafeMode    bool  `json:"safe_mode"`
}

// DefaultGroupSettings returns the settings a chat has before any admin
// command touches it.
func DefaultGroupSettings(chatID int64) GroupSettings {
	return GroupSettings{
		ChatID:      chatID,
		PassiveMode: false,
		MaxGifs:     DefaultMaxGifs,
		SafeMode:    true,
	}
}

// PostStatus is the lifecycle state of a scheduled post.
type PostStatus string

// Scheduled post lifecycle. Pending posts transition to fired when the
// delivery driver consumes them, or to cancelled on explicit request.
// Neither terminal state may be left again.
const (
	PostPending   PostStatus = "pending"
	PostFired     PostStatus = "fired"
	PostCancelled PostStatus = "cancelled"
)

// ScheduledPost records a "post this query's GIF at time T" intent.
// IDs are assigned monotonically by the store and never reused.
type ScheduledPost struct {
	ID      int64      `json:"id"`
	ChatID  int64      `json:"chat_id"`
	UserID  int64      `json:"user_id"`
	Query   string     `json:"query"`
	FireAt  time.Time  `json:"fire_at"`
	Status  PostStatus `json:"status"`
	Created time.Time  `json:"created_at"`
}

// Stat metric names tracked per user. Kept as plain strings in the document
// so adding a metric never needs a migration.
const (
	StatGifsRequested  = "gifs_requested"
	StatFavoritesSaved = "favorites_saved"
	StatTriggersFired  = "triggers_fired"
	StatScheduled      = "scheduled_posts"
)
