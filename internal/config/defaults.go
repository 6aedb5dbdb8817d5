package config

import "time"

// Default values for configuration.
const (
	// Log defaults
	DefaultLogLevel = "info"
	DefaultLogJSON  = false

	// Tenor defaults
	DefaultTenorBaseURL    = "https://tenor.googleapis.com/v2"
	DefaultTenorTimeout    = 10 * time.Second
	DefaultTenorMaxRetries = 2
	DefaultTenorRetryDelay = 2 * time.Second

	// Store defaults
	DefaultStorePath = "bot_data.json"

	// Passive mode defaults: at most RateLimit firings per chat per window.
	DefaultPassiveRateLimit  = 3
	DefaultPassiveRateWindow = time.Minute

	// How often the delivery driver polls the scheduler ledger for due posts.
	// Six-field cron expression (with seconds).
	DefaultPostPollSchedule = "*/30 * * * * *"
)

// DefaultTriggers returns the built-in passive-mode trigger table. Order
// matters: the first entry whose word occurs in a message wins.
func DefaultTriggers() []TriggerConfig {
	return []TriggerConfig{
		{Word: "lol", Queries: []string{"funny", "laugh", "lmao"}},
		{Word: "bruh", Queries: []string{"facepalm", "really", "seriously"}},
		{Word: "sad", Queries: []string{"crying", "tear", "depression"}},
		{Word: "happy", Queries: []string{"celebration", "joy", "party"}},
		{Word: "angry", Queries: []string{"mad", "rage", "furious"}},
		{Word: "love", Queries: []string{"heart", "romance", "cute"}},
		{Word: "wow", Queries: []string{"amazed", "surprised", "mind blown"}},
		{Word: "tired", Queries: []string{"sleepy", "exhausted", "yawn"}},
	}
}
