// Package trigger implements passive-mode keyword matching with per-chat
// rate limiting. Matching is deterministic keyword lookup against a static
// table; there is no semantic interpretation of the text.
package trigger

import (
	"log/slog"
	"math/rand/v2"
	"strings"
	"time"

	"github.com/edgard/gifbot/internal/config"
	"github.com/edgard/gifbot/internal/store"
)

// Result is the outcome of evaluating one chat message. When Fired is false
// the message produced no reaction and no state was mutated.
type Result struct {
	Fired   bool
	Trigger string
	Query   string
}

// Matcher maps free-text chat content to GIF search intents. It consults
// the chat's passive-mode setting and an in-memory rate-limit window; it
// never touches persisted state.
type Matcher struct {
	entries []config.TriggerConfig
	store   *store.Store
	limiter *rateLimiter
	log     *slog.Logger

	// pick selects one of n candidate queries. Injectable for tests.
	pick func(n int) int
}

// Option customizes a Matcher.
type Option func(*Matcher)

// WithNow overrides the clock used by the rate-limit window.
func WithNow(now func() time.Time) Option {
	return func(m *Matcher) {
		m.limiter.now = now
	}
}

// WithPick overrides the candidate-query selector.
func WithPick(pick func(n int) int) Option {
	return func(m *Matcher) {
		m.pick = pick
	}
}

// New creates a Matcher from the passive-mode configuration. The trigger
// table keeps its configured order, so evaluation is reproducible: the first
// entry whose word occurs in a message always wins.
func New(cfg config.PassiveConfig, st *store.Store, log *slog.Logger, opts ...Option) *Matcher {
	if log == nil {
		log = slog.Default()
	}
	m := &Matcher{
		entries: cfg.Triggers,
		store:   st,
		limiter: newRateLimiter(cfg.RateLimit, cfg.RateWindow),
		log:     log.With("component", "trigger_matcher"),
		pick:    rand.IntN,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Evaluate decides whether text should fire a passive GIF reaction in
// chatID. Rate-limit suppression is a designed no-op, not a fault: it is
// logged at debug level and nothing else happens.
func (m *Matcher) Evaluate(chatID int64, text string) Result {
	if text == "" {
		return Result{}
	}
	if !m.store.Group(chatID).PassiveMode {
		return Result{}
	}

	lowered := strings.ToLower(text)
	for _, e := range m.entries {
		if !strings.Contains(lowered, strings.ToLower(e.Word)) {
			continue
		}

		if !m.limiter.allow(chatID) {
			m.log.Debug("Passive trigger suppressed by rate limit",
				"chat_id", chatID, "trigger", e.Word)
			return Result{}
		}

		query := e.Queries[m.pick(len(e.Queries))]
		m.log.Debug("Passive trigger fired",
			"chat_id", chatID, "trigger", e.Word, "query", query)
		return Result{Fired: true, Trigger: e.Word, Query: query}
	}

	return Result{}
}
