// Package schedule implements the scheduled-post ledger: recording future
// "post this GIF at time T" intents and answering due-item queries. The
// ledger owns no timers; an external driver polls Due and acknowledges
// delivery with MarkFired.
package schedule

import (
	"log/slog"
	"sort"
	"time"

	"github.com/edgard/gifbot/internal/model"
	"github.com/edgard/gifbot/internal/store"
)

// Ledger records scheduled posts in the state document.
type Ledger struct {
	store *store.Store
	log   *slog.Logger
	now   func() time.Time
}

// New creates a Ledger. now is injectable for tests; pass nil for the wall
// clock.
func New(st *store.Store, log *slog.Logger, now func() time.Time) *Ledger {
	if log == nil {
		log = slog.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Ledger{
		store: st,
		log:   log.With("component", "schedule_ledger"),
		now:   now,
	}
}

// Create records a pending post for chatID. fireAt must be strictly in the
// future relative to the scheduling moment, otherwise a ValidationError is
// returned.
func (l *Ledger) Create(chatID, userID int64, query string, fireAt time.Time) (model.ScheduledPost, error) {
	if query == "" {
		return model.ScheduledPost{}, model.NewValidationError("schedule needs a search query")
	}
	now := l.now()
	if !fireAt.After(now) {
		return model.ScheduledPost{}, model.NewValidationError(
			"scheduled time %s is not in the future", fireAt.Format("15:04"))
	}

	var post model.ScheduledPost
	err := l.store.Mutate(func(st *store.State) error {
		post = st.AppendScheduledPost(chatID, userID, query, fireAt, now)
		st.AddStat(userID, model.StatScheduled, 1)
		return nil
	})
	if err != nil {
		return model.ScheduledPost{}, err
	}

	l.log.Info("Scheduled post recorded",
		"post_id", post.ID, "chat_id", chatID, "query", query, "fire_at", fireAt)
	return post, nil
}

// Due returns every pending post with fire_at <= now, ordered by fire_at
// ascending then id ascending. Fired and cancelled posts are never returned.
func (l *Ledger) Due(now time.Time) []model.ScheduledPost {
	var due []model.ScheduledPost
	for _, p := range l.store.ScheduledPosts() {
		if p.Status == model.PostPending && !p.FireAt.After(now) {
			due = append(due, p)
		}
	}
	sort.Slice(due, func(i, j int) bool {
		if !due[i].FireAt.Equal(due[j].FireAt) {
			return due[i].FireAt.Before(due[j].FireAt)
		}
		return due[i].ID < due[j].ID
	})
	return due
}

// Pending returns the chat's pending posts in id order, for listing.
func (l *Ledger) Pending(chatID int64) []model.ScheduledPost {
	var out []model.ScheduledPost
	for _, p := range l.store.ScheduledPosts() {
		if p.ChatID == chatID && p.Status == model.PostPending {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

// MarkFired transitions a pending post to fired. Retried external triggers
// are rejected with an InvalidStateError so a post can never double-fire.
func (l *Ledger) MarkFired(id int64) error {
	return l.transition(id, model.PostFired)
}

// Cancel transitions a pending post to cancelled.
func (l *Ledger) Cancel(id int64) error {
	return l.transition(id, model.PostCancelled)
}

func (l *Ledger) transition(id int64, to model.PostStatus) error {
	err := l.store.Mutate(func(st *store.State) error {
		post := st.FindScheduledPost(id)
		if post == nil {
			return model.NewNotFoundError(model.NotFoundUnknownPost, "no scheduled post #%d", id)
		}
		if post.Status != model.PostPending {
			return model.NewInvalidStateError(
				"scheduled post #%d is %s, not pending", id, post.Status)
		}
		post.Status = to
		return nil
	})
	if err != nil {
		return err
	}
	l.log.Info("Scheduled post transitioned", "post_id", id, "status", to)
	return nil
}
