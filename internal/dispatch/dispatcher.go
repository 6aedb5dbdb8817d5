package dispatch

import (
	"context"
	"errors"
	"log/slog"
	"math/rand/v2"
	"time"

	"github.com/edgard/gifbot/internal/model"
	"github.com/edgard/gifbot/internal/resolver"
	"github.com/edgard/gifbot/internal/schedule"
	"github.com/edgard/gifbot/internal/store"
	"github.com/edgard/gifbot/internal/tenor"
	"github.com/edgard/gifbot/internal/trigger"
)

// Dispatcher composes the store, resolver, trigger matcher and scheduler
// ledger into command handling. It is pure orchestration: every durable
// change goes through the store, and the search collaborator is only ever
// called outside store mutations.
type Dispatcher struct {
	log      *slog.Logger
	store    *store.Store
	resolver *resolver.Resolver
	matcher  *trigger.Matcher
	ledger   *schedule.Ledger
	search   tenor.Client

	// pick and now are injectable for tests.
	pick func(n int) int
	now  func() time.Time
}

// Option customizes a Dispatcher.
type Option func(*Dispatcher)

// WithPick overrides random selection among candidate results.
func WithPick(pick func(n int) int) Option {
	return func(d *Dispatcher) { d.pick = pick }
}

// WithNow overrides the clock used for timestamps and schedule parsing.
func WithNow(now func() time.Time) Option {
	return func(d *Dispatcher) { d.now = now }
}

// New creates a Dispatcher.
func New(
	log *slog.Logger,
	st *store.Store,
	res *resolver.Resolver,
	matcher *trigger.Matcher,
	ledger *schedule.Ledger,
	search tenor.Client,
	opts ...Option,
) *Dispatcher {
	if log == nil {
		log = slog.Default()
	}
	d := &Dispatcher{
		log:      log.With("component", "dispatcher"),
		store:    st,
		resolver: res,
		matcher:  matcher,
		ledger:   ledger,
		search:   search,
		pick:     rand.IntN,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Dispatch routes one parsed command and returns the outcome to render.
// Typed errors from any component are translated into user-facing messages
// here; no error is swallowed.
func (d *Dispatcher) Dispatch(ctx context.Context, cmd Command) Outcome {
	out, err := d.route(ctx, cmd)
	if err != nil {
		d.logError(ctx, cmd, err)
		return Outcome{Text: userMessage(err), Err: err}
	}
	return out
}

func (d *Dispatcher) route(ctx context.Context, cmd Command) (Outcome, error) {
	switch cmd.Kind {
	case KindStart:
		return textOutcome(msgWelcome), nil
	case KindHelp:
		return textOutcome(msgHelp), nil
	case KindSearch:
		return d.handleSearch(ctx, cmd)
	case KindRandom:
		return d.handleRandom(ctx, cmd)
	case KindRandomAny:
		return d.handleRandomAny(ctx, cmd)
	case KindTrending:
		return d.handleTrending(ctx, cmd)
	case KindFavAdd:
		return d.handleFavAdd(ctx, cmd)
	case KindFavList:
		return d.handleFavList(cmd)
	case KindFavRemove:
		return d.handleFavRemove(ctx, cmd)
	case KindLabel:
		return d.handleLabel(ctx, cmd)
	case KindQuickGif:
		return d.handleQuickGif(ctx, cmd)
	case KindTogglePassive:
		return d.handleTogglePassive(cmd)
	case KindSetMax:
		return d.handleSetMax(cmd)
	case KindToggleSafe:
		return d.handleToggleSafe(cmd)
	case KindStats:
		return d.handleStats(cmd)
	case KindQuote:
		return d.handleQuote(ctx, cmd)
	case KindSchedule:
		return d.handleSchedule(cmd)
	case KindUnschedule:
		return d.handleUnschedule(cmd)
	case KindInfo:
		return d.handleInfo(ctx, cmd)
	default:
		return Outcome{}, model.NewValidationError("unknown command")
	}
}

// requireAdmin gates a command on the sender's admin capability. Commands
// are always permitted in a private chat.
func requireAdmin(cmd Command) error {
	if cmd.Private || cmd.SenderIsAdmin {
		return nil
	}
	return &model.PermissionError{Msg: "This command is for group admins only."}
}

func (d *Dispatcher) logError(ctx context.Context, cmd Command, err error) {
	var (
		validation *model.ValidationError
		permission *model.PermissionError
		notFound   *model.NotFoundError
	)
	switch {
	case errors.As(err, &validation), errors.As(err, &notFound):
		d.log.DebugContext(ctx, "Command rejected",
			"kind", cmd.Kind, "chat_id", cmd.ChatID, "user_id", cmd.UserID, "error", err)
	case errors.As(err, &permission):
		d.log.WarnContext(ctx, "Admin command refused",
			"kind", cmd.Kind, "chat_id", cmd.ChatID, "user_id", cmd.UserID)
	default:
		d.log.ErrorContext(ctx, "Command failed",
			"kind", cmd.Kind, "chat_id", cmd.ChatID, "user_id", cmd.UserID, "error", err)
	}
}

// userMessage maps every error kind to a human-actionable message for the
// transport layer to render.
func userMessage(err error) string {
	var (
		validation   *model.ValidationError
		permission   *model.PermissionError
		notFound     *model.NotFoundError
		persistence  *model.PersistenceError
		invalidState *model.InvalidStateError
	)
	switch {
	case errors.As(err, &validation):
		return validation.Msg
	case errors.As(err, &permission):
		return permission.Msg
	case errors.As(err, &notFound):
		return notFound.Msg
	case errors.As(err, &persistence):
		return "Couldn't save that change, so it was not applied. Please try again."
	case errors.As(err, &invalidState):
		return invalidState.Msg
	default:
		return "An error occurred. Please try again later."
	}
}

// pickItem selects one item from a non-empty result list.
func (d *Dispatcher) pickItem(items []model.MediaItem) model.MediaItem {
	return items[d.pick(len(items))]
}

// bumpStat records a per-user counter increment, ignoring persistence
// failures: losing a stat tick is preferable to failing a command whose
// media already went out.
func (d *Dispatcher) bumpStat(userID int64, metric string, delta int64) {
	err := d.store.Mutate(func(st *store.State) error {
		st.AddStat(userID, metric, delta)
		return nil
	})
	if err != nil {
		d.log.Warn("Failed to record stat", "user_id", userID, "metric", metric, "error", err)
	}
}
