package dispatch

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/edgard/gifbot/internal/model"
)

// handleSchedule implements /schedule HH:MM [query]. The time names the
// next occurrence of that wall-clock time, so a time already past today
// lands tomorrow.
func (d *Dispatcher) handleSchedule(cmd Command) (Outcome, error) {
	if len(cmd.Args) < 2 {
		return Outcome{}, model.NewValidationError("Usage: /schedule HH:MM <search query>")
	}

	clock, err := time.Parse("15:04", cmd.Args[0])
	if err != nil {
		return Outcome{}, model.NewValidationError("time must be HH:MM in 24-hour format, got %q", cmd.Args[0])
	}

	now := d.now()
	fireAt := time.Date(now.Year(), now.Month(), now.Day(),
		clock.Hour(), clock.Minute(), 0, 0, now.Location())
	if !fireAt.After(now) {
		// Rebuild with the day bumped instead of adding 24h so the wall
		// clock time survives a DST transition.
		fireAt = time.Date(now.Year(), now.Month(), now.Day()+1,
			clock.Hour(), clock.Minute(), 0, 0, now.Location())
	}

	query := strings.Join(cmd.Args[1:], " ")
	post, err := d.ledger.Create(cmd.ChatID, cmd.UserID, query, fireAt)
	if err != nil {
		return Outcome{}, err
	}

	return textOutcome(fmt.Sprintf(
		"Scheduled post #%d: a %q GIF will be posted here at %s.",
		post.ID, post.Query, post.FireAt.Format("15:04 on Jan 2"))), nil
}

// handleUnschedule implements /unschedule [id]. Bare /unschedule lists the
// chat's pending posts. Cancelling someone else's post requires admin.
func (d *Dispatcher) handleUnschedule(cmd Command) (Outcome, error) {
	pending := d.ledger.Pending(cmd.ChatID)

	if len(cmd.Args) == 0 {
		if len(pending) == 0 {
			return textOutcome("No pending scheduled posts in this chat."), nil
		}
		var b strings.Builder
		b.WriteString("Pending scheduled posts:\n")
		for _, p := range pending {
			fmt.Fprintf(&b, "#%d: %q at %s\n", p.ID, p.Query, p.FireAt.Format("15:04 on Jan 2"))
		}
		b.WriteString("Use /unschedule <id> to cancel one.")
		return textOutcome(b.String()), nil
	}

	id, err := strconv.ParseInt(cmd.Args[0], 10, 64)
	if err != nil {
		return Outcome{}, model.NewValidationError("post id must be a number, got %q", cmd.Args[0])
	}

	var target *model.ScheduledPost
	for i := range pending {
		if pending[i].ID == id {
			target = &pending[i]
			break
		}
	}
	if target == nil {
		return Outcome{}, model.NewNotFoundError(model.NotFoundUnknownPost,
			"no pending scheduled post #%d in this chat", id)
	}
	if target.UserID != cmd.UserID {
		if err := requireAdmin(cmd); err != nil {
			return Outcome{}, err
		}
	}

	if err := d.ledger.Cancel(id); err != nil {
		return Outcome{}, err
	}
	return textOutcome(fmt.Sprintf("Scheduled post #%d cancelled.", id)), nil
}
