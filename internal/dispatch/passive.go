package dispatch

import (
	"context"

	"github.com/edgard/gifbot/internal/model"
)

// Candidate pool size for a passive reaction; one result is picked from it.
const passiveSearchLimit = 5

// HandlePassive evaluates free chat text against the trigger table and, when
// a trigger fires, produces a single GIF reaction. A zero-value Outcome means
// the message should be left alone.
func (d *Dispatcher) HandlePassive(ctx context.Context, chatID, userID int64, text string) Outcome {
	res := d.matcher.Evaluate(chatID, text)
	if !res.Fired {
		return Outcome{}
	}

	group := d.store.Group(chatID)
	items, err := d.search.Search(ctx, res.Query, group.SafeMode, passiveSearchLimit)
	if err != nil {
		// Passive reactions are best effort; a provider failure must not
		// surface as an error message in the chat.
		d.log.WarnContext(ctx, "Passive search failed",
			"chat_id", chatID, "trigger", res.Trigger, "query", res.Query, "error", err)
		return Outcome{}
	}
	if len(items) == 0 {
		return Outcome{}
	}

	d.bumpStat(userID, model.StatTriggersFired, 1)
	return Outcome{Media: []Media{{Item: d.pickItem(items)}}}
}
