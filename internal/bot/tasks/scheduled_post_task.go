package tasks

import (
	"context"
	"fmt"
	"time"

	tgbot "github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
)

// Candidate pool size when picking the GIF for a scheduled post.
const postSearchLimit = 5

// newScheduledPostTask creates the task that delivers due scheduled posts.
// A post transitions to fired after one delivery attempt; posts whose
// search failed stay pending and are retried on the next tick.
func newScheduledPostTask(deps TaskDeps) ScheduledTaskFunc {
	log := deps.Logger.With("task", "scheduled_posts")

	return func(ctx context.Context) error {
		due := deps.Ledger.Due(time.Now())
		if len(due) == 0 {
			return nil
		}
		log.InfoContext(ctx, "Delivering due scheduled posts", "count", len(due))

		var firstErr error
		for _, post := range due {
			group := deps.Store.Group(post.ChatID)
			items, err := deps.Search.Search(ctx, post.Query, group.SafeMode, postSearchLimit)
			if err != nil {
				log.ErrorContext(ctx, "Search for scheduled post failed",
					"post_id", post.ID, "query", post.Query, "error", err)
				if firstErr == nil {
					firstErr = fmt.Errorf("scheduled post %d search: %w", post.ID, err)
				}
				continue
			}

			if len(items) == 0 {
				_, err = deps.TgBot.SendMessage(ctx, &tgbot.SendMessageParams{
					ChatID: post.ChatID,
					Text:   fmt.Sprintf("Scheduled post: no GIFs found for %q", post.Query),
				})
			} else {
				_, err = deps.TgBot.SendAnimation(ctx, &tgbot.SendAnimationParams{
					ChatID:    post.ChatID,
					Animation: &models.InputFileString{Data: items[0].URL},
					Caption:   fmt.Sprintf("Scheduled GIF: %s", post.Query),
				})
			}
			if err != nil {
				log.ErrorContext(ctx, "Failed to deliver scheduled post",
					"post_id", post.ID, "chat_id", post.ChatID, "error", err)
			}

			if err := deps.Ledger.MarkFired(post.ID); err != nil {
				log.ErrorContext(ctx, "Failed to mark post as fired", "post_id", post.ID, "error", err)
				if firstErr == nil {
					firstErr = fmt.Errorf("scheduled post %d: %w", post.ID, err)
				}
			}
		}
		return firstErr
	}
}
