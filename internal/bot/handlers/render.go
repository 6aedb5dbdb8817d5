package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/gifbot/internal/dispatch"
)

// renderOutcome sends an outcome's text and media to the chat. A favorite
// whose stored file id Telegram no longer accepts is reported to the
// resolver so the dead entry gets cleaned up.
func renderOutcome(ctx context.Context, b *bot.Bot, deps HandlerDeps, cmd dispatch.Command, out dispatch.Outcome) {
	log := deps.Logger.With("handler", "render")

	if out.Text != "" {
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: cmd.ChatID,
			Text:   out.Text,
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send message", "error", err, "chat_id", cmd.ChatID)
		}
	}

	for _, m := range out.Media {
		ref := m.Item.URL
		if ref == "" {
			ref = m.Item.ID
		}
		_, err := b.SendAnimation(ctx, &bot.SendAnimationParams{
			ChatID:    cmd.ChatID,
			Animation: &models.InputFileString{Data: ref},
			Caption:   m.Caption,
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send animation",
				"error", err, "chat_id", cmd.ChatID, "media_id", m.Item.ID)
			// A stored file id that Telegram rejects will never succeed
			// again; drop the favorite rather than failing forever.
			if m.Item.URL == "" && m.Item.ID != "" {
				if rmErr := deps.Resolver.ReportDeadLink(cmd.UserID, m.Item.ID); rmErr != nil {
					log.ErrorContext(ctx, "Failed to drop dead favorite",
						"error", rmErr, "user_id", cmd.UserID, "media_id", m.Item.ID)
				}
			}
		}
	}
}
