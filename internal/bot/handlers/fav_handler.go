package handlers

import (
	"context"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/gifbot/internal/dispatch"
)

// NewFavHandler returns a handler for the /fav command family. The first
// argument selects the subcommand; everything after it is passed through.
func NewFavHandler(deps HandlerDeps) bot.HandlerFunc {
	return favHandler{deps}.Handle
}

type favHandler struct {
	deps HandlerDeps
}

func (h favHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "fav")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Fav handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	args := commandArgs(update.Message.Text)
	kind := dispatch.KindFavList
	switch {
	case len(args) == 0 || args[0] == "list":
		kind = dispatch.KindFavList
		args = nil
	case args[0] == "add":
		kind = dispatch.KindFavAdd
		args = args[1:]
	case args[0] == "remove":
		kind = dispatch.KindFavRemove
		args = args[1:]
	default:
		_, err := b.SendMessage(ctx, &bot.SendMessageParams{
			ChatID: update.Message.Chat.ID,
			Text:   "Usage: /fav add (as a reply), /fav list, or /fav remove <number>",
		})
		if err != nil {
			log.ErrorContext(ctx, "Failed to send usage message", "error", err, "chat_id", update.Message.Chat.ID)
		}
		return
	}

	cmd := parseCommand(ctx, b, update, kind)
	cmd.Args = args
	out := h.deps.Dispatcher.Dispatch(ctx, cmd)
	renderOutcome(ctx, b, h.deps, cmd, out)
}
