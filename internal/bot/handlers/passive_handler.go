package handlers

import (
	"context"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/gifbot/internal/dispatch"
)

// NewPassiveHandler returns the default handler for free chat text. It
// feeds messages through the passive trigger path; anything that looks
// like a command is left alone.
func NewPassiveHandler(deps HandlerDeps) bot.HandlerFunc {
	return passiveHandler{deps}.Handle
}

type passiveHandler struct {
	deps HandlerDeps
}

func (h passiveHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	if update.Message == nil || update.Message.From == nil {
		return
	}
	msg := update.Message
	if msg.Text == "" || strings.HasPrefix(msg.Text, "/") || msg.From.IsBot {
		return
	}

	out := h.deps.Dispatcher.HandlePassive(ctx, msg.Chat.ID, msg.From.ID, msg.Text)
	if len(out.Media) == 0 && out.Text == "" {
		return
	}

	cmd := dispatch.Command{UserID: msg.From.ID, ChatID: msg.Chat.ID}
	renderOutcome(ctx, b, h.deps, cmd, out)
}
