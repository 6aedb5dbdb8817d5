package handlers

import (
	"context"
	"strconv"
	"strings"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/edgard/gifbot/internal/dispatch"
	"github.com/edgard/gifbot/internal/model"
)

// NewCommandHandler returns a handler that parses a slash command update
// into the given command kind and dispatches it.
func NewCommandHandler(deps HandlerDeps, kind dispatch.Kind) bot.HandlerFunc {
	return commandHandler{deps: deps, kind: kind}.Handle
}

type commandHandler struct {
	deps HandlerDeps
	kind dispatch.Kind
}

func (h commandHandler) Handle(ctx context.Context, b *bot.Bot, update *models.Update) {
	log := h.deps.Logger.With("handler", "command")

	if update.Message == nil || update.Message.From == nil {
		log.WarnContext(ctx, "Command handler received update with nil message or sender", "update_id", update.ID)
		return
	}

	cmd := parseCommand(ctx, b, update, h.kind)
	out := h.deps.Dispatcher.Dispatch(ctx, cmd)
	renderOutcome(ctx, b, h.deps, cmd, out)
}

// parseCommand turns a message update into a dispatchable command. The
// sender's admin capability is resolved here so the dispatcher never has to
// talk to Telegram; the chat member lookup only happens for gated kinds.
func parseCommand(ctx context.Context, b *bot.Bot, update *models.Update, kind dispatch.Kind) dispatch.Command {
	msg := update.Message
	private := msg.Chat.Type == "private"

	admin := private
	if !private && adminGated(kind) {
		admin = senderIsAdmin(ctx, b, msg.Chat.ID, msg.From.ID)
	}

	return dispatch.Command{
		Kind:          kind,
		Args:          commandArgs(msg.Text),
		UserID:        msg.From.ID,
		ChatID:        msg.Chat.ID,
		Private:       private,
		SenderIsAdmin: admin,
		ReplyMedia:    replyMedia(msg),
	}
}

// adminGated reports whether dispatching kind can consult the sender's
// admin capability, so the per-command member lookup is skipped everywhere
// else. Unschedule is included for cancelling another user's post.
func adminGated(kind dispatch.Kind) bool {
	switch kind {
	case dispatch.KindTogglePassive, dispatch.KindSetMax, dispatch.KindToggleSafe, dispatch.KindUnschedule:
		return true
	default:
		return false
	}
}

// commandArgs drops the leading "/command" token (and any @botname suffix)
// and returns the remaining whitespace-separated arguments.
func commandArgs(text string) []string {
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return nil
	}
	return fields[1:]
}

// replyMedia extracts the animation carried by the replied-to message, nil
// when the command was not a reply or the reply carries no animation.
func replyMedia(msg *models.Message) *model.MediaItem {
	if msg.ReplyToMessage == nil || msg.ReplyToMessage.Animation == nil {
		return nil
	}
	anim := msg.ReplyToMessage.Animation
	return &model.MediaItem{
		ID: anim.FileID,
		Metadata: map[string]string{
			"width":     strconv.Itoa(anim.Width),
			"height":    strconv.Itoa(anim.Height),
			"duration":  strconv.Itoa(anim.Duration),
			"file_size": strconv.FormatInt(anim.FileSize, 10),
		},
	}
}

// senderIsAdmin reports whether the user holds owner or administrator
// status in the chat. Lookup failures count as non-admin.
func senderIsAdmin(ctx context.Context, b *bot.Bot, chatID, userID int64) bool {
	member, err := b.GetChatMember(ctx, &bot.GetChatMemberParams{
		ChatID: chatID,
		UserID: userID,
	})
	if err != nil || member == nil {
		return false
	}
	return member.Type == models.ChatMemberTypeOwner ||
		member.Type == models.ChatMemberTypeAdministrator
}
