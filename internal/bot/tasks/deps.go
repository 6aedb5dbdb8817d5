// Package tasks implements the bot's scheduled background tasks.
package tasks

import (
	"log/slog"

	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/gifbot/internal/schedule"
	"github.com/edgard/gifbot/internal/store"
	"github.com/edgard/gifbot/internal/tenor"
)

// TaskDeps contains all dependencies required by scheduled tasks.
type TaskDeps struct {
	Logger *slog.Logger
	Store  *store.Store
	Ledger *schedule.Ledger
	Search tenor.Client
	TgBot  *tgbot.Bot
}
