// Package handlers contains Telegram command and message handlers, along
// with their registration logic. Handlers only parse updates and render
// outcomes; all behavior lives behind the dispatcher.
package handlers

import (
	"log/slog"

	"github.com/edgard/gifbot/internal/dispatch"
	"github.com/edgard/gifbot/internal/resolver"
)

// HandlerDeps provides dependencies for Telegram handlers.
type HandlerDeps struct {
	Logger     *slog.Logger
	Dispatcher *dispatch.Dispatcher
	Resolver   *resolver.Resolver
}
