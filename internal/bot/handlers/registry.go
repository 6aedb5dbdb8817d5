package handlers

import (
	tgbot "github.com/go-telegram/bot"

	"github.com/edgard/gifbot/internal/dispatch"
)

// RegisteredHandler represents a command handler ready for registration
// with the Telegram bot instance.
type RegisteredHandler struct {
	HandlerType tgbot.HandlerType
	Pattern     string
	Handler     tgbot.HandlerFunc
	Middleware  []tgbot.Middleware
	MatchType   tgbot.MatchType
}

// RegisterAllCommands initializes and returns a map of all available bot
// commands. Admin gating happens inside the dispatcher, so no command needs
// middleware here.
func RegisterAllCommands(deps HandlerDeps) map[string]RegisteredHandler {
	commands := map[string]dispatch.Kind{
		"start":      dispatch.KindStart,
		"help":       dispatch.KindHelp,
		"s":          dispatch.KindSearch,
		"r":          dispatch.KindRandom,
		"random":     dispatch.KindRandomAny,
		"trending":   dispatch.KindTrending,
		"label":      dispatch.KindLabel,
		"gif":        dispatch.KindQuickGif,
		"toggle":     dispatch.KindTogglePassive,
		"setmax":     dispatch.KindSetMax,
		"safe":       dispatch.KindToggleSafe,
		"stats":      dispatch.KindStats,
		"quote":      dispatch.KindQuote,
		"schedule":   dispatch.KindSchedule,
		"unschedule": dispatch.KindUnschedule,
		"info":       dispatch.KindInfo,
	}

	handlers := make(map[string]RegisteredHandler, len(commands)+1)
	for pattern, kind := range commands {
		handlers["/"+pattern] = RegisteredHandler{
			HandlerType: tgbot.HandlerTypeMessageText,
			Pattern:     pattern,
			Handler:     NewCommandHandler(deps, kind),
			MatchType:   tgbot.MatchTypeCommandStartOnly,
		}
	}

	handlers["/fav"] = RegisteredHandler{
		HandlerType: tgbot.HandlerTypeMessageText,
		Pattern:     "fav",
		Handler:     NewFavHandler(deps),
		MatchType:   tgbot.MatchTypeCommandStartOnly,
	}

	return handlers
}
