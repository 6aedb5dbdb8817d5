package dispatch

import (
	"fmt"
	"strconv"

	"github.com/edgard/gifbot/internal/model"
	"github.com/edgard/gifbot/internal/store"
)

// handleTogglePassive implements /toggle passive. Admin only.
func (d *Dispatcher) handleTogglePassive(cmd Command) (Outcome, error) {
	if err := requireAdmin(cmd); err != nil {
		return Outcome{}, err
	}
	if len(cmd.Args) == 0 || cmd.Args[0] != "passive" {
		return Outcome{}, model.NewValidationError("Usage: /toggle passive")
	}

	var enabled bool
	err := d.store.Mutate(func(st *store.State) error {
		g := st.EnsureGroup(cmd.ChatID)
		g.PassiveMode = !g.PassiveMode
		enabled = g.PassiveMode
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	if enabled {
		return textOutcome("Passive GIF mode enabled. I'll react to trigger words in this chat."), nil
	}
	return textOutcome("Passive GIF mode disabled for this chat."), nil
}

// handleSetMax implements /setmax [n]. Admin only. Values outside the
// allowed range are rejected rather than clamped.
func (d *Dispatcher) handleSetMax(cmd Command) (Outcome, error) {
	if err := requireAdmin(cmd); err != nil {
		return Outcome{}, err
	}
	if len(cmd.Args) == 0 {
		return Outcome{}, model.NewValidationError(
			"Usage: /setmax <number between %d and %d>", model.MinMaxGifs, model.MaxMaxGifs)
	}
	n, err := strconv.Atoi(cmd.Args[0])
	if err != nil || n < model.MinMaxGifs || n > model.MaxMaxGifs {
		return Outcome{}, model.NewValidationError(
			"max GIFs per request must be between %d and %d, got %q",
			model.MinMaxGifs, model.MaxMaxGifs, cmd.Args[0])
	}

	err = d.store.Mutate(func(st *store.State) error {
		st.EnsureGroup(cmd.ChatID).MaxGifs = n
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	return textOutcome(fmt.Sprintf("Max GIFs per search set to %d for this chat.", n)), nil
}

// handleToggleSafe implements /safe. Admin only.
func (d *Dispatcher) handleToggleSafe(cmd Command) (Outcome, error) {
	if err := requireAdmin(cmd); err != nil {
		return Outcome{}, err
	}

	var safe bool
	err := d.store.Mutate(func(st *store.State) error {
		g := st.EnsureGroup(cmd.ChatID)
		g.SafeMode = !g.SafeMode
		safe = g.SafeMode
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	if safe {
		return textOutcome("Safe mode enabled. Search results are filtered for this chat."), nil
	}
	return textOutcome("Safe mode disabled. Search results are unfiltered for this chat."), nil
}
