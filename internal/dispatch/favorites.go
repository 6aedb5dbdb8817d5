package dispatch

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/edgard/gifbot/internal/model"
	"github.com/edgard/gifbot/internal/resolver"
	"github.com/edgard/gifbot/internal/store"
)

// Display cap when listing favorites in chat.
const favListLimit = 10

// handleFavAdd implements /fav add, issued as a reply to a GIF.
func (d *Dispatcher) handleFavAdd(ctx context.Context, cmd Command) (Outcome, error) {
	items, err := d.resolver.Resolve(ctx, resolver.Ref{
		Kind:  resolver.RefReply,
		Reply: cmd.ReplyMedia,
	})
	if err != nil {
		return Outcome{}, err
	}
	item := items[0]

	var added bool
	var total int
	err = d.store.Mutate(func(st *store.State) error {
		added = st.AddFavorite(cmd.UserID, model.FavoriteEntry{
			MediaID:  item.ID,
			MediaURL: item.URL,
			AddedAt:  d.now(),
		})
		if added {
			st.AddStat(cmd.UserID, model.StatFavoritesSaved, 1)
		}
		total = len(st.EnsureUser(cmd.UserID).Favorites)
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	if !added {
		return textOutcome("This GIF is already in your favorites."), nil
	}
	return textOutcome(fmt.Sprintf("GIF saved to favorites (%d total). Use /fav list to see them all.", total)), nil
}

// handleFavList implements /fav list.
func (d *Dispatcher) handleFavList(cmd Command) (Outcome, error) {
	favs := d.store.User(cmd.UserID).Favorites
	if len(favs) == 0 {
		return textOutcome("You don't have any favorite GIFs yet. Reply to any GIF with /fav add to save it."), nil
	}

	shown := favs
	if len(shown) > favListLimit {
		shown = shown[:favListLimit]
	}

	out := Outcome{
		Text:  fmt.Sprintf("Your %d favorite GIFs:", len(favs)),
		Media: make([]Media, 0, len(shown)),
	}
	for i, f := range shown {
		out.Media = append(out.Media, Media{
			Item:    model.MediaItem{ID: f.MediaID, URL: f.MediaURL},
			Caption: fmt.Sprintf("Favorite #%d", i+1),
		})
	}
	if len(favs) > favListLimit {
		out.Text += fmt.Sprintf(" (showing the first %d)", favListLimit)
	}
	return out, nil
}

// handleFavRemove implements /fav remove [number].
func (d *Dispatcher) handleFavRemove(ctx context.Context, cmd Command) (Outcome, error) {
	if len(cmd.Args) == 0 {
		return Outcome{}, model.NewValidationError("Usage: /fav remove <number>")
	}
	index, err := strconv.Atoi(cmd.Args[0])
	if err != nil {
		return Outcome{}, model.NewValidationError("favorite number must be a positive integer, got %q", cmd.Args[0])
	}

	items, err := d.resolver.Resolve(ctx, resolver.Ref{
		Kind:   resolver.RefIndex,
		UserID: cmd.UserID,
		Index:  index,
	})
	if err != nil {
		return Outcome{}, err
	}

	err = d.store.Mutate(func(st *store.State) error {
		if !st.RemoveFavoriteByMediaID(cmd.UserID, items[0].ID) {
			return model.NewNotFoundError(model.NotFoundIndexOutOfRange,
				"favorite #%d does not exist anymore", index)
		}
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	return textOutcome(fmt.Sprintf("Favorite #%d removed.", index)), nil
}

// handleLabel implements /label [keyword], issued as a reply to a GIF. The
// labeled GIF also joins the favorites list when it is not there yet, so
// every label always points at a stored favorite.
func (d *Dispatcher) handleLabel(ctx context.Context, cmd Command) (Outcome, error) {
	if len(cmd.Args) == 0 {
		return Outcome{}, model.NewValidationError("Usage: reply to a GIF with /label <keyword>")
	}
	keyword := strings.ToLower(strings.Join(cmd.Args, " "))

	items, err := d.resolver.Resolve(ctx, resolver.Ref{
		Kind:  resolver.RefReply,
		Reply: cmd.ReplyMedia,
	})
	if err != nil {
		return Outcome{}, err
	}
	item := items[0]

	entry := model.FavoriteEntry{
		MediaID:  item.ID,
		MediaURL: item.URL,
		AddedAt:  d.now(),
	}
	err = d.store.Mutate(func(st *store.State) error {
		if st.AddFavorite(cmd.UserID, entry) {
			st.AddStat(cmd.UserID, model.StatFavoritesSaved, 1)
		}
		st.SetLabel(cmd.UserID, keyword, entry)
		return nil
	})
	if err != nil {
		return Outcome{}, err
	}

	return textOutcome(fmt.Sprintf("GIF labeled as %q. Use /gif %s to access it quickly.", keyword, keyword)), nil
}

// handleQuickGif implements /gif [keyword]; bare /gif lists the user's
// labels instead of resolving one.
func (d *Dispatcher) handleQuickGif(ctx context.Context, cmd Command) (Outcome, error) {
	if len(cmd.Args) == 0 {
		labels := d.resolver.Labels(cmd.UserID)
		if len(labels) == 0 {
			return textOutcome("No labeled GIFs yet. Reply to any GIF with /label <keyword> to save one."), nil
		}
		return textOutcome(fmt.Sprintf("Your labeled GIFs: %s\nUsage: /gif <keyword>", strings.Join(labels, ", "))), nil
	}

	keyword := strings.Join(cmd.Args, " ")
	items, err := d.resolver.Resolve(ctx, resolver.Ref{
		Kind:   resolver.RefLabel,
		UserID: cmd.UserID,
		Label:  keyword,
	})
	if err != nil {
		return Outcome{}, err
	}

	d.bumpStat(cmd.UserID, model.StatGifsRequested, 1)
	return Outcome{Media: []Media{{
		Item:    items[0],
		Caption: strings.ToLower(keyword),
	}}}, nil
}

// handleStats implements /stats.
func (d *Dispatcher) handleStats(cmd Command) (Outcome, error) {
	u := d.store.User(cmd.UserID)
	requested := u.Stats[model.StatGifsRequested]

	rank := "GIF Explorer"
	switch {
	case requested > 100:
		rank = "GIF Master"
	case requested > 50:
		rank = "GIF Enthusiast"
	}

	return textOutcome(fmt.Sprintf(
		"Your GIF stats:\n\nGIFs requested: %d\nFavorites saved: %d\nScheduled posts: %d\nRank: %s",
		requested, len(u.Favorites), u.Stats[model.StatScheduled], rank)), nil
}
