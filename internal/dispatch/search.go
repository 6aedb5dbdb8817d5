package dispatch

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/edgard/gifbot/internal/model"
	"github.com/edgard/gifbot/internal/resolver"
)

// Result count ceiling for a single search command.
const maxSearchCount = 5

// handleSearch implements /s [query] and /s [query] [n].
func (d *Dispatcher) handleSearch(ctx context.Context, cmd Command) (Outcome, error) {
	if len(cmd.Args) == 0 {
		return Outcome{}, model.NewValidationError("Usage: /s <search query> or /s <search query> <number>")
	}

	group := d.store.Group(cmd.ChatID)

	args := cmd.Args
	count := group.MaxGifs
	if n, err := strconv.Atoi(args[len(args)-1]); err == nil {
		args = args[:len(args)-1]
		if len(args) == 0 {
			return Outcome{}, model.NewValidationError("Usage: /s <search query> <number>")
		}
		count = n
		if count < 1 {
			count = 1
		}
		if count > maxSearchCount {
			count = maxSearchCount
		}
	}

	query := strings.Join(args, " ")
	items, err := d.resolver.Resolve(ctx, resolver.Ref{
		Kind:  resolver.RefQuery,
		Query: query,
		Safe:  group.SafeMode,
		Limit: count,
	})
	if err != nil {
		return Outcome{}, err
	}
	if len(items) == 0 {
		return textOutcome(fmt.Sprintf("No GIFs found for %q", query)), nil
	}

	out := Outcome{Media: make([]Media, 0, len(items))}
	for i, item := range items {
		caption := query
		if len(items) > 1 {
			caption = fmt.Sprintf("Result %d for %s", i+1, query)
		}
		out.Media = append(out.Media, Media{Item: item, Caption: caption})
	}

	d.bumpStat(cmd.UserID, model.StatGifsRequested, int64(len(items)))
	return out, nil
}

// handleRandom implements /r [query]: one random pick from a wide result
// page.
func (d *Dispatcher) handleRandom(ctx context.Context, cmd Command) (Outcome, error) {
	if len(cmd.Args) == 0 {
		return Outcome{}, model.NewValidationError("Usage: /r <search query>")
	}

	group := d.store.Group(cmd.ChatID)
	query := strings.Join(cmd.Args, " ")

	items, err := d.resolver.Resolve(ctx, resolver.Ref{
		Kind:  resolver.RefQuery,
		Query: query,
		Safe:  group.SafeMode,
		Limit: 20,
	})
	if err != nil {
		return Outcome{}, err
	}
	if len(items) == 0 {
		return textOutcome(fmt.Sprintf("No GIFs found for %q", query)), nil
	}

	d.bumpStat(cmd.UserID, model.StatGifsRequested, 1)
	return Outcome{Media: []Media{{
		Item:    d.pickItem(items),
		Caption: fmt.Sprintf("Random GIF for %s", query),
	}}}, nil
}

// handleRandomAny implements /random: a GIF for a query drawn from a canned
// pool, no arguments needed.
func (d *Dispatcher) handleRandomAny(ctx context.Context, cmd Command) (Outcome, error) {
	group := d.store.Group(cmd.ChatID)
	query := randomQueries[d.pick(len(randomQueries))]

	items, err := d.resolver.Resolve(ctx, resolver.Ref{
		Kind:  resolver.RefQuery,
		Query: query,
		Safe:  group.SafeMode,
		Limit: 20,
	})
	if err != nil {
		return Outcome{}, err
	}
	if len(items) == 0 {
		return textOutcome("Couldn't find a random GIF right now. Try again!"), nil
	}

	d.bumpStat(cmd.UserID, model.StatGifsRequested, 1)
	return Outcome{Media: []Media{{
		Item:    d.pickItem(items),
		Caption: "Random GIF!",
	}}}, nil
}

// handleTrending implements /trending.
func (d *Dispatcher) handleTrending(ctx context.Context, cmd Command) (Outcome, error) {
	items, err := d.search.Trending(ctx, 3)
	if err != nil {
		return Outcome{}, err
	}
	if len(items) == 0 {
		return textOutcome("Couldn't fetch trending GIFs right now"), nil
	}

	out := Outcome{
		Text:  "Trending GIFs right now:",
		Media: make([]Media, 0, len(items)),
	}
	for i, item := range items {
		out.Media = append(out.Media, Media{Item: item, Caption: fmt.Sprintf("Trending #%d", i+1)})
	}

	d.bumpStat(cmd.UserID, model.StatGifsRequested, int64(len(items)))
	return out, nil
}

// handleQuote implements /quote [query]: a motivational quote plus a
// matching GIF.
func (d *Dispatcher) handleQuote(ctx context.Context, cmd Command) (Outcome, error) {
	query := "motivation"
	if len(cmd.Args) > 0 {
		query = strings.Join(cmd.Args, " ")
	}

	group := d.store.Group(cmd.ChatID)
	items, err := d.resolver.Resolve(ctx, resolver.Ref{
		Kind:  resolver.RefQuery,
		Query: query,
		Safe:  group.SafeMode,
		Limit: 5,
	})
	if err != nil {
		return Outcome{}, err
	}

	out := Outcome{Text: fmt.Sprintf("Daily motivation:\n\n%s", motivationalQuotes[d.pick(len(motivationalQuotes))])}
	if len(items) > 0 {
		out.Media = []Media{{Item: d.pickItem(items), Caption: query + " vibes"}}
		d.bumpStat(cmd.UserID, model.StatGifsRequested, 1)
	}
	return out, nil
}

// handleInfo implements /info (reply to a GIF).
func (d *Dispatcher) handleInfo(ctx context.Context, cmd Command) (Outcome, error) {
	items, err := d.resolver.Resolve(ctx, resolver.Ref{
		Kind:  resolver.RefReply,
		Reply: cmd.ReplyMedia,
	})
	if err != nil {
		return Outcome{}, err
	}
	item := items[0]

	var b strings.Builder
	b.WriteString("GIF information:\n")
	fmt.Fprintf(&b, "ID: %s\n", item.ID)
	for _, key := range []string{"width", "height", "duration", "file_size"} {
		if v, ok := item.Metadata[key]; ok {
			fmt.Fprintf(&b, "%s: %s\n", key, v)
		}
	}
	return textOutcome(strings.TrimRight(b.String(), "\n")), nil
}
