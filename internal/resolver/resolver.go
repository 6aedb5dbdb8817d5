// Package resolver turns command context (reply targets, positional
// indexes, label keywords, fresh queries) into concrete media items.
package resolver

import (
	"context"
	"log/slog"
	"sort"
	"strings"

	"github.com/edgard/gifbot/internal/model"
	"github.com/edgard/gifbot/internal/store"
	"github.com/edgard/gifbot/internal/tenor"
)

// RefKind selects the resolution strategy for a Ref.
type RefKind int

const (
	// RefReply resolves the media carried by a replied-to message.
	RefReply RefKind = iota
	// RefIndex resolves a 1-based position in the user's favorites.
	RefIndex
	// RefLabel resolves a case-insensitive label keyword.
	RefLabel
	// RefQuery resolves a fresh search against the GIF provider.
	RefQuery
)

// Ref is the context of a resolution request. Only the fields relevant to
// Kind are consulted.
type Ref struct {
	Kind   RefKind
	UserID int64

	// Reply is the media extracted from the replied-to message, nil when the
	// message no longer carries media metadata.
	Reply *model.MediaItem

	// Index is a 1-based favorite position.
	Index int

	// Label is a label keyword, matched case-insensitively.
	Label string

	// Query, Safe and Limit parameterize a remote search.
	Query string
	Safe  bool
	Limit int
}

// Resolver resolves Refs against stored state and the search collaborator.
// It is also the only component allowed to trigger implicit deletions, via
// ReportDeadLink.
type Resolver struct {
	store  *store.Store
	search tenor.Client
	log    *slog.Logger
}

// New creates a Resolver.
func New(st *store.Store, search tenor.Client, log *slog.Logger) *Resolver {
	if log == nil {
		log = slog.Default()
	}
	return &Resolver{
		store:  st,
		search: search,
		log:    log.With("component", "resolver"),
	}
}

// Resolve returns the media items a Ref points at. Reply, index and label
// refs yield exactly one item or a typed error; query refs yield zero or
// more items (an empty result set is a valid outcome).
func (r *Resolver) Resolve(ctx context.Context, ref Ref) ([]model.MediaItem, error) {
	switch ref.Kind {
	case RefReply:
		return r.resolveReply(ref)
	case RefIndex:
		return r.resolveIndex(ref)
	case RefLabel:
		return r.resolveLabel(ref)
	case RefQuery:
		return r.search.Search(ctx, ref.Query, ref.Safe, ref.Limit)
	default:
		return nil, model.NewValidationError("unknown reference kind %d", ref.Kind)
	}
}

func (r *Resolver) resolveReply(ref Ref) ([]model.MediaItem, error) {
	if ref.Reply == nil || (ref.Reply.ID == "" && ref.Reply.URL == "") {
		return nil, model.NewNotFoundError(model.NotFoundStaleReference,
			"the replied-to message no longer carries a GIF")
	}
	return []model.MediaItem{*ref.Reply}, nil
}

func (r *Resolver) resolveIndex(ref Ref) ([]model.MediaItem, error) {
	if ref.Index < 1 {
		return nil, model.NewValidationError("favorite number must be a positive integer, got %d", ref.Index)
	}
	favs := r.store.User(ref.UserID).Favorites
	if ref.Index > len(favs) {
		return nil, model.NewNotFoundError(model.NotFoundIndexOutOfRange,
			"favorite #%d does not exist, you have %d favorites", ref.Index, len(favs))
	}
	f := favs[ref.Index-1]
	return []model.MediaItem{favoriteItem(f)}, nil
}

func (r *Resolver) resolveLabel(ref Ref) ([]model.MediaItem, error) {
	keyword := strings.ToLower(ref.Label)
	u := r.store.User(ref.UserID)
	f, ok := u.Labels[keyword]
	if !ok {
		return nil, model.NewNotFoundError(model.NotFoundUnknownLabel,
			"no GIF labeled %q", ref.Label)
	}
	return []model.MediaItem{favoriteItem(f)}, nil
}

// Labels lists the user's label keywords in sorted order. Invoked for bare
// label commands; listing is a distinct operation from Resolve.
func (r *Resolver) Labels(userID int64) []string {
	u := r.store.User(userID)
	keys := make([]string, 0, len(u.Labels))
	for k := range u.Labels {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// ReportDeadLink removes the favorite carrying mediaID after the transport
// layer confirmed its URL is no longer accessible, renumbering the remaining
// entries. Labels pointing at the entry are dropped with it.
func (r *Resolver) ReportDeadLink(userID int64, mediaID string) error {
	err := r.store.Mutate(func(st *store.State) error {
		if !st.RemoveFavoriteByMediaID(userID, mediaID) {
			r.log.Debug("Dead link report for unknown favorite", "user_id", userID, "media_id", mediaID)
		}
		return nil
	})
	if err != nil {
		return err
	}
	r.log.Info("Removed inaccessible favorite", "user_id", userID, "media_id", mediaID)
	return nil
}

func favoriteItem(f model.FavoriteEntry) model.MediaItem {
	return model.MediaItem{ID: f.MediaID, URL: f.MediaURL}
}
