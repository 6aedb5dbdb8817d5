package store

import (
	"strings"
	"time"

	"github.com/edgard/gifbot/internal/model"
)

// State is the full persisted document. It is owned exclusively by the
// Store: callers only ever see defensive copies, or a snapshot passed into
// a Mutate function.
type State struct {
	Users          map[int64]*model.UserProfile   `json:"users"`
	Groups         map[int64]*model.GroupSettings `json:"groups"`
	ScheduledPosts []model.ScheduledPost          `json:"scheduled_posts"`
	NextPostID     int64                          `json:"next_post_id"`
}

// newState returns an empty document, the state of a fresh deployment.
func newState() *State {
	return &State{
		Users:      make(map[int64]*model.UserProfile),
		Groups:     make(map[int64]*model.GroupSettings),
		NextPostID: 1,
	}
}

// normalize backfills nil collections after a JSON load so mutators never
// have to nil-check them.
func (st *State) normalize() {
	if st.Users == nil {
		st.Users = make(map[int64]*model.UserProfile)
	}
	if st.Groups == nil {
		st.Groups = make(map[int64]*model.GroupSettings)
	}
	if st.NextPostID < 1 {
		st.NextPostID = 1
	}
	for id, u := range st.Users {
		if u == nil {
			delete(st.Users, id)
		}
	}
	for id, g := range st.Groups {
		if g == nil {
			delete(st.Groups, id)
		}
	}
}

// clone deep-copies the document. Mutations are applied to a clone and only
// swapped in after a successful persist.
func (st *State) clone() *State {
	out := &State{
		Users:      make(map[int64]*model.UserProfile, len(st.Users)),
		Groups:     make(map[int64]*model.GroupSettings, len(st.Groups)),
		NextPostID: st.NextPostID,
	}
	for id, u := range st.Users {
		cp := cloneUser(u)
		out.Users[id] = &cp
	}
	for id, g := range st.Groups {
		cp := *g
		out.Groups[id] = &cp
	}
	if len(st.ScheduledPosts) > 0 {
		out.ScheduledPosts = make([]model.ScheduledPost, len(st.ScheduledPosts))
		copy(out.ScheduledPosts, st.ScheduledPosts)
	}
	return out
}

func cloneUser(u *model.UserProfile) model.UserProfile {
	cp := model.UserProfile{UserID: u.UserID}
	if len(u.Favorites) > 0 {
		cp.Favorites = make([]model.FavoriteEntry, len(u.Favorites))
		copy(cp.Favorites, u.Favorites)
	}
	if len(u.Labels) > 0 {
		cp.Labels = make(map[string]model.FavoriteEntry, len(u.Labels))
		for k, v := range u.Labels {
			cp.Labels[k] = v
		}
	}
	if len(u.Stats) > 0 {
		cp.Stats = make(map[string]int64, len(u.Stats))
		for k, v := range u.Stats {
			cp.Stats[k] = v
		}
	}
	return cp
}

// EnsureUser returns the stored profile for id, creating an empty one in the
// document if absent. Only valid inside a Mutate function.
func (st *State) EnsureUser(id int64) *model.UserProfile {
	if u, ok := st.Users[id]; ok {
		return u
	}
	u := &model.UserProfile{UserID: id}
	st.Users[id] = u
	return u
}

// EnsureGroup returns the stored settings for chatID, creating a default
// record if absent. Only valid inside a Mutate function.
func (st *State) EnsureGroup(chatID int64) *model.GroupSettings {
	if g, ok := st.Groups[chatID]; ok {
		return g
	}
	def := model.DefaultGroupSettings(chatID)
	st.Groups[chatID] = &def
	return &def
}

// AddFavorite appends entry to the user's favorites unless an entry with the
// same media id already exists. Returns false when the add was a duplicate
// no-op ("already saved").
func (st *State) AddFavorite(userID int64, entry model.FavoriteEntry) bool {
	u := st.EnsureUser(userID)
	for _, f := range u.Favorites {
		if f.MediaID == entry.MediaID {
			return false
		}
	}
	u.Favorites = append(u.Favorites, entry)
	return true
}

// RemoveFavoriteAt removes the favorite at 1-based display index. Remaining
// entries keep their order, so display numbering stays contiguous. Returns
// the removed entry and whether the index was in range.
func (st *State) RemoveFavoriteAt(userID int64, index int) (model.FavoriteEntry, bool) {
	u := st.EnsureUser(userID)
	if index < 1 || index > len(u.Favorites) {
		return model.FavoriteEntry{}, false
	}
	removed := u.Favorites[index-1]
	u.Favorites = append(u.Favorites[:index-1], u.Favorites[index:]...)
	st.dropLabelsFor(u, removed.MediaID)
	return removed, true
}

// RemoveFavoriteByMediaID removes the favorite carrying mediaID, if present.
// Used by dead-link cleanup where no display index is known.
func (st *State) RemoveFavoriteByMediaID(userID int64, mediaID string) bool {
	u := st.EnsureUser(userID)
	for i, f := range u.Favorites {
		if f.MediaID == mediaID {
			u.Favorites = append(u.Favorites[:i], u.Favorites[i+1:]...)
			st.dropLabelsFor(u, mediaID)
			return true
		}
	}
	return false
}

// dropLabelsFor removes any label shortcuts pointing at a media id that no
// longer exists in the favorites list.
func (st *State) dropLabelsFor(u *model.UserProfile, mediaID string) {
	for k, v := range u.Labels {
		if v.MediaID == mediaID {
			delete(u.Labels, k)
		}
	}
}

// SetLabel maps keyword (lowercased) to entry for the user, replacing any
// previous mapping for that keyword.
func (st *State) SetLabel(userID int64, keyword string, entry model.FavoriteEntry) {
	u := st.EnsureUser(userID)
	if u.Labels == nil {
		u.Labels = make(map[string]model.FavoriteEntry)
	}
	u.Labels[strings.ToLower(keyword)] = entry
}

// AddStat increments the named per-user counter by delta.
func (st *State) AddStat(userID int64, metric string, delta int64) {
	u := st.EnsureUser(userID)
	if u.Stats == nil {
		u.Stats = make(map[string]int64)
	}
	u.Stats[metric] += delta
}

// AppendScheduledPost records a new pending post, assigning the next
// monotonic id, and returns it.
func (st *State) AppendScheduledPost(chatID, userID int64, query string, fireAt, now time.Time) model.ScheduledPost {
	post := model.ScheduledPost{
		ID:      st.NextPostID,
		ChatID:  chatID,
		UserID:  userID,
		Query:   query,
		FireAt:  fireAt,
		Status:  model.PostPending,
		Created: now,
	}
	st.NextPostID++
	st.ScheduledPosts = append(st.ScheduledPosts, post)
	return post
}

// FindScheduledPost returns a pointer into the document for the post with
// the given id, or nil. Only valid inside a Mutate function.
func (st *State) FindScheduledPost(id int64) *model.ScheduledPost {
	for i := range st.ScheduledPosts {
		if st.ScheduledPosts[i].ID == id {
			return &st.ScheduledPosts[i]
		}
	}
	return nil
}
