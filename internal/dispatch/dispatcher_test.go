package dispatch_test

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/edgard/gifbot/internal/config"
	"github.com/edgard/gifbot/internal/dispatch"
	"github.com/edgard/gifbot/internal/model"
	"github.com/edgard/gifbot/internal/resolver"
	"github.com/edgard/gifbot/internal/schedule"
	"github.com/edgard/gifbot/internal/store"
	"github.com/edgard/gifbot/internal/trigger"
)

const (
	groupChat = int64(-1001)
	userAlice = int64(7)
)

var testNow = time.Date(2025, 6, 15, 12, 0, 0, 0, time.UTC)

// fakeSearch is a canned search collaborator recording the last request.
type fakeSearch struct {
	items []model.MediaItem
	err   error

	lastQuery string
	lastSafe  bool
	lastLimit int
}

func (f *fakeSearch) Search(_ context.Context, query string, safe bool, limit int) ([]model.MediaItem, error) {
	f.lastQuery, f.lastSafe, f.lastLimit = query, safe, limit
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.items) {
		return f.items[:limit], nil
	}
	return f.items, nil
}

func (f *fakeSearch) Trending(_ context.Context, limit int) ([]model.MediaItem, error) {
	if f.err != nil {
		return nil, f.err
	}
	if limit < len(f.items) {
		return f.items[:limit], nil
	}
	return f.items, nil
}

func items(ids ...string) []model.MediaItem {
	out := make([]model.MediaItem, 0, len(ids))
	for _, id := range ids {
		out = append(out, model.MediaItem{ID: id, URL: "https://x/" + id + ".gif"})
	}
	return out
}

func newDispatcher(t *testing.T, search *fakeSearch) (*dispatch.Dispatcher, *store.Store) {
	t.Helper()
	return newDispatcherAt(t, search, testNow)
}

func newDispatcherAt(t *testing.T, search *fakeSearch, at time.Time) (*dispatch.Dispatcher, *store.Store) {
	t.Helper()
	st, err := store.Open(filepath.Join(t.TempDir(), "bot_data.json"), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	now := func() time.Time { return at }
	cfg := config.PassiveConfig{
		RateLimit:  3,
		RateWindow: time.Minute,
		Triggers:   config.DefaultTriggers(),
	}
	d := dispatch.New(nil, st,
		resolver.New(st, search, nil),
		trigger.New(cfg, st, nil, trigger.WithPick(func(int) int { return 0 })),
		schedule.New(st, nil, now),
		search,
		dispatch.WithNow(now),
		dispatch.WithPick(func(int) int { return 0 }),
	)
	return d, st
}

func groupCmd(kind dispatch.Kind, args ...string) dispatch.Command {
	return dispatch.Command{Kind: kind, Args: args, UserID: userAlice, ChatID: groupChat}
}

func privateCmd(kind dispatch.Kind, args ...string) dispatch.Command {
	return dispatch.Command{Kind: kind, Args: args, UserID: userAlice, ChatID: userAlice, Private: true}
}

func wantValidation(t *testing.T, out dispatch.Outcome) {
	t.Helper()
	var ve *model.ValidationError
	if !errors.As(out.Err, &ve) {
		t.Fatalf("expected ValidationError, got %v", out.Err)
	}
	if out.Text == "" {
		t.Error("validation outcome has no user message")
	}
}

func TestSearchUsesGroupDefaults(t *testing.T) {
	t.Parallel()
	search := &fakeSearch{items: items("a", "b", "c", "d", "e")}
	d, _ := newDispatcher(t, search)

	out := d.Dispatch(context.Background(), groupCmd(dispatch.KindSearch, "cats"))
	if out.Err != nil {
		t.Fatalf("Dispatch error: %v", out.Err)
	}
	if len(out.Media) != 3 {
		t.Errorf("media count = %d, want default max of 3", len(out.Media))
	}
	if !search.lastSafe {
		t.Error("default group settings should search with safe mode on")
	}
	if search.lastLimit != 3 {
		t.Errorf("search limit = %d, want 3", search.lastLimit)
	}
}

func TestSearchExplicitCountClamped(t *testing.T) {
	t.Parallel()
	search := &fakeSearch{items: items("a", "b", "c", "d", "e", "f", "g")}
	d, _ := newDispatcher(t, search)

	out := d.Dispatch(context.Background(), groupCmd(dispatch.KindSearch, "cats", "9"))
	if out.Err != nil {
		t.Fatalf("Dispatch error: %v", out.Err)
	}
	if search.lastLimit != 5 {
		t.Errorf("search limit = %d, want clamp to 5", search.lastLimit)
	}
	if search.lastQuery != "cats" {
		t.Errorf("query = %q, trailing count should not join the query", search.lastQuery)
	}
}

func TestSearchNoResultsIsNotAnError(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher(t, &fakeSearch{})

	out := d.Dispatch(context.Background(), groupCmd(dispatch.KindSearch, "obscure"))
	if out.Err != nil {
		t.Fatalf("Dispatch error: %v", out.Err)
	}
	if !strings.Contains(out.Text, "No GIFs found") {
		t.Errorf("text = %q, want a no-results notice", out.Text)
	}
}

func TestRandomAnyNeedsNoArguments(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher(t, &fakeSearch{items: items("dice")})

	out := d.Dispatch(context.Background(), groupCmd(dispatch.KindRandomAny))
	if out.Err != nil {
		t.Fatalf("Dispatch error: %v", out.Err)
	}
	if len(out.Media) != 1 || out.Media[0].Item.ID != "dice" {
		t.Fatalf("media = %+v, want one GIF from the canned pool", out.Media)
	}
	if got := st.User(userAlice).Stats[model.StatGifsRequested]; got != 1 {
		t.Errorf("gifs_requested stat = %d, want 1", got)
	}
}

func TestRandomAnyQueryComesFromPool(t *testing.T) {
	t.Parallel()
	search := &fakeSearch{items: items("dice")}
	d, _ := newDispatcher(t, search)

	if out := d.Dispatch(context.Background(), groupCmd(dispatch.KindRandomAny)); out.Err != nil {
		t.Fatalf("Dispatch error: %v", out.Err)
	}
	if search.lastQuery == "" {
		t.Fatal("no search issued")
	}
	if !search.lastSafe {
		t.Error("default group settings should search with safe mode on")
	}
	if search.lastLimit != 20 {
		t.Errorf("search limit = %d, want 20", search.lastLimit)
	}
}

func TestFavAddAndDuplicate(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher(t, &fakeSearch{})

	cmd := privateCmd(dispatch.KindFavAdd)
	cmd.ReplyMedia = &model.MediaItem{ID: "tg-1", URL: "https://x/tg-1.gif"}

	out := d.Dispatch(context.Background(), cmd)
	if out.Err != nil {
		t.Fatalf("first add error: %v", out.Err)
	}
	if favs := st.User(userAlice).Favorites; len(favs) != 1 || favs[0].MediaID != "tg-1" {
		t.Fatalf("favorites = %+v, want the one added entry", favs)
	}

	out = d.Dispatch(context.Background(), cmd)
	if out.Err != nil {
		t.Fatalf("duplicate add error: %v", out.Err)
	}
	if !strings.Contains(out.Text, "already") {
		t.Errorf("duplicate add text = %q, want an already-saved notice", out.Text)
	}
	if favs := st.User(userAlice).Favorites; len(favs) != 1 {
		t.Errorf("favorites grew to %d on duplicate add", len(favs))
	}
	if saved := st.User(userAlice).Stats[model.StatFavoritesSaved]; saved != 1 {
		t.Errorf("favorites_saved stat = %d, want 1", saved)
	}
}

func TestFavAddWithoutReply(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher(t, &fakeSearch{})

	out := d.Dispatch(context.Background(), privateCmd(dispatch.KindFavAdd))
	var nf *model.NotFoundError
	if !errors.As(out.Err, &nf) || nf.Kind != model.NotFoundStaleReference {
		t.Fatalf("expected stale_reference NotFoundError, got %v", out.Err)
	}
}

func TestFavRemoveRenumbers(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher(t, &fakeSearch{})

	for _, id := range []string{"a", "b", "c"} {
		cmd := privateCmd(dispatch.KindFavAdd)
		cmd.ReplyMedia = &model.MediaItem{ID: id, URL: "https://x/" + id + ".gif"}
		if out := d.Dispatch(context.Background(), cmd); out.Err != nil {
			t.Fatalf("seed add %q: %v", id, out.Err)
		}
	}

	out := d.Dispatch(context.Background(), privateCmd(dispatch.KindFavRemove, "2"))
	if out.Err != nil {
		t.Fatalf("remove error: %v", out.Err)
	}

	favs := st.User(userAlice).Favorites
	if len(favs) != 2 || favs[0].MediaID != "a" || favs[1].MediaID != "c" {
		t.Errorf("favorites after remove = %+v, want [a c]", favs)
	}

	out = d.Dispatch(context.Background(), privateCmd(dispatch.KindFavRemove, "3"))
	var nf *model.NotFoundError
	if !errors.As(out.Err, &nf) || nf.Kind != model.NotFoundIndexOutOfRange {
		t.Errorf("remove #3 of 2 = %v, want index_out_of_range", out.Err)
	}
}

func TestLabelAndQuickGif(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher(t, &fakeSearch{})

	cmd := privateCmd(dispatch.KindLabel, "Victory")
	cmd.ReplyMedia = &model.MediaItem{ID: "win", URL: "https://x/win.gif"}
	if out := d.Dispatch(context.Background(), cmd); out.Err != nil {
		t.Fatalf("label error: %v", out.Err)
	}

	// Labeling implies saving as a favorite.
	if favs := st.User(userAlice).Favorites; len(favs) != 1 || favs[0].MediaID != "win" {
		t.Fatalf("favorites after label = %+v, want the labeled GIF", favs)
	}

	out := d.Dispatch(context.Background(), privateCmd(dispatch.KindQuickGif, "VICTORY"))
	if out.Err != nil {
		t.Fatalf("quick gif error: %v", out.Err)
	}
	if len(out.Media) != 1 || out.Media[0].Item.ID != "win" {
		t.Errorf("quick gif media = %+v, want the labeled GIF", out.Media)
	}

	out = d.Dispatch(context.Background(), privateCmd(dispatch.KindQuickGif, "missing"))
	var nf *model.NotFoundError
	if !errors.As(out.Err, &nf) || nf.Kind != model.NotFoundUnknownLabel {
		t.Errorf("unknown label = %v, want unknown_label", out.Err)
	}
}

func TestSetMaxRejectsOutOfRange(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher(t, &fakeSearch{})

	for _, arg := range []string{"0", "7", "-1", "many"} {
		out := d.Dispatch(context.Background(), privateCmd(dispatch.KindSetMax, arg))
		wantValidation(t, out)
	}
	if got := st.Group(userAlice).MaxGifs; got != model.DefaultMaxGifs {
		t.Errorf("MaxGifs = %d after rejected updates, want untouched default", got)
	}

	out := d.Dispatch(context.Background(), privateCmd(dispatch.KindSetMax, "5"))
	if out.Err != nil {
		t.Fatalf("setmax 5 error: %v", out.Err)
	}
	if got := st.Group(userAlice).MaxGifs; got != 5 {
		t.Errorf("MaxGifs = %d, want 5", got)
	}
}

func TestAdminGating(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher(t, &fakeSearch{})

	// Non-admin in a group chat is refused and nothing changes.
	out := d.Dispatch(context.Background(), groupCmd(dispatch.KindTogglePassive, "passive"))
	var pe *model.PermissionError
	if !errors.As(out.Err, &pe) {
		t.Fatalf("expected PermissionError, got %v", out.Err)
	}
	if st.Group(groupChat).PassiveMode {
		t.Error("passive mode flipped despite refusal")
	}

	// The same command from a chat admin succeeds.
	cmd := groupCmd(dispatch.KindTogglePassive, "passive")
	cmd.SenderIsAdmin = true
	if out := d.Dispatch(context.Background(), cmd); out.Err != nil {
		t.Fatalf("admin toggle error: %v", out.Err)
	}
	if !st.Group(groupChat).PassiveMode {
		t.Error("passive mode not enabled by admin toggle")
	}
}

func TestToggleSafeFlips(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher(t, &fakeSearch{})

	if out := d.Dispatch(context.Background(), privateCmd(dispatch.KindToggleSafe)); out.Err != nil {
		t.Fatalf("toggle error: %v", out.Err)
	}
	if st.Group(userAlice).SafeMode {
		t.Error("safe mode still on after toggle from default")
	}
	if out := d.Dispatch(context.Background(), privateCmd(dispatch.KindToggleSafe)); out.Err != nil {
		t.Fatalf("toggle error: %v", out.Err)
	}
	if !st.Group(userAlice).SafeMode {
		t.Error("safe mode not restored by second toggle")
	}
}

func TestScheduleNextOccurrence(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher(t, &fakeSearch{})

	// 13:00 is later today relative to the fixed noon clock.
	out := d.Dispatch(context.Background(), groupCmd(dispatch.KindSchedule, "13:00", "cats"))
	if out.Err != nil {
		t.Fatalf("schedule error: %v", out.Err)
	}

	// 11:00 is already past, so it lands tomorrow. 12:00 equals the clock
	// exactly and must also roll over rather than fire in the past.
	for _, clock := range []string{"11:00", "12:00"} {
		if out := d.Dispatch(context.Background(), groupCmd(dispatch.KindSchedule, clock, "dogs")); out.Err != nil {
			t.Fatalf("schedule %s error: %v", clock, out.Err)
		}
	}

	posts := st.ScheduledPosts()
	if len(posts) != 3 {
		t.Fatalf("scheduled posts = %d, want 3", len(posts))
	}
	if want := testNow.Add(time.Hour); !posts[0].FireAt.Equal(want) {
		t.Errorf("post 1 fires at %v, want %v", posts[0].FireAt, want)
	}
	for _, p := range posts[1:] {
		if !p.FireAt.After(testNow) {
			t.Errorf("post #%d fires at %v, not strictly after now", p.ID, p.FireAt)
		}
		if p.FireAt.Day() != testNow.Day()+1 {
			t.Errorf("post #%d fires on day %d, want tomorrow", p.ID, p.FireAt.Day())
		}
	}
}

func TestScheduleKeepsWallClockAcrossDST(t *testing.T) {
	t.Parallel()
	loc, err := time.LoadLocation("America/New_York")
	if err != nil {
		t.Skipf("tzdata unavailable: %v", err)
	}

	// Noon the day before the 2025 spring-forward transition; 11:00 is
	// already past, so the post lands on the short day. The wall clock
	// time must hold at 11:00 rather than drifting to 12:00.
	now := time.Date(2025, 3, 8, 12, 0, 0, 0, loc)
	d, st := newDispatcherAt(t, &fakeSearch{}, now)

	out := d.Dispatch(context.Background(), groupCmd(dispatch.KindSchedule, "11:00", "cats"))
	if out.Err != nil {
		t.Fatalf("schedule error: %v", out.Err)
	}

	fireAt := st.ScheduledPosts()[0].FireAt
	if fireAt.Day() != 9 || fireAt.Hour() != 11 || fireAt.Minute() != 0 {
		t.Errorf("fire_at = %v, want 11:00 on Mar 9", fireAt)
	}
}

func TestScheduleRejectsMalformedInput(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher(t, &fakeSearch{})

	for _, args := range [][]string{
		{},
		{"13:00"},
		{"25:99", "cats"},
		{"noon", "cats"},
	} {
		wantValidation(t, d.Dispatch(context.Background(), groupCmd(dispatch.KindSchedule, args...)))
	}
}

func TestUnscheduleOwnershipAndListing(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher(t, &fakeSearch{})

	if out := d.Dispatch(context.Background(), groupCmd(dispatch.KindSchedule, "13:00", "cats")); out.Err != nil {
		t.Fatalf("schedule error: %v", out.Err)
	}

	out := d.Dispatch(context.Background(), groupCmd(dispatch.KindUnschedule))
	if out.Err != nil || !strings.Contains(out.Text, "#1") {
		t.Fatalf("list outcome = %q, %v; want pending post #1", out.Text, out.Err)
	}

	// Another user cannot cancel Alice's post without admin capability.
	other := groupCmd(dispatch.KindUnschedule, "1")
	other.UserID = userAlice + 1
	var pe *model.PermissionError
	if out := d.Dispatch(context.Background(), other); !errors.As(out.Err, &pe) {
		t.Fatalf("foreign cancel = %v, want PermissionError", out.Err)
	}

	if out := d.Dispatch(context.Background(), groupCmd(dispatch.KindUnschedule, "1")); out.Err != nil {
		t.Fatalf("own cancel error: %v", out.Err)
	}
	if got := st.ScheduledPosts()[0].Status; got != model.PostCancelled {
		t.Errorf("post status = %v, want cancelled", got)
	}

	out = d.Dispatch(context.Background(), groupCmd(dispatch.KindUnschedule, "1"))
	var nf *model.NotFoundError
	if !errors.As(out.Err, &nf) || nf.Kind != model.NotFoundUnknownPost {
		t.Errorf("cancel of cancelled post = %v, want unknown_post", out.Err)
	}
}

func TestStatsRanks(t *testing.T) {
	t.Parallel()
	d, st := newDispatcher(t, &fakeSearch{})

	ranks := []struct {
		requested int64
		want      string
	}{
		{0, "GIF Explorer"},
		{51, "GIF Enthusiast"},
		{101, "GIF Master"},
	}
	for _, tc := range ranks {
		err := st.Mutate(func(s *store.State) error {
			s.EnsureUser(userAlice).Stats = map[string]int64{model.StatGifsRequested: tc.requested}
			return nil
		})
		if err != nil {
			t.Fatalf("seed stats: %v", err)
		}
		out := d.Dispatch(context.Background(), privateCmd(dispatch.KindStats))
		if out.Err != nil || !strings.Contains(out.Text, tc.want) {
			t.Errorf("stats at %d requests = %q, %v; want rank %q", tc.requested, out.Text, out.Err, tc.want)
		}
	}
}

func TestPassiveReaction(t *testing.T) {
	t.Parallel()
	search := &fakeSearch{items: items("reaction")}
	d, st := newDispatcher(t, search)

	// Passive mode is off by default; nothing fires.
	if out := d.HandlePassive(context.Background(), groupChat, userAlice, "lol that was great"); len(out.Media) != 0 {
		t.Fatal("passive reaction fired with passive mode off")
	}

	err := st.Mutate(func(s *store.State) error {
		s.EnsureGroup(groupChat).PassiveMode = true
		return nil
	})
	if err != nil {
		t.Fatalf("seed group: %v", err)
	}

	out := d.HandlePassive(context.Background(), groupChat, userAlice, "lol that was great")
	if len(out.Media) != 1 || out.Media[0].Item.ID != "reaction" {
		t.Fatalf("passive outcome = %+v, want one reaction GIF", out)
	}
	if got := st.User(userAlice).Stats[model.StatTriggersFired]; got != 1 {
		t.Errorf("triggers_fired stat = %d, want 1", got)
	}

	// A provider failure stays silent.
	search.err = errors.New("tenor down")
	if out := d.HandlePassive(context.Background(), groupChat, userAlice, "lol again"); len(out.Media) != 0 || out.Text != "" {
		t.Errorf("passive outcome on provider failure = %+v, want silence", out)
	}
}

func TestInfoFormatsMetadata(t *testing.T) {
	t.Parallel()
	d, _ := newDispatcher(t, &fakeSearch{})

	cmd := privateCmd(dispatch.KindInfo)
	cmd.ReplyMedia = &model.MediaItem{
		ID: "tg-9",
		Metadata: map[string]string{
			"width": "480", "height": "270", "duration": "2", "file_size": "102400",
		},
	}
	out := d.Dispatch(context.Background(), cmd)
	if out.Err != nil {
		t.Fatalf("info error: %v", out.Err)
	}
	for _, want := range []string{"tg-9", "width: 480", "file_size: 102400"} {
		if !strings.Contains(out.Text, want) {
			t.Errorf("info text %q missing %q", out.Text, want)
		}
	}
}
