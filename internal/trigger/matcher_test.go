package trigger_test

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/edgard/gifbot/internal/config"
	"github.com/edgard/gifbot/internal/store"
	"github.com/edgard/gifbot/internal/trigger"
)

const chatID = int64(-1001)

func passiveStore(t *testing.T, enabled bool) *store.Store {
	t.Helper()
	s, err := store.Open(filepath.Join(t.TempDir(), "bot_data.json"), nil)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	if enabled {
		err = s.Mutate(func(st *store.State) error {
			st.EnsureGroup(chatID).PassiveMode = true
			return nil
		})
		if err != nil {
			t.Fatalf("seed failed: %v", err)
		}
	}
	return s
}

func testConfig() config.PassiveConfig {
	return config.PassiveConfig{
		RateLimit:  3,
		RateWindow: time.Minute,
		Triggers:   config.DefaultTriggers(),
	}
}

func TestEvaluatePassiveDisabled(t *testing.T) {
	t.Parallel()
	m := trigger.New(testConfig(), passiveStore(t, false), nil)

	for _, text := range []string{"lol", "bruh moment", "so sad today", "HAPPY"} {
		if res := m.Evaluate(chatID, text); res.Fired {
			t.Errorf("Evaluate(%q) fired with passive mode off", text)
		}
	}
}

func TestEvaluateMatching(t *testing.T) {
	t.Parallel()
	m := trigger.New(testConfig(), passiveStore(t, true), nil,
		trigger.WithPick(func(int) int { return 0 }))

	tests := []struct {
		name        string
		text        string
		wantFired   bool
		wantTrigger string
		wantQuery   string
	}{
		{name: "exact word", text: "lol", wantFired: true, wantTrigger: "lol", wantQuery: "funny"},
		{name: "substring", text: "that was hilarious lolol", wantFired: true, wantTrigger: "lol", wantQuery: "funny"},
		{name: "case insensitive", text: "BRUH", wantFired: true, wantTrigger: "bruh", wantQuery: "facepalm"},
		{name: "first table entry wins", text: "sad lol", wantFired: true, wantTrigger: "lol", wantQuery: "funny"},
		{name: "no trigger", text: "good morning everyone", wantFired: false},
		{name: "empty text", text: "", wantFired: false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			res := m.Evaluate(chatID, tc.text)
			if res.Fired != tc.wantFired {
				t.Fatalf("Evaluate(%q).Fired = %v, want %v", tc.text, res.Fired, tc.wantFired)
			}
			if tc.wantFired && (res.Trigger != tc.wantTrigger || res.Query != tc.wantQuery) {
				t.Errorf("Evaluate(%q) = %+v, want trigger %q query %q",
					tc.text, res, tc.wantTrigger, tc.wantQuery)
			}
		})
	}
}

func TestEvaluateRateLimit(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	m := trigger.New(testConfig(), passiveStore(t, true), nil, trigger.WithNow(clock))

	// Firings 1..K succeed, K+1 inside the window is suppressed.
	for i := 0; i < 3; i++ {
		if res := m.Evaluate(chatID, "lol"); !res.Fired {
			t.Fatalf("firing %d suppressed before limit reached", i+1)
		}
	}
	if res := m.Evaluate(chatID, "lol"); res.Fired {
		t.Error("firing 4 not suppressed inside rate window")
	}

	// Other chats have independent windows.
	if res := m.Evaluate(chatID+1, "lol"); res.Fired {
		t.Error("passive mode fired for a chat that never enabled it")
	}

	// Once the window slides past, firings resume.
	now = now.Add(61 * time.Second)
	if res := m.Evaluate(chatID, "lol"); !res.Fired {
		t.Error("firing suppressed after rate window expired")
	}
}
