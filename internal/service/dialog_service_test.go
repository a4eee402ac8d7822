package service

import (
	"context"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mallfinder-be/internal/constant"
	"mallfinder-be/internal/dto"
	"mallfinder-be/internal/pkg/logger"
	"mallfinder-be/internal/repository/contract"
	"mallfinder-be/internal/repository/memory"
	"mallfinder-be/pkg/catalog"
	"mallfinder-be/pkg/identity"
	"mallfinder-be/pkg/mallsearch"
	"mallfinder-be/pkg/match"
	"mallfinder-be/pkg/menu"
)

type nopLogger struct{}

func (nopLogger) Debug(string, string, map[string]interface{}) {}
func (nopLogger) Info(string, string, map[string]interface{})  {}
func (nopLogger) Warn(string, string, map[string]interface{})  {}
func (nopLogger) Error(string, string, map[string]interface{}) {}
func (nopLogger) Sync() error                                  { return nil }
func (nopLogger) GetLogs(string, int, int) ([]logger.LogEntry, error) {
	return nil, nil
}

type recordingActivity struct {
	mu     sync.Mutex
	events []string
}

func (r *recordingActivity) Publish(_, event string, _ map[string]interface{}) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, event)
}

func (r *recordingActivity) Consume(context.Context) error { return nil }

func (r *recordingActivity) has(event string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	for _, e := range r.events {
		if e == event {
			return true
		}
	}
	return false
}

func intPtr(v int) *int { return &v }

func testCatalog() *catalog.Catalog {
	cities := map[string]map[string]catalog.Mall{
		"Springfield": {
			"Mall X": {
				Address: "1 Main St",
				MapLink: "https://maps.example/x",
				Stores:  catalog.StoreFloors{"Zara": intPtr(1), "H&M": intPtr(2), "Lush": nil},
			},
			"Mall Y": {
				Address: "9 Side St",
				Stores:  catalog.StoreFloors{"Zara": intPtr(3)},
			},
		},
		"Shelbyville": {
			"Mall Z": {
				Address: "5 Elm St",
				Stores:  catalog.StoreFloors{"Lush": intPtr(1)},
			},
		},
	}
	aliases := map[string][]string{
		"H&M": {"h and m", "hm"},
	}
	return catalog.New(cities, aliases)
}

type fixture struct {
	svc      IDialogService
	sessions contract.SessionRepository
	queries  contract.SavedQueryRepository
	activity *recordingActivity
	opaque   string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dir := t.TempDir()
	anon, err := identity.NewAnonymizer(identity.Config{
		KeyFile: filepath.Join(dir, "map.key"),
		MapFile: filepath.Join(dir, "map.enc"),
	})
	require.NoError(t, err)

	cat := testCatalog()
	resolver := match.NewResolver(cat)
	sessions := memory.NewSessionRepository()
	queries := memory.NewSavedQueryRepository()
	activity := &recordingActivity{}

	svc := NewDialogService(
		cat,
		resolver,
		mallsearch.NewEngine(cat, resolver),
		sessions,
		queries,
		anon,
		activity,
		nopLogger{},
		2*time.Second,
		5,
	)
	return &fixture{
		svc:      svc,
		sessions: sessions,
		queries:  queries,
		activity: activity,
		opaque:   identity.OpaqueID("tg-1001"),
	}
}

func (f *fixture) message(t *testing.T, text string) *dto.Reply {
	t.Helper()
	r, err := f.svc.HandleMessage(context.Background(), "tg-1001", text)
	require.NoError(t, err)
	require.NotNil(t, r)
	return r
}

func (f *fixture) callback(t *testing.T, data string) *dto.Reply {
	t.Helper()
	r, err := f.svc.HandleCallback(context.Background(), "tg-1001", data)
	require.NoError(t, err)
	require.NotNil(t, r)
	return r
}

func (f *fixture) state(t *testing.T) string {
	t.Helper()
	s, err := f.sessions.Get(context.Background(), f.opaque)
	require.NoError(t, err)
	return s.State
}

func (f *fixture) stores(t *testing.T) []string {
	t.Helper()
	s, err := f.sessions.Get(context.Background(), f.opaque)
	require.NoError(t, err)
	return s.Stores
}

// startAndPickCity fast-forwards past onboarding.
func (f *fixture) startAndPickCity(t *testing.T) {
	t.Helper()
	f.message(t, "/start")
	f.message(t, "Springfield")
}

func TestStartShowsCityMenu(t *testing.T) {
	f := newFixture(t)

	r := f.message(t, "/start")

	assert.Contains(t, r.Text, constant.MsgChooseCity)
	require.NotNil(t, r.Menu)
	assert.Equal(t, menu.KindReply, r.Menu.Kind())
	assert.Equal(t, constant.StateChoosingCity, f.state(t))
	assert.True(t, f.activity.has("session_started"))
}

func TestStartResetsExistingSession(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	f.message(t, "Zara")

	f.message(t, "/start")

	assert.Equal(t, constant.StateChoosingCity, f.state(t))
	assert.Empty(t, f.stores(t))
}

func TestCitySelection(t *testing.T) {
	f := newFixture(t)
	f.message(t, "/start")

	r := f.message(t, "Atlantis")
	assert.Equal(t, constant.MsgCityUnavailable, r.Text)
	assert.Equal(t, constant.StateChoosingCity, f.state(t))

	r = f.message(t, "Springfield")
	assert.Contains(t, r.Text, "Springfield")
	assert.Equal(t, constant.StateEnteringStore, f.state(t))
	assert.True(t, f.activity.has("city_selected"))
}

func TestAddStoreResolvesAlias(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)

	r := f.message(t, "hm")

	assert.Contains(t, r.Text, "H&M")
	assert.Equal(t, []string{"H&M"}, f.stores(t))
	require.NotNil(t, r.Menu)
	assert.Equal(t, menu.KindInline, r.Menu.Kind())
}

func TestAddStoreRejectsDuplicate(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	f.message(t, "Zara")

	r := f.message(t, "zara")

	assert.Contains(t, r.Text, "already on your list")
	assert.Equal(t, []string{"Zara"}, f.stores(t))
}

func TestAddStoreUnknownName(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)

	r := f.message(t, "qwertyuiop")

	assert.Contains(t, r.Text, "Could not find a store")
	assert.Empty(t, f.stores(t))
}

func TestDigitRemovesWorkingListStore(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	f.message(t, "Zara")
	f.message(t, "Lush")

	r := f.message(t, "1")

	assert.Contains(t, r.Text, "Removed: Zara")
	assert.Equal(t, []string{"Lush"}, f.stores(t))
}

func TestDigitOutOfRangeWithoutSavedQueries(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	f.message(t, "Zara")

	r := f.message(t, "7")

	assert.Equal(t, constant.MsgInvalidNumber, r.Text)
	assert.Equal(t, []string{"Zara"}, f.stores(t))
}

func TestSearchRanksByMatchedCount(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	f.message(t, "Zara")
	f.message(t, "hm")

	r := f.message(t, constant.CmdSearch)

	assert.True(t, r.DisableLinkPreview)
	assert.Contains(t, r.Text, "Mall X</b> — 2 / 2")
	assert.Contains(t, r.Text, "Mall Y</b> — 1 / 2")
	assert.Less(t, strings.Index(r.Text, "Mall X"), strings.Index(r.Text, "Mall Y"))
}

func TestSearchWithoutStores(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)

	r := f.message(t, constant.CmdSearch)

	assert.Equal(t, constant.MsgNoStoresYet, r.Text)
}

func TestSearchWithoutCity(t *testing.T) {
	f := newFixture(t)
	f.message(t, "/start")
	// Force the store-entry state without a city being set.
	s, err := f.sessions.Get(context.Background(), f.opaque)
	require.NoError(t, err)
	s.State = constant.StateEnteringStore
	require.NoError(t, f.sessions.Save(context.Background(), s))

	r := f.message(t, constant.CmdSearch)

	assert.Equal(t, constant.MsgNoCitySelected, r.Text)
}

func TestClearList(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	f.message(t, "Zara")

	r := f.message(t, constant.CmdClearList)

	assert.Equal(t, constant.MsgListCleared, r.Text)
	assert.Empty(t, f.stores(t))
}

func TestChangeCityResetsList(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	f.message(t, "Zara")

	r := f.message(t, constant.CmdChangeCity)
	assert.Equal(t, constant.MsgChooseCity, r.Text)
	assert.Equal(t, constant.StateChoosingCity, f.state(t))

	f.message(t, "Shelbyville")
	assert.Empty(t, f.stores(t))
}

func TestUnknownStateFallsBack(t *testing.T) {
	f := newFixture(t)
	f.message(t, "/start")
	s, err := f.sessions.Get(context.Background(), f.opaque)
	require.NoError(t, err)
	s.State = "no_such_state"
	require.NoError(t, f.sessions.Save(context.Background(), s))

	r := f.message(t, "anything")

	assert.Equal(t, constant.MsgUnknownAction, r.Text)
}
