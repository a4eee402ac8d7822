package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mallfinder-be/internal/constant"
	"mallfinder-be/internal/dto"
	"mallfinder-be/pkg/menu"
)

// saveQuery runs the full save flow and returns the new query's id.
func (f *fixture) saveQuery(t *testing.T, name string, stores ...string) int {
	t.Helper()
	for _, store := range stores {
		f.message(t, store)
	}
	r := f.callback(t, menu.SaveQueryToken().String())
	require.Equal(t, constant.MsgEnterQueryName, r.Text)
	f.message(t, name)

	queries, err := f.queries.List(context.Background(), f.opaque)
	require.NoError(t, err)
	for _, q := range queries {
		if q.Name == name {
			return q.Id
		}
	}
	t.Fatalf("query %q not found after save", name)
	return 0
}

func (f *fixture) loadQuery(t *testing.T, id int) *dto.Reply {
	t.Helper()
	return f.callback(t, menu.LoadQueryToken(id).String())
}

func TestSaveQueryFlow(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)

	id := f.saveQuery(t, "weekend run", "Zara", "Lush")

	assert.Equal(t, 1, id)
	assert.Equal(t, constant.StateEnteringStore, f.state(t))

	q, err := f.queries.Get(context.Background(), f.opaque, id)
	require.NoError(t, err)
	assert.Equal(t, "weekend run", q.Name)
	assert.Equal(t, []string{"Zara", "Lush"}, q.Stores)
	assert.Equal(t, "Springfield", q.City)
}

func TestSaveQueryRejectsEmptyName(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	f.message(t, "Zara")
	f.callback(t, menu.SaveQueryToken().String())

	r := f.message(t, "   ")

	assert.Equal(t, constant.MsgEmptyQueryName, r.Text)
	assert.Equal(t, constant.StateEnteringQueryName, f.state(t))
}

func TestSaveQueryWithEmptyList(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)

	r := f.callback(t, menu.SaveQueryToken().String())

	assert.Equal(t, constant.MsgNothingToSave, r.Text)
	assert.Equal(t, constant.StateEnteringStore, f.state(t))
}

func TestLoadQuerySetsCursorAndCity(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	id := f.saveQuery(t, "weekend run", "Zara")
	f.message(t, constant.CmdNewSearch)

	r := f.loadQuery(t, id)

	assert.Contains(t, r.Text, "weekend run")
	assert.Equal(t, constant.StateEditingSavedQuery, f.state(t))
	assert.Equal(t, []string{"Zara"}, f.stores(t))
	assert.True(t, f.activity.has("query_loaded"))
}

func TestLoadMissingQuery(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)

	r := f.loadQuery(t, 42)

	assert.Equal(t, constant.MsgQueryLoadFailed, r.Text)
}

func TestStableIdsSurviveDeletes(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	idA := f.saveQuery(t, "first", "Zara")
	f.message(t, constant.CmdNewSearch)
	idB := f.saveQuery(t, "second", "Lush")
	f.message(t, constant.CmdNewSearch)

	f.loadQuery(t, idA)
	f.message(t, constant.CmdDeleteQuery)

	// The remaining query keeps its id and its load button keeps working.
	r := f.loadQuery(t, idB)
	assert.Contains(t, r.Text, "second")
}

func TestRenameQuery(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	id := f.saveQuery(t, "old name", "Zara")
	f.loadQuery(t, id)

	r := f.message(t, constant.CmdRename)
	assert.Equal(t, constant.MsgEnterNewName, r.Text)

	r = f.message(t, "new name")
	assert.Contains(t, r.Text, constant.MsgNameUpdated)
	assert.Equal(t, constant.StateEditingSavedQueryStoresMenu, f.state(t))

	q, err := f.queries.Get(context.Background(), f.opaque, id)
	require.NoError(t, err)
	assert.Equal(t, "new name", q.Name)
}

func TestDeleteQuery(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	id := f.saveQuery(t, "doomed", "Zara")
	f.loadQuery(t, id)

	r := f.message(t, constant.CmdDeleteQuery)

	assert.Equal(t, constant.MsgQueryDeleted, r.Text)
	assert.Equal(t, constant.StateEnteringStore, f.state(t))
	queries, err := f.queries.List(context.Background(), f.opaque)
	require.NoError(t, err)
	assert.Empty(t, queries)
}

func TestEditStoresPersistsIntoQuery(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	id := f.saveQuery(t, "editable", "Zara")
	f.loadQuery(t, id)
	f.message(t, constant.CmdEditStores)
	require.Equal(t, constant.StateEditingSavedQueryStoresMenu, f.state(t))

	f.message(t, "Lush")

	q, err := f.queries.Get(context.Background(), f.opaque, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Zara", "Lush"}, q.Stores)
}

func TestEditStoresRemoveByNumber(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	id := f.saveQuery(t, "editable", "Zara", "Lush")
	f.loadQuery(t, id)
	f.message(t, constant.CmdEditStores)

	r := f.message(t, "1")

	assert.Contains(t, r.Text, "Removed: Zara")
	q, err := f.queries.Get(context.Background(), f.opaque, id)
	require.NoError(t, err)
	assert.Equal(t, []string{"Lush"}, q.Stores)
}

func TestEditStoresRejectsBadNumber(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	id := f.saveQuery(t, "editable", "Zara")
	f.loadQuery(t, id)
	f.message(t, constant.CmdEditStores)

	r := f.message(t, "9")

	assert.Equal(t, constant.MsgInvalidNumberSaved, r.Text)
}

func TestDanglingCursorRecovers(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	id := f.saveQuery(t, "ghost", "Zara")
	f.loadQuery(t, id)
	f.message(t, constant.CmdEditStores)

	// The query vanishes underneath the editor.
	require.NoError(t, f.queries.Delete(context.Background(), f.opaque, id))

	r := f.message(t, "Lush")

	assert.Equal(t, constant.MsgQueryGone, r.Text)
	assert.Equal(t, constant.StateEnteringStore, f.state(t))
}

func TestBackFromQueryMenu(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	id := f.saveQuery(t, "stay", "Zara")
	f.loadQuery(t, id)

	r := f.message(t, constant.CmdBack)

	assert.Equal(t, constant.MsgChooseAction, r.Text)
	assert.Equal(t, constant.StateEnteringStore, f.state(t))
}

func TestSavedQueriesListing(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	f.saveQuery(t, "first", "Zara")

	r := f.message(t, constant.CmdSavedList)

	assert.Contains(t, r.Text, "first")
	require.NotNil(t, r.Menu)
	assert.Equal(t, menu.KindInline, r.Menu.Kind())
	rows := r.Menu.InlineRows()
	require.Len(t, rows, 1)
	assert.Equal(t, fmt.Sprintf("%s::1", menu.ActionLoadQuery), rows[0][0].Token.String())
}

func TestSavedQueriesListingEmpty(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)

	r := f.message(t, constant.CmdSavedList)

	assert.Equal(t, constant.MsgNoSavedQueries, r.Text)
}

func TestDigitLoadsQueryByStableId(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	id := f.saveQuery(t, "by number", "Zara")
	f.message(t, constant.CmdNewSearch)

	r := f.message(t, fmt.Sprintf("%d", id))

	assert.Contains(t, r.Text, "by number")
	assert.Equal(t, constant.StateEditingSavedQuery, f.state(t))
}
