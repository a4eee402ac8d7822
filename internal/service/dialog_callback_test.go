package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"mallfinder-be/internal/constant"
	"mallfinder-be/pkg/menu"
)

func TestWrongStoreOffersCandidates(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	r := f.message(t, "zarra")
	require.Contains(t, r.Text, "Zara")

	r = f.callback(t, menu.WrongStoreToken(0).String())

	assert.Contains(t, r.Text, "zarra")
	assert.Empty(t, f.stores(t))
	require.NotNil(t, r.Menu)
	assert.Equal(t, menu.KindInline, r.Menu.Kind())
	assert.NotEmpty(t, r.Menu.InlineRows())
}

func TestPickStoreAddsChoice(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	f.message(t, "zarra")
	r := f.callback(t, menu.WrongStoreToken(0).String())
	rows := r.Menu.InlineRows()
	require.NotEmpty(t, rows)
	picked := rows[0][0].Label

	r = f.callback(t, rows[0][0].Token.String())

	assert.Contains(t, r.Text, picked)
	assert.Equal(t, []string{picked}, f.stores(t))
}

func TestPickStoreToleratesStaleBuffer(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)

	r := f.callback(t, menu.PickStoreToken(3).String())

	assert.Equal(t, constant.MsgPickStoreFailed, r.Text)
}

func TestWrongStoreWithEmptyList(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)

	r := f.callback(t, menu.WrongStoreToken(0).String())

	assert.Equal(t, constant.MsgPickStoreFailed, r.Text)
}

func TestMalformedCallbackToken(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)

	for _, raw := range []string{"", "bogus", "pick_store::x", "load_query", "wrong_store::0"} {
		r := f.callback(t, raw)
		assert.Equal(t, constant.MsgStaleButton, r.Text, "token %q", raw)
	}
}

func TestClearListCallback(t *testing.T) {
	f := newFixture(t)
	f.startAndPickCity(t)
	f.message(t, "Zara")

	r := f.callback(t, menu.ClearListToken().String())

	assert.Equal(t, constant.MsgListCleared, r.Text)
	assert.Empty(t, f.stores(t))
}
