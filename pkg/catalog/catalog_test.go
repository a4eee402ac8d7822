package catalog

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func intPtr(n int) *int { return &n }

func TestNewBuildsStoreUnion(t *testing.T) {
	c := New(map[string]map[string]Mall{
		"CityA": {
			"MallX": {Address: "Main St 1", Stores: StoreFloors{"Zara": intPtr(1), "H&M": intPtr(2)}},
			"MallY": {Address: "Main St 2", Stores: StoreFloors{"Zara": intPtr(3)}},
		},
		"CityB": {
			"MallZ": {Address: "Side St 9", Stores: StoreFloors{"Nike": nil}},
		},
	}, map[string][]string{"H&M": {"h and m"}})

	assert.Equal(t, []string{"H&M", "Nike", "Zara"}, c.AllStores())
	assert.Equal(t, []string{"CityA", "CityB"}, c.Cities())
	assert.True(t, c.HasCity("CityA"))
	assert.False(t, c.HasCity("CityC"))
	assert.Nil(t, c.Malls("CityC"))

	// Every store in any mall must appear in the union.
	for _, malls := range []string{"CityA", "CityB"} {
		for _, mall := range c.Malls(malls) {
			for store := range mall.Stores {
				assert.Contains(t, c.AllStores(), store)
			}
		}
	}
}

func TestLoadDecodesBothStoreShapes(t *testing.T) {
	dir := t.TempDir()
	mallsPath := filepath.Join(dir, "malls.json")
	aliasesPath := filepath.Join(dir, "aliases.json")

	mallsJSON := `{
		"CityA": {
			"MallX": {"address": "Main St 1", "map_link": "https://maps.example/x",
				"stores": {"Zara": 1, "H&M": null, "Gloria Jeans": "2"}},
			"MallY": {"address": "Main St 2", "stores": ["Zara", "Nike"]}
		}
	}`
	require.NoError(t, os.WriteFile(mallsPath, []byte(mallsJSON), 0o644))
	require.NoError(t, os.WriteFile(aliasesPath, []byte(`{"H&M": ["h and m", "hm"]}`), 0o644))

	c, err := Load(mallsPath, aliasesPath)
	require.NoError(t, err)

	mallX := c.Malls("CityA")["MallX"]
	require.NotNil(t, mallX.Stores["Zara"])
	assert.Equal(t, 1, *mallX.Stores["Zara"])
	assert.Nil(t, mallX.Stores["H&M"])
	require.NotNil(t, mallX.Stores["Gloria Jeans"])
	assert.Equal(t, 2, *mallX.Stores["Gloria Jeans"])

	// Legacy list shape: present, floors unknown.
	mallY := c.Malls("CityA")["MallY"]
	assert.Len(t, mallY.Stores, 2)
	assert.Nil(t, mallY.Stores["Nike"])

	assert.Equal(t, []string{"h and m", "hm"}, c.Aliases()["H&M"])
	assert.Equal(t, []string{"H&M"}, c.CanonicalNames())
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load("does-not-exist.json", "also-missing.json")
	assert.Error(t, err)
}
