// Package catalog holds the immutable mall dataset: city -> mall -> stores,
// plus the alias table. It is built once at startup and shared read-only, so
// no locking is involved anywhere downstream.
package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"strconv"
	"strings"
)

// Mall is one shopping mall entry. Floor numbers are optional: a store can be
// listed without a known floor and that is distinct from floor 0.
type Mall struct {
	Address string      `json:"address"`
	MapLink string      `json:"map_link"`
	Stores  StoreFloors `json:"stores"`
}

// StoreFloors maps a store name to its floor, nil when unknown.
type StoreFloors map[string]*int

// UnmarshalJSON accepts both the current object form {"Zara": 1, "H&M": null}
// and the legacy list form ["Zara", "H&M"] produced by the early scrapers.
func (s *StoreFloors) UnmarshalJSON(data []byte) error {
	var asList []string
	if err := json.Unmarshal(data, &asList); err == nil {
		out := make(StoreFloors, len(asList))
		for _, name := range asList {
			out[name] = nil
		}
		*s = out
		return nil
	}

	var asMap map[string]interface{}
	if err := json.Unmarshal(data, &asMap); err != nil {
		return fmt.Errorf("catalog: stores field is neither list nor object: %w", err)
	}
	out := make(StoreFloors, len(asMap))
	for name, raw := range asMap {
		out[name] = coerceFloor(raw)
	}
	*s = out
	return nil
}

// coerceFloor is fail-soft: anything that is not a usable number reads as
// floor-unknown rather than an error, so one dirty scrape cannot block startup.
func coerceFloor(raw interface{}) *int {
	switch v := raw.(type) {
	case float64:
		f := int(v)
		return &f
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return &n
		}
		return nil
	default:
		return nil
	}
}

// Catalog is the read-only index over the dataset.
type Catalog struct {
	cities    map[string]map[string]Mall
	aliases   map[string][]string
	allStores []string
	cityNames []string
}

// New builds an index from already-decoded data. Used directly by tests; the
// server path goes through Load.
func New(cities map[string]map[string]Mall, aliases map[string][]string) *Catalog {
	seen := make(map[string]struct{})
	var all []string
	for _, malls := range cities {
		for _, mall := range malls {
			for store := range mall.Stores {
				if _, ok := seen[store]; !ok {
					seen[store] = struct{}{}
					all = append(all, store)
				}
			}
		}
	}
	// Stable order keeps the resolver's tie-breaks deterministic across runs.
	sort.Strings(all)

	names := make([]string, 0, len(cities))
	for city := range cities {
		names = append(names, city)
	}
	sort.Strings(names)

	if aliases == nil {
		aliases = map[string][]string{}
	}

	return &Catalog{
		cities:    cities,
		aliases:   aliases,
		allStores: all,
		cityNames: names,
	}
}

// Load reads the malls and aliases JSON files produced by the scraping
// pipeline and builds the index.
func Load(mallsPath, aliasesPath string) (*Catalog, error) {
	mallsRaw, err := os.ReadFile(mallsPath)
	if err != nil {
		return nil, fmt.Errorf("catalog: read malls file: %w", err)
	}
	var cities map[string]map[string]Mall
	if err := json.Unmarshal(mallsRaw, &cities); err != nil {
		return nil, fmt.Errorf("catalog: decode malls file: %w", err)
	}

	aliasesRaw, err := os.ReadFile(aliasesPath)
	if err != nil {
		return nil, fmt.Errorf("catalog: read aliases file: %w", err)
	}
	var aliases map[string][]string
	if err := json.Unmarshal(aliasesRaw, &aliases); err != nil {
		return nil, fmt.Errorf("catalog: decode aliases file: %w", err)
	}

	return New(cities, aliases), nil
}

// Cities returns the configured city names in stable order.
func (c *Catalog) Cities() []string {
	return c.cityNames
}

func (c *Catalog) HasCity(name string) bool {
	_, ok := c.cities[name]
	return ok
}

// Malls returns the malls of a city, nil for an unknown city.
func (c *Catalog) Malls(city string) map[string]Mall {
	return c.cities[city]
}

// AllStores is the deduplicated union of every store across every mall,
// lexicographically ordered. Callers must not mutate it.
func (c *Catalog) AllStores() []string {
	return c.allStores
}

// Aliases maps canonical store names to their alternate spellings.
// Callers must not mutate it.
func (c *Catalog) Aliases() map[string][]string {
	return c.aliases
}

// CanonicalNames returns the alias table's canonical names in stable order.
func (c *Catalog) CanonicalNames() []string {
	names := make([]string, 0, len(c.aliases))
	for name := range c.aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
