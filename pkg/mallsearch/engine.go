// Package mallsearch ranks a city's malls by how many of the requested
// stores they host.
package mallsearch

import (
	"sort"
	"strings"

	"mallfinder-be/pkg/catalog"
	"mallfinder-be/pkg/match"
)

type MatchedStore struct {
	Name  string
	Floor *int
}

type Result struct {
	Mall         string
	Address      string
	MapLink      string
	MatchedCount int // distinct matched queries, not distinct stores
	Stores       []MatchedStore
}

type Engine struct {
	cat      *catalog.Catalog
	resolver *match.Resolver
}

func NewEngine(cat *catalog.Catalog, resolver *match.Resolver) *Engine {
	return &Engine{cat: cat, resolver: resolver}
}

// Search resolves each query and ranks the city's malls by matched-query
// count, descending. An unknown city yields an empty result, not an error.
// Queries that do not resolve still participate with their raw text, so a
// verbatim store name always matches.
func (e *Engine) Search(city string, queries []string) []Result {
	malls := e.cat.Malls(city)
	if len(malls) == 0 || len(queries) == 0 {
		return nil
	}

	resolved := make([]string, len(queries))
	for i, q := range queries {
		if name, ok := e.resolver.Resolve(q); ok {
			resolved[i] = name
		} else {
			resolved[i] = q
		}
	}

	mallNames := make([]string, 0, len(malls))
	for name := range malls {
		mallNames = append(mallNames, name)
	}
	sort.Strings(mallNames) // stable tie-break for equal match counts

	var results []Result
	for _, mallName := range mallNames {
		mall := malls[mallName]
		lower := make(map[string]MatchedStore, len(mall.Stores))
		for store, floor := range mall.Stores {
			lower[strings.ToLower(store)] = MatchedStore{Name: store, Floor: floor}
		}

		var matched []MatchedStore
		found := 0
		for _, query := range resolved {
			if hit, ok := lower[strings.ToLower(query)]; ok {
				matched = append(matched, hit)
				found++ // each query counts once; the lookup is exact so there is at most one hit
			}
		}
		if found == 0 {
			continue
		}

		results = append(results, Result{
			Mall:         mallName,
			Address:      mall.Address,
			MapLink:      mapLink(mall),
			MatchedCount: found,
			Stores:       sortedUnique(matched),
		})
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].MatchedCount > results[j].MatchedCount
	})
	return results
}

// mapLink prefers the stored link and otherwise derives one from the address.
func mapLink(mall catalog.Mall) string {
	if mall.MapLink != "" {
		return mall.MapLink
	}
	return "https://yandex.ru/maps/?text=" + strings.ReplaceAll(mall.Address, " ", "+")
}

// sortedUnique drops duplicate (store, floor) pairs (two queries can resolve
// to the same canonical store) and orders floors ascending, unknown last.
func sortedUnique(stores []MatchedStore) []MatchedStore {
	type key struct {
		name     string
		floor    int
		hasFloor bool
	}
	seen := make(map[key]struct{}, len(stores))
	out := make([]MatchedStore, 0, len(stores))
	for _, s := range stores {
		k := key{name: s.Name}
		if s.Floor != nil {
			k.floor, k.hasFloor = *s.Floor, true
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		out = append(out, s)
	}

	sort.SliceStable(out, func(i, j int) bool {
		a, b := out[i].Floor, out[j].Floor
		switch {
		case a == nil:
			return false
		case b == nil:
			return true
		default:
			return *a < *b
		}
	})
	return out
}
