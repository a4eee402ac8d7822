// Package match turns free-text store names into canonical catalog names.
// Literal tiers run before fuzzy tiers on purpose: silently substituting an
// unintended brand is worse than asking the user again.
package match

import (
	"strings"
	"unicode/utf8"

	fuzzy "github.com/paul-mannino/go-fuzzywuzzy"

	"mallfinder-be/pkg/catalog"
)

const (
	DefaultAliasThreshold = 70
	DefaultStoreThreshold = 80
	DefaultCandidates     = 5
)

type Resolver struct {
	cat            *catalog.Catalog
	aliasThreshold int
	storeThreshold int
}

type Option func(*Resolver)

func WithAliasThreshold(score int) Option {
	return func(r *Resolver) { r.aliasThreshold = score }
}

func WithStoreThreshold(score int) Option {
	return func(r *Resolver) { r.storeThreshold = score }
}

func NewResolver(cat *catalog.Catalog, opts ...Option) *Resolver {
	r := &Resolver{
		cat:            cat,
		aliasThreshold: DefaultAliasThreshold,
		storeThreshold: DefaultStoreThreshold,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Resolve maps input to a canonical store name. Tier order:
//
//  1. case-insensitive exact match over all store names
//  2. case-insensitive exact match over the alias table
//  3. shortest store name with the input as prefix
//  4. shortest store name containing the input
//  5. fuzzy match over each canonical name's aliases (alias threshold)
//  6. fuzzy match over all store names (store threshold)
//
// The second return is false when no tier produced a name.
func (r *Resolver) Resolve(input string) (string, bool) {
	inputLower := strings.ToLower(strings.TrimSpace(input))
	if inputLower == "" {
		return "", false
	}
	allStores := r.cat.AllStores()
	if len(allStores) == 0 {
		return "", false
	}

	for _, store := range allStores {
		if strings.ToLower(store) == inputLower {
			return store, true
		}
	}

	for _, canonical := range r.cat.CanonicalNames() {
		for _, alias := range r.cat.Aliases()[canonical] {
			if strings.ToLower(alias) == inputLower {
				return canonical, true
			}
		}
	}

	if name, ok := shortestWhere(allStores, func(lower string) bool {
		return strings.HasPrefix(lower, inputLower)
	}); ok {
		return name, true
	}

	if name, ok := shortestWhere(allStores, func(lower string) bool {
		return strings.Contains(lower, inputLower)
	}); ok {
		return name, true
	}

	for _, canonical := range r.cat.CanonicalNames() {
		aliases := r.cat.Aliases()[canonical]
		if len(aliases) == 0 {
			continue
		}
		best, err := fuzzy.ExtractOne(inputLower, aliases)
		if err == nil && best != nil && best.Score >= r.aliasThreshold {
			return canonical, true
		}
	}

	best, err := fuzzy.ExtractOne(input, allStores)
	if err == nil && best != nil && best.Score >= r.storeThreshold {
		return best.Match, true
	}
	return "", false
}

// Candidates returns the top fuzzy matches for input over all store names,
// best first. Used by the wrong-store disambiguation flow.
func (r *Resolver) Candidates(input string, limit int) []string {
	if limit <= 0 {
		limit = DefaultCandidates
	}
	if strings.TrimSpace(input) == "" {
		return nil
	}
	matches, err := fuzzy.Extract(input, r.cat.AllStores(), limit)
	if err != nil {
		return nil
	}
	out := make([]string, 0, len(matches))
	for _, m := range matches {
		out = append(out, m.Match)
	}
	return out
}

// shortestWhere picks the store with the fewest characters among those whose
// lowercase form satisfies pred. Catalog order is stable, so equal-length ties
// resolve the same way every run.
func shortestWhere(stores []string, pred func(lower string) bool) (string, bool) {
	best := ""
	bestLen := -1
	for _, store := range stores {
		if !pred(strings.ToLower(store)) {
			continue
		}
		if n := utf8.RuneCountInString(store); bestLen == -1 || n < bestLen {
			best, bestLen = store, n
		}
	}
	return best, bestLen != -1
}
