package service

import (
	"fmt"
	"strings"

	"mallfinder-be/internal/constant"
	"mallfinder-be/internal/entity"
	"mallfinder-be/pkg/mallsearch"
	"mallfinder-be/pkg/menu"
)

// cityMenu lays the catalog's cities out two per row.
func (s *dialogService) cityMenu() *menu.Descriptor {
	cities := s.cat.Cities()
	rows := make([][]string, 0, (len(cities)+1)/2)
	for i := 0; i < len(cities); i += 2 {
		end := i + 2
		if end > len(cities) {
			end = len(cities)
		}
		rows = append(rows, cities[i:end])
	}
	return menu.Reply(rows...)
}

// afterStoreMenu is the main working-list keyboard.
func afterStoreMenu() *menu.Descriptor {
	return menu.Reply(
		[]string{constant.CmdAddStore, constant.CmdSearch},
		[]string{constant.CmdEditList, constant.CmdChangeCity},
		[]string{constant.CmdNewSearch, constant.CmdClearList},
		[]string{constant.CmdSavedList},
	)
}

// queryMenu is shown while a saved query is selected.
func queryMenu() *menu.Descriptor {
	return menu.Reply(
		[]string{constant.CmdRename, constant.CmdEditStores},
		[]string{constant.CmdDeleteQuery, constant.CmdSearch},
		[]string{constant.CmdSavedList, constant.CmdNewSearch},
		[]string{constant.CmdBack},
	)
}

// savedQueryEditMenu is shown while editing a saved query's store list.
func savedQueryEditMenu() *menu.Descriptor {
	return menu.Reply(
		[]string{constant.CmdAddToQuery, constant.CmdRemoveStore},
		[]string{constant.CmdRename, constant.CmdSaveQuery},
		[]string{constant.CmdBack},
	)
}

// addedStoreKeyboard offers the correction and save affordances after a
// store lands in the working list. choiceIndex addresses the disambiguation
// buffer entry the wrong_store flow should rebuild candidates from.
func addedStoreKeyboard(choiceIndex int) *menu.Descriptor {
	return menu.Inline(
		[]menu.InlineButton{{Label: constant.BtnWrongStore, Token: menu.WrongStoreToken(choiceIndex)}},
		[]menu.InlineButton{{Label: constant.BtnSaveQuery, Token: menu.SaveQueryToken()}},
	)
}

func candidateKeyboard(candidates []string) *menu.Descriptor {
	rows := make([][]menu.InlineButton, 0, len(candidates))
	for i, name := range candidates {
		rows = append(rows, []menu.InlineButton{{Label: name, Token: menu.PickStoreToken(i)}})
	}
	return menu.Inline(rows...)
}

func savedQueryKeyboard(queries []entity.SavedQuery) *menu.Descriptor {
	rows := make([][]menu.InlineButton, 0, len(queries))
	for _, q := range queries {
		label := fmt.Sprintf("%d. %s", q.Id, q.Name)
		rows = append(rows, []menu.InlineButton{{Label: label, Token: menu.LoadQueryToken(q.Id)}})
	}
	return menu.Inline(rows...)
}

func formatStoreList(stores []string) string {
	if len(stores) == 0 {
		return constant.MsgListEmpty
	}
	var b strings.Builder
	b.WriteString("Your stores:\n")
	for i, store := range stores {
		fmt.Fprintf(&b, "%d. %s\n", i+1, store)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatSavedQueries(queries []entity.SavedQuery) string {
	var b strings.Builder
	b.WriteString("Your saved queries:\n\n")
	for _, q := range queries {
		fmt.Fprintf(&b, "%d. <b>%s</b>\n%s\n\n", q.Id, q.Name, strings.Join(q.Stores, ", "))
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatLoadedQuery(q *entity.SavedQuery) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📜 <b>%s</b>\n", q.Name)
	if q.City != "" {
		fmt.Fprintf(&b, "City: %s\n", q.City)
	}
	b.WriteString("\nStores:\n")
	for i, store := range q.Stores {
		fmt.Fprintf(&b, "%d. %s\n", i+1, store)
	}
	b.WriteString("\nChoose an action:")
	return b.String()
}

func formatSearchResults(results []mallsearch.Result, total int) string {
	var b strings.Builder
	b.WriteString("🏙 Malls hosting your stores:\n\n")
	for _, res := range results {
		fmt.Fprintf(&b, "🏬 <b>%s</b> — %d / %d stores\n", res.Mall, res.MatchedCount, total)
		fmt.Fprintf(&b, "<a href=\"%s\">%s</a>\n", res.MapLink, res.Address)
		for _, store := range res.Stores {
			if store.Floor != nil {
				fmt.Fprintf(&b, "• %s — floor %d\n", store.Name, *store.Floor)
			} else {
				fmt.Fprintf(&b, "• %s — no floor data\n", store.Name)
			}
		}
		b.WriteString("\n")
	}
	return strings.TrimRight(b.String(), "\n")
}
