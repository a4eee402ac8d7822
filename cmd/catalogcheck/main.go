package main

import (
	"flag"
	"fmt"
	"os"
	"strings"

	"mallfinder-be/pkg/catalog"

	"github.com/fatih/color"
)

// catalogcheck validates the catalog data files before a deploy: every city
// has malls, every mall has stores, and every alias points at a canonical
// store name that actually exists.
func main() {
	mallsFile := flag.String("malls", "malls.json", "path to the malls catalog file")
	aliasesFile := flag.String("aliases", "aliases.json", "path to the aliases file")
	flag.Parse()

	ok := color.New(color.FgGreen).PrintfFunc()
	warn := color.New(color.FgYellow).PrintfFunc()
	fail := color.New(color.FgRed).PrintfFunc()

	cat, err := catalog.Load(*mallsFile, *aliasesFile)
	if err != nil {
		fail("✗ failed to load catalog: %v\n", err)
		os.Exit(1)
	}

	problems := 0

	cities := cat.Cities()
	if len(cities) == 0 {
		fail("✗ catalog has no cities\n")
		problems++
	}
	for _, city := range cities {
		malls := cat.Malls(city)
		if len(malls) == 0 {
			warn("! city %q has no malls\n", city)
			problems++
			continue
		}
		for name, mall := range malls {
			if len(mall.Stores) == 0 {
				warn("! mall %q in %q has no stores\n", name, city)
				problems++
			}
			if mall.Address == "" {
				warn("! mall %q in %q has no address\n", name, city)
				problems++
			}
		}
	}

	known := make(map[string]bool)
	for _, store := range cat.AllStores() {
		known[strings.ToLower(store)] = true
	}
	for canonical, aliases := range cat.Aliases() {
		if !known[strings.ToLower(canonical)] {
			warn("! alias target %q does not match any store in the catalog\n", canonical)
			problems++
		}
		if len(aliases) == 0 {
			warn("! alias entry %q has no aliases\n", canonical)
			problems++
		}
	}

	fmt.Println()
	if problems > 0 {
		fail("✗ %d problem(s) found across %d cities, %d stores\n",
			problems, len(cities), len(cat.AllStores()))
		os.Exit(1)
	}
	ok("✓ catalog is consistent: %d cities, %d distinct stores, %d alias groups\n",
		len(cities), len(cat.AllStores()), len(cat.Aliases()))
}
