// Package socialproof picks which reference-customer logos to show next to a
// microsite. Pure scoring over a fixed list, no I/O, no persisted state.
package socialproof

import (
	"sort"
	"strings"

	"github.com/getsitespark/sitespark/internal/microsite"
)

// Select scores every reference customer against the target and returns the
// top n. Ties keep input-list order, so the sort must be stable.
func Select(industry microsite.Industry, size microsite.SizeBracket, location string, n int) []Customer {
	if n <= 0 {
		return []Customer{}
	}

	targetRegion, regionKnown := ResolveRegion(location)

	type scored struct {
		customer Customer
		score    int
	}
	ranked := make([]scored, 0, len(customers))
	for _, c := range customers {
		score := 0
		if regionKnown && c.Region == targetRegion {
			score += 100
		}
		if c.Industry == industry {
			score += 50
		}
		distance := microsite.BracketIndex(c.Size) - microsite.BracketIndex(size)
		if distance < 0 {
			distance = -distance
		}
		score += (3 - distance) * 10
		if c.Size == microsite.SizeEnterprise {
			score += 20
		}
		ranked = append(ranked, scored{customer: c, score: score})
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if n > len(ranked) {
		n = len(ranked)
	}
	out := make([]Customer, 0, n)
	for _, s := range ranked[:n] {
		out = append(out, s.customer)
	}
	return out
}

// ResolveRegion maps a free-form location label to a region. The boolean is
// false when the location is empty or unrecognized.
func ResolveRegion(location string) (Region, bool) {
	key := strings.ToLower(strings.TrimSpace(location))
	if key == "" {
		return "", false
	}
	if region, ok := regionAliases[key]; ok {
		return region, true
	}
	// Allow "Brooklyn, New York" style labels to hit an alias substring.
	for alias, region := range regionAliases {
		if strings.Contains(key, alias) {
			return region, true
		}
	}
	return "", false
}
