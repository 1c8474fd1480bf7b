package recommend

import (
	"context"
	"sort"
	"strings"

	"github.com/agnivade/levenshtein"
	"golang.org/x/text/unicode/norm"

	"github.com/NeighborlyNG/location-core/internal/location"
)

// SearchMatch is one fuzzy name-search hit. Distance is the edit distance
// between the normalized query and name; prefix matches score 0.
type SearchMatch struct {
	Neighborhood location.Neighborhood `json:"neighborhood"`
	Distance     int                   `json:"distance"`
}

// maxSearchQueryLen caps query length before the edit-distance pass.
const maxSearchQueryLen = 64

// normalizeName lowercases and NFC-normalizes a name so visually identical
// spellings compare equal.
func normalizeName(s string) string {
	return strings.ToLower(strings.TrimSpace(norm.NFC.String(s)))
}

// SearchByName ranks cached neighborhoods against a query: names starting
// with the query come first (distance 0, original order kept), then
// close-edit-distance matches ascending. Matches further than a third of
// the query length are dropped.
func SearchByName(candidates []location.Neighborhood, query string, limit int) []SearchMatch {
	query = normalizeName(query)
	if query == "" {
		return nil
	}
	if runes := []rune(query); len(runes) > maxSearchQueryLen {
		query = string(runes[:maxSearchQueryLen])
	}

	maxDist := len([]rune(query))/3 + 1

	matches := make([]SearchMatch, 0, len(candidates))
	for _, n := range candidates {
		name := normalizeName(n.Name)
		if strings.HasPrefix(name, query) {
			matches = append(matches, SearchMatch{Neighborhood: n})
			continue
		}
		dist := levenshtein.ComputeDistance(query, name)
		if dist <= maxDist {
			matches = append(matches, SearchMatch{Neighborhood: n, Distance: dist})
		}
	}

	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Distance < matches[j].Distance
	})

	if limit > 0 && len(matches) > limit {
		matches = matches[:limit]
	}
	return matches
}

// Search runs SearchByName over the gateway's neighborhood level.
func (e *Engine) Search(ctx context.Context, query string, limit int) location.Result[[]SearchMatch] {
	res := e.source.AllNeighborhoods(ctx)
	if !res.Success {
		return location.Fail[[]SearchMatch](res.Code, res.Message)
	}
	return location.OK(SearchByName(res.Data, query, limit))
}

// Locate runs LocateNeighborhood over the gateway's neighborhood level.
func (e *Engine) Locate(ctx context.Context, coord location.Coordinates) location.Result[*location.Neighborhood] {
	res := e.source.AllNeighborhoods(ctx)
	if !res.Success {
		return location.Fail[*location.Neighborhood](res.Code, res.Message)
	}
	return location.OK(LocateNeighborhood(res.Data, coord))
}
