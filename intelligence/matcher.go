package intelligence

import (
	"math"
	"slices"
	"sort"
	"strings"

	"github.com/finmcp/finmcp/core"
)

// Scoring weights. The formula is additive, every term is non-negative, and
// scoreProvider floors the sum at zero; a score is never negative.
const (
	weightDataTypeOverlap = 1.0
	weightNoTypeBaseline  = 0.1
	weightGeoOverlap      = 0.5
	weightGeoFallback     = 0.2
	weightFreeTier        = 0.5
	weightNoAPIKey        = 0.3
	weightLocalData       = 1.0
	weightFastLatency     = 0.5
	weightOfficial        = 0.8
	weightPerDataType     = 0.05
)

// Match scores every provider against the classification and returns the
// top-N matches ranked by descending score. Ties preserve the providers
// slice order (catalog declaration order). The result is truncated, never
// padded; topN <= 0 yields an empty result.
func Match(providers []core.Provider, c core.Classification, topN int) []core.Match {
	if topN < 0 {
		topN = 0
	}

	matches := make([]core.Match, 0, len(providers))
	for i := range providers {
		p := &providers[i]

		score, ok := scoreProvider(p, &c)
		if !ok || score <= 0 {
			continue
		}

		matches = append(matches, core.Match{
			ProviderID:     p.ID,
			Name:           p.Name,
			Score:          score,
			Reasons:        matchReasons(p, &c),
			RequiresAPIKey: p.RequiresAPIKey,
			FreeTier:       p.FreeTier,
			LocalAvailable: p.LocalAvailable,
			ResponseTime:   p.ResponseTime,
		})
	}

	// Stable sort: equal scores keep catalog order.
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Score > matches[j].Score
	})
	if len(matches) > topN {
		matches = matches[:topN]
	}

	return matches
}

// scoreProvider computes the additive match score for one provider. The
// second return is false when the provider is excluded outright: the query
// names data types and the provider carries none of them.
func scoreProvider(p *core.Provider, c *core.Classification) (float64, bool) {
	score := 0.0

	if len(c.DataTypes) > 0 {
		overlap := intersect(c.DataTypes, p.DataTypes)
		if len(overlap) == 0 {
			return 0, false
		}
		score += float64(len(overlap)) * weightDataTypeOverlap
	} else {
		score += weightNoTypeBaseline
	}

	if coversGeography(p, c.Geography) {
		score += weightGeoOverlap
	} else if len(c.Geography) == 0 || isGlobalOnly(c.Geography) {
		score += weightGeoFallback
	}

	if hasPreference(c.Preferences, PrefFree) {
		if p.FreeTier {
			score += weightFreeTier
		}
		if !p.RequiresAPIKey {
			score += weightNoAPIKey
		}
	}

	if hasPreference(c.Preferences, PrefFast) {
		if p.LocalAvailable {
			score += weightLocalData
		}
		if fastResponseTime(p.ResponseTime) {
			score += weightFastLatency
		}
	}

	if hasPreference(c.Preferences, PrefOfficial) && governmentSources[p.ID] {
		score += weightOfficial
	}

	if hasPreference(c.Preferences, PrefComprehensive) {
		score += weightPerDataType * float64(len(p.DataTypes))
	}

	return math.Max(0, score), true
}

// coversGeography reports whether the provider satisfies the query's
// regions: global coverage always qualifies, otherwise any overlap does.
func coversGeography(p *core.Provider, queryGeo []string) bool {
	if slices.Contains(p.GeographicCoverage, "Global") {
		return true
	}
	return len(intersect(queryGeo, p.GeographicCoverage)) > 0
}

// fastResponseTime heuristically reads a latency descriptor: it must mention
// "ms" and a sub-hundred bound. ResponseTime stays free text and is never
// parsed numerically.
func fastResponseTime(rt string) bool {
	if !strings.Contains(rt, "ms") {
		return false
	}
	return strings.Contains(rt, "<100") || strings.Contains(rt, "<50") || strings.Contains(rt, "<10")
}

// matchReasons derives the display strings for a scored provider. Reasons
// describe capability overlap, not points, so they are computed independently
// of the score.
func matchReasons(p *core.Provider, c *core.Classification) []string {
	var reasons []string

	if types := intersect(c.DataTypes, p.DataTypes); len(types) > 0 {
		reasons = append(reasons, "Provides "+strings.Join(types, ", ")+" data")
	}

	if geos := intersect(c.Geography, p.GeographicCoverage); len(geos) > 0 {
		reasons = append(reasons, "Covers "+strings.Join(geos, ", "))
	} else if slices.Contains(p.GeographicCoverage, "Global") {
		reasons = append(reasons, "Global coverage")
	}

	if p.LocalAvailable {
		reasons = append(reasons, "Local database available (<10ms)")
	}

	if p.FreeTier {
		reasons = append(reasons, "Free tier available")
	} else if !p.RequiresAPIKey {
		reasons = append(reasons, "No API key required")
	}

	return reasons
}

// intersect returns the elements of a that also occur in b, preserving a's
// order. Nil when either side is empty.
func intersect(a, b []string) []string {
	if len(a) == 0 || len(b) == 0 {
		return nil
	}

	set := make(map[string]bool, len(b))
	for _, s := range b {
		set[s] = true
	}

	var out []string
	for _, s := range a {
		if set[s] {
			out = append(out, s)
		}
	}
	return out
}
