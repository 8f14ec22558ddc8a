package intelligence

import (
	"slices"
	"strings"

	"github.com/finmcp/finmcp/core"
)

// reasoningSeparator joins the clauses of a classification's reasoning trace.
const reasoningSeparator = " → "

// Classify parses a free-text data query into structured requirements.
// It never fails: absence of signal leaves fields empty rather than producing
// an error, except geography, which defaults to ["Global"].
func Classify(query string) core.Classification {
	lowered := strings.ToLower(query)

	c := core.Classification{
		OriginalQuery: query,
		DataTypes:     detect(lowered, dataTypeKeywords),
		Geography:     detect(lowered, geographyKeywords),
		Preferences:   detect(lowered, preferenceKeywords),
		Symbols:       extractSymbols(query),
	}
	if len(c.Geography) == 0 {
		c.Geography = []string{"Global"}
	}
	c.Reasoning = buildReasoning(&c)

	return c
}

// detect returns the tags whose trigger substrings occur in the lowered
// query, preserving table order (not the order triggers appear in the text).
func detect(lowered string, table []keywordEntry) []string {
	var tags []string
	for _, entry := range table {
		for _, trigger := range entry.triggers {
			if strings.Contains(lowered, trigger) {
				tags = append(tags, entry.tag)
				break
			}
		}
	}
	return tags
}

// extractSymbols pulls candidate ticker tokens from the original-case query:
// 1-5 letter uppercase runs, deduplicated, minus the stoplist. The result
// has set semantics; callers must not rely on its order.
func extractSymbols(query string) []string {
	raw := symbolPattern.FindAllString(query, -1)
	if len(raw) == 0 {
		return nil
	}

	seen := make(map[string]bool, len(raw))
	var symbols []string
	for _, tok := range raw {
		if seen[tok] || symbolStoplist[tok] {
			continue
		}
		seen[tok] = true
		symbols = append(symbols, tok)
	}
	return symbols
}

// buildReasoning assembles the human-readable trace. Clause order is fixed:
// data types, geography, then the free/fast/official preferences.
func buildReasoning(c *core.Classification) string {
	var clauses []string

	if len(c.DataTypes) > 0 {
		clauses = append(clauses, "User is looking for "+strings.Join(c.DataTypes, ", ")+" data")
	} else {
		clauses = append(clauses, "No specific data type identified, will search broadly")
	}

	if !isGlobalOnly(c.Geography) {
		clauses = append(clauses, "Geographic focus: "+strings.Join(c.Geography, ", "))
	}

	if hasPreference(c.Preferences, PrefFree) {
		clauses = append(clauses, "Prefers free/no API key providers")
	}
	if hasPreference(c.Preferences, PrefFast) {
		clauses = append(clauses, "Prefers low-latency providers (local data if available)")
	}
	if hasPreference(c.Preferences, PrefOfficial) {
		clauses = append(clauses, "Prefers official/government sources")
	}

	return strings.Join(clauses, reasoningSeparator)
}

// isGlobalOnly reports whether a geography list is exactly the Global default.
func isGlobalOnly(geos []string) bool {
	return len(geos) == 1 && geos[0] == "Global"
}

func hasPreference(prefs []string, tag string) bool {
	return slices.Contains(prefs, tag)
}
