package intelligence

import (
	"fmt"
	"strings"

	"github.com/finmcp/finmcp/core"
)

// Recommendation renders a classification and its matches as Markdown. The
// layout is fixed; downstream consumers parse these sections, so the exact
// shape (headings, field labels, "; " reason join, two-decimal scores) is a
// contract.
func Recommendation(c core.Classification, matches []core.Match) string {
	var b strings.Builder

	b.WriteString("# Provider Recommendation for Query\n\n")

	b.WriteString("## Query Analysis\n")
	fmt.Fprintf(&b, "**Original Query**: %s\n", c.OriginalQuery)
	fmt.Fprintf(&b, "**Reasoning**: %s\n\n", c.Reasoning)

	b.WriteString("## Detected Requirements\n")
	fmt.Fprintf(&b, "- **Data Types**: %s\n", joinOr(c.DataTypes, "Not specified"))
	fmt.Fprintf(&b, "- **Geography**: %s\n", strings.Join(c.Geography, ", "))
	fmt.Fprintf(&b, "- **Preferences**: %s\n\n", joinOr(c.Preferences, "None specified"))

	b.WriteString("## Recommended Providers\n")
	if len(matches) == 0 {
		b.WriteString("No matching providers found for this query.")
		return b.String()
	}

	for i, m := range matches {
		fmt.Fprintf(&b, "\n### %d. %s (%s)\n", i+1, m.Name, m.ProviderID)
		fmt.Fprintf(&b, "- **Score**: %.2f\n", m.Score)
		fmt.Fprintf(&b, "- **Match Reasons**: %s\n", strings.Join(m.Reasons, "; "))
		fmt.Fprintf(&b, "- **API Key Required**: %s\n", yesNo(m.RequiresAPIKey))
		fmt.Fprintf(&b, "- **Free Tier**: %s\n", yesNo(m.FreeTier))
		fmt.Fprintf(&b, "- **Local Data**: %s\n", yesNo(m.LocalAvailable))
		fmt.Fprintf(&b, "- **Response Time**: %s\n", m.ResponseTime)
	}

	return b.String()
}

func joinOr(items []string, fallback string) string {
	if len(items) == 0 {
		return fallback
	}
	return strings.Join(items, ", ")
}

func yesNo(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}
