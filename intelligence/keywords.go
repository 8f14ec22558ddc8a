package intelligence

import "regexp"

// Preference tags emitted by the classifier and consumed by the matcher.
const (
	PrefFree          = "free"
	PrefFast          = "fast"
	PrefComprehensive = "comprehensive"
	PrefOfficial      = "official"
)

// keywordEntry pairs a tag with its lowercase trigger substrings.
// Tables are ordered slices, not maps: detection output preserves the
// declaration order below, and reason strings depend on it.
type keywordEntry struct {
	tag      string
	triggers []string
}

// dataTypeKeywords drives data-type detection. Triggers are matched as raw
// substrings of the lowercased query, so multi-word triggers like
// "consumer price" match phrases while short ones stay deliberately loose.
// The stocks row carries no bare "price" trigger: asset-price phrasing
// ("Bitcoin prices") must not drag the stocks tag into every query.
var dataTypeKeywords = []keywordEntry{
	{"stocks", []string{"stock", "share", "equity", "ticker", "symbol", "volume", "market cap"}},
	{"options", []string{"option", "call", "put", "strike", "expiry", "iv", "implied volatility"}},
	{"crypto", []string{"crypto", "bitcoin", "btc", "ethereum", "eth", "cryptocurrency", "defi", "nft"}},
	{"forex", []string{"forex", "fx", "currency", "exchange rate", "usd", "eur", "gbp", "jpy"}},
	{"economic_indicators", []string{"gdp", "growth", "economic", "indicator", "macro"}},
	{"inflation", []string{"inflation", "cpi", "consumer price", "pce", "deflator"}},
	{"employment", []string{"employment", "unemployment", "jobs", "payroll", "labor", "nfp"}},
	{"interest_rates", []string{"interest rate", "fed funds", "libor", "sofr", "yield", "bond", "treasury"}},
	{"housing", []string{"housing", "home", "mortgage", "real estate", "construction"}},
	{"earnings", []string{"earnings", "revenue", "profit", "eps", "pe ratio", "income"}},
	{"fundamentals", []string{"fundamental", "balance sheet", "cash flow", "ratios"}},
	{"filings", []string{"filing", "10-k", "10-q", "8-k", "sec", "edgar"}},
	{"news", []string{"news", "headline", "article", "sentiment", "mention"}},
}

// geographyKeywords drives region detection. "us" matches inside words like
// "housing"; that permissiveness is part of the classifier's contract.
var geographyKeywords = []keywordEntry{
	{"US", []string{"us", "usa", "united states", "america", "american", "nasdaq", "nyse", "s&p"}},
	{"EU", []string{"eu", "europe", "european", "eurozone", "ecb"}},
	{"UK", []string{"uk", "britain", "british", "london", "ftse"}},
	{"Japan", []string{"japan", "japanese", "tokyo", "nikkei", "yen"}},
	{"China", []string{"china", "chinese", "shanghai", "shenzhen", "yuan", "rmb"}},
	{"Global", []string{"global", "world", "international", "worldwide"}},
}

// preferenceKeywords drives preference detection. "real-time" is absent on
// purpose: only the literal triggers below set the fast preference.
var preferenceKeywords = []keywordEntry{
	{PrefFree, []string{"free", "no cost", "without paying", "no api key"}},
	{PrefFast, []string{"fast", "quick", "instant", "immediate", "low latency"}},
	{PrefComprehensive, []string{"comprehensive", "complete", "all", "everything", "detailed"}},
	{PrefOfficial, []string{"official", "government", "authoritative", "primary source"}},
}

// governmentSources are the provider ids treated as official/primary sources
// by the matcher's official-preference bonus.
var governmentSources = map[string]bool{
	"fred": true, "sec": true, "bls": true, "treasury": true, "ecb": true,
	"imf": true, "worldbank": true, "oecd": true, "estat": true,
}

// symbolPattern matches ticker-like runs of 1-5 uppercase letters against
// the original-case query.
var symbolPattern = regexp.MustCompile(`\b[A-Z]{1,5}\b`)

// symbolStoplist filters uppercase tokens that read like tickers but are not.
var symbolStoplist = map[string]bool{
	"US": true, "UK": true, "EU": true, "GDP": true, "CPI": true,
	"API": true, "REST": true, "JSON": true, "CSV": true,
}
