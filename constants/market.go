package constants

import "strings"

// Market is a destination jurisdiction code. Only EU and US are supported.
type Market string

const (
	MarketEU Market = "EU"
	MarketUS Market = "US"
)

var allMarkets = []Market{MarketEU, MarketUS}

// DefaultMarket is used whenever an out-of-set market code arrives.
const DefaultMarket = MarketEU

func Markets() []Market {
	out := make([]Market, len(allMarkets))
	copy(out, allMarkets)
	return out
}

// SafeMarket coerces an arbitrary code to a supported market. Unknown codes
// (including the removed CN) fall back to DefaultMarket.
func SafeMarket(code string) Market {
	m := Market(strings.ToUpper(strings.TrimSpace(code)))
	for _, known := range allMarkets {
		if m == known {
			return m
		}
	}
	return DefaultMarket
}
