package domain

type AssetClass string

const (
	AssetClassCrypto    AssetClass = "crypto"
	AssetClassEquity    AssetClass = "equity"
	AssetClassCommodity AssetClass = "commodity"
	AssetClassFx        AssetClass = "fx"
)

// AssetProfile flags how the engine treats a single instrument
type AssetProfile struct {
	Symbol         string     `json:"symbol"`
	Name           string     `json:"name"`
	Class          AssetClass `json:"class"`
	Shortable      bool       `json:"shortable"`
	ShockSensitive bool       `json:"shockSensitive"`
	DefaultCostBps float64    `json:"defaultCostBps"`
}

func (a AssetProfile) IsCrypto() bool {
	return a.Class == AssetClassCrypto
}

var knownAssets = []AssetProfile{
	{Symbol: "BTC-USD", Name: "Bitcoin", Class: AssetClassCrypto, Shortable: true, DefaultCostBps: 18},
	{Symbol: "ETH-USD", Name: "Ethereum", Class: AssetClassCrypto, Shortable: true, ShockSensitive: true, DefaultCostBps: 18},
	{Symbol: "GLD", Name: "Gold", Class: AssetClassCommodity, DefaultCostBps: 4},
	{Symbol: "SPY", Name: "S&P 500", Class: AssetClassEquity, Shortable: true, DefaultCostBps: 4},
	{Symbol: "^IXIC", Name: "Nasdaq", Class: AssetClassEquity, Shortable: true, DefaultCostBps: 4},
	{Symbol: "EURUSD=X", Name: "EUR/USD", Class: AssetClassFx, DefaultCostBps: 3},
}

// KnownAssets returns a copy of the built-in asset registry
func KnownAssets() []AssetProfile {
	out := make([]AssetProfile, len(knownAssets))
	copy(out, knownAssets)
	return out
}

// LookupAsset resolves a symbol against the registry. unknown symbols
// are treated as non-shortable equities
func LookupAsset(symbol string) AssetProfile {
	for _, a := range knownAssets {
		if a.Symbol == symbol {
			return a
		}
	}
	return AssetProfile{
		Symbol:         symbol,
		Name:           symbol,
		Class:          AssetClassEquity,
		DefaultCostBps: 4,
	}
}
