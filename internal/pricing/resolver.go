package pricing

import "strings"

// symbolPriceIDs maps uppercase token symbols to canonical CoinGecko
// identifiers. The identifier is the quote service's key, distinct from the
// trading symbol.
var symbolPriceIDs = map[string]string{ //nolint:gochecknoglobals
	"ETH":      "ethereum",
	"WETH":     "ethereum",
	"ALT":      "altlayer",
	"AZUR":     "azuro-protocol",
	"OP":       "optimism",
	"VELO":     "velodrome-finance",
	"VELO V2":  "velodrome-finance",
	"VELO(V2)": "velodrome-finance",
	"USDC.E":   "usd-coin",
	"ASTR":     "astar",
	"USDC":     "usd-coin",
	"USDT":     "tether",
	"ARB":      "arbitrum",
	"MATIC":    "matic-network",
	"POL":      "matic-network",
	"WBTC":     "wrapped-bitcoin",
	"L3":       "layer3",
	"STG":      "stargate-finance",
	"AERO":     "aerodrome-finance",
	"DEGEN":    "degen-base",
	"BRETT":    "based-brett",
	"LINK":     "chainlink",
	"UNI":      "uniswap",
	"AAVE":     "aave",
	"CRV":      "curve-dao-token",
	"MKR":      "maker",
	"COMP":     "compound-governance-token",
	"LDO":      "lido-dao",
	"RPL":      "rocket-pool",
	"FRAX":     "frax",
	"USDE":     "ethena-usde",
	"GMX":      "gmx",
	"MAGIC":    "magic",
	"RDNT":     "radiant-capital",
	"SEAM":     "seamless-protocol",
	"WELL":     "moonwell",
	"PEPE":     "pepe",
	"SHIB":     "shiba-inu",
	"DOGE":     "dogecoin",
	"WIF":      "dogwifhat",
	"BONK":     "bonk",
	"EZETH":    "renzo-restaked-eth",
	"STONE":    "stakestone-ether",
	"WRSETH":   "rs-eth",
	"LINEA":    "linea",
	"TA":       "trusta-ai",
	"WSTETH":   "wrapped-staked-eth",
	"ZERO":     "zerolend",
	"CELO":     "celo",
	"CUSD":     "celo-dollar",
	"CEUR":     "celo-euro",
	"ENJOY":    "enjoy",
	"TOSHI":    "toshi",
	"PRIME":    "echelon-prime",
	"VIRTUAL":  "virtual-protocol",
	"BAL":      "balancer",
	"SUSHI":    "sushi",
	"XAUT":     "tether-gold",
	"SWEAT":    "sweat-economy",
	"JESSE":    "jesse",
	"TALENT":   "talent-protocol",
	"CBBTC":    "coinbase-wrapped-btc",
	"MASA":     "masa",
	"USDGLO":   "glo-dollar",
	"G$":       "gooddollar",
	"UBE":      "ubeswap",
}

// addressPriceIDs maps lowercase contract addresses to identifiers, for
// tokens whose on-chain symbol is unreliable.
var addressPriceIDs = map[string]string{ //nolint:gochecknoglobals
	"0x9560e827af36c94d2ac33a39bce1fe78631088db": "velodrome-finance",
	"0xb5bedd42000b71fdde22d3ee8a79bd49a568fc8f": "linea-bridged-wsteth",
	"0x940181a94a35a4569e4529a3cdfb74e38fd98631": "aerodrome-finance",
	"0x4200000000000000000000000000000000000042": "optimism",
	"0x0b2c639c43a23f2514f79435a28821c062ce01d8": "usd-coin", // USDC on OP
	"0x833589fcd6edb6e08f4c7c32d4f71b54bda02913": "usd-coin", // USDC on Base
	"0xaf88d065e77c8cc2239327c5edb3a432268e5831": "usd-coin", // USDC on Arb
	"0x2791bca1f2de4661ed88a30c99a7a9449aa84174": "usd-coin", // USDC on Polygon
	"0x066ba6f91753c15320984852033bc883ce75d56d": "trusta-ai",
}

// blockedSymbols lists symbols that are widely impersonated by scam tokens;
// they never resolve to an identifier regardless of the symbol tables.
var blockedSymbols = []string{"ABTC", "REKT", "THOR", "CREATE", "MUMMY"} //nolint:gochecknoglobals

// Resolver maps symbols and contract addresses to canonical price-feed
// identifiers. Lookups are case-insensitive on both forms.
type Resolver struct {
	blocked map[string]struct{}
}

// NewResolver creates a resolver. extraBlocked extends the built-in scam
// symbol block-list.
func NewResolver(extraBlocked []string) *Resolver {
	blocked := make(map[string]struct{}, len(blockedSymbols)+len(extraBlocked))
	for _, s := range blockedSymbols {
		blocked[strings.ToUpper(s)] = struct{}{}
	}
	for _, s := range extraBlocked {
		blocked[strings.ToUpper(s)] = struct{}{}
	}
	return &Resolver{blocked: blocked}
}

// ResolvePriceID maps a token symbol or contract address to an identifier.
// Block-listed symbols force a miss even when a symbol mapping exists.
func (r *Resolver) ResolvePriceID(symbolOrAddress string) (string, bool) {
	if symbolOrAddress == "" {
		return "", false
	}

	upper := strings.ToUpper(symbolOrAddress)
	if _, scam := r.blocked[upper]; scam {
		return "", false
	}
	if id, ok := symbolPriceIDs[upper]; ok {
		return id, true
	}
	if id, ok := addressPriceIDs[strings.ToLower(symbolOrAddress)]; ok {
		return id, true
	}
	return "", false
}
