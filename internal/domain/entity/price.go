package entity

// PriceQuote maps canonical price-feed identifiers to USD unit prices.
// It is fetched once per aggregation run and treated as a read-only snapshot
// for the duration of that run.
type PriceQuote map[string]float64

// USDPrice is the per-identifier payload of the upstream quote service.
type USDPrice struct {
	USD float64 `json:"usd"`
}
