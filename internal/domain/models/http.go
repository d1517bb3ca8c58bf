package models

// MarketQuoteRequest is the query contract for the consensus quote endpoint.
type MarketQuoteRequest struct {
	Symbol string `query:"symbol" validate:"required,min=3,max=16"`
}

// ArbitrageRequest is the query contract for the arbitrage endpoint.
type ArbitrageRequest struct {
	Symbol string `query:"symbol" validate:"required,min=3,max=16"`
}

// MarketQuoteResponse is the data-serving payload. Validation is optional:
// omitted entirely when the engine was skipped, so a degraded engine never
// degrades the primary response.
type MarketQuoteResponse struct {
	Symbol     string            `json:"symbol"`
	Price      float64           `json:"price"`
	Volume24h  float64           `json:"volume_24h,omitempty"`
	Source     string            `json:"source"` // "consensus" or a single provider name
	Validation *ValidationResult `json:"validation,omitempty"`
}
