package domain

// PricedLine is a LineItem with its computed discount.
type PricedLine struct {
	LineItem
	Subtotal         Money `json:"subtotal"`
	Discount         Money `json:"discount"`
	Total            Money `json:"total"`
	PromotionApplied bool  `json:"promotion_applied"`
}

type SettlementStatus string

const (
	SettlementNotApplicable SettlementStatus = "not_applicable"
	SettlementChangeDue     SettlementStatus = "change_due"
	SettlementExact         SettlementStatus = "exact"
	SettlementInsufficient  SettlementStatus = "insufficient"
)

// OrderSummary is derived on every read and never stored.
type OrderSummary struct {
	SessionID     string           `json:"session_id"`
	State         SessionState     `json:"state"`
	Customer      Customer         `json:"customer"`
	Lines         []PricedLine     `json:"lines"`
	Total         Money            `json:"total"`
	PaymentMethod PaymentMethod    `json:"payment_method"`
	AmountGiven   *Money           `json:"amount_given,omitempty"`
	Change        Money            `json:"change"`
	Shortfall     Money            `json:"shortfall"`
	Sufficient    bool             `json:"sufficient"`
	Settlement    SettlementStatus `json:"settlement_status"`
	Warning       string           `json:"warning,omitempty"`
	Display       *SummaryDisplay  `json:"display,omitempty"`
}

// SummaryDisplay carries the formatted strings shown on the confirmation surface.
type SummaryDisplay struct {
	Total       string   `json:"total"`
	AmountGiven string   `json:"amount_given,omitempty"`
	Change      string   `json:"change,omitempty"`
	Lines       []string `json:"lines"`
}
