package domain

type Product struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Price Money  `json:"price"`
}

type PromotionType string

const (
	PromotionTypePercent PromotionType = "percent"
	PromotionTypeFlat    PromotionType = "flat"
)

func (t PromotionType) Valid() bool {
	return t == PromotionTypePercent || t == PromotionTypeFlat
}

// Promotion is a named discount rule. Value is percentage points for percent
// promotions and an absolute amount for flat ones.
type Promotion struct {
	Code  string        `json:"code"`
	Type  PromotionType `json:"type"`
	Value Money         `json:"value"`
}
