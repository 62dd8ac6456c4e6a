package domain

// LineItem is one cart entry. Product fields are copied in when the item is
// added so later catalog changes do not reprice an order being built.
type LineItem struct {
	ProductID     int64  `json:"product_id"`
	Name          string `json:"name"`
	Price         Money  `json:"price"`
	Quantity      int    `json:"quantity"`
	PromotionCode string `json:"promotion_code"`
}

func NewLineItem(p Product) LineItem {
	return LineItem{
		ProductID: p.ID,
		Name:      p.Name,
		Price:     p.Price,
		Quantity:  1,
	}
}

// Subtotal is quantity * unit price, before any discount.
func (i LineItem) Subtotal() Money {
	return i.Price.Mul(NewMoney(int64(i.Quantity)))
}
