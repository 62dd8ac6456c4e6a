package settlement

import (
	"github.com/fjod/go_cart/order-entry/internal/domain"
)

type Result struct {
	Change     domain.Money
	Shortfall  domain.Money
	Sufficient bool
	Status     domain.SettlementStatus
}

// Settle computes change for a payment. Cards are trusted to the terminal and
// always settle. For cash a missing amount counts as zero.
func Settle(method domain.PaymentMethod, total domain.Money, amountGiven *domain.Money) Result {
	if method != domain.PaymentMethodCash {
		return Result{
			Change:     domain.Zero,
			Shortfall:  domain.Zero,
			Sufficient: true,
			Status:     domain.SettlementNotApplicable,
		}
	}

	given := domain.Zero
	if amountGiven != nil {
		given = *amountGiven
	}

	switch given.Cmp(total) {
	case 1:
		return Result{
			Change:     given.Sub(total),
			Shortfall:  domain.Zero,
			Sufficient: true,
			Status:     domain.SettlementChangeDue,
		}
	case 0:
		return Result{
			Change:     domain.Zero,
			Shortfall:  domain.Zero,
			Sufficient: true,
			Status:     domain.SettlementExact,
		}
	default:
		return Result{
			Change:     domain.Zero,
			Shortfall:  total.Sub(given),
			Sufficient: false,
			Status:     domain.SettlementInsufficient,
		}
	}
}
