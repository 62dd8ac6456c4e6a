// Package format renders money for the order-entry display. It plays no part
// in pricing correctness.
package format

import (
	"fmt"
	"strings"

	"github.com/fjod/go_cart/order-entry/internal/domain"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

type Formatter struct {
	unit    currency.Unit
	scale   int
	group   string
	decimal string
}

// New builds a formatter for an ISO 4217 code and a BCP 47 locale, e.g. ("VND", "vi").
func New(code, locale string) (*Formatter, error) {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return nil, fmt.Errorf("currency %q: %w", code, err)
	}
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("locale %q: %w", locale, err)
	}
	scale, _ := currency.Standard.Rounding(unit)
	group, decimal := separators(message.NewPrinter(tag))
	return &Formatter{
		unit:    unit,
		scale:   scale,
		group:   group,
		decimal: decimal,
	}, nil
}

// Amount renders m rounded to the currency's standard scale with locale
// grouping, followed by the ISO code: "180,000 VND", "12.50 USD". Digits come
// from the decimal itself, so large amounts keep every digit.
func (f *Formatter) Amount(m domain.Money) string {
	digits := m.StringFixed(int32(f.scale))
	sign := ""
	if strings.HasPrefix(digits, "-") {
		sign, digits = "-", digits[1:]
	}
	whole, frac, _ := strings.Cut(digits, ".")

	var b strings.Builder
	b.WriteString(sign)
	for i, d := range whole {
		if i > 0 && (len(whole)-i)%3 == 0 {
			b.WriteString(f.group)
		}
		b.WriteRune(d)
	}
	if frac != "" {
		b.WriteString(f.decimal)
		b.WriteString(frac)
	}
	b.WriteString(" ")
	b.WriteString(f.unit.String())
	return b.String()
}

// separators reads the locale's grouping and decimal marks off a sample
// number: "1,234.5" in en, "1.234,5" in vi.
func separators(p *message.Printer) (group, decimal string) {
	sample := []rune(p.Sprintf("%v", number.Decimal(1234.5, number.Scale(1))))
	if len(sample) != 7 {
		return ",", "."
	}
	return string(sample[1]), string(sample[5])
}

// Line renders one cart entry as the confirmation surface lists it.
func (f *Formatter) Line(l domain.PricedLine) string {
	promo := l.PromotionCode
	if promo == "" {
		promo = "None"
	}
	return fmt.Sprintf("%s - %s x %d (Promo: %s)", l.Name, f.Amount(l.Price), l.Quantity, promo)
}
