package currency

import (
	"testing"

	"github.com/shopspring/decimal"
)

func TestConvert(t *testing.T) {
	c := NewConverter("KES", nil)

	t.Run("base_currency_is_identity", func(t *testing.T) {
		amount := decimal.RequireFromString("1234.56")
		got := c.Convert(amount, "KES")
		if !got.Equal(amount) {
			t.Errorf("expected %s, got %s", amount, got)
		}
	})

	t.Run("forward_multiplies_by_rate", func(t *testing.T) {
		// 1000 KES * 0.0071 = 7.10 USD
		got := c.Convert(decimal.NewFromInt(1000), "USD")
		want := decimal.RequireFromString("7.10")
		if !got.Equal(want) {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("unknown_code_defaults_to_rate_1", func(t *testing.T) {
		amount := decimal.RequireFromString("42.42")
		got := c.Convert(amount, "XXX")
		if !got.Equal(amount) {
			t.Errorf("expected %s, got %s", amount, got)
		}
	})

	t.Run("rounds_to_two_places", func(t *testing.T) {
		// 333 KES * 0.0071 = 2.3643 -> 2.36
		got := c.Convert(decimal.NewFromInt(333), "USD")
		want := decimal.RequireFromString("2.36")
		if !got.Equal(want) {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("zero_amount_yields_zero", func(t *testing.T) {
		got := c.Convert(decimal.Zero, "USD")
		if !got.IsZero() {
			t.Errorf("expected zero, got %s", got)
		}
	})
}

func TestConvertReverse(t *testing.T) {
	c := NewConverter("KES", nil)

	t.Run("recovers_base_amount", func(t *testing.T) {
		// 7.10 USD / 0.0071 = 1000 KES
		got := c.ConvertReverse(decimal.RequireFromString("7.10"), "USD")
		want := decimal.NewFromInt(1000)
		if !got.Equal(want) {
			t.Errorf("expected %s, got %s", want, got)
		}
	})

	t.Run("unknown_code_is_noop", func(t *testing.T) {
		amount := decimal.RequireFromString("500.00")
		got := c.ConvertReverse(amount, "???")
		if !got.Equal(amount) {
			t.Errorf("expected %s, got %s", amount, got)
		}
	})
}

// Round-tripping through a display currency must land within one cent of the
// original amount for every currency in the table.
func TestConvertRoundTrip(t *testing.T) {
	c := NewConverter("KES", nil)
	tolerance := decimal.RequireFromString("0.01")

	amounts := []string{"100.00", "350.00", "999.99", "12345.67"}
	for code := range DefaultRates() {
		for _, raw := range amounts {
			amount := decimal.RequireFromString(raw)
			display := c.Convert(amount, code)
			back := c.ConvertReverse(display, code)

			diff := back.Sub(amount).Abs()
			// Thin rates (BTC, ETH) lose sub-cent precision in the 2dp
			// display rounding; scale the tolerance by the inverse rate.
			limit := tolerance.Div(c.Rate(code)).Add(tolerance)
			if diff.GreaterThan(limit) {
				t.Errorf("%s: round trip of %s drifted by %s (limit %s)", code, amount, diff, limit)
			}
		}
	}
}

func TestSymbol(t *testing.T) {
	if got := Symbol("KES"); got != "KSh" {
		t.Errorf("expected KSh, got %s", got)
	}
	if got := Symbol("ZZZ"); got != "" {
		t.Errorf("expected empty symbol for unknown code, got %s", got)
	}
}
