package orders

import (
	"strings"
	"testing"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/config"
)

var testPolicy = config.OrderPolicyConfig{
	TaxRateBps:                 1800,
	FreeShippingThresholdPaise: 50000,
	ShippingFeePaise:           5000,
}

func TestPriceOrder_BelowFreeShippingThreshold(t *testing.T) {
	// ₹300 subtotal: 18% tax = ₹54, shipping ₹50, final ₹404.
	quote := PriceOrder(30000, testPolicy)

	if quote.TaxAmountPaise != 5400 {
		t.Fatalf("expected tax 5400, got %d", quote.TaxAmountPaise)
	}
	if quote.ShippingAmountPaise != 5000 {
		t.Fatalf("expected shipping 5000, got %d", quote.ShippingAmountPaise)
	}
	if quote.DiscountAmountPaise != 0 {
		t.Fatalf("expected zero discount, got %d", quote.DiscountAmountPaise)
	}
	if quote.FinalAmountPaise != 40400 {
		t.Fatalf("expected final 40400, got %d", quote.FinalAmountPaise)
	}
}

func TestPriceOrder_FreeShippingOnlyAboveThreshold(t *testing.T) {
	// Exactly ₹500 still pays the fee; free shipping starts strictly above.
	atThreshold := PriceOrder(50000, testPolicy)
	if atThreshold.ShippingAmountPaise != 5000 {
		t.Fatalf("expected shipping fee at threshold, got %d", atThreshold.ShippingAmountPaise)
	}
	if atThreshold.FinalAmountPaise != 50000+9000+5000 {
		t.Fatalf("expected final 64000, got %d", atThreshold.FinalAmountPaise)
	}

	above := PriceOrder(50100, testPolicy)
	if above.ShippingAmountPaise != 0 {
		t.Fatalf("expected free shipping above threshold, got %d", above.ShippingAmountPaise)
	}
	if above.FinalAmountPaise != 50100+9018 {
		t.Fatalf("expected final 59118, got %d", above.FinalAmountPaise)
	}
}

func TestPriceOrder_TaxRoundsHalfUp(t *testing.T) {
	cases := []struct {
		totalPaise int64
		wantTax    int64
	}{
		{12345, 2222}, // 2222.1 rounds down
		{12347, 2222}, // 2222.46 rounds down
		{12350, 2223}, // 2223.0 exactly
		{12348, 2223}, // 2222.64 rounds up
	}
	for _, tc := range cases {
		quote := PriceOrder(tc.totalPaise, testPolicy)
		if quote.TaxAmountPaise != tc.wantTax {
			t.Fatalf("total %d: expected tax %d, got %d", tc.totalPaise, tc.wantTax, quote.TaxAmountPaise)
		}
	}
}

func TestGenerateOrderNumber_Shape(t *testing.T) {
	number := GenerateOrderNumber()
	parts := strings.Split(number, "-")
	if len(parts) != 3 || parts[0] != "ORD" {
		t.Fatalf("unexpected order number shape: %q", number)
	}
	if len(parts[2]) != orderNumberSuffixLen {
		t.Fatalf("expected %d char suffix, got %q", orderNumberSuffixLen, parts[2])
	}
	if number != strings.ToUpper(number) {
		t.Fatalf("expected uppercase order number, got %q", number)
	}

	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		n := GenerateOrderNumber()
		if seen[n] {
			t.Fatalf("duplicate order number %q", n)
		}
		seen[n] = true
	}
}
