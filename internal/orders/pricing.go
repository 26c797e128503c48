package orders

import (
	"crypto/rand"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/anikpatel-dev/vyapaar-backend/pkg/config"
)

// Quote is the priced breakdown of an order before persistence.
// All amounts are paise.
type Quote struct {
	TotalAmountPaise    int64
	DiscountAmountPaise int64
	TaxAmountPaise      int64
	ShippingAmountPaise int64
	FinalAmountPaise    int64
}

// PriceOrder computes the money breakdown for an item subtotal.
// Tax is rounded half-up in paise; shipping is waived only when the
// subtotal exceeds the free-shipping threshold. An order landing exactly
// on the threshold still pays the fee.
func PriceOrder(totalPaise int64, policy config.OrderPolicyConfig) Quote {
	discount := discountFor(totalPaise)

	tax := (totalPaise*int64(policy.TaxRateBps) + 5000) / 10000

	var shipping int64
	if totalPaise <= policy.FreeShippingThresholdPaise {
		shipping = policy.ShippingFeePaise
	}

	return Quote{
		TotalAmountPaise:    totalPaise,
		DiscountAmountPaise: discount,
		TaxAmountPaise:      tax,
		ShippingAmountPaise: shipping,
		FinalAmountPaise:    totalPaise - discount + tax + shipping,
	}
}

// discountFor is the single seam for future discount sources (coupons,
// volume pricing). No source exists today, so every order discounts to zero.
func discountFor(totalPaise int64) int64 {
	_ = totalPaise
	return 0
}

const orderNumberSuffixLen = 4

// GenerateOrderNumber produces a human-readable unique order reference,
// e.g. ORD-MB3K2V81X-7Q4D. Uniqueness is ultimately enforced by the
// database index; the random suffix keeps same-millisecond collisions out.
func GenerateOrderNumber() string {
	ts := strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36))
	return fmt.Sprintf("ORD-%s-%s", ts, randomToken(orderNumberSuffixLen))
}

const tokenCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

func randomToken(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return strings.Repeat("X", length)
	}
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = tokenCharset[int(b)%len(tokenCharset)]
	}
	return string(out)
}
