package products

import (
	"crypto/rand"
	"strings"
)

const skuSuffixCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
const skuSuffixLen = 6

// GenerateSKU derives a human-scannable SKU: up to two initials from the
// business name, up to three from the product name, and a random suffix.
// Uniqueness is enforced per business by the database index, not here.
func GenerateSKU(productName, businessName string) string {
	prefix := initials(productName, 3)
	if businessPrefix := initials(businessName, 2); businessPrefix != "" {
		prefix = businessPrefix + "-" + prefix
	}
	return prefix + "-" + randomSuffix(skuSuffixLen)
}

func initials(value string, max int) string {
	var b strings.Builder
	for _, word := range strings.Fields(value) {
		b.WriteRune([]rune(word)[0])
		if b.Len() >= max {
			break
		}
	}
	return strings.ToUpper(b.String())
}

func randomSuffix(length int) string {
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the process is in serious trouble;
		// fall back to a fixed suffix rather than panicking mid-request.
		return strings.Repeat("X", length)
	}
	out := make([]byte, length)
	for i, b := range buf {
		out[i] = skuSuffixCharset[int(b)%len(skuSuffixCharset)]
	}
	return string(out)
}
