package platform

import (
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/google/uuid"
)

const (
	alnumChars = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	hexChars   = "0123456789abcdef"
	lowerChars = "abcdefghijklmnopqrstuvwxyz0123456789"
)

func randomString(charset string, n int) string {
	b := make([]byte, n)
	for i := range b {
		b[i] = charset[rand.IntN(len(charset))]
	}
	return string(b)
}

// GenerateDepositAddress produces a cosmetic deposit address in the format
// conventional for the symbol. Addresses are random identifiers, not real
// key material; global uniqueness is enforced by the store.
func GenerateDepositAddress(symbol string) string {
	switch symbol {
	case "BTC":
		return "1" + randomString(alnumChars, 33)
	case "ETH", "BNB", "LINK", "UNI":
		return "0x" + randomString(hexChars, 40)
	case "SOL":
		return randomString(alnumChars, 32)
	case "ADA":
		return "addr1" + randomString(lowerChars, 58)
	case "DOT":
		return randomString(alnumChars, 48)
	default:
		return fmt.Sprintf("%s-%s", strings.ToLower(symbol), uuid.New().String())
	}
}
