package irys

import (
	"math/big"
	"strings"
)

const atomicDecimals = 18

// FromAtomic renders an amount in the smallest unit (wei) as a decimal
// string in whole tokens, with trailing zeros trimmed.
func FromAtomic(v *big.Int) string {
	if v == nil {
		return "0"
	}
	neg := v.Sign() < 0
	digits := new(big.Int).Abs(v).String()
	if len(digits) <= atomicDecimals {
		digits = strings.Repeat("0", atomicDecimals-len(digits)+1) + digits
	}
	whole := digits[:len(digits)-atomicDecimals]
	frac := strings.TrimRight(digits[len(digits)-atomicDecimals:], "0")
	out := whole
	if frac != "" {
		out += "." + frac
	}
	if neg {
		out = "-" + out
	}
	return out
}
