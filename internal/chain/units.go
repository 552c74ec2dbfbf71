package chain

import (
	"fmt"
	"math/big"
	"strings"
)

var weiPerEther = new(big.Int).Exp(big.NewInt(10), big.NewInt(18), nil)

// FormatEther renders a wei amount as an exact decimal ether string with
// trailing zeros trimmed and at least one fractional digit:
// 100000000000000000 → "0.1", 0 → "0.0", 2e18 → "2.0".
func FormatEther(wei *big.Int) string {
	if wei == nil {
		return "0.0"
	}
	neg := wei.Sign() < 0
	abs := new(big.Int).Abs(wei)

	whole, frac := new(big.Int).QuoRem(abs, weiPerEther, new(big.Int))
	fracStr := strings.TrimRight(fmt.Sprintf("%018s", frac.String()), "0")
	if fracStr == "" {
		fracStr = "0"
	}

	out := whole.String() + "." + fracStr
	if neg {
		out = "-" + out
	}
	return out
}

// ParseWei parses a base-10 smallest-unit integer string.
func ParseWei(s string) (*big.Int, error) {
	n, ok := new(big.Int).SetString(strings.TrimSpace(s), 10)
	if !ok {
		return nil, fmt.Errorf("invalid wei amount %q", s)
	}
	return n, nil
}

// FormatEtherString is FormatEther over a smallest-unit string. Unparsable
// input is returned unchanged.
func FormatEtherString(s string) string {
	n, err := ParseWei(s)
	if err != nil {
		return s
	}
	return FormatEther(n)
}
