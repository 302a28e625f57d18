package utils

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/holiman/uint256"
)

// EtherDecimals is the number of decimals used by VET, VTHO and most VIP-180 tokens.
const EtherDecimals = 18

func pow10(decimals uint8) *uint256.Int {
	return new(uint256.Int).Exp(uint256.NewInt(10), uint256.NewInt(uint64(decimals)))
}

// ParseUnits converts a human readable decimal amount ("1.5", "1_000") into
// base units with the given number of decimals.
func ParseUnits(amount string, decimals uint8) (*uint256.Int, error) {
	s := strings.ReplaceAll(strings.TrimSpace(amount), "_", "")
	if s == "" {
		return nil, fmt.Errorf("empty amount")
	}
	whole, frac, hasDot := strings.Cut(s, ".")
	if hasDot && frac == "" && whole == "" {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || !isDigits(frac) {
		return nil, fmt.Errorf("invalid amount %q", amount)
	}
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("amount %q has more than %d decimals", amount, decimals)
	}
	digits := strings.TrimLeft(whole+frac+strings.Repeat("0", int(decimals)-len(frac)), "0")
	if digits == "" {
		return uint256.NewInt(0), nil
	}
	v, err := uint256.FromDecimal(digits)
	if err != nil {
		return nil, fmt.Errorf("amount %q out of range: %w", amount, err)
	}
	return v, nil
}

// FormatUnits renders base units as a decimal string. The fractional part is
// trimmed of trailing zeros but always keeps one digit, so 10^18 wei formats
// as "1.0".
func FormatUnits(value *uint256.Int, decimals uint8) string {
	if value == nil {
		value = uint256.NewInt(0)
	}
	if decimals == 0 {
		return value.Dec() + ".0"
	}
	scale := pow10(decimals)
	whole := new(uint256.Int).Div(value, scale)
	rem := new(uint256.Int).Mod(value, scale)

	frac := rem.Dec()
	if len(frac) < int(decimals) {
		frac = strings.Repeat("0", int(decimals)-len(frac)) + frac
	}
	frac = strings.TrimRight(frac, "0")
	if frac == "" {
		frac = "0"
	}
	return whole.Dec() + "." + frac
}

// FormatEther formats 18-decimals base units.
func FormatEther(value *uint256.Int) string {
	return FormatUnits(value, EtherDecimals)
}

// ParseQuantity accepts the shapes providers use for big numbers: 0x-prefixed
// hex strings (leading zeros allowed), decimal strings and JSON numbers.
func ParseQuantity(v interface{}) (*uint256.Int, error) {
	switch q := v.(type) {
	case string:
		return parseQuantityString(q)
	case float64:
		if q < 0 || q >= 1<<64 || q != float64(uint64(q)) {
			return nil, fmt.Errorf("invalid quantity %v", q)
		}
		return uint256.NewInt(uint64(q)), nil
	case *uint256.Int:
		return q, nil
	case *big.Int:
		return fromBig(q)
	case fmt.Stringer:
		return parseQuantityString(q.String())
	default:
		return nil, fmt.Errorf("unsupported quantity type %T", v)
	}
}

func parseQuantityString(s string) (*uint256.Int, error) {
	s = strings.TrimSpace(s)
	b := new(big.Int)
	var ok bool
	if strings.HasPrefix(s, "0x") || strings.HasPrefix(s, "0X") {
		hex := s[2:]
		if hex == "" {
			return nil, fmt.Errorf("invalid hex quantity %q", s)
		}
		_, ok = b.SetString(hex, 16)
	} else {
		_, ok = b.SetString(s, 10)
	}
	if !ok {
		return nil, fmt.Errorf("invalid quantity %q", s)
	}
	return fromBig(b)
}

func fromBig(b *big.Int) (*uint256.Int, error) {
	if b.Sign() < 0 {
		return nil, fmt.Errorf("negative quantity %s", b)
	}
	v, overflow := uint256.FromBig(b)
	if overflow {
		return nil, fmt.Errorf("quantity %s overflows 256 bits", b)
	}
	return v, nil
}

func isDigits(s string) bool {
	for _, c := range s {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
