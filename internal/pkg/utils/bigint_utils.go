package utils

import (
	"errors"
	"fmt"
	"math/big"
	"strings"
)

// ErrInvalidAmount is returned when a decimal amount string cannot be parsed.
var ErrInvalidAmount = errors.New("invalid amount")

// FormatBigInt converts a big.Int value to a human-readable string,
// considering the given number of decimals.
// Example: amount=1234500000000000000, decimals=18 => "1.2345"
// The conversion is exact: no floating point is involved.
func FormatBigInt(amount *big.Int, decimals uint8) (string, error) {
	if amount == nil {
		return "0", nil
	}
	if decimals == 0 {
		return amount.String(), nil
	}

	abs := new(big.Int).Abs(amount)
	divisor := Pow10(decimals)
	whole, frac := new(big.Int).QuoRem(abs, divisor, new(big.Int))

	fracStr := frac.String()
	if len(fracStr) < int(decimals) {
		fracStr = strings.Repeat("0", int(decimals)-len(fracStr)) + fracStr
	}
	fracStr = strings.TrimRight(fracStr, "0")

	formatted := whole.String()
	if fracStr != "" {
		formatted += "." + fracStr
	}
	if amount.Sign() < 0 {
		formatted = "-" + formatted
	}
	return formatted, nil
}

// MustFormatBigInt is FormatBigInt for call sites that cannot fail.
func MustFormatBigInt(amount *big.Int, decimals uint8) string {
	s, _ := FormatBigInt(amount, decimals)
	return s
}

// ParseUnits converts a non-negative decimal string into its integer base-unit value.
// Example: amount="1.5", decimals=6 => 1500000
// More fractional digits than decimals is an error rather than a silent truncation.
func ParseUnits(amount string, decimals uint8) (*big.Int, error) {
	s := strings.TrimSpace(amount)
	if s == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if strings.HasPrefix(s, "+") || strings.HasPrefix(s, "-") {
		return nil, fmt.Errorf("%w: %q must be an unsigned decimal", ErrInvalidAmount, amount)
	}

	whole, frac, _ := strings.Cut(s, ".")
	if whole == "" && frac == "" {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if whole == "" {
		whole = "0"
	}
	if !isDigits(whole) || (frac != "" && !isDigits(frac)) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	if len(frac) > int(decimals) {
		return nil, fmt.Errorf("%w: %q has more than %d fractional digits", ErrInvalidAmount, amount, decimals)
	}

	digits := whole + frac + strings.Repeat("0", int(decimals)-len(frac))
	value, ok := new(big.Int).SetString(digits, 10)
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrInvalidAmount, amount)
	}
	return value, nil
}

// Pow10 returns 10^decimals.
func Pow10(decimals uint8) *big.Int {
	return new(big.Int).Exp(big.NewInt(10), big.NewInt(int64(decimals)), nil)
}

// MulDecimalStrings multiplies two decimal strings exactly and rounds the product
// to prec fractional digits.
func MulDecimalStrings(a, b string, prec int) (string, error) {
	x, ok := new(big.Rat).SetString(a)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidAmount, a)
	}
	y, ok := new(big.Rat).SetString(b)
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrInvalidAmount, b)
	}
	return new(big.Rat).Mul(x, y).FloatString(prec), nil
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
