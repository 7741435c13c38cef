// utils/money.go
package utils

import "github.com/shopspring/decimal"

// Round2 rounds a monetary amount to 2 decimal places. Going through
// decimal avoids the float drift of math.Round(v*100)/100 on sums.
func Round2(v float64) float64 {
	f, _ := decimal.NewFromFloat(v).Round(2).Float64()
	return f
}

// ClampRate keeps a commission percentage inside [0, 100]. Malformed rates
// are clamped rather than rejected.
func ClampRate(rate int) int {
	if rate < 0 {
		return 0
	}
	if rate > 100 {
		return 100
	}
	return rate
}
