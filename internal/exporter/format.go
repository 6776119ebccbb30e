package exporter

import (
	"strings"

	"github.com/shopspring/decimal"
)

// FormatMoney 千分位金额，两位小数："1234.5" -> "1,234.50"
func FormatMoney(v float64) string {
	return groupThousands(decimal.NewFromFloat(v).StringFixed(2))
}

// FormatMiles 千分位整数里程
func FormatMiles(v float64) string {
	return groupThousands(decimal.NewFromFloat(v).StringFixed(0))
}

// FormatRate 两位小数费率
func FormatRate(v float64) string {
	return decimal.NewFromFloat(v).StringFixed(2)
}

// FormatPercent 百分比："0.88" -> "88%"
func FormatPercent(v float64) string {
	s := decimal.NewFromFloat(v).Mul(decimal.NewFromInt(100)).Round(2).String()
	return s + "%"
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")

	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte(',')
		}
		b.WriteRune(r)
	}

	out := b.String() + frac
	if neg {
		return "-" + out
	}
	return out
}

func roundCents(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
