package parser

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"

	"sumerplus/internal/model"
)

// ToAmount 将单元格转换为金额
// 支持数字单元格与 "$1,234.50" 形式的文本；无法解析时返回 false（不报错）
func ToAmount(c model.Cell) (float64, bool) {
	switch c.Kind {
	case model.CellNumber:
		return finite(c.Num)
	case model.CellText:
		return ParseAmount(c.Text)
	default:
		return 0, false
	}
}

// amountRe 十进制数字（可带符号与指数），不接受十六进制、下划线、Inf/NaN
var amountRe = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?$`)

// ParseAmount 解析金额文本：去除货币符号、千分位与空白
func ParseAmount(s string) (float64, bool) {
	s = strings.TrimSpace(s)
	s = strings.ReplaceAll(s, "$", "")
	s = strings.ReplaceAll(s, ",", "")
	s = strings.TrimSpace(s)
	if !amountRe.MatchString(s) {
		return 0, false
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return finite(f)
}

// nonNegativeAmount 运费/里程：负数与无法解析的值视为缺失
func nonNegativeAmount(c model.Cell) *float64 {
	v, ok := ToAmount(c)
	if !ok || v < 0 {
		return nil
	}
	return &v
}

func finite(f float64) (float64, bool) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

// NormalizeTruckID 规范化车号：仅保留数字并去除前导零
// 无数字时返回空串，表示"无车号"
func NormalizeTruckID(raw string) string {
	var b strings.Builder
	for _, r := range strings.TrimSpace(raw) {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return trimLeadingZeros(b.String())
}

// NormalizeTruckIDLenient 宽松车号规范化：保留数字与第一个小数点，取整数部分
// "123.0" -> "123"，"T-0042" -> "42"
func NormalizeTruckIDLenient(raw string) string {
	var b strings.Builder
	seenDot := false
	for _, r := range strings.TrimSpace(raw) {
		switch {
		case r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == '.' && !seenDot:
			seenDot = true
			b.WriteRune(r)
		}
	}
	s := b.String()
	if i := strings.IndexByte(s, '.'); i >= 0 {
		s = s[:i]
	}
	return trimLeadingZeros(s)
}

// TruckIDFromCell 单元格车号（严格模式）
func TruckIDFromCell(c model.Cell) string {
	if c.Kind == model.CellDate {
		return ""
	}
	return NormalizeTruckID(c.String())
}

func trimLeadingZeros(digits string) string {
	if digits == "" {
		return ""
	}
	trimmed := strings.TrimLeft(digits, "0")
	if trimmed == "" {
		return "0"
	}
	return trimmed
}

var rateNumberRe = regexp.MustCompile(`\d*\.?\d+`)

// NormalizeRate 解析每英里费率：
// "65" / "65¢" / "0.65 per mile" 均得到 0.65；大于 10 的值视为美分或百分数，除以 100
func NormalizeRate(c model.Cell) *float64 {
	var v float64
	switch c.Kind {
	case model.CellNumber:
		f, ok := finite(c.Num)
		if !ok {
			return nil
		}
		v = f
	case model.CellText:
		s := strings.ReplaceAll(c.Text, ",", "")
		m := rateNumberRe.FindString(s)
		if m == "" {
			return nil
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return nil
		}
		v = f
	default:
		return nil
	}
	if v > 10 {
		v = v / 100
	}
	return &v
}

// NormalizePercentage 解析车主分成比例："88" / "88%" / "0.88" 均得到 0.88
func NormalizePercentage(c model.Cell) *float64 {
	var v float64
	switch c.Kind {
	case model.CellNumber:
		v = c.Num
	case model.CellText:
		m := rateNumberRe.FindString(c.Text)
		if m == "" {
			return nil
		}
		f, err := strconv.ParseFloat(m, 64)
		if err != nil {
			return nil
		}
		v = f
	default:
		return nil
	}
	if v > 1 {
		v = v / 100
	}
	if v <= 0 || v > 1 {
		return nil
	}
	return &v
}

var whitespaceRe = regexp.MustCompile(`\s+`)

// NormalizeHeader 规范化表头：NFKC、大小写折叠、压缩空白
func NormalizeHeader(name string) string {
	name = norm.NFKC.String(name)
	name = cases.Fold().String(name)
	name = whitespaceRe.ReplaceAllString(name, " ")
	return strings.TrimSpace(name)
}

// ContainsDigitOrComma 名称中是否含数字或逗号（错位单元格的典型特征）
func ContainsDigitOrComma(s string) bool {
	return strings.ContainsAny(s, "0123456789,")
}
