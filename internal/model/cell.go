package model

import (
	"strconv"
	"strings"
	"time"
)

// CellKind 单元格值类型
type CellKind int

const (
	CellEmpty CellKind = iota
	CellNumber
	CellText
	CellDate
)

// Cell 工作簿边界处统一后的单元格值（数字 / 文本 / 日期 / 空）
type Cell struct {
	Kind CellKind
	Num  float64
	Text string
	Time time.Time
}

// EmptyCell 空单元格
func EmptyCell() Cell { return Cell{Kind: CellEmpty} }

// NumberCell 数字单元格
func NumberCell(v float64) Cell { return Cell{Kind: CellNumber, Num: v} }

// DateCell 日期单元格
func DateCell(t time.Time) Cell { return Cell{Kind: CellDate, Time: t} }

// TextCell 文本单元格，空白文本视为空
func TextCell(s string) Cell {
	if strings.TrimSpace(s) == "" {
		return EmptyCell()
	}
	return Cell{Kind: CellText, Text: s}
}

// IsEmpty 是否为空
func (c Cell) IsEmpty() bool {
	return c.Kind == CellEmpty
}

// String 返回单元格的展示文本
// 整数值不带小数部分，日期使用 MM/DD/YYYY
func (c Cell) String() string {
	switch c.Kind {
	case CellNumber:
		if c.Num == float64(int64(c.Num)) {
			return strconv.FormatInt(int64(c.Num), 10)
		}
		return strconv.FormatFloat(c.Num, 'f', -1, 64)
	case CellText:
		return strings.TrimSpace(c.Text)
	case CellDate:
		return c.Time.Format("01/02/2006")
	default:
		return ""
	}
}
