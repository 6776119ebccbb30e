package model

// Table 读取后的工作表：Header 为第一行，Rows 为其余行
type Table struct {
	Name   string   `json:"name"`
	Header []Cell   `json:"-"`
	Rows   [][]Cell `json:"-"`
}

// At 安全取值，越界返回空单元格
func (t *Table) At(row []Cell, col int) Cell {
	if col < 0 || col >= len(row) {
		return EmptyCell()
	}
	return row[col]
}

// HeaderText 表头文本
func (t *Table) HeaderText() []string {
	out := make([]string, len(t.Header))
	for i, c := range t.Header {
		out[i] = c.String()
	}
	return out
}

