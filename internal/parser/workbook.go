package parser

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shakinm/xlsReader/xls"
	"github.com/xuri/excelize/v2"

	"sumerplus/internal/model"
)

// ErrUnreadableWorkbook 工作簿无法读取（既不是 xlsx 也不是 xls）
var ErrUnreadableWorkbook = errors.New("unreadable workbook")

// Workbook 只读工作簿
type Workbook interface {
	SheetNames() []string
	Table(sheet string) (*model.Table, error)
	Close() error
}

// OpenWorkbook 从字节打开工作簿，优先 xlsx，失败时尝试旧版 xls
func OpenWorkbook(data []byte) (Workbook, error) {
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty input", ErrUnreadableWorkbook)
	}

	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err == nil {
		return &xlsxWorkbook{file: f}, nil
	}

	wb, xlsErr := openXLS(data)
	if xlsErr != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadableWorkbook, err)
	}
	return wb, nil
}

// openXLS 旧版 xls；损坏的复合文档可能在解析时 panic
func openXLS(data []byte) (wb *xlsWorkbook, err error) {
	defer func() {
		if r := recover(); r != nil {
			wb, err = nil, fmt.Errorf("xls: %v", r)
		}
	}()
	f, err := xls.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return newXLSWorkbook(f), nil
}

// HasSheet 工作簿是否包含指定 sheet
func HasSheet(wb Workbook, name string) bool {
	for _, s := range wb.SheetNames() {
		if s == name {
			return true
		}
	}
	return false
}

// xlsxWorkbook 基于 excelize 的 xlsx 工作簿
type xlsxWorkbook struct {
	file *excelize.File
}

func (w *xlsxWorkbook) SheetNames() []string {
	return w.file.GetSheetList()
}

func (w *xlsxWorkbook) Table(sheet string) (*model.Table, error) {
	raw, err := w.file.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	shown, err := w.file.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	rows := make([][]model.Cell, len(raw))
	for i, r := range raw {
		cells := make([]model.Cell, len(r))
		for j, v := range r {
			display := v
			if i < len(shown) && j < len(shown[i]) {
				display = shown[i][j]
			}
			cells[j] = classifyCell(v, display)
		}
		rows[i] = cells
	}
	return newTable(sheet, rows), nil
}

func (w *xlsxWorkbook) Close() error {
	return w.file.Close()
}

// xlsWorkbook 旧版 xls 工作簿（一次性读入内存）
type xlsWorkbook struct {
	names  []string
	tables map[string][][]string
}

func newXLSWorkbook(wb xls.Workbook) *xlsWorkbook {
	w := &xlsWorkbook{tables: make(map[string][][]string)}
	for _, sheet := range wb.GetSheets() {
		name := sheet.GetName()
		var rows [][]string
		for _, row := range sheet.GetRows() {
			var cols []string
			for _, cell := range row.GetCols() {
				cols = append(cols, cell.GetString())
			}
			rows = append(rows, cols)
		}
		w.names = append(w.names, name)
		w.tables[name] = rows
	}
	return w
}

func (w *xlsWorkbook) SheetNames() []string {
	return append([]string(nil), w.names...)
}

func (w *xlsWorkbook) Table(sheet string) (*model.Table, error) {
	raw, ok := w.tables[sheet]
	if !ok {
		return nil, fmt.Errorf("sheet %q does not exist", sheet)
	}
	rows := make([][]model.Cell, len(raw))
	for i, r := range raw {
		cells := make([]model.Cell, len(r))
		for j, v := range r {
			cells[j] = classifyCell(v, v)
		}
		rows[i] = cells
	}
	return newTable(sheet, rows), nil
}

func (w *xlsWorkbook) Close() error {
	return nil
}

func newTable(name string, rows [][]model.Cell) *model.Table {
	t := &model.Table{Name: name}
	if len(rows) == 0 {
		return t
	}
	t.Header = rows[0]
	t.Rows = rows[1:]
	return t
}

// displayDateLayouts 常见的日期显示格式
var displayDateLayouts = []string{
	"01-02-06", "1-2-06", "01-02-2006", "1-2-2006",
	"01/02/06", "1/2/06", "01/02/2006", "1/2/2006",
	"1/2/06 15:04", "01/02/06 15:04", "1/2/2006 15:04",
	"2006-01-02", "2006/01/02", "2006-01-02 15:04:05",
	"2-Jan-06", "02-Jan-06", "Jan 2, 2006", "2-Jan", "Jan-06",
}

// classifyCell 根据原始值与显示值确定单元格类型
func classifyCell(raw, display string) model.Cell {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return model.EmptyCell()
	}

	// "0099" 这类带前导零的值按文本保留
	leadingZero := len(raw) > 1 && raw[0] == '0' && raw[1] != '.'
	if f, err := strconv.ParseFloat(raw, 64); err == nil && !leadingZero {
		display = strings.TrimSpace(display)
		if display != raw && looksLikeDate(display) {
			if t, err := excelize.ExcelDateToTime(f, false); err == nil {
				return model.DateCell(t)
			}
		}
		return model.NumberCell(f)
	}

	if t, ok := parseDisplayDate(raw); ok {
		return model.DateCell(t)
	}
	return model.TextCell(raw)
}

func looksLikeDate(s string) bool {
	_, ok := parseDisplayDate(s)
	return ok
}

func parseDisplayDate(s string) (time.Time, bool) {
	for _, layout := range displayDateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
