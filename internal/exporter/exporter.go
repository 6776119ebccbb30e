package exporter

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"

	"sumerplus/internal/model"
)

// SummaryRow 一台车本周的结算汇总
type SummaryRow struct {
	TruckID       string
	OwnerName     string
	DriverName    string
	Loads         int
	Miles         float64
	Gross         float64
	OwnerPayable  float64
	DriverPayable float64
}

// SummaryRowFor 由车主/司机两份结算单生成汇总行
func SummaryRowFor(owner, driver Statement) SummaryRow {
	return SummaryRow{
		TruckID:       owner.TruckID,
		OwnerName:     owner.Recipient,
		DriverName:    driver.Recipient,
		Loads:         len(owner.Items),
		Miles:         owner.Settlement.Totals.Miles,
		Gross:         owner.Settlement.Totals.Gross,
		OwnerPayable:  owner.Settlement.Payable,
		DriverPayable: driver.Settlement.Payable,
	}
}

// SummarySheet 汇总表 sheet 名
const SummarySheet = "Settlement Summary"

var summaryHeaders = []string{
	"Unit Number", "Owner", "Driver", "Loads",
	"Miles", "Gross", "Owner Payable", "Driver Payable",
}

// SummaryFileName 汇总工作簿文件名
func SummaryFileName(period model.Period) string {
	return "SUMMARY_" + period.FileSuffix() + ".xlsx"
}

// WriteSummary 导出本批次的结算汇总工作簿
func WriteSummary(period model.Period, rows []SummaryRow, progress func(ProgressEvent)) ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName("Sheet1", SummarySheet); err != nil {
		return nil, fmt.Errorf("rename summary sheet: %w", err)
	}

	_ = f.SetCellValue(SummarySheet, "A1", "Work Period")
	_ = f.SetCellValue(SummarySheet, "B1", period.Display())

	for i, h := range summaryHeaders {
		cell, _ := excelize.CoordinatesToCellName(i+1, 3)
		_ = f.SetCellValue(SummarySheet, cell, h)
	}

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#D3D3D3"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	_ = f.SetRowStyle(SummarySheet, 3, 3, headerStyle)

	moneyStyle, _ := f.NewStyle(&excelize.Style{NumFmt: 4}) // #,##0.00

	var total SummaryRow
	for i, r := range rows {
		row := i + 4
		values := []interface{}{
			r.TruckID, r.OwnerName, r.DriverName, r.Loads,
			r.Miles, r.Gross, r.OwnerPayable, r.DriverPayable,
		}
		for j, v := range values {
			cell, _ := excelize.CoordinatesToCellName(j+1, row)
			if err := f.SetCellValue(SummarySheet, cell, v); err != nil {
				return nil, fmt.Errorf("write summary row %d: %w", row, err)
			}
		}
		_ = f.SetCellStyle(SummarySheet, fmt.Sprintf("F%d", row), fmt.Sprintf("H%d", row), moneyStyle)

		total.Loads += r.Loads
		total.Miles += r.Miles
		total.Gross += r.Gross
		total.OwnerPayable += r.OwnerPayable
		total.DriverPayable += r.DriverPayable

		ReportProgress(progress, Span(10, 90, i+1, len(rows)), StageSummary)
	}

	totalRow := len(rows) + 4
	_ = f.SetCellValue(SummarySheet, fmt.Sprintf("A%d", totalRow), "TOTAL")
	_ = f.SetCellValue(SummarySheet, fmt.Sprintf("D%d", totalRow), total.Loads)
	_ = f.SetCellValue(SummarySheet, fmt.Sprintf("E%d", totalRow), total.Miles)
	_ = f.SetCellValue(SummarySheet, fmt.Sprintf("F%d", totalRow), roundCents(total.Gross))
	_ = f.SetCellValue(SummarySheet, fmt.Sprintf("G%d", totalRow), roundCents(total.OwnerPayable))
	_ = f.SetCellValue(SummarySheet, fmt.Sprintf("H%d", totalRow), roundCents(total.DriverPayable))
	_ = f.SetRowStyle(SummarySheet, totalRow, totalRow, headerStyle)

	_ = f.SetColWidth(SummarySheet, "A", "A", 14)
	_ = f.SetColWidth(SummarySheet, "B", "C", 28)
	_ = f.SetColWidth(SummarySheet, "D", "H", 15)

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, fmt.Errorf("write summary workbook: %w", err)
	}
	ReportProgress(progress, 100, StageSummary)
	return buf.Bytes(), nil
}
