package exporter

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/shopspring/decimal"

	"sumerplus/internal/calculator"
	"sumerplus/internal/model"
)

// DefaultTitle 结算单抬头
const DefaultTitle = "ARBA EXPRESS"

// LineItem 结算单运单明细行
type LineItem struct {
	PickupDate string  `json:"pickupDate"`
	LoadNumber string  `json:"loadNumber"`
	Route      string  `json:"route"`
	Miles      float64 `json:"miles"`
	Gross      float64 `json:"gross"`
	Rate       float64 `json:"rate"`   // 车主：分成比例；司机：每英里费率
	Amount     float64 `json:"amount"` // 车主：分成金额；司机：里程 × 费率
}

// Statement 一份结算单的全部内容（渲染为纯函数）
type Statement struct {
	Title      string                `json:"title"`
	Audience   model.Audience        `json:"audience"`
	Recipient  string                `json:"recipient"`
	TruckID    string                `json:"truckId"`
	Period     model.Period          `json:"period"`
	Items      []LineItem            `json:"items"`
	Total      LineItem              `json:"total"`
	Settlement calculator.Settlement `json:"settlement"`
}

// BuildStatement 根据分组与结算结果组装结算单
func BuildStatement(title string, group model.TruckGroup, recipient string, period model.Period, s calculator.Settlement) Statement {
	if strings.TrimSpace(title) == "" {
		title = DefaultTitle
	}
	st := Statement{
		Title:      title,
		Audience:   s.Audience,
		Recipient:  recipient,
		TruckID:    group.TruckID,
		Period:     period,
		Settlement: s,
	}

	rate := s.RatePerMile
	if s.Audience == model.AudienceOwner {
		rate = s.OwnerPercentage
	}

	for _, r := range group.Rows {
		item := LineItem{
			PickupDate: r.PickupDate.String(),
			LoadNumber: r.LoadNumber,
			Route:      route(r),
			Miles:      r.MilesValue(),
			Gross:      r.GrossValue(),
			Rate:       rate,
		}
		item.Amount = itemAmount(s.Audience, item)
		st.Items = append(st.Items, item)
	}

	st.Total = LineItem{
		Route:  "TOTAL",
		Miles:  s.Totals.Miles,
		Gross:  s.Totals.Gross,
		Rate:   rate,
		Amount: s.Base,
	}
	return st
}

func itemAmount(aud model.Audience, item LineItem) float64 {
	base := decimal.NewFromFloat(item.Miles)
	if aud == model.AudienceOwner {
		base = decimal.NewFromFloat(item.Gross)
	}
	return base.Mul(decimal.NewFromFloat(item.Rate)).Round(2).InexactFloat64()
}

func route(r model.LoadRecord) string {
	return strings.TrimSpace(r.PickupLocation) + " - " + strings.TrimSpace(r.DeliveryLocation)
}

// CheckLabel 应付金额行的标签
func (st Statement) CheckLabel() string {
	if st.Audience == model.AudienceDriver {
		return "CHECK AMOUNT TO THE DRIVER"
	}
	return "CHECK AMOUNT TO THE OWNER"
}

// RecipientLabel 抬头中收款方的标签
func (st Statement) RecipientLabel() string {
	if st.Audience == model.AudienceDriver {
		return "Driver Name"
	}
	return "Owner Name"
}

// columns 明细表列定义（宽度单位：英寸）
type column struct {
	title string
	width float64
	align string
	value func(LineItem) string
}

func (st Statement) columns() []column {
	common := []column{
		{"Pick Up Date", 0.9, "L", func(i LineItem) string { return i.PickupDate }},
		{"Load Number", 0.95, "L", func(i LineItem) string { return i.LoadNumber }},
		{"ROUTE", 2.75, "L", func(i LineItem) string { return i.Route }},
	}
	if st.Audience == model.AudienceDriver {
		return append(common,
			column{"Miles", 0.8, "R", func(i LineItem) string { return FormatMiles(i.Miles) }},
			column{"$ Per Mile", 0.8, "R", func(i LineItem) string { return FormatRate(i.Rate) }},
			column{"Driver Pay", 1.3, "R", func(i LineItem) string { return FormatMoney(i.Amount) }},
		)
	}
	return append(common,
		column{"Gross Pay", 0.9, "R", func(i LineItem) string { return FormatMoney(i.Gross) }},
		column{"Owner %", 0.7, "R", func(i LineItem) string { return FormatPercent(i.Rate) }},
		column{"Owner Share", 1.3, "R", func(i LineItem) string { return FormatMoney(i.Amount) }},
	)
}

// RenderStatement 渲染 PDF（Letter，0.5 英寸边距）
func RenderStatement(st Statement) ([]byte, error) {
	pdf := fpdf.New("P", "in", "Letter", "")
	pdf.SetMargins(0.5, 0.5, 0.5)
	pdf.SetAutoPageBreak(true, 0.5)
	pdf.SetCreationDate(st.Period.End)
	pdf.SetCatalogSort(true)
	pdf.SetTitle(fmt.Sprintf("%s statement %s", st.Audience.Prefix(), st.TruckID), false)
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.AddPage()

	// 抬头
	pdf.SetFont("Helvetica", "B", 20)
	pdf.SetTextColor(255, 0, 0)
	pdf.CellFormat(0, 0.4, tr(st.Title), "", 1, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.Ln(0.1)

	// 周期 / 车号 / 收款方
	headerRow := func(label, value, label2, value2 string) {
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(1.0, 0.2, label, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(1.6, 0.2, tr(value), "", 0, "L", false, 0, "")
		pdf.CellFormat(0.4, 0.2, "", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 8)
		pdf.CellFormat(1.0, 0.2, label2, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 8)
		pdf.CellFormat(2.5, 0.2, tr(value2), "", 1, "L", false, 0, "")
	}
	headerRow("Work Period", st.Period.Display(), st.RecipientLabel(), st.Recipient)
	headerRow("Unit Number", st.TruckID, "", "")
	pdf.Ln(0.15)

	// 运单明细
	section(pdf, "Loads")
	cols := st.columns()
	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetFillColor(211, 211, 211)
	pdf.SetDrawColor(128, 128, 128)
	for _, c := range cols {
		pdf.CellFormat(c.width, 0.22, c.title, "1", 0, "C", true, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Helvetica", "", 7)
	for _, item := range st.Items {
		for _, c := range cols {
			pdf.CellFormat(c.width, 0.2, tr(c.value(item)), "1", 0, c.align, false, 0, "")
		}
		pdf.Ln(-1)
	}

	pdf.SetFont("Helvetica", "B", 7)
	pdf.SetFillColor(245, 245, 245)
	for _, c := range cols {
		pdf.CellFormat(c.width, 0.22, c.value(st.Total), "1", 0, c.align, true, 0, "")
	}
	pdf.Ln(-1)
	pdf.Ln(0.15)

	s := st.Settlement

	// 补贴（预留，恒为 0）
	section(pdf, "ADDITIONS")
	amountTable(pdf, tr, []calculator.Line{{}}, "TOTAL ADDITIONS", s.TotalAdditions, true)
	pdf.Ln(0.1)

	// 扣款
	section(pdf, "DEDUCTIONS")
	amountTable(pdf, tr, s.Deductions, "TOTAL DEDUCTIONS", s.TotalDeductions, false)
	pdf.Ln(0.15)

	// 应付金额
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetFillColor(211, 211, 211)
	pdf.CellFormat(3.0, 0.25, "", "", 0, "L", false, 0, "")
	pdf.CellFormat(2.1, 0.25, st.CheckLabel(), "1", 0, "R", true, 0, "")
	pdf.CellFormat(1.4, 0.25, FormatMoney(s.Payable), "1", 1, "R", true, 0, "")

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("failed to render statement pdf: %w", err)
	}
	return buf.Bytes(), nil
}

func section(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.CellFormat(0, 0.2, title, "", 1, "L", false, 0, "")
}

func amountTable(pdf *fpdf.Fpdf, tr func(string) string, lines []calculator.Line, totalLabel string, total float64, blank bool) {
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetFillColor(255, 255, 0)
	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(4.0, 0.2, "Description", "1", 0, "L", true, 0, "")
	pdf.CellFormat(1.5, 0.2, "Amount", "1", 1, "L", true, 0, "")

	pdf.SetFont("Helvetica", "", 8)
	for _, l := range lines {
		amount := FormatMoney(l.Amount)
		if blank {
			amount = ""
		}
		pdf.CellFormat(4.0, 0.2, tr(l.Name), "1", 0, "L", false, 0, "")
		pdf.CellFormat(1.5, 0.2, amount, "1", 1, "R", false, 0, "")
	}

	pdf.SetFont("Helvetica", "B", 8)
	pdf.CellFormat(4.0, 0.2, totalLabel, "1", 0, "L", true, 0, "")
	pdf.CellFormat(1.5, 0.2, FormatMoney(total), "1", 1, "R", true, 0, "")
}

// StatementFileName 结算单文件名：OWNER_<name>_<truck>_<MM_DD_YYYY>_to_<MM_DD_YYYY>.pdf
// 名称中的空格、路径分隔符与文件系统保留字符替换为下划线
func StatementFileName(aud model.Audience, name, truckID string, period model.Period) string {
	return fmt.Sprintf("%s_%s_%s_%s.pdf", aud.Prefix(), fileNamePart(name), fileNamePart(truckID), period.FileSuffix())
}

func fileNamePart(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r < 0x20 || r == 0x7f:
			return '_'
		case strings.ContainsRune(` /\:*?"<>|`, r):
			return '_'
		}
		return r
	}, strings.TrimSpace(s))
}
