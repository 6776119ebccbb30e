package generator

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"github.com/google/uuid"

	"sumerplus/internal/calculator"
	"sumerplus/internal/exporter"
	"sumerplus/internal/model"
	"sumerplus/internal/parser"
)

// ErrNoWorkbook 未提供工作簿内容
var ErrNoWorkbook = errors.New("no workbook supplied")

// Generator 结算单生成协调器
type Generator struct {
	pay   calculator.PayConfig
	title string
	now   func() time.Time
}

// Option 生成器选项
type Option func(*Generator)

// WithPayConfig 指定结算参数（分成、费率、固定扣款）
func WithPayConfig(c calculator.PayConfig) Option {
	return func(g *Generator) { g.pay = c }
}

// WithTitle 指定结算单抬头
func WithTitle(title string) Option {
	return func(g *Generator) {
		if title != "" {
			g.title = title
		}
	}
}

// WithClock 指定当前时间来源（周期兜底使用）
func WithClock(now func() time.Time) Option {
	return func(g *Generator) {
		if now != nil {
			g.now = now
		}
	}
}

// New 创建生成器
func New(opts ...Option) *Generator {
	g := &Generator{
		pay:   calculator.DefaultPayConfig(),
		title: exporter.DefaultTitle,
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// SingleOptions 单表流程选项
type SingleOptions struct {
	SheetOverride string
	DriverTerms   map[string]model.DriverTerms // 车号 -> 司机配置
	Progress      func(exporter.ProgressEvent)
}

// TwoOptions 双表流程选项
type TwoOptions struct {
	LoadsSheet      string
	DriversSheet    string
	OwnersSheet     string
	OwnerPercentage *float64 // 批次分成覆盖
	Progress        func(exporter.ProgressEvent)
}

// Result 一个批次的生成结果
type Result struct {
	BatchID     string                `json:"batchId"`
	Flow        string                `json:"flow"`
	Sheet       string                `json:"sheet"`
	Files       []model.Document      `json:"files"`
	PeriodLabel string                `json:"periodLabel"`
	Period      model.Period          `json:"period"`
	Trucks      int                   `json:"trucks"`
	Summary     []exporter.SummaryRow `json:"-"`
}

const (
	FlowSingle = "single"
	FlowTwo    = "two"
)

// ListSheetNames 列出工作簿的 sheet 名；无法读取时返回空列表
func ListSheetNames(data []byte) []string {
	wb, err := parser.OpenWorkbook(data)
	if err != nil {
		return []string{}
	}
	defer wb.Close()
	names := wb.SheetNames()
	if names == nil {
		return []string{}
	}
	return names
}

// GenerateFromSingleWorkbook 单表流程：运单、油费、车主对照均来自同一工作簿
func (g *Generator) GenerateFromSingleWorkbook(ctx context.Context, data []byte, opts SingleOptions) (*Result, error) {
	if len(data) == 0 {
		return nil, ErrNoWorkbook
	}
	wb, err := parser.OpenWorkbook(data)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer wb.Close()

	res := &Result{BatchID: uuid.NewString(), Flow: FlowSingle}
	names := wb.SheetNames()
	res.Sheet = g.resolveSheet(res.BatchID, names, opts.SheetOverride)
	if res.Sheet == "" {
		return nil, fmt.Errorf("%w: workbook has no sheets", parser.ErrUnreadableWorkbook)
	}

	raw, err := wb.Table(res.Sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", res.Sheet, err)
	}
	exporter.ReportProgress(opts.Progress, 10, exporter.StageParse)

	fuelMap := parser.ExtractFuelMap(raw)
	ownerMap := parser.ExtractOwnerMap(wb)
	week := parser.NormalizeWeekSheet(raw)

	res.PeriodLabel = week.PeriodLabel()
	if res.PeriodLabel == "" {
		res.PeriodLabel = parser.SheetNamePeriodLabel(res.Sheet)
	}
	res.Period = parser.ParsePeriod(res.PeriodLabel, g.now())

	records := parser.ParseWeekRows(week)
	groups := calculator.GroupByTruck(records)
	log.Printf("[generator] batch %s: sheet=%q period=%s trucks=%d rows=%d fuel=%d owners=%d",
		res.BatchID, res.Sheet, res.Period.Display(), len(groups), len(records), len(fuelMap), len(ownerMap))

	for i, group := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parties := calculator.SingleWorkbookParties(group, ownerMap, opts.DriverTerms)
		if err := g.emit(res, group, parties, g.pay, calculator.FuelFor(group, fuelMap)); err != nil {
			return nil, err
		}
		exporter.ReportTruck(opts.Progress, exporter.Span(10, 100, i+1, len(groups)), group.TruckID)
	}
	res.Trucks = len(groups)
	exporter.ReportProgress(opts.Progress, 100, exporter.StageDone)
	return res, nil
}

// GenerateFromTwoWorkbooks 双表流程：运单工作簿 + 条款工作簿（司机/车主）
func (g *Generator) GenerateFromTwoWorkbooks(ctx context.Context, loads, terms []byte, opts TwoOptions) (*Result, error) {
	if len(loads) == 0 {
		return nil, ErrNoWorkbook
	}
	wb, err := parser.OpenWorkbook(loads)
	if err != nil {
		return nil, fmt.Errorf("open loads workbook: %w", err)
	}
	defer wb.Close()

	res := &Result{BatchID: uuid.NewString(), Flow: FlowTwo}
	res.Sheet = g.resolveSheet(res.BatchID, wb.SheetNames(), opts.LoadsSheet)
	if res.Sheet == "" {
		return nil, fmt.Errorf("%w: loads workbook has no sheets", parser.ErrUnreadableWorkbook)
	}
	raw, err := wb.Table(res.Sheet)
	if err != nil {
		return nil, fmt.Errorf("read loads sheet %q: %w", res.Sheet, err)
	}
	exporter.ReportProgress(opts.Progress, 10, exporter.StageParse)

	board := parser.ParseBoardRows(raw)
	fuelMap := parser.ExtractFuelMap(raw)
	ownerMap := parser.ExtractOwnerMap(wb)

	drivers, owners, err := readTerms(terms, opts)
	if err != nil {
		return nil, err
	}

	res.PeriodLabel = board.PeriodLabel
	if res.PeriodLabel == "" {
		res.PeriodLabel = parser.SheetNamePeriodLabel(res.Sheet)
	}
	res.Period = parser.ParsePeriod(res.PeriodLabel, g.now())

	groups := calculator.GroupByTruck(board.Records)
	log.Printf("[generator] batch %s: loads=%q period=%s trucks=%d rows=%d drivers=%d owners=%d",
		res.BatchID, res.Sheet, res.Period.Display(), len(groups), len(board.Records), len(drivers), len(owners))

	for i, group := range groups {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		parties := calculator.TwoWorkbookParties(group, ownerMap, drivers, owners, opts.OwnerPercentage)
		truckPay := g.pay.WithOwnerPercentage(parties.OwnerPercentage)
		if err := g.emit(res, group, parties, truckPay, calculator.FuelFor(group, fuelMap)); err != nil {
			return nil, err
		}
		exporter.ReportTruck(opts.Progress, exporter.Span(10, 100, i+1, len(groups)), group.TruckID)
	}
	res.Trucks = len(groups)
	exporter.ReportProgress(opts.Progress, 100, exporter.StageDone)
	return res, nil
}

// readTerms 读取条款工作簿；未提供时返回空表
func readTerms(data []byte, opts TwoOptions) (map[string]model.DriverTerms, map[string]model.OwnerTerms, error) {
	drivers := make(map[string]model.DriverTerms)
	owners := make(map[string]model.OwnerTerms)
	if len(data) == 0 {
		return drivers, owners, nil
	}

	wb, err := parser.OpenWorkbook(data)
	if err != nil {
		return nil, nil, fmt.Errorf("open terms workbook: %w", err)
	}
	defer wb.Close()

	names := wb.SheetNames()
	if sheet := termsSheet(names, opts.DriversSheet, "driver", true); sheet != "" {
		if t, err := wb.Table(sheet); err == nil {
			drivers = parser.ParseDriverTerms(t)
		}
	}
	if sheet := termsSheet(names, opts.OwnersSheet, "owner", false); sheet != "" {
		if t, err := wb.Table(sheet); err == nil {
			owners = parser.ParseOwnerTerms(t)
		}
	}
	return drivers, owners, nil
}

// termsSheet 条款 sheet：存在的 override > 名称含关键词 > 第一个 sheet（仅司机表）
func termsSheet(names []string, override, keyword string, firstAsDefault bool) string {
	if override != "" {
		for _, n := range names {
			if n == override {
				return n
			}
		}
	}
	if s := parser.FindSheetContaining(names, keyword); s != "" {
		return s
	}
	if firstAsDefault && len(names) > 0 {
		return names[0]
	}
	return ""
}

func (g *Generator) resolveSheet(batchID string, names []string, override string) string {
	sheet := parser.ResolveSheet(names, override)
	if override != "" && sheet != override {
		if hint := parser.SuggestSheet(names, override); hint != "" {
			log.Printf("[generator] batch %s: sheet %q not found (did you mean %q?), using %q", batchID, override, hint, sheet)
		} else {
			log.Printf("[generator] batch %s: sheet %q not found, using %q", batchID, override, sheet)
		}
	}
	return sheet
}

// emit 渲染一台车的车主与司机结算单
func (g *Generator) emit(res *Result, group model.TruckGroup, parties calculator.Parties, pay calculator.PayConfig, fuel float64) error {
	ownerSettlement := pay.OwnerSettlement(group.Rows, fuel)
	driverSettlement := pay.DriverSettlement(group.Rows, fuel, parties.RatePerMile)

	ownerSt := exporter.BuildStatement(g.title, group, parties.OwnerRecipient, res.Period, ownerSettlement)
	driverSt := exporter.BuildStatement(g.title, group, parties.DriverName, res.Period, driverSettlement)

	for _, st := range []exporter.Statement{ownerSt, driverSt} {
		content, err := exporter.RenderStatement(st)
		if err != nil {
			return fmt.Errorf("truck %s: %w", group.TruckID, err)
		}
		res.Files = append(res.Files, model.Document{
			Name:     exporter.StatementFileName(st.Audience, parties.OwnerName, group.TruckID, res.Period),
			Content:  content,
			Audience: st.Audience,
			TruckID:  group.TruckID,
		})
	}
	res.Summary = append(res.Summary, exporter.SummaryRowFor(ownerSt, driverSt))
	return nil
}

// GenerateFromSingleWorkbook 使用默认结算参数执行单表流程
func GenerateFromSingleWorkbook(ctx context.Context, data []byte, opts SingleOptions) (*Result, error) {
	return New().GenerateFromSingleWorkbook(ctx, data, opts)
}

// GenerateFromTwoWorkbooks 使用默认结算参数执行双表流程
func GenerateFromTwoWorkbooks(ctx context.Context, loads, terms []byte, opts TwoOptions) (*Result, error) {
	return New().GenerateFromTwoWorkbooks(ctx, loads, terms, opts)
}
