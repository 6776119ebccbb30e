package calculator

import (
	"github.com/shopspring/decimal"

	"sumerplus/internal/model"
)

const (
	// DefaultOwnerPercentage 车主默认分成 88%
	DefaultOwnerPercentage = 0.88
	// DefaultDriverRatePerMile 司机默认每英里 0.65
	DefaultDriverRatePerMile = 0.65
)

// Deduction 固定周扣款项
type Deduction struct {
	Name   string  `toml:"name" json:"name"`
	Amount float64 `toml:"amount" json:"amount"`
}

// DefaultDeductions 默认固定扣款表
func DefaultDeductions() []Deduction {
	return []Deduction{
		{Name: "ELD (weekly)", Amount: 110.00},
		{Name: "Cargo insurance (weekly)", Amount: 400.00},
		{Name: "Trailer (weekly)", Amount: 200.00},
	}
}

// PayConfig 结算参数，按批次传入计算器
type PayConfig struct {
	OwnerPercentage   float64
	DriverRatePerMile float64
	Deductions        []Deduction
}

// DefaultPayConfig 默认结算参数
func DefaultPayConfig() PayConfig {
	return PayConfig{
		OwnerPercentage:   DefaultOwnerPercentage,
		DriverRatePerMile: DefaultDriverRatePerMile,
		Deductions:        DefaultDeductions(),
	}
}

// WithOwnerPercentage 返回带批次分成覆盖的副本；90 与 0.9 等价，nil 或越界时不变
func (c PayConfig) WithOwnerPercentage(p *float64) PayConfig {
	if v := NormalizeOwnerPercentage(p); v != nil {
		c.OwnerPercentage = *v
	}
	return c
}

// NormalizeOwnerPercentage 分成比例规范化：>1 视为百分数（÷100），结果须在 (0,1]，否则返回 nil
func NormalizeOwnerPercentage(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	if v > 1 {
		v = v / 100
	}
	if v <= 0 || v > 1 {
		return nil
	}
	return &v
}

// Totals 车辆汇总
type Totals struct {
	Miles       float64 `json:"miles"`
	Gross       float64 `json:"gross"`
	BlendedRate float64 `json:"blendedRate"` // Gross / Miles，里程为 0 时为 0
}

// ComputeTotals 汇总里程与运费
func ComputeTotals(rows []model.LoadRecord) Totals {
	miles := decimal.Zero
	gross := decimal.Zero
	for _, r := range rows {
		miles = miles.Add(decimal.NewFromFloat(r.MilesValue()))
		gross = gross.Add(decimal.NewFromFloat(r.GrossValue()))
	}
	t := Totals{
		Miles: miles.InexactFloat64(),
		Gross: gross.InexactFloat64(),
	}
	if !miles.IsZero() {
		t.BlendedRate = gross.Div(miles).InexactFloat64()
	}
	return t
}

// Line 结算单中的一行金额
type Line struct {
	Name   string  `json:"name"`
	Amount float64 `json:"amount"`
}

// Settlement 单车单受众的结算结果
type Settlement struct {
	Audience        model.Audience `json:"audience"`
	Totals          Totals         `json:"totals"`
	OwnerPercentage float64        `json:"ownerPercentage,omitempty"`
	RatePerMile     float64        `json:"ratePerMile,omitempty"`
	Base            float64        `json:"base"` // 扣款前应付
	Additions       []Line         `json:"additions"`
	TotalAdditions  float64        `json:"totalAdditions"`
	Deductions      []Line         `json:"deductions"`
	TotalDeductions float64        `json:"totalDeductions"`
	Payable         float64        `json:"payable"`
}

// DeductionLines 固定扣款 + 非零油费
func (c PayConfig) DeductionLines(fuel float64) ([]Line, float64) {
	lines := make([]Line, 0, len(c.Deductions)+1)
	total := decimal.Zero
	for _, d := range c.Deductions {
		lines = append(lines, Line{Name: d.Name, Amount: d.Amount})
		total = total.Add(decimal.NewFromFloat(d.Amount))
	}
	if fuel != 0 {
		lines = append(lines, Line{Name: "Fuel", Amount: fuel})
		total = total.Add(decimal.NewFromFloat(fuel))
	}
	return lines, total.Round(2).InexactFloat64()
}

// OwnerSettlement 车主应付 = 总运费 × 分成 − 扣款合计
func (c PayConfig) OwnerSettlement(rows []model.LoadRecord, fuel float64) Settlement {
	totals := ComputeTotals(rows)
	base := decimal.NewFromFloat(totals.Gross).Mul(decimal.NewFromFloat(c.OwnerPercentage))
	s := c.settle(model.AudienceOwner, totals, base, fuel)
	s.OwnerPercentage = c.OwnerPercentage
	return s
}

// DriverSettlement 司机应付 = 总里程 × 每英里费率 − 扣款合计；rate 为 nil 时使用默认费率
func (c PayConfig) DriverSettlement(rows []model.LoadRecord, fuel float64, rate *float64) Settlement {
	rpm := c.DriverRatePerMile
	if rate != nil {
		rpm = *rate
	}
	totals := ComputeTotals(rows)
	base := decimal.NewFromFloat(totals.Miles).Mul(decimal.NewFromFloat(rpm))
	s := c.settle(model.AudienceDriver, totals, base, fuel)
	s.RatePerMile = rpm
	return s
}

func (c PayConfig) settle(aud model.Audience, totals Totals, base decimal.Decimal, fuel float64) Settlement {
	lines, totalDed := c.DeductionLines(fuel)
	// 补贴项预留，当前恒为 0
	additions := decimal.Zero
	payable := base.Add(additions).Sub(decimal.NewFromFloat(totalDed))
	return Settlement{
		Audience:        aud,
		Totals:          totals,
		Base:            base.Round(2).InexactFloat64(),
		Additions:       []Line{},
		TotalAdditions:  additions.InexactFloat64(),
		Deductions:      lines,
		TotalDeductions: totalDed,
		Payable:         payable.Round(2).InexactFloat64(),
	}
}
