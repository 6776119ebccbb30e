package parser

import (
	"strings"

	"sumerplus/internal/model"
)

// weekLabels 周表第一数据行中的列标签（大小写敏感）
var weekLabels = map[string]Field{
	"PU date":           FieldPickupDate,
	"Load Number":       FieldLoadNumber,
	"Pickup location":   FieldPickup,
	"Delivery location": FieldDelivery,
	"Gross":             FieldGross,
	"Total miles":       FieldMiles,
	"invoice #":         FieldInvoice,
	"Driver/Carrier":    FieldOwner,
	"Truck":             FieldTruck,
	"Week":              FieldPeriod,
}

// WeekSheet 规范化后的周表
type WeekSheet struct {
	Table    *model.Table
	Columns  ColumnMap
	Labelled bool // 第一数据行是否为标签行（已剔除）
}

// NormalizeWeekSheet 处理"表头在第一数据行"的周表
// 第一数据行中命中标签的列重命名为统一字段并剔除该行；一个都没命中时原样返回
func NormalizeWeekSheet(t *model.Table) *WeekSheet {
	// 结构表头本身就是标签时也可直接使用
	columns := make(ColumnMap)
	for i, h := range t.Header {
		if f, ok := weekLabels[strings.TrimSpace(h.String())]; ok {
			columns[f] = i
		}
	}

	if len(t.Rows) == 0 {
		return &WeekSheet{Table: t, Columns: columns}
	}

	labelled := make(ColumnMap)
	for i, c := range t.Rows[0] {
		if c.Kind != model.CellText {
			continue
		}
		if f, ok := weekLabels[strings.TrimSpace(c.Text)]; ok {
			labelled[f] = i
		}
	}
	if len(labelled) == 0 {
		return &WeekSheet{Table: t, Columns: columns}
	}

	for f, i := range labelled {
		columns[f] = i
	}
	out := &model.Table{
		Name:   t.Name,
		Header: t.Header,
		Rows:   t.Rows[1:],
	}
	return &WeekSheet{Table: out, Columns: columns, Labelled: true}
}

// PeriodLabel 周表第一行的 Week 值；没有时返回 ""
func (w *WeekSheet) PeriodLabel() string {
	idx, ok := w.Columns[FieldPeriod]
	if !ok || len(w.Table.Rows) == 0 {
		return ""
	}
	return w.Table.At(w.Table.Rows[0], idx).String()
}

// ParseWeekRows 将周表转换为运单记录，按严格准入规则过滤
func ParseWeekRows(w *WeekSheet) []model.LoadRecord {
	label := w.PeriodLabel()
	var out []model.LoadRecord
	offset := 2
	if w.Labelled {
		offset = 3
	}
	for i, row := range w.Table.Rows {
		rec, ok := weekRecord(w, row)
		if !ok {
			continue
		}
		rec.PeriodLabel = label
		rec.SourceRow = i + offset
		out = append(out, rec)
	}
	return out
}

func weekRecord(w *WeekSheet, row []model.Cell) (model.LoadRecord, bool) {
	get := func(f Field) model.Cell {
		idx, ok := w.Columns[f]
		if !ok {
			return model.EmptyCell()
		}
		return w.Table.At(row, idx)
	}

	pu := get(FieldPickupDate)
	if pu.Kind == model.CellText && strings.EqualFold(strings.TrimSpace(pu.Text), "pu date") {
		return model.LoadRecord{}, false
	}

	loadCell := get(FieldLoadNumber)
	rec := model.LoadRecord{
		TruckID:          TruckIDFromCell(get(FieldTruck)),
		OwnerName:        get(FieldOwner).String(),
		LoadNumber:       loadCell.String(),
		PickupLocation:   get(FieldPickup).String(),
		DeliveryLocation: get(FieldDelivery).String(),
		Gross:            nonNegativeAmount(get(FieldGross)),
		Miles:            nonNegativeAmount(get(FieldMiles)),
		PickupDate:       pu,
	}
	if !AdmitStrict(rec, pu, loadCell) {
		return model.LoadRecord{}, false
	}
	return rec, true
}

// AdmitStrict 单表流程准入：有车号、运费或里程至少一项为数字、提货日期与运单号均非空
func AdmitStrict(rec model.LoadRecord, pickupDate, loadNumber model.Cell) bool {
	if rec.TruckID == "" {
		return false
	}
	if rec.Gross == nil && rec.Miles == nil {
		return false
	}
	return !pickupDate.IsEmpty() && !loadNumber.IsEmpty()
}
