package parser

import (
	"sumerplus/internal/model"
)

// ParseDriverTerms 解析司机条款表：车号 -> {司机, 费率, 公司}
// 表头不匹配时按固定列序兜底
func ParseDriverTerms(t *model.Table) map[string]model.DriverTerms {
	out := make(map[string]model.DriverTerms)
	if t == nil {
		return out
	}
	columns := MapColumnsWithFallback(t.HeaderText(), tableWidth(t), DriverTermsAliases, DriverTermsFallback)
	if !columns.Has(FieldTruck) {
		return out
	}

	for _, row := range t.Rows {
		get := cellGetter(t, row, columns)
		key := NormalizeTruckIDLenient(truckText(get(FieldTruck)))
		if key == "" {
			continue
		}
		out[key] = model.DriverTerms{
			RatePerMile: NormalizeRate(get(FieldRate)),
			DriverName:  get(FieldDriver).String(),
			Company:     get(FieldCompany).String(),
			Email:       get(FieldEmail).String(),
		}
	}
	return out
}

// ParseOwnerTerms 解析车主条款表：车号 -> {车主, 司机, 费率, 分成比例}
func ParseOwnerTerms(t *model.Table) map[string]model.OwnerTerms {
	out := make(map[string]model.OwnerTerms)
	if t == nil {
		return out
	}
	columns := MapColumnsWithFallback(t.HeaderText(), tableWidth(t), OwnerTermsAliases, OwnerTermsFallback)
	if !columns.Has(FieldTruck) {
		return out
	}

	for _, row := range t.Rows {
		get := cellGetter(t, row, columns)
		key := NormalizeTruckIDLenient(truckText(get(FieldTruck)))
		if key == "" {
			continue
		}
		out[key] = model.OwnerTerms{
			OwnerName:   get(FieldOwner).String(),
			DriverName:  get(FieldDriver).String(),
			RatePerMile: NormalizeRate(get(FieldRate)),
			Percentage:  NormalizePercentage(get(FieldPercentage)),
		}
	}
	return out
}

func cellGetter(t *model.Table, row []model.Cell, columns ColumnMap) func(Field) model.Cell {
	return func(f Field) model.Cell {
		idx, ok := columns[f]
		if !ok {
			return model.EmptyCell()
		}
		return t.At(row, idx)
	}
}

func tableWidth(t *model.Table) int {
	w := len(t.Header)
	for _, r := range t.Rows {
		if len(r) > w {
			w = len(r)
		}
	}
	return w
}
