package parser

import (
	"sumerplus/internal/model"
)

// BoardSheet 常规表头运单表的解析结果
type BoardSheet struct {
	Records     []model.LoadRecord
	Columns     ColumnMap
	PeriodLabel string // 周期列中自上而下第一个非空值
}

// ParseBoardRows 解析常规表头（第一行为列名）的运单表，按宽松准入规则过滤
func ParseBoardRows(t *model.Table) *BoardSheet {
	columns := MapColumns(t.HeaderText(), LoadAliases)
	out := &BoardSheet{Columns: columns}

	get := func(row []model.Cell, f Field) model.Cell {
		idx, ok := columns[f]
		if !ok {
			return model.EmptyCell()
		}
		return t.At(row, idx)
	}

	for i, row := range t.Rows {
		if out.PeriodLabel == "" {
			if v := get(row, FieldPeriod); !v.IsEmpty() {
				out.PeriodLabel = v.String()
			}
		}

		rec := model.LoadRecord{
			TruckID:          NormalizeTruckIDLenient(truckText(get(row, FieldTruck))),
			OwnerName:        get(row, FieldOwner).String(),
			DriverName:       get(row, FieldDriver).String(),
			LoadNumber:       get(row, FieldLoadNumber).String(),
			PickupLocation:   get(row, FieldPickup).String(),
			DeliveryLocation: get(row, FieldDelivery).String(),
			Gross:            nonNegativeAmount(get(row, FieldGross)),
			Miles:            nonNegativeAmount(get(row, FieldMiles)),
			PickupDate:       get(row, FieldPickupDate),
			SourceRow:        i + 2,
		}
		if fuel, ok := ToAmount(get(row, FieldFuel)); ok {
			rec.FuelDeduction = fuel
		}
		if !AdmitLenient(rec) {
			continue
		}
		out.Records = append(out.Records, rec)
	}

	for i := range out.Records {
		out.Records[i].PeriodLabel = out.PeriodLabel
	}
	return out
}

// AdmitLenient 双表流程准入：有车号，且运单号非空或运费/里程为数字
func AdmitLenient(rec model.LoadRecord) bool {
	if rec.TruckID == "" {
		return false
	}
	return rec.LoadNumber != "" || rec.Gross != nil || rec.Miles != nil
}

func truckText(c model.Cell) string {
	if c.Kind == model.CellDate {
		return ""
	}
	return c.String()
}
