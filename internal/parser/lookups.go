package parser

import (
	"strings"

	"sumerplus/internal/model"
)

// OwnerSheetName 车号-车主对照表的 sheet 名
const OwnerSheetName = "Truck-Owner"

// ExtractFuelMap 从周表原始数据中提取 车号 -> 油费
// 第一数据行中标注为 "driver id" 与 "total" 的列分别为车号与金额；缺任意一列返回空表
func ExtractFuelMap(t *model.Table) map[string]float64 {
	out := make(map[string]float64)
	if t == nil || len(t.Rows) == 0 {
		return out
	}

	driverCol, totalCol := -1, -1
	for i, c := range t.Rows[0] {
		switch strings.ToLower(strings.TrimSpace(c.String())) {
		case "driver id":
			driverCol = i
		case "total":
			totalCol = i
		}
	}
	if driverCol < 0 || totalCol < 0 {
		return out
	}

	for _, row := range t.Rows[1:] {
		d := t.At(row, driverCol)
		total := t.At(row, totalCol)
		if d.IsEmpty() || total.IsEmpty() {
			continue
		}
		key := TruckIDFromCell(d)
		if key == "" {
			continue
		}
		if amt, ok := ToAmount(total); ok {
			out[key] = amt
		}
	}
	return out
}

// ExtractOwnerMap 读取 "Truck-Owner" sheet：第一列车号，第二列车主
// sheet 不存在或读取失败时返回空表
func ExtractOwnerMap(wb Workbook) map[string]string {
	out := make(map[string]string)
	if wb == nil || !HasSheet(wb, OwnerSheetName) {
		return out
	}
	t, err := wb.Table(OwnerSheetName)
	if err != nil {
		return out
	}
	for _, row := range t.Rows {
		key := TruckIDFromCell(t.At(row, 0))
		owner := t.At(row, 1)
		if key == "" || owner.IsEmpty() {
			continue
		}
		out[key] = owner.String()
	}
	return out
}
