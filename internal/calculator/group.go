package calculator

import (
	"strings"

	"sumerplus/internal/model"
)

// GroupByTruck 按车号分组；车号按首次出现顺序排列，组内保持源行顺序
func GroupByTruck(records []model.LoadRecord) []model.TruckGroup {
	index := make(map[string]int)
	var groups []model.TruckGroup

	for _, rec := range records {
		if rec.TruckID == "" {
			continue
		}
		i, ok := index[rec.TruckID]
		if !ok {
			i = len(groups)
			index[rec.TruckID] = i
			groups = append(groups, model.TruckGroup{TruckID: rec.TruckID})
		}
		g := &groups[i]
		if g.OwnerName == "" {
			g.OwnerName = strings.TrimSpace(rec.OwnerName)
		}
		if g.DriverName == "" {
			g.DriverName = strings.TrimSpace(rec.DriverName)
		}
		g.Rows = append(g.Rows, rec)
	}

	for i := range groups {
		if groups[i].OwnerName == "" {
			groups[i].OwnerName = DefaultOwnerName
		}
	}
	return groups
}

// FuelFor 车号对应的油费：优先油费表，其次运单行上的油费列之和
func FuelFor(group model.TruckGroup, fuelMap map[string]float64) float64 {
	if v, ok := fuelMap[group.TruckID]; ok {
		return v
	}
	total := 0.0
	for _, r := range group.Rows {
		total += r.FuelDeduction
	}
	return total
}
