package model

// LoadRecord 统一后的单条运单记录
type LoadRecord struct {
	PeriodLabel      string   `json:"periodLabel"` // 原始周期文本
	TruckID          string   `json:"truckId"`     // 规范化车号（仅数字）
	OwnerName        string   `json:"ownerName"`   // 车主 / 承运商
	DriverName       string   `json:"driverName,omitempty"`
	LoadNumber       string   `json:"loadNumber"`
	PickupLocation   string   `json:"pickupLocation"`
	DeliveryLocation string   `json:"deliveryLocation"`
	Gross            *float64 `json:"gross,omitempty"` // 缺失为 nil
	Miles            *float64 `json:"miles,omitempty"` // 缺失为 nil
	PickupDate       Cell     `json:"-"`
	FuelDeduction    float64  `json:"fuelDeduction"`
	SourceRow        int      `json:"sourceRow"` // Excel 行号（1 起）
}

// GrossValue 运费，缺失为 0
func (r LoadRecord) GrossValue() float64 {
	if r.Gross == nil {
		return 0
	}
	return *r.Gross
}

// MilesValue 里程，缺失为 0
func (r LoadRecord) MilesValue() float64 {
	if r.Miles == nil {
		return 0
	}
	return *r.Miles
}

// TruckGroup 同一车号在同一结算周期内的全部运单
type TruckGroup struct {
	TruckID    string       `json:"truckId"`
	OwnerName  string       `json:"ownerName"`
	DriverName string       `json:"driverName,omitempty"`
	Rows       []LoadRecord `json:"rows"`
}
