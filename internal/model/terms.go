package model

// DriverTerms 司机结算条款（按规范化车号索引）
type DriverTerms struct {
	RatePerMile *float64 `json:"rate_per_mile,omitempty"`
	DriverName  string   `json:"driver_name"`
	Company     string   `json:"company,omitempty"`
	Email       string   `json:"driver_email,omitempty"`
}

// OwnerTerms 车主结算条款（双表流程的条款表）
type OwnerTerms struct {
	OwnerName   string   `json:"owner_name"`
	DriverName  string   `json:"driver_name,omitempty"`
	RatePerMile *float64 `json:"rate_per_mile,omitempty"`
	Percentage  *float64 `json:"percentage,omitempty"` // 车主分成比例（0-1）
}

// DriverConfig 持久化的司机配置
type DriverConfig struct {
	UnitNumber  int     `json:"unit_number"`
	DriverName  string  `json:"driver_name"`
	DriverEmail string  `json:"driver_email,omitempty"`
	Company     string  `json:"company,omitempty"`
	RatePerMile float64 `json:"rate_per_mile"`
}

// Terms 转换为结算条款
func (c DriverConfig) Terms() DriverTerms {
	rate := c.RatePerMile
	return DriverTerms{
		RatePerMile: &rate,
		DriverName:  c.DriverName,
		Company:     c.Company,
		Email:       c.DriverEmail,
	}
}
