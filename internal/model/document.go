package model

// Audience 结算单受众
type Audience string

const (
	AudienceOwner  Audience = "owner"
	AudienceDriver Audience = "driver"
)

// Prefix 文件名前缀
func (a Audience) Prefix() string {
	if a == AudienceDriver {
		return "DRIVER"
	}
	return "OWNER"
}

// Document 生成的结算单文件
type Document struct {
	Name     string   `json:"name"`
	Content  []byte   `json:"-"`
	Audience Audience `json:"audience"`
	TruckID  string   `json:"truckId"`
}
