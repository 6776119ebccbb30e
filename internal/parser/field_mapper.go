package parser

// Field 统一字段
type Field string

const (
	FieldTruck      Field = "truck"
	FieldLoadNumber Field = "load_number"
	FieldGross      Field = "gross"
	FieldMiles      Field = "total_miles"
	FieldPickupDate Field = "pu_date"
	FieldPickup     Field = "pickup_location"
	FieldDelivery   Field = "delivery_location"
	FieldOwner      Field = "owner"
	FieldDriver     Field = "driver"
	FieldFuel       Field = "fuel"
	FieldPeriod     Field = "period"
	FieldInvoice    Field = "invoice"
	FieldRate       Field = "rate"
	FieldCompany    Field = "company"
	FieldEmail      Field = "email"
	FieldPercentage Field = "percentage"
)

// FieldAliases 单个字段可接受的表头别名（按优先级排序，均为规范化后的小写形式）
type FieldAliases struct {
	Field   Field
	Aliases []string
}

// ColumnMap 字段 -> 列索引
type ColumnMap map[Field]int

// Has 是否映射了该字段
func (m ColumnMap) Has(f Field) bool {
	_, ok := m[f]
	return ok
}

// LoadAliases 运单表（常规表头）别名表
var LoadAliases = []FieldAliases{
	{FieldTruck, []string{"unit number", "truck", "unit", "truck number", "truck #", "truck no", "unit #"}},
	{FieldLoadNumber, []string{"load number", "load #", "load no", "load", "load id"}},
	{FieldGross, []string{"gross", "gross pay", "rate", "total rate", "amount", "linehaul"}},
	{FieldMiles, []string{"total miles", "miles", "loaded miles", "mileage"}},
	{FieldPickupDate, []string{"pu date", "pickup date", "pick up date", "date"}},
	{FieldPickup, []string{"pickup location", "pickup", "origin", "shipper"}},
	{FieldDelivery, []string{"delivery location", "delivery", "destination", "consignee"}},
	{FieldOwner, []string{"driver/carrier", "carrier", "owner", "owner name", "company"}},
	{FieldDriver, []string{"driver", "driver name"}},
	{FieldFuel, []string{"fuel", "fuel deduction"}},
	{FieldPeriod, []string{"week", "period", "work period", "pay period"}},
	{FieldInvoice, []string{"invoice #", "invoice", "invoice number"}},
}

// DriverTermsAliases 司机条款表别名表
var DriverTermsAliases = []FieldAliases{
	{FieldTruck, []string{"unit number", "truck", "unit", "truck number", "truck #", "unit #"}},
	{FieldDriver, []string{"driver name", "driver", "name"}},
	{FieldRate, []string{"rate per mile", "rate/mile", "per mile", "cpm", "pay rate", "rate"}},
	{FieldCompany, []string{"company", "carrier", "owner"}},
	{FieldEmail, []string{"driver email", "email"}},
}

// DriverTermsFallback 司机条款表的固定列顺序
var DriverTermsFallback = map[Field]int{
	FieldTruck:   0,
	FieldDriver:  1,
	FieldRate:    2,
	FieldCompany: 3,
}

// OwnerTermsAliases 车主条款表别名表
var OwnerTermsAliases = []FieldAliases{
	{FieldTruck, []string{"unit number", "truck", "unit", "truck number", "truck #", "unit #"}},
	{FieldOwner, []string{"owner name", "owner", "company", "carrier"}},
	{FieldDriver, []string{"driver name", "driver"}},
	{FieldRate, []string{"rate per mile", "driver rate", "rate/mile", "cpm", "rate"}},
	{FieldPercentage, []string{"owner percentage", "percentage", "owner %", "percent", "split"}},
}

// OwnerTermsFallback 车主条款表的固定列顺序
var OwnerTermsFallback = map[Field]int{
	FieldTruck:      0,
	FieldOwner:      1,
	FieldRate:       2,
	FieldPercentage: 3,
}

// MapColumns 按别名表匹配表头（不区分大小写），每个字段取第一个命中的别名；
// 一列只归属一个字段
func MapColumns(header []string, table []FieldAliases) ColumnMap {
	normalized := make([]string, len(header))
	for i, h := range header {
		normalized[i] = NormalizeHeader(h)
	}

	used := make(map[int]bool)
	out := make(ColumnMap)
	for _, fa := range table {
		for _, alias := range fa.Aliases {
			idx := indexOf(normalized, alias, used)
			if idx >= 0 {
				out[fa.Field] = idx
				used[idx] = true
				break
			}
		}
	}
	return out
}

// MapColumnsWithFallback 别名匹配失败的字段按固定列序兜底（列必须存在且未被占用）
func MapColumnsWithFallback(header []string, width int, table []FieldAliases, fallback map[Field]int) ColumnMap {
	out := MapColumns(header, table)
	used := make(map[int]bool, len(out))
	for _, idx := range out {
		used[idx] = true
	}
	for _, fa := range table {
		if out.Has(fa.Field) {
			continue
		}
		idx, ok := fallback[fa.Field]
		if !ok || idx >= width || used[idx] {
			continue
		}
		out[fa.Field] = idx
		used[idx] = true
	}
	return out
}

func indexOf(cols []string, want string, used map[int]bool) int {
	for i, c := range cols {
		if c == want && !used[i] {
			return i
		}
	}
	return -1
}
