package calculator

import (
	"strings"

	"sumerplus/internal/model"
	"sumerplus/internal/parser"
)

const (
	DefaultOwnerName  = "Owner"
	DefaultDriverName = "Driver"
)

// Parties 单车结算的收款方与费率
type Parties struct {
	OwnerName       string   `json:"ownerName"`
	OwnerRecipient  string   `json:"ownerRecipient"`
	DriverName      string   `json:"driverName"`
	RatePerMile     *float64 `json:"ratePerMile"`     // nil 表示使用默认费率
	OwnerPercentage *float64 `json:"ownerPercentage"` // nil 表示使用批次分成
}

// GuardOwnerName 名称为空或含数字/逗号时替换为 "Owner"
func GuardOwnerName(name string) string {
	name = strings.TrimSpace(name)
	if name == "" || parser.ContainsDigitOrComma(name) {
		return DefaultOwnerName
	}
	return name
}

// ResolveOwnerName 车主名：对照表 > 运单行中第一个非空车主 > "Owner"
func ResolveOwnerName(group model.TruckGroup, ownerMap map[string]string) string {
	if v, ok := ownerMap[group.TruckID]; ok && strings.TrimSpace(v) != "" {
		return GuardOwnerName(v)
	}
	return GuardOwnerName(group.OwnerName)
}

// SingleWorkbookParties 单表流程：司机配置优先，其次车主名
func SingleWorkbookParties(group model.TruckGroup, ownerMap map[string]string, terms map[string]model.DriverTerms) Parties {
	owner := ResolveOwnerName(group, ownerMap)
	p := Parties{
		OwnerName:      owner,
		OwnerRecipient: owner,
		DriverName:     owner,
	}

	cfg, ok := terms[group.TruckID]
	if !ok {
		return p
	}
	p.RatePerMile = cfg.RatePerMile
	if name := strings.TrimSpace(cfg.DriverName); name != "" {
		p.DriverName = name
	}
	if company := strings.TrimSpace(cfg.Company); company != "" {
		p.OwnerRecipient = company
	}
	return p
}

// TwoWorkbookParties 双表流程：
// 司机名 司机条款 > 车主条款 > 运单行 > "Driver"；
// 费率 司机条款 > 车主条款 > 默认；
// 车主名 车主条款 > 对照表 > 运单行 > "Owner"；
// 分成 批次覆盖（越界时忽略） > 车主条款 > 默认
func TwoWorkbookParties(group model.TruckGroup, ownerMap map[string]string, drivers map[string]model.DriverTerms, owners map[string]model.OwnerTerms, override *float64) Parties {
	d, hasDriver := drivers[group.TruckID]
	o, hasOwner := owners[group.TruckID]

	var p Parties

	p.DriverName = firstNonEmpty(
		pick(hasDriver, d.DriverName),
		pick(hasOwner, o.DriverName),
		group.DriverName,
		DefaultDriverName,
	)

	switch {
	case hasDriver && d.RatePerMile != nil:
		p.RatePerMile = d.RatePerMile
	case hasOwner && o.RatePerMile != nil:
		p.RatePerMile = o.RatePerMile
	}

	p.OwnerName = GuardOwnerName(firstNonEmpty(
		pick(hasOwner, o.OwnerName),
		ownerMap[group.TruckID],
		group.OwnerName,
	))
	p.OwnerRecipient = p.OwnerName

	override = NormalizeOwnerPercentage(override)
	switch {
	case override != nil:
		p.OwnerPercentage = override
	case hasOwner && o.Percentage != nil:
		p.OwnerPercentage = o.Percentage
	}
	return p
}

func pick(ok bool, v string) string {
	if !ok {
		return ""
	}
	return v
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if s := strings.TrimSpace(v); s != "" {
			return s
		}
	}
	return ""
}
