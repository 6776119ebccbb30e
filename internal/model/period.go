package model

import "time"

// Period 结算周期
type Period struct {
	Label    string    `json:"label"`
	Start    time.Time `json:"start"`
	End      time.Time `json:"end"`
	Fallback bool      `json:"fallback"` // 周期文本无法解析，使用了本周兜底
}

// Display 形如 "11/17/2025 - 11/23/2025"
func (p Period) Display() string {
	return p.Start.Format("01/02/2006") + " - " + p.End.Format("01/02/2006")
}

// FileSuffix 形如 "11_17_2025_to_11_23_2025"
func (p Period) FileSuffix() string {
	return p.Start.Format("01_02_2006") + "_to_" + p.End.Format("01_02_2006")
}
