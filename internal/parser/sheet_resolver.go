package parser

import (
	"strings"

	"github.com/schollz/closestmatch"
)

const (
	weekSheetPrefix = "Week "
	boardSheetName  = "Board"
)

// ResolveSheet 选择代表当前结算周期的 sheet
// 优先顺序：存在的 override > 字典序最后一个 "Week " 前缀 sheet > "Board" > 第一个 sheet
func ResolveSheet(names []string, override string) string {
	if override != "" {
		for _, n := range names {
			if n == override {
				return n
			}
		}
	}

	last := ""
	for _, n := range names {
		if strings.HasPrefix(n, weekSheetPrefix) && n > last {
			last = n
		}
	}
	if last != "" {
		return last
	}

	for _, n := range names {
		if n == boardSheetName {
			return n
		}
	}

	if len(names) == 0 {
		return ""
	}
	return names[0]
}

// SuggestSheet 返回与 want 最接近的 sheet 名（用于 override 不存在时的提示）
func SuggestSheet(names []string, want string) string {
	if want == "" || len(names) == 0 {
		return ""
	}
	cm := closestmatch.New(names, []int{2, 3})
	return cm.Closest(want)
}

// FindSheetContaining 返回第一个名称包含关键词（不区分大小写）的 sheet
func FindSheetContaining(names []string, keyword string) string {
	keyword = strings.ToLower(keyword)
	for _, n := range names {
		if strings.Contains(strings.ToLower(n), keyword) {
			return n
		}
	}
	return ""
}
