package parser

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"sumerplus/internal/model"
)

var errBadDate = errors.New("bad date")

// ParsePeriod 解析 "M.D.YY-M.D.YY" / "M.D.YYYY-M.D.YYYY" 周期文本
// 任何解析失败都回退到 now 所在的周（周一至周日），从不报错
func ParsePeriod(label string, now time.Time) model.Period {
	txt := strings.ReplaceAll(strings.TrimSpace(label), " ", "")

	startTxt, endTxt := txt, txt
	if i := strings.Index(txt, "-"); i >= 0 {
		startTxt, endTxt = txt[:i], txt[i+1:]
	}

	start, err := parsePeriodDate(startTxt, now.Year(), now.Location())
	if err == nil {
		var end time.Time
		end, err = parsePeriodDate(endTxt, now.Year(), now.Location())
		if err == nil {
			return model.Period{Label: label, Start: start, End: end}
		}
	}

	p := CurrentWeek(now)
	p.Label = label
	return p
}

// CurrentWeek now 所在周：周一（含当天）至 6 天后
func CurrentWeek(now time.Time) model.Period {
	offset := (int(now.Weekday()) + 6) % 7
	day := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	start := day.AddDate(0, 0, -offset)
	return model.Period{
		Start:    start,
		End:      start.AddDate(0, 0, 6),
		Fallback: true,
	}
}

// SheetNamePeriodLabel 从 sheet 名推出周期文本："Week 11.17.25-11.23.25" -> "11.17.25-11.23.25"
func SheetNamePeriodLabel(sheet string) string {
	return strings.TrimSpace(strings.ReplaceAll(strings.ToLower(sheet), "week", ""))
}

func parsePeriodDate(s string, currentYear int, loc *time.Location) (time.Time, error) {
	parts := strings.Split(s, ".")
	if len(parts) != 2 && len(parts) != 3 {
		return time.Time{}, errBadDate
	}

	nums := make([]int, len(parts))
	for i, p := range parts {
		n, err := strconv.Atoi(p)
		if err != nil {
			return time.Time{}, errBadDate
		}
		nums[i] = n
	}

	month, day, year := nums[0], nums[1], currentYear
	if len(nums) == 3 {
		year = nums[2]
		if year < 100 {
			year += 2000
		}
	}

	if month < 1 || month > 12 || day < 1 {
		return time.Time{}, errBadDate
	}
	t := time.Date(year, time.Month(month), day, 0, 0, 0, 0, loc)
	// time.Date 会把 2/30 归一化为 3/2，这里视为非法日期
	if t.Month() != time.Month(month) || t.Day() != day {
		return time.Time{}, errBadDate
	}
	return t, nil
}
