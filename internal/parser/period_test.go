package parser

import (
	"testing"
	"time"
)

func TestParsePeriod(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 12, 3, 15, 0, 0, 0, time.UTC)
	cases := []struct {
		label      string
		start, end string
	}{
		{"11.17.25-11.23.25", "2025-11-17", "2025-11-23"},
		{"11.17.2025 - 11.23.2025", "2025-11-17", "2025-11-23"},
		{"12.29-1.4", "2025-12-29", "2025-01-04"},
		{"11.17.25", "2025-11-17", "2025-11-17"},
	}
	for _, tc := range cases {
		p := ParsePeriod(tc.label, now)
		if p.Fallback {
			t.Fatalf("%q: unexpected fallback", tc.label)
		}
		if got := p.Start.Format("2006-01-02"); got != tc.start {
			t.Fatalf("%q: start = %s, want %s", tc.label, got, tc.start)
		}
		if got := p.End.Format("2006-01-02"); got != tc.end {
			t.Fatalf("%q: end = %s, want %s", tc.label, got, tc.end)
		}
	}
}

func TestParsePeriod_Fallback(t *testing.T) {
	t.Parallel()

	// 2025-12-03 是周三，兜底周期为 12/01 - 12/07
	now := time.Date(2025, 12, 3, 15, 0, 0, 0, time.UTC)
	for _, label := range []string{"not-a-date", "", "2.30.25-3.5.25", "1.2.3.4-1.2", "13.1.25-13.7.25"} {
		p := ParsePeriod(label, now)
		if !p.Fallback {
			t.Fatalf("%q: expected fallback", label)
		}
		if p.Start.Weekday() != time.Monday {
			t.Fatalf("%q: fallback start is %s", label, p.Start.Weekday())
		}
		if got := p.Start.Format("01/02/2006"); got != "12/01/2025" {
			t.Fatalf("%q: fallback start = %s", label, got)
		}
		if got := p.End.Sub(p.Start); got != 6*24*time.Hour {
			t.Fatalf("%q: fallback span = %s", label, got)
		}
	}
}

func TestCurrentWeek_OnMonday(t *testing.T) {
	t.Parallel()

	now := time.Date(2025, 11, 17, 8, 0, 0, 0, time.UTC)
	p := CurrentWeek(now)
	if p.Start.Format("2006-01-02") != "2025-11-17" || p.End.Format("2006-01-02") != "2025-11-23" {
		t.Fatalf("unexpected week: %s", p.Display())
	}
}

func TestSheetNamePeriodLabel(t *testing.T) {
	t.Parallel()

	if got := SheetNamePeriodLabel("Week 11.17.25-11.23.25"); got != "11.17.25-11.23.25" {
		t.Fatalf("got %q", got)
	}
	if got := SheetNamePeriodLabel("WEEK"); got != "" {
		t.Fatalf("got %q", got)
	}
}
