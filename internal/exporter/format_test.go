package exporter

import "testing"

func TestFormatMoney(t *testing.T) {
	t.Parallel()

	cases := map[float64]string{
		1234.5:     "1,234.50",
		0:          "0.00",
		999.999:    "1,000.00",
		-710:       "-710.00",
		1234567.89: "1,234,567.89",
	}
	for in, want := range cases {
		if got := FormatMoney(in); got != want {
			t.Fatalf("FormatMoney(%v) = %q, want %q", in, got, want)
		}
	}
}

func TestFormatPercentAndRate(t *testing.T) {
	t.Parallel()

	if got := FormatPercent(0.88); got != "88%" {
		t.Fatalf("FormatPercent = %q", got)
	}
	if got := FormatPercent(0.855); got != "85.5%" {
		t.Fatalf("FormatPercent = %q", got)
	}
	if got := FormatRate(0.65); got != "0.65" {
		t.Fatalf("FormatRate = %q", got)
	}
	if got := FormatMiles(12345.4); got != "12,345" {
		t.Fatalf("FormatMiles = %q", got)
	}
}
