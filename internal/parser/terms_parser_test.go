package parser

import (
	"testing"

	"sumerplus/internal/model"
)

func TestParseDriverTerms_Aliases(t *testing.T) {
	t.Parallel()

	tbl := &model.Table{
		Header: text("Truck #", "Driver Name", "Company", "Rate per mile"),
		Rows: [][]model.Cell{
			{model.NumberCell(101), model.TextCell("Ann Lee"), model.TextCell("Lee Freight"), model.TextCell("65")},
			{model.TextCell("0102"), model.TextCell("Ben"), model.EmptyCell(), model.NumberCell(0.6)},
			{model.TextCell("none"), model.TextCell("Ghost"), model.EmptyCell(), model.NumberCell(0.6)},
		},
	}

	got := ParseDriverTerms(tbl)
	if len(got) != 2 {
		t.Fatalf("expected 2 terms, got %d", len(got))
	}
	a := got["101"]
	if a.DriverName != "Ann Lee" || a.Company != "Lee Freight" || a.RatePerMile == nil || *a.RatePerMile != 0.65 {
		t.Fatalf("unexpected terms for 101: %+v", a)
	}
	if b := got["102"]; b.RatePerMile == nil || *b.RatePerMile != 0.6 {
		t.Fatalf("unexpected terms for 102: %+v", b)
	}
}

func TestParseDriverTerms_PositionalFallback(t *testing.T) {
	t.Parallel()

	// 表头完全不可识别时按固定列序：车号、司机、费率、公司
	tbl := &model.Table{
		Header: text("col A", "col B", "col C", "col D"),
		Rows: [][]model.Cell{
			{model.NumberCell(5), model.TextCell("Cy"), model.TextCell("70"), model.TextCell("Cy LLC")},
		},
	}
	got := ParseDriverTerms(tbl)["5"]
	if got.DriverName != "Cy" || got.Company != "Cy LLC" || got.RatePerMile == nil || *got.RatePerMile != 0.7 {
		t.Fatalf("unexpected fallback terms: %+v", got)
	}
}

func TestParseOwnerTerms(t *testing.T) {
	t.Parallel()

	tbl := &model.Table{
		Header: text("Unit", "Owner", "Rate", "Owner %"),
		Rows: [][]model.Cell{
			{model.NumberCell(9), model.TextCell("Dee Transport"), model.NumberCell(0.62), model.TextCell("85%")},
		},
	}
	got := ParseOwnerTerms(tbl)["9"]
	if got.OwnerName != "Dee Transport" {
		t.Fatalf("owner name: %q", got.OwnerName)
	}
	if got.Percentage == nil || *got.Percentage < 0.8499 || *got.Percentage > 0.8501 {
		t.Fatalf("percentage: %v", got.Percentage)
	}
	if got.RatePerMile == nil || *got.RatePerMile != 0.62 {
		t.Fatalf("rate: %v", got.RatePerMile)
	}
}

func TestParseTerms_NilTable(t *testing.T) {
	t.Parallel()

	if len(ParseDriverTerms(nil)) != 0 || len(ParseOwnerTerms(nil)) != 0 {
		t.Fatalf("nil table should yield empty maps")
	}
}
