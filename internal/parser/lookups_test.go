package parser

import (
	"testing"

	"github.com/xuri/excelize/v2"

	"sumerplus/internal/model"
)

func TestExtractFuelMap(t *testing.T) {
	t.Parallel()

	tbl := &model.Table{
		Header: text("x", "y", "z"),
		Rows: [][]model.Cell{
			text("Driver ID", "", "TOTAL"),
			{model.TextCell("0101"), model.EmptyCell(), model.TextCell("$50.00")},
			{model.NumberCell(102), model.EmptyCell(), model.NumberCell(75.5)},
			{model.NumberCell(103), model.EmptyCell(), model.TextCell("unknown")},
			{model.EmptyCell(), model.EmptyCell(), model.NumberCell(9)},
		},
	}
	got := ExtractFuelMap(tbl)
	if len(got) != 2 || got["101"] != 50 || got["102"] != 75.5 {
		t.Fatalf("unexpected fuel map: %v", got)
	}
}

func TestExtractFuelMap_MissingColumns(t *testing.T) {
	t.Parallel()

	tbl := &model.Table{Rows: [][]model.Cell{text("Driver ID", "Amount")}}
	if got := ExtractFuelMap(tbl); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
	if got := ExtractFuelMap(nil); len(got) != 0 {
		t.Fatalf("expected empty map for nil table")
	}
}

func TestExtractOwnerMap(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	if _, err := f.NewSheet(OwnerSheetName); err != nil {
		t.Fatalf("new sheet: %v", err)
	}
	rows := [][]any{
		{"Truck", "Owner"},
		{101, "Smith Trucking"},
		{"0102", "Acme"},
		{103, ""},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(OwnerSheetName, cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}

	wb, err := OpenWorkbook(buf.Bytes())
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer wb.Close()

	got := ExtractOwnerMap(wb)
	if len(got) != 2 || got["101"] != "Smith Trucking" || got["102"] != "Acme" {
		t.Fatalf("unexpected owner map: %v", got)
	}
}

func TestExtractOwnerMap_MissingSheet(t *testing.T) {
	t.Parallel()

	f := excelize.NewFile()
	t.Cleanup(func() { _ = f.Close() })
	buf, err := f.WriteToBuffer()
	if err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	wb, err := OpenWorkbook(buf.Bytes())
	if err != nil {
		t.Fatalf("open workbook: %v", err)
	}
	defer wb.Close()

	if got := ExtractOwnerMap(wb); len(got) != 0 {
		t.Fatalf("expected empty map, got %v", got)
	}
}
