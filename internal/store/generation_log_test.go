package store

import (
	"context"
	"testing"
)

func TestGenerationLogs(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	first, err := st.CreateGenerationLog(ctx, "single", "upload")
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	second, err := st.CreateGenerationLog(ctx, "two", "upload")
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	if err := st.CompleteGenerationLog(ctx, first, "batch-1", "Week 1", "11.17.25-11.23.25", 2, 4, StatusSuccess, ""); err != nil {
		t.Fatalf("complete: %v", err)
	}
	if err := st.CompleteGenerationLog(ctx, second, "", "", "", 0, 0, StatusFailed, "open loads workbook: bad"); err != nil {
		t.Fatalf("complete: %v", err)
	}

	logs, err := st.ListGenerationLogs(ctx, 0)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(logs) != 2 {
		t.Fatalf("expected 2 logs, got %d", len(logs))
	}
	if logs[0].ID != second || logs[0].Status != StatusFailed || logs[0].ErrorMessage == "" {
		t.Fatalf("newest first: %+v", logs[0])
	}
	ok := logs[1]
	if ok.BatchID != "batch-1" || ok.Flow != "single" || ok.TruckCount != 2 || ok.FileCount != 4 || ok.CompletedAt == nil {
		t.Fatalf("completed log: %+v", ok)
	}

	limited, err := st.ListGenerationLogs(ctx, 1)
	if err != nil {
		t.Fatalf("list limited: %v", err)
	}
	if len(limited) != 1 {
		t.Fatalf("limit not applied: %d", len(limited))
	}
}
