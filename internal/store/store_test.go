package store

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"sumerplus/internal/model"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := New(filepath.Join(t.TempDir(), "nested", "sumerplus.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })
	return st
}

func TestDriverConfig_UpsertGetList(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	ctx := context.Background()

	if err := st.UpsertDriverConfig(ctx, model.DriverConfig{UnitNumber: 101, DriverName: " Dan ", RatePerMile: 0.7, Company: "Dan LLC"}); err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if err := st.UpsertDriverConfig(ctx, model.DriverConfig{UnitNumber: 7, DriverName: "Bob", RatePerMile: 0.6}); err != nil {
		t.Fatalf("upsert: %v", err)
	}

	got, err := st.GetDriverConfig(ctx, 101)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.DriverName != "Dan" || got.Company != "Dan LLC" || got.DriverEmail != "" || got.RatePerMile != 0.7 {
		t.Fatalf("unexpected config: %+v", got)
	}

	// 同一车号再次保存为更新
	if err := st.UpsertDriverConfig(ctx, model.DriverConfig{UnitNumber: 101, DriverName: "Dan", RatePerMile: 0.75, DriverEmail: "dan@example.com"}); err != nil {
		t.Fatalf("update: %v", err)
	}
	got, err = st.GetDriverConfig(ctx, 101)
	if err != nil {
		t.Fatalf("get after update: %v", err)
	}
	if got.RatePerMile != 0.75 || got.DriverEmail != "dan@example.com" || got.Company != "" {
		t.Fatalf("update not applied: %+v", got)
	}

	terms, err := st.ListDriverConfigs(ctx)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(terms) != 2 {
		t.Fatalf("expected 2 configs, got %d", len(terms))
	}
	dan, ok := terms["101"]
	if !ok || dan.RatePerMile == nil || *dan.RatePerMile != 0.75 || dan.Email != "dan@example.com" {
		t.Fatalf("terms for 101: %+v", dan)
	}
	if _, ok := terms["7"]; !ok {
		t.Fatalf("terms should be keyed by unit number string: %v", terms)
	}
}

func TestDriverConfig_NotFound(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	if _, err := st.GetDriverConfig(context.Background(), 42); !errors.Is(err, ErrDriverConfigNotFound) {
		t.Fatalf("expected ErrDriverConfigNotFound, got %v", err)
	}
	if terms := st.DriverTermsOrEmpty(context.Background()); terms == nil || len(terms) != 0 {
		t.Fatalf("expected empty terms, got %v", terms)
	}
}

func TestValidateDriverConfig(t *testing.T) {
	t.Parallel()

	cases := []model.DriverConfig{
		{UnitNumber: 0, DriverName: "A", RatePerMile: 0.5},
		{UnitNumber: -3, DriverName: "A", RatePerMile: 0.5},
		{UnitNumber: 1, DriverName: "  ", RatePerMile: 0.5},
		{UnitNumber: 1, DriverName: "A", RatePerMile: 0},
	}
	st := newTestStore(t)
	for i, c := range cases {
		if err := ValidateDriverConfig(c); !errors.Is(err, ErrInvalidDriverConfig) {
			t.Fatalf("case %d: expected ErrInvalidDriverConfig, got %v", i, err)
		}
		if err := st.UpsertDriverConfig(context.Background(), c); !errors.Is(err, ErrInvalidDriverConfig) {
			t.Fatalf("case %d: upsert should reject, got %v", i, err)
		}
	}
	if err := ValidateDriverConfig(model.DriverConfig{UnitNumber: 1, DriverName: "A", RatePerMile: 0.5}); err != nil {
		t.Fatalf("valid config rejected: %v", err)
	}
}

func TestDriverTermsOrEmpty_ClosedStore(t *testing.T) {
	t.Parallel()

	st := newTestStore(t)
	_ = st.Close()
	if terms := st.DriverTermsOrEmpty(context.Background()); terms == nil || len(terms) != 0 {
		t.Fatalf("closed store should degrade to empty terms, got %v", terms)
	}
}

func TestNew_SchemaVersionAndReopen(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "sumerplus.db")
	st, err := New(path)
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	if v, err := st.SchemaVersion(); err != nil || v != schemaVersion {
		t.Fatalf("schema version = %d, %v", v, err)
	}
	if err := st.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}

	// schema 幂等，重复打开不报错
	again, err := New(path)
	if err != nil {
		t.Fatalf("reopen store: %v", err)
	}
	_ = again.Close()
}

func TestNew_Failures(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "blocker")
	if err := os.WriteFile(blocker, []byte("x"), 0644); err != nil {
		t.Fatalf("write blocker: %v", err)
	}
	if _, err := New(filepath.Join(blocker, "sumerplus.db")); err == nil {
		t.Fatalf("expected error when data dir is a regular file")
	}

	// 路径本身是目录：连接或建表失败
	if _, err := New(dir); err == nil {
		t.Fatalf("expected error when database path is a directory")
	}
}
