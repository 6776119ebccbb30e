package config

import (
	"os"
	"path/filepath"
	"testing"

	"sumerplus/internal/calculator"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	if err := os.WriteFile(path, []byte(body), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigFrom_Missing(t *testing.T) {
	cfg, info, err := LoadConfigFrom(filepath.Join(t.TempDir(), "nope.toml"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if info.Found || info.PortSpecified {
		t.Fatalf("unexpected info: %+v", info)
	}
	if cfg.Server.Port != 20262 || cfg.Pay.OwnerPercentage != 0.88 || len(cfg.Pay.Deductions) != 3 {
		t.Fatalf("expected defaults, got %+v", cfg)
	}
}

func TestLoadConfigFrom_File(t *testing.T) {
	path := writeConfig(t, `
[server]
port = 9000

[data]
output_dir = "/tmp/out"

[pay]
owner_percentage = 0.9
company_title = "ACME HAULING"

[[pay.deductions]]
name = "ELD (weekly)"
amount = 100.0
`)
	cfg, info, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !info.Found || !info.PortSpecified {
		t.Fatalf("unexpected info: %+v", info)
	}
	if cfg.Server.Port != 9000 || cfg.Data.OutputDir != "/tmp/out" || cfg.Data.InputExcel != "loads_data.xlsx" {
		t.Fatalf("unexpected config: %+v", cfg)
	}

	pay := cfg.Pay.Calculator()
	if pay.OwnerPercentage != 0.9 || pay.DriverRatePerMile != calculator.DefaultDriverRatePerMile {
		t.Fatalf("unexpected pay config: %+v", pay)
	}
	if len(pay.Deductions) != 1 || pay.Deductions[0].Amount != 100 {
		t.Fatalf("deductions should replace the default schedule: %+v", pay.Deductions)
	}
	if cfg.Pay.CompanyTitle != "ACME HAULING" {
		t.Fatalf("title = %q", cfg.Pay.CompanyTitle)
	}
}

func TestLoadConfigFrom_Invalid(t *testing.T) {
	if _, _, err := LoadConfigFrom(writeConfig(t, "[server\nport = ")); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestLoadConfigFrom_Env(t *testing.T) {
	t.Setenv("SUMERPLUS_INPUT_EXCEL", "/srv/loads.xlsx")
	t.Setenv("SUMERPLUS_OUTPUT_DIR", " /srv/out ")

	cfg, _, err := LoadConfigFrom(writeConfig(t, "[data]\ninput_excel = \"local.xlsx\"\n"))
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Data.InputExcel != "/srv/loads.xlsx" || cfg.Data.OutputDir != "/srv/out" {
		t.Fatalf("env overrides not applied: %+v", cfg.Data)
	}
}

func TestPayConfig_CalculatorFallbacks(t *testing.T) {
	pay := PayConfig{OwnerPercentage: 150, DriverRatePerMile: -1}.Calculator()
	if pay.OwnerPercentage != calculator.DefaultOwnerPercentage || pay.DriverRatePerMile != calculator.DefaultDriverRatePerMile {
		t.Fatalf("invalid values should fall back: %+v", pay)
	}
	if len(pay.Deductions) != 3 {
		t.Fatalf("nil deductions should use defaults: %+v", pay.Deductions)
	}
}

func TestPayConfig_CalculatorPercentNotation(t *testing.T) {
	if got := (PayConfig{OwnerPercentage: 88}).Calculator().OwnerPercentage; got != 0.88 {
		t.Fatalf("owner_percentage = 88 should mean 0.88, got %v", got)
	}
}

func TestSaveConfig_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	cfg := DefaultConfig()
	cfg.Server.Port = 8123
	if err := SaveConfig(cfg, path); err != nil {
		t.Fatalf("save: %v", err)
	}
	got, info, err := LoadConfigFrom(path)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if !info.PortSpecified || got.Server.Port != 8123 || len(got.Pay.Deductions) != 3 {
		t.Fatalf("round trip: %+v", got)
	}
}

func TestEnsureDataDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	cfg := DefaultConfig()
	cfg.Data.DataDir = dir
	got, err := EnsureDataDir(cfg)
	if err != nil || got != dir {
		t.Fatalf("EnsureDataDir = %q, %v", got, err)
	}
	if st, err := os.Stat(dir); err != nil || !st.IsDir() {
		t.Fatalf("data dir not created: %v", err)
	}
	if DatabasePath(dir) != filepath.Join(dir, "sumerplus.db") {
		t.Fatalf("database path = %q", DatabasePath(dir))
	}
}
