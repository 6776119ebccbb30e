package api

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/xuri/excelize/v2"

	"sumerplus/internal/generator"
	"sumerplus/internal/store"
)

func newTestRouter(t *testing.T, batch generator.BatchOptions) (*gin.Engine, *Handler, *store.Store) {
	t.Helper()
	gin.SetMode(gin.TestMode)

	st, err := store.New(filepath.Join(t.TempDir(), "sumerplus.db"))
	if err != nil {
		t.Fatalf("init store: %v", err)
	}
	t.Cleanup(func() { _ = st.Close() })

	gen := generator.New(generator.WithClock(func() time.Time {
		return time.Date(2025, 12, 3, 0, 0, 0, 0, time.UTC)
	}))
	h := NewHandler(st, gen, batch, nil)
	r := gin.New()
	r.Use(h.Metrics().Middleware())
	h.RegisterRoutes(r.Group("/api"))
	r.GET("/metrics", h.Metrics().Handler())
	return r, h, st
}

// weekWorkbook 一台车两条运单的周表
func weekWorkbook(t *testing.T) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := "Week 11.17.25-11.23.25"
	_ = f.SetSheetName("Sheet1", sheet)
	rows := [][]interface{}{
		{"c1", "c2", "c3", "c4", "c5", "c6", "c7", "c8", "c9"},
		{"Week", "Truck", "Driver/Carrier", "PU date", "Load Number", "Pickup location", "Delivery location", "Gross", "Total miles"},
		{"11.17.25-11.23.25", 101, "Smith Trucking", "11/17/2025", "L-1", "Dallas, TX", "Austin, TX", 6000, 1200},
		{"", 101, "", "11/18/2025", "L-2", "Austin, TX", "Dallas, TX", 4000, 800},
	}
	for i, r := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(sheet, cell, &r); err != nil {
			t.Fatalf("set row: %v", err)
		}
	}
	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	return buf.Bytes()
}

func doJSON(r http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	var payload []byte
	if body != nil {
		payload, _ = json.Marshal(body)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var out map[string]any
	if err := json.Unmarshal(w.Body.Bytes(), &out); err != nil {
		t.Fatalf("decode response: %v body=%s", err, w.Body.String())
	}
	return out
}

func TestHealth(t *testing.T) {
	r, _, _ := newTestRouter(t, generator.BatchOptions{})
	w := doJSON(r, http.MethodGet, "/api/health", nil)
	if w.Code != http.StatusOK || decode(t, w)["ok"] != true {
		t.Fatalf("unexpected health response: %d %s", w.Code, w.Body.String())
	}
}

func TestStatements_MissingWorkbook(t *testing.T) {
	r, _, _ := newTestRouter(t, generator.BatchOptions{})

	w := doJSON(r, http.MethodPost, "/api/statements", map[string]any{})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("unexpected status: %d", w.Code)
	}
	body := decode(t, w)
	if body["ok"] != false || body["error"] != "excel_base64 required" {
		t.Fatalf("unexpected body: %v", body)
	}

	w = doJSON(r, http.MethodPost, "/api/statements", map[string]any{"terms_excel_base64": "AAAA"})
	if w.Code != http.StatusBadRequest || decode(t, w)["error"] != "loads_excel_base64 required" {
		t.Fatalf("two-workbook request without loads: %d %s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodPost, "/api/statements", map[string]any{"excel_base64": "%%%"})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("bad base64 should be 400, got %d", w.Code)
	}
}

func TestStatements_Sheets(t *testing.T) {
	r, _, _ := newTestRouter(t, generator.BatchOptions{})

	encoded := "data:application/vnd.openxmlformats-officedocument.spreadsheetml.sheet;base64," +
		base64.StdEncoding.EncodeToString(weekWorkbook(t))
	w := doJSON(r, http.MethodPost, "/api/statements", map[string]any{"action": "sheets", "excel_base64": encoded})
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	sheets, _ := decode(t, w)["sheets"].([]any)
	if len(sheets) != 1 || sheets[0] != "Week 11.17.25-11.23.25" {
		t.Fatalf("unexpected sheets: %v", sheets)
	}

	w = doJSON(r, http.MethodPost, "/api/statements", map[string]any{
		"action":       "sheets",
		"excel_base64": base64.StdEncoding.EncodeToString([]byte("junk")),
	})
	if w.Code != http.StatusOK {
		t.Fatalf("unreadable workbook should still list: %d", w.Code)
	}
	if sheets, _ := decode(t, w)["sheets"].([]any); sheets == nil || len(sheets) != 0 {
		t.Fatalf("expected empty sheet list, got %v", sheets)
	}
}

func TestStatements_Generate(t *testing.T) {
	r, _, st := newTestRouter(t, generator.BatchOptions{})

	w := doJSON(r, http.MethodPost, "/api/statements", map[string]any{
		"excel_base64": base64.StdEncoding.EncodeToString(weekWorkbook(t)),
		"driver_configs": map[string]any{
			"101.0": map[string]any{"driver_name": "Dan", "rate_per_mile": 0.7},
		},
	})
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	body := decode(t, w)
	if body["work_period"] != "11/17/2025 - 11/23/2025" || body["trucks"] != float64(1) {
		t.Fatalf("unexpected body: %v", body)
	}
	files, _ := body["files"].([]any)
	if len(files) != 2 {
		t.Fatalf("expected 2 files, got %d", len(files))
	}
	first := files[0].(map[string]any)
	if first["name"] != "OWNER_Smith_Trucking_101_11_17_2025_to_11_23_2025.pdf" {
		t.Fatalf("unexpected name: %v", first["name"])
	}
	pdf, err := base64.StdEncoding.DecodeString(first["pdf_base64"].(string))
	if err != nil || !bytes.HasPrefix(pdf, []byte("%PDF")) {
		t.Fatalf("pdf payload invalid: %v", err)
	}

	logs, err := st.ListGenerationLogs(context.Background(), 10)
	if err != nil {
		t.Fatalf("list logs: %v", err)
	}
	if len(logs) != 1 || logs[0].Status != store.StatusSuccess || logs[0].BatchID != body["batch_id"] || logs[0].FileCount != 2 {
		t.Fatalf("unexpected generation log: %+v", logs)
	}

	w = doJSON(r, http.MethodGet, "/metrics", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("metrics status: %d", w.Code)
	}
	text := w.Body.String()
	for _, want := range []string{
		`sumerplus_generation_batches_total{flow="single",status="success"} 1`,
		`sumerplus_statements_generated_total{audience="driver"} 1`,
		`sumerplus_trucks_settled_total 1`,
	} {
		if !strings.Contains(text, want) {
			t.Fatalf("metrics missing %q", want)
		}
	}
}

func TestRunStatements(t *testing.T) {
	dir := t.TempDir()
	input := filepath.Join(dir, "loads_data.xlsx")
	if err := os.WriteFile(input, weekWorkbook(t), 0644); err != nil {
		t.Fatalf("write input: %v", err)
	}
	r, _, _ := newTestRouter(t, generator.BatchOptions{InputPath: input, OutputDir: filepath.Join(dir, "statements")})

	w := doJSON(r, http.MethodGet, "/api/run-statements", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("unexpected status: %d body=%s", w.Code, w.Body.String())
	}
	generated, _ := decode(t, w)["generated"].([]any)
	if len(generated) != 2 {
		t.Fatalf("expected 2 generated files, got %v", generated)
	}

	r, _, _ = newTestRouter(t, generator.BatchOptions{InputPath: filepath.Join(dir, "missing.xlsx"), OutputDir: dir})
	w = doJSON(r, http.MethodGet, "/api/run-statements", nil)
	if w.Code != http.StatusInternalServerError {
		t.Fatalf("missing input should be 500, got %d", w.Code)
	}
	if body := decode(t, w); body["ok"] != false || body["trace"] == nil {
		t.Fatalf("expected error with trace: %v", body)
	}
}
