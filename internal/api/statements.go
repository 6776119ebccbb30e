package api

import (
	"encoding/base64"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"sumerplus/internal/generator"
	"sumerplus/internal/model"
	"sumerplus/internal/parser"
)

// StatementsRequest 结算单请求
type StatementsRequest struct {
	Action        string                       `json:"action"` // "sheets" 只列出 sheet 名
	ExcelBase64   string                       `json:"excel_base64"`
	Sheet         string                       `json:"sheet"`
	DriverConfigs map[string]model.DriverTerms `json:"driver_configs"`

	// 双表流程
	LoadsExcelBase64 string   `json:"loads_excel_base64"`
	LoadsSheet       string   `json:"loads_sheet"`
	TermsExcelBase64 string   `json:"terms_excel_base64"`
	DriversSheet     string   `json:"drivers_sheet"`
	OwnersSheet      string   `json:"owners_sheet"`
	OwnerPercentage  *float64 `json:"owner_percentage"`
}

// IsTwoWorkbook 是否为双表请求
func (r StatementsRequest) IsTwoWorkbook() bool {
	return r.LoadsExcelBase64 != "" || r.TermsExcelBase64 != ""
}

// FilePayload 响应中的单个文件
type FilePayload struct {
	Name      string `json:"name"`
	PDFBase64 string `json:"pdf_base64"`
}

// Statements 列出 sheet 或生成结算单
// POST /api/statements
func (h *Handler) Statements(c *gin.Context) {
	var req StatementsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("invalid request body: %w", err))
		return
	}

	if req.Action == "sheets" {
		h.listSheets(c, req)
		return
	}

	ctx := c.Request.Context()
	var (
		res *generator.Result
		err error
	)
	if req.IsTwoWorkbook() {
		if req.LoadsExcelBase64 == "" {
			fail(c, http.StatusBadRequest, errors.New("loads_excel_base64 required"))
			return
		}
		loads, decErr := decodeWorkbook(req.LoadsExcelBase64)
		if decErr != nil {
			fail(c, http.StatusBadRequest, fmt.Errorf("loads_excel_base64: %w", decErr))
			return
		}
		var terms []byte
		if req.TermsExcelBase64 != "" {
			if terms, decErr = decodeWorkbook(req.TermsExcelBase64); decErr != nil {
				fail(c, http.StatusBadRequest, fmt.Errorf("terms_excel_base64: %w", decErr))
				return
			}
		}
		res, err = h.track(ctx, generator.FlowTwo, "upload", func() (*generator.Result, error) {
			return h.gen.GenerateFromTwoWorkbooks(ctx, loads, terms, generator.TwoOptions{
				LoadsSheet:      req.LoadsSheet,
				DriversSheet:    req.DriversSheet,
				OwnersSheet:     req.OwnersSheet,
				OwnerPercentage: req.OwnerPercentage,
			})
		})
	} else {
		if req.ExcelBase64 == "" {
			fail(c, http.StatusBadRequest, errors.New("excel_base64 required"))
			return
		}
		data, decErr := decodeWorkbook(req.ExcelBase64)
		if decErr != nil {
			fail(c, http.StatusBadRequest, fmt.Errorf("excel_base64: %w", decErr))
			return
		}
		terms := normalizeDriverConfigs(req.DriverConfigs)
		if terms == nil && h.store != nil {
			terms = h.store.DriverTermsOrEmpty(ctx)
		}
		res, err = h.track(ctx, generator.FlowSingle, "upload", func() (*generator.Result, error) {
			return h.gen.GenerateFromSingleWorkbook(ctx, data, generator.SingleOptions{
				SheetOverride: req.Sheet,
				DriverTerms:   terms,
			})
		})
	}

	if err != nil {
		if errors.Is(err, generator.ErrNoWorkbook) {
			fail(c, http.StatusBadRequest, err)
			return
		}
		fail(c, http.StatusInternalServerError, err)
		return
	}

	files := make([]FilePayload, 0, len(res.Files))
	for _, f := range res.Files {
		files = append(files, FilePayload{
			Name:      f.Name,
			PDFBase64: base64.StdEncoding.EncodeToString(f.Content),
		})
	}
	c.JSON(http.StatusOK, gin.H{
		"ok":          true,
		"files":       files,
		"period":      res.PeriodLabel,
		"work_period": res.Period.Display(),
		"trucks":      res.Trucks,
		"batch_id":    res.BatchID,
	})
}

func (h *Handler) listSheets(c *gin.Context, req StatementsRequest) {
	encoded := req.ExcelBase64
	if encoded == "" {
		encoded = req.LoadsExcelBase64
	}
	if encoded == "" {
		fail(c, http.StatusBadRequest, errors.New("excel_base64 required"))
		return
	}
	data, err := decodeWorkbook(encoded)
	if err != nil {
		fail(c, http.StatusBadRequest, fmt.Errorf("excel_base64: %w", err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "sheets": generator.ListSheetNames(data)})
}

// RunStatements 按配置的输入文件执行本地批处理
// GET /api/run-statements
func (h *Handler) RunStatements(c *gin.Context) {
	ctx := c.Request.Context()

	var terms map[string]model.DriverTerms
	if h.store != nil {
		terms = h.store.DriverTermsOrEmpty(ctx)
	}

	var batch *generator.BatchResult
	_, err := h.track(ctx, generator.FlowSingle, h.batch.InputPath, func() (*generator.Result, error) {
		var err error
		batch, err = h.gen.RunLocal(ctx, h.batch, terms, nil)
		if err != nil {
			return nil, err
		}
		return batch.Result, nil
	})
	if err != nil {
		fail(c, http.StatusInternalServerError, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"ok": true, "generated": batch.Generated})
}

// decodeWorkbook 解码 base64，兼容 data URL 前缀
func decodeWorkbook(encoded string) ([]byte, error) {
	encoded = strings.TrimSpace(encoded)
	if strings.HasPrefix(encoded, "data:") {
		if i := strings.Index(encoded, ","); i >= 0 {
			encoded = encoded[i+1:]
		}
	}
	data, err := base64.StdEncoding.DecodeString(encoded)
	if err != nil {
		return nil, fmt.Errorf("invalid base64: %w", err)
	}
	return data, nil
}

// normalizeDriverConfigs 车号键规范化；nil 表示请求未携带
func normalizeDriverConfigs(in map[string]model.DriverTerms) map[string]model.DriverTerms {
	if in == nil {
		return nil
	}
	out := make(map[string]model.DriverTerms, len(in))
	for k, v := range in {
		if key := parser.NormalizeTruckIDLenient(k); key != "" {
			out[key] = v
		}
	}
	return out
}
