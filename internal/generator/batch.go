package generator

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"sumerplus/internal/exporter"
	"sumerplus/internal/model"
)

// BatchOptions 本地批处理参数
type BatchOptions struct {
	InputPath     string
	OutputDir     string
	SheetOverride string
	Summary       bool // 同时写出结算汇总工作簿
}

// BatchResult 本地批处理结果
type BatchResult struct {
	*Result
	Generated []string `json:"generated"` // 写入输出目录的文件名
}

// RunLocal 读取本地工作簿，按单表流程生成并写入输出目录（目录不存在时创建）
func (g *Generator) RunLocal(ctx context.Context, opts BatchOptions, terms map[string]model.DriverTerms, progress func(exporter.ProgressEvent)) (*BatchResult, error) {
	data, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("read input workbook: %w", err)
	}

	res, err := g.GenerateFromSingleWorkbook(ctx, data, SingleOptions{
		SheetOverride: opts.SheetOverride,
		DriverTerms:   terms,
		Progress:      progress,
	})
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(opts.OutputDir, 0755); err != nil {
		return nil, fmt.Errorf("create output dir: %w", err)
	}

	out := &BatchResult{Result: res}
	for _, f := range res.Files {
		if err := os.WriteFile(filepath.Join(opts.OutputDir, f.Name), f.Content, 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", f.Name, err)
		}
		out.Generated = append(out.Generated, f.Name)
	}

	if opts.Summary {
		content, err := exporter.WriteSummary(res.Period, res.Summary, nil)
		if err != nil {
			return nil, err
		}
		name := exporter.SummaryFileName(res.Period)
		if err := os.WriteFile(filepath.Join(opts.OutputDir, name), content, 0644); err != nil {
			return nil, fmt.Errorf("write %s: %w", name, err)
		}
		out.Generated = append(out.Generated, name)
	}

	log.Printf("[generator] batch %s: wrote %d files to %s", res.BatchID, len(out.Generated), opts.OutputDir)
	return out, nil
}
