package main

import (
	"context"
	"fmt"
	"log"

	"github.com/spf13/cobra"

	"sumerplus/internal/exporter"
	"sumerplus/internal/generator"
	"sumerplus/internal/model"
	"sumerplus/internal/store"
	"sumerplus/internal/util"
)

func generateCmd() *cobra.Command {
	var (
		input   string
		output  string
		sheet   string
		summary bool
		verbose bool
		open    bool
	)

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Generate owner and driver statements from a local workbook",
		RunE: func(cmd *cobra.Command, _ []string) error {
			opts := generator.BatchOptions{
				InputPath:     cfg.Data.InputExcel,
				OutputDir:     cfg.Data.OutputDir,
				SheetOverride: sheet,
				Summary:       summary,
			}
			if input != "" {
				opts.InputPath = input
			}
			if output != "" {
				opts.OutputDir = output
			}

			ctx := cmd.Context()
			terms, st := loadDriverTerms(ctx)
			if st != nil {
				defer st.Close()
			}

			var progress func(exporter.ProgressEvent)
			if verbose {
				progress = func(e exporter.ProgressEvent) {
					if e.TruckID != "" {
						fmt.Printf("[%3d%%] %s truck %s\n", e.Percent, e.Stage, e.TruckID)
						return
					}
					fmt.Printf("[%3d%%] %s\n", e.Percent, e.Stage)
				}
			}

			var logID int64
			if st != nil {
				if id, err := st.CreateGenerationLog(ctx, generator.FlowSingle, opts.InputPath); err == nil {
					logID = id
				}
			}

			res, err := newGenerator().RunLocal(ctx, opts, terms, progress)
			if logID > 0 {
				completeLog(ctx, st, logID, res, err)
			}
			if err != nil {
				return err
			}

			fmt.Printf("Work period: %s (%d trucks)\n", res.Period.Display(), res.Trucks)
			if res.Period.Fallback {
				fmt.Println("Period label could not be parsed; used the current week.")
			}
			for _, name := range res.Generated {
				fmt.Println("  " + name)
			}

			if open {
				if err := util.OpenPathWithFallback(opts.OutputDir); err != nil {
					fmt.Printf("无法打开输出目录，请手动查看: %s\n", opts.OutputDir)
				}
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&input, "input", "i", "", "input workbook (default: data.input_excel)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output directory (default: data.output_dir)")
	cmd.Flags().StringVarP(&sheet, "sheet", "s", "", "sheet to read (default: latest \"Week \" sheet)")
	cmd.Flags().BoolVar(&summary, "summary", true, "also write a settlement summary workbook")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "print progress")
	cmd.Flags().BoolVar(&open, "open", false, "open the output directory when done")
	return cmd
}

// loadDriverTerms 读取司机配置；数据库不可用时返回空表
func loadDriverTerms(ctx context.Context) (map[string]model.DriverTerms, *store.Store) {
	st, err := openStore()
	if err != nil {
		log.Printf("driver configs unavailable: %v", err)
		return map[string]model.DriverTerms{}, nil
	}
	return st.DriverTermsOrEmpty(ctx), st
}

func completeLog(ctx context.Context, st *store.Store, id int64, res *generator.BatchResult, runErr error) {
	status, msg := store.StatusSuccess, ""
	batchID, sheet, label := "", "", ""
	trucks, files := 0, 0
	if runErr != nil {
		status, msg = store.StatusFailed, runErr.Error()
	}
	if res != nil {
		batchID, sheet, label = res.BatchID, res.Sheet, res.PeriodLabel
		trucks, files = res.Trucks, len(res.Generated)
	}
	if err := st.CompleteGenerationLog(ctx, id, batchID, sheet, label, trucks, files, status, msg); err != nil {
		log.Printf("%v", err)
	}
}
