package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sumerplus/internal/generator"
	"sumerplus/internal/parser"
)

func sheetsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "sheets <workbook>",
		Short: "List the sheets of a workbook and the one that would be used",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			data, err := os.ReadFile(args[0])
			if err != nil {
				return fmt.Errorf("read workbook: %w", err)
			}
			names := generator.ListSheetNames(data)
			if len(names) == 0 {
				return fmt.Errorf("%s: %w", args[0], parser.ErrUnreadableWorkbook)
			}
			selected := parser.ResolveSheet(names, "")
			for _, n := range names {
				marker := " "
				if n == selected {
					marker = "*"
				}
				fmt.Printf("%s %s\n", marker, n)
			}
			return nil
		},
	}
}
