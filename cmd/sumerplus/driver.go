package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"sumerplus/internal/model"
	"sumerplus/internal/store"
)

func driverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "driver",
		Short: "Manage per-truck driver configuration",
	}
	cmd.AddCommand(driverSetCmd())
	cmd.AddCommand(driverGetCmd())
	return cmd
}

func driverSetCmd() *cobra.Command {
	var cfgIn model.DriverConfig

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Create or update a driver configuration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			if err := st.UpsertDriverConfig(cmd.Context(), cfgIn); err != nil {
				return err
			}
			fmt.Printf("Saved driver config for unit %d\n", cfgIn.UnitNumber)
			return nil
		},
	}

	cmd.Flags().IntVar(&cfgIn.UnitNumber, "unit", 0, "truck unit number")
	cmd.Flags().StringVar(&cfgIn.DriverName, "name", "", "driver name")
	cmd.Flags().StringVar(&cfgIn.DriverEmail, "email", "", "driver email")
	cmd.Flags().StringVar(&cfgIn.Company, "company", "", "company shown on owner statements")
	cmd.Flags().Float64Var(&cfgIn.RatePerMile, "rate", 0, "driver pay per mile")
	_ = cmd.MarkFlagRequired("unit")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("rate")
	return cmd
}

func driverGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <unit>",
		Short: "Show the driver configuration for a unit",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			unit, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid unit %q", args[0])
			}

			st, err := openStore()
			if err != nil {
				return err
			}
			defer st.Close()

			got, err := st.GetDriverConfig(cmd.Context(), unit)
			if errors.Is(err, store.ErrDriverConfigNotFound) {
				fmt.Printf("No driver config for unit %d\n", unit)
				return nil
			}
			if err != nil {
				return err
			}

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(got)
		},
	}
}
