package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/dukerupert/mealwise/internal/database"
	"github.com/dukerupert/mealwise/internal/seed"
)

func seedCommand(opts *options) *cobra.Command {
	return &cobra.Command{
		Use:   "seed <fixture.yaml>",
		Short: "Load households, groups, meals and meal plans from a YAML fixture",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}

			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()
			fixture, err := seed.Parse(f)
			if err != nil {
				return err
			}

			db, err := database.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			sum, err := seed.NewLoader(db, slog.Default()).Load(cmd.Context(), fixture)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "loaded %d users, %d households, %d groups, %d meals, %d plans (%d entries)\n",
				sum.Users, sum.Households, sum.Groups, sum.Meals, sum.Plans, sum.Entries)
			return nil
		},
	}
}
