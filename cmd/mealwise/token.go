package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dukerupert/mealwise/internal/auth"
	"github.com/dukerupert/mealwise/internal/database"
	"github.com/dukerupert/mealwise/internal/store"
)

func tokenCommand(opts *options) *cobra.Command {
	var email string
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint an API token for an existing user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			if len(cfg.JWTSecret) < 32 {
				return errors.New("MEALWISE_JWT_SECRET must be at least 32 characters")
			}

			db, err := database.Open(cfg.DBPath)
			if err != nil {
				return err
			}
			defer db.Close()

			u, err := store.NewUserStore(db).GetByEmail(cmd.Context(), email)
			if err != nil {
				return err
			}
			if u == nil {
				return fmt.Errorf("no user with email %q", email)
			}

			token, expires, err := auth.NewTokenManager(cfg.JWTSecret, cfg.TokenTTL).Issue(u.ID, u.Email)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			fmt.Fprintf(cmd.ErrOrStderr(), "expires %s\n", expires.Format("2006-01-02 15:04 MST"))
			return nil
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "user email")
	cmd.MarkFlagRequired("email")
	return cmd
}
