package main

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ganot/docflow/internal/config"
	"github.com/ganot/docflow/internal/repository"
	"github.com/ganot/docflow/internal/sqlite"
)

func newAPIKeyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "apikey",
		Short: "Manage bearer tokens for the HTTP transport",
	}

	var tenantID, token, description string
	create := &cobra.Command{
		Use:   "create",
		Short: "Register a bearer token for a tenant and print it",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("config: %w", err)
			}
			db, err := openDB(cfg.DB.Path)
			if err != nil {
				return err
			}
			defer db.Close()

			if token == "" {
				token = uuid.NewString()
			}
			err = sqlite.NewAPIKeyRepository(db).Create(cmd.Context(), tenantID, token, description)
			if errors.Is(err, repository.ErrConflict) {
				return fmt.Errorf("token already registered")
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), token)
			return nil
		},
	}
	create.Flags().StringVar(&tenantID, "tenant", "", "tenant the token grants access to")
	create.Flags().StringVar(&token, "token", "", "token to register (generated when empty)")
	create.Flags().StringVar(&description, "description", "", "free-form note stored with the key")
	_ = create.MarkFlagRequired("tenant")

	cmd.AddCommand(create)
	return cmd
}
