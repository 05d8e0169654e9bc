// AngelaMos | 2026
// accounts_command.go

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/talentgrid/internal/core"
)

func newAccountsCommand(ctx *commandContext) *cobra.Command {
	accountsCmd := &cobra.Command{
		Use:   "accounts",
		Short: "Manage accounts",
	}
	accountsCmd.AddCommand(newCreateModeratorCommand(ctx))
	return accountsCmd
}

func newCreateModeratorCommand(ctx *commandContext) *cobra.Command {
	var email, password, firstName, lastName string

	cmd := &cobra.Command{
		Use:   "create-moderator",
		Short: "Create an approved moderator account",
		RunE: func(cmd *cobra.Command, args []string) error {
			email = strings.TrimSpace(email)
			if email == "" || !strings.Contains(email, "@") {
				return errors.New("--email must be a valid address")
			}
			if err := core.ValidatePassword(password); err != nil {
				return fmt.Errorf("--password: %w", err)
			}

			hash, err := core.HashPassword(password)
			if err != nil {
				return err
			}

			svcs, err := ctx.services(cmd.Context())
			if err != nil {
				return err
			}

			a, err := svcs.Accounts.CreateModerator(cmd.Context(), email, hash, firstName, lastName)
			if err != nil {
				if errors.Is(err, core.ErrDuplicateKey) {
					return fmt.Errorf("an account with email %s already exists", email)
				}
				return err
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Created moderator %s (%s)\n", a.Email, a.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&email, "email", "", "Login email")
	cmd.Flags().StringVar(&password, "password", "", "Initial password")
	cmd.Flags().StringVar(&firstName, "first-name", "", "First name")
	cmd.Flags().StringVar(&lastName, "last-name", "", "Last name")
	_ = cmd.MarkFlagRequired("email")
	_ = cmd.MarkFlagRequired("password")
	return cmd
}
