// AngelaMos | 2026
// keys_command.go

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/carterperez-dev/talentgrid/internal/auth"
)

func newKeysCommand() *cobra.Command {
	keysCmd := &cobra.Command{
		Use:   "keys",
		Short: "Manage the session signing keys",
	}

	var privatePath, publicPath string
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Write a new ES256 key pair",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := auth.GenerateKeyPair(privatePath, publicPath); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s and %s\n", privatePath, publicPath)
			return nil
		},
	}
	generate.Flags().StringVar(&privatePath, "private", "keys/private.pem", "Private key output path")
	generate.Flags().StringVar(&publicPath, "public", "keys/public.pem", "Public key output path")

	keysCmd.AddCommand(generate)
	return keysCmd
}
