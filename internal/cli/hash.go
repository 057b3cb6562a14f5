package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/osse101/posrelay/internal/auth"
)

// NewHashCommand creates the hash command
func NewHashCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "hash <password>",
		Short: "Print the SHA-256 reference hash of a password",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			_, err := fmt.Fprintln(cmd.OutOrStdout(), auth.HashPassword(args[0]))
			return err
		},
	}
}
