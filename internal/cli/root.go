// Package cli implements the posctl operator commands
package cli

import (
	"fmt"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// RootOptions holds global flags for all commands
type RootOptions struct {
	// EnvFile is loaded before the environment is read. Variables already
	// set in the process win.
	EnvFile string
}

// NewRootCommand creates the posctl root command
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "posctl",
		Short: "posctl - operate the posrelay catalog relay",
		Long: `posctl runs and maintains a posrelay server: serve the relay, apply
database migrations, set operator passwords, and run a headless register agent.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if opts.EnvFile == "" {
				return nil
			}
			if err := godotenv.Load(opts.EnvFile); err != nil {
				return fmt.Errorf("load %s: %w", opts.EnvFile, err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&opts.EnvFile, "env-file", "", "dotenv file to load before reading configuration")

	cmd.AddCommand(NewServeCommand(opts))
	cmd.AddCommand(NewMigrateCommand(opts))
	cmd.AddCommand(NewSetAuthCommand(opts))
	cmd.AddCommand(NewHashCommand())
	cmd.AddCommand(NewAgentCommand(opts))
	cmd.AddCommand(NewCatalogCommand(opts))

	return cmd
}
