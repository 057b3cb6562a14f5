package cli

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/osse101/posrelay/internal/auth"
	"github.com/osse101/posrelay/internal/config"
	"github.com/osse101/posrelay/internal/domain"
)

// DefaultEnvFile is the dotenv file set-auth edits when --env-file is not given
const DefaultEnvFile = ".env"

// NewSetAuthCommand creates the set-auth command
func NewSetAuthCommand(rootOpts *RootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "set-auth <master|admin> <password>",
		Short: "Store the reference hash of an operator password in the env file",
		Long: `Hash the password with SHA-256 and write it as MASTER_HASH or ADMIN_HASH
into the env file (default .env). The file must exist. Restart the server to
apply the change.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := rootOpts.EnvFile
			if path == "" {
				path = DefaultEnvFile
			}
			key, err := hashKeyForRole(args[0])
			if err != nil {
				return err
			}
			if args[1] == "" {
				return errors.New("password must not be empty")
			}

			hash := auth.HashPassword(args[1])
			replaced, err := setEnvValue(path, key, hash)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if replaced {
				fmt.Fprintf(out, "Updated %s in %s\n", key, path)
			} else {
				fmt.Fprintf(out, "Added %s to %s\n", key, path)
			}
			fmt.Fprintf(out, "New hash: %s...\n", hash[:10])
			fmt.Fprintln(out, "Restart the server to apply the change.")
			return nil
		},
	}
}

func hashKeyForRole(role string) (string, error) {
	switch domain.Role(strings.ToLower(role)) {
	case domain.RoleMaster:
		return config.EnvMasterHash, nil
	case domain.RoleAdmin:
		return config.EnvAdminHash, nil
	default:
		return "", fmt.Errorf("unknown role %q: must be master or admin", role)
	}
}

// setEnvValue rewrites key in the dotenv file at path and reports whether
// the key was already present
func setEnvValue(path, key, value string) (bool, error) {
	if _, err := os.Stat(path); err != nil {
		return false, fmt.Errorf("env file %s: %w", path, err)
	}
	env, err := godotenv.Read(path)
	if err != nil {
		return false, fmt.Errorf("read %s: %w", path, err)
	}
	_, replaced := env[key]
	env[key] = value
	if err := godotenv.Write(env, path); err != nil {
		return false, fmt.Errorf("write %s: %w", path, err)
	}
	return replaced, nil
}
