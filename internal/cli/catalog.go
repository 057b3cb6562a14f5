package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/syncagent"
	"github.com/osse101/posrelay/internal/validation"
)

// NewCatalogCommand creates the catalog command group
func NewCatalogCommand(rootOpts *RootOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "catalog",
		Short: "Inspect or replace a catalog on the relay",
	}
	cmd.AddCommand(newCatalogPushCommand(rootOpts))
	return cmd
}

func newCatalogPushCommand(_ *RootOptions) *cobra.Command {
	opts := &AgentOptions{}

	cmd := &cobra.Command{
		Use:   "push <file>",
		Short: "Upload a catalog file (YAML or JSON) as master or admin",
		Long: `Read a list of categories from a YAML or JSON file, validate it, and save it
for --store (or the global catalog). The write is conditioned on the version the
relay currently holds, so a concurrent edit fails with a conflict.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.Password == "" {
				return errors.New("--password is required")
			}
			categories, err := readCatalogFile(args[0])
			if err != nil {
				return err
			}

			dir, err := os.MkdirTemp("", "posctl-push-*")
			if err != nil {
				return err
			}
			defer os.RemoveAll(dir)
			opts.CachePath = filepath.Join(dir, "agent.db")

			version, err := pushCatalog(cmd.Context(), opts, categories)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Catalog saved: version %d (%d categories)\n", version, len(categories))
			return nil
		},
	}
	opts.bind(cmd)
	_ = cmd.Flags().MarkHidden("cache")

	return cmd
}

func readCatalogFile(path string) (domain.Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	v, err := validation.NewCatalogValidator()
	if err != nil {
		return nil, err
	}
	if err := v.ValidateYAML(data); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	var categories domain.Catalog
	// JSON is a subset of YAML
	if err := yaml.Unmarshal(data, &categories); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if err := categories.Validate(); err != nil {
		return nil, err
	}
	return categories, nil
}

func pushCatalog(ctx context.Context, opts *AgentOptions, categories domain.Catalog) (int64, error) {
	settled := make(chan syncagent.State, 4)
	agent, err := syncagent.New(syncagent.Config{
		ServerURL:   opts.Server,
		StoreID:     opts.StoreID,
		CachePath:   opts.CachePath,
		LoadTimeout: opts.Timeout,
		OnStateChange: func(s syncagent.State) {
			if s != syncagent.StateLoading {
				select {
				case settled <- s:
				default:
				}
			}
		},
	})
	if err != nil {
		return 0, err
	}
	defer agent.Close()

	agent.Start(ctx)
	select {
	case s := <-settled:
		if s != syncagent.StateReady {
			return 0, fmt.Errorf("relay at %s not reachable (state %s)", opts.Server, s)
		}
	case <-ctx.Done():
		return 0, ctx.Err()
	}

	if _, err := agent.Login(ctx, opts.Password); err != nil {
		return 0, fmt.Errorf("login: %w", err)
	}
	return agent.SaveCatalog(ctx, categories)
}
