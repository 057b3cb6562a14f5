package cli

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/posrelay/internal/domain"
	"github.com/osse101/posrelay/internal/syncagent"
)

// AgentOptions are the flags shared by commands that act as a register
type AgentOptions struct {
	Server    string
	StoreID   string
	CachePath string
	Password  string
	Timeout   time.Duration
}

func (o *AgentOptions) bind(cmd *cobra.Command) {
	cmd.Flags().StringVar(&o.Server, "server", "http://localhost:3001", "relay server base URL")
	cmd.Flags().StringVar(&o.StoreID, "store", "", "store id (empty for the global catalog)")
	cmd.Flags().StringVar(&o.CachePath, "cache", "posctl-agent.db", "local cache file")
	cmd.Flags().StringVar(&o.Password, "password", "", "operator password to log in with")
	cmd.Flags().DurationVar(&o.Timeout, "timeout", syncagent.DefaultLoadTimeout, "initial load timeout")
}

// NewAgentCommand creates the agent command
func NewAgentCommand(_ *RootOptions) *cobra.Command {
	opts := &AgentOptions{}

	cmd := &cobra.Command{
		Use:   "agent",
		Short: "Run a headless register agent",
		Long: `Connect to the relay as a register: load the catalog, follow config_updated
broadcasts, push pending offline tickets, and answer request_master when logged
in as master. Runs until interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signalContext(cmd.Context())
			defer stop()
			return runAgent(ctx, opts, cmd.OutOrStdout())
		},
	}
	opts.bind(cmd)

	return cmd
}

func runAgent(ctx context.Context, opts *AgentOptions, out io.Writer) error {
	var mu sync.Mutex
	printf := func(format string, args ...any) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(out, format, args...)
	}

	states := make(chan syncagent.State, 8)
	agent, err := syncagent.New(syncagent.Config{
		ServerURL:   opts.Server,
		StoreID:     opts.StoreID,
		CachePath:   opts.CachePath,
		LoadTimeout: opts.Timeout,
		OnStateChange: func(s syncagent.State) {
			printf("state: %s\n", s)
			select {
			case states <- s:
			default:
			}
		},
		OnNewData: func(tickets []domain.ClosedTicket) {
			printf("new_data: %d ticket(s)\n", len(tickets))
		},
	})
	if err != nil {
		return err
	}
	defer agent.Close()

	agent.Start(ctx)

	if opts.Password != "" {
		role, err := agent.Login(ctx, opts.Password)
		if err != nil {
			return fmt.Errorf("login: %w", err)
		}
		printf("logged in as %s\n", role)
	}

	for {
		select {
		case <-ctx.Done():
			return nil
		case s := <-states:
			switch s {
			case syncagent.StateError:
				printf("no catalog available; retrying in %s\n", syncagent.DefaultReconnectDelay)
				go func() {
					select {
					case <-time.After(syncagent.DefaultReconnectDelay):
						_ = agent.Retry(ctx)
					case <-ctx.Done():
					}
				}()
			case syncagent.StateReady:
				if res, err := agent.SyncPending(ctx); err != nil {
					printf("sync pending: %v\n", err)
				} else if res.Received > 0 {
					printf("synced %d/%d pending ticket(s)\n", res.Stored, res.Received)
				}
				_, version := agent.Catalog()
				printf("catalog version %d\n", version)
			}
		}
	}
}
