package cli

import (
	"context"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/rsned/minebot-agent/internal/mcpserver"
)

// newServeCommand runs the MCP tool surface over stdio until the process
// receives SIGINT/SIGTERM or stdin closes, matching the teacher's
// cmd/crafting-server signal-handling shape.
func newServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the MCP tool surface over stdio",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}

			ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			c, err := newCore(ctx, cfg, logger)
			if err != nil {
				return err
			}

			toolset := &mcpserver.Toolset{
				Facade:   c.facade,
				Resolver: c.resolve,
				Executor: c.exec,
				Builder:  c.build,
				Snapshot: c.acct.Snapshot,
			}
			server := mcpserver.NewServer(logger, toolset)

			logger.Info("serving MCP tool surface")
			return server.Run(ctx)
		},
	}
	return cmd
}
