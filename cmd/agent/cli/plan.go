package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rsned/minebot-agent/pkg/agent"
)

// newPlanCommand is the dry-run planning entry point the spec implies
// (§8's round-trip laws require resolving without executing) but never
// names a surface for: it runs the Goal Resolver only and prints the
// resulting Plan.
func newPlanCommand() *cobra.Command {
	var item string
	var count int

	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Resolve a goal into a Plan without executing it",
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger()
			cfg, err := loadConfig()
			if err != nil {
				return err
			}
			ctx := context.Background()
			c, err := newCore(ctx, cfg, logger)
			if err != nil {
				return err
			}

			snapshot, err := c.acct.Snapshot(ctx)
			if err != nil {
				return fmt.Errorf("reading inventory: %w", err)
			}
			plan, err := c.resolve.Resolve(ctx, agent.Goal{Item: agent.Item(item), Count: count}, snapshot)
			if err != nil {
				return err
			}

			if plan.Empty() {
				fmt.Println("goal already satisfied by held inventory")
				return nil
			}
			fmt.Println(plan.Describe())
			return nil
		},
	}

	cmd.Flags().StringVar(&item, "item", "", "Target item")
	cmd.Flags().IntVar(&count, "count", 1, "Quantity needed")
	_ = cmd.MarkFlagRequired("item")

	return cmd
}
