package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rsned/minebot-agent/pkg/agent"
)

// newRunCommand resolves a goal and executes the resulting Plan to
// completion, the operator-facing equivalent of a "mine"/"craft"/
// "smelt"/"harvest" Intent (§6).
func newRunCommand() *cobra.Command {
	var item string
	var count int

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Resolve a goal and run the resulting Plan",
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

			if err := c.exec.RunPlan(ctx, plan); err != nil {
				return err
			}
			fmt.Println("plan completed")
			return nil
		},
	}

	cmd.Flags().StringVar(&item, "item", "", "Target item")
	cmd.Flags().IntVar(&count, "count", 1, "Quantity needed")
	_ = cmd.MarkFlagRequired("item")

	return cmd
}
