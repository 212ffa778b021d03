package cli

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
)

// newStatusCommand reports the avatar's current position/health/food and
// whether a Plan is executing (§6 "status" Intent / REST-ish surface).
// Each CLI invocation is its own process, so Processing only ever reports
// true while `agent serve` is actively running a Plan in the same
// process; the one-shot commands report the idle Executor state.
func newStatusCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Report the avatar's current status",
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

			pos, err := c.facade.EntityPosition(ctx)
			if err != nil {
				return err
			}
			health, err := c.facade.Health(ctx)
			if err != nil {
				return err
			}
			food, err := c.facade.Food(ctx)
			if err != nil {
				return err
			}
			st := c.exec.CurrentStatus()

			fmt.Printf("position:  %s\n", pos)
			fmt.Printf("health:    %s / 20\n", humanize.Ftoa(health))
			fmt.Printf("food:      %s / 20\n", humanize.Ftoa(food))
			fmt.Printf("processing: %v\n", st.Processing)
			if st.CurrentAction != "" {
				fmt.Printf("current action: %s\n", st.CurrentAction)
			}
			return nil
		},
	}
	return cmd
}
