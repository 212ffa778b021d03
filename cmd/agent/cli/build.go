package cli

import (
	"context"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/rsned/minebot-agent/internal/builder"
	"github.com/rsned/minebot-agent/pkg/agent"
)

// newBuildCommand runs the Structure Builder (§4.7) against a blueprint
// file resolved relative to the configured blueprint directory.
func newBuildCommand() *cobra.Command {
	var blueprintName string
	var x, y, z int
	var prepareGround, clearArea, scaffolding bool

	cmd := &cobra.Command{
		Use:   "build",
		Short: "Build a blueprint at an origin",
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

			path := blueprintName
			if !filepath.IsAbs(path) {
				path = filepath.Join(cfg.BlueprintDir, path)
			}
			bp, err := builder.LoadBlueprint(path)
			if err != nil {
				return err
			}

			origin := agent.WorldPos{X: x, Y: y, Z: z}
			opts := builder.Options{PrepareGround: prepareGround, ClearArea: clearArea, Scaffolding: scaffolding}
			if err := c.build.Build(ctx, bp, origin, opts, c.exec); err != nil {
				return err
			}
			fmt.Printf("built %q: %d voxels\n", bp.Name, len(bp.Voxel))
			return nil
		},
	}

	cmd.Flags().StringVar(&blueprintName, "blueprint", "", "Blueprint file name (under blueprint_dir) or absolute path")
	cmd.Flags().IntVar(&x, "x", 0, "Origin X")
	cmd.Flags().IntVar(&y, "y", 0, "Origin Y")
	cmd.Flags().IntVar(&z, "z", 0, "Origin Z")
	cmd.Flags().BoolVar(&prepareGround, "prepare-ground", true, "Fill unsupported ground under the footprint")
	cmd.Flags().BoolVar(&clearArea, "clear-area", true, "Dig mismatched blocks in the bounding box first")
	cmd.Flags().BoolVar(&scaffolding, "scaffolding", true, "Place temporary scaffolding on placement failure")
	_ = cmd.MarkFlagRequired("blueprint")

	return cmd
}
