package builder

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/rsned/minebot-agent/pkg/agent"
)

// blueprintFile is the on-disk YAML shape for a Blueprint: voxels are
// listed sparsely, offset-relative to the structure's origin, mirroring
// the bill-of-materials recipe fixtures' flat-list style.
type blueprintFile struct {
	Name string `yaml:"name"`
	DimX int    `yaml:"dim_x"`
	DimY int    `yaml:"dim_y"`
	DimZ int    `yaml:"dim_z"`
	Voxels []struct {
		DX         int               `yaml:"dx"`
		DY         int               `yaml:"dy"`
		DZ         int               `yaml:"dz"`
		Block      string            `yaml:"block"`
		Properties map[string]string `yaml:"properties,omitempty"`
	} `yaml:"voxels"`
}

// LoadBlueprint reads a Blueprint from a YAML file at path.
func LoadBlueprint(path string) (agent.Blueprint, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return agent.Blueprint{}, fmt.Errorf("reading blueprint %s: %w", path, err)
	}

	var bf blueprintFile
	if err := yaml.Unmarshal(raw, &bf); err != nil {
		return agent.Blueprint{}, fmt.Errorf("parsing blueprint %s: %w", path, err)
	}

	bp := agent.Blueprint{
		Name: bf.Name,
		DimX: bf.DimX,
		DimY: bf.DimY,
		DimZ: bf.DimZ,
	}
	for _, v := range bf.Voxels {
		if v.Block == "" || v.Block == "air" {
			continue
		}
		bp.Voxel = append(bp.Voxel, agent.BlueprintVoxel{
			DX:         v.DX,
			DY:         v.DY,
			DZ:         v.DZ,
			Block:      agent.Item(v.Block),
			Properties: v.Properties,
		})
	}
	return bp, nil
}

// RequiredBlocks computes the multiset of blocks the blueprint needs, one
// per voxel, feeding Phase 1's resource check.
func RequiredBlocks(bp agent.Blueprint) map[agent.Item]int {
	need := map[agent.Item]int{}
	for _, v := range bp.Voxel {
		need[v.Block]++
	}
	return need
}
