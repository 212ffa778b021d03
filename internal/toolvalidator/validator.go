// Package toolvalidator implements the Tool Validator (§4.3): for a
// target block, decides whether a held tool is adequate, and reports the
// requirement when it isn't.
package toolvalidator

import (
	"context"
	"fmt"

	"github.com/rsned/minebot-agent/internal/inventory"
	"github.com/rsned/minebot-agent/internal/knowledge"
	"github.com/rsned/minebot-agent/pkg/agent"
)

// Result is the outcome of HasAdequate.
type Result struct {
	Adequate bool
	Tool     agent.Item // set iff Adequate
	Required agent.ToolRequirement
}

// Validator checks tool adequacy against the Knowledge Base's tool
// requirement table.
type Validator struct {
	base *knowledge.Base
	inv  *inventory.Accountant
}

// New returns a Validator consulting base for requirements and inv for
// held tools.
func New(base *knowledge.Base, inv *inventory.Accountant) *Validator {
	return &Validator{base: base, inv: inv}
}

// HasAdequate answers whether the currently held tools can mine block. A
// tool is adequate iff its kind matches the requirement (or the
// requirement is ToolAny) and its tier is at least the required minimum.
// If min_tier is none and kind is any, bare hands suffice.
func (v *Validator) HasAdequate(ctx context.Context, block agent.Item) (Result, error) {
	req := v.base.ToolRequirementFor(block)

	if req.MinTier == agent.TierNone && req.ToolKind == agent.ToolAny {
		return Result{Adequate: true, Required: req}, nil
	}

	item, tier, found, err := v.inv.BestToolOfKind(ctx, req.ToolKind)
	if err != nil {
		return Result{}, fmt.Errorf("checking tool adequacy for %s: %w", block, err)
	}
	if !found || tier < req.MinTier {
		return Result{Adequate: false, Required: req}, nil
	}
	return Result{Adequate: true, Tool: item, Required: req}, nil
}

// BestWeapon picks the best held weapon by the priority of §4.11: sword
// outranks axe; within a kind, higher tier outranks lower (netherite >
// diamond > iron > stone > wooden). Golden tools share the wooden tier
// (agent.ToolTier), so a golden and a wooden weapon of one kind rank
// equal and which of the two is picked is not defined.
func (v *Validator) BestWeapon(ctx context.Context) (agent.Item, bool, error) {
	sword, _, haveSword, err := v.inv.BestToolOfKind(ctx, agent.ToolSword)
	if err != nil {
		return "", false, err
	}
	axe, _, haveAxe, err := v.inv.BestToolOfKind(ctx, agent.ToolAxe)
	if err != nil {
		return "", false, err
	}
	if haveSword {
		return sword, true, nil
	}
	if haveAxe {
		return axe, true, nil
	}
	return "", false, nil
}
