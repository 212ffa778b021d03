package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rsned/minebot-agent/internal/builder"
	"github.com/rsned/minebot-agent/internal/executor"
	"github.com/rsned/minebot-agent/internal/resolver"
	"github.com/rsned/minebot-agent/internal/worldfacade"
	"github.com/rsned/minebot-agent/pkg/agent"
)

// ToolDefinition describes one MCP tool, mirroring the teacher's
// simplified JSON Schema representation.
type ToolDefinition struct {
	Name        string     `json:"name"`
	Description string     `json:"description"`
	InputSchema JSONSchema `json:"inputSchema"`
}

// JSONSchema is a simplified JSON Schema object description.
type JSONSchema struct {
	Type       string              `json:"type"`
	Properties map[string]Property `json:"properties,omitempty"`
	Required   []string            `json:"required,omitempty"`
}

// Property describes one schema property.
type Property struct {
	Type        string  `json:"type,omitempty"`
	Description string  `json:"description,omitempty"`
	Default     any     `json:"default,omitempty"`
	Minimum     *float64 `json:"minimum,omitempty"`
}

// ToolDefinitions lists the tool surface exposed by `agent serve`: one
// tool per Core capability (resolve without executing, execute, build,
// fight, report status), rather than the teacher's read-only recipe
// query set — this Core is a goal-seeking agent, not a query server.
func ToolDefinitions() []ToolDefinition {
	return []ToolDefinition{
		resolveGoalTool(),
		executePlanTool(),
		buildStructureTool(),
		attackTool(),
		statusTool(),
	}
}

func resolveGoalTool() ToolDefinition {
	minCount := 1.0
	return ToolDefinition{
		Name:        "resolve_goal",
		Description: "Resolve a goal (item + count) into a Plan without executing it. Dry-run only.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"item":  {Type: "string", Description: "Target item name"},
				"count": {Type: "integer", Description: "Quantity needed", Default: 1, Minimum: &minCount},
			},
			Required: []string{"item"},
		},
	}
}

func executePlanTool() ToolDefinition {
	minCount := 1.0
	return ToolDefinition{
		Name:        "execute_plan",
		Description: "Resolve a goal and run the resulting Plan to completion.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"item":  {Type: "string", Description: "Target item name"},
				"count": {Type: "integer", Description: "Quantity needed", Default: 1, Minimum: &minCount},
			},
			Required: []string{"item"},
		},
	}
}

func buildStructureTool() ToolDefinition {
	return ToolDefinition{
		Name:        "build_structure",
		Description: "Load a blueprint and build it at the given origin.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"blueprint_path": {Type: "string", Description: "Path to the blueprint YAML file"},
				"x":              {Type: "integer", Description: "Origin X"},
				"y":              {Type: "integer", Description: "Origin Y"},
				"z":              {Type: "integer", Description: "Origin Z"},
				"prepare_ground": {Type: "boolean", Description: "Fill unsupported ground under the footprint", Default: true},
				"clear_area":     {Type: "boolean", Description: "Dig mismatched blocks in the bounding box first", Default: true},
				"scaffolding":    {Type: "boolean", Description: "Place temporary scaffolding on placement failure", Default: true},
			},
			Required: []string{"blueprint_path"},
		},
	}
}

func attackTool() ToolDefinition {
	minRadius := 1.0
	return ToolDefinition{
		Name:        "attack",
		Description: "Fight the nearest matching mob within radius for up to max_duration_seconds.",
		InputSchema: JSONSchema{
			Type: "object",
			Properties: map[string]Property{
				"mob_type":            {Type: "string", Description: "Mob name to engage"},
				"radius":              {Type: "number", Description: "Search radius", Default: 16, Minimum: &minRadius},
				"max_duration_seconds": {Type: "integer", Description: "Give-up time budget", Default: 60},
			},
			Required: []string{"mob_type"},
		},
	}
}

func statusTool() ToolDefinition {
	return ToolDefinition{
		Name:        "status",
		Description: "Report whether a plan is currently executing, the current action, and the avatar's position/health/food.",
		InputSchema: JSONSchema{Type: "object"},
	}
}

// Toolset binds the MCP tool surface to the Core's real collaborators.
type Toolset struct {
	Facade   worldfacade.Facade
	Resolver *resolver.Resolver
	Executor *executor.Executor
	Builder  *builder.Builder

	// Snapshot returns the current inventory, consulted by resolve_goal
	// and execute_plan before calling the Resolver.
	Snapshot func(ctx context.Context) (map[agent.Item]int, error)
}

func (ts *Toolset) handleToolsCall(s *Server) MethodHandler {
	return func(ctx context.Context, params json.RawMessage) (any, error) {
		var p ToolCallParams
		if err := json.Unmarshal(params, &p); err != nil {
			return nil, fmt.Errorf("invalid params: %w", err)
		}

		s.logger.Debug("calling tool", "name", p.Name)

		result, err := ts.callTool(ctx, p.Name, p.Arguments)
		if err != nil {
			return ToolCallResult{
				Content: []ContentBlock{{Type: "text", Text: err.Error()}},
				IsError: true,
			}, nil
		}

		resultJSON, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshaling result: %w", err)
		}
		return ToolCallResult{Content: []ContentBlock{{Type: "text", Text: string(resultJSON)}}}, nil
	}
}

func (ts *Toolset) callTool(ctx context.Context, name string, args json.RawMessage) (any, error) {
	switch name {
	case "resolve_goal":
		return ts.resolveGoal(ctx, args)
	case "execute_plan":
		return ts.executePlan(ctx, args)
	case "build_structure":
		return ts.buildStructure(ctx, args)
	case "attack":
		return ts.attack(ctx, args)
	case "status":
		return ts.status(ctx)
	default:
		return nil, fmt.Errorf("unknown tool: %s", name)
	}
}

type goalParams struct {
	Item  string `json:"item"`
	Count int    `json:"count"`
}

func (ts *Toolset) resolveGoal(ctx context.Context, args json.RawMessage) (any, error) {
	var p goalParams
	if err := json.Unmarshal(args, &p); err != nil {
		return nil, err
	}
	snapshot, err := ts.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := ts.Resolver.Resolve(ctx, agent.Goal{Item: agent.Item(p.Item), Count: p.Count}, snapshot)
	if err != nil {
		return nil, err
	}
	return planResult(plan), nil
}

func (ts *Toolset) executePlan(ctx context.Context, args json.RawMessage) (any, error) {
	var p goalParams
	if err := json.Unmarshal(args, &p); err != nil {
		return nil, err
	}
	snapshot, err := ts.Snapshot(ctx)
	if err != nil {
		return nil, err
	}
	plan, err := ts.Resolver.Resolve(ctx, agent.Goal{Item: agent.Item(p.Item), Count: p.Count}, snapshot)
	if err != nil {
		return nil, err
	}
	if err := ts.Executor.RunPlan(ctx, plan); err != nil {
		return nil, err
	}
	return planResult(plan), nil
}

type planResponse struct {
	TaskCount int    `json:"task_count"`
	Describe  string `json:"describe"`
}

func planResult(plan agent.Plan) planResponse {
	return planResponse{TaskCount: len(plan.Tasks), Describe: plan.Describe()}
}

type buildParams struct {
	BlueprintPath string `json:"blueprint_path"`
	X             int    `json:"x"`
	Y             int    `json:"y"`
	Z             int    `json:"z"`
	PrepareGround bool   `json:"prepare_ground"`
	ClearArea     bool   `json:"clear_area"`
	Scaffolding   bool   `json:"scaffolding"`
}

func (ts *Toolset) buildStructure(ctx context.Context, args json.RawMessage) (any, error) {
	p := buildParams{PrepareGround: true, ClearArea: true, Scaffolding: true}
	if err := json.Unmarshal(args, &p); err != nil {
		return nil, err
	}
	bp, err := builder.LoadBlueprint(p.BlueprintPath)
	if err != nil {
		return nil, err
	}
	origin := agent.WorldPos{X: p.X, Y: p.Y, Z: p.Z}
	opts := builder.Options{PrepareGround: p.PrepareGround, ClearArea: p.ClearArea, Scaffolding: p.Scaffolding}
	if err := ts.Builder.Build(ctx, bp, origin, opts, ts.Executor); err != nil {
		return nil, err
	}
	return map[string]any{"built": bp.Name, "voxels": len(bp.Voxel)}, nil
}

type attackParams struct {
	MobType            string  `json:"mob_type"`
	Radius             float64 `json:"radius"`
	MaxDurationSeconds int     `json:"max_duration_seconds"`
}

func (ts *Toolset) attack(ctx context.Context, args json.RawMessage) (any, error) {
	var p attackParams
	if err := json.Unmarshal(args, &p); err != nil {
		return nil, err
	}
	if p.Radius <= 0 {
		p.Radius = 16
	}
	if p.MaxDurationSeconds <= 0 {
		p.MaxDurationSeconds = 60
	}
	err := ts.Executor.Attack(ctx, p.MobType, p.Radius, time.Duration(p.MaxDurationSeconds)*time.Second)
	if err != nil {
		return nil, err
	}
	return map[string]any{"defeated": p.MobType}, nil
}

type statusResponse struct {
	Processing    bool          `json:"processing"`
	CurrentAction string        `json:"current_action"`
	Position      agent.WorldPos `json:"position"`
	Health        float64       `json:"health"`
	Food          float64       `json:"food"`
}

func (ts *Toolset) status(ctx context.Context) (any, error) {
	st := ts.Executor.CurrentStatus()
	pos, err := ts.Facade.EntityPosition(ctx)
	if err != nil {
		return nil, err
	}
	health, err := ts.Facade.Health(ctx)
	if err != nil {
		return nil, err
	}
	food, err := ts.Facade.Food(ctx)
	if err != nil {
		return nil, err
	}
	return statusResponse{
		Processing:    st.Processing,
		CurrentAction: st.CurrentAction,
		Position:      pos,
		Health:        health,
		Food:          food,
	}, nil
}
