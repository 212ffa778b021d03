package executor_test

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rsned/minebot-agent/internal/executor"
	"github.com/rsned/minebot-agent/internal/inventory"
	"github.com/rsned/minebot-agent/internal/knowledge"
	"github.com/rsned/minebot-agent/internal/resolver"
	"github.com/rsned/minebot-agent/internal/station"
	"github.com/rsned/minebot-agent/internal/toolvalidator"
	"github.com/rsned/minebot-agent/internal/worldfacade"
	"github.com/rsned/minebot-agent/pkg/agent"
)

// collectingNotifier records every chat acknowledgement, standing in for
// the real chat transport this repo has none of.
type collectingNotifier struct {
	messages []string
}

func (c *collectingNotifier) Notify(message string) {
	c.messages = append(c.messages, message)
}

func newExecutor(t *testing.T, fake worldfacade.Facade) (*executor.Executor, *collectingNotifier) {
	t.Helper()
	base, err := knowledge.Load(context.Background(), ":memory:")
	require.NoError(t, err)
	acct := inventory.New(fake)
	validate := toolvalidator.New(base, acct)
	rslv := resolver.New(base)
	stations := station.New(fake, rslv, acct)
	notifier := &collectingNotifier{}
	exec := executor.New(fake, base, acct, validate, rslv, stations, notifier, nil)
	return exec, notifier
}

// blockingFake delays its first FindBlock call until proceed is closed,
// signaling readiness via started — used to hold RunPlan "in flight" long
// enough to exercise the re-entrant BusyError guard deterministically.
type blockingFake struct {
	*worldfacade.Fake
	started chan struct{}
	proceed chan struct{}
	once    sync.Once
}

func (b *blockingFake) FindBlock(ctx context.Context, matching agent.Item, maxDistance float64) (*worldfacade.Block, error) {
	b.once.Do(func() { close(b.started) })
	<-b.proceed
	return b.Fake.FindBlock(ctx, matching, maxDistance)
}

func TestRunPlan_RejectsReentrantCallsWithBusyError(t *testing.T) {
	fake := &blockingFake{
		Fake:    worldfacade.NewFake().WithBlock(agent.WorldPos{X: 1, Y: 0, Z: 0}, "oak_log"),
		started: make(chan struct{}),
		proceed: make(chan struct{}),
	}
	exec, _ := newExecutor(t, fake)

	plan := agent.Plan{Tasks: []agent.Task{agent.GatherTask{Block: "oak_log", Count: 1}}}
	done := make(chan error, 1)
	go func() { done <- exec.RunPlan(context.Background(), plan) }()

	select {
	case <-fake.started:
	case <-time.After(2 * time.Second):
		t.Fatal("first RunPlan never reached FindBlock")
	}

	err := exec.RunPlan(context.Background(), agent.Plan{Tasks: []agent.Task{agent.GatherTask{Block: "oak_log", Count: 1}}})
	var busyErr *agent.BusyError
	assert.ErrorAs(t, err, &busyErr)

	close(fake.proceed)
	require.NoError(t, <-done)
}

func TestRunPlan_GatherTaskDigsEveryMatchingBlock(t *testing.T) {
	fake := worldfacade.NewFake().
		WithBlock(agent.WorldPos{X: 1, Y: 0, Z: 0}, "oak_log").
		WithBlock(agent.WorldPos{X: 2, Y: 0, Z: 0}, "oak_log")
	exec, notifier := newExecutor(t, fake)

	plan := agent.Plan{Tasks: []agent.Task{agent.GatherTask{Block: "oak_log", Count: 2}}}
	err := exec.RunPlan(context.Background(), plan)
	require.NoError(t, err)

	items, err := fake.InventoryItems(context.Background())
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, agent.Item("oak_log"), items[0].Name)
	assert.Equal(t, 2, items[0].Count)
	assert.Contains(t, notifier.messages, "completed: gather 2 x oak_log")
}

func TestRunPlan_GatherTaskMissingToolReturnsToolMissingError(t *testing.T) {
	fake := worldfacade.NewFake().WithBlock(agent.WorldPos{X: 1, Y: 0, Z: 0}, "stone")
	exec, _ := newExecutor(t, fake)

	plan := agent.Plan{Tasks: []agent.Task{agent.GatherTask{Block: "stone", Count: 1}}}
	err := exec.RunPlan(context.Background(), plan)
	require.Error(t, err)
	var toolErr *agent.ToolMissingError
	assert.ErrorAs(t, err, &toolErr)
}

func TestRunPlan_GatherTaskNoBlockInRangeReturnsResourceExhausted(t *testing.T) {
	fake := worldfacade.NewFake()
	exec, _ := newExecutor(t, fake)

	plan := agent.Plan{Tasks: []agent.Task{agent.GatherTask{Block: "oak_log", Count: 1}}}
	err := exec.RunPlan(context.Background(), plan)
	require.Error(t, err)
	var resErr *agent.ResourceExhaustedError
	assert.ErrorAs(t, err, &resErr)
}

func TestRunPlan_CraftTaskConsumesInputsAndEnsuresStation(t *testing.T) {
	fake := worldfacade.NewFake().
		WithItem("oak_planks", 3).
		WithItem("stick", 2).
		WithBlock(agent.WorldPos{X: 3, Y: 0, Z: 0}, "crafting_table")
	exec, _ := newExecutor(t, fake)

	recipe := agent.Recipe{
		ID:              "wooden_axe",
		OutputItem:      "wooden_axe",
		OutputCount:     1,
		Inputs:          []agent.RecipeComponent{{Item: "oak_planks", Quantity: 3}, {Item: "stick", Quantity: 2}},
		RequiresStation: agent.StationCraftingTable,
	}
	plan := agent.Plan{Tasks: []agent.Task{agent.CraftTask{Recipe: recipe, Repetitions: 1}}}
	err := exec.RunPlan(context.Background(), plan)
	require.NoError(t, err)

	held, err := inventory.New(fake).Held(context.Background(), "wooden_axe")
	require.NoError(t, err)
	assert.Equal(t, 1, held)

	pos, err := fake.EntityPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, agent.WorldPos{X: 3, Y: 0, Z: 0}, pos, "crafting should have pathed to the nearby station")
}

func TestRunPlan_CraftTaskInsufficientInputsIsUnsatisfiable(t *testing.T) {
	fake := worldfacade.NewFake()
	exec, _ := newExecutor(t, fake)

	recipe := agent.Recipe{
		OutputItem:  "stick",
		OutputCount: 4,
		Inputs:      []agent.RecipeComponent{{Item: "oak_planks", Quantity: 2}},
	}
	plan := agent.Plan{Tasks: []agent.Task{agent.CraftTask{Recipe: recipe, Repetitions: 1}}}
	err := exec.RunPlan(context.Background(), plan)
	require.Error(t, err)
	var unsat *agent.UnsatisfiableError
	assert.ErrorAs(t, err, &unsat)
}

func TestRunPlan_SkipsTaskAlreadySatisfiedByInventory(t *testing.T) {
	fake := worldfacade.NewFake().WithItem("stick", 10)
	exec, notifier := newExecutor(t, fake)

	recipe := agent.Recipe{
		OutputItem:  "stick",
		OutputCount: 4,
		Inputs:      []agent.RecipeComponent{{Item: "oak_planks", Quantity: 2}},
	}
	plan := agent.Plan{Tasks: []agent.Task{agent.CraftTask{Recipe: recipe, Repetitions: 1}}}
	err := exec.RunPlan(context.Background(), plan)
	require.NoError(t, err)

	for _, m := range notifier.messages {
		assert.NotContains(t, m, "starting: craft")
	}
}

func TestRunPlan_DeliverTaskTossesItemToPlayer(t *testing.T) {
	fake := worldfacade.NewFake().
		WithItem("stick", 5).
		WithPlayer("alex", worldfacade.Entity{Pos: agent.WorldPos{X: 4, Y: 0, Z: 0}, Name: "alex"})
	exec, _ := newExecutor(t, fake)

	plan := agent.Plan{Tasks: []agent.Task{agent.DeliverTask{To: "alex", Item: "stick", Count: 3}}}
	err := exec.RunPlan(context.Background(), plan)
	require.NoError(t, err)

	held, err := inventory.New(fake).Held(context.Background(), "stick")
	require.NoError(t, err)
	assert.Equal(t, 2, held)
}

func TestRunPlan_DeliverTaskUnknownPlayerIsResourceExhausted(t *testing.T) {
	fake := worldfacade.NewFake().WithItem("stick", 5)
	exec, _ := newExecutor(t, fake)

	plan := agent.Plan{Tasks: []agent.Task{agent.DeliverTask{To: "nobody", Item: "stick", Count: 1}}}
	err := exec.RunPlan(context.Background(), plan)
	require.Error(t, err)
	var resErr *agent.ResourceExhaustedError
	assert.ErrorAs(t, err, &resErr)
}

func TestRunPlan_EnsureToolNoOpWhenAlreadyHeld(t *testing.T) {
	fake := worldfacade.NewFake().WithItem("wooden_pickaxe", 1)
	exec, _ := newExecutor(t, fake)

	plan := agent.Plan{Tasks: []agent.Task{agent.EnsureToolTask{Tool: "wooden_pickaxe"}}}
	err := exec.RunPlan(context.Background(), plan)
	require.NoError(t, err)
}

func TestRunPlan_EnsureToolResolvesAndCraftsWhenMissing(t *testing.T) {
	fake := worldfacade.NewFake().
		WithBlock(agent.WorldPos{X: 1, Y: 0, Z: 0}, "oak_log").
		WithBlock(agent.WorldPos{X: 2, Y: 0, Z: 0}, "oak_log").
		WithBlock(agent.WorldPos{X: 3, Y: 0, Z: 0}, "oak_log").
		WithBlock(agent.WorldPos{X: 4, Y: 0, Z: 0}, "crafting_table")
	exec, _ := newExecutor(t, fake)

	plan := agent.Plan{Tasks: []agent.Task{agent.EnsureToolTask{Tool: "wooden_pickaxe"}}}
	err := exec.RunPlan(context.Background(), plan)
	require.NoError(t, err)

	held, err := inventory.New(fake).Held(context.Background(), "wooden_pickaxe")
	require.NoError(t, err)
	assert.Equal(t, 1, held)
}

func TestAbort_StopsPlanAtNextTaskBoundary(t *testing.T) {
	fake := &blockingFake{
		Fake: worldfacade.NewFake().
			WithBlock(agent.WorldPos{X: 1, Y: 0, Z: 0}, "oak_log").
			WithBlock(agent.WorldPos{X: 2, Y: 0, Z: 0}, "oak_log"),
		started: make(chan struct{}),
		proceed: make(chan struct{}),
	}
	exec, _ := newExecutor(t, fake)

	plan := agent.Plan{Tasks: []agent.Task{
		agent.GatherTask{Block: "oak_log", Count: 1},
		agent.GatherTask{Block: "oak_log", Count: 1},
	}}
	done := make(chan error, 1)
	go func() { done <- exec.RunPlan(context.Background(), plan) }()

	select {
	case <-fake.started:
	case <-time.After(2 * time.Second):
		t.Fatal("RunPlan never reached FindBlock")
	}
	// Abort while the first task is in flight; it finishes, and the plan
	// stops at the boundary before the second.
	exec.Abort()
	close(fake.proceed)

	err := <-done
	require.Error(t, err)
	var abortErr *agent.AbortedError
	require.ErrorAs(t, err, &abortErr)
	assert.Equal(t, 1, abortErr.TasksCompleted)
	assert.Equal(t, 1, abortErr.TasksRemaining)
}

func TestCurrentStatus_ReportsIdleBeforeAnyPlan(t *testing.T) {
	fake := worldfacade.NewFake()
	exec, _ := newExecutor(t, fake)

	status := exec.CurrentStatus()
	assert.False(t, status.Processing)
	assert.Equal(t, "", status.CurrentAction)
}
