// Package worldfacade defines the external world-interaction contract the
// Core depends on (§6 World Facade) and provides a rate-limited wrapper
// plus, for tests, a deterministic in-memory fake. The Core never talks to
// the real Minecraft-side library directly; it only ever sees this
// interface.
package worldfacade

import (
	"context"
	"time"

	"github.com/rsned/minebot-agent/pkg/agent"
)

// Block is a located world block.
type Block struct {
	Pos  agent.WorldPos
	Name agent.Item
}

// InventorySlot is one reported inventory stack.
type InventorySlot struct {
	Name  agent.Item
	Count int
	Type  string // "tool", "block", "item", ...
}

// Container is the open furnace/chest handle returned by OpenContainer.
type Container interface {
	PutInput(ctx context.Context, item agent.Item, count int) error
	PutFuel(ctx context.Context, item agent.Item, count int) error
	TakeOutput(ctx context.Context) (agent.Item, int, error)
	OutputItem(ctx context.Context) (agent.Item, int, error)
	// Updates delivers a signal each time the container's slots change,
	// closed when the container is closed.
	Updates() <-chan struct{}
	Close(ctx context.Context) error
}

// Entity is a located mob or player. Health is populated for mobs
// returned by FindEntity (0 for players, whose health isn't tracked by
// this facade); the Combat driver uses it to detect a stalled fight
// (§4.11, §9: "no health progress for 10s ⇒ abort").
type Entity struct {
	Pos    agent.WorldPos
	Name   string
	Health float64
}

// Facade is the external collaborator contract of §6. It is specified
// only by this interface; the Core never assumes anything about the
// implementation behind it.
type Facade interface {
	FindBlock(ctx context.Context, matching agent.Item, maxDistance float64) (*Block, error)
	// FindEntity returns the nearest mob whose name matches within
	// maxDistance, or nil if none is in range — the Combat driver's
	// hunt-loop analogue of FindBlock, which §6's facade list omits.
	FindEntity(ctx context.Context, mobType string, maxDistance float64) (*Entity, error)
	PathTo(ctx context.Context, goal agent.WorldPos) error
	Dig(ctx context.Context, block agent.WorldPos) error
	PlaceBlock(ctx context.Context, reference agent.WorldPos, face FaceVector) error
	Equip(ctx context.Context, item agent.Item, slot string) error
	// Craft invokes the crafting-grid primitive once: consuming recipe's
	// inputs and producing recipe.OutputCount of recipe.OutputItem. The
	// caller has already ensured any required station is reachable.
	Craft(ctx context.Context, recipe agent.Recipe) error
	Attack(ctx context.Context, entity Entity) error
	Toss(ctx context.Context, item agent.Item, count int) error
	OpenContainer(ctx context.Context, block agent.WorldPos) (Container, error)
	InventoryItems(ctx context.Context) ([]InventorySlot, error)
	EntityPosition(ctx context.Context) (agent.WorldPos, error)
	Health(ctx context.Context) (float64, error)
	Food(ctx context.Context) (float64, error)
	PlayerEntity(ctx context.Context, name string) (*Entity, error)
	BlockAt(ctx context.Context, pos agent.WorldPos) (agent.Item, error)
}

// FaceVector is the unit-vector direction from a reference block to the
// face being placed against.
type FaceVector struct {
	DX, DY, DZ int
}

// Neighbors returns the six axis-aligned neighbour positions of pos, in a
// fixed scan order (§4.7: "scan the six neighbours in a strategy-dependent
// order"); below is checked first since it supports the common bottom-up
// placement case.
func Neighbors(pos agent.WorldPos) []struct {
	Pos  agent.WorldPos
	Face FaceVector
} {
	return []struct {
		Pos  agent.WorldPos
		Face FaceVector
	}{
		{pos.Add(0, -1, 0), FaceVector{0, 1, 0}},
		{pos.Add(0, 1, 0), FaceVector{0, -1, 0}},
		{pos.Add(1, 0, 0), FaceVector{-1, 0, 0}},
		{pos.Add(-1, 0, 0), FaceVector{1, 0, 0}},
		{pos.Add(0, 0, 1), FaceVector{0, 0, -1}},
		{pos.Add(0, 0, -1), FaceVector{0, 0, 1}},
	}
}

// WallNeighbors is the neighbour scan order biased toward wall-mounted
// and top-half blocks: horizontal neighbours first, vertical last.
func WallNeighbors(pos agent.WorldPos) []struct {
	Pos  agent.WorldPos
	Face FaceVector
} {
	all := Neighbors(pos)
	return append(all[2:], all[:2]...)
}

// DefaultReach is the maximum distance (units) from which the avatar can
// interact with a block, used by the Builder and Gather/Craft drivers.
const DefaultReach = 4.5

// DropPickupDelay is the short wait after digging a block to allow its
// drop to be picked up (§4.8).
const DropPickupDelay = 500 * time.Millisecond
