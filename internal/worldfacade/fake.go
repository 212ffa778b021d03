package worldfacade

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rsned/minebot-agent/pkg/agent"
)

// Fake is a deterministic, in-memory Facade used by every package's
// tests, standing in for the real Minecraft-side library the way the
// teacher swaps a real *sql.DB for an in-memory :memory: one in its own
// tests.
type Fake struct {
	mu sync.Mutex

	Pos       agent.WorldPos
	HealthVal float64
	FoodVal   float64

	Inventory map[agent.Item]int
	ToolType  map[agent.Item]string // item -> "tool" etc, for InventoryItems

	// World is the set of placed/pre-existing blocks, keyed by position.
	World map[agent.WorldPos]agent.Item

	// Drops maps a minable block name to the item one dig of it yields;
	// a block with no entry yields one unit of itself.
	Drops map[agent.Item]agent.Item

	players map[string]Entity

	// Mobs is the set of live entities, keyed by a caller-chosen ID, for
	// FindEntity to search (test setup).
	Mobs map[string]Entity

	lastEquipped agent.Item
	digCount     int
	placeCount   int
}

// NewFake returns an empty Fake with a player at the origin.
func NewFake() *Fake {
	return &Fake{
		HealthVal: 20,
		FoodVal:   20,
		Inventory: map[agent.Item]int{},
		ToolType:  map[agent.Item]string{},
		World:     map[agent.WorldPos]agent.Item{},
		Drops:     map[agent.Item]agent.Item{},
		players:   map[string]Entity{},
		Mobs:      map[string]Entity{},
	}
}

// WithMob adds a live entity to the fake world (for test setup).
func (f *Fake) WithMob(id string, e Entity) *Fake {
	f.Mobs[id] = e
	return f
}

// WithPlayer registers a player findable by name via PlayerEntity (for test
// setup of DeliverTask).
func (f *Fake) WithPlayer(name string, e Entity) *Fake {
	f.players[name] = e
	return f
}

func (f *Fake) FindEntity(ctx context.Context, mobType string, maxDistance float64) (*Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var ids []string
	for id, e := range f.Mobs {
		if e.Name == mobType {
			ids = append(ids, id)
		}
	}
	if len(ids) == 0 {
		return nil, nil
	}
	sort.Slice(ids, func(i, j int) bool {
		di := manhattan(f.Pos, f.Mobs[ids[i]].Pos)
		dj := manhattan(f.Pos, f.Mobs[ids[j]].Pos)
		if di != dj {
			return di < dj
		}
		return ids[i] < ids[j]
	})
	nearest := f.Mobs[ids[0]]
	if float64(manhattan(f.Pos, nearest.Pos)) > maxDistance {
		return nil, nil
	}
	return &nearest, nil
}

// WithBlock places a block in the fake world (for test setup).
func (f *Fake) WithBlock(pos agent.WorldPos, item agent.Item) *Fake {
	f.World[pos] = item
	return f
}

// WithItem adds count of item to the fake inventory (for test setup).
func (f *Fake) WithItem(item agent.Item, count int) *Fake {
	f.Inventory[item] += count
	return f
}

func (f *Fake) FindBlock(ctx context.Context, matching agent.Item, maxDistance float64) (*Block, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var candidates []agent.WorldPos
	for pos, name := range f.World {
		if name == matching && float64(manhattan(f.Pos, pos)) <= maxDistance {
			candidates = append(candidates, pos)
		}
	}
	if len(candidates) == 0 {
		return nil, nil
	}
	// Deterministic: nearest by Manhattan distance to the player, tied
	// broken by coordinate order.
	sort.Slice(candidates, func(i, j int) bool {
		di := manhattan(f.Pos, candidates[i])
		dj := manhattan(f.Pos, candidates[j])
		if di != dj {
			return di < dj
		}
		return lessPos(candidates[i], candidates[j])
	})
	chosen := candidates[0]
	return &Block{Pos: chosen, Name: matching}, nil
}

func manhattan(a, b agent.WorldPos) int {
	return abs(a.X-b.X) + abs(a.Y-b.Y) + abs(a.Z-b.Z)
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}

func lessPos(a, b agent.WorldPos) bool {
	if a.Y != b.Y {
		return a.Y < b.Y
	}
	if a.X != b.X {
		return a.X < b.X
	}
	return a.Z < b.Z
}

func (f *Fake) PathTo(ctx context.Context, goal agent.WorldPos) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.Pos = goal
	return nil
}

func (f *Fake) Dig(ctx context.Context, block agent.WorldPos) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.World[block]
	if !ok {
		return fmt.Errorf("dig: no block at %s", block)
	}
	delete(f.World, block)
	f.digCount++
	if drop, ok := f.Drops[name]; ok {
		f.Inventory[drop]++
	} else {
		f.Inventory[name]++
	}
	return nil
}

func (f *Fake) PlaceBlock(ctx context.Context, reference agent.WorldPos, face FaceVector) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	target := reference.Add(face.DX, face.DY, face.DZ)
	// Placement needs a held block item; the executor/builder equips
	// before placing, tracked via lastEquipped.
	if f.lastEquipped == "" {
		return fmt.Errorf("place: nothing equipped")
	}
	if f.Inventory[f.lastEquipped] <= 0 {
		return fmt.Errorf("place: not holding %s", f.lastEquipped)
	}
	f.Inventory[f.lastEquipped]--
	f.World[target] = f.lastEquipped
	f.placeCount++
	return nil
}

func (f *Fake) Equip(ctx context.Context, item agent.Item, slot string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Inventory[item] <= 0 {
		return fmt.Errorf("equip: not holding %s", item)
	}
	f.lastEquipped = item
	return nil
}

func (f *Fake) Craft(ctx context.Context, recipe agent.Recipe) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, in := range recipe.Inputs {
		if f.Inventory[in.Item] < in.Quantity {
			return fmt.Errorf("craft: only holding %d x %s, need %d", f.Inventory[in.Item], in.Item, in.Quantity)
		}
	}
	for _, in := range recipe.Inputs {
		f.Inventory[in.Item] -= in.Quantity
	}
	f.Inventory[recipe.OutputItem] += recipe.OutputCount
	return nil
}

func (f *Fake) Attack(ctx context.Context, entity Entity) error {
	return nil
}

func (f *Fake) Toss(ctx context.Context, item agent.Item, count int) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.Inventory[item] < count {
		return fmt.Errorf("toss: only holding %d x %s", f.Inventory[item], item)
	}
	f.Inventory[item] -= count
	return nil
}

func (f *Fake) OpenContainer(ctx context.Context, block agent.WorldPos) (Container, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.World[block]
	if !ok {
		return nil, fmt.Errorf("open_container: no block at %s", block)
	}
	return &fakeContainer{fake: f, kind: name}, nil
}

func (f *Fake) InventoryItems(ctx context.Context) ([]InventorySlot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]InventorySlot, 0, len(f.Inventory))
	for item, count := range f.Inventory {
		if count <= 0 {
			continue
		}
		out = append(out, InventorySlot{Name: item, Count: count, Type: f.ToolType[item]})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}

func (f *Fake) EntityPosition(ctx context.Context) (agent.WorldPos, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.Pos, nil
}

func (f *Fake) Health(ctx context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.HealthVal, nil
}

func (f *Fake) Food(ctx context.Context) (float64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.FoodVal, nil
}

func (f *Fake) PlayerEntity(ctx context.Context, name string) (*Entity, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	e, ok := f.players[name]
	if !ok {
		return nil, nil
	}
	return &e, nil
}

func (f *Fake) BlockAt(ctx context.Context, pos agent.WorldPos) (agent.Item, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	name, ok := f.World[pos]
	if !ok {
		return "air", nil
	}
	return name, nil
}

// fakeContainer is the Container returned by Fake.OpenContainer. Putting
// input and fuel in does not smelt anything by itself; output appears
// only when the Smelt test hook is called.
type fakeContainer struct {
	fake  *Fake
	kind  agent.Item
	input agent.Item
	inCnt int
	fuel  agent.Item
	fuelN int
	out   agent.Item
	outN  int
	ch    chan struct{}
}

func (c *fakeContainer) PutInput(ctx context.Context, item agent.Item, count int) error {
	c.fake.mu.Lock()
	defer c.fake.mu.Unlock()
	if c.fake.Inventory[item] < count {
		return fmt.Errorf("put_input: only holding %d x %s", c.fake.Inventory[item], item)
	}
	c.fake.Inventory[item] -= count
	c.input, c.inCnt = item, c.inCnt+count
	return nil
}

func (c *fakeContainer) PutFuel(ctx context.Context, item agent.Item, count int) error {
	c.fake.mu.Lock()
	defer c.fake.mu.Unlock()
	if c.fake.Inventory[item] < count {
		return fmt.Errorf("put_fuel: only holding %d x %s", c.fake.Inventory[item], item)
	}
	c.fake.Inventory[item] -= count
	c.fuel, c.fuelN = item, c.fuelN+count
	return nil
}

func (c *fakeContainer) TakeOutput(ctx context.Context) (agent.Item, int, error) {
	c.fake.mu.Lock()
	defer c.fake.mu.Unlock()
	out, n := c.out, c.outN
	c.fake.Inventory[out] += n
	c.outN = 0
	return out, n, nil
}

func (c *fakeContainer) OutputItem(ctx context.Context) (agent.Item, int, error) {
	c.fake.mu.Lock()
	defer c.fake.mu.Unlock()
	return c.out, c.outN, nil
}

func (c *fakeContainer) Updates() <-chan struct{} {
	if c.ch == nil {
		c.ch = make(chan struct{}, 1)
	}
	return c.ch
}

func (c *fakeContainer) Close(ctx context.Context) error {
	return nil
}

// Smelt is a test hook letting the Smelt driver's fake furnace "burn"
// input->output deterministically; production Containers would instead
// observe real output-slot transitions.
func (c *fakeContainer) Smelt(outItem agent.Item, perInput int) {
	produced := c.inCnt * perInput
	c.out = outItem
	c.outN += produced
	c.inCnt = 0
	if c.ch != nil {
		select {
		case c.ch <- struct{}{}:
		default:
		}
	}
}
