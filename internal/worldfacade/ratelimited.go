package worldfacade

import (
	"context"

	"golang.org/x/time/rate"

	"github.com/rsned/minebot-agent/pkg/agent"
)

// RateLimited wraps a Facade so that movement/dig/place calls — the
// rate-limited actions in the source game's protocol — are throttled to a
// configured rate, grounded on acdtunes-spacetraders's rate-limited API
// client (the only rate limiter used anywhere in the pack).
type RateLimited struct {
	inner   Facade
	actions *rate.Limiter
}

// NewRateLimited wraps inner with a limiter allowing actionsPerSecond
// world-mutating calls per second, with a burst of the same size.
func NewRateLimited(inner Facade, actionsPerSecond float64) *RateLimited {
	burst := int(actionsPerSecond)
	if burst < 1 {
		burst = 1
	}
	return &RateLimited{
		inner:   inner,
		actions: rate.NewLimiter(rate.Limit(actionsPerSecond), burst),
	}
}

func (r *RateLimited) throttle(ctx context.Context) error {
	return r.actions.Wait(ctx)
}

func (r *RateLimited) FindBlock(ctx context.Context, matching agent.Item, maxDistance float64) (*Block, error) {
	return r.inner.FindBlock(ctx, matching, maxDistance)
}

func (r *RateLimited) FindEntity(ctx context.Context, mobType string, maxDistance float64) (*Entity, error) {
	return r.inner.FindEntity(ctx, mobType, maxDistance)
}

func (r *RateLimited) PathTo(ctx context.Context, goal agent.WorldPos) error {
	if err := r.throttle(ctx); err != nil {
		return err
	}
	return r.inner.PathTo(ctx, goal)
}

func (r *RateLimited) Dig(ctx context.Context, block agent.WorldPos) error {
	if err := r.throttle(ctx); err != nil {
		return err
	}
	return r.inner.Dig(ctx, block)
}

func (r *RateLimited) PlaceBlock(ctx context.Context, reference agent.WorldPos, face FaceVector) error {
	if err := r.throttle(ctx); err != nil {
		return err
	}
	return r.inner.PlaceBlock(ctx, reference, face)
}

func (r *RateLimited) Equip(ctx context.Context, item agent.Item, slot string) error {
	if err := r.throttle(ctx); err != nil {
		return err
	}
	return r.inner.Equip(ctx, item, slot)
}

func (r *RateLimited) Craft(ctx context.Context, recipe agent.Recipe) error {
	if err := r.throttle(ctx); err != nil {
		return err
	}
	return r.inner.Craft(ctx, recipe)
}

func (r *RateLimited) Attack(ctx context.Context, entity Entity) error {
	if err := r.throttle(ctx); err != nil {
		return err
	}
	return r.inner.Attack(ctx, entity)
}

func (r *RateLimited) Toss(ctx context.Context, item agent.Item, count int) error {
	if err := r.throttle(ctx); err != nil {
		return err
	}
	return r.inner.Toss(ctx, item, count)
}

func (r *RateLimited) OpenContainer(ctx context.Context, block agent.WorldPos) (Container, error) {
	return r.inner.OpenContainer(ctx, block)
}

func (r *RateLimited) InventoryItems(ctx context.Context) ([]InventorySlot, error) {
	return r.inner.InventoryItems(ctx)
}

func (r *RateLimited) EntityPosition(ctx context.Context) (agent.WorldPos, error) {
	return r.inner.EntityPosition(ctx)
}

func (r *RateLimited) Health(ctx context.Context) (float64, error) {
	return r.inner.Health(ctx)
}

func (r *RateLimited) Food(ctx context.Context) (float64, error) {
	return r.inner.Food(ctx)
}

func (r *RateLimited) PlayerEntity(ctx context.Context, name string) (*Entity, error) {
	return r.inner.PlayerEntity(ctx, name)
}

func (r *RateLimited) BlockAt(ctx context.Context, pos agent.WorldPos) (agent.Item, error) {
	return r.inner.BlockAt(ctx, pos)
}

var _ Facade = (*RateLimited)(nil)
