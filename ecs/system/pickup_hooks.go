package system

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"

	"golang.org/x/image/colornames"

	"github.com/milk9111/carry/ecs"
	"github.com/milk9111/carry/ecs/component"
)

// HookContext is passed to every pickup hook.
type HookContext struct {
	World *ecs.World
	Item  ecs.Entity
	Actor ecs.Entity
}

// PickupHooks lets pickup variants react to pickup state changes. Embed
// BaseHooks to implement only the hooks you need.
type PickupHooks interface {
	OnPicked(ctx HookContext)
	OnPutDown(ctx HookContext)
	OnActorEnter(ctx HookContext)
	OnActorExit(ctx HookContext)
}

// BaseHooks does nothing.
type BaseHooks struct{}

func (BaseHooks) OnPicked(HookContext)     {}
func (BaseHooks) OnPutDown(HookContext)    {}
func (BaseHooks) OnActorEnter(HookContext) {}
func (BaseHooks) OnActorExit(HookContext)  {}

// HighlightHooks outlines the item while an actor can reach it.
type HighlightHooks struct {
	BaseHooks
}

func (HighlightHooks) OnActorEnter(ctx HookContext) { setHighlight(ctx, true) }
func (HighlightHooks) OnActorExit(ctx HookContext)  { setHighlight(ctx, false) }
func (HighlightHooks) OnPicked(ctx HookContext)     { setHighlight(ctx, false) }

func setHighlight(ctx HookContext, active bool) {
	if ctx.World == nil {
		return
	}
	h, ok := ecs.Get(ctx.World, ctx.Item, component.HighlightComponent.Kind())
	if !ok {
		h = &component.Highlight{Color: colornames.Gold}
	}
	h.Active = active
	_ = ecs.Add(ctx.World, ctx.Item, component.HighlightComponent.Kind(), h)
}

// PickupVariantFactory builds hooks for one pickup entity.
type PickupVariantFactory func(w *ecs.World, item ecs.Entity, p *component.Pickup, log *slog.Logger) (PickupHooks, error)

var (
	variantsMu sync.RWMutex
	variants   = map[string]PickupVariantFactory{
		component.PickupVariantBase: func(*ecs.World, ecs.Entity, *component.Pickup, *slog.Logger) (PickupHooks, error) {
			return BaseHooks{}, nil
		},
		component.PickupVariantHighlight: func(*ecs.World, ecs.Entity, *component.Pickup, *slog.Logger) (PickupHooks, error) {
			return HighlightHooks{}, nil
		},
		component.PickupVariantScript: func(_ *ecs.World, _ ecs.Entity, p *component.Pickup, log *slog.Logger) (PickupHooks, error) {
			h, err := LoadScriptHooks(p.Script, log)
			if err != nil {
				return nil, err
			}
			return h, nil
		},
	}
)

// RegisterPickupVariant makes a named variant available to pickups. An
// existing registration is replaced.
func RegisterPickupVariant(name string, factory PickupVariantFactory) {
	if name == "" || factory == nil {
		return
	}
	variantsMu.Lock()
	defer variantsMu.Unlock()
	variants[name] = factory
}

// PickupVariants returns the registered variant names, sorted.
func PickupVariants() []string {
	variantsMu.RLock()
	defer variantsMu.RUnlock()
	names := make([]string, 0, len(variants))
	for name := range variants {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// NewPickupHooks builds the hooks for a pickup from its Variant. An empty
// variant is "base".
func NewPickupHooks(w *ecs.World, item ecs.Entity, p *component.Pickup, log *slog.Logger) (PickupHooks, error) {
	name := component.PickupVariantBase
	if p != nil && p.Variant != "" {
		name = p.Variant
	}
	variantsMu.RLock()
	factory, ok := variants[name]
	variantsMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown pickup variant %q", name)
	}
	return factory(w, item, p, log)
}

// hooksFor returns the cached hooks for item, building them on first use.
// A variant that fails to build falls back to BaseHooks.
func (s *PickupSystem) hooksFor(w *ecs.World, item ecs.Entity, p *component.Pickup) PickupHooks {
	if h, ok := s.hooks[item]; ok {
		return h
	}
	h, err := NewPickupHooks(w, item, p, s.log)
	if err != nil {
		s.log.Error("pickup: building hooks failed", "item", item, "variant", p.Variant, "err", err)
		h = BaseHooks{}
	}
	s.hooks[item] = h
	return h
}
