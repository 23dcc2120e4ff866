package system

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/milk9111/carry/ecs"
	"github.com/milk9111/carry/ecs/component"
)

// ErrMissingTrigger is returned when a pickup has neither an explicit
// trigger path nor a child named component.DefaultTriggerName carrying a
// TriggerVolume.
var ErrMissingTrigger = errors.New("pickup: trigger volume not found")

// PickupSystem tracks which actor can reach each pickup, and attaches and
// releases pickups on input.
type PickupSystem struct {
	log       *slog.Logger
	resolvers []AttachResolver
	hooks     map[ecs.Entity]PickupHooks
}

func NewPickupSystem(log *slog.Logger) *PickupSystem {
	if log == nil {
		log = slog.Default()
	}
	return &PickupSystem{
		log:       log,
		resolvers: DefaultAttachResolvers(log),
		hooks:     make(map[ecs.Entity]PickupHooks),
	}
}

// SetResolvers replaces the attachment resolver chain.
func (s *PickupSystem) SetResolvers(resolvers ...AttachResolver) {
	s.resolvers = append([]AttachResolver(nil), resolvers...)
}

// SetHooks overrides the extension hooks used for one pickup.
func (s *PickupSystem) SetHooks(item ecs.Entity, hooks PickupHooks) {
	if hooks == nil {
		delete(s.hooks, item)
		return
	}
	s.hooks[item] = hooks
}

func (s *PickupSystem) Update(w *ecs.World) {
	if s == nil || w == nil {
		return
	}

	ecs.ForEach(w, component.PickupComponent.Kind(), func(e ecs.Entity, p *component.Pickup) {
		if p.Initialized {
			return
		}
		if err := s.Init(w, e); err != nil {
			panic("pickup system: init " + e.String() + ": " + err.Error())
		}
	})

	s.dispatchTriggerEvents(w)

	ecs.ForEach(w, component.PickupComponent.Kind(), func(e ecs.Entity, p *component.Pickup) {
		if p.Picked && !w.IsAlive(ecs.Entity(p.Owner)) {
			s.releaseOrphan(w, e, p)
		}
	})

	ecs.ForEach(w, component.PickupComponent.Kind(), func(e ecs.Entity, p *component.Pickup) {
		if !p.Picked {
			return
		}
		owner := ecs.Entity(p.Owner)
		input, ok := ecs.Get(w, owner, component.InputComponent.Kind())
		if !ok || !input.DropPressed {
			return
		}
		if s.PutDown(w, e, owner, p.DropOffsetX, p.DropOffsetY, true) {
			input.DropPressed = false
		}
	})

	ecs.ForEach(w, component.PickupComponent.Kind(), func(e ecs.Entity, p *component.Pickup) {
		if p.Picked {
			return
		}
		actor, ok := focusedActor(w, p)
		if !ok {
			return
		}
		input, ok := ecs.Get(w, actor, component.InputComponent.Kind())
		if !ok || !input.PickupPressed {
			return
		}
		if s.RequestPickup(w, e, actor) {
			input.PickupPressed = false
		}
	})

	for e := range s.hooks {
		if !w.IsAlive(e) {
			delete(s.hooks, e)
		}
	}
}

// ResolvePickupTrigger finds the trigger entity for a pickup: the explicit
// TriggerPath when set, otherwise the child named "Trigger".
func ResolvePickupTrigger(w *ecs.World, item ecs.Entity, p *component.Pickup) (ecs.Entity, error) {
	path := p.TriggerPath
	if path == "" {
		path = component.DefaultTriggerName
	}
	trigger, ok := w.FindPath(item, path)
	if !ok {
		return 0, fmt.Errorf("%w: path %q", ErrMissingTrigger, path)
	}
	if !ecs.Has(w, trigger, component.TriggerVolumeComponent.Kind()) {
		return 0, fmt.Errorf("%w: %q has no trigger_volume", ErrMissingTrigger, path)
	}
	return trigger, nil
}

// Init resolves the pickup's trigger and saves its configuration for later
// restoration.
func (s *PickupSystem) Init(w *ecs.World, item ecs.Entity) error {
	p, ok := ecs.Get(w, item, component.PickupComponent.Kind())
	if !ok {
		return fmt.Errorf("init pickup %s: no pickup component", item)
	}
	trigger, err := ResolvePickupTrigger(w, item, p)
	if err != nil {
		return err
	}
	tv, _ := ecs.Get(w, trigger, component.TriggerVolumeComponent.Kind())
	p.Trigger = component.EntityRef(trigger)
	p.Saved = tv.Config()
	p.Initialized = true
	s.log.Debug("pickup initialized", "item", item, "trigger", trigger, "mask", tv.Mask)
	return nil
}

func (s *PickupSystem) dispatchTriggerEvents(w *ecs.World) {
	events := w.Events().DrainType(ecs.TriggerEventType)
	if len(events) == 0 {
		return
	}

	byTrigger := make(map[ecs.Entity]ecs.Entity)
	ecs.ForEach(w, component.PickupComponent.Kind(), func(e ecs.Entity, p *component.Pickup) {
		if p.Initialized {
			byTrigger[ecs.Entity(p.Trigger)] = e
		}
	})

	for _, evt := range events {
		te, ok := evt.Data.(ecs.TriggerEvent)
		if !ok {
			continue
		}
		item, ok := byTrigger[te.Trigger]
		if !ok {
			continue
		}
		switch te.Kind {
		case ecs.TriggerEnter:
			s.HandleActorEntered(w, item, te.Body)
		case ecs.TriggerExit:
			s.HandleActorExited(w, item, te.Body)
		}
	}
}

// HandleActorEntered focuses body if it is an actor. Non-actor bodies are
// ignored.
func (s *PickupSystem) HandleActorEntered(w *ecs.World, item, body ecs.Entity) {
	if !w.IsAlive(body) || !ecs.Has(w, body, component.ActorTagComponent.Kind()) {
		return
	}
	p, ok := ecs.Get(w, item, component.PickupComponent.Kind())
	if !ok {
		return
	}
	ref := component.EntityRef(body)
	p.Overlapping = append(removeRef(p.Overlapping, ref), ref)
	if p.Focused == ref {
		return
	}
	p.Focused = ref
	s.hooksFor(w, item, p).OnActorEnter(HookContext{World: w, Item: item, Actor: body})
}

// HandleActorExited forgets body. When it was the focused actor the exit
// hook runs and focus falls back to the most recent actor still inside.
func (s *PickupSystem) HandleActorExited(w *ecs.World, item, body ecs.Entity) {
	p, ok := ecs.Get(w, item, component.PickupComponent.Kind())
	if !ok {
		return
	}
	ref := component.EntityRef(body)
	p.Overlapping = removeRef(p.Overlapping, ref)
	if p.Focused != ref {
		return
	}
	s.hooksFor(w, item, p).OnActorExit(HookContext{World: w, Item: item, Actor: body})
	p.Focused = 0
	for i := len(p.Overlapping) - 1; i >= 0; i-- {
		if w.IsAlive(ecs.Entity(p.Overlapping[i])) {
			p.Focused = p.Overlapping[i]
			break
		}
	}
}

// RequestPickup attaches item to actor. It does nothing and returns false
// when the item is already held.
func (s *PickupSystem) RequestPickup(w *ecs.World, item, actor ecs.Entity) bool {
	p, ok := ecs.Get(w, item, component.PickupComponent.Kind())
	if !ok || p.Picked || !w.IsAlive(actor) {
		return false
	}
	if !p.Initialized {
		if err := s.Init(w, item); err != nil {
			panic("pickup system: init " + item.String() + ": " + err.Error())
		}
	}

	p.Picked = true
	p.Owner = component.EntityRef(actor)

	if p.DisableTriggerOnPickup {
		if tv, ok := ecs.Get(w, ecs.Entity(p.Trigger), component.TriggerVolumeComponent.Kind()); ok {
			tv.Disable()
		}
	}

	s.AttachTo(w, item, actor)
	s.log.Debug("picked up", "item", item, "actor", actor)
	s.hooksFor(w, item, p).OnPicked(HookContext{World: w, Item: item, Actor: actor})
	return true
}

// AttachTo parents item to the first target the resolver chain yields (the
// actor itself when none does), then snaps it to the configured offset with
// zero local rotation.
func (s *PickupSystem) AttachTo(w *ecs.World, item, actor ecs.Entity) {
	p, ok := ecs.Get(w, item, component.PickupComponent.Kind())
	if !ok {
		return
	}

	parent := actor
	for _, r := range s.resolvers {
		if target, ok := r.Resolve(w, actor, p); ok {
			parent = target
			break
		}
	}

	if err := w.Reparent(item, parent); err != nil {
		s.log.Error("pickup: reparent failed", "item", item, "parent", parent, "err", err)
		return
	}

	t, ok := ecs.Get(w, item, component.TransformComponent.Kind())
	if !ok {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	t.X = p.OffsetX
	t.Y = p.OffsetY
	t.Rotation = 0
	_ = ecs.Add(w, item, component.TransformComponent.Kind(), t)
}

// PutDown releases item from actor. Only the current owner can put an item
// down; any other call returns false without touching state.
func (s *PickupSystem) PutDown(w *ecs.World, item, actor ecs.Entity, dropX, dropY float64, reactivateTrigger bool) bool {
	p, ok := ecs.Get(w, item, component.PickupComponent.Kind())
	if !ok || !p.Picked || p.Owner != component.EntityRef(actor) {
		return false
	}

	parent := dropParent(w, item, actor)
	if err := w.Reparent(item, parent); err != nil {
		s.log.Error("pickup: reparent on put down failed", "item", item, "parent", parent, "err", err)
	}
	ax, ay := w.WorldPosition(actor)
	if err := w.SetWorldPosition(item, ax+dropX, ay+dropY); err != nil {
		s.log.Error("pickup: place on put down failed", "item", item, "err", err)
	}

	p.Picked = false
	p.Owner = 0
	p.Focused = 0
	p.Overlapping = nil

	hooks := s.hooksFor(w, item, p)
	ctx := HookContext{World: w, Item: item, Actor: actor}
	if reactivateTrigger {
		if tv, ok := ecs.Get(w, ecs.Entity(p.Trigger), component.TriggerVolumeComponent.Kind()); ok {
			tv.Apply(p.Saved)
		}
		ref := component.EntityRef(actor)
		p.Overlapping = []component.EntityRef{ref}
		p.Focused = ref
		hooks.OnActorEnter(ctx)
	}

	s.log.Debug("put down", "item", item, "actor", actor, "parent", parent)
	hooks.OnPutDown(ctx)
	return true
}

// releaseOrphan frees an item whose owner was destroyed while holding it.
// The item keeps its world position, its trigger config is restored and
// OnPutDown runs with the stale owner handle as the actor.
func (s *PickupSystem) releaseOrphan(w *ecs.World, item ecs.Entity, p *component.Pickup) {
	owner := ecs.Entity(p.Owner)
	x, y := w.WorldPosition(item)

	parent := dropParent(w, item, owner)
	if !w.IsAlive(parent) {
		parent = 0
	}
	if err := w.Reparent(item, parent); err != nil {
		s.log.Error("pickup: reparent orphaned item failed", "item", item, "parent", parent, "err", err)
	}
	if err := w.SetWorldPosition(item, x, y); err != nil {
		s.log.Error("pickup: place orphaned item failed", "item", item, "err", err)
	}

	p.Picked = false
	p.Owner = 0
	p.Focused = 0
	p.Overlapping = nil
	if tv, ok := ecs.Get(w, ecs.Entity(p.Trigger), component.TriggerVolumeComponent.Kind()); ok {
		tv.Apply(p.Saved)
	}

	s.log.Debug("owner gone, item released", "item", item, "owner", owner, "parent", parent)
	s.hooksFor(w, item, p).OnPutDown(HookContext{World: w, Item: item, Actor: owner})
}

// dropParent prefers the scene root, then the actor's parent, then the
// item's current parent, then the actor.
func dropParent(w *ecs.World, item, actor ecs.Entity) ecs.Entity {
	if root, ok := w.SceneRoot(); ok && root != item {
		return root
	}
	if p, ok := w.Parent(actor); ok && p != item {
		return p
	}
	if p, ok := w.Parent(item); ok {
		return p
	}
	return actor
}

// focusedActor returns the focused actor if the weak reference is still
// alive.
func focusedActor(w *ecs.World, p *component.Pickup) (ecs.Entity, bool) {
	if p.Focused.Empty() {
		return 0, false
	}
	actor := ecs.Entity(p.Focused)
	if !w.IsAlive(actor) {
		p.Focused = 0
		return 0, false
	}
	return actor, true
}

func removeRef(refs []component.EntityRef, ref component.EntityRef) []component.EntityRef {
	out := refs[:0]
	for _, r := range refs {
		if r != ref {
			out = append(out, r)
		}
	}
	return out
}
