package entity

import (
	"fmt"
	"sort"

	"github.com/milk9111/carry/ecs"
	"github.com/milk9111/carry/ecs/component"
	"github.com/milk9111/carry/ecs/system"
	"github.com/milk9111/carry/prefabs"
)

type buildContext struct {
	PrefabPath string
}

type componentBuildFn func(w *ecs.World, e ecs.Entity, raw any, ctx *buildContext) error

var componentRegistry = map[string]componentBuildFn{
	"name":           addName,
	"scene_root":     addSceneRootTag,
	"player_tag":     addPlayerTag,
	"actor":          addActorTag,
	"player":         addPlayer,
	"input":          addInput,
	"transform":      addTransform,
	"sprite":         addSprite,
	"render_layer":   addRenderLayer,
	"highlight":      addHighlight,
	"physics_body":   addPhysicsBody,
	"skeleton":       addSkeleton,
	"bone":           addBone,
	"trigger_volume": addTriggerVolume,
	"pickup":         addPickup,
}

var componentBuildOrder = []string{
	"name",
	"scene_root",
	"player_tag",
	"actor",
	"player",
	"input",
	"transform",
	"sprite",
	"render_layer",
	"highlight",
	"physics_body",
	"skeleton",
	"bone",
	"trigger_volume",
	"pickup",
}

// BuildEntity instances a prefab and its children, then validates every
// pickup in the new subtree. A pickup whose trigger cannot be resolved is
// a configuration error and nothing is left in the world.
func BuildEntity(w *ecs.World, prefabPath string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("build entity: world is nil")
	}

	spec, err := prefabs.LoadEntityBuildSpec(prefabPath)
	if err != nil {
		return 0, fmt.Errorf("build entity: load %q: %w", prefabPath, err)
	}
	if len(spec.Components) == 0 && len(spec.Children) == 0 {
		return 0, fmt.Errorf("build entity: prefab %q does not define components", prefabPath)
	}

	return BuildEntityFromSpec(w, spec, prefabPath)
}

// BuildEntityFromSpec is BuildEntity for an already decoded prefab.
func BuildEntityFromSpec(w *ecs.World, spec prefabs.EntityBuildSpec, prefabPath string) (ecs.Entity, error) {
	ctx := &buildContext{PrefabPath: prefabPath}
	e, err := buildTree(w, spec, ctx)
	if err != nil {
		return 0, err
	}
	if err := validatePickups(w, e); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, fmt.Errorf("build entity: %q: %w", prefabPath, err)
	}
	return e, nil
}

func buildTree(w *ecs.World, spec prefabs.EntityBuildSpec, ctx *buildContext) (ecs.Entity, error) {
	e := ecs.CreateEntity(w)

	if spec.Name != "" {
		if err := addName(w, e, spec.Name, ctx); err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: add name: %w", ctx.PrefabPath, err)
		}
	}

	if err := addComponents(w, e, spec.Components, ctx); err != nil {
		ecs.DestroyEntity(w, e)
		return 0, err
	}

	for i, childSpec := range spec.Children {
		child, err := buildTree(w, childSpec, ctx)
		if err != nil {
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("child %d: %w", i, err)
		}
		if err := w.SetParent(child, e); err != nil {
			ecs.DestroyEntity(w, child)
			ecs.DestroyEntity(w, e)
			return 0, fmt.Errorf("build entity: %q: attach child %d: %w", ctx.PrefabPath, i, err)
		}
	}

	return e, nil
}

func addComponents(w *ecs.World, e ecs.Entity, components map[string]any, ctx *buildContext) error {
	remaining := make(map[string]any, len(components))
	for k, v := range components {
		remaining[k] = v
	}

	for _, name := range componentBuildOrder {
		raw, ok := remaining[name]
		if !ok {
			continue
		}
		if err := componentRegistry[name](w, e, raw, ctx); err != nil {
			return fmt.Errorf("build entity: %q: add %q: %w", ctx.PrefabPath, name, err)
		}
		delete(remaining, name)
	}

	if len(remaining) > 0 {
		names := make([]string, 0, len(remaining))
		for name := range remaining {
			names = append(names, name)
		}
		sort.Strings(names)
		return fmt.Errorf("build entity: %q: no builder for component %q", ctx.PrefabPath, names[0])
	}

	return nil
}

func validatePickups(w *ecs.World, root ecs.Entity) error {
	var walk func(e ecs.Entity) error
	walk = func(e ecs.Entity) error {
		if p, ok := ecs.Get(w, e, component.PickupComponent.Kind()); ok {
			if _, err := system.ResolvePickupTrigger(w, e, p); err != nil {
				return fmt.Errorf("pickup %q: %w", w.NameOf(e), err)
			}
			if _, err := system.NewPickupHooks(w, e, p, nil); err != nil {
				return fmt.Errorf("pickup %q: %w", w.NameOf(e), err)
			}
		}
		for _, child := range w.Children(e) {
			if err := walk(child); err != nil {
				return err
			}
		}
		return nil
	}
	return walk(root)
}

func SetEntityTransform(w *ecs.World, e ecs.Entity, x, y, rotation float64) error {
	t, ok := ecs.Get(w, e, component.TransformComponent.Kind())
	if !ok || t == nil {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	t.X = x
	t.Y = y
	t.Rotation = rotation
	return ecs.Add(w, e, component.TransformComponent.Kind(), t)
}

func addName(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	switch v := raw.(type) {
	case string:
		return ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: v})
	default:
		spec, err := prefabs.DecodeComponentSpec[struct {
			Value string `yaml:"value"`
		}](raw)
		if err != nil {
			return err
		}
		return ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: spec.Value})
	}
}

func addSceneRootTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.SceneRootTagComponent.Kind(), &component.SceneRootTag{})
}

func addPlayerTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.PlayerTagComponent.Kind(), &component.PlayerTag{})
}

func addActorTag(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.ActorTagComponent.Kind(), &component.ActorTag{})
}

type playerSpec = prefabs.PlayerComponentSpec

func addPlayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[playerSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.PlayerComponent.Kind(), &component.Player{MoveSpeed: spec.MoveSpeed})
}

func addInput(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.InputComponent.Kind(), &component.Input{})
}

type transformSpec = prefabs.TransformComponentSpec

func addTransform(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[transformSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.TransformComponent.Kind(), transformFromSpec(spec))
}

func transformFromSpec(spec transformSpec) *component.Transform {
	t := &component.Transform{
		X:        spec.X,
		Y:        spec.Y,
		ScaleX:   spec.ScaleX,
		ScaleY:   spec.ScaleY,
		Rotation: spec.Rotation,
	}
	if t.ScaleX == 0 {
		t.ScaleX = 1
	}
	if t.ScaleY == 0 {
		t.ScaleY = 1
	}
	return t
}

type spriteSpec = prefabs.SpriteComponentSpec

func addSprite(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[spriteSpec](raw)
	if err != nil {
		return err
	}
	if spec.Width <= 0 || spec.Height <= 0 {
		return fmt.Errorf("sprite needs a positive width and height")
	}
	s := &component.Sprite{
		ImagePath: spec.Image,
		Width:     spec.Width,
		Height:    spec.Height,
		Color:     spec.Color.Color,
		OriginX:   spec.OriginX,
		OriginY:   spec.OriginY,
	}
	if spec.CenterOriginIfZero && s.OriginX == 0 && s.OriginY == 0 {
		s.OriginX = s.Width / 2
		s.OriginY = s.Height / 2
	}
	return ecs.Add(w, e, component.SpriteComponent.Kind(), s)
}

type renderLayerSpec = prefabs.RenderLayerComponentSpec

func addRenderLayer(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[renderLayerSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.RenderLayerComponent.Kind(), &component.RenderLayer{Index: spec.Index})
}

type highlightSpec = prefabs.HighlightComponentSpec

func addHighlight(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[highlightSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.HighlightComponent.Kind(), &component.Highlight{Color: spec.Color.Color})
}

type physicsBodySpec = prefabs.PhysicsBodyComponentSpec

func addPhysicsBody(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[physicsBodySpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{
		Width:   spec.Width,
		Height:  spec.Height,
		OffsetX: spec.OffsetX,
		OffsetY: spec.OffsetY,
		Layer:   spec.Layer,
	})
}

func addSkeleton(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.SkeletonComponent.Kind(), &component.Skeleton{})
}

func addBone(w *ecs.World, e ecs.Entity, _ any, _ *buildContext) error {
	return ecs.Add(w, e, component.BoneComponent.Kind(), &component.Bone{})
}

type triggerVolumeSpec = prefabs.TriggerVolumeComponentSpec

func addTriggerVolume(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[triggerVolumeSpec](raw)
	if err != nil {
		return err
	}
	return ecs.Add(w, e, component.TriggerVolumeComponent.Kind(), &component.TriggerVolume{
		Width:       spec.Width,
		Height:      spec.Height,
		OffsetX:     spec.OffsetX,
		OffsetY:     spec.OffsetY,
		Monitoring:  boolOr(spec.Monitoring, true),
		Monitorable: boolOr(spec.Monitorable, true),
		Layer:       spec.Layer,
		Mask:        spec.Mask,
	})
}

type pickupSpec = prefabs.PickupComponentSpec

func addPickup(w *ecs.World, e ecs.Entity, raw any, _ *buildContext) error {
	spec, err := prefabs.DecodeComponentSpec[pickupSpec](raw)
	if err != nil {
		return err
	}
	if spec.Variant == component.PickupVariantScript && spec.Script == "" {
		return fmt.Errorf("script variant needs a script")
	}
	return ecs.Add(w, e, component.PickupComponent.Kind(), &component.Pickup{
		TriggerPath:            spec.TriggerPath,
		DisableTriggerOnPickup: boolOr(spec.DisableTriggerOnPickup, true),
		SocketBone:             spec.SocketBone,
		SocketPath:             spec.SocketPath,
		OffsetX:                spec.OffsetX,
		OffsetY:                spec.OffsetY,
		DropOffsetX:            spec.DropOffsetX,
		DropOffsetY:            spec.DropOffsetY,
		Variant:                spec.Variant,
		Script:                 spec.Script,
	})
}

func boolOr(v *bool, def bool) bool {
	if v == nil {
		return def
	}
	return *v
}
