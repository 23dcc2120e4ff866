package entity

import (
	"fmt"

	"github.com/milk9111/carry/ecs"
	"github.com/milk9111/carry/ecs/component"
	"github.com/milk9111/carry/prefabs"
)

// LoadSceneToWorld builds a scene prefab: a root entity, which becomes the
// world's scene root, with every listed prefab instanced beneath it.
func LoadSceneToWorld(w *ecs.World, sceneName string) (ecs.Entity, error) {
	if w == nil {
		return 0, fmt.Errorf("load scene: world is nil")
	}
	spec, err := prefabs.LoadSceneSpec(sceneName)
	if err != nil {
		return 0, fmt.Errorf("load scene %q: %w", sceneName, err)
	}
	return BuildScene(w, spec)
}

// BuildScene instances spec into w. On error nothing built so far is left
// in the world.
func BuildScene(w *ecs.World, spec prefabs.SceneSpec) (ecs.Entity, error) {
	root := ecs.CreateEntity(w)
	name := spec.Name
	if name == "" {
		name = "Scene"
	}
	if err := ecs.Add(w, root, component.NameComponent.Kind(), &component.Name{Value: name}); err != nil {
		ecs.DestroyEntity(w, root)
		return 0, err
	}
	if err := ecs.Add(w, root, component.SceneRootTagComponent.Kind(), &component.SceneRootTag{}); err != nil {
		ecs.DestroyEntity(w, root)
		return 0, err
	}
	if err := ecs.Add(w, root, component.TransformComponent.Kind(), &component.Transform{ScaleX: 1, ScaleY: 1}); err != nil {
		ecs.DestroyEntity(w, root)
		return 0, err
	}

	named := make(map[string]ecs.Entity, len(spec.Entities))
	for i, entSpec := range spec.Entities {
		e, err := BuildEntity(w, entSpec.Prefab)
		if err != nil {
			ecs.DestroyEntity(w, root)
			return 0, fmt.Errorf("scene %q: entity %d: %w", name, i, err)
		}

		parent := root
		if entSpec.Parent != "" {
			p, ok := named[entSpec.Parent]
			if !ok {
				ecs.DestroyEntity(w, e)
				ecs.DestroyEntity(w, root)
				return 0, fmt.Errorf("scene %q: entity %d: unknown parent %q", name, i, entSpec.Parent)
			}
			parent = p
		}
		if err := w.SetParent(e, parent); err != nil {
			ecs.DestroyEntity(w, e)
			ecs.DestroyEntity(w, root)
			return 0, fmt.Errorf("scene %q: entity %d: %w", name, i, err)
		}

		if entSpec.Name != "" {
			if err := ecs.Add(w, e, component.NameComponent.Kind(), &component.Name{Value: entSpec.Name}); err != nil {
				ecs.DestroyEntity(w, root)
				return 0, err
			}
		}
		if entSpec.Transform != nil {
			if err := ecs.Add(w, e, component.TransformComponent.Kind(), transformFromSpec(*entSpec.Transform)); err != nil {
				ecs.DestroyEntity(w, root)
				return 0, err
			}
		}
		if n := w.NameOf(e); n != "" {
			named[n] = e
		}
	}

	w.SetSceneRoot(root)
	return root, nil
}
