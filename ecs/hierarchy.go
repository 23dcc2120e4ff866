package ecs

import (
	"fmt"
	"math"
	"strings"

	"github.com/milk9111/carry/ecs/component"
)

// SetParent attaches child under parent, detaching it from any previous
// parent. A zero parent only detaches. Cycles are rejected.
func (w *World) SetParent(child, parent Entity) error {
	if w == nil {
		return fmt.Errorf("set parent: world is nil")
	}
	if !w.IsAlive(child) {
		return fmt.Errorf("set parent of %s: %w", child, component.ErrEntityNotAlive)
	}
	if parent != 0 {
		if !w.IsAlive(parent) {
			return fmt.Errorf("set parent of %s to %s: %w", child, parent, component.ErrEntityNotAlive)
		}
		for p := parent; p != 0; p = w.parents[p] {
			if p == child {
				return fmt.Errorf("set parent of %s to %s: would create a cycle", child, parent)
			}
		}
	}
	w.detach(child)
	if parent == 0 {
		return nil
	}
	w.parents[child] = parent
	w.children[parent] = append(w.children[parent], child)
	return nil
}

func (w *World) detach(child Entity) {
	parent, ok := w.parents[child]
	if !ok {
		return
	}
	delete(w.parents, child)
	siblings := w.children[parent]
	for i, s := range siblings {
		if s == child {
			siblings = append(siblings[:i], siblings[i+1:]...)
			break
		}
	}
	if len(siblings) == 0 {
		delete(w.children, parent)
		return
	}
	w.children[parent] = siblings
}

// Parent returns e's parent, if any.
func (w *World) Parent(e Entity) (Entity, bool) {
	if w == nil {
		return 0, false
	}
	p, ok := w.parents[e]
	if !ok || !w.IsAlive(p) {
		return 0, false
	}
	return p, true
}

// Children returns a copy of e's children in insertion order.
func (w *World) Children(e Entity) []Entity {
	if w == nil {
		return nil
	}
	return append([]Entity(nil), w.children[e]...)
}

// SetSceneRoot marks e as the active scene root.
func (w *World) SetSceneRoot(e Entity) {
	if w == nil {
		return
	}
	w.sceneRoot = e
}

// SceneRoot returns the active scene root if it is alive.
func (w *World) SceneRoot() (Entity, bool) {
	if w == nil || !w.IsAlive(w.sceneRoot) {
		return 0, false
	}
	return w.sceneRoot, true
}

// NameOf returns e's Name component value, or "".
func (w *World) NameOf(e Entity) string {
	if n, ok := Get(w, e, component.NameComponent.Kind()); ok {
		return n.Value
	}
	return ""
}

// FindChild returns the first direct child of e named name.
func (w *World) FindChild(e Entity, name string) (Entity, bool) {
	if w == nil || name == "" {
		return 0, false
	}
	for _, child := range w.children[e] {
		if w.NameOf(child) == name {
			return child, true
		}
	}
	return 0, false
}

// FindPath resolves a slash separated path of names relative to from. "."
// and ".." are supported; a leading "/" starts at the scene root.
func (w *World) FindPath(from Entity, path string) (Entity, bool) {
	if w == nil || path == "" {
		return 0, false
	}
	cur := from
	if strings.HasPrefix(path, "/") {
		root, ok := w.SceneRoot()
		if !ok {
			return 0, false
		}
		cur = root
		path = strings.TrimLeft(path, "/")
		if path == "" {
			return cur, true
		}
	}
	if !w.IsAlive(cur) {
		return 0, false
	}
	for _, part := range strings.Split(path, "/") {
		switch part {
		case "", ".":
			continue
		case "..":
			p, ok := w.Parent(cur)
			if !ok {
				return 0, false
			}
			cur = p
		default:
			next, ok := w.FindChild(cur, part)
			if !ok {
				return 0, false
			}
			cur = next
		}
	}
	return cur, true
}

// FindDescendant walks e's subtree breadth first and returns the first
// entity matching pred. maxDepth limits the walk (1 = direct children);
// a negative maxDepth is unlimited.
func (w *World) FindDescendant(e Entity, pred func(Entity) bool, maxDepth int) (Entity, bool) {
	if w == nil || pred == nil {
		return 0, false
	}
	level := w.Children(e)
	for depth := 1; len(level) > 0; depth++ {
		if maxDepth >= 0 && depth > maxDepth {
			break
		}
		var next []Entity
		for _, c := range level {
			if pred(c) {
				return c, true
			}
			next = append(next, w.children[c]...)
		}
		level = next
	}
	return 0, false
}

func scaleOrOne(s float64) float64 {
	if s == 0 {
		return 1
	}
	return s
}

func localTransform(w *World, e Entity) component.Transform {
	if t, ok := Get(w, e, component.TransformComponent.Kind()); ok {
		return *t
	}
	return component.Transform{ScaleX: 1, ScaleY: 1}
}

// WorldTransform composes e's transform with its ancestors'. Entities
// without a Transform contribute the identity.
func (w *World) WorldTransform(e Entity) component.Transform {
	local := localTransform(w, e)
	local.ScaleX = scaleOrOne(local.ScaleX)
	local.ScaleY = scaleOrOne(local.ScaleY)
	parent, ok := w.Parent(e)
	if !ok {
		return local
	}
	pt := w.WorldTransform(parent)
	sin, cos := math.Sincos(pt.Rotation)
	lx := local.X * pt.ScaleX
	ly := local.Y * pt.ScaleY
	return component.Transform{
		X:        pt.X + cos*lx - sin*ly,
		Y:        pt.Y + sin*lx + cos*ly,
		ScaleX:   pt.ScaleX * local.ScaleX,
		ScaleY:   pt.ScaleY * local.ScaleY,
		Rotation: pt.Rotation + local.Rotation,
	}
}

// WorldPosition returns e's position in scene coordinates.
func (w *World) WorldPosition(e Entity) (float64, float64) {
	t := w.WorldTransform(e)
	return t.X, t.Y
}

// SetWorldPosition moves e so its world position is (x, y), keeping its
// local rotation and scale.
func (w *World) SetWorldPosition(e Entity, x, y float64) error {
	if !w.IsAlive(e) {
		return fmt.Errorf("set world position of %s: %w", e, component.ErrEntityNotAlive)
	}
	t, ok := Get(w, e, component.TransformComponent.Kind())
	if !ok {
		t = &component.Transform{ScaleX: 1, ScaleY: 1}
	}
	pt := component.Transform{ScaleX: 1, ScaleY: 1}
	if parent, ok := w.Parent(e); ok {
		pt = w.WorldTransform(parent)
	}
	dx := x - pt.X
	dy := y - pt.Y
	sin, cos := math.Sincos(pt.Rotation)
	t.X = (cos*dx + sin*dy) / pt.ScaleX
	t.Y = (-sin*dx + cos*dy) / pt.ScaleY
	return Add(w, e, component.TransformComponent.Kind(), t)
}

// Reparent moves e under parent, keeping its local transform, which is what
// the scene graph does when a node is removed and re-added elsewhere.
func (w *World) Reparent(e, parent Entity) error {
	return w.SetParent(e, parent)
}
