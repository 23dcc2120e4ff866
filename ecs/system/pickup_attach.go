package system

import (
	"log/slog"

	"github.com/milk9111/carry/ecs"
	"github.com/milk9111/carry/ecs/component"
)

// skeletonNodeName is the conventional child name of an actor's rig.
const skeletonNodeName = "Skeleton"

// skeletonSearchDepth bounds the shallow pass when looking for a rig that is
// not named "Skeleton".
const skeletonSearchDepth = 2

// AttachResolver picks the entity a held item should be parented to. The
// first resolver that reports ok wins.
type AttachResolver interface {
	Resolve(w *ecs.World, actor ecs.Entity, p *component.Pickup) (ecs.Entity, bool)
}

// DefaultAttachResolvers tries the socket bone, then the socket path, then
// the actor itself.
func DefaultAttachResolvers(log *slog.Logger) []AttachResolver {
	if log == nil {
		log = slog.Default()
	}
	return []AttachResolver{
		BoneResolver{Log: log},
		PathResolver{Log: log},
		ActorResolver{},
	}
}

// BoneResolver finds SocketBone under the actor's skeleton.
type BoneResolver struct {
	Log *slog.Logger
}

func (r BoneResolver) Resolve(w *ecs.World, actor ecs.Entity, p *component.Pickup) (ecs.Entity, bool) {
	if p == nil || p.SocketBone == "" {
		return 0, false
	}
	skeleton, ok := findSkeleton(w, actor)
	if !ok {
		r.logger().Warn("pickup: actor has no skeleton, skipping socket bone",
			"actor", actor, "bone", p.SocketBone)
		return 0, false
	}
	bone, ok := w.FindDescendant(skeleton, func(e ecs.Entity) bool {
		return w.NameOf(e) == p.SocketBone
	}, -1)
	if !ok {
		r.logger().Warn("pickup: socket bone not found",
			"actor", actor, "skeleton", skeleton, "bone", p.SocketBone)
		return 0, false
	}
	return bone, true
}

func (r BoneResolver) logger() *slog.Logger {
	if r.Log == nil {
		return slog.Default()
	}
	return r.Log
}

func findSkeleton(w *ecs.World, actor ecs.Entity) (ecs.Entity, bool) {
	if child, ok := w.FindChild(actor, skeletonNodeName); ok {
		return child, true
	}
	isSkeleton := func(e ecs.Entity) bool {
		return e != actor && ecs.Has(w, e, component.SkeletonComponent.Kind())
	}
	if e, ok := w.FindDescendant(actor, isSkeleton, skeletonSearchDepth); ok {
		return e, true
	}
	return w.FindDescendant(actor, isSkeleton, -1)
}

// PathResolver resolves SocketPath relative to the actor.
type PathResolver struct {
	Log *slog.Logger
}

func (r PathResolver) Resolve(w *ecs.World, actor ecs.Entity, p *component.Pickup) (ecs.Entity, bool) {
	if p == nil || p.SocketPath == "" {
		return 0, false
	}
	target, ok := w.FindPath(actor, p.SocketPath)
	if !ok {
		log := r.Log
		if log == nil {
			log = slog.Default()
		}
		log.Warn("pickup: socket path not found", "actor", actor, "path", p.SocketPath)
		return 0, false
	}
	return target, true
}

// ActorResolver always yields the actor.
type ActorResolver struct{}

func (ActorResolver) Resolve(w *ecs.World, actor ecs.Entity, _ *component.Pickup) (ecs.Entity, bool) {
	return actor, w.IsAlive(actor)
}
