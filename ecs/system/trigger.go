package system

import (
	"github.com/jakecoffman/cp"
	"github.com/milk9111/carry/ecs"
	"github.com/milk9111/carry/ecs/component"
)

const (
	collisionTypeTrigger cp.CollisionType = iota + 1
	collisionTypeBody
)

// Bodies share one group so they never collide with each other; only
// trigger/body pairs produce arbiters.
const overlapBodyGroup uint = 1

const triggerStepDT = 1.0 / 60.0

// TriggerSystem mirrors trigger volumes and actor bodies into a chipmunk
// space that is used purely for overlap detection, and turns sensor
// begin/separate callbacks into TriggerEvents.
type TriggerSystem struct {
	space         *cp.Space
	handlersReady bool

	triggers map[ecs.Entity]*overlapShape
	bodies   map[ecs.Entity]*overlapShape

	triggerShapes map[*cp.Shape]ecs.Entity
	bodyShapes    map[*cp.Shape]ecs.Entity

	pending []ecs.TriggerEvent
}

type overlapShape struct {
	body   *cp.Body
	shape  *cp.Shape
	width  float64
	height float64
	filter cp.ShapeFilter
}

func NewTriggerSystem() *TriggerSystem {
	return &TriggerSystem{
		triggers:      make(map[ecs.Entity]*overlapShape),
		bodies:        make(map[ecs.Entity]*overlapShape),
		triggerShapes: make(map[*cp.Shape]ecs.Entity),
		bodyShapes:    make(map[*cp.Shape]ecs.Entity),
	}
}

func (ts *TriggerSystem) Space() *cp.Space {
	if ts == nil {
		return nil
	}
	return ts.space
}

func (ts *TriggerSystem) Update(w *ecs.World) {
	if ts == nil || w == nil {
		return
	}

	if ts.space == nil {
		ts.space = cp.NewSpace()
		ts.space.SetGravity(cp.Vector{})
		ts.handlersReady = false
	}
	ts.ensureHandlers()

	ts.cleanup(w)
	ts.syncTriggers(w)
	ts.syncBodies(w)

	ts.space.Step(triggerStepDT)

	ts.flush(w)
}

func (ts *TriggerSystem) ensureHandlers() {
	if ts.handlersReady || ts.space == nil {
		return
	}

	handler := ts.space.NewCollisionHandler(collisionTypeTrigger, collisionTypeBody)
	handler.UserData = ts
	handler.BeginFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) bool {
		sys, ok := userData.(*TriggerSystem)
		if ok && sys != nil {
			sys.record(arb, ecs.TriggerEnter)
		}
		return true
	}
	handler.SeparateFunc = func(arb *cp.Arbiter, space *cp.Space, userData interface{}) {
		sys, ok := userData.(*TriggerSystem)
		if ok && sys != nil {
			sys.record(arb, ecs.TriggerExit)
		}
	}

	ts.handlersReady = true
}

func (ts *TriggerSystem) record(arb *cp.Arbiter, kind ecs.TriggerEventKind) {
	shapeA, shapeB := arb.Shapes()
	if _, ok := ts.triggerShapes[shapeA]; !ok {
		shapeA, shapeB = shapeB, shapeA
	}
	trigger, okT := ts.triggerShapes[shapeA]
	body, okB := ts.bodyShapes[shapeB]
	if !okT || !okB {
		return
	}
	ts.pending = append(ts.pending, ecs.TriggerEvent{Trigger: trigger, Body: body, Kind: kind})
}

func (ts *TriggerSystem) flush(w *ecs.World) {
	for _, evt := range ts.pending {
		w.Events().Push(ecs.Event{Type: ecs.TriggerEventType, Data: evt})
	}
	ts.pending = ts.pending[:0]
}

func triggerFilter(t *component.TriggerVolume) cp.ShapeFilter {
	mask := uint(0)
	if t.Monitoring {
		mask = uint(t.Mask)
	}
	return cp.ShapeFilter{Group: cp.NO_GROUP, Categories: cp.ALL_CATEGORIES, Mask: mask}
}

func bodyFilter(b *component.PhysicsBody) cp.ShapeFilter {
	layer := uint(b.Layer)
	if layer == 0 {
		layer = 1
	}
	return cp.ShapeFilter{Group: overlapBodyGroup, Categories: layer, Mask: cp.ALL_CATEGORIES}
}

func (ts *TriggerSystem) syncTriggers(w *ecs.World) {
	ecs.ForEach(w, component.TriggerVolumeComponent.Kind(), func(e ecs.Entity, tv *component.TriggerVolume) {
		width, height := sizeOrDefault(tv.Width, tv.Height)
		info := ts.triggers[e]
		if info != nil && (info.width != width || info.height != height) {
			ts.removeShape(info)
			delete(ts.triggers, e)
			info = nil
		}
		if info == nil {
			body := cp.NewKinematicBody()
			shape := cp.NewBox(body, width, height, 0)
			shape.SetSensor(true)
			shape.SetCollisionType(collisionTypeTrigger)
			info = &overlapShape{body: body, shape: shape, width: width, height: height, filter: triggerFilter(tv)}
			ts.space.AddBody(body)
			ts.space.AddShape(shape)
			shape.SetFilter(info.filter)
			ts.triggers[e] = info
			ts.triggerShapes[shape] = e
		}

		if f := triggerFilter(tv); f != info.filter {
			info.filter = f
			info.shape.SetFilter(f)
		}

		x, y := w.WorldPosition(e)
		info.body.SetPosition(cp.Vector{X: x + tv.OffsetX, Y: y + tv.OffsetY})
		tv.Body = info.body
		tv.Shape = info.shape
	})
}

func (ts *TriggerSystem) syncBodies(w *ecs.World) {
	ecs.ForEach(w, component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody) {
		width, height := sizeOrDefault(pb.Width, pb.Height)
		info := ts.bodies[e]
		if info != nil && (info.width != width || info.height != height) {
			ts.removeShape(info)
			delete(ts.bodies, e)
			info = nil
		}
		if info == nil {
			body := cp.NewBody(1, cp.MomentForBox(1, width, height))
			shape := cp.NewBox(body, width, height, 0)
			shape.SetCollisionType(collisionTypeBody)
			info = &overlapShape{body: body, shape: shape, width: width, height: height, filter: bodyFilter(pb)}
			ts.space.AddBody(body)
			ts.space.AddShape(shape)
			shape.SetFilter(info.filter)
			ts.bodies[e] = info
			ts.bodyShapes[shape] = e
		}

		if f := bodyFilter(pb); f != info.filter {
			info.filter = f
			info.shape.SetFilter(f)
		}

		x, y := w.WorldPosition(e)
		info.body.SetPosition(cp.Vector{X: x + pb.OffsetX, Y: y + pb.OffsetY})
		info.body.SetVelocityVector(cp.Vector{})
		info.body.SetAngularVelocity(0)
		info.body.SetAngle(0)
		pb.Body = info.body
		pb.Shape = info.shape
	})
}

// cleanup drops shapes whose entity died or lost its component. Removing a
// shape separates its arbiters, so exits are reported for destroyed bodies.
func (ts *TriggerSystem) cleanup(w *ecs.World) {
	for e, info := range ts.triggers {
		if ecs.Has(w, e, component.TriggerVolumeComponent.Kind()) {
			continue
		}
		ts.removeShape(info)
		delete(ts.triggers, e)
	}
	for e, info := range ts.bodies {
		if ecs.Has(w, e, component.PhysicsBodyComponent.Kind()) {
			continue
		}
		ts.removeShape(info)
		delete(ts.bodies, e)
	}
}

func (ts *TriggerSystem) removeShape(info *overlapShape) {
	if info == nil || ts.space == nil {
		return
	}
	if info.shape != nil {
		ts.space.RemoveShape(info.shape)
		delete(ts.triggerShapes, info.shape)
		delete(ts.bodyShapes, info.shape)
	}
	if info.body != nil {
		ts.space.RemoveBody(info.body)
	}
}

func sizeOrDefault(width, height float64) (float64, float64) {
	if width <= 0 || height <= 0 {
		return 32, 32
	}
	return width, height
}
