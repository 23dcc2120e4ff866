package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/carry/ecs"
	"github.com/milk9111/carry/ecs/component"
)

func addTrigger(t *testing.T, w *ecs.World, x, y float64, mask uint32) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}))
	require.NoError(t, ecs.Add(w, e, component.TriggerVolumeComponent.Kind(), &component.TriggerVolume{
		Width: 32, Height: 32, Monitoring: true, Monitorable: true, Layer: 1, Mask: mask,
	}))
	return e
}

func addBody(t *testing.T, w *ecs.World, x, y float64) ecs.Entity {
	t.Helper()
	e := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, e, component.TransformComponent.Kind(), &component.Transform{X: x, Y: y, ScaleX: 1, ScaleY: 1}))
	require.NoError(t, ecs.Add(w, e, component.PhysicsBodyComponent.Kind(), &component.PhysicsBody{Width: 16, Height: 16, Layer: 1}))
	return e
}

func drainTriggerEvents(w *ecs.World) []ecs.TriggerEvent {
	var out []ecs.TriggerEvent
	for _, evt := range w.Events().DrainType(ecs.TriggerEventType) {
		if te, ok := evt.Data.(ecs.TriggerEvent); ok {
			out = append(out, te)
		}
	}
	return out
}

func moveTo(t *testing.T, w *ecs.World, e ecs.Entity, x, y float64) {
	t.Helper()
	require.NoError(t, w.SetWorldPosition(e, x, y))
}

func TestTriggerSystemEnterAndExit(t *testing.T) {
	w := ecs.NewWorld()
	ts := NewTriggerSystem()
	trigger := addTrigger(t, w, 100, 100, 1)
	body := addBody(t, w, 100, 100)

	ts.Update(w)
	events := drainTriggerEvents(w)
	require.Len(t, events, 1)
	assert.Equal(t, ecs.TriggerEvent{Trigger: trigger, Body: body, Kind: ecs.TriggerEnter}, events[0])

	ts.Update(w)
	assert.Empty(t, drainTriggerEvents(w), "staying inside must not repeat enter")

	moveTo(t, w, body, 400, 100)
	ts.Update(w)
	events = drainTriggerEvents(w)
	require.Len(t, events, 1)
	assert.Equal(t, ecs.TriggerExit, events[0].Kind)
	assert.Equal(t, body, events[0].Body)
}

func TestTriggerSystemIgnoresMaskedBodies(t *testing.T) {
	tests := []struct {
		name       string
		mask       uint32
		monitoring bool
	}{
		{name: "zero mask", mask: 0, monitoring: true},
		{name: "other layer", mask: 4, monitoring: true},
		{name: "not monitoring", mask: 1, monitoring: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := ecs.NewWorld()
			ts := NewTriggerSystem()
			trigger := addTrigger(t, w, 0, 0, tt.mask)
			tv, _ := ecs.Get(w, trigger, component.TriggerVolumeComponent.Kind())
			tv.Monitoring = tt.monitoring
			addBody(t, w, 0, 0)

			ts.Update(w)
			assert.Empty(t, drainTriggerEvents(w))
		})
	}
}

func TestTriggerSystemDisableReportsExit(t *testing.T) {
	w := ecs.NewWorld()
	ts := NewTriggerSystem()
	trigger := addTrigger(t, w, 0, 0, 1)
	addBody(t, w, 0, 0)

	ts.Update(w)
	require.Len(t, drainTriggerEvents(w), 1)

	tv, _ := ecs.Get(w, trigger, component.TriggerVolumeComponent.Kind())
	saved := tv.Config()
	tv.Disable()
	ts.Update(w)
	events := drainTriggerEvents(w)
	require.Len(t, events, 1)
	assert.Equal(t, ecs.TriggerExit, events[0].Kind)

	tv.Apply(saved)
	ts.Update(w)
	events = drainTriggerEvents(w)
	require.Len(t, events, 1)
	assert.Equal(t, ecs.TriggerEnter, events[0].Kind)
}

func TestTriggerSystemDestroyedBodyExits(t *testing.T) {
	w := ecs.NewWorld()
	ts := NewTriggerSystem()
	addTrigger(t, w, 0, 0, 1)
	body := addBody(t, w, 0, 0)

	ts.Update(w)
	require.Len(t, drainTriggerEvents(w), 1)

	require.True(t, ecs.DestroyEntity(w, body))
	ts.Update(w)
	events := drainTriggerEvents(w)
	require.Len(t, events, 1)
	assert.Equal(t, ecs.TriggerExit, events[0].Kind)
	assert.Equal(t, body, events[0].Body)
}

func TestTriggerFollowsParent(t *testing.T) {
	w := ecs.NewWorld()
	ts := NewTriggerSystem()
	item := ecs.CreateEntity(w)
	require.NoError(t, ecs.Add(w, item, component.TransformComponent.Kind(), &component.Transform{X: 300, Y: 0, ScaleX: 1, ScaleY: 1}))
	trigger := addTrigger(t, w, 0, 0, 1)
	require.NoError(t, w.SetParent(trigger, item))
	addBody(t, w, 300, 0)

	ts.Update(w)
	events := drainTriggerEvents(w)
	require.Len(t, events, 1)
	assert.Equal(t, trigger, events[0].Trigger)
}
