package system

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/milk9111/carry/ecs"
	"github.com/milk9111/carry/ecs/component"
)

type fakeInput struct {
	moveX        float64
	pickup, drop bool
}

func (f *fakeInput) MoveX() float64          { return f.moveX }
func (f *fakeInput) PickupJustPressed() bool { return f.pickup }
func (f *fakeInput) DropJustPressed() bool   { return f.drop }

func TestInputSystemWritesPlayerInput(t *testing.T) {
	w := ecs.NewWorld()
	player := w.CreateEntity()
	require.NoError(t, ecs.Add(w, player, component.PlayerTagComponent.Kind(), &component.PlayerTag{}))
	require.NoError(t, ecs.Add(w, player, component.InputComponent.Kind(), &component.Input{}))
	npc := w.CreateEntity()
	require.NoError(t, ecs.Add(w, npc, component.InputComponent.Kind(), &component.Input{PickupPressed: true}))

	src := &fakeInput{moveX: -1, pickup: true}
	sys := NewInputSystem(src)
	sys.Update(w)

	in, _ := ecs.Get(w, player, component.InputComponent.Kind())
	assert.Equal(t, component.Input{MoveX: -1, PickupPressed: true}, *in)
	other, _ := ecs.Get(w, npc, component.InputComponent.Kind())
	assert.Equal(t, component.Input{}, *other)

	src.pickup = false
	src.drop = true
	sys.Update(w)
	assert.False(t, in.PickupPressed, "presses last one frame")
	assert.True(t, in.DropPressed)
}

func TestPlayerMoveSystem(t *testing.T) {
	w := ecs.NewWorld()
	player := w.CreateEntity()
	require.NoError(t, ecs.Add(w, player, component.PlayerComponent.Kind(), &component.Player{MoveSpeed: 120}))
	require.NoError(t, ecs.Add(w, player, component.InputComponent.Kind(), &component.Input{MoveX: 1}))
	require.NoError(t, ecs.Add(w, player, component.TransformComponent.Kind(), &component.Transform{X: 10, ScaleX: 1, ScaleY: 1}))

	NewPlayerMoveSystem().Update(w)

	tr, _ := ecs.Get(w, player, component.TransformComponent.Kind())
	assert.InDelta(t, 12.0, tr.X, 1e-9)
}
