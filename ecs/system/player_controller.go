package system

import (
	"github.com/milk9111/carry/ecs"
	"github.com/milk9111/carry/ecs/component"
)

const (
	playerMoveSpeed = 180.0
	frameDT         = 1.0 / 60.0
)

// PlayerMoveSystem walks player actors horizontally from their Input.
type PlayerMoveSystem struct{}

func NewPlayerMoveSystem() *PlayerMoveSystem {
	return &PlayerMoveSystem{}
}

func (p *PlayerMoveSystem) Update(w *ecs.World) {
	if w == nil {
		return
	}

	ecs.ForEach3(w,
		component.PlayerComponent.Kind(),
		component.InputComponent.Kind(),
		component.TransformComponent.Kind(),
		func(e ecs.Entity, player *component.Player, input *component.Input, t *component.Transform) {
			speed := player.MoveSpeed
			if speed <= 0 {
				speed = playerMoveSpeed
			}
			t.X += input.MoveX * speed * frameDT
		})
}
