package system

import (
	"math"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/inpututil"

	"github.com/milk9111/carry/ecs"
	"github.com/milk9111/carry/ecs/component"
)

// InputSource reports the current frame's player input.
type InputSource interface {
	MoveX() float64
	// PickupJustPressed and DropJustPressed are true only on the frame the
	// action was pressed.
	PickupJustPressed() bool
	DropJustPressed() bool
}

// EbitenInput reads keyboard and the first gamepad.
type EbitenInput struct{}

const stickDeadzone = 0.2

func (EbitenInput) MoveX() float64 {
	moveX := 0.0
	if ebiten.IsKeyPressed(ebiten.KeyA) || ebiten.IsKeyPressed(ebiten.KeyArrowLeft) {
		moveX -= 1
	}
	if ebiten.IsKeyPressed(ebiten.KeyD) || ebiten.IsKeyPressed(ebiten.KeyArrowRight) {
		moveX += 1
	}
	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		leftX := ebiten.StandardGamepadAxisValue(gamepads[0], ebiten.StandardGamepadAxisLeftStickHorizontal)
		if math.Abs(leftX) > stickDeadzone {
			moveX = leftX
		}
	}
	return moveX
}

func (EbitenInput) PickupJustPressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyE) {
		return true
	}
	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		return inpututil.IsStandardGamepadButtonJustPressed(gamepads[0], ebiten.StandardGamepadButtonRightBottom)
	}
	return false
}

func (EbitenInput) DropJustPressed() bool {
	if inpututil.IsKeyJustPressed(ebiten.KeyQ) {
		return true
	}
	if gamepads := ebiten.GamepadIDs(); len(gamepads) > 0 {
		return inpututil.IsStandardGamepadButtonJustPressed(gamepads[0], ebiten.StandardGamepadButtonRightRight)
	}
	return false
}

// InputSystem copies the source's state into every Input component. Only
// player-tagged entities receive button presses.
type InputSystem struct {
	source InputSource
}

func NewInputSystem(source InputSource) *InputSystem {
	if source == nil {
		source = EbitenInput{}
	}
	return &InputSystem{source: source}
}

func (i *InputSystem) Update(w *ecs.World) {
	if i == nil || w == nil {
		return
	}

	moveX := i.source.MoveX()
	pickup := i.source.PickupJustPressed()
	drop := i.source.DropJustPressed()

	ecs.ForEach(w, component.InputComponent.Kind(), func(e ecs.Entity, input *component.Input) {
		if !ecs.Has(w, e, component.PlayerTagComponent.Kind()) {
			*input = component.Input{}
			return
		}
		input.MoveX = moveX
		input.PickupPressed = pickup
		input.DropPressed = drop
	})
}
