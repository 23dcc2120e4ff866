package component

// Input stores per-frame input state for an entity. The *Pressed fields are
// edge-triggered: true only on the frame the action was pressed.
type Input struct {
	MoveX         float64
	PickupPressed bool
	DropPressed   bool
}

var InputComponent = NewComponent[Input]()
