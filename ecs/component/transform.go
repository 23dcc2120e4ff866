package component

// Transform is relative to the entity's parent in the scene hierarchy. A
// zero scale is treated as 1.
type Transform struct {
	X        float64
	Y        float64
	ScaleX   float64
	ScaleY   float64
	Rotation float64
}

var TransformComponent = NewComponent[Transform]()
