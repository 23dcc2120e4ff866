package component

import "github.com/jakecoffman/cp"

// PhysicsBody is an actor's overlap body. Body and Shape are owned by the
// trigger system and filled in once the body is mirrored into its space.
type PhysicsBody struct {
	Body    *cp.Body
	Shape   *cp.Shape
	Width   float64
	Height  float64
	OffsetX float64
	OffsetY float64
	// Layer is the collision category bitmask. Zero means layer 1.
	Layer uint32
}

var PhysicsBodyComponent = NewComponent[PhysicsBody]()
