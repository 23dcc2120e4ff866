package component

import "image/color"

// Highlight outlines an entity while Active, e.g. a pickup an actor can
// currently reach.
type Highlight struct {
	Active bool
	Color  color.Color
}

var HighlightComponent = NewComponent[Highlight]()
