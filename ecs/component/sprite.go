package component

import (
	"image/color"

	"github.com/hajimehoshi/ebiten/v2"
)

// Sprite draws Image stretched to Width x Height, or a box of Color when
// there is no image. ImagePath is resolved into Image on first draw.
type Sprite struct {
	ImagePath string
	Image     *ebiten.Image
	Width     float64
	Height    float64
	Color     color.Color
	OriginX   float64
	OriginY   float64
}

var SpriteComponent = NewComponent[Sprite]()
