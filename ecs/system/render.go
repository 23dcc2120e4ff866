package system

import (
	"image/color"
	"log/slog"
	"sort"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"
	"golang.org/x/image/colornames"

	"github.com/milk9111/carry/ecs"
	"github.com/milk9111/carry/ecs/component"
	"github.com/milk9111/carry/ecs/render"
)

const (
	pickupPromptText     = "[E] pick up"
	highlightPulseFrames = 20
)

// RenderSystem draws sprites at their world transform, ordered by
// RenderLayer. With Debug set it also outlines trigger volumes.
type RenderSystem struct {
	Debug bool
	frame int
	log   *slog.Logger
}

func NewRenderSystem(debug bool, log *slog.Logger) *RenderSystem {
	if log == nil {
		log = slog.Default()
	}
	return &RenderSystem{Debug: debug, log: log}
}

// Update advances the highlight pulse.
func (r *RenderSystem) Update(w *ecs.World) {
	if r == nil {
		return
	}
	r.frame++
}

func (r *RenderSystem) Draw(w *ecs.World, screen *ebiten.Image) {
	if r == nil || w == nil || screen == nil {
		return
	}

	screen.Fill(colornames.Midnightblue)

	entities := w.Query(component.SpriteComponent.Kind())
	sort.SliceStable(entities, func(i, j int) bool {
		li, lj := renderLayer(w, entities[i]), renderLayer(w, entities[j])
		if li != lj {
			return li < lj
		}
		return uint64(entities[i]) < uint64(entities[j])
	})

	for _, e := range entities {
		s, ok := ecs.Get(w, e, component.SpriteComponent.Kind())
		if !ok {
			continue
		}
		t := w.WorldTransform(e)
		r.drawSprite(screen, s, t)

		if h, ok := ecs.Get(w, e, component.HighlightComponent.Kind()); ok && h.Active {
			clr := h.Color
			if clr == nil {
				clr = colornames.Gold
			}
			x := float32(t.X - s.OriginX*t.ScaleX - 2)
			y := float32(t.Y - s.OriginY*t.ScaleY - 2)
			vector.StrokeRect(screen, x, y, float32(s.Width*t.ScaleX+4), float32(s.Height*t.ScaleY+4), r.highlightWidth(), clr, false)
		}
	}

	r.drawPrompts(w, screen)

	if r.Debug {
		r.drawTriggers(w, screen)
	}
}

func (r *RenderSystem) drawSprite(screen *ebiten.Image, s *component.Sprite, t component.Transform) {
	if s.Image == nil && s.ImagePath != "" {
		img, err := render.LoadImage(s.ImagePath)
		if err != nil {
			r.log.Warn("sprite image unavailable, drawing box", "image", s.ImagePath, "err", err)
			s.ImagePath = ""
		} else {
			s.Image = img
		}
	}

	if s.Image != nil {
		op := &ebiten.DrawImageOptions{}
		if b := s.Image.Bounds(); b.Dx() > 0 && b.Dy() > 0 && s.Width > 0 && s.Height > 0 {
			op.GeoM.Scale(s.Width/float64(b.Dx()), s.Height/float64(b.Dy()))
		}
		op.GeoM.Translate(-s.OriginX, -s.OriginY)
		op.GeoM.Scale(t.ScaleX, t.ScaleY)
		op.GeoM.Rotate(t.Rotation)
		op.GeoM.Translate(t.X, t.Y)
		screen.DrawImage(s.Image, op)
		return
	}

	clr := s.Color
	if clr == nil {
		clr = colornames.White
	}
	x := float32(t.X - s.OriginX*t.ScaleX)
	y := float32(t.Y - s.OriginY*t.ScaleY)
	vector.FillRect(screen, x, y, float32(s.Width*t.ScaleX), float32(s.Height*t.ScaleY), clr, false)
}

// drawPrompts labels every free pickup the player is focused on.
func (r *RenderSystem) drawPrompts(w *ecs.World, screen *ebiten.Image) {
	ecs.ForEach(w, component.PickupComponent.Kind(), func(e ecs.Entity, p *component.Pickup) {
		if p.Picked || p.Focused.Empty() {
			return
		}
		actor := ecs.Entity(p.Focused)
		if !w.IsAlive(actor) || !ecs.Has(w, actor, component.PlayerTagComponent.Kind()) {
			return
		}
		x, y := w.WorldPosition(e)
		ebitenutil.DebugPrintAt(screen, pickupPromptText, int(x)-30, int(y)-40)
	})
}

func (r *RenderSystem) drawTriggers(w *ecs.World, screen *ebiten.Image) {
	ecs.ForEach(w, component.TriggerVolumeComponent.Kind(), func(e ecs.Entity, tv *component.TriggerVolume) {
		width, height := sizeOrDefault(tv.Width, tv.Height)
		x, y := w.WorldPosition(e)
		x += tv.OffsetX - width/2
		y += tv.OffsetY - height/2
		var clr color.Color = colornames.Limegreen
		if !tv.Monitoring || tv.Mask == 0 {
			clr = colornames.Dimgray
		}
		vector.StrokeRect(screen, float32(x), float32(y), float32(width), float32(height), 1, clr, false)
	})

	ecs.ForEach(w, component.PhysicsBodyComponent.Kind(), func(e ecs.Entity, pb *component.PhysicsBody) {
		width, height := sizeOrDefault(pb.Width, pb.Height)
		x, y := w.WorldPosition(e)
		x += pb.OffsetX - width/2
		y += pb.OffsetY - height/2
		vector.StrokeRect(screen, float32(x), float32(y), float32(width), float32(height), 1, colornames.Tomato, false)
	})
}

func (r *RenderSystem) highlightWidth() float32 {
	if (r.frame/highlightPulseFrames)%2 == 0 {
		return 2
	}
	return 1
}

func renderLayer(w *ecs.World, e ecs.Entity) int {
	if layer, ok := ecs.Get(w, e, component.RenderLayerComponent.Kind()); ok {
		return layer.Index
	}
	return 0
}
