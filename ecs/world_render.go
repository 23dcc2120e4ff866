package ecs

import "github.com/hajimehoshi/ebiten/v2"

// Drawer is a system that also renders.
type Drawer interface {
	Draw(w *World, screen *ebiten.Image)
}

// Draw calls every scheduled system that can render, in update order.
func (s *Scheduler) Draw(w *World, screen *ebiten.Image) {
	if s == nil || w == nil || screen == nil {
		return
	}
	for _, sys := range s.systems {
		d, ok := sys.(Drawer)
		if !ok {
			continue
		}
		d.Draw(w, screen)
	}
}
