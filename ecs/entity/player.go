package entity

import (
	"fmt"

	"github.com/milk9111/carry/ecs"
)

func NewPlayer(w *ecs.World) (ecs.Entity, error) {
	return BuildEntity(w, "player.yaml")
}

func NewPlayerAt(w *ecs.World, x, y float64) (ecs.Entity, error) {
	entity, err := BuildEntity(w, "player.yaml")
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, entity, x, y, 0); err != nil {
		return 0, fmt.Errorf("player: override transform: %w", err)
	}
	return entity, nil
}

// NewPickupAt instances a pickup prefab such as "crate.yaml" at (x, y).
func NewPickupAt(w *ecs.World, prefab string, x, y float64) (ecs.Entity, error) {
	entity, err := BuildEntity(w, prefab)
	if err != nil {
		return 0, err
	}
	if err := SetEntityTransform(w, entity, x, y, 0); err != nil {
		return 0, fmt.Errorf("pickup %s: override transform: %w", prefab, err)
	}
	return entity, nil
}
