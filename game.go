package main

import (
	"fmt"
	"log/slog"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"

	"github.com/milk9111/carry/ecs"
	"github.com/milk9111/carry/ecs/entity"
	"github.com/milk9111/carry/ecs/render"
	"github.com/milk9111/carry/ecs/system"
	"github.com/milk9111/carry/prefabs"
)

const (
	baseWidth  = 640
	baseHeight = 360
)

type Game struct {
	frames int

	sceneName string
	debug     bool
	log       *slog.Logger

	world     *ecs.World
	scheduler *ecs.Scheduler

	watcher *prefabs.Watcher
}

func NewGame(sceneName string, debug bool) (*Game, error) {
	g := &Game{
		sceneName: sceneName,
		debug:     debug,
		log:       slog.Default(),
	}
	if err := g.loadScene(); err != nil {
		return nil, err
	}
	return g, nil
}

// loadScene builds a fresh world and fresh systems for the scene, leaving
// the current ones untouched on error.
func (g *Game) loadScene() error {
	world := ecs.NewWorld()
	if _, err := entity.LoadSceneToWorld(world, g.sceneName); err != nil {
		return fmt.Errorf("load scene %s: %w", g.sceneName, err)
	}

	render.ClearImages()
	g.world = world
	g.scheduler = ecs.NewScheduler(
		system.NewInputSystem(system.EbitenInput{}),
		system.NewPlayerMoveSystem(),
		system.NewTriggerSystem(),
		system.NewPickupSystem(g.log),
		system.NewRenderSystem(g.debug, g.log),
	)
	g.log.Info("scene loaded", "scene", g.sceneName, "entities", len(world.Entities()))
	return nil
}

// Watch reloads the scene whenever a prefab, scene or script on disk
// changes.
func (g *Game) Watch() error {
	dirs := prefabs.DiskDirs()
	if len(dirs) == 0 {
		return fmt.Errorf("no prefab directories on disk")
	}
	w, err := prefabs.NewWatcher(dirs...)
	if err != nil {
		return err
	}
	g.watcher = w
	return nil
}

func (g *Game) Close() {
	if g.watcher != nil {
		_ = g.watcher.Close()
	}
}

func (g *Game) pollWatcher() {
	if g.watcher == nil {
		return
	}
	changed := ""
	for {
		select {
		case name, ok := <-g.watcher.Events:
			if !ok {
				g.watcher = nil
				return
			}
			changed = name
			continue
		case err, ok := <-g.watcher.Errors:
			if !ok {
				g.watcher = nil
				return
			}
			g.log.Warn("prefab watcher", "err", err)
			continue
		default:
		}
		break
	}
	if changed == "" {
		return
	}
	if err := g.loadScene(); err != nil {
		g.log.Error("reload failed, keeping current scene", "file", changed, "err", err)
		return
	}
	g.log.Info("scene reloaded", "file", changed)
}

func (g *Game) Update() error {
	g.frames++
	g.pollWatcher()
	g.scheduler.Update(g.world)
	return nil
}

func (g *Game) Draw(screen *ebiten.Image) {
	g.scheduler.Draw(g.world, screen)
	if g.debug {
		ebitenutil.DebugPrint(screen, fmt.Sprintf("Frames: %d    FPS: %.2f", g.frames, ebiten.ActualFPS()))
	}
}

func (g *Game) Layout(outsideWidth, outsideHeight int) (int, int) {
	return baseWidth, baseHeight
}
