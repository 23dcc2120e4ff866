package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug drawing and debug logs")
	sceneName := flag.String("scene", "demo.yaml", "scene prefab in prefabs/scenes/")
	watch := flag.Bool("watch", false, "reload the scene when prefabs on disk change")
	flag.Parse()

	level := slog.LevelInfo
	if *debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: level,
	})))

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(baseWidth, baseHeight)
	ebiten.SetWindowTitle("carry")

	game, err := NewGame(*sceneName, *debug)
	if err != nil {
		log.Fatal(err)
	}

	if *watch {
		if err := game.Watch(); err != nil {
			slog.Warn("prefab watcher disabled", "err", err)
		}
	}
	if err := run(game, ebiten.RunGame); err != nil {
		log.Fatal(err)
	}
}

// run drives game with runner and closes it before returning.
func run(game *Game, runner func(ebiten.Game) error) error {
	defer game.Close()
	return runner(game)
}
