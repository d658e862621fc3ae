//go:build ebiten

package main

import (
	"errors"
	"flag"
	"os"

	"github.com/charmbracelet/log"
	"github.com/hajimehoshi/ebiten/v2"

	"softbody/internal/app"
	_ "softbody/internal/scenes/cloth"
	_ "softbody/internal/scenes/jelly"
	_ "softbody/internal/scenes/pile"
)

func main() {
	cfg := app.NewConfig()
	cfg.Bind(flag.CommandLine)
	verbose := flag.Bool("v", false, "log debug output")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "sandbox"})
	if *verbose {
		logger.SetLevel(log.DebugLevel)
	}

	scene, err := cfg.NewScene(logger)
	if err != nil {
		logger.Fatal("create scene", "err", err)
	}

	game := app.New(scene, cfg.Width, cfg.Height, cfg.HUD, cfg.TPS, cfg.Seed, logger)

	ebiten.SetWindowTitle("softbody - " + scene.Name())
	ebiten.SetTPS(cfg.TPS)
	ebiten.SetWindowSize(cfg.Width+max(cfg.HUD, 0), cfg.Height)

	if err := ebiten.RunGame(game); err != nil && !errors.Is(err, ebiten.Termination) {
		logger.Fatal("run", "err", err)
	}
}
