package main

import (
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/reverie/prefabs"
)

func main() {
	debug := flag.Bool("debug", false, "enable debug mode")
	logLevel := flag.String("log-level", "info", "log level: debug, info, warn, error")
	baseMonitor := flag.Bool("m", false, "use base monitor instead of primary (for multi-monitor setups)")
	flag.Parse()

	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(*logLevel)); err != nil {
		log.Fatalf("bad -log-level %q: %v", *logLevel, err)
	}
	if *debug {
		lvl = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	if *baseMonitor {
		ebiten.SetMonitor(ebiten.AppendMonitors(nil)[0])
	}

	b, err := prefabs.LoadAll(logger)
	if err != nil {
		log.Fatal(err)
	}
	game, err := NewGame(b, logger, *debug)
	if err != nil {
		log.Fatal(err)
	}
	defer game.Close()

	title := b.Game.Window.Title
	if title == "" {
		title = "reverie"
	}
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowSize(game.width, game.height)
	ebiten.SetWindowTitle(title)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}
