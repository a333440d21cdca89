package main

import (
	"flag"
	"log"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/milk9111/autogamer/config"
	"github.com/milk9111/autogamer/level"
	"github.com/milk9111/autogamer/script"
	"github.com/pkg/profile"
)

func main() {
	configPath := flag.String("config", "", "YAML config overlaid on the defaults (watched for changes)")
	levelPath := flag.String("level", "", "Tiled map to load (overrides the config)")
	scriptPath := flag.String("script", "", "tengo setup script applied over the config")
	cpuProfile := flag.Bool("cpuprofile", false, "write a CPU profile to the working directory")
	memProfile := flag.Bool("memprofile", false, "write an allocation profile to the working directory")
	flag.Parse()

	switch {
	case *cpuProfile:
		defer profile.Start(profile.CPUProfile, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	case *memProfile:
		defer profile.Start(profile.MemProfileAllocs, profile.ProfilePath("."), profile.NoShutdownHook).Stop()
	}

	cfg, err := loadConfig(*configPath, *scriptPath)
	if err != nil {
		log.Fatal(err)
	}
	if *levelPath != "" {
		cfg.Level = *levelPath
	}
	if cfg.Level == "" {
		cfg.Level = defaultLevel
	}

	lvl, err := level.New(cfg)
	if err != nil {
		log.Fatal(err)
	}
	if err := lvl.Load(cfg.Level); err != nil {
		log.Fatal(err)
	}
	lvl.AddPlayer(cfg.Player)

	game := NewGame(cfg, lvl)
	if *configPath != "" {
		w, err := config.NewWatcher(*configPath)
		if err != nil {
			log.Printf("Warning: Main: config hot reload disabled: %v", err)
		} else {
			game.watch(w, *scriptPath)
			defer w.Close()
		}
	}

	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetWindowClosingHandled(true)
	ebiten.SetWindowSize(int(float64(cfg.Window.Width)*cfg.Window.Scale), int(float64(cfg.Window.Height)*cfg.Window.Scale))
	ebiten.SetWindowTitle(cfg.Window.Title)
	ebiten.SetTPS(cfg.Simulation.TPS)

	if err := ebiten.RunGame(game); err != nil {
		log.Fatal(err)
	}
}

const defaultLevel = "levels/demo.tmx"

// loadConfig reads the config file, if any, and lets the setup script
// override the tunables it defines. A -script flag wins over the config's
// script entry.
func loadConfig(configPath, scriptPath string) (config.Config, error) {
	cfg := config.Default()
	if configPath != "" {
		c, err := config.Load(configPath)
		if err != nil {
			return cfg, err
		}
		cfg = c
	}
	if scriptPath != "" {
		cfg.Script = scriptPath
	}
	return applyScript(cfg)
}

func applyScript(cfg config.Config) (config.Config, error) {
	if cfg.Script == "" {
		return cfg, nil
	}
	setup, err := script.LoadSetup(cfg.Script)
	if err != nil {
		return cfg, err
	}
	setup.Apply(&cfg)
	return cfg, cfg.Validate()
}
