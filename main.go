package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/rs/zerolog/log"

	"tilenav/internal/config"
	"tilenav/internal/viewer"
	"tilenav/internal/world"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to config.yaml")
	flag.Parse()

	ensureRuntimeCWD(*configPath)

	// Load configuration
	cfg := config.MustLoadConfig(*configPath)
	if err := config.SetupLogging(cfg.Log); err != nil {
		log.Fatal().Err(err).Msg("invalid log settings")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	levels, err := world.NewManager(ctx, cfg.Assets)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load level")
	}

	if cfg.Watch.Enabled {
		go func() {
			if err := levels.Watch(ctx); err != nil {
				log.Warn().Err(err).Msg("hot reload disabled")
			}
		}()
	}

	ebiten.SetWindowSize(cfg.Viewer.Width, cfg.Viewer.Height)
	ebiten.SetWindowTitle(cfg.Viewer.WindowTitle)

	if err := ebiten.RunGame(viewer.New(ctx, cfg, levels)); err != nil {
		log.Fatal().Err(err).Msg("viewer stopped")
	}
}

// ensureRuntimeCWD switches to the executable's directory when the default
// config is not found in the working directory.
func ensureRuntimeCWD(configPath string) {
	if _, err := os.Stat(configPath); err == nil || filepath.IsAbs(configPath) {
		return
	}
	exe, err := os.Executable()
	if err != nil {
		return
	}
	_ = os.Chdir(filepath.Dir(exe))
}
