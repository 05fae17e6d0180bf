package main

import (
	"context"
	"flag"
	"log"
	"os"
	"path/filepath"

	"github.com/hajimehoshi/ebiten/v2"
	"go.uber.org/zap"

	"github.com/depeter/stackscroll/assets/icon"
	"github.com/depeter/stackscroll/internal/app"
	"github.com/depeter/stackscroll/internal/cache"
	"github.com/depeter/stackscroll/internal/config"
	"github.com/depeter/stackscroll/internal/ui"
)

func main() {
	configPath := flag.String("config", "", "path to config.toml (defaults to the XDG config dir)")
	clearCache := flag.Bool("clear-cache", false, "remove downloaded stack images before starting")
	flag.Parse()

	if *configPath == "" {
		if p, err := config.ConfigPath(); err == nil {
			*configPath = p
		}
	}

	// Load config
	cfg, err := config.LoadFile(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Log)
	if err != nil {
		log.Fatalf("Failed to init logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	// Init fonts
	if err := ui.InitFonts(); err != nil {
		logger.Fatal("init fonts", zap.Error(err))
	}

	// Init image cache
	cacheDir := filepath.Join(os.TempDir(), "stackscroll", "images")
	if configDir, err := config.ConfigDir(); err == nil {
		cacheDir = filepath.Join(configDir, "cache", "images")
	}
	imgCache, err := cache.NewImageCache(logger.Named("cache"), cacheDir)
	if err != nil {
		logger.Fatal("init image cache", zap.Error(err))
	}
	if *clearCache {
		if err := imgCache.ClearDisk(); err != nil {
			logger.Warn("clear image cache", zap.Error(err))
		} else {
			logger.Info("image cache cleared", zap.String("dir", imgCache.CacheDir()))
		}
	}

	game := app.NewGame(logger, cfg)
	pb := &paneBuilder{
		log:        logger,
		cfg:        cfg,
		configPath: *configPath,
		game:       game,
		images:     imgCache,
	}

	ctx := context.Background()
	if err := pb.build(ctx); err != nil {
		logger.Fatal("set up viewports", zap.Error(err))
	}
	defer pb.close()

	// Configure window
	ebiten.SetWindowSize(cfg.UI.Width, cfg.UI.Height)
	ebiten.SetWindowTitle("StackScroll")
	ebiten.SetWindowIcon(icon.Generate())
	ebiten.SetWindowResizingMode(ebiten.WindowResizingModeEnabled)
	ebiten.SetFullscreen(cfg.UI.Fullscreen)

	if err := ebiten.RunGame(game); err != nil {
		logger.Error("run", zap.Error(err))
	}
}

// newLogger builds a production logger, or a development one when asked,
// at the configured level.
func newLogger(cfg config.LogConfig) (*zap.Logger, error) {
	zc := zap.NewProductionConfig()
	if cfg.Development {
		zc = zap.NewDevelopmentConfig()
	}
	if cfg.Level != "" {
		if err := zc.Level.UnmarshalText([]byte(cfg.Level)); err != nil {
			return nil, err
		}
	}
	return zc.Build()
}
