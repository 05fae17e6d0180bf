package main

import (
	"context"
	"os"
	"time"

	"github.com/zeebo/errs"
	"go.uber.org/zap"

	"github.com/depeter/stackscroll/internal/app"
	"github.com/depeter/stackscroll/internal/cache"
	"github.com/depeter/stackscroll/internal/config"
	"github.com/depeter/stackscroll/internal/jellyfin"
	"github.com/depeter/stackscroll/internal/player"
	"github.com/depeter/stackscroll/internal/stack"
	"github.com/depeter/stackscroll/internal/viewport"
)

// passwordEnv holds the Jellyfin password when no token is configured.
const passwordEnv = "STACKSCROLL_PASSWORD"

// paneBuilder turns the configured sources into viewports on the game.
type paneBuilder struct {
	log        *zap.Logger
	cfg        *config.Config
	configPath string
	game       *app.Game
	images     *cache.ImageCache

	client *jellyfin.Client
	cine   *player.Cine
}

func (pb *paneBuilder) build(ctx context.Context) error {
	if pb.cfg.Server.URL != "" {
		if err := pb.connect(ctx); err != nil {
			return err
		}
	}

	var group errs.Group
	group.Add(pb.addStack(ctx))
	group.Add(pb.addVolume(ctx))
	group.Add(pb.addCine())
	if err := group.Err(); err != nil {
		return err
	}

	if len(pb.game.Registry.Targets()) == 0 {
		return errs.New("nothing to show: set stack.dir, stack.volume_dir, server.parent_id or cine.path")
	}
	return nil
}

// connect logs into the Jellyfin server, storing a fresh token in the config
// file so later runs skip the password.
func (pb *paneBuilder) connect(ctx context.Context) error {
	srv := pb.cfg.Server
	pb.client = jellyfin.NewClient(srv.URL)
	if srv.Token != "" {
		pb.client.SetToken(srv.Token, srv.UserID)
		return nil
	}
	if srv.Username == "" {
		return errs.New("server.url is set but neither server.token nor server.username is")
	}
	if err := pb.client.Authenticate(ctx, srv.Username, os.Getenv(passwordEnv)); err != nil {
		return err
	}

	pb.cfg.Server.Token = pb.client.Token()
	pb.cfg.Server.UserID = pb.client.UserID()
	if pb.configPath != "" {
		if err := pb.cfg.SaveFile(pb.configPath); err != nil {
			pb.log.Warn("could not save token", zap.Error(err))
		}
	}
	return nil
}

// addStack adds the flat stack pane from a local directory or a Jellyfin folder.
func (pb *paneBuilder) addStack(ctx context.Context) error {
	var ids []string
	switch {
	case pb.cfg.Stack.Dir != "":
		paths, err := stack.ScanDir(pb.cfg.Stack.Dir)
		if err != nil {
			return err
		}
		ids = paths
	case pb.client != nil && pb.cfg.Server.ParentID != "":
		urls, err := pb.client.StackURLs(ctx, pb.cfg.Server.ParentID)
		if err != nil {
			return err
		}
		ids = urls
	default:
		return nil
	}

	delay := time.Duration(pb.cfg.Scroll.DebounceDelayMS) * time.Millisecond
	vp := viewport.NewStackViewport(pb.log.Named("stack"), "stack", pb.images, delay)
	vp.SetImageIDs(ids)
	if len(ids) > 0 {
		pb.images.Request(ids[0])
	}
	pb.log.Info("stack loaded", zap.Int("images", len(ids)))

	_, err := pb.game.AddPane("Stack", vp, app.StackFrames(vp, pb.images), "loading")
	return err
}

// addVolume decodes the volume slices and adds the axial, coronal and
// sagittal panes that share them.
func (pb *paneBuilder) addVolume(ctx context.Context) error {
	sc := pb.cfg.Stack
	if sc.VolumeDir == "" {
		return nil
	}
	paths, err := stack.ScanDir(sc.VolumeDir)
	if err != nil {
		return err
	}
	vol, err := stack.LoadVolume(ctx, pb.log.Named("volume"), paths, sc.PixelSpacing, sc.SliceSpacing)
	if err != nil {
		return err
	}

	for _, o := range []stack.Orientation{stack.Axial, stack.Coronal, stack.Sagittal} {
		name := o.String()
		vp := viewport.NewVolumeViewport(pb.log.Named("volume"), name, sc.VolumeID, vol, o)
		if _, err := pb.game.AddPane(name, vp, app.VolumeFrames(vp), ""); err != nil {
			return err
		}
	}
	return nil
}

// addCine opens the cine clip in mpv and adds the pane that steps its frames.
func (pb *paneBuilder) addCine() error {
	cc := pb.cfg.Cine
	path := cc.Path
	if path == "" && pb.client != nil && cc.ItemID != "" {
		path = pb.client.GetStreamURL(cc.ItemID)
	}
	if path == "" {
		return nil
	}

	cine, err := player.Open(pb.log.Named("cine"), cc, path)
	if err != nil {
		return err
	}
	pb.cine = cine

	vp := viewport.NewCineViewport(pb.log.Named("cine"), "cine", cine)
	_, err = pb.game.AddPane("Cine", vp, nil, "shown in the mpv window")
	return err
}

func (pb *paneBuilder) close() {
	if pb.cine != nil {
		pb.cine.Close()
	}
}
