package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/llehouerou/carousel/internal/carousel"
	"github.com/llehouerou/carousel/internal/errmsg"
	"github.com/llehouerou/carousel/internal/media"
	"github.com/llehouerou/carousel/internal/server"
)

var serveListen string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the carousel to browsers",
	Long: `Serves the carousel page, a websocket that keeps every connected browser
in sync with the carousel, and a small REST API:

  GET  /api/state          current slide, autoplay and playback state
  POST /api/next           next slide
  POST /api/prev           previous slide
  POST /api/pause          toggle the manual pause
  POST /api/goto/{index}   show a slide (0-based)`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVarP(&serveListen, "listen", "l", "", "listen address (overrides server.listen)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	cfg, reg, err := loadConfig()
	if err != nil {
		return err
	}
	if serveListen != "" {
		cfg.Server.Listen = serveListen
	}

	log := newLogger(os.Stderr)

	st, pos, err := resumePosition(cfg, reg, log)
	if err != nil {
		return err
	}
	if st != nil {
		defer st.Close()
	}

	start := 0
	if pos != nil {
		start = pos.Index
	}

	remote := server.NewRemote(reg, log)
	opts := cfg.ControllerOptions(start)
	opts.Logger = log
	ctrl := carousel.New(reg, media.NewSet(reg, remote, log), remote, opts)

	wait := startPersisting(ctrl, st, reg)
	defer wait()
	if pos != nil && pos.ManuallyPaused {
		_ = ctrl.TogglePause()
	}

	srv := server.New(server.Config{
		Listen:         cfg.Server.Listen,
		MediaDir:       cfg.Server.MediaDir,
		AllowedOrigins: cfg.Server.AllowedOrigins,
		Title:          cfg.Server.Title,
	}, ctrl, remote, log)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error { return ctrl.Run(ctx) })
	g.Go(func() error {
		defer ctrl.Close()
		return srv.Run(ctx)
	})

	if err := g.Wait(); err != nil {
		if errors.Is(err, server.ErrShutdown) {
			return cliError(errmsg.Format(errmsg.OpShutdown, err))
		}
		return cliError(errmsg.Format(errmsg.OpServe, err))
	}
	return nil
}
