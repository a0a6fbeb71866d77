package main

import (
	"io"
	"log/slog"

	"github.com/spf13/cobra"

	"github.com/llehouerou/carousel/internal/carousel"
	"github.com/llehouerou/carousel/internal/config"
	"github.com/llehouerou/carousel/internal/errmsg"
	"github.com/llehouerou/carousel/internal/slide"
	"github.com/llehouerou/carousel/internal/state"
)

var (
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "carousel",
	Short: "Media carousel: rotate images, videos and embedded players",
	Long: `Carousel rotates a fixed list of slides (images, local videos and
embedded players). Autoplay advances every few seconds, waits for videos
that are playing, and pauses while the pointer or a finger is on the widget.

The carousel is served to browsers over a websocket (serve) or previewed
in the terminal (preview).`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file (default: ~/.config/carousel/config.toml, ./config.toml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "debug logging")
}

func newLogger(w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: level}))
}

// loadConfig loads and validates the configuration.
func loadConfig() (*config.Config, *slide.Registry, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, nil, cliError(errmsg.FormatWith(errmsg.OpConfigLoad, cfgFile, err))
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, cliError(errmsg.Format(errmsg.OpConfigValidate, err))
	}
	reg, err := cfg.Registry()
	if err != nil {
		return nil, nil, cliError(errmsg.Format(errmsg.OpSlidesLoad, err))
	}
	return cfg, reg, nil
}

// resumePosition opens the state store when resume is enabled and returns
// the slide to start at. The returned store is nil when resume is off.
func resumePosition(cfg *config.Config, reg *slide.Registry, log *slog.Logger) (state.Interface, *state.Position, error) {
	if !cfg.Carousel.Resume {
		return nil, nil, nil
	}
	st, err := state.Open(cfg.State.Path, state.WithLogger(log))
	if err != nil {
		return nil, nil, cliError(errmsg.Format(errmsg.OpStateOpen, err))
	}
	pos, err := st.GetPosition()
	if err != nil {
		log.Warn("carousel: "+errmsg.Format(errmsg.OpStateRestore, err))
		return st, nil, nil
	}
	if pos != nil && pos.StartIndex(reg) != pos.Index {
		log.Info("carousel: slide list changed, starting at the first slide")
		return st, nil, nil
	}
	return st, pos, nil
}

type cliError string

func (e cliError) Error() string { return string(e) }

// startPersisting saves the positions ctrl publishes into st in the
// background. The returned wait closes ctrl and blocks until the last save
// was handed to st, so st can be closed after it.
func startPersisting(ctrl *carousel.Controller, st state.Interface, reg *slide.Registry) (wait func()) {
	if st == nil {
		return func() {}
	}
	sub := ctrl.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		persistPosition(sub, st, reg)
	}()
	return func() {
		_ = ctrl.Close()
		<-done
	}
}

// persistPosition saves the shown slide and the manual pause until the
// subscription closes. Changes still buffered at close are saved too.
func persistPosition(sub *carousel.Subscription, st state.Interface, reg *slide.Registry) {
	var last carousel.State
	first := true
	save := func(s carousel.State) {
		if !first && s.Index == last.Index && s.ManuallyPaused == last.ManuallyPaused {
			return
		}
		first = false
		last = s
		st.SavePosition(state.NewPosition(reg, s.Index, s.ManuallyPaused))
	}
	for {
		select {
		case e := <-sub.StateChanged:
			save(e.State)
		case <-sub.Done:
			for {
				select {
				case e := <-sub.StateChanged:
					save(e.State)
				default:
					return
				}
			}
		}
	}
}
