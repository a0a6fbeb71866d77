package main

import (
	"context"
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/llehouerou/carousel/internal/carousel"
	"github.com/llehouerou/carousel/internal/errmsg"
	"github.com/llehouerou/carousel/internal/media"
	"github.com/llehouerou/carousel/internal/tui"
)

var previewLogFile string

var previewCmd = &cobra.Command{
	Use:   "preview",
	Short: "Preview the carousel in the terminal",
	Long: `Runs the carousel in the terminal. Media playback, pointer presence and
touch are simulated from the keyboard (press ? for the key list).`,
	RunE: runPreview,
}

func init() {
	previewCmd.Flags().StringVar(&previewLogFile, "log", "", "write logs to this file")
	rootCmd.AddCommand(previewCmd)
}

func runPreview(_ *cobra.Command, _ []string) error {
	cfg, reg, err := loadConfig()
	if err != nil {
		return err
	}

	// The terminal belongs to the preview, logs go to a file or nowhere.
	var w io.Writer = io.Discard
	if previewLogFile != "" {
		f, err := os.OpenFile(previewLogFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return cliError(errmsg.FormatWith(errmsg.OpPreview, previewLogFile, err))
		}
		defer f.Close()
		w = f
	}
	log := newLogger(w)

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

	surface := tui.NewSurface(reg)
	opts := cfg.ControllerOptions(start)
	opts.Logger = log
	ctrl := carousel.New(reg, media.NewSet(reg, surface, log), surface, opts)

	wait := startPersisting(ctrl, st, reg)
	defer wait()
	if pos != nil && pos.ManuallyPaused {
		_ = ctrl.TogglePause()
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go func() { _ = ctrl.Run(ctx) }()
	defer ctrl.Close()

	p := tea.NewProgram(tui.New(ctrl, surface, cfg.Server.Title), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return cliError(errmsg.Format(errmsg.OpPreview, err))
	}
	return nil
}
