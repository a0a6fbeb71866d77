package main

import (
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/llehouerou/carousel/internal/config"
	"github.com/llehouerou/carousel/internal/errmsg"
	"github.com/llehouerou/carousel/internal/slide"
)

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Validate the configuration and list the slides",
	Long: `Loads and validates the configuration, then lists every slide with its
kind and title. Local files are checked on disk and embedded players are
checked for a mute flag.`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		cfg, reg, err := loadConfig()
		if err != nil {
			return err
		}
		return runCheck(cmd.OutOrStdout(), cfg, reg)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// slideProblem is one issue found by check.
type slideProblem struct {
	index  int
	detail string
}

func runCheck(out io.Writer, cfg *config.Config, reg *slide.Registry) error {
	fmt.Fprintf(out, "policy %s, interval %s, grace %s, touch resume %s\n\n",
		cfg.Carousel.Policy, cfg.Carousel.Interval, cfg.Carousel.GraceDelay, cfg.Carousel.TouchResumeDelay)

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "#\tKIND\tTITLE\tSOURCE\tSTATUS")

	var problems []slideProblem
	for i, d := range reg.All() {
		status, problem := checkSlide(cfg.Server.MediaDir, d)
		if problem != "" {
			problems = append(problems, slideProblem{index: i, detail: problem})
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", i+1, d.Kind, d.Title, d.Source, status)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if len(problems) == 0 {
		fmt.Fprintf(out, "\n%d slides ok\n", reg.Count())
		return nil
	}
	fmt.Fprintln(out)
	for _, p := range problems {
		fmt.Fprintf(out, "slide %d: %s\n", p.index+1, p.detail)
	}
	return cliError(fmt.Sprintf("%d of %d slides have problems", len(problems), reg.Count()))
}

// checkSlide returns the status column and a problem description, empty
// when the slide is usable.
func checkSlide(mediaDir string, d slide.Descriptor) (string, string) {
	if d.Kind == slide.EmbeddedPlayer {
		if !strings.Contains(d.Source, "mute=") {
			return "no mute flag", "embedded player source has no mute parameter, inactive players will not be muted"
		}
		return "ok", ""
	}

	path, remote := localPath(mediaDir, d.Source)
	if remote {
		return "remote", ""
	}
	info, err := os.Stat(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "missing", path + " does not exist"
		}
		return "error", errmsg.FormatWith(errmsg.OpSlideStat, path, err)
	}
	if info.IsDir() {
		return "directory", path + " is a directory"
	}
	return humanize.Bytes(uint64(info.Size())), ""
}

// localPath maps a slide source to a file. Sources served under /media/
// resolve inside mediaDir.
func localPath(mediaDir, src string) (string, bool) {
	if u, err := url.Parse(src); err == nil && u.Scheme != "" && u.Scheme != "file" {
		return "", true
	}
	src = strings.TrimPrefix(src, "file://")
	if mediaDir != "" {
		if rel, ok := strings.CutPrefix(src, "/media/"); ok {
			return filepath.Join(mediaDir, filepath.FromSlash(rel)), false
		}
	}
	return filepath.FromSlash(src), false
}
