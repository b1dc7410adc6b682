package main

import (
	"context"
	"log/slog"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/fleetops/scorecard-etl/internal/pipeline"
)

// settleDelay gives the dropping process time to finish writing before the
// file is picked up.
const settleDelay = 2 * time.Second

type watchTarget struct {
	pipeline string
	exts     []string
	run      func(ctx context.Context, r *pipeline.Runner, opts pipeline.Options) (*pipeline.Summary, error)
}

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Watch the drop directories and import files as they appear",
	Long: `Watches every configured drop directory and runs the matching pipeline
whenever a new source file lands. Runs until interrupted.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := loadConfig()
		logger := slog.Default()
		runner := pipeline.NewRunner(cfg, logger)

		targets := map[string]watchTarget{
			cfg.Paths.Scores: {
				pipeline: "scores",
				exts:     []string{".csv", ".xlsx", ".xls"},
				run: func(ctx context.Context, r *pipeline.Runner, opts pipeline.Options) (*pipeline.Summary, error) {
					return r.RunScores(ctx, opts)
				},
			},
			cfg.Paths.HOS: {
				pipeline: "hos",
				exts:     []string{".xlsx", ".xls", ".json"},
				run: func(ctx context.Context, r *pipeline.Runner, opts pipeline.Options) (*pipeline.Summary, error) {
					return r.RunHOS(ctx, opts)
				},
			},
			cfg.Paths.Inspections: {
				pipeline: "inspections",
				exts:     []string{".xml"},
				run: func(ctx context.Context, r *pipeline.Runner, opts pipeline.Options) (*pipeline.Summary, error) {
					return r.RunInspections(ctx, opts)
				},
			},
			cfg.Paths.Maintenance: {
				pipeline: "maintenance",
				exts:     []string{".xlsx", ".xls"},
				run: func(ctx context.Context, r *pipeline.Runner, opts pipeline.Options) (*pipeline.Summary, error) {
					return r.RunMaintenance(ctx, opts)
				},
			},
		}

		// The portal download directory is a second drop location for scores.
		if dir := cfg.Portal.DownloadDir; dir != "" {
			targets[dir] = targets[cfg.Paths.Scores]
		}

		watcher, err := fsnotify.NewWatcher()
		if err != nil {
			return err
		}
		defer watcher.Close()

		watched := 0
		for dir := range targets {
			if err := watcher.Add(dir); err != nil {
				logger.Warn("not watching directory", "dir", dir, "error", err)
				continue
			}
			logger.Info("watching", "dir", dir)
			watched++
		}
		if watched == 0 {
			logger.Error("no drop directories available to watch")
			return nil
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		for {
			select {
			case <-ctx.Done():
				logger.Info("watch stopped")
				return nil
			case err, ok := <-watcher.Errors:
				if !ok {
					return nil
				}
				logger.Error("watch error", "error", err)
			case event, ok := <-watcher.Events:
				if !ok {
					return nil
				}
				if !event.Op.Has(fsnotify.Create) && !event.Op.Has(fsnotify.Rename) {
					continue
				}
				target, ok := targets[filepath.Dir(event.Name)]
				if !ok || !matchesExt(event.Name, target.exts) {
					continue
				}

				logger.Info("new source file", "pipeline", target.pipeline, "file", event.Name)
				time.Sleep(settleDelay)

				opts := baseOptions()
				opts.File = event.Name
				if res, err := target.run(ctx, runner, opts); err != nil {
					logger.Error("pipeline run failed", "pipeline", target.pipeline, "error", err)
				} else if !res.Success() {
					logger.Error("pipeline run unsuccessful",
						"pipeline", target.pipeline, "reason", res.FailureMessage())
				}
			}
		}
	},
}

func matchesExt(path string, exts []string) bool {
	ext := strings.ToLower(filepath.Ext(path))
	for _, e := range exts {
		if ext == e {
			return true
		}
	}
	return false
}
