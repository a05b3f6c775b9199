package cli

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"github.com/piwi3910/SheetGang/internal/importer"
	"github.com/piwi3910/SheetGang/internal/model"
	"github.com/piwi3910/SheetGang/internal/project"
)

const defaultSettle = 2 * time.Second

func newWatchCmd(g *globalOpts) *cobra.Command {
	var flags jobFlags
	var settle time.Duration

	cmd := &cobra.Command{
		Use:   "watch [folder]",
		Short: "Re-impose a hot folder whenever its images change",
		Long: `Watch imposes the folder once, then again every time an image is added,
changed or removed. Changes are collected until the folder has been quiet for
the settle time, so a batch copy triggers a single run.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := g.loadConfig()
			if err != nil {
				return err
			}
			job, out, err := flags.resolve(cmd, args, cfg)
			if err != nil {
				return err
			}
			profiles, err := g.loadProfiles()
			if err != nil {
				return err
			}

			w := &folderWatcher{
				job:      job,
				out:      out,
				profiles: profiles,
				settle:   settle,
				logger:   loggerFromContext(cmd.Context()),
				p:        printer{w: cmd.OutOrStdout()},
			}
			return w.Run(cmd.Context())
		},
	}

	flags.registerLayout(cmd.Flags())
	flags.registerOutputs(cmd.Flags())
	cmd.Flags().DurationVar(&settle, "settle", defaultSettle, "quiet period before re-imposing")
	return cmd
}

// folderWatcher re-runs a job when its image folder changes.
type folderWatcher struct {
	job      model.JobSettings
	out      project.Outputs
	profiles []model.GCodeProfile
	settle   time.Duration
	logger   *log.Logger
	p        printer

	mu       sync.Mutex
	debounce *time.Timer
	runs     int
}

// Run imposes once and then on every settled change until ctx is done.
// Failed runs are reported and the watch continues.
func (w *folderWatcher) Run(ctx context.Context) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(w.job.Folder); err != nil {
		return fmt.Errorf("watch %s: %w", w.job.Folder, err)
	}
	w.logger.Info("watching", "folder", w.job.Folder, "output", w.out.PDF)
	w.impose(ctx)

	for {
		select {
		case <-ctx.Done():
			w.stop()
			return ctx.Err()

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("change", "file", filepath.Base(event.Name), "op", event.Op.String())
			w.schedule(ctx)

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "err", err)
		}
	}
}

// relevant reports whether an event concerns a supported image.
func (w *folderWatcher) relevant(event fsnotify.Event) bool {
	if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
		return false
	}
	return importer.IsSupported(event.Name)
}

func (w *folderWatcher) schedule(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.debounce != nil {
		w.debounce.Stop()
	}
	w.debounce = time.AfterFunc(w.settle, func() { w.impose(ctx) })
}

func (w *folderWatcher) stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce != nil {
		w.debounce.Stop()
	}
}

// impose runs the job once; runs never overlap.
func (w *folderWatcher) impose(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if ctx.Err() != nil {
		return
	}

	w.runs++
	_, err := runImpose(ctx, w.logger, w.p, w.job, w.out, w.profiles, false)
	if err == nil {
		return
	}
	if errors.Is(err, importer.ErrNoImages) {
		// An emptied hot folder leaves the last output in place.
		w.p.warning("no images in %s, waiting for files", w.job.Folder)
		return
	}
	w.p.failure("%v", describeError(err))
}
