// Package worker prerenders static feed files on a cron schedule so
// the passthrough routes can serve them without a live scrape.
package worker

import (
	"context"
	"os"
	"path/filepath"
	"sync"

	"github.com/robfig/cron/v3"

	"woolfeed/config"
	"woolfeed/internal/feed"
	"woolfeed/internal/pipeline"
	"woolfeed/logger"
	apperrors "woolfeed/pkg/errors"
)

// Worker runs the pipeline periodically and writes feed.xml and
// feed.json under the output directory.
type Worker struct {
	cfg  config.Config
	pipe *pipeline.Pipeline
	cron *cron.Cron
	wg   sync.WaitGroup
	log  *logger.Logger
}

// New creates a prerender worker
func New(cfg config.Config, pipe *pipeline.Pipeline) *Worker {
	return &Worker{
		cfg:  cfg,
		pipe: pipe,
		cron: cron.New(),
		log:  logger.ForWorker(),
	}
}

// Start schedules the prerender job and runs a first pass immediately
func (w *Worker) Start(ctx context.Context) error {
	if _, err := w.cron.AddFunc(w.cfg.PrerenderSpec, func() { w.RunOnce(ctx) }); err != nil {
		return err
	}
	w.cron.Start()

	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.RunOnce(ctx)
	}()
	return nil
}

// Stop halts the schedule and waits for running passes to finish
func (w *Worker) Stop() {
	stopCtx := w.cron.Stop()
	<-stopCtx.Done()
	w.wg.Wait()
}

// RunOnce executes a single prerender pass. Failures are logged; a
// failed pass leaves the previous files in place.
func (w *Worker) RunOnce(ctx context.Context) {
	res, err := w.pipe.Run(ctx, pipeline.ModeAll, true)
	if err != nil {
		w.log.Error().Err(err).Msg("prerender run failed")
		return
	}

	opts := feed.Options{
		Title:       w.cfg.FeedTitle,
		Description: w.cfg.FeedDescription,
		Link:        w.cfg.SourceURL,
		SelfLink:    "/feed.xml",
		Language:    "zh-CN",
		ShowAll:     true,
		Location:    w.cfg.Location(),
		Now:         res.Now,
	}

	if err := os.MkdirAll(w.cfg.OutputDir, 0o755); err != nil {
		w.log.Error().Err(err).Msg("failed to create output dir")
		return
	}

	xml := feed.RenderRSS(res.Posts, opts)
	if err := writeFileAtomic(filepath.Join(w.cfg.OutputDir, "feed.xml"), []byte(xml)); err != nil {
		w.log.Error().Err(err).Msg("failed to write feed.xml")
	}

	jsonBody, err := feed.RenderJSON(res.Posts, opts)
	if err != nil {
		w.log.Error().Err(apperrors.NewRender("prerender", "feed.json", err)).Msg("failed to render feed.json")
		return
	}
	if err := writeFileAtomic(filepath.Join(w.cfg.OutputDir, "feed.json"), jsonBody); err != nil {
		w.log.Error().Err(err).Msg("failed to write feed.json")
	}

	w.log.Info().Int("posts", len(res.Posts)).Msg("prerender complete")
}

// writeFileAtomic writes via a temp file and rename so readers never
// see a partial feed.
func writeFileAtomic(path string, data []byte) error {
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return err
	}
	return os.Rename(tmp, path)
}
