package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"softbody/internal/app"
	"softbody/internal/core"
	"softbody/internal/physics"
	"softbody/internal/replay"
)

// result summarises one headless run.
type result struct {
	Frames      []replay.Frame
	Last        physics.Stats
	Particles   int
	Sticks      int
	MaxContacts int
	Elapsed     time.Duration
}

// options control a headless run.
type options struct {
	Frames int
	Dt     float64
	// Keep retains every captured frame in the result.
	Keep bool
	// Record, if set, receives the run as a replay stream.
	Record io.Writer
	Logger *log.Logger
	// Every logs stats every Every frames; zero disables it.
	Every int
}

// simulate builds the configured scene and advances it opts.Frames times.
func simulate(ctx context.Context, cfg *app.Config, opts options) (result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard)
	}
	scene, err := cfg.NewScene(logger)
	if err != nil {
		return result{}, err
	}
	w := scene.World()

	var rec *replay.Recorder
	if opts.Record != nil {
		rec, err = replay.NewRecorder(opts.Record, replay.Header{
			Scene: scene.Name(),
			Seed:  cfg.Seed,
			Hz:    w.Config().TargetHz,
			Dt:    opts.Dt,
		})
		if err != nil {
			return result{}, err
		}
	}

	res := result{Particles: w.Store().Len(), Sticks: w.Sticks().Len()}
	start := time.Now()
	var frame replay.Frame
	for i := 0; i < opts.Frames; i++ {
		if err := ctx.Err(); err != nil {
			return result{}, err
		}
		scene.Advance(opts.Dt)
		res.Last = w.Stats()
		res.MaxContacts = max(res.MaxContacts, res.Last.Contacts)
		if opts.Every > 0 && (i+1)%opts.Every == 0 {
			logger.Info("frame", "index", i+1, "substeps", res.Last.Substeps, "checks", res.Last.Checks, "contacts", res.Last.Contacts)
		}

		if rec == nil && !opts.Keep {
			continue
		}
		replay.Capture(w, i, float64(i+1)*opts.Dt, &frame)
		if rec != nil {
			if err := rec.Record(&frame); err != nil {
				return result{}, err
			}
		}
		if opts.Keep {
			res.Frames = append(res.Frames, cloneFrame(frame))
		}
	}
	res.Elapsed = time.Since(start)
	if rec != nil {
		if err := rec.Flush(); err != nil {
			return result{}, err
		}
	}
	return res, nil
}

func cloneFrame(f replay.Frame) replay.Frame {
	f.Positions = append([]float32(nil), f.Positions...)
	return f
}

// checkDeterminism runs the scene runs times on up to workers goroutines and
// reports the first run that diverges from the first.
func checkDeterminism(ctx context.Context, cfg *app.Config, opts options, runs, workers int) error {
	if runs < 2 {
		return fmt.Errorf("determinism check needs at least 2 runs, got %d", runs)
	}
	opts.Keep = true
	opts.Record = nil
	opts.Every = 0

	results := make([]result, runs)
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(core.Clamp(workers, 1, runs))
	for i := range results {
		local := *cfg
		g.Go(func() error {
			res, err := simulate(ctx, &local, opts)
			if err != nil {
				return fmt.Errorf("run %d: %w", i, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}
	for i := 1; i < runs; i++ {
		if d, ok := replay.Compare(results[0].Frames, results[i].Frames, 0); !ok {
			return fmt.Errorf("run %d diverged from run 0 at %s", i, d)
		}
	}
	return nil
}

// compareFiles diffs two recordings within tol.
func compareFiles(a, b io.Reader, tol float32) (replay.Diff, bool, error) {
	ha, fa, err := replay.ReadFrames(a)
	if err != nil {
		return replay.Diff{}, false, err
	}
	hb, fb, err := replay.ReadFrames(b)
	if err != nil {
		return replay.Diff{}, false, err
	}
	if ha.Scene != hb.Scene || ha.Dt != hb.Dt {
		return replay.Diff{Reason: fmt.Sprintf("recordings of %s@%g and %s@%g", ha.Scene, ha.Dt, hb.Scene, hb.Dt)}, false, nil
	}
	d, ok := replay.Compare(fa, fb, tol)
	return d, ok, nil
}
