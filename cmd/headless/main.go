package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"runtime"
	"time"

	"github.com/charmbracelet/log"

	"softbody/internal/app"
	_ "softbody/internal/scenes/cloth"
	_ "softbody/internal/scenes/jelly"
	_ "softbody/internal/scenes/pile"
)

func main() {
	cfg := app.NewConfig()
	cfg.BindScene(flag.CommandLine)
	frames := flag.Int("frames", 600, "frames to simulate")
	fps := flag.Float64("fps", 60, "frames per simulated second")
	every := flag.Int("every", 60, "log stats every n frames, 0 disables")
	record := flag.String("record", "", "write the run to this replay file")
	runs := flag.Int("runs", 1, "run the scene this many times and require identical results")
	workers := flag.Int("workers", runtime.NumCPU(), "concurrent runs for -runs")
	compare := flag.Bool("compare", false, "diff the two replay files given as arguments")
	tol := flag.Float64("tol", 0, "position tolerance for -compare")
	flag.Parse()

	logger := log.NewWithOptions(os.Stderr, log.Options{ReportTimestamp: true, Prefix: "headless"})
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if *compare {
		os.Exit(runCompare(logger, flag.Args(), float32(*tol)))
	}
	if *fps <= 0 {
		logger.Fatal("fps must be positive", "fps", *fps)
	}
	opts := options{Frames: *frames, Dt: 1 / *fps, Logger: logger, Every: *every}

	if *runs > 1 {
		logger.Info("checking determinism", "scene", cfg.Scene, "runs", *runs, "workers", *workers, "frames", *frames)
		if err := checkDeterminism(ctx, cfg, opts, *runs, *workers); err != nil {
			logger.Fatal("determinism check failed", "err", err)
		}
		logger.Info("all runs identical")
		return
	}

	if *record != "" {
		f, err := os.Create(*record)
		if err != nil {
			logger.Fatal("create recording", "err", err)
		}
		defer f.Close()
		opts.Record = f
	}

	res, err := simulate(ctx, cfg, opts)
	if err != nil {
		logger.Fatal("simulate", "err", err)
	}
	perFrame := res.Elapsed / max(1, time.Duration(*frames))
	logger.Info("done",
		"scene", cfg.Scene,
		"particles", res.Particles,
		"sticks", res.Sticks,
		"frames", *frames,
		"elapsed", res.Elapsed.Round(time.Millisecond),
		"per_frame", perFrame,
		"max_contacts", res.MaxContacts,
	)
}

func runCompare(logger *log.Logger, files []string, tol float32) int {
	if len(files) != 2 {
		logger.Error("-compare needs exactly two replay files", "got", len(files))
		return 2
	}
	a, err := os.Open(files[0])
	if err != nil {
		logger.Error("open", "err", err)
		return 2
	}
	defer a.Close()
	b, err := os.Open(files[1])
	if err != nil {
		logger.Error("open", "err", err)
		return 2
	}
	defer b.Close()

	d, ok, err := compareFiles(a, b, tol)
	if err != nil {
		logger.Error("read", "err", err)
		return 2
	}
	if !ok {
		logger.Warn("recordings diverge", "at", d.String())
		return 1
	}
	logger.Info("recordings match", "tol", tol)
	return 0
}
