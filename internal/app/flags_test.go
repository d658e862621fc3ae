package app

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"

	"softbody/internal/core"
	"softbody/internal/physics"
)

func TestConfigBindAndSettings(t *testing.T) {
	cfg := NewConfig()
	if cfg.Scene == "" || cfg.Width <= 0 || cfg.Height <= 0 {
		t.Fatalf("bad defaults %+v", cfg)
	}
	fs := flag.NewFlagSet("sandbox", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cfg.Bind(fs)
	if err := fs.Parse([]string{"-scene", "cloth", "-set", "rows=10", "-set", "hz=120", "-seed", "7"}); err != nil {
		t.Fatal(err)
	}
	if cfg.Scene != "cloth" || cfg.Seed != 7 {
		t.Fatalf("parsed %+v", cfg)
	}
	if cfg.Settings["rows"] != "10" || cfg.Settings["hz"] != "120" {
		t.Fatalf("settings %v", cfg.Settings)
	}
	if err := fs.Parse([]string{"-set", "novalue"}); err == nil {
		t.Fatal("expected an error for a setting without '='")
	}
}

func TestSceneConfigMergesFileUnderFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "scene.env")
	if err := os.WriteFile(path, []byte("ROWS=12\nseed=5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := NewConfig()
	cfg.ConfigFile = path
	cfg.Settings["rows"] = "20"
	got, err := cfg.SceneConfig()
	if err != nil {
		t.Fatal(err)
	}
	if got["rows"] != "20" || got["seed"] != "5" {
		t.Fatalf("merged %v", got)
	}

	cfg.ConfigFile = filepath.Join(t.TempDir(), "missing.env")
	if _, err := cfg.SceneConfig(); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}

type fakeScene struct {
	settings map[string]string
	seed     int64
}

func (f *fakeScene) Name() string          { return "fake" }
func (f *fakeScene) View() physics.AABB    { return physics.AABB{} }
func (f *fakeScene) Reset(seed int64)      { f.seed = seed }
func (f *fakeScene) Advance(float64)       {}
func (f *fakeScene) World() *physics.World { return nil }

func TestNewSceneUsesRegistry(t *testing.T) {
	core.Register("app-fake", func(cfg map[string]string) core.Scene {
		return &fakeScene{settings: cfg}
	})
	cfg := NewConfig()
	cfg.Scene = "app-fake"
	cfg.Seed = 99
	cfg.Settings["count"] = "3"
	scene, err := cfg.NewScene(nil)
	if err != nil {
		t.Fatal(err)
	}
	fs := scene.(*fakeScene)
	if fs.seed != 99 || fs.settings["count"] != "3" {
		t.Fatalf("scene built with %+v", fs)
	}

	cfg.Settings["seed"] = "12"
	scene, err = cfg.NewScene(nil)
	if err != nil {
		t.Fatal(err)
	}
	if got := scene.(*fakeScene).seed; got != 12 || cfg.Seed != 12 {
		t.Fatalf("seed setting gave scene %d, config %d", got, cfg.Seed)
	}

	cfg.Scene = "does-not-exist"
	if _, err := cfg.NewScene(nil); err == nil {
		t.Fatal("expected an error for an unknown scene")
	}
}
