package app

import (
	"flag"
	"fmt"
	"maps"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/joho/godotenv"

	"softbody/internal/core"
)

// Config represents the command-line parameters for the application.
type Config struct {
	Scene      string
	Width      int
	Height     int
	TPS        int
	Seed       int64
	HUD        int
	ConfigFile string
	Settings   map[string]string
}

// NewConfig returns a Config populated with sensible defaults.
func NewConfig() *Config {
	return &Config{
		Scene:    "pile",
		Width:    960,
		Height:   640,
		TPS:      60,
		Seed:     42,
		HUD:      260,
		Settings: map[string]string{},
	}
}

// Bind attaches the configuration to the provided FlagSet.
func (c *Config) Bind(fs *flag.FlagSet) {
	c.BindScene(fs)
	fs.IntVar(&c.Width, "width", c.Width, "scene view width in pixels")
	fs.IntVar(&c.Height, "height", c.Height, "scene view height in pixels")
	fs.IntVar(&c.TPS, "tps", c.TPS, "ticks per second")
	fs.IntVar(&c.HUD, "hud", c.HUD, "parameter panel width in pixels, 0 hides it")
}

// BindScene attaches only the scene selection flags, for tools without a
// window.
func (c *Config) BindScene(fs *flag.FlagSet) {
	fs.StringVar(&c.Scene, "scene", c.Scene, "scene to run")
	fs.Int64Var(&c.Seed, "seed", c.Seed, "seed for scene reset")
	fs.StringVar(&c.ConfigFile, "config", c.ConfigFile, "KEY=value file of scene settings")
	fs.Var(settingsFlag(c.Settings), "set", "scene setting as key=value, repeatable")
}

// SceneConfig merges the -config file under the -set values. Keys from the
// file are lower-cased so FOO=1 and foo=1 mean the same thing.
func (c *Config) SceneConfig() (map[string]string, error) {
	out := map[string]string{}
	if c.ConfigFile != "" {
		env, err := godotenv.Read(c.ConfigFile)
		if err != nil {
			return nil, fmt.Errorf("read config %s: %w", c.ConfigFile, err)
		}
		for k, v := range env {
			out[strings.ToLower(k)] = v
		}
	}
	maps.Copy(out, c.Settings)
	return out, nil
}

// NewScene builds the selected scene from the merged settings and resets it
// with the configured seed. A seed setting overrides the -seed flag. Scenes
// that accept a logger get l.
func (c *Config) NewScene(l *log.Logger) (core.Scene, error) {
	factory, ok := core.Scenes()[c.Scene]
	if !ok {
		return nil, fmt.Errorf("unknown scene %q (have %s)", c.Scene, strings.Join(core.SceneNames(), ", "))
	}
	settings, err := c.SceneConfig()
	if err != nil {
		return nil, err
	}
	if v, ok := settings["seed"]; ok {
		if seed, err := strconv.ParseInt(v, 10, 64); err == nil {
			c.Seed = seed
		}
	}
	scene := factory(settings)
	if ls, ok := scene.(interface{ SetLogger(*log.Logger) }); ok && l != nil {
		ls.SetLogger(l)
	}
	scene.Reset(c.Seed)
	return scene, nil
}

type settingsFlag map[string]string

func (s settingsFlag) String() string {
	parts := make([]string, 0, len(s))
	for k, v := range s {
		parts = append(parts, k+"="+v)
	}
	return strings.Join(parts, ",")
}

func (s settingsFlag) Set(v string) error {
	key, value, ok := strings.Cut(v, "=")
	key = strings.TrimSpace(key)
	if !ok || key == "" {
		return fmt.Errorf("setting %q is not key=value", v)
	}
	s[key] = strings.TrimSpace(value)
	return nil
}
