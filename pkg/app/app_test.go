package app

import (
	"os"
	"path/filepath"
	"testing"
	"testing/fstest"

	"github.com/decker502/tux/pkg/config"
	"github.com/decker502/tux/pkg/embedded"
	"github.com/decker502/tux/pkg/game"
	"github.com/decker502/tux/pkg/scenes"
)

func bundledWorld() fstest.MapFS {
	return fstest.MapFS{
		"data/worlds/icyisland/info": {Data: []byte("supertux-world:\n  title: Icy Island\n")},
		"data/worlds/icyisland/worldmap.stwm": {Data: []byte(
			"supertux-worldmap:\n  name: Icy Island\n  spawnpoints:\n    - name: main\n      x: 0\n      y: 0\n" +
				"  levels:\n    - name: levels/1.stl\n      x: 0\n      y: 0\n")},
		"data/worlds/icyisland/levels/1.stl": {Data: []byte("supertux-level:\n  name: One\n")},
	}
}

func testConfig(t *testing.T) Config {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("XDG_DATA_HOME", home)
	return Config{
		AppConfig: config.AppConfig{
			DataDir: filepath.Join(t.TempDir(), "data"),
			AppName: "tux_app_test",
			Profile: 1,
			Verbose: true,
		},
	}
}

func TestResolveWorldDir(t *testing.T) {
	cfg := testConfig(t)

	if got, want := resolveWorldDir(cfg), filepath.ToSlash(filepath.Join(cfg.WorldsDir(), config.DefaultWorld)); got != want {
		t.Errorf("default = %q, want %q", got, want)
	}

	cfg.World = "forest"
	if got := resolveWorldDir(cfg); filepath.Base(got) != "forest" {
		t.Errorf("name = %q", got)
	}

	dir := t.TempDir()
	cfg.World = dir
	if got := resolveWorldDir(cfg); got != dir {
		t.Errorf("existing dir = %q, want %q", got, dir)
	}
}

func TestNewAppStartsBundledWorldmap(t *testing.T) {
	embedded.Init(bundledWorld())
	cfg := testConfig(t)

	a, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	defer a.Close()

	if _, err := os.Stat(filepath.Join(cfg.WorldsDir(), "icyisland", "levels", "1.stl")); err != nil {
		t.Errorf("bundled world should be installed: %v", err)
	}
	current := a.Manager().Screens().Current()
	if current == nil || current.Kind() != game.ScreenWorldmap {
		t.Fatalf("foreground = %v, want worldmap", current)
	}
	if w, h := a.Layout(0, 0); w != config.GameWindowWidth || h != config.GameWindowHeight {
		t.Errorf("Layout() = %d,%d", w, h)
	}
}

func TestNewAppStartsLevel(t *testing.T) {
	embedded.Init(bundledWorld())
	cfg := testConfig(t)
	cfg.Level = "levels/1.stl"

	a, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	defer a.Close()

	if _, ok := a.Manager().Screens().Current().(*scenes.LevelScreen); !ok {
		t.Errorf("foreground = %T, want level screen", a.Manager().Screens().Current())
	}
}

func TestNewAppErrors(t *testing.T) {
	embedded.Init(bundledWorld())

	cfg := testConfig(t)
	cfg.World = "atlantis"
	if _, err := NewApp(cfg); err == nil {
		t.Error("expected error for unknown world")
	}

	cfg = testConfig(t)
	cfg.Level = "levels/missing.stl"
	if _, err := NewApp(cfg); err == nil {
		t.Error("expected error for missing level")
	}
}

func TestApplySettings(t *testing.T) {
	lastWorld := t.TempDir()
	saved := &game.GameSettings{Language: "de", Profile: 2, LastWorld: lastWorld}

	t.Run("fills unset values", func(t *testing.T) {
		cfg := Config{}
		applySettings(&cfg, saved)
		if cfg.Lang != "de" || cfg.Profile != 2 || cfg.World != lastWorld {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("explicit values win", func(t *testing.T) {
		cfg := Config{World: "forest"}
		cfg.Lang = "fr"
		cfg.Profile = 3
		applySettings(&cfg, saved)
		if cfg.Lang != "fr" || cfg.Profile != 3 || cfg.World != "forest" {
			t.Errorf("cfg = %+v", cfg)
		}
	})

	t.Run("missing last world", func(t *testing.T) {
		cfg := Config{}
		applySettings(&cfg, &game.GameSettings{LastWorld: filepath.Join(lastWorld, "gone")})
		if cfg.World != "" {
			t.Errorf("World = %q, want empty", cfg.World)
		}
		if cfg.Profile != 1 {
			t.Errorf("Profile = %d, want 1", cfg.Profile)
		}
	})
}

func TestNewAppRemembersWorld(t *testing.T) {
	embedded.Init(bundledWorld())
	cfg := testConfig(t)

	a, err := NewApp(cfg)
	if err != nil {
		t.Fatalf("NewApp() error: %v", err)
	}
	defer a.Close()

	want := filepath.ToSlash(filepath.Join(cfg.WorldsDir(), config.DefaultWorld))
	if got := a.Settings().LastWorld; got != want {
		t.Errorf("LastWorld = %q, want %q", got, want)
	}
	if a.Settings().Profile != 1 {
		t.Errorf("Profile = %d, want 1", a.Settings().Profile)
	}
}
