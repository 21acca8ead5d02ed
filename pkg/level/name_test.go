package level

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/decker502/tux/pkg/i18n"
)

// TestReadNameOutcomes 三种失败原因都得到空名字，但状态可以区分
func TestReadNameOutcomes(t *testing.T) {
	dir := t.TempDir()
	named := writeFile(t, dir, "named.stl", "supertux-level:\n  name: Icy Road\n")
	unnamed := writeFile(t, dir, "unnamed.stl", "supertux-level:\n  author: Tux\n")
	worldmap := writeFile(t, dir, "map.stwm", "supertux-worldmap:\n  name: Icy Island\n")
	broken := writeFile(t, dir, "broken.stl", "supertux-level: [oops\n")
	missing := filepath.Join(dir, "missing.stl")

	tests := []struct {
		name       string
		file       string
		wantStatus NameStatus
		wantName   string
	}{
		{"named", named, NameFound, "Icy Road"},
		{"no name field", unnamed, NameMissing, ""},
		{"not a level", worldmap, NameNotLevel, ""},
		{"syntax error", broken, NameParseFailed, ""},
		{"missing file", missing, NameParseFailed, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := ReadName(tt.file, nil)
			if res.Status != tt.wantStatus {
				t.Errorf("Status = %s, want %s", res.Status, tt.wantStatus)
			}
			if res.Name != tt.wantName {
				t.Errorf("Name = %q, want %q", res.Name, tt.wantName)
			}
			if got := LevelName(tt.file, nil); got != tt.wantName {
				t.Errorf("LevelName() = %q, want %q", got, tt.wantName)
			}
		})
	}
}

func TestReadNameParseFailedCarriesError(t *testing.T) {
	res := ReadName(filepath.Join(t.TempDir(), "nope.stl"), nil)
	if res.Err == nil {
		t.Error("parse failures should carry the cause")
	}
}

// TestReadNameTranslated 关卡目录被注册为翻译目录
func TestReadNameTranslated(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "1.stl", "supertux-level:\n  name: Welcome to Antarctica\n")
	writeFile(t, dir, "locale/de.yaml", "locale: de\nmessages:\n  Welcome to Antarctica: Willkommen in der Antarktis\n")

	dict := i18n.NewDictionary("de")
	if got := LevelName(path, dict); got != "Willkommen in der Antarktis" {
		t.Errorf("LevelName() = %q", got)
	}
}

func TestNameStatusString(t *testing.T) {
	if NameNotLevel.String() != "not-a-level" || NameStatus(9).String() != "unknown" {
		t.Error("unexpected NameStatus strings")
	}
}

func TestNameCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "1.stl", "supertux-level:\n  name: First\n")

	cache := NewNameCache(nil)
	if got := cache.Name(path); got != "First" {
		t.Errorf("Name() = %q", got)
	}
	writeFile(t, dir, "1.stl", "supertux-level:\n  name: Renamed\n")
	if got := cache.Name(path); got != "First" {
		t.Errorf("cached Name() = %q, want First", got)
	}
	if cache.Reads() != 1 {
		t.Errorf("Reads() = %d, want 1", cache.Reads())
	}

	cache.Invalidate(path)
	if got := cache.Name(path); got != "Renamed" {
		t.Errorf("Name() after Invalidate = %q", got)
	}

	cache.InvalidateAll()
	cache.Get(path)
	if cache.Reads() != 3 {
		t.Errorf("Reads() = %d, want 3", cache.Reads())
	}
}

// TestWatcherInvalidatesCache 文件变化后缓存失效
func TestWatcherInvalidatesCache(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "levels/1.stl", "supertux-level:\n  name: Before\n")

	cache := NewNameCache(nil)
	if got := cache.Name(path); got != "Before" {
		t.Fatalf("Name() = %q", got)
	}

	w, err := NewWatcher(cache, dir)
	if err != nil {
		t.Skipf("fsnotify not available: %v", err)
	}
	defer w.Close()

	writeFile(t, dir, "levels/1.stl", "supertux-level:\n  name: After\n")

	select {
	case changed := <-w.Events:
		if filepath.Clean(changed) != filepath.Clean(path) {
			t.Errorf("event for %q, want %q", changed, path)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("timed out waiting for watcher event")
	}

	if got := cache.Name(path); got != "After" {
		t.Errorf("Name() after change = %q, want After", got)
	}
}

func TestWatcherCloseTwice(t *testing.T) {
	w, err := NewWatcher(NewNameCache(nil), t.TempDir())
	if err != nil {
		t.Skipf("fsnotify not available: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("first Close() error: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Errorf("second Close() error: %v", err)
	}
}
