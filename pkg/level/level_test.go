package level

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

const sampleLevel = `supertux-level:
  version: 3
  name: Welcome to Antarctica
  author: Tux
  target-time: 45.5
  sectors:
    - name: main
      music: chipdisko.ogg
      width: 300
      height: 35
    - name: cave
`

func TestParseDocument(t *testing.T) {
	path := writeFile(t, t.TempDir(), "1.stl", sampleLevel)

	doc, err := ParseDocument(path)
	if err != nil {
		t.Fatalf("ParseDocument() error: %v", err)
	}
	if doc.Filename() != path {
		t.Errorf("Filename() = %q, want %q", doc.Filename(), path)
	}
	root := doc.Root()
	if root.Name() != RootTag {
		t.Errorf("root name = %q, want %q", root.Name(), RootTag)
	}

	m, err := root.Mapping()
	if err != nil {
		t.Fatalf("Mapping() error: %v", err)
	}

	var name string
	if !m.GetString("name", &name) || name != "Welcome to Antarctica" {
		t.Errorf("name = %q", name)
	}
	var version int
	if !m.GetInt("version", &version) || version != 3 {
		t.Errorf("version = %d", version)
	}
	missing := "keep"
	if m.GetString("nope", &missing) || missing != "keep" {
		t.Error("missing key must not touch out")
	}
	if got := len(m.GetMappings("sectors")); got != 2 {
		t.Errorf("sectors = %d, want 2", got)
	}
	keys := m.Keys()
	if len(keys) != 5 || keys[0] != "version" {
		t.Errorf("Keys() = %v", keys)
	}
}

func TestParseDocumentErrors(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr error
	}{
		{"empty", "", ErrEmptyDocument},
		{"two roots", "a: {}\nb: {}\n", ErrMalformedDocument},
		{"scalar root", "just text\n", ErrMalformedDocument},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseDocumentBytes([]byte(tt.content))
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("error = %v, want %v", err, tt.wantErr)
			}
		})
	}

	if _, err := ParseDocumentBytes([]byte("a: [broken")); err == nil {
		t.Error("expected a syntax error")
	}
	if _, err := ParseDocument(filepath.Join(t.TempDir(), "missing.stl")); err == nil {
		t.Error("expected an error for a missing file")
	}
}

func TestNodeMappingEmptyBody(t *testing.T) {
	doc, err := ParseDocumentBytes([]byte("supertux-level:\n"))
	if err != nil {
		t.Fatalf("ParseDocumentBytes() error: %v", err)
	}
	m, err := doc.Root().Mapping()
	if err != nil {
		t.Fatalf("Mapping() error: %v", err)
	}
	if len(m.Keys()) != 0 {
		t.Errorf("expected empty mapping, got %v", m.Keys())
	}
}

func TestNodeMappingNotMapping(t *testing.T) {
	doc, err := ParseDocumentBytes([]byte("supertux-level: [1, 2]\n"))
	if err != nil {
		t.Fatalf("ParseDocumentBytes() error: %v", err)
	}
	if _, err := doc.Root().Mapping(); !errors.Is(err, ErrNotMapping) {
		t.Errorf("error = %v, want ErrNotMapping", err)
	}
}

func TestMappingGetBoolAndNested(t *testing.T) {
	doc, err := ParseDocumentBytes([]byte("root:\n  flag: true\n  nested:\n    x: 4\n"))
	if err != nil {
		t.Fatal(err)
	}
	m, _ := doc.Root().Mapping()

	var flag bool
	if !m.GetBool("flag", &flag) || !flag {
		t.Error("flag should be true")
	}
	nested, ok := m.GetMapping("nested")
	if !ok {
		t.Fatal("nested mapping missing")
	}
	var x int
	if !nested.GetInt("x", &x) || x != 4 {
		t.Errorf("x = %d, want 4", x)
	}
	if _, ok := m.GetMapping("flag"); ok {
		t.Error("scalar must not read as mapping")
	}
}

func TestLoadLevel(t *testing.T) {
	path := writeFile(t, t.TempDir(), "1.stl", sampleLevel)

	lvl, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if lvl.Name != "Welcome to Antarctica" || lvl.Author != "Tux" {
		t.Errorf("unexpected level %+v", lvl)
	}
	if lvl.TargetTime != 45.5 {
		t.Errorf("TargetTime = %v", lvl.TargetTime)
	}
	if lvl.Filename != path {
		t.Errorf("Filename = %q", lvl.Filename)
	}
	if s := lvl.Sector("cave"); s == nil {
		t.Error("cave sector missing")
	}
	if lvl.Sector("attic") != nil {
		t.Error("unknown sector should be nil")
	}
	if got := lvl.StartSector().Name; got != "main" {
		t.Errorf("StartSector() = %q, want main", got)
	}
}

func TestLoadLevelDefaultSector(t *testing.T) {
	path := writeFile(t, t.TempDir(), "bare.stl", "supertux-level:\n  name: Bare\n")
	lvl, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if len(lvl.Sectors) != 1 || lvl.StartSector().Name != DefaultSector {
		t.Errorf("Sectors = %+v", lvl.Sectors)
	}
}

func TestLoadLevelStartSectorWithoutMain(t *testing.T) {
	path := writeFile(t, t.TempDir(), "odd.stl", "supertux-level:\n  sectors:\n    - name: intro\n")
	lvl, err := Load(path)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if got := lvl.StartSector().Name; got != "intro" {
		t.Errorf("StartSector() = %q, want intro", got)
	}
}

func TestLoadNotALevel(t *testing.T) {
	path := writeFile(t, t.TempDir(), "map.stwm", "supertux-worldmap:\n  name: Icy Island\n")
	if _, err := Load(path); !errors.Is(err, ErrNotLevel) {
		t.Errorf("error = %v, want ErrNotLevel", err)
	}
}
