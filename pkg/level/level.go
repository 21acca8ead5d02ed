package level

import (
	"errors"
	"fmt"
)

const (
	// RootTag identifies a level document.
	RootTag = "supertux-level"
	// DefaultSector is the sector a level starts in.
	DefaultSector = "main"
)

// ErrNotLevel is returned when a document's root tag is not RootTag.
var ErrNotLevel = errors.New("not a level document")

// Sector is one connected area of a level.
type Sector struct {
	Name   string `yaml:"name"`
	Music  string `yaml:"music"`
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
}

// Level is the metadata of a level file. Tiles and objects are left to the
// level interpreter.
type Level struct {
	Filename   string   `yaml:"-"`
	Version    int      `yaml:"version"`
	Name       string   `yaml:"name"`
	Author     string   `yaml:"author"`
	License    string   `yaml:"license"`
	TargetTime float64  `yaml:"target-time"`
	Sectors    []Sector `yaml:"sectors"`
}

// Load reads the level at path.
func Load(path string) (*Level, error) {
	doc, err := ParseDocument(path)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc)
}

// FromDocument builds a Level from a parsed document.
func FromDocument(doc *Document) (*Level, error) {
	root := doc.Root()
	if root.Name() != RootTag {
		return nil, fmt.Errorf("%s: root %q: %w", doc.Filename(), root.Name(), ErrNotLevel)
	}

	mapping, err := root.Mapping()
	if err != nil {
		return nil, err
	}

	lvl := &Level{Filename: doc.Filename()}
	if err := mapping.Decode(lvl); err != nil {
		return nil, fmt.Errorf("decode level %s: %w", doc.Filename(), err)
	}
	lvl.Filename = doc.Filename()

	if len(lvl.Sectors) == 0 {
		lvl.Sectors = []Sector{{Name: DefaultSector}}
	}
	return lvl, nil
}

// Sector returns the named sector, or nil.
func (l *Level) Sector(name string) *Sector {
	for i := range l.Sectors {
		if l.Sectors[i].Name == name {
			return &l.Sectors[i]
		}
	}
	return nil
}

// StartSector returns the sector play begins in: DefaultSector if the level
// has one, otherwise the first sector.
func (l *Level) StartSector() *Sector {
	if s := l.Sector(DefaultSector); s != nil {
		return s
	}
	return &l.Sectors[0]
}
