package level

import (
	"log"
	"path/filepath"

	"github.com/decker502/tux/pkg/i18n"
)

// NameStatus tells why ReadName produced the name it did.
type NameStatus int

const (
	// NameFound: a level document with a name field.
	NameFound NameStatus = iota
	// NameMissing: a level document without a name field.
	NameMissing
	// NameNotLevel: a well-formed document whose root is not a level.
	NameNotLevel
	// NameParseFailed: the file could not be read or parsed.
	NameParseFailed
)

func (s NameStatus) String() string {
	switch s {
	case NameFound:
		return "found"
	case NameMissing:
		return "missing"
	case NameNotLevel:
		return "not-a-level"
	case NameParseFailed:
		return "parse-failed"
	default:
		return "unknown"
	}
}

// NameResult is the outcome of reading a level's display name. Name is
// empty unless Status is NameFound.
type NameResult struct {
	Status NameStatus
	Name   string
	Err    error
}

// ReadName registers the level's directory with dict (when not nil), parses
// the level and returns its translated name. It never panics on bad input.
func ReadName(filename string, dict *i18n.Dictionary) NameResult {
	if dict != nil {
		if err := dict.AddDirectory(filepath.Dir(filename)); err != nil {
			log.Printf("[Level] Warning: translations for '%s': %v", filename, err)
		}
	}

	doc, err := ParseDocument(filename)
	if err != nil {
		log.Printf("[Level] Warning: Problem getting name of '%s': %v", filename, err)
		return NameResult{Status: NameParseFailed, Err: err}
	}

	root := doc.Root()
	if root.Name() != RootTag {
		return NameResult{Status: NameNotLevel}
	}

	mapping, err := root.Mapping()
	if err != nil {
		log.Printf("[Level] Warning: Problem getting name of '%s': %v", filename, err)
		return NameResult{Status: NameParseFailed, Err: err}
	}

	var name string
	if !mapping.GetString("name", &name) {
		return NameResult{Status: NameMissing}
	}
	if dict != nil {
		name = dict.Translate(name)
	}
	return NameResult{Status: NameFound, Name: name}
}

// LevelName collapses ReadName into a display string: empty for every
// failure mode.
func LevelName(filename string, dict *i18n.Dictionary) string {
	return ReadName(filename, dict).Name
}
