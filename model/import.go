package model

import (
	"fmt"
	"strings"
	"time"

	"mediaimport/importerrors"
)

// Import is an instruction to pull a specific GroupedMediaTypes tuple
// from a specific (source, path).
type Import struct {
	Path       string
	Source     Source // embedded snapshot by value; authoritative copy lives in the Source store
	MediaTypes GroupedMediaTypes
	Recursive  bool
	LastSynced time.Time
	Settings   *Settings
}

// NewImport constructs an Import with default settings.
func NewImport(path string, source Source, mediaTypes GroupedMediaTypes, recursive bool) *Import {
	return &Import{
		Path:       path,
		Source:     source,
		MediaTypes: mediaTypes,
		Recursive:  recursive,
		Settings:   NewSettings(),
	}
}

// Key identifies an Import by its (path, mediaTypes) tuple, as required
// by §3 ("Identity: the tuple (path, mediaTypes)").
type Key struct {
	Path       string
	MediaTypes string // canonical, order-preserving join of MediaTypes
}

// Key returns the identity tuple for this import.
func (i *Import) Key() Key {
	parts := make([]string, len(i.MediaTypes))
	for idx, mt := range i.MediaTypes {
		parts[idx] = string(mt)
	}
	return Key{Path: i.Path, MediaTypes: strings.Join(parts, ",")}
}

// Validate checks the invariants from §3: path non-empty, media types
// non-empty, path contained within the source's base path.
func (i *Import) Validate() error {
	if i == nil || i.Path == "" {
		return fmt.Errorf("%w: import path must not be empty", importerrors.ErrInvalidInput)
	}
	if len(i.MediaTypes) == 0 {
		return fmt.Errorf("%w: import media types must not be empty", importerrors.ErrInvalidInput)
	}
	for _, mt := range i.MediaTypes {
		if !mt.Valid() {
			return &UnknownMediaTypeError{MediaType: mt}
		}
	}
	if i.Source.BasePath != "" && !PathContains(i.Source.BasePath, i.Path) {
		return fmt.Errorf("%w: import path %q is not within source base path %q", importerrors.ErrInvalidInput, i.Path, i.Source.BasePath)
	}
	return nil
}

// PathContains implements the §6.4 path-hierarchy containment check:
// child must equal parent or be a descendant of it under simple
// prefix semantics, since import paths are opaque adapter-specific
// URLs the engine never otherwise parses.
func PathContains(parent, child string) bool {
	if parent == child {
		return true
	}
	if !strings.HasSuffix(parent, "/") {
		parent += "/"
	}
	return strings.HasPrefix(child, parent)
}

// Clone performs a deep copy of i, including its Settings bundle and
// embedded Source snapshot.
func (i *Import) Clone() *Import {
	if i == nil {
		return nil
	}
	out := *i
	out.Source = *i.Source.Clone()
	out.MediaTypes = append(GroupedMediaTypes(nil), i.MediaTypes...)
	out.Settings = i.Settings.Clone()
	return &out
}

// HasMediaType reports whether mt is part of this import's grouped
// media types.
func (i *Import) HasMediaType(mt MediaType) bool {
	return i.MediaTypes.Contains(mt)
}

// Equal compares two imports for value equality.
func (i *Import) Equal(other *Import) bool {
	if i == nil || other == nil {
		return i == other
	}
	if i.Path != other.Path || i.Recursive != other.Recursive || !i.LastSynced.Equal(other.LastSynced) {
		return false
	}
	if len(i.MediaTypes) != len(other.MediaTypes) {
		return false
	}
	for idx := range i.MediaTypes {
		if i.MediaTypes[idx] != other.MediaTypes[idx] {
			return false
		}
	}
	return i.Settings.Equal(other.Settings)
}
