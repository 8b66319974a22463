// Package model defines the import engine's core entities: Source,
// Import, Settings, media types and their ordering, and the Changeset
// vocabulary shared by the handler, task and processor packages.
package model

import (
	"fmt"
	"time"

	"mediaimport/importerrors"
)

// Source is a logical origin of media items: a network media server, a
// content-provider plugin, or any other external catalog the engine can
// pull from.
type Source struct {
	Identifier          string
	BasePath            string
	FriendlyName        string
	IconURL             string
	AvailableMediaTypes map[MediaType]bool
	LastSynced          time.Time
	ManuallyAdded       bool
	ImporterID          string
	Settings            *Settings

	// Active and Ready are transient: they describe the engine's live
	// view of the source and are never persisted by a Repository.
	Active bool
	Ready  bool
}

// NewSource constructs a Source with an initialised media-type set and
// settings bundle.
func NewSource(identifier, importerID string) *Source {
	return &Source{
		Identifier:          identifier,
		ImporterID:          importerID,
		AvailableMediaTypes: make(map[MediaType]bool),
		Settings:            NewSettings(),
	}
}

// Validate checks the invariants from §3: identifier must be non-empty
// once registered.
func (s *Source) Validate() error {
	if s == nil || s.Identifier == "" {
		return fmt.Errorf("%w: source identifier must not be empty", importerrors.ErrInvalidInput)
	}
	return nil
}

// AddMediaType registers mt as available on the source. It rejects
// unknown media types per §4.A.
func (s *Source) AddMediaType(mt MediaType) error {
	if !mt.Valid() {
		return &UnknownMediaTypeError{MediaType: mt}
	}
	if s.AvailableMediaTypes == nil {
		s.AvailableMediaTypes = make(map[MediaType]bool)
	}
	s.AvailableMediaTypes[mt] = true
	return nil
}

// HasMediaType reports whether mt is currently available on the source.
func (s *Source) HasMediaType(mt MediaType) bool {
	return s.AvailableMediaTypes[mt]
}

// Clone performs a deep copy of s, including its Settings bundle. See
// the "deep clone isolation" testable property in §8.
func (s *Source) Clone() *Source {
	if s == nil {
		return nil
	}
	out := *s
	out.AvailableMediaTypes = make(map[MediaType]bool, len(s.AvailableMediaTypes))
	for k, v := range s.AvailableMediaTypes {
		out.AvailableMediaTypes[k] = v
	}
	out.Settings = s.Settings.Clone()
	return &out
}

// Equal compares two sources for value equality, including the
// transient Active/Ready flags (which participate in display equality
// per §4.A but not in repository identity — see IdentityEqual).
func (s *Source) Equal(other *Source) bool {
	if s == nil || other == nil {
		return s == other
	}
	if s.Identifier != other.Identifier ||
		s.BasePath != other.BasePath ||
		s.FriendlyName != other.FriendlyName ||
		s.IconURL != other.IconURL ||
		s.ManuallyAdded != other.ManuallyAdded ||
		s.ImporterID != other.ImporterID ||
		s.Active != other.Active ||
		s.Ready != other.Ready ||
		!s.LastSynced.Equal(other.LastSynced) {
		return false
	}
	if len(s.AvailableMediaTypes) != len(other.AvailableMediaTypes) {
		return false
	}
	for k := range s.AvailableMediaTypes {
		if !other.AvailableMediaTypes[k] {
			return false
		}
	}
	return s.Settings.Equal(other.Settings)
}

// IdentityEqual compares two sources only by their repository identity
// (the identifier), ignoring every other field.
func (s *Source) IdentityEqual(other *Source) bool {
	if s == nil || other == nil {
		return s == other
	}
	return s.Identifier == other.Identifier
}

// MergeFrom unions AvailableMediaTypes and takes the maximum LastSynced
// between s and other, per the §4.B repository-merge rule for sources
// reported by more than one Repository.
func (s *Source) MergeFrom(other *Source) {
	if other == nil {
		return
	}
	if s.AvailableMediaTypes == nil {
		s.AvailableMediaTypes = make(map[MediaType]bool)
	}
	for mt := range other.AvailableMediaTypes {
		s.AvailableMediaTypes[mt] = true
	}
	if other.LastSynced.After(s.LastSynced) {
		s.LastSynced = other.LastSynced
	}
}
