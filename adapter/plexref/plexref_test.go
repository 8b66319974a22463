package plexref

import (
	"context"
	"testing"

	"mediaimport/model"
)

func TestFactoryID(t *testing.T) {
	if got := NewFactory().ID(); got != "plex" {
		t.Fatalf("expected id 'plex', got %q", got)
	}
}

func TestImporterCapabilityFlags(t *testing.T) {
	imp := &Importer{}
	if !imp.CanImport("any") {
		t.Fatal("plex importer should accept any path; filtering happens at the library-section level")
	}
	if !imp.CanUpdatePlaycountOnSource("") || !imp.CanUpdateLastPlayedOnSource("") || !imp.CanUpdateResumePositionOnSource("") {
		t.Fatal("plex importer should support playback write-back")
	}
	if imp.CanUpdateMetadataOnSource("") {
		t.Fatal("plex importer should not claim metadata write-back")
	}
}

func TestDiscovererStartStopIsIdempotent(t *testing.T) {
	d := newDiscoverer()
	if err := d.Start(context.Background(), func(s *model.Source) {}); err != nil {
		t.Fatalf("Start returned an error: %v", err)
	}
	if err := d.Start(context.Background(), func(s *model.Source) {}); err != nil {
		t.Fatalf("second Start returned an error: %v", err)
	}
	d.Stop()
	d.Stop()
}
