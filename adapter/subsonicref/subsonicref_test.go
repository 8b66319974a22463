package subsonicref

import "testing"

func TestFactoryID(t *testing.T) {
	if got := NewFactory().ID(); got != "subsonic" {
		t.Fatalf("expected id 'subsonic', got %q", got)
	}
}

func TestImporterCapabilityFlags(t *testing.T) {
	imp := &Importer{}
	if imp.CanLookupSource() {
		t.Fatal("subsonic importer has no cheap lookup protocol distinct from Ping")
	}
	if !imp.CanUpdatePlaycountOnSource("") || !imp.CanUpdateLastPlayedOnSource("") {
		t.Fatal("subsonic importer should support scrobble write-back")
	}
	if imp.CanUpdateResumePositionOnSource("") {
		t.Fatal("subsonic has no resume-position concept")
	}
}
