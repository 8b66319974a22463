package automationref

import "testing"

func TestFactoriesExposeDistinctIDs(t *testing.T) {
	ids := map[string]bool{
		NewRadarrFactory().ID(): true,
		NewSonarrFactory().ID(): true,
		NewLidarrFactory().ID(): true,
	}
	if len(ids) != 3 {
		t.Fatalf("expected 3 distinct factory ids, got %v", ids)
	}
}

func TestImportersNeverRetrieveItems(t *testing.T) {
	importers := []interface{ CanImport(string) bool }{
		NewRadarrFactory().NewImporter(),
		NewSonarrFactory().NewImporter(),
		NewLidarrFactory().NewImporter(),
	}
	for _, imp := range importers {
		if imp.CanImport("anything") {
			t.Fatalf("automation importer %T must never accept a retrieval path", imp)
		}
	}
}

func TestImportersGateMetadataWriteBackOn(t *testing.T) {
	cases := []interface{ CanUpdateMetadataOnSource(string) bool }{
		NewRadarrFactory().NewImporter(),
		NewSonarrFactory().NewImporter(),
		NewLidarrFactory().NewImporter(),
	}
	for _, imp := range cases {
		if !imp.CanUpdateMetadataOnSource("any") {
			t.Fatalf("automation importer %T should gate metadata write-back on", imp)
		}
	}
}
