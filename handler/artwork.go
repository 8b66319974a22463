package handler

import "strings"

// stripAutoAddedArtwork removes the artwork entries VideoImportHandler
// auto-adds and that must never participate in remote/local comparison:
// the DefaultVideo.png placeholder, any image:// URL, and any artwork
// whose type is inherited from a parent set/tvshow/season (§6 supplement).
func stripAutoAddedArtwork(art map[string]string) map[string]string {
	if len(art) == 0 {
		return art
	}
	out := make(map[string]string, len(art))
	for artType, url := range art {
		if url == "DefaultVideo.png" {
			continue
		}
		if strings.HasPrefix(url, "image://") {
			continue
		}
		if strings.HasPrefix(artType, "set.") || strings.HasPrefix(artType, "tvshow.") || strings.HasPrefix(artType, "season.") {
			continue
		}
		out[artType] = url
	}
	return out
}

// artworkEqual compares two artwork sets after stripping auto-added
// entries from both.
func artworkEqual(a, b map[string]string) bool {
	a = stripAutoAddedArtwork(a)
	b = stripAutoAddedArtwork(b)
	if len(a) != len(b) {
		return false
	}
	for k, v := range a {
		if b[k] != v {
			return false
		}
	}
	return true
}
