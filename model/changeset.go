package model

// ChangesetType classifies one item's relationship between the remote
// payload and the local library, per §4.E / GLOSSARY.
type ChangesetType int

const (
	ChangesetNone ChangesetType = iota
	ChangesetAdded
	ChangesetChanged
	ChangesetRemoved
)

func (c ChangesetType) String() string {
	switch c {
	case ChangesetNone:
		return "none"
	case ChangesetAdded:
		return "added"
	case ChangesetChanged:
		return "changed"
	case ChangesetRemoved:
		return "removed"
	default:
		return "unknown"
	}
}

// ChangesetEntry pairs a classification with the item it applies to.
// Item is the *Item the classification applies to: the remote payload
// for Added/Changed, the matched local item for Removed.
type ChangesetEntry struct {
	Type ChangesetType
	Item *Item
}

// Changeset is the ordered result of one media type's matching pass.
type Changeset []ChangesetEntry

// Counts tallies entries by type, used by the "full changeset
// completeness" testable property.
func (c Changeset) Counts() (added, changed, removed, none int) {
	for _, e := range c {
		switch e.Type {
		case ChangesetAdded:
			added++
		case ChangesetChanged:
			changed++
		case ChangesetRemoved:
			removed++
		case ChangesetNone:
			none++
		}
	}
	return
}
