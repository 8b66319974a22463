package repository

import "mediaimport/model"

// MergeSources reduces sources reported by multiple repositories for
// the same identifier into a single Source per §4.B: available media
// types are unioned, lastSynced takes the maximum.
func MergeSources(sets ...[]*model.Source) []*model.Source {
	merged := make(map[string]*model.Source)
	order := make([]string, 0)
	for _, set := range sets {
		for _, s := range set {
			if existing, ok := merged[s.Identifier]; ok {
				existing.MergeFrom(s)
				continue
			}
			merged[s.Identifier] = s.Clone()
			order = append(order, s.Identifier)
		}
	}
	out := make([]*model.Source, 0, len(order))
	for _, id := range order {
		out = append(out, merged[id])
	}
	return out
}

// MergeSource looks up identifier across sets and returns the merged
// view, or (nil, false) if no repository reports it.
func MergeSource(identifier string, sets ...[]*model.Source) (*model.Source, bool) {
	var result *model.Source
	for _, set := range sets {
		for _, s := range set {
			if s.Identifier != identifier {
				continue
			}
			if result == nil {
				result = s.Clone()
			} else {
				result.MergeFrom(s)
			}
		}
	}
	return result, result != nil
}
