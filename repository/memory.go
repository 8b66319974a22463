package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"mediaimport/model"
)

// memoryRepository is an in-process reference Repository, grounded on
// the teacher's config repository for the read/write-with-lock shape
// but holding Sources and Imports in maps instead of a file.
type memoryRepository struct {
	mu      sync.RWMutex
	sources map[string]*model.Source
	imports map[model.Key]*model.Import
}

// NewMemoryRepository constructs an empty in-memory Repository.
func NewMemoryRepository() Repository {
	return &memoryRepository{
		sources: make(map[string]*model.Source),
		imports: make(map[model.Key]*model.Import),
	}
}

func (r *memoryRepository) Initialize(ctx context.Context) (bool, error) {
	return true, nil
}

func (r *memoryRepository) GetSources(ctx context.Context) ([]*model.Source, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Source, 0, len(r.sources))
	for _, id := range sortedKeys(r.sources) {
		out = append(out, r.sources[id].Clone())
	}
	return out, nil
}

func (r *memoryRepository) GetSourcesForMediaTypes(ctx context.Context, mediaTypes []model.MediaType) ([]*model.Source, error) {
	all, err := r.GetSources(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0:0]
	for _, s := range all {
		for _, mt := range mediaTypes {
			if s.HasMediaType(mt) {
				out = append(out, s)
				break
			}
		}
	}
	return out, nil
}

func (r *memoryRepository) GetSource(ctx context.Context, identifier string) (*model.Source, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sources[identifier]
	if !ok {
		return nil, false, nil
	}
	return s.Clone(), true, nil
}

func (r *memoryRepository) AddSource(ctx context.Context, s *model.Source) (bool, bool, error) {
	if err := s.Validate(); err != nil {
		return false, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.sources[s.Identifier]
	if ok && existing.Equal(s) {
		return true, false, nil
	}
	r.sources[s.Identifier] = s.Clone()
	return true, true, nil
}

func (r *memoryRepository) UpdateSource(ctx context.Context, s *model.Source) (bool, bool, error) {
	if err := s.Validate(); err != nil {
		return false, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	existing, ok := r.sources[s.Identifier]
	if !ok {
		r.sources[s.Identifier] = s.Clone()
		return true, true, nil
	}
	if existing.Equal(s) {
		return true, false, nil
	}
	r.sources[s.Identifier] = s.Clone()
	return true, true, nil
}

func (r *memoryRepository) RemoveSource(ctx context.Context, identifier string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sources, identifier)
	for k, imp := range r.imports {
		if imp.Source.Identifier == identifier {
			delete(r.imports, k)
		}
	}
	return true, nil
}

func (r *memoryRepository) GetImports(ctx context.Context) ([]*model.Import, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*model.Import, 0, len(r.imports))
	for _, k := range sortedImportKeys(r.imports) {
		out = append(out, r.imports[k].Clone())
	}
	return out, nil
}

func (r *memoryRepository) GetImportsBySource(ctx context.Context, sourceIdentifier string) ([]*model.Import, error) {
	all, err := r.GetImports(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0:0]
	for _, i := range all {
		if i.Source.Identifier == sourceIdentifier {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *memoryRepository) GetImportsByMediaTypes(ctx context.Context, mediaTypes []model.MediaType) ([]*model.Import, error) {
	all, err := r.GetImports(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0:0]
	for _, i := range all {
		for _, mt := range mediaTypes {
			if i.HasMediaType(mt) {
				out = append(out, i)
				break
			}
		}
	}
	return out, nil
}

// GetImportsByPath returns imports whose path equals path, or, when
// recurseIntoSubdirs is true, is contained within path per §6.4.
func (r *memoryRepository) GetImportsByPath(ctx context.Context, path string, recurseIntoSubdirs bool) ([]*model.Import, error) {
	all, err := r.GetImports(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0:0]
	for _, i := range all {
		if i.Path == path {
			out = append(out, i)
			continue
		}
		if recurseIntoSubdirs && model.PathContains(path, i.Path) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *memoryRepository) GetImport(ctx context.Context, path string, mediaTypes model.GroupedMediaTypes) (*model.Import, bool, error) {
	key := model.Key{Path: path, MediaTypes: joinTypes(mediaTypes)}
	r.mu.RLock()
	defer r.mu.RUnlock()
	i, ok := r.imports[key]
	if !ok {
		return nil, false, nil
	}
	return i.Clone(), true, nil
}

func (r *memoryRepository) AddImport(ctx context.Context, i *model.Import) (bool, bool, error) {
	if err := i.Validate(); err != nil {
		return false, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := i.Key()
	existing, ok := r.imports[key]
	if ok && existing.Equal(i) {
		return true, false, nil
	}
	r.imports[key] = i.Clone()
	return true, true, nil
}

func (r *memoryRepository) UpdateImport(ctx context.Context, i *model.Import) (bool, bool, error) {
	if err := i.Validate(); err != nil {
		return false, false, err
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	key := i.Key()
	existing, ok := r.imports[key]
	if !ok {
		r.imports[key] = i.Clone()
		return true, true, nil
	}
	if existing.Equal(i) {
		return true, false, nil
	}
	r.imports[key] = i.Clone()
	return true, true, nil
}

func (r *memoryRepository) RemoveImport(ctx context.Context, i *model.Import) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.imports, i.Key())
	return true, nil
}

func (r *memoryRepository) UpdateLastSync(ctx context.Context, i *model.Import) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	key := i.Key()
	existing, ok := r.imports[key]
	if !ok {
		return false, nil
	}
	existing.LastSynced = i.LastSynced
	if src, ok := r.sources[existing.Source.Identifier]; ok && i.LastSynced.After(src.LastSynced) {
		src.LastSynced = i.LastSynced
	}
	return true, nil
}

func sortedKeys(m map[string]*model.Source) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func sortedImportKeys(m map[model.Key]*model.Import) []model.Key {
	out := make([]model.Key, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Slice(out, func(a, b int) bool {
		if out[a].Path != out[b].Path {
			return out[a].Path < out[b].Path
		}
		return out[a].MediaTypes < out[b].MediaTypes
	})
	return out
}

func joinTypes(mt model.GroupedMediaTypes) string {
	parts := make([]string, len(mt))
	for i, t := range mt {
		parts[i] = string(t)
	}
	return strings.Join(parts, ",")
}
