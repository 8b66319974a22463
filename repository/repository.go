// Package repository defines the durable store contract for Sources
// and Imports (not for the imported items themselves), per §4.B, plus
// an in-memory reference implementation and a GORM-backed one.
package repository

import (
	"context"

	"mediaimport/model"
)

// Repository is the durable store of Sources and Imports. A
// repository operation returns (true, false) when the entity was
// already present and identical, (true, true) when state changed, and
// (false, _) on hard failure.
type Repository interface {
	// Initialize opens the underlying store. Idempotent.
	Initialize(ctx context.Context) (bool, error)

	GetSources(ctx context.Context) ([]*model.Source, error)
	GetSourcesForMediaTypes(ctx context.Context, mediaTypes []model.MediaType) ([]*model.Source, error)
	GetSource(ctx context.Context, identifier string) (*model.Source, bool, error)
	AddSource(ctx context.Context, s *model.Source) (ok bool, added bool, err error)
	UpdateSource(ctx context.Context, s *model.Source) (ok bool, updated bool, err error)
	RemoveSource(ctx context.Context, identifier string) (bool, error)

	GetImports(ctx context.Context) ([]*model.Import, error)
	GetImportsBySource(ctx context.Context, sourceIdentifier string) ([]*model.Import, error)
	GetImportsByMediaTypes(ctx context.Context, mediaTypes []model.MediaType) ([]*model.Import, error)
	GetImportsByPath(ctx context.Context, path string, recurseIntoSubdirs bool) ([]*model.Import, error)
	GetImport(ctx context.Context, path string, mediaTypes model.GroupedMediaTypes) (*model.Import, bool, error)
	AddImport(ctx context.Context, i *model.Import) (ok bool, added bool, err error)
	UpdateImport(ctx context.Context, i *model.Import) (ok bool, updated bool, err error)
	RemoveImport(ctx context.Context, i *model.Import) (bool, error)

	UpdateLastSync(ctx context.Context, i *model.Import) (bool, error)
}
