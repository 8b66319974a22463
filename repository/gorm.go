package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"mediaimport/importerrors"
	"mediaimport/importlog"
	"mediaimport/model"
	"mediaimport/settings"
)

// sourceRow is the GORM row for §6.5's source persistence hooks: the
// full Source attribute list excluding transient flags, plus the
// serialized Settings.
type sourceRow struct {
	Identifier          string `gorm:"primaryKey"`
	BasePath            string
	FriendlyName        string
	IconURL             string
	AvailableMediaTypes string // comma-joined MediaType list
	LastSynced          time.Time
	ManuallyAdded       bool
	ImporterID          string
	SettingsXML         string
}

func (sourceRow) TableName() string { return "import_sources" }

// importRow is the GORM row for §6.5's import persistence hooks: path,
// owning source id, ordered media types, recursive flag, lastSynced,
// serialized Settings.
type importRow struct {
	Path             string `gorm:"primaryKey"`
	MediaTypesKey    string `gorm:"primaryKey"`
	MediaTypes       string // ordered, comma-joined
	SourceIdentifier string
	Recursive        bool
	LastSynced       time.Time
	SettingsXML      string
}

func (importRow) TableName() string { return "import_imports" }

// gormRepository is a durable Repository backed by postgres or sqlite
// through GORM, grounded on the teacher's CoreMediaItemRepository
// pattern (context-scoped logging around each query, error wrapping
// via fmt.Errorf rather than panics).
type gormRepository struct {
	db *gorm.DB
}

// NewGormRepository wraps an already-opened *gorm.DB (postgres or
// sqlite, selected by the caller's driver choice) as a Repository.
func NewGormRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

func (r *gormRepository) Initialize(ctx context.Context) (bool, error) {
	if err := r.db.WithContext(ctx).AutoMigrate(&sourceRow{}, &importRow{}); err != nil {
		return false, fmt.Errorf("%w: migrating repository schema: %v", importerrors.ErrPersistence, err)
	}
	return true, nil
}

func (r *gormRepository) GetSources(ctx context.Context) ([]*model.Source, error) {
	var rows []sourceRow
	if err := r.db.WithContext(ctx).Order("identifier").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: listing sources: %v", importerrors.ErrPersistence, err)
	}
	out := make([]*model.Source, 0, len(rows))
	for _, row := range rows {
		out = append(out, sourceFromRow(row))
	}
	return out, nil
}

func (r *gormRepository) GetSourcesForMediaTypes(ctx context.Context, mediaTypes []model.MediaType) ([]*model.Source, error) {
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

func (r *gormRepository) GetSource(ctx context.Context, identifier string) (*model.Source, bool, error) {
	var row sourceRow
	err := r.db.WithContext(ctx).Where("identifier = ?", identifier).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: loading source %q: %v", importerrors.ErrPersistence, identifier, err)
	}
	return sourceFromRow(row), true, nil
}

func (r *gormRepository) AddSource(ctx context.Context, s *model.Source) (bool, bool, error) {
	if err := s.Validate(); err != nil {
		return false, false, err
	}
	log := importlog.FromContext(ctx)
	existing, found, err := r.GetSource(ctx, s.Identifier)
	if err != nil {
		return false, false, err
	}
	if found && existing.Equal(s) {
		return true, false, nil
	}
	row := rowFromSource(s)
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		log.Error().Err(err).Str("source", s.Identifier).Msg("failed to persist source")
		return false, false, fmt.Errorf("%w: saving source %q: %v", importerrors.ErrPersistence, s.Identifier, err)
	}
	return true, true, nil
}

func (r *gormRepository) UpdateSource(ctx context.Context, s *model.Source) (bool, bool, error) {
	return r.AddSource(ctx, s)
}

func (r *gormRepository) RemoveSource(ctx context.Context, identifier string) (bool, error) {
	tx := r.db.WithContext(ctx).Begin()
	if tx.Error != nil {
		return false, fmt.Errorf("%w: %v", importerrors.ErrPersistence, tx.Error)
	}
	if err := tx.Where("identifier = ?", identifier).Delete(&sourceRow{}).Error; err != nil {
		tx.Rollback()
		return false, fmt.Errorf("%w: removing source %q: %v", importerrors.ErrPersistence, identifier, err)
	}
	if err := tx.Where("source_identifier = ?", identifier).Delete(&importRow{}).Error; err != nil {
		tx.Rollback()
		return false, fmt.Errorf("%w: removing imports of source %q: %v", importerrors.ErrPersistence, identifier, err)
	}
	if err := tx.Commit().Error; err != nil {
		return false, fmt.Errorf("%w: %v", importerrors.ErrPersistence, err)
	}
	return true, nil
}

func (r *gormRepository) GetImports(ctx context.Context) ([]*model.Import, error) {
	var rows []importRow
	if err := r.db.WithContext(ctx).Order("path").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: listing imports: %v", importerrors.ErrPersistence, err)
	}
	out := make([]*model.Import, 0, len(rows))
	for _, row := range rows {
		imp, err := r.importFromRow(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, imp)
	}
	return out, nil
}

func (r *gormRepository) GetImportsBySource(ctx context.Context, sourceIdentifier string) ([]*model.Import, error) {
	var rows []importRow
	if err := r.db.WithContext(ctx).Where("source_identifier = ?", sourceIdentifier).Order("path").Find(&rows).Error; err != nil {
		return nil, fmt.Errorf("%w: listing imports for source %q: %v", importerrors.ErrPersistence, sourceIdentifier, err)
	}
	out := make([]*model.Import, 0, len(rows))
	for _, row := range rows {
		imp, err := r.importFromRow(ctx, row)
		if err != nil {
			return nil, err
		}
		out = append(out, imp)
	}
	return out, nil
}

func (r *gormRepository) GetImportsByMediaTypes(ctx context.Context, mediaTypes []model.MediaType) ([]*model.Import, error) {
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

func (r *gormRepository) GetImportsByPath(ctx context.Context, path string, recurseIntoSubdirs bool) ([]*model.Import, error) {
	all, err := r.GetImports(ctx)
	if err != nil {
		return nil, err
	}
	out := all[:0:0]
	for _, i := range all {
		if i.Path == path || (recurseIntoSubdirs && model.PathContains(path, i.Path)) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (r *gormRepository) GetImport(ctx context.Context, path string, mediaTypes model.GroupedMediaTypes) (*model.Import, bool, error) {
	var row importRow
	err := r.db.WithContext(ctx).
		Where("path = ? AND media_types_key = ?", path, joinTypes(mediaTypes)).
		First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("%w: loading import %q: %v", importerrors.ErrPersistence, path, err)
	}
	imp, err := r.importFromRow(ctx, row)
	if err != nil {
		return nil, false, err
	}
	return imp, true, nil
}

func (r *gormRepository) AddImport(ctx context.Context, i *model.Import) (bool, bool, error) {
	if err := i.Validate(); err != nil {
		return false, false, err
	}
	existing, found, err := r.GetImport(ctx, i.Path, i.MediaTypes)
	if err != nil {
		return false, false, err
	}
	if found && existing.Equal(i) {
		return true, false, nil
	}
	row := rowFromImport(i)
	if err := r.db.WithContext(ctx).Save(&row).Error; err != nil {
		return false, false, fmt.Errorf("%w: saving import %q: %v", importerrors.ErrPersistence, i.Path, err)
	}
	return true, true, nil
}

func (r *gormRepository) UpdateImport(ctx context.Context, i *model.Import) (bool, bool, error) {
	return r.AddImport(ctx, i)
}

func (r *gormRepository) RemoveImport(ctx context.Context, i *model.Import) (bool, error) {
	err := r.db.WithContext(ctx).
		Where("path = ? AND media_types_key = ?", i.Path, joinTypes(i.MediaTypes)).
		Delete(&importRow{}).Error
	if err != nil {
		return false, fmt.Errorf("%w: removing import %q: %v", importerrors.ErrPersistence, i.Path, err)
	}
	return true, nil
}

func (r *gormRepository) UpdateLastSync(ctx context.Context, i *model.Import) (bool, error) {
	res := r.db.WithContext(ctx).Model(&importRow{}).
		Where("path = ? AND media_types_key = ?", i.Path, joinTypes(i.MediaTypes)).
		Update("last_synced", i.LastSynced)
	if res.Error != nil {
		return false, fmt.Errorf("%w: updating last sync for %q: %v", importerrors.ErrPersistence, i.Path, res.Error)
	}
	if res.RowsAffected == 0 {
		return false, nil
	}
	_ = r.db.WithContext(ctx).Model(&sourceRow{}).
		Where("identifier = ? AND last_synced < ?", i.Source.Identifier, i.LastSynced).
		Update("last_synced", i.LastSynced).Error
	return true, nil
}

func rowFromSource(s *model.Source) sourceRow {
	xmlBytes, _ := s.Settings.Serialize()
	types := make([]string, 0, len(s.AvailableMediaTypes))
	for mt := range s.AvailableMediaTypes {
		types = append(types, string(mt))
	}
	return sourceRow{
		Identifier:          s.Identifier,
		BasePath:            s.BasePath,
		FriendlyName:        s.FriendlyName,
		IconURL:             s.IconURL,
		AvailableMediaTypes: strings.Join(types, ","),
		LastSynced:          s.LastSynced,
		ManuallyAdded:       s.ManuallyAdded,
		ImporterID:          s.ImporterID,
		SettingsXML:         string(xmlBytes),
	}
}

func sourceFromRow(row sourceRow) *model.Source {
	s := model.NewSource(row.Identifier, row.ImporterID)
	s.BasePath = row.BasePath
	s.FriendlyName = row.FriendlyName
	s.IconURL = row.IconURL
	s.LastSynced = row.LastSynced
	s.ManuallyAdded = row.ManuallyAdded
	if row.AvailableMediaTypes != "" {
		for _, mt := range strings.Split(row.AvailableMediaTypes, ",") {
			_ = s.AddMediaType(model.MediaType(mt))
		}
	}
	if row.SettingsXML != "" {
		if parsed, err := settings.Parse([]byte(row.SettingsXML)); err == nil {
			s.Settings = parsed
		}
	}
	return s
}

func rowFromImport(i *model.Import) importRow {
	xmlBytes, _ := i.Settings.Serialize()
	parts := make([]string, len(i.MediaTypes))
	for idx, mt := range i.MediaTypes {
		parts[idx] = string(mt)
	}
	return importRow{
		Path:             i.Path,
		MediaTypesKey:    joinTypes(i.MediaTypes),
		MediaTypes:       strings.Join(parts, ","),
		SourceIdentifier: i.Source.Identifier,
		Recursive:        i.Recursive,
		LastSynced:       i.LastSynced,
		SettingsXML:      string(xmlBytes),
	}
}

func (r *gormRepository) importFromRow(ctx context.Context, row importRow) (*model.Import, error) {
	var mediaTypes model.GroupedMediaTypes
	if row.MediaTypes != "" {
		for _, mt := range strings.Split(row.MediaTypes, ",") {
			mediaTypes = append(mediaTypes, model.MediaType(mt))
		}
	}
	src, found, err := r.GetSource(ctx, row.SourceIdentifier)
	if err != nil {
		return nil, err
	}
	if !found {
		src = model.NewSource(row.SourceIdentifier, "")
	}
	imp := model.NewImport(row.Path, *src, mediaTypes, row.Recursive)
	imp.LastSynced = row.LastSynced
	if row.SettingsXML != "" {
		if parsed, err := settings.Parse([]byte(row.SettingsXML)); err == nil {
			imp.Settings = parsed
		}
	}
	return imp, nil
}
