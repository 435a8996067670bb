package asset

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "github.com/framevault/framevault-server/internal/domain/asset"
	"github.com/framevault/framevault-server/internal/infrastructure/database/entities"
	"github.com/framevault/framevault-server/internal/utils/platformerrors"
)

// Repository handles asset metadata persistence.
type Repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

func (r *Repository) Create(ctx context.Context, a *domain.Asset) error {
	entity := toEntity(a)
	if err := r.db.WithContext(ctx).Create(&entity).Error; err != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to create asset",
			err,
			"4e1f6a2b-8c3d-4f5e-9a6b-7c8d9e0f1a2b",
		)
	}
	return nil
}

func (r *Repository) GetByID(ctx context.Context, id string) (*domain.Asset, error) {
	var entity entities.Asset
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&entity).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerRepository,
				platformerrors.ErrorTypeNotFound,
				fmt.Sprintf("asset %s not found", id),
				err,
				"5f2a7b3c-9d4e-4a6f-8b7c-8d9e0f1a2b3c",
			)
		}
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to get asset by id",
			err,
			"6a3b8c4d-0e5f-4b7a-9c8d-9e0f1a2b3c4d",
		)
	}
	out := mapEntity(entity)
	return &out, nil
}

// List returns up to query.Limit assets ordered by uploaded_at desc, id desc,
// starting strictly after query.After.
func (r *Repository) List(ctx context.Context, query domain.ListQuery) ([]domain.Asset, error) {
	tx := r.db.WithContext(ctx).Model(&entities.Asset{})
	if query.After != nil {
		tx = tx.Where("uploaded_at < ? OR (uploaded_at = ? AND id < ?)",
			query.After.UploadedAt, query.After.UploadedAt, query.After.ID)
	}

	var rows []entities.Asset
	err := tx.Order("uploaded_at DESC").Order("id DESC").Limit(query.Limit).Find(&rows).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to list assets",
			err,
			"7b4c9d5e-1f6a-4c8b-8d9e-0f1a2b3c4d5e",
		)
	}
	return mapEntities(rows), nil
}

// Search applies the criteria as parameterized predicates.
func (r *Repository) Search(ctx context.Context, criteria domain.SearchCriteria) ([]domain.Asset, error) {
	d := newDialect(r.db.Dialector.Name())
	tx := r.db.WithContext(ctx).Model(&entities.Asset{})

	if criteria.Event != "" {
		tx = tx.Where(d.contains("event"), criteria.Event)
	}
	if criteria.Photographer != "" {
		tx = tx.Where(d.contains("photographer"), criteria.Photographer)
	}
	if len(criteria.Tags) > 0 {
		clauses := make([]string, 0, len(criteria.Tags))
		args := make([]any, 0, len(criteria.Tags))
		for _, tag := range criteria.Tags {
			clauses = append(clauses, d.tagContains())
			args = append(args, tag)
		}
		tx = tx.Where("("+strings.Join(clauses, " OR ")+")", args...)
	}
	if criteria.DateFrom != "" {
		tx = tx.Where("date >= ?", criteria.DateFrom)
	}
	if criteria.DateTo != "" {
		tx = tx.Where("date <= ?", criteria.DateTo)
	}

	var rows []entities.Asset
	if err := tx.Order("uploaded_at DESC").Order("id DESC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to search assets",
			err,
			"8c5d0e6f-2a7b-4d9c-9e0f-1a2b3c4d5e6f",
		)
	}
	return mapEntities(rows), nil
}

// All returns every asset in insertion order.
func (r *Repository) All(ctx context.Context) ([]domain.Asset, error) {
	var rows []entities.Asset
	if err := r.db.WithContext(ctx).Order("uploaded_at ASC").Order("id ASC").Find(&rows).Error; err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to scan assets",
			err,
			"9d6e1f7a-3b8c-4e0d-8f1a-2b3c4d5e6f7a",
		)
	}
	return mapEntities(rows), nil
}

// ExistingFilenames reports which of the given storage keys have a record.
func (r *Repository) ExistingFilenames(ctx context.Context, filenames []string) (map[string]bool, error) {
	out := make(map[string]bool, len(filenames))
	if len(filenames) == 0 {
		return out, nil
	}
	var found []string
	err := r.db.WithContext(ctx).Model(&entities.Asset{}).
		Where("filename IN ?", filenames).
		Pluck("filename", &found).Error
	if err != nil {
		return nil, platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to look up asset filenames",
			err,
			"0e7f2a8b-4c9d-4f1e-9a2b-3c4d5e6f7a8b",
		)
	}
	for _, name := range found {
		out[name] = true
	}
	return out, nil
}

func (r *Repository) Delete(ctx context.Context, id string) error {
	result := r.db.WithContext(ctx).Where("id = ?", id).Delete(&entities.Asset{})
	if result.Error != nil {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeDatabaseError,
			"failed to delete asset",
			result.Error,
			"1f8a3b9c-5d0e-4a2f-8b3c-4d5e6f7a8b9c",
		)
	}
	if result.RowsAffected == 0 {
		return platformerrors.NewError(
			ctx,
			platformerrors.LayerRepository,
			platformerrors.ErrorTypeNotFound,
			fmt.Sprintf("asset %s not found", id),
			nil,
			"5f2a7b3c-9d4e-4a6f-8b7c-8d9e0f1a2b3c",
		)
	}
	return nil
}

// Ping checks database connectivity.
func (r *Repository) Ping(ctx context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.PingContext(ctx)
}

// dialect renders case-sensitive substring predicates for the active driver.
type dialect struct {
	name string
}

func newDialect(name string) dialect {
	return dialect{name: name}
}

func (d dialect) contains(column string) string {
	if d.name == "postgres" {
		return "strpos(" + column + ", ?) > 0"
	}
	return "instr(" + column + ", ?) > 0"
}

// tagContains matches a substring inside a single element of the tags array.
func (d dialect) tagContains() string {
	if d.name == "postgres" {
		return "EXISTS (SELECT 1 FROM jsonb_array_elements_text(assets.tags) AS t(tag) WHERE strpos(t.tag, ?) > 0)"
	}
	return "EXISTS (SELECT 1 FROM json_each(assets.tags) AS t WHERE instr(t.value, ?) > 0)"
}

func toEntity(a *domain.Asset) entities.Asset {
	entity := entities.Asset{
		ID:               a.ID,
		Filename:         a.Filename,
		OriginalFilename: a.OriginalFilename,
		URL:              a.URL,
		FileType:         string(a.FileType),
		MimeType:         a.MimeType,
		Size:             a.Size,
		Width:            a.Width,
		Height:           a.Height,
		Duration:         a.Duration,
		UploadedAt:       a.UploadedAt,
		Event:            a.Event,
		Date:             a.Date,
		Location:         a.Location,
		Photographer:     a.Photographer,
		Description:      a.Description,
	}
	if len(a.Tags) > 0 {
		tags := datatypes.NewJSONSlice(a.Tags)
		entity.Tags = &tags
	}
	return entity
}

func mapEntity(entity entities.Asset) domain.Asset {
	tags := []string{}
	if entity.Tags != nil {
		tags = append(tags, (*entity.Tags)...)
	}
	fileType := domain.FileType(entity.FileType)
	if fileType == "" {
		fileType = domain.FileTypeImage
	}
	original := entity.OriginalFilename
	if original == "" {
		original = entity.Filename
	}
	return domain.Asset{
		ID:               entity.ID,
		Filename:         entity.Filename,
		OriginalFilename: original,
		URL:              entity.URL,
		PublicURL:        entity.URL,
		FileType:         fileType,
		MimeType:         entity.MimeType,
		Size:             entity.Size,
		Width:            entity.Width,
		Height:           entity.Height,
		Duration:         entity.Duration,
		UploadedAt:       entity.UploadedAt.UTC(),
		Event:            entity.Event,
		Date:             entity.Date,
		Location:         entity.Location,
		Photographer:     entity.Photographer,
		Tags:             tags,
		Description:      entity.Description,
	}
}

func mapEntities(rows []entities.Asset) []domain.Asset {
	out := make([]domain.Asset, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapEntity(row))
	}
	return out
}
