package repository

import (
	"context"
	"errors"
	"fmt"

	"gorm.io/gorm"

	"github.com/alumnihub/pointsledger/internal/entity"
	"github.com/alumnihub/pointsledger/internal/event"
	"github.com/alumnihub/pointsledger/pkg/apperror"
)

type CatalogRepository interface {
	// FindActiveByType returns the non-deleted definition for the type, or
	// apperror.ErrDefinitionNotFound when none exists.
	FindActiveByType(ctx context.Context, activityType event.ActivityType) (*entity.ActivityDefinition, error)
	// FindByTypeUnscoped also sees soft-deleted definitions. Revoke uses it
	// to resolve the period window of historical credits.
	FindByTypeUnscoped(ctx context.Context, activityType event.ActivityType) (*entity.ActivityDefinition, error)
}

type catalogRepository struct {
	db *gorm.DB
}

func NewCatalogRepository(db *gorm.DB) CatalogRepository {
	return &catalogRepository{db: db}
}

func (r *catalogRepository) FindActiveByType(ctx context.Context, activityType event.ActivityType) (*entity.ActivityDefinition, error) {
	var def entity.ActivityDefinition
	err := r.db.WithContext(ctx).
		Where("activity_type = ?", string(activityType)).
		First(&def).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", apperror.ErrDefinitionNotFound, activityType)
		}
		return nil, err
	}
	return &def, nil
}

func (r *catalogRepository) FindByTypeUnscoped(ctx context.Context, activityType event.ActivityType) (*entity.ActivityDefinition, error) {
	var def entity.ActivityDefinition
	err := r.db.WithContext(ctx).Unscoped().
		Where("activity_type = ?", string(activityType)).
		Order("deleted_at IS NOT NULL"). // prefer the live definition when both exist
		First(&def).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: %s", apperror.ErrDefinitionNotFound, activityType)
		}
		return nil, err
	}
	return &def, nil
}
