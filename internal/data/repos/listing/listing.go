package listing

import (
	"context"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/openhaus/listings-backend/internal/domain"
	"github.com/openhaus/listings-backend/internal/platform/logger"
)

type ListingRepo interface {
	Create(ctx context.Context, tx *gorm.DB, listings []*types.Listing) ([]*types.Listing, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Listing, error)
	GetByDdfIDs(ctx context.Context, tx *gorm.DB, ddfIDs []string) ([]*types.Listing, error)
	SetGeocode(ctx context.Context, tx *gorm.DB, id uuid.UUID, lat, lng float64) error
	FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error
}

type listingRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewListingRepo(db *gorm.DB, baseLog *logger.Logger) ListingRepo {
	repoLog := baseLog.With("repo", "ListingRepo")
	return &listingRepo{db: db, log: repoLog}
}

func (r *listingRepo) Create(ctx context.Context, tx *gorm.DB, listings []*types.Listing) ([]*types.Listing, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(listings) == 0 {
		return []*types.Listing{}, nil
	}

	if err := transaction.WithContext(ctx).Create(&listings).Error; err != nil {
		return nil, err
	}
	return listings, nil
}

func (r *listingRepo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) ([]*types.Listing, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Listing
	if len(ids) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *listingRepo) GetByDdfIDs(ctx context.Context, tx *gorm.DB, ddfIDs []string) ([]*types.Listing, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Listing
	if len(ddfIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("ddf_id IN ?", ddfIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *listingRepo) SetGeocode(ctx context.Context, tx *gorm.DB, id uuid.UUID, lat, lng float64) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	now := time.Now()
	return transaction.WithContext(ctx).
		Model(&types.Listing{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"latitude":    lat,
			"longitude":   lng,
			"geocoded_at": now,
		}).Error
}

func (r *listingRepo) FullDeleteByIDs(ctx context.Context, tx *gorm.DB, ids []uuid.UUID) error {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	if len(ids) == 0 {
		return nil
	}

	return transaction.WithContext(ctx).
		Where("id IN ?", ids).
		Delete(&types.Listing{}).Error
}
