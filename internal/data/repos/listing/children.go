package listing

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/openhaus/listings-backend/internal/domain"
	"github.com/openhaus/listings-backend/internal/platform/logger"
)

// ChildGraphRepo reads the dependent entities of a listing. Writes go through
// the reconciler's rebuild path, never here.
type ChildGraphRepo interface {
	GetAddressByListingIDs(ctx context.Context, tx *gorm.DB, listingIDs []uuid.UUID) ([]*types.Address, error)
	GetRoomsByListingIDs(ctx context.Context, tx *gorm.DB, listingIDs []uuid.UUID) ([]*types.Room, error)
	GetOpenHousesByListingIDs(ctx context.Context, tx *gorm.DB, listingIDs []uuid.UUID) ([]*types.OpenHouse, error)
	GetPhotosByListingIDs(ctx context.Context, tx *gorm.DB, listingIDs []uuid.UUID) ([]*types.Photo, error)
	GetParkingByListingIDs(ctx context.Context, tx *gorm.DB, listingIDs []uuid.UUID) ([]*types.ParkingSpace, error)
}

type childGraphRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewChildGraphRepo(db *gorm.DB, baseLog *logger.Logger) ChildGraphRepo {
	repoLog := baseLog.With("repo", "ChildGraphRepo")
	return &childGraphRepo{db: db, log: repoLog}
}

func (r *childGraphRepo) GetAddressByListingIDs(ctx context.Context, tx *gorm.DB, listingIDs []uuid.UUID) ([]*types.Address, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Address
	if len(listingIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("listing_id IN ?", listingIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *childGraphRepo) GetRoomsByListingIDs(ctx context.Context, tx *gorm.DB, listingIDs []uuid.UUID) ([]*types.Room, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Room
	if len(listingIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("listing_id IN ?", listingIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *childGraphRepo) GetOpenHousesByListingIDs(ctx context.Context, tx *gorm.DB, listingIDs []uuid.UUID) ([]*types.OpenHouse, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.OpenHouse
	if len(listingIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("listing_id IN ?", listingIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *childGraphRepo) GetPhotosByListingIDs(ctx context.Context, tx *gorm.DB, listingIDs []uuid.UUID) ([]*types.Photo, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.Photo
	if len(listingIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("listing_id IN ?", listingIDs).
		Order("sequence_id ASC").
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

func (r *childGraphRepo) GetParkingByListingIDs(ctx context.Context, tx *gorm.DB, listingIDs []uuid.UUID) ([]*types.ParkingSpace, error) {
	transaction := tx
	if transaction == nil {
		transaction = r.db
	}

	var results []*types.ParkingSpace
	if len(listingIDs) == 0 {
		return results, nil
	}

	if err := transaction.WithContext(ctx).
		Where("listing_id IN ?", listingIDs).
		Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}
