package services

import (
	"context"

	metadatarepo "github.com/openhaus/listings-backend/internal/data/repos/metadata"
	"github.com/openhaus/listings-backend/internal/platform/logger"
)

// MetadataService is the thin seeding surface for the reference tables. The
// tables are read-only during ingestion; seeding runs out of band.
type MetadataService interface {
	Seed(ctx context.Context, lookupName string, entries []metadatarepo.SeedEntry) (int, error)
}

type metadataService struct {
	log       *logger.Logger
	entryRepo metadatarepo.EntryRepo
}

func NewMetadataService(baseLog *logger.Logger, entryRepo metadatarepo.EntryRepo) MetadataService {
	serviceLog := baseLog.With("service", "MetadataService")
	return &metadataService{log: serviceLog, entryRepo: entryRepo}
}

func (s *metadataService) Seed(ctx context.Context, lookupName string, entries []metadatarepo.SeedEntry) (int, error) {
	seeded, err := s.entryRepo.Seed(ctx, nil, lookupName, entries)
	if err != nil {
		return 0, err
	}
	s.log.Info("metadata entries seeded", "lookup", lookupName, "seeded", seeded, "supplied", len(entries))
	return seeded, nil
}
