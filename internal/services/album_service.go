package services

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/picstrata/backend/internal/models"
	"github.com/picstrata/backend/internal/query"
	"github.com/picstrata/backend/internal/repositories"
	"go.uber.org/zap"
)

// AlbumRepository is the interface that wraps methods for album data access
type AlbumRepository interface {
	// Method Create inserts a new album.
	//
	// "album" parameter is used to create a new album.
	//
	// Returns repositories.ErrDuplicate if the album's name collides within its library.
	Create(ctx context.Context, album *models.Album) error
	// Method GetByID retrieves an album by ID.
	//
	// Returns repositories.ErrNotFound if the album does not exist.
	GetByID(ctx context.Context, libraryID, albumID string) (*models.Album, error)
	// Method ListByLibrary retrieves all albums in a library.
	ListByLibrary(ctx context.Context, libraryID string) ([]models.Album, error)
	// Method Update replaces the album's stored name and query.
	//
	// Returns repositories.ErrDuplicate if the new name collides within its library.
	Update(ctx context.Context, album *models.Album) error
	// Method Delete removes the album definition only; files are untouched.
	//
	// Returns repositories.ErrNotFound if the album does not exist.
	Delete(ctx context.Context, libraryID, albumID string) error
	// Method GetFileIDs returns a static album's explicit membership in store order.
	GetFileIDs(ctx context.Context, albumID string) ([]string, error)
}

// FileRepository is the interface that wraps read access to the file store
type FileRepository interface {
	// Method ListByLibrary retrieves every file in a library, including
	// the containing folder's name and the file's tags.
	ListByLibrary(ctx context.Context, libraryID string) ([]*models.File, error)
}

// albumService implements album lifecycle and membership resolution
type albumService struct {
	albumRepo AlbumRepository
	fileRepo  FileRepository
	logger    *zap.Logger
}

// NewAlbumService creates a new album service
func NewAlbumService(albumRepo AlbumRepository, fileRepo FileRepository, logger *zap.Logger) *albumService {
	return &albumService{
		albumRepo: albumRepo,
		fileRepo:  fileRepo,
		logger:    logger,
	}
}

// Create creates an album.  With a query the album is live; without one
// it is static and its membership is maintained by the store.
func (s *albumService) Create(ctx context.Context, libraryID string, req *models.AlbumAdd) (*models.Album, error) {
	if req.Name == "" {
		return nil, fmt.Errorf("album name is required")
	}
	if req.Query != nil {
		if err := query.Validate(req.Query); err != nil {
			return nil, err
		}
	}

	album := &models.Album{
		LibraryID: libraryID,
		AlbumID:   uuid.New().String(),
		Name:      req.Name,
		Query:     req.Query,
	}

	if err := s.albumRepo.Create(ctx, album); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to create album: %w", err)
	}

	s.logger.Info("album created",
		zap.String("library_id", libraryID),
		zap.String("album_id", album.AlbumID),
		zap.Bool("live", album.IsLive()),
	)
	return album, nil
}

// Get retrieves an album by ID
func (s *albumService) Get(ctx context.Context, libraryID, albumID string) (*models.Album, error) {
	album, err := s.albumRepo.GetByID(ctx, libraryID, albumID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get album: %w", err)
	}
	return album, nil
}

// List retrieves all albums in a library
func (s *albumService) List(ctx context.Context, libraryID string) ([]models.Album, error) {
	albums, err := s.albumRepo.ListByLibrary(ctx, libraryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list albums: %w", err)
	}
	return albums, nil
}

// Update replaces the provided fields wholesale.  Partial query edits
// are not supported: a provided query replaces the stored one entirely.
func (s *albumService) Update(ctx context.Context, libraryID, albumID string, req *models.AlbumUpdate) (*models.Album, error) {
	album, err := s.albumRepo.GetByID(ctx, libraryID, albumID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to get album: %w", err)
	}

	if req.Name != nil {
		if *req.Name == "" {
			return nil, fmt.Errorf("album name is required")
		}
		album.Name = *req.Name
	}
	if req.Query != nil {
		if err := query.Validate(req.Query); err != nil {
			return nil, err
		}
		album.Query = req.Query
	}

	if err := s.albumRepo.Update(ctx, album); err != nil {
		if errors.Is(err, repositories.ErrDuplicate) {
			return nil, ErrDuplicateName
		}
		return nil, fmt.Errorf("failed to update album: %w", err)
	}

	return album, nil
}

// Delete removes the album definition.  The files the album referenced
// are never touched.
func (s *albumService) Delete(ctx context.Context, libraryID, albumID string) error {
	if err := s.albumRepo.Delete(ctx, libraryID, albumID); err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete album: %w", err)
	}

	s.logger.Info("album deleted",
		zap.String("library_id", libraryID),
		zap.String("album_id", albumID),
	)
	return nil
}

// ResolveMembership returns the album's current membership as an
// ordered list of file IDs.  A static album returns its explicit
// file-id set in store order; a live album recomputes its membership
// from the stored query.  Resolution never mutates files.
func (s *albumService) ResolveMembership(ctx context.Context, album *models.Album) ([]string, error) {
	if !album.IsLive() {
		fileIDs, err := s.albumRepo.GetFileIDs(ctx, album.AlbumID)
		if err != nil {
			return nil, fmt.Errorf("failed to get album membership: %w", err)
		}
		return fileIDs, nil
	}

	files, err := s.fileRepo.ListByLibrary(ctx, album.LibraryID)
	if err != nil {
		return nil, fmt.Errorf("failed to list library files: %w", err)
	}

	return query.Resolve(album.Query, files)
}
