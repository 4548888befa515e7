package service

import (
	"errors"

	"github.com/prideatlas/prideatlas-backend/internal/app/model"
	"github.com/prideatlas/prideatlas-backend/internal/app/repository"
	"github.com/prideatlas/prideatlas-backend/pkg/logger"
)

var (
	ErrInvalidSavedPlace = errors.New("user id and business id are required")
)

type SavedPlaceService interface {
	SavePlace(userID, businessID uint) error
	UnsavePlace(userID, businessID uint) error
	IsSaved(userID, businessID uint) bool
	ListSaved(userID uint) ([]model.SavedPlace, error)
}

type savedPlaceService struct {
	savedPlaceRepo repository.SavedPlaceRepository
}

func NewSavedPlaceService(savedPlaceRepo repository.SavedPlaceRepository) SavedPlaceService {
	return &savedPlaceService{savedPlaceRepo: savedPlaceRepo}
}

// SavePlace adds the business to the user's saved set. Saving an
// already-saved business succeeds without changing anything.
func (s *savedPlaceService) SavePlace(userID, businessID uint) error {
	if userID == 0 || businessID == 0 {
		return ErrInvalidSavedPlace
	}

	logger.Info("Saving place", map[string]interface{}{
		"user_id":     userID,
		"business_id": businessID,
	})

	if err := s.savedPlaceRepo.Save(userID, businessID); err != nil {
		logger.Error("Failed to save place", err, map[string]interface{}{
			"user_id":     userID,
			"business_id": businessID,
		})
		return err
	}
	return nil
}

// UnsavePlace removes the business from the saved set. Removing an
// absent entry succeeds.
func (s *savedPlaceService) UnsavePlace(userID, businessID uint) error {
	if userID == 0 || businessID == 0 {
		return ErrInvalidSavedPlace
	}

	logger.Info("Unsaving place", map[string]interface{}{
		"user_id":     userID,
		"business_id": businessID,
	})

	if err := s.savedPlaceRepo.Remove(userID, businessID); err != nil {
		logger.Error("Failed to unsave place", err, map[string]interface{}{
			"user_id":     userID,
			"business_id": businessID,
		})
		return err
	}
	return nil
}

// IsSaved reports membership and never fails: a lookup error degrades
// to false so display code has nothing to handle.
func (s *savedPlaceService) IsSaved(userID, businessID uint) bool {
	if userID == 0 || businessID == 0 {
		return false
	}

	saved, err := s.savedPlaceRepo.Exists(userID, businessID)
	if err != nil {
		logger.Warn("Saved place lookup failed, reporting unsaved", map[string]interface{}{
			"user_id":     userID,
			"business_id": businessID,
		})
		return false
	}
	return saved
}

func (s *savedPlaceService) ListSaved(userID uint) ([]model.SavedPlace, error) {
	logger.Debug("Listing saved places", map[string]interface{}{
		"user_id": userID,
	})

	entries, err := s.savedPlaceRepo.FindByUserID(userID)
	if err != nil {
		logger.Error("Failed to list saved places", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}
	return entries, nil
}
