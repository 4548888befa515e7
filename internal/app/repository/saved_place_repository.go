package repository

import (
	"github.com/prideatlas/prideatlas-backend/internal/app/model"
	"github.com/prideatlas/prideatlas-backend/pkg/logger"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SavedPlaceRepository interface {
	Save(userID, businessID uint) error
	Remove(userID, businessID uint) error
	Exists(userID, businessID uint) (bool, error)
	FindByUserID(userID uint) ([]model.SavedPlace, error)
}

type savedPlaceRepository struct {
	db *gorm.DB
}

func NewSavedPlaceRepository(db *gorm.DB) SavedPlaceRepository {
	return &savedPlaceRepository{db: db}
}

// Save inserts the pair with a conflict-ignoring clause: saving an
// already-saved business leaves the set unchanged.
func (r *savedPlaceRepository) Save(userID, businessID uint) error {
	logger.Debug("Saving place for user", map[string]interface{}{
		"user_id":     userID,
		"business_id": businessID,
	})

	entry := model.SavedPlace{
		UserID:     userID,
		BusinessID: businessID,
	}
	err := r.db.
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&entry).Error
	if err != nil {
		logger.Error("Failed to save place for user", err, map[string]interface{}{
			"user_id":     userID,
			"business_id": businessID,
		})
		return err
	}
	return nil
}

// Remove deletes the pair; removing an absent pair is a no-op.
func (r *savedPlaceRepository) Remove(userID, businessID uint) error {
	err := r.db.
		Where("user_id = ? AND business_id = ?", userID, businessID).
		Delete(&model.SavedPlace{}).Error
	if err != nil {
		logger.Error("Failed to remove saved place", err, map[string]interface{}{
			"user_id":     userID,
			"business_id": businessID,
		})
		return err
	}
	return nil
}

func (r *savedPlaceRepository) Exists(userID, businessID uint) (bool, error) {
	var count int64
	err := r.db.Model(&model.SavedPlace{}).
		Where("user_id = ? AND business_id = ?", userID, businessID).
		Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *savedPlaceRepository) FindByUserID(userID uint) ([]model.SavedPlace, error) {
	entries := make([]model.SavedPlace, 0)
	err := r.db.Where("user_id = ?", userID).
		Preload("Business").
		Order("created_at DESC").
		Find(&entries).Error
	if err != nil {
		return nil, err
	}
	return entries, nil
}
