package repository

import (
	"github.com/prideatlas/prideatlas-backend/internal/app/model"
	"github.com/prideatlas/prideatlas-backend/pkg/logger"
	"gorm.io/gorm"
)

// BusinessFilter narrows public listing queries
type BusinessFilter struct {
	City          string
	Category      string
	Accessibility string // single flag, matched against the stored array
	Status        model.BusinessStatus
}

type BusinessRepository interface {
	Create(business *model.Business) error
	BulkCreate(businesses []model.Business, batchSize int) error
	FindByID(id uint) (*model.Business, error)
	List(filter BusinessFilter, offset, limit int) ([]model.Business, int64, error)
	FindByOwnerID(ownerID uint) ([]model.Business, error)
	FindAllIDs() ([]uint, error)
	Update(business *model.Business) error
	UpdateStatus(id uint, status model.BusinessStatus) error
	SetFeatured(id uint, featured bool) error
	Delete(id uint) error
}

type businessRepository struct {
	db *gorm.DB
}

func NewBusinessRepository(db *gorm.DB) BusinessRepository {
	return &businessRepository{db: db}
}

func (r *businessRepository) Create(business *model.Business) error {
	logger.Debug("Creating business in database", map[string]interface{}{
		"name": business.Name,
		"city": business.City,
	})

	if err := r.db.Create(business).Error; err != nil {
		logger.Error("Failed to create business in database", err, map[string]interface{}{
			"name": business.Name,
		})
		return err
	}
	return nil
}

// BulkCreate inserts listings in batches, used by the seed importer
func (r *businessRepository) BulkCreate(businesses []model.Business, batchSize int) error {
	logger.Info("Bulk creating businesses", map[string]interface{}{
		"count":      len(businesses),
		"batch_size": batchSize,
	})

	if err := r.db.CreateInBatches(businesses, batchSize).Error; err != nil {
		logger.Error("Failed to bulk create businesses", err, map[string]interface{}{
			"count": len(businesses),
		})
		return err
	}
	return nil
}

func (r *businessRepository) FindByID(id uint) (*model.Business, error) {
	var business model.Business
	if err := r.db.First(&business, id).Error; err != nil {
		return nil, err
	}
	return &business, nil
}

func (r *businessRepository) List(filter BusinessFilter, offset, limit int) ([]model.Business, int64, error) {
	var businesses []model.Business
	var total int64

	query := r.db.Model(&model.Business{})

	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.City != "" {
		query = query.Where("city = ?", filter.City)
	}
	if filter.Category != "" {
		query = query.Where("category = ?", filter.Category)
	}
	if filter.Accessibility != "" {
		// Accessibility flags are stored as a JSON array in a text column
		query = query.Where("accessibility LIKE ?", "%\""+filter.Accessibility+"\"%")
	}

	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := query.
		Order("featured DESC, average_rating DESC, created_at DESC").
		Offset(offset).
		Limit(limit).
		Find(&businesses).Error
	if err != nil {
		return nil, 0, err
	}

	return businesses, total, nil
}

func (r *businessRepository) FindByOwnerID(ownerID uint) ([]model.Business, error) {
	var businesses []model.Business
	err := r.db.Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&businesses).Error
	if err != nil {
		return nil, err
	}
	return businesses, nil
}

func (r *businessRepository) FindAllIDs() ([]uint, error) {
	var ids []uint
	if err := r.db.Model(&model.Business{}).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (r *businessRepository) Update(business *model.Business) error {
	logger.Debug("Updating business in database", map[string]interface{}{
		"business_id": business.ID,
	})

	if err := r.db.Save(business).Error; err != nil {
		logger.Error("Failed to update business in database", err, map[string]interface{}{
			"business_id": business.ID,
		})
		return err
	}
	return nil
}

func (r *businessRepository) UpdateStatus(id uint, status model.BusinessStatus) error {
	result := r.db.Model(&model.Business{}).
		Where("id = ?", id).
		Update("status", status)
	if result.Error != nil {
		logger.Error("Failed to update business status", result.Error, map[string]interface{}{
			"business_id": id,
			"status":      status,
		})
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *businessRepository) SetFeatured(id uint, featured bool) error {
	result := r.db.Model(&model.Business{}).
		Where("id = ?", id).
		Update("featured", featured)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *businessRepository) Delete(id uint) error {
	if err := r.db.Delete(&model.Business{}, id).Error; err != nil {
		logger.Error("Failed to delete business from database", err, map[string]interface{}{
			"business_id": id,
		})
		return err
	}
	return nil
}
