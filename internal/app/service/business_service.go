package service

import (
	"errors"
	"strings"

	"github.com/prideatlas/prideatlas-backend/internal/app/model"
	"github.com/prideatlas/prideatlas-backend/internal/app/repository"
	"github.com/prideatlas/prideatlas-backend/pkg/logger"
	"github.com/prideatlas/prideatlas-backend/pkg/validate"
	"gorm.io/gorm"
)

var (
	ErrBusinessNotFound  = errors.New("business not found")
	ErrNotBusinessOwner  = errors.New("business belongs to another owner")
	ErrInvalidTransition = errors.New("invalid status transition")
)

type BusinessInput struct {
	Name          string
	Description   string
	Category      string
	Address       string
	City          string
	Region        string
	Latitude      *float64
	Longitude     *float64
	Phone         string
	Email         string
	Website       string
	ImageURL      string
	Accessibility []string
}

type BusinessService interface {
	SubmitBusiness(ownerID uint, input BusinessInput) (*model.Business, error)
	GetBusinessByID(id uint) (*model.Business, error)
	ListBusinesses(filter repository.BusinessFilter, page, pageSize int) ([]model.Business, int64, error)
	ListOwnBusinesses(ownerID uint) ([]model.Business, error)
	UpdateBusiness(businessID, ownerID uint, input BusinessInput) (*model.Business, error)
	ApproveBusiness(id uint) error
	RejectBusiness(id uint) error
	SuspendBusiness(id uint) error
	SetFeatured(id uint, featured bool) error
	DeleteBusiness(id uint) error
}

type businessService struct {
	businessRepo repository.BusinessRepository
	userRepo     repository.UserRepository
}

func NewBusinessService(
	businessRepo repository.BusinessRepository,
	userRepo repository.UserRepository,
) BusinessService {
	return &businessService{
		businessRepo: businessRepo,
		userRepo:     userRepo,
	}
}

func validateBusinessInput(input BusinessInput) error {
	if result := validate.Required(input.Name, "name"); !result.IsValid {
		return &ValidationError{Field: "name", Message: result.Message}
	}
	if result := validate.Required(input.Category, "category"); !result.IsValid {
		return &ValidationError{Field: "category", Message: result.Message}
	}
	if result := validate.Required(input.City, "city"); !result.IsValid {
		return &ValidationError{Field: "city", Message: result.Message}
	}
	if input.Email != "" {
		if result := validate.Email(input.Email); !result.IsValid {
			return &ValidationError{Field: "email", Message: result.Message}
		}
	}
	if input.Phone != "" {
		if result := validate.Phone(input.Phone); !result.IsValid {
			return &ValidationError{Field: "phone", Message: result.Message}
		}
	}
	if input.Website != "" {
		if result := validate.URL(input.Website); !result.IsValid {
			return &ValidationError{Field: "website", Message: result.Message}
		}
	}
	if input.ImageURL != "" {
		if result := validate.URL(input.ImageURL); !result.IsValid {
			return &ValidationError{Field: "image_url", Message: result.Message}
		}
	}
	return nil
}

// SubmitBusiness creates a pending listing and grants the submitter the
// business owner role if they do not have it yet. New listings stay
// hidden from public queries until an admin approves them.
func (s *businessService) SubmitBusiness(ownerID uint, input BusinessInput) (*model.Business, error) {
	logger.Info("Submitting business listing", map[string]interface{}{
		"owner_id": ownerID,
		"name":     input.Name,
	})

	if err := validateBusinessInput(input); err != nil {
		logger.Warn("Business listing failed validation", map[string]interface{}{
			"owner_id": ownerID,
			"error":    err.Error(),
		})
		return nil, err
	}

	business := &model.Business{
		OwnerID:       &ownerID,
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		Category:      input.Category,
		Address:       input.Address,
		City:          input.City,
		Region:        input.Region,
		Latitude:      input.Latitude,
		Longitude:     input.Longitude,
		Phone:         input.Phone,
		Email:         strings.ToLower(input.Email),
		Website:       input.Website,
		ImageURL:      input.ImageURL,
		Accessibility: input.Accessibility,
		Status:        model.StatusPending,
	}

	if err := s.businessRepo.Create(business); err != nil {
		logger.Error("Failed to create business listing", err, map[string]interface{}{
			"owner_id": ownerID,
			"name":     input.Name,
		})
		return nil, err
	}

	s.promoteToOwner(ownerID)

	logger.Info("Business listing submitted", map[string]interface{}{
		"business_id": business.ID,
		"owner_id":    ownerID,
		"status":      business.Status,
	})

	return business, nil
}

// promoteToOwner upgrades a plain user to business owner. Failure only
// logs: the listing already exists and the role can be fixed later.
func (s *businessService) promoteToOwner(userID uint) {
	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		logger.Warn("Could not fetch user for role promotion", map[string]interface{}{
			"user_id": userID,
		})
		return
	}
	if user.Role != model.RoleUser {
		return
	}

	user.Role = model.RoleBusinessOwner
	if err := s.userRepo.Update(user); err != nil {
		logger.Warn("Could not promote user to business owner", map[string]interface{}{
			"user_id": userID,
		})
	}
}

func (s *businessService) GetBusinessByID(id uint) (*model.Business, error) {
	business, err := s.businessRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		logger.Error("Failed to fetch business", err, map[string]interface{}{
			"business_id": id,
		})
		return nil, err
	}
	return business, nil
}

func (s *businessService) ListBusinesses(filter repository.BusinessFilter, page, pageSize int) ([]model.Business, int64, error) {
	offset, limit := normalizePagination(page, pageSize)

	businesses, total, err := s.businessRepo.List(filter, offset, limit)
	if err != nil {
		logger.Error("Failed to list businesses", err, map[string]interface{}{
			"city":     filter.City,
			"category": filter.Category,
		})
		return nil, 0, err
	}
	return businesses, total, nil
}

func (s *businessService) ListOwnBusinesses(ownerID uint) ([]model.Business, error) {
	businesses, err := s.businessRepo.FindByOwnerID(ownerID)
	if err != nil {
		logger.Error("Failed to list owner businesses", err, map[string]interface{}{
			"owner_id": ownerID,
		})
		return nil, err
	}
	return businesses, nil
}

// UpdateBusiness lets an owner edit their own listing. Edits do not
// reset an approved listing back to pending.
func (s *businessService) UpdateBusiness(businessID, ownerID uint, input BusinessInput) (*model.Business, error) {
	logger.Info("Updating business listing", map[string]interface{}{
		"business_id": businessID,
		"owner_id":    ownerID,
	})

	business, err := s.businessRepo.FindByID(businessID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrBusinessNotFound
		}
		return nil, err
	}

	if business.OwnerID == nil || *business.OwnerID != ownerID {
		logger.Warn("Business update rejected: not the owner", map[string]interface{}{
			"business_id": businessID,
			"owner_id":    ownerID,
		})
		return nil, ErrNotBusinessOwner
	}

	if err := validateBusinessInput(input); err != nil {
		return nil, err
	}

	business.Name = strings.TrimSpace(input.Name)
	business.Description = input.Description
	business.Category = input.Category
	business.Address = input.Address
	business.City = input.City
	business.Region = input.Region
	business.Latitude = input.Latitude
	business.Longitude = input.Longitude
	business.Phone = input.Phone
	business.Email = strings.ToLower(input.Email)
	business.Website = input.Website
	business.ImageURL = input.ImageURL
	business.Accessibility = input.Accessibility

	if err := s.businessRepo.Update(business); err != nil {
		logger.Error("Failed to update business listing", err, map[string]interface{}{
			"business_id": businessID,
		})
		return nil, err
	}

	return business, nil
}

func (s *businessService) transitionStatus(id uint, from []model.BusinessStatus, to model.BusinessStatus) error {
	business, err := s.businessRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusinessNotFound
		}
		return err
	}

	allowed := false
	for _, status := range from {
		if business.Status == status {
			allowed = true
			break
		}
	}
	if !allowed {
		logger.Warn("Rejected business status transition", map[string]interface{}{
			"business_id": id,
			"from":        business.Status,
			"to":          to,
		})
		return ErrInvalidTransition
	}

	if err := s.businessRepo.UpdateStatus(id, to); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusinessNotFound
		}
		return err
	}

	logger.Info("Business status changed", map[string]interface{}{
		"business_id": id,
		"from":        business.Status,
		"to":          to,
	})
	return nil
}

func (s *businessService) ApproveBusiness(id uint) error {
	return s.transitionStatus(id, []model.BusinessStatus{model.StatusPending, model.StatusSuspended}, model.StatusApproved)
}

func (s *businessService) RejectBusiness(id uint) error {
	return s.transitionStatus(id, []model.BusinessStatus{model.StatusPending}, model.StatusRejected)
}

func (s *businessService) SuspendBusiness(id uint) error {
	return s.transitionStatus(id, []model.BusinessStatus{model.StatusApproved}, model.StatusSuspended)
}

func (s *businessService) SetFeatured(id uint, featured bool) error {
	if err := s.businessRepo.SetFeatured(id, featured); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrBusinessNotFound
		}
		logger.Error("Failed to set featured flag", err, map[string]interface{}{
			"business_id": id,
		})
		return err
	}

	logger.Info("Business featured flag updated", map[string]interface{}{
		"business_id": id,
		"featured":    featured,
	})
	return nil
}

func (s *businessService) DeleteBusiness(id uint) error {
	if _, err := s.GetBusinessByID(id); err != nil {
		return err
	}

	if err := s.businessRepo.Delete(id); err != nil {
		logger.Error("Failed to delete business", err, map[string]interface{}{
			"business_id": id,
		})
		return err
	}

	logger.Info("Business deleted", map[string]interface{}{
		"business_id": id,
	})
	return nil
}
