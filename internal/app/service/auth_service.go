package service

import (
	"errors"
	"strings"
	"time"

	"github.com/prideatlas/prideatlas-backend/internal/app/model"
	"github.com/prideatlas/prideatlas-backend/internal/app/repository"
	"github.com/prideatlas/prideatlas-backend/pkg/logger"
	"github.com/prideatlas/prideatlas-backend/pkg/util"
	"github.com/prideatlas/prideatlas-backend/pkg/validate"
	"gorm.io/gorm"
)

var (
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrUserNotFound       = errors.New("user not found")
)

// ValidationError carries the offending field so controllers can report
// it without string matching.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

type RegisterInput struct {
	Email       string
	Password    string
	DisplayName string
	Pronouns    string
	Phone       string
}

type ProfileUpdateInput struct {
	DisplayName  string
	Pronouns     string
	Phone        string
	ProfileImage string
}

type AuthService interface {
	Register(input RegisterInput) (*model.User, *util.TokenPair, error)
	Login(email, password string) (*model.User, *util.TokenPair, error)
	RefreshToken(refreshToken string) (*util.TokenPair, error)
	GetUserByID(id uint) (*model.User, error)
	UpdateProfile(userID uint, input ProfileUpdateInput) (*model.User, error)
}

type authService struct {
	userRepo      repository.UserRepository
	jwtSecret     string
	accessExpiry  time.Duration
	refreshExpiry time.Duration
}

func NewAuthService(
	userRepo repository.UserRepository,
	jwtSecret string,
	accessExpiry, refreshExpiry time.Duration,
) AuthService {
	return &authService{
		userRepo:      userRepo,
		jwtSecret:     jwtSecret,
		accessExpiry:  accessExpiry,
		refreshExpiry: refreshExpiry,
	}
}

// validateRegistration runs every field check before any write happens.
func validateRegistration(input RegisterInput) error {
	if result := validate.Email(input.Email); !result.IsValid {
		return &ValidationError{Field: "email", Message: result.Message}
	}
	if result := validate.Password(input.Password); !result.IsValid {
		return &ValidationError{Field: "password", Message: result.Message}
	}
	if result := validate.DisplayName(input.DisplayName); !result.IsValid {
		return &ValidationError{Field: "display_name", Message: result.Message}
	}
	if input.Phone != "" {
		if result := validate.Phone(input.Phone); !result.IsValid {
			return &ValidationError{Field: "phone", Message: result.Message}
		}
	}
	return nil
}

func (s *authService) Register(input RegisterInput) (*model.User, *util.TokenPair, error) {
	// Emails are stored lower-cased so lookups never depend on the
	// casing the client typed
	email := strings.ToLower(strings.TrimSpace(input.Email))

	logger.Info("Attempting user registration", map[string]interface{}{
		"email":        email,
		"display_name": input.DisplayName,
	})

	input.Email = email
	if err := validateRegistration(input); err != nil {
		logger.Warn("Registration failed validation", map[string]interface{}{
			"email": email,
			"error": err.Error(),
		})
		return nil, nil, err
	}

	existingUser, err := s.userRepo.FindByEmail(email)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		logger.Error("Failed to check existing user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}
	if existingUser != nil {
		logger.Warn("Registration failed: email already exists", map[string]interface{}{
			"email": email,
		})
		return nil, nil, ErrEmailAlreadyExists
	}

	hashedPassword, err := util.HashPassword(input.Password)
	if err != nil {
		logger.Error("Failed to hash password", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	user := &model.User{
		Email:        email,
		PasswordHash: hashedPassword,
		DisplayName:  strings.TrimSpace(input.DisplayName),
		Pronouns:     input.Pronouns,
		Phone:        input.Phone,
		Role:         model.RoleUser,
	}

	if err := s.userRepo.Create(user); err != nil {
		logger.Error("Failed to create user in database", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
			"email":   email,
		})
		return nil, nil, err
	}

	logger.Info("User registered successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})

	return user, tokens, nil
}

func (s *authService) Login(email, password string) (*model.User, *util.TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	logger.Info("Login attempt", map[string]interface{}{
		"email": email,
	})

	user, err := s.userRepo.FindByEmail(email)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("Login failed: user not found", map[string]interface{}{
				"email": email,
			})
			// Same error for unknown email and bad password so the
			// response does not reveal which accounts exist
			return nil, nil, ErrInvalidCredentials
		}
		logger.Error("Failed to find user", err, map[string]interface{}{
			"email": email,
		})
		return nil, nil, err
	}

	if !util.VerifyPassword(user.PasswordHash, password) {
		logger.Warn("Login failed: invalid password", map[string]interface{}{
			"email":   email,
			"user_id": user.ID,
		})
		return nil, nil, ErrInvalidCredentials
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens", err, map[string]interface{}{
			"user_id": user.ID,
			"email":   email,
		})
		return nil, nil, err
	}

	logger.Info("User logged in successfully", map[string]interface{}{
		"user_id": user.ID,
		"email":   email,
		"role":    user.Role,
	})

	return user, tokens, nil
}

// RefreshToken exchanges a valid refresh token for a fresh pair. The
// new pair reflects the user's current role, so a promotion takes
// effect at the next refresh.
func (s *authService) RefreshToken(refreshToken string) (*util.TokenPair, error) {
	claims, err := util.ValidateToken(refreshToken, s.jwtSecret)
	if err != nil {
		logger.Warn("Refresh token validation failed", map[string]interface{}{
			"error": err.Error(),
		})
		return nil, err
	}
	if claims.Type != "refresh" {
		logger.Warn("Token refresh rejected: not a refresh token", map[string]interface{}{
			"user_id": claims.UserID,
			"type":    claims.Type,
		})
		return nil, util.ErrInvalidToken
	}

	user, err := s.userRepo.FindByID(claims.UserID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	tokens, err := util.GenerateTokenPair(
		user.ID,
		user.Email,
		string(user.Role),
		s.jwtSecret,
		s.accessExpiry,
		s.refreshExpiry,
	)
	if err != nil {
		logger.Error("Failed to generate tokens on refresh", err, map[string]interface{}{
			"user_id": user.ID,
		})
		return nil, err
	}

	logger.Info("Token refreshed successfully", map[string]interface{}{
		"user_id": user.ID,
	})
	return tokens, nil
}

func (s *authService) GetUserByID(id uint) (*model.User, error) {
	logger.Debug("Fetching user by ID", map[string]interface{}{
		"user_id": id,
	})

	user, err := s.userRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User not found", map[string]interface{}{
				"user_id": id,
			})
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user", err, map[string]interface{}{
			"user_id": id,
		})
		return nil, err
	}

	return user, nil
}

func (s *authService) UpdateProfile(userID uint, input ProfileUpdateInput) (*model.User, error) {
	logger.Info("Updating user profile", map[string]interface{}{
		"user_id": userID,
	})

	user, err := s.userRepo.FindByID(userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			logger.Warn("User not found for profile update", map[string]interface{}{
				"user_id": userID,
			})
			return nil, ErrUserNotFound
		}
		logger.Error("Failed to fetch user for profile update", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	updated := false
	if input.DisplayName != "" && input.DisplayName != user.DisplayName {
		if result := validate.DisplayName(input.DisplayName); !result.IsValid {
			return nil, &ValidationError{Field: "display_name", Message: result.Message}
		}
		user.DisplayName = strings.TrimSpace(input.DisplayName)
		updated = true
	}
	if input.Pronouns != "" && input.Pronouns != user.Pronouns {
		user.Pronouns = input.Pronouns
		updated = true
	}
	if input.Phone != "" && input.Phone != user.Phone {
		if result := validate.Phone(input.Phone); !result.IsValid {
			return nil, &ValidationError{Field: "phone", Message: result.Message}
		}
		user.Phone = input.Phone
		updated = true
	}
	if input.ProfileImage != "" && input.ProfileImage != user.ProfileImage {
		if result := validate.URL(input.ProfileImage); !result.IsValid {
			return nil, &ValidationError{Field: "profile_image", Message: result.Message}
		}
		user.ProfileImage = input.ProfileImage
		updated = true
	}

	if !updated {
		logger.Debug("No changes detected for user profile", map[string]interface{}{
			"user_id": userID,
		})
		return user, nil
	}

	if err := s.userRepo.Update(user); err != nil {
		logger.Error("Failed to update user profile", err, map[string]interface{}{
			"user_id": userID,
		})
		return nil, err
	}

	logger.Info("User profile updated successfully", map[string]interface{}{
		"user_id":      user.ID,
		"display_name": user.DisplayName,
	})

	return user, nil
}
