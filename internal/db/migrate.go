package db

import (
	"strings"

	"github.com/prideatlas/prideatlas-backend/internal/app/model"
	"github.com/prideatlas/prideatlas-backend/pkg/logger"
	"github.com/prideatlas/prideatlas-backend/pkg/util"
)

// Migrate runs database migrations
func Migrate() error {
	logger.Info("Running database migrations...")

	models := []interface{}{
		&model.User{},
		&model.Business{},
		&model.Review{},
		&model.SavedPlace{},
	}

	if err := DB.AutoMigrate(models...); err != nil {
		logger.Error("Failed to run migrations", err)
		return err
	}

	logger.Info("Database migrations completed successfully", map[string]interface{}{
		"models_count": len(models),
	})
	return nil
}

// Seed adds the demo accounts used by local development and demo mode
func Seed() error {
	return seedDemoAccounts()
}

type seedAccount struct {
	Email       string
	Password    string
	DisplayName string
	Pronouns    string
	Role        model.UserRole
}

func seedDemoAccounts() error {
	var count int64
	if err := DB.Model(&model.User{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		logger.Info("Users already seeded, skipping...", map[string]interface{}{
			"existing_count": count,
		})
		return nil
	}

	logger.Info("Seeding demo accounts...")

	accounts := []seedAccount{
		{Email: "user@example.com", Password: "password123", DisplayName: "Demo User", Pronouns: "they/them", Role: model.RoleUser},
		{Email: "owner@example.com", Password: "password123", DisplayName: "Demo Owner", Pronouns: "she/her", Role: model.RoleBusinessOwner},
		{Email: "admin@example.com", Password: "admin123", DisplayName: "Demo Admin", Role: model.RoleAdmin},
	}

	for _, acc := range accounts {
		hash, err := util.HashPassword(acc.Password)
		if err != nil {
			return err
		}
		user := model.User{
			Email:        strings.ToLower(acc.Email),
			PasswordHash: hash,
			DisplayName:  acc.DisplayName,
			Pronouns:     acc.Pronouns,
			Role:         acc.Role,
		}
		if err := DB.Create(&user).Error; err != nil {
			logger.Error("Failed to create seed account", err, map[string]interface{}{
				"email": acc.Email,
			})
			return err
		}
	}

	logger.Info("Demo accounts seeded successfully", map[string]interface{}{
		"count": len(accounts),
	})
	return nil
}
