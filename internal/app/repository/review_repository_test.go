package repository

import (
	"testing"

	"github.com/prideatlas/prideatlas-backend/internal/app/model"
	"github.com/prideatlas/prideatlas-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupReviewTest(t *testing.T) (*gorm.DB, ReviewRepository, *model.Business, *model.User) {
	t.Helper()

	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	user := &model.User{
		Email:        "reviewer@example.com",
		PasswordHash: "hashed",
		DisplayName:  "Reviewer",
	}
	require.NoError(t, testDB.Create(user).Error)

	business := &model.Business{
		Name:     "Rainbow Cafe",
		Category: "cafe",
		City:     "Portland",
		Status:   model.StatusApproved,
	}
	require.NoError(t, testDB.Create(business).Error)

	return testDB, NewReviewRepository(testDB), business, user
}

func TestReviewRepository_Create(t *testing.T) {
	testDB, repo, business, user := setupReviewTest(t)

	review := &model.Review{
		BusinessID: business.ID,
		UserID:     user.ID,
		Rating:     4,
		Comment:    "Friendly staff",
	}
	err := repo.Create(review)
	assert.NoError(t, err)
	assert.NotZero(t, review.ID)

	var stored model.Review
	require.NoError(t, testDB.First(&stored, review.ID).Error)
	assert.Equal(t, 4, stored.Rating)
	assert.Equal(t, business.ID, stored.BusinessID)
}

func TestReviewRepository_ApplyRatingAggregate(t *testing.T) {
	testDB, repo, business, _ := setupReviewTest(t)

	// Seed an existing aggregate of ten 4-star ratings
	err := testDB.Model(&model.Business{}).
		Where("id = ?", business.ID).
		Updates(map[string]interface{}{
			"average_rating": 4.0,
			"total_reviews":  10,
		}).Error
	require.NoError(t, err)

	err = repo.ApplyRatingAggregate(business.ID, 5)
	assert.NoError(t, err)

	var updated model.Business
	require.NoError(t, testDB.First(&updated, business.ID).Error)
	assert.Equal(t, 4.09, updated.AverageRating)
	assert.Equal(t, 11, updated.TotalReviews)
}

func TestReviewRepository_ApplyRatingAggregate_FirstReview(t *testing.T) {
	testDB, repo, business, _ := setupReviewTest(t)

	err := repo.ApplyRatingAggregate(business.ID, 3)
	assert.NoError(t, err)

	var updated model.Business
	require.NoError(t, testDB.First(&updated, business.ID).Error)
	assert.Equal(t, 3.0, updated.AverageRating)
	assert.Equal(t, 1, updated.TotalReviews)
}

func TestReviewRepository_ApplyRatingAggregate_BusinessNotFound(t *testing.T) {
	_, repo, _, _ := setupReviewTest(t)

	err := repo.ApplyRatingAggregate(99999, 5)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReviewRepository_FindByBusinessID(t *testing.T) {
	_, repo, business, user := setupReviewTest(t)

	for _, rating := range []int{5, 3, 4} {
		require.NoError(t, repo.Create(&model.Review{
			BusinessID: business.ID,
			UserID:     user.ID,
			Rating:     rating,
		}))
	}

	reviews, total, err := repo.FindByBusinessID(business.ID, 0, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, reviews, 3)

	reviews, total, err = repo.FindByBusinessID(business.ID, 0, 2)
	assert.NoError(t, err)
	assert.Equal(t, int64(3), total)
	assert.Len(t, reviews, 2)
}

func TestReviewRepository_FindByBusinessID_Empty(t *testing.T) {
	_, repo, business, _ := setupReviewTest(t)

	reviews, total, err := repo.FindByBusinessID(business.ID, 0, 10)
	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, reviews)
}

func TestReviewRepository_RecomputeAggregate(t *testing.T) {
	testDB, repo, business, user := setupReviewTest(t)

	for _, rating := range []int{5, 4, 2} {
		require.NoError(t, repo.Create(&model.Review{
			BusinessID: business.ID,
			UserID:     user.ID,
			Rating:     rating,
		}))
	}

	// Drift the stored aggregate away from the source of truth
	err := testDB.Model(&model.Business{}).
		Where("id = ?", business.ID).
		Updates(map[string]interface{}{
			"average_rating": 1.0,
			"total_reviews":  99,
		}).Error
	require.NoError(t, err)

	err = repo.RecomputeAggregate(business.ID)
	assert.NoError(t, err)

	var updated model.Business
	require.NoError(t, testDB.First(&updated, business.ID).Error)
	assert.Equal(t, 3.67, updated.AverageRating)
	assert.Equal(t, 3, updated.TotalReviews)
}

func TestReviewRepository_DeleteWithRecompute(t *testing.T) {
	testDB, repo, business, user := setupReviewTest(t)

	keep := &model.Review{BusinessID: business.ID, UserID: user.ID, Rating: 5}
	drop := &model.Review{BusinessID: business.ID, UserID: user.ID, Rating: 1}
	require.NoError(t, repo.Create(keep))
	require.NoError(t, repo.Create(drop))
	require.NoError(t, repo.RecomputeAggregate(business.ID))

	err := repo.DeleteWithRecompute(drop)
	assert.NoError(t, err)

	var updated model.Business
	require.NoError(t, testDB.First(&updated, business.ID).Error)
	assert.Equal(t, 5.0, updated.AverageRating)
	assert.Equal(t, 1, updated.TotalReviews)

	_, err = repo.FindByID(drop.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}

func TestReviewRepository_DeleteWithRecompute_LastReview(t *testing.T) {
	testDB, repo, business, user := setupReviewTest(t)

	only := &model.Review{BusinessID: business.ID, UserID: user.ID, Rating: 4}
	require.NoError(t, repo.Create(only))
	require.NoError(t, repo.RecomputeAggregate(business.ID))

	err := repo.DeleteWithRecompute(only)
	assert.NoError(t, err)

	var updated model.Business
	require.NoError(t, testDB.First(&updated, business.ID).Error)
	assert.Equal(t, 0.0, updated.AverageRating)
	assert.Equal(t, 0, updated.TotalReviews)
}
