package scheduler

import (
	"testing"

	"github.com/prideatlas/prideatlas-backend/internal/app/model"
	"github.com/prideatlas/prideatlas-backend/internal/app/repository"
	"github.com/prideatlas/prideatlas-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRatingReconciler_ReconcileAll(t *testing.T) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() { db.CleanupTestDB(testDB) })

	user := &model.User{
		Email:        "reviewer@example.com",
		PasswordHash: "hashed",
		DisplayName:  "Reviewer",
	}
	require.NoError(t, testDB.Create(user).Error)

	// Two businesses with drifted aggregates
	first := &model.Business{Name: "First", Category: "cafe", City: "Portland", AverageRating: 1.0, TotalReviews: 50}
	second := &model.Business{Name: "Second", Category: "bar", City: "Portland", AverageRating: 5.0, TotalReviews: 2}
	require.NoError(t, testDB.Create(first).Error)
	require.NoError(t, testDB.Create(second).Error)

	for _, rating := range []int{4, 5} {
		require.NoError(t, testDB.Create(&model.Review{
			BusinessID: first.ID,
			UserID:     user.ID,
			Rating:     rating,
		}).Error)
	}

	reconciler := NewRatingReconciler(
		"0 * * * *",
		repository.NewReviewRepository(testDB),
		repository.NewBusinessRepository(testDB),
	)
	reconciler.ReconcileAll()

	var updatedFirst, updatedSecond model.Business
	require.NoError(t, testDB.First(&updatedFirst, first.ID).Error)
	require.NoError(t, testDB.First(&updatedSecond, second.ID).Error)

	assert.Equal(t, 4.5, updatedFirst.AverageRating)
	assert.Equal(t, 2, updatedFirst.TotalReviews)

	// No reviews means the aggregate resets to zero
	assert.Equal(t, 0.0, updatedSecond.AverageRating)
	assert.Equal(t, 0, updatedSecond.TotalReviews)
}
