package service

import (
	"testing"

	"github.com/prideatlas/prideatlas-backend/internal/app/model"
	"github.com/prideatlas/prideatlas-backend/internal/app/repository"
	"github.com/prideatlas/prideatlas-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingBroadcaster struct {
	reviewEvents []uint
	ratingEvents []float64
}

func (b *recordingBroadcaster) BroadcastReviewCreated(businessID uint, review *model.Review) {
	b.reviewEvents = append(b.reviewEvents, businessID)
}

func (b *recordingBroadcaster) BroadcastRatingUpdated(businessID uint, averageRating float64, totalReviews int) {
	b.ratingEvents = append(b.ratingEvents, averageRating)
}

func setupReviewServiceTest(t *testing.T) (*gorm.DB, ReviewService, *recordingBroadcaster, *model.Business, *model.User) {
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

	broadcaster := &recordingBroadcaster{}
	svc := NewReviewService(
		repository.NewReviewRepository(testDB),
		repository.NewBusinessRepository(testDB),
		broadcaster,
	)

	return testDB, svc, broadcaster, business, user
}

func TestReviewService_SubmitReview(t *testing.T) {
	testDB, svc, broadcaster, business, user := setupReviewServiceTest(t)

	review, err := svc.SubmitReview(SubmitReviewInput{
		BusinessID: business.ID,
		UserID:     user.ID,
		Rating:     5,
		Comment:    "Wonderful space",
	})
	require.NoError(t, err)
	require.NotNil(t, review)
	assert.NotZero(t, review.ID)

	var updated model.Business
	require.NoError(t, testDB.First(&updated, business.ID).Error)
	assert.Equal(t, 5.0, updated.AverageRating)
	assert.Equal(t, 1, updated.TotalReviews)

	assert.Len(t, broadcaster.reviewEvents, 1)
	assert.Len(t, broadcaster.ratingEvents, 1)
	assert.Equal(t, 5.0, broadcaster.ratingEvents[0])
}

func TestReviewService_SubmitReview_AggregateFormula(t *testing.T) {
	testDB, svc, _, business, user := setupReviewServiceTest(t)

	// Ten 4-star ratings on the books; an 11th at 5 lands on 4.09
	err := testDB.Model(&model.Business{}).
		Where("id = ?", business.ID).
		Updates(map[string]interface{}{
			"average_rating": 4.0,
			"total_reviews":  10,
		}).Error
	require.NoError(t, err)

	_, err = svc.SubmitReview(SubmitReviewInput{
		BusinessID: business.ID,
		UserID:     user.ID,
		Rating:     5,
		Comment:    "Best visit yet",
	})
	require.NoError(t, err)

	var updated model.Business
	require.NoError(t, testDB.First(&updated, business.ID).Error)
	assert.Equal(t, 4.09, updated.AverageRating)
	assert.Equal(t, 11, updated.TotalReviews)
}

func TestReviewService_SubmitReview_Validation(t *testing.T) {
	testDB, svc, _, business, user := setupReviewServiceTest(t)

	tests := []struct {
		name      string
		input     SubmitReviewInput
		wantField string
	}{
		{
			name:      "Rating too low",
			input:     SubmitReviewInput{BusinessID: business.ID, UserID: user.ID, Rating: 0},
			wantField: "rating",
		},
		{
			name:      "Rating too high",
			input:     SubmitReviewInput{BusinessID: business.ID, UserID: user.ID, Rating: 6},
			wantField: "rating",
		},
		{
			name:      "Missing business id",
			input:     SubmitReviewInput{UserID: user.ID, Rating: 4, Comment: "Nice"},
			wantField: "business_id",
		},
		{
			name:      "Missing user id",
			input:     SubmitReviewInput{BusinessID: business.ID, Rating: 4, Comment: "Nice"},
			wantField: "user_id",
		},
		{
			name:      "Empty comment",
			input:     SubmitReviewInput{BusinessID: business.ID, UserID: user.ID, Rating: 4},
			wantField: "comment",
		},
		{
			name: "Whitespace-only comment",
			input: SubmitReviewInput{
				BusinessID: business.ID,
				UserID:     user.ID,
				Rating:     4,
				Comment:    "   \t",
			},
			wantField: "comment",
		},
		{
			name: "Bad photo URL",
			input: SubmitReviewInput{
				BusinessID: business.ID,
				UserID:     user.ID,
				Rating:     4,
				PhotoURLs:  []string{"not-a-url"},
			},
			wantField: "photo_urls",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			review, err := svc.SubmitReview(tt.input)
			require.Error(t, err)
			assert.Nil(t, review)

			var validationErr *ValidationError
			require.ErrorAs(t, err, &validationErr)
			assert.Equal(t, tt.wantField, validationErr.Field)
		})
	}

	// Nothing was written and the aggregate never moved
	var reviewCount int64
	require.NoError(t, testDB.Model(&model.Review{}).Count(&reviewCount).Error)
	assert.Equal(t, int64(0), reviewCount)

	var untouched model.Business
	require.NoError(t, testDB.First(&untouched, business.ID).Error)
	assert.Equal(t, 0.0, untouched.AverageRating)
	assert.Equal(t, 0, untouched.TotalReviews)
}

func TestReviewService_SubmitReview_MissingBusiness(t *testing.T) {
	testDB, svc, broadcaster, _, user := setupReviewServiceTest(t)

	// Review for a business row that does not exist still succeeds;
	// only the aggregate step is skipped
	review, err := svc.SubmitReview(SubmitReviewInput{
		BusinessID: 99999,
		UserID:     user.ID,
		Rating:     4,
		Comment:    "Stale listing",
	})
	require.NoError(t, err)
	require.NotNil(t, review)

	var stored model.Review
	require.NoError(t, testDB.First(&stored, review.ID).Error)
	assert.Equal(t, uint(99999), stored.BusinessID)

	assert.Empty(t, broadcaster.ratingEvents)
}

func TestReviewService_GetBusinessReviews(t *testing.T) {
	_, svc, _, business, user := setupReviewServiceTest(t)

	for i := 0; i < 5; i++ {
		_, err := svc.SubmitReview(SubmitReviewInput{
			BusinessID: business.ID,
			UserID:     user.ID,
			Rating:     4,
			Comment:    "Reliable spot",
		})
		require.NoError(t, err)
	}

	reviews, total, err := svc.GetBusinessReviews(business.ID, 1, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, reviews, 3)

	reviews, total, err = svc.GetBusinessReviews(business.ID, 2, 3)
	require.NoError(t, err)
	assert.Equal(t, int64(5), total)
	assert.Len(t, reviews, 2)
}

func TestReviewService_DeleteReview(t *testing.T) {
	testDB, svc, _, business, user := setupReviewServiceTest(t)

	_, err := svc.SubmitReview(SubmitReviewInput{
		BusinessID: business.ID,
		UserID:     user.ID,
		Rating:     5,
		Comment:    "Loved it",
	})
	require.NoError(t, err)

	removed, err := svc.SubmitReview(SubmitReviewInput{
		BusinessID: business.ID,
		UserID:     user.ID,
		Rating:     1,
		Comment:    "Off night",
	})
	require.NoError(t, err)

	err = svc.DeleteReview(removed.ID)
	require.NoError(t, err)

	var updated model.Business
	require.NoError(t, testDB.First(&updated, business.ID).Error)
	assert.Equal(t, 5.0, updated.AverageRating)
	assert.Equal(t, 1, updated.TotalReviews)

	_, total, err := svc.GetBusinessReviews(business.ID, 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
}

func TestReviewService_DeleteReview_NotFound(t *testing.T) {
	_, svc, _, _, _ := setupReviewServiceTest(t)

	err := svc.DeleteReview(99999)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}
