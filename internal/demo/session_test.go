package demo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStore_SignIn(t *testing.T) {
	store := NewStore()

	tests := []struct {
		name     string
		email    string
		password string
		wantErr  error
		wantRole Role
	}{
		{
			name:     "Seeded user account",
			email:    "user@example.com",
			password: "password123",
			wantRole: RoleUser,
		},
		{
			name:     "Seeded owner account",
			email:    "owner@example.com",
			password: "password123",
			wantRole: RoleBusinessOwner,
		},
		{
			name:     "Seeded admin account",
			email:    "admin@example.com",
			password: "admin123",
			wantRole: RoleAdmin,
		},
		{
			name:     "Mixed-case email resolves",
			email:    "User@Example.COM",
			password: "password123",
			wantRole: RoleUser,
		},
		{
			name:     "Unknown email",
			email:    "ghost@example.com",
			password: "password123",
			wantErr:  ErrUserNotFound,
		},
		{
			name:     "Wrong password",
			email:    "user@example.com",
			password: "nope",
			wantErr:  ErrWrongPassword,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile, err := store.SignIn(tt.email, tt.password)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Nil(t, profile)
			} else {
				require.NoError(t, err)
				require.NotNil(t, profile)
				assert.Equal(t, tt.wantRole, profile.Role)
			}
		})
	}
}

func TestStore_SignUpAndSignOut(t *testing.T) {
	store := NewStore()

	profile, err := store.SignUp("new@example.com", "Password123", "New Person")
	require.NoError(t, err)
	assert.Equal(t, RoleUser, profile.Role)
	assert.Equal(t, "new@example.com", profile.Email)
	assert.Empty(t, profile.SavedPlaces)

	current := store.CurrentUser()
	require.NotNil(t, current)
	assert.Equal(t, profile.ID, current.ID)

	// Duplicate email
	_, err = store.SignUp("new@example.com", "Password123", "Imposter")
	assert.ErrorIs(t, err, ErrEmailAlreadyInUse)

	store.SignOut()
	assert.Nil(t, store.CurrentUser())

	// Signing out twice is harmless
	store.SignOut()

	// The account persists after sign-out
	again, err := store.SignIn("new@example.com", "Password123")
	require.NoError(t, err)
	assert.Equal(t, profile.ID, again.ID)
}

func TestStore_SignUp_Validation(t *testing.T) {
	store := NewStore()

	_, err := store.SignUp("bad-email", "Password123", "Someone")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = store.SignUp("ok@example.com", "weak", "Someone")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = store.SignUp("ok@example.com", "Password123", "X")
	assert.ErrorIs(t, err, ErrInvalidInput)

	// Nothing was created and nobody is signed in
	assert.Nil(t, store.CurrentUser())
}

func TestStore_Subscribe(t *testing.T) {
	store := NewStore()

	var snapshots []Snapshot
	unsubscribe := store.Subscribe(func(s Snapshot) {
		snapshots = append(snapshots, s)
	})

	// Immediate snapshot on subscribe: signed out, not loading
	require.Len(t, snapshots, 1)
	assert.Nil(t, snapshots[0].User)
	assert.False(t, snapshots[0].Loading)

	_, err := store.SignIn("user@example.com", "password123")
	require.NoError(t, err)

	// Sign-in emits loading=true then the final signed-in snapshot
	require.Len(t, snapshots, 3)
	assert.True(t, snapshots[1].Loading)
	require.NotNil(t, snapshots[2].User)
	assert.Equal(t, "user@example.com", snapshots[2].User.Email)
	assert.False(t, snapshots[2].Loading)

	unsubscribe()
	store.SignOut()

	// No notifications after unsubscribe
	assert.Len(t, snapshots, 3)
}

func TestStore_SavedPlaces(t *testing.T) {
	store := NewStore()

	// Saved-set calls require a session
	assert.ErrorIs(t, store.SavePlace(7), ErrNotLoggedIn)
	assert.False(t, store.IsSaved(7))

	_, err := store.SignIn("user@example.com", "password123")
	require.NoError(t, err)

	require.NoError(t, store.SavePlace(7))
	require.NoError(t, store.SavePlace(7))
	assert.True(t, store.IsSaved(7))

	current := store.CurrentUser()
	assert.Equal(t, []uint{7}, current.SavedPlaces)

	require.NoError(t, store.UnsavePlace(7))
	require.NoError(t, store.UnsavePlace(7))
	assert.False(t, store.IsSaved(7))

	// Save, unsave, save round trip leaves the place saved
	require.NoError(t, store.SavePlace(7))
	assert.True(t, store.IsSaved(7))
}

func TestStore_SubmitReview_Aggregate(t *testing.T) {
	store := NewStore()

	_, err := store.SignIn("user@example.com", "password123")
	require.NoError(t, err)

	for i := 0; i < 10; i++ {
		_, err := store.SubmitReview(42, 4, "solid")
		require.NoError(t, err)
	}

	_, err = store.SubmitReview(42, 5, "even better")
	require.NoError(t, err)

	// Blank comments are rejected and leave the aggregate alone
	_, err = store.SubmitReview(42, 3, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	agg := store.BusinessAggregate(42)
	assert.Equal(t, 4.09, agg.AverageRating)
	assert.Equal(t, 11, agg.TotalReviews)

	reviews := store.BusinessReviews(42)
	require.Len(t, reviews, 11)
	// Newest first
	assert.Equal(t, 5, reviews[0].Rating)
}

func TestStore_UpdateProfile(t *testing.T) {
	store := NewStore()

	_, err := store.UpdateProfile("New Name", "")
	assert.ErrorIs(t, err, ErrNotLoggedIn)

	_, err = store.SignIn("user@example.com", "password123")
	require.NoError(t, err)

	updated, err := store.UpdateProfile("Renamed", "they/them")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.DisplayName)
	assert.Equal(t, "they/them", updated.Pronouns)
	assert.False(t, updated.UpdatedAt.IsZero())

	// Survives a sign-out/sign-in cycle
	store.SignOut()
	again, err := store.SignIn("user@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "Renamed", again.DisplayName)
}
