// Package demo provides an in-memory session store used when the
// service runs in demo mode and in tests. It mimics the auth and
// saved-place behavior of the real backend without any external
// dependencies. Passwords use a reversible transform and must never
// guard real data.
package demo

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"github.com/prideatlas/prideatlas-backend/pkg/logger"
	"github.com/prideatlas/prideatlas-backend/pkg/validate"
)

// Error codes follow the auth/* convention demo clients already handle.
var (
	ErrUserNotFound      = errors.New("auth/user-not-found")
	ErrWrongPassword     = errors.New("auth/wrong-password")
	ErrEmailAlreadyInUse = errors.New("auth/email-already-in-use")
	ErrNotLoggedIn       = errors.New("auth/not-logged-in")
	ErrInvalidInput      = errors.New("auth/invalid-input")
)

type Role string

const (
	RoleUser          Role = "user"
	RoleBusinessOwner Role = "business_owner"
	RoleAdmin         Role = "admin"
)

// Profile is the demo account record handed to listeners and callers.
type Profile struct {
	ID          uint
	Email       string
	DisplayName string
	Pronouns    string
	Role        Role
	SavedPlaces []uint
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// Review is an in-memory review row.
type Review struct {
	ID         uint
	BusinessID uint
	UserID     uint
	Rating     int
	Comment    string
	CreatedAt  time.Time
}

// Aggregate mirrors the business rating aggregate.
type Aggregate struct {
	AverageRating float64
	TotalReviews  int
}

// Snapshot is what listeners receive on every state change.
type Snapshot struct {
	User    *Profile
	Loading bool
}

type account struct {
	profile  Profile
	password string // obfuscated, see encodePassword
}

type Listener func(Snapshot)

// Store is a mutex-guarded in-memory session state machine.
type Store struct {
	mu         sync.Mutex
	accounts   map[string]*account // key: lower-cased email
	current    *Profile
	loading    bool
	nextID     uint
	nextSubID  int
	nextRevID  uint
	listeners  map[int]Listener
	reviews    map[uint][]Review // key: business id
	aggregates map[uint]*Aggregate
	latency    time.Duration
}

// NewStore returns a store seeded with the demo accounts.
func NewStore() *Store {
	s := &Store{
		accounts:   make(map[string]*account),
		listeners:  make(map[int]Listener),
		reviews:    make(map[uint][]Review),
		aggregates: make(map[uint]*Aggregate),
		nextID:     1,
		nextRevID:  1,
	}
	s.seed()
	return s
}

// SetLatency enables artificial latency on mutating calls. Off by
// default so tests stay fast.
func (s *Store) SetLatency(d time.Duration) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.latency = d
}

func (s *Store) seed() {
	seeds := []struct {
		email    string
		password string
		name     string
		role     Role
	}{
		{"user@example.com", "password123", "Demo User", RoleUser},
		{"owner@example.com", "password123", "Demo Owner", RoleBusinessOwner},
		{"admin@example.com", "admin123", "Demo Admin", RoleAdmin},
	}

	for _, seed := range seeds {
		s.accounts[seed.email] = &account{
			profile: Profile{
				ID:          s.nextID,
				Email:       seed.email,
				DisplayName: seed.name,
				Role:        seed.role,
				SavedPlaces: []uint{},
				CreatedAt:   time.Now(),
			},
			password: encodePassword(seed.password),
		}
		s.nextID++
	}
}

// encodePassword obfuscates a password reversibly. Demo only.
func encodePassword(password string) string {
	runes := []rune(password)
	for i, j := 0, len(runes)-1; i < j; i, j = i+1, j-1 {
		runes[i], runes[j] = runes[j], runes[i]
	}
	return fmt.Sprintf("demo$%s", string(runes))
}

func (s *Store) sleep() {
	if s.latency > 0 {
		time.Sleep(s.latency)
	}
}

// notifyLocked sends the current snapshot to every listener. Callers
// hold the mutex; listeners run synchronously and must not call back
// into the store.
func (s *Store) notifyLocked() {
	snapshot := s.snapshotLocked()
	for _, listener := range s.listeners {
		listener(snapshot)
	}
}

func (s *Store) snapshotLocked() Snapshot {
	var user *Profile
	if s.current != nil {
		clone := cloneProfile(*s.current)
		user = &clone
	}
	return Snapshot{User: user, Loading: s.loading}
}

func cloneProfile(p Profile) Profile {
	saved := make([]uint, len(p.SavedPlaces))
	copy(saved, p.SavedPlaces)
	p.SavedPlaces = saved
	return p
}

// Subscribe registers a listener and returns its unsubscribe func.
// The listener immediately receives the current snapshot.
func (s *Store) Subscribe(listener Listener) func() {
	s.mu.Lock()
	id := s.nextSubID
	s.nextSubID++
	s.listeners[id] = listener
	snapshot := s.snapshotLocked()
	s.mu.Unlock()

	listener(snapshot)

	return func() {
		s.mu.Lock()
		delete(s.listeners, id)
		s.mu.Unlock()
	}
}

// SignIn moves the store from signedOut through signingIn to signedIn.
// Unknown email and bad password fail with distinct codes; the demo
// client branches on them.
func (s *Store) SignIn(email, password string) (*Profile, error) {
	s.mu.Lock()
	s.loading = true
	s.notifyLocked()
	s.mu.Unlock()

	s.sleep()

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notifyLocked()

	s.loading = false

	acct, ok := s.accounts[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		logger.Debug("Demo sign-in failed: unknown email", map[string]interface{}{
			"email": email,
		})
		return nil, ErrUserNotFound
	}
	if acct.password != encodePassword(password) {
		logger.Debug("Demo sign-in failed: wrong password", map[string]interface{}{
			"email": email,
		})
		return nil, ErrWrongPassword
	}

	clone := cloneProfile(acct.profile)
	s.current = &clone

	logger.Info("Demo sign-in successful", map[string]interface{}{
		"email": acct.profile.Email,
		"role":  acct.profile.Role,
	})

	result := cloneProfile(clone)
	return &result, nil
}

// SignUp creates an account and signs it in.
func (s *Store) SignUp(email, password, displayName string) (*Profile, error) {
	if result := validate.Email(email); !result.IsValid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, result.Message)
	}
	if result := validate.Password(password); !result.IsValid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, result.Message)
	}
	if result := validate.DisplayName(displayName); !result.IsValid {
		return nil, fmt.Errorf("%w: %s", ErrInvalidInput, result.Message)
	}

	s.mu.Lock()
	s.loading = true
	s.notifyLocked()
	s.mu.Unlock()

	s.sleep()

	s.mu.Lock()
	defer s.mu.Unlock()
	defer s.notifyLocked()

	s.loading = false

	key := strings.ToLower(strings.TrimSpace(email))
	if _, exists := s.accounts[key]; exists {
		return nil, ErrEmailAlreadyInUse
	}

	acct := &account{
		profile: Profile{
			ID:          s.nextID,
			Email:       key,
			DisplayName: strings.TrimSpace(displayName),
			Role:        RoleUser,
			SavedPlaces: []uint{},
			CreatedAt:   time.Now(),
		},
		password: encodePassword(password),
	}
	s.nextID++
	s.accounts[key] = acct

	clone := cloneProfile(acct.profile)
	s.current = &clone

	result := cloneProfile(clone)
	return &result, nil
}

// SignOut clears the session. Signing out while signed out is a no-op.
func (s *Store) SignOut() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return
	}
	s.current = nil
	s.notifyLocked()
}

// CurrentUser returns the signed-in profile, or nil.
func (s *Store) CurrentUser() *Profile {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil
	}
	clone := cloneProfile(*s.current)
	return &clone
}

// UpdateProfile merges non-empty fields into the signed-in profile.
func (s *Store) UpdateProfile(displayName, pronouns string) (*Profile, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, ErrNotLoggedIn
	}

	if displayName != "" {
		if result := validate.DisplayName(displayName); !result.IsValid {
			return nil, fmt.Errorf("%w: %s", ErrInvalidInput, result.Message)
		}
		s.current.DisplayName = strings.TrimSpace(displayName)
	}
	if pronouns != "" {
		s.current.Pronouns = pronouns
	}
	s.current.UpdatedAt = time.Now()

	// Write through to the backing account
	if acct, ok := s.accounts[s.current.Email]; ok {
		acct.profile.DisplayName = s.current.DisplayName
		acct.profile.Pronouns = s.current.Pronouns
		acct.profile.UpdatedAt = s.current.UpdatedAt
	}

	s.notifyLocked()

	clone := cloneProfile(*s.current)
	return &clone, nil
}

// SavePlace adds a business to the signed-in user's saved set.
// Saving twice leaves one entry.
func (s *Store) SavePlace(businessID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNotLoggedIn
	}
	if businessID == 0 {
		return ErrInvalidInput
	}

	for _, id := range s.current.SavedPlaces {
		if id == businessID {
			return nil
		}
	}
	s.current.SavedPlaces = append(s.current.SavedPlaces, businessID)

	if acct, ok := s.accounts[s.current.Email]; ok {
		acct.profile.SavedPlaces = append([]uint{}, s.current.SavedPlaces...)
	}

	s.notifyLocked()
	return nil
}

// UnsavePlace removes a business from the saved set; absent is a no-op.
func (s *Store) UnsavePlace(businessID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return ErrNotLoggedIn
	}
	if businessID == 0 {
		return ErrInvalidInput
	}

	filtered := s.current.SavedPlaces[:0]
	for _, id := range s.current.SavedPlaces {
		if id != businessID {
			filtered = append(filtered, id)
		}
	}
	s.current.SavedPlaces = filtered

	if acct, ok := s.accounts[s.current.Email]; ok {
		acct.profile.SavedPlaces = append([]uint{}, s.current.SavedPlaces...)
	}

	s.notifyLocked()
	return nil
}

// IsSaved reports membership; false when signed out.
func (s *Store) IsSaved(businessID uint) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return false
	}
	for _, id := range s.current.SavedPlaces {
		if id == businessID {
			return true
		}
	}
	return false
}

// SubmitReview stores a review and folds it into the in-memory
// aggregate using the same arithmetic as the database path.
func (s *Store) SubmitReview(businessID uint, rating int, comment string) (*Review, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return nil, ErrNotLoggedIn
	}
	if businessID == 0 || rating < 1 || rating > 5 {
		return nil, ErrInvalidInput
	}
	if strings.TrimSpace(comment) == "" {
		return nil, ErrInvalidInput
	}

	review := Review{
		ID:         s.nextRevID,
		BusinessID: businessID,
		UserID:     s.current.ID,
		Rating:     rating,
		Comment:    strings.TrimSpace(comment),
		CreatedAt:  time.Now(),
	}
	s.nextRevID++
	s.reviews[businessID] = append(s.reviews[businessID], review)

	agg, ok := s.aggregates[businessID]
	if !ok {
		agg = &Aggregate{}
		s.aggregates[businessID] = agg
	}
	newAvg := (agg.AverageRating*float64(agg.TotalReviews) + float64(rating)) / float64(agg.TotalReviews+1)
	agg.AverageRating = math.Round(newAvg*100) / 100
	agg.TotalReviews++

	return &review, nil
}

// BusinessAggregate returns the in-memory rating aggregate.
func (s *Store) BusinessAggregate(businessID uint) Aggregate {
	s.mu.Lock()
	defer s.mu.Unlock()

	if agg, ok := s.aggregates[businessID]; ok {
		return *agg
	}
	return Aggregate{}
}

// BusinessReviews returns reviews for a business, newest first.
func (s *Store) BusinessReviews(businessID uint) []Review {
	s.mu.Lock()
	defer s.mu.Unlock()

	stored := s.reviews[businessID]
	reviews := make([]Review, len(stored))
	copy(reviews, stored)
	for i, j := 0, len(reviews)-1; i < j; i, j = i+1, j-1 {
		reviews[i], reviews[j] = reviews[j], reviews[i]
	}
	return reviews
}
