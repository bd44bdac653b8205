package services

import (
	"sync"
	"testing"
	"time"

	"github.com/Snorakx/loyalty-admin-panel/internal/auth"
	"github.com/Snorakx/loyalty-admin-panel/internal/config"
	"github.com/Snorakx/loyalty-admin-panel/internal/models"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeUserStore struct {
	mu          sync.Mutex
	roleLookups int

	user *models.User
	role *models.UserRole
}

func (s *fakeUserStore) FindUserByEmail(email string) (*models.User, error) {
	if s.user != nil && s.user.Email == email {
		return s.user, nil
	}
	return nil, nil
}

func (s *fakeUserStore) FindUserByID(id uuid.UUID) (*models.User, error) {
	if s.user != nil && s.user.ID == id {
		return s.user, nil
	}
	return nil, nil
}

func (s *fakeUserStore) FindUserRole(userID uuid.UUID) (*models.UserRole, error) {
	s.mu.Lock()
	s.roleLookups++
	s.mu.Unlock()
	if s.role != nil && s.role.UserID == userID {
		return s.role, nil
	}
	return nil, nil
}

func (s *fakeUserStore) CreateUser(user *models.User) error { return nil }

func (s *fakeUserStore) CreateRefreshToken(token *models.RefreshToken) error { return nil }

func (s *fakeUserStore) RevokeRefreshToken(tokenHash string) error { return nil }

func (s *fakeUserStore) FindActiveRefreshToken(tokenHash string) (*models.RefreshToken, error) {
	return nil, nil
}

func testAuthService(store UserStore) *AuthService {
	return NewAuthService(store, &config.Config{
		JWTSecret:        "test-secret",
		JWTAccessExpiry:  15 * time.Minute,
		JWTRefreshExpiry: 168 * time.Hour,
	})
}

func roleStore(role string, tenantID *uuid.UUID) (*fakeUserStore, uuid.UUID) {
	userID := uuid.New()
	return &fakeUserStore{
		user: &models.User{ID: userID, Email: "owner@example.com"},
		role: &models.UserRole{UserID: userID, Role: role, TenantID: tenantID},
	}, userID
}

func TestFetchCurrentUser_SingleLookupWithinTTL(t *testing.T) {
	tenantID := uuid.New()
	store, userID := roleStore("business_owner", &tenantID)
	svc := testAuthService(store)

	first, err := svc.FetchCurrentUser(userID)
	require.NoError(t, err)
	require.NotNil(t, first)
	assert.Equal(t, auth.RoleBusinessOwner, first.Role)

	second, err := svc.FetchCurrentUser(userID)
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, store.roleLookups, "a fresh cache entry must not trigger a second lookup")
}

func TestFetchCurrentUser_ConcurrentFetchesCollapse(t *testing.T) {
	store, userID := roleStore("super_admin", nil)
	svc := testAuthService(store)

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			user, err := svc.FetchCurrentUser(userID)
			assert.NoError(t, err)
			assert.NotNil(t, user)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, store.roleLookups)
}

func TestFetchCurrentUser_TTLExpiryRefetches(t *testing.T) {
	tenantID := uuid.New()
	store, userID := roleStore("manager", &tenantID)
	svc := testAuthService(store)

	current := time.Now()
	svc.now = func() time.Time { return current }

	_, err := svc.FetchCurrentUser(userID)
	require.NoError(t, err)

	current = current.Add(userCacheTTL - time.Second)
	_, err = svc.FetchCurrentUser(userID)
	require.NoError(t, err)
	assert.Equal(t, 1, store.roleLookups)

	current = current.Add(2 * time.Second)
	_, err = svc.FetchCurrentUser(userID)
	require.NoError(t, err)
	assert.Equal(t, 2, store.roleLookups)
}

func TestFetchCurrentUser_InvalidateForcesRelookup(t *testing.T) {
	tenantID := uuid.New()
	store, userID := roleStore("business_owner", &tenantID)
	svc := testAuthService(store)

	_, err := svc.FetchCurrentUser(userID)
	require.NoError(t, err)

	svc.InvalidateUser(userID)

	_, err = svc.FetchCurrentUser(userID)
	require.NoError(t, err)
	assert.Equal(t, 2, store.roleLookups)
}

func TestFetchCurrentUser_NoRoleRecordIsNilNotError(t *testing.T) {
	userID := uuid.New()
	store := &fakeUserStore{user: &models.User{ID: userID, Email: "new@example.com"}}
	svc := testAuthService(store)

	user, err := svc.FetchCurrentUser(userID)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestFetchCurrentUser_UnknownIdentity(t *testing.T) {
	svc := testAuthService(&fakeUserStore{})

	_, err := svc.FetchCurrentUser(uuid.New())
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestVerifyPassword_UnknownEmail(t *testing.T) {
	svc := testAuthService(&fakeUserStore{})
	assert.False(t, svc.VerifyPassword("nobody@example.com", "whatever"))
}
