package services

import (
	"crypto/rand"
	"crypto/sha256"
	"encoding/base64"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/Snorakx/loyalty-admin-panel/internal/auth"
	"github.com/Snorakx/loyalty-admin-panel/internal/config"
	"github.com/Snorakx/loyalty-admin-panel/internal/dto"
	"github.com/Snorakx/loyalty-admin-panel/internal/models"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

var (
	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired refresh token")
	ErrUserNotFound       = errors.New("user not found")

	// ErrNoRoleAssigned means the identity authenticated fine but has
	// no user_roles record; the panel denies access with a distinct,
	// user-facing message.
	ErrNoRoleAssigned = errors.New("account has no role assigned, contact an administrator")
)

// userCacheTTL bounds how long a composed session user is served
// without a fresh role lookup.
const userCacheTTL = 30 * time.Second

type cachedUser struct {
	user      *auth.User
	timestamp time.Time
}

// UserStore persists identities, role records and refresh tokens.
// Find methods return (nil, nil) when no row exists.
type UserStore interface {
	FindUserByEmail(email string) (*models.User, error)
	FindUserByID(id uuid.UUID) (*models.User, error)
	FindUserRole(userID uuid.UUID) (*models.UserRole, error)
	CreateUser(user *models.User) error
	CreateRefreshToken(token *models.RefreshToken) error
	FindActiveRefreshToken(tokenHash string) (*models.RefreshToken, error)
	RevokeRefreshToken(tokenHash string) error
}

// AuthService owns authentication and the short-lived session user
// cache. It is constructed once in the composition root and injected,
// never reached through a hidden global.
type AuthService struct {
	store UserStore
	cfg   *config.Config

	// mu is held across the role lookup so concurrent fetches for the
	// same user inside the TTL window collapse into one query.
	mu    sync.Mutex
	users map[uuid.UUID]cachedUser
	now   func() time.Time
}

func NewAuthService(store UserStore, cfg *config.Config) *AuthService {
	return &AuthService{
		store: store,
		cfg:   cfg,
		users: make(map[uuid.UUID]cachedUser),
		now:   time.Now,
	}
}

// Register creates a bare identity. The role record arrives later,
// when onboarding assigns business_owner; until then the composed
// user has an unknown role and every permission check denies.
func (s *AuthService) Register(req *dto.RegisterRequest) (*dto.AuthResponse, error) {
	if len(req.Email) == 0 || len(req.Password) < 8 {
		return nil, errors.New("email required and password must be at least 8 characters")
	}

	existing, err := s.store.FindUserByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to check email: %w", err)
	}
	if existing != nil {
		return nil, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := models.User{
		ID:       uuid.New(),
		Email:    req.Email,
		Password: string(hash),
	}
	if err := s.store.CreateUser(&user); err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	session := &auth.User{ID: user.ID, Email: user.Email}
	return s.generateTokenPair(session)
}

// Login authenticates credentials, then composes the session user
// from the role record. Bad credentials and a missing role record are
// distinct failures: the second means the identity layer accepted the
// user but the application denies further access.
func (s *AuthService) Login(req *dto.LoginRequest) (*dto.AuthResponse, error) {
	user, err := s.store.FindUserByEmail(req.Email)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)); err != nil {
		return nil, ErrInvalidCredentials
	}

	session, err := s.composeUser(user.ID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		slog.Warn("login denied, identity has no role record", "user_id", user.ID.String())
		return nil, ErrNoRoleAssigned
	}

	s.storeCached(session)
	slog.Info("login successful", "user_id", user.ID.String(), "role", string(session.Role))
	return s.generateTokenPair(session)
}

// FetchCurrentUser resolves the composed session user, serving from
// the 30 second cache when fresh. Returns nil without error when the
// identity has no role record.
func (s *AuthService) FetchCurrentUser(userID uuid.UUID) (*auth.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if entry, ok := s.users[userID]; ok && s.now().Sub(entry.timestamp) < userCacheTTL {
		return entry.user, nil
	}

	user, err := s.composeUser(userID)
	if err != nil {
		return nil, err
	}
	s.users[userID] = cachedUser{user: user, timestamp: s.now()}
	return user, nil
}

// CurrentUser returns the last resolved session user without any
// I/O, or nil when nothing is cached. Downstream components that
// assume warm session state use this accessor.
func (s *AuthService) CurrentUser(userID uuid.UUID) *auth.User {
	s.mu.Lock()
	defer s.mu.Unlock()
	if entry, ok := s.users[userID]; ok {
		return entry.user
	}
	return nil
}

// Refresh rotates a refresh token for a new token pair.
func (s *AuthService) Refresh(req *dto.RefreshRequest) (*dto.AuthResponse, error) {
	tokenHash := hashToken(req.RefreshToken)

	stored, err := s.store.FindActiveRefreshToken(tokenHash)
	if err != nil {
		return nil, fmt.Errorf("failed to load refresh token: %w", err)
	}
	if stored == nil {
		return nil, ErrInvalidToken
	}

	if time.Now().After(stored.ExpiresAt) {
		_ = s.store.RevokeRefreshToken(tokenHash)
		return nil, ErrInvalidToken
	}

	if err := s.store.RevokeRefreshToken(tokenHash); err != nil {
		return nil, fmt.Errorf("failed to revoke refresh token: %w", err)
	}

	session, err := s.composeUser(stored.UserID)
	if err != nil {
		return nil, err
	}
	if session == nil {
		return nil, ErrNoRoleAssigned
	}

	return s.generateTokenPair(session)
}

// Logout revokes the refresh token and clears all cached user state
// unconditionally.
func (s *AuthService) Logout(req *dto.LogoutRequest) error {
	err := s.store.RevokeRefreshToken(hashToken(req.RefreshToken))

	s.mu.Lock()
	s.users = make(map[uuid.UUID]cachedUser)
	s.mu.Unlock()

	return err
}

// InvalidateUser drops one cached session user, forcing the next
// fetch to re-read the role record (used after role reassignment).
func (s *AuthService) InvalidateUser(userID uuid.UUID) {
	s.mu.Lock()
	delete(s.users, userID)
	s.mu.Unlock()
}

// VerifyPassword performs a non-mutating credential check, used to
// confirm destructive actions. It never touches session state or the
// cache, success or failure.
func (s *AuthService) VerifyPassword(email, password string) bool {
	user, err := s.store.FindUserByEmail(email)
	if err != nil || user == nil {
		return false
	}
	return bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(password)) == nil
}

func (s *AuthService) composeUser(userID uuid.UUID) (*auth.User, error) {
	user, err := s.store.FindUserByID(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user: %w", err)
	}
	if user == nil {
		return nil, ErrUserNotFound
	}

	role, err := s.store.FindUserRole(userID)
	if err != nil {
		return nil, fmt.Errorf("failed to load user role: %w", err)
	}
	if role == nil {
		return nil, nil
	}

	return &auth.User{
		ID:       user.ID,
		Email:    user.Email,
		Role:     auth.Role(role.Role),
		TenantID: role.TenantID,
	}, nil
}

func (s *AuthService) storeCached(user *auth.User) {
	s.mu.Lock()
	s.users[user.ID] = cachedUser{user: user, timestamp: s.now()}
	s.mu.Unlock()
}

func (s *AuthService) generateTokenPair(user *auth.User) (*dto.AuthResponse, error) {
	accessToken, err := s.generateAccessToken(user)
	if err != nil {
		return nil, err
	}

	refreshToken, err := s.generateRefreshToken(user.ID)
	if err != nil {
		return nil, err
	}

	return &dto.AuthResponse{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		User:         *user,
	}, nil
}

func (s *AuthService) generateAccessToken(user *auth.User) (string, error) {
	claims := jwt.MapClaims{
		"sub":   user.ID.String(),
		"email": user.Email,
		"role":  string(user.Role),
		"iat":   time.Now().Unix(),
		"exp":   time.Now().Add(s.cfg.JWTAccessExpiry).Unix(),
	}
	if user.TenantID != nil {
		claims["tenant_id"] = user.TenantID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(s.cfg.JWTSecret))
}

func (s *AuthService) generateRefreshToken(userID uuid.UUID) (string, error) {
	rawBytes := make([]byte, 32)
	if _, err := rand.Read(rawBytes); err != nil {
		return "", fmt.Errorf("failed to generate random bytes: %w", err)
	}

	rawToken := base64.URLEncoding.EncodeToString(rawBytes)
	tokenHash := hashToken(rawToken)

	record := models.RefreshToken{
		ID:        uuid.New(),
		UserID:    userID,
		TokenHash: tokenHash,
		ExpiresAt: time.Now().Add(s.cfg.JWTRefreshExpiry),
	}

	if err := s.store.CreateRefreshToken(&record); err != nil {
		return "", fmt.Errorf("failed to store refresh token: %w", err)
	}

	return rawToken, nil
}

func hashToken(token string) string {
	h := sha256.Sum256([]byte(token))
	return fmt.Sprintf("%x", h)
}

// UserRepository is the gorm-backed UserStore.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) FindUserByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindUserByID(id uuid.UUID) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &user, nil
}

func (r *UserRepository) FindUserRole(userID uuid.UUID) (*models.UserRole, error) {
	var role models.UserRole
	if err := r.db.Where("user_id = ?", userID).First(&role).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &role, nil
}

func (r *UserRepository) CreateUser(user *models.User) error {
	return r.db.Create(user).Error
}

func (r *UserRepository) CreateRefreshToken(token *models.RefreshToken) error {
	return r.db.Create(token).Error
}

func (r *UserRepository) FindActiveRefreshToken(tokenHash string) (*models.RefreshToken, error) {
	var token models.RefreshToken
	if err := r.db.Where("token_hash = ? AND revoked = false", tokenHash).First(&token).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &token, nil
}

func (r *UserRepository) RevokeRefreshToken(tokenHash string) error {
	return r.db.Model(&models.RefreshToken{}).
		Where("token_hash = ?", tokenHash).
		Update("revoked", true).Error
}
