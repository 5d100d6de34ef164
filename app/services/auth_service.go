package services

import (
	"errors"
	"strings"

	"github.com/angotech/angotech/app/models"
	"github.com/angotech/angotech/app/repositories"
	"github.com/angotech/angotech/pkg/auth"
	"github.com/angotech/angotech/pkg/logger"
)

var (
	ErrEmailTaken         = errors.New("auth: email already registered")
	ErrInvalidCredentials = errors.New("auth: invalid credentials")
)

// TokenPair is issued on register, login and refresh.
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthService handles account lifecycle. Logging in folds the guest
// cart into the account cart so nothing in the basket is lost at the
// auth boundary.
type AuthService struct {
	users *repositories.UserRepository
	cart  *CartService
}

func NewAuthService(users *repositories.UserRepository, cart *CartService) *AuthService {
	return &AuthService{users: users, cart: cart}
}

// Register creates an account and signs the user straight in. The
// guest cart token, when present, is merged like a login.
func (s *AuthService) Register(name, email, password, cartToken string) (*models.User, *TokenPair, error) {
	email = strings.ToLower(strings.TrimSpace(email))

	taken, err := s.users.EmailTaken(email)
	if err != nil {
		return nil, nil, err
	}
	if taken {
		return nil, nil, ErrEmailTaken
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, nil, err
	}

	user := &models.User{
		Name:     strings.TrimSpace(name),
		Email:    email,
		Password: hash,
		Role:     models.RoleUser,
	}
	if err := s.users.Create(user); err != nil {
		return nil, nil, err
	}

	pair, err := s.issue(user)
	if err != nil {
		return nil, nil, err
	}
	s.mergeCart(user.ID, cartToken)

	logger.Info("auth: user registered", "user_id", user.ID)
	return user, pair, nil
}

// Login verifies credentials and merges the guest cart into the
// account cart before returning tokens.
func (s *AuthService) Login(email, password, cartToken string) (*models.User, *TokenPair, error) {
	user, err := s.users.FindByEmail(strings.ToLower(strings.TrimSpace(email)))
	if err != nil {
		return nil, nil, ErrInvalidCredentials
	}
	if !auth.CheckPassword(user.Password, password) {
		return nil, nil, ErrInvalidCredentials
	}

	pair, err := s.issue(&user)
	if err != nil {
		return nil, nil, err
	}
	s.mergeCart(user.ID, cartToken)

	logger.Info("auth: user logged in", "user_id", user.ID)
	return &user, pair, nil
}

// Logout revokes the presented token for its remaining lifetime.
func (s *AuthService) Logout(tokenID string, claims *auth.Claims) error {
	return auth.Revoke(tokenID, claims.ExpiresAt.Time)
}

// Refresh exchanges a valid refresh token for a fresh pair and revokes
// the old one so it cannot be replayed.
func (s *AuthService) Refresh(refreshToken string) (*TokenPair, error) {
	claims, err := auth.ValidateToken(refreshToken)
	if err != nil {
		return nil, ErrInvalidCredentials
	}
	if auth.Revoked(claims.ID) {
		return nil, ErrInvalidCredentials
	}

	user, err := s.users.FindByID(claims.UserID)
	if err != nil {
		return nil, ErrInvalidCredentials
	}

	if err := auth.Revoke(claims.ID, claims.ExpiresAt.Time); err != nil {
		logger.Warn("auth: refresh token revocation failed", "error", err)
	}
	return s.issue(&user)
}

// Me loads the account behind an authenticated request.
func (s *AuthService) Me(userID uint) (models.User, error) {
	return s.users.FindByID(userID)
}

func (s *AuthService) issue(user *models.User) (*TokenPair, error) {
	access, err := auth.GenerateToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	refresh, err := auth.GenerateRefreshToken(user.ID, user.Role)
	if err != nil {
		return nil, err
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}

// mergeCart is best-effort: a failed merge must never block a login.
func (s *AuthService) mergeCart(userID uint, cartToken string) {
	if cartToken == "" {
		return
	}
	if err := s.cart.MergeOnLogin(userID, cartToken); err != nil {
		logger.Error("auth: cart merge failed", "user_id", userID, "error", err)
	}
}
