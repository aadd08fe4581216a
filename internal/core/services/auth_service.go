package services

import (
	"context"
	"errors"
	"log"

	"userhub/internal/adapters/persistence/models"
	"userhub/internal/adapters/persistence/repositories"
	"userhub/internal/config"
	"userhub/internal/pkg/jwt"
	"userhub/internal/pkg/password"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Auth errors
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUserAlreadyExists  = errors.New("username or email already exists")
	ErrInvalidToken       = errors.New("invalid refresh token")
	ErrTokenExpired       = errors.New("refresh token expired")
	ErrTokenRotated       = errors.New("refresh token no longer current")
	ErrUserInactive       = errors.New("user account is disabled")
)

// AuthService handles the session lifecycle: register, login, refresh
// rotation and logout
type AuthService struct {
	userRepo   repositories.UserRepository
	detailRepo repositories.UserDetailRepository
	cfg        *config.Config
}

// NewAuthService creates a new auth service
func NewAuthService(
	userRepo repositories.UserRepository,
	detailRepo repositories.UserDetailRepository,
	cfg *config.Config,
) *AuthService {
	return &AuthService{
		userRepo:   userRepo,
		detailRepo: detailRepo,
		cfg:        cfg,
	}
}

// RegisterInput represents registration input
type RegisterInput struct {
	Username  string `json:"username"`
	Email     string `json:"email"`
	Password  string `json:"password"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

// LoginInput represents login input
type LoginInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// TokenPair represents access and refresh tokens
type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token"`
}

// AuthResponse represents authentication response
type AuthResponse struct {
	User         *models.UserResponse `json:"user"`
	AccessToken  string               `json:"access_token"`
	RefreshToken string               `json:"refresh_token"`
}

// Register registers a new user with an empty profile
func (s *AuthService) Register(ctx context.Context, input *RegisterInput) (*AuthResponse, error) {
	// 1. Check if username already exists
	exists, err := s.userRepo.ExistsByUsername(ctx, input.Username)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	// 2. Check if email already exists
	exists, err = s.userRepo.ExistsByEmail(ctx, input.Email)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, ErrUserAlreadyExists
	}

	// 3. Hash password before anything touches the store
	hashedPassword, err := password.Hash(input.Password)
	if err != nil {
		return nil, err
	}

	// 4. Create user
	user := &models.User{
		ID:       uuid.NewString(),
		Username: input.Username,
		Email:    input.Email,
		Password: hashedPassword,
		Role:     models.RoleUser,
		IsActive: true,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, err
	}

	// 5. Create profile alongside the user
	detail := &models.UserDetail{
		ID:     uuid.NewString(),
		UserID: user.ID,
	}
	if input.FirstName != "" {
		detail.FirstName = &input.FirstName
	}
	if input.LastName != "" {
		detail.LastName = &input.LastName
	}
	if err := s.detailRepo.Create(ctx, detail); err != nil {
		return nil, err
	}

	// 6. Generate tokens
	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	// 7. Store refresh token on the user record
	if err := s.userRepo.SetRefreshToken(ctx, user.ID, &tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ User registered: %s", user.Username)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Login authenticates a user. Unknown user and wrong password both map
// to ErrInvalidCredentials; a disabled account is reported separately.
func (s *AuthService) Login(ctx context.Context, input *LoginInput) (*AuthResponse, error) {
	// 1. Find user by username
	user, err := s.userRepo.GetByUsername(ctx, input.Username)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}

	// 2. Check if user is active
	if !user.IsActive {
		return nil, ErrUserInactive
	}

	// 3. Verify password
	ok, err := password.Verify(input.Password, user.Password)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, ErrInvalidCredentials
	}

	// 4. Generate tokens
	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	// 5. Overwrite stored refresh token; any prior session dies here
	if err := s.userRepo.SetRefreshToken(ctx, user.ID, &tokens.RefreshToken); err != nil {
		return nil, err
	}

	log.Printf("✅ User logged in: %s", user.Username)

	return &AuthResponse{
		User:         user.ToResponse(),
		AccessToken:  tokens.AccessToken,
		RefreshToken: tokens.RefreshToken,
	}, nil
}

// Refresh exchanges a refresh token for a new token pair, rotating the
// stored token. The old token is dead afterwards even though it has not
// expired.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (*TokenPair, error) {
	// 1. Validate refresh token JWT
	claims, err := jwt.ValidateRefreshToken(refreshToken, s.cfg.JWT.RefreshSecret)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrTokenExpired
		}
		return nil, ErrInvalidToken
	}

	// 2. Find the user currently holding this exact token
	user, err := s.userRepo.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidToken
		}
		return nil, err
	}

	// 3. The claim must match the record holding the token
	if claims.UserID != user.ID {
		return nil, ErrInvalidToken
	}

	// 4. Generate new tokens
	tokens, err := s.generateTokens(user)
	if err != nil {
		return nil, err
	}

	// 5. Rotate: guarded swap so concurrent refreshes on the same stale
	// token have exactly one winner
	rotated, err := s.userRepo.RotateRefreshToken(ctx, user.ID, refreshToken, tokens.RefreshToken)
	if err != nil {
		return nil, err
	}
	if !rotated {
		return nil, ErrTokenRotated
	}

	log.Printf("✅ Token refreshed for user: %s", user.Username)

	return tokens, nil
}

// Logout revokes the refresh token. Idempotent: an unknown token still
// reports success so callers learn nothing about token validity.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) error {
	cleared, err := s.userRepo.ClearRefreshToken(ctx, refreshToken)
	if err != nil {
		return err
	}

	if cleared {
		log.Printf("✅ User logged out")
	}
	return nil
}

// ValidateAccessToken validates an access token
func (s *AuthService) ValidateAccessToken(accessToken string) (*jwt.Claims, error) {
	return jwt.ValidateAccessToken(accessToken, s.cfg.JWT.AccessSecret)
}

// GetUserByID gets a user by ID
func (s *AuthService) GetUserByID(ctx context.Context, userID string) (*models.User, error) {
	return s.userRepo.GetByID(ctx, userID)
}

// generateTokens generates access and refresh tokens
func (s *AuthService) generateTokens(user *models.User) (*TokenPair, error) {
	accessToken, err := jwt.GenerateAccessToken(
		user.ID,
		user.Username,
		user.Email,
		user.Role,
		s.cfg.JWT.AccessSecret,
		s.cfg.JWT.AccessTokenMins,
	)
	if err != nil {
		return nil, err
	}

	// Unique token ID so back-to-back pairs never collide
	tokenID := uuid.NewString()

	refreshToken, err := jwt.GenerateRefreshToken(
		user.ID,
		tokenID,
		s.cfg.JWT.RefreshSecret,
		s.cfg.JWT.RefreshTokenDays,
	)
	if err != nil {
		return nil, err
	}

	return &TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}
