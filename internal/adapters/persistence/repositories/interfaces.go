package repositories

import (
	"context"

	"userhub/internal/adapters/persistence/models"
)

// UserRepository defines user repository interface
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	GetByID(ctx context.Context, id string) (*models.User, error)
	GetByUsername(ctx context.Context, username string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
	GetByRefreshToken(ctx context.Context, token string) (*models.User, error)
	Update(ctx context.Context, user *models.User) error
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]*models.User, int64, error)
	ExistsByUsername(ctx context.Context, username string) (bool, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)

	// SetRefreshToken unconditionally overwrites the stored refresh token
	// (login issues a new session; nil clears it).
	SetRefreshToken(ctx context.Context, userID string, token *string) error
	// RotateRefreshToken swaps current for next only if current is still
	// the stored value. Returns false when another request rotated first.
	RotateRefreshToken(ctx context.Context, userID, current, next string) (bool, error)
	// ClearRefreshToken clears whichever row holds this exact token.
	// Returns false when no row held it.
	ClearRefreshToken(ctx context.Context, token string) (bool, error)
	ListWithRefreshToken(ctx context.Context) ([]*models.User, error)
}

// UserDetailRepository defines user detail repository interface
type UserDetailRepository interface {
	Create(ctx context.Context, detail *models.UserDetail) error
	GetByUserID(ctx context.Context, userID string) (*models.UserDetail, error)
	Update(ctx context.Context, detail *models.UserDetail) error
	DeleteByUserID(ctx context.Context, userID string) (bool, error)
	List(ctx context.Context, offset, limit int) ([]*models.UserDetail, int64, error)
}
