package services

import (
	"context"
	"errors"
	"time"

	"userhub/internal/adapters/persistence/models"
	"userhub/internal/adapters/persistence/repositories"
	"userhub/internal/pkg/pagination"

	"gorm.io/gorm"
)

// User detail errors
var (
	ErrDetailNotFound = errors.New("user detail not found")
	ErrNotOwner       = errors.New("not the owner of this profile")
)

// UserDetailService handles profile business logic
type UserDetailService struct {
	detailRepo repositories.UserDetailRepository
}

// NewUserDetailService creates a new user detail service
func NewUserDetailService(detailRepo repositories.UserDetailRepository) *UserDetailService {
	return &UserDetailService{detailRepo: detailRepo}
}

// UpdateDetailInput represents a partial profile update; nil fields keep
// their stored value
type UpdateDetailInput struct {
	FirstName      *string    `json:"first_name"`
	LastName       *string    `json:"last_name"`
	Address        *string    `json:"address"`
	PhoneNumber    *string    `json:"phone_number"`
	ProfilePicture *string    `json:"profile_picture"`
	BirthDate      *time.Time `json:"birth_date"`
}

// GetDetail gets a profile by owner ID with embedded public user fields
func (s *UserDetailService) GetDetail(ctx context.Context, userID string) (*models.UserDetailResponse, error) {
	detail, err := s.detailRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDetailNotFound
		}
		return nil, err
	}
	return detail.ToResponse(), nil
}

// UpdateDetail updates a profile. Permitted for the owner or an admin.
func (s *UserDetailService) UpdateDetail(ctx context.Context, actorID, actorRole, userID string, input *UpdateDetailInput) (*models.UserDetailResponse, error) {
	detail, err := s.detailRepo.GetByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrDetailNotFound
		}
		return nil, err
	}

	if actorRole != models.RoleAdmin && actorID != userID {
		return nil, ErrNotOwner
	}

	if input.FirstName != nil {
		detail.FirstName = input.FirstName
	}
	if input.LastName != nil {
		detail.LastName = input.LastName
	}
	if input.Address != nil {
		detail.Address = input.Address
	}
	if input.PhoneNumber != nil {
		detail.PhoneNumber = input.PhoneNumber
	}
	if input.ProfilePicture != nil {
		detail.ProfilePicture = input.ProfilePicture
	}
	if input.BirthDate != nil {
		detail.BirthDate = input.BirthDate
	}

	if err := s.detailRepo.Update(ctx, detail); err != nil {
		return nil, err
	}

	return detail.ToResponse(), nil
}

// DeleteDetail deletes a profile by owner ID. The admin check is enforced
// at the route level.
func (s *UserDetailService) DeleteDetail(ctx context.Context, userID string) error {
	deleted, err := s.detailRepo.DeleteByUserID(ctx, userID)
	if err != nil {
		return err
	}
	if !deleted {
		return ErrDetailNotFound
	}
	return nil
}

// ListDetails lists all profiles with pagination, newest first
func (s *UserDetailService) ListDetails(ctx context.Context, params *pagination.Params) ([]*models.UserDetailResponse, int64, error) {
	details, total, err := s.detailRepo.List(ctx, params.Offset, params.Limit)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]*models.UserDetailResponse, len(details))
	for i, detail := range details {
		responses[i] = detail.ToResponse()
	}

	return responses, total, nil
}
