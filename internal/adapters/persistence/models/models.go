package models

import (
	"time"

	"gorm.io/gorm"
)

// Role values for User.Role
const (
	RoleAdmin = "admin"
	RoleUser  = "user"
)

// User represents users table. The Password column always holds a bcrypt
// hash; hashing is done explicitly by the auth service before persistence,
// never by a model hook. RefreshToken holds the single outstanding refresh
// token for the user, or NULL when logged out.
type User struct {
	ID           string    `gorm:"primaryKey;size:36" json:"id"`
	Username     string    `gorm:"uniqueIndex;size:30;not null" json:"username"`
	Email        string    `gorm:"uniqueIndex;size:100;not null" json:"email"`
	Password     string    `gorm:"size:255;not null" json:"-"`
	Role         string    `gorm:"size:20;default:'user'" json:"role"`
	RefreshToken *string   `gorm:"type:text" json:"-"`
	IsActive     bool      `gorm:"default:true" json:"is_active"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Detail *UserDetail `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// IsAdmin reports whether the user holds the admin role
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// UserResponse holds the public user fields, never the hash or the
// stored refresh token
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Role      string    `json:"role"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		Role:      u.Role,
		IsActive:  u.IsActive,
		CreatedAt: u.CreatedAt,
	}
}

// UserDetail represents user_details table. Exactly one row per user;
// deleted together with the owning user via the FK cascade.
type UserDetail struct {
	ID             string     `gorm:"primaryKey;size:36" json:"id"`
	UserID         string     `gorm:"uniqueIndex;size:36;not null" json:"user_id"`
	FirstName      *string    `gorm:"size:100" json:"first_name"`
	LastName       *string    `gorm:"size:100" json:"last_name"`
	Address        *string    `gorm:"type:text" json:"address"`
	PhoneNumber    *string    `gorm:"size:30" json:"phone_number"`
	ProfilePicture *string    `gorm:"size:255" json:"profile_picture"`
	BirthDate      *time.Time `json:"birth_date"`
	CreatedAt      time.Time  `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt      time.Time  `gorm:"autoUpdateTime" json:"updated_at"`

	User *User `gorm:"foreignKey:UserID" json:"-"`
}

func (UserDetail) TableName() string {
	return "user_details"
}

// UserDetailResponse DTO with the owning user's public fields embedded
type UserDetailResponse struct {
	ID             string        `json:"id"`
	UserID         string        `json:"user_id"`
	FirstName      *string       `json:"first_name"`
	LastName       *string       `json:"last_name"`
	Address        *string       `json:"address"`
	PhoneNumber    *string       `json:"phone_number"`
	ProfilePicture *string       `json:"profile_picture"`
	BirthDate      *time.Time    `json:"birth_date"`
	CreatedAt      time.Time     `json:"created_at"`
	UpdatedAt      time.Time     `json:"updated_at"`
	User           *UserResponse `json:"user,omitempty"`
}

func (d *UserDetail) ToResponse() *UserDetailResponse {
	resp := &UserDetailResponse{
		ID:             d.ID,
		UserID:         d.UserID,
		FirstName:      d.FirstName,
		LastName:       d.LastName,
		Address:        d.Address,
		PhoneNumber:    d.PhoneNumber,
		ProfilePicture: d.ProfilePicture,
		BirthDate:      d.BirthDate,
		CreatedAt:      d.CreatedAt,
		UpdatedAt:      d.UpdatedAt,
	}
	if d.User != nil {
		resp.User = d.User.ToResponse()
	}
	return resp
}

// AutoMigrate runs auto migration for all tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&UserDetail{},
	)
}
