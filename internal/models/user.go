package models

import (
	"time"
)

type User struct {
	ID        int64     `gorm:"primaryKey" json:"id"`
	UUID      string    `gorm:"type:uuid;uniqueIndex;not null" json:"uuid"`
	Nim       string    `gorm:"uniqueIndex;not null" json:"nim"`
	Name      string    `gorm:"not null" json:"name"`
	Password  string    `gorm:"not null" json:"-"`
	Role      Role      `gorm:"type:text;not null;default:'user'" json:"role"`
	Email     *string   `json:"email,omitempty"`
	Photo     *string   `json:"photo,omitempty"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// UserResponse is the user payload returned to clients, without the
// password hash.
type UserResponse struct {
	ID        int64     `json:"id"`
	UUID      string    `json:"uuid"`
	Nim       string    `json:"nim"`
	Name      string    `json:"name"`
	Role      Role      `json:"role"`
	Email     *string   `json:"email,omitempty"`
	Photo     *string   `json:"photo,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
	CreatedAt time.Time `json:"created_at"`
}

func (u User) IntoResponse() UserResponse {
	return UserResponse{
		ID:        u.ID,
		UUID:      u.UUID,
		Nim:       u.Nim,
		Name:      u.Name,
		Role:      u.Role,
		Email:     u.Email,
		Photo:     u.Photo,
		UpdatedAt: u.UpdatedAt,
		CreatedAt: u.CreatedAt,
	}
}

// UserSession is the identity embedded in session tokens and injected
// into handlers by the auth middleware.
type UserSession struct {
	ID   int64  `json:"id"`
	UUID string `json:"uuid"`
	Role Role   `json:"role"`
}

type UserRegistration struct {
	Nim      string `json:"nim" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Role     Role   `json:"role"`
}

type UserLogin struct {
	Nim      string `json:"nim" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// UserUpdate carries a partial update; nil fields are left untouched.
type UserUpdate struct {
	Nim      *string `json:"nim,omitempty"`
	Name     *string `json:"name,omitempty"`
	Password *string `json:"password,omitempty"`
	Role     *Role   `json:"role,omitempty"`
	Email    *string `json:"email,omitempty"`
	Photo    *string `json:"photo,omitempty"`
}
