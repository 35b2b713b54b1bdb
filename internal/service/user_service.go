package service

import (
	"context"

	"github.com/google/uuid"

	"dynotest/internal/apperr"
	"dynotest/internal/auth"
	"dynotest/internal/models"
	"dynotest/internal/repository"
)

type UserService interface {
	List(ctx context.Context, limit int) ([]models.UserResponse, error)
	Get(ctx context.Context, id int64) (*models.UserResponse, error)
	Create(ctx context.Context, reg models.UserRegistration, role models.Role) (int64, error)
	Update(ctx context.Context, caller models.UserSession, targetID int64, update models.UserUpdate) error
	Delete(ctx context.Context, id int64) error
}

type userService struct {
	users repository.UserRepository
}

func NewUserService(users repository.UserRepository) UserService {
	return &userService{users: users}
}

func (s *userService) List(ctx context.Context, limit int) ([]models.UserResponse, error) {
	users, err := s.users.List(ctx, limit)
	if err != nil {
		return nil, err
	}
	responses := make([]models.UserResponse, 0, len(users))
	for _, user := range users {
		responses = append(responses, user.IntoResponse())
	}
	return responses, nil
}

func (s *userService) Get(ctx context.Context, id int64) (*models.UserResponse, error) {
	user, err := s.users.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := user.IntoResponse()
	return &response, nil
}

// Create is the admin path; unlike self-registration it may set any
// role.
func (s *userService) Create(ctx context.Context, reg models.UserRegistration, role models.Role) (int64, error) {
	exists, err := s.users.ExistsByNim(ctx, reg.Nim)
	if err != nil {
		return 0, err
	}
	if exists {
		return 0, apperr.BadRequest("user is already registered")
	}

	hashed, err := auth.HashPassword(reg.Password)
	if err != nil {
		return 0, apperr.Internal("hash password", err)
	}

	user := &models.User{
		UUID:     uuid.NewString(),
		Nim:      reg.Nim,
		Name:     reg.Nim,
		Password: hashed,
		Role:     role,
		Email:    &reg.Email,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return 0, err
	}
	return user.ID, nil
}

// Update lets a user edit their own profile and an admin edit anyone;
// role changes are admin-only in every case.
func (s *userService) Update(ctx context.Context, caller models.UserSession, targetID int64, update models.UserUpdate) error {
	if !caller.Role.IsAdmin() {
		if targetID != caller.ID {
			return apperr.Forbidden("you may only update your own profile")
		}
		if update.Role != nil {
			return apperr.Forbidden("changing roles requires admin access")
		}
	}

	if update.Password != nil {
		hashed, err := auth.HashPassword(*update.Password)
		if err != nil {
			return apperr.Internal("hash password", err)
		}
		update.Password = &hashed
	}

	return s.users.Update(ctx, targetID, update)
}

func (s *userService) Delete(ctx context.Context, id int64) error {
	return s.users.Delete(ctx, id)
}
