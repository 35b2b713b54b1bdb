package service

import (
	"context"
	"log"
	"strings"
	"time"

	"github.com/google/uuid"

	"dynotest/internal/apperr"
	"dynotest/internal/auth"
	"dynotest/internal/models"
	"dynotest/internal/repository"
	"dynotest/internal/state"
)

// desktopAgentMark identifies the rig's desktop application. A login
// from it claims the shared active-session slot; its logout releases
// the slot and records a usage-history row.
const desktopAgentMark = "Dyno/Desktop"

type LoginResult struct {
	Token string              `json:"token"`
	User  models.UserResponse `json:"user"`
}

type AuthService interface {
	Register(ctx context.Context, reg models.UserRegistration) (int64, error)
	Login(ctx context.Context, login models.UserLogin, userAgent string) (*LoginResult, error)
	Logout(ctx context.Context, session models.UserSession, userAgent string) error
	Me(ctx context.Context, session models.UserSession) (*models.UserResponse, error)
}

type authService struct {
	users     repository.UserRepository
	histories repository.HistoryRepository
	tokens    *auth.Tokens
	active    *state.ActiveSession
}

func NewAuthService(
	users repository.UserRepository,
	histories repository.HistoryRepository,
	tokens *auth.Tokens,
	active *state.ActiveSession,
) AuthService {
	return &authService{
		users:     users,
		histories: histories,
		tokens:    tokens,
		active:    active,
	}
}

// Register creates a regular user account. Self-registration never
// grants admin; elevated accounts are created by an admin through the
// user endpoints.
func (s *authService) Register(ctx context.Context, reg models.UserRegistration) (int64, error) {
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
		Role:     models.RoleUser,
		Email:    &reg.Email,
	}
	if err := s.users.Create(ctx, user); err != nil {
		return 0, err
	}
	return user.ID, nil
}

func (s *authService) Login(ctx context.Context, login models.UserLogin, userAgent string) (*LoginResult, error) {
	user, err := s.users.FindByNim(ctx, login.Nim)
	if apperr.IsKind(err, apperr.KindNotFound) {
		// Same answer as a wrong password; no account probing.
		return nil, apperr.Unauthorized("invalid credentials")
	}
	if err != nil {
		return nil, err
	}
	if !auth.VerifyPassword(user.Password, login.Password) {
		return nil, apperr.Unauthorized("invalid credentials")
	}

	session := models.UserSession{ID: user.ID, UUID: user.UUID, Role: user.Role}
	token, err := s.tokens.Issue(session, 0)
	if err != nil {
		return nil, apperr.Internal("issue session token", err)
	}

	if strings.Contains(userAgent, desktopAgentMark) {
		s.active.Set(&state.ActiveTest{User: session, StartedAt: time.Now()})
	}

	return &LoginResult{Token: token, User: user.IntoResponse()}, nil
}

// Logout is client-side cookie clearing plus best-effort bookkeeping;
// the token itself stays valid until it expires.
func (s *authService) Logout(ctx context.Context, session models.UserSession, userAgent string) error {
	if !strings.Contains(userAgent, desktopAgentMark) {
		return nil
	}
	duration, held := s.active.Clear(session.ID)
	if !held {
		return nil
	}
	history := &models.History{
		UserID:   session.ID,
		UserUUID: session.UUID,
		Duration: duration,
	}
	if err := s.histories.Create(ctx, history); err != nil {
		log.Printf("Failed to record usage history at logout: %v", err)
	}
	return nil
}

func (s *authService) Me(ctx context.Context, session models.UserSession) (*models.UserResponse, error) {
	user, err := s.users.FindByID(ctx, session.ID)
	if err != nil {
		return nil, err
	}
	response := user.IntoResponse()
	return &response, nil
}
