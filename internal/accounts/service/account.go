package service

import (
	"context"
	"errors"
	"time"

	"github.com/alexedwards/argon2id"

	"github.com/kdrivas1989/tunnel-sessions/internal/accounts/auth"
	accountserrors "github.com/kdrivas1989/tunnel-sessions/internal/accounts/errors"
	"github.com/kdrivas1989/tunnel-sessions/internal/accounts/repository"
	apperrors "github.com/kdrivas1989/tunnel-sessions/pkg/errors"
	"github.com/kdrivas1989/tunnel-sessions/pkg/identity"
	"github.com/kdrivas1989/tunnel-sessions/pkg/logger"
	"github.com/kdrivas1989/tunnel-sessions/pkg/model"
	"github.com/kdrivas1989/tunnel-sessions/pkg/sanitizer"
)

// AccountService owns the admin, host, and user accounts. The booking
// engine never consults it; only the HTTP layer does.
type AccountService interface {
	BootstrapAdmin(ctx context.Context, username, password string) error
	LoginAdmin(ctx context.Context, username, password string) (string, error)
	ChangeAdminPassword(ctx context.Context, username, currentPassword, newPassword string) error

	CreateHost(ctx context.Context, email, password string) (*model.Host, error)
	LoginHost(ctx context.Context, email, password string) (string, error)
	DeleteHost(ctx context.Context, id string) error
	ListHosts(ctx context.Context) ([]*model.Host, error)

	RegisterUser(ctx context.Context, user *model.User, password string) error
	LoginUser(ctx context.Context, email, password string) (string, error)
	UpdatePermissions(ctx context.Context, userID string, permissions []string) error
	ToggleFavorite(ctx context.Context, userID, sessionID string) (bool, error)
	CanManage(ctx context.Context, claims *auth.Claims) bool
}

type accountService struct {
	repo   repository.AccountRepository
	tokens *auth.Tokens
	ids    identity.Generator
	log    *logger.Logger
}

func NewAccountService(repo repository.AccountRepository, tokens *auth.Tokens, ids identity.Generator, log *logger.Logger) AccountService {
	return &accountService{
		repo:   repo,
		tokens: tokens,
		ids:    ids,
		log:    log,
	}
}

func (s *accountService) translate(err error) error {
	switch {
	case errors.Is(err, accountserrors.ErrAdminNotFound):
		return apperrors.NotFound("Admin account")
	case errors.Is(err, accountserrors.ErrHostNotFound):
		return apperrors.NotFound("Host account")
	case errors.Is(err, accountserrors.ErrUserNotFound):
		return apperrors.NotFound("User account")
	case errors.Is(err, accountserrors.ErrEmailTaken):
		return apperrors.Conflict("Email is already registered")
	case errors.Is(err, accountserrors.ErrAdminAlreadyExists):
		return apperrors.Conflict("Admin account already exists")
	case errors.Is(err, accountserrors.ErrInvalidCredentials):
		return apperrors.Unauthorized("Invalid credentials")
	default:
		return apperrors.Internal("Account operation failed", err)
	}
}

func (s *accountService) hash(password string) (string, error) {
	if len(password) < 8 {
		return "", apperrors.InvalidInput("Password must be at least 8 characters")
	}
	hash, err := argon2id.CreateHash(password, argon2id.DefaultParams)
	if err != nil {
		return "", apperrors.Internal("Failed to hash password", err)
	}
	return hash, nil
}

func verify(password, hash string) error {
	match, err := argon2id.ComparePasswordAndHash(password, hash)
	if err != nil || !match {
		return accountserrors.ErrInvalidCredentials
	}
	return nil
}

func (s *accountService) BootstrapAdmin(ctx context.Context, username, password string) error {
	username = sanitizer.NormalizeName(username)
	if username == "" {
		return apperrors.InvalidInput("Username is required")
	}

	hash, err := s.hash(password)
	if err != nil {
		return err
	}

	admin := &model.Admin{
		Username:     username,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateAdmin(ctx, admin); err != nil {
		return s.translate(err)
	}

	s.log.Info("Admin account bootstrapped", "username", username)
	return nil
}

func (s *accountService) LoginAdmin(ctx context.Context, username, password string) (string, error) {
	admin, err := s.repo.GetAdmin(ctx)
	if err != nil {
		return "", s.translate(err)
	}
	if admin.Username != sanitizer.NormalizeName(username) {
		return "", s.translate(accountserrors.ErrInvalidCredentials)
	}
	if err := verify(password, admin.PasswordHash); err != nil {
		s.log.Warn("Admin login failed", "username", username)
		return "", s.translate(err)
	}

	token, err := s.tokens.NewAccessToken(admin.Username, "", auth.RoleAdmin)
	if err != nil {
		return "", apperrors.Internal("Failed to issue token", err)
	}
	s.log.Info("Admin logged in", "username", admin.Username)
	return token, nil
}

func (s *accountService) ChangeAdminPassword(ctx context.Context, username, currentPassword, newPassword string) error {
	admin, err := s.repo.GetAdmin(ctx)
	if err != nil {
		return s.translate(err)
	}
	if admin.Username != sanitizer.NormalizeName(username) {
		return s.translate(accountserrors.ErrInvalidCredentials)
	}
	if err := verify(currentPassword, admin.PasswordHash); err != nil {
		return s.translate(err)
	}

	hash, err := s.hash(newPassword)
	if err != nil {
		return err
	}
	if err := s.repo.UpdateAdminPassword(ctx, admin.Username, hash); err != nil {
		return s.translate(err)
	}

	s.log.Info("Admin password changed", "username", admin.Username)
	return nil
}

func (s *accountService) CreateHost(ctx context.Context, email, password string) (*model.Host, error) {
	email = sanitizer.NormalizeEmail(email)
	if email == "" {
		return nil, apperrors.InvalidInput("Email is required")
	}

	hash, err := s.hash(password)
	if err != nil {
		return nil, err
	}

	host := &model.Host{
		ID:           s.ids.NewID(),
		Email:        email,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := s.repo.CreateHost(ctx, host); err != nil {
		return nil, s.translate(err)
	}

	s.log.Info("Host account created", "host_id", host.ID, "email", email)
	return host, nil
}

func (s *accountService) LoginHost(ctx context.Context, email, password string) (string, error) {
	host, err := s.repo.FindHostByEmail(ctx, sanitizer.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, accountserrors.ErrHostNotFound) {
			return "", s.translate(accountserrors.ErrInvalidCredentials)
		}
		return "", s.translate(err)
	}
	if err := verify(password, host.PasswordHash); err != nil {
		s.log.Warn("Host login failed", "email", email)
		return "", s.translate(err)
	}

	token, err := s.tokens.NewAccessToken(host.ID, host.Email, auth.RoleHost)
	if err != nil {
		return "", apperrors.Internal("Failed to issue token", err)
	}
	s.log.Info("Host logged in", "host_id", host.ID)
	return token, nil
}

func (s *accountService) DeleteHost(ctx context.Context, id string) error {
	if id == "" {
		return apperrors.InvalidInput("Host ID cannot be empty")
	}
	if err := s.repo.DeleteHost(ctx, id); err != nil {
		return s.translate(err)
	}
	s.log.Info("Host account deleted", "host_id", id)
	return nil
}

func (s *accountService) ListHosts(ctx context.Context) ([]*model.Host, error) {
	hosts, err := s.repo.ListHosts(ctx)
	if err != nil {
		return nil, s.translate(err)
	}
	return hosts, nil
}

func (s *accountService) RegisterUser(ctx context.Context, user *model.User, password string) error {
	user.FirstName = sanitizer.NormalizeName(user.FirstName)
	user.LastName = sanitizer.NormalizeName(user.LastName)
	user.Email = sanitizer.NormalizeEmail(user.Email)
	if user.FirstName == "" || user.LastName == "" || user.Email == "" {
		return apperrors.InvalidInput("First name, last name, and email are required")
	}

	hash, err := s.hash(password)
	if err != nil {
		return err
	}

	user.ID = s.ids.NewID()
	user.PasswordHash = hash
	user.Permissions = []string{}
	user.CreatedAt = time.Now().UTC()

	if err := s.repo.CreateUser(ctx, user); err != nil {
		return s.translate(err)
	}

	s.log.Info("User registered", "user_id", user.ID, "email", user.Email)
	return nil
}

func (s *accountService) LoginUser(ctx context.Context, email, password string) (string, error) {
	user, err := s.repo.FindUserByEmail(ctx, sanitizer.NormalizeEmail(email))
	if err != nil {
		if errors.Is(err, accountserrors.ErrUserNotFound) {
			return "", s.translate(accountserrors.ErrInvalidCredentials)
		}
		return "", s.translate(err)
	}
	if err := verify(password, user.PasswordHash); err != nil {
		s.log.Warn("User login failed", "email", email)
		return "", s.translate(err)
	}

	token, err := s.tokens.NewAccessToken(user.ID, user.Email, auth.RoleUser)
	if err != nil {
		return "", apperrors.Internal("Failed to issue token", err)
	}
	s.log.Info("User logged in", "user_id", user.ID)
	return token, nil
}

func (s *accountService) UpdatePermissions(ctx context.Context, userID string, permissions []string) error {
	if userID == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}
	if permissions == nil {
		permissions = []string{}
	}
	if err := s.repo.UpdateUserPermissions(ctx, userID, permissions); err != nil {
		return s.translate(err)
	}
	s.log.Info("User permissions updated", "user_id", userID, "permissions", permissions)
	return nil
}

func (s *accountService) ToggleFavorite(ctx context.Context, userID, sessionID string) (bool, error) {
	if userID == "" || sessionID == "" {
		return false, apperrors.InvalidInput("User ID and session ID are required")
	}
	favorited, err := s.repo.ToggleFavorite(ctx, userID, sessionID)
	if err != nil {
		return false, s.translate(err)
	}
	s.log.Info("Favorite toggled", "user_id", userID, "session_id", sessionID, "favorited", favorited)
	return favorited, nil
}

// CanManage reports whether the caller may run host-only session
// operations: admins and hosts always, users only with the secretary
// permission.
func (s *accountService) CanManage(ctx context.Context, claims *auth.Claims) bool {
	if claims == nil {
		return false
	}
	switch claims.Role {
	case auth.RoleAdmin, auth.RoleHost:
		return true
	case auth.RoleUser:
		user, err := s.repo.FindUserByID(ctx, claims.Subject)
		if err != nil {
			return false
		}
		return user.HasPermission(model.PermissionSecretary)
	default:
		return false
	}
}
