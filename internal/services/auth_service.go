package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"fintrack/internal/auth"
	"fintrack/internal/core"
	"fintrack/internal/log"
	"fintrack/internal/store"
)

var (
	ErrUserExists    = errors.New("user already exists")
	ErrWrongPassword = errors.New("current password is incorrect")
	ErrEmailInUse    = errors.New("email already in use")
)

// Session is returned by Register and Login.
type Session struct {
	Token string
	User  core.User
}

// AuthService registers users, checks credentials and manages profiles.
type AuthService struct {
	users  store.UserStore
	hasher *auth.Hasher
	issuer *auth.Issuer
	logger *log.Logger
}

func NewAuthService(users store.UserStore, hasher *auth.Hasher, issuer *auth.Issuer, logger *log.Logger) *AuthService {
	return &AuthService{
		users:  users,
		hasher: hasher,
		issuer: issuer,
		logger: logger.WithComponent(log.ComponentAuth),
	}
}

func (s *AuthService) Register(ctx context.Context, name, email, password string) (Session, error) {
	name = strings.TrimSpace(name)
	email = core.NormalizeEmail(email)
	if err := core.ValidateProfile(name, email); err != nil {
		return Session{}, err
	}
	if err := core.ValidatePassword(password); err != nil {
		return Session{}, err
	}

	hash, err := s.hasher.Hash(password)
	if err != nil {
		return Session{}, err
	}
	u, err := s.users.CreateUser(ctx, core.User{Name: name, Email: email, PasswordHash: hash})
	if errors.Is(err, store.ErrDuplicate) {
		return Session{}, ErrUserExists
	}
	if err != nil {
		return Session{}, fmt.Errorf("create user: %w", err)
	}

	s.logger.InfoContext(ctx, "User registered", log.FieldUserID, u.ID)
	return s.session(u)
}

// Login returns auth.ErrInvalidCredentials for an unknown email or a wrong password.
func (s *AuthService) Login(ctx context.Context, email, password string) (Session, error) {
	u, err := s.users.GetUserByEmail(ctx, core.NormalizeEmail(email))
	if errors.Is(err, store.ErrNotFound) {
		return Session{}, auth.ErrInvalidCredentials
	}
	if err != nil {
		return Session{}, fmt.Errorf("get user: %w", err)
	}
	if err := s.hasher.Compare(u.PasswordHash, password); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			s.logger.WarnContext(ctx, "Failed login attempt", log.FieldUserID, u.ID, log.FieldOperation, log.OpLogin)
		}
		return Session{}, err
	}
	return s.session(u)
}

func (s *AuthService) session(u core.User) (Session, error) {
	token, err := s.issuer.Generate(u.ID, u.Email)
	if err != nil {
		return Session{}, err
	}
	return Session{Token: token, User: u}, nil
}

func (s *AuthService) Profile(ctx context.Context, userID string) (core.User, error) {
	u, err := s.users.GetUser(ctx, userID)
	if err != nil {
		return core.User{}, fmt.Errorf("get user: %w", err)
	}
	return u, nil
}

func (s *AuthService) UpdateProfile(ctx context.Context, userID, name, email string) (core.User, error) {
	name = strings.TrimSpace(name)
	email = core.NormalizeEmail(email)
	if err := core.ValidateProfile(name, email); err != nil {
		return core.User{}, err
	}
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return core.User{}, err
	}
	u.Name, u.Email = name, email
	updated, err := s.users.UpdateUser(ctx, u)
	if errors.Is(err, store.ErrDuplicate) {
		return core.User{}, ErrEmailInUse
	}
	if err != nil {
		return core.User{}, fmt.Errorf("update user: %w", err)
	}
	return updated, nil
}

func (s *AuthService) ChangePassword(ctx context.Context, userID, current, next string) error {
	if err := core.ValidatePassword(next); err != nil {
		return err
	}
	u, err := s.Profile(ctx, userID)
	if err != nil {
		return err
	}
	if err := s.hasher.Compare(u.PasswordHash, current); err != nil {
		if errors.Is(err, auth.ErrInvalidCredentials) {
			return ErrWrongPassword
		}
		return err
	}

	hash, err := s.hasher.Hash(next)
	if err != nil {
		return err
	}
	u.PasswordHash = hash
	if _, err := s.users.UpdateUser(ctx, u); err != nil {
		return fmt.Errorf("update password: %w", err)
	}
	s.logger.InfoContext(ctx, "Password changed", log.FieldUserID, userID)
	return nil
}
