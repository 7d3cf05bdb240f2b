package services

import (
	"context"
	"errors"
	"strings"

	"shop-api/models"
	"shop-api/repositories"
	"shop-api/utils"

	"go.uber.org/zap"
)

type AuthService struct {
	users  repositories.UserStore
	tokens *utils.JWTManager
}

func NewAuthService(users repositories.UserStore, tokens *utils.JWTManager) *AuthService {
	return &AuthService{users: users, tokens: tokens}
}

// Register creates an account. The staff flag is honored only when the
// caller is already staff.
func (s *AuthService) Register(ctx context.Context, caller *models.Principal, req models.RegisterRequest) (*models.User, error) {
	hashedPassword, err := utils.HashPassword(req.Password)
	if err != nil {
		return nil, internalFault("hash password", err)
	}

	user := &models.User{
		Username: strings.TrimSpace(req.Username),
		Email:    strings.ToLower(strings.TrimSpace(req.Email)),
		Password: hashedPassword,
		IsStaff:  req.IsStaff && caller != nil && caller.IsStaff,
	}

	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, repositories.ErrConflict) {
			return nil, validationError("username", "username or email already registered")
		}
		return nil, internalFault("create user", err)
	}

	zap.L().Info("user registered", zap.Int("user_id", user.ID), zap.Bool("is_staff", user.IsStaff))
	return user, nil
}

func (s *AuthService) Login(ctx context.Context, req models.LoginRequest) (*models.LoginResponse, error) {
	user, err := s.users.FindUserByUsername(ctx, req.Username)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, validationError("username", "invalid username or password")
		}
		return nil, internalFault("find user", err)
	}

	valid, err := utils.VerifyPassword(user.Password, req.Password)
	if err != nil || !valid {
		return nil, validationError("password", "invalid username or password")
	}

	token, err := s.tokens.GenerateToken(user.ID, user.Username, user.IsStaff)
	if err != nil {
		return nil, internalFault("generate token", err)
	}

	return &models.LoginResponse{
		Token:   token,
		IsStaff: user.IsStaff,
		User:    *user,
	}, nil
}

func (s *AuthService) Me(ctx context.Context, principal models.Principal) (*models.User, error) {
	user, err := s.users.FindUserByID(ctx, principal.UserID)
	if err != nil {
		if errors.Is(err, repositories.ErrNotFound) {
			return nil, notFound("User not found")
		}
		return nil, internalFault("find user", err)
	}
	return user, nil
}

func (s *AuthService) EmailRegistered(ctx context.Context, email string) (bool, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if email == "" {
		return false, validationError("email", "Email is required")
	}

	exists, err := s.users.EmailExists(ctx, email)
	if err != nil {
		return false, internalFault("check email", err)
	}
	return exists, nil
}

func (s *AuthService) ValidateToken(token string) (*models.Principal, error) {
	claims, err := s.tokens.ValidateToken(token)
	if err != nil {
		return nil, err
	}
	return &models.Principal{
		UserID:   claims.UserID,
		Username: claims.Username,
		IsStaff:  claims.IsStaff,
	}, nil
}

// EnsureStaffUser creates the bootstrap staff account unless the username is taken.
func (s *AuthService) EnsureStaffUser(ctx context.Context, username, email, password string) error {
	if _, err := s.users.FindUserByUsername(ctx, username); err == nil {
		return nil
	} else if !errors.Is(err, repositories.ErrNotFound) {
		return err
	}

	staff := &models.Principal{IsStaff: true}
	_, err := s.Register(ctx, staff, models.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
		IsStaff:  true,
	})
	return err
}
