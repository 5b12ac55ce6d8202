package service

import (
	"context"
	"database/sql"
	"errors"
	"log/slog"
	"strings"

	"hearthshare-backend/internal/domain"
	"hearthshare-backend/internal/logger"
	"hearthshare-backend/internal/repository"
	"hearthshare-backend/internal/security"
)

type authService struct {
	userRepo repository.UserRepository
	tokenMgr security.TokenManager
	log      *slog.Logger
}

func NewAuthService(userRepo repository.UserRepository, tokenMgr security.TokenManager) AuthService {
	return &authService{
		userRepo: userRepo,
		tokenMgr: tokenMgr,
		log:      logger.WithService("auth"),
	}
}

func (s *authService) Signup(ctx context.Context, name, email, password string) (*domain.User, string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	if name == "" || email == "" {
		return nil, "", "", domain.E(domain.KindValidationFailed, "name and email are required")
	}
	if len(password) < 8 {
		return nil, "", "", domain.E(domain.KindValidationFailed, "password must be at least 8 characters")
	}

	existing, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, "", "", domain.Wrap(domain.KindUnavailable, "user lookup failed", err)
	}
	if existing != nil {
		return nil, "", "", domain.E(domain.KindAlreadyExists, "an account with this email already exists")
	}

	hash, err := security.HashPassword(password)
	if err != nil {
		return nil, "", "", domain.Wrap(domain.KindUnavailable, "password hashing failed", err)
	}

	user := &domain.User{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
	}
	if err := s.userRepo.Create(ctx, user); err != nil {
		return nil, "", "", domain.Wrap(domain.KindUnavailable, "user creation failed", err)
	}

	access, refresh, err := s.issueTokens(user)
	if err != nil {
		return nil, "", "", err
	}

	s.log.Info("user signed up", "user_id", user.ID)
	return user, access, refresh, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, string, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", domain.E(domain.KindNotAuthenticated, "")
		}
		return "", "", domain.Wrap(domain.KindUnavailable, "user lookup failed", err)
	}
	if !security.CheckPassword(password, user.PasswordHash) {
		return "", "", domain.E(domain.KindNotAuthenticated, "")
	}
	if user.Banned {
		return "", "", domain.E(domain.KindInsufficientPermissions, "")
	}
	return s.issueTokens(user)
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	claims, err := s.tokenMgr.ValidateToken(refresh)
	if err != nil {
		return "", "", domain.E(domain.KindNotAuthenticated, "")
	}
	if claims.Type != security.TokenTypeRefresh {
		return "", "", domain.E(domain.KindNotAuthenticated, "")
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", "", domain.E(domain.KindNotAuthenticated, "")
		}
		return "", "", domain.Wrap(domain.KindUnavailable, "user lookup failed", err)
	}
	if user.Banned {
		return "", "", domain.E(domain.KindInsufficientPermissions, "")
	}
	return s.issueTokens(user)
}

func (s *authService) issueTokens(user *domain.User) (string, string, error) {
	access, err := s.tokenMgr.GenerateAccessToken(user.ID, user.Email)
	if err != nil {
		return "", "", domain.Wrap(domain.KindUnavailable, "token generation failed", err)
	}
	refresh, err := s.tokenMgr.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", domain.Wrap(domain.KindUnavailable, "token generation failed", err)
	}
	return access, refresh, nil
}
