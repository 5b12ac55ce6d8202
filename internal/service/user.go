package service

import (
	"context"
	"database/sql"
	"errors"

	"hearthshare-backend/internal/domain"
	"hearthshare-backend/internal/repository"
)

type userService struct {
	userRepo   repository.UserRepository
	memberRepo repository.MemberRepository
}

func NewUserService(userRepo repository.UserRepository, memberRepo repository.MemberRepository) UserService {
	return &userService{userRepo: userRepo, memberRepo: memberRepo}
}

func (s *userService) GetProfile(ctx context.Context, userID int32) (*domain.User, *domain.Member, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil, domain.E(domain.KindNotFound, "user not found")
		}
		return nil, nil, domain.Wrap(domain.KindUnavailable, "user lookup failed", err)
	}

	member, err := s.memberRepo.GetActiveByUser(ctx, userID)
	if err != nil && !errors.Is(err, sql.ErrNoRows) {
		return nil, nil, domain.Wrap(domain.KindUnavailable, "membership lookup failed", err)
	}
	return user, member, nil
}

func (s *userService) UpdateProfile(ctx context.Context, userID int32, name, phone, avatarURL string) error {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return domain.E(domain.KindNotFound, "user not found")
		}
		return domain.Wrap(domain.KindUnavailable, "user lookup failed", err)
	}

	if name != "" {
		user.Name = name
	}
	if phone != "" && phone != user.PhoneNumber {
		user.PhoneNumber = phone
		user.PhoneVerified = false
	}
	if avatarURL != "" {
		user.AvatarURL = avatarURL
	}

	if err := s.userRepo.Update(ctx, user); err != nil {
		return domain.Wrap(domain.KindUnavailable, "user update failed", err)
	}
	return nil
}
