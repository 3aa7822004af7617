package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"campus-preorder/internal/model"
	"campus-preorder/internal/repository"
)

type UserService interface {
	// Me returns the caller's profile, creating a student profile on first use.
	Me(ctx context.Context, userID string) (*model.Profile, error)
	UpdateName(ctx context.Context, userID, fullName string) (*model.Profile, error)
	// Role is used by the auth middleware when the token carries no role.
	Role(ctx context.Context, userID string) (model.Role, error)
}

type userServiceImpl struct {
	profileRepo repository.ProfileRepository
}

func NewUserService(
	profileRepo repository.ProfileRepository,
) UserService {
	return &userServiceImpl{
		profileRepo: profileRepo,
	}
}

func (s *userServiceImpl) Me(ctx context.Context, userID string) (*model.Profile, error) {
	profile, err := s.profileRepo.Get(ctx, userID)
	if err == nil {
		return profile, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("get profile: %w", err)
	}

	profile = &model.Profile{ID: userID, Role: model.RoleStudent}
	if err := s.profileRepo.Upsert(ctx, profile); err != nil {
		return nil, fmt.Errorf("create profile: %w", err)
	}
	return s.profileRepo.Get(ctx, userID)
}

func (s *userServiceImpl) UpdateName(ctx context.Context, userID, fullName string) (*model.Profile, error) {
	fullName = strings.TrimSpace(fullName)
	if fullName == "" {
		return nil, invalid("full name is required")
	}

	if _, err := s.Me(ctx, userID); err != nil {
		return nil, err
	}
	if err := s.profileRepo.Upsert(ctx, &model.Profile{ID: userID, FullName: fullName}); err != nil {
		return nil, fmt.Errorf("update profile: %w", err)
	}
	return s.profileRepo.Get(ctx, userID)
}

// Role treats a user without a profile as a student.
func (s *userServiceImpl) Role(ctx context.Context, userID string) (model.Role, error) {
	role, err := s.profileRepo.GetRole(ctx, userID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return model.RoleStudent, nil
	}
	if err != nil {
		return "", fmt.Errorf("get role: %w", err)
	}
	return role, nil
}
