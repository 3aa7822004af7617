package repository

import (
	"context"
	"time"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"campus-preorder/internal/model"
)

type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*model.Profile, error)
	GetRole(ctx context.Context, userID string) (model.Role, error)
	Upsert(ctx context.Context, profile *model.Profile) error
	SetRole(ctx context.Context, userID string, role model.Role) error
}

type profileRepoImpl struct {
	db *gorm.DB
}

func NewProfileRepository(db *gorm.DB) ProfileRepository {
	return &profileRepoImpl{
		db: db,
	}
}

func (r *profileRepoImpl) Get(ctx context.Context, userID string) (*model.Profile, error) {
	var profile model.Profile
	err := r.db.WithContext(ctx).
		Where("id = ?", userID).
		First(&profile).Error

	if err != nil {
		return nil, err
	}

	return &profile, nil
}

func (r *profileRepoImpl) GetRole(ctx context.Context, userID string) (model.Role, error) {
	var roles []string
	err := r.db.WithContext(ctx).
		Model(&model.Profile{}).
		Where("id = ?", userID).
		Limit(1).
		Pluck("role", &roles).
		Error

	if err != nil {
		return "", err
	}
	if len(roles) == 0 {
		return "", gorm.ErrRecordNotFound
	}

	return model.Role(roles[0]), nil
}

func (r *profileRepoImpl) Upsert(ctx context.Context, profile *model.Profile) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"full_name":  profile.FullName,
			"updated_at": time.Now(),
		}),
	}).Create(profile).Error
}

func (r *profileRepoImpl) SetRole(ctx context.Context, userID string, role model.Role) error {
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"role":       role,
			"updated_at": time.Now(),
		}),
	}).Create(&model.Profile{ID: userID, Role: role}).Error
}
