package users

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var (
	ErrUserNotFound      = errors.New("user not found")
	ErrUserAlreadyExists = errors.New("user already exists")
)

type Repository interface {
	Create(ctx context.Context, profile *Profile, roles ...Role) error
	GetByID(ctx context.Context, id uuid.UUID) (*Profile, error)
	GetByEmail(ctx context.Context, email string) (*Profile, error)
	EmailExists(ctx context.Context, email string) (bool, error)
	Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Profile, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error
	SetRoles(ctx context.Context, id uuid.UUID, roles []Role) error
	List(ctx context.Context, q ProfileListQuery) ([]Profile, int64, error)
	ListByRole(ctx context.Context, role Role) ([]Profile, error)
	Delete(ctx context.Context, id uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, profile *Profile, roles ...Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(profile).Error; err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return ErrUserAlreadyExists
			}
			return err
		}
		for _, role := range roles {
			ur := UserRole{UserID: profile.ID, Role: role}
			if err := tx.Create(&ur).Error; err != nil {
				return err
			}
			profile.Roles = append(profile.Roles, ur)
		}
		return nil
	})
}

func (r *repository) GetByID(ctx context.Context, id uuid.UUID) (*Profile, error) {
	var profile Profile
	err := r.db.WithContext(ctx).Preload("Roles").Where("id = ?", id).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *repository) GetByEmail(ctx context.Context, email string) (*Profile, error) {
	var profile Profile
	err := r.db.WithContext(ctx).Preload("Roles").Where("LOWER(email) = LOWER(?)", email).First(&profile).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}
	return &profile, nil
}

func (r *repository) EmailExists(ctx context.Context, email string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).Model(&Profile{}).Where("LOWER(email) = LOWER(?)", email).Count(&count).Error
	if err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *repository) Update(ctx context.Context, id uuid.UUID, updates map[string]interface{}) (*Profile, error) {
	result := r.db.WithContext(ctx).Model(&Profile{}).Where("id = ?", id).Updates(updates)
	if result.Error != nil {
		return nil, result.Error
	}
	if result.RowsAffected == 0 {
		return nil, ErrUserNotFound
	}
	return r.GetByID(ctx, id)
}

func (r *repository) UpdatePassword(ctx context.Context, id uuid.UUID, hash string) error {
	result := r.db.WithContext(ctx).Model(&Profile{}).
		Where("id = ?", id).
		Update("password_hash", hash)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return ErrUserNotFound
	}
	return nil
}

func (r *repository) SetRoles(ctx context.Context, id uuid.UUID, roles []Role) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&Profile{}).Where("id = ?", id).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			return ErrUserNotFound
		}
		if err := tx.Where("user_id = ?", id).Delete(&UserRole{}).Error; err != nil {
			return err
		}
		for _, role := range roles {
			if err := tx.Create(&UserRole{UserID: id, Role: role}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *repository) List(ctx context.Context, q ProfileListQuery) ([]Profile, int64, error) {
	var (
		profiles []Profile
		total    int64
	)

	db := r.db.WithContext(ctx).Model(&Profile{})
	if q.Search != "" {
		pattern := q.SearchPattern()
		db = db.Where("LOWER(full_name) LIKE ? OR LOWER(email) LIKE ?", pattern, pattern)
	}
	if q.Type != "" {
		db = db.Where("id IN (?)", r.db.Model(&UserRole{}).Select("user_id").Where("role = ?", q.Type))
	}

	if err := db.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	err := q.Paginate(db).Preload("Roles").Order("created_at DESC").Find(&profiles).Error
	return profiles, total, err
}

// ListByRole returns every profile holding role; an empty role means everyone
func (r *repository) ListByRole(ctx context.Context, role Role) ([]Profile, error) {
	var profiles []Profile
	db := r.db.WithContext(ctx).Model(&Profile{})
	if role != "" {
		db = db.Where("id IN (?)", r.db.Model(&UserRole{}).Select("user_id").Where("role = ?", role))
	}
	err := db.Select("id", "full_name", "email", "phone").Order("created_at").Find(&profiles).Error
	return profiles, err
}

func (r *repository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", id).Delete(&UserRole{}).Error; err != nil {
			return err
		}
		result := tx.Where("id = ?", id).Delete(&Profile{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrUserNotFound
		}
		return nil
	})
}
