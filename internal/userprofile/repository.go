package userprofile

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/ihost-app/ihost-backend/internal/auth"
)

var ErrUserNotFound = errors.New("user not found")

type Repository interface {
	GetUser(ctx context.Context, id uint) (*auth.User, error)
	UpdateUser(ctx context.Context, user *auth.User) error
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) GetUser(ctx context.Context, id uint) (*auth.User, error) {
	var user auth.User
	err := r.db.WithContext(ctx).First(&user, id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (r *repository) UpdateUser(ctx context.Context, user *auth.User) error {
	return r.db.WithContext(ctx).Save(user).Error
}
