package repository

import (
	"errors"
	"fmt"

	"gorm.io/gorm"

	"seoulholic-bot/internal/model"
)

// UserRepository stores clinic staff accounts.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(user *model.User) error {
	if err := r.db.Create(user).Error; err != nil {
		return fmt.Errorf("create staff account failed: %w", err)
	}
	return nil
}

// Count reports how many staff accounts exist. The first account registered
// on a fresh deployment is promoted to admin.
func (r *UserRepository) Count() (int64, error) {
	var n int64
	if err := r.db.Model(&model.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("count staff accounts failed: %w", err)
	}
	return n, nil
}

func (r *UserRepository) GetByUsername(username string) (*model.User, error) {
	return r.getOne("username = ?", username)
}

func (r *UserRepository) GetByEmail(email string) (*model.User, error) {
	return r.getOne("email = ?", email)
}

func (r *UserRepository) GetByID(id uint) (*model.User, error) {
	return r.getOne("id = ?", id)
}

func (r *UserRepository) getOne(query string, arg interface{}) (*model.User, error) {
	var user model.User
	if err := r.db.Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("query staff account failed: %w", err)
	}
	return &user, nil
}
