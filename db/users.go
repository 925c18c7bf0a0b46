package db

import (
	"bitwise74/files-manager/internal/model"
	"context"
	"fmt"
)

func (s *Store) FindUser(ctx context.Context, id string) (*model.User, error) {
	var user model.User

	if err := s.DB.WithContext(ctx).Where("id = ?", id).First(&user).Error; err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

func (s *Store) FindUserByEmail(ctx context.Context, email string) (*model.User, error) {
	var user model.User

	if err := s.DB.WithContext(ctx).Where("email = ?", email).First(&user).Error; err != nil {
		return nil, translate(err)
	}

	return &user, nil
}

// InsertUser returns ErrDuplicate when the email is already registered
func (s *Store) InsertUser(ctx context.Context, user *model.User) error {
	if err := s.DB.WithContext(ctx).Create(user).Error; err != nil {
		err = translate(err)
		if err == ErrDuplicate {
			return err
		}

		return fmt.Errorf("failed to insert user, %w", err)
	}

	return nil
}

func (s *Store) CountUsers(ctx context.Context) (int64, error) {
	var n int64
	if err := s.DB.WithContext(ctx).Model(model.User{}).Count(&n).Error; err != nil {
		return 0, fmt.Errorf("failed to count users, %w", err)
	}

	return n, nil
}
