package repositories

import (
	"context"
	"errors"
	"fmt"

	"userhub/internal/database"
	"userhub/internal/models"

	"gorm.io/gorm"
)

// GORMUserProvider is a GORM implementation of UserProvider. It reads through
// the pool and never holds a connection between calls.
type GORMUserProvider struct {
	db *gorm.DB
}

// NewGORMUserProvider creates a new instance of GORMUserProvider.
func NewGORMUserProvider(db *gorm.DB) *GORMUserProvider {
	return &GORMUserProvider{
		db: db,
	}
}

// EmailCheck returns the users registered with email.
func (r *GORMUserProvider) EmailCheck(ctx context.Context, email string) ([]EmailRow, error) {
	var rows []EmailRow
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("email", "nickname").
		Where("email = ?", email).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check email %s: %w", email, err)
	}
	return rows, nil
}

// PasswordCheck returns the users matching both email and password hash.
func (r *GORMUserProvider) PasswordCheck(ctx context.Context, email, hashedPassword string) ([]PasswordRow, error) {
	var rows []PasswordRow
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("email", "nickname", "password").
		Where("email = ? AND password = ?", email, hashedPassword).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check password for %s: %w", email, err)
	}
	return rows, nil
}

// AccountCheck returns the status of the accounts registered with email.
func (r *GORMUserProvider) AccountCheck(ctx context.Context, email string) ([]AccountRow, error) {
	var rows []AccountRow
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("idx", "email", "nickname", "status").
		Where("email = ?", email).
		Order("idx").
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("failed to check account %s: %w", email, err)
	}
	return rows, nil
}

// RetrieveUser retrieves the public profile of a user by idx.
func (r *GORMUserProvider) RetrieveUser(ctx context.Context, id int64) (*ProfileRow, error) {
	var row ProfileRow
	err := r.db.WithContext(ctx).Model(&models.User{}).
		Select("idx", "email", "nickname", "status").
		Where("idx = ?", id).
		Take(&row).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get user by idx %d: %w", id, err)
	}
	return &row, nil
}

// GORMUserDao is a GORM implementation of UserDao.
type GORMUserDao struct{}

// NewGORMUserDao creates a new instance of GORMUserDao.
func NewGORMUserDao() *GORMUserDao {
	return &GORMUserDao{}
}

// InsertUserInfo inserts a user row and returns its generated idx.
func (d *GORMUserDao) InsertUserInfo(ctx context.Context, conn database.Conn, params InsertUserInfoParams) (int64, error) {
	user := &models.User{
		Email:    params.Email,
		Password: params.Password,
		Nickname: params.Nickname,
	}
	if err := conn.Handle().WithContext(ctx).Create(user).Error; err != nil {
		return 0, fmt.Errorf("failed to create user: %w", err)
	}
	return user.Idx, nil
}

// UpdateUserInfo sets the nickname of the user with the given idx.
// Updating an idx that does not exist is not an error.
func (d *GORMUserDao) UpdateUserInfo(ctx context.Context, conn database.Conn, id int64, nickname string) error {
	res := conn.Handle().WithContext(ctx).Model(&models.User{}).
		Where("idx = ?", id).
		Update("nickname", nickname)
	if res.Error != nil {
		return fmt.Errorf("failed to update user %d: %w", id, res.Error)
	}
	return nil
}
