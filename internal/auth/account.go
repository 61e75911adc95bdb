package auth

import (
	"context"
	"errors"

	"project-crm-api/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// ErrInvalidCredentials is returned for an unknown user or wrong password
var ErrInvalidCredentials = errors.New("invalid username or password")

// EnsureAccount creates the shared account when no user with that name exists.
// An existing account keeps its password.
func EnsureAccount(ctx context.Context, db *gorm.DB, username, password string, log *zap.Logger) error {
	var existing models.AppUser
	err := db.WithContext(ctx).Where("username = ?", username).First(&existing).Error
	if err == nil {
		return nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return err
	}

	hash, err := HashPassword(password)
	if err != nil {
		return err
	}
	user := models.AppUser{ID: uuid.NewString(), Username: username, PasswordHash: hash}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return err
	}
	log.Info("shared account created", zap.String("username", username))
	return nil
}

// Authenticate checks credentials against app_users
func Authenticate(ctx context.Context, db *gorm.DB, username, password string) (*models.AppUser, error) {
	var user models.AppUser
	if err := db.WithContext(ctx).Where("username = ?", username).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidCredentials
		}
		return nil, err
	}
	if !CheckPassword(user.PasswordHash, password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}
