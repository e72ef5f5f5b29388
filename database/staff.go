package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"contactus-backend/models"
)

// ErrStaffNotFound is returned when no staff user has the given email.
var ErrStaffNotFound = errors.New("staff user not found")

func FindStaffByEmail(ctx context.Context, db *gorm.DB, email string) (*models.StaffUser, error) {
	var user models.StaffUser
	err := db.WithContext(ctx).Where("email = ?", normalizeEmail(email)).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrStaffNotFound
	}
	if err != nil {
		return nil, &StorageError{Op: "find staff", Err: err}
	}
	return &user, nil
}

// CreateStaffUser stores a new staff account with a bcrypt-hashed password.
func CreateStaffUser(ctx context.Context, db *gorm.DB, name, email, password string) (*models.StaffUser, error) {
	if strings.TrimSpace(password) == "" {
		return nil, errors.New("password must not be empty")
	}
	user := models.StaffUser{
		Name:  strings.TrimSpace(name),
		Email: normalizeEmail(email),
	}
	if err := user.SetPassword(password); err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}
	if err := db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, &StorageError{Op: "create staff", Err: err}
	}
	return &user, nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
