package database

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/ahscorp/hiring-hive-platform/internal/model"
	"github.com/ahscorp/hiring-hive-platform/internal/utilities"
)

// UserByEmail finds a user by email, case-insensitively.
func (d *DBinstanceStruct) UserByEmail(ctx context.Context, email string) (model.User, error) {
	q, cancel := d.query(ctx)
	defer cancel()

	var user model.User
	err := q.Where("LOWER(email) = ?", strings.ToLower(strings.TrimSpace(email))).First(&user).Error
	return user, translate(err)
}

// CreateAdmin creates an admin user with the given email and plain password.
func (d *DBinstanceStruct) CreateAdmin(ctx context.Context, email, password string) (model.User, error) {
	hashed, err := utilities.HashPassword(password)
	if err != nil {
		return model.User{}, err
	}

	q, cancel := d.query(ctx)
	defer cancel()

	admin := model.User{
		ID:       uuid.New(),
		Email:    strings.ToLower(strings.TrimSpace(email)),
		Password: hashed,
		Role:     model.RoleAdmin,
	}
	if err := q.Create(&admin).Error; err != nil {
		return model.User{}, translate(err)
	}
	return admin, nil
}

// UserByID finds a user by id.
func (d *DBinstanceStruct) UserByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	q, cancel := d.query(ctx)
	defer cancel()

	var user model.User
	err := q.Where("id = ?", id).First(&user).Error
	return user, translate(err)
}
