// Package users provides database operations for user management.
//
// Passwords arrive already hashed; see internal/auth for the hashing side.
//
// # Usage
//
//	repo := users.NewRepository(db)
//	user, err := repo.CreateUser(users.NewUser{Email: "reader@example.com", PasswordHash: hash})
//	user, err = repo.GetUserByEmail("reader@example.com")
package users

import (
	"net/mail"
	"strings"

	"gorm.io/gorm"

	"github.com/mrlokans/bookshelf/internal/apperrors"
	"github.com/mrlokans/bookshelf/internal/database"
	"github.com/mrlokans/bookshelf/internal/entities"
	"github.com/mrlokans/bookshelf/internal/pagination"
)

// NewUser carries the fields needed to create a user. DisplayName
// defaults to the local part of Email and Role defaults to USER.
type NewUser struct {
	Email        string
	PasswordHash string
	DisplayName  string
	Role         entities.UserRole
}

// UserUpdate replaces a user's email and display name. An empty
// PasswordHash keeps the current password.
type UserUpdate struct {
	Email        string
	PasswordHash string
	DisplayName  string
}

// Repository handles all user database operations.
type Repository struct {
	db *gorm.DB
}

// NewRepository creates a new users repository.
func NewRepository(db *gorm.DB) *Repository {
	return &Repository{db: db}
}

// CreateUser creates a new user. The email must not be registered yet.
func (r *Repository) CreateUser(in NewUser) (*entities.User, error) {
	email, err := cleanEmail(in.Email)
	if err != nil {
		return nil, err
	}
	if in.PasswordHash == "" {
		return nil, apperrors.Validation("password", nil, "must not be empty")
	}

	role := in.Role
	if role == "" {
		role = entities.UserRoleUser
	}
	if role != entities.UserRoleUser && role != entities.UserRoleAdmin {
		return nil, apperrors.Validation("role", role, "must be USER or ADMIN")
	}

	user := &entities.User{
		Email:        email,
		PasswordHash: in.PasswordHash,
		DisplayName:  displayName(in.DisplayName, email),
		Role:         role,
	}

	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := ensureEmailFree(tx, email, 0); err != nil {
			return err
		}
		return tx.Create(user).Error
	})
	if err != nil {
		return nil, database.ClassifyError("create user", "user", err)
	}
	return user, nil
}

// GetUserByID retrieves a user by ID.
func (r *Repository) GetUserByID(id uint) (*entities.User, error) {
	var user entities.User
	err := r.db.First(&user, id).Error
	if database.IsRecordNotFound(err) {
		return nil, apperrors.NotFound("user", id)
	}
	if err != nil {
		return nil, apperrors.Store("get user", err)
	}
	return &user, nil
}

// GetUserByEmail retrieves a user by email address.
func (r *Repository) GetUserByEmail(email string) (*entities.User, error) {
	email = strings.TrimSpace(email)

	var user entities.User
	err := r.db.Where("email = ?", email).First(&user).Error
	if database.IsRecordNotFound(err) {
		return nil, apperrors.NotFound("user", email)
	}
	if err != nil {
		return nil, apperrors.Store("get user by email", err)
	}
	return &user, nil
}

// ListUsers returns users in id order.
func (r *Repository) ListUsers(params pagination.Params) ([]entities.User, error) {
	users := []entities.User{}
	if params.Limit == 0 {
		return users, nil
	}
	err := r.db.Order("id ASC").Offset(params.Skip).Limit(params.Limit).Find(&users).Error
	if err != nil {
		return nil, apperrors.Store("list users", err)
	}
	return users, nil
}

// CountUsers returns the total number of users.
func (r *Repository) CountUsers() (int64, error) {
	var count int64
	if err := r.db.Model(&entities.User{}).Count(&count).Error; err != nil {
		return 0, apperrors.Store("count users", err)
	}
	return count, nil
}

// UpdateUser replaces the user's email, display name and, when given,
// password hash. Moving to an email held by another user is a conflict.
func (r *Repository) UpdateUser(id uint, in UserUpdate) (*entities.User, error) {
	email, err := cleanEmail(in.Email)
	if err != nil {
		return nil, err
	}

	var user entities.User
	err = r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&user, id).Error; err != nil {
			if database.IsRecordNotFound(err) {
				return apperrors.NotFound("user", id)
			}
			return err
		}
		if email != user.Email {
			if err := ensureEmailFree(tx, email, id); err != nil {
				return err
			}
		}

		user.Email = email
		user.DisplayName = displayName(in.DisplayName, email)
		if in.PasswordHash != "" {
			user.PasswordHash = in.PasswordHash
		}
		return tx.Save(&user).Error
	})
	if err != nil {
		return nil, database.ClassifyError("update user", "user", err)
	}
	return &user, nil
}

// DeleteUser deletes a user without reading-list entries.
func (r *Repository) DeleteUser(id uint) error {
	err := r.db.Transaction(func(tx *gorm.DB) error {
		var user entities.User
		if err := tx.First(&user, id).Error; err != nil {
			if database.IsRecordNotFound(err) {
				return apperrors.NotFound("user", id)
			}
			return err
		}

		var entries int64
		if err := tx.Model(&entities.ReadingListEntry{}).Where("user_id = ?", id).Count(&entries).Error; err != nil {
			return err
		}
		if entries > 0 {
			return apperrors.Blocked("user", entries, "reading list items")
		}

		return tx.Delete(&user).Error
	})
	return database.ClassifyError("delete user", "user", err)
}

func ensureEmailFree(tx *gorm.DB, email string, exceptID uint) error {
	var count int64
	q := tx.Model(&entities.User{}).Where("email = ?", email)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return apperrors.Duplicate("user", "email", email)
	}
	return nil
}

func cleanEmail(email string) (string, error) {
	email = strings.TrimSpace(email)
	if email == "" {
		return "", apperrors.Validation("email", nil, "must not be empty")
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email {
		return "", apperrors.Validation("email", email, "is not a valid address")
	}
	return email, nil
}

func displayName(given, email string) string {
	if name := strings.TrimSpace(given); name != "" {
		return name
	}
	return entities.DefaultDisplayName(email)
}
