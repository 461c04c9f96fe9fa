package repository

import (
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

var ErrEmailTaken = errors.New("email already registered")

type userRecord struct {
	ID           string `gorm:"primaryKey"`
	Email        string `gorm:"uniqueIndex;not null"`
	PasswordHash string `gorm:"not null"`
	CreatedAt    time.Time
}

func (userRecord) TableName() string { return "users" }

type User struct {
	ID        string
	Email     string
	Hash      string
	CreatedAt time.Time
}

func (r *Repository) CreateUser(email, passwordHash string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	rec := userRecord{
		ID:           uuid.NewString(),
		Email:        email,
		PasswordHash: passwordHash,
		CreatedAt:    time.Now().UTC(),
	}
	if err := r.db.Create(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) || strings.Contains(err.Error(), "UNIQUE") {
			return User{}, ErrEmailTaken
		}
		return User{}, err
	}
	return User{ID: rec.ID, Email: rec.Email, Hash: rec.PasswordHash, CreatedAt: rec.CreatedAt}, nil
}

func (r *Repository) UserByEmail(email string) (User, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	var rec userRecord
	if err := r.db.Where("email = ?", email).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return User{ID: rec.ID, Email: rec.Email, Hash: rec.PasswordHash, CreatedAt: rec.CreatedAt}, nil
}

func (r *Repository) UserByID(id string) (User, error) {
	var rec userRecord
	if err := r.db.Where("id = ?", id).First(&rec).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return User{}, ErrNotFound
		}
		return User{}, err
	}
	return User{ID: rec.ID, Email: rec.Email, Hash: rec.PasswordHash, CreatedAt: rec.CreatedAt}, nil
}
