package models

import (
	"errors"
	"fmt"
	"strings"

	"warbler/backend/internal/logger"

	"github.com/sirupsen/logrus"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	DefaultImageURL       = "/static/images/default-pic.png"
	DefaultHeaderImageURL = "/static/images/warbler-hero.jpg"
)

// User represents a Warbler account. Password holds a bcrypt hash, never the
// plaintext.
type User struct {
	ID             uint   `gorm:"primaryKey"`
	Email          string `gorm:"not null;unique" validate:"required,email"`
	Username       string `gorm:"not null;unique" validate:"required"`
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
	Password       string `gorm:"not null" json:"-" validate:"required"`

	// Deleting a user removes everything they wrote.
	Messages []Message `gorm:"constraint:OnDelete:CASCADE;"`
}

// String renders the user for logs, e.g. "<User #1: alice, alice@example.com>".
func (u User) String() string {
	return fmt.Sprintf("<User #%d: %s, %s>", u.ID, u.Username, u.Email)
}

// BeforeSave rejects a user with missing or malformed fields.
func (u *User) BeforeSave(tx *gorm.DB) error {
	return validateStruct(u)
}

// NewUser builds an unsaved user, filling in the default images.
func NewUser(username, email, passwordHash, imageURL string) *User {
	if imageURL == "" {
		imageURL = DefaultImageURL
	}
	return &User{
		Username:       username,
		Email:          email,
		Password:       passwordHash,
		ImageURL:       imageURL,
		HeaderImageURL: DefaultHeaderImageURL,
	}
}

type signupInput struct {
	Username string `validate:"required"`
	Email    string `validate:"required,email"`
	Password string `validate:"required"`
}

// Signup hashes password with bcrypt and inserts a new user. Missing fields
// and passwords over 72 bytes fail with ErrValidation before anything is hashed or written; a taken
// username or email fails with ErrIntegrity.
func Signup(db *gorm.DB, username, email, password, imageURL string) (*User, error) {
	if err := validateStruct(signupInput{Username: username, Email: email, Password: password}); err != nil {
		return nil, err
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if errors.Is(err, bcrypt.ErrPasswordTooLong) {
		return nil, fmt.Errorf("%w: %w", ErrValidation, err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := NewUser(username, email, string(hashed), imageURL)
	if err := db.Omit(clause.Associations).Create(user).Error; err != nil {
		return nil, translate(err)
	}

	logFor(db).WithField("user_id", user.ID).Debug("user signed up")
	return user, nil
}

// Authenticate returns the user whose username and password match. An unknown
// username and a wrong password both yield ErrInvalidCredentials.
func Authenticate(db *gorm.DB, username, password string) (*User, error) {
	var user User
	err := db.Where("username = ?", username).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, translate(err)
	}

	if !user.CheckPassword(password) {
		return nil, ErrInvalidCredentials
	}
	return &user, nil
}

// CheckPassword reports whether password matches the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)) == nil
}

// ProfileUpdate carries the editable profile fields. Empty image fields reset
// to the defaults.
type ProfileUpdate struct {
	Username       string
	Email          string
	ImageURL       string
	HeaderImageURL string
	Bio            string
	Location       string
}

// UpdateProfile applies p to user after re-checking the current password.
// user is left untouched when the update fails. A deleted user reports
// ErrNotFound and is not recreated.
func UpdateProfile(db *gorm.DB, user *User, currentPassword string, p ProfileUpdate) error {
	if !user.CheckPassword(currentPassword) {
		return ErrInvalidCredentials
	}

	updated := *user
	updated.Username = p.Username
	updated.Email = p.Email
	updated.ImageURL = p.ImageURL
	if updated.ImageURL == "" {
		updated.ImageURL = DefaultImageURL
	}
	updated.HeaderImageURL = p.HeaderImageURL
	if updated.HeaderImageURL == "" {
		updated.HeaderImageURL = DefaultHeaderImageURL
	}
	updated.Bio = p.Bio
	updated.Location = p.Location

	res := db.Model(&updated).
		Select("username", "email", "image_url", "header_image_url", "bio", "location").
		Updates(&updated)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	*user = updated
	return nil
}

// DeleteUser removes user. The schema cascades their messages, likes and
// follow edges in both directions.
func DeleteUser(db *gorm.DB, user *User) error {
	res := db.Delete(&User{}, user.ID)
	if res.Error != nil {
		return translate(res.Error)
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	logFor(db).WithField("user_id", user.ID).Debug("user deleted")
	return nil
}

// GetUser loads a user by primary key.
func GetUser(db *gorm.DB, id uint) (*User, error) {
	var user User
	if err := db.First(&user, id).Error; err != nil {
		return nil, translate(err)
	}
	return &user, nil
}

// SearchUsers returns one page of users whose username contains q, ignoring
// case, ordered by username. An empty q matches everyone.
func SearchUsers(db *gorm.DB, q string, page, limit int) (Page[User], error) {
	query := db.Model(&User{}).Order("username")
	if q != "" {
		query = query.Where("LOWER(username) LIKE ?", "%"+strings.ToLower(q)+"%")
	}
	return paginate[User](query, page, limit)
}

// MessageCount returns how many messages u has written.
func (u *User) MessageCount(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Model(&Message{}).Where("user_id = ?", u.ID).Count(&n).Error
	return n, translate(err)
}

// LikeCount returns how many messages u has liked.
func (u *User) LikeCount(db *gorm.DB) (int64, error) {
	var n int64
	err := db.Model(&Like{}).Where("user_id = ?", u.ID).Count(&n).Error
	return n, translate(err)
}

func logFor(db *gorm.DB) *logrus.Entry {
	return logger.FromContext(db.Statement.Context)
}
