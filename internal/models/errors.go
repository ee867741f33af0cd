package models

import (
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrValidation is returned when a required field is missing or a field
	// is malformed. Nothing is written to the database.
	ErrValidation = errors.New("validation failed")

	// ErrIntegrity is returned when the database rejects a write because of
	// a uniqueness or foreign key constraint.
	ErrIntegrity = errors.New("integrity constraint violated")

	// ErrNotFound is returned when a lookup matches no row.
	ErrNotFound = errors.New("record not found")

	// ErrInvalidCredentials is returned by Authenticate for an unknown
	// username and for a wrong password alike.
	ErrInvalidCredentials = errors.New("invalid username or password")

	ErrCannotFollowSelf     = errors.New("cannot follow yourself")
	ErrCannotLikeOwnMessage = errors.New("cannot like your own message")
)

// translate maps gorm errors onto the package error kinds, keeping the
// original error in the chain.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, ErrValidation), errors.Is(err, ErrIntegrity), errors.Is(err, ErrNotFound):
		return err
	case errors.Is(err, gorm.ErrRecordNotFound):
		return fmt.Errorf("%w: %w", ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey), errors.Is(err, gorm.ErrForeignKeyViolated):
		return fmt.Errorf("%w: %w", ErrIntegrity, err)
	}
	return err
}
