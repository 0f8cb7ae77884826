package repositories

import (
	"errors"

	"gorm.io/gorm"
)

// Repository sentinel errors. Callers match them with errors.Is.
var (
	ErrNotFound     = errors.New("record not found")
	ErrDuplicateKey = errors.New("duplicate key")
)

// translate maps GORM errors onto the sentinels above and passes anything
// else through unchanged.
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicateKey
	default:
		return err
	}
}
