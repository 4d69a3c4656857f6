package service

import (
	"errors"
	"fmt"

	"github.com/mikepea/mapadmin/pkg/mapadmin/store"
)

var (
	// ErrNotFound is returned when a referenced user or group does not exist
	// or is outside the caller's groups
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned for a duplicate user name or group number
	ErrConflict = errors.New("already exists")
	// ErrForbidden is returned when the caller lacks the required role
	ErrForbidden = errors.New("access denied")
	// ErrValidation is returned for malformed input
	ErrValidation = errors.New("validation failed")
	// ErrMailDelivery is returned when a notification could not be sent.
	// The operation that triggered it has been rolled back.
	ErrMailDelivery = errors.New("mail delivery failed")
)

// translate maps store errors onto the sentinel errors of this package
func translate(err error, format string, args ...any) error {
	if err == nil {
		return nil
	}
	msg := fmt.Sprintf(format, args...)
	if errors.Is(err, store.ErrNotFound) {
		return fmt.Errorf("%s: %w", msg, ErrNotFound)
	}
	return fmt.Errorf("%s: %w", msg, err)
}

func isNotFound(err error) bool {
	return errors.Is(err, store.ErrNotFound)
}
