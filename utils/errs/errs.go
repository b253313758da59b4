package errs

import (
	"context"
	"errors"
	"net"
	"strings"

	"gorm.io/gorm"
)

// Sentinel errors for every expected failure mode. Services return these
// (possibly wrapped) instead of raw driver errors; handlers map them onto
// HTTP responses with errors.Is.
var (
	// ErrNotFound means the referenced record does not exist.
	ErrNotFound = errors.New("resource not found")

	// ErrConstraint covers uniqueness and foreign-key violations that are
	// not a duplicate submission.
	ErrConstraint = errors.New("constraint violation")

	// ErrDuplicateSubmission means the user already has a review or
	// testimonial on record.
	ErrDuplicateSubmission = errors.New("you have already submitted a review")

	// ErrValidation means the caller supplied invalid input.
	ErrValidation = errors.New("validation failed")

	// ErrConfirmationRequired means a destructive bulk action was attempted
	// without the explicit confirmation flag. No mutation has happened.
	ErrConfirmationRequired = errors.New("destructive action requires confirmation")

	// ErrNotEditable means the record exists but its status no longer
	// permits the requested edit (e.g. review already moderated).
	ErrNotEditable = errors.New("record can no longer be edited")

	// ErrInvalidTransition means the requested status change is not an
	// allowed lifecycle transition.
	ErrInvalidTransition = errors.New("invalid status transition")

	// ErrNetwork means we could not reach the database or an upstream
	// service at all.
	ErrNetwork = errors.New("connection failed, check your network and that the database is running")

	// ErrAuthorization means the caller lacks the role for the operation.
	ErrAuthorization = errors.New("not authorized for this operation")
)

// duplicateKeySignatures are substrings that identify a unique-constraint
// violation across the drivers we run against (pgx in production, sqlite in
// tests). gorm.ErrDuplicatedKey is only translated by some dialectors, so we
// match messages as a fallback.
var duplicateKeySignatures = []string{
	"duplicate key value violates unique constraint", // postgres
	"sqlstate 23505",                                 // postgres error code
	"unique constraint failed",                       // sqlite
}

// Normalize maps a raw persistence error onto the taxonomy. The original
// error stays in the chain so callers can still log the driver detail.
func Normalize(err error) error {
	if err == nil {
		return nil
	}

	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		return join(ErrNotFound, err)
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return join(ErrConstraint, err)
	case errors.Is(err, context.DeadlineExceeded):
		return join(ErrNetwork, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		return join(ErrNetwork, err)
	}

	msg := strings.ToLower(err.Error())
	for _, sig := range duplicateKeySignatures {
		if strings.Contains(msg, sig) {
			return join(ErrConstraint, err)
		}
	}
	if strings.Contains(msg, "connection refused") || strings.Contains(msg, "connection reset") {
		return join(ErrNetwork, err)
	}

	return err
}

// IsDuplicateKey reports whether err is a unique-constraint violation,
// before or after normalization.
func IsDuplicateKey(err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, ErrConstraint) || errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := strings.ToLower(err.Error())
	for _, sig := range duplicateKeySignatures {
		if strings.Contains(msg, sig) {
			return true
		}
	}
	return false
}

func join(sentinel, cause error) error {
	return errors.Join(sentinel, cause)
}
