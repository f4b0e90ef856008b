package domain

import (
	"errors"
	"fmt"
)

// --- ERREURS DU DOMAINE ---

// Ledger
var (
	ErrDuplicateEdge       = errors.New("relationship already exists")
	ErrInvalidRelationship = errors.New("invalid relationship")
	ErrStorageFailure      = errors.New("storage failure")
)

// Credentials & Tokens
var (
	ErrHashingFailure   = errors.New("password hashing failed")
	ErrMalformedHash    = errors.New("malformed password hash")
	ErrInvalidSignature = errors.New("invalid token signature")
	ErrTokenExpired     = errors.New("token expired")
	ErrMalformedToken   = errors.New("malformed token")
)

// Identité & contenu
var (
	ErrUserNotFound       = errors.New("user not found")
	ErrPostNotFound       = errors.New("post not found")
	ErrEmailAlreadyExists = errors.New("email already exists")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidEmail       = errors.New("invalid email format")
	ErrInvalidUsername    = errors.New("username must be at least 3 characters")
	ErrInvalidName        = errors.New("name is required")
	ErrWeakPassword       = errors.New("password must be at least 6 characters")
	ErrEmptyContent       = errors.New("content is required")
)

// StorageError transporte la cause technique d'un échec du store.
// errors.Is(err, ErrStorageFailure) est vrai, et la cause reste accessible (context.Canceled, *pgconn.PgError...).
type StorageError struct {
	Op  string
	Err error
}

func NewStorageError(op string, err error) *StorageError {
	return &StorageError{Op: op, Err: err}
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrStorageFailure, e.Op, e.Err)
}

func (e *StorageError) Unwrap() error { return e.Err }

func (e *StorageError) Is(target error) bool { return target == ErrStorageFailure }
