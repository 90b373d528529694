package service

import (
	"errors"
	"fmt"
)

var (
	ErrEmailTaken         = errors.New("email already taken")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrInvalidToken       = errors.New("invalid or expired token")
)

// NotFoundError indicates a referenced record does not exist
type NotFoundError struct {
	Entity string
	ID     string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s %s not found", e.Entity, e.ID)
}

// PersistenceError indicates a store mutation did not report success.
// It carries the entity and operation so the boundary can log what failed.
type PersistenceError struct {
	Entity string
	Op     string
	Err    error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("%s %s failed: %v", e.Entity, e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// OracleError indicates the language model call failed or timed out.
// No game mutation is committed when one occurs.
type OracleError struct {
	Op  string
	Err error
}

func (e *OracleError) Error() string {
	return fmt.Sprintf("oracle %s failed: %v", e.Op, e.Err)
}

func (e *OracleError) Unwrap() error {
	return e.Err
}
