package storage

import "errors"

// ErrNotFound reports that the requested user row does not exist. Callers
// rely on it to distinguish first-time users from backend failures.
var ErrNotFound = errors.New("storage: not found")

// ErrInsufficientBalance reports that a guarded debit matched no row
// because the balance was lower than the requested amount.
var ErrInsufficientBalance = errors.New("storage: insufficient balance")
