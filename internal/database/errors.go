package database

import "github.com/openadm/restadmin/internal/errs"

// Constructor helpers so builder and scan code reads cleanly.
// Drivers have their own mapError translating native errors into *errs.Error.

func errNotFound(msg string) *errs.Error {
	return errs.New(errs.ErrKindNotFound, msg)
}

func errQuery(msg string, cause error) *errs.Error {
	return errs.Wrap(errs.ErrKindQueryFailed, msg, cause)
}

func errInvalidInput(msg string) *errs.Error {
	return errs.New(errs.ErrKindInvalidInput, msg)
}
