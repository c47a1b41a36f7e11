package errs

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPredicates(t *testing.T) {
	tests := []struct {
		name string
		err  error
		pred func(error) bool
	}{
		{"not found", New(ErrKindNotFound, "row missing"), IsNotFound},
		{"timeout", New(ErrKindTimeout, "deadline"), IsTimeout},
		{"connection", New(ErrKindConnectionFailed, "refused"), IsConnectionFailed},
		{"query", New(ErrKindQueryFailed, "syntax"), IsQueryFailed},
		{"invalid input", New(ErrKindInvalidInput, "bad field"), IsInvalidInput},
		{"permission", New(ErrKindPermissionDenied, "nope"), IsPermissionDenied},
		{"rpc", New(ErrKindRPCFailed, "backend down"), IsRPCFailed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.True(t, tt.pred(tt.err))
			assert.False(t, tt.pred(errors.New("plain")))
		})
	}
}

func TestPredicates_WrappedChain(t *testing.T) {
	inner := Wrap(ErrKindNotFound, "no such row", errors.New("driver: no rows"))
	outer := fmt.Errorf("fetching user 7: %w", inner)

	assert.True(t, IsNotFound(outer))
	assert.False(t, IsQueryFailed(outer))
}

func TestError_Message(t *testing.T) {
	e := Wrap(ErrKindQueryFailed, "insert failed", errors.New("duplicate key"))
	assert.Equal(t, "[query_failed] insert failed: duplicate key", e.Error())

	plain := New(ErrKindNotFound, "gone")
	assert.Equal(t, "[not_found] gone", plain.Error())
}

func TestInvalid_CarriesFields(t *testing.T) {
	e := Invalid("payload rejected",
		FieldError{Code: "required", Field: "name", Message: "name is required"},
		FieldError{Code: "type_mismatch", Field: "active", Message: "expected bool"},
	)

	wrapped := fmt.Errorf("create: %w", e)
	fields := FieldsOf(wrapped)

	assert.Len(t, fields, 2)
	assert.Equal(t, "name", fields[0].Field)
	assert.True(t, IsInvalidInput(wrapped))
	assert.Nil(t, FieldsOf(errors.New("plain")))
}
