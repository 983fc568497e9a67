package errors

import (
	stderrors "errors"
	"fmt"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorIsMatchesByType(t *testing.T) {
	err := fmt.Errorf("renew: %w", NotLoggedIn())

	assert.True(t, stderrors.Is(err, ErrNotLoggedIn))
	assert.False(t, stderrors.Is(err, ErrLogin))
	assert.Equal(t, ErrorTypeNotLoggedIn, TypeOf(err))
	assert.Equal(t, FamilyAuthFailure, FamilyOf(err))
}

func TestFamilyFor(t *testing.T) {
	tests := []struct {
		typ    ErrorType
		family Family
	}{
		{ErrorTypeNoUserFound, FamilyNotFound},
		{ErrorTypeNoBranchFound, FamilyNotFound},
		{ErrorTypeLogin, FamilyAuthFailure},
		{ErrorTypeHold, FamilyActionDenied},
		{ErrorTypeRenew, FamilyActionDenied},
		{ErrorTypeNotOnHold, FamilyPreconditionFailed},
		{ErrorTypeNotCheckedOut, FamilyPreconditionFailed},
		{ErrorTypeInvalidSearchType, FamilyInvalidInput},
		{ErrorTypeMissingFilterTerm, FamilyInvalidInput},
		{ErrorTypeMalformedPage, FamilyMalformedPage},
		{ErrorTypeNetwork, FamilyTransport},
		{ErrorType("bogus"), FamilyUnknown},
	}

	for _, tt := range tests {
		t.Run(string(tt.typ), func(t *testing.T) {
			assert.Equal(t, tt.family, FamilyFor(tt.typ))
		})
	}
}

func TestErrorMessage(t *testing.T) {
	assert.Equal(t, "login failed (invalid_credentials)", Login("invalid_credentials").Error())
	assert.Equal(t, "no matches found for zzz, did you mean MAIN?", NoBranchFound("zzz", "MAIN").Error())
	assert.Equal(t, "unexpected response from /x [status 500]", HTTPStatus(500, "/x").Error())

	netErr := Network(io.ErrUnexpectedEOF)
	assert.True(t, stderrors.Is(netErr, io.ErrUnexpectedEOF))
	assert.Contains(t, netErr.Error(), "unexpected EOF")
}

func TestTypeOfPlainError(t *testing.T) {
	assert.Equal(t, ErrorTypeUnknown, TypeOf(io.EOF))
	assert.Equal(t, FamilyUnknown, FamilyOf(nil))
}
