package service

import (
	"net/http"

	commonerrors "github.com/fundedhub/backend/internal/common/errors"
)

var (
	// ErrInvalidCredentials deliberately covers both an unknown identifier
	// and a wrong password so callers cannot enumerate accounts.
	ErrInvalidCredentials = commonerrors.NewDomainError(
		"INVALID_CREDENTIALS",
		commonerrors.CategoryUnauthorized,
		http.StatusUnauthorized,
		"invalid credentials",
	)

	ErrDuplicateIdentity = commonerrors.NewDomainError(
		"DUPLICATE_IDENTITY",
		commonerrors.CategoryConflict,
		http.StatusConflict,
		"user already registered",
	)

	ErrValidation = commonerrors.NewDomainError(
		"VALIDATION_FAILED",
		commonerrors.CategoryValidation,
		http.StatusBadRequest,
		"validation failed",
	)
)
