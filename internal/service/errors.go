package service

import (
	"errors"

	"connectrpc.com/connect"

	"github.com/mmynk/settleup/internal/models"
	"github.com/mmynk/settleup/internal/settle"
	"github.com/mmynk/settleup/internal/storage"
)

// toConnectError maps domain errors onto Connect codes: bad input is
// InvalidArgument, a missing record is NotFound, everything else (storage
// failures and strategy invariant violations) is Internal.
func toConnectError(err error) *connect.Error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}
	switch {
	case errors.Is(err, settle.ErrInvariantViolation):
		return connect.NewError(connect.CodeInternal, err)
	case errors.Is(err, models.ErrValidation):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, storage.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
