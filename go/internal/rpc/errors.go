package rpc

import (
	"context"
	"errors"

	"connectrpc.com/connect"
	"github.com/rs/zerolog/log"

	"github.com/mcdev12/partyvote/go/internal/apperr"
)

// ToConnectError maps an app error onto the matching connect code.
// Unclassified errors are logged and reported as internal.
func ToConnectError(err error) error {
	if err == nil {
		return nil
	}

	var v *apperr.ValidationError
	switch {
	case errors.As(err, &v):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, apperr.ErrNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, apperr.ErrUnauthorized):
		// No hint about which check failed.
		return connect.NewError(connect.CodeUnauthenticated, apperr.ErrUnauthorized)
	case errors.Is(err, apperr.ErrStaleVersion):
		return connect.NewError(connect.CodeAborted, err)
	case errors.Is(err, apperr.ErrPrecondition):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	}

	log.Error().Err(err).Msg("internal error")
	return connect.NewError(connect.CodeInternal, err)
}
