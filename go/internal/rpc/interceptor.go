package rpc

import (
	"context"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// AdminSecretHeader carries the shared admin secret on destructive calls.
const AdminSecretHeader = "X-Admin-Secret"

// NewLoggingInterceptor logs every unary call with its procedure, code and duration.
func NewLoggingInterceptor() connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			res, err := next(ctx, req)

			var ev *zerolog.Event
			if err != nil {
				code := connect.CodeOf(err)
				if code == connect.CodeInternal || code == connect.CodeUnknown {
					ev = log.Error().Err(err)
				} else {
					ev = log.Warn().Err(err)
				}
				ev = ev.Str("code", code.String())
			} else {
				ev = log.Debug().Str("code", "ok")
			}

			ev.Str("procedure", req.Spec().Procedure).
				Str("peer", req.Peer().Addr).
				Dur("duration", time.Since(start)).
				Msg("rpc")
			return res, err
		}
	}
}

// AdminSecret extracts the admin secret from request headers.
func AdminSecret(h http.Header) string {
	return h.Get(AdminSecretHeader)
}
