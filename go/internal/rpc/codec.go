package rpc

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodec lets connect handlers exchange plain Go structs as JSON.
// It replaces connect's default json codecs, which only accept
// protobuf messages.
type jsonCodec struct {
	name string
}

var _ connect.Codec = jsonCodec{}

func (c jsonCodec) Name() string { return c.name }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}

// HandlerOptions returns the options every service handler is built with.
func HandlerOptions() []connect.HandlerOption {
	return []connect.HandlerOption{
		connect.WithCodec(jsonCodec{name: "json"}),
		connect.WithCodec(jsonCodec{name: "json; charset=utf-8"}),
		connect.WithInterceptors(NewLoggingInterceptor()),
	}
}

// ReadOptions returns HandlerOptions plus the idempotency marker that lets
// polling clients call a read procedure with HTTP GET.
func ReadOptions() []connect.HandlerOption {
	return append(HandlerOptions(), connect.WithIdempotency(connect.IdempotencyNoSideEffects))
}
